package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/ebitengine/oto/v3"
	"golang.org/x/term"

	synth "gosinesynth"
)

func runPlay(args []string) error {
	fs := flag.NewFlagSet("play", flag.ExitOnError)
	var common commonFlags
	common.register(fs)
	rate := fs.Int("rate", 48000, "sample rate in Hz")
	block := fs.Int("block", synth.DefaultBlockSize, "block size in frames")
	fs.Parse(args)

	if fs.NArg() != 1 {
		return fmt.Errorf("play needs exactly one MIDI file")
	}

	score, err := synth.LoadScore(fs.Arg(0), float64(*rate))
	if err != nil {
		return err
	}

	player, err := common.newPlayer("")
	if err != nil {
		return err
	}
	defer player.StopAndClose()

	engine, err := player.NewSynth(float64(*rate))
	if err != nil {
		return err
	}

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   *rate,
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
	})
	if err != nil {
		return fmt.Errorf("failed to open audio device: %w", err)
	}
	<-ready

	stream := synth.NewStream(engine, score, *block)
	out := ctx.NewPlayer(stream)
	out.Play()
	debug("Playback started (%d events)", len(score.Events))

	showProgress := term.IsTerminal(int(os.Stdout.Fd()))
	total := time.Duration(float64(score.Length()) / float64(*rate) * float64(time.Second))
	for out.IsPlaying() {
		if showProgress {
			elapsed := time.Duration(float64(stream.Played()) / float64(*rate) * float64(time.Second))
			fmt.Printf("\r%s / %s", elapsed.Truncate(100*time.Millisecond), total.Truncate(100*time.Millisecond))
		}
		time.Sleep(50 * time.Millisecond)
	}
	if showProgress {
		fmt.Println()
	}

	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to close audio player: %w", err)
	}
	fmt.Println("Playback finished")
	return nil
}
