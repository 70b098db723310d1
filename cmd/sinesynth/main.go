// Command sinesynth renders, plays or hosts the sine synth engine.
//
//	sinesynth render [-preset file] [-o out.wav] [-rate 48000] song.mid
//	sinesynth play   [-preset file] song.mid
//	sinesynth jack   [-preset file] [-name sinesynth]   (needs -tags jack)
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/GeoffreyPlitt/debuggo"

	synth "gosinesynth"
)

var debug = debuggo.Debug("sinesynth:cmd")

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "render":
		err = runRender(os.Args[2:])
	case "play":
		err = runPlay(os.Args[2:])
	case "jack":
		err = runJack(os.Args[2:])
	case "-h", "-help", "--help", "help":
		usage()
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", os.Args[1])
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: sinesynth <render|play|jack> [flags] [song.mid]")
	fmt.Fprintln(os.Stderr, "run 'sinesynth <command> -h' for the flags of a command")
}

// commonFlags are shared by every command
type commonFlags struct {
	preset    string
	overrides map[synth.ParamID]float32
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	c.overrides = make(map[synth.ParamID]float32)
	fs.StringVar(&c.preset, "preset", "", "preset file to load")
	fs.Func("set", "override a control, name=value (repeatable; names: volume pan attack hold decay sustain release)", func(s string) error {
		name, value, ok := strings.Cut(s, "=")
		if !ok {
			return fmt.Errorf("expected name=value, got %q", s)
		}
		id, err := synth.ParamByName(name)
		if err != nil {
			return err
		}
		v, err := strconv.ParseFloat(value, 32)
		if err != nil {
			return fmt.Errorf("invalid value for %s: %w", name, err)
		}
		c.overrides[id] = float32(v)
		return nil
	})
}

// newPlayer creates a player with the preset and overrides applied
func (c *commonFlags) newPlayer(clientName string) (*synth.Player, error) {
	player, err := synth.NewPlayer(c.preset, clientName)
	if err != nil {
		return nil, err
	}
	for id, v := range c.overrides {
		player.SetParameter(id, v)
	}
	return player, nil
}

func runRender(args []string) error {
	fs := flag.NewFlagSet("render", flag.ExitOnError)
	var common commonFlags
	common.register(fs)
	output := fs.String("o", "out.wav", "output file (.wav or .flac)")
	rate := fs.Int("rate", 48000, "sample rate in Hz")
	block := fs.Int("block", synth.DefaultBlockSize, "block size in frames")
	tail := fs.Duration("tail", 2*time.Second, "time rendered after the last event")
	fs.Parse(args)

	if fs.NArg() != 1 {
		return fmt.Errorf("render needs exactly one MIDI file")
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

	tailFrames := int(tail.Seconds() * float64(*rate))
	rendering, err := player.RenderScore(score, *block, tailFrames)
	if err != nil {
		return err
	}

	if err := synth.WriteRendering(*output, rendering); err != nil {
		return err
	}

	fmt.Printf("Rendered %s: %d events, %.2f seconds\n",
		*output, len(score.Events), float64(rendering.Frames())/float64(*rate))
	return nil
}

func runJack(args []string) error {
	fs := flag.NewFlagSet("jack", flag.ExitOnError)
	var common commonFlags
	common.register(fs)
	name := fs.String("name", "sinesynth", "JACK client name")
	fs.Parse(args)

	player, err := common.newPlayer(*name)
	if err != nil {
		return err
	}
	defer player.StopAndClose()

	if !player.Live() {
		return fmt.Errorf("JACK client could not be started (built without '-tags jack' or no JACK server)")
	}

	fmt.Printf("JACK client %q running, press Ctrl+C to quit\n", *name)
	waitForSignal()
	return nil
}

func waitForSignal() {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	s := <-sig
	debug("Received %v, shutting down", s)
}
