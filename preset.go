package gosinesynth

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/GeoffreyPlitt/debuggo"
)

var presetDebug = debuggo.Debug("sinesynth:preset")

// Preset is a set of control values read from a preset file.
//
// The format is plain text: an optional <synth> header followed by
// name=value opcodes, several per line if wanted, with // comments:
//
//	<synth>
//	volume=-6 pan=0.25   // dB, -1..1
//	attack=10 hold=0 decay=200 sustain=0.6 release=300
type Preset struct {
	Name    string
	Opcodes map[string]string // opcode name -> value
}

// ParsePresetFile parses a preset file
func ParsePresetFile(filePath string) (*Preset, error) {
	presetDebug("Starting to parse preset file: %s", filePath)

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open preset file: %w", err)
	}
	defer file.Close()

	preset, err := ParsePreset(file)
	if err != nil {
		return nil, err
	}
	if preset.Name == "" {
		base := filepath.Base(filePath)
		preset.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return preset, nil
}

// ParsePreset parses preset text from r. Unknown opcodes and lines outside
// a section are logged and skipped, not rejected.
func ParsePreset(r io.Reader) (*Preset, error) {
	preset := &Preset{
		Opcodes: make(map[string]string),
	}

	scanner := bufio.NewScanner(r)
	lineNum := 0
	inSection := true // a header is optional

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}

		if strings.HasPrefix(line, "<") && strings.HasSuffix(line, ">") {
			sectionType := strings.ToLower(strings.Trim(line, "<>"))
			inSection = sectionType == "synth"
			if !inSection {
				presetDebug("Warning: Unknown section type: %s", sectionType)
			}
			continue
		}

		if !inSection {
			presetDebug("Warning: Opcode found outside of <synth> section at line %d: %s", lineNum, line)
			continue
		}

		parseOpcodes(line, preset, lineNum)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading preset: %w", err)
	}

	presetDebug("Parsing complete. Found %d opcodes", len(preset.Opcodes))
	return preset, nil
}

// parseOpcodes parses a line of name=value pairs into the preset
func parseOpcodes(line string, preset *Preset, lineNum int) {
	for _, part := range strings.Fields(line) {
		// Skip comments that might appear inline
		if strings.HasPrefix(part, "//") {
			break
		}

		equalIndex := strings.Index(part, "=")
		if equalIndex == -1 {
			continue
		}

		opcode := strings.ToLower(strings.TrimSpace(part[:equalIndex]))
		value := strings.TrimSpace(part[equalIndex+1:])

		if opcode == "name" {
			preset.Name = value
			continue
		}
		if _, err := ParamByName(opcode); err != nil {
			presetDebug("Warning: Unknown opcode '%s' at line %d", opcode, lineNum)
			continue
		}
		preset.Opcodes[opcode] = value
		presetDebug("Parsed opcode: %s = %s", opcode, value)
	}
}

// GetFloatOpcode returns a float opcode value, or defaultValue if not found or invalid
func (p *Preset) GetFloatOpcode(opcode string, defaultValue float64) float64 {
	if p == nil || p.Opcodes == nil {
		return defaultValue
	}

	value, exists := p.Opcodes[opcode]
	if !exists {
		return defaultValue
	}

	floatVal, err := strconv.ParseFloat(value, 64)
	if err != nil {
		presetDebug("Warning: Invalid float value for opcode %s: %s", opcode, value)
		return defaultValue
	}

	return floatVal
}

// Apply writes every value the preset sets into controls. Controls the
// preset does not mention keep their current values.
func (p *Preset) Apply(controls *Controls) {
	for id := ParamID(0); id < numParams; id++ {
		current := float64(controls.Get(id))
		controls.Set(id, float32(p.GetFloatOpcode(id.String(), current)))
	}
	presetDebug("Applied preset %q", p.Name)
}
