// Command miditrig runs the trigger engine against the portaudio render
// backend. Instruments come from a JSON config; events come from a live
// portmidi input or from an interactive REPL that synthesizes them.
//
// Usage:
//
//	miditrig -config instruments.json            # REPL-driven
//	miditrig -config instruments.json -midi 3    # live MIDI input
//	miditrig -list                               # list MIDI inputs
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/rakyll/portmidi"
	"gitlab.com/gomidi/midi/v2"

	"github.com/shaban/miditrig"
	"github.com/shaban/miditrig/host"
	"github.com/shaban/miditrig/miditap"
	"github.com/shaban/miditrig/render"
)

func main() {
	var (
		configPath = flag.String("config", "instruments.json", "instrument config file")
		midiDevice = flag.Int("midi", -1, "portmidi input device id (-1 for REPL only)")
		listInputs = flag.Bool("list", false, "list MIDI input devices and exit")
	)
	flag.Parse()

	if *listInputs {
		inputs, err := miditap.Inputs()
		if err != nil {
			fatal(err)
		}
		for _, in := range inputs {
			fmt.Println(in)
		}
		return
	}

	instruments, err := loadInstruments(*configPath)
	if err != nil {
		fatal(err)
	}

	player, err := render.New()
	if err != nil {
		fatal(err)
	}
	defer player.Close()
	if err := player.Start(); err != nil {
		fatal(err)
	}

	buf := miditap.NewBuffer()
	var events host.EventSource = buf
	if *midiDevice >= 0 {
		tap, err := miditap.Open(portmidi.DeviceID(*midiDevice))
		if err != nil {
			fatal(err)
		}
		defer tap.Close()
		events = tap
		buf = tap.Buffer()
	}

	engine, err := miditrig.NewEngine(miditrig.Config{}, miditrig.Host{
		Events:      events,
		Instruments: instruments,
		Player:      player,
		Transport:   player,
	})
	if err != nil {
		fatal(err)
	}
	defer engine.Close()

	if err := engine.Start(); err != nil {
		fatal(err)
	}

	if err := repl(engine, buf); err != nil {
		fatal(err)
	}
	_ = engine.AllNotesOff()
}

func repl(engine *miditrig.Engine, buf *miditap.Buffer) error {
	rl, err := readline.New("miditrig> ")
	if err != nil {
		return err
	}
	defer rl.Close()

	bendRange := engine.Config().PitchBendRange

	for {
		line, err := rl.Readline()
		if err != nil { // io.EOF or interrupt
			return nil
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "on":
			note, vel, err := noteArgs(fields[1:], 100)
			if err != nil {
				fmt.Println(err)
				continue
			}
			buf.Feed(midi.NoteOn(0, note, vel))
		case "off":
			note, _, err := noteArgs(fields[1:], 0)
			if err != nil {
				fmt.Println(err)
				continue
			}
			buf.Feed(midi.NoteOff(0, note))
		case "bend":
			if len(fields) < 2 {
				fmt.Println("usage: bend <semitones>")
				continue
			}
			semis, err := strconv.ParseFloat(fields[1], 64)
			if err != nil {
				fmt.Println(err)
				continue
			}
			buf.Feed(midi.Pitchbend(0, bendValue(semis, bendRange)))
		case "status":
			data, err := engine.StatusJSON()
			if err != nil {
				fmt.Println(err)
				continue
			}
			fmt.Println(string(data))
		case "voices":
			for _, v := range engine.VoiceList() {
				fmt.Printf("note %3d root %3d vel %3d start %.3fs valid=%v\n",
					v.Note, v.Root, v.Velocity, v.StartTime, v.Valid)
			}
		case "quit", "exit":
			return nil
		default:
			fmt.Println("commands: on <note> [vel], off <note>, bend <semitones>, status, voices, quit")
		}
	}
}

func noteArgs(args []string, defaultVel uint8) (uint8, uint8, error) {
	if len(args) < 1 {
		return 0, 0, fmt.Errorf("missing note number")
	}
	note, err := strconv.Atoi(args[0])
	if err != nil || note < 0 || note > 127 {
		return 0, 0, fmt.Errorf("bad note %q", args[0])
	}
	vel := int(defaultVel)
	if len(args) > 1 {
		vel, err = strconv.Atoi(args[1])
		if err != nil || vel < 0 || vel > 127 {
			return 0, 0, fmt.Errorf("bad velocity %q", args[1])
		}
	}
	return uint8(note), uint8(vel), nil
}

// bendValue converts semitones into the relative 14-bit wheel value gomidi
// expects, clamped to the configured range.
func bendValue(semis, bendRange float64) int16 {
	if semis > bendRange {
		semis = bendRange
	}
	if semis < -bendRange {
		semis = -bendRange
	}
	return int16(semis / bendRange * 8191)
}

// sampleDef is one instrument entry in the config file. Root is the MIDI
// note at which the sample plays untransposed.
type sampleDef struct {
	Low    uint8   `json:"low"`
	High   uint8   `json:"high"`
	Path   string  `json:"path"`
	Root   uint8   `json:"root"`
	Start  float64 `json:"start"`
	Length float64 `json:"length"`
}

// fileInstrument adapts a sampleDef to host.Instrument. The engine derives
// the root note from the note-start parameter and the formatted pitch
// offset, so the offset is precomputed as low-root.
type fileInstrument struct {
	def sampleDef
}

func (f *fileInstrument) NoteRange() (uint8, uint8) { return f.def.Low, f.def.High }
func (f *fileInstrument) Path() string              { return f.def.Path }

func (f *fileInstrument) Param(index host.ParamIndex) float64 {
	switch index {
	case host.ParamStartOffset:
		return f.def.Start
	case host.ParamLength:
		return f.def.Length
	case host.ParamNoteStart:
		return float64(f.def.Low) / 127
	}
	return 0
}

func (f *fileInstrument) ParamFormatted(index host.ParamIndex) string {
	if index == host.ParamPitchOffset {
		return fmt.Sprintf("%d st", int(f.def.Low)-int(f.def.Root))
	}
	return ""
}

type fileInstruments struct {
	list []host.Instrument
}

func (s *fileInstruments) Instruments() []host.Instrument { return s.list }

func loadInstruments(path string) (*fileInstruments, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var defs []sampleDef
	if err := json.Unmarshal(data, &defs); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if len(defs) == 0 {
		return nil, fmt.Errorf("config %s defines no instruments", path)
	}

	src := &fileInstruments{}
	for i, def := range defs {
		if def.High < def.Low {
			return nil, fmt.Errorf("instrument %d: note range %d-%d is inverted", i, def.Low, def.High)
		}
		if def.Length <= 0 {
			defs[i].Length = 1
			def.Length = 1
		}
		src.list = append(src.list, &fileInstrument{def: def})
	}
	return src, nil
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "miditrig:", err)
	os.Exit(1)
}
