package miditrig

import (
	"math"
	"testing"

	"gitlab.com/gomidi/midi/v2"
)

func TestPlaybackRate(t *testing.T) {
	cases := []struct {
		name string
		note int
		root int
		bend float64
		want float64
	}{
		{"root note", 60, 60, 0, 1},
		{"octave up", 72, 60, 0, 2},
		{"octave down", 48, 60, 0, 0.5},
		{"major sixth up", 69, 60, 0, math.Exp2(9.0 / 12)},
		{"bend one semitone", 60, 60, 1, math.Exp2(1.0 / 12)},
		{"bend cancels interval", 62, 60, -2, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := playbackRate(tc.note, tc.root, tc.bend)
			if math.Abs(got-tc.want) > 1e-12 {
				t.Errorf("playbackRate(%d, %d, %g) = %g, want %g",
					tc.note, tc.root, tc.bend, got, tc.want)
			}
		})
	}
	if playbackRate(60, 60, 0) != 1 {
		t.Error("unison with no bend must be exactly 1")
	}
}

func TestApplyBend_SemitoneMapping(t *testing.T) {
	f := newFixture(t, Config{}, inst(0, 127, "kick.wav"))

	cases := []struct {
		raw  uint16
		want float64
	}{
		{16383, 2}, // full up with the default ±2 range
		{1, -2},    // full down
		{8192 + 4096, 4096.0 / 8191 * 2},
	}
	for _, tc := range cases {
		f.engine.applyBend(tc.raw)
		if got := f.engine.bend(); math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("applyBend(%d): bend = %g, want %g", tc.raw, got, tc.want)
		}
	}
}

func TestApplyBend_BucketSuppression(t *testing.T) {
	f := newFixture(t, Config{}, inst(0, 127, "kick.wav"))

	f.engine.applyBend(8192)
	first := f.engine.bend()
	if first != 0 {
		t.Fatalf("centered wheel: bend = %g, want 0", first)
	}

	// 8200 shares the 64-wide bucket with 8192; the value must not move.
	f.engine.applyBend(8200)
	if got := f.engine.bend(); got != first {
		t.Fatalf("same-bucket wheel chatter changed bend: %g", got)
	}
	if got := f.hook.bendCount(); got != 1 {
		t.Fatalf("want 1 bend callback, got %d", got)
	}

	// 8260 lands in the next bucket and takes effect.
	f.engine.applyBend(8260)
	if got := f.engine.bend(); got == first {
		t.Fatal("new bucket must update the bend value")
	}
	if got := f.hook.bendCount(); got != 2 {
		t.Fatalf("want 2 bend callbacks, got %d", got)
	}
}

func TestApplyBend_CustomRange(t *testing.T) {
	f := newFixture(t, Config{PitchBendRange: 12}, inst(0, 127, "kick.wav"))

	f.engine.applyBend(16383)
	if got := f.engine.bend(); math.Abs(got-12) > 1e-9 {
		t.Fatalf("full wheel with ±12 range: bend = %g, want 12", got)
	}
}

func TestModulationTick_AppliesRateToLiveVoices(t *testing.T) {
	f := newFixture(t, Config{}, inst(0, 127, "kick.wav"))

	f.events.Push(1, midi.NoteOn(0, 60, 100))
	f.events.Push(2, midi.NoteOn(0, 67, 100))
	f.drain(t)

	f.events.Push(3, midi.Pitchbend(0, 8191)) // full up, +2 semitones
	f.drain(t)
	if err := f.engine.ModulateOnce(); err != nil {
		t.Fatalf("modulate: %v", err)
	}

	want60 := playbackRate(60, 60, 2)
	want67 := playbackRate(67, 60, 2)
	for _, spawned := range f.player.Spawned {
		want := want60
		if spawned.Req.Rate > 1 { // the 67 voice spawned above unison
			want = want67
		}
		if got := spawned.Rate(); math.Abs(got-want) > 1e-9 {
			t.Errorf("voice rate = %g, want %g", got, want)
		}
	}
}

func TestModulationTick_SkipsDestroyedVoices(t *testing.T) {
	f := newFixture(t, Config{}, inst(0, 127, "kick.wav"))

	f.events.Push(1, midi.NoteOn(0, 60, 100))
	f.drain(t)
	f.player.Spawned[0].Invalidate()

	f.events.Push(2, midi.Pitchbend(0, 8191))
	f.drain(t)
	if err := f.engine.ModulateOnce(); err != nil {
		t.Fatalf("modulate: %v", err)
	}

	if got := len(f.player.Spawned[0].Rates); got != 0 {
		t.Fatalf("destroyed instance must not be modulated, got %d rate updates", got)
	}
}

func TestBendSampledAtSpawnTime(t *testing.T) {
	f := newFixture(t, Config{}, inst(0, 127, "kick.wav"))

	f.events.Push(1, midi.Pitchbend(0, 8191)) // +2 semitones
	f.events.Push(2, midi.NoteOn(0, 60, 100))
	f.drain(t)

	if f.player.Count() != 1 {
		t.Fatalf("want 1 spawn, got %d", f.player.Count())
	}
	want := playbackRate(60, 60, 2)
	if got := f.player.Spawned[0].Req.Rate; math.Abs(got-want) > 1e-9 {
		t.Fatalf("spawn rate must include the held bend: got %g, want %g", got, want)
	}
}
