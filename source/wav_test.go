package source_test

import (
	"math"
	"testing"

	"github.com/shaban/miditrig/internal/testutil"
	"github.com/shaban/miditrig/source"
)

func TestWavDecoder_DecodesLengthAndPCM(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteWav(t, dir, "tone.wav", 0.5, 44100)

	src, err := source.WavDecoder{}.Decode(path)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if math.Abs(src.Length()-0.5) > 0.01 {
		t.Fatalf("want ~0.5s, got %gs", src.Length())
	}

	pcm, ok := src.(source.PCM)
	if !ok {
		t.Fatal("wav source should expose PCM data")
	}
	if pcm.SampleRate() != 44100 {
		t.Fatalf("want sample rate 44100, got %g", pcm.SampleRate())
	}
	if len(pcm.Samples()) != 22050 {
		t.Fatalf("want 22050 samples, got %d", len(pcm.Samples()))
	}

	peak := 0.0
	for _, s := range pcm.Samples() {
		if a := math.Abs(s); a > peak {
			peak = a
		}
	}
	if peak == 0 {
		t.Fatal("decoded fixture is silent")
	}
	if peak > 1 {
		t.Fatalf("samples not normalized: peak %g", peak)
	}
}

func TestWavDecoder_MissingFile(t *testing.T) {
	if _, err := (source.WavDecoder{}).Decode("does-not-exist.wav"); err == nil {
		t.Fatal("want error for missing file")
	}
}
