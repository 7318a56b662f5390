package testutil

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	wav "github.com/youpy/go-wav"
)

// WriteWav writes a mono 16-bit sine fixture of the given duration into dir
// and returns its path.
func WriteWav(t *testing.T, dir, name string, seconds float64, sampleRate int) string {
	t.Helper()

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create fixture: %v", err)
	}
	defer f.Close()

	n := int(seconds * float64(sampleRate))
	w := wav.NewWriter(f, uint32(n), 1, uint32(sampleRate), 16)

	samples := make([]wav.Sample, n)
	for i := range samples {
		v := math.Sin(2 * math.Pi * 440 * float64(i) / float64(sampleRate))
		samples[i].Values[0] = int(v * 8000)
	}
	if err := w.WriteSamples(samples); err != nil {
		t.Fatalf("write fixture samples: %v", err)
	}
	return path
}
