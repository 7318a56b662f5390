package source

import (
	"errors"
	"io"
	"os"

	wav "github.com/youpy/go-wav"

	"github.com/shaban/miditrig/host"
)

// PCM is implemented by sources that expose their decoded sample data, for
// playback backends that render audio themselves rather than handing the
// file to an external timeline.
type PCM interface {
	host.Source
	// SampleRate returns the source sample rate in Hz.
	SampleRate() float64
	// Samples returns the decoded mono sample data in [-1,1].
	Samples() []float64
}

// WavDecoder decodes RIFF/WAVE files into in-memory PCM sources. It is the
// default decoder when the host does not supply its own.
type WavDecoder struct{}

// Decode reads the whole file at path into a mono float buffer. Multi-channel
// files use channel 0.
func (WavDecoder) Decode(path string) (host.Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := wav.NewReader(f)
	format, err := r.Format()
	if err != nil {
		return nil, err
	}
	if format.SampleRate == 0 {
		return nil, errors.New("wav header reports zero sample rate")
	}

	src := &wavSource{path: path, rate: float64(format.SampleRate)}
	for {
		samples, err := r.ReadSamples()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		for _, s := range samples {
			src.samples = append(src.samples, r.FloatValue(s, 0))
		}
	}

	src.length = float64(len(src.samples)) / src.rate
	return src, nil
}

type wavSource struct {
	path    string
	samples []float64
	rate    float64
	length  float64
}

func (s *wavSource) Path() string        { return s.path }
func (s *wavSource) Length() float64     { return s.length }
func (s *wavSource) SampleRate() float64 { return s.rate }
func (s *wavSource) Samples() []float64  { return s.samples }
