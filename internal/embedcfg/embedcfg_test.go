package embedcfg

import (
	"encoding/base64"
	"errors"
	"testing"
)

func blob(parts ...string) string {
	var raw []byte
	for _, p := range parts {
		raw = append(raw, p...)
		raw = append(raw, 0)
	}
	return base64.StdEncoding.EncodeToString(raw)
}

func TestMediaPath_ExtractsFirstPath(t *testing.T) {
	cases := []struct {
		name string
		blob string
		want string
	}{
		{"key value pair", blob("SAMPLE=media/kick.wav"), "media/kick.wav"},
		{"plain path token", blob("ver2", "/projects/loops/break.WAV", "gain=0.5"), "/projects/loops/break.WAV"},
		{"windows separators", blob("x", `C:\clips\intro.mp4`), `C:\clips\intro.mp4`},
		{"skips non-media tokens", blob("config/settings.ini", "media/hit.flac"), "media/hit.flac"},
		{"unpadded base64", base64.RawStdEncoding.EncodeToString([]byte("a/b.wav\x00")), "a/b.wav"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := MediaPath(tc.blob)
			if err != nil {
				t.Fatalf("MediaPath: %v", err)
			}
			if got != tc.want {
				t.Fatalf("want %q, got %q", tc.want, got)
			}
		})
	}
}

func TestMediaPath_Errors(t *testing.T) {
	cases := []struct {
		name string
		blob string
		want error
	}{
		{"empty", "", ErrBadBlob},
		{"not base64", "!!not base64!!", ErrBadBlob},
		{"no path inside", blob("gain=0.5", "loop=true"), ErrNoPath},
		{"extension without separator", blob("kick.wav"), ErrNoPath},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := MediaPath(tc.blob); !errors.Is(err, tc.want) {
				t.Fatalf("want %v, got %v", tc.want, err)
			}
		})
	}
}
