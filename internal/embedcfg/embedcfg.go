// Package embedcfg extracts a media file path from an instrument's embedded
// Base64 configuration blob. Some hosts do not expose a sample path as a
// readable parameter and instead ship it inside an opaque preset chunk; this
// decoder is the fallback the trigger engine uses for those instruments. It
// is deliberately isolated from the engine so the byte-level plumbing stays
// independently testable.
package embedcfg

import (
	"encoding/base64"
	"errors"
	"strings"
)

// mediaExtensions are the file extensions accepted as a playable media path.
var mediaExtensions = []string{
	".wav", ".aif", ".aiff", ".flac", ".ogg", ".mp3",
	".mp4", ".mov", ".avi", ".mkv", ".webm",
}

var (
	// ErrNoPath is returned when the decoded blob contains no recognizable
	// media file path.
	ErrNoPath = errors.New("no media path in config blob")
	// ErrBadBlob is returned when the blob is not valid Base64.
	ErrBadBlob = errors.New("config blob is not valid base64")
)

// MediaPath decodes a Base64 configuration blob and returns the first token
// that looks like a media file path. Tokens are the printable runs of the
// decoded payload; binary framing bytes between them are treated as
// separators.
func MediaPath(blob string) (string, error) {
	blob = strings.TrimSpace(blob)
	if blob == "" {
		return "", ErrBadBlob
	}

	raw, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		// Some hosts strip the padding when embedding.
		raw, err = base64.RawStdEncoding.DecodeString(blob)
	}
	if err != nil {
		return "", ErrBadBlob
	}

	for _, token := range printableRuns(raw) {
		// Tokens may be key=value pairs; the path is the value part.
		if i := strings.LastIndexByte(token, '='); i >= 0 {
			token = token[i+1:]
		}
		if isMediaPath(token) {
			return token, nil
		}
	}
	return "", ErrNoPath
}

// printableRuns splits raw bytes into maximal runs of printable characters.
func printableRuns(raw []byte) []string {
	var runs []string
	start := -1
	for i, b := range raw {
		printable := b >= 0x20 && b < 0x7f
		if printable && start < 0 {
			start = i
		}
		if !printable && start >= 0 {
			runs = append(runs, string(raw[start:i]))
			start = -1
		}
	}
	if start >= 0 {
		runs = append(runs, string(raw[start:]))
	}
	return runs
}

func isMediaPath(token string) bool {
	if len(token) < 5 {
		return false
	}
	if !strings.ContainsAny(token, `/\`) {
		return false
	}
	lower := strings.ToLower(token)
	for _, ext := range mediaExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
