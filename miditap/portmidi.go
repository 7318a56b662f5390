package miditap

import (
	"fmt"
	"time"

	"github.com/rakyll/portmidi"

	"github.com/shaban/miditrig/host"
)

// Tap polls a portmidi input stream and feeds captured messages into a
// Buffer. One Tap owns one stream; close it before opening another on the
// same device.
type Tap struct {
	buf    *Buffer
	stream *portmidi.Stream
	stop   chan struct{}
	done   chan struct{}
}

// pollInterval is how often the capture goroutine checks the stream. MIDI
// hardware delivers at most ~1 message per ms per cable, so a few ms keeps
// the portmidi buffer far from overflow.
const pollInterval = 2 * time.Millisecond

// readChunk bounds how many events one poll pulls from portmidi.
const readChunk = 64

// Open initializes portmidi (if needed) and starts capturing from the given
// input device into a fresh Buffer.
func Open(device portmidi.DeviceID) (*Tap, error) {
	if err := portmidi.Initialize(); err != nil {
		return nil, fmt.Errorf("portmidi initialize: %w", err)
	}
	stream, err := portmidi.NewInputStream(device, 1024)
	if err != nil {
		return nil, fmt.Errorf("open midi input %d: %w", device, err)
	}

	t := &Tap{
		buf:    NewBuffer(),
		stream: stream,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go t.capture()
	return t, nil
}

// OpenDefault captures from the system's default MIDI input device.
func OpenDefault() (*Tap, error) {
	if err := portmidi.Initialize(); err != nil {
		return nil, fmt.Errorf("portmidi initialize: %w", err)
	}
	device := portmidi.DefaultInputDeviceID()
	if device < 0 {
		return nil, fmt.Errorf("no midi input device available")
	}
	return Open(device)
}

// Inputs lists the available portmidi input devices as "id: name" lines.
func Inputs() ([]string, error) {
	if err := portmidi.Initialize(); err != nil {
		return nil, fmt.Errorf("portmidi initialize: %w", err)
	}
	var out []string
	for i := 0; i < portmidi.CountDevices(); i++ {
		id := portmidi.DeviceID(i)
		info := portmidi.Info(id)
		if info == nil || !info.IsInputAvailable {
			continue
		}
		out = append(out, fmt.Sprintf("%d: %s", i, info.Name))
	}
	return out, nil
}

// DrainSince implements host.EventSource.
func (t *Tap) DrainSince(since uint64) []host.Event {
	return t.buf.DrainSince(since)
}

// Buffer returns the underlying capture buffer, e.g. for injecting
// synthetic events alongside the live stream.
func (t *Tap) Buffer() *Buffer { return t.buf }

// Close stops the capture goroutine and releases the stream.
func (t *Tap) Close() error {
	close(t.stop)
	<-t.done
	return t.stream.Close()
}

func (t *Tap) capture() {
	defer close(t.done)
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-t.stop:
			return
		case <-ticker.C:
			for {
				events, err := t.stream.Read(readChunk)
				if err != nil || len(events) == 0 {
					break
				}
				for _, ev := range events {
					t.buf.Feed([]byte{byte(ev.Status), byte(ev.Data1), byte(ev.Data2)})
				}
				if len(events) < readChunk {
					break
				}
			}
		}
	}
}
