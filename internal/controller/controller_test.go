package controller

import (
	"fmt"
	"testing"
	"time"

	"github.com/kbrandt/ledwave/internal/audiosrc"
	"github.com/kbrandt/ledwave/internal/dsp"
)

type fakeStream struct {
	sampleRate int
	started    bool
	closed     bool
}

func (s *fakeStream) Start() error    { s.started = true; return nil }
func (s *fakeStream) Stop() error     { s.started = false; return nil }
func (s *fakeStream) Close() error    { s.closed = true; return nil }
func (s *fakeStream) SampleRate() int { return s.sampleRate }

type fakeHost struct {
	devices    []audiosrc.DeviceInfo
	lastTick   audiosrc.InputCallback
	openErr    error
	stream     *fakeStream
}

func (h *fakeHost) Devices() ([]audiosrc.DeviceInfo, error) { return h.devices, nil }

func (h *fakeHost) DefaultInputDevice() (audiosrc.DeviceInfo, error) {
	if len(h.devices) == 0 {
		return audiosrc.DeviceInfo{}, fmt.Errorf("no devices")
	}
	return h.devices[0], nil
}

func (h *fakeHost) OpenInputStream(device audiosrc.DeviceInfo, channels, framesPerBuffer int, onData audiosrc.InputCallback, onError audiosrc.ErrorCallback) (audiosrc.Stream, error) {
	if h.openErr != nil {
		return nil, h.openErr
	}
	h.lastTick = onData
	h.stream = &fakeStream{sampleRate: 44100}
	return h.stream, nil
}

func (h *fakeHost) Close() error { return nil }

type fakeDMXSource struct {
	universe uint16
	sent     chan []byte
}

func newFakeDMXSource() *fakeDMXSource {
	return &fakeDMXSource{sent: make(chan []byte, 8)}
}

func (s *fakeDMXSource) Send(universe uint16, data []byte) error {
	if universe != s.universe {
		return fmt.Errorf("universe %d not active", universe)
	}
	s.sent <- data
	return nil
}
func (s *fakeDMXSource) SetUniverse(universe uint16) error { s.universe = universe; return nil }
func (s *fakeDMXSource) Close() error                      { return nil }

func TestOpenStartsCaptureAndEmitsFrames(t *testing.T) {
	host := &fakeHost{devices: []audiosrc.DeviceInfo{{Index: 0, Name: "mic"}}}
	sacn := newFakeDMXSource()
	ctrl := New(host, sacn)

	ctrl.SelectInputDevice(host.devices[0])
	view, err := ctrl.Open("Melbank", dsp.DefaultSettings(), [3]uint8{255, 255, 255})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if !host.stream.started {
		t.Fatalf("expected the audio stream to be started")
	}

	host.lastTick(make([]float32, 1024))

	select {
	case <-sacn.sent:
	case <-time.After(time.Second):
		t.Fatalf("expected a DMX frame to be forwarded")
	}
	select {
	case <-view:
	case <-time.After(time.Second):
		t.Fatalf("expected a preview frame")
	}
}

func TestOpenWithoutDeviceFails(t *testing.T) {
	ctrl := New(&fakeHost{}, newFakeDMXSource())
	if _, err := ctrl.Open("Melbank", dsp.DefaultSettings(), [3]uint8{255, 255, 255}); err != ErrNoDeviceFound {
		t.Fatalf("err = %v, want ErrNoDeviceFound", err)
	}
}

func TestOpenWithUnknownEffectFails(t *testing.T) {
	host := &fakeHost{devices: []audiosrc.DeviceInfo{{Index: 0, Name: "mic"}}}
	ctrl := New(host, newFakeDMXSource())
	ctrl.SelectInputDevice(host.devices[0])

	if _, err := ctrl.Open("Nonexistent", dsp.DefaultSettings(), [3]uint8{255, 255, 255}); err != ErrNoValidEffectName {
		t.Fatalf("err = %v, want ErrNoValidEffectName", err)
	}
}

func TestUsesExternalColorBeforeOpenIsErrNoStream(t *testing.T) {
	ctrl := New(&fakeHost{}, newFakeDMXSource())
	if _, err := ctrl.UsesExternalColor(); err != ErrNoStream {
		t.Fatalf("err = %v, want ErrNoStream", err)
	}
}

func TestSetUniverseBeforeOpenIsErrNoStream(t *testing.T) {
	ctrl := New(&fakeHost{}, newFakeDMXSource())
	if err := ctrl.SetUniverse(5); err != ErrNoStream {
		t.Fatalf("err = %v, want ErrNoStream", err)
	}
}

func TestEffectNamesMatchesRegistryOrder(t *testing.T) {
	ctrl := New(&fakeHost{}, newFakeDMXSource())
	names := ctrl.EffectNames()
	want := []string{"Melbank", "Spectrum", "Shine", "Energy", "Bass", "Color Spectrum (Data Only)", "FFT (View Only)"}
	if len(names) != len(want) {
		t.Fatalf("len(names) = %d, want %d", len(names), len(want))
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}
