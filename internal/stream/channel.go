// Package stream owns the audio-callback-driven concurrency harness:
// the mutex-protected state a running effect reads and writes each
// tick, the two output channels it feeds, and the Core type that wires
// an audio source to the DSP pipeline.
package stream

import "github.com/kbrandt/ledwave/internal/effects"

// PreviewFrame is the frame type published on the preview channel: an
// alias of effects.ViewFrame so callers outside the effects package
// (the controller, the IPC layer) can name it without importing
// effects directly for that one type.
type PreviewFrame = effects.ViewFrame

// dmxChannelCapacity bounds how far the sACN drain thread may lag the
// audio callback before the callback blocks on a send. It is sized
// generously -- a drain thread stalled this long has already missed
// its network deadline.
const dmxChannelCapacity = 64

// previewChannelCapacity is small on purpose: the UI only ever wants
// the latest frame, so Sender drops the oldest buffered frame rather
// than block when this fills up.
const previewChannelCapacity = 2

// Sender is the audio callback's publishing endpoint: one send per
// tick fans the tick's Frame out to the DMX byte channel and/or the
// preview channel, each independently, matching the original's
// two-channel design (independent consumers, independent cadences).
type Sender struct {
	dmx  chan []byte
	view chan effects.ViewFrame
}

// Receiver is the consumer-side pair: DMX is drained by the sACN
// dispatcher (blocking receive), View carries preview frames to the UI
// side.
type Receiver struct {
	DMX  <-chan []byte
	View <-chan effects.ViewFrame
}

// NewChannel creates a connected Sender/Receiver pair.
func NewChannel() (*Sender, *Receiver) {
	dmx := make(chan []byte, dmxChannelCapacity)
	view := make(chan effects.ViewFrame, previewChannelCapacity)
	return &Sender{dmx: dmx, view: view}, &Receiver{DMX: dmx, View: view}
}

// Send publishes one tick's Frame. A present Data field is sent on the
// DMX channel (blocking -- the drain thread is expected to keep up);
// a present View field is sent on the preview channel, non-blocking --
// if the UI hasn't drained recent frames, the oldest buffered one is
// dropped in favor of the newest, since only the latest preview frame
// is ever useful.
func (s *Sender) Send(frame effects.Frame) {
	if frame.Data != nil {
		s.dmx <- frame.Data
	}
	if frame.View != nil {
		s.sendView(*frame.View)
	}
}

func (s *Sender) sendView(view effects.ViewFrame) {
	for {
		select {
		case s.view <- view:
			return
		default:
		}
		select {
		case <-s.view:
		default:
		}
	}
}

// Close closes both channels. Closing a channel the audio callback may
// still be sending on is the caller's responsibility to sequence after
// the input stream has stopped calling back.
func (s *Sender) Close() {
	close(s.dmx)
	close(s.view)
}
