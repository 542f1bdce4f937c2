package stream

import (
	"sync"

	"github.com/kbrandt/ledwave/internal/dsp"
	"github.com/kbrandt/ledwave/internal/effects"
)

// Core is the mutex-protected state a running stream shares between
// the audio callback and the controller that configures it: the
// current effect, the DSP settings and sample rate, the display color,
// and the publishing endpoint. It is analogous to the original's
// single locked InnerStream, split so that the DSP-only overlap buffer
// (dsp.State) is guarded by its own lock while everything an effect or
// the controller touches shares this one.
type Core struct {
	mu         sync.Mutex
	settings   dsp.Settings
	sampleRate int
	color      [3]uint8
	effect     effects.Effect
	sender     *Sender

	dspState *dsp.State
}

// NewCore creates a Core ready to be driven by Open.
func NewCore() *Core {
	return &Core{dspState: dsp.NewState()}
}

// Open starts a stream: it records the settings, sample rate, starting
// color, and effect, creates a fresh channel pair (closing the previous
// pair, if any), and returns the Receiver side for the caller to wire
// into a sACN dispatcher and a UI consumer. The returned tick function
// should be passed as the audio source's input callback.
func (c *Core) Open(sampleRate int, settings dsp.Settings, color [3]uint8, effect effects.Effect) (*Receiver, func(data []float32)) {
	c.mu.Lock()
	if c.sender != nil {
		// tick sends only while holding c.mu, so nothing can still be
		// sending on the previous pair once it is closed here.
		c.sender.Close()
	}
	c.settings = settings
	c.sampleRate = sampleRate
	c.color = color
	c.effect = effect
	sender, receiver := NewChannel()
	c.sender = sender
	c.mu.Unlock()

	return receiver, c.tick
}

// tick is the audio callback's entry point: one call per buffer of
// captured PCM. The DSP preprocessing (overlap, pre-emphasis, gate,
// window, FFT, power spectrum) runs unlocked once the overlap buffer
// has handed back its data. The mel projection and effect render need
// the current settings/color/effect, which may change between ticks,
// so they run under a try-lock: if the controller is mid-update, this
// tick's computed power spectrum is discarded rather than stalling the
// audio thread.
func (c *Core) tick(data []float32) {
	raw, power, ok := dsp.Process(c.dspState, data)
	if !ok {
		return
	}

	if !c.mu.TryLock() {
		return
	}
	defer c.mu.Unlock()

	settings := c.settings
	sampleRate := c.sampleRate
	color := c.color
	effect := c.effect
	sender := c.sender

	if effect == nil || sender == nil {
		return
	}

	melBins := effect.MelBins(settings.NBins)
	mel := dsp.ApplyMelMatrix(power, float64(settings.MinFrequency), float64(settings.MaxFrequency), melBins, sampleRate)

	audioData := effects.AudioData{
		Melbank:       mel,
		PowerSpectrum: power,
		RawData:       raw,
		Settings:      settings,
		SampleRate:    sampleRate,
		Color:         color,
	}

	frame := effect.RenderFrame(audioData)
	sender.Send(frame)
}

// SetSampleRate updates the sample rate used for the mel filterbank.
// Callers that don't know the real device sample rate until after the
// stream is opened (the audio host picks it) call Open with a
// placeholder and then SetSampleRate once the stream reports its
// actual rate, before starting it.
func (c *Core) SetSampleRate(sampleRate int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sampleRate = sampleRate
}

// UpdateSettings changes the mel-bin count and frequency range used on
// future ticks. Has no effect if Open has not been called yet.
func (c *Core) UpdateSettings(settings dsp.Settings) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.settings = settings
}

// UpdateColor changes the externally supplied display color. Effects
// that compute their own color (UsesExternalColor() == false) ignore
// it.
func (c *Core) UpdateColor(color [3]uint8) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.color = color
}

// UpdateEffect swaps in a freshly constructed effect. The swap happens
// entirely within one lock acquisition, so no in-flight tick can see a
// half-replaced effect.
func (c *Core) UpdateEffect(effect effects.Effect) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.effect = effect
}

// UsesExternalColor reports whether the current effect's color is
// driven by UpdateColor. ok is false if no effect has been set yet.
func (c *Core) UsesExternalColor() (used bool, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.effect == nil {
		return false, false
	}
	return c.effect.UsesExternalColor(), true
}
