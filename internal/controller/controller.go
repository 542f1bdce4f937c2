// Package controller ties the audio source, DSP/effect pipeline, and
// sACN output together behind the operations a local UI or the IPC
// server drives: pick a device, pick an effect, tune settings and
// color, and read back the preview stream.
package controller

import (
	"errors"
	"fmt"
	"log"

	"github.com/kbrandt/ledwave/internal/audiosrc"
	"github.com/kbrandt/ledwave/internal/dsp"
	"github.com/kbrandt/ledwave/internal/effects"
	"github.com/kbrandt/ledwave/internal/sacnout"
	"github.com/kbrandt/ledwave/internal/stream"
)

// framesPerBuffer is the audio callback buffer size, one DSP tick's
// worth of samples.
const framesPerBuffer = 1024

// Sentinel errors, grounded on visualizer_core/src/lib.rs's
// ControllerError variants.
var (
	ErrNoDeviceFound     = errors.New("controller: no input device selected")
	ErrNoSupportedConfig = errors.New("controller: no supported audio stream configuration")
	ErrNoValidEffectName = errors.New("controller: no effect registered under that name")
	ErrNoStream          = errors.New("controller: no stream has been opened yet")
)

// AudioHostError wraps a failure from the audio host/device layer.
type AudioHostError struct{ Err error }

func (e *AudioHostError) Error() string { return fmt.Sprintf("controller: audio host: %v", e.Err) }
func (e *AudioHostError) Unwrap() error { return e.Err }

// SacnError wraps a failure from the sACN transport.
type SacnError struct{ Err error }

func (e *SacnError) Error() string { return fmt.Sprintf("controller: sacn: %v", e.Err) }
func (e *SacnError) Unwrap() error { return e.Err }

// Controller is the main program object: it owns the effect registry,
// the selected audio device, the running stream's Core, and the sACN
// dispatcher.
type Controller struct {
	host    audiosrc.Host
	device  *audiosrc.DeviceInfo
	effects []effects.Description

	core       *stream.Core
	audioStream audiosrc.Stream
	dispatcher *sacnout.Dispatcher
	sacnSource sacnout.DMXSource
}

// New builds a Controller over host (device enumeration/capture) and
// sacnSource (DMX transport). Both are injected so tests can supply
// fakes without touching real hardware or the network.
func New(host audiosrc.Host, sacnSource sacnout.DMXSource) *Controller {
	return &Controller{
		host:       host,
		effects:    effects.Registry(),
		core:       stream.NewCore(),
		sacnSource: sacnSource,
	}
}

// AvailableInputDevices lists every capture-capable device the host
// knows about.
func (c *Controller) AvailableInputDevices() ([]audiosrc.DeviceInfo, error) {
	devices, err := c.host.Devices()
	if err != nil {
		return nil, &AudioHostError{Err: err}
	}
	return devices, nil
}

// EffectNames returns every registered effect's name, in registry
// order.
func (c *Controller) EffectNames() []string {
	names := make([]string, len(c.effects))
	for i, d := range c.effects {
		names[i] = d.Name
	}
	return names
}

// SelectInputDevice records which device subsequent Open calls should
// capture from.
func (c *Controller) SelectInputDevice(device audiosrc.DeviceInfo) {
	c.device = &device
}

func (c *Controller) findEffect(name string) (effects.Description, error) {
	for _, d := range c.effects {
		if d.Name == name {
			return d, nil
		}
	}
	return effects.Description{}, ErrNoValidEffectName
}

// Open starts capturing from the selected device, running effectName
// over it, and sending its output both as sACN DMX and a preview
// stream. It replaces any previously open stream.
func (c *Controller) Open(effectName string, settings dsp.Settings, color [3]uint8) (<-chan stream.PreviewFrame, error) {
	if c.device == nil {
		return nil, ErrNoDeviceFound
	}
	description, err := c.findEffect(effectName)
	if err != nil {
		return nil, err
	}
	built := description.Factory()

	dispatcher, err := sacnout.NewDispatcher(c.sacnSource, sacnout.DefaultUniverse)
	if err != nil {
		return nil, &SacnError{Err: err}
	}

	if c.audioStream != nil {
		if err := c.audioStream.Close(); err != nil {
			return nil, &AudioHostError{Err: err}
		}
		c.audioStream = nil
	}

	receiver, tick := c.core.Open(0, settings, color, built)

	audioStream, err := c.host.OpenInputStream(*c.device, 0, framesPerBuffer, tick, func(err error) {
		log.Printf("[CONTROLLER] audio stream error: %v", err)
	})
	if err != nil {
		return nil, &AudioHostError{Err: err}
	}
	// The host picks the actual sample rate; latch it before the
	// stream starts calling back.
	c.core.SetSampleRate(audioStream.SampleRate())
	if err := audioStream.Start(); err != nil {
		return nil, &AudioHostError{Err: err}
	}

	c.audioStream = audioStream
	c.dispatcher = dispatcher
	c.dispatcher.Listen(receiver.DMX)

	return receiver.View, nil
}

// UpdateSettings changes the mel-bin count and frequency range used on
// future ticks.
func (c *Controller) UpdateSettings(settings dsp.Settings) {
	c.core.UpdateSettings(settings)
}

// UpdateColor changes the externally supplied display color.
func (c *Controller) UpdateColor(color [3]uint8) {
	c.core.UpdateColor(color)
}

// UpdateEffect swaps in a freshly constructed instance of the named
// effect.
func (c *Controller) UpdateEffect(name string) error {
	description, err := c.findEffect(name)
	if err != nil {
		return err
	}
	c.core.UpdateEffect(description.Factory())
	return nil
}

// UsesExternalColor reports whether the current effect's color is
// driven by UpdateColor.
func (c *Controller) UsesExternalColor() (bool, error) {
	used, ok := c.core.UsesExternalColor()
	if !ok {
		return false, ErrNoStream
	}
	return used, nil
}

// SetUniverse changes which sACN universe the currently open stream
// sends DMX data on.
func (c *Controller) SetUniverse(universe uint16) error {
	if c.dispatcher == nil {
		return ErrNoStream
	}
	if err := c.dispatcher.SetUniverse(universe); err != nil {
		return &SacnError{Err: err}
	}
	return nil
}

// Close tears down the currently open stream, if any.
func (c *Controller) Close() error {
	if c.audioStream != nil {
		if err := c.audioStream.Close(); err != nil {
			return &AudioHostError{Err: err}
		}
		c.audioStream = nil
	}
	if c.dispatcher != nil {
		if err := c.dispatcher.Close(); err != nil {
			return &SacnError{Err: err}
		}
		c.dispatcher = nil
	}
	return nil
}
