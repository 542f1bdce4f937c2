package effects

import (
	"github.com/kbrandt/ledwave/internal/dsp"
)

// AudioData is the per-tick bundle handed to an Effect. It is an alias
// of dsp.AudioData so the dsp package stays free of any dependency on
// effects.
type AudioData = dsp.AudioData

// ViewFrame is the data sent to the local previewer: the raw intensity
// vector an effect produced and the color it was painted with.
type ViewFrame struct {
	Effect []float32
	Color  [3]uint8
}

// Frame is one tick's output: DMX bytes for the sACN sink, a preview
// frame for the local viewer, or both. Either may be nil -- an effect
// that is view-only (FFT) produces no DMX bytes, and one that is
// dmx-only (ColorSpectrum) produces no preview frame.
type Frame struct {
	Data []byte
	View *ViewFrame
}

// Effect is the render contract every visualization satisfies.
type Effect interface {
	// Render turns one tick's AudioData into an intensity vector in
	// [0,1], one value per LED.
	Render(data AudioData) []float32

	// RenderFrame wraps Render with color and produces the final
	// Frame. The default behavior (DefaultRenderFrame) transposes the
	// rendered vector against data.Color; effects that paint their own
	// color (Shine, ColorSpectrum) override it.
	RenderFrame(data AudioData) Frame

	// MelBins reports how many mel bins this effect wants to see for a
	// given requested LED count. Most effects use all of them;
	// mirrored effects (Spectrum, Shine, ColorSpectrum) only need half.
	MelBins(ledCount int) int

	// UsesExternalColor reports whether the controller's color
	// selection has any effect. False for effects that compute their
	// own color internally.
	UsesExternalColor() bool
}

// DefaultRenderFrame implements the common RenderFrame behavior: render
// the intensity vector, transpose it against the externally supplied
// color, and publish both the DMX bytes and a view frame. Effects that
// want this behavior implement RenderFrame by calling it.
func DefaultRenderFrame(e Effect, data AudioData) Frame {
	x := e.Render(data)
	transposed := dsp.Transpose(x, data.Color)

	return Frame{
		Data: transposed,
		View: &ViewFrame{Effect: x, Color: data.Color},
	}
}

// BaseEffect supplies two common Effect defaults: full mel-bin count and
// external color use. It does not supply RenderFrame; concrete effects
// that embed it implement Render and RenderFrame themselves (usually via
// DefaultRenderFrame) and override only what else differs.
type BaseEffect struct{}

func (BaseEffect) MelBins(ledCount int) int { return ledCount }

func (BaseEffect) UsesExternalColor() bool { return true }

// Factory builds a fresh Effect instance. Each call to a registered
// factory starts an effect with clean internal filter state -- swapping
// effects never reuses a previous effect's smoothing history.
type Factory func() Effect

// Description names one registry entry.
type Description struct {
	Name    string
	Factory Factory
}

// Registry returns the catalog of effects available to the controller,
// in the order the original program registered them. "Color Spectrum
// (Data Only)" and "FFT (View Only)" keep the original's literal
// registry names (not "Color Spectrum" / "FFT") since a client that
// lists effects by name should see the same strings either
// implementation would show.
func Registry() []Description {
	return []Description{
		{Name: "Melbank", Factory: func() Effect { return NewMelbankEffect() }},
		{Name: "Spectrum", Factory: func() Effect { return NewSpectrumEffect() }},
		{Name: "Shine", Factory: func() Effect { return NewShineEffect() }},
		{Name: "Energy", Factory: func() Effect { return NewEnergyEffect() }},
		{Name: "Bass", Factory: func() Effect { return NewBassEffect() }},
		{Name: "Color Spectrum (Data Only)", Factory: func() Effect { return NewColorSpectrumEffect() }},
		{Name: "FFT (View Only)", Factory: func() Effect { return NewFFTEffect() }},
	}
}
