package effects

import "github.com/kbrandt/ledwave/internal/dsp"

// SpectrumEffect renders the mel spectrum mirrored about the center
// (reversed half, then the normal half), so the display fans out
// symmetrically from the middle.
type SpectrumEffect struct {
	BaseEffect
	gain   *dsp.GainNormalizer
	smooth *dsp.VectorFilter
}

// NewSpectrumEffect builds a Spectrum effect with fresh filter state.
func NewSpectrumEffect() *SpectrumEffect {
	return &SpectrumEffect{
		gain:   dsp.NewGainNormalizer(),
		smooth: dsp.NewSmoothingFilter(0),
	}
}

func (e *SpectrumEffect) Render(data AudioData) []float32 {
	buf := append([]float32(nil), data.Melbank...)
	e.gain.Apply(buf)
	e.smooth.Update(buf)
	return dsp.Mirror(buf)
}

func (e *SpectrumEffect) RenderFrame(data AudioData) Frame {
	return DefaultRenderFrame(e, data)
}

// MelBins halves the requested LED count: the mirrored output doubles
// whatever mel-bin count is rendered back to the full LED count.
func (e *SpectrumEffect) MelBins(ledCount int) int {
	return ledCount / 2
}
