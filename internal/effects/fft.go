package effects

import "github.com/kbrandt/ledwave/internal/dsp"

// FFTEffect renders the raw power spectrum, gain-normalized, for the
// previewer only -- it never produces DMX output.
type FFTEffect struct {
	BaseEffect
	gain *dsp.GainNormalizer
}

// NewFFTEffect builds an FFT effect with fresh filter state.
func NewFFTEffect() *FFTEffect {
	return &FFTEffect{gain: dsp.NewGainNormalizer()}
}

func (e *FFTEffect) Render(data AudioData) []float32 {
	buf := append([]float32(nil), data.PowerSpectrum...)
	e.gain.Apply(buf)
	return buf
}

// RenderFrame produces a view frame only; Data stays nil.
func (e *FFTEffect) RenderFrame(data AudioData) Frame {
	x := e.Render(data)
	return Frame{View: &ViewFrame{Effect: x, Color: data.Color}}
}
