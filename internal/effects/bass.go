package effects

import "github.com/kbrandt/ledwave/internal/dsp"

const (
	bassAccuracy      = 0.1
	bassSensitivity   = 1.5
	bassGainDecay     = 0.001
	bassSmoothingRise = 0.6
	bassSmoothingDecay = 0.05
)

// BassEffect re-projects the power spectrum onto a narrow 0-200Hz mel
// band, runs a peak detector over it, and renders the detected level as
// a gaussian bump.
type BassEffect struct {
	BaseEffect
	peak *dsp.PeakDetector
}

// NewBassEffect builds a Bass effect with fresh filter state.
func NewBassEffect() *BassEffect {
	return &BassEffect{
		peak: dsp.NewPeakDetector(bassAccuracy, bassSensitivity, bassGainDecay, bassSmoothingRise, bassSmoothingDecay),
	}
}

func (e *BassEffect) Render(data AudioData) []float32 {
	size := len(data.Melbank)
	melbank := dsp.ApplyMelMatrix(data.PowerSpectrum, 0, 200, size, data.SampleRate)
	level, _ := e.peak.Update(melbank)

	curve := dsp.GaussianCurve(size, 10.0)
	lv := float32(level)
	for i := range curve {
		curve[i] *= lv
	}
	return curve
}

func (e *BassEffect) RenderFrame(data AudioData) Frame {
	return DefaultRenderFrame(e, data)
}
