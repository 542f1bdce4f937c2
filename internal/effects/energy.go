package effects

import (
	"math"

	"github.com/kbrandt/ledwave/internal/dsp"
)

const (
	energyGainRise        = 0.9
	energyGainDecay       = 0.001
	energySmoothingRise   = 0.4
	energySmoothingDecay  = 0.1
	energyStandardDeviation = 10.0
)

// EnergyEffect renders the RMS loudness of the raw waveform as a
// gaussian bump scaled by that loudness.
type EnergyEffect struct {
	BaseEffect
	gain   *dsp.ExponentialFilter
	smooth *dsp.ExponentialFilter
}

// NewEnergyEffect builds an Energy effect with fresh filter state.
func NewEnergyEffect() *EnergyEffect {
	return &EnergyEffect{
		gain:   dsp.NewExponentialFilter(0.1, energyGainRise, energyGainDecay),
		smooth: dsp.NewExponentialFilter(0.1, energySmoothingRise, energySmoothingDecay),
	}
}

func (e *EnergyEffect) smoothedRMS(data AudioData) float64 {
	var energy float64
	for _, v := range data.RawData {
		energy += float64(v) * float64(v)
	}
	rms := math.Sqrt(energy / float64(len(data.RawData)))
	rms = rms / e.gain.Update(rms)
	return e.smooth.Update(rms)
}

func (e *EnergyEffect) Render(data AudioData) []float32 {
	n := len(data.Melbank)
	curve := dsp.GaussianCurve(n, energyStandardDeviation)
	rms := float32(e.smoothedRMS(data))
	for i := range curve {
		curve[i] *= rms
	}
	return curve
}

func (e *EnergyEffect) RenderFrame(data AudioData) Frame {
	return DefaultRenderFrame(e, data)
}
