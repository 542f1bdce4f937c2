package effects

import "github.com/kbrandt/ledwave/internal/dsp"

// MelbankEffect renders the mel spectrum directly, gain-normalized and
// smoothed, one LED per mel bin.
type MelbankEffect struct {
	BaseEffect
	gain   *dsp.GainNormalizer
	smooth *dsp.VectorFilter
}

// NewMelbankEffect builds a Melbank effect with fresh filter state.
func NewMelbankEffect() *MelbankEffect {
	return &MelbankEffect{
		gain:   dsp.NewGainNormalizer(),
		smooth: dsp.NewSmoothingFilter(0),
	}
}

func (e *MelbankEffect) Render(data AudioData) []float32 {
	buf := append([]float32(nil), data.Melbank...)
	e.gain.Apply(buf)
	e.smooth.Update(buf)
	return buf
}

func (e *MelbankEffect) RenderFrame(data AudioData) Frame {
	return DefaultRenderFrame(e, data)
}
