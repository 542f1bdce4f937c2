package effects

import "github.com/kbrandt/ledwave/internal/dsp"

const (
	shineMinFrequency = 0
	shineMaxFrequency = 200
	shineMelBins      = 60

	shinePeakAccuracy    = 0.1
	shinePeakSensitivity = 1.5
	shinePeakGainDecay   = 0.0001
	shineSmoothingRise   = 0.8
	shineSmoothingDecay  = 0.15

	shineTransitionTime = 3
)

var (
	shineMainColor  = [3]uint8{0, 100, 255}
	shineFlashColor = [3]uint8{255, 255, 255}
)

// ShineEffect overlays a bright flash on peak hits onto a mirrored
// spectrum animation, and drives its own color fade between a calm
// main color and a white flash -- the controller's color selection has
// no effect on it.
type ShineEffect struct {
	gain   *dsp.GainNormalizer
	smooth *dsp.VectorFilter
	peak   *dsp.PeakDetector
	color  *Color
}

// NewShineEffect builds a Shine effect with fresh filter state.
func NewShineEffect() *ShineEffect {
	return &ShineEffect{
		gain:   dsp.NewGainNormalizer(),
		smooth: dsp.NewSmoothingFilter(0),
		peak:   dsp.NewPeakDetector(shinePeakAccuracy, shinePeakSensitivity, shinePeakGainDecay, shineSmoothingRise, shineSmoothingDecay),
		color:  NewColor(shineMainColor),
	}
}

func (e *ShineEffect) buildSpectrumAnimation(melbank []float32) []float32 {
	buf := append([]float32(nil), melbank...)
	e.gain.Apply(buf)
	e.smooth.Update(buf)
	return dsp.Mirror(buf)
}

func (e *ShineEffect) buildShineAnimation(data AudioData) []float32 {
	melbank := dsp.ApplyMelMatrix(data.PowerSpectrum, shineMinFrequency, shineMaxFrequency, shineMelBins, data.SampleRate)
	level, edge := e.peak.Update(melbank)

	out := make([]float32, data.Settings.NBins)
	lv := float32(level)
	for i := range out {
		out[i] = lv
	}

	if edge != nil {
		e.peakChanged(*edge)
	}
	return out
}

func (e *ShineEffect) peakChanged(started bool) {
	color := shineMainColor
	time := uint8(shineTransitionTime)
	if started {
		color = shineFlashColor
		time = shineTransitionTime * 2
	}
	e.color.ChangeColor(color)
	e.color.ChangeTransitionTime(time)
}

func (e *ShineEffect) Render(data AudioData) []float32 {
	main := e.buildSpectrumAnimation(data.Melbank)
	shine := e.buildShineAnimation(data)

	for i := range main {
		if i < len(shine) && shine[i] > main[i] {
			main[i] = shine[i]
		}
	}
	return main
}

func (e *ShineEffect) RenderFrame(data AudioData) Frame {
	animation := e.Render(data)
	color := e.color.RGB()
	transposed := dsp.Transpose(animation, color)

	return Frame{
		Data: transposed,
		View: &ViewFrame{Effect: animation, Color: color},
	}
}

func (e *ShineEffect) MelBins(ledCount int) int {
	return ledCount / 2
}

func (e *ShineEffect) UsesExternalColor() bool { return false }
