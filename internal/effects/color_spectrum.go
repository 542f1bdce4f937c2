package effects

import "github.com/kbrandt/ledwave/internal/dsp"

var (
	colorSpectrumLow    = [3]uint8{255, 0, 0}
	colorSpectrumMiddle = [3]uint8{0, 255, 0}
	colorSpectrumHigh   = [3]uint8{0, 0, 255}
)

// ColorSpectrumEffect splits the mel spectrum into three frequency
// bands, paints each band a fixed color (low=red, middle=green,
// high=blue), and composites them by taking the brightest byte at each
// position. It never produces a preview frame -- only DMX bytes -- and
// disables the controller's color wheel entirely.
type ColorSpectrumEffect struct {
	gain   *dsp.GainNormalizer
	smooth *dsp.VectorFilter
}

// NewColorSpectrumEffect builds a ColorSpectrum effect with fresh
// filter state.
func NewColorSpectrumEffect() *ColorSpectrumEffect {
	return &ColorSpectrumEffect{
		gain:   dsp.NewGainNormalizer(),
		smooth: dsp.NewSmoothingFilter(0),
	}
}

func (e *ColorSpectrumEffect) animate(data AudioData) []byte {
	buf := append([]float32(nil), data.Melbank...)
	e.gain.Apply(buf)
	e.smooth.Update(buf)

	chunkLen := len(buf) / 3
	chunk := func(i int) []float32 { return buf[i*chunkLen : (i+1)*chunkLen] }

	tripled := func(c []float32) []float32 {
		out := make([]float32, 0, len(c)*3)
		out = append(out, c...)
		out = append(out, c...)
		out = append(out, c...)
		return out
	}

	low := dsp.Mirror(tripled(chunk(0)))
	middle := dsp.Mirror(tripled(chunk(1)))
	high := dsp.Mirror(tripled(chunk(2)))

	lowBytes := dsp.Transpose(low, colorSpectrumLow)
	middleBytes := dsp.Transpose(middle, colorSpectrumMiddle)
	highBytes := dsp.Transpose(high, colorSpectrumHigh)

	for i := range middleBytes {
		if i < len(lowBytes) && lowBytes[i] > middleBytes[i] {
			middleBytes[i] = lowBytes[i]
		}
	}
	for i := range middleBytes {
		if i < len(highBytes) && highBytes[i] > middleBytes[i] {
			middleBytes[i] = highBytes[i]
		}
	}

	return middleBytes
}

// Render is unused for this effect -- it never produces a bare
// intensity vector, only transposed DMX bytes via RenderFrame.
func (e *ColorSpectrumEffect) Render(data AudioData) []float32 {
	return nil
}

func (e *ColorSpectrumEffect) RenderFrame(data AudioData) Frame {
	return Frame{Data: e.animate(data)}
}

func (e *ColorSpectrumEffect) MelBins(ledCount int) int {
	return ledCount / 2
}

func (e *ColorSpectrumEffect) UsesExternalColor() bool { return false }
