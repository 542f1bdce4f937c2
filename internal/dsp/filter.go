package dsp

// ExponentialFilter is an asymmetric one-pole IIR smoother: a faster alpha
// is used while the signal rises, a slower one while it decays.
type ExponentialFilter struct {
	last      float64
	alphaRise float64
	alphaDecay float64
}

// NewExponentialFilter creates a scalar exponential filter seeded at last
// with independent rise/decay coefficients in [0,1].
func NewExponentialFilter(last, alphaRise, alphaDecay float64) *ExponentialFilter {
	return &ExponentialFilter{last: last, alphaRise: alphaRise, alphaDecay: alphaDecay}
}

// NewGainFilter returns the preset used to normalize a signal into [0,1]:
// last=0.1, alphaRise=0.99, alphaDecay=0.1.
func NewGainFilter() *ExponentialFilter {
	return NewExponentialFilter(0.1, 0.99, 0.1)
}

// Update feeds x through the filter and returns the new smoothed value.
func (f *ExponentialFilter) Update(x float64) float64 {
	alpha := f.alphaDecay
	if x > f.last {
		alpha = f.alphaRise
	}
	f.last = alpha*x + (1-alpha)*f.last
	return f.last
}

// Last returns the filter's current smoothed value without updating it.
func (f *ExponentialFilter) Last() float64 {
	return f.last
}

// VectorFilter applies an independent ExponentialFilter per lane.
type VectorFilter struct {
	last      []float64
	alphaRise float64
	alphaDecay float64
}

// NewVectorFilter creates a vector exponential filter with n lanes, all
// seeded at the given initial value.
func NewVectorFilter(n int, initial, alphaRise, alphaDecay float64) *VectorFilter {
	last := make([]float64, n)
	for i := range last {
		last[i] = initial
	}
	return &VectorFilter{last: last, alphaRise: alphaRise, alphaDecay: alphaDecay}
}

// NewSmoothingFilter returns the preset used to smooth a preview-length
// vector: last=[0]*n, alphaRise=0.99, alphaDecay=0.05.
func NewSmoothingFilter(n int) *VectorFilter {
	return NewVectorFilter(n, 0, 0.99, 0.05)
}

// Update smooths values in place. Whenever values' length differs from
// the current lane count, the internal state is resized to match,
// keeping the existing lanes (the effects that use it call it with a
// settings-derived length).
func (f *VectorFilter) Update(values []float32) {
	if len(f.last) != len(values) {
		last := make([]float64, len(values))
		copy(last, f.last)
		f.last = last
	}
	for i, v := range values {
		x := float64(v)
		alpha := f.alphaDecay
		if x > f.last[i] {
			alpha = f.alphaRise
		}
		f.last[i] = alpha*x + (1-alpha)*f.last[i]
		values[i] = float32(f.last[i])
	}
}

// GainNormalizer wraps a gain-preset ExponentialFilter to divide a vector
// by a slowly adapting envelope of its own running maximum, mapping it
// into approximately [0,1]. Because the divisor is the filter's smoothed
// output rather than the input-domain running max, the normalizer tracks
// a smoothed envelope rather than a true peak -- this mirrors the original
// implementation and is expected.
type GainNormalizer struct {
	filter *ExponentialFilter
}

// NewGainNormalizer creates a GainNormalizer with the standard gain preset.
func NewGainNormalizer() *GainNormalizer {
	return &GainNormalizer{filter: NewGainFilter()}
}

// Apply scales v in place by 1/gain, where gain is the filter's output
// after observing max(v). The filter's initial value is 0.1, so the
// divisor is never zero.
func (g *GainNormalizer) Apply(v []float32) {
	max := float32(0)
	for _, x := range v {
		if x > max {
			max = x
		}
	}
	divisor := g.filter.Update(float64(max))
	if divisor <= 0 {
		divisor = 0.1
	}
	for i := range v {
		v[i] = float32(float64(v[i]) / divisor)
	}
}
