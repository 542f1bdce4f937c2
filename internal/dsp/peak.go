package dsp

// PeakDetector detects transient peaks in a mel vector against an
// adaptive average baseline, gain-normalizes and smooths the result, and
// reports rising/falling edges through the 0.1 threshold.
//
// accuracy (the baseline filter's decay alpha, 0.1-0.9) trades off
// detection of short high peaks (higher values, e.g. hip-hop/pop) against
// long peaks (lower values, e.g. rock/punk). sensitivity (>=1) is how much
// louder than the baseline the signal must be to register at all.
type PeakDetector struct {
	average *ExponentialFilter
	gain    *ExponentialFilter
	smooth  *ExponentialFilter
	sensitivity float64
	onPeak  bool
}

// NewPeakDetector builds a detector. smoothRise/smoothDecay parametrize the
// final smoothing filter applied to the normalized output.
func NewPeakDetector(accuracy, sensitivity, gainDecay, smoothRise, smoothDecay float64) *PeakDetector {
	return &PeakDetector{
		average:     NewExponentialFilter(0.1, 0.1, accuracy),
		gain:        NewExponentialFilter(0.1, 0.9, gainDecay),
		smooth:      NewExponentialFilter(0.1, smoothRise, smoothDecay),
		sensitivity: sensitivity,
	}
}

// Update feeds one tick's mel vector through the detector. It returns the
// normalized, smoothed peak value (roughly [0,1]; it can briefly exceed 1
// on a sudden rise, before the gain filter catches up) and, on a rising or falling
// transition through 0.1, the new on-peak state; otherwise the second
// return value is nil.
func (p *PeakDetector) Update(mel []float32) (float64, *bool) {
	var sum float64
	for _, v := range mel {
		sum += float64(v)
	}

	baseline := p.average.Update(sum)

	raw := 0.0
	if sum > baseline*p.sensitivity {
		raw = sum
	}

	gain := p.gain.Update(raw)
	if raw < gain/2 {
		raw = 0
	}

	y := raw / gain
	y = p.smooth.Update(y)

	return y, p.checkEdge(y)
}

func (p *PeakDetector) checkEdge(y float64) *bool {
	if p.onPeak && y < 0.1 {
		p.onPeak = false
		v := false
		return &v
	}
	if !p.onPeak && y > 0.1 {
		p.onPeak = true
		v := true
		return &v
	}
	return nil
}
