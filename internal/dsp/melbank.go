// Package dsp implements the per-frame digital signal processing pipeline:
// mel-filterbank construction, the smoothing/gain/peak primitives the
// effects share, and the frame-to-frame pipeline that turns raw PCM into
// a power spectrum and mel projection.
package dsp

import "math"

// hzToMel converts a frequency in Hz to the mel scale.
func hzToMel(f float64) float64 {
	return 2595.0 * math.Log10(1.0+f/700.0)
}

// melToHz converts a mel-scale value back to Hz.
func melToHz(m float64) float64 {
	return 700.0 * (math.Pow(10.0, m/2595.0) - 1.0)
}

// linspace returns n values linearly spaced between x0 and xend inclusive.
func linspace(x0, xend float64, n int) []float64 {
	out := make([]float64, n)
	if n == 1 {
		out[0] = x0
		return out
	}
	delta := (xend - x0) / float64(n-1)
	for i := range out {
		out[i] = x0 + delta*float64(i)
	}
	return out
}

// melFrequencyEdges returns nBins+2 mel-scale values linearly spaced
// between hzToMel(fmin) and hzToMel(fmax).
func melFrequencyEdges(nBins int, fminHz, fmaxHz float64) []float64 {
	return linspace(hzToMel(fminHz), hzToMel(fmaxHz), nBins+2)
}

// MelMatrix is a dense nMelBins x nFFTBins triangular filterbank with
// entries in [0,1].
type MelMatrix [][]float64

// ComputeMelMatrix builds the triangular mel filterbank for nMelBins mel
// bins against nFFTBins linearly spaced FFT frequencies covering
// [0, sampleRate/2].
func ComputeMelMatrix(nMelBins, nFFTBins int, fminHz, fmaxHz float64, sampleRate int) MelMatrix {
	edges := melFrequencyEdges(nMelBins, fminHz, fmaxHz)

	lower := edges[:nMelBins]
	center := edges[1 : nMelBins+1]
	upper := edges[2 : nMelBins+2]

	lowerHz := make([]float64, nMelBins)
	centerHz := make([]float64, nMelBins)
	upperHz := make([]float64, nMelBins)
	for i := 0; i < nMelBins; i++ {
		lowerHz[i] = melToHz(lower[i])
		centerHz[i] = melToHz(center[i])
		upperHz[i] = melToHz(upper[i])
	}

	freqs := linspace(0, float64(sampleRate)/2, nFFTBins)

	matrix := make(MelMatrix, nMelBins)
	for i := range matrix {
		matrix[i] = make([]float64, nFFTBins)
		lo, ce, up := lowerHz[i], centerHz[i], upperHz[i]
		for j, f := range freqs {
			switch {
			case f >= lo && f <= ce && ce > lo:
				matrix[i][j] = (f - lo) / (ce - lo)
			case f >= ce && f <= up && up > ce:
				matrix[i][j] = (up - f) / (up - ce)
			}
		}
	}
	return matrix
}

// ApplyMelMatrix recomputes the mel matrix against spectrum's length and
// projects spectrum onto nMelBins mel bins.
func ApplyMelMatrix(spectrum []float32, fminHz, fmaxHz float64, nMelBins int, sampleRate int) []float32 {
	matrix := ComputeMelMatrix(nMelBins, len(spectrum), fminHz, fmaxHz, sampleRate)

	out := make([]float32, nMelBins)
	for i, row := range matrix {
		var sum float64
		for j, weight := range row {
			sum += weight * float64(spectrum[j])
		}
		out[i] = float32(sum)
	}
	return out
}
