package dsp

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/dsp/fourier"
)

const (
	preEmphasisCoef = 0.9
	silenceThreshold = 0.0002
)

// Settings is the DSP configuration an effect consumes: the intensity
// vector length the UI requested and the mel-filter frequency range.
type Settings struct {
	NBins        int
	MinFrequency int
	MaxFrequency int
}

// DefaultSettings mirrors the original implementation's defaults.
func DefaultSettings() Settings {
	return Settings{NBins: 60, MinFrequency: 20, MaxFrequency: 12000}
}

// AudioData is the per-tick, borrowed bundle an Effect.Render consumes.
type AudioData struct {
	Melbank       []float32
	PowerSpectrum []float32
	RawData       []float32
	Settings      Settings
	SampleRate    int
	Color         [3]uint8
}

// State is the mutex-protected overlap-buffer state carried across
// ticks: just the previous callback's PCM. Settings, the effect, and
// the output sink live in stream.Core instead, which holds a State of
// its own, so that dsp stays free of a dependency on the effects
// package.
type State struct {
	mu        sync.Mutex
	lastFrame []float32
}

// NewState creates an empty overlap-tracking state.
func NewState() *State {
	return &State{}
}

// beginTick takes data (one callback's worth of PCM) and returns the
// doubled input buffer used for windowing: the previous frame in the
// first half, data in the second half. ok is false if this tick must be
// dropped (length mismatch against the first tick's length).
func (s *State) beginTick(data []float32) (input []float32, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.lastFrame) == 0 {
		s.lastFrame = make([]float32, len(data))
	}
	if len(data) != len(s.lastFrame) {
		return nil, false
	}

	input = make([]float32, len(data)*2)
	copy(input[:len(data)], s.lastFrame)
	copy(input[len(data):], data)
	copy(s.lastFrame, data)

	return input, true
}

func preEmphasis(x []float32) []float32 {
	y := make([]float32, len(x))
	y[0] = x[0]
	for i := 1; i < len(x); i++ {
		y[i] = x[i] - preEmphasisCoef*x[i-1]
	}
	return y
}

func thresholdGate(x []float32) {
	max := float32(0)
	for _, v := range x {
		if v < 0 {
			v = -v
		}
		if v > max {
			max = v
		}
	}
	if max <= silenceThreshold {
		for i := range x {
			x[i] = 0
		}
	}
}

func hannWindow(size int) []float64 {
	w := make([]float64, size)
	for i := range w {
		w[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(size-1)))
	}
	return w
}

// realFFTMagnitudes windows x with a Hann window, runs a real FFT, and
// returns the magnitudes of bins [0, N/2).
func realFFTMagnitudes(x []float32) []float32 {
	n := len(x)
	window := hannWindow(n)

	windowed := make([]float64, n)
	for i, v := range x {
		windowed[i] = float64(v) * window[i]
	}

	fft := fourier.NewFFT(n)
	coeffs := fft.Coefficients(nil, windowed)

	out := make([]float32, n/2)
	for i := range out {
		out[i] = float32(cmplxAbs(coeffs[i]))
	}
	return out
}

func cmplxAbs(c complex128) float64 {
	re, im := real(c), imag(c)
	return math.Sqrt(re*re + im*im)
}

func powerSpectrum(magnitude []float32) []float32 {
	out := make([]float32, len(magnitude))
	for i, m := range magnitude {
		out[i] = m * m
	}
	return out
}

// Process runs one PCM buffer through the overlap/pre-emphasis/gate/
// window/FFT stages and returns the doubled raw input alongside its
// power spectrum. ok is false if the tick must be dropped (buffer
// length changed mid-stream). This is the part of the pipeline that
// needs no settings, color, or effect -- callers needing the mel
// projection call ApplyMelMatrix themselves once they have settings in
// hand (see stream.Core.tick, which does so under its own lock).
func Process(state *State, data []float32) (raw, power []float32, ok bool) {
	input, ok := state.beginTick(data)
	if !ok {
		return nil, nil, false
	}

	filtered := preEmphasis(input)
	thresholdGate(filtered)

	magnitude := realFFTMagnitudes(filtered)
	power = powerSpectrum(magnitude)

	return input, power, true
}

// Tick is Process followed by the mel projection and AudioData
// assembly, for callers that have settings/color/melBins available
// up front without needing a second lock acquisition in between (used
// directly by tests; stream.Core uses Process + ApplyMelMatrix so it
// can interleave its own try-lock between the two).
func Tick(state *State, data []float32, settings Settings, sampleRate int, color [3]uint8, melBins int) (AudioData, bool) {
	raw, power, ok := Process(state, data)
	if !ok {
		return AudioData{}, false
	}

	mel := ApplyMelMatrix(power, float64(settings.MinFrequency), float64(settings.MaxFrequency), melBins, sampleRate)

	return AudioData{
		Melbank:       mel,
		PowerSpectrum: power,
		RawData:       raw,
		Settings:      settings,
		SampleRate:    sampleRate,
		Color:         color,
	}, true
}
