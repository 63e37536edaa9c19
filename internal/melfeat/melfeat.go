// Package melfeat converts a fixed-size PCM chunk into a mel spectrogram
// matching the reference numeric recipe the encoder was trained against.
// Parameters are fixed and intentionally not configurable at runtime.
package melfeat

import (
	"math"
	"math/cmplx"

	"github.com/strmasr/asrcore/internal/asrerrors"
	"github.com/strmasr/asrcore/internal/audiobuf"
)

const (
	SampleRate = audiobuf.SampleRate
	NFFT       = 512
	HopLength  = audiobuf.HopLength
	WinLength  = 400
	NMels      = 128
	FMin       = 0.0
	FMax       = 8000.0
	logFloor   = 1e-5
)

// Featurizer is stateless beyond its precomputed window and filterbank —
// those never change at runtime, so one instance is safely shared across
// chunks and sessions.
type Featurizer struct {
	window     []float64 // periodic Hann, length WinLength
	melFilters []float64 // NMels x (NFFT/2+1), row-major
	numBins    int
}

// New builds the fixed Hann window and slaney mel filterbank once.
func New() *Featurizer {
	f := &Featurizer{
		window:  hannWindowPeriodic(WinLength),
		numBins: NFFT/2 + 1,
	}
	f.melFilters = slaneyFilterbank(NMels, NFFT, SampleRate, FMin, FMax)
	return f
}

// Compute converts a chunk of exactly chunkSamples PCM f32 samples into a
// [NMels x T] row-major mel spectrogram, plus T (the mel length). Fails with
// ErrInvalidAudio if len(chunk) does not match chunkSamples.
func (f *Featurizer) Compute(chunk []float32, chunkSamples int) (mel []float32, melLength int, err error) {
	if len(chunk) != chunkSamples {
		return nil, 0, asrerrors.ErrInvalidAudio
	}

	padded := reflectPad(chunk, NFFT/2)
	t := ExpectedFrames(chunkSamples)

	mel = make([]float32, NMels*t)
	frame := make([]float64, NFFT)
	power := make([]float64, f.numBins)

	for frameIdx := 0; frameIdx < t; frameIdx++ {
		start := frameIdx * HopLength
		for i := 0; i < NFFT; i++ {
			frame[i] = 0
		}
		for i := 0; i < WinLength; i++ {
			srcIdx := start + i
			if srcIdx < len(padded) {
				frame[i] = float64(padded[srcIdx]) * f.window[i]
			}
		}

		spectrum := realFFT(frame)
		for bin := 0; bin < f.numBins; bin++ {
			mag := cmplx.Abs(spectrum[bin])
			power[bin] = mag * mag
		}

		for m := 0; m < NMels; m++ {
			var sum float64
			row := f.melFilters[m*f.numBins : (m+1)*f.numBins]
			for bin := 0; bin < f.numBins; bin++ {
				sum += row[bin] * power[bin]
			}
			v := math.Log(sum + logFloor)
			if math.IsNaN(v) {
				v = math.Log(logFloor)
			}
			mel[m*t+frameIdx] = float32(v)
		}
	}

	return mel, t, nil
}

// ExpectedFrames returns T for a chunk of the given sample count, per the
// formula floor((chunk_samples + 2*(n_fft/2) - win_length) / hop) + 1.
func ExpectedFrames(chunkSamples int) int {
	return (chunkSamples+2*(NFFT/2)-WinLength)/HopLength + 1
}

// reflectPad pads samples on both sides by n using reflection, matching
// center=true padding ahead of framing.
func reflectPad(samples []float32, n int) []float32 {
	out := make([]float32, 0, len(samples)+2*n)
	for i := n; i >= 1; i-- {
		idx := i
		if idx >= len(samples) {
			idx = len(samples) - 1
		}
		out = append(out, samples[idx])
	}
	out = append(out, samples...)
	for i := 1; i <= n; i++ {
		idx := len(samples) - 1 - i
		if idx < 0 {
			idx = 0
		}
		out = append(out, samples[idx])
	}
	return out
}

// hannWindowPeriodic returns the periodic (not symmetric) Hann window of the
// given length, matching torch.hann_window(..., periodic=True).
func hannWindowPeriodic(n int) []float64 {
	w := make([]float64, n)
	for i := 0; i < n; i++ {
		w[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n))
	}
	return w
}
