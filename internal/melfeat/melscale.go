package melfeat

import "math"

// Slaney-scale mel conversion constants (matches librosa's htk=False path):
// linear below 1000 Hz, logarithmic above, with a fixed step size in the log
// region so the two pieces meet smoothly at min_log_hz.
const (
	slaneyMinLogHz  = 1000.0
	slaneyMinLogMel = 15.0 // 1000 / (200/3)
	slaneyLinearF   = 200.0 / 3.0
)

func hzToMelSlaney(hz float64) float64 {
	if hz < slaneyMinLogHz {
		return hz / slaneyLinearF
	}
	return slaneyMinLogMel + math.Log(hz/slaneyMinLogHz)/(math.Log(6.4)/27.0)
}

func melToHzSlaney(mel float64) float64 {
	if mel < slaneyMinLogMel {
		return mel * slaneyLinearF
	}
	return slaneyMinLogHz * math.Exp((mel-slaneyMinLogMel)*(math.Log(6.4)/27.0))
}

// slaneyFilterbank builds an nMels x (nFFT/2+1) row-major matrix of
// area-normalized triangular filters over [fMin, fMax] Hz on the slaney mel
// scale, matching librosa.filters.mel(htk=False, norm="slaney").
func slaneyFilterbank(nMels, nFFT, sampleRate int, fMin, fMax float64) []float64 {
	numBins := nFFT/2 + 1
	fftFreqs := make([]float64, numBins)
	for i := range fftFreqs {
		fftFreqs[i] = float64(i) * float64(sampleRate) / float64(nFFT)
	}

	melMin := hzToMelSlaney(fMin)
	melMax := hzToMelSlaney(fMax)
	melPoints := make([]float64, nMels+2)
	for i := range melPoints {
		melPoints[i] = melMin + (melMax-melMin)*float64(i)/float64(nMels+1)
	}
	hzPoints := make([]float64, nMels+2)
	for i, m := range melPoints {
		hzPoints[i] = melToHzSlaney(m)
	}

	weights := make([]float64, nMels*numBins)
	for m := 0; m < nMels; m++ {
		left, center, right := hzPoints[m], hzPoints[m+1], hzPoints[m+2]
		enorm := 2.0 / (right - left)
		row := weights[m*numBins : (m+1)*numBins]
		for bin := 0; bin < numBins; bin++ {
			freq := fftFreqs[bin]
			var w float64
			if freq > left && freq < center {
				w = (freq - left) / (center - left)
			} else if freq >= center && freq < right {
				w = (right - freq) / (right - center)
			}
			if w < 0 {
				w = 0
			}
			row[bin] = w * enorm
		}
	}
	return weights
}
