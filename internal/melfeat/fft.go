package melfeat

import (
	"math"
	"math/cmplx"
)

// realFFT returns the first NFFT/2+1 bins of the DFT of a real-valued,
// power-of-two-length signal via an iterative radix-2 Cooley-Tukey FFT.
// n_fft (512) is fixed and always a power of two, so no fallback path for
// other sizes is needed.
func realFFT(signal []float64) []complex128 {
	n := len(signal)
	buf := make([]complex128, n)
	for i, v := range signal {
		buf[i] = complex(v, 0)
	}
	fft(buf)
	return buf[:n/2+1]
}

// fft performs an in-place iterative radix-2 FFT on buf (length must be a
// power of two).
func fft(buf []complex128) {
	n := len(buf)
	if n <= 1 {
		return
	}

	// Bit-reversal permutation.
	for i, j := 1, 0; i < n; i++ {
		bit := n >> 1
		for ; j&bit != 0; bit >>= 1 {
			j ^= bit
		}
		j ^= bit
		if i < j {
			buf[i], buf[j] = buf[j], buf[i]
		}
	}

	for length := 2; length <= n; length <<= 1 {
		angle := -2 * math.Pi / float64(length)
		wLen := cmplx.Rect(1, angle)
		for start := 0; start < n; start += length {
			w := complex(1, 0)
			half := length / 2
			for k := 0; k < half; k++ {
				u := buf[start+k]
				v := buf[start+k+half] * w
				buf[start+k] = u + v
				buf[start+k+half] = u - v
				w *= wLen
			}
		}
	}
}
