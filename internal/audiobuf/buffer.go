// Package audiobuf accumulates PCM samples and yields fixed-size, overlapping
// windows for the mel featurizer. Grounded on the sliding pcmBuf accumulation
// in the teacher engine's ProcessChunk (internal/engine/silero.go): append,
// then drain whole windows off the front.
package audiobuf

import (
	"math"

	"github.com/strmasr/asrcore/internal/asrerrors"
)

// Buffer holds pending PCM samples not yet consumed by the encoder.
type Buffer struct {
	profile Profile
	samples []float32
}

// New creates an empty buffer for the given profile.
func New(profile Profile) *Buffer {
	return &Buffer{profile: profile, samples: make([]float32, 0, profile.ChunkSamples*2)}
}

// Append appends samples to the tail, clipping out-of-range values to
// [-1, 1] per the ingress contract. Fails only on a NaN sample.
func (b *Buffer) Append(samples []float32) error {
	for _, s := range samples {
		if math.IsNaN(float64(s)) {
			return asrerrors.ErrInvalidAudio
		}
	}
	for _, s := range samples {
		b.samples = append(b.samples, clip(s))
	}
	return nil
}

func clip(s float32) float32 {
	if s > 1.0 {
		return 1.0
	}
	if s < -1.0 {
		return -1.0
	}
	return s
}

// DrainNext returns a copy of the first chunk_samples samples without
// removing them, or (nil, false) if not enough samples are buffered yet.
func (b *Buffer) DrainNext() ([]float32, bool) {
	if len(b.samples) < b.profile.ChunkSamples {
		return nil, false
	}
	out := make([]float32, b.profile.ChunkSamples)
	copy(out, b.samples[:b.profile.ChunkSamples])
	return out, true
}

// Advance removes the first shift_samples samples, sliding the window
// forward by the profile's shift.
func (b *Buffer) Advance() {
	n := b.profile.ShiftSamples
	if n > len(b.samples) {
		n = len(b.samples)
	}
	b.samples = append(b.samples[:0], b.samples[n:]...)
}

// FlushPadded copies the remaining buffer, right-pads with zeros to
// chunk_samples, and clears the buffer. Returns (nil, false) if the buffer
// is empty, so a second finish() call against an already-drained buffer is a
// no-op rather than re-padding and re-emitting — callers are expected to
// call this only from finish().
func (b *Buffer) FlushPadded() ([]float32, bool) {
	if len(b.samples) == 0 {
		return nil, false
	}
	out := make([]float32, b.profile.ChunkSamples)
	copy(out, b.samples)
	b.samples = b.samples[:0]
	return out, true
}

// Len returns the number of samples currently buffered.
func (b *Buffer) Len() int { return len(b.samples) }

// Reset clears the buffer to its initial empty state.
func (b *Buffer) Reset() {
	b.samples = b.samples[:0]
}
