// Package encoder drives the opaque streaming encoder model: it feeds the
// mel tensor and the four cache tensors in, and harvests the encoded output
// plus the four updated caches. Grounded on the teacher's tensor-reuse
// lifecycle in internal/engine/silero.go (allocate once, copy state forward
// between calls) generalized from Silero's single combined [2,1,128] state
// to the four separately-named caches this encoder uses.
package encoder

import (
	"github.com/strmasr/asrcore/internal/audiobuf"
	"github.com/strmasr/asrcore/internal/tensor"
)

// CacheSet groups the four loop-back caches into one record, per DESIGN
// NOTES §9: they are semantically a single named record, and grouping them
// here makes the "all-or-nothing swap" rule a matter of construction rather
// than discipline.
type CacheSet struct {
	PreCache            tensor.Tensor      // [1, 128, pre_cache_frames]
	CacheLastChannel    tensor.Tensor      // [17, 1, 70, 512]
	CacheLastTime       tensor.Tensor      // [17, 1, 512, 8]
	CacheLastChannelLen tensor.Int32Tensor // [1]
}

// Zero allocates a fresh, zero-initialized CacheSet for the given profile.
func Zero(profile audiobuf.Profile) CacheSet {
	return CacheSet{
		PreCache:            tensor.New(tensor.Shape{1, 128, int64(profile.PreCacheFrames)}),
		CacheLastChannel:    tensor.New(tensor.Shape{17, 1, 70, 512}),
		CacheLastTime:       tensor.New(tensor.Shape{17, 1, 512, 8}),
		CacheLastChannelLen: tensor.NewInt32(tensor.Shape{1}),
	}
}

// Clone returns a deep copy so a new CacheSet can be built locally before
// being swapped into the session atomically (DESIGN NOTES §9).
func (c CacheSet) Clone() CacheSet {
	return CacheSet{
		PreCache:            c.PreCache.Clone(),
		CacheLastChannel:    c.CacheLastChannel.Clone(),
		CacheLastTime:       c.CacheLastTime.Clone(),
		CacheLastChannelLen: c.CacheLastChannelLen.Clone(),
	}
}
