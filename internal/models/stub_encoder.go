package models

import (
	"context"

	"github.com/strmasr/asrcore/internal/encoder"
	"github.com/strmasr/asrcore/internal/tensor"
)

// StubEncoderFeatures is the feature dimension the stub encoder reports in
// its encoded_output, chosen to match a plausible Conformer d_model without
// depending on any real artifact.
const StubEncoderFeatures = 512

// StubEncoder implements encoder.Model without running any real inference.
// Like the teacher's StubEngine it is deterministic and data-independent: it
// returns a fixed zero encoded_output of the expected shape and passes the
// caches through untouched, so callers exercising the streaming loop without
// ONNX Runtime installed still see a well-formed cache swap.
type StubEncoder struct{}

var _ encoder.Model = (*StubEncoder)(nil)

// NewStubEncoder builds a StubEncoder.
func NewStubEncoder() *StubEncoder {
	return &StubEncoder{}
}

// Run returns a zeroed encoded_output shaped [1, StubEncoderFeatures,
// frames_out] where frames_out equals the mel length implied by the input,
// and passes caches through unchanged (a deterministic no-op encoder).
func (s *StubEncoder) Run(ctx context.Context, audioSignal tensor.Tensor, audioLength int32, caches encoder.CacheSet) (tensor.Tensor, int, encoder.CacheSet, error) {
	framesOut := int(audioLength)
	out := tensor.New(tensor.Shape{1, StubEncoderFeatures, int64(framesOut)})
	return out, framesOut, caches.Clone(), nil
}
