package models

import (
	"context"

	"github.com/strmasr/asrcore/internal/tensor"
)

// StubDecoderFeatures is the decoder_out feature width the stub reports.
const StubDecoderFeatures = 256

// StubDecoderModel implements decoder.Model without a real prediction
// network: it returns a zeroed decoder_out and passes (h, c) through
// unchanged, the same "well-formed but data-independent" contract the
// teacher's StubEngine offers in place of Silero.
type StubDecoderModel struct{}

// NewStubDecoderModel builds a StubDecoderModel.
func NewStubDecoderModel() *StubDecoderModel {
	return &StubDecoderModel{}
}

func (s *StubDecoderModel) Run(ctx context.Context, lastTokenID int64, h, c tensor.Tensor) (tensor.Tensor, tensor.Tensor, tensor.Tensor, error) {
	out := tensor.New(tensor.Shape{1, 1, StubDecoderFeatures})
	return out, h.Clone(), c.Clone(), nil
}
