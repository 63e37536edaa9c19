package models

import (
	"context"

	"github.com/strmasr/asrcore/internal/tensor"
)

// StubToggleInterval mirrors the teacher's StubEngine toggle cadence: every
// StubToggleInterval calls the stub joint emits a token instead of blank, so
// a caller exercising the pipeline without real models still sees partial
// callbacks and, eventually, an EOU prediction.
const StubToggleInterval = 50

// StubEOUMultiple fires an EOU prediction every StubEOUMultiple-th toggle
// instead of a token emission, letting a demo session reach eou_confirmed
// without real audio content.
const StubEOUMultiple = 5

// StubVocab is the vocabulary size the stub joint assumes.
const StubVocab = 32

// StubJoint implements decoder.Joint with a deterministic, data-independent
// schedule: mostly blank, a token every StubToggleInterval calls, an EOU
// every StubEOUMultiple-th such token instead.
type StubJoint struct {
	calls int
}

// NewStubJoint builds a StubJoint.
func NewStubJoint() *StubJoint {
	return &StubJoint{}
}

func (s *StubJoint) Run(ctx context.Context, encoderFrame, decoderOut tensor.Tensor) ([]float32, error) {
	s.calls++
	logits := make([]float32, StubVocab+2)

	if s.calls%StubToggleInterval != 0 {
		logits[StubVocab] = 1 // blank
		return logits, nil
	}

	toggle := s.calls / StubToggleInterval
	if toggle%StubEOUMultiple == 0 {
		logits[StubVocab+1] = 1 // EOU
		return logits, nil
	}

	logits[0] = 1 // a fixed, arbitrary vocabulary token
	return logits, nil
}
