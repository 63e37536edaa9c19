// Package decoder implements the greedy RNN-T transducer loop over a bounded
// slice of encoder frames, carrying (h, c, last_token_id) across chunks.
// Grounded on the teacher's state carry-forward in internal/engine/silero.go
// (stateTensor <- stateNTensor after each inference), generalized from a
// single combined VAD state to the decoder's separate h/c recurrent state
// plus a persisted last emitted token id.
package decoder

import (
	"context"

	"github.com/strmasr/asrcore/internal/tensor"
)

// Model is the opaque decoder collaborator: one step of the prediction
// network given the last emitted token id and recurrent state.
type Model interface {
	Run(ctx context.Context, lastTokenID int64, h, c tensor.Tensor) (out, newH, newC tensor.Tensor, err error)
}

// Joint is the opaque joint network: combines one encoder frame with one
// decoder step's output to produce logits of size V+2 (vocab, blank, EOU).
type Joint interface {
	Run(ctx context.Context, encoderFrame, decoderOut tensor.Tensor) (logits []float32, err error)
}
