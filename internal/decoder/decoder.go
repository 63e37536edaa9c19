package decoder

import (
	"context"
	"fmt"

	"github.com/strmasr/asrcore/internal/asrerrors"
	"github.com/strmasr/asrcore/internal/tensor"
)

// MaxSymbolsPerFrame bounds the inner per-frame emission loop (spec
// recommendation: 10). Without this bound a pathological joint output could
// loop forever on a single frame.
const MaxSymbolsPerFrame = 10

// State is the decoder's persistent recurrent state: the last emitted
// non-blank token id plus the prediction network's hidden/cell tensors.
// It survives across chunks exactly like the teacher's stateTensor does
// across ProcessChunk calls in internal/engine/silero.go.
type State struct {
	LastTokenID int64
	H           tensor.Tensor
	C           tensor.Tensor
}

// Vocab pins the two constants §10 Open Questions leaves to the artifact:
// here the joint's logits are a single V+2 vector, blank is index V
// (vocab size) and EOU is index V+1.
type Vocab struct {
	Size    int
	BlankID int64
	EOUID   int64
	StartID int64
}

// Decoder runs the greedy RNN-T loop described in §4.4 over a bounded slice
// of encoder frames, one chunk at a time.
type Decoder struct {
	model Model
	joint Joint
	vocab Vocab

	state State
}

// New builds a Decoder and initializes its state to the start-of-stream
// condition: last_token_id = vocab.StartID, h and c zeroed with the given
// shape.
func New(model Model, joint Joint, vocab Vocab, recurrentShape tensor.Shape) *Decoder {
	d := &Decoder{model: model, joint: joint, vocab: vocab}
	d.state = initialState(vocab, recurrentShape)
	return d
}

func initialState(vocab Vocab, shape tensor.Shape) State {
	return State{
		LastTokenID: vocab.StartID,
		H:           tensor.New(shape),
		C:           tensor.New(shape),
	}
}

// Reset restores the decoder's state to start-of-stream, discarding any
// accumulated recurrent state (§4.4 "reset() restores these").
func (d *Decoder) Reset() {
	d.state = initialState(d.vocab, d.state.H.Shape())
}

// Step consumes the first validOutLen frames of encodedOutput (shape
// [1, F, frames_out]) and returns the token ids emitted this call plus
// whether the joint predicted EOU on any frame. Frames beyond validOutLen
// are look-ahead and are never decoded here (§4.4 bounded slice rule).
func (d *Decoder) Step(ctx context.Context, encodedOutput tensor.Tensor, validOutLen int) ([]int64, bool, error) {
	shape := encodedOutput.Shape()
	if len(shape) != 3 || shape[0] != 1 {
		return nil, false, fmt.Errorf("decoder: %w: encoded_output shape %v is not [1,F,frames_out]", asrerrors.ErrInvalidAudio, shape)
	}
	numFeatures := int(shape[1])
	framesOut := int(shape[2])
	if validOutLen > framesOut {
		return nil, false, fmt.Errorf("decoder: %w: valid_out_len %d exceeds frames_out %d", asrerrors.ErrInvalidAudio, validOutLen, framesOut)
	}

	var ids []int64
	eouPredicted := false

	// work is a scratch copy of d.state: every symbol emission updates work,
	// never d.state directly, so a mid-call error leaves d.state exactly as
	// it was at the start of this Step (mirrors the encoder driver's "old
	// caches remain unchanged on error" contract in internal/encoder/driver.go).
	work := d.state

	for t := 0; t < validOutLen; t++ {
		frame := sliceFrame(encodedOutput, numFeatures, framesOut, t)

		for i := 0; i < MaxSymbolsPerFrame; i++ {
			decOut, newH, newC, err := d.model.Run(ctx, work.LastTokenID, work.H, work.C)
			if err != nil {
				return nil, false, fmt.Errorf("decoder: %w: %w", asrerrors.ErrInferenceFailed, err)
			}

			logits, err := d.joint.Run(ctx, frame, decOut)
			if err != nil {
				return nil, false, fmt.Errorf("decoder: %w: %w", asrerrors.ErrInferenceFailed, err)
			}
			if len(logits) != d.vocab.Size+2 {
				return nil, false, fmt.Errorf("decoder: %w: joint returned %d logits, want %d", asrerrors.ErrInferenceFailed, len(logits), d.vocab.Size+2)
			}

			id := int64(argmax(logits))

			if id == d.vocab.BlankID {
				break
			}
			if id == d.vocab.EOUID {
				eouPredicted = true
				break
			}

			ids = append(ids, id)
			work.H = newH
			work.C = newC
			work.LastTokenID = id
		}
	}

	// Commit only now that the whole call succeeded: d.state and the
	// returned ids/eouPredicted advance together, or not at all.
	d.state = work
	return ids, eouPredicted, nil
}

// sliceFrame materializes the [1,F,1] slice for encoder frame t out of a
// [1,F,frames_out] tensor laid out row-major (feature-major, frame-minor).
func sliceFrame(encodedOutput tensor.Tensor, numFeatures, framesOut, t int) tensor.Tensor {
	data := encodedOutput.Data()
	out := make([]float32, numFeatures)
	for f := 0; f < numFeatures; f++ {
		out[f] = data[f*framesOut+t]
	}
	return tensor.FromData(tensor.Shape{1, int64(numFeatures), 1}, out)
}

func argmax(logits []float32) int {
	best := 0
	for i := 1; i < len(logits); i++ {
		if logits[i] > logits[best] {
			best = i
		}
	}
	return best
}
