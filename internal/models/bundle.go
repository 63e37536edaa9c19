// Package models supplies the three opaque tensor functions the spec treats
// as external collaborators: streaming_encoder, decoder, and joint_decision.
// It mirrors the teacher's silero/stub split in internal/engine (a real
// ONNX-backed implementation gated behind a build tag, a deterministic stub
// always compiled in) generalized from one VAD model to three transducer
// models loaded together from a directory.
package models

import (
	"github.com/strmasr/asrcore/internal/decoder"
	"github.com/strmasr/asrcore/internal/encoder"
)

// Bundle groups the three collaborators a session needs, typed as the
// encoder.Model, decoder.Model and decoder.Joint interfaces.
type Bundle struct {
	Encoder encoder.Model
	Decoder decoder.Model
	Joint   decoder.Joint
}

// closer is satisfied by any collaborator holding a resource that must be
// released (an ONNX Runtime session and its tensors); the stub collaborators
// do not implement it.
type closer interface {
	Close() error
}

// Close releases any resources the bundle's collaborators hold. The stub
// bundle's collaborators implement no closer, so this is a no-op for it.
func (b Bundle) Close() error {
	var firstErr error
	closeIfCloser := func(v any) {
		if c, ok := v.(closer); ok {
			if err := c.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	closeIfCloser(b.Encoder)
	closeIfCloser(b.Decoder)
	closeIfCloser(b.Joint)
	return firstErr
}

// recurrentShape is the decoder's (h, c) tensor shape. It is fixed by the
// trained model's prediction-network hidden size and is not configurable.
var recurrentShape = []int64{2, 1, 640}

// RecurrentShape exposes the decoder state shape so a session can size its
// initial decoder.State without depending on a models-package constant of
// its own.
func RecurrentShape() []int64 {
	out := make([]int64, len(recurrentShape))
	copy(out, recurrentShape)
	return out
}
