//go:build onnx

package models

import (
	"fmt"
	"path/filepath"
)

// NativeAvailable reports that the ONNX Runtime backend is compiled in.
func NativeAvailable() bool { return true }

// LoadDir loads the three opaque model artifacts from dir, named
// streaming_encoder.onnx, decoder.onnx, and joint_decision.onnx per §6
// (the literal names with the ONNX artifact's conventional extension
// appended — see design notes).
func LoadDir(dir string) (Bundle, error) {
	if err := validateModelDirLayout(dir); err != nil {
		return Bundle{}, fmt.Errorf("models: %w", err)
	}

	enc, err := NewOnnxEncoder(filepath.Join(dir, "streaming_encoder.onnx"))
	if err != nil {
		return Bundle{}, fmt.Errorf("models: %w", err)
	}
	dec, err := NewOnnxDecoderModel(filepath.Join(dir, "decoder.onnx"))
	if err != nil {
		enc.Close()
		return Bundle{}, fmt.Errorf("models: %w", err)
	}
	joint, err := NewOnnxJoint(filepath.Join(dir, "joint_decision.onnx"))
	if err != nil {
		enc.Close()
		dec.Close()
		return Bundle{}, fmt.Errorf("models: %w", err)
	}
	return Bundle{Encoder: enc, Decoder: dec, Joint: joint}, nil
}
