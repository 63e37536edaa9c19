//go:build onnx

package models

import (
	"github.com/strmasr/asrcore/internal/decoder"
	"github.com/strmasr/asrcore/internal/encoder"
)

var (
	_ encoder.Model = (*OnnxEncoder)(nil)
	_ decoder.Model = (*OnnxDecoderModel)(nil)
	_ decoder.Joint = (*OnnxJoint)(nil)
)
