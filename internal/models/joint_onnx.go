//go:build onnx

package models

import (
	"context"
	"fmt"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/strmasr/asrcore/internal/tensor"
)

// OnnxJoint runs the joint_decision artifact, combining one encoder frame
// with one decoder step's output into a single V+2 logits vector.
type OnnxJoint struct {
	session *ort.DynamicAdvancedSession
}

// NewOnnxJoint loads the joint_decision ONNX artifact at path.
func NewOnnxJoint(path string) (*OnnxJoint, error) {
	if err := ensureORTEnvironment(); err != nil {
		return nil, fmt.Errorf("joint: %w", err)
	}
	session, err := ort.NewDynamicAdvancedSession(
		path,
		[]string{"encoder_frame", "decoder_out"},
		[]string{"logits"},
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("joint: load %q: %w", path, err)
	}
	return &OnnxJoint{session: session}, nil
}

// Close releases the underlying ONNX Runtime session.
func (j *OnnxJoint) Close() error {
	if j.session != nil {
		j.session.Destroy()
		j.session = nil
	}
	return nil
}

func (j *OnnxJoint) Run(ctx context.Context, encoderFrame, decoderOut tensor.Tensor) ([]float32, error) {
	inFrame, err := ort.NewTensor(ort.NewShape(encoderFrame.Shape()...), encoderFrame.Data())
	if err != nil {
		return nil, fmt.Errorf("joint: encoder_frame tensor: %w", err)
	}
	defer inFrame.Destroy()

	inDecOut, err := ort.NewTensor(ort.NewShape(decoderOut.Shape()...), decoderOut.Data())
	if err != nil {
		return nil, fmt.Errorf("joint: decoder_out tensor: %w", err)
	}
	defer inDecOut.Destroy()

	outputs := make([]ort.Value, 1)
	if err := j.session.Run([]ort.Value{inFrame, inDecOut}, outputs); err != nil {
		return nil, fmt.Errorf("joint: run: %w", err)
	}
	defer func() {
		if outputs[0] != nil {
			outputs[0].Destroy()
		}
	}()

	logits, ok := outputs[0].(*ort.Tensor[float32])
	if !ok {
		return nil, fmt.Errorf("joint: logits has unexpected ORT value type")
	}
	return cloneFloat32(logits.GetData()), nil
}
