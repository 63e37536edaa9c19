//go:build onnx

package models

import (
	"context"
	"fmt"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/strmasr/asrcore/internal/tensor"
)

// OnnxDecoderModel runs the decoder (prediction network) artifact.
type OnnxDecoderModel struct {
	session *ort.DynamicAdvancedSession
}

// NewOnnxDecoderModel loads the decoder ONNX artifact at path.
func NewOnnxDecoderModel(path string) (*OnnxDecoderModel, error) {
	if err := ensureORTEnvironment(); err != nil {
		return nil, fmt.Errorf("decoder model: %w", err)
	}
	session, err := ort.NewDynamicAdvancedSession(
		path,
		[]string{"last_token_id", "h", "c"},
		[]string{"decoder_out", "new_h", "new_c"},
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("decoder model: load %q: %w", path, err)
	}
	return &OnnxDecoderModel{session: session}, nil
}

// Close releases the underlying ONNX Runtime session.
func (m *OnnxDecoderModel) Close() error {
	if m.session != nil {
		m.session.Destroy()
		m.session = nil
	}
	return nil
}

func (m *OnnxDecoderModel) Run(ctx context.Context, lastTokenID int64, h, c tensor.Tensor) (tensor.Tensor, tensor.Tensor, tensor.Tensor, error) {
	inToken, err := ort.NewTensor(ort.NewShape(1), []int64{lastTokenID})
	if err != nil {
		return tensor.Tensor{}, tensor.Tensor{}, tensor.Tensor{}, fmt.Errorf("decoder model: last_token_id tensor: %w", err)
	}
	defer inToken.Destroy()

	inH, err := ort.NewTensor(ort.NewShape(h.Shape()...), h.Data())
	if err != nil {
		return tensor.Tensor{}, tensor.Tensor{}, tensor.Tensor{}, fmt.Errorf("decoder model: h tensor: %w", err)
	}
	defer inH.Destroy()

	inC, err := ort.NewTensor(ort.NewShape(c.Shape()...), c.Data())
	if err != nil {
		return tensor.Tensor{}, tensor.Tensor{}, tensor.Tensor{}, fmt.Errorf("decoder model: c tensor: %w", err)
	}
	defer inC.Destroy()

	outputs := make([]ort.Value, 3)
	if err := m.session.Run([]ort.Value{inToken, inH, inC}, outputs); err != nil {
		return tensor.Tensor{}, tensor.Tensor{}, tensor.Tensor{}, fmt.Errorf("decoder model: run: %w", err)
	}
	defer func() {
		for _, o := range outputs {
			if o != nil {
				o.Destroy()
			}
		}
	}()

	decOut, ok := outputs[0].(*ort.Tensor[float32])
	if !ok {
		return tensor.Tensor{}, tensor.Tensor{}, tensor.Tensor{}, fmt.Errorf("decoder model: decoder_out has unexpected ORT value type")
	}
	newH, ok := outputs[1].(*ort.Tensor[float32])
	if !ok {
		return tensor.Tensor{}, tensor.Tensor{}, tensor.Tensor{}, fmt.Errorf("decoder model: new_h has unexpected ORT value type")
	}
	newC, ok := outputs[2].(*ort.Tensor[float32])
	if !ok {
		return tensor.Tensor{}, tensor.Tensor{}, tensor.Tensor{}, fmt.Errorf("decoder model: new_c has unexpected ORT value type")
	}

	return tensor.FromData(toTensorShape(decOut.GetShape()), cloneFloat32(decOut.GetData())),
		tensor.FromData(toTensorShape(newH.GetShape()), cloneFloat32(newH.GetData())),
		tensor.FromData(toTensorShape(newC.GetShape()), cloneFloat32(newC.GetData())),
		nil
}
