//go:build onnx

package models

import (
	"context"
	"fmt"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/strmasr/asrcore/internal/encoder"
	"github.com/strmasr/asrcore/internal/tensor"
)

// OnnxEncoder runs the streaming_encoder artifact via ONNX Runtime. Unlike
// the teacher's SileroEngine, which binds one fixed-shape input/output
// tensor pair for the session's lifetime, this driver uses a
// DynamicAdvancedSession and builds fresh ORT tensors per call — the
// audio_signal and pre_cache shapes vary with chunk_profile, and the
// canonical cache state already
// lives in encoder.CacheSet's plain float32 buffers between calls (see
// internal/tensor's package doc), so nothing here needs to persist ORT-side
// memory across Run invocations.
type OnnxEncoder struct {
	session *ort.DynamicAdvancedSession
}

// NewOnnxEncoder loads the streaming_encoder ONNX artifact at path.
func NewOnnxEncoder(path string) (*OnnxEncoder, error) {
	if err := ensureORTEnvironment(); err != nil {
		return nil, fmt.Errorf("encoder: %w", err)
	}

	session, err := ort.NewDynamicAdvancedSession(
		path,
		[]string{"audio_signal", "audio_length", "pre_cache", "cache_last_channel", "cache_last_time", "cache_last_channel_len"},
		[]string{"encoded_output", "new_pre_cache", "new_cache_last_channel", "new_cache_last_time", "new_cache_last_channel_len"},
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("encoder: load %q: %w", path, err)
	}
	return &OnnxEncoder{session: session}, nil
}

// Close releases the underlying ONNX Runtime session.
func (e *OnnxEncoder) Close() error {
	if e.session != nil {
		e.session.Destroy()
		e.session = nil
	}
	return nil
}

func (e *OnnxEncoder) Run(ctx context.Context, audioSignal tensor.Tensor, audioLength int32, caches encoder.CacheSet) (tensor.Tensor, int, encoder.CacheSet, error) {
	inSignal, err := ort.NewTensor(ort.NewShape(audioSignal.Shape()...), audioSignal.Data())
	if err != nil {
		return tensor.Tensor{}, 0, encoder.CacheSet{}, fmt.Errorf("encoder: audio_signal tensor: %w", err)
	}
	defer inSignal.Destroy()

	inLength, err := ort.NewTensor(ort.NewShape(1), []int32{audioLength})
	if err != nil {
		return tensor.Tensor{}, 0, encoder.CacheSet{}, fmt.Errorf("encoder: audio_length tensor: %w", err)
	}
	defer inLength.Destroy()

	inPreCache, err := ort.NewTensor(ort.NewShape(caches.PreCache.Shape()...), caches.PreCache.Data())
	if err != nil {
		return tensor.Tensor{}, 0, encoder.CacheSet{}, fmt.Errorf("encoder: pre_cache tensor: %w", err)
	}
	defer inPreCache.Destroy()

	inLastChannel, err := ort.NewTensor(ort.NewShape(caches.CacheLastChannel.Shape()...), caches.CacheLastChannel.Data())
	if err != nil {
		return tensor.Tensor{}, 0, encoder.CacheSet{}, fmt.Errorf("encoder: cache_last_channel tensor: %w", err)
	}
	defer inLastChannel.Destroy()

	inLastTime, err := ort.NewTensor(ort.NewShape(caches.CacheLastTime.Shape()...), caches.CacheLastTime.Data())
	if err != nil {
		return tensor.Tensor{}, 0, encoder.CacheSet{}, fmt.Errorf("encoder: cache_last_time tensor: %w", err)
	}
	defer inLastTime.Destroy()

	inLastChannelLen, err := ort.NewTensor(ort.NewShape(caches.CacheLastChannelLen.Shape()...), caches.CacheLastChannelLen.Data())
	if err != nil {
		return tensor.Tensor{}, 0, encoder.CacheSet{}, fmt.Errorf("encoder: cache_last_channel_len tensor: %w", err)
	}
	defer inLastChannelLen.Destroy()

	outputs := make([]ort.Value, 5)
	inputs := []ort.Value{inSignal, inLength, inPreCache, inLastChannel, inLastTime, inLastChannelLen}
	if err := e.session.Run(inputs, outputs); err != nil {
		return tensor.Tensor{}, 0, encoder.CacheSet{}, fmt.Errorf("encoder: run: %w", err)
	}
	defer func() {
		for _, o := range outputs {
			if o != nil {
				o.Destroy()
			}
		}
	}()

	encodedOut, ok := outputs[0].(*ort.Tensor[float32])
	if !ok {
		return tensor.Tensor{}, 0, encoder.CacheSet{}, fmt.Errorf("encoder: encoded_output has unexpected ORT value type")
	}
	newPreCache, ok := outputs[1].(*ort.Tensor[float32])
	if !ok {
		return tensor.Tensor{}, 0, encoder.CacheSet{}, fmt.Errorf("encoder: new_pre_cache has unexpected ORT value type")
	}
	newLastChannel, ok := outputs[2].(*ort.Tensor[float32])
	if !ok {
		return tensor.Tensor{}, 0, encoder.CacheSet{}, fmt.Errorf("encoder: new_cache_last_channel has unexpected ORT value type")
	}
	newLastTime, ok := outputs[3].(*ort.Tensor[float32])
	if !ok {
		return tensor.Tensor{}, 0, encoder.CacheSet{}, fmt.Errorf("encoder: new_cache_last_time has unexpected ORT value type")
	}
	newLastChannelLen, ok := outputs[4].(*ort.Tensor[int32])
	if !ok {
		return tensor.Tensor{}, 0, encoder.CacheSet{}, fmt.Errorf("encoder: new_cache_last_channel_len has unexpected ORT value type")
	}

	encodedShape := toTensorShape(encodedOut.GetShape())
	encoded := tensor.FromData(encodedShape, cloneFloat32(encodedOut.GetData()))
	framesOut := int(encodedShape[len(encodedShape)-1])

	next := encoder.CacheSet{
		PreCache:            tensor.FromData(toTensorShape(newPreCache.GetShape()), cloneFloat32(newPreCache.GetData())),
		CacheLastChannel:    tensor.FromData(toTensorShape(newLastChannel.GetShape()), cloneFloat32(newLastChannel.GetData())),
		CacheLastTime:       tensor.FromData(toTensorShape(newLastTime.GetShape()), cloneFloat32(newLastTime.GetData())),
		CacheLastChannelLen: tensor.FromInt32Data(toTensorShape(newLastChannelLen.GetShape()), cloneInt32(newLastChannelLen.GetData())),
	}

	return encoded, framesOut, next, nil
}

func toTensorShape(s ort.Shape) tensor.Shape {
	out := make(tensor.Shape, len(s))
	for i, d := range s {
		out[i] = d
	}
	return out
}

func cloneFloat32(s []float32) []float32 {
	out := make([]float32, len(s))
	copy(out, s)
	return out
}

func cloneInt32(s []int32) []int32 {
	out := make([]int32, len(s))
	copy(out, s)
	return out
}
