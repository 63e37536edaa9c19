// Package tensor holds the owned float/int buffer type shared by the mel
// featurizer, encoder driver, and decoder. Values are copied out of any
// model-owned memory before they cross a call boundary; nothing here borrows
// into ONNX Runtime's arena past the call that produced it.
package tensor

import "fmt"

// Shape is a tensor's dimensions, outermost first.
type Shape []int64

// Len returns the product of all dimensions.
func (s Shape) Len() int64 {
	n := int64(1)
	for _, d := range s {
		n *= d
	}
	return n
}

func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Tensor is an owned float32 buffer plus shape metadata, row-major.
type Tensor struct {
	shape Shape
	data  []float32
}

// New allocates a zeroed tensor of the given shape.
func New(shape Shape) Tensor {
	return Tensor{shape: shape, data: make([]float32, shape.Len())}
}

// FromData wraps an existing slice as a tensor. Panics if the data length
// does not match the shape — this is a programmer error, not a runtime one.
func FromData(shape Shape, data []float32) Tensor {
	if int64(len(data)) != shape.Len() {
		panic(fmt.Sprintf("tensor: shape %v wants %d elements, got %d", shape, shape.Len(), len(data)))
	}
	return Tensor{shape: shape, data: data}
}

// Shape returns the tensor's dimensions.
func (t Tensor) Shape() Shape { return t.shape }

// Data returns the underlying buffer. Callers that retain it past the
// producing call's lifetime must already own it (tensors in this package are
// always owned buffers, never ORT-arena views).
func (t Tensor) Data() []float32 { return t.data }

// Zero overwrites the buffer with zeros, preserving shape.
func (t Tensor) Zero() {
	for i := range t.data {
		t.data[i] = 0
	}
}

// Clone returns a deep copy.
func (t Tensor) Clone() Tensor {
	out := make([]float32, len(t.data))
	copy(out, t.data)
	return Tensor{shape: t.shape, data: out}
}

// CopyFrom overwrites the receiver's buffer from src. Shapes must match.
func (t Tensor) CopyFrom(src Tensor) {
	if !t.shape.Equal(src.shape) {
		panic(fmt.Sprintf("tensor: copy shape mismatch %v != %v", t.shape, src.shape))
	}
	copy(t.data, src.data)
}

// Int32Tensor is the int32 analogue, used for cache_last_channel_len.
type Int32Tensor struct {
	shape Shape
	data  []int32
}

func NewInt32(shape Shape) Int32Tensor {
	return Int32Tensor{shape: shape, data: make([]int32, shape.Len())}
}

func FromInt32Data(shape Shape, data []int32) Int32Tensor {
	if int64(len(data)) != shape.Len() {
		panic(fmt.Sprintf("tensor: shape %v wants %d elements, got %d", shape, shape.Len(), len(data)))
	}
	return Int32Tensor{shape: shape, data: data}
}

func (t Int32Tensor) Shape() Shape   { return t.shape }
func (t Int32Tensor) Data() []int32  { return t.data }
func (t Int32Tensor) Clone() Int32Tensor {
	out := make([]int32, len(t.data))
	copy(out, t.data)
	return Int32Tensor{shape: t.shape, data: out}
}
