package models

// NewStubBundle builds a Bundle out of the always-compiled stub
// collaborators. Used when no ONNX Runtime build (-tags onnx) or model
// directory is available — the teacher's "auto" factory falls back to
// StubEngine the same way (cmd/adapter/main.go).
func NewStubBundle() Bundle {
	return Bundle{
		Encoder: NewStubEncoder(),
		Decoder: NewStubDecoderModel(),
		Joint:   NewStubJoint(),
	}
}
