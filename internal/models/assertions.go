package models

import "github.com/strmasr/asrcore/internal/decoder"

var (
	_ decoder.Model = (*StubDecoderModel)(nil)
	_ decoder.Joint = (*StubJoint)(nil)
)
