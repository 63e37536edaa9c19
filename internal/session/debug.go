package session

import (
	"encoding/binary"
	"math"
	"os"
)

// dumpDebugFeatures writes frames as little-endian float32s, one after
// another, matching the flat row-major layout the mel featurizer already
// produces — a caller can reshape externally once it knows n_mels and the
// chunk_profile's mel_frames.
func dumpDebugFeatures(path string, frames []float32) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	buf := make([]byte, 4)
	for _, v := range frames {
		binary.LittleEndian.PutUint32(buf, math.Float32bits(v))
		if _, err := f.Write(buf); err != nil {
			return err
		}
	}
	return nil
}
