package encoder

import (
	"context"

	"github.com/strmasr/asrcore/internal/tensor"
)

// Model is the opaque streaming_encoder collaborator. Inputs are named
// exactly as the underlying model expects: audio_signal, audio_length,
// pre_cache, cache_last_channel, cache_last_time, cache_last_channel_len.
// Implementations are free to run on ONNX Runtime or return canned output;
// the driver only depends on this interface.
type Model interface {
	Run(ctx context.Context, audioSignal tensor.Tensor, audioLength int32, caches CacheSet) (encodedOutput tensor.Tensor, framesOut int, next CacheSet, err error)
}
