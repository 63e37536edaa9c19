package encoder

import (
	"context"
	"fmt"

	"github.com/strmasr/asrcore/internal/asrerrors"
	"github.com/strmasr/asrcore/internal/tensor"
)

// Driver invokes Model for one chunk and returns the encoded output plus the
// replacement CacheSet. It never mutates the caches passed in — on error the
// caller's existing caches remain untouched, matching §4.3's ordering rule
// ("on error the old caches must remain unchanged").
type Driver struct {
	model Model
}

// New wraps a Model collaborator.
func New(model Model) *Driver {
	return &Driver{model: model}
}

// Run feeds the mel tensor and current caches through the model. On success
// it returns the encoded output, its number of frames (frames_out), and the
// new CacheSet — none of which is applied to any session state here; the
// caller commits the swap only after the decoder finishes consuming the
// current chunk's encoded output (§4.3 ordering rule).
func (d *Driver) Run(ctx context.Context, audioSignal tensor.Tensor, audioLength int32, caches CacheSet) (tensor.Tensor, int, CacheSet, error) {
	out, frames, next, err := d.model.Run(ctx, audioSignal, audioLength, caches)
	if err != nil {
		return tensor.Tensor{}, 0, CacheSet{}, fmt.Errorf("encoder: %w: %w", asrerrors.ErrInferenceFailed, err)
	}
	return out, frames, next, nil
}
