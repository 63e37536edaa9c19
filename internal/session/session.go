// Package session implements the public orchestration API: a single-writer
// streaming ASR session wiring the chunk buffer, mel featurizer, encoder
// driver, RNN-T decoder, EOU debouncer, and tokenizer together per chunk.
//
// The readiness split (NewPending + LoadModels) mirrors the teacher's
// lazyVADServer in cmd/adapter/main.go: a session can exist before its model
// artifacts finish loading, and operations attempted in between report
// NotInitialized instead of panicking or blocking.
package session

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/strmasr/asrcore/internal/asrconfig"
	"github.com/strmasr/asrcore/internal/asrerrors"
	"github.com/strmasr/asrcore/internal/audiobuf"
	"github.com/strmasr/asrcore/internal/decoder"
	"github.com/strmasr/asrcore/internal/encoder"
	"github.com/strmasr/asrcore/internal/eou"
	"github.com/strmasr/asrcore/internal/melfeat"
	"github.com/strmasr/asrcore/internal/models"
	"github.com/strmasr/asrcore/internal/tensor"
	"github.com/strmasr/asrcore/internal/tokenizer"
)

// Callbacks are the two observer functions a session invokes. Either may be
// nil; a nil callback is simply not invoked.
type Callbacks struct {
	// Partial is invoked after any chunk that emitted at least one token,
	// with the full accumulated transcript to date (not a delta).
	Partial func(text string)

	// EOU is invoked exactly once per session, after debounce confirmation,
	// with the accumulated transcript at the moment of confirmation.
	EOU func(text string)
}

// Session is a single-writer streaming ASR session. Process, Finish and
// InjectSilence take the internal lock via TryLock and return ErrBusy on
// contention; LoadModels, Reset and DumpDebugFeatures wait for the lock.
// Concurrent calls are never interleaved.
type Session struct {
	mu sync.Mutex

	cfg     asrconfig.Config
	profile audiobuf.Profile

	buf *audiobuf.Buffer
	mel *melfeat.Featurizer

	bundle *models.Bundle
	tok    tokenizer.Tokenizer

	encDriver *encoder.Driver
	dec       *decoder.Decoder
	debouncer *eou.Debouncer

	caches          encoder.CacheSet
	accumulatedIDs  []int64
	processedChunks int
	debugFrames     []float32

	callbacks Callbacks
}

// NewPending builds a Session that is not yet ready to process audio; call
// LoadModels before Process/Finish, or they return ErrNotInitialized.
func NewPending(cfg asrconfig.Config, callbacks Callbacks) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	profile, err := audiobuf.ByName(cfg.ChunkProfile)
	if err != nil {
		return nil, err
	}
	if err := profile.Validate(); err != nil {
		return nil, err
	}

	s := &Session{
		cfg:       cfg,
		profile:   profile,
		buf:       audiobuf.New(profile),
		mel:       melfeat.New(),
		debouncer: eou.New(cfg.EOUDebounceMs),
		callbacks: callbacks,
	}
	return s, nil
}

// LoadModels installs the model bundle and tokenizer and arms the session
// for processing. It also (re)zeroes the cache/decoder state, so it is safe
// to call once before the first Process.
func (s *Session) LoadModels(bundle models.Bundle, tok tokenizer.Tokenizer, vocab decoder.Vocab) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.bundle = &bundle
	s.tok = tok
	s.encDriver = encoder.New(bundle.Encoder)
	s.dec = decoder.New(bundle.Decoder, bundle.Joint, vocab, tensor.Shape(models.RecurrentShape()))
	s.caches = encoder.Zero(s.profile)
}

func (s *Session) ready() bool {
	return s.bundle != nil && s.tok != nil
}

// Process appends samples to the session's buffer and runs the streaming
// pipeline over every full chunk that becomes available, in order. It
// always returns the empty string on success — transcripts are delivered
// exclusively through callbacks and Finish (§4.6).
func (s *Session) Process(ctx context.Context, samples []float32) (string, error) {
	if !s.mu.TryLock() {
		return "", asrerrors.ErrBusy
	}
	defer s.mu.Unlock()

	if !s.ready() {
		return "", asrerrors.ErrNotInitialized
	}

	if err := s.buf.Append(samples); err != nil {
		return "", err
	}

	for {
		chunk, ok := s.buf.DrainNext()
		if !ok {
			break
		}
		if err := s.runChunk(ctx, chunk); err != nil {
			return "", err
		}
		s.buf.Advance()
	}

	return "", nil
}

// Finish flushes any buffered remainder as a single zero-padded chunk,
// decodes the accumulated token ids to text, clears them, and returns the
// final transcript. It does not reset the model caches or decoder state; the
// padded chunk advances them like any other chunk.
func (s *Session) Finish(ctx context.Context) (string, error) {
	if !s.mu.TryLock() {
		return "", asrerrors.ErrBusy
	}
	defer s.mu.Unlock()

	if !s.ready() {
		return "", asrerrors.ErrNotInitialized
	}

	if chunk, ok := s.buf.FlushPadded(); ok {
		if err := s.runChunk(ctx, chunk); err != nil {
			return "", err
		}
	}

	text, err := s.tok.Decode(s.accumulatedIDs)
	if err != nil {
		return "", fmt.Errorf("session: %w", err)
	}
	s.accumulatedIDs = nil
	return text, nil
}

// Reset clears all session state — buffer, accumulated ids, debug buffers,
// EOU fields — and re-zeroes cache tensors and decoder state.
// processed_chunks returns to 0.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.buf.Reset()
	s.accumulatedIDs = nil
	s.debugFrames = nil
	s.processedChunks = 0
	s.debouncer.Reset()
	if s.ready() {
		s.caches = encoder.Zero(s.profile)
		s.dec.Reset()
	}
}

// InjectSilence appends round(seconds*16000) zero samples, driving the
// pipeline the same way real silence would — used to force a decaying EOU
// decision without fresh audio.
func (s *Session) InjectSilence(ctx context.Context, seconds float64) (string, error) {
	n := int(math.Round(seconds * float64(audiobuf.SampleRate)))
	if n <= 0 {
		return "", nil
	}
	return s.Process(ctx, make([]float32, n))
}

// DumpDebugFeatures writes the accumulated mel feature log to path. The log
// is only filled when debug_features is enabled. Layout: each chunk's full
// [n_mels x mel_frames] mel buffer, concatenated in processing order.
func (s *Session) DumpDebugFeatures(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return dumpDebugFeatures(path, s.debugFrames)
}

// runChunk runs mel → encoder → decoder → debouncer for one chunk and
// invokes callbacks per the ordering guarantees in §5: the partial callback
// for this chunk completes before the EOU callback, if any, fires.
func (s *Session) runChunk(ctx context.Context, chunk []float32) error {
	mel, melLength, err := s.mel.Compute(chunk, s.profile.ChunkSamples)
	if err != nil {
		return err
	}
	if s.cfg.DebugFeatures {
		s.debugFrames = append(s.debugFrames, mel...)
	}

	audioSignal := tensor.FromData(tensor.Shape{1, melfeat.NMels, int64(melLength)}, mel)

	encodedOutput, _, newCaches, err := s.encDriver.Run(ctx, audioSignal, int32(melLength), s.caches)
	if err != nil {
		return err
	}

	ids, eouPredicted, err := s.dec.Step(ctx, encodedOutput, s.profile.ValidOutLen)
	if err != nil {
		return err
	}

	// Cache writes become visible to the next chunk only now that the
	// decoder has finished consuming this chunk's encoded output (§4.3).
	s.caches = newCaches
	s.processedChunks++

	if len(ids) > 0 {
		s.accumulatedIDs = append(s.accumulatedIDs, ids...)
		if s.callbacks.Partial != nil {
			text, err := s.tok.Decode(s.accumulatedIDs)
			if err != nil {
				return fmt.Errorf("session: %w", err)
			}
			s.callbacks.Partial(text)
		}
	}

	if s.debouncer.Update(int64(s.profile.ShiftSamples), ids, eouPredicted) {
		if s.callbacks.EOU != nil {
			text, err := s.tok.Decode(s.accumulatedIDs)
			if err != nil {
				return fmt.Errorf("session: %w", err)
			}
			s.callbacks.EOU(text)
		}
	}

	return nil
}
