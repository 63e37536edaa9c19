// Command asrstream is a smoke-test harness wiring one streaming session
// end to end: it reads raw 16 kHz mono f32le PCM from stdin, feeds it to a
// Session in fixed-size reads, and logs partial/EOU callbacks as they fire.
// It has no network surface — gRPC and CLI serving are out of scope here.
package main

import (
	"bufio"
	"context"
	"encoding/binary"
	"errors"
	"io"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/strmasr/asrcore/internal/asrconfig"
	"github.com/strmasr/asrcore/internal/decoder"
	"github.com/strmasr/asrcore/internal/models"
	"github.com/strmasr/asrcore/internal/session"
	"github.com/strmasr/asrcore/internal/tokenizer"
)

// readSamples is the number of f32 samples read from stdin per Process call.
const readSamples = 1600 // 100ms at 16kHz

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := asrconfig.Loader{}.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.LogLevel)
	logger.Info("starting asrstream",
		"chunk_profile", cfg.ChunkProfile,
		"eou_debounce_ms", cfg.EOUDebounceMs,
		"model_dir", cfg.ModelDir,
	)

	tok, vocabSize := resolveTokenizer(cfg, logger)

	bundle, vocab, err := resolveBundle(cfg, vocabSize, logger)
	if err != nil {
		logger.Error("failed to resolve model bundle", "error", err)
		os.Exit(1)
	}
	defer bundle.Close()

	sess, err := session.NewPending(cfg, session.Callbacks{
		Partial: func(text string) { logger.Info("partial", "text", text) },
		EOU:     func(text string) { logger.Info("eou", "text", text) },
	})
	if err != nil {
		logger.Error("failed to create session", "error", err)
		os.Exit(1)
	}
	sess.LoadModels(bundle, tok, vocab)

	if err := runLoop(ctx, sess, os.Stdin, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("stream loop failed", "error", err)
		os.Exit(1)
	}

	text, err := sess.Finish(ctx)
	if err != nil {
		logger.Error("finish failed", "error", err)
		os.Exit(1)
	}
	logger.Info("final transcript", "text", text)
}

func runLoop(ctx context.Context, sess *session.Session, r io.Reader, logger *slog.Logger) error {
	reader := bufio.NewReader(r)
	buf := make([]byte, readSamples*4)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		n, err := io.ReadFull(reader, buf)
		if n > 0 {
			samples := bytesToFloat32(buf[:n-n%4])
			if _, procErr := sess.Process(ctx, samples); procErr != nil {
				return procErr
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return nil
			}
			return err
		}
	}
}

func bytesToFloat32(buf []byte) []float32 {
	out := make([]float32, len(buf)/4)
	for i := range out {
		bits := binary.LittleEndian.Uint32(buf[i*4:])
		out[i] = math.Float32frombits(bits)
	}
	return out
}

// resolveBundle mirrors the teacher's "auto" engine resolution in
// cmd/adapter/main.go: prefer the real ONNX backend when compiled in and a
// model directory is configured, otherwise fall back to the deterministic
// stub so the pipeline can still be exercised end to end.
func resolveBundle(cfg asrconfig.Config, vocabSize int, logger *slog.Logger) (models.Bundle, decoder.Vocab, error) {
	vocab := decoder.Vocab{
		Size:    vocabSize,
		BlankID: int64(vocabSize),
		EOUID:   int64(vocabSize + 1),
		StartID: int64(vocabSize),
	}

	if models.NativeAvailable() {
		bundle, err := models.LoadDir(cfg.ModelDir)
		if err == nil {
			logger.Info("model bundle ready", "backend", "onnx", "model_dir", cfg.ModelDir)
			return bundle, vocab, nil
		}
		logger.Warn("onnx model load failed, falling back to stub bundle", "error", err)
	} else {
		logger.Warn("using stub model bundle — transcripts are deterministic and NOT based on audio content (build with -tags onnx for production)")
	}
	return models.NewStubBundle(), decoder.Vocab{
		Size:    models.StubVocab,
		BlankID: int64(models.StubVocab),
		EOUID:   int64(models.StubVocab + 1),
		StartID: int64(models.StubVocab),
	}, nil
}

// resolveTokenizer loads vocab.json and returns both the tokenizer and its
// vocabulary size, used to size the joint's expected logits vector. Falls
// back to a no-op tokenizer (and the stub bundle's fixed vocabulary) when no
// vocab.json is available.
func resolveTokenizer(cfg asrconfig.Config, logger *slog.Logger) (tokenizer.Tokenizer, int) {
	path := filepath.Join(cfg.ModelDir, "vocab.json")
	tok, err := tokenizer.LoadVocab(path)
	if err != nil {
		logger.Warn("vocab.json not available, transcripts will be empty", "error", err)
		return noopTokenizer{}, models.StubVocab
	}
	return tok, tok.Size()
}

// noopTokenizer decodes every id sequence to the empty string, used only
// when no vocab.json is available (e.g. running the stub bundle standalone).
type noopTokenizer struct{}

func (noopTokenizer) Decode(_ []int64) (string, error) { return "", nil }

func newLogger(level string) *slog.Logger {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(level),
	})
	return slog.New(handler)
}

func parseLevel(value string) slog.Leveler {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return slog.LevelDebug
	case "info", "":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
