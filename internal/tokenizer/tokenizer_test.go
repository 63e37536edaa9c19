package tokenizer

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/strmasr/asrcore/internal/asrerrors"
)

func writeVocab(t *testing.T, pieces []string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "vocab.json")
	raw, err := json.Marshal(pieces)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDecodeGluesWordPieces(t *testing.T) {
	path := writeVocab(t, []string{"▁hello", "world", "▁there"})
	tok, err := LoadVocab(path)
	if err != nil {
		t.Fatal(err)
	}
	text, err := tok.Decode([]int64{0, 1, 2})
	if err != nil {
		t.Fatal(err)
	}
	if text != "helloworld there" {
		t.Fatalf("text = %q, want %q", text, "helloworld there")
	}
}

func TestDecodeEmptyIDs(t *testing.T) {
	path := writeVocab(t, []string{"▁hi"})
	tok, err := LoadVocab(path)
	if err != nil {
		t.Fatal(err)
	}
	text, err := tok.Decode(nil)
	if err != nil {
		t.Fatal(err)
	}
	if text != "" {
		t.Fatalf("text = %q, want empty", text)
	}
}

func TestDecodeOutOfRangeID(t *testing.T) {
	path := writeVocab(t, []string{"▁hi"})
	tok, err := LoadVocab(path)
	if err != nil {
		t.Fatal(err)
	}
	_, err = tok.Decode([]int64{5})
	if !errors.Is(err, asrerrors.ErrTokenizerFailed) {
		t.Fatalf("expected ErrTokenizerFailed, got %v", err)
	}
}

func TestLoadVocabMissingFile(t *testing.T) {
	_, err := LoadVocab(filepath.Join(t.TempDir(), "missing.json"))
	if !errors.Is(err, asrerrors.ErrTokenizerFailed) {
		t.Fatalf("expected ErrTokenizerFailed, got %v", err)
	}
}
