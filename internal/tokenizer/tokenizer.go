// Package tokenizer turns decoder token ids into text using a vocab.json
// artifact, the fourth collaborator file named in §6 alongside the three
// opaque models. There is no teacher analogue for vocabulary decoding — the
// teacher emits booleans, not text — so this is grounded on the general
// config/artifact-loading idiom the teacher uses throughout internal/config
// and internal/engine/model_silero.go: a small loader plus a narrow
// interface the rest of the module depends on.
package tokenizer

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/strmasr/asrcore/internal/asrerrors"
)

// Tokenizer decodes a sequence of token ids into text.
type Tokenizer interface {
	Decode(ids []int64) (string, error)
}

// wordPieceMarker is the sentencepiece convention for "this piece starts a
// new word"; pieces without it are glued directly onto the previous one.
const wordPieceMarker = "▁" // '▁'

// VocabTokenizer decodes ids against a flat array of pieces loaded from
// vocab.json, where array index == token id.
type VocabTokenizer struct {
	pieces []string
}

// Size returns the vocabulary length, i.e. the V the joint's logits are
// sized V+2 against.
func (v *VocabTokenizer) Size() int {
	return len(v.pieces)
}

// LoadVocab reads a vocab.json artifact: a JSON array of strings indexed by
// token id.
func LoadVocab(path string) (*VocabTokenizer, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("tokenizer: %w: read %q: %v", asrerrors.ErrTokenizerFailed, path, err)
	}
	var pieces []string
	if err := json.Unmarshal(raw, &pieces); err != nil {
		return nil, fmt.Errorf("tokenizer: %w: decode %q: %v", asrerrors.ErrTokenizerFailed, path, err)
	}
	return &VocabTokenizer{pieces: pieces}, nil
}

// Decode joins the pieces named by ids into text. A piece beginning with the
// wordpiece marker starts a new word (rendered as a preceding space); any
// other piece is glued directly onto the previous one.
func (v *VocabTokenizer) Decode(ids []int64) (string, error) {
	var sb strings.Builder
	for _, id := range ids {
		if id < 0 || int(id) >= len(v.pieces) {
			return "", fmt.Errorf("tokenizer: %w: id %d out of range [0,%d)", asrerrors.ErrTokenizerFailed, id, len(v.pieces))
		}
		piece := v.pieces[id]
		if strings.HasPrefix(piece, wordPieceMarker) {
			if sb.Len() > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(strings.TrimPrefix(piece, wordPieceMarker))
		} else {
			sb.WriteString(piece)
		}
	}
	return sb.String(), nil
}
