// Package tokenizer truncates text to a model token budget.
package tokenizer

import (
	"log/slog"
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// DefaultEncoding matches the chat models the analyzer talks to closely
// enough for budgeting.
const DefaultEncoding = "cl100k_base"

// Tokenizer truncates text to a token budget. Without a loadable encoding it
// counts whitespace-separated words instead.
type Tokenizer struct {
	enc *tiktoken.Tiktoken
}

// New loads encoding, falling back to word counting when it is unavailable.
func New(encoding string, logger *slog.Logger) *Tokenizer {
	if encoding == "" {
		encoding = DefaultEncoding
	}
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		logger.With("component", "tokenizer").Warn("token encoding unavailable; counting words", "encoding", encoding, "error", err)
		return &Tokenizer{}
	}
	return &Tokenizer{enc: enc}
}

// Truncate keeps at most maxTokens tokens of text. A non-positive budget
// leaves text untouched.
func (t *Tokenizer) Truncate(text string, maxTokens int) (string, int, bool) {
	if t.enc == nil {
		return truncateWords(text, maxTokens)
	}
	tokens := t.enc.Encode(text, nil, nil)
	if maxTokens <= 0 || len(tokens) <= maxTokens {
		return text, len(tokens), false
	}
	return strings.ToValidUTF8(t.enc.Decode(tokens[:maxTokens]), ""), maxTokens, true
}

func truncateWords(text string, maxTokens int) (string, int, bool) {
	words := strings.Fields(text)
	if maxTokens <= 0 || len(words) <= maxTokens {
		return text, len(words), false
	}
	return strings.Join(words[:maxTokens], " "), maxTokens, true
}
