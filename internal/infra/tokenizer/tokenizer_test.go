package tokenizer

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWordFallbackTruncates(t *testing.T) {
	tok := &Tokenizer{}

	out, n, truncated := tok.Truncate("inhale  exhale\nfold forward slowly", 3)
	require.True(t, truncated)
	require.Equal(t, 3, n)
	require.Equal(t, "inhale exhale fold", out)
}

func TestWordFallbackKeepsShortText(t *testing.T) {
	tok := &Tokenizer{}

	out, n, truncated := tok.Truncate("rest in child's pose", 10)
	require.False(t, truncated)
	require.Equal(t, 4, n)
	require.Equal(t, "rest in child's pose", out)
}

func TestNonPositiveBudgetLeavesTextUntouched(t *testing.T) {
	tok := &Tokenizer{}

	out, _, truncated := tok.Truncate("one two three", 0)
	require.False(t, truncated)
	require.Equal(t, "one two three", out)
}

func TestEncodingTruncates(t *testing.T) {
	tok := New(DefaultEncoding, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if tok.enc == nil {
		t.Skip("cl100k_base encoding not available offline")
	}

	text := strings.Repeat("breathe ", 50)
	out, n, truncated := tok.Truncate(text, 10)
	require.True(t, truncated)
	require.Equal(t, 10, n)
	require.LessOrEqual(t, len(tok.enc.Encode(out, nil, nil)), 10)
	require.True(t, strings.HasPrefix(text, out))
}
