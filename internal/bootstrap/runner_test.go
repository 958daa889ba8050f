package bootstrap

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

type stubPipeline struct {
	ok   bool
	urls []string
}

func (s *stubPipeline) Run(_ context.Context, videoURL string) bool {
	s.urls = append(s.urls, videoURL)
	return s.ok
}

func TestRunnerProcess(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	ok := &stubPipeline{ok: true}
	require.NoError(t, NewRunner(ok, logger).Process(context.Background(), "https://youtu.be/dQw4w9WgXcQ"))
	require.Equal(t, []string{"https://youtu.be/dQw4w9WgXcQ"}, ok.urls)

	failing := &stubPipeline{}
	err := NewRunner(failing, logger).Process(context.Background(), "https://youtu.be/dQw4w9WgXcQ")
	require.Error(t, err)
	require.Contains(t, err.Error(), "dQw4w9WgXcQ")
}
