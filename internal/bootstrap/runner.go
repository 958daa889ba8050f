package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/yanqian/yogava/internal/domain/pipeline"
)

// Runner processes a single video outside the HTTP server.
type Runner struct {
	pipeline pipeline.Service
	logger   *slog.Logger
}

// NewRunner is used by Wire to build the one-shot runner.
func NewRunner(svc pipeline.Service, logger *slog.Logger) *Runner {
	return &Runner{pipeline: svc, logger: logger.With("component", "bootstrap.runner")}
}

// Process runs the pipeline once and turns failure into an error.
func (r *Runner) Process(ctx context.Context, videoURL string) error {
	if !r.pipeline.Run(ctx, videoURL) {
		return fmt.Errorf("processing %s failed; see log for details", videoURL)
	}
	r.logger.Info("video processed", "video_url", videoURL)
	return nil
}
