// Package pipeline sequences one lesson from video link to posted activity.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/yanqian/yogava/internal/domain/analysis"
	"github.com/yanqian/yogava/internal/domain/publish"
	"github.com/yanqian/yogava/internal/domain/transcript"
	apperrors "github.com/yanqian/yogava/pkg/errors"
)

// Service runs fetch, analyze and publish for one video. It reports only
// success or failure; details go to the log.
type Service interface {
	Run(ctx context.Context, videoURL string) bool
}

type service struct {
	transcripts transcript.Service
	analyzer    analysis.Service
	publisher   publish.Service
	logger      *slog.Logger
	newRunID    func() string
}

// NewService is a wire provider for the pipeline.
func NewService(transcripts transcript.Service, analyzer analysis.Service, publisher publish.Service, logger *slog.Logger) Service {
	return &service{
		transcripts: transcripts,
		analyzer:    analyzer,
		publisher:   publisher,
		logger:      logger.With("component", "pipeline.service"),
		newRunID:    uuid.NewString,
	}
}

func (s *service) Run(ctx context.Context, videoURL string) (ok bool) {
	logger := s.logger.With("run_id", s.newRunID(), "video_url", videoURL)
	started := time.Now()
	logger.Info("pipeline started")
	defer func() {
		if r := recover(); r != nil {
			logger.Error("pipeline panicked", "panic", r)
			ok = false
		}
		logger.Info("pipeline finished", "ok", ok, "elapsed", time.Since(started).String())
	}()

	lesson, err := s.transcripts.Fetch(ctx, videoURL)
	if err != nil {
		logger.Error("transcript fetch failed", "code", apperrors.CodeOf(err), "error", err)
		return false
	}
	defer func() {
		if err := s.transcripts.Release(context.WithoutCancel(ctx), lesson); err != nil {
			logger.Warn("transcript artifact not released", "artifact", lesson.ArtifactKey, "error", err)
		}
	}()
	logger.Info("transcript ready", "video_id", lesson.VideoID, "duration_seconds", lesson.DurationSeconds)

	result, err := s.analyzer.Analyze(ctx, lesson.Text)
	if err != nil {
		logger.Error("lesson analysis failed", "code", apperrors.CodeOf(err), "error", err)
		return false
	}
	logger.Info("analysis ready", "title", result.Title, "total_tokens", result.Usage.TotalTokens)

	return s.publisher.Publish(ctx, publish.Request{
		VideoURL:        lesson.VideoURL,
		Title:           result.Title,
		DurationSeconds: lesson.DurationSeconds,
		Scores:          result.Scores,
		Intensity:       result.Intensity,
	})
}
