package transcript

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	apperrors "github.com/yanqian/yogava/pkg/errors"
)

const defaultLanguage = "en"

// Service obtains lesson transcripts and cleans up after them.
type Service interface {
	Fetch(ctx context.Context, videoURL string) (Transcript, error)
	Release(ctx context.Context, t Transcript) error
}

// Tokenizer bounds transcript size before it reaches the model.
type Tokenizer interface {
	Truncate(text string, maxTokens int) (out string, tokens int, truncated bool)
}

type service struct {
	cfg        Config
	downloader CaptionDownloader
	store      ArtifactStore
	tokenizer  Tokenizer
	logger     *slog.Logger
	newRunID   func() string
}

// NewService wires up the transcript fetcher.
func NewService(cfg Config, downloader CaptionDownloader, store ArtifactStore, tokenizer Tokenizer, logger *slog.Logger) Service {
	if strings.TrimSpace(cfg.Language) == "" {
		cfg.Language = defaultLanguage
	}
	return &service{
		cfg:        cfg,
		downloader: downloader,
		store:      store,
		tokenizer:  tokenizer,
		logger:     logger.With("component", "transcript.service"),
		newRunID:   uuid.NewString,
	}
}

func (s *service) Fetch(ctx context.Context, videoURL string) (Transcript, error) {
	videoURL = strings.TrimSpace(videoURL)
	if videoURL == "" {
		return Transcript{}, unavailable("video url is required", nil)
	}

	captions, err := s.downloader.Download(ctx, videoURL, s.cfg.Language)
	if err != nil {
		return Transcript{}, unavailable("download captions", err)
	}
	if len(captions.VTT) == 0 {
		return Transcript{}, unavailable("video has no captions", nil)
	}
	if captions.DurationSeconds <= 0 {
		return Transcript{}, unavailable("video duration is unknown", nil)
	}

	srt, text, err := ConvertVTT(captions.VTT)
	if err != nil {
		return Transcript{}, unavailable("convert captions", err)
	}
	if text == "" {
		return Transcript{}, unavailable("captions contain no dialogue", nil)
	}

	key := s.artifactKey(captions.VideoID)
	stored, err := s.store.Put(ctx, key, srt)
	if err != nil {
		return Transcript{}, unavailable("store subtitles", err)
	}

	tokens := 0
	if s.tokenizer != nil && s.cfg.MaxTokens > 0 {
		var truncated bool
		text, tokens, truncated = s.tokenizer.Truncate(text, s.cfg.MaxTokens)
		if truncated {
			s.logger.Warn("transcript truncated to token budget", "video_id", captions.VideoID, "max_tokens", s.cfg.MaxTokens)
		}
	}

	s.logger.Info("transcript fetched",
		"video_id", captions.VideoID,
		"duration_seconds", captions.DurationSeconds,
		"automatic_captions", captions.Automatic,
		"tokens", tokens,
		"artifact", stored.Key,
		"artifact_bytes", stored.Size,
		"artifact_expires_at", stored.ExpiresAt,
	)
	return Transcript{
		VideoID:         captions.VideoID,
		VideoURL:        videoURL,
		Text:            text,
		DurationSeconds: captions.DurationSeconds,
		ArtifactKey:     key,
	}, nil
}

func (s *service) Release(ctx context.Context, t Transcript) error {
	if t.ArtifactKey == "" {
		return nil
	}
	if err := s.store.Delete(ctx, t.ArtifactKey); err != nil {
		return fmt.Errorf("release transcript artifact: %w", err)
	}
	return nil
}

func (s *service) artifactKey(videoID string) string {
	if videoID == "" {
		videoID = "video"
	}
	return fmt.Sprintf("subtitles/%s/%s.%s.srt", s.newRunID(), videoID, s.cfg.Language)
}

func unavailable(message string, err error) error {
	return apperrors.Wrap(CodeTranscriptUnavailable, message, err)
}
