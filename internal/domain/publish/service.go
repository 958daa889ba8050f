package publish

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/oauth2"

	"github.com/yanqian/yogava/internal/domain/render"
)

const (
	defaultSportType   = "Yoga"
	defaultStartBuffer = 60 * time.Second
)

// Service posts analyzed lessons as activities. Failures are logged and
// reported as false; they never propagate to the caller.
type Service interface {
	Publish(ctx context.Context, req Request) bool
}

type ActivityClient interface {
	RefreshAccessToken(ctx context.Context) (*oauth2.Token, error)
	CreateActivity(ctx context.Context, token *oauth2.Token, activity Activity) (CreatedActivity, error)
}

type service struct {
	cfg    Config
	client ActivityClient
	logger *slog.Logger
	now    func() time.Time
}

// NewService wires up the publisher.
func NewService(cfg Config, client ActivityClient, logger *slog.Logger) Service {
	if cfg.SportType == "" {
		cfg.SportType = defaultSportType
	}
	if cfg.StartBuffer <= 0 {
		cfg.StartBuffer = defaultStartBuffer
	}
	if cfg.ChartWidth <= 0 {
		cfg.ChartWidth = render.DefaultWidth
	}
	return &service{
		cfg:    cfg,
		client: client,
		logger: logger.With("component", "publish.service"),
		now:    time.Now,
	}
}

func (s *service) Publish(ctx context.Context, req Request) bool {
	description := ComposeDescription(req.VideoURL, req.Scores, req.Intensity, s.cfg.ChartWidth)
	s.logger.Info("activity description composed", "video_id", ExtractVideoID(req.VideoURL), "bytes", len(description))

	token, err := s.client.RefreshAccessToken(ctx)
	if err != nil {
		s.logger.Error("activity token refresh failed", "code", CodeTokenRefreshFailed, "error", err)
		return false
	}

	activity := Activity{
		Name:           req.Title,
		SportType:      s.cfg.SportType,
		StartDateLocal: s.startTime(req.DurationSeconds),
		ElapsedSeconds: req.DurationSeconds,
		Description:    description,
	}
	created, err := s.client.CreateActivity(ctx, token, activity)
	if err != nil {
		s.logger.Error("activity creation failed", "code", CodeActivityCreationFailed, "title", req.Title, "error", err)
		return false
	}

	s.logger.Info("activity posted", "activity_id", created.ID, "title", req.Title, "start", activity.StartDateLocal.Format(time.RFC3339))
	return true
}

// startTime backdates the activity so that it ends roughly now.
func (s *service) startTime(durationSeconds int) time.Time {
	return s.now().Add(-(time.Duration(durationSeconds)*time.Second + s.cfg.StartBuffer))
}
