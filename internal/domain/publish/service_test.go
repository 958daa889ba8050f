package publish

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/yanqian/yogava/internal/domain/analysis"
)

type stubActivityClient struct {
	refreshErr   error
	createErr    error
	refreshCalls int
	createCalls  int
	lastToken    *oauth2.Token
	lastActivity Activity
}

func (s *stubActivityClient) RefreshAccessToken(context.Context) (*oauth2.Token, error) {
	s.refreshCalls++
	if s.refreshErr != nil {
		return nil, s.refreshErr
	}
	return &oauth2.Token{AccessToken: "access-1", TokenType: "Bearer"}, nil
}

func (s *stubActivityClient) CreateActivity(_ context.Context, token *oauth2.Token, activity Activity) (CreatedActivity, error) {
	s.createCalls++
	s.lastToken = token
	s.lastActivity = activity
	if s.createErr != nil {
		return CreatedActivity{}, s.createErr
	}
	return CreatedActivity{ID: 42, Name: activity.Name}, nil
}

func newTestService(client ActivityClient, now time.Time) *service {
	svc := NewService(Config{}, client, slog.New(slog.NewTextHandler(io.Discard, nil))).(*service)
	svc.now = func() time.Time { return now }
	return svc
}

func sampleRequest() Request {
	return Request{
		VideoURL:        "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		Title:           "[ai] Monday Morning Flow",
		DurationSeconds: 600,
		Scores: analysis.Scores{
			Principles: analysis.ScoreMapping{"balance": 0.8},
			Targets:    analysis.ScoreMapping{"hips": 0.6},
		},
		Intensity: []float64{0.1, 0.5, 0.9},
	}
}

func TestPublishCreatesActivity(t *testing.T) {
	now := time.Date(2024, 7, 1, 8, 0, 0, 0, time.UTC)
	client := &stubActivityClient{}
	svc := newTestService(client, now)

	require.True(t, svc.Publish(context.Background(), sampleRequest()))
	require.Equal(t, 1, client.refreshCalls)
	require.Equal(t, 1, client.createCalls)
	require.Equal(t, "access-1", client.lastToken.AccessToken)

	activity := client.lastActivity
	require.Equal(t, "[ai] Monday Morning Flow", activity.Name)
	require.Equal(t, "Yoga", activity.SportType)
	require.Equal(t, 600, activity.ElapsedSeconds)
	require.Equal(t, now.Add(-660*time.Second), activity.StartDateLocal)
	require.True(t, strings.HasPrefix(activity.Description, "████████████────"))
	require.Contains(t, activity.Description, "youtube video: dQw4w9WgXcQ\n")
}

func TestPublishStopsWhenTokenRefreshFails(t *testing.T) {
	client := &stubActivityClient{refreshErr: errors.New("invalid refresh token")}
	svc := newTestService(client, time.Now())

	require.False(t, svc.Publish(context.Background(), sampleRequest()))
	require.Equal(t, 1, client.refreshCalls)
	require.Zero(t, client.createCalls)
}

func TestPublishReportsCreationFailure(t *testing.T) {
	client := &stubActivityClient{createErr: errors.New("status=500")}
	svc := newTestService(client, time.Now())

	require.False(t, svc.Publish(context.Background(), sampleRequest()))
	require.Equal(t, 1, client.createCalls)
}

func TestPublishHonoursConfiguredSportAndBuffer(t *testing.T) {
	now := time.Date(2024, 7, 1, 8, 0, 0, 0, time.UTC)
	client := &stubActivityClient{}
	svc := NewService(Config{SportType: "Pilates", StartBuffer: 2 * time.Minute}, client, slog.New(slog.NewTextHandler(io.Discard, nil))).(*service)
	svc.now = func() time.Time { return now }

	req := sampleRequest()
	req.DurationSeconds = 0
	require.True(t, svc.Publish(context.Background(), req))
	require.Equal(t, "Pilates", client.lastActivity.SportType)
	require.Equal(t, now.Add(-2*time.Minute), client.lastActivity.StartDateLocal)
}
