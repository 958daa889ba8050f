// Package strava talks to the Strava v3 API: refresh-token grants and
// manual activity creation.
package strava

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/oauth2"

	"github.com/yanqian/yogava/internal/domain/publish"
	"github.com/yanqian/yogava/internal/infra/config"
)

const (
	defaultTokenURL   = "https://www.strava.com/oauth/token"
	defaultAPIBaseURL = "https://www.strava.com/api/v3"
	refreshAttempts   = 3
	// Strava reads start_date_local as wall-clock time; the trailing Z is
	// part of its accepted format, not a zone.
	startDateLayout = "2006-01-02T15:04:05Z"
)

// Client implements publish.ActivityClient.
type Client struct {
	oauth        *oauth2.Config
	refreshToken string
	apiBaseURL   string
	httpClient   *http.Client
	logger       *slog.Logger
	newBackOff   func() backoff.BackOff
}

// NewClient builds a Strava API client.
func NewClient(cfg config.StravaConfig, logger *slog.Logger) *Client {
	tokenURL := strings.TrimSpace(cfg.TokenURL)
	if tokenURL == "" {
		tokenURL = defaultTokenURL
	}
	apiBaseURL := strings.TrimSpace(cfg.APIBaseURL)
	if apiBaseURL == "" {
		apiBaseURL = defaultAPIBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint: oauth2.Endpoint{
				TokenURL:  tokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		refreshToken: cfg.RefreshToken,
		apiBaseURL:   strings.TrimRight(apiBaseURL, "/"),
		httpClient:   &http.Client{Timeout: timeout},
		logger:       logger.With("component", "strava.client"),
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.MaxElapsedTime = 30 * time.Second
			return b
		},
	}
}

// RefreshAccessToken exchanges the long-lived refresh token for a fresh
// access token. Network failures and 5xx replies are retried; 4xx replies
// are not.
func (c *Client) RefreshAccessToken(ctx context.Context) (*oauth2.Token, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)

	var (
		token    *oauth2.Token
		attempts int
	)
	op := func() error {
		attempts++
		src := c.oauth.TokenSource(ctx, &oauth2.Token{RefreshToken: c.refreshToken})
		t, err := src.Token()
		if err != nil {
			var retrieveErr *oauth2.RetrieveError
			if errors.As(err, &retrieveErr) && retrieveErr.Response != nil && retrieveErr.Response.StatusCode < 500 {
				return backoff.Permanent(err)
			}
			c.logger.Warn("strava token refresh attempt failed", "attempt", attempts, "error", err)
			return err
		}
		token = t
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(c.newBackOff(), refreshAttempts-1), ctx)
	if err := backoff.Retry(op, policy); err != nil {
		return nil, fmt.Errorf("refresh strava token after %d attempt(s): %w", attempts, err)
	}
	if token.RefreshToken != "" && token.RefreshToken != c.refreshToken {
		c.logger.Warn("strava rotated the refresh token; update STRAVA_REFRESH_TOKEN")
	}
	return token, nil
}

// CreateActivity posts a manual activity. It is attempted exactly once.
func (c *Client) CreateActivity(ctx context.Context, token *oauth2.Token, activity publish.Activity) (publish.CreatedActivity, error) {
	if token == nil || token.AccessToken == "" {
		return publish.CreatedActivity{}, errors.New("create strava activity: missing access token")
	}

	form := url.Values{}
	form.Set("name", activity.Name)
	form.Set("sport_type", activity.SportType)
	form.Set("start_date_local", activity.StartDateLocal.Format(startDateLayout))
	form.Set("elapsed_time", strconv.Itoa(activity.ElapsedSeconds))
	form.Set("description", activity.Description)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiBaseURL+"/activities", strings.NewReader(form.Encode()))
	if err != nil {
		return publish.CreatedActivity{}, fmt.Errorf("build strava activity request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	client := oauth2.NewClient(context.WithValue(ctx, oauth2.HTTPClient, c.httpClient), oauth2.StaticTokenSource(token))
	client.Timeout = c.httpClient.Timeout

	resp, err := client.Do(req)
	if err != nil {
		return publish.CreatedActivity{}, fmt.Errorf("strava activity request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return publish.CreatedActivity{}, fmt.Errorf("strava activity request error: status=%d body=%s", resp.StatusCode, string(payload))
	}

	var created activityResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return publish.CreatedActivity{}, fmt.Errorf("decode strava activity response: %w", err)
	}
	return publish.CreatedActivity{ID: created.ID, Name: created.Name}, nil
}

type activityResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
