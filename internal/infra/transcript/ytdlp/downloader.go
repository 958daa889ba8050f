// Package ytdlp fetches YouTube captions by shelling out to yt-dlp.
package ytdlp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/yanqian/yogava/internal/domain/transcript"
)

var commandContext = exec.CommandContext

var errNoCaptions = errors.New("no captions in requested language")

const (
	defaultBinary   = "yt-dlp"
	defaultAttempts = 3
	stderrLimit     = 2 << 10
)

// Downloader implements transcript.CaptionDownloader.
type Downloader struct {
	binary     string
	attempts   int
	tempRoot   string
	logger     *slog.Logger
	newBackOff func() backoff.BackOff
}

// NewDownloader builds a downloader that runs binary at most attempts times
// per video.
func NewDownloader(binary string, attempts int, logger *slog.Logger) *Downloader {
	if strings.TrimSpace(binary) == "" {
		binary = defaultBinary
	}
	if attempts <= 0 {
		attempts = defaultAttempts
	}
	return &Downloader{
		binary:   binary,
		attempts: attempts,
		logger:   logger.With("component", "ytdlp.downloader"),
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 2 * time.Second
			b.MaxElapsedTime = 2 * time.Minute
			return b
		},
	}
}

// Download fetches captions for videoURL in language, preferring authored
// subtitles over automatic ones.
func (d *Downloader) Download(ctx context.Context, videoURL, language string) (transcript.Captions, error) {
	dir, err := os.MkdirTemp(d.tempRoot, "yogava-subs-*")
	if err != nil {
		return transcript.Captions{}, fmt.Errorf("create caption dir: %w", err)
	}
	defer os.RemoveAll(dir)

	var (
		captions transcript.Captions
		attempt  int
	)
	op := func() error {
		attempt++
		got, err := d.run(ctx, dir, videoURL, language)
		if err != nil {
			if errors.Is(err, errNoCaptions) || ctx.Err() != nil {
				return backoff.Permanent(err)
			}
			d.logger.Warn("caption download attempt failed", "url", videoURL, "attempt", attempt, "error", err)
			return err
		}
		captions = got
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(d.newBackOff(), uint64(d.attempts-1)), ctx)
	if err := backoff.Retry(op, policy); err != nil {
		return transcript.Captions{}, fmt.Errorf("download captions after %d attempt(s): %w", attempt, err)
	}
	return captions, nil
}

func (d *Downloader) run(ctx context.Context, dir, videoURL, language string) (transcript.Captions, error) {
	args := []string{
		"--skip-download",
		"--write-subs",
		"--write-auto-subs",
		"--sub-langs", language,
		"--sub-format", "vtt",
		"--dump-json",
		"--no-simulate",
		"--no-progress",
		"--no-playlist",
		"-P", dir,
		"-o", "%(id)s.%(ext)s",
		"--", videoURL,
	}
	cmd := commandContext(ctx, d.binary, args...) //nolint:gosec
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	stdout, err := cmd.Output()
	if err != nil {
		return transcript.Captions{}, fmt.Errorf("yt-dlp failed: %w: %s", err, truncate(stderr.String(), stderrLimit))
	}

	info, err := parseInfo(stdout)
	if err != nil {
		return transcript.Captions{}, err
	}

	path, automatic, err := info.captionFile(dir, language)
	if err != nil {
		return transcript.Captions{}, err
	}
	vtt, err := os.ReadFile(path)
	if err != nil {
		return transcript.Captions{}, fmt.Errorf("read captions: %w", err)
	}

	return transcript.Captions{
		VideoID:         info.ID,
		DurationSeconds: int(math.Round(info.Duration)),
		Language:        language,
		Automatic:       automatic,
		VTT:             vtt,
	}, nil
}

type videoInfo struct {
	ID                 string                       `json:"id"`
	Duration           float64                      `json:"duration"`
	Subtitles          map[string]json.RawMessage   `json:"subtitles"`
	RequestedSubtitles map[string]requestedSubtitle `json:"requested_subtitles"`
}

type requestedSubtitle struct {
	Ext      string `json:"ext"`
	Filepath string `json:"filepath"`
}

// parseInfo reads the info JSON yt-dlp prints; it is the last non-empty line
// of stdout.
func parseInfo(stdout []byte) (videoInfo, error) {
	lines := strings.Split(strings.TrimSpace(string(stdout)), "\n")
	raw := strings.TrimSpace(lines[len(lines)-1])
	if raw == "" {
		return videoInfo{}, errors.New("yt-dlp printed no video info")
	}
	var info videoInfo
	if err := json.Unmarshal([]byte(raw), &info); err != nil {
		return videoInfo{}, fmt.Errorf("decode yt-dlp info: %w", err)
	}
	if info.ID == "" {
		return videoInfo{}, errors.New("yt-dlp info has no video id")
	}
	return info, nil
}

// captionFile locates the written subtitle file and reports whether it came
// from automatic captions.
func (v videoInfo) captionFile(dir, language string) (string, bool, error) {
	_, authored := v.Subtitles[language]
	if req, ok := v.RequestedSubtitles[language]; ok && req.Filepath != "" {
		if _, err := os.Stat(req.Filepath); err == nil {
			return req.Filepath, !authored, nil
		}
	}
	matches, _ := filepath.Glob(filepath.Join(dir, v.ID+"."+language+"*.vtt"))
	if len(matches) == 0 {
		return "", false, fmt.Errorf("%w: %s", errNoCaptions, language)
	}
	return matches[0], !authored, nil
}

func truncate(s string, limit int) string {
	s = strings.TrimSpace(s)
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}

var _ transcript.CaptionDownloader = (*Downloader)(nil)
