package ytdlp

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/require"
)

const helperVTT = "WEBVTT\n\n00:00:00.000 --> 00:00:02.000\nWelcome to the mat.\n"

type helperRun struct {
	calls int
	args  []string
}

func setHelperCommand(t *testing.T, mode string) *helperRun {
	t.Helper()
	run := &helperRun{}
	original := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		run.calls++
		run.args = append([]string(nil), args...)
		mode := mode
		if mode == "flaky" && run.calls > 1 {
			mode = "auto"
		}
		cmd := exec.CommandContext(ctx, os.Args[0], "-test.run=TestHelperProcess")
		cmd.Env = append(os.Environ(),
			"GO_WANT_HELPER_PROCESS=1",
			"YTDLP_HELPER_MODE="+mode,
			"YTDLP_HELPER_DIR="+argAfter(args, "-P"),
		)
		return cmd
	}
	t.Cleanup(func() {
		commandContext = original
	})
	return run
}

func newTestDownloader(t *testing.T) *Downloader {
	d := NewDownloader("yt-dlp", 3, slog.New(slog.NewTextHandler(io.Discard, nil)))
	d.tempRoot = t.TempDir()
	d.newBackOff = func() backoff.BackOff { return &backoff.ZeroBackOff{} }
	return d
}

func TestDownloadAutomaticCaptions(t *testing.T) {
	run := setHelperCommand(t, "auto")
	d := newTestDownloader(t)

	captions, err := d.Download(context.Background(), "https://youtu.be/dQw4w9WgXcQ", "en")
	require.NoError(t, err)
	require.Equal(t, "dQw4w9WgXcQ", captions.VideoID)
	require.Equal(t, 601, captions.DurationSeconds)
	require.True(t, captions.Automatic)
	require.Equal(t, helperVTT, string(captions.VTT))
	require.Equal(t, 1, run.calls)

	require.Equal(t, "en", argAfter(run.args, "--sub-langs"))
	require.Equal(t, "vtt", argAfter(run.args, "--sub-format"))
	require.Contains(t, run.args, "--skip-download")
	require.Contains(t, run.args, "--write-auto-subs")
	require.Equal(t, "https://youtu.be/dQw4w9WgXcQ", run.args[len(run.args)-1])
}

func TestDownloadAuthoredCaptions(t *testing.T) {
	setHelperCommand(t, "authored")
	d := newTestDownloader(t)

	captions, err := d.Download(context.Background(), "https://youtu.be/dQw4w9WgXcQ", "en")
	require.NoError(t, err)
	require.False(t, captions.Automatic)
}

func TestDownloadRetriesTransientFailures(t *testing.T) {
	run := setHelperCommand(t, "flaky")
	d := newTestDownloader(t)

	_, err := d.Download(context.Background(), "https://youtu.be/dQw4w9WgXcQ", "en")
	require.NoError(t, err)
	require.Equal(t, 2, run.calls)
}

func TestDownloadGivesUpAfterAttempts(t *testing.T) {
	run := setHelperCommand(t, "failure")
	d := newTestDownloader(t)

	_, err := d.Download(context.Background(), "https://youtu.be/dQw4w9WgXcQ", "en")
	require.Error(t, err)
	require.Contains(t, err.Error(), "HTTP Error 429")
	require.Equal(t, 3, run.calls)
}

func TestDownloadWithoutCaptionsIsNotRetried(t *testing.T) {
	run := setHelperCommand(t, "nocaptions")
	d := newTestDownloader(t)

	_, err := d.Download(context.Background(), "https://youtu.be/dQw4w9WgXcQ", "en")
	require.ErrorIs(t, err, errNoCaptions)
	require.Equal(t, 1, run.calls)
}

func TestDownloadCleansUpTempDir(t *testing.T) {
	setHelperCommand(t, "auto")
	d := newTestDownloader(t)

	_, err := d.Download(context.Background(), "https://youtu.be/dQw4w9WgXcQ", "en")
	require.NoError(t, err)
	entries, err := os.ReadDir(d.tempRoot)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestParseInfoUsesLastLine(t *testing.T) {
	info, err := parseInfo([]byte("[info] something\n{\"id\":\"abc\",\"duration\":12.4}\n"))
	require.NoError(t, err)
	require.Equal(t, "abc", info.ID)

	_, err = parseInfo([]byte("\n"))
	require.Error(t, err)
	_, err = parseInfo([]byte(`{"duration":3}`))
	require.Error(t, err)
}

func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}

	dir := os.Getenv("YTDLP_HELPER_DIR")
	writeVTT := func() {
		if err := os.WriteFile(filepath.Join(dir, "dQw4w9WgXcQ.en.vtt"), []byte(helperVTT), 0o644); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
	}

	switch os.Getenv("YTDLP_HELPER_MODE") {
	case "auto":
		writeVTT()
		fmt.Printf(`{"id":"dQw4w9WgXcQ","duration":600.6,"subtitles":{},"automatic_captions":{"en":[]}}`)
		os.Exit(0)
	case "authored":
		writeVTT()
		path := filepath.Join(dir, "dQw4w9WgXcQ.en.vtt")
		fmt.Printf(`{"id":"dQw4w9WgXcQ","duration":600,"subtitles":{"en":[]},"requested_subtitles":{"en":{"ext":"vtt","filepath":%q}}}`, path)
		os.Exit(0)
	case "nocaptions":
		fmt.Printf(`{"id":"dQw4w9WgXcQ","duration":600}`)
		os.Exit(0)
	case "failure", "flaky":
		fmt.Fprintln(os.Stderr, "ERROR: unable to download video data: HTTP Error 429: Too Many Requests")
		os.Exit(1)
	default:
		os.Exit(0)
	}
}

func argAfter(args []string, flag string) string {
	for i, arg := range args {
		if arg == flag && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}
