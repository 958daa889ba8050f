package transcript

import (
	"context"
	"time"
)

// CodeTranscriptUnavailable marks any failure to obtain a usable transcript.
const CodeTranscriptUnavailable = "transcript_unavailable"

// Config wires runtime settings for the fetcher.
type Config struct {
	Language  string
	MaxTokens int
}

// Transcript is the dialogue text of one video plus the metadata the rest of
// the pipeline needs.
type Transcript struct {
	VideoID         string
	VideoURL        string
	Text            string
	DurationSeconds int
	ArtifactKey     string
}

// Captions is what a downloader hands back: raw WebVTT plus video metadata.
type Captions struct {
	VideoID         string
	DurationSeconds int
	Language        string
	Automatic       bool
	VTT             []byte
}

// StoredArtifact describes a written artifact.
type StoredArtifact struct {
	Key       string
	Size      int64
	ExpiresAt time.Time
}

// CaptionDownloader retrieves captions for a video.
type CaptionDownloader interface {
	Download(ctx context.Context, videoURL, language string) (Captions, error)
}

// ArtifactStore keeps the per-run subtitle file until the run ends.
type ArtifactStore interface {
	Put(ctx context.Context, key string, data []byte) (StoredArtifact, error)
	Delete(ctx context.Context, key string) error
}
