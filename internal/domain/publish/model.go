package publish

import (
	"time"

	"github.com/yanqian/yogava/internal/domain/analysis"
)

// Error codes logged when publishing fails.
const (
	CodeTokenRefreshFailed     = "token_refresh_failed"
	CodeActivityCreationFailed = "activity_creation_failed"
)

// Config wires runtime settings for the publisher.
type Config struct {
	SportType   string
	StartBuffer time.Duration
	ChartWidth  int
}

// Request carries everything needed to post one lesson.
type Request struct {
	VideoURL        string
	Title           string
	DurationSeconds int
	Scores          analysis.Scores
	Intensity       []float64
}

// Activity is the record created on the activity-tracking service.
type Activity struct {
	Name           string
	SportType      string
	StartDateLocal time.Time
	ElapsedSeconds int
	Description    string
}

// CreatedActivity is the remote acknowledgement of a created activity.
type CreatedActivity struct {
	ID   int64
	Name string
}
