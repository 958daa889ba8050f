package analysis

import (
	"github.com/yanqian/yogava/pkg/metrics"
)

// TitlePrefix marks titles written by the model.
const TitlePrefix = "[ai] "

// Error codes surfaced by the analyzer.
const (
	CodeMalformedStageResponse = "malformed_stage_response"
	CodeStageRetriesExhausted  = "stage_retries_exhausted"
	CodeAnalysisFailed         = "analysis_failed"
	CodeInvalidInput           = "invalid_input"
)

// Config configures the staged analysis.
type Config struct {
	Model       string
	Temperature float32
	MaxAttempts int
	Prompts     Prompts
}

// Prompts overrides the built-in instructions. Empty fields fall back to the embedded defaults.
type Prompts struct {
	Transcript string
	Intensity  string
	Scores     string
	Title      string
}

// ScoreMapping associates a category with a proportion in [0,1].
type ScoreMapping map[string]float64

// Scores holds the two category breakdowns rendered as bar charts.
type Scores struct {
	Principles ScoreMapping `json:"principles_summary"`
	Targets    ScoreMapping `json:"targets_summary"`
}

// Result is produced only when every stage succeeded.
type Result struct {
	Title     string
	Scores    Scores
	Intensity []float64
	Usage     metrics.TokenUsage
}
