package analysis

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/invopop/jsonschema"

	"github.com/yanqian/yogava/pkg/util"
)

// Stage enumerates the analyzer states in execution order.
type Stage int

const (
	StageIntensity Stage = iota
	StageScores
	StageTitle
	StageDone
	StageFailed
)

func (s Stage) String() string {
	switch s {
	case StageIntensity:
		return "intensity"
	case StageScores:
		return "scores"
	case StageTitle:
		return "title"
	case StageDone:
		return "done"
	case StageFailed:
		return "failed"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

//go:embed prompts/*.txt
var promptFS embed.FS

type stageSpec struct {
	stage       Stage
	instruction func(now time.Time) string
	decode      func(raw []byte) (any, error)
	apply       func(res *Result, value any)
}

type intensityReply struct {
	Intensity []float64 `json:"intensity" jsonschema:"description=Effort samples from 0 to 10 in lesson order"`
}

type titleReply struct {
	Title string `json:"title" jsonschema:"description=Short activity title"`
}

func buildStages(p Prompts) []stageSpec {
	intensity := withSchema(promptOr(p.Intensity, "intensity.txt"), intensityReply{})
	scores := withSchema(promptOr(p.Scores, "scores.txt"), Scores{})
	title := withSchema(promptOr(p.Title, "title.txt"), titleReply{})

	return []stageSpec{
		{
			stage:       StageIntensity,
			instruction: func(time.Time) string { return intensity },
			decode:      func(raw []byte) (any, error) { return decodeIntensity(raw) },
			apply:       func(res *Result, v any) { res.Intensity = v.([]float64) },
		},
		{
			stage:       StageScores,
			instruction: func(time.Time) string { return scores },
			decode:      func(raw []byte) (any, error) { return decodeScores(raw) },
			apply:       func(res *Result, v any) { res.Scores = v.(Scores) },
		},
		{
			stage: StageTitle,
			instruction: func(now time.Time) string {
				return strings.ReplaceAll(title, "{now}", util.ReadableClock(now))
			},
			decode: func(raw []byte) (any, error) { return decodeTitle(raw) },
			apply:  func(res *Result, v any) { res.Title = TitlePrefix + v.(string) },
		},
	}
}

func promptOr(override, name string) string {
	if text := strings.TrimSpace(override); text != "" {
		return text
	}
	data, err := promptFS.ReadFile("prompts/" + name)
	if err != nil {
		panic(fmt.Sprintf("embedded prompt %s missing: %v", name, err))
	}
	return strings.TrimSpace(string(data))
}

func withSchema(instruction string, shape any) string {
	schema := schemaFor(shape)
	if schema == "" {
		return instruction + "\n\nRespond with a single JSON object and nothing else."
	}
	return instruction + "\n\nRespond with a single JSON object and nothing else. It must match this JSON schema:\n" + schema
}

func schemaFor(shape any) string {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
		ExpandedStruct:            true,
	}
	schema := reflector.Reflect(shape)
	schema.Version = ""
	schema.ID = ""
	data, err := json.Marshal(schema)
	if err != nil {
		return ""
	}
	return string(data)
}

var codeFence = regexp.MustCompile("(?s)```[\\w-]*\\n(.*?)```")

// StripCodeFences unwraps markdown code blocks, keeping their bodies.
func StripCodeFences(text string) string {
	return strings.TrimSpace(codeFence.ReplaceAllString(text, "$1"))
}

func decodeIntensity(raw []byte) ([]float64, error) {
	var series []float64
	if err := json.Unmarshal(raw, &series); err == nil && series != nil {
		return series, nil
	}

	var samples []struct {
		Intensity *float64 `json:"intensity"`
		Value     *float64 `json:"value"`
	}
	if err := json.Unmarshal(raw, &samples); err == nil && samples != nil {
		out := make([]float64, 0, len(samples))
		for i, sample := range samples {
			switch {
			case sample.Intensity != nil:
				out = append(out, *sample.Intensity)
			case sample.Value != nil:
				out = append(out, *sample.Value)
			default:
				return nil, fmt.Errorf("intensity sample %d has no numeric value", i)
			}
		}
		return out, nil
	}

	var reply intensityReply
	if err := json.Unmarshal(raw, &reply); err != nil {
		return nil, err
	}
	if reply.Intensity == nil {
		return nil, errors.New("intensity field missing")
	}
	return reply.Intensity, nil
}

func decodeScores(raw []byte) (Scores, error) {
	var scores Scores
	if err := json.Unmarshal(raw, &scores); err != nil {
		return Scores{}, err
	}
	if scores.Principles == nil {
		return Scores{}, errors.New("principles_summary missing")
	}
	if scores.Targets == nil {
		return Scores{}, errors.New("targets_summary missing")
	}
	return scores, nil
}

func decodeTitle(raw []byte) (string, error) {
	var reply titleReply
	if err := json.Unmarshal(raw, &reply); err != nil {
		return "", err
	}
	title := strings.TrimSpace(reply.Title)
	if title == "" {
		return "", errors.New("title missing")
	}
	return title, nil
}
