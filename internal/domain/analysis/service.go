package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/yanqian/yogava/internal/infra/llm/chatgpt"
	apperrors "github.com/yanqian/yogava/pkg/errors"
	"github.com/yanqian/yogava/pkg/metrics"
)

const defaultMaxAttempts = 3

// Service runs the three-stage lesson analysis.
type Service interface {
	Analyze(ctx context.Context, transcript string) (Result, error)
}

type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req chatgpt.ChatCompletionRequest) (chatgpt.ChatCompletionResponse, error)
}

// OutcomeKind tags the result of a single submit-and-validate exchange.
type OutcomeKind int

const (
	OutcomeParsed OutcomeKind = iota
	OutcomeMalformed
	OutcomeEndpointError
)

// Outcome is the tagged result of one exchange with the model.
type Outcome struct {
	Kind  OutcomeKind
	Value any
	Err   error
	Usage metrics.TokenUsage
}

type service struct {
	cfg            Config
	client         ChatClient
	logger         *slog.Logger
	now            func() time.Time
	stages         []stageSpec
	transcriptTmpl string
}

// NewService is a wire provider for the analysis domain.
func NewService(cfg Config, client ChatClient, logger *slog.Logger) Service {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaultMaxAttempts
	}
	return &service{
		cfg:            cfg,
		client:         client,
		logger:         logger.With("component", "analysis.service"),
		now:            time.Now,
		stages:         buildStages(cfg.Prompts),
		transcriptTmpl: promptOr(cfg.Prompts.Transcript, "transcript.txt"),
	}
}

func (s *service) Analyze(ctx context.Context, transcript string) (Result, error) {
	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		return Result{}, apperrors.Wrap(CodeInvalidInput, "transcript cannot be empty", nil)
	}

	conv := NewConversation(Turn{
		Role:    chatgpt.RoleUser,
		Content: strings.ReplaceAll(s.transcriptTmpl, "{transcript}", transcript),
	})

	var result Result
	for _, spec := range s.stages {
		next, value, usage, err := s.runStage(ctx, conv, spec)
		result.Usage = result.Usage.Add(usage)
		if err != nil {
			s.logger.Error("lesson analysis failed", "stage", spec.stage.String(), "state", StageFailed.String(), "error", err)
			return Result{}, err
		}
		conv = next
		spec.apply(&result, value)
		s.logger.Info("analysis stage complete", "stage", spec.stage.String(), "turns", conv.Len())
	}

	s.logger.Info("lesson analysis complete",
		"state", StageDone.String(),
		"title", result.Title,
		"intensity_samples", len(result.Intensity),
		"prompt_tokens", result.Usage.PromptTokens,
		"completion_tokens", result.Usage.CompletionTokens,
	)
	return result, nil
}

// runStage repeats the stage instruction until the reply decodes or the attempt budget is spent.
func (s *service) runStage(ctx context.Context, conv Conversation, spec stageSpec) (Conversation, any, metrics.TokenUsage, error) {
	var usage metrics.TokenUsage
	instruction := spec.instruction(s.now())

	for attempt := 1; ; attempt++ {
		next, outcome := s.submitAndValidate(ctx, conv, spec, instruction)
		conv = next
		usage = usage.Add(outcome.Usage)

		switch outcome.Kind {
		case OutcomeParsed:
			return conv, outcome.Value, usage, nil
		case OutcomeEndpointError:
			s.logger.Error("model request failed", "stage", spec.stage.String(), "attempt", attempt, "error", outcome.Err)
			return conv, nil, usage, apperrors.Wrap(CodeAnalysisFailed, fmt.Sprintf("%s stage model request failed", spec.stage), outcome.Err)
		}

		if attempt >= s.cfg.MaxAttempts {
			s.logger.Error("stage reply unusable, giving up", "stage", spec.stage.String(), "attempt", attempt, "max_attempts", s.cfg.MaxAttempts, "error", outcome.Err)
			return conv, nil, usage, apperrors.Wrap(CodeStageRetriesExhausted, fmt.Sprintf("%s stage reply unusable after %d attempts", spec.stage, attempt), outcome.Err)
		}
		s.logger.Warn("stage reply malformed, retrying", "stage", spec.stage.String(), "attempt", attempt, "max_attempts", s.cfg.MaxAttempts, "error", outcome.Err)
	}
}

// submitAndValidate appends the instruction, asks the model, records its reply
// and classifies the result. The input conversation is left untouched.
func (s *service) submitAndValidate(ctx context.Context, conv Conversation, spec stageSpec, instruction string) (Conversation, Outcome) {
	conv = conv.Append(Turn{Role: chatgpt.RoleUser, Content: instruction})

	resp, err := s.client.CreateChatCompletion(ctx, chatgpt.ChatCompletionRequest{
		Model:       s.cfg.Model,
		Messages:    conv.messages(),
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return conv, Outcome{Kind: OutcomeEndpointError, Err: err}
	}
	if len(resp.Choices) == 0 {
		return conv, Outcome{Kind: OutcomeEndpointError, Err: errors.New("model returned no choices"), Usage: resp.Usage}
	}

	reply := resp.Choices[0].Message.Content
	conv = conv.Append(Turn{Role: chatgpt.RoleAssistant, Content: reply})
	s.logger.Debug("model reply received", "stage", spec.stage.String(), "content", reply)

	value, err := spec.decode([]byte(StripCodeFences(reply)))
	if err != nil {
		return conv, Outcome{
			Kind:  OutcomeMalformed,
			Err:   apperrors.Wrap(CodeMalformedStageResponse, "reply does not match the expected shape", err),
			Usage: resp.Usage,
		}
	}
	return conv, Outcome{Kind: OutcomeParsed, Value: value, Usage: resp.Usage}
}
