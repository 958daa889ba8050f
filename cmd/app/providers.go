package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/yogava/internal/domain/analysis"
	"github.com/yanqian/yogava/internal/domain/publish"
	"github.com/yanqian/yogava/internal/domain/render"
	"github.com/yanqian/yogava/internal/domain/transcript"
	"github.com/yanqian/yogava/internal/infra/artifact"
	"github.com/yanqian/yogava/internal/infra/config"
	"github.com/yanqian/yogava/internal/infra/llm/chatgpt"
	"github.com/yanqian/yogava/internal/infra/strava"
	"github.com/yanqian/yogava/internal/infra/tokenizer"
	"github.com/yanqian/yogava/internal/infra/transcript/ytdlp"
)

func provideAnalysisConfig(cfg *config.Config) analysis.Config {
	return analysis.Config{
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		MaxAttempts: cfg.Analysis.MaxAttempts,
		Prompts: analysis.Prompts{
			Transcript: cfg.Analysis.Prompts.Transcript,
			Intensity:  cfg.Analysis.Prompts.Intensity,
			Scores:     cfg.Analysis.Prompts.Scores,
			Title:      cfg.Analysis.Prompts.Title,
		},
	}
}

func provideChatGPTClient(cfg *config.Config) (*chatgpt.Client, error) {
	return chatgpt.NewClient(cfg.LLM.APIKey, cfg.LLM.BaseURL, cfg.LLM.Timeout)
}

func provideTranscriptConfig(cfg *config.Config) transcript.Config {
	return transcript.Config{
		Language:  cfg.Transcript.Language,
		MaxTokens: cfg.Transcript.MaxTokens,
	}
}

func provideCaptionDownloader(cfg *config.Config, logger *slog.Logger) *ytdlp.Downloader {
	return ytdlp.NewDownloader(cfg.Transcript.YtDLPBinary, cfg.Transcript.FetchAttempts, logger)
}

func provideTokenizer(logger *slog.Logger) *tokenizer.Tokenizer {
	return tokenizer.New(tokenizer.DefaultEncoding, logger)
}

func provideArtifactStore(cfg *config.Config, logger *slog.Logger) (transcript.ArtifactStore, func(), error) {
	store, cleanup, err := baseArtifactStore(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	if !cfg.Artifacts.Compress {
		return store, cleanup, nil
	}
	compressed, err := artifact.NewCompressedStore(store)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return compressed, func() {
		_ = compressed.Close()
		cleanup()
	}, nil
}

func baseArtifactStore(cfg *config.Config, logger *slog.Logger) (transcript.ArtifactStore, func(), error) {
	noop := func() {}
	switch cfg.Artifacts.Backend {
	case config.ArtifactBackendR2:
		r2 := cfg.Artifacts.R2
		store, err := artifact.NewR2Store(r2.Endpoint, r2.AccessKey, r2.SecretKey, r2.Bucket, r2.Region, cfg.Artifacts.TTL, logger)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("r2 artifact store enabled", "bucket", r2.Bucket)
		return store, noop, nil
	case config.ArtifactBackendValkey:
		opt, err := buildValkeyOptions(cfg.Artifacts.Valkey.Addr)
		if err != nil {
			logger.Error("invalid valkey configuration, falling back to memory store", "error", err)
			return artifact.NewMemoryStore(), noop, nil
		}
		client, err := valkey.NewClient(opt)
		if err != nil {
			logger.Error("failed to create valkey client, falling back to memory store", "error", err)
			return artifact.NewMemoryStore(), noop, nil
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
			logger.Error("valkey ping failed, falling back to memory store", "error", err)
			client.Close()
			return artifact.NewMemoryStore(), noop, nil
		}
		logger.Info("valkey artifact store enabled", "addr", cfg.Artifacts.Valkey.Addr)
		return artifact.NewValkeyStore(client, cfg.Artifacts.Valkey.Prefix, cfg.Artifacts.TTL), client.Close, nil
	case config.ArtifactBackendLocal, "":
		store, err := artifact.NewLocalStore(cfg.Artifacts.Dir)
		if err != nil {
			return nil, nil, err
		}
		return store, noop, nil
	default:
		return nil, nil, fmt.Errorf("unknown artifact backend %q", cfg.Artifacts.Backend)
	}
}

func buildValkeyOptions(addr string) (valkey.ClientOption, error) {
	if strings.Contains(addr, "://") {
		return valkey.ParseURL(addr)
	}
	return valkey.ClientOption{InitAddress: []string{addr}}, nil
}

func providePublishConfig(cfg *config.Config) publish.Config {
	return publish.Config{
		SportType:   cfg.Strava.SportType,
		StartBuffer: cfg.Strava.StartBuffer,
		ChartWidth:  render.DefaultWidth,
	}
}

func provideStravaClient(cfg *config.Config, logger *slog.Logger) *strava.Client {
	return strava.NewClient(cfg.Strava, logger)
}
