//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/yogava/internal/bootstrap"
	"github.com/yanqian/yogava/internal/domain/analysis"
	"github.com/yanqian/yogava/internal/domain/pipeline"
	"github.com/yanqian/yogava/internal/domain/publish"
	"github.com/yanqian/yogava/internal/domain/transcript"
	"github.com/yanqian/yogava/internal/infra/config"
	"github.com/yanqian/yogava/internal/infra/llm/chatgpt"
	"github.com/yanqian/yogava/internal/infra/strava"
	"github.com/yanqian/yogava/internal/infra/tokenizer"
	"github.com/yanqian/yogava/internal/infra/transcript/ytdlp"
	httpiface "github.com/yanqian/yogava/internal/interface/http"
	"github.com/yanqian/yogava/pkg/logger"
)

var pipelineSet = wire.NewSet(
	config.Load,
	logger.New,
	provideAnalysisConfig,
	provideChatGPTClient,
	provideTranscriptConfig,
	provideCaptionDownloader,
	provideTokenizer,
	provideArtifactStore,
	providePublishConfig,
	provideStravaClient,
	transcript.NewService,
	analysis.NewService,
	publish.NewService,
	pipeline.NewService,
	wire.Bind(new(analysis.ChatClient), new(*chatgpt.Client)),
	wire.Bind(new(transcript.CaptionDownloader), new(*ytdlp.Downloader)),
	wire.Bind(new(transcript.Tokenizer), new(*tokenizer.Tokenizer)),
	wire.Bind(new(publish.ActivityClient), new(*strava.Client)),
)

func initializeApp() (*bootstrap.App, func(), error) {
	wire.Build(
		pipelineSet,
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil, nil
}

func initializeRunner() (*bootstrap.Runner, func(), error) {
	wire.Build(
		pipelineSet,
		bootstrap.NewRunner,
	)
	return nil, nil, nil
}
