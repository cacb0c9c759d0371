// Package app wires the configured model provider, search backend and
// research pipeline for the command-line and server entrypoints.
package app

import (
	"context"

	"go.uber.org/zap"

	"github.com/bububa/research-agents/agents"
	"github.com/bububa/research-agents/config"
	"github.com/bububa/research-agents/research"
	"github.com/bububa/research-agents/tools/googlesearch"
	"github.com/bububa/research-agents/tools/searxng"
	"github.com/bububa/research-agents/tools/webpage"
)

// BuildPipeline assembles the research pipeline for the given configuration.
func BuildPipeline(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*research.Pipeline, error) {
	client := config.NewInstructor(cfg)
	agentOpts := []agents.Option{
		agents.WithClient(client),
		agents.WithModel(cfg.Model),
		agents.WithTemperature(cfg.Temperature),
		agents.WithMaxTokens(cfg.MaxTokens),
	}
	searcher, err := buildSearcher(ctx, cfg)
	if err != nil {
		return nil, err
	}
	stats := new(research.Stats)
	formulator := research.NewFormulator(agentOpts...)
	reflector := research.NewReflector(agentOpts...)
	synthesizer := research.NewSynthesizer(agentOpts...)
	formulator.Instrument(logger, stats)
	reflector.Instrument(logger, stats)
	synthesizer.Instrument(logger, stats)
	return research.NewPipeline(
		research.WithFormulator(formulator),
		research.WithReflector(reflector),
		research.WithSynthesizer(synthesizer),
		research.WithSearcher(searcher),
		research.WithInitialQueries(cfg.InitialQueries),
		research.WithMaxLoops(cfg.MaxResearchLoops),
		research.WithMaxRetries(cfg.MaxRetries),
		research.WithLogger(logger),
		research.WithStats(stats),
	), nil
}

func buildSearcher(ctx context.Context, cfg *config.Config) (research.Searcher, error) {
	switch cfg.Search.Backend {
	case config.SearxngBackend:
		search := searxng.New(
			searxng.WithBaseURL(cfg.Search.SearxngURL),
			searxng.WithMaxResults(cfg.Search.MaxResults),
		)
		var fetcher *webpage.Fetcher
		if cfg.Search.FetchPages > 0 {
			fetcher = webpage.New()
		}
		return research.NewSearxSearcher(search, fetcher, cfg.Search.FetchPages), nil
	default:
		tool, err := googlesearch.New(ctx,
			googlesearch.WithAPIKey(cfg.GeminiAPIKey()),
			googlesearch.WithModel(cfg.Search.GeminiModel),
		)
		if err != nil {
			return nil, err
		}
		return research.NewGeminiSearcher(tool), nil
	}
}
