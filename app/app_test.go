package app

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/bububa/research-agents/config"
)

func TestBuildPipeline(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "test-key")
	t.Setenv("RESEARCH_SEARCH_BACKEND", config.SearxngBackend)
	t.Setenv("SEARXNG_URL", "http://localhost:8888")
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Error loading config: %v", err)
	}
	pipeline, err := BuildPipeline(context.Background(), cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("Error building pipeline: %v", err)
	}
	if pipeline == nil {
		t.Fatal("Expect a pipeline")
	}
	if pipeline.Stats() == nil {
		t.Error("Expect pipeline stats wired")
	}
}
