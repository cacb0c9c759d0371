package research

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type fakeFormulator struct {
	queries []SearchQuery
	err     error
	calls   int
}

func (f *fakeFormulator) FormulateQueries(ctx context.Context, topic string, n int) ([]SearchQuery, error) {
	f.calls++
	return f.queries, f.err
}

type fakeReflector struct {
	verdicts []Reflection
	err      error
	calls    int
}

func (f *fakeReflector) Reflect(ctx context.Context, topic string, digests []Digest) (*Reflection, error) {
	if f.err != nil {
		return nil, f.err
	}
	idx := f.calls
	f.calls++
	if idx >= len(f.verdicts) {
		idx = len(f.verdicts) - 1
	}
	v := f.verdicts[idx]
	return &v, nil
}

type fakeSynthesizer struct {
	text  string
	err   error
	calls int
}

func (f *fakeSynthesizer) Synthesize(ctx context.Context, topic string, digests []Digest) (string, error) {
	f.calls++
	return f.text, f.err
}

type fakeSearcher struct {
	digests map[string]*Digest
	calls   int
}

func (f *fakeSearcher) Search(ctx context.Context, query string, ordinal int) (*Digest, error) {
	f.calls++
	if d, ok := f.digests[query]; ok {
		return d, nil
	}
	return &Digest{Query: query}, nil
}

func TestResearchTurn(t *testing.T) {
	searcher := &fakeSearcher{
		digests: map[string]*Digest{
			"gemini ai": {
				Query:   "gemini ai",
				Summary: "Gemini is a model family [q0s0].",
				Sources: []Source{{Title: "Gemini", URL: "https://example.com/gemini", Ref: "q0s0"}},
			},
		},
	}
	pipeline := NewPipeline(
		WithFormulator(&fakeFormulator{queries: []SearchQuery{{Query: "gemini ai"}}}),
		WithReflector(&fakeReflector{verdicts: []Reflection{{IsSufficient: true}}}),
		WithSynthesizer(&fakeSynthesizer{text: "Gemini is a model family [q0s0]."}),
		WithSearcher(searcher),
		WithMaxLoops(3),
	)
	answer, err := pipeline.ResearchTurn(context.Background(), "What is Gemini AI?")
	if err != nil {
		t.Fatalf("Error running research turn: %v", err)
	}
	if answer.Text != "Gemini is a model family [1]." {
		t.Errorf("Unexpected answer text: %q", answer.Text)
	}
	if len(answer.Sources) != 1 {
		t.Fatalf("Expect 1 source, but got %d", len(answer.Sources))
	}
	if searcher.calls != 1 {
		t.Errorf("Expect 1 search call, but got %d", searcher.calls)
	}
}

func TestResearchTurnLoopBound(t *testing.T) {
	maxLoops := 2
	reflector := &fakeReflector{
		verdicts: []Reflection{{IsSufficient: false, FollowUpQueries: []string{"more"}}},
	}
	searcher := &fakeSearcher{}
	pipeline := NewPipeline(
		WithFormulator(&fakeFormulator{queries: []SearchQuery{{Query: "start"}}}),
		WithReflector(reflector),
		WithSynthesizer(&fakeSynthesizer{text: "done"}),
		WithSearcher(searcher),
		WithMaxLoops(maxLoops),
	)
	if _, err := pipeline.ResearchTurn(context.Background(), "looping topic"); err != nil {
		t.Fatalf("Error running research turn: %v", err)
	}
	if got := pipeline.Stats().Loops.Load(); got != int64(maxLoops) {
		t.Errorf("Expect exactly %d loops, but got %d", maxLoops, got)
	}
	// the final loop is forced sufficient without consulting the reflector
	if reflector.calls != maxLoops-1 {
		t.Errorf("Expect %d reflection calls, but got %d", maxLoops-1, reflector.calls)
	}
}

func TestResearchTurnZeroSnippets(t *testing.T) {
	pipeline := NewPipeline(
		WithFormulator(&fakeFormulator{queries: []SearchQuery{{Query: "nothing found"}}}),
		WithReflector(&fakeReflector{verdicts: []Reflection{{IsSufficient: false, FollowUpQueries: []string{"still nothing"}}}}),
		WithSynthesizer(&fakeSynthesizer{text: "No reliable sources were found for this topic."}),
		WithSearcher(&fakeSearcher{}),
		WithMaxLoops(2),
	)
	answer, err := pipeline.ResearchTurn(context.Background(), "obscure topic")
	if err != nil {
		t.Fatalf("Expect answer despite zero snippets, got error: %v", err)
	}
	if answer.Text == "" {
		t.Error("Expect non-empty answer text")
	}
	if len(answer.Sources) != 0 {
		t.Errorf("Expect no sources, but got %d", len(answer.Sources))
	}
}

func TestResearchTurnFallbackQuery(t *testing.T) {
	searcher := &fakeSearcher{digests: map[string]*Digest{}}
	pipeline := NewPipeline(
		WithFormulator(&fakeFormulator{queries: nil}),
		WithReflector(&fakeReflector{verdicts: []Reflection{{IsSufficient: true}}}),
		WithSynthesizer(&fakeSynthesizer{text: "answer"}),
		WithSearcher(searcher),
	)
	if _, err := pipeline.ResearchTurn(context.Background(), "raw topic"); err != nil {
		t.Fatalf("Error running research turn: %v", err)
	}
	if searcher.calls == 0 {
		t.Error("Expect raw topic searched when formulator returns no queries")
	}
}

func TestResearchTurnEmptyTopic(t *testing.T) {
	pipeline := NewPipeline(
		WithFormulator(&fakeFormulator{}),
		WithReflector(&fakeReflector{verdicts: []Reflection{{IsSufficient: true}}}),
		WithSynthesizer(&fakeSynthesizer{text: "answer"}),
		WithSearcher(&fakeSearcher{}),
	)
	if _, err := pipeline.ResearchTurn(context.Background(), "   "); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("Expect ErrEmptyInput, got %v", err)
	}
}

func TestResearchTurnReflectionError(t *testing.T) {
	wantErr := errors.New("model unavailable")
	pipeline := NewPipeline(
		WithFormulator(&fakeFormulator{queries: []SearchQuery{{Query: "q"}}}),
		WithReflector(&fakeReflector{err: wantErr}),
		WithSynthesizer(&fakeSynthesizer{text: "answer"}),
		WithSearcher(&fakeSearcher{}),
		WithMaxLoops(3),
		WithMaxRetries(0),
	)
	if _, err := pipeline.ResearchTurn(context.Background(), "topic"); !errors.Is(err, wantErr) {
		t.Errorf("Expect reflection error surfaced, got %v", err)
	}
}

func TestResearchTurnSynthesisError(t *testing.T) {
	pipeline := NewPipeline(
		WithFormulator(&fakeFormulator{queries: []SearchQuery{{Query: "q"}}}),
		WithReflector(&fakeReflector{verdicts: []Reflection{{IsSufficient: true}}}),
		WithSynthesizer(&fakeSynthesizer{err: ErrGenerationFailed}),
		WithSearcher(&fakeSearcher{}),
		WithMaxRetries(0),
	)
	if _, err := pipeline.ResearchTurn(context.Background(), "topic"); !errors.Is(err, ErrGenerationFailed) {
		t.Errorf("Expect synthesis error surfaced, got %v", err)
	}
}

func TestDedupeQueries(t *testing.T) {
	queries := []SearchQuery{
		{Query: "  alpha  "},
		{Query: "ALPHA"},
		{Query: ""},
		{Query: "beta"},
		{Query: "gamma"},
	}
	out := dedupeQueries(queries, 2)
	if len(out) != 2 {
		t.Fatalf("Expect 2 queries, but got %d", len(out))
	}
	if out[0].Query != "alpha" || out[1].Query != "beta" {
		t.Errorf("Unexpected queries: %v", out)
	}
	if strings.TrimSpace(out[0].Query) != out[0].Query {
		t.Errorf("Expect trimmed query, got %q", out[0].Query)
	}
}
