package research

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// Pipeline drives one research turn: formulate queries, research them, reflect
// on the findings until they suffice or the loop budget runs out, then
// synthesize the final cited answer.
type Pipeline struct {
	formulator     QueryFormulator
	reflector      Reflector
	synthesizer    Synthesizer
	searcher       Searcher
	initialQueries int
	maxLoops       int
	maxRetries     int
	logger         *zap.Logger
	stats          *Stats
}

type PipelineOption func(*Pipeline)

func WithFormulator(f QueryFormulator) PipelineOption {
	return func(p *Pipeline) {
		p.formulator = f
	}
}

func WithReflector(r Reflector) PipelineOption {
	return func(p *Pipeline) {
		p.reflector = r
	}
}

func WithSynthesizer(s Synthesizer) PipelineOption {
	return func(p *Pipeline) {
		p.synthesizer = s
	}
}

func WithSearcher(s Searcher) PipelineOption {
	return func(p *Pipeline) {
		p.searcher = s
	}
}

func WithInitialQueries(n int) PipelineOption {
	return func(p *Pipeline) {
		p.initialQueries = n
	}
}

func WithMaxLoops(n int) PipelineOption {
	return func(p *Pipeline) {
		p.maxLoops = n
	}
}

func WithMaxRetries(n int) PipelineOption {
	return func(p *Pipeline) {
		p.maxRetries = n
	}
}

func WithLogger(l *zap.Logger) PipelineOption {
	return func(p *Pipeline) {
		p.logger = l
	}
}

func WithStats(s *Stats) PipelineOption {
	return func(p *Pipeline) {
		p.stats = s
	}
}

func NewPipeline(opts ...PipelineOption) *Pipeline {
	ret := new(Pipeline)
	for _, opt := range opts {
		opt(ret)
	}
	if ret.initialQueries <= 0 {
		ret.initialQueries = 3
	}
	if ret.maxLoops <= 0 {
		ret.maxLoops = 2
	}
	if ret.maxRetries < 0 {
		ret.maxRetries = 0
	}
	if ret.logger == nil {
		ret.logger = zap.NewNop()
	}
	if ret.stats == nil {
		ret.stats = new(Stats)
	}
	return ret
}

// Stats returns the pipeline activity counters.
func (p *Pipeline) Stats() *Stats {
	return p.stats
}

// ResearchTurn answers one research topic. It runs at most maxLoops research
// loops; once the budget is exhausted the gathered digests are treated as
// sufficient regardless of the reflector's opinion. Queries that find nothing
// contribute no digest but do not fail the turn; the synthesizer still runs
// and caveats the lack of sources.
func (p *Pipeline) ResearchTurn(ctx context.Context, topic string) (*Answer, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, ErrEmptyInput
	}
	p.stats.Turns.Inc()

	queries, err := p.formulateQueries(ctx, topic)
	if err != nil {
		return nil, err
	}

	var (
		digests []Digest
		ordinal int
	)
	for loop := 1; ; loop++ {
		p.stats.Loops.Inc()
		p.logger.Debug("research loop",
			zap.Int("loop", loop),
			zap.Int("queries", len(queries)),
		)
		for _, q := range queries {
			if digest := p.runSearch(ctx, q.Query, ordinal); digest != nil {
				digests = append(digests, *digest)
			}
			ordinal++
		}
		if loop >= p.maxLoops {
			p.logger.Debug("loop budget exhausted, treating research as sufficient",
				zap.Int("max_loops", p.maxLoops),
			)
			break
		}
		verdict, err := p.reflect(ctx, topic, digests)
		if err != nil {
			return nil, err
		}
		if verdict.IsSufficient || len(verdict.FollowUpQueries) == 0 {
			break
		}
		p.logger.Debug("research insufficient, continuing",
			zap.String("knowledge_gap", verdict.KnowledgeGap),
			zap.Int("follow_up_queries", len(verdict.FollowUpQueries)),
		)
		queries = followUpQueries(verdict.FollowUpQueries, p.initialQueries)
	}

	text, err := p.synthesize(ctx, topic, digests)
	if err != nil {
		return nil, err
	}
	answer := Finalize(text, digests)
	p.logger.Info("research turn complete",
		zap.Int("digests", len(digests)),
		zap.Int("sources", len(answer.Sources)),
	)
	return answer, nil
}

// formulateQueries asks the formulator for queries, retrying on failure. A
// plan with no usable queries falls back to researching the raw topic.
func (p *Pipeline) formulateQueries(ctx context.Context, topic string) ([]SearchQuery, error) {
	var queries []SearchQuery
	err := withRetry(ctx, p.maxRetries, func() error {
		var err error
		queries, err = p.formulator.FormulateQueries(ctx, topic, p.initialQueries)
		return err
	})
	if err != nil {
		return nil, err
	}
	if len(queries) == 0 {
		p.logger.Warn("formulator returned no queries, falling back to raw topic")
		queries = []SearchQuery{{Query: topic}}
	}
	return queries, nil
}

// runSearch researches one query with retries. A query that still fails after
// retries yields no digest rather than failing the turn.
func (p *Pipeline) runSearch(ctx context.Context, query string, ordinal int) *Digest {
	var digest *Digest
	err := withRetry(ctx, p.maxRetries, func() error {
		p.stats.SearchCalls.Inc()
		var err error
		digest, err = p.searcher.Search(ctx, query, ordinal)
		return err
	})
	if err != nil {
		p.logger.Warn("search failed, proceeding without it",
			zap.String("query", query),
			zap.Error(err),
		)
		p.stats.EmptyDigests.Inc()
		return nil
	}
	if digest == nil || strings.TrimSpace(digest.Summary) == "" {
		p.stats.EmptyDigests.Inc()
		return nil
	}
	return digest
}

func (p *Pipeline) reflect(ctx context.Context, topic string, digests []Digest) (*Reflection, error) {
	var verdict *Reflection
	err := withRetry(ctx, p.maxRetries, func() error {
		var err error
		verdict, err = p.reflector.Reflect(ctx, topic, digests)
		return err
	})
	return verdict, err
}

func (p *Pipeline) synthesize(ctx context.Context, topic string, digests []Digest) (string, error) {
	var text string
	err := withRetry(ctx, p.maxRetries, func() error {
		var err error
		text, err = p.synthesizer.Synthesize(ctx, topic, digests)
		return err
	})
	return text, err
}

func followUpQueries(raw []string, n int) []SearchQuery {
	out := make([]SearchQuery, 0, len(raw))
	for _, q := range raw {
		out = append(out, SearchQuery{Query: q})
	}
	return dedupeQueries(out, n)
}
