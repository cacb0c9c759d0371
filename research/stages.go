package research

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/bububa/research-agents/agents"
	"github.com/bububa/research-agents/components"
	"github.com/bububa/research-agents/schema"
)

// QueryFormulator proposes web search queries for a research topic.
type QueryFormulator interface {
	FormulateQueries(ctx context.Context, topic string, n int) ([]SearchQuery, error)
}

// Reflector judges whether gathered digests suffice to answer the topic and
// proposes follow-up queries when they do not.
type Reflector interface {
	Reflect(ctx context.Context, topic string, digests []Digest) (*Reflection, error)
}

// Synthesizer writes the final answer text, keeping the reference markers of
// the digests it cites.
type Synthesizer interface {
	Synthesize(ctx context.Context, topic string, digests []Digest) (string, error)
}

// AgentFormulator is the language-model backed QueryFormulator. Stages hold
// only immutable agent options; every call builds its own agent with its own
// memory so concurrent turns cannot see each other's prompts.
type AgentFormulator struct {
	opts   []agents.Option
	logger *zap.Logger
	stats  *Stats
}

var _ QueryFormulator = (*AgentFormulator)(nil)

func NewFormulator(opts ...agents.Option) *AgentFormulator {
	return &AgentFormulator{
		opts: append([]agents.Option{
			agents.WithName("QueryFormulator"),
			agents.WithSystemPromptGenerator(queryPromptGenerator()),
		}, opts...),
	}
}

// Instrument attaches logging and usage accounting to every agent the stage
// builds. Call before the stage is used.
func (f *AgentFormulator) Instrument(logger *zap.Logger, stats *Stats) {
	f.logger = logger
	f.stats = stats
}

func (f *AgentFormulator) newAgent() *agents.Agent[QueryRequest, QueryPlan] {
	agent := agents.NewAgent[QueryRequest, QueryPlan](f.opts...)
	instrument(agent, f.logger, f.stats)
	return agent
}

func (f *AgentFormulator) FormulateQueries(ctx context.Context, topic string, n int) ([]SearchQuery, error) {
	req := QueryRequest{Topic: topic, NumQueries: n}
	plan := new(QueryPlan)
	if err := f.newAgent().Run(ctx, &req, plan, new(components.ApiResponse)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	return dedupeQueries(plan.Queries, n), nil
}

// dedupeQueries drops blank and duplicate queries and clips the list to n.
func dedupeQueries(queries []SearchQuery, n int) []SearchQuery {
	seen := make(map[string]struct{}, len(queries))
	out := make([]SearchQuery, 0, len(queries))
	for _, q := range queries {
		q.Query = strings.TrimSpace(q.Query)
		if q.Query == "" {
			continue
		}
		key := strings.ToLower(q.Query)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, q)
		if n > 0 && len(out) >= n {
			break
		}
	}
	return out
}

// AgentReflector is the language-model backed Reflector. Like the other
// stages it builds one agent per call.
type AgentReflector struct {
	opts   []agents.Option
	logger *zap.Logger
	stats  *Stats
}

var _ Reflector = (*AgentReflector)(nil)

func NewReflector(opts ...agents.Option) *AgentReflector {
	return &AgentReflector{
		opts: append([]agents.Option{
			agents.WithName("ReflectionEvaluator"),
			agents.WithSystemPromptGenerator(reflectionPromptGenerator()),
		}, opts...),
	}
}

// Instrument attaches logging and usage accounting to every agent the stage
// builds. Call before the stage is used.
func (r *AgentReflector) Instrument(logger *zap.Logger, stats *Stats) {
	r.logger = logger
	r.stats = stats
}

func (r *AgentReflector) newAgent() *agents.Agent[ReflectionRequest, Reflection] {
	agent := agents.NewAgent[ReflectionRequest, Reflection](r.opts...)
	instrument(agent, r.logger, r.stats)
	return agent
}

func (r *AgentReflector) Reflect(ctx context.Context, topic string, digests []Digest) (*Reflection, error) {
	req := ReflectionRequest{
		Topic:     topic,
		Summaries: summaries(digests),
	}
	verdict := new(Reflection)
	if err := r.newAgent().Run(ctx, &req, verdict, new(components.ApiResponse)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	return verdict, nil
}

// AgentSynthesizer is the language-model backed Synthesizer. Like the other
// stages it builds one agent per call.
type AgentSynthesizer struct {
	opts   []agents.Option
	logger *zap.Logger
	stats  *Stats
}

var _ Synthesizer = (*AgentSynthesizer)(nil)

func NewSynthesizer(opts ...agents.Option) *AgentSynthesizer {
	return &AgentSynthesizer{
		opts: append([]agents.Option{
			agents.WithName("AnswerSynthesizer"),
			agents.WithSystemPromptGenerator(answerPromptGenerator()),
		}, opts...),
	}
}

// Instrument attaches logging and usage accounting to every agent the stage
// builds. Call before the stage is used.
func (s *AgentSynthesizer) Instrument(logger *zap.Logger, stats *Stats) {
	s.logger = logger
	s.stats = stats
}

func (s *AgentSynthesizer) newAgent() *agents.Agent[AnswerRequest, AnswerDraft] {
	agent := agents.NewAgent[AnswerRequest, AnswerDraft](s.opts...)
	instrument(agent, s.logger, s.stats)
	return agent
}

func (s *AgentSynthesizer) Synthesize(ctx context.Context, topic string, digests []Digest) (string, error) {
	req := AnswerRequest{
		Topic:     topic,
		Summaries: summaries(digests),
	}
	draft := new(AnswerDraft)
	if err := s.newAgent().Run(ctx, &req, draft, new(components.ApiResponse)); err != nil {
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	if strings.TrimSpace(draft.Text) == "" {
		return "", fmt.Errorf("%w: empty answer text", ErrGenerationFailed)
	}
	return draft.Text, nil
}

// instrument hooks an agent with debug logging and rolls its reported token
// usage into the shared counters.
func instrument[I schema.Schema, O schema.Schema](agent *agents.Agent[I, O], logger *zap.Logger, stats *Stats) {
	if logger == nil {
		logger = zap.NewNop()
	}
	agent.SetEndHook(func(ctx context.Context, a *agents.Agent[I, O], in *I, out *O, resp *components.ApiResponse) {
		if stats != nil {
			stats.ModelCalls.Inc()
		}
		if resp == nil || resp.Usage == nil {
			return
		}
		if stats != nil {
			stats.InputTokens.Add(int64(resp.Usage.InputTokens))
			stats.OutputTokens.Add(int64(resp.Usage.OutputTokens))
		}
		logger.Debug("model call complete",
			zap.String("agent", a.Name()),
			zap.String("model", resp.Model),
			zap.Int("input_tokens", resp.Usage.InputTokens),
			zap.Int("output_tokens", resp.Usage.OutputTokens),
		)
	})
	agent.SetErrorHook(func(ctx context.Context, a *agents.Agent[I, O], in *I, resp *components.ApiResponse, err error) {
		logger.Warn("model call failed",
			zap.String("agent", a.Name()),
			zap.Error(err),
		)
	})
}

// summaries extracts the non-empty summaries of the given digests.
func summaries(digests []Digest) []string {
	out := make([]string, 0, len(digests))
	for _, d := range digests {
		if strings.TrimSpace(d.Summary) == "" {
			continue
		}
		out = append(out, d.Summary)
	}
	return out
}
