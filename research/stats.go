package research

import "go.uber.org/atomic"

// Stats counts pipeline activity. Safe for concurrent use so HTTP handlers
// can share one instance across requests.
type Stats struct {
	// Turns is the number of research turns started.
	Turns atomic.Int64
	// Loops is the number of research loops executed.
	Loops atomic.Int64
	// SearchCalls is the number of search invocations, retries included.
	SearchCalls atomic.Int64
	// EmptyDigests is the number of searches that returned no summary.
	EmptyDigests atomic.Int64
	// ModelCalls is the number of completed agent model calls.
	ModelCalls atomic.Int64
	// InputTokens and OutputTokens accumulate reported model usage.
	InputTokens  atomic.Int64
	OutputTokens atomic.Int64
}
