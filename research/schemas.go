package research

import (
	"encoding/json"

	"github.com/bububa/research-agents/schema"
)

// QueryRequest asks the query formulation agent for search queries covering a
// research topic.
type QueryRequest struct {
	schema.Base
	// Topic is the research topic derived from the conversation.
	Topic string `json:"topic" jsonschema:"title=topic,description=The research topic to generate search queries for." validate:"required"`
	// NumQueries is the maximum number of queries to generate.
	NumQueries int `json:"num_queries" jsonschema:"title=num_queries,description=The maximum number of search queries to generate."`
}

func (s QueryRequest) String() string {
	bs, _ := json.Marshal(s)
	return string(bs)
}

// SearchQuery is one web search query with the reasoning behind it.
type SearchQuery struct {
	// Query is the web search query text.
	Query string `json:"query" jsonschema:"title=query,description=The web search query." validate:"required"`
	// Rationale explains why this query is relevant to the topic.
	Rationale string `json:"rationale,omitempty" jsonschema:"title=rationale,description=Brief explanation of why this query is relevant to the research topic."`
}

// QueryPlan is the structured output of the query formulation agent.
type QueryPlan struct {
	schema.Base
	// Queries is the list of proposed search queries.
	Queries []SearchQuery `json:"queries" jsonschema:"title=queries,description=A list of search queries covering the research topic."`
}

func (s QueryPlan) String() string {
	bs, _ := json.Marshal(s)
	return string(bs)
}

// ReflectionRequest asks the reflection agent whether gathered research
// suffices to answer the topic.
type ReflectionRequest struct {
	schema.Base
	// Topic is the research topic under evaluation.
	Topic string `json:"topic" jsonschema:"title=topic,description=The research topic under evaluation." validate:"required"`
	// Summaries are the research summaries gathered so far.
	Summaries []string `json:"summaries,omitempty" jsonschema:"title=summaries,description=Research summaries gathered so far."`
}

func (s ReflectionRequest) String() string {
	bs, _ := json.Marshal(s)
	return string(bs)
}

// Reflection is the structured verdict of the reflection agent.
type Reflection struct {
	schema.Base
	// IsSufficient reports whether the gathered summaries answer the topic.
	IsSufficient bool `json:"is_sufficient" jsonschema:"title=is_sufficient,description=Whether the provided summaries are sufficient to answer the topic."`
	// KnowledgeGap describes what information is missing when insufficient.
	KnowledgeGap string `json:"knowledge_gap,omitempty" jsonschema:"title=knowledge_gap,description=What information is missing or needs clarification."`
	// FollowUpQueries are queries to close the knowledge gap.
	FollowUpQueries []string `json:"follow_up_queries,omitempty" jsonschema:"title=follow_up_queries,description=Follow-up search queries to address the knowledge gap."`
}

func (s Reflection) String() string {
	bs, _ := json.Marshal(s)
	return string(bs)
}

// AnswerRequest asks the synthesis agent for the final cited answer.
type AnswerRequest struct {
	schema.Base
	// Topic is the research topic to answer.
	Topic string `json:"topic" jsonschema:"title=topic,description=The research topic to answer." validate:"required"`
	// Summaries are all gathered research summaries with inline reference markers.
	Summaries []string `json:"summaries,omitempty" jsonschema:"title=summaries,description=All gathered research summaries with inline reference markers."`
}

func (s AnswerRequest) String() string {
	bs, _ := json.Marshal(s)
	return string(bs)
}

// AnswerDraft is the structured output of the synthesis agent. Reference
// markers in the text are remapped to ordinals before the answer is returned
// to the caller.
type AnswerDraft struct {
	schema.Base
	// Text is the answer text carrying the reference markers from the summaries.
	Text string `json:"text" jsonschema:"title=text,description=The answer text keeping the inline reference markers from the summaries." validate:"required"`
}

func (s AnswerDraft) String() string {
	bs, _ := json.Marshal(s)
	return string(bs)
}
