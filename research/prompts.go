package research

import (
	"time"

	"github.com/bububa/research-agents/components/systemprompt"
	"github.com/bububa/research-agents/components/systemprompt/cot"
	"github.com/bububa/research-agents/components/systemprompt/simple"
)

// currentDateProvider injects the current date into system prompts so the
// agents can reason about recency.
type currentDateProvider struct{}

var _ systemprompt.ContextProvider = (*currentDateProvider)(nil)

func (currentDateProvider) Title() string {
	return "CURRENT DATE"
}

func (currentDateProvider) Info() string {
	return time.Now().Format("January 2, 2006")
}

func queryPromptGenerator() *cot.Generator {
	return cot.New(
		cot.WithBackground([]string{
			"- You are an expert research assistant generating sophisticated and diverse web search queries.",
			"- The queries feed an automated web research tool capable of analyzing complex results.",
		}),
		cot.WithSteps([]string{
			"- Analyze the research topic and identify the distinct aspects it covers.",
			"- Prefer a single query when one well-crafted search would answer the topic.",
			"- Otherwise produce one query per distinct aspect, never more than the requested number.",
			"- Make each query specific enough to retrieve focused, current information.",
		}),
		cot.WithOutputInstructs([]string{
			"- Each query must be distinct and non-empty, with a short rationale.",
			"- Do not generate more queries than num_queries.",
		}),
		cot.WithContextProviders(currentDateProvider{}),
	)
}

func reflectionPromptGenerator() *cot.Generator {
	return cot.New(
		cot.WithBackground([]string{
			"- You are an expert research assistant judging whether gathered web research answers a topic.",
		}),
		cot.WithSteps([]string{
			"- Read the provided summaries carefully against the research topic.",
			"- Decide whether they are sufficient to write a complete, well-supported answer.",
			"- When insufficient, describe the knowledge gap and write self-contained follow-up queries that close it.",
		}),
		cot.WithOutputInstructs([]string{
			"- Set is_sufficient true only when the summaries genuinely cover the topic.",
			"- Leave follow_up_queries empty when is_sufficient is true.",
		}),
		cot.WithContextProviders(currentDateProvider{}),
	)
}

// answerInstructions is the plain-content prompt of the synthesis stage.
const answerInstructions = `You are an expert research assistant writing the final answer to a research topic from gathered web research.

Instructions:
- Base the answer only on the provided summaries, never on invented facts.
- Keep the inline reference markers of the form [q0s1] exactly where the supported claims appear.
- Never invent reference markers that do not appear in the summaries.
- When the summaries are empty or insufficient, say so plainly instead of fabricating an answer.
- Write a clear, well-structured answer in markdown.
- Always respond using the proper JSON schema.`

func answerPromptGenerator() *simple.Generator {
	return simple.New(answerInstructions, simple.WithContextProviders(currentDateProvider{}))
}
