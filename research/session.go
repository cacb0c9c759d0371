package research

import (
	"context"
	"fmt"
	"strings"

	"github.com/bububa/research-agents/components"
	"github.com/bububa/research-agents/schema"
)

// Session owns the conversation state for one caller and drives the pipeline
// once per user turn. History is mutated only at turn boundaries: the user
// turn and the agent turn are appended together, and only when the turn
// succeeds.
type Session struct {
	pipeline *Pipeline
	memory   *components.Memory
}

func NewSession(pipeline *Pipeline) *Session {
	return &Session{
		pipeline: pipeline,
		memory:   components.NewMemory(0),
	}
}

// Seed replaces the conversation history, letting stateless callers carry
// their own history across requests.
func (s *Session) Seed(history []components.Message) {
	s.memory.SetHistory(history)
}

// History returns a copy of the conversation history.
func (s *Session) History() []components.Message {
	return s.memory.History()
}

// Ask runs one research turn for the given user input. Blank input does not
// start a turn.
func (s *Session) Ask(ctx context.Context, input string) (*Answer, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, ErrEmptyInput
	}
	answer, err := s.pipeline.ResearchTurn(ctx, s.topic(input))
	if err != nil {
		return nil, err
	}
	s.memory.NewTurn()
	s.memory.NewMessage(components.UserRole, schema.String(input))
	s.memory.NewMessage(components.AssistantRole, schema.String(answer.Text))
	return answer, nil
}

// topic folds the conversation history and the new input into one research
// topic so follow-up questions keep their context.
func (s *Session) topic(input string) string {
	history := s.memory.History()
	if len(history) == 0 {
		return input
	}
	var b strings.Builder
	for _, msg := range history {
		switch msg.Role() {
		case components.UserRole:
			fmt.Fprintf(&b, "User: %s\n", schema.Stringify(msg.Content()))
		case components.AssistantRole:
			fmt.Fprintf(&b, "Assistant: %s\n", schema.Stringify(msg.Content()))
		}
	}
	fmt.Fprintf(&b, "User: %s", input)
	return b.String()
}
