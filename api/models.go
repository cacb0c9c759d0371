package api

// ChatMessage is one prior conversation turn carried by the client.
type ChatMessage struct {
	// Role is "user" or "assistant".
	Role string `json:"role" binding:"required,oneof=user assistant"`
	// Content is the turn text.
	Content string `json:"content" binding:"required"`
}

// ResearchRequest is the request body of POST /api/research. The client owns
// the conversation history and sends it with every request.
type ResearchRequest struct {
	// Message is the new user message.
	Message string `json:"message" binding:"required"`
	// History is the prior conversation, oldest first.
	History []ChatMessage `json:"history,omitempty" binding:"dive"`
}

// SourcePayload is one cited source of the answer.
type SourcePayload struct {
	Title string `json:"title,omitempty"`
	URL   string `json:"url"`
}

// ResearchResponse is the response body of POST /api/research.
type ResearchResponse struct {
	// Answer is the final answer text with inline [n] citation markers.
	Answer string `json:"answer"`
	// Sources are the cited sources, ordered by first citation; marker [n]
	// refers to the nth entry, one-based.
	Sources []SourcePayload `json:"sources,omitempty"`
}

// ErrorResponse carries a user-visible failure notice.
type ErrorResponse struct {
	Error string `json:"error"`
}
