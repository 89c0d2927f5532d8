// Package insight wraps the AI completion provider used for journal
// reflections and coach messages.
package insight

// chatRequest is the wire format of the completion endpoint.
type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

// Message is a single turn in a completion conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the completion endpoint's reply envelope.
type chatResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Reflection is the provider's structured read of a journal entry.
type Reflection struct {
	Summary    string   `json:"summary"`
	Themes     []string `json:"themes"`
	Suggestion string   `json:"suggestion"`
}
