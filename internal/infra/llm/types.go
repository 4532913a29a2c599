// Package llm defines the model-agnostic chat provider abstraction.
// All types here are shared between the provider interface and adapters.
package llm

// Message represents a single turn in a conversation (role + content).
type Message struct {
	Role    string `json:"role"` // "system" | "user" | "assistant"
	Content string `json:"content"`
}

// ChatRequest is the input for a chat completion, streaming or not.
type ChatRequest struct {
	// Model overrides the provider default when non-empty.
	Model       string
	Messages    []Message
	Temperature float32
	MaxTokens   int
}

// ChatResponse is the output from a non-streaming chat completion.
type ChatResponse struct {
	Content   string // the assistant message text
	Reasoning string // reasoning trace when the model emits one
	Tokens    int    // total tokens consumed (prompt + completion)
}

// ChunkType discriminates streamed events.
type ChunkType string

const (
	ChunkReasoning ChunkType = "reasoning"
	ChunkContent   ChunkType = "content"
	ChunkDone      ChunkType = "done"
	ChunkError     ChunkType = "error"
)

// StreamChunk is one streamed event: a reasoning or content fragment, the
// final done marker, or an error.
type StreamChunk struct {
	Type    ChunkType `json:"type"`
	Content string    `json:"content,omitempty"`
}

// ModelMeta describes the model / provider identity.
type ModelMeta struct {
	ID       string // e.g. "gpt-4o-mini", "deepseek-chat"
	Provider string // e.g. "openai"
	BaseURL  string
}
