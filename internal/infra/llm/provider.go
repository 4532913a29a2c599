// Adapters (OpenAI-compatible endpoints, local gateways, test fakes)
// implement Provider so the application is never coupled to a specific
// LLM vendor.
package llm

import "context"

// StreamHandler receives streamed chunks in order. Returning an error stops
// the stream.
type StreamHandler func(chunk StreamChunk) error

// Provider is the model-agnostic interface for chat operations.
type Provider interface {
	// ChatCompletion performs a non-streaming chat completion.
	ChatCompletion(ctx context.Context, req ChatRequest) (*ChatResponse, error)

	// ChatStream performs a streaming chat completion, delivering chunks
	// to fn as they arrive. The final chunk has type ChunkDone.
	ChatStream(ctx context.Context, req ChatRequest, fn StreamHandler) error

	// ModelInfo returns static metadata about the provider/model.
	ModelInfo() ModelMeta
}
