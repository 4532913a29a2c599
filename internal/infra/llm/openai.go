package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIProvider implements Provider against any OpenAI-compatible endpoint
// (OpenAI, DeepSeek, local gateways) via the official wire format.
type OpenAIProvider struct {
	client  *openai.Client
	baseURL string
	model   string
}

// NewOpenAIProvider builds a provider for the given endpoint. An empty
// baseURL targets the public OpenAI API.
func NewOpenAIProvider(apiKey, baseURL, model string) *OpenAIProvider {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	return &OpenAIProvider{
		client:  openai.NewClientWithConfig(cfg),
		baseURL: cfg.BaseURL,
		model:   model,
	}
}

func (p *OpenAIProvider) buildRequest(req ChatRequest, stream bool) openai.ChatCompletionRequest {
	model := req.Model
	if model == "" {
		model = p.model
	}
	messages := make([]openai.ChatCompletionMessage, len(req.Messages))
	for i, m := range req.Messages {
		messages[i] = openai.ChatCompletionMessage{Role: m.Role, Content: m.Content}
	}
	return openai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
		Stream:      stream,
	}
}

// ChatCompletion performs a non-streaming chat completion.
func (p *OpenAIProvider) ChatCompletion(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	resp, err := p.client.CreateChatCompletion(ctx, p.buildRequest(req, false))
	if err != nil {
		return nil, fmt.Errorf("openai chat: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("openai chat: empty choices")
	}
	choice := resp.Choices[0]
	return &ChatResponse{
		Content:   choice.Message.Content,
		Reasoning: choice.Message.ReasoningContent,
		Tokens:    resp.Usage.TotalTokens,
	}, nil
}

// ChatStream performs a streaming chat completion. Reasoning and content
// deltas are forwarded as they arrive; a ChunkDone marks normal completion.
func (p *OpenAIProvider) ChatStream(ctx context.Context, req ChatRequest, fn StreamHandler) error {
	stream, err := p.client.CreateChatCompletionStream(ctx, p.buildRequest(req, true))
	if err != nil {
		return fmt.Errorf("openai stream: %w", err)
	}
	defer stream.Close()

	for {
		resp, recvErr := stream.Recv()
		if errors.Is(recvErr, io.EOF) {
			break
		}
		if recvErr != nil {
			return fmt.Errorf("openai stream recv: %w", recvErr)
		}
		if len(resp.Choices) == 0 {
			continue
		}
		delta := resp.Choices[0].Delta
		if delta.ReasoningContent != "" {
			if err := fn(StreamChunk{Type: ChunkReasoning, Content: delta.ReasoningContent}); err != nil {
				return err
			}
		}
		if delta.Content != "" {
			if err := fn(StreamChunk{Type: ChunkContent, Content: delta.Content}); err != nil {
				return err
			}
		}
	}
	return fn(StreamChunk{Type: ChunkDone})
}

// ModelInfo returns static metadata about the provider/model.
func (p *OpenAIProvider) ModelInfo() ModelMeta {
	return ModelMeta{ID: p.model, Provider: "openai", BaseURL: p.baseURL}
}
