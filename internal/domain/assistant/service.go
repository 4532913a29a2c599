// Package assistant implements the conversational AI service: context
// building with a system prompt, session-scoped history kept in the cache,
// and streaming and non-streaming chat over an llm.Provider.
package assistant

import (
	"context"
	"log"
	"slices"
	"time"

	"github.com/aetheris-lab/aetheris/internal/infra/cache"
	"github.com/aetheris-lab/aetheris/internal/infra/llm"
	"github.com/aetheris-lab/aetheris/pkg/uuid"
)

const systemPrompt = `You are the Aetheris assistant, a friendly and professional AI helper.

Your responsibilities:
1. Answer questions accurately and helpfully.
2. Help users discover and use the tools on this platform.
3. Recommend tools and guide their usage.
4. Keep a friendly, professional tone.

Keep answers concise and use markdown formatting where it helps.`

// missingKeyReply is returned instead of an error when no API key is
// configured, so the UI can show a readable message.
const missingKeyReply = "The AI service is not configured. Ask the administrator to set an API key."

const (
	historyKeyPrefix = "chat_history:"
	historyTTL       = 24 * time.Hour
	maxHistory       = 50
)

// Reply is the outcome of one chat turn.
type Reply struct {
	Reply     string `json:"reply"`
	Reasoning string `json:"reasoning_content,omitempty"`
	Intent    string `json:"intent"` // "chat" or "error"
	SessionID string `json:"session_id"`
}

// Service coordinates the provider, the prompt and per-session history.
type Service struct {
	provider    llm.Provider
	store       *cache.Store
	hasAPIKey   bool
	temperature float32
	maxTokens   int
}

// New builds the assistant. hasAPIKey false short-circuits chats with a
// friendly reply instead of calling the provider.
func New(provider llm.Provider, store *cache.Store, hasAPIKey bool, temperature float32, maxTokens int) *Service {
	return &Service{
		provider:    provider,
		store:       store,
		hasAPIKey:   hasAPIKey,
		temperature: temperature,
		maxTokens:   maxTokens,
	}
}

// Chat runs one non-streaming turn. contextMsgs carries client-supplied
// conversation context inserted between stored history and the new message.
// Provider failures come back as an error-intent reply rather than an error
// so the session survives them.
func (s *Service) Chat(ctx context.Context, message, sessionID string, contextMsgs []llm.Message) (*Reply, error) {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	if !s.hasAPIKey {
		return &Reply{Reply: missingKeyReply, Intent: "error", SessionID: sessionID}, nil
	}

	resp, err := s.provider.ChatCompletion(ctx, llm.ChatRequest{
		Messages:    s.buildMessages(message, sessionID, contextMsgs),
		Temperature: s.temperature,
		MaxTokens:   s.maxTokens,
	})
	if err != nil {
		log.Printf("assistant: chat failed: %v", err)
		return &Reply{
			Reply:     "The AI service request failed. Please try again later.",
			Intent:    "error",
			SessionID: sessionID,
		}, nil
	}

	reply := resp.Content
	if reply == "" {
		reply = "Sorry, I cannot answer that right now. Please try again later."
	}
	s.saveHistory(sessionID, message, reply)

	return &Reply{
		Reply:     reply,
		Reasoning: resp.Reasoning,
		Intent:    "chat",
		SessionID: sessionID,
	}, nil
}

// ChatStream runs one streaming turn, forwarding provider chunks to fn.
// The accumulated content is saved to history when the stream completes.
// The returned session id identifies the conversation for follow-ups.
func (s *Service) ChatStream(ctx context.Context, message, sessionID string, contextMsgs []llm.Message, fn llm.StreamHandler) (string, error) {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	if !s.hasAPIKey {
		err := fn(llm.StreamChunk{Type: llm.ChunkError, Content: missingKeyReply})
		return sessionID, err
	}

	var content string
	err := s.provider.ChatStream(ctx, llm.ChatRequest{
		Messages:    s.buildMessages(message, sessionID, contextMsgs),
		Temperature: s.temperature,
		MaxTokens:   s.maxTokens,
	}, func(chunk llm.StreamChunk) error {
		if chunk.Type == llm.ChunkContent {
			content += chunk.Content
		}
		return fn(chunk)
	})
	if err != nil {
		log.Printf("assistant: stream failed: %v", err)
		_ = fn(llm.StreamChunk{Type: llm.ChunkError, Content: "The AI service request failed. Please try again later."})
		return sessionID, nil
	}

	if content != "" {
		s.saveHistory(sessionID, message, content)
	}
	return sessionID, nil
}

// History returns the stored messages for a session, oldest first.
func (s *Service) History(sessionID string) []llm.Message {
	if v, ok := s.store.Get(historyKeyPrefix + sessionID); ok {
		if history, ok := v.([]llm.Message); ok {
			return history
		}
	}
	return nil
}

// ClearHistory drops a session's stored messages.
func (s *Service) ClearHistory(sessionID string) {
	s.store.Delete(historyKeyPrefix + sessionID)
}

// buildMessages assembles system prompt, session history, any client-supplied
// context and the new user message. Context roles other than "assistant"
// collapse to "user".
func (s *Service) buildMessages(message, sessionID string, contextMsgs []llm.Message) []llm.Message {
	history := s.History(sessionID)
	messages := make([]llm.Message, 0, len(history)+len(contextMsgs)+2)
	messages = append(messages, llm.Message{Role: "system", Content: systemPrompt})
	messages = append(messages, history...)
	for _, m := range contextMsgs {
		if m.Content == "" {
			continue
		}
		role := "user"
		if m.Role == "assistant" {
			role = "assistant"
		}
		messages = append(messages, llm.Message{Role: role, Content: m.Content})
	}
	messages = append(messages, llm.Message{Role: "user", Content: message})
	return messages
}

// saveHistory appends the turn and trims the session to the newest
// maxHistory messages. The stored slice is cloned before appending so the
// cache entry is replaced wholesale, never mutated in place.
func (s *Service) saveHistory(sessionID, userMessage, reply string) {
	history := slices.Clone(s.History(sessionID))
	history = append(history,
		llm.Message{Role: "user", Content: userMessage},
		llm.Message{Role: "assistant", Content: reply},
	)
	if len(history) > maxHistory {
		history = history[len(history)-maxHistory:]
	}
	s.store.Set(historyKeyPrefix+sessionID, history, historyTTL)
}
