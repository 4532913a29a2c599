// HTTP handlers for assistant chat, streaming chat and session history.
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aetheris-lab/aetheris/internal/domain/assistant"
	"github.com/aetheris-lab/aetheris/internal/infra/llm"
	"github.com/go-chi/chi/v5"
)

// AIHandler handles HTTP requests for the assistant endpoints.
type AIHandler struct {
	assistant *assistant.Service
}

// NewAIHandler creates a new AIHandler instance.
func NewAIHandler(service *assistant.Service) *AIHandler {
	return &AIHandler{assistant: service}
}

// ChatRequest is the request body for both chat endpoints. Context carries
// optional client-side conversation messages included in the prompt.
type ChatRequest struct {
	Message   string        `json:"message"`
	SessionID string        `json:"session_id,omitempty"`
	Context   []llm.Message `json:"context,omitempty"`
}

// Chat handles POST /api/ai/chat
func (h *AIHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	reply, err := h.assistant.Chat(r.Context(), req.Message, req.SessionID, req.Context)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "chat failed")
		return
	}
	writeSuccess(w, reply)
}

// ChatStream handles POST /api/ai/chat/stream with server-sent events.
// Each event is a JSON-encoded llm.StreamChunk on a "data:" line.
func (h *AIHandler) ChatStream(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	_, err := h.assistant.ChatStream(r.Context(), req.Message, req.SessionID, req.Context, func(chunk llm.StreamChunk) error {
		raw, marshalErr := json.Marshal(chunk)
		if marshalErr != nil {
			return marshalErr
		}
		if _, writeErr := fmt.Fprintf(w, "data: %s\n\n", raw); writeErr != nil {
			return writeErr
		}
		flusher.Flush()
		return nil
	})
	if err != nil {
		// Headers are gone; the handler already emitted an error chunk
		// where it could.
		return
	}
}

// GetHistory handles GET /api/ai/history/{session_id}
func (h *AIHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "session_id")
	history := h.assistant.History(sessionID)
	if history == nil {
		history = []llm.Message{}
	}
	writeSuccess(w, history)
}

// ClearHistory handles DELETE /api/ai/history/{session_id}
func (h *AIHandler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	h.assistant.ClearHistory(chi.URLParam(r, "session_id"))
	writeMessage(w, "history cleared")
}
