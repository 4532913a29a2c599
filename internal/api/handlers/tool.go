// HTTP handlers for the tool catalog and dispatch endpoints.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aetheris-lab/aetheris/internal/domain/tool"
	"github.com/go-chi/chi/v5"
)

// ToolHandler handles HTTP requests for tool listing and execution.
type ToolHandler struct {
	registry *tool.Registry
}

// NewToolHandler creates a new ToolHandler instance.
func NewToolHandler(registry *tool.Registry) *ToolHandler {
	return &ToolHandler{registry: registry}
}

// ExecuteToolRequest is the request body for executing a tool.
// Cache defaults to true when omitted.
type ExecuteToolRequest struct {
	Params map[string]any `json:"params"`
	Cache  *bool          `json:"cache,omitempty"`
}

// ListTools handles GET /api/tools
func (h *ToolHandler) ListTools(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, h.registry.List())
}

// GetTool handles GET /api/tools/{id}
func (h *ToolHandler) GetTool(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	meta, ok := h.registry.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "tool not found")
		return
	}
	writeSuccess(w, meta)
}

// ExecuteTool handles POST /api/tools/{id}/execute
func (h *ToolHandler) ExecuteTool(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req ExecuteToolRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	useCache := req.Cache == nil || *req.Cache

	result, err := h.registry.Execute(r.Context(), id, req.Params, useCache)
	if err != nil {
		h.writeExecuteError(w, err)
		return
	}
	writeSuccess(w, result)
}

// writeExecuteError maps dispatch errors onto HTTP statuses: unknown tools
// are 404, tools without an executor are 400, and failed executions are 500
// with the failure message kept verbatim.
func (h *ToolHandler) writeExecuteError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, tool.ErrUnknownTool):
		writeError(w, http.StatusNotFound, "tool not found")
	case errors.Is(err, tool.ErrNotExecutable):
		writeError(w, http.StatusBadRequest, "tool is not executable")
	case errors.Is(err, tool.ErrExecution):
		writeError(w, http.StatusInternalServerError, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "tool execution failed")
	}
}
