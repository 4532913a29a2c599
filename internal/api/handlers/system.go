// HTTP handlers for system endpoints: health, navigation and history.
package handlers

import (
	"net/http"

	"github.com/aetheris-lab/aetheris/internal/domain/history"
	"github.com/aetheris-lab/aetheris/internal/domain/tool"
	"github.com/aetheris-lab/aetheris/internal/infra/cache"
)

// SystemHandler handles HTTP requests for system-level endpoints.
type SystemHandler struct {
	store    *cache.Store
	registry *tool.Registry
	history  *history.Service
}

// NewSystemHandler creates a new SystemHandler instance. history may be nil
// when no database is attached; the history endpoint then reports empty.
func NewSystemHandler(store *cache.Store, registry *tool.Registry, historyService *history.Service) *SystemHandler {
	return &SystemHandler{store: store, registry: registry, history: historyService}
}

// Health handles GET /api/system/health
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, map[string]any{
		"status": "healthy",
		"cache":  h.store.Stats(),
	})
}

// Navigation handles GET /api/system/navigation
func (h *SystemHandler) Navigation(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, h.registry.NavigationTree())
}

// HistoryResponse is the paged payload for the history endpoint.
type HistoryResponse struct {
	Executions []history.Execution `json:"executions"`
	Total      int                 `json:"total"`
	Limit      int                 `json:"limit"`
	Offset     int                 `json:"offset"`
}

// History handles GET /api/system/history
func (h *SystemHandler) History(w http.ResponseWriter, r *http.Request) {
	page := parsePaginationParams(r)
	if h.history == nil {
		writeSuccess(w, HistoryResponse{Executions: []history.Execution{}, Limit: page.Limit, Offset: page.Offset})
		return
	}

	executions, total, err := h.history.List(r.Context(), page.Limit, page.Offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load history")
		return
	}
	writeSuccess(w, HistoryResponse{
		Executions: executions,
		Total:      total,
		Limit:      page.Limit,
		Offset:     page.Offset,
	})
}
