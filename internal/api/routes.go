// Route registration and go-chi router setup.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/aetheris-lab/aetheris/internal/api/handlers"
	"github.com/aetheris-lab/aetheris/internal/domain/assistant"
	"github.com/aetheris-lab/aetheris/internal/domain/history"
	"github.com/aetheris-lab/aetheris/internal/domain/tool"
	"github.com/aetheris-lab/aetheris/internal/infra/cache"
)

// Deps carries the services the router exposes.
type Deps struct {
	Store     *cache.Store
	Registry  *tool.Registry
	Assistant *assistant.Service
	History   *history.Service // nil disables the history endpoint's data
}

// NewRouter creates and configures a chi router with all routes.
func NewRouter(deps Deps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Liveness probe for load balancers; the richer health payload lives
	// under /api/system/health.
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`)) //nolint:errcheck
	})

	toolHandler := handlers.NewToolHandler(deps.Registry)
	aiHandler := handlers.NewAIHandler(deps.Assistant)
	systemHandler := handlers.NewSystemHandler(deps.Store, deps.Registry, deps.History)

	r.Route("/api", func(r chi.Router) {
		r.Route("/tools", func(r chi.Router) {
			r.Get("/", toolHandler.ListTools)                // GET /api/tools
			r.Get("/{id}", toolHandler.GetTool)              // GET /api/tools/{id}
			r.Post("/{id}/execute", toolHandler.ExecuteTool) // POST /api/tools/{id}/execute
		})

		r.Route("/ai", func(r chi.Router) {
			r.Post("/chat", aiHandler.Chat)                           // POST /api/ai/chat
			r.Post("/chat/stream", aiHandler.ChatStream)              // POST /api/ai/chat/stream
			r.Get("/history/{session_id}", aiHandler.GetHistory)      // GET /api/ai/history/{session_id}
			r.Delete("/history/{session_id}", aiHandler.ClearHistory) // DELETE /api/ai/history/{session_id}
		})

		r.Route("/system", func(r chi.Router) {
			r.Get("/health", systemHandler.Health)         // GET /api/system/health
			r.Get("/navigation", systemHandler.Navigation) // GET /api/system/navigation
			r.Get("/history", systemHandler.History)       // GET /api/system/history
		})
	})

	return r
}
