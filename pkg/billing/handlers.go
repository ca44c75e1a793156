package billing

import (
	"net/http"
	"sync"

	"github.com/gorilla/mux"

	"github.com/lodgepole/rentbilling/pkg/httputil"
	"github.com/lodgepole/rentbilling/pkg/observability"
)

// Handlers exposes the billing run over HTTP for manual triggers and
// inspection of the last result.
type Handlers struct {
	runner *Runner
	logger *observability.Logger

	mu         sync.RWMutex
	lastResult *RunResult
}

// NewHandlers creates HTTP handlers around a Runner
func NewHandlers(runner *Runner, logger *observability.Logger) *Handlers {
	return &Handlers{
		runner: runner,
		logger: logger,
	}
}

// RegisterRoutes registers billing endpoints on the router
func (h *Handlers) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/billing/run", h.TriggerRun).Methods(http.MethodPost)
	router.HandleFunc("/billing/last", h.LastRun).Methods(http.MethodGet)
}

// TriggerRun executes a billing run synchronously and reports the aggregate
// outcome: 200 with a summary on completion, 500 when the tenant fetch fails.
func (h *Handlers) TriggerRun(w http.ResponseWriter, r *http.Request) {
	result, err := h.runner.Run(r.Context())
	if err != nil {
		httputil.WriteStatus(w, http.StatusInternalServerError, "Error during billing.", err, nil)
		return
	}

	h.mu.Lock()
	h.lastResult = result
	h.mu.Unlock()

	httputil.WriteStatus(w, http.StatusOK, "Tenant billing completed successfully.", nil, result)
}

// LastRun returns the result of the most recent completed run
func (h *Handlers) LastRun(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	result := h.lastResult
	h.mu.RUnlock()

	if result == nil {
		httputil.WriteNotFoundError(w, "no billing run has completed yet")
		return
	}

	httputil.WriteSuccess(w, result)
}

// RecordResult stores a result produced outside the HTTP surface (the
// scheduled run) so LastRun can report it.
func (h *Handlers) RecordResult(result *RunResult) {
	h.mu.Lock()
	h.lastResult = result
	h.mu.Unlock()
}
