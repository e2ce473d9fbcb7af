package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/davidbz/plangate/internal/cache"
	"github.com/davidbz/plangate/internal/domain"
	"github.com/davidbz/plangate/internal/observability"
	"github.com/davidbz/plangate/internal/planner"
	"github.com/davidbz/plangate/internal/resilience"
)

// PlanRequest is the body of POST /v1/plan.
type PlanRequest struct {
	Prompt   string `json:"prompt"`
	Provider string `json:"provider,omitempty"`

	// Sync selects the synchronous path: the resolved provider, then the
	// default provider once. Otherwise the full fallback chain runs.
	Sync bool `json:"sync,omitempty"`

	domain.ModelParams
}

// ProviderStatus describes one registered provider.
type ProviderStatus struct {
	ID      string `json:"id"`
	Breaker string `json:"breaker"`
}

type errorResponse struct {
	Error     string `json:"error"`
	ErrorType string `json:"error_type,omitempty"`
}

// Handler handles HTTP requests.
type Handler struct {
	planner  *planner.Planner
	registry domain.ProviderRegistry
	breakers *resilience.BreakerSet
	cache    cache.Store
}

// NewHandler creates a new HTTP handler (DI constructor).
func NewHandler(
	plans *planner.Planner,
	registry domain.ProviderRegistry,
	breakers *resilience.BreakerSet,
	store cache.Store,
) *Handler {
	return &Handler{
		planner:  plans,
		registry: registry,
		breakers: breakers,
		cache:    store,
	}
}

// HandlePlan processes planning requests.
func (h *Handler) HandlePlan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req PlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("invalid request body: %v", err)})
		return
	}

	if strings.TrimSpace(req.Prompt) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "prompt is required"})
		return
	}

	// The header wins over the body so proxies can pin a provider.
	if provider := r.Header.Get("X-Provider"); provider != "" {
		req.Provider = provider
	}

	logger := observability.FromContext(ctx)
	logger.Info("plan request received",
		observability.String("requested", req.Provider),
		observability.Bool("sync", req.Sync),
	)

	if req.Sync {
		result, err := h.planner.Plan(ctx, req.Prompt, req.Provider, req.ModelParams)
		if err != nil {
			logger.Error("plan failed", observability.Error(err))
			writeJSON(w, http.StatusBadGateway, errorResponse{
				Error:     err.Error(),
				ErrorType: string(domain.ErrorTypeOf(err)),
			})
			return
		}
		writeJSON(w, http.StatusOK, result)
		return
	}

	result, err := h.planner.PlanAsync(ctx, req.Prompt, req.Provider, req.ModelParams).Await(ctx)
	if err != nil {
		logger.Warn("plan abandoned", observability.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
		return
	}
	if result == nil {
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "no provider produced a plan"})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// HandleProviders lists registered providers with their breaker state.
func (h *Handler) HandleProviders(w http.ResponseWriter, r *http.Request) {
	ids, err := h.registry.List(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	snapshot := h.breakers.Snapshot()
	statuses := make([]ProviderStatus, 0, len(ids))
	for _, id := range ids {
		state := resilience.StateClosed
		if metrics, ok := snapshot[id]; ok {
			state = metrics.State
		}
		statuses = append(statuses, ProviderStatus{ID: id, Breaker: state.String()})
	}

	writeJSON(w, http.StatusOK, map[string]any{"providers": statuses})
}

// HandleProviderHealth reports whether the named provider can take calls.
func (h *Handler) HandleProviderHealth(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	healthy := h.planner.IsHealthy(r.Context(), name)
	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, map[string]any{
		"provider": name,
		"healthy":  healthy,
	})
}

// HandleCacheStats reports cache hits, misses and entries.
func (h *Handler) HandleCacheStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.cache.Stats())
}

// HandleHealth handles health check requests.
func (h *Handler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Status is already written; an encode failure can only be dropped.
	_ = json.NewEncoder(w).Encode(body)
}
