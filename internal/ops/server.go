package ops

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/parlaybook/engine/internal/domain"
	"github.com/parlaybook/engine/internal/infra"
	"github.com/parlaybook/engine/internal/repository"
	"github.com/parlaybook/engine/internal/settlement"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler exposes the operator API: score ingestion, settlement triggers,
// slip placement and lifecycle, health and metrics.
type Handler struct {
	pool         *pgxpool.Pool
	orchestrator *settlement.Orchestrator
	placement    *settlement.Placement
	ledger       repository.LedgerRepository
	registry     *prometheus.Registry
}

// NewHandler creates the operator API handler.
func NewHandler(pool *pgxpool.Pool, orchestrator *settlement.Orchestrator, placement *settlement.Placement, ledger repository.LedgerRepository, registry *prometheus.Registry) *Handler {
	return &Handler{pool: pool, orchestrator: orchestrator, placement: placement, ledger: ledger, registry: registry}
}

// Health handles GET /health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := infra.HealthCheck(r.Context(), h.pool); err != nil {
		RespondJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "unhealthy",
			"error":  err.Error(),
		})
		return
	}
	RespondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// FinalizeMatches handles POST /matches/finalize: ingest a batch of finalized
// scores and settle every slip they touch.
func (h *Handler) FinalizeMatches(w http.ResponseWriter, r *http.Request) {
	var batch []domain.FinalizedMatch
	if err := DecodeJSON(r, &batch); err != nil {
		RespondError(w, err)
		return
	}

	report, err := h.orchestrator.RunPass(r.Context(), batch)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, report)
}

// RunSettlement handles POST /settlement/run: settle every pending slip whose
// scores are already on record.
func (h *Handler) RunSettlement(w http.ResponseWriter, r *http.Request) {
	report, err := h.orchestrator.RunSweep(r.Context())
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, report)
}

// PlaceSlip handles POST /slips.
func (h *Handler) PlaceSlip(w http.ResponseWriter, r *http.Request) {
	var input settlement.PlaceSlipInput
	if err := DecodeJSON(r, &input); err != nil {
		RespondError(w, err)
		return
	}

	slip, err := h.placement.PlaceSlip(r.Context(), input)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusCreated, slip)
}

// GetSlip handles GET /slips/{id}.
func (h *Handler) GetSlip(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		RespondError(w, domain.ErrValidation("invalid slip id"))
		return
	}

	slip, err := h.orchestrator.FindSlip(r.Context(), id)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, slip)
}

// GetBalance handles GET /accounts/{id}/balance.
func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		RespondError(w, domain.ErrValidation("invalid account id"))
		return
	}

	acct, err := h.ledger.FindByAccount(r.Context(), h.pool, id)
	if err != nil {
		RespondError(w, err)
		return
	}
	if acct == nil {
		RespondError(w, domain.ErrNotFound("ledger account", id.String()))
		return
	}
	RespondJSON(w, http.StatusOK, acct)
}

// CancelSlip handles POST /slips/{id}/cancel.
func (h *Handler) CancelSlip(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		RespondError(w, domain.ErrValidation("invalid slip id"))
		return
	}

	slip, err := h.orchestrator.CancelSlip(r.Context(), id)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, slip)
}

// NewRouter wires the operator API routes with their middleware.
func NewRouter(h *Handler, tokens *TokenManager, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware (order matters)
	r.Use(Recovery(logger))
	r.Use(RequestID)
	r.Use(RequestLogger(logger))

	// Health and metrics (no auth)
	r.Get("/health", h.Health)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(h.registry, promhttp.HandlerOpts{}))

	// Operator-authenticated routes
	r.Group(func(r chi.Router) {
		r.Use(JSONContentType)
		r.Use(Authenticate(tokens))

		r.Get("/slips/{id}", h.GetSlip)
		r.Get("/accounts/{id}/balance", h.GetBalance)

		r.Group(func(r chi.Router) {
			r.Use(RequireRole("operator"))
			r.Post("/slips", h.PlaceSlip)
			r.Post("/slips/{id}/cancel", h.CancelSlip)
			r.Post("/matches/finalize", h.FinalizeMatches)
			r.Post("/settlement/run", h.RunSettlement)
		})
	})

	return r
}
