package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/frahmantamala/monthly-budget/internal"
	"github.com/frahmantamala/monthly-budget/internal/transport"
)

type HealthStatus string

const (
	HealthHealthy   HealthStatus = "healthy"
	HealthUnhealthy HealthStatus = "unhealthy"
)

type HealthResponse struct {
	Status     HealthStatus          `json:"status"`
	CheckedAt  time.Time             `json:"checked_at"`
	Components map[string]CheckEntry `json:"components"`
}

type CheckEntry struct {
	Status     HealthStatus   `json:"status"`
	Message    string         `json:"message,omitempty"`
	Details    map[string]any `json:"details,omitempty"`
	CheckedAt  time.Time      `json:"checked_at"`
	DurationMs int64          `json:"duration_ms"`
}

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// ReadyChecker is satisfied by *budget.Store.
type ReadyChecker interface {
	IsReady() bool
}

type HealthHandler struct {
	*transport.BaseHandler
	db    Pinger
	store ReadyChecker
}

// NewHealthHandler builds the health checks. db may be nil when the state is
// kept in memory.
func NewHealthHandler(base *transport.BaseHandler, db Pinger, store ReadyChecker) *HealthHandler {
	return &HealthHandler{BaseHandler: base, db: db, store: store}
}

// pingHandler only says the process is up
func (h *HealthHandler) pingHandler(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}

// healthCheckHandler checks the state file and store readiness
func (h *HealthHandler) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	components := map[string]CheckEntry{
		"store": h.checkStore(),
	}
	if h.db != nil {
		components["sqlite"] = h.checkDB(r.Context())
	}

	status := HealthHealthy
	for _, c := range components {
		if c.Status == HealthUnhealthy {
			status = HealthUnhealthy
		}
	}

	statusCode := http.StatusOK
	if status == HealthUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}
	h.WriteJSON(w, statusCode, HealthResponse{
		Status:     status,
		CheckedAt:  time.Now(),
		Components: components,
	})
}

func (h *HealthHandler) checkDB(ctx context.Context) CheckEntry {
	ctx, cancel := internal.WithTimeout(ctx, 0)
	defer cancel()

	start := time.Now()
	err := h.db.PingContext(ctx)

	entry := CheckEntry{
		Status:     HealthHealthy,
		CheckedAt:  time.Now(),
		DurationMs: time.Since(start).Milliseconds(),
	}
	if err != nil {
		entry.Status = HealthUnhealthy
		entry.Message = err.Error()
	}
	return entry
}

func (h *HealthHandler) checkStore() CheckEntry {
	entry := CheckEntry{
		Status:    HealthHealthy,
		CheckedAt: time.Now(),
	}
	if h.store == nil || !h.store.IsReady() {
		entry.Status = HealthUnhealthy
		entry.Message = "budget state not loaded"
	}
	return entry
}
