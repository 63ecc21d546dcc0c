package http

import (
	"context"
	"net/http"

	"github.com/jayakumar9/atlas-account-vault/internal/models"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// StatusHandler answers the unauthenticated health endpoint the client
// polls before every mutating operation.
type StatusHandler struct {
	DB Pinger
}

// Status handles GET /api/status with {isConnected, state}.
func (h *StatusHandler) Status(w http.ResponseWriter, r *http.Request) {
	status := models.Status{IsConnected: true, State: "connected"}
	if err := h.DB.PingContext(r.Context()); err != nil {
		status = models.Status{IsConnected: false, State: "disconnected"}
	}
	writeJSON(w, http.StatusOK, status)
}
