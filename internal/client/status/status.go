// Package status polls the backend health endpoint and reflects the
// result in a terminal indicator. Every mutating operation consults the
// last check as a best-effort gate; the check and the operation are not
// atomic, so the server stays the authority.
package status

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/jayakumar9/atlas-account-vault/internal/client/api"
	"github.com/jayakumar9/atlas-account-vault/internal/models"
)

// PollInterval is how often the monitor re-checks backend health.
const PollInterval = 30 * time.Second

// Monitor polls /api/status and renders a connectivity indicator.
type Monitor struct {
	client *api.Client
	out    io.Writer
}

// NewMonitor creates a Monitor reporting through out.
func NewMonitor(client *api.Client, out io.Writer) *Monitor {
	return &Monitor{client: client, out: out}
}

// Check queries the health endpoint once, updates the indicator and
// returns whether the backend is connected. Transport failure counts as
// disconnected.
func (m *Monitor) Check(ctx context.Context) bool {
	st, err := m.client.CheckStatus(ctx)
	if err != nil {
		st = models.Status{IsConnected: false, State: "disconnected"}
	}
	m.render(st)
	return st.IsConnected
}

// Start runs an immediate check and then re-checks on a fixed interval
// until ctx is cancelled. The poll keeps running after logout; the
// check is unauthenticated and idempotent, so the drift is harmless.
func (m *Monitor) Start(ctx context.Context, interval time.Duration) {
	m.Check(ctx)
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.Check(ctx)
			}
		}
	}()
}

func (m *Monitor) render(st models.Status) {
	if st.IsConnected {
		fmt.Fprintf(m.out, "\033[32mSystem Status: Healthy\033[0m | Database: %s\n", st.State)
		return
	}
	fmt.Fprintf(m.out, "\033[31mSystem Status: Error\033[0m | Database: %s\n", st.State)
}
