package svc

import (
	"context"
	"encoding/json"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/leesiuhin7/gge-utility-bot/internal/app"
	"github.com/leesiuhin7/gge-utility-bot/internal/app/config"
)

// StatusRequestTimeout bounds a single puppet status query.
const StatusRequestTimeout = 30 * time.Second

// NewStatusMonitor creates a new instance of the status monitor service.
func NewStatusMonitor(comm app.Comm, players []config.Player) app.StatusMonitorSvc {
	return StatusMonitor{comm: comm, players: players}
}

// StatusMonitor queries the runtime state of all configured puppets.
type StatusMonitor struct {
	comm    app.Comm
	players []config.Player
}

// Statuses queries every puppet concurrently. A failing query yields an
// unknown connection state rather than failing the whole sweep.
func (s StatusMonitor) Statuses(ctx context.Context) ([]app.VisibleStatus, error) {
	statuses := make([]app.VisibleStatus, len(s.players))
	g, ctx := errgroup.WithContext(ctx)
	for i, p := range s.players {
		i, p := i, p
		g.Go(func() error {
			statuses[i] = app.VisibleStatus{
				Status: app.PuppetStatus{
					Username:       p.Info.Username,
					Server:         p.Info.Server,
					Connected:      s.connected(ctx, p),
					AttackWarnings: p.Services.AttackListener.Enabled,
				},
				Visibility: p.Visibility,
			}
			return nil
		})
	}
	err := g.Wait()
	return statuses, err
}

// connected asks the API server whether the puppet's game connection is up.
// Returns nil when the state cannot be determined.
func (s StatusMonitor) connected(ctx context.Context, p config.Player) *bool {
	reqCtx, cancel := context.WithTimeout(ctx, StatusRequestTimeout)
	defer cancel()
	payload, err := s.comm.Request(reqCtx, app.CommRequest{
		Username: p.Info.Username,
		Password: p.Info.Password,
		Server:   p.Info.Server,
		Command:  app.CommandInfo,
		Args:     map[string]interface{}{"name": "connected"},
	})
	if err != nil {
		return nil
	}
	// A pointer target keeps a JSON null distinct from false.
	var connected *bool
	if json.Unmarshal(payload, &connected) != nil {
		return nil
	}
	return connected
}
