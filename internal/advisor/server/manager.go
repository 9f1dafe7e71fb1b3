package server

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/upgradepilot-io/upgradepilot/pkg/log"
)

// Server defines the common interface for all long-running parts of the
// advisor (http server, refresh loop).
type Server interface {
	Start(ctx context.Context) error
}

// Manager manages the lifecycle of all servers.
type Manager struct {
	servers []Server
}

// NewManager creates a manager over the given servers.
func NewManager(servers ...Server) *Manager {
	return &Manager{servers: servers}
}

// Start launches all servers in parallel and waits for termination. The
// first server error cancels the rest through the shared context.
func (m *Manager) Start(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	for _, s := range m.servers {
		srv := s // capture loop variable
		g.Go(func() error {
			return srv.Start(ctx)
		})
	}

	log.Info("All servers starting...")
	return g.Wait()
}
