package advisor

import (
	"context"

	"github.com/upgradepilot-io/upgradepilot/internal/advisor/server"
	"github.com/upgradepilot-io/upgradepilot/pkg/log"
)

// AdvisorServer is the main application struct for the advisor.
type AdvisorServer struct {
	serverManager *server.Manager
}

// Run starts the application components and blocks until the context is
// cancelled or a server fails.
func (a *AdvisorServer) Run(ctx context.Context) error {
	log.Info("Starting UpgradePilot Advisor...")
	return a.serverManager.Start(ctx)
}
