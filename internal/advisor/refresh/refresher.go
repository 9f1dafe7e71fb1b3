// Package refresh drives the periodic snapshot refresh loop. The loop's
// lifecycle is modelled as a small state machine so that readiness
// probes and logs can tell an advisor that has never refreshed apart
// from one that is serving stale data.
package refresh

import (
	"context"
	"time"

	"github.com/looplab/fsm"

	"github.com/upgradepilot-io/upgradepilot/internal/advisor/core/service"
	fsmutil "github.com/upgradepilot-io/upgradepilot/internal/pkg/util/fsm"
	"github.com/upgradepilot-io/upgradepilot/pkg/log"
)

const (
	// StateIdle: no refresh has been attempted yet.
	StateIdle = "idle"
	// StateCollecting: a refresh is in flight.
	StateCollecting = "collecting"
	// StateReady: the last refresh succeeded and a bundle is being served.
	StateReady = "ready"
	// StateDegraded: the last refresh failed; any previous bundle is
	// still served.
	StateDegraded = "degraded"
)

const (
	EventCollect = "event_collect"
	EventSuccess = "event_success"
	EventFail    = "event_fail"
)

// Refresher periodically refreshes the advisor service's bundle.
type Refresher struct {
	machine  *fsm.FSM
	service  *service.Service
	interval time.Duration
}

// New creates a refresher driving the given service at the given
// interval.
func New(svc *service.Service, interval time.Duration) *Refresher {
	r := &Refresher{
		service:  svc,
		interval: interval,
	}

	events := fsm.Events{
		{Name: EventCollect, Src: []string{StateIdle, StateReady, StateDegraded}, Dst: StateCollecting},
		{Name: EventSuccess, Src: []string{StateCollecting}, Dst: StateReady},
		{Name: EventFail, Src: []string{StateCollecting}, Dst: StateDegraded},
	}

	callbacks := fsm.Callbacks{
		"enter_" + StateDegraded: fsmutil.WrapEvent(r.actionEnterDegraded),
	}

	r.machine = fsm.NewFSM(StateIdle, events, callbacks)
	return r
}

func (r *Refresher) actionEnterDegraded(_ context.Context, e *fsm.Event) error {
	if len(e.Args) > 0 {
		if err, ok := e.Args[0].(error); ok {
			log.Error(err, "snapshot refresh failed; serving stale bundle")
		}
	}
	return nil
}

// State reports the current loop state.
func (r *Refresher) State() string {
	return r.machine.Current()
}

// Ready reports whether a bundle from a successful refresh is being
// served. A degraded loop still counts as ready once a bundle exists.
func (r *Refresher) Ready() bool {
	return r.service.Bundle() != nil
}

// Start runs the refresh loop until the context is cancelled: one
// immediate refresh, then one per interval. It implements the server
// manager's start contract and only returns on context cancellation.
func (r *Refresher) Start(ctx context.Context) error {
	log.Info("starting refresh loop", "interval", r.interval)

	r.refreshOnce(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("refresh loop stopped")
			return nil
		case <-ticker.C:
			r.refreshOnce(ctx)
		}
	}
}

func (r *Refresher) refreshOnce(ctx context.Context) {
	if err := r.machine.Event(ctx, EventCollect); err != nil {
		log.Warn("refresh skipped", "state", r.machine.Current(), "error", err)
		return
	}

	if err := r.service.Refresh(ctx); err != nil {
		_ = r.machine.Event(ctx, EventFail, err)
		return
	}
	_ = r.machine.Event(ctx, EventSuccess)
}
