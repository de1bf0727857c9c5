// Package poller keeps the appliance-list cache warm so the first request
// after startup does not pay the upstream round trip.
package poller

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

const defaultInterval = 5 * time.Minute

// Refresher re-fetches upstream data into the cache. Implemented by the
// appliance service.
type Refresher interface {
	RefreshAppliances(ctx context.Context) error
}

// AppliancePoller refreshes the appliance list once at startup and then on a
// fixed interval until its context is cancelled. Refresh failures are logged
// and retried at the next tick; they never stop the poller.
type AppliancePoller struct {
	refresher Refresher
	interval  time.Duration
	log       zerolog.Logger
}

// New creates a poller. An interval <= 0 falls back to defaultInterval.
func New(refresher Refresher, interval time.Duration, log zerolog.Logger) *AppliancePoller {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &AppliancePoller{refresher: refresher, interval: interval, log: log}
}

// Start launches the polling goroutine. It returns immediately.
func (p *AppliancePoller) Start(ctx context.Context) {
	go p.run(ctx)
}

func (p *AppliancePoller) run(ctx context.Context) {
	p.refresh(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.log.Debug().Msg("appliance poller stopped")
			return
		case <-ticker.C:
			p.refresh(ctx)
		}
	}
}

func (p *AppliancePoller) refresh(ctx context.Context) {
	if err := p.refresher.RefreshAppliances(ctx); err != nil {
		p.log.Warn().Err(err).Msg("appliance list refresh failed")
		return
	}
	p.log.Debug().Msg("appliance list refreshed")
}
