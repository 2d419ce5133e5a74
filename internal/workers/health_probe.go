package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/ssdm-gateway/internal/logger"
	"github.com/MKhiriev/ssdm-gateway/internal/metrics"
)

const maxProbeTimeout = 2 * time.Second

// HealthProbe pings the store and publishes the result to the gRPC health
// service and the ssdm_store_up gauge.
type HealthProbe struct {
	store    Pinger
	reporter StatusReporter
	interval time.Duration

	metrics *metrics.Metrics
	logger  *logger.Logger

	// up is the last published result; transitions are logged.
	up *bool
}

func NewHealthProbe(store Pinger, reporter StatusReporter, interval time.Duration, m *metrics.Metrics, logger *logger.Logger) *HealthProbe {
	return &HealthProbe{
		store:    store,
		reporter: reporter,
		interval: interval,
		metrics:  m,
		logger:   logger,
	}
}

// Run probes once immediately and then every interval until ctx is
// cancelled.
func (p *HealthProbe) Run(ctx context.Context) error {
	p.Probe(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.Probe(ctx)
		case <-ctx.Done():
			return nil
		}
	}
}

// Probe pings the store once and publishes the result.
func (p *HealthProbe) Probe(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, min(p.interval, maxProbeTimeout))
	defer cancel()

	err := p.store.Ping(ctx)
	up := err == nil

	if p.up == nil || *p.up != up {
		if up {
			p.logger.Info().Msg("store is reachable")
		} else {
			p.logger.Err(err).Str("func", "HealthProbe.Probe").Msg("store is unreachable")
		}
	}
	p.up = &up

	p.metrics.SetStoreUp(up)
	if p.reporter != nil {
		p.reporter.SetServing(up)
	}
	return up
}
