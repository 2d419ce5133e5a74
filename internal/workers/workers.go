package workers

import (
	"context"

	"github.com/MKhiriev/ssdm-gateway/internal/config"
	"github.com/MKhiriev/ssdm-gateway/internal/logger"
	"github.com/MKhiriev/ssdm-gateway/internal/metrics"
	"github.com/MKhiriev/ssdm-gateway/internal/service"
	"golang.org/x/sync/errgroup"
)

type Workers struct {
	workers []Worker
}

// NewWorkers creates the workers enabled in cfg; a zero interval disables a
// worker. reporter may be nil when no transport publishes health.
func NewWorkers(services *service.Services, store Pinger, reporter StatusReporter, cfg config.Workers, m *metrics.Metrics, logger *logger.Logger) *Workers {
	w := &Workers{}

	if cfg.JanitorInterval > 0 {
		w.workers = append(w.workers, NewJanitor(services.ConsentService, services.SessionService, cfg.JanitorInterval, m, logger))
	}
	if cfg.HealthProbeInterval > 0 {
		w.workers = append(w.workers, NewHealthProbe(store, reporter, cfg.HealthProbeInterval, m, logger))
	}

	logger.Info().Int("count", len(w.workers)).Msg("workers created")
	return w
}

// Run starts every worker and blocks until all of them returned. The first
// error cancels the others and is returned.
func (w *Workers) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, worker := range w.workers {
		g.Go(func() error {
			return worker.Run(ctx)
		})
	}
	return g.Wait()
}
