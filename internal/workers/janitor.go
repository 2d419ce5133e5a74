package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/ssdm-gateway/internal/logger"
	"github.com/MKhiriev/ssdm-gateway/internal/metrics"
)

// Record kinds reported by the janitor.
const (
	KindConsent = "consent"
	KindSession = "session"
)

// Janitor periodically purges expired consents, unusable sessions and spent
// delegation markers. Reads already treat such records as absent, so it
// only keeps the store from growing.
type Janitor struct {
	consents Purger
	sessions Purger
	interval time.Duration

	metrics *metrics.Metrics
	logger  *logger.Logger
}

func NewJanitor(consents, sessions Purger, interval time.Duration, m *metrics.Metrics, logger *logger.Logger) *Janitor {
	return &Janitor{
		consents: consents,
		sessions: sessions,
		interval: interval,
		metrics:  m,
		logger:   logger,
	}
}

// Run sweeps every interval until ctx is cancelled. A failed sweep is logged
// and retried on the next tick.
func (j *Janitor) Run(ctx context.Context) error {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			j.Sweep(ctx)
		case <-ctx.Done():
			return nil
		}
	}
}

// Sweep runs one purge pass over every record kind.
func (j *Janitor) Sweep(ctx context.Context) {
	j.purge(ctx, KindConsent, j.consents)
	j.purge(ctx, KindSession, j.sessions)
}

func (j *Janitor) purge(ctx context.Context, kind string, p Purger) {
	n, err := p.PurgeExpired(ctx)
	j.metrics.AddPurged(kind, n)
	if err != nil {
		j.logger.Err(err).Str("func", "Janitor.purge").Str("kind", kind).Int("purged", n).Msg("purge failed")
		return
	}
	if n > 0 {
		j.logger.Info().Str("kind", kind).Int("purged", n).Msg("expired records purged")
	}
}
