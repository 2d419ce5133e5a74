package http

import (
	"github.com/MKhiriev/ssdm-gateway/internal/config"
	"github.com/MKhiriev/ssdm-gateway/internal/logger"
	"github.com/MKhiriev/ssdm-gateway/internal/metrics"
	"github.com/MKhiriev/ssdm-gateway/internal/service"
	"github.com/prometheus/client_golang/prometheus"
)

type Handler struct {
	services *service.Services

	// adminToken guards the mall administration routes.
	adminToken string

	// partnerOrigin is the only CORS origin of the session routes.
	partnerOrigin string

	metrics  *metrics.Metrics
	gatherer prometheus.Gatherer

	logger *logger.Logger
}

// NewHandler builds the HTTP handler. A nil gatherer leaves /metrics
// unregistered.
func NewHandler(services *service.Services, cfg config.App, m *metrics.Metrics, gatherer prometheus.Gatherer, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services:      services,
		adminToken:    cfg.AdminToken,
		partnerOrigin: cfg.PartnerOrigin,
		metrics:       m,
		gatherer:      gatherer,
		logger:        logger,
	}
}
