package handler

import (
	"github.com/MKhiriev/ssdm-gateway/internal/config"
	"github.com/MKhiriev/ssdm-gateway/internal/handler/grpc"
	"github.com/MKhiriev/ssdm-gateway/internal/handler/http"
	"github.com/MKhiriev/ssdm-gateway/internal/logger"
	"github.com/MKhiriev/ssdm-gateway/internal/metrics"
	"github.com/MKhiriev/ssdm-gateway/internal/service"
	"github.com/prometheus/client_golang/prometheus"
)

type Handlers struct {
	HTTP *http.Handler
	GRPC *grpc.Handler
}

// NewHandlers creates a transport handler for every configured address. The
// gatherer backs /metrics and may be nil.
func NewHandlers(services *service.Services, cfg *config.StructuredConfig, m *metrics.Metrics, gatherer prometheus.Gatherer, logger *logger.Logger) (*Handlers, error) {
	logger.Info().Msg("creating new handlers...")

	handlers := &Handlers{}

	if cfg.Server.HTTPAddress != "" {
		handlers.HTTP = http.NewHandler(services, cfg.App, m, gatherer, logger)
	}
	if cfg.Server.GRPCAddress != "" {
		handlers.GRPC = grpc.NewHandler(logger)
	}

	if handlers.HTTP == nil && handlers.GRPC == nil {
		return nil, errNoHandlersAreCreated
	}

	return handlers, nil
}
