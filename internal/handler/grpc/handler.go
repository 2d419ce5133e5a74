// Package grpc exposes the broker's gRPC surface: the standard
// grpc.health.v1.Health service, whose status follows the store health probe.
package grpc

import (
	"github.com/MKhiriev/ssdm-gateway/internal/logger"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the health service name reported next to the overall ("")
// status.
const ServiceName = "ssdm.Gateway"

// Handler is the root gRPC transport handler.
//
// It owns the health server and is created once at startup. The store health
// probe flips its status through [Handler.SetServing]; until the first probe
// runs the broker reports NOT_SERVING.
type Handler struct {
	health *health.Server

	logger *logger.Logger
}

// NewHandler constructs a [Handler] reporting NOT_SERVING.
func NewHandler(logger *logger.Logger) *Handler {
	h := &Handler{
		health: health.NewServer(),
		logger: logger,
	}
	h.setStatus(healthpb.HealthCheckResponse_NOT_SERVING)

	logger.Debug().Msg("gRPC handler created")
	return h
}

// Register attaches the handler's services to s.
func (h *Handler) Register(s *grpc.Server) {
	healthpb.RegisterHealthServer(s, h.health)
}

// SetServing reports the broker as SERVING or NOT_SERVING.
func (h *Handler) SetServing(serving bool) {
	if serving {
		h.setStatus(healthpb.HealthCheckResponse_SERVING)
		return
	}
	h.setStatus(healthpb.HealthCheckResponse_NOT_SERVING)
}

// Shutdown marks every service NOT_SERVING and ignores later updates, so
// watchers learn about the stop before connections drain.
func (h *Handler) Shutdown() {
	h.logger.Info().Msg("gRPC health switched to NOT_SERVING for shutdown")
	h.health.Shutdown()
}

func (h *Handler) setStatus(status healthpb.HealthCheckResponse_ServingStatus) {
	h.health.SetServingStatus("", status)
	h.health.SetServingStatus(ServiceName, status)
}
