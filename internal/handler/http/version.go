package http

import (
	"net/http"

	"github.com/MKhiriev/ssdm-gateway/internal/logger"
)

func (h *Handler) getServerVersion(w http.ResponseWriter, r *http.Request) {
	serverVersion := h.services.AppInfoService.GetAppVersion(r.Context())

	w.Header().Set("Content-Type", "text/plain")
	w.Write([]byte(serverVersion))
}

// healthz reports liveness. It does not touch the store; store health is
// published through the gRPC health service and the ssdm_store_up gauge.
func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	logger.FromRequest(r).Debug().Msg("health check")

	w.Header().Set("Content-Type", "text/plain")
	w.Write([]byte("ok"))
}
