package http

import (
	"net/http"

	"github.com/MKhiriev/ssdm-gateway/internal/logger"
	"github.com/MKhiriev/ssdm-gateway/internal/utils"
	"github.com/go-chi/cors"
)

const corsMaxAge = 600

// corsOptions is shared by every tier; only the origin policy differs.
// Preflights pass through to the explicit OPTIONS routes.
func corsOptions() cors.Options {
	return cors.Options{
		AllowedMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:     []string{"Authorization", "Content-Type", "X-Trace-ID"},
		ExposedHeaders:     []string{"X-Trace-ID"},
		MaxAge:             corsMaxAge,
		OptionsPassthrough: true,
	}
}

// withPermissiveCORS allows any origin. It is used for public material and
// for the consent preflight, which never carries credentials.
var withPermissiveCORS = func() func(http.Handler) http.Handler {
	opts := corsOptions()
	opts.AllowedOrigins = []string{"*"}
	return cors.Handler(opts)
}()

// partnerCORS pins the session routes to the configured partner origin.
// Without one every origin is refused and browsers block cross-origin use.
func partnerCORS(partnerOrigin string) func(http.Handler) http.Handler {
	opts := corsOptions()
	if partnerOrigin != "" {
		opts.AllowedOrigins = []string{partnerOrigin}
	} else {
		opts.AllowOriginFunc = func(*http.Request, string) bool { return false }
	}
	return cors.Handler(opts)
}

// mallCORS echoes the request origin only when it is one of the
// authenticated mall's allowed domains. It must run after apiKeyAuth.
func (h *Handler) mallCORS() func(http.Handler) http.Handler {
	opts := corsOptions()
	opts.AllowOriginFunc = h.isMallOrigin
	return cors.Handler(opts)
}

func (h *Handler) isMallOrigin(r *http.Request, origin string) bool {
	mallID, ok := utils.GetMallIDFromContext(r.Context())
	if !ok {
		return false
	}

	allowed, err := h.services.MallService.ValidateDomain(r.Context(), mallID, origin)
	if err != nil {
		logger.FromRequest(r).Err(err).Str("func", "*Handler.isMallOrigin").Msg("error validating origin")
		return false
	}
	if !allowed {
		logger.FromRequest(r).Warn().Str("origin", origin).Str("mall_id", mallID).Msg("origin is not an allowed domain")
	}
	return allowed
}

func preflight(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}
