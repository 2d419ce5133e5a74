package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(h.withTraceID, h.withLogging, h.withMetrics, middleware.Recoverer, withGZip)

	// operational routes
	router.Get("/healthz", h.healthz)
	router.Get("/api/version", h.getServerVersion)
	if h.gatherer != nil {
		router.Handle("/metrics", promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{DisableCompression: true}))
	}

	// public key for partners verifying delegate tokens
	router.Group(func(r chi.Router) {
		r.Use(withPermissiveCORS)
		r.Get("/.well-known/delegate-key", h.delegateKey)
		r.Options("/.well-known/delegate-key", preflight)
	})

	// mall administration
	router.Group(func(r chi.Router) {
		r.Use(h.adminAuth)
		r.Post("/malls", h.registerMall)
		r.Get("/malls/{mallId}", h.getMall)
		r.Post("/malls/{mallId}/reissue", h.reissueAPIKey)
		r.Post("/malls/{mallId}/deactivate", h.deactivateMall)
	})

	// consent preflight carries no credentials
	router.With(withPermissiveCORS).Options("/consent", preflight)

	// routes authorized by a mall API key
	router.Group(func(r chi.Router) {
		r.Use(h.apiKeyAuth)
		r.Post("/uids", h.createUID)
		r.Put("/uids/{uid}/data", h.sealPersonalData)
		r.Post("/jwt", h.issueMallSessionToken)
		r.Post("/delegations", h.delegate)

		r.Group(func(r chi.Router) {
			r.Use(h.mallCORS())
			r.Post("/consent", h.saveConsent)
			r.Get("/consent", h.checkConsent)
			r.Delete("/consent", h.revokeConsent)
		})
	})

	// partner facing session routes, authorized by a token or a session id
	router.Group(func(r chi.Router) {
		r.Use(partnerCORS(h.partnerOrigin))
		r.Post("/sessions", h.requestSession)
		r.Post("/sessions/delegated", h.requestDelegatedSession)
		r.Get("/sessions/{sessionId}", h.sessionStatus)
		r.Delete("/sessions/{sessionId}", h.revokeSession)
		r.Post("/sessions/{sessionId}/extend", h.extendSession)
		r.Post("/sessions/{sessionId}/data", h.readSessionData)

		for _, pattern := range []string{
			"/sessions",
			"/sessions/delegated",
			"/sessions/{sessionId}",
			"/sessions/{sessionId}/extend",
			"/sessions/{sessionId}/data",
		} {
			r.Options(pattern, preflight)
		}
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
