package http

import (
	"net/http"

	"github.com/MKhiriev/ssdm-gateway/internal/logger"
	"github.com/MKhiriev/ssdm-gateway/internal/utils"
	"github.com/MKhiriev/ssdm-gateway/models"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) sessionResponse(session models.ViewerSession) models.SessionResponse {
	return models.SessionResponse{
		SessionID:     session.SessionID,
		ViewerURL:     h.services.SessionService.ViewerURL(session.SessionID),
		AllowedFields: session.AllowedFields,
		ExpiresAt:     session.ExpiresAt,
		Capabilities:  models.CapabilitiesFor(session.SessionType),
	}
}

// requestSession opens a viewer session for a mall-session token.
func (h *Handler) requestSession(w http.ResponseWriter, r *http.Request) {
	var request models.SessionRequest
	if err := utils.DecodeJSON(r, &request); err != nil {
		logger.FromRequest(r).Err(err).Msg("invalid JSON was passed")
		http.Error(w, "invalid JSON was passed", http.StatusBadRequest)
		return
	}

	session, err := h.services.SessionService.RequestSession(r.Context(), request)
	if err != nil {
		writeError(w, r, err)
		return
	}

	logger.FromRequest(r).Info().
		Str("mall_id", session.MallID).
		Str("session_type", string(session.SessionType)).
		Msg("viewer session opened")
	utils.WriteJSON(w, h.sessionResponse(session), http.StatusCreated)
}

// requestDelegatedSession opens a viewer session for a delegate token, given
// directly or nested in a partner token. Each delegate token opens at most
// one session.
func (h *Handler) requestDelegatedSession(w http.ResponseWriter, r *http.Request) {
	var request models.DelegatedSessionRequest
	if err := utils.DecodeJSON(r, &request); err != nil {
		logger.FromRequest(r).Err(err).Msg("invalid JSON was passed")
		http.Error(w, "invalid JSON was passed", http.StatusBadRequest)
		return
	}

	session, err := h.services.SessionService.RequestDelegatedSession(r.Context(), request)
	if err != nil {
		writeError(w, r, err)
		return
	}

	logger.FromRequest(r).Info().
		Str("mall_id", session.MallID).
		Str("shop_id", session.ShopID).
		Msg("delegated viewer session opened")
	utils.WriteJSON(w, h.sessionResponse(session), http.StatusCreated)
}

func (h *Handler) sessionStatus(w http.ResponseWriter, r *http.Request) {
	session, err := h.services.SessionService.Resolve(r.Context(), chi.URLParam(r, "sessionId"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, models.SessionStatus{
		SessionID:           session.SessionID,
		SessionType:         session.SessionType,
		AllowedFields:       session.AllowedFields,
		ExpiresAt:           session.ExpiresAt,
		Extensions:          session.Extensions,
		RemainingExtensions: session.RemainingExtensions(),
		Active:              session.IsActive,
		Capabilities:        models.CapabilitiesFor(session.SessionType),
	}, http.StatusOK)
}

func (h *Handler) revokeSession(w http.ResponseWriter, r *http.Request) {
	if err := h.services.SessionService.Revoke(r.Context(), chi.URLParam(r, "sessionId")); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) extendSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.services.SessionService.Extend(r.Context(), chi.URLParam(r, "sessionId"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, models.ExtendResponse{
		NewExpiresAt:        session.ExpiresAt,
		ExtensionCount:      session.Extensions,
		RemainingExtensions: session.RemainingExtensions(),
	}, http.StatusOK)
}

// readSessionData discloses the session owner's data, limited to the
// session's allowed fields. Responses are never cached.
func (h *Handler) readSessionData(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	session, err := h.services.SessionService.Resolve(ctx, chi.URLParam(r, "sessionId"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	data, err := h.services.VaultService.Read(ctx, session)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	utils.WriteJSON(w, models.DisclosureResponse{
		UserData:      data,
		AllowedFields: session.AllowedFields,
	}, http.StatusOK)
}
