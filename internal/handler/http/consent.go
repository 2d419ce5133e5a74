package http

import (
	"net/http"

	"github.com/MKhiriev/ssdm-gateway/internal/logger"
	"github.com/MKhiriev/ssdm-gateway/internal/utils"
	"github.com/MKhiriev/ssdm-gateway/models"
)

// consentMallID returns the authenticated mall, rejecting a request that
// explicitly names another one.
func consentMallID(r *http.Request, explicit string) (string, error) {
	mallID, err := mallIDFromRequest(r)
	if err != nil {
		return "", err
	}
	if explicit != "" && explicit != mallID {
		return "", forbidden(ErrMallMismatch)
	}
	return mallID, nil
}

func (h *Handler) saveConsent(w http.ResponseWriter, r *http.Request) {
	var request models.ConsentRequest
	if err := utils.DecodeJSON(r, &request); err != nil {
		logger.FromRequest(r).Err(err).Msg("invalid JSON was passed")
		http.Error(w, "invalid JSON was passed", http.StatusBadRequest)
		return
	}

	mallID, err := consentMallID(r, request.MallID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	consent, err := h.services.ConsentService.Save(r.Context(), request.UID, mallID, request.ShopID, request.ConsentType)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, consent, http.StatusOK)
}

func (h *Handler) checkConsent(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	mallID, err := consentMallID(r, query.Get("mallId"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	state, err := h.services.ConsentService.Check(r.Context(), query.Get("uid"), mallID, query.Get("shopId"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, state, http.StatusOK)
}

func (h *Handler) revokeConsent(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	mallID, err := consentMallID(r, query.Get("mallId"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err = h.services.ConsentService.Revoke(r.Context(), query.Get("uid"), mallID, query.Get("shopId")); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
