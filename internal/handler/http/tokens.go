package http

import (
	"net/http"

	"github.com/MKhiriev/ssdm-gateway/internal/logger"
	"github.com/MKhiriev/ssdm-gateway/internal/utils"
	"github.com/MKhiriev/ssdm-gateway/models"
)

func (h *Handler) issueMallSessionToken(w http.ResponseWriter, r *http.Request) {
	mallID, err := mallIDFromRequest(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var request models.JWTRequest
	if err = utils.DecodeJSON(r, &request); err != nil {
		logger.FromRequest(r).Err(err).Msg("invalid JSON was passed")
		http.Error(w, "invalid JSON was passed", http.StatusBadRequest)
		return
	}

	response, err := h.services.DelegationService.IssueMallSession(r.Context(), mallID, request)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, response, http.StatusOK)
}

func (h *Handler) delegate(w http.ResponseWriter, r *http.Request) {
	mallID, err := mallIDFromRequest(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var request models.DelegationRequest
	if err = utils.DecodeJSON(r, &request); err != nil {
		logger.FromRequest(r).Err(err).Msg("invalid JSON was passed")
		http.Error(w, "invalid JSON was passed", http.StatusBadRequest)
		return
	}

	response, err := h.services.DelegationService.Delegate(r.Context(), mallID, request)
	if err != nil {
		writeError(w, r, err)
		return
	}

	logger.FromRequest(r).Info().Str("mall_id", mallID).Str("shop_id", request.ShopID).Msg("delegate token issued")
	utils.WriteJSON(w, response, http.StatusCreated)
}

func (h *Handler) delegateKey(w http.ResponseWriter, r *http.Request) {
	key, err := h.services.TokenService.DelegatePublicKey()
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/x-pem-file")
	w.Header().Set("Cache-Control", "public, max-age=300")
	w.Write(key)
}
