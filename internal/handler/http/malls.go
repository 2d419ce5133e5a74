package http

import (
	"net/http"

	"github.com/MKhiriev/ssdm-gateway/internal/logger"
	"github.com/MKhiriev/ssdm-gateway/internal/utils"
	"github.com/MKhiriev/ssdm-gateway/models"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) registerMall(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var registration models.MallRegistration
	if err := utils.DecodeJSON(r, &registration); err != nil {
		log.Err(err).Msg("invalid JSON was passed")
		http.Error(w, "invalid JSON was passed", http.StatusBadRequest)
		return
	}

	issued, err := h.services.MallService.Register(r.Context(), registration)
	if err != nil {
		writeError(w, r, err)
		return
	}

	log.Info().Str("mall_id", issued.MallID).Msg("mall registered")
	utils.WriteJSON(w, issued, http.StatusCreated)
}

// getMall returns the mall without its key hash.
func (h *Handler) getMall(w http.ResponseWriter, r *http.Request) {
	mall, err := h.services.MallService.GetMall(r.Context(), chi.URLParam(r, "mallId"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	mall.APIKeyHash = ""
	utils.WriteJSON(w, mall, http.StatusOK)
}

func (h *Handler) reissueAPIKey(w http.ResponseWriter, r *http.Request) {
	mallID := chi.URLParam(r, "mallId")

	issued, err := h.services.MallService.Reissue(r.Context(), mallID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	logger.FromRequest(r).Info().Str("mall_id", mallID).Msg("api key reissued")
	utils.WriteJSON(w, issued, http.StatusOK)
}

func (h *Handler) deactivateMall(w http.ResponseWriter, r *http.Request) {
	mallID := chi.URLParam(r, "mallId")

	if err := h.services.MallService.Deactivate(r.Context(), mallID); err != nil {
		writeError(w, r, err)
		return
	}

	logger.FromRequest(r).Info().Str("mall_id", mallID).Msg("mall deactivated")
	w.WriteHeader(http.StatusNoContent)
}
