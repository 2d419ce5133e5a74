package http

import (
	"net/http"

	"github.com/MKhiriev/ssdm-gateway/internal/logger"
	"github.com/MKhiriev/ssdm-gateway/internal/utils"
	"github.com/MKhiriev/ssdm-gateway/models"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) createUID(w http.ResponseWriter, r *http.Request) {
	mallID, err := mallIDFromRequest(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var request models.UIDRequest
	if err = utils.DecodeJSON(r, &request); err != nil {
		logger.FromRequest(r).Err(err).Msg("invalid JSON was passed")
		http.Error(w, "invalid JSON was passed", http.StatusBadRequest)
		return
	}

	mapping, isNew, err := h.services.UIDService.GetOrCreateUID(r.Context(), mallID, request.ExternalUserID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	status := http.StatusOK
	if isNew {
		status = http.StatusCreated
	}
	utils.WriteJSON(w, models.UIDResponse{UID: mapping.InternalUID, IsNew: isNew}, status)
}

// sealPersonalData stores the contact data of one of the mall's own uids.
func (h *Handler) sealPersonalData(w http.ResponseWriter, r *http.Request) {
	mallID, err := mallIDFromRequest(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var data models.PersonalData
	if err = utils.DecodeJSON(r, &data); err != nil {
		logger.FromRequest(r).Err(err).Msg("invalid JSON was passed")
		http.Error(w, "invalid JSON was passed", http.StatusBadRequest)
		return
	}

	if _, err = h.services.VaultService.Seal(r.Context(), mallID, chi.URLParam(r, "uid"), data); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
