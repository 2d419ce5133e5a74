package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/MKhiriev/ssdm-gateway/internal/logger"
	"github.com/MKhiriev/ssdm-gateway/internal/service"
)

type errorStatus struct {
	target error
	status int
}

// errorStatuses is ordered: the first matching target decides the status, so
// specific errors precede the generic ones they wrap.
var errorStatuses = []errorStatus{
	{target: service.ErrDecryptionFailed, status: http.StatusInternalServerError},
	{target: service.ErrIntegrityMismatch, status: http.StatusInternalServerError},

	{target: service.ErrMalformedToken, status: http.StatusBadRequest},
	{target: service.ErrTokenExpired, status: http.StatusUnauthorized},
	{target: service.ErrSessionExpired, status: http.StatusGone},
	{target: service.ErrExtensionLimitReached, status: http.StatusBadRequest},
	{target: service.ErrDelegationAlreadyUsed, status: http.StatusForbidden},

	{target: service.ErrInvalidInput, status: http.StatusBadRequest},
	{target: service.ErrUnauthorized, status: http.StatusUnauthorized},
	{target: service.ErrForbidden, status: http.StatusForbidden},
	{target: service.ErrNotFound, status: http.StatusNotFound},
	{target: service.ErrConflict, status: http.StatusConflict},
	{target: service.ErrExpired, status: http.StatusUnauthorized},
}

// statusFromError returns the status of the first matching entry and the
// message that is safe to show the caller.
func statusFromError(err error) (int, string) {
	for _, e := range errorStatuses {
		if !errors.Is(err, e.target) {
			continue
		}
		switch {
		case e.status == http.StatusInternalServerError:
			return e.status, http.StatusText(e.status)
		case e.target == service.ErrInvalidInput:
			// validator messages name the offending field
			return e.status, err.Error()
		default:
			return e.status, e.target.Error()
		}
	}
	return http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)
}

// writeError logs err and answers with its mapped status. Server side
// failures are logged at error level, caller mistakes at warn.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromRequest(r)

	status, message := statusFromError(err)
	if status >= http.StatusInternalServerError {
		log.Err(err).Int("status", status).Msg("request failed")
	} else {
		log.Warn().Err(err).Int("status", status).Msg("request rejected")
	}

	http.Error(w, message, status)
}

// forbidden marks a transport level rejection as [service.ErrForbidden].
func forbidden(err error) error {
	return fmt.Errorf("%w: %w", service.ErrForbidden, err)
}
