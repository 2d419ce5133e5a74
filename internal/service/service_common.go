package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/MKhiriev/ssdm-gateway/internal/store"
	"github.com/google/uuid"
)

// storeError translates record store sentinels into service sentinels while
// keeping the original error in the chain.
func storeError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.Is(err, store.ErrAlreadyExists):
		return fmt.Errorf("%w: %w", ErrConflict, err)
	default:
		return err
	}
}

// newUID builds an internal uid of the form {mallId}-{uuidv4}.
func newUID(mallID string) string {
	return mallID + "-" + uuid.NewString()
}

// uidBelongsTo reports whether uid was minted for mallID. The remainder after
// the mall prefix must be a canonical uuid, so "shop-a-<uuid>" never matches
// the mall "shop".
func uidBelongsTo(uid, mallID string) bool {
	rest, ok := strings.CutPrefix(uid, mallID+"-")
	if !ok || len(rest) != 36 {
		return false
	}
	_, err := uuid.Parse(rest)
	return err == nil
}
