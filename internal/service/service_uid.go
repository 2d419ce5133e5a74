package service

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/ssdm-gateway/internal/logger"
	"github.com/MKhiriev/ssdm-gateway/internal/store"
	"github.com/MKhiriev/ssdm-gateway/models"
)

type uidService struct {
	uids *store.Repository[models.UIDMapping]

	now    func() time.Time
	logger *logger.Logger
}

func NewUIDService(storages *store.Storages, logger *logger.Logger) UIDService {
	return &uidService{
		uids:   storages.UIDs,
		now:    time.Now,
		logger: logger,
	}
}

// GetOrCreateUID returns the mapping of (mallID, externalUserID), creating
// it on first sight. The candidate uid is written with an atomic
// create-if-absent, so concurrent first calls converge on a single stored
// mapping and only one of them reports isNew.
func (s *uidService) GetOrCreateUID(ctx context.Context, mallID, externalUserID string) (models.UIDMapping, bool, error) {
	candidate := models.UIDMapping{
		MallID:         mallID,
		ExternalUserID: externalUserID,
		InternalUID:    newUID(mallID),
		CreatedAt:      s.now().UTC(),
		IsActive:       true,
	}

	mapping, created, err := s.uids.GetOrCreate(ctx, store.JoinKey(mallID, externalUserID), candidate)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "uidService.GetOrCreateUID").Str("mall_id", mallID).Msg("error resolving uid")
		return models.UIDMapping{}, false, fmt.Errorf("error resolving uid: %w", storeError(err))
	}

	return mapping, created, nil
}
