// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/ssdm-gateway/internal/logger"
	"github.com/MKhiriev/ssdm-gateway/models"
)

// delegationService issues tokens on behalf of an authenticated mall. It
// depends on the registry for field policy, on the consent store for the
// delegation precondition and on the uid mapping for mall-session tokens.
type delegationService struct {
	malls    MallService
	uids     UIDService
	consents ConsentService
	tokens   TokenService

	logger *logger.Logger
}

func NewDelegationService(malls MallService, uids UIDService, consents ConsentService, tokens TokenService, logger *logger.Logger) DelegationService {
	return &delegationService{
		malls:    malls,
		uids:     uids,
		consents: consents,
		tokens:   tokens,
		logger:   logger,
	}
}

// IssueMallSession resolves the uid of the external user and signs a
// mall-session token for it.
func (d *delegationService) IssueMallSession(ctx context.Context, mallID string, request models.JWTRequest) (models.JWTResponse, error) {
	mapping, _, err := d.uids.GetOrCreateUID(ctx, mallID, request.ExternalUserID)
	if err != nil {
		return models.JWTResponse{}, err
	}

	token, err := d.tokens.IssueMallSession(ctx, mapping.InternalUID, mallID, request.SessionType)
	if err != nil {
		return models.JWTResponse{}, err
	}

	return models.JWTResponse{
		JWT:         token.SignedString,
		ExpiresIn:   token.ExpiresIn,
		SessionType: request.SessionType,
	}, nil
}

// Delegate issues a delegate token for a delivery partner and wraps it in a
// partner token.
//
// The uid must belong to the calling mall. An active consent for
// (uid, mall, shop) is required unless the request itself carries a consent
// affirmation, which is recorded first. The delegated field set is the
// request's fields intersected with the mall's allowed fields; an empty
// intersection is ErrForbidden.
func (d *delegationService) Delegate(ctx context.Context, mallID string, request models.DelegationRequest) (models.DelegationResponse, error) {
	log := logger.FromContext(ctx)

	if !uidBelongsTo(request.UID, mallID) {
		log.Info().Str("func", "delegationService.Delegate").Str("mall_id", mallID).Msg("uid of another mall")
		return models.DelegationResponse{}, fmt.Errorf("%w: uid does not belong to mall", ErrForbidden)
	}

	mall, err := d.malls.GetMall(ctx, mallID)
	if err != nil {
		return models.DelegationResponse{}, err
	}

	fields := models.NewFieldSet(request.Fields...).Intersect(mall.AllowedFields)
	if len(fields) == 0 {
		return models.DelegationResponse{}, fmt.Errorf("%w: no delegable fields", ErrForbidden)
	}

	if err = d.requireConsent(ctx, mallID, request); err != nil {
		return models.DelegationResponse{}, err
	}

	delegate, err := d.tokens.IssueDelegate(ctx, request.UID, mallID, request.ShopID, fields)
	if err != nil {
		return models.DelegationResponse{}, err
	}

	partner, err := d.tokens.IssuePartner(ctx, mallID, request.ShopID, request.Purpose, delegate.SignedString)
	if err != nil {
		return models.DelegationResponse{}, err
	}

	log.Info().
		Str("func", "delegationService.Delegate").
		Str("mall_id", mallID).
		Str("shop_id", request.ShopID).
		Strs("fields", fields.Strings()).
		Msg("delegation issued")

	return models.DelegationResponse{
		JWT:         partner.SignedString,
		DelegateJWT: delegate.SignedString,
		ExpiresIn:   partner.ExpiresIn,
	}, nil
}

func (d *delegationService) requireConsent(ctx context.Context, mallID string, request models.DelegationRequest) error {
	if request.ConsentType != "" {
		_, err := d.consents.Save(ctx, request.UID, mallID, request.ShopID, request.ConsentType)
		return err
	}

	state, err := d.consents.Check(ctx, request.UID, mallID, request.ShopID)
	if err != nil {
		return err
	}
	if !state.Active {
		return fmt.Errorf("%w: no active consent", ErrForbidden)
	}
	return nil
}
