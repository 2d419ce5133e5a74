package service

import (
	"github.com/MKhiriev/ssdm-gateway/internal/config"
	"github.com/MKhiriev/ssdm-gateway/internal/crypto"
	"github.com/MKhiriev/ssdm-gateway/internal/logger"
	"github.com/MKhiriev/ssdm-gateway/internal/metrics"
	"github.com/MKhiriev/ssdm-gateway/internal/store"
	"github.com/MKhiriev/ssdm-gateway/models"
)

// Services is the set of broker services handed to the transports. Services
// that accept caller input are wrapped with validation; cross-service calls
// inside the package use the unwrapped implementations.
type Services struct {
	MallService       MallService
	UIDService        UIDService
	ConsentService    ConsentService
	TokenService      TokenService
	DelegationService DelegationService
	SessionService    SessionService
	VaultService      VaultService
	AppInfoService    AppInfoService
}

func NewServices(storages *store.Storages, cfg config.StructuredConfig, m *metrics.Metrics, build models.AppBuildInfo, logger *logger.Logger) (*Services, error) {
	tokens, err := NewTokenService(cfg.App, m, logger)
	if err != nil {
		return nil, err
	}

	appInfo, err := NewAppInfoService(cfg.App, build, logger)
	if err != nil {
		return nil, err
	}

	malls := NewMallService(storages, cfg.App, logger)
	uids := NewUIDService(storages, logger)
	consents := NewConsentService(storages, logger)
	delegations := NewDelegationService(malls, uids, consents, tokens, logger)
	sessions := NewSessionService(storages, malls, tokens, cfg.App, m, logger)
	vault := NewVaultService(storages, crypto.NewKeyChain(cfg.App.VaultSalt, cfg.App.VaultIterations), m, logger)

	return &Services{
		MallService:       NewMallValidationService().Wrap(malls),
		UIDService:        NewUIDValidationService().Wrap(uids),
		ConsentService:    NewConsentValidationService().Wrap(consents),
		TokenService:      tokens,
		DelegationService: NewDelegationValidationService().Wrap(delegations),
		SessionService:    NewSessionValidationService().Wrap(sessions),
		VaultService:      NewVaultValidationService().Wrap(vault),
		AppInfoService:    appInfo,
	}, nil
}
