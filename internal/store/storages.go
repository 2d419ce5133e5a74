package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/ssdm-gateway/internal/config"
	"github.com/MKhiriev/ssdm-gateway/internal/logger"
	"github.com/MKhiriev/ssdm-gateway/models"
)

// Key prefixes of the typed repositories.
const (
	MallPrefix       = "mall:"
	APIKeyPrefix     = "apikey:"
	UIDPrefix        = "uid:"
	ConsentPrefix    = "consent:"
	SessionPrefix    = "session:"
	RecordPrefix     = "vault:"
	DelegationPrefix = "delegation:"
)

// Storages groups the typed repositories over one shared [KeyValueStore].
type Storages struct {
	KV KeyValueStore

	Malls       *Repository[models.Mall]
	APIKeys     *Repository[models.APIKeyIndex]
	UIDs        *Repository[models.UIDMapping]
	Consents    *Repository[models.Consent]
	Sessions    *Repository[models.ViewerSession]
	Records     *Repository[models.EncryptedRecord]
	Delegations *Repository[models.DelegationUse]
}

// NewStorages wires every repository onto kv.
func NewStorages(kv KeyValueStore) *Storages {
	return &Storages{
		KV:          kv,
		Malls:       NewRepository[models.Mall](kv, MallPrefix),
		APIKeys:     NewRepository[models.APIKeyIndex](kv, APIKeyPrefix),
		UIDs:        NewRepository[models.UIDMapping](kv, UIDPrefix),
		Consents:    NewRepository[models.Consent](kv, ConsentPrefix),
		Sessions:    NewRepository[models.ViewerSession](kv, SessionPrefix),
		Records:     NewRepository[models.EncryptedRecord](kv, RecordPrefix),
		Delegations: NewRepository[models.DelegationUse](kv, DelegationPrefix),
	}
}

// NewKeyValueStore connects the backend selected by cfg.Backend. SQL
// backends are migrated before use.
func NewKeyValueStore(ctx context.Context, cfg config.Storage, log *logger.Logger) (KeyValueStore, error) {
	switch cfg.Backend {
	case config.BackendMemory, "":
		log.Info().Str("func", "NewKeyValueStore").Msg("using in-memory storage")
		return NewMemoryStore(), nil
	case config.BackendRedis:
		return NewRedisStore(ctx, cfg.Redis, log)
	case config.BackendPostgres, config.BackendSQLite:
		connect := NewConnectPostgres
		if cfg.Backend == config.BackendSQLite {
			connect = NewConnectSQLite
		}

		db, err := connect(ctx, cfg.DB, log)
		if err != nil {
			return nil, err
		}
		if err := db.Migrate(); err != nil {
			_ = db.Close()
			log.Err(err).Str("func", "NewKeyValueStore").Msg("error applying migrations")
			return nil, err
		}
		return NewSQLStore(db), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}
