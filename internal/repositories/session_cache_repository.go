package repositories

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"onchain-re-lending/internal/models"
	"onchain-re-lending/internal/utils"
	"onchain-re-lending/pkg/cache"
	"onchain-re-lending/pkg/logger"
)

// SessionStore is the part of the cache the session repository needs.
type SessionStore interface {
	cache.CacheOperations
	cache.SessionOperations
}

type sessionCacheRepository struct {
	store SessionStore
	ttl   time.Duration
}

// NewSessionCacheRepository keeps sessions in Redis with a sliding ttl.
func NewSessionCacheRepository(store SessionStore, ttl time.Duration) SessionRepository {
	return &sessionCacheRepository{store: store, ttl: ttl}
}

func (r *sessionCacheRepository) Create(ctx context.Context, session *models.Session) error {
	return r.store.SetWithIndex(ctx, cache.SessionKey(session.ID), cache.SessionWalletKey(session.WalletAddress), session, r.ttl)
}

func (r *sessionCacheRepository) Save(ctx context.Context, session *models.Session) error {
	err := r.store.UpdateWithIndex(ctx, cache.SessionKey(session.ID), cache.SessionWalletKey(session.WalletAddress), session, r.ttl)
	if cache.IsMiss(err) {
		return ErrSessionNotFound
	}
	return err
}

// Claim locks one operation on a session for at most the session ttl, so a
// crashed holder cannot block it past the session's own lifetime.
func (r *sessionCacheRepository) Claim(ctx context.Context, sessionID, operation string) (string, bool, error) {
	token := uuid.NewString()
	claimed, err := r.store.Acquire(ctx, cache.SessionLockKey(sessionID, operation), token, r.ttl)
	if err != nil || !claimed {
		return "", false, err
	}
	return token, true, nil
}

func (r *sessionCacheRepository) Release(ctx context.Context, sessionID, operation, token string) error {
	return r.store.Release(ctx, cache.SessionLockKey(sessionID, operation), token)
}

func (r *sessionCacheRepository) FindByID(ctx context.Context, id string) (*models.Session, error) {
	return r.find(ctx, cache.SessionKey(id))
}

func (r *sessionCacheRepository) FindByWallet(ctx context.Context, wallet string) (*models.Session, error) {
	key, err := r.store.GetString(ctx, cache.SessionWalletKey(wallet))
	if cache.IsMiss(err) {
		utils.RecordSessionLookup(false)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(key, "session:") {
		logger.GlobalLogger.Warnf("Malformed wallet index entry: wallet=%s, value=%s", wallet, key)
		return nil, nil
	}
	return r.find(ctx, key)
}

func (r *sessionCacheRepository) Delete(ctx context.Context, session *models.Session) (bool, error) {
	key := cache.SessionKey(session.ID)
	exists, err := r.store.Exists(ctx, key)
	if err != nil || !exists {
		return false, err
	}
	if err := r.store.Delete(ctx, key); err != nil {
		return false, err
	}

	// A newer session for the same wallet owns the index entry; leave it alone.
	indexKey := cache.SessionWalletKey(session.WalletAddress)
	current, err := r.store.GetString(ctx, indexKey)
	if cache.IsMiss(err) {
		return true, nil
	}
	if err != nil {
		return true, err
	}
	if current == key {
		if err := r.store.Delete(ctx, indexKey); err != nil {
			return true, err
		}
	}
	return true, nil
}

func (r *sessionCacheRepository) find(ctx context.Context, key string) (*models.Session, error) {
	var session models.Session
	err := r.store.Get(ctx, key, &session)
	if cache.IsMiss(err) {
		utils.RecordSessionLookup(false)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	utils.RecordSessionLookup(true)

	if err := r.store.Touch(ctx, key, r.ttl); err != nil {
		logger.GlobalLogger.Warnf("Failed to refresh session expiry: key=%s, error=%v", key, err)
	}
	return &session, nil
}
