package repositories

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"onchain-re-lending/internal/models"
	"onchain-re-lending/pkg/cache"
)

// memStore keeps JSON values in a map, mirroring cache.Store semantics.
type memStore struct {
	data    map[string]string
	touched map[string]time.Duration
}

func newMemStore() *memStore {
	return &memStore{data: map[string]string{}, touched: map[string]time.Duration{}}
}

func (m *memStore) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = string(b)
	return nil
}

func (m *memStore) Get(ctx context.Context, key string, dest interface{}) error {
	v, err := m.GetString(ctx, key)
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(v), dest)
}

func (m *memStore) GetString(_ context.Context, key string) (string, error) {
	v, ok := m.data[key]
	if !ok {
		return "", cache.ErrCacheMiss
	}
	return v, nil
}

func (m *memStore) Delete(_ context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func (m *memStore) Exists(_ context.Context, key string) (bool, error) {
	_, ok := m.data[key]
	return ok, nil
}

func (m *memStore) Touch(_ context.Context, key string, ttl time.Duration) error {
	m.touched[key] = ttl
	return nil
}

func (m *memStore) SetWithIndex(ctx context.Context, key, indexKey string, value interface{}, ttl time.Duration) error {
	if err := m.Set(ctx, key, value, ttl); err != nil {
		return err
	}
	m.data[indexKey] = key
	return nil
}

func (m *memStore) UpdateWithIndex(ctx context.Context, key, indexKey string, value interface{}, ttl time.Duration) error {
	if _, ok := m.data[key]; !ok {
		return cache.ErrCacheMiss
	}
	if err := m.Set(ctx, key, value, ttl); err != nil {
		return err
	}
	if current, ok := m.data[indexKey]; !ok || current == key {
		m.data[indexKey] = key
	}
	return nil
}

func (m *memStore) Acquire(_ context.Context, key, token string, _ time.Duration) (bool, error) {
	if _, ok := m.data[key]; ok {
		return false, nil
	}
	m.data[key] = token
	return true, nil
}

func (m *memStore) Release(_ context.Context, key, token string) error {
	if m.data[key] == token {
		delete(m.data, key)
	}
	return nil
}

func TestSessionCacheRepository_SaveAndFind(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	repo := NewSessionCacheRepository(store, time.Hour)

	session := &models.Session{
		ID:            "s1",
		WalletAddress: "0x5B38Da6a701c568545dCfcB03FcB875f56beddC4",
		Stage:         models.StageKYCVerified,
		KYC:           models.KYCState{Method: models.KYCMethodSkipped, Status: models.KYCStatusSkipped},
	}
	require.NoError(t, repo.Create(ctx, session))

	got, err := repo.FindByID(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, models.StageKYCVerified, got.Stage)
	assert.Equal(t, time.Hour, store.touched[cache.SessionKey("s1")])

	byWallet, err := repo.FindByWallet(ctx, "0x5b38da6a701c568545dcfcb03fcb875f56beddc4")
	require.NoError(t, err)
	require.NotNil(t, byWallet)
	assert.Equal(t, "s1", byWallet.ID)
}

func TestSessionCacheRepository_Delete(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	repo := NewSessionCacheRepository(store, time.Hour)
	wallet := "0x5B38Da6a701c568545dCfcB03FcB875f56beddC4"

	old := &models.Session{ID: "old", WalletAddress: wallet}
	current := &models.Session{ID: "new", WalletAddress: wallet}
	require.NoError(t, repo.Create(ctx, old))
	require.NoError(t, repo.Create(ctx, current))

	deleted, err := repo.Delete(ctx, old)
	require.NoError(t, err)
	assert.True(t, deleted)

	// the wallet index still points at the newer session
	byWallet, err := repo.FindByWallet(ctx, wallet)
	require.NoError(t, err)
	require.NotNil(t, byWallet)
	assert.Equal(t, "new", byWallet.ID)

	deleted, err = repo.Delete(ctx, current)
	require.NoError(t, err)
	assert.True(t, deleted)
	_, indexed := store.data[cache.SessionWalletKey(wallet)]
	assert.False(t, indexed)

	deleted, err = repo.Delete(ctx, current)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestSessionCacheRepository_Missing(t *testing.T) {
	repo := NewSessionCacheRepository(newMemStore(), time.Hour)

	got, err := repo.FindByID(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = repo.FindByWallet(context.Background(), "0x0000000000000000000000000000000000000000")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSessionCacheRepository_SaveDoesNotRecreate(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	repo := NewSessionCacheRepository(store, time.Hour)
	wallet := "0x5B38Da6a701c568545dCfcB03FcB875f56beddC4"

	old := &models.Session{ID: "old", WalletAddress: wallet, Stage: models.StageWalletConnected}
	require.NoError(t, repo.Create(ctx, old))
	current := &models.Session{ID: "new", WalletAddress: wallet, Stage: models.StageWalletConnected}
	require.NoError(t, repo.Create(ctx, current))

	// a late save of the superseded session keeps the wallet on the new one
	old.Stage = models.StageKYCVerified
	require.NoError(t, repo.Save(ctx, old))
	byWallet, err := repo.FindByWallet(ctx, wallet)
	require.NoError(t, err)
	require.NotNil(t, byWallet)
	assert.Equal(t, "new", byWallet.ID)

	deleted, err := repo.Delete(ctx, current)
	require.NoError(t, err)
	require.True(t, deleted)

	current.Stage = models.StageKYCVerified
	assert.ErrorIs(t, repo.Save(ctx, current), ErrSessionNotFound)
	got, err := repo.FindByID(ctx, "new")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.NotContains(t, store.data, cache.SessionKey("new"))
}

func TestSessionCacheRepository_Claim(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	repo := NewSessionCacheRepository(store, time.Hour)

	token, claimed, err := repo.Claim(ctx, "s1", "mint")
	require.NoError(t, err)
	require.True(t, claimed)
	assert.NotEmpty(t, token)
	assert.Equal(t, token, store.data[cache.SessionLockKey("s1", "mint")])

	_, claimed, err = repo.Claim(ctx, "s1", "mint")
	require.NoError(t, err)
	assert.False(t, claimed)

	// other sessions and operations are independent
	_, claimed, err = repo.Claim(ctx, "s2", "mint")
	require.NoError(t, err)
	assert.True(t, claimed)

	require.NoError(t, repo.Release(ctx, "s1", "mint", "stale-token"))
	_, claimed, err = repo.Claim(ctx, "s1", "mint")
	require.NoError(t, err)
	assert.False(t, claimed)

	require.NoError(t, repo.Release(ctx, "s1", "mint", token))
	_, claimed, err = repo.Claim(ctx, "s1", "mint")
	require.NoError(t, err)
	assert.True(t, claimed)
}
