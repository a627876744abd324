package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"onchain-re-lending/internal/models"
	"onchain-re-lending/internal/repositories"
	"onchain-re-lending/internal/validators"
	"onchain-re-lending/pkg/chain"
	"onchain-re-lending/pkg/identity"
)

const (
	testWallet = "0x5B38Da6a701c568545dCfcB03FcB875f56beddC4"
	testSecret = "test-secret"
)

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// memSessions stores copies so tests observe only what was saved.
type memSessions struct {
	mu      sync.Mutex
	byID    map[string]models.Session
	locks   map[string]string
	saveErr error
}

func newMemSessions() *memSessions {
	return &memSessions{byID: map[string]models.Session{}, locks: map[string]string{}}
}

func (m *memSessions) Create(_ context.Context, s *models.Session) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[s.ID] = *s
	return nil
}

func (m *memSessions) Save(_ context.Context, s *models.Session) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[s.ID]; !ok {
		return repositories.ErrSessionNotFound
	}
	m.byID[s.ID] = *s
	return nil
}

func (m *memSessions) Claim(_ context.Context, id, op string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := id + ":" + op
	if _, held := m.locks[key]; held {
		return "", false, nil
	}
	token := uuid.NewString()
	m.locks[key] = token
	return token, true, nil
}

func (m *memSessions) Release(_ context.Context, id, op, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if key := id + ":" + op; m.locks[key] == token {
		delete(m.locks, key)
	}
	return nil
}

func (m *memSessions) held(id, op string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.locks[id+":"+op]
	return ok
}

func (m *memSessions) FindByID(_ context.Context, id string) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (m *memSessions) FindByWallet(_ context.Context, wallet string) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.byID {
		if strings.EqualFold(s.WalletAddress, wallet) {
			s := s
			return &s, nil
		}
	}
	return nil, nil
}

func (m *memSessions) Delete(_ context.Context, s *models.Session) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.byID[s.ID]
	delete(m.byID, s.ID)
	return ok, nil
}

type memKYC struct {
	mu   sync.Mutex
	subs map[string]models.KYCSubmission
}

func newMemKYC() *memKYC {
	return &memKYC{subs: map[string]models.KYCSubmission{}}
}

func (m *memKYC) Create(_ context.Context, s *models.KYCSubmission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs[s.KYCID] = *s
	return nil
}

func (m *memKYC) FindByKYCID(_ context.Context, id string) (*models.KYCSubmission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.subs[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (m *memKYC) Review(_ context.Context, id, status, note string, at time.Time) (*models.KYCSubmission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.subs[id]
	if !ok || s.Status != models.KYCStatusPendingReview {
		return nil, nil
	}
	s.Status = status
	s.ReviewNote = note
	s.ReviewedAt = &at
	m.subs[id] = s
	return &s, nil
}

type memAssets struct {
	mu        sync.Mutex
	assets    map[string]models.Asset
	createErr error
}

func newMemAssets() *memAssets {
	return &memAssets{assets: map[string]models.Asset{}}
}

func (m *memAssets) Create(_ context.Context, a *models.Asset) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	a.ID = primitive.NewObjectID()
	m.assets[a.ID.Hex()] = *a
	return nil
}

func (m *memAssets) FindByID(_ context.Context, id string) (*models.Asset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.assets[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (m *memAssets) SetLoan(_ context.Context, id string, loan *models.Loan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.assets[id]
	if !ok {
		return errors.New("asset not found")
	}
	a.Loan = loan
	m.assets[id] = a
	return nil
}

type fakeVerifier struct {
	result *identity.VerifyResult
	err    error
	calls  int
}

func (f *fakeVerifier) Verify(context.Context, identity.VerifyRequest) (*identity.VerifyResult, error) {
	f.calls++
	return f.result, f.err
}

type fakePinner struct {
	jsonURI string
	fileURI string
	err     error
	pinned  []interface{}
}

func (f *fakePinner) PinJSON(_ context.Context, _ string, content interface{}) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.pinned = append(f.pinned, content)
	return f.jsonURI, nil
}

func (f *fakePinner) PinFile(_ context.Context, _ string, r io.Reader) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if _, err := io.Copy(io.Discard, r); err != nil {
		return "", err
	}
	return f.fileURI, nil
}

func (f *fakePinner) GatewayURL(uri string) string {
	return "https://gateway.test/ipfs/" + strings.TrimPrefix(uri, "ipfs://")
}

// fakeMinter blocks in Mint until gate is closed, when gate is set.
type fakeMinter struct {
	mu      sync.Mutex
	result  *chain.MintResult
	err     error
	gate    chan struct{}
	entered chan struct{}
	to      string
	uri     string
	count   int
}

func (f *fakeMinter) Mint(_ context.Context, to, tokenURI string) (*chain.MintResult, error) {
	f.mu.Lock()
	f.to, f.uri = to, tokenURI
	f.count++
	gate, entered := f.gate, f.entered
	f.mu.Unlock()

	if entered != nil {
		entered <- struct{}{}
	}
	if gate != nil {
		<-gate
	}
	return f.result, f.err
}

func (f *fakeMinter) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.count
}

func (f *fakeMinter) ExplorerURL(kind, hash string) string {
	return "https://explorer.test/" + kind + "/" + hash
}

func (f *fakeMinter) Contract() string {
	return "0x0000000000000000000000000000000000000abc"
}

func newTestSessionService(repo *memSessions) *SessionService {
	svc := NewSessionService(repo, validators.NewSessionValidator(), testSecret, time.Hour)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

// seedSession stores a session already at stage, with the data earlier stages would have produced.
func seedSession(repo *memSessions, id string, stage models.Stage) *models.Session {
	s := &models.Session{
		ID:            id,
		WalletAddress: testWallet,
		Stage:         stage,
		KYC:           models.KYCState{Status: models.KYCStatusNone},
		CreatedAt:     fixedNow,
		UpdatedAt:     fixedNow,
	}
	if stage.Index() >= models.StageKYCVerified.Index() {
		s.KYC = models.KYCState{Method: models.KYCMethodSelf, Status: models.KYCStatusVerified}
	}
	if stage.Index() >= models.StageValued.Index() {
		s.Valuation = &models.SessionValuation{
			Address:        "新北市板橋區文化路一段",
			AssetName:      "板橋公寓",
			AssetType:      "Real Estate",
			EstimatedValue: 250000,
			PropertyValue:  10000000,
			MatchCount:     3,
			ValuedAt:       fixedNow,
		}
	}
	repo.byID[id] = *s
	return s
}
