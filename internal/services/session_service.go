package services

import (
	"context"
	"errors"
	"time"

	"onchain-re-lending/internal/auth"
	apperrors "onchain-re-lending/internal/errors"
	"onchain-re-lending/internal/models"
	"onchain-re-lending/internal/repositories"
	"onchain-re-lending/internal/validators"
	"onchain-re-lending/pkg/logger"

	"github.com/google/uuid"
)

type SessionService struct {
	repo      repositories.SessionRepository
	validator validators.SessionValidator
	jwtSecret string
	ttl       time.Duration
	now       func() time.Time
}

func NewSessionService(
	repo repositories.SessionRepository,
	validator validators.SessionValidator,
	jwtSecret string,
	ttl time.Duration,
) *SessionService {
	return &SessionService{
		repo:      repo,
		validator: validator,
		jwtSecret: jwtSecret,
		ttl:       ttl,
		now:       time.Now,
	}
}

// CheckTransition reports whether a session at current may run the operation that
// produces target. Moving forward one stage is allowed, and so is re-running the
// current stage, except minting, which must never happen twice.
func CheckTransition(current, target models.Stage) error {
	if current == target && target != models.StageMinted {
		return nil
	}
	if current.Index() >= 0 && target.Index() == current.Index()+1 {
		return nil
	}
	return apperrors.InvalidStage(current, target)
}

// Create opens a new wizard session for a wallet and issues its bearer token.
func (s *SessionService) Create(ctx context.Context, wallet string) (*models.Session, *auth.TokenDetails, error) {
	if err := s.validator.ValidateWallet(wallet); err != nil {
		return nil, nil, err
	}

	now := s.now().UTC()
	session := &models.Session{
		ID:            uuid.NewString(),
		WalletAddress: wallet,
		Stage:         models.StageWalletConnected,
		KYC:           models.KYCState{Status: models.KYCStatusNone},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.Create(ctx, session); err != nil {
		logger.GlobalLogger.Errorf("Failed to save session: wallet=%s, error=%v", wallet, err)
		return nil, nil, apperrors.Internal("failed to save session", err)
	}

	token, err := auth.GenerateJWT(session.ID, wallet, s.jwtSecret, s.ttl)
	if err != nil {
		return nil, nil, apperrors.Internal("failed to issue session token", err)
	}

	logger.GlobalLogger.Printf("Session created: id=%s, wallet=%s", session.ID, wallet)
	return session, token, nil
}

func (s *SessionService) Get(ctx context.Context, id string) (*models.Session, error) {
	session, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperrors.Internal("failed to load session", err)
	}
	if session == nil {
		return nil, apperrors.SessionNotFound(id)
	}
	return session, nil
}

// FindByIdentifier resolves a session id or a wallet address to a session; nil when unknown.
func (s *SessionService) FindByIdentifier(ctx context.Context, identifier string) (*models.Session, error) {
	if identifier == "" {
		return nil, nil
	}
	session, err := s.repo.FindByID(ctx, identifier)
	if err != nil || session != nil {
		return session, err
	}
	return s.repo.FindByWallet(ctx, identifier)
}

// Save persists changes to a live session. A session ended or expired in the
// meantime is reported as not found rather than recreated.
func (s *SessionService) Save(ctx context.Context, session *models.Session) error {
	session.UpdatedAt = s.now().UTC()
	err := s.repo.Save(ctx, session)
	if errors.Is(err, repositories.ErrSessionNotFound) {
		logger.GlobalLogger.Warnf("Dropped save for ended session: id=%s", session.ID)
		return apperrors.SessionNotFound(session.ID)
	}
	if err != nil {
		logger.GlobalLogger.Errorf("Failed to save session: id=%s, error=%v", session.ID, err)
		return apperrors.Internal("failed to save session", err)
	}
	return nil
}

// Claim serialises one operation per session across instances. The returned
// release func is safe to call after ctx is cancelled.
func (s *SessionService) Claim(ctx context.Context, sessionID, operation string) (func(), error) {
	token, claimed, err := s.repo.Claim(ctx, sessionID, operation)
	if err != nil {
		logger.GlobalLogger.Errorf("Failed to claim session operation: id=%s, op=%s, error=%v", sessionID, operation, err)
		return nil, apperrors.Internal("failed to lock session", err)
	}
	if !claimed {
		logger.GlobalLogger.Warnf("Session operation already in progress: id=%s, op=%s", sessionID, operation)
		return nil, apperrors.OperationInProgress(sessionID, operation)
	}
	release := func() {
		if err := s.repo.Release(context.WithoutCancel(ctx), sessionID, operation, token); err != nil {
			logger.GlobalLogger.Warnf("Failed to release session lock: id=%s, op=%s, error=%v", sessionID, operation, err)
		}
	}
	return release, nil
}

// End closes a session; its token stops resolving immediately.
func (s *SessionService) End(ctx context.Context, id string) error {
	session, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	deleted, err := s.repo.Delete(ctx, session)
	if err != nil {
		logger.GlobalLogger.Errorf("Failed to delete session: id=%s, error=%v", id, err)
		return apperrors.Internal("failed to delete session", err)
	}
	if !deleted {
		return apperrors.SessionNotFound(id)
	}
	logger.GlobalLogger.Printf("Session ended: id=%s", id)
	return nil
}

// Advance moves the session to target if the transition is allowed and persists it.
func (s *SessionService) Advance(ctx context.Context, session *models.Session, target models.Stage) error {
	if err := CheckTransition(session.Stage, target); err != nil {
		return err
	}
	session.Stage = target
	return s.Save(ctx, session)
}

// ApplyKYC records a KYC outcome. A verified outcome promotes a session still at
// wallet_connected; sessions already past that stage keep their stage.
func (s *SessionService) ApplyKYC(ctx context.Context, session *models.Session, state models.KYCState) error {
	session.KYC = state
	if session.Stage == models.StageWalletConnected &&
		(state.Status == models.KYCStatusVerified || state.Status == models.KYCStatusSkipped) {
		session.Stage = models.StageKYCVerified
	}
	return s.Save(ctx, session)
}
