package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	apperrors "onchain-re-lending/internal/errors"
	"onchain-re-lending/internal/models"
	"onchain-re-lending/internal/repositories"
	"onchain-re-lending/internal/validators"
	"onchain-re-lending/pkg/identity"
	"onchain-re-lending/pkg/logger"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	SelfStatusSuccess = "success"
	SelfStatusError   = "error"
)

type KYCService struct {
	repo      repositories.KYCRepository
	sessions  *SessionService
	verifier  identity.Verifier
	validator validators.KYCValidator
	allowSkip bool
	now       func() time.Time
}

func NewKYCService(
	repo repositories.KYCRepository,
	sessions *SessionService,
	verifier identity.Verifier,
	validator validators.KYCValidator,
	allowSkip bool,
) *KYCService {
	return &KYCService{
		repo:      repo,
		sessions:  sessions,
		verifier:  verifier,
		validator: validator,
		allowSkip: allowSkip,
		now:       time.Now,
	}
}

// Skip bypasses identity verification. Only available when enabled by configuration.
func (s *KYCService) Skip(ctx context.Context, sessionID string) (*models.Session, error) {
	if !s.allowSkip {
		return nil, apperrors.KYCSkipNotAllowed()
	}
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := CheckTransition(session.Stage, models.StageKYCVerified); err != nil {
		return nil, err
	}

	logger.GlobalLogger.Warnf("KYC skipped: session=%s, wallet=%s", session.ID, session.WalletAddress)
	if err := s.sessions.ApplyKYC(ctx, session, models.KYCState{Method: models.KYCMethodSkipped, Status: models.KYCStatusSkipped}); err != nil {
		return nil, err
	}
	return session, nil
}

// SubmitTraditional stores a manual KYC submission for review. The documents are
// digested, never stored; the id number is kept only as a bcrypt hash.
func (s *KYCService) SubmitTraditional(ctx context.Context, sessionID string, form *models.TraditionalKYCForm, idDocument, selfie *models.UploadedFile) (*models.KYCSubmission, error) {
	if err := s.validator.ValidateForm(form); err != nil {
		return nil, err
	}
	if err := s.validator.ValidateDocuments(idDocument, selfie); err != nil {
		return nil, err
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Stage != models.StageWalletConnected {
		return nil, apperrors.InvalidStage(session.Stage, models.StageKYCVerified)
	}

	idHash, err := bcrypt.GenerateFromPassword([]byte(form.IDNumber), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Internal("failed to hash id number", err)
	}

	submission := &models.KYCSubmission{
		KYCID:         "kyc_" + uuid.NewString(),
		SessionID:     session.ID,
		WalletAddress: session.WalletAddress,
		FullName:      form.FullName,
		IDType:        form.IDType,
		IDNumberHash:  string(idHash),
		BirthDate:     form.BirthDate,
		IDDocument:    digest(idDocument),
		SelfiePhoto:   digest(selfie),
		Status:        models.KYCStatusPendingReview,
		SubmittedAt:   s.now().UTC(),
	}
	if err := s.repo.Create(ctx, submission); err != nil {
		logger.GlobalLogger.Errorf("Failed to store KYC submission: session=%s, error=%v", session.ID, err)
		return nil, apperrors.Internal("failed to store kyc submission", err)
	}

	state := models.KYCState{Method: models.KYCMethodTraditional, Status: models.KYCStatusPendingReview, KYCID: submission.KYCID}
	if err := s.sessions.ApplyKYC(ctx, session, state); err != nil {
		return nil, err
	}

	logger.GlobalLogger.Printf("KYC submitted for review: kyc_id=%s, session=%s", submission.KYCID, session.ID)
	return submission, nil
}

// Review approves or rejects a pending submission and updates its session if still alive.
func (s *KYCService) Review(ctx context.Context, kycID string, approved bool, note string) (*models.KYCSubmission, error) {
	status := models.KYCStatusRejected
	if approved {
		status = models.KYCStatusVerified
	}

	at := s.now().UTC()
	submission, err := s.repo.Review(ctx, kycID, status, note, at)
	if err != nil {
		return nil, apperrors.Internal("failed to review kyc submission", err)
	}
	if submission == nil {
		existing, err := s.repo.FindByKYCID(ctx, kycID)
		if err != nil {
			return nil, apperrors.Internal("failed to load kyc submission", err)
		}
		if existing == nil {
			return nil, apperrors.KYCNotFound(kycID)
		}
		return nil, apperrors.KYCAlreadyReviewed(kycID, existing.Status)
	}

	session, err := s.sessions.FindByIdentifier(ctx, submission.SessionID)
	if err != nil || session == nil {
		logger.GlobalLogger.Warnf("KYC reviewed but session is gone: kyc_id=%s, session=%s, error=%v", kycID, submission.SessionID, err)
		return submission, nil
	}
	state := models.KYCState{Method: models.KYCMethodTraditional, Status: status, KYCID: kycID}
	if approved {
		state.VerifiedAt = &at
	}
	if err := s.sessions.ApplyKYC(ctx, session, state); err != nil {
		return nil, err
	}

	logger.GlobalLogger.Printf("KYC reviewed: kyc_id=%s, status=%s", kycID, status)
	return submission, nil
}

// SelfVerify checks an identity proof. It never returns an error: the verifier
// relayer requires HTTP 200, so every outcome is encoded in the response body.
func (s *KYCService) SelfVerify(ctx context.Context, req *models.SelfVerifyRequest) models.SelfVerifyResponse {
	if req == nil || isEmpty(req.AttestationID) || isEmpty(req.Proof) || len(req.PublicSignals) == 0 {
		return models.SelfVerifyResponse{Status: SelfStatusError, Result: false, Message: apperrors.MsgSelfMissingParams}
	}

	result, err := s.verifier.Verify(ctx, identity.VerifyRequest{
		AttestationID:   req.AttestationID,
		Proof:           req.Proof,
		PublicSignals:   req.PublicSignals,
		UserContextData: req.UserContextData,
	})
	if err != nil {
		logger.GlobalLogger.Errorf("Identity verification failed: error=%v", err)
		return models.SelfVerifyResponse{Status: SelfStatusError, Result: false, Message: apperrors.MsgSelfServerError}
	}
	if !result.IsValidDetails.IsValid {
		return models.SelfVerifyResponse{
			Status:  SelfStatusError,
			Result:  false,
			Message: apperrors.MsgSelfVerifyFailed,
			Details: result.IsValidDetails,
		}
	}

	verifiedAt := s.now().UTC()
	s.markSelfVerified(ctx, result.UserIdentifier, verifiedAt)

	return models.SelfVerifyResponse{
		Status:  SelfStatusSuccess,
		Result:  true,
		Message: apperrors.MsgSelfVerified,
		Data: map[string]interface{}{
			"verified":          true,
			"credentialSubject": result.DiscloseOutput,
			"verifiedAt":        verifiedAt.Format(time.RFC3339),
		},
	}
}

func (s *KYCService) markSelfVerified(ctx context.Context, identifier string, at time.Time) {
	session, err := s.sessions.FindByIdentifier(ctx, identifier)
	if err != nil {
		logger.GlobalLogger.Errorf("Failed to look up verified session: identifier=%s, error=%v", identifier, err)
		return
	}
	if session == nil {
		logger.GlobalLogger.Debugf("Verified identity has no open session: identifier=%s", identifier)
		return
	}
	state := models.KYCState{Method: models.KYCMethodSelf, Status: models.KYCStatusVerified, VerifiedAt: &at}
	if err := s.sessions.ApplyKYC(ctx, session, state); err != nil {
		logger.GlobalLogger.Errorf("Failed to record identity verification: session=%s, error=%v", session.ID, err)
	}
}

func digest(f *models.UploadedFile) models.FileDigest {
	sum := sha256.Sum256(f.Data)
	return models.FileDigest{
		Filename:    f.Filename,
		ContentType: f.ContentType,
		Size:        f.Size,
		SHA256:      hex.EncodeToString(sum[:]),
	}
}

func isEmpty(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case map[string]interface{}:
		return len(t) == 0
	case []interface{}:
		return len(t) == 0
	}
	return false
}
