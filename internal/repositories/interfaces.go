package repositories

import (
	"context"
	"errors"
	"time"

	"onchain-re-lending/internal/models"
)

// ErrSessionNotFound is returned by SessionRepository.Save when the session has
// expired or been ended.
var ErrSessionNotFound = errors.New("session not found")

// SessionRepository stores wizard sessions. Lookups return (nil, nil) when absent.
type SessionRepository interface {
	// Create stores a new session and makes it the wallet's current one.
	Create(ctx context.Context, session *models.Session) error
	// Save rewrites an existing session and never recreates an ended one.
	Save(ctx context.Context, session *models.Session) error
	FindByID(ctx context.Context, id string) (*models.Session, error)
	FindByWallet(ctx context.Context, wallet string) (*models.Session, error)
	// Delete reports whether the session existed.
	Delete(ctx context.Context, session *models.Session) (bool, error)
	// Claim takes the named per-session lock. claimed is false while another
	// holder owns it; token releases it.
	Claim(ctx context.Context, sessionID, operation string) (token string, claimed bool, err error)
	Release(ctx context.Context, sessionID, operation, token string) error
}

// KYCRepository stores traditional KYC submissions.
type KYCRepository interface {
	Create(ctx context.Context, submission *models.KYCSubmission) error
	FindByKYCID(ctx context.Context, kycID string) (*models.KYCSubmission, error)
	// Review moves a pending submission to status. It returns (nil, nil) when no
	// pending submission with that id exists.
	Review(ctx context.Context, kycID, status, note string, at time.Time) (*models.KYCSubmission, error)
}

// AssetRepository stores minted assets.
type AssetRepository interface {
	Create(ctx context.Context, asset *models.Asset) error
	FindByID(ctx context.Context, id string) (*models.Asset, error)
	SetLoan(ctx context.Context, id string, loan *models.Loan) error
}
