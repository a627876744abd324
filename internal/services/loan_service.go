package services

import (
	"context"
	"fmt"
	"math"
	"time"

	apperrors "onchain-re-lending/internal/errors"
	"onchain-re-lending/internal/models"
	"onchain-re-lending/internal/repositories"
	"onchain-re-lending/pkg/logger"
)

const (
	preferredTermDays = 180
	loanRoundingUnit  = 100000
)

type LoanTerms struct {
	MaxLTV     float64
	AnnualRate float64
	TermDays   []int
}

type LoanService struct {
	sessions *SessionService
	assets   repositories.AssetRepository
	terms    LoanTerms
	now      func() time.Time
}

func NewLoanService(sessions *SessionService, assets repositories.AssetRepository, terms LoanTerms) *LoanService {
	return &LoanService{sessions: sessions, assets: assets, terms: terms, now: time.Now}
}

// MaxAmount is the largest loan the collateral supports: min(v*LTV, v).
func (s *LoanService) MaxAmount(valuation int64) int64 {
	return int64(math.Min(float64(valuation)*s.terms.MaxLTV, float64(valuation)))
}

// DefaultAmount is half the valuation capped by the LTV, rounded to the nearest
// 100,000. It never exceeds MaxAmount: when rounding up would overshoot it rounds
// down, and below one unit it is MaxAmount itself.
func (s *LoanService) DefaultAmount(valuation int64) int64 {
	v := float64(valuation)
	initial := math.Min(v*0.5, v*s.terms.MaxLTV)
	amount := int64(math.Round(initial/loanRoundingUnit)) * loanRoundingUnit

	maxAmount := s.MaxAmount(valuation)
	if amount > maxAmount {
		amount = maxAmount / loanRoundingUnit * loanRoundingUnit
	}
	if amount == 0 {
		amount = maxAmount
	}
	return amount
}

// DefaultTerm prefers 180 days when offered, else the first configured term.
func (s *LoanService) DefaultTerm() int {
	for _, d := range s.terms.TermDays {
		if d == preferredTermDays {
			return d
		}
	}
	if len(s.terms.TermDays) > 0 {
		return s.terms.TermDays[0]
	}
	return preferredTermDays
}

// Quote prices a loan with simple annual interest deducted up front.
func (s *LoanService) Quote(valuation, amount int64, termDays int) (*models.Loan, error) {
	if amount <= 0 {
		return nil, apperrors.LoanInvalid(fmt.Sprintf("loan amount %d must be positive", amount), apperrors.MsgLoanInvalidAmount)
	}
	maxAmount := s.MaxAmount(valuation)
	if amount > maxAmount {
		return nil, apperrors.LoanInvalid(fmt.Sprintf("loan amount %d exceeds max %d", amount, maxAmount), apperrors.MsgLoanExceedsLTV).
			With("maxLoanAmount", maxAmount)
	}
	if !s.termOffered(termDays) {
		return nil, apperrors.LoanInvalid(fmt.Sprintf("term %d days not offered", termDays), apperrors.MsgLoanInvalidTerm).
			With("termOptions", s.terms.TermDays)
	}

	interest := int64(math.Round(float64(amount) * s.terms.AnnualRate * float64(termDays) / 365))
	return &models.Loan{
		Amount:       amount,
		TermDays:     termDays,
		Interest:     interest,
		ActualAmount: amount - interest,
		AnnualRate:   s.terms.AnnualRate,
		MaxLTV:       s.terms.MaxLTV,
		MaxAmount:    maxAmount,
		Valuation:    valuation,
	}, nil
}

// QuoteForSession quotes against the session's property value. Zero amount or
// term fall back to the defaults.
func (s *LoanService) QuoteForSession(ctx context.Context, sessionID string, amount int64, termDays int) (*models.Loan, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Valuation == nil {
		return nil, apperrors.InvalidStage(session.Stage, models.StageValued)
	}
	valuation := session.Valuation.PropertyValue
	if amount == 0 {
		amount = s.DefaultAmount(valuation)
	}
	if termDays == 0 {
		termDays = s.DefaultTerm()
	}
	return s.Quote(valuation, amount, termDays)
}

// Configure stores the chosen loan on the session and on the minted asset.
func (s *LoanService) Configure(ctx context.Context, sessionID string, req models.LoanRequest) (*models.Loan, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := CheckTransition(session.Stage, models.StageLoanConfigured); err != nil {
		return nil, err
	}
	if session.Valuation == nil || session.Asset == nil {
		return nil, apperrors.InvalidStage(session.Stage, models.StageLoanConfigured)
	}

	loan, err := s.Quote(session.Valuation.PropertyValue, req.LoanAmount, req.TermDays)
	if err != nil {
		return nil, err
	}
	loan.ConfiguredAt = s.now().UTC()

	if err := s.assets.SetLoan(ctx, session.Asset.AssetID, loan); err != nil {
		logger.GlobalLogger.Errorf("Failed to store loan on asset: asset_id=%s, error=%v", session.Asset.AssetID, err)
		return nil, apperrors.Internal("failed to store loan", err)
	}

	session.Loan = loan
	if err := s.sessions.Advance(ctx, session, models.StageLoanConfigured); err != nil {
		return nil, err
	}
	logger.GlobalLogger.Printf("Loan configured: session=%s, amount=%d, term=%d", session.ID, loan.Amount, loan.TermDays)
	return loan, nil
}

func (s *LoanService) termOffered(days int) bool {
	for _, d := range s.terms.TermDays {
		if d == days {
			return true
		}
	}
	return false
}
