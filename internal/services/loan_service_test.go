package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "onchain-re-lending/internal/errors"
	"onchain-re-lending/internal/models"
)

var testTerms = LoanTerms{MaxLTV: 0.6, AnnualRate: 0.05, TermDays: []int{30, 90, 180, 365}}

func newTestLoanService(repo *memSessions, assets *memAssets, terms LoanTerms) *LoanService {
	svc := NewLoanService(newTestSessionService(repo), assets, terms)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func TestDefaultAmount(t *testing.T) {
	svc := newTestLoanService(newMemSessions(), newMemAssets(), testTerms)

	assert.Equal(t, int64(5000000), svc.DefaultAmount(10000000))
	assert.Equal(t, int64(6200000), svc.DefaultAmount(12345678))

	low := newTestLoanService(newMemSessions(), newMemAssets(), LoanTerms{MaxLTV: 0.3, AnnualRate: 0.05, TermDays: []int{30}})
	assert.Equal(t, int64(3000000), low.DefaultAmount(10000000))

	// rounding up would pass the LTV cap
	assert.Equal(t, int64(90000), svc.DefaultAmount(150000))
	assert.Equal(t, int64(100000), svc.DefaultAmount(190000))
	assert.Equal(t, int64(0), svc.DefaultAmount(0))
}

func TestDefaultTerm(t *testing.T) {
	assert.Equal(t, 180, newTestLoanService(newMemSessions(), newMemAssets(), testTerms).DefaultTerm())

	other := newTestLoanService(newMemSessions(), newMemAssets(), LoanTerms{MaxLTV: 0.6, TermDays: []int{60, 120}})
	assert.Equal(t, 60, other.DefaultTerm())
}

func TestQuote(t *testing.T) {
	svc := newTestLoanService(newMemSessions(), newMemAssets(), testTerms)

	loan, err := svc.Quote(10000000, 5000000, 180)
	require.NoError(t, err)
	assert.Equal(t, int64(123288), loan.Interest)
	assert.Equal(t, int64(4876712), loan.ActualAmount)
	assert.Equal(t, int64(6000000), loan.MaxAmount)

	loan, err = svc.Quote(10000000, 6000000, 365)
	require.NoError(t, err)
	assert.Equal(t, int64(300000), loan.Interest)
}

func TestQuote_Rejections(t *testing.T) {
	svc := newTestLoanService(newMemSessions(), newMemAssets(), testTerms)

	tests := []struct {
		name   string
		amount int64
		term   int
		msg    string
	}{
		{"zero amount", 0, 180, apperrors.MsgLoanInvalidAmount},
		{"above ltv", 6000001, 180, apperrors.MsgLoanExceedsLTV},
		{"term not offered", 1000000, 45, apperrors.MsgLoanInvalidTerm},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Quote(10000000, tt.amount, tt.term)
			appErr := appError(t, err)
			assert.Equal(t, apperrors.ErrCodeLoanInvalid, appErr.Code)
			assert.Equal(t, tt.msg, appErr.UserMessage)
		})
	}
}

func TestQuoteForSession_Defaults(t *testing.T) {
	repo := newMemSessions()
	seedSession(repo, "s-1", models.StageValued)
	svc := newTestLoanService(repo, newMemAssets(), testTerms)

	loan, err := svc.QuoteForSession(context.Background(), "s-1", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(5000000), loan.Amount)
	assert.Equal(t, 180, loan.TermDays)

	small := seedSession(repo, "s-small", models.StageValued)
	small.Valuation.PropertyValue = 150000
	repo.byID["s-small"] = *small
	loan, err = svc.QuoteForSession(context.Background(), "s-small", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(90000), loan.Amount)
	assert.Equal(t, int64(90000), loan.MaxAmount)

	seedSession(repo, "s-2", models.StageKYCVerified)
	_, err = svc.QuoteForSession(context.Background(), "s-2", 0, 0)
	assert.Equal(t, apperrors.ErrCodeInvalidStage, appError(t, err).Code)
}

func TestConfigure(t *testing.T) {
	repo := newMemSessions()
	assets := newMemAssets()
	session := seedSession(repo, "s-1", models.StageMinted)
	asset := &models.Asset{SessionID: "s-1", EstimatedValue: 10000000}
	require.NoError(t, assets.Create(context.Background(), asset))
	session.Asset = &models.SessionAsset{AssetID: asset.ID.Hex()}
	repo.byID["s-1"] = *session

	svc := newTestLoanService(repo, assets, testTerms)
	ctx := context.Background()

	loan, err := svc.Configure(ctx, "s-1", models.LoanRequest{LoanAmount: 3000000, TermDays: 90})
	require.NoError(t, err)
	assert.Equal(t, fixedNow, loan.ConfiguredAt)

	stored, err := repo.FindByID(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, models.StageLoanConfigured, stored.Stage)
	require.NotNil(t, stored.Loan)
	assert.Equal(t, int64(3000000), stored.Loan.Amount)

	storedAsset, err := assets.FindByID(ctx, asset.ID.Hex())
	require.NoError(t, err)
	require.NotNil(t, storedAsset.Loan)
	assert.Equal(t, 90, storedAsset.Loan.TermDays)

	// reconfiguring is allowed
	_, err = svc.Configure(ctx, "s-1", models.LoanRequest{LoanAmount: 2000000, TermDays: 30})
	require.NoError(t, err)

	_, err = svc.Configure(ctx, "s-1", models.LoanRequest{LoanAmount: 9000000, TermDays: 30})
	assert.Equal(t, apperrors.ErrCodeLoanInvalid, appError(t, err).Code)
}

func TestConfigure_BeforeMint(t *testing.T) {
	repo := newMemSessions()
	seedSession(repo, "s-1", models.StageValued)

	_, err := newTestLoanService(repo, newMemAssets(), testTerms).
		Configure(context.Background(), "s-1", models.LoanRequest{LoanAmount: 1000000, TermDays: 30})
	assert.Equal(t, apperrors.ErrCodeInvalidStage, appError(t, err).Code)
}
