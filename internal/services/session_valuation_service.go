package services

import (
	"context"
	"time"

	"onchain-re-lending/internal/models"
)

// SessionValuationService runs the valuation pipeline as a wizard step.
type SessionValuationService struct {
	sessions  *SessionService
	valuation *ValuationService
	now       func() time.Time
}

func NewSessionValuationService(sessions *SessionService, valuation *ValuationService) *SessionValuationService {
	return &SessionValuationService{sessions: sessions, valuation: valuation, now: time.Now}
}

// Valuate prices the address and stores the summary on the session. Valuation
// errors are returned unchanged so the endpoint answers like the public one.
func (s *SessionValuationService) Valuate(ctx context.Context, sessionID string, req models.SessionValuationRequest) (*models.ValuationResult, *models.Session, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	if err := CheckTransition(session.Stage, models.StageValued); err != nil {
		return nil, nil, err
	}

	result, propertyValue, err := s.valuation.Appraise(ctx, req.Address)
	if err != nil {
		return nil, nil, err
	}

	session.Valuation = &models.SessionValuation{
		Address:        result.SearchAddress,
		AssetName:      firstNonEmpty(req.AssetName, result.SearchAddress),
		AssetType:      firstNonEmpty(req.AssetType, "Real Estate"),
		EstimatedValue: result.EstimatedValue,
		PropertyValue:  propertyValue,
		MatchCount:     result.MatchCount,
		PriceRange:     result.PriceRange,
		ValuedAt:       s.now().UTC(),
	}
	if err := s.sessions.Advance(ctx, session, models.StageValued); err != nil {
		return nil, nil, err
	}
	return result, session, nil
}
