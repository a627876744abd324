package models

import "time"

// Stage is a step of the onboarding wizard. Stages are strictly ordered.
type Stage string

const (
	StageWalletConnected Stage = "wallet_connected"
	StageKYCVerified     Stage = "kyc_verified"
	StageValued          Stage = "valued"
	StageMinted          Stage = "minted"
	StageLoanConfigured  Stage = "loan_configured"
)

var stageOrder = []Stage{
	StageWalletConnected,
	StageKYCVerified,
	StageValued,
	StageMinted,
	StageLoanConfigured,
}

// Index returns the position of the stage in the wizard, or -1 if unknown.
func (s Stage) Index() int {
	for i, st := range stageOrder {
		if st == s {
			return i
		}
	}
	return -1
}

const (
	KYCMethodSelf        = "self"
	KYCMethodTraditional = "traditional"
	KYCMethodSkipped     = "skipped"

	KYCStatusNone          = "none"
	KYCStatusPendingReview = "pending_review"
	KYCStatusVerified      = "verified"
	KYCStatusRejected      = "rejected"
	KYCStatusSkipped       = "skipped"
)

type KYCState struct {
	Method     string     `json:"method,omitempty"`
	Status     string     `json:"status"`
	KYCID      string     `json:"kycId,omitempty"`
	VerifiedAt *time.Time `json:"verifiedAt,omitempty"`
}

type SessionValuation struct {
	Address        string     `json:"address"`
	AssetName      string     `json:"assetName"`
	AssetType      string     `json:"assetType"`
	EstimatedValue int64      `json:"estimatedValue"`
	PropertyValue  int64      `json:"propertyValue"`
	MatchCount     int        `json:"matchCount"`
	PriceRange     PriceRange `json:"priceRange"`
	ValuedAt       time.Time  `json:"valuedAt"`
}

type SessionAsset struct {
	AssetID     string    `json:"assetId"`
	TokenID     string    `json:"tokenId,omitempty"`
	TxHash      string    `json:"transactionHash"`
	TokenURI    string    `json:"tokenUri"`
	ExplorerURL string    `json:"explorerUrl"`
	MintedAt    time.Time `json:"mintedAt"`
}

// Session replaces the browser-storage hand-off between wizard pages.
type Session struct {
	ID            string            `json:"id"`
	WalletAddress string            `json:"walletAddress"`
	Stage         Stage             `json:"stage"`
	KYC           KYCState          `json:"kyc"`
	Valuation     *SessionValuation `json:"valuation,omitempty"`
	Asset         *SessionAsset     `json:"asset,omitempty"`
	Loan          *Loan             `json:"loan,omitempty"`
	CreatedAt     time.Time         `json:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt"`
}

type CreateSessionRequest struct {
	WalletAddress string `json:"walletAddress" binding:"required" example:"0x5B38Da6a701c568545dCfcB03FcB875f56beddC4"`
}

type SessionTokenResponse struct {
	SessionID string `json:"sessionId"`
	Token     string `json:"token"`
	ExpiresIn string `json:"expiresIn"`
	TokenType string `json:"tokenType"`
}

type SessionValuationRequest struct {
	Address   string `json:"address" binding:"required" example:"新北市板橋區文化路一段"`
	AssetName string `json:"assetName" binding:"max=200"`
	AssetType string `json:"assetType" binding:"max=100"`
}

type SessionValuationResponse struct {
	Success bool             `json:"success"`
	Data    *ValuationResult `json:"data"`
	Session *Session         `json:"session"`
}
