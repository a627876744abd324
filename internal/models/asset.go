package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Asset struct {
	ID              primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	SessionID       string             `json:"sessionId" bson:"sessionId"`
	OwnerAddress    string             `json:"ownerAddress" bson:"ownerAddress"`
	Name            string             `json:"name" bson:"name"`
	Description     string             `json:"description" bson:"description"`
	AssetType       string             `json:"assetType" bson:"assetType"`
	Address         string             `json:"address" bson:"address"`
	EstimatedValue  int64              `json:"estimatedValue" bson:"estimatedValue"`
	PropertyValue   int64              `json:"propertyValue" bson:"propertyValue"`
	TokenID         string             `json:"tokenId,omitempty" bson:"tokenId,omitempty"`
	TxHash          string             `json:"transactionHash" bson:"txHash"`
	TokenURI        string             `json:"tokenUri" bson:"tokenUri"`
	ImageURI        string             `json:"imageUri,omitempty" bson:"imageUri,omitempty"`
	ChainID         int64              `json:"chainId" bson:"chainId"`
	ContractAddress string             `json:"contractAddress" bson:"contractAddress"`
	Loan            *Loan              `json:"loan,omitempty" bson:"loan,omitempty"`
	MintedAt        time.Time          `json:"mintedAt" bson:"mintedAt"`
}

type MintRequest struct {
	Name        string `json:"name" binding:"max=200"`
	Description string `json:"description" binding:"max=2000"`
	AssetType   string `json:"assetType" binding:"max=100"`
	Image       string `json:"image"`
}

type MintResponse struct {
	Success         bool   `json:"success"`
	AssetID         string `json:"assetId"`
	TokenID         string `json:"tokenId,omitempty"`
	TransactionHash string `json:"transactionHash"`
	TokenURI        string `json:"tokenUri"`
	ExplorerURL     string `json:"explorerUrl"`
}

type NFTAttribute struct {
	TraitType string `json:"trait_type"`
	Value     string `json:"value"`
}

type NFTMetadata struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Image       string                 `json:"image,omitempty"`
	Attributes  []NFTAttribute         `json:"attributes,omitempty"`
	Properties  map[string]interface{} `json:"properties,omitempty"`
}

type PinResponse struct {
	URI        string `json:"uri"`
	GatewayURL string `json:"gatewayUrl"`
}

type Loan struct {
	Amount       int64     `json:"loanAmount" bson:"amount"`
	TermDays     int       `json:"termDays" bson:"termDays"`
	Interest     int64     `json:"interest" bson:"interest"`
	ActualAmount int64     `json:"actualAmount" bson:"actualAmount"`
	AnnualRate   float64   `json:"annualRate" bson:"annualRate"`
	MaxLTV       float64   `json:"maxLtv" bson:"maxLtv"`
	MaxAmount    int64     `json:"maxLoanAmount" bson:"maxAmount"`
	Valuation    int64     `json:"valuation" bson:"valuation"`
	ConfiguredAt time.Time `json:"configuredAt,omitempty" bson:"configuredAt,omitempty"`
}

type LoanRequest struct {
	LoanAmount int64 `json:"loanAmount" binding:"required,gt=0"`
	TermDays   int   `json:"termDays" binding:"required,gt=0"`
}
