package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FileDigest records an uploaded document without retaining its bytes.
type FileDigest struct {
	Filename    string `json:"filename" bson:"filename"`
	ContentType string `json:"contentType" bson:"contentType"`
	Size        int64  `json:"size" bson:"size"`
	SHA256      string `json:"sha256" bson:"sha256"`
}

type KYCSubmission struct {
	ID            primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	KYCID         string             `json:"kycId" bson:"kycId"`
	SessionID     string             `json:"sessionId" bson:"sessionId"`
	WalletAddress string             `json:"walletAddress" bson:"walletAddress"`
	FullName      string             `json:"fullName" bson:"fullName"`
	IDType        string             `json:"idType" bson:"idType"`
	IDNumberHash  string             `json:"-" bson:"idNumberHash"`
	BirthDate     string             `json:"birthDate" bson:"birthDate"`
	IDDocument    FileDigest         `json:"idDocument" bson:"idDocument"`
	SelfiePhoto   FileDigest         `json:"selfiePhoto" bson:"selfiePhoto"`
	Status        string             `json:"status" bson:"status"`
	ReviewNote    string             `json:"reviewNote,omitempty" bson:"reviewNote,omitempty"`
	SubmittedAt   time.Time          `json:"submittedAt" bson:"submittedAt"`
	ReviewedAt    *time.Time         `json:"reviewedAt,omitempty" bson:"reviewedAt,omitempty"`
}

// TraditionalKYCForm holds the text fields of the manual upload form.
type TraditionalKYCForm struct {
	FullName  string `form:"fullName" validate:"required,max=100"`
	IDType    string `form:"idType" validate:"required,max=50"`
	IDNumber  string `form:"idNumber" validate:"required,max=50"`
	BirthDate string `form:"birthDate" validate:"required,datetime=2006-01-02"`
}

// UploadedFile is a form file already read into memory by the handler.
type UploadedFile struct {
	Filename    string
	ContentType string
	Size        int64
	Data        []byte
}

type KYCReviewRequest struct {
	Approved *bool  `json:"approved" binding:"required"`
	Note     string `json:"note"`
}

// SelfVerifyRequest is the payload the identity relayer posts to the verification callback.
type SelfVerifyRequest struct {
	AttestationID   interface{}   `json:"attestationId"`
	Proof           interface{}   `json:"proof"`
	PublicSignals   []interface{} `json:"publicSignals"`
	UserContextData string        `json:"userContextData"`
}

// SelfVerifyResponse always travels with HTTP 200; the outcome lives in Status/Result.
type SelfVerifyResponse struct {
	Status  string      `json:"status"`
	Result  bool        `json:"result"`
	Message string      `json:"message,omitempty"`
	Details interface{} `json:"details,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}
