package errors

import (
	"fmt"
	"net/http"
	"strings"

	"onchain-re-lending/internal/models"
)

// AppError represents a structured application error with user-friendly and technical details.
type AppError struct {
	TechnicalMessage string
	UserMessage      string
	Code             string
	HTTPStatus       int
	Suggestion       string
	// Extra fields are merged into the JSON error body (e.g. searchCriteria, details).
	Extra         map[string]interface{}
	OriginalError error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.OriginalError == nil {
		return fmt.Sprintf("%s: %s", e.Code, e.TechnicalMessage)
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.TechnicalMessage, e.OriginalError)
}

// Unwrap returns the original error for error chaining.
func (e *AppError) Unwrap() error {
	return e.OriginalError
}

// NewAppError creates a new AppError instance.
func NewAppError(technicalMessage, userMessage, code string, status int, originalErr error) *AppError {
	return &AppError{
		TechnicalMessage: technicalMessage,
		UserMessage:      userMessage,
		Code:             code,
		HTTPStatus:       status,
		OriginalError:    originalErr,
	}
}

// WithSuggestion returns e with a hint for the caller attached.
func (e *AppError) WithSuggestion(s string) *AppError {
	e.Suggestion = s
	return e
}

// With attaches an extra field to the JSON error body.
func (e *AppError) With(key string, value interface{}) *AppError {
	if e.Extra == nil {
		e.Extra = make(map[string]interface{})
	}
	e.Extra[key] = value
	return e
}

// Common error codes
const (
	ErrCodeMissingParameter    = "MISSING_PARAMETER"
	ErrCodeInvalidAddress      = "INVALID_ADDRESS"
	ErrCodeNoMatchingRecords   = "NO_MATCHING_RECORDS"
	ErrCodeServiceUnavailable  = "SERVICE_UNAVAILABLE"
	ErrCodeRateLimited         = "RATE_LIMITED"
	ErrCodeInvalidParameters   = "INVALID_PARAMETERS"
	ErrCodeUnauthorized        = "UNAUTHORIZED"
	ErrCodeForbidden           = "FORBIDDEN"
	ErrCodeSessionNotFound     = "SESSION_NOT_FOUND"
	ErrCodeInvalidStage        = "INVALID_STAGE"
	ErrCodeOperationInProgress = "OPERATION_IN_PROGRESS"
	ErrCodeKYCSkipNotAllowed   = "KYC_SKIP_NOT_ALLOWED"
	ErrCodeKYCNotFound         = "KYC_NOT_FOUND"
	ErrCodeKYCAlreadyReviewed  = "KYC_ALREADY_REVIEWED"
	ErrCodeAssetNotFound       = "ASSET_NOT_FOUND"
	ErrCodeMintRejected        = "MINT_REJECTED"
	ErrCodeInsufficientFunds   = "INSUFFICIENT_FUNDS"
	ErrCodeMintFailed          = "MINT_FAILED"
	ErrCodeStorageUnavailable  = "STORAGE_UNAVAILABLE"
	ErrCodeLoanInvalid         = "LOAN_INVALID"
	ErrCodeInternal            = "INTERNAL_ERROR"
)

func MissingParameter(name string) *AppError {
	return NewAppError(fmt.Sprintf("missing required parameter %q", name), MsgMissingAddress, ErrCodeMissingParameter, http.StatusBadRequest, nil)
}

func InvalidAddress(address string) *AppError {
	return NewAppError(fmt.Sprintf("cannot identify district in address %q", address), MsgInvalidAddress, ErrCodeInvalidAddress, http.StatusBadRequest, nil).
		WithSuggestion(SuggestAddressFormat)
}

// NoMatchingRecords is the "nothing found" outcome; it carries the criteria that were tried.
func NoMatchingRecords(criteria models.SearchCriteria) *AppError {
	return NewAppError(fmt.Sprintf("no records for district=%s street=%s", criteria.District, criteria.Street), MsgNoMatchingRecords, ErrCodeNoMatchingRecords, http.StatusNotFound, nil).
		WithSuggestion(SuggestNoRecords).
		With("searchCriteria", criteria)
}

func UpstreamUnavailable(err error) *AppError {
	return NewAppError("open-data upstream failed", MsgValuationFailed, ErrCodeServiceUnavailable, http.StatusInternalServerError, err).
		With("details", "upstream open-data service unavailable")
}

func InvalidParameters(technical string, err error) *AppError {
	return NewAppError(technical, MsgInvalidParameters, ErrCodeInvalidParameters, http.StatusBadRequest, err)
}

func Unauthorized(technical string) *AppError {
	return NewAppError(technical, MsgUnauthorized, ErrCodeUnauthorized, http.StatusUnauthorized, nil)
}

func Forbidden(technical string) *AppError {
	return NewAppError(technical, MsgForbidden, ErrCodeForbidden, http.StatusForbidden, nil)
}

func SessionNotFound(id string) *AppError {
	return NewAppError(fmt.Sprintf("session %s not found or expired", id), MsgSessionNotFound, ErrCodeSessionNotFound, http.StatusUnauthorized, nil)
}

func InvalidStage(current, target models.Stage) *AppError {
	return NewAppError(fmt.Sprintf("cannot move session from %s to %s", current, target), MsgInvalidStage, ErrCodeInvalidStage, http.StatusConflict, nil).
		With("currentStage", current).
		With("requiredStage", target)
}

func OperationInProgress(sessionID, operation string) *AppError {
	return NewAppError(fmt.Sprintf("%s already in progress for session %s", operation, sessionID), MsgOperationInProgress, ErrCodeOperationInProgress, http.StatusConflict, nil)
}

func KYCSkipNotAllowed() *AppError {
	return NewAppError("kyc skip disabled by configuration", MsgKYCSkipNotAllowed, ErrCodeKYCSkipNotAllowed, http.StatusForbidden, nil)
}

func KYCNotFound(id string) *AppError {
	return NewAppError(fmt.Sprintf("kyc submission %s not found", id), MsgKYCNotFound, ErrCodeKYCNotFound, http.StatusNotFound, nil)
}

func KYCAlreadyReviewed(id, status string) *AppError {
	return NewAppError(fmt.Sprintf("kyc submission %s already %s", id, status), MsgKYCAlreadyReviewed, ErrCodeKYCAlreadyReviewed, http.StatusConflict, nil)
}

func AssetNotFound(id string) *AppError {
	return NewAppError(fmt.Sprintf("asset %s not found", id), MsgAssetNotFound, ErrCodeAssetNotFound, http.StatusNotFound, nil)
}

func StorageUnavailable(err error) *AppError {
	return NewAppError("ipfs pinning failed", MsgStorageUnavailable, ErrCodeStorageUnavailable, http.StatusBadGateway, err)
}

func LoanInvalid(technical, userMessage string) *AppError {
	return NewAppError(technical, userMessage, ErrCodeLoanInvalid, http.StatusBadRequest, nil)
}

func Internal(technical string, err error) *AppError {
	return NewAppError(technical, MsgInternalError, ErrCodeInternal, http.StatusInternalServerError, err)
}

// MintFailed classifies a failed mint by the chain error text.
func MintFailed(err error) *AppError {
	msg := ""
	if err != nil {
		msg = strings.ToLower(err.Error())
	}
	switch {
	case strings.Contains(msg, "user rejected") || strings.Contains(msg, "user denied"):
		return NewAppError("mint rejected by signer", MsgMintRejected, ErrCodeMintRejected, http.StatusBadRequest, err)
	case strings.Contains(msg, "insufficient funds"):
		return NewAppError("mint signer has insufficient funds", MsgInsufficientFunds, ErrCodeInsufficientFunds, http.StatusPaymentRequired, err)
	default:
		return NewAppError("mint transaction failed", MsgMintFailed, ErrCodeMintFailed, http.StatusBadGateway, err)
	}
}
