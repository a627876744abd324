package errors

import (
	stderrors "errors"
	"net/http"
	"strings"
)

// MapError converts a technical error into a user-friendly AppError.
func MapError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}

	technicalMessage := err.Error()
	lower := strings.ToLower(technicalMessage)

	// Map specific error patterns to user-friendly errors
	switch {
	case strings.Contains(lower, "user rejected") || strings.Contains(lower, "user denied") || strings.Contains(lower, "insufficient funds"):
		return MintFailed(err)
	case strings.Contains(lower, "rate limit"):
		return NewAppError(technicalMessage, MsgRateLimited, ErrCodeRateLimited, http.StatusTooManyRequests, err)
	case strings.Contains(lower, "context deadline exceeded") || strings.Contains(lower, "connection refused"):
		return NewAppError(technicalMessage, MsgServiceUnavailable, ErrCodeServiceUnavailable, http.StatusServiceUnavailable, err)
	default:
		return NewAppError(technicalMessage, MsgInternalError, ErrCodeInternal, http.StatusInternalServerError, err)
	}
}

// Body renders the JSON error body for an AppError.
func (e *AppError) Body() map[string]interface{} {
	body := map[string]interface{}{
		"error": e.UserMessage,
		"code":  e.Code,
	}
	if e.Suggestion != "" {
		body["suggestion"] = e.Suggestion
	}
	for k, v := range e.Extra {
		body[k] = v
	}
	return body
}
