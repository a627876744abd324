// Package identity delegates zero-knowledge identity proof verification to a
// verifier service and reports the validity checks it performed.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"onchain-re-lending/pkg/logger"
)

var ErrNotConfigured = errors.New("identity verifier URL is not configured")

// VerifyRequest carries the proof exactly as the relayer posted it.
type VerifyRequest struct {
	AttestationID   interface{}   `json:"attestationId"`
	Proof           interface{}   `json:"proof"`
	PublicSignals   []interface{} `json:"publicSignals"`
	UserContextData string        `json:"userContextData"`
}

type IsValidDetails struct {
	IsValid           bool `json:"isValid"`
	IsMinimumAgeValid bool `json:"isMinimumAgeValid"`
	IsOfacValid       bool `json:"isOfacValid"`
}

type VerifyResult struct {
	IsValidDetails IsValidDetails         `json:"isValidDetails"`
	DiscloseOutput map[string]interface{} `json:"discloseOutput,omitempty"`
	UserIdentifier string                 `json:"userIdentifier,omitempty"`
}

// Verifier checks an identity proof.
type Verifier interface {
	Verify(ctx context.Context, req VerifyRequest) (*VerifyResult, error)
}

// Scope identifies this application to the verifier and the disclosure rules it enforces.
type Scope struct {
	AppName    string
	Endpoint   string
	MinimumAge int
	OFAC       bool
}

type httpVerifier struct {
	url        string
	scope      Scope
	httpClient *http.Client
}

// NewHTTPVerifier posts proofs to a verifier service at url.
func NewHTTPVerifier(url string, scope Scope, timeout time.Duration) Verifier {
	return &httpVerifier{
		url:        url,
		scope:      scope,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type verifyPayload struct {
	Scope      string `json:"scope"`
	Endpoint   string `json:"endpoint"`
	MinimumAge int    `json:"minimumAge"`
	OFAC       bool   `json:"ofac"`
	VerifyRequest
}

type verifyResponse struct {
	VerifyResult
	UserData struct {
		UserIdentifier string `json:"userIdentifier"`
	} `json:"userData"`
}

func (v *httpVerifier) Verify(ctx context.Context, req VerifyRequest) (*VerifyResult, error) {
	if v.url == "" {
		return nil, ErrNotConfigured
	}

	payload, err := json.Marshal(verifyPayload{
		Scope:         v.scope.AppName,
		Endpoint:      v.scope.Endpoint,
		MinimumAge:    v.scope.MinimumAge,
		OFAC:          v.scope.OFAC,
		VerifyRequest: req,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal verify request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, v.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create verify request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := v.httpClient.Do(httpReq)
	if err != nil {
		logger.GlobalLogger.Errorf("Failed to send verify request: url=%s, error=%v", v.url, err)
		return nil, fmt.Errorf("failed to send verify request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read verify response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		logger.GlobalLogger.Errorf("Verifier request failed: url=%s, status=%s, response=%s", v.url, resp.Status, string(body))
		return nil, fmt.Errorf("verifier returned status %d", resp.StatusCode)
	}

	var out verifyResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to decode verify response: %w", err)
	}
	if out.UserIdentifier == "" {
		out.UserIdentifier = out.UserData.UserIdentifier
	}
	return &out.VerifyResult, nil
}
