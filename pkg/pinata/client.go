// Package pinata pins JSON documents and files to IPFS through the Pinata API.
package pinata

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"onchain-re-lending/pkg/logger"
	"onchain-re-lending/pkg/metrics"

	"github.com/google/uuid"
)

const ipfsScheme = "ipfs://"

// Pinner stores content on IPFS and returns its ipfs:// URI.
type Pinner interface {
	PinJSON(ctx context.Context, name string, content interface{}) (string, error)
	PinFile(ctx context.Context, filename string, r io.Reader) (string, error)
	GatewayURL(uri string) string
}

type Client struct {
	baseURL    string
	gatewayURL string
	apiKey     string
	secretKey  string
	httpClient *http.Client
	now        func() time.Time
}

// NewClient creates a Pinata client. Without both keys it runs in mock mode and
// returns synthetic CIDs without any network call.
func NewClient(baseURL, gatewayURL, apiKey, secretKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		gatewayURL: strings.TrimRight(gatewayURL, "/"),
		apiKey:     apiKey,
		secretKey:  secretKey,
		httpClient: &http.Client{Timeout: timeout},
		now:        time.Now,
	}
}

// Mock reports whether the client is missing credentials.
func (c *Client) Mock() bool {
	return c.apiKey == "" || c.secretKey == ""
}

type pinResponse struct {
	IpfsHash  string `json:"IpfsHash"`
	PinSize   int64  `json:"PinSize"`
	Timestamp string `json:"Timestamp"`
}

type pinataMetadata struct {
	Name string `json:"name"`
}

// PinJSON pins content as "<name>_metadata.json".
func (c *Client) PinJSON(ctx context.Context, name string, content interface{}) (string, error) {
	if c.Mock() {
		logger.GlobalLogger.Warnf("Pinata API keys are not set, returning a mock URI: name=%s", name)
		metrics.PinsTotal.WithLabelValues("json", "mock").Inc()
		return fmt.Sprintf("%sQmMock%d%s", ipfsScheme, c.now().UnixMilli(), strings.ReplaceAll(uuid.NewString(), "-", "")[:6]), nil
	}

	payload, err := json.Marshal(struct {
		PinataContent  interface{}    `json:"pinataContent"`
		PinataMetadata pinataMetadata `json:"pinataMetadata"`
	}{
		PinataContent:  content,
		PinataMetadata: pinataMetadata{Name: name + "_metadata.json"},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal pin payload: %w", err)
	}

	return c.pin(ctx, "json", "/pinning/pinJSONToIPFS", "application/json", bytes.NewReader(payload))
}

// PinFile pins the bytes read from r under filename.
func (c *Client) PinFile(ctx context.Context, filename string, r io.Reader) (string, error) {
	if c.Mock() {
		logger.GlobalLogger.Warnf("Pinata API keys are not set, returning a mock URI: file=%s", filename)
		metrics.PinsTotal.WithLabelValues("file", "mock").Inc()
		return fmt.Sprintf("%sQmImageMock%d", ipfsScheme, c.now().UnixMilli()), nil
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return "", fmt.Errorf("failed to copy file: %w", err)
	}
	meta, _ := json.Marshal(pinataMetadata{Name: filename})
	if err := mw.WriteField("pinataMetadata", string(meta)); err != nil {
		return "", fmt.Errorf("failed to write metadata field: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("failed to close multipart writer: %w", err)
	}

	return c.pin(ctx, "file", "/pinning/pinFileToIPFS", mw.FormDataContentType(), &body)
}

func (c *Client) pin(ctx context.Context, kind, path, contentType string, body io.Reader) (string, error) {
	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return "", fmt.Errorf("failed to create pin request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("pinata_api_key", c.apiKey)
	req.Header.Set("pinata_secret_api_key", c.secretKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.PinsTotal.WithLabelValues(kind, "error").Inc()
		logger.GlobalLogger.Errorf("Failed to send pin request: url=%s, error=%v", url, err)
		return "", fmt.Errorf("failed to send pin request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		metrics.PinsTotal.WithLabelValues(kind, "error").Inc()
		return "", fmt.Errorf("failed to read pin response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.PinsTotal.WithLabelValues(kind, "error").Inc()
		logger.GlobalLogger.Errorf("Pinata request failed: url=%s, status=%s, response=%s", url, resp.Status, string(respBody))
		return "", fmt.Errorf("pinata API error: status %d", resp.StatusCode)
	}

	var out pinResponse
	if err := json.Unmarshal(respBody, &out); err != nil || out.IpfsHash == "" {
		metrics.PinsTotal.WithLabelValues(kind, "error").Inc()
		return "", fmt.Errorf("failed to decode pin response: %s", string(respBody))
	}

	metrics.PinsTotal.WithLabelValues(kind, "remote").Inc()
	return ipfsScheme + out.IpfsHash, nil
}

// GatewayURL maps ipfs://cid to an HTTP gateway URL; anything else is returned unchanged.
func (c *Client) GatewayURL(uri string) string {
	if !strings.HasPrefix(uri, ipfsScheme) {
		return uri
	}
	return fmt.Sprintf("%s/ipfs/%s", c.gatewayURL, strings.TrimPrefix(uri, ipfsScheme))
}
