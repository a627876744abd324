// Package opendata is a client for the New Taipei City real-price registration dataset.
package opendata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"onchain-re-lending/internal/models"
	"onchain-re-lending/pkg/logger"
	"onchain-re-lending/pkg/metrics"
)

const (
	FilteredPageSize = 100
	BulkPageSize     = 1000

	maxBodyBytes = 32 << 20
)

// Step labels which query of the resolution cascade issued a request.
type Step string

const (
	StepFiltered     Step = "filtered"
	StepBulk         Step = "bulk"
	StepMainStreet   Step = "main_street"
	StepDistrictOnly Step = "district_only"
)

var (
	// ErrHTMLResponse means the endpoint answered an HTML page, which it does when it
	// rejects a $filter expression, often with a 200 status.
	ErrHTMLResponse = errors.New("open-data endpoint returned HTML instead of JSON")
	ErrBadStatus    = errors.New("open-data endpoint returned a non-success status")
)

// UpstreamError describes a failed open-data request.
type UpstreamError struct {
	URL         string
	StatusCode  int
	ContentType string
	Err         error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("open-data request failed: url=%s, status=%d, content_type=%s: %v", e.URL, e.StatusCode, e.ContentType, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Client queries the open-data endpoint. It holds no per-request state.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// NewClient creates a new open-data client
func NewClient(baseURL, userAgent string, timeout time.Duration) *Client {
	return &Client{
		baseURL:   baseURL,
		userAgent: userAgent,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// BuildQueryURL returns the filtered, paginated query URL. Absent inputs drop their clause.
func (c *Client) BuildQueryURL(district, street string) string {
	params := url.Values{}
	params.Set("page", "0")
	params.Set("size", fmt.Sprintf("%d", FilteredPageSize))

	var filters []string
	if district != "" {
		filters = append(filters, fmt.Sprintf("district eq '%s'", quote(district)))
	}
	if street != "" {
		filters = append(filters, fmt.Sprintf("rps02 like '%s'", quote(street)))
	}
	if len(filters) > 0 {
		params.Set("$filter", strings.Join(filters, " and "))
	}
	return c.baseURL + "?" + params.Encode()
}

// BuildBulkURL returns the unfiltered URL used when the filtered query is rejected.
func (c *Client) BuildBulkURL() string {
	params := url.Values{}
	params.Set("page", "0")
	params.Set("size", fmt.Sprintf("%d", BulkPageSize))
	return c.baseURL + "?" + params.Encode()
}

// Fetch issues one GET and decodes the record array. Non-2xx responses and HTML
// payloads are reported as *UpstreamError.
func (c *Client) Fetch(ctx context.Context, step Step, rawURL string) ([]models.PropertyRecord, error) {
	start := time.Now()
	defer func() {
		metrics.OpenDataRequestDuration.WithLabelValues(string(step)).Observe(time.Since(start).Seconds())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		logger.GlobalLogger.Errorf("Failed to create open-data request: step=%s, url=%s, error=%v", step, rawURL, err)
		metrics.OpenDataRequestsTotal.WithLabelValues(string(step), "error").Inc()
		return nil, fmt.Errorf("failed to create open-data request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.GlobalLogger.Errorf("Failed to send open-data request: step=%s, url=%s, error=%v", step, rawURL, err)
		metrics.OpenDataRequestsTotal.WithLabelValues(string(step), "error").Inc()
		return nil, &UpstreamError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	contentType := resp.Header.Get("Content-Type")
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		logger.GlobalLogger.Errorf("Open-data request failed: step=%s, url=%s, status=%s, response=%s", step, rawURL, resp.Status, string(body))
		metrics.OpenDataRequestsTotal.WithLabelValues(string(step), "bad_status").Inc()
		return nil, &UpstreamError{URL: rawURL, StatusCode: resp.StatusCode, ContentType: contentType, Err: ErrBadStatus}
	}
	if strings.Contains(strings.ToLower(contentType), "text/html") {
		logger.GlobalLogger.Printf("Open-data endpoint answered HTML: step=%s, url=%s, status=%s", step, rawURL, resp.Status)
		metrics.OpenDataRequestsTotal.WithLabelValues(string(step), "html").Inc()
		return nil, &UpstreamError{URL: rawURL, StatusCode: resp.StatusCode, ContentType: contentType, Err: ErrHTMLResponse}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		logger.GlobalLogger.Errorf("Failed to read open-data response body: step=%s, url=%s, status=%s, error=%v", step, rawURL, resp.Status, err)
		metrics.OpenDataRequestsTotal.WithLabelValues(string(step), "error").Inc()
		return nil, &UpstreamError{URL: rawURL, StatusCode: resp.StatusCode, ContentType: contentType, Err: err}
	}

	var records []models.PropertyRecord
	if err := json.Unmarshal(body, &records); err != nil {
		logger.GlobalLogger.Errorf("Failed to decode open-data response: step=%s, url=%s, error=%v", step, rawURL, err)
		metrics.OpenDataRequestsTotal.WithLabelValues(string(step), "decode_error").Inc()
		return nil, &UpstreamError{URL: rawURL, StatusCode: resp.StatusCode, ContentType: contentType, Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	metrics.OpenDataRequestsTotal.WithLabelValues(string(step), "ok").Inc()
	logger.GlobalLogger.Debugf("Open-data records retrieved: step=%s, url=%s, count=%d", step, rawURL, len(records))
	return records, nil
}

// quote escapes a literal for the $filter expression.
func quote(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
