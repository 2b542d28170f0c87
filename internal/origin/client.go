// Package origin is the HTTP client for the external scraper microservice.
// The origin service talks to the live court portals and persists results
// directly into the shared cache store; this client only triggers fetches
// and reads back whatever the response body carries inline.
package origin

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rahul-omni/legal-ai-sub001/pkg/logger"
)

// Endpoint suffixes, one per court type
const (
	EndpointSupremeCourtOTF    = "supremeCourtOTF"
	EndpointHighCourtUpsert    = "highCourtCasesUpsert"
	EndpointDistrictJudgments  = "fetchDistrictCourtJudgments"
	EndpointEastDelhiJudgments = "fetchEastDelhiDistrictJudgments"
	EndpointNCLTJudgments      = "fetchNCLTCourtJudgments"
)

// ErrUnavailable marks timeout/network/server-class failures, which are
// retryable under the backoff policy
var ErrUnavailable = errors.New("origin service unavailable")

// ErrRejected marks 4xx-class responses, which are never retried
var ErrRejected = errors.New("origin service rejected request")

// IsUnavailable reports whether err is a retryable origin failure
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

// Request is a single trigger call: an endpoint suffix plus its JSON payload
type Request struct {
	Endpoint string
	Payload  interface{}
}

// Case is the inline case data some origin endpoints return
type Case struct {
	CaseNumber  string `json:"case_number"`
	DiaryNumber string `json:"diary_number"`
}

// TriggerResult is the parsed origin response
type TriggerResult struct {
	StatusCode int
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	Data       []Case `json:"data"`
}

// Client calls the origin scraper service
type Client struct {
	baseURL    string
	httpClient *http.Client
	policy     BackoffPolicy
	logger     *logger.Logger
}

func NewClient(baseURL string, timeout time.Duration, policy BackoffPolicy, log *logger.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		policy:     policy,
		logger:     log,
	}
}

// Trigger POSTs the payload to the endpoint and parses the response. Network
// failures, timeouts and 5xx responses are retried per the backoff policy;
// 4xx responses fail immediately.
func (c *Client) Trigger(ctx context.Context, req Request) (*TriggerResult, error) {
	var result *TriggerResult

	err := c.policy.Do(ctx, func() error {
		res, err := c.post(ctx, req)
		if err != nil {
			return err
		}
		result = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) post(ctx context.Context, req Request) (*TriggerResult, error) {
	body, err := json.Marshal(req.Payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode origin payload: %w", err)
	}

	url := c.baseURL + "/" + req.Endpoint
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build origin request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	c.logger.Debug("Triggering origin fetch", "endpoint", req.Endpoint)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Warn("Origin call failed", "endpoint", req.Endpoint, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrUnavailable, err)
	}

	switch {
	case resp.StatusCode >= 500:
		c.logger.Warn("Origin returned server error",
			"endpoint", req.Endpoint,
			"status", resp.StatusCode,
		)
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	case resp.StatusCode >= 400:
		return nil, fmt.Errorf("%w: status %d", ErrRejected, resp.StatusCode)
	}

	result := &TriggerResult{StatusCode: resp.StatusCode}
	if len(respBody) > 0 {
		// Some endpoints return an empty body on success
		if err := json.Unmarshal(respBody, result); err != nil {
			c.logger.Warn("Origin response not parseable, treating as opaque success",
				"endpoint", req.Endpoint,
				"error", err,
			)
		}
	}
	return result, nil
}
