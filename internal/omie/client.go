package omie

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/triadeinvest/omie-sync/internal/logger"
)

const DefaultBaseURL = "https://app.omie.com.br/api/v1/"

// APIError is a non-retryable rejection from the ERP (4xx), with the response
// body attached for diagnosis.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("omie returned status %d: %s", e.Status, e.Body)
}

// Client speaks Omie's procedure-style JSON API: every request is a POST of
// {call, app_key, app_secret, param} to a resource endpoint.
type Client struct {
	baseURL    string
	appKey     string
	appSecret  string
	httpClient *http.Client
	log        *logger.Logger

	maxRetries int
	retryBase  time.Duration
}

func NewClient(baseURL, appKey, appSecret string, log *logger.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		appKey:     appKey,
		appSecret:  appSecret,
		httpClient: &http.Client{Timeout: 45 * time.Second},
		log:        log,
		maxRetries: 3,
		retryBase:  500 * time.Millisecond,
	}
}

type callEnvelope struct {
	Call      string `json:"call"`
	AppKey    string `json:"app_key"`
	AppSecret string `json:"app_secret"`
	Param     []any  `json:"param"`
}

// Call invokes one remote procedure. Network failures and 5xx responses are
// retried with exponential backoff; 4xx responses are surfaced immediately
// as *APIError.
func (c *Client) Call(ctx context.Context, endpoint, call string, params map[string]any) (json.RawMessage, error) {
	const component = "OmieClient"

	body, err := json.Marshal(callEnvelope{
		Call:      call,
		AppKey:    c.appKey,
		AppSecret: c.appSecret,
		Param:     []any{params},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request for %s: %w", call, err)
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := c.retryBase * time.Duration(1<<(attempt-1))
			c.log.Warn(component, "Retrying call: call=%s attempt=%d delay=%s lastErr=%v", call, attempt, delay, lastErr)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		raw, retryable, err := c.doOnce(ctx, endpoint, body)
		if err == nil {
			return raw, nil
		}
		if !retryable {
			return nil, err
		}
		lastErr = err
	}

	return nil, fmt.Errorf("call %s failed after %d attempts: %w", call, c.maxRetries+1, lastErr)
}

func (c *Client) doOnce(ctx context.Context, endpoint string, body []byte) (json.RawMessage, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, false, ctx.Err()
		}
		return nil, true, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, err
	}

	switch {
	case resp.StatusCode >= 500:
		return nil, true, fmt.Errorf("omie returned status %d", resp.StatusCode)
	case resp.StatusCode >= 400:
		return nil, false, &APIError{Status: resp.StatusCode, Body: string(respBody)}
	}

	return respBody, false, nil
}
