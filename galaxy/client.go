package galaxy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pvanheus/galaxy-bulk-upload-from-server/galaxy/errors"
	"github.com/pvanheus/galaxy-bulk-upload-from-server/galaxy/galaxytypes"
)

const (
	defaultUserAgent      = "bulk-upload-to-library/1.0"
	defaultMaxRetries     = 3
	defaultRetryBaseDelay = 500 * time.Millisecond
	defaultRetryMaxDelay  = 10 * time.Second
	defaultPollInterval   = 2 * time.Second
	defaultPollTimeout    = 10 * time.Minute

	// maxErrorBodyBytes bounds how much of an error response is read when
	// extracting the server-side message.
	maxErrorBodyBytes = 16 * 1024
)

// Client provides a high-level interface for the Galaxy data library API.
type Client struct {
	baseURL    *url.URL
	apiKey     string
	userAgent  string
	httpClient *http.Client

	logger *slog.Logger

	maxRetries     int
	retryBaseDelay time.Duration
	retryMaxDelay  time.Duration

	pollInterval time.Duration
	pollTimeout  time.Duration
}

// NewClient creates a new Galaxy client for the instance at baseURL,
// authenticating with apiKey.
//
// Example usage:
//
//	client, err := galaxy.NewClient("https://usegalaxy.org", apiKey,
//	    galaxy.WithLogger(slog.Default()),
//	    galaxy.WithPollInterval(5*time.Second),
//	)
func NewClient(baseURL, apiKey string, opts ...galaxytypes.Option) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.NewError("newClient", errors.ErrInvalidInput).
			WithMessage("galaxy URL cannot be empty")
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.NewError("newClient", errors.ErrInvalidInput).
			WithMessage("API key cannot be empty")
	}

	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.NewError("newClient", errors.ErrInvalidInput).
			WithMessage(fmt.Sprintf("invalid galaxy URL %q", baseURL))
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, errors.NewError("newClient", errors.ErrInvalidInput).
			WithMessage(fmt.Sprintf("galaxy URL %q must use http or https", baseURL))
	}

	cfg := &galaxytypes.ClientConfig{
		UserAgent:      defaultUserAgent,
		MaxRetries:     defaultMaxRetries,
		RetryBaseDelay: defaultRetryBaseDelay,
		RetryMaxDelay:  defaultRetryMaxDelay,
		PollInterval:   defaultPollInterval,
		PollTimeout:    defaultPollTimeout,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:        parsed,
		apiKey:         apiKey,
		userAgent:      cfg.UserAgent,
		httpClient:     httpClient,
		logger:         logger,
		maxRetries:     cfg.MaxRetries,
		retryBaseDelay: cfg.RetryBaseDelay,
		retryMaxDelay:  cfg.RetryMaxDelay,
		pollInterval:   cfg.PollInterval,
		pollTimeout:    cfg.PollTimeout,
	}, nil
}

// BaseURL returns the Galaxy instance URL this client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// bodyFunc builds a fresh request body for each attempt so that failed
// requests can be retried. A nil bodyFunc means no request body.
type bodyFunc func() (io.Reader, string, error)

// jsonBody returns a bodyFunc that serializes v as a JSON request body.
func jsonBody(v any) bodyFunc {
	return func() (io.Reader, string, error) {
		data, err := json.Marshal(v)
		if err != nil {
			return nil, "", fmt.Errorf("encode request: %w", err)
		}
		return bytes.NewReader(data), "application/json", nil
	}
}

// do performs an API request with retries and decodes the JSON response
// into out when out is non-nil. Throttling (429), server errors (5xx) and
// transport failures are retried with exponential backoff and jitter; all
// other failures return immediately.
func (c *Client) do(ctx context.Context, method, apiPath string, makeBody bodyFunc, out any) error {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := c.retryDelay(attempt)
			c.logger.Debug("retrying galaxy request",
				"method", method, "path", apiPath, "attempt", attempt, "delay", delay)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return fmt.Errorf("%w: %v", errors.ErrConnection, ctx.Err())
			}
		}

		err := c.doOnce(ctx, method, apiPath, makeBody, out)
		if err == nil {
			return nil
		}
		lastErr = err

		if ctx.Err() != nil || !errors.IsRetryable(err) {
			return err
		}
	}

	return lastErr
}

// doOnce performs a single API request attempt.
func (c *Client) doOnce(ctx context.Context, method, apiPath string, makeBody bodyFunc, out any) error {
	var body io.Reader
	var contentType string
	if makeBody != nil {
		var err error
		body, contentType, err = makeBody()
		if err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.JoinPath(apiPath).String(), body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", errors.ErrConnection, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.statusError(resp)
	}

	if out == nil {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// statusError maps an HTTP error response to a sentinel-wrapped error,
// carrying the server-side message when one is present.
func (c *Client) statusError(resp *http.Response) error {
	msg := serverMessage(resp.Body)

	var sentinel error
	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		sentinel = errors.ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		sentinel = errors.ErrNotFound
	case resp.StatusCode == http.StatusTooManyRequests:
		sentinel = errors.ErrTooManyRequests
	case resp.StatusCode >= 500:
		sentinel = errors.ErrServer
	default:
		sentinel = errors.ErrInvalidInput
	}

	if msg != "" {
		return fmt.Errorf("%w: HTTP %d: %s", sentinel, resp.StatusCode, msg)
	}
	return fmt.Errorf("%w: HTTP %d", sentinel, resp.StatusCode)
}

// serverMessage extracts Galaxy's err_msg from an error response body.
func serverMessage(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, maxErrorBodyBytes))
	if err != nil {
		return ""
	}
	var galaxyErr struct {
		ErrMsg string `json:"err_msg"`
	}
	if err := json.Unmarshal(data, &galaxyErr); err == nil && galaxyErr.ErrMsg != "" {
		return galaxyErr.ErrMsg
	}
	return strings.TrimSpace(string(data))
}

// retryDelay computes the backoff delay for the given attempt number,
// using exponential backoff with jitter to avoid thundering herds.
func (c *Client) retryDelay(attempt int) time.Duration {
	delay := time.Duration(math.Pow(2, float64(attempt-1))) * c.retryBaseDelay
	if delay > c.retryMaxDelay {
		delay = c.retryMaxDelay
	}
	// Add up to 25% jitter.
	jitter := time.Duration(rand.Int63n(int64(delay)/4 + 1))
	return delay + jitter
}
