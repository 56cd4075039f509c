package payment

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Mode selects the Dodo environment.
type Mode string

const (
	ModeTest Mode = "test"
	ModeLive Mode = "live"
)

// Environment base URLs.
const (
	TestBaseURL = "https://test.dodopayments.com"
	LiveBaseURL = "https://live.dodopayments.com"
)

// maxBodySample bounds how much of an upstream body is retained for
// logs and debug responses.
const maxBodySample = 2048

// Config configures the Dodo client.
type Config struct {
	// Mode selects the environment ("test" or "live").
	// Default: test
	Mode Mode

	// BaseURL overrides the environment URL. Used in tests.
	BaseURL string

	// APIKey is the Dodo secret key sent as a bearer token.
	APIKey string

	// Timeout bounds each HTTP attempt.
	// Default: 15s
	Timeout time.Duration

	// Debug enables the raw probe endpoint.
	Debug bool
}

// Response is an upstream reply passed through to the caller.
type Response struct {
	// URL is the upstream endpoint the request went to.
	URL string

	Status      int
	ContentType string
	Body        []byte
}

// IsJSON reports whether the upstream replied with a JSON body.
func (r *Response) IsJSON() bool {
	return strings.Contains(r.ContentType, "application/json")
}

// OK reports whether the upstream replied 2xx.
func (r *Response) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

// BodySample returns at most maxBodySample bytes of the body, for
// logs and error details.
func (r *Response) BodySample() string {
	if len(r.Body) <= maxBodySample {
		return string(r.Body)
	}
	return string(r.Body[:maxBodySample])
}

// Client is a Dodo Payments API client.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logger     *slog.Logger

	// newIdempotencyKey is swappable in tests.
	newIdempotencyKey func() string
}

// NewClient creates a Dodo client.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		if cfg.Mode == ModeLive {
			baseURL = LiveBaseURL
		} else {
			baseURL = TestBaseURL
		}
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &Client{
		httpClient:        &http.Client{Timeout: timeout},
		baseURL:           baseURL,
		apiKey:            cfg.APIKey,
		logger:            logger,
		newIdempotencyKey: uuid.NewString,
	}
}

// CreateCheckout posts a checkout session payload to Dodo and returns
// the upstream reply verbatim. Non-2xx replies are returned as a
// Response, not an error; the caller decides how to surface them. An
// error means no usable reply after retry.
func (c *Client) CreateCheckout(ctx context.Context, payload []byte) (*Response, error) {
	return c.post(ctx, "/checkouts", payload, true)
}

// Probe sends a payload to an arbitrary Dodo path with no retry.
// Serves the debug endpoint; never enabled in production config.
func (c *Client) Probe(ctx context.Context, path string, payload []byte) (*Response, error) {
	return c.post(ctx, path, payload, false)
}

func (c *Client) post(ctx context.Context, path string, payload []byte, retry bool) (*Response, error) {
	idempotencyKey := c.newIdempotencyKey()

	attempts := 1
	if retry {
		attempts = 2
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		resp, err := c.attempt(ctx, path, payload, idempotencyKey)
		if err != nil {
			lastErr = err
			c.logger.Warn("dodo request failed",
				"path", path,
				"attempt", attempt,
				"error", err)
			continue
		}

		// Retry once on 5xx; the idempotency key makes the replay safe.
		if resp.Status >= 500 && attempt < attempts {
			c.logger.Warn("dodo returned server error, retrying",
				"path", path,
				"status", resp.Status,
				"attempt", attempt)
			continue
		}

		return resp, nil
	}

	return nil, fmt.Errorf("dodo %s: %w", path, lastErr)
}

func (c *Client) attempt(ctx context.Context, path string, payload []byte, idempotencyKey string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", idempotencyKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return &Response{
		URL:         req.URL.String(),
		Status:      resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}
