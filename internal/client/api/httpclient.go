package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/farmlingo/farmlingo/internal/client/models"
	"github.com/farmlingo/farmlingo/internal/client/notify"
	"github.com/farmlingo/farmlingo/internal/logging"
)

const (
	pathUsersSync = "/api/users/sync"
	pathUsersMe   = "/api/users/me"

	defaultRequestTimeout = 15 * time.Second
	defaultTokenTimeout   = 5 * time.Second

	// maxResponseBody bounds how much of a response we are willing to read.
	maxResponseBody = 1 << 20
)

// ClientConfig carries construction parameters for HTTPClient. Zero values
// fall back to defaults: 15s request timeout, 5s token-fetch timeout, a
// discarding notifier and logger.
type ClientConfig struct {
	// BaseURL is prepended to every request path. Empty means the paths are
	// used as-is (same-origin deployments behind a proxy).
	BaseURL        string
	RequestTimeout time.Duration
	TokenTimeout   time.Duration
	Notifier       notify.Notifier
	Logger         logging.Logger
}

// HTTPClient is the concrete Client over net/http. A single instance is meant
// to be shared by all backend calls; it is safe for concurrent use.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	do      Doer
	logger  logging.Logger

	mu       sync.RWMutex
	getToken TokenGetter
}

func NewHTTPClient(cfg ClientConfig) *HTTPClient {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}
	if cfg.TokenTimeout <= 0 {
		cfg.TokenTimeout = defaultTokenTimeout
	}
	if cfg.Notifier == nil {
		cfg.Notifier = notify.NopNotifier{}
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.NewDiscardLogger()
	}

	c := &HTTPClient{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: cfg.RequestTimeout},
		logger:  cfg.Logger,
	}

	base := func(req *http.Request) (*http.Response, error) {
		return c.http.Do(req)
	}

	c.do = Chain(
		WithRequestID(),
		WithAuthToken(c.currentGetter, cfg.TokenTimeout, cfg.Logger),
		WithLogging(cfg.Logger),
		WithClassification(cfg.Notifier, cfg.Logger),
	)(base)

	return c
}

// Configure registers the asynchronous token getter. It may be called any
// number of times; the latest registration wins. Until the first call (or
// after Configure(nil)) requests proceed unauthenticated.
func (c *HTTPClient) Configure(get TokenGetter) {
	c.mu.Lock()
	c.getToken = get
	c.mu.Unlock()
}

func (c *HTTPClient) currentGetter() TokenGetter {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.getToken
}

// request issues one HTTP call through the middleware pipeline. body, when
// non-nil, is marshaled as JSON. Exactly one attempt, no retries.
func (c *HTTPClient) request(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req)
}

// decodeUser reads a user envelope from resp. For non-2xx statuses it returns
// a *StatusError carrying the server's message when one could be decoded.
func decodeUser(resp *http.Response) (*models.User, error) {
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	var env envelope
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Error bodies are not guaranteed to be JSON; take the message if we
		// can get one.
		_ = json.Unmarshal(data, &env)
		return nil, &StatusError{Status: resp.StatusCode, Message: env.Message}
	}

	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode response body: %w", err)
	}
	if env.Data == nil {
		return nil, fmt.Errorf("malformed response: missing user data")
	}
	return env.Data.toModel(), nil
}

func (c *HTTPClient) SyncUser(ctx context.Context, req SyncUserRequest) (*models.User, error) {
	resp, err := c.request(ctx, http.MethodPost, pathUsersSync, req)
	if err != nil {
		return nil, fmt.Errorf("sync user: %w (%w)", ErrUnavailable, err)
	}
	return decodeUser(resp)
}

func (c *HTTPClient) CurrentUser(ctx context.Context) (*models.User, error) {
	resp, err := c.request(ctx, http.MethodGet, pathUsersMe, nil)
	if err != nil {
		return nil, fmt.Errorf("current user: %w (%w)", ErrUnavailable, err)
	}
	return decodeUser(resp)
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}
