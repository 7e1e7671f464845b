package api

import (
	"context"
	"net/http"
	"time"

	"github.com/farmlingo/farmlingo/internal/client/notify"
	"github.com/farmlingo/farmlingo/internal/logging"
	"github.com/google/uuid"
)

// Doer executes a single HTTP exchange.
type Doer func(*http.Request) (*http.Response, error)

// Middleware decorates a Doer with one cross-cutting concern. Each concern
// (request ids, auth, logging, classification) is a separate decorator so it
// can be tested on its own.
type Middleware func(Doer) Doer

// Chain composes middlewares so that the first listed runs outermost.
func Chain(mws ...Middleware) Middleware {
	return func(next Doer) Doer {
		for i := len(mws) - 1; i >= 0; i-- {
			next = mws[i](next)
		}
		return next
	}
}

// TokenGetter asynchronously resolves the current bearer token. It may return
// an empty token to indicate "no session".
type TokenGetter func(ctx context.Context) (string, error)

// WithRequestID tags each outgoing request with an X-Request-Id header unless
// the caller already set one.
func WithRequestID() Middleware {
	return func(next Doer) Doer {
		return func(req *http.Request) (*http.Response, error) {
			if req.Header.Get("X-Request-Id") == "" {
				req.Header.Set("X-Request-Id", uuid.NewString())
			}
			return next(req)
		}
	}
}

// WithAuthToken attaches "Authorization: Bearer <token>" to each request.
//
// The getter returned by current is awaited with a race against timeout.
// Attachment is best-effort: a nil getter, a getter error, an empty token or
// a timeout all let the request proceed unauthenticated. The middleware never
// blocks past the timeout and never fails the request itself.
func WithAuthToken(current func() TokenGetter, timeout time.Duration, logger logging.Logger) Middleware {
	return func(next Doer) Doer {
		return func(req *http.Request) (*http.Response, error) {
			get := current()
			if get == nil {
				return next(req)
			}

			token, err := fetchToken(req.Context(), get, timeout)
			if err != nil {
				logger.Warn(req.Context(), "token fetch failed, proceeding unauthenticated", "error", err)
			} else if token != "" {
				req.Header.Set("Authorization", "Bearer "+token)
			}
			return next(req)
		}
	}
}

// fetchToken runs the getter in its own goroutine and races it against the
// timeout, so even a getter that ignores its context cannot stall the request.
func fetchToken(ctx context.Context, get TokenGetter, timeout time.Duration) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		token string
		err   error
	}

	ch := make(chan result, 1)
	go func() {
		token, err := get(ctx)
		ch <- result{token: token, err: err}
	}()

	select {
	case r := <-ch:
		return r.token, r.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// WithLogging records each exchange at debug level.
func WithLogging(logger logging.Logger) Middleware {
	return func(next Doer) Doer {
		return func(req *http.Request) (*http.Response, error) {
			start := time.Now()
			resp, err := next(req)

			args := []any{"method", req.Method, "path", req.URL.Path, "duration", time.Since(start)}
			if err != nil {
				logger.Debug(req.Context(), "request failed", append(args, "error", err)...)
			} else {
				logger.Debug(req.Context(), "request finished", append(args, "status", resp.StatusCode)...)
			}
			return resp, err
		}
	}
}

// WithClassification turns transport outcomes into user-facing notifications:
// 401 session expired, 403 permission denied, 5xx server error, and transport
// failures (no response at all) network error. Exactly one notification fires
// per call; repeated 401s notify repeatedly, no dedup. The response or error
// always propagates to the caller unchanged.
func WithClassification(notifier notify.Notifier, logger logging.Logger) Middleware {
	return func(next Doer) Doer {
		return func(req *http.Request) (*http.Response, error) {
			resp, err := next(req)
			if err != nil {
				notifier.Notify(req.Context(), notify.KindNetworkError, "")
				logger.Error(req.Context(), "network error", "method", req.Method, "path", req.URL.Path, "error", err)
				return resp, err
			}

			switch {
			case resp.StatusCode == http.StatusUnauthorized:
				notifier.Notify(req.Context(), notify.KindSessionExpired, "")
				logger.Warn(req.Context(), "unauthorized response", "path", req.URL.Path)
			case resp.StatusCode == http.StatusForbidden:
				notifier.Notify(req.Context(), notify.KindPermissionDenied, "")
				logger.Warn(req.Context(), "forbidden response", "path", req.URL.Path)
			case resp.StatusCode >= http.StatusInternalServerError:
				notifier.Notify(req.Context(), notify.KindServerError, "")
				logger.Error(req.Context(), "server error response", "path", req.URL.Path, "status", resp.StatusCode)
			}
			return resp, nil
		}
	}
}
