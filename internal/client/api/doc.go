// Package api contains the authenticated HTTP client shared by all Farmlingo
// backend calls.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface) to talk to
//     the Farmlingo backend: SyncUser and CurrentUser.
//  2. A concrete net/http implementation (see HTTPClient) that composes
//     explicit middleware around a base request function: request-id tagging,
//     best-effort bearer-token attachment, request logging, and outcome
//     classification into user-facing notifications.
//  3. Typed failures (see StatusError) carrying the HTTP status and the
//     server-supplied message for non-2xx responses.
//
// # Token attachment
//
// The token getter registered via Configure is awaited with a race against an
// internal timeout. A getter error or timeout degrades the request to
// unauthenticated; it never fails or blocks the call itself.
//
// # Error handling
//
// Classification is a side effect only: 401, 403, 5xx and transport failures
// raise exactly one notification per call, and the original response or error
// still propagates to the caller. The client performs no retries and no
// backoff; every logical call is exactly one attempt.
//
// Implementations are safe for concurrent use. All operations accept a
// context.Context and honor cancellation.
package api
