package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/farmlingo/farmlingo/internal/client/identity"
)

// getToken and getSimpleText are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getToken = GetToken
var getSimpleText = GetSimpleText

// Login prompts for a session token, validates it locally and signs the
// session in. The actual credential flow (issuing the token) happens outside
// the CLI; we only consume the resulting JWT.
//
// On success the API client starts attaching the token to outgoing requests
// and a background sync pushes the identity profile to the server. An expired
// token is rejected with a hint; other parse errors are returned unchanged.
func (a *App) Login(ctx context.Context) error {
	raw, err := getToken(a.out)
	if err != nil {
		// stdin is not a terminal; fall back to plain line input
		raw, err = getSimpleText(a.reader, "Session token", a.out)
		if err != nil {
			return err
		}
	}

	return a.signIn(ctx, raw)
}

// loginFromFile signs in with a token stored on disk, for non-interactive use.
func (a *App) loginFromFile(ctx context.Context, path string) error {
	provider, err := identity.FromFile(path)
	if err != nil {
		return err
	}
	a.completeSignIn(ctx, provider)
	return nil
}

func (a *App) signIn(ctx context.Context, raw string) error {
	provider, err := identity.FromToken(raw)
	if err != nil {
		if errors.Is(err, identity.ErrTokenExpired) {
			fmt.Fprintln(a.out, "Token is expired, please obtain a fresh one.")
			return err
		}
		fmt.Fprintln(a.out, "Could not read token:", err)
		return err
	}

	a.completeSignIn(ctx, provider)
	return nil
}

func (a *App) completeSignIn(ctx context.Context, provider *identity.TokenProvider) {
	a.provider = provider
	a.client.Configure(provider.Token)
	a.store.SetAuth(true, true)

	profile, err := provider.Profile()
	if err != nil {
		a.logger.Warn(ctx, "token accepted but profile incomplete", "error", err)
		return
	}

	fmt.Fprintf(a.out, "Signed in as %s\n", profile.Email)

	// push the profile to the server without blocking the prompt
	go a.store.SyncUser(context.WithoutCancel(ctx), profile)
}

// Logout signs the session out: clears local user state, detaches the token
// getter from the API client and drops the identity provider. In-flight sync
// results for the old session are discarded when they land.
func (a *App) Logout(_ context.Context) error {
	a.store.LogoutUser()
	a.client.Configure(nil)
	a.provider = nil
	fmt.Fprintln(a.out, "Signed out.")
	return nil
}
