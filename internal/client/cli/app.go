// Package cli implements the interactive Farmlingo client: a small REPL over
// the session store, the authenticated API client and the community views.
package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/farmlingo/farmlingo/internal/client/api"
	"github.com/farmlingo/farmlingo/internal/client/community"
	"github.com/farmlingo/farmlingo/internal/client/config"
	"github.com/farmlingo/farmlingo/internal/client/identity"
	"github.com/farmlingo/farmlingo/internal/client/localstate"
	"github.com/farmlingo/farmlingo/internal/client/notify"
	"github.com/farmlingo/farmlingo/internal/client/session"
	"github.com/farmlingo/farmlingo/internal/logging"
)

type App struct {
	config   *config.Config
	db       *sql.DB
	client   *api.HTTPClient
	store    *session.Store
	provider *identity.TokenProvider
	thread   *community.Thread
	feed     *community.Feed
	logger   logging.Logger
	reader   *bufio.Reader
	out      io.Writer
}

func NewApp(ctx context.Context, cfg *config.Config, logger logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}

	db, err := localstate.Open(ctx, cfg.StateDBPath)
	if err != nil {
		return nil, fmt.Errorf("init local state: %w", err)
	}

	client := api.NewHTTPClient(api.ClientConfig{
		BaseURL:        cfg.APIBaseURL,
		RequestTimeout: cfg.RequestTimeout,
		TokenTimeout:   cfg.TokenTimeout,
		Notifier:       notify.NewWriterNotifier(os.Stdout),
		Logger:         logger.With("component", "api"),
	})

	store := session.New(ctx, client, session.NewLocalStatePersister(db), logger.With("component", "session"))

	return &App{
		config: cfg,
		db:     db,
		client: client,
		store:  store,
		thread: community.SeedGeneralThread(),
		feed:   community.SeedFeed(),
		logger: logger,
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}, nil
}

func (a *App) isSignedIn() bool {
	return a.store.Snapshot().IsSignedIn
}

// getStatus renders the prompt suffix: the synced user's email, the identity
// email while sync is pending, or nothing when signed out.
func (a *App) getStatus() string {
	snap := a.store.Snapshot()
	switch {
	case snap.User != nil && snap.IsSignedIn:
		return fmt.Sprintf("(%s)", snap.User.Email)
	case snap.IsSignedIn && a.provider != nil:
		if p, err := a.provider.Profile(); err == nil {
			return fmt.Sprintf("(%s*)", p.Email)
		}
		return "(signed-in)"
	default:
		return ""
	}
}

func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to the Farmlingo CLI (type 'help' for commands)")

	// a token file makes startup non-interactive
	if a.config.TokenFile != "" {
		if err := a.loginFromFile(ctx, a.config.TokenFile); err != nil {
			a.logger.Warn(ctx, "automatic sign-in failed", "error", err)
		}
	}

	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner, a.out)
}

func (a *App) Close() error {
	if err := a.client.Close(); err != nil {
		return err
	}
	return a.db.Close()
}
