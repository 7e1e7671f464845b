// Package session holds the single source of truth for "who is signed in and
// what is their canonical profile".
//
// The store is an explicitly constructed state container: it is handed its
// collaborators (API client, persister, logger) and only its own methods
// mutate the state. Auth flags follow the identity provider via SetAuth;
// SyncUser is the only path that can create or replace the canonical user
// from network data. Only {user, isSignedIn} survive restarts.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/farmlingo/farmlingo/internal/client/api"
	"github.com/farmlingo/farmlingo/internal/client/identity"
	"github.com/farmlingo/farmlingo/internal/client/models"
	"github.com/farmlingo/farmlingo/internal/logging"
)

// fallbackSyncError is stored when a sync failure produces no usable message.
const fallbackSyncError = "failed to sync user profile"

// Snapshot is a point-in-time copy of the store state.
type Snapshot struct {
	// IsSignedIn and IsLoaded mirror the identity provider's current
	// auth/load status.
	IsSignedIn bool
	IsLoaded   bool

	// User is the canonical backend profile, nil until the first successful
	// sync or rehydration from storage.
	User *models.User

	// Transient sync-operation status.
	IsLoading bool
	IsSyncing bool
	Err       string
}

// syncTask is the single in-flight sync slot. Holding a task handle rather
// than a bare boolean makes the drop-duplicate-calls contract explicit and
// lets tests wait for completion.
type syncTask struct {
	done chan struct{}
}

// Store coordinates auth state, the canonical user profile and the one-shot
// backend sync. Safe for concurrent use.
type Store struct {
	client    api.Client
	persister Persister
	logger    logging.Logger

	mu         sync.Mutex
	isSignedIn bool
	isLoaded   bool
	isLoading  bool
	user       *models.User
	errMsg     string

	// gen is bumped on every sign-out; a sync result whose generation no
	// longer matches is discarded instead of committed.
	gen uint64

	inflight *syncTask

	listeners []func(Snapshot)
}

// New builds a Store and rehydrates the persisted slice. Rehydration failures
// are non-fatal: the store starts empty and the problem is logged.
func New(ctx context.Context, client api.Client, persister Persister, logger logging.Logger) *Store {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}

	s := &Store{client: client, persister: persister, logger: logger}

	if persister != nil {
		state, err := persister.Load(ctx)
		if err != nil {
			logger.Warn(ctx, "session state rehydration failed", "error", err)
		} else if state != nil {
			s.user = state.User
			s.isSignedIn = state.IsSignedIn
		}
	}
	return s
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{
		IsSignedIn: s.isSignedIn,
		IsLoaded:   s.isLoaded,
		User:       s.user,
		IsLoading:  s.isLoading,
		IsSyncing:  s.inflight != nil,
		Err:        s.errMsg,
	}
}

// Subscribe registers fn to run after every state change, with a snapshot of
// the new state. Listeners run synchronously under the store's internal
// ordering; they must not call back into the store.
func (s *Store) Subscribe(fn func(Snapshot)) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

func (s *Store) notifyLocked() {
	snap := s.snapshotLocked()
	for _, fn := range s.listeners {
		fn(snap)
	}
}

func (s *Store) persistLocked(ctx context.Context) {
	if s.persister == nil {
		return
	}
	state := PersistedState{User: s.user, IsSignedIn: s.isSignedIn}
	if err := s.persister.Save(ctx, state); err != nil {
		s.logger.Warn(ctx, "persisting session state failed", "error", err)
	}
}

// SetAuth applies the identity provider's current signed-in/loaded pair.
// Calls are applied in arrival order; last write wins. A signed-in=false
// report counts as a sign-out: any in-flight sync result will be discarded
// when it lands.
func (s *Store) SetAuth(signedIn, loaded bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isSignedIn && !signedIn {
		s.gen++
	}
	s.isSignedIn = signedIn
	s.isLoaded = loaded
	s.persistLocked(context.Background())
	s.notifyLocked()
}

// SetUser replaces the profile directly and clears any sync error. Intended
// for bootstrap paths that already hold a canonical profile.
func (s *Store) SetUser(user *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = user
	s.errMsg = ""
	s.persistLocked(context.Background())
	s.notifyLocked()
}

// ClearUser nulls out the profile and the auth flag. Invoked when the
// identity provider reports signed-out.
func (s *Store) ClearUser() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearLocked()
}

// LogoutUser resets the session: user nil, signed-out, no error. The result
// is the same from any prior state.
func (s *Store) LogoutUser() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearLocked()
}

func (s *Store) clearLocked() {
	s.user = nil
	s.isSignedIn = false
	s.errMsg = ""
	s.gen++
	s.persistLocked(context.Background())
	s.notifyLocked()
}

// SyncUser pushes the identity-provider profile to the backend and commits
// the canonical response.
//
// Contract:
//   - calling it while a sync is in flight is a no-op (the duplicate call is
//     dropped, no queueing);
//   - success replaces the user wholesale and clears the error;
//   - failure preserves the previous user and stores a human-readable
//     message, preferring the server-supplied one;
//   - a result arriving after a sign-out is discarded;
//   - errors are absorbed into store state, never returned: sync failures
//     must not gate navigation.
func (s *Store) SyncUser(ctx context.Context, profile *identity.Profile) {
	if profile == nil {
		return
	}

	s.mu.Lock()
	if s.inflight != nil {
		s.mu.Unlock()
		s.logger.Debug(ctx, "user sync already in flight, dropping call")
		return
	}
	task := &syncTask{done: make(chan struct{})}
	s.inflight = task
	s.isLoading = true
	s.errMsg = ""
	gen := s.gen
	s.notifyLocked()
	s.mu.Unlock()
	defer close(task.done)

	s.logger.Info(ctx, "starting user sync", "external_id", profile.ID)

	user, err := s.client.SyncUser(ctx, api.SyncUserRequest{
		ID:        profile.ID,
		Email:     profile.Email,
		FirstName: profile.FirstName,
		LastName:  profile.LastName,
		ImageURL:  profile.ImageURL,
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inflight = nil
	s.isLoading = false

	if gen != s.gen {
		s.logger.Warn(ctx, "discarding user sync result after sign-out")
		s.notifyLocked()
		return
	}

	if err != nil {
		s.errMsg = syncErrorMessage(err)
		s.logger.Error(ctx, "user sync failed", "error", err)
		s.notifyLocked()
		return
	}

	s.user = user
	s.errMsg = ""
	s.logger.Info(ctx, "user sync finished", "user_id", user.UserID)
	s.persistLocked(ctx)
	s.notifyLocked()
}

// Refresh re-fetches the canonical profile via the users/me endpoint. It is
// the secondary bootstrap path for sessions rehydrated from storage. Unlike
// SyncUser it reports its error, but a late result after sign-out is still
// discarded.
func (s *Store) Refresh(ctx context.Context) error {
	s.mu.Lock()
	gen := s.gen
	s.mu.Unlock()

	user, err := s.client.CurrentUser(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		s.logger.Warn(ctx, "discarding profile refresh after sign-out")
		return nil
	}
	s.user = user
	s.errMsg = ""
	s.persistLocked(ctx)
	s.notifyLocked()
	return nil
}

// syncErrorMessage extracts a user-facing message from a sync failure,
// preferring the server-supplied message over the transport error text.
func syncErrorMessage(err error) string {
	var statusErr *api.StatusError
	if errors.As(err, &statusErr) && statusErr.Message != "" {
		return statusErr.Message
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallbackSyncError
}
