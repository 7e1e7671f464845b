package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/farmlingo/farmlingo/internal/client/api"
	"github.com/farmlingo/farmlingo/internal/client/identity"
	"github.com/farmlingo/farmlingo/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- fake client ----

// fakeClient implements api.Client for store unit tests.
type fakeClient struct {
	mu sync.Mutex

	SyncRet *models.User
	SyncErr error

	CurrentRet *models.User
	CurrentErr error

	// entered is closed (once) when SyncUser is first called; release, when
	// non-nil, blocks SyncUser until closed. Used to hold a sync in flight.
	entered   chan struct{}
	release   chan struct{}
	enterOnce sync.Once

	syncCalls int
	LastReq   api.SyncUserRequest
}

func (f *fakeClient) SyncUser(ctx context.Context, req api.SyncUserRequest) (*models.User, error) {
	f.mu.Lock()
	f.syncCalls++
	f.LastReq = req
	f.mu.Unlock()

	if f.entered != nil {
		f.enterOnce.Do(func() { close(f.entered) })
	}
	if f.release != nil {
		<-f.release
	}
	return f.SyncRet, f.SyncErr
}

func (f *fakeClient) CurrentUser(ctx context.Context) (*models.User, error) {
	return f.CurrentRet, f.CurrentErr
}

func (f *fakeClient) Close() error { return nil }

func (f *fakeClient) SyncCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.syncCalls
}

// ---- helpers ----

func canonicalUser() *models.User {
	return &models.User{
		UserID:      "1",
		ClerkUserID: "u1",
		Email:       "a@b.com",
		IsActive:    true,
		CreatedAt:   "2024-01-01T00:00:00Z",
	}
}

func testProfile() *identity.Profile {
	return &identity.Profile{ID: "u1", Email: "a@b.com", FirstName: "Ada"}
}

func newStore(t *testing.T, client api.Client) *Store {
	t.Helper()
	return New(context.Background(), client, nil, nil)
}

// ---- tests ----

func TestNew_StartsUnloaded(t *testing.T) {
	s := newStore(t, &fakeClient{})
	snap := s.Snapshot()

	assert.False(t, snap.IsLoaded)
	assert.False(t, snap.IsSignedIn)
	assert.Nil(t, snap.User)
	assert.False(t, snap.IsSyncing)
	assert.Empty(t, snap.Err)
}

func TestSetAuth_LastWriteWins(t *testing.T) {
	s := newStore(t, &fakeClient{})

	s.SetAuth(true, true)
	s.SetAuth(false, true)
	s.SetAuth(true, true)

	snap := s.Snapshot()
	assert.True(t, snap.IsSignedIn)
	assert.True(t, snap.IsLoaded)
}

func TestSyncUser_SuccessReplacesUserWholesale(t *testing.T) {
	fc := &fakeClient{SyncRet: canonicalUser()}
	s := newStore(t, fc)
	s.SetAuth(true, true)

	// pre-existing stale profile must be replaced, not merged
	s.SetUser(&models.User{UserID: "stale", ClerkUserID: "u1", Email: "old@b.com"})

	s.SyncUser(context.Background(), testProfile())

	snap := s.Snapshot()
	require.NotNil(t, snap.User)
	assert.Equal(t, "1", snap.User.UserID)
	assert.Equal(t, "a@b.com", snap.User.Email)
	assert.Empty(t, snap.Err)
	assert.False(t, snap.IsSyncing)

	assert.Equal(t, "u1", fc.LastReq.ID)
	assert.Equal(t, "a@b.com", fc.LastReq.Email)
	assert.Equal(t, "Ada", fc.LastReq.FirstName)
}

func TestSyncUser_FailurePreservesPriorUserAndSetsError(t *testing.T) {
	fc := &fakeClient{SyncErr: &api.StatusError{Status: 500}}
	s := newStore(t, fc)
	s.SetAuth(true, true)

	prior := canonicalUser()
	s.SetUser(prior)

	s.SyncUser(context.Background(), testProfile())

	snap := s.Snapshot()
	assert.Same(t, prior, snap.User, "a failed sync never nulls out existing profile data")
	assert.NotEmpty(t, snap.Err)
	assert.False(t, snap.IsSyncing)
}

func TestSyncUser_FailureWithoutPriorUserLeavesUserNil(t *testing.T) {
	fc := &fakeClient{SyncErr: &api.StatusError{Status: 500}}
	s := newStore(t, fc)
	s.SetAuth(true, true)

	s.SyncUser(context.Background(), testProfile())

	snap := s.Snapshot()
	assert.Nil(t, snap.User)
	assert.NotEmpty(t, snap.Err)
	assert.False(t, snap.IsSyncing)
}

func TestSyncUser_PrefersServerMessage(t *testing.T) {
	fc := &fakeClient{SyncErr: &api.StatusError{Status: 409, Message: "email already in use"}}
	s := newStore(t, fc)
	s.SetAuth(true, true)

	s.SyncUser(context.Background(), testProfile())

	assert.Equal(t, "email already in use", s.Snapshot().Err)
}

func TestSyncUser_FallsBackToTransportText(t *testing.T) {
	fc := &fakeClient{SyncErr: errors.New("connection refused")}
	s := newStore(t, fc)
	s.SetAuth(true, true)

	s.SyncUser(context.Background(), testProfile())

	assert.Equal(t, "connection refused", s.Snapshot().Err)
}

func TestSyncUser_ReentrantCallIsDropped(t *testing.T) {
	fc := &fakeClient{
		SyncRet: canonicalUser(),
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	s := newStore(t, fc)
	s.SetAuth(true, true)

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.SyncUser(context.Background(), testProfile())
	}()

	<-fc.entered
	assert.True(t, s.Snapshot().IsSyncing)

	// second call while the first is in flight: no-op, no second network call
	s.SyncUser(context.Background(), testProfile())
	assert.Equal(t, 1, fc.SyncCalls())

	close(fc.release)
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("sync did not finish")
	}

	snap := s.Snapshot()
	assert.False(t, snap.IsSyncing)
	require.NotNil(t, snap.User)
	assert.Equal(t, "1", snap.User.UserID)

	// the slot is free again: a new sync goes through
	s.SyncUser(context.Background(), testProfile())
	assert.Equal(t, 2, fc.SyncCalls())
}

func TestSyncUser_LateResultAfterSignOutIsDiscarded(t *testing.T) {
	fc := &fakeClient{
		SyncRet: canonicalUser(),
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	s := newStore(t, fc)
	s.SetAuth(true, true)

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.SyncUser(context.Background(), testProfile())
	}()

	<-fc.entered
	s.LogoutUser()
	close(fc.release)

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("sync did not finish")
	}

	snap := s.Snapshot()
	assert.Nil(t, snap.User, "a sync response landing after sign-out must be ignored")
	assert.False(t, snap.IsSignedIn)
	assert.Empty(t, snap.Err)
}

func TestSyncUser_NilProfileIsNoOp(t *testing.T) {
	fc := &fakeClient{}
	s := newStore(t, fc)

	s.SyncUser(context.Background(), nil)
	assert.Equal(t, 0, fc.SyncCalls())
}

func TestLogoutUser_AlwaysResets(t *testing.T) {
	fc := &fakeClient{SyncErr: errors.New("boom")}
	s := newStore(t, fc)

	s.SetAuth(true, true)
	s.SetUser(canonicalUser())
	s.SyncUser(context.Background(), testProfile()) // leaves an error behind

	s.LogoutUser()

	snap := s.Snapshot()
	assert.Nil(t, snap.User)
	assert.False(t, snap.IsSignedIn)
	assert.Empty(t, snap.Err)
}

func TestClearUser_MatchesLogout(t *testing.T) {
	s := newStore(t, &fakeClient{})
	s.SetAuth(true, true)
	s.SetUser(canonicalUser())

	s.ClearUser()

	snap := s.Snapshot()
	assert.Nil(t, snap.User)
	assert.False(t, snap.IsSignedIn)
}

func TestRefresh_CommitsCanonicalProfile(t *testing.T) {
	fc := &fakeClient{CurrentRet: canonicalUser()}
	s := newStore(t, fc)
	s.SetAuth(true, true)

	require.NoError(t, s.Refresh(context.Background()))
	require.NotNil(t, s.Snapshot().User)
	assert.Equal(t, "1", s.Snapshot().User.UserID)
}

func TestRefresh_ErrorPropagatesAndStateUnchanged(t *testing.T) {
	fc := &fakeClient{CurrentErr: errors.New("boom")}
	s := newStore(t, fc)
	s.SetAuth(true, true)

	err := s.Refresh(context.Background())
	require.Error(t, err)
	assert.Nil(t, s.Snapshot().User)
}

func TestSubscribe_ListenerSeesChanges(t *testing.T) {
	s := newStore(t, &fakeClient{})

	var snaps []Snapshot
	s.Subscribe(func(snap Snapshot) { snaps = append(snaps, snap) })

	s.SetAuth(true, true)
	s.SetUser(canonicalUser())

	require.Len(t, snaps, 2)
	assert.True(t, snaps[0].IsSignedIn)
	assert.NotNil(t, snaps[1].User)
}

func TestScenario_SignInThenSyncSucceeds(t *testing.T) {
	fc := &fakeClient{SyncRet: canonicalUser()}
	s := newStore(t, fc)

	assert.False(t, s.Snapshot().IsLoaded)

	s.SetAuth(true, true)
	s.SyncUser(context.Background(), &identity.Profile{ID: "u1", Email: "a@b.com"})

	snap := s.Snapshot()
	require.NotNil(t, snap.User)
	assert.Equal(t, "1", snap.User.UserID)
	assert.Empty(t, snap.Err)
}

func TestScenario_SignInThenSyncServerError(t *testing.T) {
	fc := &fakeClient{SyncErr: &api.StatusError{Status: 500}}
	s := newStore(t, fc)

	s.SetAuth(true, true)
	s.SyncUser(context.Background(), &identity.Profile{ID: "u1", Email: "a@b.com"})

	snap := s.Snapshot()
	assert.Nil(t, snap.User)
	assert.NotEmpty(t, snap.Err)
	assert.False(t, snap.IsSyncing)
}
