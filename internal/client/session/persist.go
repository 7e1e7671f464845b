package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/farmlingo/farmlingo/internal/client/localstate"
	"github.com/farmlingo/farmlingo/internal/client/models"
	"github.com/farmlingo/farmlingo/internal/dbx"
)

// StateKey is the fixed document name the persisted slice is stored under.
const StateKey = "user-store"

// savedAtKey records when the document was last written; written in the same
// transaction so the two keys never disagree.
const savedAtKey = "user-store.saved_at"

// PersistedState is the slice of store state that survives restarts. All
// other fields are transient and reset to defaults on every load.
type PersistedState struct {
	User       *models.User `json:"user"`
	IsSignedIn bool         `json:"isSignedIn"`
}

// Persister loads and saves the persisted slice.
type Persister interface {
	Load(ctx context.Context) (*PersistedState, error)
	Save(ctx context.Context, state PersistedState) error
}

// LocalStatePersister stores the slice as a JSON document in the local state
// database.
type LocalStatePersister struct {
	db *sql.DB
}

func NewLocalStatePersister(db *sql.DB) *LocalStatePersister {
	return &LocalStatePersister{db: db}
}

func (p *LocalStatePersister) Load(ctx context.Context) (*PersistedState, error) {
	repo := localstate.NewSQLiteRepository(p.db)

	raw, err := repo.Get(ctx, StateKey)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}

	var state PersistedState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("decode persisted session state: %w", err)
	}
	return &state, nil
}

func (p *LocalStatePersister) Save(ctx context.Context, state PersistedState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode session state: %w", err)
	}

	return dbx.WithTx(ctx, p.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := localstate.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, StateKey, raw); err != nil {
			return err
		}
		return repo.Set(ctx, savedAtKey, []byte(time.Now().UTC().Format(time.RFC3339)))
	})
}
