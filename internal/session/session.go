package session

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/andrewwillette/willette/internal/shared"
	"github.com/charmbracelet/log"
)

// TokenKey is the storage key of the bearer token.
const TokenKey = "willette_bearer_token"

// Store persists the bearer token.
type Store interface {
	// Token returns the persisted token or "" when none is set.
	Token() string
	// SetToken persists token, replacing any previous value.
	SetToken(token string) error
	// Clear removes the persisted token.
	Clear() error
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*SQLiteStore)(nil)
)

// MemoryStore is an in-process [Store].
type MemoryStore struct {
	mu    sync.RWMutex
	token string
}

// NewMemoryStore creates an empty [MemoryStore].
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

func (m *MemoryStore) SetToken(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

func (m *MemoryStore) Clear() error {
	return m.SetToken("")
}

// SQLiteStore is a [Store] backed by the storage table.
type SQLiteStore struct {
	db     *sql.DB
	logger *log.Logger
}

// NewSQLiteStore runs pending migrations on db and returns a [SQLiteStore] over it.
func NewSQLiteStore(db *sql.DB, logger *log.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	if err := shared.RunMigrations(db); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrStorage, err)
	}
	return &SQLiteStore{db: db, logger: logger}, nil
}

// OpenSQLiteStore opens the database at path and wraps it in a [SQLiteStore].
func OpenSQLiteStore(path string, logger *log.Logger) (*SQLiteStore, error) {
	db, err := shared.NewDatabase(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrStorage, err)
	}
	if path == ":memory:" {
		shared.ConfigureDatabase(db, 1, 1)
	}

	store, err := NewSQLiteStore(db, logger)
	if err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// Token reads the persisted token; storage errors are logged and read as "".
func (s *SQLiteStore) Token() string {
	var token string
	err := s.db.QueryRow("SELECT value FROM storage WHERE key = ?", TokenKey).Scan(&token)
	if errors.Is(err, sql.ErrNoRows) {
		return ""
	}
	if err != nil {
		s.logger.Error("failed to read token", "key", TokenKey, "error", err)
		return ""
	}
	return token
}

func (s *SQLiteStore) SetToken(token string) error {
	query := `
		INSERT INTO storage (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	if _, err := s.db.Exec(query, TokenKey, token); err != nil {
		return fmt.Errorf("%w: failed to write token: %v", shared.ErrStorage, err)
	}
	return nil
}

func (s *SQLiteStore) Clear() error {
	if _, err := s.db.Exec("DELETE FROM storage WHERE key = ?", TokenKey); err != nil {
		return fmt.Errorf("%w: failed to clear token: %v", shared.ErrStorage, err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
