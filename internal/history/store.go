// Package history persists the list of fetched addresses and the selected
// display mode in a SQLite database.
//
// Addresses are kept newest first. Adding an address that is already
// present leaves its position unchanged.
package history

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaFS embed.FS

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

const themePreference = "theme"

var (
	// ErrBlankAddress is returned by Add for an empty or whitespace address.
	ErrBlankAddress = errors.New("address must not be blank")
	// ErrNotFound is returned by Remove for an unknown address.
	ErrNotFound = errors.New("address not in history")
)

// Entry is one remembered address.
type Entry struct {
	Address string    `json:"address" yaml:"address"`
	AddedAt time.Time `json:"added_at" yaml:"added_at"`
}

// Store is the history persistence contract used by the UI and CLI.
type Store interface {
	Add(address string) error
	List(limit int) ([]Entry, error)
	Remove(address string) error
	Clear() error
	Theme(fallback string) (string, error)
	SetTheme(mode string) error
	Close() error
}

// DB implements Store on SQLite.
type DB struct {
	db    *sql.DB
	mu    sync.RWMutex
	path  string
	limit int

	stmtAdd     *sql.Stmt
	stmtList    *sql.Stmt
	stmtRemove  *sql.Stmt
	stmtGetPref *sql.Stmt
	stmtSetPref *sql.Stmt
}

var _ Store = (*DB)(nil)

// Open opens (creating if needed) the database at path. A positive limit
// caps the number of remembered addresses; the oldest are dropped first.
func Open(path string, limit int) (*DB, error) {
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating history directory: %w", err)
		}
	}
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening history at %s: %w", path, err)
	}
	// One connection keeps an in-memory database alive and serializes writers.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	s := &DB{db: db, path: path, limit: limit}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing history schema: %w", err)
	}
	if err := s.prepareStatements(); err != nil {
		db.Close()
		return nil, fmt.Errorf("preparing history statements: %w", err)
	}
	return s, nil
}

// Path returns the database location.
func (s *DB) Path() string { return s.path }

func (s *DB) initSchema() error {
	schema, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return fmt.Errorf("reading embedded schema: %w", err)
	}
	if _, err := s.db.Exec(string(schema)); err != nil {
		return fmt.Errorf("executing schema: %w", err)
	}
	return nil
}

func (s *DB) prepareStatements() error {
	var err error

	s.stmtAdd, err = s.db.Prepare(`
		INSERT INTO addresses (address, seq, added_at)
		VALUES (?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM addresses), ?)
		ON CONFLICT(address) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("preparing Add: %w", err)
	}

	s.stmtList, err = s.db.Prepare(`
		SELECT address, added_at FROM addresses ORDER BY seq DESC LIMIT ?
	`)
	if err != nil {
		return fmt.Errorf("preparing List: %w", err)
	}

	s.stmtRemove, err = s.db.Prepare(`DELETE FROM addresses WHERE address = ?`)
	if err != nil {
		return fmt.Errorf("preparing Remove: %w", err)
	}

	s.stmtGetPref, err = s.db.Prepare(`SELECT value FROM preferences WHERE name = ?`)
	if err != nil {
		return fmt.Errorf("preparing GetPreference: %w", err)
	}

	s.stmtSetPref, err = s.db.Prepare(`
		INSERT INTO preferences (name, value) VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET value = excluded.value
	`)
	if err != nil {
		return fmt.Errorf("preparing SetPreference: %w", err)
	}
	return nil
}

// Add remembers address. A new address goes to the front of the list; an
// existing one keeps its position.
func (s *DB) Add(address string) error {
	address = strings.TrimSpace(address)
	if address == "" {
		return ErrBlankAddress
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.stmtAdd.Exec(address, time.Now().UnixNano())
	if err != nil {
		return fmt.Errorf("adding %s: %w", address, err)
	}
	if n, _ := res.RowsAffected(); n == 0 || s.limit <= 0 {
		return nil
	}
	_, err = s.db.Exec(`
		DELETE FROM addresses WHERE seq NOT IN (
			SELECT seq FROM addresses ORDER BY seq DESC LIMIT ?
		)`, s.limit)
	if err != nil {
		return fmt.Errorf("trimming history: %w", err)
	}
	return nil
}

// List returns up to limit addresses, newest first. A limit <= 0 returns
// all of them.
func (s *DB) List(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = -1
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.stmtList.Query(limit)
	if err != nil {
		return nil, fmt.Errorf("listing history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e       Entry
			addedAt int64
		)
		if err := rows.Scan(&e.Address, &addedAt); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		e.AddedAt = time.Unix(0, addedAt)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Remove forgets address.
func (s *DB) Remove(address string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.stmtRemove.Exec(strings.TrimSpace(address))
	if err != nil {
		return fmt.Errorf("removing %s: %w", address, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, address)
	}
	return nil
}

// Clear forgets every address. Preferences are kept.
func (s *DB) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec(`DELETE FROM addresses`); err != nil {
		return fmt.Errorf("clearing history: %w", err)
	}
	return nil
}

// Theme returns the persisted display mode, or fallback when none was saved.
func (s *DB) Theme(fallback string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var mode string
	err := s.stmtGetPref.QueryRow(themePreference).Scan(&mode)
	if errors.Is(err, sql.ErrNoRows) {
		return fallback, nil
	}
	if err != nil {
		return fallback, fmt.Errorf("reading theme: %w", err)
	}
	return mode, nil
}

// SetTheme persists the display mode.
func (s *DB) SetTheme(mode string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.stmtSetPref.Exec(themePreference, mode); err != nil {
		return fmt.Errorf("saving theme: %w", err)
	}
	return nil
}

// Close releases the prepared statements and the connection.
func (s *DB) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, stmt := range []*sql.Stmt{s.stmtAdd, s.stmtList, s.stmtRemove, s.stmtGetPref, s.stmtSetPref} {
		if stmt != nil {
			stmt.Close()
		}
	}
	return s.db.Close()
}
