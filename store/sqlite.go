package store

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/etnz/wealth"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// DefaultKey is the slot key under which the asset list is stored.
const DefaultKey = "assets"

const schema = `CREATE TABLE IF NOT EXISTS slots (
	key        TEXT PRIMARY KEY,
	data       TEXT NOT NULL,
	updated_at TEXT NOT NULL
)`

// SQLiteSlot stores the asset list as a single JSONL value in a SQLite table.
type SQLiteSlot struct {
	db  *sql.DB
	key string
}

// OpenSQLite opens (or creates) the SQLite database at path and returns a slot
// stored under key. An empty key means DefaultKey.
//
// A path starting with "file:" is used as is, for in-memory databases.
func OpenSQLite(ctx context.Context, path, key string) (*SQLiteSlot, error) {
	if !strings.HasPrefix(path, "file:") {
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve database path to absolute: %w", err)
		}
		if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		path = abs
	}
	if key == "" {
		key = DefaultKey
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %q: %w", path, err)
	}
	// a single writer, sqlite does not do better anyway.
	db.SetMaxOpenConns(1)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database %q: %w", path, err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create slots table: %w", err)
	}
	return &SQLiteSlot{db: db, key: key}, nil
}

// Key returns the slot key.
func (s *SQLiteSlot) Key() string { return s.key }

// Load reads the asset list stored under the slot key.
func (s *SQLiteSlot) Load(ctx context.Context) ([]wealth.Asset, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM slots WHERE key = ?`, s.key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return []wealth.Asset{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query slot %q: %w", s.key, err)
	}
	assets, err := wealth.DecodeAssets(strings.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("cannot decode slot %q: %w", s.key, err)
	}
	if assets == nil {
		assets = []wealth.Asset{}
	}
	return assets, nil
}

// Save replaces the asset list stored under the slot key.
func (s *SQLiteSlot) Save(ctx context.Context, assets []wealth.Asset) error {
	var buf bytes.Buffer
	if err := wealth.EncodeAssets(&buf, assets); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO slots (key, data, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		s.key, buf.String(), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to save slot %q: %w", s.key, err)
	}
	return nil
}

// Close closes the database.
func (s *SQLiteSlot) Close() error { return s.db.Close() }
