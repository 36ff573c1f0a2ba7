/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package registry

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
	_ "modernc.org/sqlite"

	"dirpx.dev/cfx/apis"
)

// timeLayout is fixed-width so created_at sorts lexicographically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ErrClosed is returned when recording into a closed SQLite registry.
var ErrClosed = errors.New("cfx(registry): sqlite registry closed")

// Schema DDL for the provenance journal. Rows are only ever inserted.
const (
	createCompositions = `CREATE TABLE IF NOT EXISTS compositions (
    entry_id TEXT PRIMARY KEY,
    session_id TEXT NOT NULL,
    name TEXT NOT NULL,
    canonical_key TEXT NOT NULL,
    request TEXT NOT NULL,
    units TEXT NOT NULL,
    created_at TEXT NOT NULL
);`

	createSessionIndex = `CREATE INDEX IF NOT EXISTS idx_compositions_session
    ON compositions (session_id, created_at);`

	insertComposition = `INSERT INTO compositions
    (entry_id, session_id, name, canonical_key, request, units, created_at)
    VALUES (?, ?, ?, ?, ?, ?, ?)`

	selectHistory = `SELECT entry_id, session_id, name, canonical_key, request, units, created_at
    FROM compositions ORDER BY created_at, rowid`
)

// HistoryEntry is a journaled entry together with the session that wrote it.
type HistoryEntry struct {
	Session string `json:"session"`
	apis.Entry
}

// SQLite is an apis.Registry that journals every entry to a SQLite database
// in addition to keeping the current session in memory. Each opened
// registry is one session: Entries reports only that session, History
// reports every session ever written to the file.
type SQLite struct {
	mu      sync.Mutex
	db      *sql.DB
	session string
	mem     *Memory
}

// Ensure SQLite implements apis.Registry.
var _ apis.Registry = (*SQLite)(nil)

// OpenSQLite opens (creating if needed) the journal at path and starts a new
// session. Use ":memory:" for a throwaway database.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create journal dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	// A single connection keeps ":memory:" databases alive and serializes writes.
	db.SetMaxOpenConns(1)

	for _, stmt := range []string{createCompositions, createSessionIndex} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("init journal schema: %w", err)
		}
	}

	return &SQLite{
		db:      db,
		session: uuid.NewString(),
		mem:     New(),
	}, nil
}

// Session returns the identifier of this registry's session.
func (s *SQLite) Session() string {
	return s.session
}

// Record journals e and appends it to the session.
func (s *SQLite) Record(e apis.Entry) error {
	if e.Name == "" {
		return ErrEmptyName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return ErrClosed
	}
	if _, ok := s.mem.Lookup(e.Name); ok {
		return ErrConflictingRegistration
	}

	e = fill(e)
	req, err := yaml.Marshal(e.Request)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	units, err := json.Marshal(e.Units)
	if err != nil {
		return fmt.Errorf("encode units: %w", err)
	}

	if _, err := s.db.Exec(insertComposition,
		e.ID, s.session, e.Name, string(e.Key), string(req), string(units),
		e.CreatedAt.UTC().Format(timeLayout),
	); err != nil {
		return fmt.Errorf("journal entry %s: %w", e.Name, err)
	}

	_, err = s.mem.record(e)
	return err
}

// Lookup returns the entry recorded for a type name in this session.
func (s *SQLite) Lookup(name string) (apis.Entry, bool) {
	return s.mem.Lookup(name)
}

// Entries returns this session's entries in insertion order.
func (s *SQLite) Entries() []apis.Entry {
	return s.mem.Entries()
}

// Count returns the number of entries recorded in this session.
func (s *SQLite) Count() int {
	return s.mem.Count()
}

// History returns every journaled entry across all sessions, oldest first.
func (s *SQLite) History(ctx context.Context) ([]HistoryEntry, error) {
	s.mu.Lock()
	db := s.db
	s.mu.Unlock()
	if db == nil {
		return nil, ErrClosed
	}

	rows, err := db.QueryContext(ctx, selectHistory)
	if err != nil {
		return nil, fmt.Errorf("query journal: %w", err)
	}
	defer rows.Close()

	var out []HistoryEntry
	for rows.Next() {
		var (
			h                     HistoryEntry
			key, req, units, when string
		)
		if err := rows.Scan(&h.ID, &h.Session, &h.Name, &key, &req, &units, &when); err != nil {
			return nil, fmt.Errorf("scan journal row: %w", err)
		}
		h.Key = apis.Key(key)
		if err := yaml.Unmarshal([]byte(req), &h.Request); err != nil {
			return nil, fmt.Errorf("decode request of %s: %w", h.Name, err)
		}
		if err := json.Unmarshal([]byte(units), &h.Units); err != nil {
			return nil, fmt.Errorf("decode units of %s: %w", h.Name, err)
		}
		if h.CreatedAt, err = time.Parse(timeLayout, when); err != nil {
			return nil, fmt.Errorf("decode created_at of %s: %w", h.Name, err)
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// Close releases the database. The in-memory session stays readable.
func (s *SQLite) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
