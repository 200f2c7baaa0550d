// Package kv is a namespaced key-value store on SQLite with in-process
// change notification.
package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ziadkadry99/jisho/internal/db"
)

// Store persists values by (namespace, key). Last write wins.
type Store struct {
	db  *db.DB
	hub *hub
}

// NewStore creates a Store backed by the given database.
func NewStore(d *db.DB) *Store {
	return &Store{db: d, hub: newHub()}
}

// Get returns the value stored under ns/key. The bool is false when nothing
// is stored.
func (s *Store) Get(ctx context.Context, ns, key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM kv_entries WHERE namespace = ? AND key = ?`, ns, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading %s/%s: %w", ns, key, err)
	}
	return value, true, nil
}

// Put stores value under ns/key and notifies watchers of that key.
func (s *Store) Put(ctx context.Context, ns, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv_entries (namespace, key, value, updated_at)
		 VALUES (?, ?, ?, datetime('now'))
		 ON CONFLICT(namespace, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		ns, key, value,
	)
	if err != nil {
		return fmt.Errorf("writing %s/%s: %w", ns, key, err)
	}
	s.hub.notify(ns, key)
	return nil
}

// Delete removes ns/key and notifies watchers. Deleting a missing key is
// not an error.
func (s *Store) Delete(ctx context.Context, ns, key string) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM kv_entries WHERE namespace = ? AND key = ?`, ns, key,
	); err != nil {
		return fmt.Errorf("deleting %s/%s: %w", ns, key, err)
	}
	s.hub.notify(ns, key)
	return nil
}

// Watch returns a channel that receives a signal after every change to
// ns/key. Signals are coalesced: a slow reader sees at least one signal
// after the latest change, not one per change. Call cancel to stop
// watching.
func (s *Store) Watch(ns, key string) (<-chan struct{}, func()) {
	return s.hub.subscribe(ns, key)
}
