// Package snapshot persists the last known good records per source so a
// refresh cycle can survive transient source failures. One JSON file per
// source category, wrapped in an envelope with a timestamp and row count.
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// ErrMiss is reported for any unusable snapshot: missing file, empty file,
// corrupt JSON, or an envelope older than the TTL. Callers treat every miss
// the same way: refetch from the originating source.
var ErrMiss = errors.New("snapshot: no usable snapshot")

// minFileSize guards against truncated writes: anything smaller cannot
// hold a valid envelope.
const minFileSize = 5

// Envelope wraps one persisted record set.
type Envelope struct {
	FetchedAt time.Time       `json:"fetched_at"`
	Count     int             `json:"count"`
	Records   json.RawMessage `json:"records"`
}

// Store reads and writes per-source snapshot files under a single directory.
// Single-writer, last-writer-wins; refresh cycles do not run concurrently.
type Store struct {
	dir string
	ttl time.Duration // 0 = snapshots never expire
}

func NewStore(dir string, ttl time.Duration) *Store {
	return &Store{dir: dir, ttl: ttl}
}

// Save overwrites the snapshot for name with the given records.
func (s *Store) Save(name string, records any) error {
	raw, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshal records: %w", err)
	}
	count := 0
	var probe []json.RawMessage
	if err := json.Unmarshal(raw, &probe); err == nil {
		count = len(probe)
	}
	env := Envelope{FetchedAt: time.Now().UTC(), Count: count, Records: raw}
	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}
	if err := os.WriteFile(s.path(name), data, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	slog.Debug("Snapshot saved", "name", name, "rows", count)
	return nil
}

// Load fills out with the records persisted for name and returns the fetch
// time. Every unusable state comes back as ErrMiss, never as a fatal error.
func (s *Store) Load(name string, out any) (time.Time, error) {
	path := s.path(name)
	info, err := os.Stat(path)
	if err != nil || info.Size() < minFileSize {
		return time.Time{}, ErrMiss
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return time.Time{}, ErrMiss
	}

	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		slog.Warn("Snapshot file corrupt, treating as absent", "name", name, "error", err)
		return time.Time{}, ErrMiss
	}
	if s.ttl > 0 && time.Since(env.FetchedAt) > s.ttl {
		slog.Debug("Snapshot expired", "name", name, "fetched_at", env.FetchedAt)
		return time.Time{}, ErrMiss
	}
	if len(env.Records) == 0 {
		return time.Time{}, ErrMiss
	}
	if err := json.Unmarshal(env.Records, out); err != nil {
		slog.Warn("Snapshot records corrupt, treating as absent", "name", name, "error", err)
		return time.Time{}, ErrMiss
	}
	return env.FetchedAt, nil
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name+"_snapshot.json")
}
