// Package store persists the set of canonical posting URLs that have
// already been announced, so a restart does not re-broadcast old postings.
package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"jobwatch/pkg/logx"
)

// Config configures the seen-set backend.
//
// Driver values:
//   - "file": JSON array of canonical URLs, rewritten in full on Flush
//   - "sqlite": SQLite database file
//
// If Driver is empty or "none", the seen-set lives in memory only.
type Config struct {
	Driver      string
	Path        string
	BusyTimeout time.Duration // sqlite only; 0 means default
}

// Store is the seen-set. Contains/Add operate on the in-memory set; Flush
// rewrites the persisted representation to exactly the current set. Flush
// failure is expected to be treated as non-fatal by callers (best-effort
// persistence: notify anyway, accept a possible duplicate after a crash).
type Store interface {
	Contains(key string) bool
	Add(key string)
	Flush(ctx context.Context) error
	Close() error
}

// Open initializes the configured store and loads its persisted state.
// A missing backing store is not an error: it starts empty and is created
// right away. A corrupt one is logged and degraded to an empty set.
func Open(cfg Config, log logx.Logger) (Store, error) {
	if log.IsZero() {
		log = logx.Nop()
	}
	switch driver := strings.ToLower(strings.TrimSpace(cfg.Driver)); driver {
	case "", "none":
		return newMemStore(), nil
	case "file":
		return openFile(cfg, log)
	case "sqlite", "sqlite3":
		return openSQLite(cfg, log)
	default:
		return nil, errUnknownDriver(driver)
	}
}

type errUnknownDriver string

func (e errUnknownDriver) Error() string { return "unknown storage driver: " + string(e) }

// seenSet is the shared in-memory half of every backend.
type seenSet struct {
	mu   sync.RWMutex
	seen map[string]struct{}
}

func newSeenSet() *seenSet {
	return &seenSet{seen: map[string]struct{}{}}
}

func (s *seenSet) Contains(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.seen[key]
	return ok
}

func (s *seenSet) Add(key string) {
	key = strings.TrimSpace(key)
	if key == "" {
		return
	}
	s.mu.Lock()
	s.seen[key] = struct{}{}
	s.mu.Unlock()
}

func (s *seenSet) snapshot() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.seen))
	for k := range s.seen {
		out = append(out, k)
	}
	return out
}

// memStore keeps the set in memory only (storage disabled).
type memStore struct{ *seenSet }

func newMemStore() *memStore { return &memStore{newSeenSet()} }

func (*memStore) Flush(context.Context) error { return nil }
func (*memStore) Close() error                { return nil }
