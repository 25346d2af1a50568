package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"jobwatch/pkg/logx"
)

// fileStore persists the seen-set as a JSON array of canonical URLs.
// Flush writes the whole snapshot to a temp file and renames it over the
// previous one, so readers never observe a partial write.
type fileStore struct {
	*seenSet
	path string
	log  logx.Logger
}

func openFile(cfg Config, log logx.Logger) (Store, error) {
	path := strings.TrimSpace(cfg.Path)
	if path == "" {
		return nil, errors.New("storage.path is required for file driver")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	s := &fileStore{seenSet: newSeenSet(), path: path, log: log}
	if !s.load() {
		// First run: materialize the empty set so the file exists from startup.
		if err := s.Flush(context.Background()); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// load reads the persisted array and reports whether the backing file
// existed. Absence is normal (first run); any other fault degrades to an
// empty set so the process can keep going.
func (s *fileStore) load() bool {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false
		}
		s.log.Warn("seen-set read failed; starting empty", logx.String("path", s.path), logx.Err(err))
		return true
	}

	var urls []string
	if err := json.Unmarshal(data, &urls); err != nil {
		s.log.Warn("seen-set is corrupt; starting empty", logx.String("path", s.path), logx.Err(err))
		return true
	}

	s.mu.Lock()
	for _, u := range urls {
		u = strings.TrimSpace(u)
		if u != "" {
			s.seen[u] = struct{}{}
		}
	}
	s.mu.Unlock()
	s.log.Debug("seen-set loaded", logx.String("path", s.path), logx.Int("entries", len(urls)))
	return true
}

func (s *fileStore) Flush(ctx context.Context) error {
	_ = ctx
	urls := s.snapshot()
	sort.Strings(urls) // membership is what matters; sorted output diffs nicely

	data, err := json.MarshalIndent(urls, "", "  ")
	if err != nil {
		return fmt.Errorf("encode seen-set: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write seen-set: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace seen-set: %w", err)
	}
	return nil
}

func (s *fileStore) Close() error { return nil }
