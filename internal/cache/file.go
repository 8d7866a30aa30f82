package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"ramadan-taqwim/internal/timings"
)

const monthCacheFile = "month_%s.json" // keyed by hash

// FileStore is a JSON-file month cache rooted at a directory.
type FileStore struct {
	dir string
}

// NewFileStore creates a FileStore rooted at dir.
// If dir is empty, it defaults to ~/.cache/ramadan-taqwim/.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("cannot determine home directory: %w", err)
		}
		dir = filepath.Join(home, ".cache", "ramadan-taqwim")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create cache directory %s: %w", dir, err)
	}

	return &FileStore{dir: dir}, nil
}

// path maps a cache key to its file. Keys are hashed so arbitrary city
// strings never reach the filesystem.
func (s *FileStore) path(key string) string {
	h := sha256.Sum256([]byte(key))
	return filepath.Join(s.dir, fmt.Sprintf(monthCacheFile, fmt.Sprintf("%x", h[:8])))
}

// LoadMonth reads a cached month. Returns nil if the entry is missing,
// unreadable, or was stored under a different key (hash collision guard).
func (s *FileStore) LoadMonth(_ context.Context, key string) *timings.MonthTimings {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		return nil
	}

	var mt timings.MonthTimings
	if err := json.Unmarshal(data, &mt); err != nil {
		return nil
	}
	if mt.CacheKey != key {
		return nil
	}

	return &mt
}

// SaveMonth writes a month to the cache.
func (s *FileStore) SaveMonth(_ context.Context, mt *timings.MonthTimings) error {
	data, err := json.Marshal(mt)
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}

	if err := os.WriteFile(s.path(mt.CacheKey), data, 0o644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}

	return nil
}

// Close is a no-op for the file backend.
func (s *FileStore) Close() error { return nil }
