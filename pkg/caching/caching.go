// Package caching keeps downloaded competitor markup on disk so repeated
// runs over the same SERP do not hit the network again.
package caching

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dtnitsch/serp-benchmark/internal/common"
)

// Cache is a file-per-URL markup cache with a TTL.
// Distinct URLs map to distinct files, so concurrent use is safe.
type Cache struct {
	dir string
	ttl time.Duration
}

// NewCache creates the cache directory if needed.
func NewCache(dir string, ttl time.Duration) (*Cache, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &Cache{dir: dir, ttl: ttl}, nil
}

// Dir returns the cache directory.
func (c *Cache) Dir() string {
	return c.dir
}

func (c *Cache) path(url string) string {
	return filepath.Join(c.dir, common.ContentHash([]byte(url))+".html")
}

// Get returns cached markup for url when present and younger than the TTL.
func (c *Cache) Get(url string) ([]byte, bool) {
	filePath := c.path(url)

	info, err := os.Stat(filePath)
	if err != nil {
		return nil, false
	}
	if c.ttl > 0 && time.Since(info.ModTime()) > c.ttl {
		return nil, false
	}

	data, err := os.ReadFile(filePath)
	if err != nil || len(data) == 0 {
		return nil, false
	}
	return data, true
}

// Set stores markup for url. The write goes through a temp file so a reader
// never sees a partial page.
func (c *Cache) Set(url string, data []byte) error {
	filePath := c.path(url)
	tmp := filePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0640); err != nil {
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	if err := os.Rename(tmp, filePath); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to commit cache entry: %w", err)
	}
	return nil
}
