// Package cache stores captured minutes documents on disk, one file per URL
// hash. It is a simple, deterministic content-addressable cache: entries are
// written once on first success and replaced only by an explicit re-fetch.
// No eviction policy is included.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/civictext/gijiroku/internal/minutes"
)

// DocumentCache stores documents as <key>.json where key is sha256(url).
type DocumentCache struct {
	Dir string
}

func (c *DocumentCache) ensureDir() error {
	if c == nil || c.Dir == "" {
		return errors.New("cache dir not configured")
	}
	return os.MkdirAll(c.Dir, 0o755)
}

// Key returns the stable hash used as the cache key for a URL.
func (c *DocumentCache) Key(url string) string {
	h := sha256.Sum256([]byte(url))
	return hex.EncodeToString(h[:])
}

func (c *DocumentCache) entryPath(key string) string {
	return filepath.Join(c.Dir, key+".json")
}

// Has reports whether an entry exists for the URL.
func (c *DocumentCache) Has(_ context.Context, url string) bool {
	if c == nil || c.Dir == "" {
		return false
	}
	_, err := os.Stat(c.entryPath(c.Key(url)))
	return err == nil
}

// Load returns the cached document for the URL, if present.
func (c *DocumentCache) Load(_ context.Context, url string) (*minutes.Document, error) {
	if err := c.ensureDir(); err != nil {
		return nil, err
	}
	f, err := os.Open(c.entryPath(c.Key(url)))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var doc minutes.Document
	if err := json.NewDecoder(f).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode entry: %w", err)
	}
	return &doc, nil
}

// Save writes the document as the entry for the URL, replacing any existing
// entry as a whole file.
func (c *DocumentCache) Save(_ context.Context, url string, doc *minutes.Document) error {
	if err := c.ensureDir(); err != nil {
		return err
	}
	path := c.entryPath(c.Key(url))
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create entry: %w", err)
	}
	if err := json.NewEncoder(f).Encode(doc); err != nil {
		f.Close()
		return fmt.Errorf("encode entry: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
