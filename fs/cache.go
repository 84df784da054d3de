// Package fs provides a file-backed cache for backend responses.
package fs

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"

	"github.com/fwojciec/commitgen"
)

// Compile-time interface verification.
var _ commitgen.Backend = (*Cache)(nil)

// Cache wraps a Backend with a content-addressed response cache. Wired
// around the analysis backend, it makes regeneration re-run only the final
// synthesis: unchanged files hit the cache instead of the model.
type Cache struct {
	inner    commitgen.Backend
	cacheDir string
}

// NewCache creates a caching backend.
func NewCache(inner commitgen.Backend, cacheDir string) *Cache {
	return &Cache{inner: inner, cacheDir: cacheDir}
}

// Complete returns a cached response or delegates to the inner backend.
func (c *Cache) Complete(ctx context.Context, req commitgen.CompletionRequest) (string, error) {
	key := c.hashRequest(req)

	if cached, err := os.ReadFile(c.cachePath(key)); err == nil {
		return string(cached), nil
	}

	result, err := c.inner.Complete(ctx, req)
	if err != nil {
		return "", err
	}

	// Store in cache (best-effort)
	_ = c.save(key, result)

	return result, nil
}

func (c *Cache) hashRequest(req commitgen.CompletionRequest) string {
	h := sha256.New()
	h.Write([]byte(req.Model))
	h.Write([]byte{0})
	h.Write([]byte(req.System))
	h.Write([]byte{0})
	h.Write([]byte(req.Prompt))
	return hex.EncodeToString(h.Sum(nil))
}

func (c *Cache) cachePath(key string) string {
	return filepath.Join(c.cacheDir, key+".txt")
}

func (c *Cache) save(key, result string) error {
	if err := os.MkdirAll(c.cacheDir, 0755); err != nil {
		return err
	}
	return os.WriteFile(c.cachePath(key), []byte(result), 0644)
}

// DefaultCacheDir returns the default cache directory for commitgen.
// Uses XDG_CACHE_HOME if set, otherwise falls back to ~/.cache/commitgen,
// or system temp directory if home is unavailable.
func DefaultCacheDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "commitgen")
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(os.TempDir(), "commitgen")
	}
	return filepath.Join(home, ".cache", "commitgen")
}
