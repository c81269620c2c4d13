// Package buildcache keeps compiled executables keyed by the hash of what produced them,
// so recompiling an unchanged source is a file copy.
package buildcache

import (
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/programme-lv/grader/internal/xdg"
)

type Cache struct {
	dir string
	mu  sync.Mutex
}

// New creates the cache directory if needed.
func New(dir string) (*Cache, error) {
	if err := xdg.EnsureDir(dir); err != nil {
		return nil, fmt.Errorf("failed to create build cache directory: %w", err)
	}
	return &Cache{dir: dir}, nil
}

func (c *Cache) Dir() string {
	return c.dir
}

// Key hashes the parts with a separator so ("ab","c") and ("a","bc") differ.
func Key(parts ...[]byte) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write(p)
		h.Write([]byte{0})
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}

// Restore copies the cached executable for key to dst. It reports false if key is not cached.
func (c *Cache) Restore(key string, dst string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	src := filepath.Join(c.dir, key)
	if _, err := os.Stat(src); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}

	if err := copyFile(src, dst); err != nil {
		return false, fmt.Errorf("failed to restore cached build %s: %w", key, err)
	}
	return true, nil
}

// Store saves the executable at src under key.
func (c *Cache) Store(key string, src string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	tmp := filepath.Join(c.dir, key+".tmp")
	if err := copyFile(src, tmp); err != nil {
		return fmt.Errorf("failed to store build %s: %w", key, err)
	}
	if err := os.Rename(tmp, filepath.Join(c.dir, key)); err != nil {
		return fmt.Errorf("failed to move build %s into cache: %w", key, err)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0755)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
