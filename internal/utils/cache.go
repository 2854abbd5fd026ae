package utils

import (
	"os"
	"sync"
	"time"
)

type fileEntry[V any] struct {
	value   V
	modTime time.Time
	size    int64
}

// FileCache caches values derived from files, keyed by path. An entry is
// only served while the file's size and modification time are unchanged.
type FileCache[V any] struct {
	mu    sync.RWMutex
	items map[string]fileEntry[V]
}

// NewFileCache creates an empty cache
func NewFileCache[V any]() *FileCache[V] {
	return &FileCache[V]{items: make(map[string]fileEntry[V])}
}

// Get returns the cached value for path if the file has not changed since it was stored
func (c *FileCache[V]) Get(path string) (V, bool) {
	c.mu.RLock()
	entry, ok := c.items[path]
	c.mu.RUnlock()

	var zero V
	if !ok {
		return zero, false
	}

	stat, err := os.Stat(path)
	if err == nil && stat.ModTime().Equal(entry.modTime) && stat.Size() == entry.size {
		return entry.value, true
	}

	c.Invalidate(path)
	return zero, false
}

// Put stores value for path along with the file's current metadata
func (c *FileCache[V]) Put(path string, value V) error {
	stat, err := os.Stat(path)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[path] = fileEntry[V]{value: value, modTime: stat.ModTime(), size: stat.Size()}
	return nil
}

// Invalidate drops the entry for path
func (c *FileCache[V]) Invalidate(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, path)
}

// Len returns the number of cached entries
func (c *FileCache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
