package records

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// Cache persists extracted records as JSON on local disk, sharded by the
// first character of the upload id, with a process-level map in front.
// Workbooks are immutable once uploaded, so a cached extraction never goes
// stale; invalidation exists only for operational cleanup.
type Cache struct {
	dir   string
	group singleflight.Group

	mu  sync.RWMutex
	mem map[uuid.UUID][]Record
}

func NewCache(dir string) *Cache {
	return &Cache{
		dir: dir,
		mem: make(map[uuid.UUID][]Record),
	}
}

// Records returns the cached extraction for an upload, calling load to
// produce it on a miss. Concurrent callers for the same upload share a
// single load; a workbook is never parsed twice at the same time.
func (c *Cache) Records(id uuid.UUID, load func() ([]Record, error)) ([]Record, error) {
	c.mu.RLock()
	cached, ok := c.mem[id]
	c.mu.RUnlock()
	if ok {
		return cached, nil
	}

	result, err, _ := c.group.Do(id.String(), func() (any, error) {
		if records, err := c.readDisk(id); err == nil {
			c.store(id, records)
			return records, nil
		}

		records, err := load()
		if err != nil {
			return nil, err
		}

		if err := c.writeDisk(id, records); err != nil {
			return nil, fmt.Errorf("cache records for upload %s: %w", id, err)
		}
		c.store(id, records)
		return records, nil
	})
	if err != nil {
		return nil, err
	}

	return result.([]Record), nil
}

// Invalidate drops an upload's cached extraction from memory and disk.
func (c *Cache) Invalidate(id uuid.UUID) error {
	c.mu.Lock()
	delete(c.mem, id)
	c.mu.Unlock()

	err := os.Remove(c.path(id))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove cached records for upload %s: %w", id, err)
	}
	return nil
}

func (c *Cache) store(id uuid.UUID, records []Record) {
	c.mu.Lock()
	c.mem[id] = records
	c.mu.Unlock()
}

func (c *Cache) path(id uuid.UUID) string {
	s := id.String()
	return filepath.Join(c.dir, s[:1], s+".json")
}

func (c *Cache) readDisk(id uuid.UUID) ([]Record, error) {
	data, err := os.ReadFile(c.path(id))
	if err != nil {
		return nil, err
	}

	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (c *Cache) writeDisk(id uuid.UUID, records []Record) error {
	path := c.path(id)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	data, err := json.Marshal(records)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".records-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), path)
}
