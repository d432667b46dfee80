/*
Copyright © 2026 Benny Powers <web@bennypowers.com>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program. If not, see <http://www.gnu.org/licenses/>.
*/
package source

import (
	"path/filepath"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"bennypowers.dev/closuredeps/fs"
)

// DefaultCacheSize is the number of records a Cache holds when no size is given.
const DefaultCacheSize = 4096

// Cache holds parsed records so a file listed more than once (for example
// both as a library path and as an input) is read only once.
// Entries are invalidated when the file's modification time or size changes.
type Cache struct {
	entries *lru.Cache[string, cacheEntry]
	group   singleflight.Group
}

type cacheEntry struct {
	modTime time.Time
	size    int64
	record  *Record
}

// NewCache creates a cache holding at most size records.
func NewCache(size int) *Cache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	// lru.New only fails for non-positive sizes.
	entries, _ := lru.New[string, cacheEntry](size)
	return &Cache{entries: entries}
}

func cacheKey(path string, parser Parser) string {
	if parser == "" {
		parser = ParserRegex
	}
	return string(parser) + "\x00" + path
}

// Get returns the cached record for path if it is still current.
func (c *Cache) Get(fsys fs.FileSystem, path string, parser Parser) (*Record, bool) {
	path = filepath.Clean(path)
	entry, ok := c.entries.Get(cacheKey(path, parser))
	if !ok {
		return nil, false
	}
	info, err := fsys.Stat(path)
	if err != nil || !info.ModTime().Equal(entry.modTime) || info.Size() != entry.size {
		c.entries.Remove(cacheKey(path, parser))
		return nil, false
	}
	return entry.record, true
}

// GetOrLoad returns the cached record for path or reads it. Concurrent
// calls for the same path share one read.
func (c *Cache) GetOrLoad(fsys fs.FileSystem, path string, parser Parser) (*Record, error) {
	path = filepath.Clean(path)
	if record, ok := c.Get(fsys, path, parser); ok {
		return record, nil
	}

	key := cacheKey(path, parser)
	v, err, _ := c.group.Do(key, func() (any, error) {
		info, err := fsys.Stat(path)
		if err != nil {
			return nil, &IOError{Path: path, Err: err}
		}
		record, err := Read(fsys, path, parser)
		if err != nil {
			return nil, err
		}
		// A write during the read leaves content the first stat does not
		// describe; return it but keep it out of the cache.
		after, err := fsys.Stat(path)
		if err == nil && after.ModTime().Equal(info.ModTime()) && after.Size() == info.Size() {
			c.entries.Add(key, cacheEntry{
				modTime: info.ModTime(),
				size:    info.Size(),
				record:  record,
			})
		}
		return record, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Record), nil
}

// Invalidate drops any cached records for path.
func (c *Cache) Invalidate(path string) {
	path = filepath.Clean(path)
	c.entries.Remove(cacheKey(path, ParserRegex))
	c.entries.Remove(cacheKey(path, ParserAST))
}

// Len returns the number of cached records.
func (c *Cache) Len() int {
	return c.entries.Len()
}
