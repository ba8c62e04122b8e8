// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"hash/fnv"
	"sync"
)

// defaultProgramLimit is the soft limit of the shared program cache.
const defaultProgramLimit = 16

// programs holds the built-in programs, compiled once per process.
var programs = newProgramCache(defaultProgramLimit)

// programKey identifies a program by name and source.
type programKey struct {
	name string
	sum  uint64
}

func keyFor(name, vertexWGSL, fragmentWGSL, colorUniform string) programKey {
	h := fnv.New64a()
	for _, s := range []string{vertexWGSL, fragmentWGSL, colorUniform} {
		_, _ = h.Write([]byte(s)) // fnv.Write never returns an error
		_, _ = h.Write([]byte{0})
	}
	return programKey{name: name, sum: h.Sum64()}
}

type programEntry struct {
	prog  *Program
	atime int64
}

// programCache memoizes compiled programs. Failed compiles are not
// stored. When the cache exceeds its soft limit the least recently used
// entries are evicted down to three quarters of the limit.
//
// programCache is safe for concurrent use.
type programCache struct {
	mu      sync.Mutex
	entries map[programKey]*programEntry
	limit   int
	tick    int64
}

func newProgramCache(limit int) *programCache {
	return &programCache{
		entries: make(map[programKey]*programEntry),
		limit:   limit,
	}
}

// compile returns the cached program for the sources or compiles it.
// Compilation runs under the lock so concurrent callers compile once.
func (c *programCache) compile(name, vertexWGSL, fragmentWGSL, colorUniform string) (*Program, error) {
	key := keyFor(name, vertexWGSL, fragmentWGSL, colorUniform)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.tick++
	if e, ok := c.entries[key]; ok {
		e.atime = c.tick
		return e.prog, nil
	}

	p, err := CompileProgram(name, vertexWGSL, fragmentWGSL, colorUniform)
	if err != nil {
		return nil, err
	}
	c.entries[key] = &programEntry{prog: p, atime: c.tick}
	if c.limit > 0 && len(c.entries) > c.limit {
		c.evictOldest()
	}
	return p, nil
}

// len returns the number of cached programs.
func (c *programCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// evictOldest removes least recently used entries. Caller must hold c.mu.
func (c *programCache) evictOldest() {
	target := max(c.limit*3/4, 1)
	for len(c.entries) > target {
		var oldest programKey
		first := true
		var atime int64
		for k, e := range c.entries {
			if first || e.atime < atime {
				oldest, atime, first = k, e.atime, false
			}
		}
		delete(c.entries, oldest)
	}
}
