// Package parsecache memoizes (parseTree, SourceContent) per file,
// keyed by file identity and content hash. A changed file is re-parsed
// on its next TreeOf call because its hash no longer matches. Entries
// are discarded two ways: explicitly, by the update controller for
// every deleted file, and — when a TTL is configured — by a background sweep that
// drops entries not accessed within that window, bounding memory on
// long-lived analyzers whose query traffic touches only a few files.
package parsecache

import (
	"sync"
	"sync/atomic"
	"time"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/oxhq/codescope/sourcetext"
)

// ParseFunc parses raw file bytes into a Tree-sitter tree.
type ParseFunc func(raw []byte) (*sitter.Tree, error)

type entry struct {
	mu         sync.Mutex
	hash       string
	tree       *sitter.Tree
	source     *sourcetext.SourceContent
	lastAccess atomic.Int64 // unix nanos of the last TreeOf touch
}

// Cache is a per-file parse-tree memo. The zero value is not usable;
// construct with New or NewWithTTL.
type Cache struct {
	entries sync.Map // file (string) -> *entry
	hits    atomic.Int64
	misses  atomic.Int64

	ttl       time.Duration
	sweepOnce sync.Once
}

// New returns an empty Cache with no time-based eviction.
func New() *Cache {
	return &Cache{}
}

// NewWithTTL returns a Cache that additionally evicts entries not
// accessed for ttl. The sweep goroutine starts lazily on the first
// TreeOf call and runs at the ttl cadence. A ttl <= 0 disables
// eviction, behaving like New.
func NewWithTTL(ttl time.Duration) *Cache {
	return &Cache{ttl: ttl}
}

// TreeOf returns the parsed tree and SourceContent for file, parsing
// on demand via parse and memoizing the result. Concurrent callers for
// the same file observe at most one parse in flight: all but the first
// block on entry.mu and then receive the now-cached result.
//
// A cache hit is any call whose entry already holds raw's content hash;
// any other outcome re-parses and is a miss.
func (c *Cache) TreeOf(file string, raw []byte, parse ParseFunc) (*sitter.Tree, *sourcetext.SourceContent, error) {
	c.startSweeper()

	v, _ := c.entries.LoadOrStore(file, &entry{})
	e := v.(*entry)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastAccess.Store(time.Now().UnixNano())

	sc := sourcetext.New(file, raw)

	if e.tree != nil && e.hash == sc.Hash() {
		c.hits.Add(1)
		return e.tree, e.source, nil
	}

	c.misses.Add(1)
	tree, err := parse(raw)
	if err != nil {
		return nil, nil, err
	}

	e.tree = tree
	e.hash = sc.Hash()
	e.source = sc
	return e.tree, e.source, nil
}

// startSweeper launches the TTL eviction goroutine once per Cache.
// Eviction only unlinks the entry from the map; callers already holding
// a tree keep using it.
func (c *Cache) startSweeper() {
	if c.ttl <= 0 {
		return
	}
	c.sweepOnce.Do(func() {
		go func() {
			ticker := time.NewTicker(c.ttl)
			defer ticker.Stop()
			for range ticker.C {
				cutoff := time.Now().Add(-c.ttl).UnixNano()
				c.entries.Range(func(key, value any) bool {
					if value.(*entry).lastAccess.Load() < cutoff {
						c.entries.Delete(key)
					}
					return true
				})
			}
		}()
	})
}

// Invalidate discards file's cached entry, forcing the next TreeOf
// call to re-parse. Called by the update controller for every deleted
// file; added or modified files need no call, since TreeOf re-parses
// whenever the content hash differs.
func (c *Cache) Invalidate(file string) {
	c.entries.Delete(file)
}

// Stats reports cumulative hit/miss counts, for diagnostics.
func (c *Cache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}
