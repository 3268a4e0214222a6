package blogapi

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/labstack/gommon/log"
)

// ErrNotFound is returned when a requested post does not exist in the
// current index.
var ErrNotFound = errors.New("post not found")

// IndexCache is the single authoritative holder of the current Index. It
// rebuilds when the index goes stale and swaps the snapshot atomically, so
// readers always see a fully-old or fully-new index, never a mix.
type IndexCache struct {
	mu      sync.RWMutex
	current *Index
	stale   bool // set by Invalidate, cleared by a successful rebuild

	root        string
	ttl         time.Duration
	fingerprint FingerprintFunc
	lg          Logger
}

// CacheOption configures an IndexCache.
type CacheOption func(*IndexCache)

// WithFingerprintFunc replaces the filesystem fingerprint provider.
// Tests use this to drive staleness with controlled fingerprints.
func WithFingerprintFunc(fn FingerprintFunc) CacheOption {
	return func(c *IndexCache) { c.fingerprint = fn }
}

// WithLogger sets the logger used for scan diagnostics.
func WithLogger(lg Logger) CacheOption {
	return func(c *IndexCache) { c.lg = lg }
}

// NewIndexCache creates an IndexCache over the given content root. The
// index is considered stale once ttl has elapsed since it was built, or as
// soon as the content fingerprint no longer matches.
func NewIndexCache(root string, ttl time.Duration, opts ...CacheOption) *IndexCache {
	c := &IndexCache{
		root:        root,
		ttl:         ttl,
		fingerprint: ContentFingerprint,
		lg:          log.New("blogapi"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the current Index, rebuilding first if it is stale. It tries
// a read lock first; the write lock is only taken when a rebuild is needed,
// so concurrent readers never block each other on a cache hit. Exactly one
// rebuild runs at a time; a failed rebuild keeps serving the previous index
// and only errors when no index has ever been built.
func (c *IndexCache) Get() (*Index, error) {
	c.mu.RLock()
	ix, stale := c.current, c.stale
	c.mu.RUnlock()
	if ix != nil && !stale && c.fresh(ix) {
		return ix, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current != nil && !c.stale && c.fresh(c.current) {
		return c.current, nil
	}
	next, err := buildIndex(c.root, c.fingerprint, c.lg)
	if err != nil {
		if c.current != nil {
			c.lg.Errorf("content scan failed, serving previous index: %v", err)
			return c.current, nil
		}
		return nil, fmt.Errorf("building content index: %w", err)
	}
	c.current = next
	c.stale = false
	return next, nil
}

// fresh reports whether ix is still valid: built within the TTL and with a
// fingerprint matching the content tree right now.
func (c *IndexCache) fresh(ix *Index) bool {
	if time.Since(ix.BuiltAt) >= c.ttl {
		return false
	}
	fp, err := c.fingerprint(c.root)
	if err != nil {
		// Root briefly unreadable: a rebuild would fail and fall back to
		// this index anyway, so keep serving it.
		return true
	}
	return fp == ix.Fingerprint
}

// Invalidate marks the current index stale so the next Get rebuilds. The
// old index stays in place until the rebuild succeeds.
func (c *IndexCache) Invalidate() {
	c.mu.Lock()
	c.stale = true
	c.mu.Unlock()
}

// Ready reports whether at least one index has been built successfully.
func (c *IndexCache) Ready() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current != nil
}
