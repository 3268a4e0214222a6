package blogapi

import "time"

// SiteConfig holds all configuration for a blogapi site.
type SiteConfig struct {
	Name        string // Site name for the RSS channel (default "Blog")
	URL         string // Canonical URL (default "http://localhost:3000")
	Description string // Site description for the RSS channel

	Addr       string // Listen address (default ":3000")
	ContentDir string // Root of the markdown content tree (default "content")
	CORSOrigin string // Allowed CORS origin for the JSON API (default "*")

	IndexTTL     time.Duration // Index freshness window (default 1h)
	WatchContent bool          // Invalidate the index on filesystem events
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Blog"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.ContentDir == "" {
		c.ContentDir = "content"
	}
	if c.CORSOrigin == "" {
		c.CORSOrigin = "*"
	}
	if c.IndexTTL == 0 {
		c.IndexTTL = time.Hour
	}
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithCacheOptions passes options through to the index cache, e.g. a fake
// fingerprint provider in tests.
func WithCacheOptions(opts ...CacheOption) Option {
	return func(a *App) {
		a.cacheOpts = append(a.cacheOpts, opts...)
	}
}
