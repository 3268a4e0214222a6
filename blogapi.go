// Package blogapi is a read-only blog backend built with Go and Echo.
// Content lives as a year/month/day/slug tree of markdown folders on disk;
// the package walks it into an in-memory index, keeps the index fresh via
// staleness detection, and serves it over a small JSON API alongside the
// raw content files, an RSS feed, and a sitemap.
package blogapi

import (
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
)

// App is the central blogapi application. It wires together the index
// cache, handlers, middleware, and the optional content watcher.
type App struct {
	Config SiteConfig
	Echo   *echo.Echo
	Cache  *IndexCache

	clearLimiter *requestLimiter
	watcher      *contentWatcher
	customRoutes []func(*App)
	cacheOpts    []CacheOption
}

// New creates a new blogapi App with the given configuration.
func New(cfg SiteConfig, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config: cfg,
		Echo:   echo.New(),
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Start initializes the cache, middleware, routes, and starts the server.
func (a *App) Start() error {
	if err := a.init(); err != nil {
		return err
	}
	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// init sets up everything short of listening. Split from Start so tests can
// exercise the full route table without binding a port.
func (a *App) init() error {
	opts := append([]CacheOption{WithLogger(a.Echo.Logger)}, a.cacheOpts...)
	a.Cache = NewIndexCache(a.Config.ContentDir, a.Config.IndexTTL, opts...)

	a.clearLimiter = newRequestLimiter(5, time.Minute)

	if a.Config.WatchContent {
		w, err := newContentWatcher(a.Config.ContentDir, a.Cache, a.Echo.Logger)
		if err != nil {
			// The fingerprint poll still detects changes, so a watch failure
			// (e.g. content tree not mounted yet) is not fatal.
			a.Echo.Logger.Warnf("content watch disabled: %v", err)
		} else {
			a.watcher = w
		}
	}

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	// JSON API consumed by the frontend.
	e.GET("/api/posts", a.handleListPosts)
	e.GET("/api/posts/*", a.handleGetPost)
	e.POST("/api/cache/clear", a.handleCacheClear)

	// Images and other entry assets are served straight from the content
	// tree; markdown image links resolve to /content/<post id>/<file>.
	e.Static("/content", a.Config.ContentDir)

	e.GET("/healthz", a.handleHealth)
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.watcher != nil {
		return a.watcher.Close()
	}
	return nil
}

// EnvOr returns the value of the environment variable key, or fallback if
// empty. Convenience for main.go files.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// MustEnv returns the value of the environment variable key, or fatally
// exits if empty.
func MustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatalf("blogapi: required environment variable %s is not set", key)
	}
	return v
}

// EnvSeconds parses the environment variable key as a whole number of
// seconds, or returns fallback if unset or invalid.
func EnvSeconds(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Printf("blogapi: ignoring invalid %s=%q", key, v)
		return fallback
	}
	return time.Duration(n) * time.Second
}
