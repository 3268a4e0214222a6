package blogapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func setupTestApp(t *testing.T, root string) *App {
	t.Helper()
	app := New(SiteConfig{
		Name:       "Test Blog",
		URL:        "https://blog.example.com",
		ContentDir: root,
		IndexTTL:   time.Hour,
	})
	app.Echo.Logger.SetOutput(discardWriter{})
	if err := app.init(); err != nil {
		t.Fatalf("app init failed: %v", err)
	}
	t.Cleanup(func() { app.Close() })
	return app
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

func doRequest(app *App, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	app.Echo.ServeHTTP(rec, req)
	return rec
}

func TestEndToEndListAndGet(t *testing.T) {
	root := t.TempDir()
	writeEntry(t, root, "2026/February/10", "my-first-post", "# Hello\n#greetings hi")
	app := setupTestApp(t, root)

	rec := doRequest(app, http.MethodGet, "/api/posts")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /api/posts -> %d, want 200", rec.Code)
	}
	var list postListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decoding list response: %v", err)
	}
	if len(list.Posts) != 1 {
		t.Fatalf("posts = %+v, want one entry", list.Posts)
	}
	p := list.Posts[0]
	if p.ID != "2026/February/10/my-first-post" || p.Title != "Hello" || p.DatePath != "2026/February/10" {
		t.Errorf("summary = %+v", p)
	}
	if len(p.Tags) != 1 || p.Tags[0] != "greetings" {
		t.Errorf("tags = %v, want [greetings]", p.Tags)
	}
	if len(list.Tags) != 1 || list.Tags[0].Tag != "greetings" || list.Tags[0].Count != 1 {
		t.Errorf("tag counts = %+v", list.Tags)
	}

	rec = doRequest(app, http.MethodGet, "/api/posts/2026/February/10/my-first-post")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET detail -> %d, want 200", rec.Code)
	}
	var detail PostDetail
	if err := json.Unmarshal(rec.Body.Bytes(), &detail); err != nil {
		t.Fatalf("decoding detail response: %v", err)
	}
	if detail.ID != "2026/February/10/my-first-post" {
		t.Errorf("detail ID = %q", detail.ID)
	}
	if detail.Markdown != "# Hello\n#greetings hi" {
		t.Errorf("detail Markdown = %q", detail.Markdown)
	}
}

func TestGetPostRouteNotFound(t *testing.T) {
	root := t.TempDir()
	writeEntry(t, root, "2026/February/10", "exists", "# Exists")
	app := setupTestApp(t, root)

	rec := doRequest(app, http.MethodGet, "/api/posts/2026/February/10/missing")
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown id -> %d, want 404", rec.Code)
	}
}

func TestListPostsEmptyTreeReturnsEmptyArrays(t *testing.T) {
	app := setupTestApp(t, t.TempDir())

	rec := doRequest(app, http.MethodGet, "/api/posts")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /api/posts -> %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"posts":[]`) || !strings.Contains(body, `"tags":[]`) {
		t.Errorf("empty tree should serialize empty arrays, got %s", body)
	}
}

func TestListPostsTagFilterQuery(t *testing.T) {
	root := t.TempDir()
	writeEntry(t, root, "2026/February/10", "tagged", "# Tagged\n#special")
	writeEntry(t, root, "2026/February/11", "plain", "# Plain")
	app := setupTestApp(t, root)

	rec := doRequest(app, http.MethodGet, "/api/posts?tag=special")
	var list postListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decoding list response: %v", err)
	}
	if len(list.Posts) != 1 || list.Posts[0].ID != "2026/February/10/tagged" {
		t.Errorf("filtered posts = %+v", list.Posts)
	}
}

func TestCacheClearHook(t *testing.T) {
	root := t.TempDir()
	writeEntry(t, root, "2026/February/10", "first", "# First")
	app := setupTestApp(t, root)

	// Prime the cache.
	doRequest(app, http.MethodGet, "/api/posts")

	rec := doRequest(app, http.MethodPost, "/api/cache/clear")
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /api/cache/clear -> %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"ok":true`) {
		t.Errorf("clear response = %s", rec.Body.String())
	}

	rec = doRequest(app, http.MethodGet, "/api/posts")
	if rec.Code != http.StatusOK {
		t.Errorf("GET after clear -> %d, want 200", rec.Code)
	}
}

func TestCacheClearRateLimited(t *testing.T) {
	app := setupTestApp(t, t.TempDir())

	var last int
	for i := 0; i < 6; i++ {
		last = doRequest(app, http.MethodPost, "/api/cache/clear").Code
	}
	if last != http.StatusTooManyRequests {
		t.Errorf("sixth clear -> %d, want 429", last)
	}
}

func TestHealthz(t *testing.T) {
	root := t.TempDir()
	writeEntry(t, root, "2026/February/10", "up", "# Up")
	app := setupTestApp(t, root)

	rec := doRequest(app, http.MethodGet, "/healthz")
	if rec.Code != http.StatusOK {
		t.Errorf("GET /healthz -> %d, want 200", rec.Code)
	}
}

func TestHealthzMissingRoot(t *testing.T) {
	app := setupTestApp(t, "/nonexistent/blog/content")

	rec := doRequest(app, http.MethodGet, "/healthz")
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("GET /healthz with no index -> %d, want 503", rec.Code)
	}
}

func TestListPostsUnavailableBeforeFirstBuild(t *testing.T) {
	app := setupTestApp(t, "/nonexistent/blog/content")

	rec := doRequest(app, http.MethodGet, "/api/posts")
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("GET /api/posts with no index -> %d, want 503", rec.Code)
	}
}

func TestFeedAndSitemap(t *testing.T) {
	root := t.TempDir()
	writeEntry(t, root, "2026/February/10", "feed-post", "# Feed Post")
	app := setupTestApp(t, root)

	rec := doRequest(app, http.MethodGet, "/feed.xml")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /feed.xml -> %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "<title>Feed Post</title>") {
		t.Errorf("feed missing post title: %s", body)
	}
	if !strings.Contains(body, "https://blog.example.com/2026/February/10/feed-post/") {
		t.Errorf("feed missing post link: %s", body)
	}

	rec = doRequest(app, http.MethodGet, "/sitemap.xml")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /sitemap.xml -> %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "<loc>https://blog.example.com/2026/February/10/feed-post/</loc>") {
		t.Errorf("sitemap missing post loc: %s", rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "<lastmod>2026-02-10</lastmod>") {
		t.Errorf("sitemap missing lastmod: %s", rec.Body.String())
	}
}

func TestRobotsTxt(t *testing.T) {
	app := setupTestApp(t, t.TempDir())

	rec := doRequest(app, http.MethodGet, "/robots.txt")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /robots.txt -> %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Sitemap: https://blog.example.com/sitemap.xml") {
		t.Errorf("robots.txt = %s", rec.Body.String())
	}
}

func TestContentStaticServing(t *testing.T) {
	root := t.TempDir()
	dir := writeEntry(t, root, "2026/February/10", "with-image", "# Img\n![x](photo.png)")
	if err := os.WriteFile(filepath.Join(dir, "photo.png"), []byte("png-bytes"), 0o644); err != nil {
		t.Fatal(err)
	}
	app := setupTestApp(t, root)

	rec := doRequest(app, http.MethodGet, "/content/2026/February/10/with-image/photo.png")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET content asset -> %d, want 200", rec.Code)
	}
	if rec.Body.String() != "png-bytes" {
		t.Errorf("asset body = %q", rec.Body.String())
	}
}
