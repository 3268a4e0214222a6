package blogapi

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// postListResponse is the body of GET /api/posts.
type postListResponse struct {
	Posts []PostSummary `json:"posts"`
	Tags  []TagCount    `json:"tags"`
}

func (a *App) handleListPosts(c echo.Context) error {
	tag := c.QueryParam("tag")
	posts, tags, err := a.Cache.ListPosts(tag)
	if err != nil {
		c.Logger().Errorf("list posts: %v", err)
		return echo.NewHTTPError(http.StatusServiceUnavailable, "content index unavailable")
	}
	if posts == nil {
		posts = []PostSummary{}
	}
	if tags == nil {
		tags = []TagCount{}
	}
	return c.JSON(http.StatusOK, postListResponse{Posts: posts, Tags: tags})
}

func (a *App) handleGetPost(c echo.Context) error {
	id := c.Param("*")
	post, err := a.Cache.GetPost(id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "post not found")
		}
		c.Logger().Errorf("get post %q: %v", id, err)
		return echo.NewHTTPError(http.StatusServiceUnavailable, "content index unavailable")
	}
	return c.JSON(http.StatusOK, post)
}

// handleCacheClear is the admin hook for forcing a rebuild ahead of the
// staleness checks. Not linked from the UI; rate limited per IP.
func (a *App) handleCacheClear(c echo.Context) error {
	if !a.clearLimiter.Allow(c.RealIP()) {
		return echo.NewHTTPError(http.StatusTooManyRequests, "too many requests")
	}
	a.Cache.Invalidate()
	return c.JSON(http.StatusOK, map[string]bool{"ok": true})
}

func (a *App) handleHealth(c echo.Context) error {
	if !a.Cache.Ready() {
		// Warm the cache on the first probe instead of reporting down
		// forever on an idle instance.
		if _, err := a.Cache.Get(); err != nil {
			return echo.NewHTTPError(http.StatusServiceUnavailable, "content index unavailable")
		}
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// handleRobots generates robots.txt dynamically using the site URL.
func (a *App) handleRobots(c echo.Context) error {
	body := "User-agent: *\nAllow: /\n\nSitemap: " + a.Config.URL + "/sitemap.xml\n"
	return c.String(http.StatusOK, body)
}
