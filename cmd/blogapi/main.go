package main

import (
	"log"
	"strings"
	"time"

	"github.com/reusserstudio/blogapi"
)

func main() {
	cfg := blogapi.SiteConfig{
		Name:        blogapi.EnvOr("SITE_NAME", "Blog"),
		URL:         strings.TrimSuffix(blogapi.EnvOr("SITE_URL", "http://localhost:3000"), "/"),
		Description: blogapi.EnvOr("SITE_DESCRIPTION", ""),

		Addr:       blogapi.EnvOr("ADDR", ":3000"),
		ContentDir: blogapi.EnvOr("BLOG_CONTENT_DIR", "content"),
		CORSOrigin: blogapi.EnvOr("BLOG_CORS_ORIGIN", "*"),

		IndexTTL:     blogapi.EnvSeconds("BLOG_CACHE_SECONDS", time.Hour),
		WatchContent: strings.EqualFold(blogapi.EnvOr("BLOG_WATCH", "false"), "true"),
	}

	app := blogapi.New(cfg)
	defer app.Close()

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
