package blogapi

import (
	"encoding/xml"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type rss struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title   string `xml:"title"`
	Link    string `xml:"link"`
	PubDate string `xml:"pubDate,omitempty"`
	GUID    string `xml:"guid"`
}

func (a *App) handleFeed(c echo.Context) error {
	posts, _, err := a.Cache.ListPosts("")
	if err != nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "content index unavailable")
	}

	items := make([]rssItem, 0, len(posts))
	for _, p := range posts {
		pubDate := ""
		// date_path folders are year/MonthName/day; non-calendar names just
		// publish without a pubDate.
		if t, err := time.Parse("2006/January/2", p.DatePath); err == nil {
			pubDate = t.Format(time.RFC1123Z)
		}
		postURL := buildURL(a.Config.URL, p.ID)
		items = append(items, rssItem{
			Title:   p.Title,
			Link:    postURL,
			PubDate: pubDate,
			GUID:    postURL,
		})
	}
	feed := rss{
		Version: "2.0",
		Channel: rssChannel{
			Title:       a.Config.Name,
			Link:        a.Config.URL,
			Description: a.Config.Description,
			Items:       items,
		},
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/rss+xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(feed)
}
