package pensieve

import (
	"bufio"
	"encoding/xml"
	"path/filepath"
	"time"

	"github.com/eringen/pensieve/content"
	"github.com/eringen/pensieve/views"
)

// FeedSize is the number of posts in feed.xml.
const FeedSize = 20

type rssXML struct {
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
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate,omitempty"`
	GUID        string `xml:"guid"`
}

func (a *App) writeFeed(posts []content.Article) error {
	base := a.Config.URL
	items := make([]rssItem, 0, len(posts))
	for _, p := range posts {
		pubDate := ""
		if !p.Date.IsZero() {
			pubDate = p.Date.Format(time.RFC1123Z)
		}
		postURL := views.AbsURL(base, p.URI)
		items = append(items, rssItem{
			Title:       views.PlainText(p.Title),
			Link:        postURL,
			Description: views.PlainText(p.Excerpt),
			PubDate:     pubDate,
			GUID:        postURL,
		})
	}
	feed := rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       a.Config.Name,
			Link:        views.BuildURL(base, a.Config.BasePath),
			Description: a.Config.Description,
			Items:       items,
		},
	}
	return writeFile(filepath.Join(a.Config.OutputDir, "feed.xml"), func(w *bufio.Writer) error {
		if _, err := w.WriteString(xml.Header); err != nil {
			return err
		}
		return xml.NewEncoder(w).Encode(feed)
	})
}
