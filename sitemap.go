package pensieve

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"path/filepath"

	"github.com/eringen/pensieve/pages"
	"github.com/eringen/pensieve/views"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// writeSitemap lists the blog index, the tag index and every registered page.
func (a *App) writeSitemap(records []pages.Page) error {
	base := a.Config.URL
	urls := []sitemapURL{
		{Loc: views.BuildURL(base, a.Config.BasePath)},
		{Loc: views.BuildURL(base, pages.TagIndexPath(a.Config.BasePath))},
	}
	seen := make(map[string]struct{}, len(records))
	for _, p := range records {
		if _, ok := seen[p.Path]; ok {
			continue
		}
		seen[p.Path] = struct{}{}
		urls = append(urls, sitemapURL{Loc: views.AbsURL(base, p.Path)})
	}
	sitemap := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
	return writeFile(filepath.Join(a.Config.OutputDir, "sitemap.xml"), func(w *bufio.Writer) error {
		if _, err := w.WriteString(xml.Header); err != nil {
			return err
		}
		enc := xml.NewEncoder(w)
		enc.Indent("", "  ")
		return enc.Encode(sitemap)
	})
}

// writeRobots allows everything and points crawlers at the sitemap.
func (a *App) writeRobots() error {
	body := fmt.Sprintf("User-agent: *\nAllow: /\n\nSitemap: %s\n", views.BuildURL(a.Config.URL, "sitemap.xml"))
	return writeFile(filepath.Join(a.Config.OutputDir, "robots.txt"), func(w *bufio.Writer) error {
		_, err := w.WriteString(body)
		return err
	})
}
