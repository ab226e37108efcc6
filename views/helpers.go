package views

import (
	"encoding/json"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/a-h/templ"
	"golang.org/x/net/html"

	"github.com/eringen/pensieve/content"
	"github.com/eringen/pensieve/pages"
)

// BuildURL joins path segments onto a base URL, ensuring a trailing slash.
// A path that ends in a file name ("feed.xml") keeps no slash.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if len(pathSegments) > 0 && !strings.HasSuffix(u.Path, "/") && path.Ext(u.Path) == "" {
		u.Path += "/"
	}
	return u.String()
}

// AbsURL prefixes an already rooted site path with the site origin,
// leaving the path exactly as registered.
func AbsURL(base, sitePath string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(sitePath, "/")
}

// TagLinkAttr marks the anchors these views generate into the tag section.
// Links inside WordPress content never carry it.
const TagLinkAttr = "data-tag-link"

// TagHref is the link to a tag page. It is the materializer's own path
// function, so links and registered pages always agree.
func TagHref(cfg SiteConfig, tag string) string {
	return pages.TagPath(cfg.BasePath, tag)
}

// BlogHref is the link to the blog section index.
func BlogHref(cfg SiteConfig) string {
	base := strings.Trim(cfg.BasePath, "/")
	if base == "" {
		return "/"
	}
	return "/" + base + "/"
}

// PlainText strips markup from a WordPress HTML fragment (titles and
// excerpts) and decodes entities.
func PlainText(fragment string) string {
	z := html.NewTokenizer(strings.NewReader(fragment))
	var b strings.Builder
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.Join(strings.Fields(b.String()), " ")
		case html.TextToken:
			b.Write(z.Text())
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			b.WriteByte(' ')
		}
	}
}

func formatDate(a content.Article) string {
	if a.Date.IsZero() {
		return ""
	}
	return a.Date.Format("January 2, 2006")
}

// WebsiteJsonLD produces a Schema.org WebSite JSON-LD block using cfg values.
func WebsiteJsonLD(cfg SiteConfig) string {
	data := map[string]interface{}{
		"@context": "https://schema.org",
		"@type":    "WebSite",
		"name":     cfg.Name,
		"url":      BuildURL(cfg.URL),
	}
	if cfg.Description != "" {
		data["description"] = cfg.Description
	}
	if cfg.Author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  cfg.Author,
		}
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// BlogPostingJsonLD produces a Schema.org BlogPosting JSON-LD block for a post.
func BlogPostingJsonLD(cfg SiteConfig, post content.Article) string {
	postURL := AbsURL(cfg.URL, post.URI)
	data := map[string]interface{}{
		"@context":    "https://schema.org",
		"@type":       "BlogPosting",
		"headline":    PlainText(post.Title),
		"description": PlainText(post.Excerpt),
		"url":         postURL,
		"publisher": map[string]string{
			"@type": "Organization",
			"name":  cfg.Name,
		},
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   postURL,
		},
	}
	if !post.Date.IsZero() {
		data["datePublished"] = post.Date.Format("2006-01-02")
	}
	if cfg.Author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  cfg.Author,
		}
	}
	if len(post.Tags) > 0 {
		data["keywords"] = strings.Join(post.Tags, ", ")
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// printer accumulates the first write error so templates read top to bottom.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) raw(parts ...string) {
	for _, s := range parts {
		if p.err != nil {
			return
		}
		_, p.err = io.WriteString(p.w, s)
	}
}

func (p *printer) text(s string) {
	p.raw(templ.EscapeString(s))
}

func (p *printer) attr(name, value string) {
	p.raw(" ", name, `="`, templ.EscapeString(value), `"`)
}
