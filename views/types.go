package views

import "github.com/eringen/pensieve/content"

// SiteConfig holds the site-wide settings templates read.
type SiteConfig struct {
	Name        string // site name, used in <title>
	URL         string // canonical origin, e.g. https://example.com
	Description string
	Author      string
	BasePath    string // blog section prefix, e.g. "pensieve"
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
	JSONLD      string
}

// PostView is everything the post template renders. Previous and Next are
// nil at the ends of the post list.
type PostView struct {
	Post     content.Article
	Previous *content.Article
	Next     *content.Article
}
