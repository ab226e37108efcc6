package views

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/eringen/pensieve/content"
)

// Layout wraps body in the site's HTML document.
func Layout(cfg SiteConfig, meta PageMeta, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		title := cfg.Name
		if meta.Title != "" {
			title = meta.Title + " | " + cfg.Name
		}
		ogType := meta.OGType
		if ogType == "" {
			ogType = "website"
		}
		jsonLD := meta.JSONLD
		if jsonLD == "" {
			jsonLD = WebsiteJsonLD(cfg)
		}

		p := &printer{w: w}
		p.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		p.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		p.raw(`<title>`)
		p.text(title)
		p.raw(`</title>`)
		if meta.Description != "" {
			p.raw(`<meta name="description"`)
			p.attr("content", meta.Description)
			p.raw(`>`)
		}
		if meta.URL != "" {
			p.raw(`<link rel="canonical"`)
			p.attr("href", meta.URL)
			p.raw(`><meta property="og:url"`)
			p.attr("content", meta.URL)
			p.raw(`>`)
		}
		p.raw(`<meta property="og:type"`)
		p.attr("content", ogType)
		p.raw(`><meta property="og:title"`)
		p.attr("content", title)
		p.raw(`>`)
		p.raw(`<link rel="alternate" type="application/rss+xml" href="/feed.xml">`)
		p.raw(`<script type="application/ld+json">`, jsonLD, `</script>`)
		p.raw(`</head><body><main>`)
		if p.err != nil {
			return p.err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		p.raw(`</main></body></html>`)
		return p.err
	})
}

func breadcrumb(p *printer, href, label string) {
	p.raw(`<span class="breadcrumb"><span class="arrow">&larr;</span><a`)
	p.attr("href", href)
	p.raw(`>`)
	p.text(label)
	p.raw(`</a></span>`)
}

// tagLinks writes the "#tag" links shown under a post title.
func tagLinks(p *printer, cfg SiteConfig, tags []string) {
	for _, t := range tags {
		p.raw(`<a class="tag" `, TagLinkAttr)
		p.attr("href", TagHref(cfg, t))
		p.raw(`>#`)
		p.text(t)
		p.raw(`</a>`)
	}
}

func subtitle(p *printer, cfg SiteConfig, post content.Article) {
	p.raw(`<p class="subtitle">`)
	if d := formatDate(post); d != "" {
		p.raw(`<time`)
		p.attr("datetime", post.Date.Format("2006-01-02"))
		p.raw(`>`)
		p.text(d)
		p.raw(`</time>`)
	}
	if len(post.Tags) > 0 {
		p.raw(`<span>&nbsp;&mdash;&nbsp;</span>`)
		tagLinks(p, cfg, post.Tags)
	}
	p.raw(`</p>`)
}
