package views

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"github.com/eringen/pensieve/content"
	"github.com/eringen/pensieve/pages"
)

// Tag renders the listing of posts carrying tag.
func Tag(cfg SiteConfig, tag string, posts []content.Article) templ.Component {
	meta := PageMeta{
		Title: "Tagged: #" + tag,
		URL:   BuildURL(cfg.URL, TagHref(cfg, tag)),
	}
	return Layout(cfg, meta, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &printer{w: w}
		breadcrumb(p, BlogHref(cfg), "All blogs")
		p.raw(`<h1><span>#`)
		p.text(tag)
		p.raw(`</span><span><a `, TagLinkAttr)
		p.attr("href", pages.TagIndexPath(cfg.BasePath))
		p.raw(`>View all tags</a></span></h1>`)
		postList(p, cfg, posts)
		return p.err
	}))
}

// Blog renders the blog section index.
func Blog(cfg SiteConfig, posts []content.Article) templ.Component {
	meta := PageMeta{
		Title:       "Blog",
		Description: cfg.Description,
		URL:         BuildURL(cfg.URL, BlogHref(cfg)),
	}
	return Layout(cfg, meta, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &printer{w: w}
		p.raw(`<h1><span>Blog</span><span><a `, TagLinkAttr)
		p.attr("href", pages.TagIndexPath(cfg.BasePath))
		p.raw(`>View all tags</a></span></h1>`)
		postList(p, cfg, posts)
		return p.err
	}))
}

func postList(p *printer, cfg SiteConfig, posts []content.Article) {
	p.raw(`<ul class="fancy-list">`)
	for _, post := range posts {
		p.raw(`<li><h2><a`)
		p.attr("href", post.URI)
		p.raw(`>`, post.Title, `</a></h2>`)
		subtitle(p, cfg, post)
		p.raw(`</li>`)
	}
	p.raw(`</ul>`)
}

// TagIndex renders every tag with its post count.
func TagIndex(cfg SiteConfig, tags []content.Tag) templ.Component {
	meta := PageMeta{
		Title: "Tags",
		URL:   BuildURL(cfg.URL, pages.TagIndexPath(cfg.BasePath)),
	}
	return Layout(cfg, meta, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &printer{w: w}
		breadcrumb(p, BlogHref(cfg), "All memories")
		p.raw(`<h1>Tags</h1><ul class="fancy-list">`)
		for _, t := range tags {
			p.raw(`<li><a class="inline-link" `, TagLinkAttr)
			p.attr("href", TagHref(cfg, t.Name))
			p.raw(`>`)
			p.text(t.Name)
			p.raw(` <span class="count">(`, strconv.Itoa(t.Count), `)</span></a></li>`)
		}
		p.raw(`</ul>`)
		return p.err
	}))
}
