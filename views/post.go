package views

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Post renders a single article with links to its neighbours.
// Titles and content are WordPress HTML and are written as-is.
func Post(cfg SiteConfig, v PostView) templ.Component {
	meta := PageMeta{
		Title:       PlainText(v.Post.Title),
		Description: PlainText(v.Post.Excerpt),
		URL:         AbsURL(cfg.URL, v.Post.URI),
		OGType:      "article",
		JSONLD:      BlogPostingJsonLD(cfg, v.Post),
	}
	return Layout(cfg, meta, postBody(cfg, v))
}

func postBody(cfg SiteConfig, v PostView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &printer{w: w}
		breadcrumb(p, BlogHref(cfg), "All Blog posts")

		p.raw(`<header><h1 class="medium-heading">`, v.Post.Title, `</h1>`)
		subtitle(p, cfg, v.Post)
		p.raw(`</header>`)

		p.raw(`<article class="blog-post" itemscope itemtype="http://schema.org/Article">`)
		if v.Post.Content != "" {
			p.raw(`<section itemprop="articleBody">`, v.Post.Content, `</section>`)
		}
		p.raw(`<hr></article>`)

		p.raw(`<nav class="blog-post-nav"><ul>`)
		p.raw(`<li>`)
		if v.Previous != nil {
			p.raw(`<a rel="prev"`)
			p.attr("href", v.Previous.URI)
			p.raw(`>&larr; `, v.Previous.Title, `</a>`)
		}
		p.raw(`</li><li>`)
		if v.Next != nil {
			p.raw(`<a rel="next"`)
			p.attr("href", v.Next.URI)
			p.raw(`>`, v.Next.Title, ` &rarr;</a>`)
		}
		p.raw(`</li></ul></nav>`)
		return p.err
	})
}
