package views

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// NotFound renders the 404 page served by the preview server.
func NotFound(cfg SiteConfig) templ.Component {
	return Layout(cfg, PageMeta{Title: "Not found"}, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &printer{w: w}
		p.raw(`<h1>404</h1><p>This page does not exist.</p>`)
		breadcrumb(p, BlogHref(cfg), "All Blog posts")
		return p.err
	}))
}

// ServerError renders the 500 page served by the preview server.
func ServerError(cfg SiteConfig) templ.Component {
	return Layout(cfg, PageMeta{Title: "Error"}, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &printer{w: w}
		p.raw(`<h1>500</h1><p>Something went wrong.</p>`)
		return p.err
	}))
}
