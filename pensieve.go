// Package pensieve builds the Pensieve blog as a static site from a headless
// WordPress content graph.
//
// A build is a single pass: one combined query fetches every tag and every
// post (package content), one page record is registered per tag and per post
// (package pages), and each record is rendered into the output directory
// with the templ components in package views. Indexes, sitemap.xml, feed.xml
// and robots.txt are written afterwards, and every tag link in the rendered
// output is checked against the registered pages.
package pensieve

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/eringen/pensieve/content"
	"github.com/eringen/pensieve/pages"
	"github.com/eringen/pensieve/views"
)

// App is the central pensieve application. It ties a content source to the
// materializer, the renderer and the preview server.
type App struct {
	Config SiteConfig
	Source content.Source

	logger *slog.Logger
}

// BuildResult summarizes a finished build.
type BuildResult struct {
	Pages    []pages.Page
	Duration time.Duration
}

// New creates an App reading from src.
func New(cfg SiteConfig, src content.Source, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config: cfg,
		Source: src,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

func (a *App) materializer() *pages.Materializer {
	return &pages.Materializer{
		Base:        a.Config.BasePath,
		Concurrency: a.Config.Concurrency,
		Logger:      a.logger,
	}
}

func (a *App) fetch(ctx context.Context) (*content.Graph, error) {
	g, err := content.Fetch(ctx, a.Source)
	if err != nil {
		a.logger.Error("content query failed, halting build", "error", err)
		return nil, err
	}
	a.logger.Info("content fetched", "tags", len(g.Tags), "posts", len(g.Posts))
	return g, nil
}

// Pages fetches the content graph and returns the page records a build would
// register, without rendering anything.
func (a *App) Pages(ctx context.Context) ([]pages.Page, error) {
	g, err := a.fetch(ctx)
	if err != nil {
		return nil, err
	}
	rec := pages.NewRecorder(nil)
	if err := a.materializer().Materialize(ctx, rec, g); err != nil {
		return nil, err
	}
	return rec.Pages(), nil
}

// Build runs one full build pass into Config.OutputDir. Any failure halts the
// build; pages already written stay on disk.
func (a *App) Build(ctx context.Context) (*BuildResult, error) {
	start := time.Now()
	g, err := a.fetch(ctx)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(a.Config.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("pensieve: create output dir: %w", err)
	}

	reader := NewPostCache(a.Source)
	recent, err := reader.RecentPosts(ctx, TagPostLimit)
	if err != nil {
		return nil, fmt.Errorf("pensieve: load recent posts: %w", err)
	}
	reader.Prime(recent)

	site := a.Config.viewConfig()
	renderer := &Renderer{Dir: a.Config.OutputDir, Site: site, Reader: reader}
	rec := pages.NewRecorder(renderer)
	if err := a.materializer().Materialize(ctx, rec, g); err != nil {
		return nil, err
	}
	records := rec.Pages()

	tags, err := reader.TagIndex(ctx)
	if err != nil {
		return nil, fmt.Errorf("pensieve: load tag index: %w", err)
	}
	tagIndex := pages.TagIndexPath(a.Config.BasePath)
	if err := renderer.Write(ctx, tagIndex, views.TagIndex(site, tags)); err != nil {
		return nil, fmt.Errorf("pensieve: write tag index: %w", err)
	}

	blogIndex := views.BlogHref(site)
	if err := renderer.Write(ctx, blogIndex, views.Blog(site, recent)); err != nil {
		return nil, fmt.Errorf("pensieve: write blog index: %w", err)
	}

	if err := a.writeSitemap(records); err != nil {
		return nil, fmt.Errorf("pensieve: write sitemap: %w", err)
	}
	if err := a.writeFeed(recent[:min(len(recent), FeedSize)]); err != nil {
		return nil, fmt.Errorf("pensieve: write feed: %w", err)
	}
	if err := a.writeRobots(); err != nil {
		return nil, fmt.Errorf("pensieve: write robots.txt: %w", err)
	}

	if err := checkTagLinks(a.Config.OutputDir, a.Config.BasePath, records, tagIndex, blogIndex); err != nil {
		a.logger.Error("tag links do not match registered pages", "error", err)
		return nil, err
	}

	res := &BuildResult{Pages: records, Duration: time.Since(start)}
	a.logger.Info("build complete",
		"dir", a.Config.OutputDir,
		"pages", len(records),
		"cached_posts", reader.Len(),
		"duration", res.Duration)
	return res, nil
}

// Close releases the source when it holds resources (the SQLite store).
func (a *App) Close() error {
	if c, ok := a.Source.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
