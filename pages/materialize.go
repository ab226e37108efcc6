package pages

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/eringen/pensieve/content"
)

// ErrEmptySlug is returned for a tag whose name has no letters or digits.
var ErrEmptySlug = errors.New("pages: tag name has an empty slug")

// SlugCollisionError reports two distinct tag names that map to the same
// page path. The build cannot pick a winner, so it fails.
type SlugCollisionError struct {
	Slug  string
	Names [2]string
}

func (e *SlugCollisionError) Error() string {
	return fmt.Sprintf("pages: tags %q and %q both slugify to %q", e.Names[0], e.Names[1], e.Slug)
}

// RegistrationError reports a page the registrar failed to create.
type RegistrationError struct {
	Path     string
	Template Template
	Err      error
}

func (e *RegistrationError) Error() string {
	return fmt.Sprintf("pages: register %s page %s: %v", e.Template, e.Path, e.Err)
}

func (e *RegistrationError) Unwrap() error { return e.Err }

// Materializer registers one page per tag and one per post.
type Materializer struct {
	// Base is the path prefix for tag pages, e.g. "pensieve".
	Base string
	// Concurrency bounds in-flight registrations; zero means unbounded.
	Concurrency int
	Logger      *slog.Logger
}

func (m *Materializer) logger() *slog.Logger {
	if m.Logger != nil {
		return m.Logger
	}
	return slog.Default()
}

// TagPages builds the tag page records. Identical names are kept as they
// are; distinct names sharing a slug are an error.
func (m *Materializer) TagPages(tags []content.Tag) ([]Page, error) {
	seen := make(map[string]string, len(tags))
	out := make([]Page, 0, len(tags))
	for _, t := range tags {
		slug := Slugify(t.Name)
		if slug == "" {
			return nil, fmt.Errorf("%w: %q", ErrEmptySlug, t.Name)
		}
		if prev, ok := seen[slug]; ok && prev != t.Name {
			return nil, &SlugCollisionError{Slug: slug, Names: [2]string{prev, t.Name}}
		}
		seen[slug] = t.Name
		out = append(out, Page{
			Path:     TagPath(m.Base, t.Name),
			Template: TemplateTag,
			Context:  Context{KeyTag: str(t.Name)},
		})
	}
	return out, nil
}

// PostPages builds the post page records. The path is the post's uri.
func (m *Materializer) PostPages(edges []content.PostEdge) []Page {
	out := make([]Page, 0, len(edges))
	for _, e := range edges {
		ctx := Context{
			KeyID:             str(e.Post.ID),
			KeyPreviousPostID: nil,
			KeyNextPostID:     nil,
		}
		if e.Previous != nil {
			ctx[KeyPreviousPostID] = str(e.Previous.ID)
		}
		if e.Next != nil {
			ctx[KeyNextPostID] = str(e.Next.ID)
		}
		out = append(out, Page{Path: e.Post.URI, Template: TemplatePost, Context: ctx})
	}
	return out
}

// CreateTagPages registers a page for every tag.
func (m *Materializer) CreateTagPages(ctx context.Context, reg Registrar, tags []content.Tag) error {
	pages, err := m.TagPages(tags)
	if err != nil {
		return err
	}
	return m.register(ctx, reg, pages)
}

// CreatePostPages registers a page for every post.
func (m *Materializer) CreatePostPages(ctx context.Context, reg Registrar, edges []content.PostEdge) error {
	return m.register(ctx, reg, m.PostPages(edges))
}

// Materialize registers every tag and post page of g. Tag records are
// checked before anything is registered; registrations then run
// concurrently and the first failure cancels the rest. A nil graph is
// rejected with content.ErrInvalidResult.
func (m *Materializer) Materialize(ctx context.Context, reg Registrar, g *content.Graph) error {
	if g == nil {
		return fmt.Errorf("pages: %w: nil graph", content.ErrInvalidResult)
	}
	tagPages, err := m.TagPages(g.Tags)
	if err != nil {
		return err
	}
	postPages := m.PostPages(g.Posts)

	start := time.Now()
	all := make([]Page, 0, len(tagPages)+len(postPages))
	all = append(all, tagPages...)
	all = append(all, postPages...)
	if err := m.register(ctx, reg, all); err != nil {
		return err
	}
	m.logger().Info("pages materialized",
		"tags", len(tagPages),
		"posts", len(postPages),
		"duration", time.Since(start))
	return nil
}

func (m *Materializer) register(ctx context.Context, reg Registrar, pages []Page) error {
	g, ctx := errgroup.WithContext(ctx)
	if m.Concurrency > 0 {
		g.SetLimit(m.Concurrency)
	}
	for _, p := range pages {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := reg.CreatePage(ctx, p); err != nil {
				return &RegistrationError{Path: p.Path, Template: p.Template, Err: err}
			}
			m.logger().Debug("page registered", "path", p.Path, "template", p.Template.String())
			return nil
		})
	}
	return g.Wait()
}
