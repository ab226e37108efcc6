package pensieve

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/pensieve/content"
	"github.com/eringen/pensieve/pages"
)

// memSource is an in-memory content.Source. Articles are kept newest first.
type memSource struct {
	tags     []content.Tag
	articles []content.Article
	err      error

	postCalls atomic.Int64
}

func newMemSource(tags []string, articles ...content.Article) *memSource {
	s := &memSource{articles: articles}
	for _, t := range tags {
		s.tags = append(s.tags, content.Tag{Name: t})
	}
	return s
}

func (s *memSource) QueryGraph(ctx context.Context) (*content.Graph, error) {
	if s.err != nil {
		return nil, s.err
	}
	posts := make([]content.Post, len(s.articles))
	for i, a := range s.articles {
		posts[i] = content.Post{ID: a.ID, URI: a.URI}
	}
	return &content.Graph{Tags: s.tags, Posts: content.Link(posts)}, nil
}

func (s *memSource) Post(ctx context.Context, id string) (content.Article, error) {
	s.postCalls.Add(1)
	for _, a := range s.articles {
		if a.ID == id {
			return a, nil
		}
	}
	return content.Article{}, content.ErrNotFound
}

func (s *memSource) PostsByTag(ctx context.Context, tag string, limit int) ([]content.Article, error) {
	var out []content.Article
	for _, a := range s.articles {
		for _, t := range a.Tags {
			if t == tag {
				out = append(out, a)
				break
			}
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *memSource) TagIndex(ctx context.Context) ([]content.Tag, error) {
	out := make([]content.Tag, len(s.tags))
	for i, t := range s.tags {
		out[i] = content.Tag{Name: t.Name}
		for _, a := range s.articles {
			for _, at := range a.Tags {
				if at == t.Name {
					out[i].Count++
				}
			}
		}
	}
	return out, nil
}

func (s *memSource) RecentPosts(ctx context.Context, limit int) ([]content.Article, error) {
	return s.articles[:min(limit, len(s.articles))], nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func exampleSource() *memSource {
	return newMemSource([]string{"Magic", "Owls"},
		content.Article{
			ID: "p1", URI: "/a", Title: "Hedwig &amp; Friends",
			Date:    time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC),
			Excerpt: "<p>About owls.</p>", Content: "<p>Owls deliver post.</p>",
			Tags: []string{"Owls", "Magic"},
		},
		content.Article{
			ID: "p2", URI: "/b", Title: "Wands",
			Date:    time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
			Excerpt: "<p>About wands.</p>", Content: "<p>Holly and phoenix feather.</p>",
			Tags: []string{"Magic"},
		},
	)
}

func testApp(t *testing.T, src content.Source) *App {
	t.Helper()
	cfg := SiteConfig{
		Name:      "Pensieve",
		URL:       "https://example.com",
		OutputDir: filepath.Join(t.TempDir(), "public"),
	}
	return New(cfg, src, WithLogger(quietLogger()))
}

func ptr(s string) *string { return &s }

func readOutput(t *testing.T, a *App, rel string) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join(a.Config.OutputDir, filepath.FromSlash(rel)))
	require.NoError(t, err)
	return string(b)
}

func TestBuildRegistersExamplePages(t *testing.T) {
	app := testApp(t, exampleSource())

	res, err := app.Build(context.Background())
	require.NoError(t, err)

	want := []pages.Page{
		{Path: "/pensieve/tags/magic/", Template: pages.TemplateTag, Context: pages.Context{pages.KeyTag: ptr("Magic")}},
		{Path: "/pensieve/tags/owls/", Template: pages.TemplateTag, Context: pages.Context{pages.KeyTag: ptr("Owls")}},
		{Path: "/a", Template: pages.TemplatePost, Context: pages.Context{
			pages.KeyID: ptr("p1"), pages.KeyPreviousPostID: nil, pages.KeyNextPostID: ptr("p2"),
		}},
		{Path: "/b", Template: pages.TemplatePost, Context: pages.Context{
			pages.KeyID: ptr("p2"), pages.KeyPreviousPostID: ptr("p1"), pages.KeyNextPostID: nil,
		}},
	}
	assert.Equal(t, want, res.Pages)
}

func TestBuildWritesSite(t *testing.T) {
	app := testApp(t, exampleSource())
	_, err := app.Build(context.Background())
	require.NoError(t, err)

	for _, rel := range []string{
		"a/index.html",
		"b/index.html",
		"pensieve/index.html",
		"pensieve/tags/index.html",
		"pensieve/tags/magic/index.html",
		"pensieve/tags/owls/index.html",
		"sitemap.xml",
		"feed.xml",
		"robots.txt",
	} {
		assert.FileExists(t, filepath.Join(app.Config.OutputDir, filepath.FromSlash(rel)), rel)
	}

	first := readOutput(t, app, "a/index.html")
	assert.Contains(t, first, `<a rel="next" href="/b">Wands &rarr;</a>`)
	assert.NotContains(t, first, `rel="prev"`)
	assert.Contains(t, first, `href="/pensieve/tags/owls/"`)

	last := readOutput(t, app, "b/index.html")
	assert.Contains(t, last, `<a rel="prev" href="/a">&larr; Hedwig &amp; Friends</a>`)
	assert.NotContains(t, last, `rel="next"`)

	magic := readOutput(t, app, "pensieve/tags/magic/index.html")
	assert.Contains(t, magic, `href="/a"`)
	assert.Contains(t, magic, `href="/b"`)
	owls := readOutput(t, app, "pensieve/tags/owls/index.html")
	assert.NotContains(t, owls, `href="/b"`)

	sitemap := readOutput(t, app, "sitemap.xml")
	assert.Contains(t, sitemap, "<loc>https://example.com/a</loc>")
	assert.Contains(t, sitemap, "<loc>https://example.com/pensieve/tags/magic/</loc>")

	feed := readOutput(t, app, "feed.xml")
	assert.Contains(t, feed, "<title>Hedwig &amp; Friends</title>")
	assert.Contains(t, readOutput(t, app, "robots.txt"), "Sitemap: https://example.com/sitemap.xml")
}

func TestBuildCachesNeighbourLookups(t *testing.T) {
	src := exampleSource()
	app := testApp(t, src)
	app.Config.Concurrency = 1
	_, err := app.Build(context.Background())
	require.NoError(t, err)
	// Two post pages each need both articles; without the cache that is four reads.
	assert.LessOrEqual(t, src.postCalls.Load(), int64(2))
}

func TestBuildLogsCachedPosts(t *testing.T) {
	var logs bytes.Buffer
	app := testApp(t, exampleSource())
	app.logger = slog.New(slog.NewTextHandler(&logs, nil))

	_, err := app.Build(context.Background())
	require.NoError(t, err)
	assert.Contains(t, logs.String(), `msg="build complete"`)
	assert.Contains(t, logs.String(), "cached_posts=2")
}

func TestBuildQueryErrorHalts(t *testing.T) {
	src := exampleSource()
	src.err = errors.New("graphql: Cannot query field \"tagz\"")
	app := testApp(t, src)

	res, err := app.Build(context.Background())
	require.Error(t, err)
	assert.Nil(t, res)

	var qe *content.QueryError
	require.ErrorAs(t, err, &qe)
	assert.NoDirExists(t, app.Config.OutputDir)

	records, err := app.Pages(context.Background())
	require.Error(t, err)
	assert.Empty(t, records)
}

func TestBuildEmptyGraph(t *testing.T) {
	app := testApp(t, newMemSource(nil))
	res, err := app.Build(context.Background())
	require.NoError(t, err)
	assert.Empty(t, res.Pages)
	assert.FileExists(t, filepath.Join(app.Config.OutputDir, "pensieve", "tags", "index.html"))
}

func TestBuildFailsOnMissingArticle(t *testing.T) {
	src := exampleSource()
	app := testApp(t, src)
	// The graph still lists p2 but its article can no longer be loaded.
	g, err := src.QueryGraph(context.Background())
	require.NoError(t, err)
	app.Source = &fixedGraph{memSource: src, graph: g}
	src.articles = src.articles[:1]

	_, err = app.Build(context.Background())
	var re *pages.RegistrationError
	require.ErrorAs(t, err, &re)
	assert.ErrorIs(t, err, content.ErrNotFound)
}

func TestBuildRejectsUnregisteredTagLinks(t *testing.T) {
	src := exampleSource()
	// "Ghost" is on an article but missing from the tag list, so its link has no page.
	src.articles[1].Tags = append(src.articles[1].Tags, "Ghost")
	app := testApp(t, src)

	_, err := app.Build(context.Background())
	var broken *BrokenLinksError
	require.ErrorAs(t, err, &broken)
	require.NotEmpty(t, broken.Links)
	for _, l := range broken.Links {
		assert.Equal(t, "/pensieve/tags/ghost/", l.Href)
	}
}

func TestBuildIgnoresTagLinksInPostContent(t *testing.T) {
	src := exampleSource()
	// Hand-written links into the tag section are not generated by the views
	// and need not match a registered path byte for byte.
	src.articles[0].Content = `<p>See <a href="/pensieve/tags/magic">magic</a> and <a href="/pensieve/tags/gone/">gone</a>.</p>`
	app := testApp(t, src)

	_, err := app.Build(context.Background())
	require.NoError(t, err)
	assert.Contains(t, readOutput(t, app, "a/index.html"), `<a href="/pensieve/tags/magic">magic</a>`)
}

func TestPagesDoesNotRender(t *testing.T) {
	app := testApp(t, exampleSource())
	records, err := app.Pages(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 4)
	assert.NoDirExists(t, app.Config.OutputDir)
}

func TestCloseReleasesStore(t *testing.T) {
	st := newTestStore(t)
	app := New(SiteConfig{}, st)
	require.NoError(t, app.Close())
	assert.Error(t, st.db.Ping())

	assert.NoError(t, New(SiteConfig{}, exampleSource()).Close())
}

// fixedGraph answers QueryGraph with a graph captured earlier.
type fixedGraph struct {
	*memSource
	graph *content.Graph
}

func (f *fixedGraph) QueryGraph(ctx context.Context) (*content.Graph, error) {
	return f.graph, nil
}
