// Package content defines the read-only view of the blog's content graph:
// the tags and date-ordered posts a build pass consumes, the article data
// the renderer loads per page, and the interfaces sources implement.
package content

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by a Reader when the requested post does not exist.
var ErrNotFound = errors.New("content: not found")

// Tag is a post taxonomy term. Count is only populated by TagIndex.
type Tag struct {
	Name  string `json:"name"`
	Count int    `json:"count,omitempty"`
}

// Post identifies a post and its canonical path.
type Post struct {
	ID  string `json:"id"`
	URI string `json:"uri"`
}

// PostRef points at a neighbouring post by id.
type PostRef struct {
	ID string `json:"id"`
}

// PostEdge is a post annotated with its neighbours in date-descending order.
// Previous is the newer post, Next the older one; both are nil at the ends.
type PostEdge struct {
	Previous *PostRef `json:"previous"`
	Post     Post     `json:"post"`
	Next     *PostRef `json:"next"`
}

// Graph is the result of the combined tags and posts query.
type Graph struct {
	Tags  []Tag      `json:"tags"`
	Posts []PostEdge `json:"posts"`
}

// Article is the full post data a page template renders.
type Article struct {
	ID      string
	URI     string
	Title   string
	Date    time.Time
	Excerpt string
	Content string // HTML
	Tags    []string
}

// Querier executes the fixed combined query for all tags and all posts.
type Querier interface {
	QueryGraph(ctx context.Context) (*Graph, error)
}

// Reader loads the per-page data templates need.
type Reader interface {
	// Post returns the post with the given id, or ErrNotFound.
	Post(ctx context.Context, id string) (Article, error)
	// PostsByTag returns up to limit posts carrying tag, newest first.
	PostsByTag(ctx context.Context, tag string, limit int) ([]Article, error)
	// TagIndex returns every tag with its post count.
	TagIndex(ctx context.Context) ([]Tag, error)
	// RecentPosts returns up to limit posts, newest first.
	RecentPosts(ctx context.Context, limit int) ([]Article, error)
}

// Source is a complete content backend.
type Source interface {
	Querier
	Reader
}
