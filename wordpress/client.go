// Package wordpress reads the blog's content graph from a WordPress site
// through its WPGraphQL endpoint.
package wordpress

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/machinebox/graphql"

	"github.com/eringen/pensieve/content"
)

// DefaultPageSize is the WPGraphQL default maximum for a connection page.
const DefaultPageSize = 100

// wpDate is the layout WPGraphQL uses for post dates (site local time).
const wpDate = "2006-01-02T15:04:05"

// Client is a content.Source backed by WPGraphQL.
type Client struct {
	gql      *graphql.Client
	token    string
	pageSize int
	logger   *slog.Logger
}

var _ content.Source = (*Client)(nil)

// Option configures a Client.
type Option func(*clientOptions)

type clientOptions struct {
	httpClient *http.Client
	token      string
	pageSize   int
	logger     *slog.Logger
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *clientOptions) { o.httpClient = hc }
}

// WithToken sends token as a bearer Authorization header.
func WithToken(token string) Option {
	return func(o *clientOptions) { o.token = token }
}

// WithPageSize sets the connection page size.
func WithPageSize(n int) Option {
	return func(o *clientOptions) { o.pageSize = n }
}

// WithLogger sets the logger; request traces go out at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(o *clientOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// NewClient returns a Client for the GraphQL endpoint, e.g.
// "https://example.com/graphql".
func NewClient(endpoint string, opts ...Option) *Client {
	o := clientOptions{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		pageSize:   DefaultPageSize,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.pageSize <= 0 {
		o.pageSize = DefaultPageSize
	}
	gql := graphql.NewClient(endpoint, graphql.WithHTTPClient(o.httpClient))
	logger := o.logger.With("endpoint", endpoint)
	gql.Log = func(s string) { logger.Debug(s) }
	return &Client{gql: gql, token: o.token, pageSize: o.pageSize, logger: logger}
}

func (c *Client) newRequest(q string) *graphql.Request {
	req := graphql.NewRequest(q)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req
}

type pageInfo struct {
	HasNextPage bool    `json:"hasNextPage"`
	EndCursor   *string `json:"endCursor"`
}

type graphResponse struct {
	Tags struct {
		PageInfo pageInfo `json:"pageInfo"`
		Nodes    []struct {
			Name string `json:"name"`
		} `json:"nodes"`
	} `json:"tags"`
	Posts struct {
		PageInfo pageInfo       `json:"pageInfo"`
		Nodes    []content.Post `json:"nodes"`
	} `json:"posts"`
}

// QueryGraph runs the combined query, following both connections' cursors
// until exhausted, and links the posts in date-descending order.
func (c *Client) QueryGraph(ctx context.Context) (*content.Graph, error) {
	var (
		tags                  []content.Tag
		posts                 []content.Post
		tagsAfter, postsAfter *string
		tagsDone, postsDone   bool
	)
	for page := 1; !tagsDone || !postsDone; page++ {
		req := c.newRequest(graphQuery)
		req.Var("first", c.pageSize)
		req.Var("tagsAfter", tagsAfter)
		req.Var("postsAfter", postsAfter)

		var resp graphResponse
		if err := c.gql.Run(ctx, req, &resp); err != nil {
			return nil, fmt.Errorf("wordpress: graph query page %d: %w", page, err)
		}
		if !tagsDone {
			for _, n := range resp.Tags.Nodes {
				tags = append(tags, content.Tag{Name: n.Name})
			}
			tagsAfter, tagsDone = advance(resp.Tags.PageInfo)
		}
		if !postsDone {
			posts = append(posts, resp.Posts.Nodes...)
			postsAfter, postsDone = advance(resp.Posts.PageInfo)
		}
	}
	c.logger.Debug("graph fetched", "tags", len(tags), "posts", len(posts))
	return &content.Graph{Tags: tags, Posts: content.Link(posts)}, nil
}

// advance returns the next cursor and whether the connection is exhausted.
// A page that claims more results without a cursor is treated as the last.
func advance(pi pageInfo) (*string, bool) {
	if !pi.HasNextPage || pi.EndCursor == nil {
		return pi.EndCursor, true
	}
	return pi.EndCursor, false
}

type articleNode struct {
	ID      string `json:"id"`
	URI     string `json:"uri"`
	Title   string `json:"title"`
	Date    string `json:"date"`
	Excerpt string `json:"excerpt"`
	Content string `json:"content"`
	Tags    struct {
		Nodes []struct {
			Name string `json:"name"`
		} `json:"nodes"`
	} `json:"tags"`
}

func (n articleNode) article() (content.Article, error) {
	a := content.Article{
		ID:      n.ID,
		URI:     n.URI,
		Title:   n.Title,
		Excerpt: n.Excerpt,
		Content: n.Content,
	}
	if n.Date != "" {
		d, err := time.Parse(wpDate, strings.TrimSuffix(n.Date, "Z"))
		if err != nil {
			return content.Article{}, fmt.Errorf("wordpress: post %q date: %w", n.ID, err)
		}
		a.Date = d
	}
	for _, t := range n.Tags.Nodes {
		a.Tags = append(a.Tags, t.Name)
	}
	return a, nil
}

func articles(nodes []articleNode) ([]content.Article, error) {
	out := make([]content.Article, 0, len(nodes))
	for _, n := range nodes {
		a, err := n.article()
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

// Post loads a post by its global id.
func (c *Client) Post(ctx context.Context, id string) (content.Article, error) {
	req := c.newRequest(postQuery)
	req.Var("id", id)

	var resp struct {
		Post *articleNode `json:"post"`
	}
	if err := c.gql.Run(ctx, req, &resp); err != nil {
		return content.Article{}, fmt.Errorf("wordpress: post %q: %w", id, err)
	}
	if resp.Post == nil {
		return content.Article{}, fmt.Errorf("wordpress: post %q: %w", id, content.ErrNotFound)
	}
	return resp.Post.article()
}

// PostsByTag loads up to limit posts carrying the tag named tag, a page at
// a time.
func (c *Client) PostsByTag(ctx context.Context, tag string, limit int) ([]content.Article, error) {
	var (
		out   []content.Article
		after *string
	)
	for len(out) < limit {
		req := c.newRequest(postsByTagQuery)
		req.Var("tag", []string{tag})
		req.Var("first", min(c.pageSize, limit-len(out)))
		req.Var("after", after)

		var resp struct {
			Tags struct {
				Nodes []struct {
					Posts struct {
						PageInfo pageInfo      `json:"pageInfo"`
						Nodes    []articleNode `json:"nodes"`
					} `json:"posts"`
				} `json:"nodes"`
			} `json:"tags"`
		}
		if err := c.gql.Run(ctx, req, &resp); err != nil {
			return nil, fmt.Errorf("wordpress: posts tagged %q: %w", tag, err)
		}
		if len(resp.Tags.Nodes) == 0 {
			break
		}
		conn := resp.Tags.Nodes[0].Posts
		page, err := articles(conn.Nodes)
		if err != nil {
			return nil, err
		}
		out = append(out, page...)
		var done bool
		if after, done = advance(conn.PageInfo); done {
			break
		}
	}
	return out, nil
}

// RecentPosts loads the newest limit posts, a page at a time.
func (c *Client) RecentPosts(ctx context.Context, limit int) ([]content.Article, error) {
	var (
		out   []content.Article
		after *string
	)
	for len(out) < limit {
		req := c.newRequest(recentPostsQuery)
		req.Var("first", min(c.pageSize, limit-len(out)))
		req.Var("after", after)

		var resp struct {
			Posts struct {
				PageInfo pageInfo      `json:"pageInfo"`
				Nodes    []articleNode `json:"nodes"`
			} `json:"posts"`
		}
		if err := c.gql.Run(ctx, req, &resp); err != nil {
			return nil, fmt.Errorf("wordpress: recent posts: %w", err)
		}
		page, err := articles(resp.Posts.Nodes)
		if err != nil {
			return nil, err
		}
		out = append(out, page...)
		var done bool
		if after, done = advance(resp.Posts.PageInfo); done {
			break
		}
	}
	return out, nil
}

// TagIndex loads every tag with its post count.
func (c *Client) TagIndex(ctx context.Context) ([]content.Tag, error) {
	var (
		tags  []content.Tag
		after *string
	)
	for {
		req := c.newRequest(tagIndexQuery)
		req.Var("first", c.pageSize)
		req.Var("after", after)

		var resp struct {
			Tags struct {
				PageInfo pageInfo `json:"pageInfo"`
				Nodes    []struct {
					Name  string `json:"name"`
					Count *int   `json:"count"`
				} `json:"nodes"`
			} `json:"tags"`
		}
		if err := c.gql.Run(ctx, req, &resp); err != nil {
			return nil, fmt.Errorf("wordpress: tag index: %w", err)
		}
		for _, n := range resp.Tags.Nodes {
			t := content.Tag{Name: n.Name}
			if n.Count != nil {
				t.Count = *n.Count
			}
			tags = append(tags, t)
		}
		var done bool
		if after, done = advance(resp.Tags.PageInfo); done {
			return tags, nil
		}
	}
}
