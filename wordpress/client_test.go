package wordpress

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/pensieve/content"
)

type gqlRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

// fakeWP answers GraphQL requests with the response its handler picks.
type fakeWP struct {
	t       *testing.T
	mu      sync.Mutex
	reqs    []gqlRequest
	auth    []string
	respond func(r gqlRequest) string
}

func (f *fakeWP) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req gqlRequest
	require.NoError(f.t, json.NewDecoder(r.Body).Decode(&req))
	f.mu.Lock()
	f.reqs = append(f.reqs, req)
	f.auth = append(f.auth, r.Header.Get("Authorization"))
	f.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(f.respond(req)))
}

func newFake(t *testing.T, respond func(r gqlRequest) string) (*fakeWP, *Client) {
	t.Helper()
	f := &fakeWP{t: t, respond: respond}
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	return f, NewClient(srv.URL+"/graphql", WithToken("secret"), WithPageSize(2))
}

func TestQueryGraphFollowsCursors(t *testing.T) {
	f, c := newFake(t, func(r gqlRequest) string {
		require.True(t, strings.Contains(r.Query, "PensieveGraph"))
		if r.Variables["postsAfter"] == nil {
			return `{"data":{
				"tags":{"pageInfo":{"hasNextPage":false,"endCursor":"t1"},"nodes":[{"name":"Magic"},{"name":"Owls"}]},
				"posts":{"pageInfo":{"hasNextPage":true,"endCursor":"p2"},"nodes":[{"id":"p1","uri":"/a/"},{"id":"p2","uri":"/b/"}]}
			}}`
		}
		assert.Equal(t, "p2", r.Variables["postsAfter"])
		return `{"data":{
			"tags":{"pageInfo":{"hasNextPage":false,"endCursor":null},"nodes":[]},
			"posts":{"pageInfo":{"hasNextPage":false,"endCursor":"p3"},"nodes":[{"id":"p3","uri":"/c/"}]}
		}}`
	})

	g, err := c.QueryGraph(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []content.Tag{{Name: "Magic"}, {Name: "Owls"}}, g.Tags)
	require.Len(t, g.Posts, 3)
	assert.Equal(t, "/a/", g.Posts[0].Post.URI)
	assert.Nil(t, g.Posts[0].Previous)
	assert.Equal(t, "p1", g.Posts[1].Previous.ID)
	assert.Equal(t, "p3", g.Posts[1].Next.ID)
	assert.Nil(t, g.Posts[2].Next)
	assert.NoError(t, content.Validate(g))

	require.Len(t, f.reqs, 2)
	assert.EqualValues(t, 2, f.reqs[0].Variables["first"])
	assert.Equal(t, "Bearer secret", f.auth[0])
}

func TestQueryGraphErrorsAreReturned(t *testing.T) {
	_, c := newFake(t, func(r gqlRequest) string {
		return `{"data":null,"errors":[{"message":"Internal server error"}]}`
	})
	g, err := c.QueryGraph(context.Background())
	assert.Nil(t, g)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Internal server error")

	_, err = content.Fetch(context.Background(), c)
	var qe *content.QueryError
	assert.ErrorAs(t, err, &qe)
}

func TestQueryGraphServerDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.QueryGraph(context.Background())
	assert.Error(t, err)
}

func TestPost(t *testing.T) {
	_, c := newFake(t, func(r gqlRequest) string {
		if r.Variables["id"] == "missing" {
			return `{"data":{"post":null}}`
		}
		return `{"data":{"post":{
			"id":"p1","uri":"/2021/03/hello/","title":"Hello","date":"2021-03-04T10:20:30",
			"excerpt":"<p>hi</p>","content":"<p>body</p>",
			"tags":{"nodes":[{"name":"Magic"},{"name":"Owls"}]}
		}}}`
	})

	a, err := c.Post(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "Hello", a.Title)
	assert.Equal(t, "/2021/03/hello/", a.URI)
	assert.Equal(t, time.Date(2021, 3, 4, 10, 20, 30, 0, time.UTC), a.Date)
	assert.Equal(t, []string{"Magic", "Owls"}, a.Tags)

	_, err = c.Post(context.Background(), "missing")
	assert.ErrorIs(t, err, content.ErrNotFound)
}

func TestPostsByTag(t *testing.T) {
	_, c := newFake(t, func(r gqlRequest) string {
		assert.Equal(t, []interface{}{"Harry Potter"}, r.Variables["tag"])
		assert.EqualValues(t, 2, r.Variables["first"])
		return `{"data":{"tags":{"nodes":[{"posts":{"nodes":[
			{"id":"p2","uri":"/b/","title":"B","date":"2021-02-01T00:00:00","tags":{"nodes":[{"name":"Harry Potter"}]}},
			{"id":"p1","uri":"/a/","title":"A","date":"2021-01-01T00:00:00","tags":{"nodes":[{"name":"Harry Potter"}]}}
		]}}]}}}`
	})

	got, err := c.PostsByTag(context.Background(), "Harry Potter", 2000)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "B", got[0].Title)
}

func TestPostsByTagFollowsCursor(t *testing.T) {
	f, c := newFake(t, func(r gqlRequest) string {
		require.True(t, strings.Contains(r.Query, "PostsByTag"))
		switch r.Variables["after"] {
		case nil:
			return `{"data":{"tags":{"nodes":[{"posts":{"pageInfo":{"hasNextPage":true,"endCursor":"c1"},"nodes":[
				{"id":"p3","uri":"/c/","date":"2021-03-01T00:00:00"},
				{"id":"p2","uri":"/b/","date":"2021-02-01T00:00:00"}]}}]}}}`
		case "c1":
			return `{"data":{"tags":{"nodes":[{"posts":{"pageInfo":{"hasNextPage":true,"endCursor":"c2"},"nodes":[
				{"id":"p1","uri":"/a/","date":"2021-01-01T00:00:00"}]}}]}}}`
		default:
			return `{"data":{"tags":{"nodes":[{"posts":{"pageInfo":{"hasNextPage":false,"endCursor":"c3"},"nodes":[
				{"id":"pX","uri":"/x/","date":"2020-11-01T00:00:00"}]}}]}}}`
		}
	})

	got, err := c.PostsByTag(context.Background(), "Magic", 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "p3", got[0].ID)
	assert.Equal(t, "p1", got[2].ID)

	require.Len(t, f.reqs, 2)
	assert.EqualValues(t, 2, f.reqs[0].Variables["first"])
	assert.EqualValues(t, 1, f.reqs[1].Variables["first"])
	assert.Equal(t, "c1", f.reqs[1].Variables["after"])
	assert.Equal(t, []interface{}{"Magic"}, f.reqs[1].Variables["tag"])
}

func TestPostsByUnknownTag(t *testing.T) {
	_, c := newFake(t, func(r gqlRequest) string {
		return `{"data":{"tags":{"nodes":[]}}}`
	})
	got, err := c.PostsByTag(context.Background(), "nope", 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestTagIndexPages(t *testing.T) {
	f, c := newFake(t, func(r gqlRequest) string {
		if r.Variables["after"] == nil {
			return `{"data":{"tags":{"pageInfo":{"hasNextPage":true,"endCursor":"c1"},
				"nodes":[{"name":"Magic","count":3},{"name":"Owls","count":null}]}}}`
		}
		return `{"data":{"tags":{"pageInfo":{"hasNextPage":false,"endCursor":"c2"},
			"nodes":[{"name":"Potions","count":1}]}}}`
	})

	tags, err := c.TagIndex(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []content.Tag{{Name: "Magic", Count: 3}, {Name: "Owls"}, {Name: "Potions", Count: 1}}, tags)
	assert.Len(t, f.reqs, 2)
}

func TestRecentPostsBadDate(t *testing.T) {
	_, c := newFake(t, func(r gqlRequest) string {
		return `{"data":{"posts":{"nodes":[{"id":"p1","uri":"/a/","date":"yesterday"}]}}}`
	})
	_, err := c.RecentPosts(context.Background(), 20)
	assert.Error(t, err)
}

func TestRecentPostsPagesUpToLimit(t *testing.T) {
	f, c := newFake(t, func(r gqlRequest) string {
		require.True(t, strings.Contains(r.Query, "RecentPosts"))
		switch r.Variables["after"] {
		case nil:
			return `{"data":{"posts":{"pageInfo":{"hasNextPage":true,"endCursor":"c1"},"nodes":[
				{"id":"p1","uri":"/a/","date":"2021-03-01T00:00:00"},
				{"id":"p2","uri":"/b/","date":"2021-02-01T00:00:00"}]}}}`
		default:
			return `{"data":{"posts":{"pageInfo":{"hasNextPage":true,"endCursor":"c2"},"nodes":[
				{"id":"p3","uri":"/c/","date":"2021-01-01T00:00:00"}]}}}`
		}
	})

	got, err := c.RecentPosts(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "p3", got[2].ID)

	require.Len(t, f.reqs, 2)
	assert.EqualValues(t, 2, f.reqs[0].Variables["first"])
	assert.EqualValues(t, 1, f.reqs[1].Variables["first"])
	assert.Equal(t, "c1", f.reqs[1].Variables["after"])
}
