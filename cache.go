package pensieve

import (
	"context"
	"sync"

	"github.com/eringen/pensieve/content"
)

// PostCache memoizes Post lookups for the length of a build. Every post
// page loads its neighbours too, so without it each article is read up to
// three times.
type PostCache struct {
	content.Reader

	mu    sync.RWMutex
	posts map[string]content.Article
}

// NewPostCache wraps r. Methods other than Post pass straight through.
func NewPostCache(r content.Reader) *PostCache {
	return &PostCache{Reader: r, posts: make(map[string]content.Article)}
}

// Post returns the cached article or loads and caches it. Errors are not
// cached.
func (c *PostCache) Post(ctx context.Context, id string) (content.Article, error) {
	c.mu.RLock()
	a, ok := c.posts[id]
	c.mu.RUnlock()
	if ok {
		return a, nil
	}

	a, err := c.Reader.Post(ctx, id)
	if err != nil {
		return content.Article{}, err
	}
	c.mu.Lock()
	c.posts[id] = a
	c.mu.Unlock()
	return a, nil
}

// Prime seeds the cache, typically with a page of RecentPosts.
func (c *PostCache) Prime(articles []content.Article) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, a := range articles {
		c.posts[a.ID] = a
	}
}

// Len reports the number of cached articles.
func (c *PostCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.posts)
}
