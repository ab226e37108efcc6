package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinkNeighbours(t *testing.T) {
	posts := []Post{{ID: "p1", URI: "/a"}, {ID: "p2", URI: "/b"}, {ID: "p3", URI: "/c"}}
	edges := Link(posts)
	require.Len(t, edges, len(posts))

	for i, e := range edges {
		assert.Equal(t, posts[i], e.Post)
		if i == 0 {
			assert.Nil(t, e.Previous)
		} else {
			require.NotNil(t, e.Previous)
			assert.Equal(t, posts[i-1].ID, e.Previous.ID)
		}
		if i == len(posts)-1 {
			assert.Nil(t, e.Next)
		} else {
			require.NotNil(t, e.Next)
			assert.Equal(t, posts[i+1].ID, e.Next.ID)
		}
	}
}

func TestLinkSingleAndEmpty(t *testing.T) {
	assert.Empty(t, Link(nil))

	edges := Link([]Post{{ID: "only", URI: "/only"}})
	require.Len(t, edges, 1)
	assert.Nil(t, edges[0].Previous)
	assert.Nil(t, edges[0].Next)
	assert.NoError(t, Validate(&Graph{Posts: edges}))
}
