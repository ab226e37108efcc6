package content

import (
	"context"
	"errors"
	"fmt"
)

// ErrInvalidResult marks a query result whose shape does not satisfy the
// data model.
var ErrInvalidResult = errors.New("invalid query result")

// QueryError reports a failed content query. It is always fatal for a build.
type QueryError struct {
	Err error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("content query failed: %v", e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

// Fetch runs the combined query once and validates the result. On any
// error the graph is discarded and a *QueryError is returned.
func Fetch(ctx context.Context, q Querier) (*Graph, error) {
	g, err := q.QueryGraph(ctx)
	if err != nil {
		return nil, &QueryError{Err: err}
	}
	if err := Validate(g); err != nil {
		return nil, &QueryError{Err: err}
	}
	return g, nil
}

// Validate checks the graph against the data model: named tags, posts with
// id and uri, and neighbour refs that agree with list order.
func Validate(g *Graph) error {
	if g == nil {
		return fmt.Errorf("%w: empty response", ErrInvalidResult)
	}
	for i, t := range g.Tags {
		if t.Name == "" {
			return fmt.Errorf("%w: tag %d has no name", ErrInvalidResult, i)
		}
	}
	for i, e := range g.Posts {
		if e.Post.ID == "" {
			return fmt.Errorf("%w: post %d has no id", ErrInvalidResult, i)
		}
		if e.Post.URI == "" {
			return fmt.Errorf("%w: post %q has no uri", ErrInvalidResult, e.Post.ID)
		}
		if err := checkNeighbour("previous", e.Post.ID, e.Previous, g.Posts, i-1); err != nil {
			return err
		}
		if err := checkNeighbour("next", e.Post.ID, e.Next, g.Posts, i+1); err != nil {
			return err
		}
	}
	return nil
}

func checkNeighbour(kind, id string, ref *PostRef, edges []PostEdge, j int) error {
	if j < 0 || j >= len(edges) {
		if ref != nil {
			return fmt.Errorf("%w: post %q has a %s post at the end of the list", ErrInvalidResult, id, kind)
		}
		return nil
	}
	if ref == nil || ref.ID == "" {
		return fmt.Errorf("%w: post %q is missing its %s post", ErrInvalidResult, id, kind)
	}
	if ref.ID != edges[j].Post.ID {
		return fmt.Errorf("%w: post %q %s is %q, want %q", ErrInvalidResult, id, kind, ref.ID, edges[j].Post.ID)
	}
	return nil
}
