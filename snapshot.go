package pensieve

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/eringen/pensieve/content"
)

// SnapshotResult counts what a snapshot copied and what it pruned.
type SnapshotResult struct {
	Tags  int
	Posts int

	RemovedTags  int
	RemovedPosts int
}

// Snapshot copies the content graph of src into dst so later builds can run
// against the SQLite store without reaching the CMS. Posts are loaded with
// at most concurrency requests in flight; the first failure stops the copy.
// Once every post is copied, stored posts and tags missing from the graph
// are deleted so the store mirrors src.
func Snapshot(ctx context.Context, src content.Source, dst *Store, concurrency int, logger *slog.Logger) (SnapshotResult, error) {
	if logger == nil {
		logger = slog.Default()
	}
	g, err := content.Fetch(ctx, src)
	if err != nil {
		return SnapshotResult{}, err
	}

	for _, t := range g.Tags {
		if err := dst.SaveTag(ctx, t.Name); err != nil {
			return SnapshotResult{}, fmt.Errorf("pensieve: snapshot tag %q: %w", t.Name, err)
		}
	}

	eg, copyCtx := errgroup.WithContext(ctx)
	if concurrency > 0 {
		eg.SetLimit(concurrency)
	}
	for _, e := range g.Posts {
		eg.Go(func() error {
			a, err := src.Post(copyCtx, e.Post.ID)
			if err != nil {
				return fmt.Errorf("load post %s: %w", e.Post.ID, err)
			}
			if err := dst.SavePost(copyCtx, a); err != nil {
				return fmt.Errorf("save post %s: %w", e.Post.ID, err)
			}
			logger.Debug("post copied", "id", a.ID, "path", a.URI)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return SnapshotResult{}, fmt.Errorf("pensieve: snapshot: %w", err)
	}

	res := SnapshotResult{Tags: len(g.Tags), Posts: len(g.Posts)}
	if res.RemovedPosts, res.RemovedTags, err = prune(ctx, dst, g, logger); err != nil {
		return SnapshotResult{}, fmt.Errorf("pensieve: snapshot prune: %w", err)
	}
	logger.Info("snapshot complete",
		"tags", res.Tags,
		"posts", res.Posts,
		"removed_tags", res.RemovedTags,
		"removed_posts", res.RemovedPosts)
	return res, nil
}

// prune deletes stored posts and tags that g no longer lists.
func prune(ctx context.Context, dst *Store, g *content.Graph, logger *slog.Logger) (posts, tags int, err error) {
	livePosts := make(map[string]struct{}, len(g.Posts))
	for _, e := range g.Posts {
		livePosts[e.Post.ID] = struct{}{}
	}
	ids, err := dst.PostIDs(ctx)
	if err != nil {
		return 0, 0, err
	}
	for _, id := range ids {
		if _, ok := livePosts[id]; ok {
			continue
		}
		if err := dst.DeletePost(ctx, id); err != nil {
			return posts, tags, fmt.Errorf("delete post %s: %w", id, err)
		}
		logger.Debug("post removed", "id", id)
		posts++
	}

	liveTags := make(map[string]struct{}, len(g.Tags))
	for _, t := range g.Tags {
		liveTags[t.Name] = struct{}{}
	}
	names, err := dst.TagNames(ctx)
	if err != nil {
		return posts, tags, err
	}
	for _, name := range names {
		if _, ok := liveTags[name]; ok {
			continue
		}
		if err := dst.DeleteTag(ctx, name); err != nil {
			return posts, tags, fmt.Errorf("delete tag %q: %w", name, err)
		}
		logger.Debug("tag removed", "name", name)
		tags++
	}
	return posts, tags, nil
}
