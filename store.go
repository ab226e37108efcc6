package pensieve

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/eringen/pensieve/content"
)

// storeDate is the stored date layout; it sorts lexically.
const storeDate = "2006-01-02T15:04:05"

// Store is a SQLite copy of the content graph. It serves builds without a
// WordPress connection and is filled by Snapshot or ImportMarkdown.
type Store struct {
	db *sql.DB
}

var _ content.Source = (*Store)(nil)

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and runs schema migrations.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL lets snapshot writers and build readers overlap; the busy timeout
	// makes writers wait instead of failing with SQLITE_BUSY.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS posts (
    id TEXT PRIMARY KEY,
    uri TEXT NOT NULL UNIQUE,
    title TEXT NOT NULL,
    date TEXT NOT NULL,
    excerpt TEXT NOT NULL,
    content TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS posts_date ON posts (date DESC, id);
CREATE TABLE IF NOT EXISTS tags (
    name TEXT PRIMARY KEY
);
CREATE TABLE IF NOT EXISTS post_tags (
    post_id TEXT NOT NULL,
    tag_name TEXT NOT NULL,
    position INTEGER NOT NULL,
    PRIMARY KEY (post_id, tag_name)
);
`)
	return err
}

// QueryGraph returns every tag and every post, newest first.
func (s *Store) QueryGraph(ctx context.Context) (*content.Graph, error) {
	tagRows, err := s.db.QueryContext(ctx, `SELECT name FROM tags ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer tagRows.Close()
	var g content.Graph
	for tagRows.Next() {
		var t content.Tag
		if err := tagRows.Scan(&t.Name); err != nil {
			return nil, err
		}
		g.Tags = append(g.Tags, t)
	}
	if err := tagRows.Err(); err != nil {
		return nil, err
	}

	postRows, err := s.db.QueryContext(ctx, `SELECT id, uri FROM posts ORDER BY date DESC, id`)
	if err != nil {
		return nil, err
	}
	defer postRows.Close()
	var posts []content.Post
	for postRows.Next() {
		var p content.Post
		if err := postRows.Scan(&p.ID, &p.URI); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	if err := postRows.Err(); err != nil {
		return nil, err
	}
	g.Posts = content.Link(posts)
	return &g, nil
}

// Post returns a single post by id.
func (s *Store) Post(ctx context.Context, id string) (content.Article, error) {
	var a content.Article
	var date string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, uri, title, date, excerpt, content FROM posts WHERE id = ?`, id).
		Scan(&a.ID, &a.URI, &a.Title, &date, &a.Excerpt, &a.Content)
	if errors.Is(err, sql.ErrNoRows) {
		return content.Article{}, fmt.Errorf("post %q: %w", id, content.ErrNotFound)
	}
	if err != nil {
		return content.Article{}, err
	}
	if a.Date, err = time.Parse(storeDate, date); err != nil {
		return content.Article{}, fmt.Errorf("post %q date: %w", id, err)
	}
	tags, err := s.postTags(ctx, []string{id})
	if err != nil {
		return content.Article{}, err
	}
	a.Tags = tags[id]
	return a, nil
}

// PostsByTag returns up to limit posts carrying tag, newest first.
func (s *Store) PostsByTag(ctx context.Context, tag string, limit int) ([]content.Article, error) {
	return s.listArticles(ctx, `
SELECT p.id, p.uri, p.title, p.date, p.excerpt, p.content
FROM posts p JOIN post_tags pt ON pt.post_id = p.id
WHERE pt.tag_name = ?
ORDER BY p.date DESC, p.id LIMIT ?`, tag, limit)
}

// RecentPosts returns up to limit posts, newest first.
func (s *Store) RecentPosts(ctx context.Context, limit int) ([]content.Article, error) {
	return s.listArticles(ctx, `
SELECT id, uri, title, date, excerpt, content
FROM posts ORDER BY date DESC, id LIMIT ?`, limit)
}

func (s *Store) listArticles(ctx context.Context, query string, args ...interface{}) ([]content.Article, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var (
		out []content.Article
		ids []string
	)
	for rows.Next() {
		var a content.Article
		var date string
		if err := rows.Scan(&a.ID, &a.URI, &a.Title, &date, &a.Excerpt, &a.Content); err != nil {
			return nil, err
		}
		if a.Date, err = time.Parse(storeDate, date); err != nil {
			return nil, fmt.Errorf("post %q date: %w", a.ID, err)
		}
		out = append(out, a)
		ids = append(ids, a.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	tags, err := s.postTags(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Tags = tags[out[i].ID]
	}
	return out, nil
}

func (s *Store) postTags(ctx context.Context, ids []string) (map[string][]string, error) {
	out := make(map[string][]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT post_id, tag_name FROM post_tags WHERE post_id IN (`+placeholders+`) ORDER BY post_id, position`,
		args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var id, tag string
		if err := rows.Scan(&id, &tag); err != nil {
			return nil, err
		}
		out[id] = append(out[id], tag)
	}
	return out, rows.Err()
}

// TagIndex returns every tag with the number of posts carrying it.
func (s *Store) TagIndex(ctx context.Context) ([]content.Tag, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT t.name, COUNT(pt.post_id)
FROM tags t LEFT JOIN post_tags pt ON pt.tag_name = t.name
GROUP BY t.name ORDER BY t.name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var tags []content.Tag
	for rows.Next() {
		var t content.Tag
		if err := rows.Scan(&t.Name, &t.Count); err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// SaveTag inserts a tag if it does not exist.
func (s *Store) SaveTag(ctx context.Context, name string) error {
	_, err := s.db.ExecContext(ctx, `INSERT OR IGNORE INTO tags (name) VALUES (?)`, name)
	return err
}

// SavePost upserts a post and replaces its tag list. Missing tags are
// created.
func (s *Store) SavePost(ctx context.Context, a content.Article) error {
	if a.ID == "" || a.URI == "" {
		return fmt.Errorf("save post: id and uri are required")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
INSERT INTO posts (id, uri, title, date, excerpt, content) VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET uri = excluded.uri, title = excluded.title, date = excluded.date,
    excerpt = excluded.excerpt, content = excluded.content`,
		a.ID, a.URI, a.Title, a.Date.UTC().Format(storeDate), a.Excerpt, a.Content); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM post_tags WHERE post_id = ?`, a.ID); err != nil {
		return err
	}
	for i, t := range a.Tags {
		if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO tags (name) VALUES (?)`, t); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO post_tags (post_id, tag_name, position) VALUES (?, ?, ?)`, a.ID, t, i); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// DeletePost removes a post and its tag links. Tags stay.
func (s *Store) DeletePost(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx, `DELETE FROM post_tags WHERE post_id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id); err != nil {
		return err
	}
	return tx.Commit()
}

// PostIDs returns the id of every stored post.
func (s *Store) PostIDs(ctx context.Context) ([]string, error) {
	return s.names(ctx, `SELECT id FROM posts ORDER BY id`)
}

// TagNames returns the name of every stored tag.
func (s *Store) TagNames(ctx context.Context) ([]string, error) {
	return s.names(ctx, `SELECT name FROM tags ORDER BY name`)
}

func (s *Store) names(ctx context.Context, query string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// DeleteTag removes a tag and detaches it from every post.
func (s *Store) DeleteTag(ctx context.Context, name string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx, `DELETE FROM post_tags WHERE tag_name = ?`, name); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM tags WHERE name = ?`, name); err != nil {
		return err
	}
	return tx.Commit()
}
