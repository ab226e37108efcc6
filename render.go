package pensieve

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/a-h/templ"

	"github.com/eringen/pensieve/content"
	"github.com/eringen/pensieve/pages"
	"github.com/eringen/pensieve/views"
)

// TagPostLimit caps the posts listed on a tag page.
const TagPostLimit = 2000

// Renderer is a pages.Registrar that renders each registered page into the
// output directory as <dir>/<path>/index.html.
type Renderer struct {
	Dir    string
	Site   views.SiteConfig
	Reader content.Reader
}

var _ pages.Registrar = (*Renderer)(nil)

// CreatePage loads the data the page's template needs and writes the page.
func (r *Renderer) CreatePage(ctx context.Context, p pages.Page) error {
	var cmp templ.Component
	switch p.Template {
	case pages.TemplateTag:
		tag, ok := p.Context.Get(pages.KeyTag)
		if !ok {
			return errors.New("tag page without a tag")
		}
		posts, err := r.Reader.PostsByTag(ctx, tag, TagPostLimit)
		if err != nil {
			return fmt.Errorf("load posts tagged %q: %w", tag, err)
		}
		cmp = views.Tag(r.Site, tag, posts)
	case pages.TemplatePost:
		v, err := r.postView(ctx, p.Context)
		if err != nil {
			return err
		}
		cmp = views.Post(r.Site, v)
	default:
		return fmt.Errorf("no template for %s", p.Template)
	}
	return r.Write(ctx, p.Path, cmp)
}

func (r *Renderer) postView(ctx context.Context, pc pages.Context) (views.PostView, error) {
	id, ok := pc.Get(pages.KeyID)
	if !ok {
		return views.PostView{}, errors.New("post page without an id")
	}
	post, err := r.Reader.Post(ctx, id)
	if err != nil {
		return views.PostView{}, err
	}
	v := views.PostView{Post: post}
	if prevID, ok := pc.Get(pages.KeyPreviousPostID); ok {
		prev, err := r.Reader.Post(ctx, prevID)
		if err != nil {
			return views.PostView{}, fmt.Errorf("previous post: %w", err)
		}
		v.Previous = &prev
	}
	if nextID, ok := pc.Get(pages.KeyNextPostID); ok {
		next, err := r.Reader.Post(ctx, nextID)
		if err != nil {
			return views.PostView{}, fmt.Errorf("next post: %w", err)
		}
		v.Next = &next
	}
	return v, nil
}

// Write renders cmp to the index.html of urlPath under the output directory.
func (r *Renderer) Write(ctx context.Context, urlPath string, cmp templ.Component) error {
	return writeFile(outputPath(r.Dir, urlPath, "index.html"), func(w *bufio.Writer) error {
		return cmp.Render(ctx, w)
	})
}

// outputPath maps a site path to a file under dir. The path is cleaned as
// an absolute URL path first, so it can never leave dir.
func outputPath(dir, urlPath, name string) string {
	clean := path.Clean("/" + urlPath)
	return filepath.Join(dir, filepath.FromSlash(clean), name)
}

// writeFile writes through a temp file and renames it into place, so
// concurrent writers of the same path never leave a torn file.
func writeFile(dst string, fill func(w *bufio.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(dst), ".tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer os.Remove(tmp)

	w := bufio.NewWriter(f)
	if err := fill(w); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, dst)
}
