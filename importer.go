package pensieve

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	"github.com/google/uuid"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/eringen/pensieve/content"
	"github.com/eringen/pensieve/pages"
)

// importMeta is the front matter an imported Markdown post may carry.
type importMeta struct {
	ID      string   `yaml:"id"`
	Title   string   `yaml:"title"`
	Date    string   `yaml:"date"`
	URI     string   `yaml:"uri"`
	Slug    string   `yaml:"slug"`
	Excerpt string   `yaml:"excerpt"`
	Tags    []string `yaml:"tags"`
	Draft   bool     `yaml:"draft"`
}

var importDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ImportMarkdown loads every .md file under dir into st. Posts without a
// uri in their front matter are placed at /{base}/{slug}/. Ids default to a
// name-based UUID of the uri, so re-importing the same file updates it in
// place. Drafts are skipped. It returns the number of posts saved.
func ImportMarkdown(ctx context.Context, st *Store, dir, base string) (int, error) {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
	)

	n := 0
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".md" {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		a, skip, err := parseMarkdownPost(md, path, base)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if skip {
			return nil
		}
		if err := st.SavePost(ctx, a); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		n++
		return nil
	})
	if err != nil {
		return n, fmt.Errorf("pensieve: import: %w", err)
	}
	return n, nil
}

func parseMarkdownPost(md goldmark.Markdown, path, base string) (content.Article, bool, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return content.Article{}, false, err
	}
	var meta importMeta
	body, err := frontmatter.Parse(bytes.NewReader(raw), &meta)
	if err != nil {
		return content.Article{}, false, fmt.Errorf("front matter: %w", err)
	}
	if meta.Draft {
		return content.Article{}, true, nil
	}

	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if meta.Title == "" {
		meta.Title = cases.Title(language.English).String(strings.NewReplacer("-", " ", "_", " ").Replace(stem))
	}
	if meta.URI == "" {
		slug := meta.Slug
		if slug == "" {
			slug = stem
		}
		slug = pages.Slugify(slug)
		if slug == "" {
			return content.Article{}, false, fmt.Errorf("cannot derive a slug from %q", stem)
		}
		meta.URI = "/" + slug + "/"
		if b := strings.Trim(base, "/"); b != "" {
			meta.URI = "/" + b + meta.URI
		}
	}
	if meta.ID == "" {
		meta.ID = uuid.NewSHA1(uuid.NameSpaceURL, []byte(meta.URI)).String()
	}
	date, err := parseImportDate(meta.Date)
	if err != nil {
		return content.Article{}, false, err
	}

	var buf bytes.Buffer
	if err := md.Convert(body, &buf); err != nil {
		return content.Article{}, false, fmt.Errorf("render markdown: %w", err)
	}
	rendered := buf.String()
	excerpt := meta.Excerpt
	if excerpt == "" {
		excerpt = firstParagraph(rendered)
	} else {
		excerpt = "<p>" + escape(excerpt) + "</p>"
	}

	return content.Article{
		ID:      meta.ID,
		URI:     meta.URI,
		Title:   escape(meta.Title),
		Date:    date,
		Excerpt: excerpt,
		Content: rendered,
		Tags:    meta.Tags,
	}, false, nil
}

func parseImportDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("date is required")
	}
	for _, layout := range importDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// firstParagraph returns the first <p> element of rendered HTML.
func firstParagraph(rendered string) string {
	start := strings.Index(rendered, "<p>")
	if start < 0 {
		return ""
	}
	end := strings.Index(rendered[start:], "</p>")
	if end < 0 {
		return ""
	}
	return rendered[start : start+end+len("</p>")]
}

// escape turns plain front matter text into the HTML fragments titles and
// excerpts are stored as.
func escape(s string) string {
	return html.EscapeString(s)
}
