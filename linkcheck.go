package pensieve

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"golang.org/x/net/html"

	"github.com/eringen/pensieve/pages"
	"github.com/eringen/pensieve/views"
)

// BrokenLink is a tag link on the page at File that no registered page serves.
type BrokenLink struct {
	File string
	Href string
}

// BrokenLinksError lists every broken tag link found after a build.
type BrokenLinksError struct {
	Links []BrokenLink
}

func (e *BrokenLinksError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "pensieve: %d broken tag link(s)", len(e.Links))
	for i, l := range e.Links {
		if i == 5 {
			fmt.Fprintf(&b, "; and %d more", len(e.Links)-i)
			break
		}
		fmt.Fprintf(&b, "; %s -> %s", l.File, l.Href)
	}
	return b.String()
}

// checkTagLinks parses the rendered page of every given site path and
// reports generated tag links that match no registered tag page. Links
// written by authors inside post content are not checked.
func checkTagLinks(dir, base string, records []pages.Page, extra ...string) error {
	prefix := pages.TagIndexPath(base)
	known := map[string]struct{}{prefix: {}}
	sitePaths := make([]string, 0, len(records)+len(extra))
	seen := make(map[string]struct{}, len(records))
	for _, p := range records {
		if p.Template == pages.TemplateTag {
			known[p.Path] = struct{}{}
		}
		if _, ok := seen[p.Path]; !ok {
			seen[p.Path] = struct{}{}
			sitePaths = append(sitePaths, p.Path)
		}
	}
	sitePaths = append(sitePaths, extra...)

	var broken []BrokenLink
	for _, sp := range sitePaths {
		hrefs, err := generatedTagLinks(outputPath(dir, sp, "index.html"))
		if err != nil {
			return fmt.Errorf("pensieve: check links: %w", err)
		}
		for _, h := range hrefs {
			if !strings.HasPrefix(h, prefix) {
				continue
			}
			if _, ok := known[h]; !ok {
				broken = append(broken, BrokenLink{File: sp, Href: h})
			}
		}
	}
	if len(broken) > 0 {
		sort.Slice(broken, func(i, j int) bool {
			if broken[i].File != broken[j].File {
				return broken[i].File < broken[j].File
			}
			return broken[i].Href < broken[j].Href
		})
		return &BrokenLinksError{Links: broken}
	}
	return nil
}

// generatedTagLinks returns the href of every anchor carrying
// views.TagLinkAttr in the HTML file at path.
func generatedTagLinks(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := html.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	var out []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			var href string
			marked := false
			for _, a := range n.Attr {
				switch a.Key {
				case "href":
					href = a.Val
				case views.TagLinkAttr:
					marked = true
				}
			}
			if marked {
				out = append(out, href)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return out, nil
}
