package views

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildURL(t *testing.T) {
	tests := []struct {
		name     string
		base     string
		segments []string
		want     string
	}{
		{"no segments", "https://example.com", nil, "https://example.com"},
		{"section", "https://example.com", []string{"pensieve"}, "https://example.com/pensieve/"},
		{"nested", "https://example.com/", []string{"pensieve", "tags"}, "https://example.com/pensieve/tags/"},
		{"file keeps no slash", "https://example.com", []string{"sitemap.xml"}, "https://example.com/sitemap.xml"},
		{"base with path", "https://example.com/blog", []string{"feed.xml"}, "https://example.com/blog/feed.xml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildURL(tt.base, tt.segments...))
		})
	}
}

func TestAbsURLKeepsPathVerbatim(t *testing.T) {
	assert.Equal(t, "https://example.com/a", AbsURL("https://example.com/", "/a"))
	assert.Equal(t, "https://example.com/pensieve/tags/magic/", AbsURL("https://example.com", "/pensieve/tags/magic/"))
}

func TestTagMetaURLMatchesRegisteredPath(t *testing.T) {
	assert.Equal(t, "https://example.com/pensieve/tags/magic/",
		BuildURL("https://example.com", TagHref(SiteConfig{BasePath: "pensieve"}, "Magic")))
}
