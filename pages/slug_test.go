package pages

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Harry Potter", "harry-potter"},
		{"Magic", "magic"},
		{"  Owls  ", "owls"},
		{"Defence Against the Dark Arts!", "defence-against-the-dark-arts"},
		{"C++ & Go", "c-go"},
		{"--already-slugged--", "already-slugged"},
		{"Café Crème", "cafe-creme"},
		{"Year 7 (1997)", "year-7-1997"},
		{"under_score.dot/slash", "under-score-dot-slash"},
		{"!!!", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in))
		})
	}
}

func TestSlugifyIsStable(t *testing.T) {
	for _, name := range []string{"Harry Potter", "Café Crème", "Ünïcödé Tag"} {
		first := Slugify(name)
		assert.Equal(t, first, Slugify(name))
		assert.Equal(t, first, Slugify(first), "slug of a slug is unchanged")
	}
}

func TestTagPath(t *testing.T) {
	assert.Equal(t, "/pensieve/tags/harry-potter/", TagPath("pensieve", "Harry Potter"))
	assert.Equal(t, "/pensieve/tags/harry-potter/", TagPath("/pensieve/", "Harry Potter"))
	assert.Equal(t, "/tags/owls/", TagPath("", "Owls"))
	assert.Equal(t, "/pensieve/tags/", TagIndexPath("pensieve"))
}
