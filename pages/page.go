// Package pages turns a content graph into page registrations: one page per
// tag and one per post, each naming the template that renders it and the
// context that template receives.
package pages

import (
	"context"
	"fmt"
)

// Template identifies the template a page is rendered with.
type Template int

const (
	TemplateTag Template = iota + 1
	TemplatePost
)

func (t Template) String() string {
	switch t {
	case TemplateTag:
		return "tag"
	case TemplatePost:
		return "post"
	default:
		return fmt.Sprintf("template(%d)", int(t))
	}
}

func (t Template) MarshalText() ([]byte, error) {
	switch t {
	case TemplateTag, TemplatePost:
		return []byte(t.String()), nil
	}
	return nil, fmt.Errorf("pages: unknown template %d", int(t))
}

func (t *Template) UnmarshalText(b []byte) error {
	switch string(b) {
	case "tag":
		*t = TemplateTag
	case "post":
		*t = TemplatePost
	default:
		return fmt.Errorf("pages: unknown template %q", b)
	}
	return nil
}

// Context keys passed to templates.
const (
	KeyTag            = "tag"
	KeyID             = "id"
	KeyPreviousPostID = "previousPostId"
	KeyNextPostID     = "nextPostId"
)

// Context is the data handed to a template at render time. A nil value is
// an explicit null.
type Context map[string]*string

// Get returns the value for key and whether it is non-null.
func (c Context) Get(key string) (string, bool) {
	v, ok := c[key]
	if !ok || v == nil {
		return "", false
	}
	return *v, true
}

// Page is a request to materialize one static page.
type Page struct {
	Path     string   `json:"path" yaml:"path"`
	Template Template `json:"template" yaml:"template"`
	Context  Context  `json:"context" yaml:"context"`
}

// Registrar accepts page registrations. Implementations must be safe for
// concurrent use.
type Registrar interface {
	CreatePage(ctx context.Context, p Page) error
}

// RegistrarFunc adapts a function to a Registrar.
type RegistrarFunc func(ctx context.Context, p Page) error

func (f RegistrarFunc) CreatePage(ctx context.Context, p Page) error { return f(ctx, p) }

func str(s string) *string { return &s }
