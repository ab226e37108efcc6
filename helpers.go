package pensieve

import "github.com/eringen/pensieve/views"

// viewConfig projects the site settings templates need.
func (c SiteConfig) viewConfig() views.SiteConfig {
	return views.SiteConfig{
		Name:        c.Name,
		URL:         c.URL,
		Description: c.Description,
		Author:      c.Author,
		BasePath:    c.BasePath,
	}
}
