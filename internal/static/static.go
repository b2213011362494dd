// Package static embeds the HTML templates and browser assets of the web front-end.
package static

import "embed"

// Templates holds the page layouts, partials and pages.
//
//go:embed templates/*.html
var Templates embed.FS

// Assets holds stylesheets and scripts served under /static/.
//
//go:embed assets
var Assets embed.FS
