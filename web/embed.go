// Package web provides the embedded admin interface shell. The admin UI
// is a single-page application; index.html boots it and the client router
// handles every /admin path.
package web

import "embed"

// StaticFS embeds the web/static/ directory tree. Production builds place
// the compiled admin bundle here; the dev shell falls back to CDN assets.
//
//go:embed all:static
var StaticFS embed.FS
