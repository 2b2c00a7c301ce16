// Package web embeds the page templates and static assets into the binary.
package web

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.html
var Templates embed.FS

//go:embed static
var static embed.FS

// Static returns the static assets rooted at static/, ready for
// http.FileServer under /static/.
func Static() fs.FS {
	sub, err := fs.Sub(static, "static")
	if err != nil {
		// The directory is embedded above; fs.Sub only fails on a bad path.
		panic(err)
	}
	return sub
}
