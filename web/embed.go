package web

import (
	"embed"
	"io/fs"
)

//go:embed views/*.html public
var content embed.FS

// Page returns an embedded HTML page from views/.
func Page(name string) ([]byte, error) {
	return content.ReadFile("views/" + name)
}

// Public returns the embedded public/ tree with the prefix stripped.
func Public() (fs.FS, error) {
	return fs.Sub(content, "public")
}
