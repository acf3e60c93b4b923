// Package templates holds the bundled kickstart files. They sit at the lowest
// priority on the search path, so a template source only needs to ship the
// files it wants to replace.
package templates

import (
	"embed"
	"io/fs"
)

//go:embed all:files
var files embed.FS

// FS returns the bundled template tree rooted at its top directory.
func FS() fs.FS {
	sub, err := fs.Sub(files, "files")
	if err != nil {
		panic(err)
	}
	return sub
}
