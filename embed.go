package promptlab

import (
	"embed"
	"io/fs"
)

// StaticFiles holds the embedded web frontend.
//
//go:embed web/dist/*
var StaticFiles embed.FS

// GetStaticFS returns the web/dist subtree of the embedded frontend.
func GetStaticFS() (fs.FS, error) {
	return fs.Sub(StaticFiles, "web/dist")
}
