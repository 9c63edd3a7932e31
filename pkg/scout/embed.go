package scout

import (
	"embed"
	"io/fs"

	"github.com/eclipse-scout/scout.sdk-sub042/pkg/semantic"
)

//go:embed platform/*
var embeddedPlatform embed.FS

// PlatformFS returns the bundled descriptors of the UI framework base types
// (forms, fields, tables, pages) including their marker annotations.
func PlatformFS() fs.FS {
	sub, err := fs.Sub(embeddedPlatform, "platform")
	if err != nil {
		// The embed directive guarantees the subpath exists.
		panic(err)
	}
	return sub
}

// Platform loads the bundled platform descriptors into an index.
func Platform() (*semantic.Index, error) {
	return semantic.LoadFS(PlatformFS())
}
