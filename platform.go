package dtogen

import (
	"io/fs"

	"github.com/eclipse-scout/scout.sdk-sub042/pkg/scout"
)

// PlatformFS exposes the bundled descriptors of the UI framework base types
// so tools can inspect them or ship them next to project descriptors.
//
// Typical use:
//
//	data, _ := fs.ReadFile(dtogen.PlatformFS(), "client.yaml")
func PlatformFS() fs.FS {
	return scout.PlatformFS()
}
