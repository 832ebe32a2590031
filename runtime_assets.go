package timelineform

import (
	"io/fs"

	"github.com/goliatone/go-timelineform/pkg/config"
	"github.com/goliatone/go-timelineform/pkg/renderers/vanilla"
)

// AssetsFS exposes the stylesheet bundle the HTML form links to.
//
// Typical mount:
//
//	mux.Handle("/assets/",
//	  http.StripPrefix("/assets/",
//	    http.FileServerFS(timelineform.AssetsFS()),
//	  ),
//	)
func AssetsFS() fs.FS {
	return vanilla.AssetsFS()
}

// LoadConfig reads a JSON, TOML or YAML configuration file.
func LoadConfig(path string) (config.File, error) {
	return config.LoadFile(path)
}
