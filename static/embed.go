package staticfiles

import (
	"embed"
	"io/fs"
)

//go:embed index.html app.js style.css
var embedded embed.FS

func EmbeddedFS() fs.FS {
	return embedded
}
