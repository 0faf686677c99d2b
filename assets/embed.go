// assets/embed.go
//
// Bundled data shipped inside the binary:
//   - words.txt: default dictionary, one word per line ('#' comments allowed).

package assets

import (
	"embed"
	"io"
)

//go:embed words.txt
var FS embed.FS

// Words opens the bundled dictionary. The caller closes it.
func Words() (io.ReadCloser, error) {
	return FS.Open("words.txt")
}
