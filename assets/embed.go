// Package assets embeds the default word list and the catalog schema
// so the binaries run without any files next to them.
package assets

import (
	"embed"
	"io/fs"
)

//go:embed wordsAndHints.json
var wordsAndHints []byte

//go:embed sql/*.sql
var migrations embed.FS

// WordsJSON returns the embedded default word list
// (JSON array of {"word","hint"} objects).
func WordsJSON() []byte {
	return wordsAndHints
}

// Migrations returns the catalog schema files, rooted at the sql directory.
func Migrations() fs.FS {
	sub, err := fs.Sub(migrations, "sql")
	if err != nil {
		panic(err)
	}
	return sub
}
