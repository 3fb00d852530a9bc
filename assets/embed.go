// assets/embed.go
//
// Embedded riddle decks. One YAML file per locale under decks/.
// The riddle package compiles these at start-up; a deck file on disk
// (RIDDLE_DECK_FILE) may replace one of them.

package assets

import (
	"embed"
	"io/fs"
	"path"
	"strings"
)

//go:embed decks/*.yaml
var FS embed.FS

// DeckFiles returns the raw contents of every embedded deck keyed by file
// name without extension ("ja", "en").
func DeckFiles() (map[string][]byte, error) {
	entries, err := fs.ReadDir(FS, "decks")
	if err != nil {
		return nil, err
	}
	out := make(map[string][]byte, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		b, err := FS.ReadFile(path.Join("decks", e.Name()))
		if err != nil {
			return nil, err
		}
		out[strings.TrimSuffix(e.Name(), ".yaml")] = b
	}
	return out, nil
}
