package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/amterp/palette/internal/config"
	"github.com/amterp/palette/internal/model"
	"github.com/amterp/palette/internal/store"
)

// TestPalette returns a palette whose colors get keys "1", "2", ... in order.
func TestPalette(name string, colors ...string) *model.Palette {
	p := model.NewPalette(name)
	for _, c := range colors {
		p.Colors.Set(p.NextColorKey(), c)
	}
	return p
}

// TestCollection returns the collection used across API and CLI tests:
//
//	1 Warm  #ff0000 #ff8800
//	2 Cool  #0000ff
//	3 Empty
func TestCollection() *model.Collection {
	c := model.NewCollection()
	c.Set("1", TestPalette("Warm", "#ff0000", "#ff8800"))
	c.Set("2", TestPalette("Cool", "#0000ff"))
	c.Set("3", TestPalette("Empty"))
	return c
}

// TempDataDir creates a temporary data directory for testing.
// The directory is removed when the test finishes.
func TempDataDir(t *testing.T) *config.Paths {
	t.Helper()
	return config.NewPaths(filepath.Join(t.TempDir(), "palette"))
}

// SeedPalettes writes palettes to the data directory's palettes.json.
func SeedPalettes(t *testing.T, paths *config.Paths, palettes *model.Collection) {
	t.Helper()
	if err := store.NewPaletteStore(paths).Save(palettes); err != nil {
		t.Fatalf("failed to seed palettes: %v", err)
	}
}

// WriteFile writes a file relative to the data directory, creating parents.
func WriteFile(t *testing.T, paths *config.Paths, name, content string) {
	t.Helper()
	path := filepath.Join(paths.DataDir(), name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
}
