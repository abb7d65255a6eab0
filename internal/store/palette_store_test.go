package store

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/amterp/palette/internal/config"
	paletteerr "github.com/amterp/palette/internal/errors"
	"github.com/amterp/palette/internal/model"
)

func setupTestPaletteStore(t *testing.T) (*FilePaletteStore, string) {
	t.Helper()

	// Nested so Save has to create the directory
	dir := filepath.Join(t.TempDir(), "data")
	return NewPaletteStore(config.NewPaths(dir)), dir
}

func TestFilePaletteStore_LoadMissing(t *testing.T) {
	store, _ := setupTestPaletteStore(t)

	if store.Exists() {
		t.Fatal("Exists() = true before any save")
	}

	_, err := store.Load()
	if !os.IsNotExist(err) {
		t.Errorf("Expected not-exist error, got: %v", err)
	}
}

func TestFilePaletteStore_SaveAndLoad(t *testing.T) {
	store, dir := setupTestPaletteStore(t)

	palettes := model.NewCollection()
	warm := model.NewPalette("Warm")
	warm.Colors.Set("1", "#ff0000")
	warm.Colors.Set("2", "#ffaa00")
	palettes.Set("2", warm)
	palettes.Set("1", model.NewPalette("Cold"))

	if err := store.Save(palettes); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if !store.Exists() {
		t.Fatal("Exists() = false after save")
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if !reflect.DeepEqual(loaded, palettes) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", loaded, palettes)
	}

	// No temp files left behind
	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		if strings.Contains(e.Name(), ".tmp-") {
			t.Errorf("leftover temp file %s", e.Name())
		}
	}
}

func TestFilePaletteStore_LoadMalformed(t *testing.T) {
	store, dir := setupTestPaletteStore(t)

	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(store.Path(), []byte(`{"1": {"name": `), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := store.Load()
	if err == nil {
		t.Fatal("Expected error for malformed JSON")
	}
	if !paletteerr.IsMalformed(err) {
		t.Errorf("Expected malformed error, got: %v", err)
	}
}

func TestFilePaletteStore_LoadTrustsArbitraryKeys(t *testing.T) {
	store, dir := setupTestPaletteStore(t)

	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	content := `{"favorites": {"name": "Favs", "colors": {"a": "red", "7": "#00f"}}}`
	if err := os.WriteFile(store.Path(), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	p, ok := loaded.Get("favorites")
	if !ok {
		t.Fatal("palette 'favorites' missing")
	}
	if got := p.Colors.Keys(); !reflect.DeepEqual(got, []string{"a", "7"}) {
		t.Errorf("color keys = %v, want [a 7]", got)
	}
}

func TestFilePaletteStore_SaveFailsWhenDirIsFile(t *testing.T) {
	base := t.TempDir()
	blocker := filepath.Join(base, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	store := NewPaletteStore(config.NewPaths(filepath.Join(blocker, "data")))
	if err := store.Save(model.NewCollection()); err == nil {
		t.Error("Expected save error when data dir can't be created")
	}
}
