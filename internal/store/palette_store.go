package store

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/amterp/palette/internal/config"
	paletteerr "github.com/amterp/palette/internal/errors"
	"github.com/amterp/palette/internal/model"
	"github.com/amterp/palette/internal/util"
)

// FilePaletteStore implements PaletteStore with a single JSON file.
// Load and Save are serialized so overlapping saves can't interleave.
type FilePaletteStore struct {
	path string
	mu   sync.Mutex
}

// NewPaletteStore creates a store backed by paths.PalettesPath().
func NewPaletteStore(paths *config.Paths) *FilePaletteStore {
	return &FilePaletteStore{path: paths.PalettesPath()}
}

// Path returns the backing file.
func (s *FilePaletteStore) Path() string {
	return s.path
}

// Exists returns true if the backing file exists.
func (s *FilePaletteStore) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Load reads and decodes the whole backing file.
// Returns an error satisfying os.IsNotExist if the file is missing, and a
// ParseError if it isn't a valid collection. Content is not otherwise validated.
func (s *FilePaletteStore) Load() (*model.Collection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}

	palettes := model.NewCollection()
	if err := json.Unmarshal(data, palettes); err != nil {
		return nil, paletteerr.Malformed(s.path, err)
	}
	return palettes, nil
}

// Save overwrites the backing file with the full collection.
// The directory is created if needed. The write goes through a temp file
// and a rename, so readers never see a partial document.
func (s *FilePaletteStore) Save(palettes *model.Collection) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(palettes, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal palettes: %w", err)
	}

	if err := util.WriteFileAtomic(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write palettes file: %w", err)
	}
	return nil
}
