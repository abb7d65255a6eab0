package store

import (
	"bytes"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/amterp/palette/internal/config"
	paletteerr "github.com/amterp/palette/internal/errors"
	"github.com/amterp/palette/internal/model"
	"github.com/amterp/palette/internal/util"
	"github.com/amterp/palette/internal/version"
)

// FileSettingsStore implements SettingsStore using a TOML file.
type FileSettingsStore struct {
	path string
}

// NewSettingsStore creates a settings store backed by paths.SettingsPath().
func NewSettingsStore(paths *config.Paths) *FileSettingsStore {
	return &FileSettingsStore{path: paths.SettingsPath()}
}

// Path returns the backing file.
func (s *FileSettingsStore) Path() string {
	return s.path
}

// Load reads the shared settings from disk.
// Returns an empty document if the file doesn't exist.
func (s *FileSettingsStore) Load() (*model.SharedSettings, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return &model.SharedSettings{}, nil
		}
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}

	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, paletteerr.Malformed(s.path, err)
	}
	cfg, err := model.NewSharedSettings(raw)
	if err != nil {
		return nil, paletteerr.Malformed(s.path, err)
	}

	// Strict version validation (only if file exists)
	if cfg.Schema == "" {
		return nil, version.MissingSettingsSchema(s.path)
	}
	if cfg.Schema != version.CurrentSettingsSchema() {
		return nil, version.InvalidSettingsSchema(s.path, cfg.Schema)
	}

	return cfg, nil
}

// Save writes the shared settings to disk.
func (s *FileSettingsStore) Save(cfg *model.SharedSettings) error {
	// Stamp current schema version
	cfg.Schema = version.CurrentSettingsSchema()

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg.Tree()); err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	if err := util.WriteFileAtomic(s.path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	return nil
}
