package store

import "github.com/amterp/palette/internal/model"

// PaletteStore handles persistence of the palette collection.
type PaletteStore interface {
	Load() (*model.Collection, error)
	Save(palettes *model.Collection) error
	Exists() bool
	Path() string
}

// SettingsStore handles the shared settings document.
type SettingsStore interface {
	Load() (*model.SharedSettings, error)
	Save(settings *model.SharedSettings) error
	Path() string
}
