package config

import (
	"os"
	"path/filepath"
)

const (
	// PluginID scopes this tool's table inside the shared settings file.
	PluginID = "color-palette"

	PalettesFileName = "palettes.json"
	SettingsFileName = "settings.toml"
	DefaultDataDir   = ".config/palette"

	// HomeEnv overrides the data directory.
	HomeEnv = "PALETTE_HOME"
	// PortEnv overrides the default port for `palette serve`.
	PortEnv = "PALETTE_PORT"
)

// Paths provides path resolution for palette data files.
type Paths struct {
	dataDir string
}

// NewPaths creates a Paths rooted at dataDir.
func NewPaths(dataDir string) *Paths {
	return &Paths{dataDir: dataDir}
}

// DefaultPaths resolves the data directory from the environment:
// $PALETTE_HOME > ~/.config/palette. Falls back to the working directory
// if the home directory can't be determined.
func DefaultPaths() *Paths {
	return NewPaths(DataDirPath())
}

// DataDir returns the root directory for palette data.
func (p *Paths) DataDir() string {
	return p.dataDir
}

// PalettesPath returns the backing file for the palette collection.
func (p *Paths) PalettesPath() string {
	return filepath.Join(p.dataDir, PalettesFileName)
}

// SettingsPath returns the shared settings file.
func (p *Paths) SettingsPath() string {
	return filepath.Join(p.dataDir, SettingsFileName)
}

// DataDirPath returns the data directory chosen by the environment.
func DataDirPath() string {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultDataDir
	}
	return filepath.Join(home, DefaultDataDir)
}
