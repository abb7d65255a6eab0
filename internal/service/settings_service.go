package service

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/amterp/palette/internal/config"
	paletteerr "github.com/amterp/palette/internal/errors"
	"github.com/amterp/palette/internal/model"
	"github.com/amterp/palette/internal/store"
)

// Setting keys, in the spelling the settings UI uses.
const (
	SettingPreferredColorFormat = "preferredColorFormat"
	SettingUniqueNames          = "uniqueNames"
)

// settingAliases maps every accepted spelling to its canonical key.
var settingAliases = map[string]string{
	"preferredColorFormat":   SettingPreferredColorFormat,
	"preferred_color_format": SettingPreferredColorFormat,
	"uniqueNames":            SettingUniqueNames,
	"unique_names":           SettingUniqueNames,
}

// Option describes one user-editable setting for a settings UI.
type Option struct {
	Key    string   `json:"key"`
	Text   string   `json:"text"`
	Value  string   `json:"value"`
	Select []string `json:"select,omitempty"`
}

// SettingsService manages this tool's table inside the shared settings file.
type SettingsService struct {
	store    store.SettingsStore
	pluginID string

	mu       sync.Mutex
	settings model.Settings
}

// NewSettingsService creates a service for the color-palette plugin table.
// Settings start at their defaults until Sync is called.
func NewSettingsService(store store.SettingsStore) *SettingsService {
	return &SettingsService{
		store:    store,
		pluginID: config.PluginID,
		settings: model.DefaultSettings(),
	}
}

// Sync reconciles memory with the shared settings file. If the plugin table
// exists, its values are adopted over the defaults; otherwise the defaults
// are written.
func (s *SettingsService) Sync() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	shared, err := s.store.Load()
	if err != nil {
		return err
	}

	stored, ok, err := shared.Plugin(s.pluginID)
	if err != nil {
		return paletteerr.Malformed(s.store.Path(), err)
	}
	if !ok {
		s.settings = model.DefaultSettings()
		shared.SetPlugin(s.pluginID, s.settings)
		return s.store.Save(shared)
	}

	merged := model.DefaultSettings()
	if stored.PreferredColorFormat != "" {
		format, err := model.ParseColorFormat(string(stored.PreferredColorFormat))
		if err != nil {
			return paletteerr.InvalidField(SettingPreferredColorFormat, err.Error())
		}
		merged.PreferredColorFormat = format
	}
	merged.UniqueNames = stored.UniqueNames
	s.settings = merged
	return nil
}

// Settings returns a copy of the current settings.
func (s *SettingsService) Settings() model.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// PreferredFormat returns the color format used for insertion and copying.
func (s *SettingsService) PreferredFormat() model.ColorFormat {
	return s.Settings().PreferredColorFormat
}

// NamePolicy returns the palette name policy implied by the settings.
func (s *SettingsService) NamePolicy() NamePolicy {
	if s.Settings().RequireUniqueNames() {
		return RequireUniqueNames
	}
	return AllowDuplicateNames
}

// Get returns the string value of a setting.
func (s *SettingsService) Get(key string) (string, error) {
	canonical, err := canonicalKey(key)
	if err != nil {
		return "", err
	}

	cfg := s.Settings()
	switch canonical {
	case SettingPreferredColorFormat:
		return string(cfg.PreferredColorFormat), nil
	default:
		return strconv.FormatBool(cfg.RequireUniqueNames()), nil
	}
}

// Set validates and stores a setting, then persists the plugin table.
// Other tables and top-level keys in the shared file are written back as read.
func (s *SettingsService) Set(key, value string) error {
	canonical, err := canonicalKey(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.settings
	switch canonical {
	case SettingPreferredColorFormat:
		format, err := model.ParseColorFormat(value)
		if err != nil {
			return paletteerr.InvalidField(SettingPreferredColorFormat, err.Error())
		}
		next.PreferredColorFormat = format
	case SettingUniqueNames:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return paletteerr.InvalidField(SettingUniqueNames, fmt.Sprintf("expected true or false, got %q", value))
		}
		next.UniqueNames = &b
	}

	shared, err := s.store.Load()
	if err != nil {
		return err
	}
	shared.SetPlugin(s.pluginID, next)
	if err := s.store.Save(shared); err != nil {
		return err
	}

	s.settings = next
	return nil
}

// Options describes the editable settings with their current values.
func (s *SettingsService) Options() []Option {
	cfg := s.Settings()

	formats := make([]string, len(model.ColorFormats))
	for i, f := range model.ColorFormats {
		formats[i] = string(f)
	}

	return []Option{
		{
			Key:    SettingPreferredColorFormat,
			Text:   "Preferred color format",
			Value:  string(cfg.PreferredColorFormat),
			Select: formats,
		},
		{
			Key:    SettingUniqueNames,
			Text:   "Require unique palette names",
			Value:  strconv.FormatBool(cfg.RequireUniqueNames()),
			Select: []string{"true", "false"},
		},
	}
}

// Remove deletes the plugin table from the shared settings file and resets
// memory to the defaults.
func (s *SettingsService) Remove() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	shared, err := s.store.Load()
	if err != nil {
		return err
	}
	if shared.HasPlugin(s.pluginID) {
		shared.RemovePlugin(s.pluginID)
		if err := s.store.Save(shared); err != nil {
			return err
		}
	}

	s.settings = model.DefaultSettings()
	return nil
}

// Path returns the shared settings file.
func (s *SettingsService) Path() string {
	return s.store.Path()
}

func canonicalKey(key string) (string, error) {
	canonical, ok := settingAliases[key]
	if !ok {
		return "", paletteerr.InvalidField("setting", fmt.Sprintf("unknown setting %q", key))
	}
	return canonical, nil
}
