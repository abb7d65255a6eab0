package model

import (
	"fmt"
	"strings"
)

// ColorFormat is the text encoding used when inserting or copying a color.
type ColorFormat string

const (
	FormatHex ColorFormat = "hex"
	FormatRGB ColorFormat = "rgb"
	FormatHSL ColorFormat = "hsl"
)

// ColorFormats lists the selectable formats in display order.
var ColorFormats = []ColorFormat{FormatHex, FormatRGB, FormatHSL}

// ParseColorFormat validates a format name (case-insensitive).
func ParseColorFormat(s string) (ColorFormat, error) {
	f := ColorFormat(strings.ToLower(strings.TrimSpace(s)))
	for _, valid := range ColorFormats {
		if f == valid {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown color format %q (expected hex, rgb or hsl)", s)
}

// Settings holds the user's palette preferences.
type Settings struct {
	PreferredColorFormat ColorFormat `toml:"preferred_color_format" json:"preferredColorFormat"`

	// UniqueNames toggles palette-name uniqueness checks on create and rename.
	// Nil means the default (enforced).
	UniqueNames *bool `toml:"unique_names,omitempty" json:"uniqueNames,omitempty"`
}

// DefaultSettings returns the settings used on first run.
func DefaultSettings() Settings {
	return Settings{PreferredColorFormat: FormatHex}
}

// RequireUniqueNames reports whether palette names must be unique.
func (s Settings) RequireUniqueNames() bool {
	return s.UniqueNames == nil || *s.UniqueNames
}

// SharedSettings is the on-disk settings document shared by every plugin.
// Stored at <data dir>/settings.toml.
// Schema changes require a version bump; see internal/version/version.go.
//
// Only this tool's table is ever interpreted. Other plugin tables and
// top-level keys are kept as decoded and written back unchanged.
type SharedSettings struct {
	Schema  string
	Plugins map[string]map[string]any
	Extra   map[string]any
}

// NewSharedSettings builds a document from a decoded TOML tree.
func NewSharedSettings(raw map[string]any) (*SharedSettings, error) {
	doc := &SharedSettings{}
	for key, value := range raw {
		switch key {
		case "schema":
			schema, ok := value.(string)
			if !ok {
				return nil, fmt.Errorf("schema must be a string, got %T", value)
			}
			doc.Schema = schema
		case "plugins":
			plugins, ok := value.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("plugins must be a table, got %T", value)
			}
			for id, tbl := range plugins {
				table, ok := tbl.(map[string]any)
				if !ok {
					return nil, fmt.Errorf("plugins.%s must be a table, got %T", id, tbl)
				}
				if doc.Plugins == nil {
					doc.Plugins = make(map[string]map[string]any)
				}
				doc.Plugins[id] = table
			}
		default:
			if doc.Extra == nil {
				doc.Extra = make(map[string]any)
			}
			doc.Extra[key] = value
		}
	}
	return doc, nil
}

// Tree returns the document as a TOML-encodable tree.
func (s *SharedSettings) Tree() map[string]any {
	tree := make(map[string]any, len(s.Extra)+2)
	for key, value := range s.Extra {
		tree[key] = value
	}
	tree["schema"] = s.Schema
	if len(s.Plugins) > 0 {
		plugins := make(map[string]any, len(s.Plugins))
		for id, table := range s.Plugins {
			plugins[id] = table
		}
		tree["plugins"] = plugins
	}
	return tree
}

// HasPlugin reports whether a table exists under id.
func (s *SharedSettings) HasPlugin(id string) bool {
	_, ok := s.Plugins[id]
	return ok
}

// Plugin decodes the settings stored under id. Unknown keys are ignored.
func (s *SharedSettings) Plugin(id string) (Settings, bool, error) {
	table, ok := s.Plugins[id]
	if !ok {
		return Settings{}, false, nil
	}

	var cfg Settings
	if v, ok := table["preferred_color_format"]; ok {
		format, ok := v.(string)
		if !ok {
			return Settings{}, true, fmt.Errorf("preferred_color_format must be a string, got %T", v)
		}
		cfg.PreferredColorFormat = ColorFormat(format)
	}
	if v, ok := table["unique_names"]; ok {
		b, ok := v.(bool)
		if !ok {
			return Settings{}, true, fmt.Errorf("unique_names must be a boolean, got %T", v)
		}
		cfg.UniqueNames = &b
	}
	return cfg, true, nil
}

// SetPlugin writes cfg into the table under id, keeping any other keys
// already in that table.
func (s *SharedSettings) SetPlugin(id string, cfg Settings) {
	if s.Plugins == nil {
		s.Plugins = make(map[string]map[string]any)
	}
	table := s.Plugins[id]
	if table == nil {
		table = make(map[string]any)
		s.Plugins[id] = table
	}

	table["preferred_color_format"] = string(cfg.PreferredColorFormat)
	if cfg.UniqueNames != nil {
		table["unique_names"] = *cfg.UniqueNames
	} else {
		delete(table, "unique_names")
	}
}

// RemovePlugin deletes the table stored under id.
func (s *SharedSettings) RemovePlugin(id string) {
	delete(s.Plugins, id)
}
