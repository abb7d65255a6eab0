package version

import (
	"fmt"
)

// SchemaVersionError indicates a schema version problem during file read.
type SchemaVersionError struct {
	FileType    string // "settings"
	FilePath    string // Path to the problematic file
	Found       string // What was found (e.g., "missing", "settings/2")
	Expected    string // What was expected (e.g., "settings/1")
	MinRequired string // Minimum release required (if upgrade needed)
}

func (e *SchemaVersionError) Error() string {
	if e.MinRequired != "" {
		return fmt.Sprintf(
			"%s schema version %s requires palette >= %s (file: %s, found: %s, supports up to: %s)",
			e.FileType, e.Found, e.MinRequired, e.FilePath, e.Found, e.Expected,
		)
	}
	if e.Found == "missing" {
		return fmt.Sprintf(
			"%s has no schema version (file: %s). Add schema = %q or delete the file to regenerate it.",
			e.FileType, e.FilePath, e.Expected,
		)
	}
	return fmt.Sprintf(
		"%s has invalid schema version: found %s, expected %s (file: %s)",
		e.FileType, e.Found, e.Expected, e.FilePath,
	)
}

// MissingSettingsSchema creates an error for a settings file missing its schema stamp.
func MissingSettingsSchema(path string) error {
	return &SchemaVersionError{
		FileType: "settings",
		FilePath: path,
		Found:    "missing",
		Expected: CurrentSettingsSchema(),
	}
}

// InvalidSettingsSchema creates an error for a settings file with an unsupported schema.
func InvalidSettingsSchema(path, found string) error {
	e := &SchemaVersionError{
		FileType: "settings",
		FilePath: path,
		Found:    found,
		Expected: CurrentSettingsSchema(),
	}
	// Check if it's a future version
	if v, err := ParseSettingsVersion(found); err == nil && v > CurrentSettingsVersion {
		if minVer, ok := MinPaletteVersion[found]; ok {
			e.MinRequired = minVer
		} else {
			e.MinRequired = "a newer version"
		}
	}
	return e
}
