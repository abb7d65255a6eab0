package model

import (
	_ "embed"
	"encoding/json"
)

//go:embed default_palettes.json
var defaultPalettesJSON []byte

// DefaultCollection returns the bundled palettes written on first run.
// Each call returns a fresh copy.
func DefaultCollection() *Collection {
	c := NewCollection()
	if err := json.Unmarshal(defaultPalettesJSON, c); err != nil {
		// The embedded file is part of the binary; a parse failure is a build defect.
		panic("invalid default_palettes.json: " + err.Error())
	}
	return c
}
