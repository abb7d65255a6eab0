package cli

import (
	"encoding/json"
	"fmt"

	"github.com/amterp/palette/internal/model"
	"github.com/amterp/palette/internal/service"
)

// colorJson is one color entry of a palette in JSON output.
type colorJson struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// paletteJson is the JSON shape of a palette. Colors keep their stored order
// as an array so consumers don't depend on object key order.
type paletteJson struct {
	Key    string      `json:"key"`
	Name   string      `json:"name"`
	Colors []colorJson `json:"colors"`
}

// paletteToJson converts a palette to its JSON representation.
// Colors is always an array, never null.
func paletteToJson(key string, p *model.Palette) paletteJson {
	out := paletteJson{Key: key, Colors: []colorJson{}}
	if p == nil {
		return out
	}
	out.Name = p.Name
	for k, v := range p.Colors.All() {
		out.Colors = append(out.Colors, colorJson{Key: k, Value: v})
	}
	return out
}

// PaletteOutput wraps a single palette for JSON output.
type PaletteOutput struct {
	Palette paletteJson `json:"palette"`
}

// NewPaletteOutput creates a PaletteOutput from a palette.
func NewPaletteOutput(key string, p *model.Palette) PaletteOutput {
	return PaletteOutput{Palette: paletteToJson(key, p)}
}

// PalettesOutput wraps a list of palettes for JSON output.
type PalettesOutput struct {
	Palettes []paletteJson `json:"palettes"`
}

// NewPalettesOutput creates a PalettesOutput from a collection.
// Always returns an empty array (not null) when there are no palettes.
func NewPalettesOutput(palettes *model.Collection) PalettesOutput {
	out := PalettesOutput{Palettes: []paletteJson{}}
	for key, p := range palettes.All() {
		out.Palettes = append(out.Palettes, paletteToJson(key, p))
	}
	return out
}

// ColorOutput describes one color after an add, update or insert.
type ColorOutput struct {
	PaletteKey string `json:"palette_key"`
	ColorKey   string `json:"color_key"`
	Value      string `json:"value"`
	Format     string `json:"format,omitempty"`
	Formatted  string `json:"formatted,omitempty"`
}

// SettingsOutput wraps the editable settings for JSON output.
type SettingsOutput struct {
	File     string           `json:"file"`
	Settings []service.Option `json:"settings"`
}

// printJson marshals the value as indented JSON and prints it to stdout.
func printJson(v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(output))
	return nil
}

// warnJsonNotSupported prints a warning to stderr when --json is used on an unsupported command.
func warnJsonNotSupported(command string) {
	PrintWarning("--json is not supported for '%s' (flag ignored)", command)
}
