package resolver

import (
	"fmt"
	"strings"

	paletteerr "github.com/amterp/palette/internal/errors"
	"github.com/amterp/palette/internal/model"
	"github.com/amterp/palette/internal/prompt"
)

// ColorResolver turns a user-supplied color argument into a color key.
type ColorResolver struct {
	prompter prompt.Prompter
}

// NewColorResolver creates a new color resolver.
func NewColorResolver(prompter prompt.Prompter) *ColorResolver {
	return &ColorResolver{prompter: prompter}
}

// Resolve finds a color in palette by key or by value.
// Tries exact key match first, then the first color whose value matches
// ignoring case. An empty arg selects the only color, or prompts.
func (r *ColorResolver) Resolve(palette *model.Palette, paletteKey, arg string, interactive bool) (string, error) {
	if arg != "" {
		if palette.Colors.Has(arg) {
			return arg, nil
		}
		for key, value := range palette.Colors.All() {
			if strings.EqualFold(value, arg) {
				return key, nil
			}
		}
		return "", paletteerr.ColorNotFound(arg, paletteKey)
	}

	keys := palette.Colors.Keys()
	switch len(keys) {
	case 0:
		return "", fmt.Errorf("palette %s has no colors", paletteKey)
	case 1:
		return keys[0], nil
	}

	if !interactive {
		return "", fmt.Errorf("palette %s has %d colors; specify one by key or value", paletteKey, len(keys))
	}

	labels := make([]string, len(keys))
	byLabel := make(map[string]string, len(keys))
	for i, key := range keys {
		value, _ := palette.Colors.Get(key)
		labels[i] = fmt.Sprintf("%s  %s", key, value)
		byLabel[labels[i]] = key
	}

	choice, err := r.prompter.Select("Select color", labels)
	if err != nil {
		return "", err
	}
	return byLabel[choice], nil
}
