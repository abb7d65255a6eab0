package resolver

import (
	"fmt"

	paletteerr "github.com/amterp/palette/internal/errors"
	"github.com/amterp/palette/internal/model"
	"github.com/amterp/palette/internal/prompt"
)

// PaletteSource provides a read-only view of the palettes.
type PaletteSource interface {
	Snapshot() *model.Collection
}

// PaletteResolver turns a user-supplied palette argument into a palette key.
type PaletteResolver struct {
	source   PaletteSource
	prompter prompt.Prompter
}

// NewPaletteResolver creates a new palette resolver.
func NewPaletteResolver(source PaletteSource, prompter prompt.Prompter) *PaletteResolver {
	return &PaletteResolver{source: source, prompter: prompter}
}

// Resolve determines which palette to use:
// 1. If arg is a palette key, use it
// 2. If arg is exactly one palette's name, use that palette
// 3. If arg is empty and only one palette exists, use it
// 4. If interactive, prompt among the candidates
// 5. Otherwise, fail with error
func (r *PaletteResolver) Resolve(arg string, interactive bool) (string, error) {
	palettes := r.source.Snapshot()

	if arg != "" {
		if palettes.Has(arg) {
			return arg, nil
		}

		keys := palettes.FindByName(arg)
		switch len(keys) {
		case 0:
			return "", paletteerr.PaletteNotFound(arg)
		case 1:
			return keys[0], nil
		}

		if !interactive {
			return "", fmt.Errorf("multiple palettes are named %q (keys %v); specify by key", arg, keys)
		}
		return r.pick(palettes, keys, fmt.Sprintf("Several palettes are named %q", arg))
	}

	keys := palettes.Keys()
	switch len(keys) {
	case 0:
		return "", fmt.Errorf("no palettes found; create one with 'palette create'")
	case 1:
		return keys[0], nil
	}

	if !interactive {
		return "", fmt.Errorf("multiple palettes exist; specify one by key or name")
	}
	return r.pick(palettes, keys, "Select palette")
}

func (r *PaletteResolver) pick(palettes *model.Collection, keys []string, title string) (string, error) {
	labels := make([]string, len(keys))
	byLabel := make(map[string]string, len(keys))
	for i, key := range keys {
		p, _ := palettes.Get(key)
		labels[i] = fmt.Sprintf("%s  %s", key, p.Name)
		byLabel[labels[i]] = key
	}

	choice, err := r.prompter.Select(title, labels)
	if err != nil {
		return "", err
	}
	return byLabel[choice], nil
}
