package resolver

import (
	"errors"
	"testing"

	paletteerr "github.com/amterp/palette/internal/errors"
	"github.com/amterp/palette/internal/model"
	"github.com/amterp/palette/internal/prompt"
)

// mockSource implements PaletteSource for testing.
type mockSource struct {
	palettes *model.Collection
}

func (m *mockSource) Snapshot() *model.Collection {
	return m.palettes.Clone()
}

func newSource(names ...string) *mockSource {
	c := model.NewCollection()
	for _, name := range names {
		c.Set(c.NextPaletteKey(), model.NewPalette(name))
	}
	return &mockSource{palettes: c}
}

// mockPrompter picks a fixed option index and records the options shown.
type mockPrompter struct {
	prompt.NoopPrompter
	pick    int
	options []string
}

func (m *mockPrompter) Select(title string, options []string) (string, error) {
	m.options = options
	return options[m.pick], nil
}

func TestPaletteResolver_ByKey(t *testing.T) {
	r := NewPaletteResolver(newSource("Warm", "Cool"), &prompt.NoopPrompter{})
	got, err := r.Resolve("2", false)
	if err != nil || got != "2" {
		t.Errorf("Resolve(2) = %q, %v; want 2", got, err)
	}
}

func TestPaletteResolver_ByName(t *testing.T) {
	r := NewPaletteResolver(newSource("Warm", "Cool"), &prompt.NoopPrompter{})
	got, err := r.Resolve("Cool", false)
	if err != nil || got != "2" {
		t.Errorf("Resolve(Cool) = %q, %v; want 2", got, err)
	}
}

func TestPaletteResolver_KeyWinsOverName(t *testing.T) {
	// Palette 2 is literally named "1"
	r := NewPaletteResolver(newSource("Warm", "1"), &prompt.NoopPrompter{})
	got, _ := r.Resolve("1", false)
	if got != "1" {
		t.Errorf("Resolve(1) = %q, want key 1", got)
	}
}

func TestPaletteResolver_NotFound(t *testing.T) {
	r := NewPaletteResolver(newSource("Warm"), &prompt.NoopPrompter{})
	_, err := r.Resolve("Nope", true)
	if !paletteerr.IsNotFound(err) {
		t.Errorf("expected NotFound, got %v", err)
	}
}

func TestPaletteResolver_AmbiguousName(t *testing.T) {
	src := newSource("Warm", "Warm")

	r := NewPaletteResolver(src, &prompt.NoopPrompter{})
	if _, err := r.Resolve("Warm", false); err == nil {
		t.Error("expected error for ambiguous name in non-interactive mode")
	}

	p := &mockPrompter{pick: 1}
	r = NewPaletteResolver(src, p)
	got, err := r.Resolve("Warm", true)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got != "2" {
		t.Errorf("Resolve = %q, want 2", got)
	}
	if len(p.options) != 2 {
		t.Errorf("expected 2 options, got %v", p.options)
	}
}

func TestPaletteResolver_Empty(t *testing.T) {
	tests := []struct {
		name        string
		source      *mockSource
		interactive bool
		want        string
		wantErr     bool
	}{
		{"no palettes", newSource(), true, "", true},
		{"single palette", newSource("Only"), false, "1", false},
		{"multiple non-interactive", newSource("A", "B"), false, "", true},
		{"multiple interactive", newSource("A", "B"), true, "1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewPaletteResolver(tt.source, &mockPrompter{pick: 0})
			got, err := r.Resolve("", tt.interactive)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPaletteResolver_PromptError(t *testing.T) {
	r := NewPaletteResolver(newSource("A", "B"), &prompt.NoopPrompter{})
	_, err := r.Resolve("", true)
	if !errors.Is(err, prompt.ErrNonInteractive) {
		t.Errorf("expected ErrNonInteractive, got %v", err)
	}
}

func TestColorResolver(t *testing.T) {
	p := model.NewPalette("P")
	p.Colors.Set("1", "#FF0000")
	p.Colors.Set("2", "#00ff00")

	r := NewColorResolver(&prompt.NoopPrompter{})

	if got, _ := r.Resolve(p, "1", "2", false); got != "2" {
		t.Errorf("by key = %q, want 2", got)
	}
	if got, _ := r.Resolve(p, "1", "#ff0000", false); got != "1" {
		t.Errorf("by value = %q, want 1", got)
	}
	if _, err := r.Resolve(p, "1", "#0000ff", false); !paletteerr.IsNotFound(err) {
		t.Errorf("expected NotFound, got %v", err)
	}
	if _, err := r.Resolve(p, "1", "", false); err == nil {
		t.Error("expected error for empty arg with several colors")
	}

	mp := &mockPrompter{pick: 1}
	got, err := NewColorResolver(mp).Resolve(p, "1", "", true)
	if err != nil || got != "2" {
		t.Errorf("prompted = %q, %v; want 2", got, err)
	}
}

func TestColorResolver_EmptyPalette(t *testing.T) {
	r := NewColorResolver(&prompt.NoopPrompter{})
	if _, err := r.Resolve(model.NewPalette("P"), "1", "", true); err == nil {
		t.Error("expected error for empty palette")
	}
}
