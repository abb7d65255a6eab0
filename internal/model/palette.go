package model

import (
	"strings"

	"golang.org/x/text/cases"
)

// Palette is a named collection of colors.
// Colors maps a color key to a color value in any syntax colorfmt understands
// (hex, rgb(), hsl(), named colors).
type Palette struct {
	Name   string             `json:"name"`
	Colors OrderedMap[string] `json:"colors"`
}

// NewPalette creates a palette with no colors.
func NewPalette(name string) *Palette {
	return &Palette{Name: name}
}

// Clone returns a deep copy of the palette.
func (p *Palette) Clone() *Palette {
	c := &Palette{Name: p.Name}
	for k, v := range p.Colors.All() {
		c.Colors.Set(k, v)
	}
	return c
}

// Collection is the root persisted entity: palette key -> palette.
// Stored as palettes.json.
type Collection struct {
	OrderedMap[*Palette]
}

// NewCollection creates an empty collection.
func NewCollection() *Collection {
	return &Collection{}
}

// Clone returns a deep copy of the collection.
func (c *Collection) Clone() *Collection {
	out := NewCollection()
	for k, p := range c.All() {
		if p == nil {
			out.Set(k, nil)
			continue
		}
		out.Set(k, p.Clone())
	}
	return out
}

// HasName reports whether any palette other than exceptKey is named exactly name.
// Pass an empty exceptKey to check every palette.
func (c *Collection) HasName(name, exceptKey string) bool {
	for k, p := range c.All() {
		if k == exceptKey || p == nil {
			continue
		}
		if p.Name == name {
			return true
		}
	}
	return false
}

// FindByName returns the keys of all palettes named exactly name, in order.
func (c *Collection) FindByName(name string) []string {
	var keys []string
	for k, p := range c.All() {
		if p != nil && p.Name == name {
			keys = append(keys, k)
		}
	}
	return keys
}

// FilterByName returns the palettes whose name contains query, ignoring case.
// Keys and order are preserved. The result shares palette pointers with c.
func (c *Collection) FilterByName(query string) *Collection {
	// A Caser is stateful, so each call gets its own.
	folder := cases.Fold()
	needle := folder.String(query)
	out := NewCollection()
	for k, p := range c.All() {
		if p == nil {
			continue
		}
		if strings.Contains(folder.String(p.Name), needle) {
			out.Set(k, p)
		}
	}
	return out
}
