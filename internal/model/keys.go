package model

import (
	"iter"
	"slices"
	"strconv"
	"strings"
	"unicode"
)

// MaxKey returns the largest integer value among keys, or 0 if none parse.
// Keys are read leniently: surrounding whitespace, an optional sign and any
// trailing non-digits are allowed, so "12abc" counts as 12. Keys without a
// leading number are ignored but stay wherever they are stored.
func MaxKey(keys iter.Seq[string]) int {
	highest := 0
	for key := range keys {
		if n, ok := ParseKey(key); ok && n > highest {
			highest = n
		}
	}
	return highest
}

// NextKey returns the key to assign to a new entry: MaxKey + 1.
func NextKey(keys iter.Seq[string]) string {
	return strconv.Itoa(MaxKey(keys) + 1)
}

// ParseKey extracts the leading integer from key.
// Returns false if there is none or it doesn't fit in an int.
func ParseKey(key string) (int, bool) {
	s := strings.TrimLeftFunc(key, unicode.IsSpace)

	sign := ""
	if strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		sign, s = s[:1], s[1:]
	}

	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}

	n, err := strconv.Atoi(sign + s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

// NextPaletteKey returns the key for a new palette in c.
func (c *Collection) NextPaletteKey() string {
	return NextKey(slices.Values(c.keys))
}

// NextColorKey returns the key for a new color in p.
func (p *Palette) NextColorKey() string {
	return NextKey(slices.Values(p.Colors.keys))
}
