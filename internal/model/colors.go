package model

// SwatchColors is a small fallback palette used when rendering keys or
// headers that have no color of their own. Colors cycle based on position.
var SwatchColors = []string{
	"#6b7280", // gray
	"#3b82f6", // blue
	"#f59e0b", // amber
	"#10b981", // green
	"#9333ea", // purple
	"#ec4899", // pink
	"#ef4444", // red
	"#06b6d4", // cyan
}

// AccentColor returns the accent color for the palette at position i,
// cycling through SwatchColors.
func AccentColor(i int) string {
	return SwatchColors[i%len(SwatchColors)]
}
