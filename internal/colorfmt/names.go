package colorfmt

// namedColors holds the CSS basic color keywords plus a few common extended ones.
var namedColors = map[string]string{
	"black":       "#000000",
	"silver":      "#c0c0c0",
	"gray":        "#808080",
	"grey":        "#808080",
	"white":       "#ffffff",
	"maroon":      "#800000",
	"red":         "#ff0000",
	"purple":      "#800080",
	"fuchsia":     "#ff00ff",
	"magenta":     "#ff00ff",
	"green":       "#008000",
	"lime":        "#00ff00",
	"olive":       "#808000",
	"yellow":      "#ffff00",
	"navy":        "#000080",
	"blue":        "#0000ff",
	"teal":        "#008080",
	"aqua":        "#00ffff",
	"cyan":        "#00ffff",
	"orange":      "#ffa500",
	"pink":        "#ffc0cb",
	"brown":       "#a52a2a",
	"gold":        "#ffd700",
	"indigo":      "#4b0082",
	"violet":      "#ee82ee",
	"coral":       "#ff7f50",
	"salmon":      "#fa8072",
	"crimson":     "#dc143c",
	"tomato":      "#ff6347",
	"turquoise":   "#40e0d0",
	"transparent": "#00000000",
}
