// Package colorfmt parses CSS-style color strings and re-encodes them as hex,
// rgb() or hsl() text.
package colorfmt

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/amterp/palette/internal/model"
	"github.com/lucasb-eyer/go-colorful"
)

// Color is a parsed color with straight (non-premultiplied) alpha in [0, 1].
type Color struct {
	colorful.Color
	Alpha float64
}

// Opaque reports whether the color has no transparency.
func (c Color) Opaque() bool {
	return c.Alpha >= 1
}

// Parse reads a color in any of the supported syntaxes:
// #rgb, #rgba, #rrggbb, #rrggbbaa, rgb()/rgba(), hsl()/hsla() and CSS
// named colors. Function arguments may be separated by commas, spaces or a
// slash before the alpha.
func Parse(value string) (Color, error) {
	s := strings.ToLower(strings.TrimSpace(value))
	if s == "" {
		return Color{}, fmt.Errorf("empty color")
	}

	switch {
	case strings.HasPrefix(s, "#"):
		return parseHex(s)
	case strings.HasPrefix(s, "rgb"):
		args, err := funcArgs(s, "rgba", "rgb")
		if err != nil {
			return Color{}, err
		}
		return parseRGB(args)
	case strings.HasPrefix(s, "hsl"):
		args, err := funcArgs(s, "hsla", "hsl")
		if err != nil {
			return Color{}, err
		}
		return parseHSL(args)
	}

	if hex, ok := namedColors[s]; ok {
		return parseHex(hex)
	}
	return Color{}, fmt.Errorf("unrecognized color %q", value)
}

// Format converts value to the given format.
func Format(value string, format model.ColorFormat) (string, error) {
	c, err := Parse(value)
	if err != nil {
		return "", err
	}
	return c.Format(format)
}

// Format encodes the color. Alpha is only written when the color is translucent.
func (c Color) Format(format model.ColorFormat) (string, error) {
	switch format {
	case model.FormatHex:
		return c.HexString(), nil
	case model.FormatRGB:
		return c.RGBString(), nil
	case model.FormatHSL:
		return c.HSLString(), nil
	default:
		return "", fmt.Errorf("unknown color format %q", format)
	}
}

// HexString returns #rrggbb, or #rrggbbaa for translucent colors.
func (c Color) HexString() string {
	hex := c.Clamped().Hex()
	if c.Opaque() {
		return hex
	}
	return fmt.Sprintf("%s%02x", hex, uint8(math.Round(clamp01(c.Alpha)*255)))
}

// RGBString returns rgb(r, g, b) or rgba(r, g, b, a).
func (c Color) RGBString() string {
	r, g, b := c.Clamped().RGB255()
	if c.Opaque() {
		return fmt.Sprintf("rgb(%d, %d, %d)", r, g, b)
	}
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", r, g, b, formatAlpha(c.Alpha))
}

// HSLString returns hsl(h, s%, l%) or hsla(h, s%, l%, a), rounded to integers.
func (c Color) HSLString() string {
	h, s, l := c.Clamped().Hsl()
	hue := int(math.Round(h)) % 360
	sat := int(math.Round(s * 100))
	light := int(math.Round(l * 100))
	if c.Opaque() {
		return fmt.Sprintf("hsl(%d, %d%%, %d%%)", hue, sat, light)
	}
	return fmt.Sprintf("hsla(%d, %d%%, %d%%, %s)", hue, sat, light, formatAlpha(c.Alpha))
}

func parseHex(s string) (Color, error) {
	digits := strings.TrimPrefix(s, "#")
	for _, r := range digits {
		if !strings.ContainsRune("0123456789abcdef", r) {
			return Color{}, fmt.Errorf("invalid hex color %q", s)
		}
	}

	alpha := 1.0
	switch len(digits) {
	case 3, 6:
	case 4:
		a, _ := strconv.ParseUint(strings.Repeat(digits[3:], 2), 16, 8)
		alpha = float64(a) / 255
		digits = digits[:3]
	case 8:
		a, _ := strconv.ParseUint(digits[6:], 16, 8)
		alpha = float64(a) / 255
		digits = digits[:6]
	default:
		return Color{}, fmt.Errorf("invalid hex color %q: expected 3, 4, 6 or 8 digits", s)
	}

	c, err := colorful.Hex("#" + digits)
	if err != nil {
		return Color{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return Color{Color: c, Alpha: alpha}, nil
}

// funcArgs strips name( ... ) and splits the arguments.
func funcArgs(s string, names ...string) ([]string, error) {
	for _, name := range names {
		if !strings.HasPrefix(s, name+"(") {
			continue
		}
		if !strings.HasSuffix(s, ")") {
			return nil, fmt.Errorf("missing ')' in %q", s)
		}
		inner := s[len(name)+1 : len(s)-1]
		inner = strings.NewReplacer(",", " ", "/", " ").Replace(inner)
		return strings.Fields(inner), nil
	}
	return nil, fmt.Errorf("unrecognized color %q", s)
}

func parseRGB(args []string) (Color, error) {
	if len(args) != 3 && len(args) != 4 {
		return Color{}, fmt.Errorf("rgb() takes 3 or 4 arguments, got %d", len(args))
	}

	var ch [3]float64
	for i := range ch {
		v, err := parseChannel(args[i])
		if err != nil {
			return Color{}, err
		}
		ch[i] = v
	}

	alpha, err := parseAlpha(args[3:])
	if err != nil {
		return Color{}, err
	}
	return Color{Color: colorful.Color{R: ch[0], G: ch[1], B: ch[2]}, Alpha: alpha}, nil
}

func parseHSL(args []string) (Color, error) {
	if len(args) != 3 && len(args) != 4 {
		return Color{}, fmt.Errorf("hsl() takes 3 or 4 arguments, got %d", len(args))
	}

	hue, err := strconv.ParseFloat(strings.TrimSuffix(args[0], "deg"), 64)
	if err != nil {
		return Color{}, fmt.Errorf("invalid hue %q", args[0])
	}
	hue = math.Mod(hue, 360)
	if hue < 0 {
		hue += 360
	}

	sat, err := parsePercent(args[1])
	if err != nil {
		return Color{}, err
	}
	light, err := parsePercent(args[2])
	if err != nil {
		return Color{}, err
	}

	alpha, err := parseAlpha(args[3:])
	if err != nil {
		return Color{}, err
	}
	return Color{Color: colorful.Hsl(hue, sat, light), Alpha: alpha}, nil
}

// parseChannel reads an rgb channel as 0-255 or a percentage, returning [0, 1].
func parseChannel(s string) (float64, error) {
	if strings.HasSuffix(s, "%") {
		return parsePercent(s)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid color channel %q", s)
	}
	return clamp01(v / 255), nil
}

// parsePercent reads "50%" or "50" as 0.5.
func parsePercent(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid percentage %q", s)
	}
	return clamp01(v / 100), nil
}

func parseAlpha(args []string) (float64, error) {
	if len(args) == 0 {
		return 1, nil
	}
	if strings.HasSuffix(args[0], "%") {
		return parsePercent(args[0])
	}
	v, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid alpha %q", args[0])
	}
	return clamp01(v), nil
}

func formatAlpha(a float64) string {
	return strconv.FormatFloat(math.Round(clamp01(a)*100)/100, 'f', -1, 64)
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
