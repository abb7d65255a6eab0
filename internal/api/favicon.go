package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/amterp/palette/internal/colorfmt"
	"github.com/amterp/palette/internal/model"
)

// faviconSwatches is how many colors the favicon shows, as a 2x2 grid.
const faviconSwatches = 4

// GenerateFaviconSVG draws up to four colors as a rounded 2x2 grid.
// Missing cells are filled from model.SwatchColors.
func GenerateFaviconSVG(colors []string) string {
	var cells strings.Builder
	for i := 0; i < faviconSwatches; i++ {
		fill := model.AccentColor(i + 1)
		if i < len(colors) {
			fill = colors[i]
		}
		x, y := (i%2)*16, (i/2)*16
		fmt.Fprintf(&cells, `<rect x="%d" y="%d" width="16" height="16" fill="%s"/>`, x, y, fill)
	}

	return fmt.Sprintf(
		`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 32 32"><clipPath id="r"><rect width="32" height="32" rx="6"/></clipPath><g clip-path="url(#r)">%s</g></svg>`,
		cells.String(),
	)
}

// faviconColors returns the first parseable colors of the first palette
// that has any, normalized to hex so nothing user-supplied reaches the SVG.
func faviconColors(palettes *model.Collection) []string {
	for _, p := range palettes.All() {
		if p == nil {
			continue
		}
		var colors []string
		for _, value := range p.Colors.All() {
			c, err := colorfmt.Parse(value)
			if err != nil {
				continue
			}
			colors = append(colors, c.HexString())
			if len(colors) == faviconSwatches {
				break
			}
		}
		if len(colors) > 0 {
			return colors
		}
	}
	return nil
}

// GetFavicon serves a favicon built from the current palettes.
func (h *Handler) GetFavicon(w http.ResponseWriter, r *http.Request) {
	svg := GenerateFaviconSVG(faviconColors(h.palettes.Snapshot()))

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-cache")
	w.Write([]byte(svg))
}
