package cli

import (
	"fmt"
	"strings"

	"github.com/amterp/palette/internal/model"
	"github.com/amterp/ra"
)

func registerList(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("list")
	cmd.SetDescription("List palettes and their colors")

	ctx.ListSearch, _ = ra.NewString("search").
		SetShort("s").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Only show palettes whose name contains this text").
		Register(cmd)

	ctx.ListUsed, _ = parent.RegisterCmd(cmd)
}

func runList(search string, jsonOutput bool) {
	app, err := NewApp(false)
	if err != nil {
		Fatal(err)
	}

	palettes := app.Palettes.Search(search)

	if jsonOutput {
		if err := printJson(NewPalettesOutput(palettes)); err != nil {
			Fatal(err)
		}
		return
	}

	if palettes.Len() == 0 {
		if strings.TrimSpace(search) != "" {
			PrintInfo("No palettes match %q", search)
		} else {
			PrintInfo("No palettes yet. Create one with 'palette create <name>'")
		}
		return
	}

	first := true
	for key, p := range palettes.All() {
		if !first {
			fmt.Println()
		}
		first = false
		fmt.Print(formatPalette(key, p))
	}
}

// formatPalette renders a palette header followed by one line per color.
func formatPalette(key string, p *model.Palette) string {
	var b strings.Builder
	name := ""
	if p != nil {
		name = p.Name
	}
	fmt.Fprintf(&b, "%s %s\n", RenderKey(key), RenderBold(name))

	if p == nil || p.Colors.Len() == 0 {
		fmt.Fprintf(&b, "  %s\n", RenderMuted("(no colors)"))
		return b.String()
	}
	for colorKey, value := range p.Colors.All() {
		fmt.Fprintf(&b, "  %s %s %s\n", RenderKey(fmt.Sprintf("%2s", colorKey)), ColorSwatch(value), RenderColorValue(value))
	}
	return b.String()
}
