package cli

import (
	"github.com/amterp/palette/internal/colorfmt"
	"github.com/amterp/ra"
)

func registerColor(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("color")
	cmd.SetDescription("Manage the colors of a palette")

	// color add
	addCmd := ra.NewCmd("add")
	addCmd.SetDescription("Append a color to a palette")

	ctx.ColorAddPalette, _ = ra.NewString("palette").
		SetUsage("Palette key or name").
		SetCompletionFunc(completePalettes).
		Register(addCmd)

	ctx.ColorAddValue, _ = ra.NewString("value").
		SetOptional(true).
		SetUsage("Color as hex, rgb(), hsl() or a CSS name (prompted if omitted)").
		Register(addCmd)

	ctx.ColorAddUsed, _ = cmd.RegisterCmd(addCmd)

	// color update
	updateCmd := ra.NewCmd("update")
	updateCmd.SetDescription("Change a color in place")

	ctx.ColorUpdatePalette, _ = ra.NewString("palette").
		SetUsage("Palette key or name").
		SetCompletionFunc(completePalettes).
		Register(updateCmd)

	ctx.ColorUpdateColor, _ = ra.NewString("color").
		SetUsage("Color key or current value").
		SetCompletionFunc(completeColors).
		Register(updateCmd)

	ctx.ColorUpdateValue, _ = ra.NewString("value").
		SetOptional(true).
		SetUsage("New color (prompted if omitted)").
		Register(updateCmd)

	ctx.ColorUpdateUsed, _ = cmd.RegisterCmd(updateCmd)

	// color remove
	removeCmd := ra.NewCmd("remove")
	removeCmd.SetDescription("Remove a color from a palette")

	ctx.ColorRemovePalette, _ = ra.NewString("palette").
		SetUsage("Palette key or name").
		SetCompletionFunc(completePalettes).
		Register(removeCmd)

	ctx.ColorRemoveColor, _ = ra.NewString("color").
		SetOptional(true).
		SetUsage("Color key or value (prompted if omitted)").
		SetCompletionFunc(completeColors).
		Register(removeCmd)

	ctx.ColorRemoveUsed, _ = cmd.RegisterCmd(removeCmd)

	ctx.ColorUsed, _ = parent.RegisterCmd(cmd)
}

func runColorAdd(paletteArg, value string, interactive, jsonOutput bool) {
	app, err := NewApp(interactive)
	if err != nil {
		Fatal(err)
	}

	paletteKey, err := app.PaletteResolver.Resolve(paletteArg, interactive)
	if err != nil {
		Fatal(err)
	}

	value, err = colorValue(app, value, "")
	if err != nil {
		Fatal(err)
	}

	colorKey, err := app.Palettes.AddColor(paletteKey, value)
	if err != nil {
		Fatal(err)
	}

	if jsonOutput {
		if err := printJson(ColorOutput{PaletteKey: paletteKey, ColorKey: colorKey, Value: value}); err != nil {
			Fatal(err)
		}
		return
	}
	PrintSuccess("Added %s %s as color %s of palette %s", ColorSwatch(value), value, RenderKey(colorKey), RenderKey(paletteKey))
}

func runColorUpdate(paletteArg, colorArg, value string, interactive, jsonOutput bool) {
	app, err := NewApp(interactive)
	if err != nil {
		Fatal(err)
	}

	paletteKey, colorKey, err := app.ResolveColor(paletteArg, colorArg)
	if err != nil {
		Fatal(err)
	}

	palette, err := app.Palettes.Get(paletteKey)
	if err != nil {
		Fatal(err)
	}
	current, _ := palette.Colors.Get(colorKey)

	value, err = colorValue(app, value, current)
	if err != nil {
		Fatal(err)
	}

	if err := app.Palettes.UpdateColor(paletteKey, colorKey, value); err != nil {
		Fatal(err)
	}

	if jsonOutput {
		if err := printJson(ColorOutput{PaletteKey: paletteKey, ColorKey: colorKey, Value: value}); err != nil {
			Fatal(err)
		}
		return
	}
	PrintSuccess("Changed color %s from %s to %s %s", RenderKey(colorKey), current, ColorSwatch(value), value)
}

func runColorRemove(paletteArg, colorArg string, interactive, jsonOutput bool) {
	app, err := NewApp(interactive)
	if err != nil {
		Fatal(err)
	}

	paletteKey, colorKey, err := app.ResolveColor(paletteArg, colorArg)
	if err != nil {
		Fatal(err)
	}

	palette, err := app.Palettes.Get(paletteKey)
	if err != nil {
		Fatal(err)
	}
	value, _ := palette.Colors.Get(colorKey)

	if err := app.Palettes.RemoveColor(paletteKey, colorKey); err != nil {
		Fatal(err)
	}

	if jsonOutput {
		if err := printJson(ColorOutput{PaletteKey: paletteKey, ColorKey: colorKey, Value: value}); err != nil {
			Fatal(err)
		}
		return
	}
	PrintSuccess("Removed color %s (%s) from palette %q", RenderKey(colorKey), value, palette.Name)
}

// colorValue validates value, prompting for one when it's empty.
func colorValue(app *App, value, defaultValue string) (string, error) {
	if value == "" {
		return app.Prompter.ValidatedInput("Color", defaultValue, validateColor)
	}
	if err := validateColor(value); err != nil {
		return "", err
	}
	return value, nil
}

func validateColor(value string) error {
	_, err := colorfmt.Parse(value)
	return err
}
