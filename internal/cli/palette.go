package cli

import (
	"fmt"
	"strings"

	"github.com/amterp/palette/internal/service"
	"github.com/amterp/ra"
)

func registerPalette(parent *ra.Cmd, ctx *CommandContext) {
	// create
	createCmd := ra.NewCmd("create")
	createCmd.SetDescription("Create an empty palette")

	ctx.CreateName, _ = ra.NewString("name").
		SetOptional(true).
		SetUsage("Name of the palette (prompted if omitted)").
		Register(createCmd)

	ctx.CreateUsed, _ = parent.RegisterCmd(createCmd)

	// rename
	renameCmd := ra.NewCmd("rename")
	renameCmd.SetDescription("Rename a palette")

	ctx.RenamePalette, _ = ra.NewString("palette").
		SetUsage("Palette key or name").
		SetCompletionFunc(completePalettes).
		Register(renameCmd)

	ctx.RenameName, _ = ra.NewString("name").
		SetOptional(true).
		SetUsage("New name (prompted if omitted)").
		Register(renameCmd)

	ctx.RenameUsed, _ = parent.RegisterCmd(renameCmd)

	// reset
	resetCmd := ra.NewCmd("reset")
	resetCmd.SetDescription("Remove every color from a palette, keeping its name")

	ctx.ResetPalette, _ = ra.NewString("palette").
		SetUsage("Palette key or name").
		SetCompletionFunc(completePalettes).
		Register(resetCmd)

	ctx.ResetForce, _ = ra.NewBool("force").
		SetShort("f").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Skip confirmation (required in non-interactive mode)").
		Register(resetCmd)

	ctx.ResetUsed, _ = parent.RegisterCmd(resetCmd)
}

func runCreate(name string, interactive, jsonOutput bool) {
	app, err := NewApp(interactive)
	if err != nil {
		Fatal(err)
	}

	if name == "" {
		name, err = promptName(app, "Palette name", "", "")
		if err != nil {
			Fatal(err)
		}
	}

	key, err := app.Palettes.CreatePalette(name)
	if err != nil {
		Fatal(err)
	}

	if jsonOutput {
		palette, err := app.Palettes.Get(key)
		if err != nil {
			Fatal(err)
		}
		if err := printJson(NewPaletteOutput(key, palette)); err != nil {
			Fatal(err)
		}
		return
	}
	PrintSuccess("Created palette %q (%s)", name, RenderKey(key))
}

func runRename(paletteArg, name string, interactive, jsonOutput bool) {
	app, err := NewApp(interactive)
	if err != nil {
		Fatal(err)
	}

	key, err := app.PaletteResolver.Resolve(paletteArg, interactive)
	if err != nil {
		Fatal(err)
	}
	palette, err := app.Palettes.Get(key)
	if err != nil {
		Fatal(err)
	}
	oldName := palette.Name

	if name == "" {
		name, err = promptName(app, "New name", oldName, key)
		if err != nil {
			Fatal(err)
		}
	}

	if err := app.Palettes.RenamePalette(key, name); err != nil {
		Fatal(err)
	}

	if jsonOutput {
		palette.Name = name
		if err := printJson(NewPaletteOutput(key, palette)); err != nil {
			Fatal(err)
		}
		return
	}
	PrintSuccess("Renamed palette %q to %q", oldName, name)
}

func runReset(paletteArg string, force, interactive, jsonOutput bool) {
	app, err := NewApp(interactive)
	if err != nil {
		Fatal(err)
	}

	key, err := app.PaletteResolver.Resolve(paletteArg, interactive)
	if err != nil {
		Fatal(err)
	}
	palette, err := app.Palettes.Get(key)
	if err != nil {
		Fatal(err)
	}

	question := fmt.Sprintf("Remove all %d color(s) from palette %q?", palette.Colors.Len(), palette.Name)
	if !confirmDestructive(app, force, question) {
		PrintInfo("Cancelled")
		return
	}

	if err := app.Palettes.ResetPalette(key); err != nil {
		Fatal(err)
	}

	if jsonOutput {
		palette.Colors.Clear()
		if err := printJson(NewPaletteOutput(key, palette)); err != nil {
			Fatal(err)
		}
		return
	}
	PrintSuccess("Reset palette %q", palette.Name)
}

// promptName asks for a palette name, re-asking while the current name
// policy rejects it. exceptKey is the palette being renamed, if any.
func promptName(app *App, title, defaultValue, exceptKey string) (string, error) {
	return app.Prompter.ValidatedInput(title, defaultValue, func(name string) error {
		return validateName(app.Palettes, name, exceptKey)
	})
}

// validateName applies the same rules the service enforces on save.
func validateName(palettes *service.PaletteService, name, exceptKey string) error {
	if palettes.Policy() == service.AllowDuplicateNames {
		return nil
	}
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("name must not be empty")
	}
	if !palettes.NameAvailable(name, exceptKey) {
		return fmt.Errorf("a palette named %q already exists", name)
	}
	return nil
}
