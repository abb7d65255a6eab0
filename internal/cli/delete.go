package cli

import (
	"fmt"
	"strings"

	"github.com/amterp/ra"
)

func registerDelete(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("delete")
	cmd.SetDescription("Delete a palette and all of its colors")

	ctx.DeletePalette, _ = ra.NewString("palette").
		SetUsage("Palette key or name").
		SetCompletionFunc(completePalettes).
		Register(cmd)

	ctx.DeleteForce, _ = ra.NewBool("force").
		SetShort("f").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Skip confirmation (required in non-interactive mode)").
		Register(cmd)

	ctx.DeleteUsed, _ = parent.RegisterCmd(cmd)
}

func runDelete(paletteArg string, force, interactive, jsonOutput bool) {
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

	if !confirmDestructive(app, force, fmt.Sprintf("Delete palette %q (%s)?", palette.Name, key)) {
		PrintInfo("Cancelled")
		return
	}

	if err := app.Palettes.DeletePalette(key); err != nil {
		Fatal(err)
	}

	if jsonOutput {
		if err := printJson(NewPaletteOutput(key, palette)); err != nil {
			Fatal(err)
		}
		return
	}
	PrintSuccess("Deleted palette %q (%s)", palette.Name, key)
}

// confirmDestructive asks before an irreversible change. Without force,
// non-interactive runs fail rather than guess.
func confirmDestructive(app *App, force bool, question string) bool {
	if force {
		return true
	}
	if !app.Interactive {
		Fatal(fmt.Errorf("%q requires --force in non-interactive mode", strings.TrimSuffix(question, "?")))
	}

	confirmed, err := app.Prompter.Confirm(question, false)
	if err != nil {
		Fatal(err)
	}
	return confirmed
}
