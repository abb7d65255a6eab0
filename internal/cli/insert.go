package cli

import (
	"fmt"

	"github.com/amterp/palette/internal/colorfmt"
	"github.com/amterp/palette/internal/editor"
	"github.com/amterp/palette/internal/model"
	"github.com/amterp/ra"
	"github.com/atotto/clipboard"
)

// insertArgs carries the parsed insert flags.
type insertArgs struct {
	palette string
	color   string
	format  string
	file    string
	line    int
	col     int
}

func registerInsert(parent *ra.Cmd, ctx *CommandContext) {
	// insert
	cmd := ra.NewCmd("insert")
	cmd.SetDescription("Insert a color in the preferred format at a cursor (stdout by default)")

	ctx.InsertPalette, _ = ra.NewString("palette").
		SetUsage("Palette key or name").
		SetCompletionFunc(completePalettes).
		Register(cmd)

	ctx.InsertColor, _ = ra.NewString("color").
		SetOptional(true).
		SetUsage("Color key or value (prompted if omitted)").
		SetCompletionFunc(completeColors).
		Register(cmd)

	ctx.InsertFormat, _ = ra.NewString("format").
		SetShort("F").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("hex, rgb or hsl (defaults to the preferredColorFormat setting)").
		SetCompletionFunc(completeFormats).
		Register(cmd)

	ctx.InsertFile, _ = ra.NewString("file").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Insert into this file instead of printing").
		Register(cmd)

	ctx.InsertLine, _ = ra.NewInt("line").
		SetOptional(true).
		SetDefault(1).
		SetFlagOnly(true).
		SetUsage("1-based line of the cursor in --file").
		Register(cmd)

	ctx.InsertCol, _ = ra.NewInt("col").
		SetOptional(true).
		SetDefault(1).
		SetFlagOnly(true).
		SetUsage("1-based column of the cursor in --file").
		Register(cmd)

	ctx.InsertUsed, _ = parent.RegisterCmd(cmd)

	// copy
	copyCmd := ra.NewCmd("copy")
	copyCmd.SetDescription("Copy a color to the clipboard in the preferred format")

	ctx.CopyPalette, _ = ra.NewString("palette").
		SetUsage("Palette key or name").
		SetCompletionFunc(completePalettes).
		Register(copyCmd)

	ctx.CopyColor, _ = ra.NewString("color").
		SetOptional(true).
		SetUsage("Color key or value (prompted if omitted)").
		SetCompletionFunc(completeColors).
		Register(copyCmd)

	ctx.CopyFormat, _ = ra.NewString("format").
		SetShort("F").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("hex, rgb or hsl (defaults to the preferredColorFormat setting)").
		SetCompletionFunc(completeFormats).
		Register(copyCmd)

	ctx.CopyUsed, _ = parent.RegisterCmd(copyCmd)
}

func runInsert(args insertArgs, interactive, jsonOutput bool) {
	app, err := NewApp(interactive)
	if err != nil {
		Fatal(err)
	}

	out, err := formatColor(app, args.palette, args.color, args.format)
	if err != nil {
		Fatal(err)
	}

	if args.file == "" {
		if jsonOutput {
			if err := printJson(out); err != nil {
				Fatal(err)
			}
			return
		}
		if err := editor.StdoutInserter().Insert(out.Formatted); err != nil {
			Fatal(err)
		}
		return
	}

	inserter := &editor.FileInserter{
		Path: args.file,
		At:   editor.Position{Line: args.line, Column: args.col},
	}
	if err := inserter.Insert(out.Formatted); err != nil {
		Fatal(err)
	}

	if jsonOutput {
		if err := printJson(out); err != nil {
			Fatal(err)
		}
		return
	}
	PrintSuccess("Inserted %s into %s at %d:%d", out.Formatted, args.file, args.line, args.col)
}

func runCopy(paletteArg, colorArg, format string, interactive, jsonOutput bool) {
	app, err := NewApp(interactive)
	if err != nil {
		Fatal(err)
	}

	out, err := formatColor(app, paletteArg, colorArg, format)
	if err != nil {
		Fatal(err)
	}

	if err := clipboard.WriteAll(out.Formatted); err != nil {
		Fatal(fmt.Errorf("failed to copy to clipboard: %w", err))
	}

	if jsonOutput {
		if err := printJson(out); err != nil {
			Fatal(err)
		}
		return
	}
	PrintSuccess("Copied %s %s", ColorSwatch(out.Value), out.Formatted)
}

// formatColor resolves a color and renders it in format, or in the
// preferred format when format is empty.
func formatColor(app *App, paletteArg, colorArg, format string) (ColorOutput, error) {
	paletteKey, colorKey, err := app.ResolveColor(paletteArg, colorArg)
	if err != nil {
		return ColorOutput{}, err
	}

	f := app.Settings.PreferredFormat()
	if format != "" {
		if f, err = model.ParseColorFormat(format); err != nil {
			return ColorOutput{}, err
		}
	}

	palette, err := app.Palettes.Get(paletteKey)
	if err != nil {
		return ColorOutput{}, err
	}
	value, _ := palette.Colors.Get(colorKey)

	formatted, err := colorfmt.Format(value, f)
	if err != nil {
		return ColorOutput{}, err
	}

	return ColorOutput{
		PaletteKey: paletteKey,
		ColorKey:   colorKey,
		Value:      value,
		Format:     string(f),
		Formatted:  formatted,
	}, nil
}
