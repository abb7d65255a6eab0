package cli

import (
	"fmt"
	"os"

	"github.com/amterp/ra"
)

// CommandContext holds parsed values and used flags for all commands.
type CommandContext struct {
	// Global flags
	NonInteractive *bool
	Json           *bool

	// list command
	ListUsed   *bool
	ListSearch *string

	// show command
	ShowUsed *bool

	// create command
	CreateUsed *bool
	CreateName *string

	// rename command
	RenameUsed    *bool
	RenamePalette *string
	RenameName    *string

	// reset command
	ResetUsed    *bool
	ResetPalette *string
	ResetForce   *bool

	// delete command
	DeleteUsed    *bool
	DeletePalette *string
	DeleteForce   *bool

	// color command
	ColorUsed *bool

	// color add
	ColorAddUsed    *bool
	ColorAddPalette *string
	ColorAddValue   *string

	// color update
	ColorUpdateUsed    *bool
	ColorUpdatePalette *string
	ColorUpdateColor   *string
	ColorUpdateValue   *string

	// color remove
	ColorRemoveUsed    *bool
	ColorRemovePalette *string
	ColorRemoveColor   *string

	// insert command
	InsertUsed    *bool
	InsertPalette *string
	InsertColor   *string
	InsertFormat  *string
	InsertFile    *string
	InsertLine    *int
	InsertCol     *int

	// copy command
	CopyUsed    *bool
	CopyPalette *string
	CopyColor   *string
	CopyFormat  *string

	// settings command
	SettingsUsed *bool

	// settings list
	SettingsListUsed *bool

	// settings get
	SettingsGetUsed *bool
	SettingsGetName *string

	// settings set
	SettingsSetUsed  *bool
	SettingsSetName  *string
	SettingsSetValue *string

	// open command
	OpenUsed     *bool
	OpenSettings *bool

	// doctor command
	DoctorUsed   *bool
	DoctorFix    *bool
	DoctorDryRun *bool

	// serve command
	ServeUsed   *bool
	ServePort   *int
	ServeNoOpen *bool

	// completion command
	CompletionUsed  *bool
	CompletionShell *string
}

// Run is the main entry point for the CLI.
func Run() {
	ctx := &CommandContext{}

	cmd := ra.NewCmd("palette")
	cmd.SetDescription("Named color palettes for your editor and terminal")

	// Global flag for non-interactive mode
	ctx.NonInteractive, _ = ra.NewBool("non-interactive").
		SetShort("I").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Fail instead of prompting for missing input").
		Register(cmd, ra.WithGlobal(true))

	ctx.Json, _ = ra.NewBool("json").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Print machine-readable JSON where supported").
		Register(cmd, ra.WithGlobal(true))

	// Register all subcommands
	registerList(cmd, ctx)
	registerShow(cmd, ctx)
	registerPalette(cmd, ctx)
	registerDelete(cmd, ctx)
	registerColor(cmd, ctx)
	registerInsert(cmd, ctx)
	registerSettings(cmd, ctx)
	registerOpen(cmd, ctx)
	registerDoctor(cmd, ctx)
	registerServe(cmd, ctx)
	registerCompletion(cmd, ctx)

	// Parse command line
	cmd.ParseOrExit(os.Args[1:])

	// Execute the appropriate command
	executeCommand(ctx, cmd)
}

func executeCommand(ctx *CommandContext, rootCmd *ra.Cmd) {
	interactive := !*ctx.NonInteractive
	jsonOutput := *ctx.Json

	switch {
	case *ctx.ListUsed:
		runList(*ctx.ListSearch, jsonOutput)

	case *ctx.ShowUsed:
		if jsonOutput {
			warnJsonNotSupported("show")
		}
		runShow()

	case *ctx.CreateUsed:
		runCreate(*ctx.CreateName, interactive, jsonOutput)

	case *ctx.RenameUsed:
		runRename(*ctx.RenamePalette, *ctx.RenameName, interactive, jsonOutput)

	case *ctx.ResetUsed:
		runReset(*ctx.ResetPalette, *ctx.ResetForce, interactive, jsonOutput)

	case *ctx.DeleteUsed:
		runDelete(*ctx.DeletePalette, *ctx.DeleteForce, interactive, jsonOutput)

	case *ctx.ColorAddUsed:
		runColorAdd(*ctx.ColorAddPalette, *ctx.ColorAddValue, interactive, jsonOutput)

	case *ctx.ColorUpdateUsed:
		runColorUpdate(*ctx.ColorUpdatePalette, *ctx.ColorUpdateColor, *ctx.ColorUpdateValue, interactive, jsonOutput)

	case *ctx.ColorRemoveUsed:
		runColorRemove(*ctx.ColorRemovePalette, *ctx.ColorRemoveColor, interactive, jsonOutput)

	case *ctx.InsertUsed:
		runInsert(insertArgs{
			palette: *ctx.InsertPalette,
			color:   *ctx.InsertColor,
			format:  *ctx.InsertFormat,
			file:    *ctx.InsertFile,
			line:    *ctx.InsertLine,
			col:     *ctx.InsertCol,
		}, interactive, jsonOutput)

	case *ctx.CopyUsed:
		runCopy(*ctx.CopyPalette, *ctx.CopyColor, *ctx.CopyFormat, interactive, jsonOutput)

	case *ctx.SettingsGetUsed:
		runSettingsGet(*ctx.SettingsGetName, jsonOutput)

	case *ctx.SettingsSetUsed:
		runSettingsSet(*ctx.SettingsSetName, *ctx.SettingsSetValue, jsonOutput)

	case *ctx.SettingsListUsed, *ctx.SettingsUsed:
		runSettingsList(jsonOutput)

	case *ctx.OpenUsed:
		if jsonOutput {
			warnJsonNotSupported("open")
		}
		runOpen(*ctx.OpenSettings)

	case *ctx.DoctorUsed:
		runDoctor(jsonOutput, *ctx.DoctorFix, *ctx.DoctorDryRun)

	case *ctx.ServeUsed:
		if jsonOutput {
			warnJsonNotSupported("serve")
		}
		runServe(*ctx.ServePort, *ctx.ServeNoOpen)

	case *ctx.CompletionUsed:
		runCompletion(*ctx.CompletionShell, rootCmd)

	case *ctx.ColorUsed:
		Fatal(fmt.Errorf("missing subcommand: expected one of add, update, remove"))

	default:
		// No subcommand: open the palette page, like `palette show`
		runShow()
	}
}
