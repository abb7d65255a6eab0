package cli

import (
	"fmt"

	"github.com/amterp/ra"
)

func registerSettings(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("settings")
	cmd.SetDescription("View or change palette settings")

	// settings list
	listCmd := ra.NewCmd("list")
	listCmd.SetDescription("List settings with their current values")

	ctx.SettingsListUsed, _ = cmd.RegisterCmd(listCmd)

	// settings get
	getCmd := ra.NewCmd("get")
	getCmd.SetDescription("Print one setting")

	ctx.SettingsGetName, _ = ra.NewString("name").
		SetUsage("Setting name").
		SetCompletionFunc(completeSettings).
		Register(getCmd)

	ctx.SettingsGetUsed, _ = cmd.RegisterCmd(getCmd)

	// settings set
	setCmd := ra.NewCmd("set")
	setCmd.SetDescription("Change one setting")

	ctx.SettingsSetName, _ = ra.NewString("name").
		SetUsage("Setting name").
		SetCompletionFunc(completeSettings).
		Register(setCmd)

	ctx.SettingsSetValue, _ = ra.NewString("value").
		SetUsage("New value").
		Register(setCmd)

	ctx.SettingsSetUsed, _ = cmd.RegisterCmd(setCmd)

	ctx.SettingsUsed, _ = parent.RegisterCmd(cmd)
}

func runSettingsList(jsonOutput bool) {
	app, err := NewApp(false)
	if err != nil {
		Fatal(err)
	}

	options := app.Settings.Options()

	if jsonOutput {
		if err := printJson(SettingsOutput{File: app.Settings.Path(), Settings: options}); err != nil {
			Fatal(err)
		}
		return
	}

	width := 0
	for _, opt := range options {
		width = max(width, len(opt.Key))
	}
	for _, opt := range options {
		fmt.Printf("%s  %s\n", LabelValue(opt.Key, RenderBold(opt.Value), width+1), RenderMuted(opt.Text))
	}
	fmt.Println()
	PrintInfo("Stored in %s", app.Settings.Path())
}

func runSettingsGet(name string, jsonOutput bool) {
	app, err := NewApp(false)
	if err != nil {
		Fatal(err)
	}

	value, err := app.Settings.Get(name)
	if err != nil {
		Fatal(err)
	}

	if jsonOutput {
		if err := printJson(map[string]string{name: value}); err != nil {
			Fatal(err)
		}
		return
	}
	fmt.Println(value)
}

func runSettingsSet(name, value string, jsonOutput bool) {
	app, err := NewApp(false)
	if err != nil {
		Fatal(err)
	}

	if err := app.Settings.Set(name, value); err != nil {
		Fatal(err)
	}
	stored, err := app.Settings.Get(name)
	if err != nil {
		Fatal(err)
	}

	if jsonOutput {
		if err := printJson(map[string]string{name: stored}); err != nil {
			Fatal(err)
		}
		return
	}
	PrintSuccess("Set %s to %s", name, RenderBold(stored))
}
