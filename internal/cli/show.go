package cli

import (
	"github.com/amterp/palette/internal/plugin"
	"github.com/amterp/ra"
)

func registerShow(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("show")
	cmd.SetDescription("Open the palette page (click or enter inserts, hold for options)")

	ctx.ShowUsed, _ = parent.RegisterCmd(cmd)
}

// runShow toggles the palette page through the command registry, the same
// way an editor host would invoke it.
func runShow() {
	app, err := NewApp(true)
	if err != nil {
		Fatal(err)
	}

	if err := app.Commands.Exec(plugin.CommandName); err != nil {
		Fatal(err)
	}
}
