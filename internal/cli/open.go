package cli

import (
	"fmt"

	"github.com/amterp/palette/internal/config"
	"github.com/amterp/palette/internal/editor"
	"github.com/amterp/palette/internal/model"
	"github.com/amterp/palette/internal/store"
	"github.com/amterp/ra"
)

func registerOpen(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("open")
	cmd.SetDescription("Edit palettes.json in $VISUAL or $EDITOR")

	ctx.OpenSettings, _ = ra.NewBool("settings").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Edit the shared settings file instead").
		Register(cmd)

	ctx.OpenUsed, _ = parent.RegisterCmd(cmd)
}

// runOpen bypasses NewApp so a file that no longer parses can still be
// opened and repaired.
func runOpen(settings bool) {
	paths := config.DefaultPaths()

	path := paths.PalettesPath()
	if settings {
		path = paths.SettingsPath()
	} else if s := store.NewPaletteStore(paths); !s.Exists() {
		if err := s.Save(model.DefaultCollection()); err != nil {
			Fatal(err)
		}
	}

	if err := editor.Open(path); err != nil {
		Fatal(fmt.Errorf("failed to open %s: %w", path, err))
	}

	PrintInfo("Run 'palette doctor' to check the file")
}
