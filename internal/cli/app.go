package cli

import (
	"fmt"
	"os"

	"github.com/amterp/palette/internal/command"
	"github.com/amterp/palette/internal/config"
	"github.com/amterp/palette/internal/plugin"
	"github.com/amterp/palette/internal/prompt"
	"github.com/amterp/palette/internal/resolver"
	"github.com/amterp/palette/internal/service"
	"github.com/amterp/palette/internal/store"
	"github.com/amterp/palette/internal/tui"
)

// App holds all the dependencies for the CLI.
type App struct {
	Paths           *config.Paths
	PaletteStore    store.PaletteStore
	SettingsStore   store.SettingsStore
	Commands        *command.Registry
	Plugin          *plugin.Plugin
	Palettes        *service.PaletteService
	Settings        *service.SettingsService
	Prompter        prompt.Prompter
	PaletteResolver *resolver.PaletteResolver
	ColorResolver   *resolver.ColorResolver
	Interactive     bool
}

// NewApp creates a new App with all dependencies wired up and the plugin
// initialized. If interactive is false, uses NoopPrompter that fails on prompts.
func NewApp(interactive bool) (*App, error) {
	return newApp(config.DefaultPaths(), interactive, tui.Options{})
}

func newApp(paths *config.Paths, interactive bool, pageOpts tui.Options) (*App, error) {
	paletteStore := store.NewPaletteStore(paths)
	settingsStore := store.NewSettingsStore(paths)
	commands := command.NewRegistry()

	p := plugin.New(paletteStore, settingsStore, commands, tui.Factory(pageOpts))
	if err := p.Init(); err != nil {
		return nil, err
	}

	var prompter prompt.Prompter
	if interactive {
		prompter = prompt.NewHuhPrompter()
	} else {
		prompter = &prompt.NoopPrompter{}
	}

	return &App{
		Paths:           paths,
		PaletteStore:    paletteStore,
		SettingsStore:   settingsStore,
		Commands:        commands,
		Plugin:          p,
		Palettes:        p.Palettes,
		Settings:        p.Settings,
		Prompter:        prompter,
		PaletteResolver: resolver.NewPaletteResolver(p.Palettes, prompter),
		ColorResolver:   resolver.NewColorResolver(prompter),
		Interactive:     interactive,
	}, nil
}

// ResolveColor resolves a palette argument and a color argument to keys.
func (a *App) ResolveColor(paletteArg, colorArg string) (paletteKey, colorKey string, err error) {
	paletteKey, err = a.PaletteResolver.Resolve(paletteArg, a.Interactive)
	if err != nil {
		return "", "", err
	}
	palette, err := a.Palettes.Get(paletteKey)
	if err != nil {
		return "", "", err
	}
	colorKey, err = a.ColorResolver.Resolve(palette, paletteKey, colorArg, a.Interactive)
	if err != nil {
		return "", "", err
	}
	return paletteKey, colorKey, nil
}

// Fatal prints an error and exits.
func Fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
