// Package plugin wires the palette services into a host: it loads data,
// syncs settings, and registers the command that toggles the palette page.
package plugin

import (
	"fmt"
	"sync"

	"github.com/amterp/palette/internal/command"
	"github.com/amterp/palette/internal/service"
	"github.com/amterp/palette/internal/store"
)

// CommandName is the registered name of the toggle command.
const CommandName = "Color palette"

// Page is a view that can be shown and hidden.
type Page interface {
	// Show displays the page. It may block until the page closes.
	Show() error
	Hide()
	Visible() bool
}

// PageFactory builds the page once the services are ready.
type PageFactory func(p *Plugin) Page

// Plugin owns the palette and settings services for one host session.
type Plugin struct {
	Palettes *service.PaletteService
	Settings *service.SettingsService

	paletteStore store.PaletteStore
	commands     *command.Registry
	newPage      PageFactory

	mu   sync.Mutex
	page Page
}

// New creates a plugin. Nothing is read or registered until Init.
func New(palettes store.PaletteStore, settings store.SettingsStore, commands *command.Registry, newPage PageFactory) *Plugin {
	return &Plugin{
		Settings:     service.NewSettingsService(settings),
		paletteStore: palettes,
		commands:     commands,
		newPage:      newPage,
	}
}

// Init syncs settings, loads palettes (writing defaults on first run) and
// registers the toggle command.
func (p *Plugin) Init() error {
	if err := p.Settings.Sync(); err != nil {
		return fmt.Errorf("failed to sync settings: %w", err)
	}

	p.Palettes = service.NewPaletteService(p.paletteStore, service.WithNamePolicy(p.Settings.NamePolicy()))
	if _, err := p.Palettes.Load(); err != nil {
		return fmt.Errorf("failed to load palettes: %w", err)
	}

	return p.commands.Add(command.Command{
		Name:        CommandName,
		Description: "Show or hide the color palette",
		Exec:        p.Toggle,
	})
}

// Destroy hides the page, unregisters the command and removes this plugin's
// settings table.
func (p *Plugin) Destroy() error {
	p.mu.Lock()
	if p.page != nil && p.page.Visible() {
		p.page.Hide()
	}
	p.page = nil
	p.mu.Unlock()

	p.commands.Remove(CommandName)
	return p.Settings.Remove()
}

// Toggle shows the page if it's hidden and hides it if it's visible.
func (p *Plugin) Toggle() error {
	p.mu.Lock()
	if p.page == nil {
		if p.newPage == nil {
			p.mu.Unlock()
			return fmt.Errorf("no palette page available")
		}
		p.page = p.newPage(p)
	}
	page := p.page
	p.mu.Unlock()

	if page.Visible() {
		page.Hide()
		return nil
	}
	return page.Show()
}
