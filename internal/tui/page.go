package tui

import (
	"fmt"
	"sync"

	"github.com/amterp/palette/internal/editor"
	"github.com/amterp/palette/internal/plugin"
	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
)

// Options configures a Page.
type Options struct {
	// Inserter receives the formatted color after the page closes.
	// Defaults to stdout.
	Inserter editor.Inserter
	// Clipboard receives copied colors. Defaults to the system clipboard.
	Clipboard func(string) error
	// ProgramOptions are appended to the defaults (alt screen, mouse).
	ProgramOptions []tea.ProgramOption
}

// Page runs the palette page as a full-screen bubbletea program.
// It implements plugin.Page.
type Page struct {
	plugin *plugin.Plugin
	opts   Options

	mu       sync.Mutex
	program  *tea.Program
	inserted string
}

// NewPage creates a page over the plugin's services.
func NewPage(p *plugin.Plugin, opts Options) *Page {
	if opts.Inserter == nil {
		opts.Inserter = editor.StdoutInserter()
	}
	if opts.Clipboard == nil {
		opts.Clipboard = clipboard.WriteAll
	}
	return &Page{plugin: p, opts: opts}
}

// Factory returns a plugin.PageFactory that builds pages with opts.
func Factory(opts Options) plugin.PageFactory {
	return func(p *plugin.Plugin) plugin.Page {
		return NewPage(p, opts)
	}
}

// Show runs the page until it is closed or hidden. If a color was chosen
// it is inserted once the screen has been restored.
func (pg *Page) Show() error {
	pg.mu.Lock()
	if pg.program != nil {
		pg.mu.Unlock()
		return nil
	}
	m := New(pg.plugin.Palettes, pg.plugin.Settings, pg.opts.Clipboard)
	opts := append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithMouseCellMotion()}, pg.opts.ProgramOptions...)
	program := tea.NewProgram(m, opts...)
	pg.program = program
	pg.inserted = ""
	pg.mu.Unlock()

	final, err := program.Run()

	pg.mu.Lock()
	pg.program = nil
	pg.mu.Unlock()

	if err != nil {
		return fmt.Errorf("palette page failed: %w", err)
	}

	fm, ok := final.(Model)
	if !ok || fm.Inserted() == "" {
		return nil
	}

	pg.mu.Lock()
	pg.inserted = fm.Inserted()
	pg.mu.Unlock()
	return pg.opts.Inserter.Insert(fm.Inserted())
}

// Hide closes the page if it is showing.
func (pg *Page) Hide() {
	pg.mu.Lock()
	defer pg.mu.Unlock()
	if pg.program != nil {
		pg.program.Quit()
	}
}

// Visible reports whether the page is showing.
func (pg *Page) Visible() bool {
	pg.mu.Lock()
	defer pg.mu.Unlock()
	return pg.program != nil
}

// Inserted returns the text inserted by the last Show, if any.
func (pg *Page) Inserted() string {
	pg.mu.Lock()
	defer pg.mu.Unlock()
	return pg.inserted
}
