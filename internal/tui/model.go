// Package tui is the interactive palette page: search, browse swatches,
// insert a color, and manage palettes through menus.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/amterp/palette/internal/colorfmt"
	"github.com/amterp/palette/internal/gesture"
	"github.com/amterp/palette/internal/model"
	"github.com/amterp/palette/internal/service"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type mode int

const (
	modeBrowse mode = iota
	modeSearch
	modeMenu
	modeInput
	modeConfirm
)

// Layout, in terminal rows and columns. Mouse hit-testing depends on these.
const (
	headerLines  = 2 // search line + blank
	paletteLines = 3 // name + swatches + blank
	footerLines  = 3
	indent       = 2
	swatchStride = swatchWidth + 1
)

type action int

const (
	actCopy action = iota
	actChange
	actRemove
	actAdd
	actRename
	actReset
	actDelete
	actCreate
)

type menuItem struct {
	label string
	act   action
}

var (
	colorMenu   = []menuItem{{"Copy", actCopy}, {"Change", actChange}, {"Remove", actRemove}}
	optionsMenu = []menuItem{{"Add color", actAdd}, {"Rename", actRename}, {"Reset", actReset}, {"Delete", actDelete}}
)

// holdMsg arrives when the hold interval of a press has passed.
type holdMsg struct {
	token gesture.Token
}

// Model is the bubbletea model for the palette page.
type Model struct {
	palettes  *service.PaletteService
	settings  *service.SettingsService
	clipboard func(string) error
	hold      time.Duration
	keys      keyMap

	search  textinput.Model
	query   string
	view    *model.Collection
	order   []string
	pal     int
	col     int
	offset  int
	width   int
	height  int
	current mode

	menuTitle  string
	menuItems  []menuItem
	menuCursor int

	input   textinput.Model
	pending action
	prompt  string

	press gesture.Machine

	status   string
	isErr    bool
	inserted string
}

// New creates the page model. clipboard receives copied text.
func New(palettes *service.PaletteService, settings *service.SettingsService, clipboard func(string) error) Model {
	search := textinput.New()
	search.Placeholder = "Search palettes"
	search.Prompt = "/ "

	input := textinput.New()
	input.Prompt = "> "

	m := Model{
		palettes:  palettes,
		settings:  settings,
		clipboard: clipboard,
		hold:      gesture.DefaultHold,
		keys:      defaultKeyMap(),
		search:    search,
		input:     input,
	}
	m.refresh()
	return m
}

// Inserted returns the text chosen for insertion, or "" if the page was
// closed without choosing a color.
func (m Model) Inserted() string {
	return m.inserted
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.ensureVisible()
		return m, nil

	case holdMsg:
		if m.current == modeBrowse && m.press.Elapsed(msg.token) {
			m.openColorMenu()
		}
		return m, nil

	case tea.MouseMsg:
		if m.current != modeBrowse {
			return m, nil
		}
		return m.handleMouse(msg)

	case tea.KeyMsg:
		switch m.current {
		case modeSearch:
			return m.updateSearch(msg)
		case modeMenu:
			return m.updateMenu(msg)
		case modeInput:
			return m.updateInput(msg)
		case modeConfirm:
			return m.updateConfirm(msg)
		default:
			return m.updateBrowse(msg)
		}
	}

	return m, nil
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.movePalette(-1)
	case key.Matches(msg, m.keys.Down):
		m.movePalette(1)
	case key.Matches(msg, m.keys.Left):
		m.moveColor(-1)
	case key.Matches(msg, m.keys.Right):
		m.moveColor(1)
	case key.Matches(msg, m.keys.Insert):
		return m.insertSelected()
	case key.Matches(msg, m.keys.Search):
		m.current = modeSearch
		return m, m.search.Focus()
	case key.Matches(msg, m.keys.Menu):
		m.openColorMenu()
	case key.Matches(msg, m.keys.Options):
		if _, ok := m.selectedPalette(); ok {
			m.openMenu("Palette options", optionsMenu)
		}
	case key.Matches(msg, m.keys.New):
		return m, m.openInput(actCreate, "New palette name", "")
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.query = m.search.Value()
		m.search.Blur()
		m.current = modeBrowse
		m.pal, m.col, m.offset = 0, 0, 0
		m.refresh()
		if len(m.order) == 0 {
			m.setError("No palette named %q", strings.TrimSpace(m.query))
		}
		return m, nil
	case tea.KeyEsc:
		m.search.SetValue(m.query)
		m.search.Blur()
		m.current = modeBrowse
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.current = modeBrowse
	case key.Matches(msg, m.keys.Up):
		if m.menuCursor > 0 {
			m.menuCursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.menuCursor < len(m.menuItems)-1 {
			m.menuCursor++
		}
	case key.Matches(msg, m.keys.Insert):
		m.current = modeBrowse
		return m.run(m.menuItems[m.menuCursor].act)
	}
	return m, nil
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.input.Blur()
		m.current = modeBrowse
		m.status = ""
		return m, nil
	case tea.KeyEnter:
		value := m.input.Value()
		if err := m.validate(m.pending, value); err != nil {
			m.setError("%v", err)
			return m, nil
		}
		m.input.Blur()
		m.current = modeBrowse
		m.submit(m.pending, value)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Yes):
		m.current = modeBrowse
		m.submit(m.pending, "")
	case key.Matches(msg, m.keys.No):
		m.current = modeBrowse
		m.status = ""
	}
	return m, nil
}

// handleMouse maps presses on swatches onto the gesture machine.
// A tap inserts; a hold opens the color menu via holdMsg.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		pal, col, ok := m.swatchAt(msg.X, msg.Y)
		if !ok {
			return m, nil
		}
		m.pal, m.col = pal, col
		token := m.press.Start()
		return m, tea.Tick(m.hold, func(time.Time) tea.Msg {
			return holdMsg{token: token}
		})

	case tea.MouseActionRelease:
		if m.press.End() == gesture.Tap {
			return m.insertSelected()
		}

	case tea.MouseActionMotion:
		if m.press.State() != gesture.Idle {
			m.press.Move()
		}
	}
	return m, nil
}

// swatchAt returns the palette and color index under a screen cell.
func (m Model) swatchAt(x, y int) (int, int, bool) {
	y -= headerLines
	if y < 0 || y%paletteLines != 1 {
		return 0, 0, false
	}
	pal := m.offset + y/paletteLines
	if pal >= len(m.order) || pal >= m.offset+m.visibleCount() {
		return 0, 0, false
	}

	x -= indent
	if x < 0 || x%swatchStride >= swatchWidth {
		return 0, 0, false
	}
	col := x / swatchStride
	p, _ := m.view.Get(m.order[pal])
	if col >= p.Colors.Len() {
		return 0, 0, false
	}
	return pal, col, true
}

// insertSelected formats the selected color in the preferred format and
// closes the page.
func (m Model) insertSelected() (tea.Model, tea.Cmd) {
	value, ok := m.selectedColor()
	if !ok {
		return m, nil
	}
	text, err := colorfmt.Format(value, m.settings.PreferredFormat())
	if err != nil {
		m.setError("Can't insert %q: %v", value, err)
		return m, nil
	}
	m.inserted = text
	return m, tea.Quit
}

func (m *Model) run(act action) (tea.Model, tea.Cmd) {
	p, _ := m.selectedPalette()
	value, _ := m.selectedColor()

	switch act {
	case actCopy:
		text, err := colorfmt.Format(value, m.settings.PreferredFormat())
		if err != nil {
			m.setError("Can't copy %q: %v", value, err)
			break
		}
		if err := m.clipboard(text); err != nil {
			m.setError("Copy failed: %v", err)
			break
		}
		m.setStatus("Copied %s", text)
	case actChange:
		return *m, m.openInput(actChange, "New color", value)
	case actRemove:
		m.submit(actRemove, "")
	case actAdd:
		return *m, m.openInput(actAdd, fmt.Sprintf("Add color to %s", p.Name), "")
	case actRename:
		return *m, m.openInput(actRename, "Rename palette", p.Name)
	case actReset:
		m.openConfirm(actReset, fmt.Sprintf("Remove every color from %q?", p.Name))
	case actDelete:
		m.openConfirm(actDelete, fmt.Sprintf("Delete palette %q?", p.Name))
	}
	return *m, nil
}

// validate checks input before anything is written.
func (m Model) validate(act action, value string) error {
	switch act {
	case actAdd, actChange:
		if _, err := colorfmt.Parse(value); err != nil {
			return err
		}
	case actCreate, actRename:
		exceptKey := ""
		if act == actRename {
			exceptKey = m.selectedKey()
		}
		if m.palettes.Policy() == service.RequireUniqueNames && strings.TrimSpace(value) == "" {
			return fmt.Errorf("name must not be empty")
		}
		if !m.palettes.NameAvailable(value, exceptKey) {
			return fmt.Errorf("a palette named %q already exists", value)
		}
	}
	return nil
}

// submit applies a mutation and refreshes the view around its result.
func (m *Model) submit(act action, value string) {
	pk := m.selectedKey()
	ck := m.selectedColorKey()

	var err error
	switch act {
	case actCreate:
		var newKey string
		if newKey, err = m.palettes.CreatePalette(value); newKey != "" {
			m.selectKey(newKey)
			m.setStatus("Created %s", value)
		}
	case actRename:
		if err = m.palettes.RenamePalette(pk, value); err == nil {
			m.setStatus("Renamed to %s", value)
		}
	case actReset:
		if err = m.palettes.ResetPalette(pk); err == nil {
			m.col = 0
			m.setStatus("Palette reset")
		}
	case actDelete:
		if err = m.palettes.DeletePalette(pk); err == nil {
			m.setStatus("Palette deleted")
		}
	case actAdd:
		var colorKey string
		if colorKey, err = m.palettes.AddColor(pk, value); colorKey != "" {
			m.refresh()
			m.selectColorKey(colorKey)
			m.setStatus("Added %s", value)
		}
	case actChange:
		if err = m.palettes.UpdateColor(pk, ck, value); err == nil {
			m.setStatus("Changed to %s", value)
		}
	case actRemove:
		if err = m.palettes.RemoveColor(pk, ck); err == nil {
			m.setStatus("Color removed")
		}
	}

	if err != nil {
		m.setError("%v", err)
	}
	m.refresh()
}

func (m *Model) openMenu(title string, items []menuItem) {
	m.menuTitle = title
	m.menuItems = items
	m.menuCursor = 0
	m.current = modeMenu
}

func (m *Model) openColorMenu() {
	if value, ok := m.selectedColor(); ok {
		m.openMenu(value, colorMenu)
	}
}

func (m *Model) openInput(act action, prompt, value string) tea.Cmd {
	m.pending = act
	m.prompt = prompt
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.current = modeInput
	m.status = ""
	return m.input.Focus()
}

func (m *Model) openConfirm(act action, prompt string) {
	m.pending = act
	m.prompt = prompt
	m.current = modeConfirm
}

// refresh re-reads the palettes through the current query and clamps the
// selection.
func (m *Model) refresh() {
	m.view = m.palettes.Search(m.query)
	m.order = m.view.Keys()

	if m.pal >= len(m.order) {
		m.pal = len(m.order) - 1
	}
	if m.pal < 0 {
		m.pal = 0
	}
	m.clampColor()
	m.ensureVisible()
}

func (m *Model) movePalette(delta int) {
	next := m.pal + delta
	if next < 0 || next >= len(m.order) {
		return
	}
	m.pal = next
	m.clampColor()
	m.ensureVisible()
}

func (m *Model) moveColor(delta int) {
	p, ok := m.selectedPalette()
	if !ok {
		return
	}
	next := m.col + delta
	if next < 0 || next >= p.Colors.Len() {
		return
	}
	m.col = next
}

func (m *Model) clampColor() {
	p, ok := m.selectedPalette()
	if !ok || m.col < 0 {
		m.col = 0
		return
	}
	if n := p.Colors.Len(); m.col >= n {
		m.col = max(n-1, 0)
	}
}

func (m *Model) selectKey(paletteKey string) {
	m.refresh()
	for i, k := range m.order {
		if k == paletteKey {
			m.pal = i
			m.col = 0
			m.ensureVisible()
			return
		}
	}
}

func (m *Model) selectColorKey(colorKey string) {
	p, ok := m.selectedPalette()
	if !ok {
		return
	}
	for i, k := range p.Colors.Keys() {
		if k == colorKey {
			m.col = i
			return
		}
	}
}

// visibleCount is how many palettes fit on screen. Before the first
// WindowSizeMsg everything is considered visible.
func (m Model) visibleCount() int {
	if m.height == 0 {
		return len(m.order)
	}
	return max((m.height-headerLines-footerLines)/paletteLines, 1)
}

func (m *Model) ensureVisible() {
	n := m.visibleCount()
	if m.pal < m.offset {
		m.offset = m.pal
	}
	if m.pal >= m.offset+n {
		m.offset = m.pal - n + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

func (m Model) selectedKey() string {
	if m.pal < 0 || m.pal >= len(m.order) {
		return ""
	}
	return m.order[m.pal]
}

func (m Model) selectedPalette() (*model.Palette, bool) {
	pk := m.selectedKey()
	if pk == "" {
		return nil, false
	}
	p, ok := m.view.Get(pk)
	return p, ok && p != nil
}

func (m Model) selectedColorKey() string {
	p, ok := m.selectedPalette()
	if !ok {
		return ""
	}
	keys := p.Colors.Keys()
	if m.col < 0 || m.col >= len(keys) {
		return ""
	}
	return keys[m.col]
}

func (m Model) selectedColor() (string, bool) {
	p, ok := m.selectedPalette()
	if !ok {
		return "", false
	}
	return p.Colors.Get(m.selectedColorKey())
}

func (m *Model) setStatus(format string, args ...any) {
	m.status = fmt.Sprintf(format, args...)
	m.isErr = false
}

func (m *Model) setError(format string, args ...any) {
	m.status = fmt.Sprintf(format, args...)
	m.isErr = true
}
