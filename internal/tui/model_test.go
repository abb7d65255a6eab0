package tui

import (
	"io"
	"strings"
	"testing"
	"time"

	"github.com/amterp/palette/internal/command"
	"github.com/amterp/palette/internal/plugin"
	"github.com/amterp/palette/internal/service"
	"github.com/amterp/palette/internal/store"
	"github.com/amterp/palette/testutil"
	tea "github.com/charmbracelet/bubbletea"
)

type testPage struct {
	model    Model
	palettes *service.PaletteService
	settings *service.SettingsService
	copied   []string
}

// newTestModel builds a model over testutil.TestCollection:
//
//	1 Warm  #ff0000 #ff8800
//	2 Cool  #0000ff
//	3 Empty
func newTestModel(t *testing.T) *testPage {
	t.Helper()

	paths := testutil.TempDataDir(t)
	testutil.SeedPalettes(t, paths, testutil.TestCollection())

	settings := service.NewSettingsService(store.NewSettingsStore(paths))
	if err := settings.Sync(); err != nil {
		t.Fatalf("Sync failed: %v", err)
	}
	palettes := service.NewPaletteService(store.NewPaletteStore(paths))
	if _, err := palettes.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	tp := &testPage{palettes: palettes, settings: settings}
	tp.model = New(palettes, settings, func(s string) error {
		tp.copied = append(tp.copied, s)
		return nil
	})
	tp.model.hold = time.Millisecond
	return tp
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// send feeds messages through Update and returns the last command.
func (tp *testPage) send(msgs ...tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = tp.model.Update(msg)
		tp.model = next.(Model)
	}
	return cmd
}

func (tp *testPage) keys(keys ...string) tea.Cmd {
	msgs := make([]tea.Msg, len(keys))
	for i, k := range keys {
		msgs[i] = keyMsg(k)
	}
	return tp.send(msgs...)
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func mouse(action tea.MouseAction, x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: action, Button: tea.MouseButtonLeft}
}

func TestModel_EnterInsertsSelectedColor(t *testing.T) {
	tests := []struct {
		name   string
		keys   []string
		format string
		want   string
	}{
		{"first color", nil, "hex", "#ff0000"},
		{"move right", []string{"l"}, "hex", "#ff8800"},
		{"right clamps at end", []string{"l", "l", "l"}, "hex", "#ff8800"},
		{"next palette", []string{"j"}, "hex", "#0000ff"},
		{"color clamps when changing palette", []string{"l", "j"}, "hex", "#0000ff"},
		{"preferred rgb", nil, "rgb", "rgb(255, 0, 0)"},
		{"preferred hsl", []string{"j"}, "hsl", "hsl(240, 100%, 50%)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tp := newTestModel(t)
			if err := tp.settings.Set(service.SettingPreferredColorFormat, tt.format); err != nil {
				t.Fatal(err)
			}

			tp.keys(tt.keys...)
			cmd := tp.keys("enter")

			if !isQuit(cmd) {
				t.Error("Expected page to close after insert")
			}
			if got := tp.model.Inserted(); got != tt.want {
				t.Errorf("Inserted = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestModel_EnterOnEmptyPaletteDoesNothing(t *testing.T) {
	tp := newTestModel(t)
	cmd := tp.keys("j", "j", "enter")
	if cmd != nil || tp.model.Inserted() != "" {
		t.Errorf("Expected no insert from empty palette, got %q", tp.model.Inserted())
	}
}

func TestModel_Quit(t *testing.T) {
	for _, k := range []string{"q", "esc"} {
		tp := newTestModel(t)
		if !isQuit(tp.keys(k)) {
			t.Errorf("%s: expected quit", k)
		}
		if tp.model.Inserted() != "" {
			t.Errorf("%s: expected nothing inserted", k)
		}
	}
}

func TestModel_Search(t *testing.T) {
	tp := newTestModel(t)

	tp.keys("/", "COOL", "enter")
	if got := strings.Join(tp.model.order, ","); got != "2" {
		t.Errorf("order = %q, want 2", got)
	}
	if tp.model.current != modeBrowse {
		t.Errorf("Expected browse mode after search, got %v", tp.model.current)
	}

	tp.keys("/", "zzz", "enter")
	if len(tp.model.order) != 0 {
		t.Errorf("Expected no matches, got %v", tp.model.order)
	}
	if !tp.model.isErr || !strings.Contains(tp.model.status, `No palette named "COOLzzz"`) {
		t.Errorf("Unexpected status %q", tp.model.status)
	}
}

func TestModel_BlankSearchShowsAll(t *testing.T) {
	tp := newTestModel(t)

	tp.keys("/", "warm", "enter")
	tp.model.search.SetValue("   ")
	tp.keys("/", "enter")

	if got := strings.Join(tp.model.order, ","); got != "1,2,3" {
		t.Errorf("order = %q, want 1,2,3", got)
	}
}

func TestModel_ColorMenuCopy(t *testing.T) {
	tp := newTestModel(t)

	tp.keys("l", "m")
	if tp.model.current != modeMenu || tp.model.menuTitle != "#ff8800" {
		t.Fatalf("Expected color menu for #ff8800, got mode %v title %q", tp.model.current, tp.model.menuTitle)
	}

	tp.keys("enter")
	if len(tp.copied) != 1 || tp.copied[0] != "#ff8800" {
		t.Errorf("copied = %v, want [#ff8800]", tp.copied)
	}
	if tp.model.current != modeBrowse {
		t.Error("Expected menu to close")
	}
}

func TestModel_ColorMenuChange(t *testing.T) {
	tp := newTestModel(t)

	tp.keys("m", "down", "enter")
	if tp.model.current != modeInput || tp.model.input.Value() != "#ff0000" {
		t.Fatalf("Expected input prefilled with #ff0000, got mode %v value %q", tp.model.current, tp.model.input.Value())
	}

	tp.model.input.SetValue("not a color")
	tp.keys("enter")
	if tp.model.current != modeInput || !tp.model.isErr {
		t.Fatal("Expected invalid color to keep the input open with an error")
	}

	tp.model.input.SetValue("rgb(0, 255, 0)")
	tp.keys("enter")

	p, err := tp.palettes.Get("1")
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := p.Colors.Get("1"); v != "rgb(0, 255, 0)" {
		t.Errorf("color 1 = %q, want rgb(0, 255, 0)", v)
	}
}

func TestModel_ColorMenuRemove(t *testing.T) {
	tp := newTestModel(t)

	tp.keys("m", "down", "down", "enter")

	p, _ := tp.palettes.Get("1")
	if p.Colors.Len() != 1 || p.Colors.Has("1") {
		t.Errorf("Expected color 1 removed, got keys %v", p.Colors.Keys())
	}
	if tp.model.col != 0 {
		t.Errorf("Expected selection clamped to 0, got %d", tp.model.col)
	}
}

func TestModel_OptionsAddColor(t *testing.T) {
	tp := newTestModel(t)

	tp.keys("j", "o", "enter")
	if tp.model.current != modeInput {
		t.Fatalf("Expected input, got %v", tp.model.current)
	}
	tp.keys("#abcdef", "enter")

	p, _ := tp.palettes.Get("2")
	if v, ok := p.Colors.Get("2"); !ok || v != "#abcdef" {
		t.Errorf("Expected #abcdef under key 2, got %v", p.Colors.Keys())
	}
	if tp.model.col != 1 {
		t.Errorf("Expected new color selected, got col %d", tp.model.col)
	}
}

func TestModel_OptionsRename(t *testing.T) {
	tp := newTestModel(t)

	tp.keys("o", "down", "enter")
	if tp.model.input.Value() != "Warm" {
		t.Fatalf("Expected input prefilled with Warm, got %q", tp.model.input.Value())
	}

	// Own name is fine, a sibling's is not
	tp.model.input.SetValue("Cool")
	tp.keys("enter")
	if tp.model.current != modeInput || !tp.model.isErr {
		t.Fatal("Expected duplicate name to be rejected")
	}

	tp.model.input.SetValue("Hot")
	tp.keys("enter")
	p, _ := tp.palettes.Get("1")
	if p.Name != "Hot" {
		t.Errorf("Name = %q, want Hot", p.Name)
	}
}

func TestModel_OptionsResetAndDeleteConfirm(t *testing.T) {
	tp := newTestModel(t)

	// Reset, declined
	tp.keys("o", "down", "down", "enter")
	if tp.model.current != modeConfirm {
		t.Fatalf("Expected confirm, got %v", tp.model.current)
	}
	tp.keys("n")
	if p, _ := tp.palettes.Get("1"); p.Colors.Len() != 2 {
		t.Error("Expected declined reset to keep colors")
	}

	// Reset, accepted
	tp.keys("o", "down", "down", "enter", "y")
	if p, _ := tp.palettes.Get("1"); p.Colors.Len() != 0 || p.Name != "Warm" {
		t.Errorf("Expected Warm with no colors, got %+v", p)
	}

	// Delete, accepted
	tp.keys("o", "down", "down", "down", "enter", "y")
	if _, err := tp.palettes.Get("1"); err == nil {
		t.Error("Expected palette 1 deleted")
	}
	if got := strings.Join(tp.model.order, ","); got != "2,3" {
		t.Errorf("order = %q, want 2,3", got)
	}
}

func TestModel_NewPalette(t *testing.T) {
	tp := newTestModel(t)

	tp.keys("n", "Warm", "enter")
	if tp.model.current != modeInput || !tp.model.isErr {
		t.Fatal("Expected duplicate name to be rejected")
	}

	tp.model.input.SetValue("Neon")
	tp.keys("enter")

	if tp.model.selectedKey() != "4" {
		t.Errorf("Expected new palette 4 selected, got %q", tp.model.selectedKey())
	}
	if p, err := tp.palettes.Get("4"); err != nil || p.Name != "Neon" {
		t.Errorf("Expected Neon under key 4, got %v, %v", p, err)
	}
}

func TestModel_NewPaletteAllowsDuplicatesWhenConfigured(t *testing.T) {
	tp := newTestModel(t)
	tp.palettes.SetPolicy(service.AllowDuplicateNames)

	tp.keys("n", "Warm", "enter")
	if tp.model.current != modeBrowse {
		t.Fatalf("Expected duplicate to be accepted, status %q", tp.model.status)
	}
	if tp.palettes.Snapshot().Len() != 4 {
		t.Error("Expected a fourth palette")
	}
}

func TestModel_SwatchAt(t *testing.T) {
	tp := newTestModel(t)

	tests := []struct {
		x, y     int
		pal, col int
		ok       bool
	}{
		{0, 3, 0, 0, false}, // indent
		{2, 3, 0, 0, true},
		{5, 3, 0, 0, true},
		{6, 3, 0, 0, false}, // gap
		{7, 3, 0, 1, true},
		{12, 3, 0, 0, false}, // past the last color
		{2, 2, 0, 0, false},  // name line
		{2, 6, 1, 0, true},
		{2, 9, 0, 0, false}, // empty palette
		{2, 0, 0, 0, false}, // search line
	}

	for _, tt := range tests {
		pal, col, ok := tp.model.swatchAt(tt.x, tt.y)
		if ok != tt.ok || (ok && (pal != tt.pal || col != tt.col)) {
			t.Errorf("swatchAt(%d, %d) = %d, %d, %v; want %d, %d, %v", tt.x, tt.y, pal, col, ok, tt.pal, tt.col, tt.ok)
		}
	}
}

func TestModel_TapInserts(t *testing.T) {
	tp := newTestModel(t)

	if cmd := tp.send(mouse(tea.MouseActionPress, 7, 3)); cmd == nil {
		t.Fatal("Expected press to arm a hold timer")
	}
	cmd := tp.send(mouse(tea.MouseActionRelease, 7, 3))

	if !isQuit(cmd) {
		t.Error("Expected tap to close the page")
	}
	if got := tp.model.Inserted(); got != "#ff8800" {
		t.Errorf("Inserted = %q, want #ff8800", got)
	}
}

func TestModel_HoldOpensMenu(t *testing.T) {
	tp := newTestModel(t)

	tick := tp.send(mouse(tea.MouseActionPress, 2, 6))
	tp.send(tick())

	if tp.model.current != modeMenu || tp.model.menuTitle != "#0000ff" {
		t.Fatalf("Expected color menu for #0000ff, got mode %v title %q", tp.model.current, tp.model.menuTitle)
	}

	// Releasing after the hold fired doesn't insert
	tp.send(mouse(tea.MouseActionRelease, 2, 6))
	if tp.model.Inserted() != "" {
		t.Errorf("Expected no insert after hold, got %q", tp.model.Inserted())
	}
}

func TestModel_MoveCancelsPress(t *testing.T) {
	tp := newTestModel(t)

	tick := tp.send(mouse(tea.MouseActionPress, 2, 3))
	tp.send(mouse(tea.MouseActionMotion, 3, 3))
	tp.send(tick())

	if tp.model.current != modeBrowse {
		t.Error("Expected stale hold to be ignored after move")
	}
	cmd := tp.send(mouse(tea.MouseActionRelease, 3, 3))
	if cmd != nil || tp.model.Inserted() != "" {
		t.Error("Expected no insert after a cancelled press")
	}
}

func TestModel_ScrollKeepsSelectionVisible(t *testing.T) {
	tp := newTestModel(t)

	// Room for exactly one palette
	tp.send(tea.WindowSizeMsg{Width: 80, Height: headerLines + footerLines + paletteLines})
	tp.keys("j", "j")

	if tp.model.offset != 2 {
		t.Errorf("offset = %d, want 2", tp.model.offset)
	}
	if _, _, ok := tp.model.swatchAt(2, 3); ok {
		t.Error("Expected no swatch hit on the empty palette at the top")
	}
	if !strings.Contains(tp.model.View(), "Empty") || strings.Contains(tp.model.View(), "Warm") {
		t.Error("Expected only the selected palette to be rendered")
	}
}

type recordingInserter struct {
	got []string
}

func (r *recordingInserter) Insert(text string) error {
	r.got = append(r.got, text)
	return nil
}

func TestPage_ShowInsertsAfterClose(t *testing.T) {
	paths := testutil.TempDataDir(t)
	testutil.SeedPalettes(t, paths, testutil.TestCollection())

	ins := &recordingInserter{}
	registry := command.NewRegistry()
	p := plugin.New(store.NewPaletteStore(paths), store.NewSettingsStore(paths), registry, Factory(Options{
		Inserter:  ins,
		Clipboard: func(string) error { return nil },
		ProgramOptions: []tea.ProgramOption{
			tea.WithInput(strings.NewReader("\r")),
			tea.WithOutput(io.Discard),
		},
	}))
	if err := p.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	if err := registry.Exec(plugin.CommandName); err != nil {
		t.Fatalf("Exec failed: %v", err)
	}
	if len(ins.got) != 1 || ins.got[0] != "#ff0000" {
		t.Errorf("inserted = %v, want [#ff0000]", ins.got)
	}
}
