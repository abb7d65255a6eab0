package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.search.View())
	b.WriteString("\n\n")

	if len(m.order) == 0 {
		b.WriteString(styleMuted.Render("  No palettes"))
		b.WriteString("\n")
	}

	end := min(m.offset+m.visibleCount(), len(m.order))
	for i := m.offset; i < end; i++ {
		b.WriteString(m.renderPalette(i))
	}

	b.WriteString("\n")
	switch m.current {
	case modeMenu:
		b.WriteString(m.renderMenu())
	case modeInput:
		b.WriteString(styleBox.Render(styleTitle.Render(m.prompt) + "\n" + m.input.View()))
	case modeConfirm:
		b.WriteString(styleBox.Render(m.prompt + "  " + styleMuted.Render("(y/n)")))
	}
	b.WriteString("\n")

	if m.status != "" {
		if m.isErr {
			b.WriteString(styleError.Render(m.status))
		} else {
			b.WriteString(styleMuted.Render(m.status))
		}
		b.WriteString("\n")
	}
	if m.current == modeBrowse {
		b.WriteString(renderHelp(m.keys.browseHelp()))
	}

	return b.String()
}

// renderPalette renders one palette as paletteLines rows.
func (m Model) renderPalette(i int) string {
	pk := m.order[i]
	p, _ := m.view.Get(pk)
	active := i == m.pal

	name := styleTitle.Render(p.Name)
	if active {
		name = styleSelected.Render(p.Name)
	}

	var line strings.Builder
	line.WriteString(strings.Repeat(" ", indent))
	j := 0
	for _, value := range p.Colors.All() {
		if j > 0 {
			line.WriteString(" ")
		}
		line.WriteString(Swatch(value, active && j == m.col))
		j++
	}
	if j == 0 {
		line.WriteString(styleMuted.Render("empty"))
	}

	return styleKey.Render(pk) + " " + name + "\n" + line.String() + "\n\n"
}

func (m Model) renderMenu() string {
	var b strings.Builder
	b.WriteString(styleTitle.Render(m.menuTitle))
	for i, item := range m.menuItems {
		b.WriteString("\n")
		if i == m.menuCursor {
			b.WriteString(styleSelected.Render("> " + item.label))
		} else {
			b.WriteString("  " + item.label)
		}
	}
	return styleBox.Render(b.String())
}

func renderHelp(bindings []key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, kb := range bindings {
		h := kb.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return styleMuted.Render(strings.Join(parts, " • "))
}
