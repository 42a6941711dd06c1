package ui

import (
	"strings"

	"github.com/gravitrone/teamselect/internal/config"
	"github.com/gravitrone/teamselect/internal/ui/components"
)

// rowView is everything needed to draw one row, derived from selector state.
type rowView struct {
	kind     rowKind
	name     string
	depth    int
	branch   bool
	expanded bool
	selected bool
	disabled bool
	match    bool
	path     bool
	cursor   bool
}

func (m Selector) buildRowViews() []rowView {
	out := make([]rowView, 0, len(m.rows))
	cursor := m.list.Selected()
	for i, row := range m.rows {
		out = append(out, rowView{
			kind:     row.kind,
			name:     m.tree.Name(row.id),
			depth:    row.depth,
			branch:   m.tree.HasChildren(row.id),
			expanded: m.expansion.IsExpanded(row.id),
			selected: row.kind == rowTeam && row.id == m.selectedID,
			disabled: row.kind == rowTeam && m.isDisabled(row.id),
			match:    m.filter.IsMatch(row.id),
			path:     m.filter.OnPath(row.id),
			cursor:   i == cursor,
		})
	}
	return out
}

func renderRow(v rowView, width int) string {
	var b strings.Builder
	b.WriteString(strings.Repeat("  ", v.depth))

	switch v.kind {
	case rowNavUp:
		b.WriteString("↑ ")
	case rowNavDown:
		b.WriteString("▸ ")
	default:
		switch {
		case v.branch && v.expanded:
			b.WriteString("▾ ")
		case v.branch:
			b.WriteString("▸ ")
		default:
			b.WriteString("· ")
		}
		switch {
		case v.disabled:
			b.WriteString("(-) ")
		case v.selected:
			b.WriteString("(•) ")
		default:
			b.WriteString("( ) ")
		}
	}
	b.WriteString(components.SanitizeOneLine(v.name))

	line := b.String()
	if width > 4 {
		line = components.ClampTextWidth(line, width-2)
	}

	prefix := "  "
	if v.cursor {
		prefix = "> "
	}
	switch {
	case v.cursor && !v.disabled:
		return SelectedStyle.Render(prefix + line)
	case v.disabled:
		return DisabledStyle.Render(prefix + line)
	case v.kind != rowTeam:
		return BlueStyle.Render(prefix + line)
	case v.match:
		return AccentStyle.Render(prefix + line)
	case v.selected:
		return SelectedStyle.Render(prefix + line)
	default:
		return NormalStyle.Render(prefix + line)
	}
}

// boxWidth leaves room for the one-column indent every box is drawn with.
func (m Selector) boxWidth() int {
	if m.width > 1 {
		return m.width - 1
	}
	return m.width
}

func (m Selector) View() string {
	width := m.boxWidth()
	title := components.SanitizeOneLine(m.field.Name)
	box := components.TitledBox
	if m.focused {
		box = components.ActiveTitledBox
	}

	switch m.state {
	case selectorFailed:
		msg := "The team list could not be loaded."
		if m.err != nil {
			msg += "\n\n" + m.err.Error()
		}
		return components.Indent(components.ErrorBox("Teams unavailable", msg, width), 1)
	case selectorUninitialized, selectorLoading:
		return components.Indent(box(title, MutedStyle.Render("Loading teams..."), width), 1)
	case selectorDisplay:
		body := components.InfoRow("Team", m.tree.Name(m.selectedID)) +
			"\n\n" + MutedStyle.Render("enter: change team")
		return components.Indent(box(title, body, width), 1)
	}

	var b strings.Builder
	b.WriteString(components.InfoRow("Team", m.tree.Name(m.selectedID)))
	b.WriteString("\n")
	if m.field.Layout != config.LayoutDrill {
		label := MutedStyle.Render("Search: ")
		if m.searchFocused {
			label = SelectedStyle.Render("Search: ")
		}
		b.WriteString(label + m.search.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if len(m.rows) == 0 {
		b.WriteString(MutedStyle.Render("No teams match."))
		return components.Indent(box(title, b.String(), width), 1)
	}

	views := m.buildRowViews()
	contentWidth := components.BoxContentWidth(width)
	visible := m.list.Visible()
	for i := range visible {
		abs := m.list.RelToAbs(i)
		b.WriteString(renderRow(views[abs], contentWidth))
		if i < len(visible)-1 {
			b.WriteString("\n")
		}
	}
	return components.Indent(box(title, b.String(), width), 1)
}

func (m Selector) statusHints() []string {
	switch {
	case m.state == selectorDisplay:
		return []string{components.Hint("enter", "Change team")}
	case m.state != selectorEditing:
		return nil
	case m.searchFocused:
		return []string{
			components.Hint("type", "Search"),
			components.Hint("enter/esc", "Back to tree"),
		}
	case m.field.Layout == config.LayoutDrill:
		return []string{
			components.Hint("↑/↓", "Move"),
			components.Hint("enter", "Open/Select"),
			components.Hint("←", "Up a level"),
		}
	}
	hints := []string{
		components.Hint("↑/↓", "Move"),
		components.Hint("←/→", "Collapse/Expand"),
		components.Hint("enter", "Select"),
		components.Hint("/", "Search"),
	}
	if m.filter.Active() {
		hints = append(hints, components.Hint("esc", "Clear search"))
	}
	return hints
}
