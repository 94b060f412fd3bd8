package console

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// View renders the grid as a fixed-layout table with a status footer.
func (g *DataGrid) View() string {
	var b strings.Builder

	widths := g.columnWidths()
	header := make([]string, len(g.columns))
	for i, col := range g.columns {
		header[i] = pad(col.Title, widths[i])
	}
	b.WriteString(styleHeader.Render(strings.Join(header, "  ")))
	b.WriteString("\n")

	if g.loading && len(g.rows) == 0 {
		b.WriteString(styleMuted.Render("loading..."))
		b.WriteString("\n")
	}
	for i, obj := range g.rows {
		cells := make([]string, len(g.columns))
		for j, col := range g.columns {
			cells[j] = pad(col.GetField(obj), widths[j])
		}
		line := strings.Join(cells, "  ")
		switch {
		case i == g.cursor:
			line = styleRowCursor.Render(line)
		case g.selected != nil && ObjectID(obj) == ObjectID(g.selected):
			line = styleRowSelected.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if g.paginated {
		b.WriteString(styleMuted.Render(g.footer()))
		b.WriteString("\n")
	}
	return b.String()
}

func (g *DataGrid) footer() string {
	status := g.paginator.Status()
	if g.filter != "" {
		status += "  filter: " + g.filter
	}
	if g.pageEditing {
		status += "  " + g.pageEntry.View()
	}
	if g.loading {
		status += "  ..."
	}
	return status
}

// columnWidths spreads the grid width across columns, with a floor so
// headers stay legible on narrow terminals.
func (g *DataGrid) columnWidths() []int {
	n := len(g.columns)
	if n == 0 {
		return nil
	}
	per := (g.width - 2*(n-1)) / n
	if per < 8 {
		per = 8
	}
	widths := make([]int, n)
	for i := range widths {
		widths[i] = per
	}
	return widths
}

// pad truncates or pads a cell to its column width. Truncation counts
// visible cells so styled or non-ASCII cells never get cut inside an
// escape sequence or a rune.
func pad(s string, width int) string {
	if w := lipgloss.Width(s); w <= width {
		return s + strings.Repeat(" ", width-w)
	}
	s = ansi.Truncate(s, width, "…")
	if w := lipgloss.Width(s); w < width {
		// Double-width rune boundary: the cut can land one cell short.
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

// View renders the form with inline per-field validation messages.
func (f *Form) View() string {
	var b strings.Builder
	if f.title != "" {
		b.WriteString(styleHeader.Render(f.title))
		b.WriteString("\n\n")
	}

	for i := range f.inputs {
		in := &f.inputs[i]
		if in.hidden {
			continue
		}
		label := styleFieldLabel
		if i == f.focus {
			label = styleFieldLabelFocus
		}
		b.WriteString(label.Render(in.desc.Label))
		b.WriteString("\n")
		b.WriteString(f.renderInput(in, i == f.focus))
		b.WriteString("\n")
		if in.errMsg != "" {
			b.WriteString(styleFieldError.Render(in.errMsg))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	save := styleButton
	cancel := styleButton
	if f.focus == f.saveSlot() {
		save = styleButtonFocus
	}
	if f.focus == f.cancelSlot() {
		cancel = styleButtonFocus
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		save.Render(f.saveLabel), "  ", cancel.Render("Cancel")))
	return b.String()
}

func (f *Form) renderInput(in *formInput, focused bool) string {
	switch in.desc.Widget {
	case WidgetSelect:
		value := "(none)"
		if in.optIdx >= 0 && in.optIdx < len(in.options) {
			value = in.options[in.optIdx].Label
		}
		arrows := "◂ " + value + " ▸"
		if focused {
			return styleButtonFocus.Render(arrows)
		}
		return styleButton.Render(arrows)
	case WidgetTextArea:
		return in.area.View()
	default:
		return in.text.View()
	}
}

// View renders the action menu.
func (m *ActionMenu) View() string {
	var b strings.Builder
	b.WriteString(styleHeader.Render("Actions"))
	b.WriteString("\n")
	for i, action := range m.actions {
		style := styleMenuItem
		switch {
		case action.Disabled:
			style = styleMenuItemDisabled
		case i == m.cursor:
			style = styleMenuItemFocus
		}
		b.WriteString(style.Render(action.Label))
		b.WriteString("\n")
	}
	return styleModal.Render(b.String())
}

// View renders the confirmation dialog.
func (d *ConfirmDialog) View() string {
	yes := styleButton
	no := styleButton
	if d.onYes {
		yes = styleButtonFocus
	} else {
		no = styleButtonFocus
	}
	body := lipgloss.JoinVertical(lipgloss.Left,
		styleHeader.Render(d.spec.Title),
		"",
		d.spec.Message,
		"",
		lipgloss.JoinHorizontal(lipgloss.Top,
			yes.Render(d.spec.ButtonLabel), "  ", no.Render("Cancel")),
	)
	return styleModal.Render(body)
}

// View renders whichever runner surface is open, or "" when idle.
func (r *ActionRunner) View() string {
	switch {
	case r.menu != nil:
		return r.menu.View()
	case r.confirm != nil:
		return r.confirm.View()
	case r.form != nil:
		return styleModal.Render(r.form.View())
	}
	return ""
}

// View renders the details modal: raw JSON plus the sub-grid panes.
func (d *DetailsView) View() string {
	sections := []string{
		styleHeader.Render(d.title),
		d.ObjectJSON(),
	}
	for i := range d.panes {
		title := d.panes[i].panel.Title
		if i == d.active {
			title = styleHeader.Render("▸ " + title)
		} else {
			title = styleMuted.Render("  " + title)
		}
		sections = append(sections, title, d.panes[i].grid.View())
	}
	body := lipgloss.JoinVertical(lipgloss.Left, sections...)
	if overlay := d.runner.View(); overlay != "" {
		body = lipgloss.JoinVertical(lipgloss.Left, body, overlay)
	}
	return styleModal.Render(body)
}

// View renders the resource view: the current mode's surface plus any
// open overlay.
func (v *ResourceView) View() string {
	if !v.Enabled() {
		return styleMuted.Render("Not available for this account.")
	}
	if v.details != nil {
		return v.details.View()
	}
	if v.mode == ModeForm {
		return styleModal.Render(v.form.View())
	}

	var b strings.Builder
	b.WriteString(styleHeader.Render(v.desc.Plural))
	b.WriteString("\n")
	if v.filterEditing {
		b.WriteString(v.filterInput.View())
		b.WriteString("\n")
	}
	b.WriteString(v.grid.View())
	if overlay := v.runner.View(); overlay != "" {
		b.WriteString("\n")
		b.WriteString(overlay)
	}
	return b.String()
}

// RenderNotice renders one notification card.
func RenderNotice(n Notice) string {
	title := styleHeader.Render(n.Title)
	if n.Severity == SeverityError {
		title = styleError.Render(n.Title)
	}
	return noticeStyle(n.Severity).Render(title + "\n" + n.Message)
}
