package browser

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/stlalpha/gbbsrecover/internal/msgstore"
)

const dateLayout = "2006-01-02 15:04"

// View implements tea.Model.
func (m Model) View() string {
	if m.mode == modeView {
		return m.viewRecord()
	}
	return m.viewList()
}

func (m Model) viewList() string {
	var b strings.Builder

	filter := "all"
	if f := filters[m.filter]; f != msgstore.Unclaimed {
		filter = f.String()
	}
	title := fmt.Sprintf(" %s  [%s: %d of %d]", m.name, filter, len(m.visible), len(m.records))
	b.WriteString(titleBarStyle.Render(padRight(title, m.width)))
	b.WriteByte('\n')
	b.WriteString(padRight(" CLASS     BLOCK/SLOT  DATE              TEXT", m.width))
	b.WriteByte('\n')

	rows := m.listHeight()
	if len(m.visible) == 0 {
		b.WriteString(emptyStyle.Render(" No records"))
		b.WriteString(strings.Repeat("\n", rows))
	} else {
		for row := 0; row < rows; row++ {
			idx := m.scrollOffset + row
			if idx < len(m.visible) {
				b.WriteString(m.renderRow(m.records[m.visible[idx]], idx == m.cursor))
			}
			b.WriteByte('\n')
		}
	}

	b.WriteString(helpBarStyle.Render(padRight(" Up/Dn/j/k Move  PgUp/PgDn Page  Tab Filter  Enter Read  Esc/Q Quit", m.width)))
	return b.String()
}

func (m Model) renderRow(rec msgstore.Record, highlight bool) string {
	date := "-"
	if rec.HasDate() {
		date = rec.Date.Format(dateLayout)
	}
	class := fmt.Sprintf("%-9s", rec.Class)
	rest := fmt.Sprintf(" %s  %-16s  %s", location(rec), date, summary(rec))
	width := m.width - 1 - lipgloss.Width(class)

	if highlight {
		return highlightStyle.Render(" " + class + padRight(rest, width))
	}
	style, ok := classStyles[rec.Class]
	if !ok {
		style = listItemStyle
	}
	return " " + style.Render(class) + listItemStyle.Render(padRight(rest, width))
}

func (m Model) viewRecord() string {
	rec, _ := m.Selected()
	title := fmt.Sprintf(" %s  %s block %d", m.name, rec.Class, rec.Block)
	if rec.UserName != "" {
		title += " to " + rec.UserName
	}
	if rec.HasDate() {
		title += "  " + rec.Date.Format(dateLayout)
	}

	var b strings.Builder
	b.WriteString(titleBarStyle.Render(padRight(title, m.width)))
	b.WriteByte('\n')
	b.WriteString(m.viewport.View())
	b.WriteByte('\n')
	status := fmt.Sprintf(" Up/Dn/PgUp/PgDn Scroll  Esc/Q Back  %3.0f%%", m.viewport.ScrollPercent()*100)
	b.WriteString(helpBarStyle.Render(padRight(status, m.width)))
	return b.String()
}

// padRight pads or truncates s to exactly width display cells.
func padRight(s string, width int) string {
	if width <= 0 {
		return ""
	}
	w := lipgloss.Width(s)
	if w > width {
		r := []rune(s)
		for lipgloss.Width(string(r)) > width {
			r = r[:len(r)-1]
		}
		return string(r)
	}
	return s + strings.Repeat(" ", width-w)
}
