// Package browser is an interactive terminal viewer for recovered
// messages.
package browser

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/stlalpha/gbbsrecover/internal/msgstore"
)

const (
	minWidth  = 60
	minHeight = 10
	chrome    = 3 // Title bar, column header and help bar
)

type browserMode int

const (
	modeList browserMode = iota // Record list
	modeView                    // Reading one record
)

// filters are cycled with tab. The zero Class shows everything.
var filters = []msgstore.Class{msgstore.Unclaimed, msgstore.Active, msgstore.Deleted, msgstore.Orphaned}

// Model is the BubbleTea model for the record browser.
type Model struct {
	name    string
	records []msgstore.Record
	visible []int // Indices into records that pass the filter
	filter  int   // Index into filters

	cursor       int
	scrollOffset int

	viewport viewport.Model
	mode     browserMode

	width  int
	height int
}

// New creates a browser over every record in res. name titles the screen.
func New(name string, res *msgstore.Result) Model {
	m := Model{
		name:     name,
		records:  res.Records(),
		width:    80,
		height:   24,
		viewport: viewport.New(80, 24-chrome),
	}
	m.applyFilter()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.SetWindowTitle("gbbsrecover - " + m.name)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = max(msg.Width, minWidth)
		m.height = max(msg.Height, minHeight)
		m.viewport.Width = m.width
		m.viewport.Height = m.listHeight()
		m.clampScroll()
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.mode == modeView {
			return m.updateView(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	total := len(m.visible)
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < total-1 {
			m.cursor++
		}
	case "home", "g":
		m.cursor = 0
	case "end", "G":
		m.cursor = max(total-1, 0)
	case "pgup":
		m.cursor = max(m.cursor-m.listHeight(), 0)
	case "pgdown":
		m.cursor = max(min(m.cursor+m.listHeight(), total-1), 0)
	case "tab":
		m.filter = (m.filter + 1) % len(filters)
		m.applyFilter()
	case "enter":
		if total == 0 {
			return m, nil
		}
		m.viewport.SetContent(m.records[m.visible[m.cursor]].Text)
		m.viewport.GotoTop()
		m.mode = modeView
		return m, nil
	case "esc", "q":
		return m, tea.Quit
	}
	m.clampScroll()
	return m, nil
}

func (m Model) updateView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		m.mode = modeList
		return m, nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// applyFilter rebuilds the visible list for the current filter and puts
// the cursor back at the top.
func (m *Model) applyFilter() {
	want := filters[m.filter]
	m.visible = nil
	for i, rec := range m.records {
		if want == msgstore.Unclaimed || rec.Class == want {
			m.visible = append(m.visible, i)
		}
	}
	m.cursor = 0
	m.scrollOffset = 0
}

func (m Model) listHeight() int {
	return m.height - chrome
}

// clampScroll keeps the cursor row on screen.
func (m *Model) clampScroll() {
	rows := m.listHeight()
	if m.cursor < m.scrollOffset {
		m.scrollOffset = m.cursor
	}
	if m.cursor >= m.scrollOffset+rows {
		m.scrollOffset = m.cursor - rows + 1
	}
}

// Selected returns the record under the cursor.
func (m Model) Selected() (msgstore.Record, bool) {
	if len(m.visible) == 0 {
		return msgstore.Record{}, false
	}
	return m.records[m.visible[m.cursor]], true
}

// summary is the list row for a record: its first non-blank line.
func summary(rec msgstore.Record) string {
	for _, line := range strings.Split(rec.Text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}

func location(rec msgstore.Record) string {
	if rec.Slot >= 0 && rec.Class == msgstore.Active {
		return fmt.Sprintf("%4d/%-4d", rec.Block, rec.Slot)
	}
	return fmt.Sprintf("%4d     ", rec.Block)
}
