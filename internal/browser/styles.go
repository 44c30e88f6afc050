package browser

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/stlalpha/gbbsrecover/internal/msgstore"
)

var (
	titleBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("8")).
			Bold(true)
	listItemStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	highlightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("14")).
			Background(lipgloss.Color("4")).
			Bold(true)
	helpBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("8"))
	emptyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true)
)

// classStyles color the class column of the record list.
var classStyles = map[msgstore.Class]lipgloss.Style{
	msgstore.Active:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	msgstore.Deleted:  lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	msgstore.Orphaned: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
}
