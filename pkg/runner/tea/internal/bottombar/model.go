package bottombar

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Mode represents the UI mode that influences the footer hints.
type Mode int

const (
	ModeNormal Mode = iota
	ModeInsert
	ModeSearch
	ModeHelp
	ModeTrash
)

var defaultHelp = map[Mode]string{
	ModeNormal: "h/l month · j/k move · o add · +/- progress · x done · d trash · ? help",
	ModeInsert: "enter save · esc cancel",
	ModeSearch: "enter search · esc clear",
	ModeHelp:   "? or esc close",
	ModeTrash:  "r restore · D delete forever · E empty · t back",
}

// Model tracks footer hint and status rendering state.
type Model struct {
	mode       Mode
	helpLine   string
	statusLine string
}

var (
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ef4444"))
)

// New returns a footer in normal mode.
func New() Model {
	return Model{mode: ModeNormal}
}

// SetMode updates the visual mode.
func (m *Model) SetMode(mode Mode) {
	m.mode = mode
}

// SetHelp overrides the hint line of the current mode. Empty restores the
// default.
func (m *Model) SetHelp(help string) {
	m.helpLine = help
}

// SetStatus sets the status message to display.
func (m *Model) SetStatus(status string) {
	m.statusLine = status
}

// Height reports the number of lines consumed by the footer.
func (m Model) Height() int {
	return 1
}

// View renders the footer line.
func (m Model) View() string {
	var segments []string
	help := m.helpLine
	if help == "" {
		help = defaultHelp[m.mode]
	}
	if help != "" {
		segments = append(segments, helpStyle.Render(help))
	}
	if m.statusLine != "" {
		style := statusStyle
		if strings.HasPrefix(m.statusLine, "ERR:") {
			style = errorStyle
		}
		segments = append(segments, style.Render(m.statusLine))
	}
	if len(segments) == 0 {
		return " "
	}
	return strings.Join(segments, " │ ")
}
