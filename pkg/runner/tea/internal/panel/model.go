// Package panel draws the key legend shown by the help mode.
package panel

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Binding is one legend row.
type Binding struct {
	Keys   string
	Action string
}

// Legend is a framed, titled list of bindings.
type Legend struct {
	title    string
	bindings []Binding

	frameStyle lipgloss.Style
	titleStyle lipgloss.Style
	keyStyle   lipgloss.Style
}

const columnGap = 3

// New returns a legend for bindings in the order given.
func New(title string, bindings ...Binding) Legend {
	return Legend{
		title:    title,
		bindings: bindings,
		frameStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1),
		titleStyle: lipgloss.NewStyle().Bold(true),
		keyStyle:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
	}
}

// View renders the legend for a terminal width columns wide and returns it
// with its height in lines. Bindings fill two columns, top to bottom, when
// they fit; a width of zero means unknown and allows two columns.
func (l Legend) View(width int) (string, int) {
	keyWidth := 0
	for _, b := range l.bindings {
		keyWidth = max(keyWidth, lipgloss.Width(b.Keys))
	}
	cells := make([]string, len(l.bindings))
	cellWidth := 0
	for i, b := range l.bindings {
		cells[i] = l.keyStyle.Width(keyWidth+2).Render(b.Keys) + b.Action
		cellWidth = max(cellWidth, lipgloss.Width(cells[i]))
	}

	frame := l.frameStyle.GetHorizontalFrameSize()
	var rows []string
	if width == 0 || 2*cellWidth+columnGap+frame <= width {
		half := (len(cells) + 1) / 2
		left := lipgloss.NewStyle().Width(cellWidth + columnGap)
		for i := 0; i < half; i++ {
			row := left.Render(cells[i])
			if j := i + half; j < len(cells) {
				row += cells[j]
			}
			rows = append(rows, row)
		}
	} else {
		rows = cells
	}

	if l.title != "" {
		rows = append([]string{l.titleStyle.Render(l.title)}, rows...)
	}
	view := l.frameStyle.Render(strings.Join(rows, "\n"))
	return view, strings.Count(view, "\n") + 1
}
