package task

import "strings"

type Priority string

const (
	High   Priority = "high"
	Medium Priority = "medium"
	Low    Priority = "low"
)

// Priorities in display order.
var Priorities = []Priority{High, Medium, Low}

func ParsePriority(s string) (Priority, bool) {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	return p, p.Valid()
}

func (p Priority) Valid() bool {
	switch p {
	case High, Medium, Low:
		return true
	}
	return false
}

// Rank orders priorities for sorting, high first. Unknown values sort last.
func (p Priority) Rank() int {
	switch p {
	case High:
		return 0
	case Medium:
		return 1
	case Low:
		return 2
	}
	return 3
}

// Label is the capitalised form used in tables.
func (p Priority) Label() string {
	switch p {
	case High:
		return "High"
	case Medium:
		return "Medium"
	case Low:
		return "Low"
	}
	return string(p)
}

// Color is the hex colour associated with the priority.
func (p Priority) Color() string {
	switch p {
	case High:
		return "#ef4444"
	case Medium:
		return "#f59e0b"
	case Low:
		return "#22c55e"
	}
	return "#64748b"
}

func (p Priority) Symbol() string {
	switch p {
	case High:
		return "▲"
	case Medium:
		return "●"
	case Low:
		return "▼"
	}
	return "?"
}
