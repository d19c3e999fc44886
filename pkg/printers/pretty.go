package printers

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/mattn/go-isatty"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"

	"tableflip.dev/progressly/pkg/app"
	"tableflip.dev/progressly/pkg/task"
	"tableflip.dev/progressly/pkg/timeutil"
)

const (
	barWidth   = 10
	titleWidth = 48
)

type PrettyPrint struct {
	ShowID bool
	// Out defaults to color.Output.
	Out io.Writer
	// Now anchors relative dates; time.Now when zero.
	Now time.Time
}

var (
	spacing = strings.Repeat(" ", len("1710000000000  "))
	faint   = color.New(color.Faint)
	bold    = color.New(color.Bold)
)

func (pp *PrettyPrint) out() io.Writer {
	if pp.Out != nil {
		return pp.Out
	}
	return color.Output
}

func (pp *PrettyPrint) now() time.Time {
	if pp.Now.IsZero() {
		return time.Now()
	}
	return pp.Now
}

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.out(), "")
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)
	if pp.ShowID {
		_, _ = t.Fprint(pp.out(), spacing)
	}
	_, _ = t.Fprintln(pp.out(), title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int) {
	t := color.New(color.Bold, color.Underline)
	if pp.ShowID {
		_, _ = t.Fprint(pp.out(), spacing)
	}
	_, _ = t.Fprint(pp.out(), title)
	_, _ = faint.Fprintf(pp.out(), " - %d", count)
	switch count {
	case 1:
		_, _ = faint.Fprintln(pp.out(), " task")
	default:
		_, _ = faint.Fprintln(pp.out(), " tasks")
	}
}

// MonthHeader prints the month title with its summary line.
func (pp *PrettyPrint) MonthHeader(month, year int, s app.Summary) {
	pp.Title(fmt.Sprintf("%s %d", timeutil.MonthName(month), year))
	_, _ = faint.Fprintf(pp.out(), "%d tasks · %d done · %d in progress · ", s.Total, s.Completed, s.InProgress)
	_, _ = fmt.Fprintf(pp.out(), "%s\n\n", ProgressBar(s.AvgProgress, barWidth))
}

// Month prints a month view: the header with stats followed by its tasks.
// A search view is titled by its query instead.
func (pp *PrettyPrint) Month(v app.MonthView) {
	if v.Search != "" {
		pp.TitleWithCount(fmt.Sprintf("Search %q", v.Search), len(v.Tasks))
	} else {
		pp.MonthHeader(v.Month, v.Year, v.Stats)
	}
	pp.Tasks(v.Tasks...)
}

func (pp *PrettyPrint) none() {
	f := color.New(color.Faint, color.Italic)
	if pp.ShowID {
		_, _ = f.Fprint(pp.out(), spacing)
	}
	_, _ = f.Fprint(pp.out(), " none\n\n")
}

// Tasks prints one row per task.
func (pp *PrettyPrint) Tasks(tasks ...task.Task) {
	if len(tasks) == 0 {
		pp.none()
		return
	}
	now := pp.now()
	tbl := uitable.New()
	tbl.Separator = "  "
	for _, t := range tasks {
		row := make([]interface{}, 0, 7)
		if pp.ShowID {
			row = append(row, color.New(color.FgHiYellow, color.Faint).Sprint(t.ID))
		}
		row = append(row,
			PriorityMark(t.Priority),
			pp.title(t),
			faint.Sprint(t.Category),
			ProgressBar(t.EffectiveProgress(), barWidth),
			dueLabel(t, now),
			migratedLabel(t),
		)
		tbl.AddRow(row...)
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}

func (pp *PrettyPrint) title(t task.Task) string {
	title := truncate.StringWithTail(t.Title, titleWidth, "…")
	if len(t.Subtasks) > 0 {
		done := 0
		for _, s := range t.Subtasks {
			if s.Progress == 100 {
				done++
			}
		}
		title += faint.Sprintf(" (%d/%d)", done, len(t.Subtasks))
	}
	if t.Complete() {
		return color.New(color.CrossedOut, color.Faint).Sprint(title)
	}
	return title
}

// Task prints a single task with its subtasks.
func (pp *PrettyPrint) Task(t task.Task) {
	now := pp.now()
	pp.Title(t.Title)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("id"), strconv.FormatInt(t.ID, 10))
	tbl.AddRow(bold.Sprint("priority"), PriorityMark(t.Priority)+" "+t.Priority.Label())
	tbl.AddRow(bold.Sprint("category"), t.Category)
	tbl.AddRow(bold.Sprint("month"), fmt.Sprintf("%s %d", timeutil.MonthName(t.Month), t.Year))
	tbl.AddRow(bold.Sprint("progress"), ProgressBar(t.EffectiveProgress(), barWidth))
	if due := timeutil.FormatDate(t.DueDate, now); due != "" {
		tbl.AddRow(bold.Sprint("due"), fmt.Sprintf("%s (%s)", due, t.DueDate))
	}
	if t.MigratedFrom != nil {
		tbl.AddRow(bold.Sprint("migrated"), "from "+t.MigratedFrom.String())
	}
	tbl.RightAlign(0)
	_, _ = fmt.Fprintln(pp.out(), tbl)

	if len(t.Subtasks) == 0 {
		pp.NewLine()
		return
	}
	pp.NewLine()
	_, _ = bold.Fprintln(pp.out(), "Subtasks")
	sub := uitable.New()
	sub.Separator = "  "
	for _, s := range t.Subtasks {
		sub.AddRow(faint.Sprint(s.ID), wordwrap.String(s.Title, titleWidth), ProgressBar(s.Progress, barWidth))
	}
	_, _ = fmt.Fprintln(pp.out(), sub)
	pp.NewLine()
}

// Trash prints deleted tasks with how long ago they were deleted.
func (pp *PrettyPrint) Trash(tasks ...task.Task) {
	pp.TitleWithCount("Trash", len(tasks))
	if len(tasks) == 0 {
		pp.none()
		return
	}
	now := pp.now()
	tbl := uitable.New()
	tbl.Separator = "  "
	for _, t := range tasks {
		deleted := ""
		if t.DeletedAt != nil {
			deleted = timeutil.FormatDeletedTime(time.UnixMilli(*t.DeletedAt), now)
		}
		tbl.AddRow(
			color.New(color.FgHiYellow, color.Faint).Sprint(t.ID),
			truncate.StringWithTail(t.Title, titleWidth, "…"),
			faint.Sprintf("%s %d", timeutil.MonthShort(t.Month), t.Year),
			faint.Sprint(deleted),
		)
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}

// History prints one summary row per month that has tasks.
func (pp *PrettyPrint) History(groups []app.MonthGroup) {
	pp.Title("History")
	if len(groups) == 0 {
		pp.none()
		return
	}
	tbl := uitable.New()
	tbl.Separator = "  "
	for _, g := range groups {
		tbl.AddRow(
			bold.Sprintf("%s %d", timeutil.MonthName(g.Month), g.Year),
			fmt.Sprintf("%d tasks", g.Stats.Total),
			fmt.Sprintf("%d done", g.Stats.Completed),
			ProgressBar(g.Stats.AvgProgress, barWidth),
		)
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}

// Stats prints the statistics page.
func (pp *PrettyPrint) Stats(s app.Statistics) {
	o := s.Overview
	pp.Title("Overview")
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("tasks"), o.Total)
	tbl.AddRow(bold.Sprint("completed"), o.Completed)
	tbl.AddRow(bold.Sprint("in progress"), o.InProgress)
	tbl.AddRow(bold.Sprint("overall"), ProgressBar(o.AvgProgress, barWidth))
	tbl.AddRow(bold.Sprint("streak"), fmt.Sprintf("%d days", o.Streak))
	tbl.RightAlign(0)
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()

	pp.Title("Categories")
	tbl = uitable.New()
	tbl.Separator = "  "
	for _, c := range s.Categories {
		tbl.AddRow(c.Category, fmt.Sprintf("%d/%d", c.Completed, c.Total), ProgressBar(c.AvgProgress, barWidth))
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()

	pp.Title("Priorities")
	tbl = uitable.New()
	tbl.Separator = "  "
	for _, p := range s.Priorities {
		tbl.AddRow(PriorityMark(p.Priority)+" "+p.Priority.Label(), p.Count, fmt.Sprintf("%d%%", p.Percentage))
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()

	pp.Title("Weekly")
	tbl = uitable.New()
	tbl.Separator = "  "
	for _, w := range s.Weekly {
		tbl.AddRow(w.Label, faint.Sprint(w.Start.Format("Jan 2")), fmt.Sprintf("%d/%d", w.Completed, w.Total), ProgressBar(w.AvgProgress, barWidth))
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()

	pp.Title("Monthly")
	tbl = uitable.New()
	tbl.Separator = "  "
	for _, m := range s.Monthly {
		tbl.AddRow(fmt.Sprintf("%s %d", m.Label, m.Year), fmt.Sprintf("%d/%d", m.Completed, m.Total), fmt.Sprintf("%d%% done", m.CompletionRate), ProgressBar(m.AvgProgress, barWidth))
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()

	pp.Title("Last 7 days")
	tbl = uitable.New()
	tbl.Separator = "  "
	for _, d := range s.Daily {
		tbl.AddRow(d.Day, strings.Repeat("■", d.Count), d.Count)
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}

// PriorityMark is the priority symbol in the priority colour.
func PriorityMark(p task.Priority) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(p.Color())).Render(p.Symbol())
}

// ProgressBar renders p as a coloured bar followed by the percentage.
// Outside a terminal the bar falls back to ASCII.
func ProgressBar(p, width int) string {
	p = task.Clamp(p)
	filled := p * width / 100
	full, empty := "█", "░"
	if !isTerminal() {
		full, empty = "#", "-"
	}
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(task.ProgressColor(p)))
	bar := style.Render(strings.Repeat(full, filled)) + faint.Sprint(strings.Repeat(empty, width-filled))
	return fmt.Sprintf("%s %3d%%", bar, p)
}

func isTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func dueLabel(t task.Task, now time.Time) string {
	label := timeutil.FormatDate(t.DueDate, now)
	if label == "" {
		return ""
	}
	switch {
	case t.Complete():
		return faint.Sprint(label)
	case timeutil.IsOverdue(t.DueDate, now):
		return color.New(color.FgRed).Sprint(label)
	case timeutil.IsDueToday(t.DueDate, now):
		return color.New(color.FgYellow).Sprint(label)
	}
	return label
}

func migratedLabel(t task.Task) string {
	if t.MigratedFrom == nil {
		return ""
	}
	return faint.Sprint("↪ " + t.MigratedFrom.String())
}
