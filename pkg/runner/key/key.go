// Package key provides CLI helpers to display the priority and progress legend.
package key

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/progressly/pkg/app"
	"tableflip.dev/progressly/pkg/printers"
	"tableflip.dev/progressly/pkg/task"
)

// Key prints the priority symbols, the progress colour scale and the list
// filters.
type Key struct {
	Out io.Writer
}

func (k *Key) out() io.Writer {
	if k.Out != nil {
		return k.Out
	}
	return color.Output
}

// Do renders the legend.
func (k *Key) Do(ctx context.Context) error {
	bold := color.New(color.Bold)
	_, _ = fmt.Fprintln(k.out(), "")

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Priority"), bold.Sprint("Meaning"))
	for _, p := range task.Priorities {
		tbl.AddRow(printers.PriorityMark(p), p.Label())
	}
	tbl.RightAlign(0)
	_, _ = fmt.Fprintln(k.out(), tbl)
	_, _ = fmt.Fprintln(k.out(), "")

	tbl = uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Progress"), bold.Sprint("Meaning"))
	for _, b := range task.ProgressBands() {
		tbl.AddRow(printers.ProgressBar(b.Min, 10), b.Meaning)
	}
	tbl.RightAlign(0)
	_, _ = fmt.Fprintln(k.out(), tbl)
	_, _ = fmt.Fprintln(k.out(), "")

	tbl = uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Filter"), bold.Sprint("Shows"))
	for _, f := range app.Filters {
		tbl.AddRow(string(f), filterMeaning[f])
	}
	tbl.RightAlign(0)
	_, _ = fmt.Fprintln(k.out(), tbl)
	_, _ = fmt.Fprintln(k.out(), "")
	return nil
}

var filterMeaning = map[app.Filter]string{
	app.FilterAll:         "every task of the month",
	app.FilterPending:     "tasks not yet complete",
	app.FilterInProgress:  "started but not complete",
	app.FilterCompleted:   "tasks at 100%",
	app.FilterOverdue:     "unfinished tasks past their due date",
	app.FilterDueToday:    "tasks due today",
	app.FilterDueThisWeek: "tasks due in the next 7 days",
}
