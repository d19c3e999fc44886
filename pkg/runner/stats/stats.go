// Package stats provides the statistics and history runners.
package stats

import (
	"context"
	"errors"
	"io"

	"tableflip.dev/progressly/pkg/app"
	"tableflip.dev/progressly/pkg/printers"
)

// Stats prints the statistics page over every active task.
type Stats struct {
	Categories []string
	Format     string
	Out        io.Writer

	Service *app.Service
}

func (n *Stats) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not compute statistics, no service")
	}
	s, err := n.Service.Statistics(ctx, n.Categories)
	if err != nil {
		return err
	}
	if n.Format != "" {
		return printers.Structured(n.Out, n.Format, s)
	}
	pp := printers.PrettyPrint{Out: n.Out, Now: n.Service.Clock()}
	pp.Stats(s)
	return nil
}

// History prints every month that has tasks, newest first. With Expand the
// tasks of each month are listed under it.
type History struct {
	Expand bool
	ShowID bool
	Format string
	Out    io.Writer

	Service *app.Service
}

func (n *History) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not show history, no service")
	}
	groups, err := n.Service.History(ctx)
	if err != nil {
		return err
	}
	if n.Format != "" {
		if groups == nil {
			groups = []app.MonthGroup{}
		}
		return printers.Structured(n.Out, n.Format, groups)
	}

	pp := printers.PrettyPrint{ShowID: n.ShowID, Out: n.Out, Now: n.Service.Clock()}
	if !n.Expand {
		pp.History(groups)
		return nil
	}
	for _, g := range groups {
		pp.Month(app.MonthView{Month: g.Month, Year: g.Year, Tasks: app.SortTasks(g.Tasks, app.SortPriority), Stats: g.Stats})
	}
	if len(groups) == 0 {
		pp.History(nil)
	}
	return nil
}
