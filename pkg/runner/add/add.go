// Package add provides the runner that creates tasks.
package add

import (
	"context"
	"errors"
	"io"

	"tableflip.dev/progressly/pkg/app"
	"tableflip.dev/progressly/pkg/printers"
)

// Add creates a task and prints the month it landed in.
type Add struct {
	Task   app.NewTask
	ShowID bool
	Format string
	Out    io.Writer

	Service *app.Service
}

func (n *Add) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not add, no service")
	}

	t, err := n.Service.AddTask(ctx, n.Task)
	if err != nil {
		return err
	}
	if n.Format != "" {
		return printers.Structured(n.Out, n.Format, t)
	}

	v, err := n.Service.MonthView(ctx, app.Query{Month: t.Month, Year: t.Year, Filter: app.FilterAll, Sort: app.SortPriority})
	if err != nil {
		return err
	}
	pp := printers.PrettyPrint{ShowID: n.ShowID, Out: n.Out, Now: n.Service.Clock()}
	pp.Month(v)
	return nil
}
