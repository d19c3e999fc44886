// Package list provides the runners that read tasks.
package list

import (
	"context"
	"errors"
	"io"

	"tableflip.dev/progressly/pkg/app"
	"tableflip.dev/progressly/pkg/printers"
)

// List prints the derived task list of a month, or of a search.
type List struct {
	Query  app.Query
	ShowID bool
	Format string
	Out    io.Writer

	Service *app.Service
}

func (n *List) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not list, no service")
	}

	v, err := n.Service.MonthView(ctx, n.Query)
	if err != nil {
		return err
	}
	if n.Format != "" {
		return printers.Structured(n.Out, n.Format, v)
	}

	pp := printers.PrettyPrint{ShowID: n.ShowID, Out: n.Out, Now: n.Service.Clock()}
	pp.Month(v)
	return nil
}

// Show prints one task with its subtasks.
type Show struct {
	ID     int64
	Format string
	Out    io.Writer

	Service *app.Service
}

func (n *Show) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not show, no service")
	}

	t, err := n.Service.Task(ctx, n.ID)
	if err != nil {
		return err
	}
	if n.Format != "" {
		return printers.Structured(n.Out, n.Format, t)
	}

	pp := printers.PrettyPrint{Out: n.Out, Now: n.Service.Clock()}
	pp.Task(t)
	return nil
}
