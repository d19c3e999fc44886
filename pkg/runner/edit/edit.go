// Package edit provides the runner that changes task fields.
package edit

import (
	"context"
	"errors"
	"io"

	"tableflip.dev/progressly/pkg/app"
	"tableflip.dev/progressly/pkg/printers"
)

// Edit applies the non-nil fields of Edit to the task with ID.
type Edit struct {
	ID     int64
	Edit   app.Edit
	Format string
	Out    io.Writer

	Service *app.Service
}

func (n *Edit) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not edit, no service")
	}
	e := n.Edit
	if e.Title == nil && e.Priority == nil && e.Category == nil && e.DueDate == nil {
		return errors.New("nothing to edit, set at least one of --title, --priority, --category, --due")
	}

	t, err := n.Service.EditTask(ctx, n.ID, e)
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
