// Package subtask provides the runners that manage a task's subtasks.
package subtask

import (
	"context"
	"errors"
	"io"

	"tableflip.dev/progressly/pkg/app"
	"tableflip.dev/progressly/pkg/printers"
	"tableflip.dev/progressly/pkg/task"
)

// Add appends a subtask to TaskID.
type Add struct {
	TaskID int64
	Title  string
	Format string
	Out    io.Writer

	Service *app.Service
}

func (n *Add) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not add subtask, no service")
	}
	t, sub, err := n.Service.AddSubtask(ctx, n.TaskID, n.Title)
	if err != nil {
		return err
	}
	if n.Format != "" {
		return printers.Structured(n.Out, n.Format, sub)
	}
	return n.print(t)
}

func (n *Add) print(t task.Task) error {
	pp := printers.PrettyPrint{Out: n.Out, Now: n.Service.Clock()}
	pp.Task(t)
	return nil
}

// Progress sets the progress of one subtask.
type Progress struct {
	TaskID    int64
	SubtaskID int64
	Value     int
	Format    string
	Out       io.Writer

	Service *app.Service
}

func (n *Progress) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not set subtask progress, no service")
	}
	t, err := n.Service.SetSubtaskProgress(ctx, n.TaskID, n.SubtaskID, n.Value)
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

// Remove deletes one subtask.
type Remove struct {
	TaskID    int64
	SubtaskID int64
	Format    string
	Out       io.Writer

	Service *app.Service
}

func (n *Remove) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not remove subtask, no service")
	}
	t, err := n.Service.DeleteSubtask(ctx, n.TaskID, n.SubtaskID)
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
