// Package trash provides the runners for deleting, restoring and purging
// tasks.
package trash

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/progressly/pkg/app"
	"tableflip.dev/progressly/pkg/printers"
	"tableflip.dev/progressly/pkg/timeutil"
)

func output(w io.Writer) io.Writer {
	if w == nil {
		return color.Output
	}
	return w
}

// Move puts a task in the trash.
type Move struct {
	ID     int64
	Format string
	Out    io.Writer

	Service *app.Service
}

func (n *Move) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not delete, no service")
	}
	t, err := n.Service.MoveToTrash(ctx, n.ID)
	if err != nil {
		return err
	}
	if n.Format != "" {
		return printers.Structured(n.Out, n.Format, t)
	}
	_, _ = fmt.Fprintf(output(n.Out), "Moved %q to the trash.\n", t.Title)
	return nil
}

// List prints the trash, most recently deleted first.
type List struct {
	Format string
	Out    io.Writer

	Service *app.Service
}

func (n *List) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not list trash, no service")
	}
	deleted, err := n.Service.Trash(ctx)
	if err != nil {
		return err
	}
	if n.Format != "" {
		return printers.Structured(n.Out, n.Format, deleted)
	}
	pp := printers.PrettyPrint{Out: n.Out, Now: n.Service.Clock()}
	pp.Trash(deleted...)
	return nil
}

// Restore moves a trashed task back to the active list.
type Restore struct {
	ID     int64
	Format string
	Out    io.Writer

	Service *app.Service
}

func (n *Restore) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not restore, no service")
	}
	t, err := n.Service.Restore(ctx, n.ID)
	if err != nil {
		return err
	}
	if n.Format != "" {
		return printers.Structured(n.Out, n.Format, t)
	}
	_, _ = fmt.Fprintf(output(n.Out), "Restored %q to %s %d.\n", t.Title, timeutil.MonthName(t.Month), t.Year)
	return nil
}

// Delete removes a trashed task for good.
type Delete struct {
	ID  int64
	Out io.Writer

	Service *app.Service
}

func (n *Delete) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not delete, no service")
	}
	if err := n.Service.PermanentDelete(ctx, n.ID); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(output(n.Out), "Deleted %d permanently.\n", n.ID)
	return nil
}

// Purge removes trashed tasks older than OlderThan, or all of them when
// OlderThan is zero.
type Purge struct {
	OlderThan time.Duration
	Out       io.Writer

	Service *app.Service
}

func (n *Purge) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not purge, no service")
	}
	removed, err := n.Service.PurgeTrash(ctx, n.OlderThan)
	if err != nil {
		return err
	}
	switch {
	case n.OlderThan > 0:
		_, _ = fmt.Fprintf(output(n.Out), "Purged %d tasks deleted more than %s ago.\n", removed, timeutil.FormatRetention(n.OlderThan))
	default:
		_, _ = fmt.Fprintf(output(n.Out), "Emptied the trash, %d tasks removed.\n", removed)
	}
	return nil
}
