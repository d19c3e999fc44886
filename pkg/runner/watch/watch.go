// Package watch reprints a month view whenever the store changes.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/progressly/pkg/app"
	"tableflip.dev/progressly/pkg/printers"
	"tableflip.dev/progressly/pkg/store"
)

// Watch prints Query once and again after every change to the task or
// trash keys, until ctx is done.
type Watch struct {
	Query  app.Query
	ShowID bool
	Out    io.Writer

	Service *app.Service
}

func (n *Watch) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not watch, no service")
	}
	events, err := n.Service.Watch(ctx)
	if err != nil {
		return err
	}
	if err := n.print(ctx); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if !relevant(ev) {
				continue
			}
			if err := n.print(ctx); err != nil {
				return err
			}
		}
	}
}

// relevant skips auth and user writes. Unattributed events always count.
func relevant(ev store.Event) bool {
	switch ev.Key {
	case "", store.TasksKey, store.TrashKey:
		return true
	}
	return false
}

func (n *Watch) print(ctx context.Context) error {
	v, err := n.Service.MonthView(ctx, n.Query)
	if err != nil {
		return err
	}
	out := n.Out
	if out == nil {
		out = color.Output
	}
	pp := printers.PrettyPrint{ShowID: n.ShowID, Out: out, Now: n.Service.Clock()}
	_, _ = fmt.Fprintln(out, color.New(color.Faint).Sprint("updated ", n.Service.Clock().Format("15:04:05")))
	pp.Month(v)
	return nil
}
