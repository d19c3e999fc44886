// Package progress provides the runner that records task progress.
package progress

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"tableflip.dev/progressly/pkg/app"
	"tableflip.dev/progressly/pkg/printers"
)

// Progress sets the manual progress of a task. Done is shorthand for 100.
type Progress struct {
	ID     int64
	Value  int
	Done   bool
	Format string
	Out    io.Writer

	Service *app.Service
}

func (n *Progress) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not set progress, no service")
	}
	value := n.Value
	if n.Done {
		value = 100
	}

	t, err := n.Service.SetProgress(ctx, n.ID, value)
	if err != nil {
		return err
	}
	if n.Format != "" {
		return printers.Structured(n.Out, n.Format, t)
	}

	pp := printers.PrettyPrint{Out: n.Out, Now: n.Service.Clock()}
	pp.Task(t)
	if len(t.Subtasks) > 0 {
		out := n.Out
		if out == nil {
			out = color.Output
		}
		_, _ = color.New(color.Faint).Fprintf(out, "note: %q has subtasks, its progress is their average (%d%%)\n", t.Title, t.EffectiveProgress())
	}
	return nil
}

// ParseValue parses a progress argument such as "40" or "40%". Values outside
// 0..100 are clamped by the service.
func ParseValue(s string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	if err != nil {
		return 0, fmt.Errorf("invalid progress %q, expected a number between 0 and 100", s)
	}
	return v, nil
}
