package teaui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"tableflip.dev/progressly/pkg/app"
)

// Run migrates unfinished tasks, then launches the Bubble Tea UI.
func Run(ctx context.Context, svc *app.Service, categories []string) error {
	migrated, err := svc.Load(ctx)
	if err != nil {
		return err
	}
	m := New(svc).WithCategories(categories)
	m.ctx = ctx
	if migrated > 0 {
		m.status = fmt.Sprintf("Migrated %d unfinished tasks to this month", migrated)
	}
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = p.Run()
	return err
}
