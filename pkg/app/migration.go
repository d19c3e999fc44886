package app

import (
	"context"
	"time"

	"tableflip.dev/progressly/pkg/store"
	"tableflip.dev/progressly/pkg/task"
	"tableflip.dev/progressly/pkg/timeutil"
)

// Migrate moves unfinished tasks from past months into today's month and
// records where they came from. Finished tasks and tasks in the current or a
// future month are returned unchanged, including any earlier migratedFrom.
// The input is not modified.
func Migrate(tasks []task.Task, today time.Time) []task.Task {
	month := timeutil.MonthIndex(today.Month())
	year := today.Year()

	out := make([]task.Task, len(tasks))
	for i, t := range tasks {
		c := t.Clone()
		past := t.Year < year || (t.Year == year && t.Month < month)
		if past && task.EffectiveProgress(t) < 100 {
			c.MigratedFrom = &task.MonthRef{Month: t.Month, Year: t.Year}
			c.Month = month
			c.Year = year
		}
		out[i] = c
	}
	return out
}

// MigratedCount reports how many tasks changed month between before and after.
func MigratedCount(before, after []task.Task) int {
	n := 0
	for i := range before {
		if i < len(after) && (before[i].Month != after[i].Month || before[i].Year != after[i].Year) {
			n++
		}
	}
	return n
}

// Load runs the start-of-session migration: it reads the task list, migrates
// it against the service clock and writes the result back. It returns the
// number of tasks moved into the current month.
func (s *Service) Load(ctx context.Context) (int, error) {
	s.updateMu.Lock()
	defer s.updateMu.Unlock()

	tasks, err := s.Tasks(ctx)
	if err != nil {
		return 0, err
	}
	migrated := Migrate(tasks, s.now())
	if err := store.WriteTasks(ctx, s.Persistence, store.TasksKey, migrated); err != nil {
		return 0, err
	}
	return MigratedCount(tasks, migrated), nil
}
