package app

import (
	"context"
	"strings"
	"time"

	"tableflip.dev/progressly/pkg/task"
	"tableflip.dev/progressly/pkg/timeutil"
)

// MonthView is a derived task list together with the stats of its month.
type MonthView struct {
	Month  int         `json:"month"`
	Year   int         `json:"year"`
	Search string      `json:"search,omitempty"`
	Tasks  []task.Task `json:"tasks"`
	Stats  Summary     `json:"stats"`
}

// CurrentMonth returns the month bucket of the service clock.
func (s *Service) CurrentMonth() (month, year int) {
	now := s.now()
	return timeutil.MonthIndex(now.Month()), now.Year()
}

// MonthView derives the list for q. The stats always cover q's month, even
// when a search widens the list to every month.
func (s *Service) MonthView(ctx context.Context, q Query) (MonthView, error) {
	tasks, err := s.Tasks(ctx)
	if err != nil {
		return MonthView{}, err
	}
	shown := View(tasks, q, s.now())
	if shown == nil {
		shown = []task.Task{}
	}
	search := q.Search
	if strings.TrimSpace(search) == "" {
		search = ""
	}
	return MonthView{
		Month:  q.Month,
		Year:   q.Year,
		Search: search,
		Tasks:  shown,
		Stats:  MonthStats(tasks, q.Month, q.Year),
	}, nil
}

// Statistics computes the statistics page over the active tasks.
func (s *Service) Statistics(ctx context.Context, categories []string) (Statistics, error) {
	tasks, err := s.Tasks(ctx)
	if err != nil {
		return Statistics{}, err
	}
	if len(categories) == 0 {
		categories = task.DefaultCategories
	}
	return Compute(tasks, categories, s.now()), nil
}

// History groups the active tasks by month, newest first.
func (s *Service) History(ctx context.Context) ([]MonthGroup, error) {
	tasks, err := s.Tasks(ctx)
	if err != nil {
		return nil, err
	}
	return MonthsWithTasks(tasks), nil
}

// Clock returns the current time of the service clock.
func (s *Service) Clock() time.Time {
	return s.now()
}
