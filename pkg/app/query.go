package app

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"tableflip.dev/progressly/pkg/task"
	"tableflip.dev/progressly/pkg/timeutil"
)

var (
	ErrUnknownFilter = errors.New("app: unknown filter")
	ErrUnknownSort   = errors.New("app: unknown sort")
)

type Filter string

const (
	FilterAll         Filter = "all"
	FilterPending     Filter = "pending"
	FilterCompleted   Filter = "completed"
	FilterInProgress  Filter = "inprogress"
	FilterOverdue     Filter = "overdue"
	FilterDueToday    Filter = "dueToday"
	FilterDueThisWeek Filter = "dueThisWeek"
)

// Filters in display order.
var Filters = []Filter{FilterAll, FilterPending, FilterInProgress, FilterCompleted, FilterOverdue, FilterDueToday, FilterDueThisWeek}

// ParseFilter accepts a filter key in any case. Empty means all.
func ParseFilter(s string) (Filter, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return FilterAll, nil
	}
	for _, f := range Filters {
		if strings.EqualFold(string(f), s) {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w %q", ErrUnknownFilter, s)
}

type SortKey string

const (
	SortPriority SortKey = "priority"
	SortDueDate  SortKey = "dueDate"
	SortProgress SortKey = "progress"
)

var SortKeys = []SortKey{SortPriority, SortDueDate, SortProgress}

// ParseSort accepts a sort key in any case. Empty means priority.
func ParseSort(s string) (SortKey, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return SortPriority, nil
	}
	for _, k := range SortKeys {
		if strings.EqualFold(string(k), s) {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w %q", ErrUnknownSort, s)
}

// MonthTasks returns the tasks bucketed into month/year, in stored order.
func MonthTasks(tasks []task.Task, month, year int) []task.Task {
	out := make([]task.Task, 0)
	for _, t := range tasks {
		if t.In(month, year) {
			out = append(out, t)
		}
	}
	return out
}

// Search matches query case-insensitively against title, category,
// priority, the rendered due date and subtask titles. A query that is blank
// after trimming matches everything.
func Search(tasks []task.Task, query string, now time.Time) []task.Task {
	if strings.TrimSpace(query) == "" {
		return tasks
	}
	q := strings.ToLower(query)
	out := make([]task.Task, 0)
	for _, t := range tasks {
		if matches(t, q, now) {
			out = append(out, t)
		}
	}
	return out
}

func matches(t task.Task, q string, now time.Time) bool {
	fields := []string{t.Title, t.Category, string(t.Priority)}
	if !t.DueDate.IsZero() {
		fields = append(fields, timeutil.FormatDate(t.DueDate, now))
	}
	for _, s := range t.Subtasks {
		fields = append(fields, s.Title)
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

// FilterTasks keeps the tasks that satisfy f. Unknown filters keep everything.
func FilterTasks(tasks []task.Task, f Filter, now time.Time) []task.Task {
	if f == FilterAll || f == "" {
		return tasks
	}
	out := make([]task.Task, 0, len(tasks))
	for _, t := range tasks {
		if keep(t, f, now) {
			out = append(out, t)
		}
	}
	return out
}

func keep(t task.Task, f Filter, now time.Time) bool {
	p := task.EffectiveProgress(t)
	switch f {
	case FilterPending:
		return p < 100
	case FilterCompleted:
		return p == 100
	case FilterInProgress:
		return p > 0 && p < 100
	case FilterOverdue:
		return !t.DueDate.IsZero() && timeutil.IsOverdue(t.DueDate, now) && p < 100
	case FilterDueToday:
		return timeutil.IsDueToday(t.DueDate, now)
	case FilterDueThisWeek:
		return timeutil.IsDueThisWeek(t.DueDate, now)
	}
	return true
}

// SortTasks returns a stably sorted copy: unfinished tasks first, then by key.
func SortTasks(tasks []task.Task, key SortKey) []task.Task {
	out := make([]task.Task, len(tasks))
	copy(out, tasks)
	sort.SliceStable(out, func(i, j int) bool {
		return compare(out[i], out[j], key) < 0
	})
	return out
}

func compare(a, b task.Task, key SortKey) int {
	ac, bc := a.Complete(), b.Complete()
	if ac != bc {
		if ac {
			return 1
		}
		return -1
	}
	switch key {
	case SortDueDate:
		switch {
		case a.DueDate.IsZero() && b.DueDate.IsZero():
			return a.Priority.Rank() - b.Priority.Rank()
		case a.DueDate.IsZero():
			return 1
		case b.DueDate.IsZero():
			return -1
		case a.DueDate.Before(b.DueDate):
			return -1
		case b.DueDate.Before(a.DueDate):
			return 1
		}
		return 0
	case SortProgress:
		return task.EffectiveProgress(b) - task.EffectiveProgress(a)
	default:
		return a.Priority.Rank() - b.Priority.Rank()
	}
}

// Query describes a derived task view.
type Query struct {
	Month  int
	Year   int
	Filter Filter
	Sort   SortKey
	Search string
}

// View derives the ordered list shown for q. With a non-blank search string
// the whole collection is searched, otherwise only the month bucket is
// considered.
func View(tasks []task.Task, q Query, now time.Time) []task.Task {
	var candidates []task.Task
	if strings.TrimSpace(q.Search) != "" {
		candidates = Search(tasks, q.Search, now)
	} else {
		candidates = MonthTasks(tasks, q.Month, q.Year)
	}
	return SortTasks(FilterTasks(candidates, q.Filter, now), q.Sort)
}
