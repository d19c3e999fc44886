package task

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"tableflip.dev/progressly/pkg/timeutil"
)

// ErrInvalid marks data that does not have the shape of a task.
var ErrInvalid = errors.New("task: invalid")

// DefaultCategories is the category set used when none is configured.
var DefaultCategories = []string{"Personal", "Health", "Learning", "Other"}

// MonthRef points at a month bucket. Month is zero-based.
type MonthRef struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

func (m MonthRef) String() string {
	return fmt.Sprintf("%s %d", timeutil.MonthShort(m.Month), m.Year)
}

type Subtask struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Progress int    `json:"progress"`
}

// Task is a unit of work bucketed into a month. ID is the creation time in
// milliseconds since the epoch.
type Task struct {
	ID           int64         `json:"id"`
	Title        string        `json:"title"`
	Priority     Priority      `json:"priority"`
	Category     string        `json:"category"`
	Month        int           `json:"month"`
	Year         int           `json:"year"`
	Progress     int           `json:"progress"`
	Subtasks     []Subtask     `json:"subtasks"`
	DueDate      timeutil.Date `json:"dueDate"`
	MigratedFrom *MonthRef     `json:"migratedFrom,omitempty"`
	DeletedAt    *int64        `json:"deletedAt,omitempty"`
}

func (t Task) MarshalJSON() ([]byte, error) {
	type plain Task
	p := plain(t)
	if p.Subtasks == nil {
		p.Subtasks = []Subtask{}
	}
	return json.Marshal(p)
}

func (t *Task) UnmarshalJSON(b []byte) error {
	type plain Task
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	if p.Subtasks == nil {
		p.Subtasks = []Subtask{}
	}
	*t = Task(p)
	return nil
}

// Clone returns a deep copy of t.
func (t Task) Clone() Task {
	c := t
	if t.Subtasks != nil {
		c.Subtasks = make([]Subtask, len(t.Subtasks))
		copy(c.Subtasks, t.Subtasks)
	}
	if t.MigratedFrom != nil {
		m := *t.MigratedFrom
		c.MigratedFrom = &m
	}
	if t.DeletedAt != nil {
		d := *t.DeletedAt
		c.DeletedAt = &d
	}
	return c
}

// CloneAll deep copies a task list.
func CloneAll(tasks []Task) []Task {
	if tasks == nil {
		return nil
	}
	out := make([]Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}

// In reports whether the task is bucketed into the given month.
func (t Task) In(month, year int) bool {
	return t.Month == month && t.Year == year
}

// SubtaskIndex returns the index of the subtask with id, or -1.
func (t Task) SubtaskIndex(id int64) int {
	for i, s := range t.Subtasks {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// Validate checks the shape of a single task.
func Validate(t Task) error {
	if strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("%w: task %d has an empty title", ErrInvalid, t.ID)
	}
	if !t.Priority.Valid() {
		return fmt.Errorf("%w: task %d has unknown priority %q", ErrInvalid, t.ID, t.Priority)
	}
	if t.Month < 0 || t.Month > 11 {
		return fmt.Errorf("%w: task %d has month %d outside 0..11", ErrInvalid, t.ID, t.Month)
	}
	if t.Progress < 0 || t.Progress > 100 {
		return fmt.Errorf("%w: task %d has progress %d outside 0..100", ErrInvalid, t.ID, t.Progress)
	}
	for _, s := range t.Subtasks {
		if s.Progress < 0 || s.Progress > 100 {
			return fmt.Errorf("%w: subtask %d of task %d has progress %d outside 0..100", ErrInvalid, s.ID, t.ID, s.Progress)
		}
	}
	return nil
}

// ValidateAll validates every task and requires ids to be unique.
func ValidateAll(tasks []Task) error {
	seen := make(map[int64]struct{}, len(tasks))
	for _, t := range tasks {
		if err := Validate(t); err != nil {
			return err
		}
		if _, dup := seen[t.ID]; dup {
			return fmt.Errorf("%w: duplicate task id %d", ErrInvalid, t.ID)
		}
		seen[t.ID] = struct{}{}
	}
	return nil
}

// Clamp bounds a progress value to 0..100.
func Clamp(p int) int {
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	}
	return p
}
