// Package mcp provides the Model Context Protocol server integration for
// progressly.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"tableflip.dev/progressly/pkg/app"
	"tableflip.dev/progressly/pkg/task"
	"tableflip.dev/progressly/pkg/timeutil"
)

// Service adapts the task service to transport-friendly DTOs.
type Service struct {
	App        *app.Service
	Categories []string
}

// NewService wraps svc. Empty categories fall back to the defaults.
func NewService(svc *app.Service, categories []string) *Service {
	if len(categories) == 0 {
		categories = task.DefaultCategories
	}
	return &Service{App: svc, Categories: categories}
}

var errNoService = errors.New("task service is not configured")

// SubtaskDTO is a transport-friendly projection of a subtask.
type SubtaskDTO struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Progress int    `json:"progress"`
}

// TaskDTO is a transport-friendly projection of a task with its derived
// fields. IDs are strings so clients never round them through floats.
type TaskDTO struct {
	ID                string       `json:"id"`
	Title             string       `json:"title"`
	Priority          string       `json:"priority"`
	PriorityLabel     string       `json:"priorityLabel"`
	Category          string       `json:"category"`
	Month             int          `json:"month"`
	Year              int          `json:"year"`
	MonthName         string       `json:"monthName"`
	Progress          int          `json:"progress"`
	EffectiveProgress int          `json:"effectiveProgress"`
	Complete          bool         `json:"complete"`
	DueDate           string       `json:"dueDate,omitempty"`
	DueLabel          string       `json:"dueLabel,omitempty"`
	Overdue           bool         `json:"overdue"`
	MigratedFrom      string       `json:"migratedFrom,omitempty"`
	DeletedAt         string       `json:"deletedAt,omitempty"`
	Subtasks          []SubtaskDTO `json:"subtasks"`
}

// MonthDTO is a derived task list with its month's stats.
type MonthDTO struct {
	Month     int         `json:"month"`
	Year      int         `json:"year"`
	MonthName string      `json:"monthName"`
	Filter    string      `json:"filter"`
	Sort      string      `json:"sort"`
	Search    string      `json:"search,omitempty"`
	Stats     app.Summary `json:"stats"`
	Tasks     []TaskDTO   `json:"tasks"`
	Count     int         `json:"count"`
}

func toDTO(t task.Task, now time.Time) TaskDTO {
	p := t.EffectiveProgress()
	dto := TaskDTO{
		ID:                strconv.FormatInt(t.ID, 10),
		Title:             t.Title,
		Priority:          string(t.Priority),
		PriorityLabel:     t.Priority.Label(),
		Category:          t.Category,
		Month:             t.Month,
		Year:              t.Year,
		MonthName:         timeutil.MonthName(t.Month),
		Progress:          t.Progress,
		EffectiveProgress: p,
		Complete:          p == 100,
		DueLabel:          timeutil.FormatDate(t.DueDate, now),
		Subtasks:          make([]SubtaskDTO, 0, len(t.Subtasks)),
	}
	if !t.DueDate.IsZero() {
		dto.DueDate = t.DueDate.String()
		dto.Overdue = p < 100 && timeutil.IsOverdue(t.DueDate, now)
	}
	if t.MigratedFrom != nil {
		dto.MigratedFrom = t.MigratedFrom.String()
	}
	if t.DeletedAt != nil {
		dto.DeletedAt = time.UnixMilli(*t.DeletedAt).Format(time.RFC3339)
	}
	for _, s := range t.Subtasks {
		dto.Subtasks = append(dto.Subtasks, SubtaskDTO{ID: strconv.FormatInt(s.ID, 10), Title: s.Title, Progress: s.Progress})
	}
	return dto
}

func toDTOs(tasks []task.Task, now time.Time) []TaskDTO {
	out := make([]TaskDTO, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toDTO(t, now))
	}
	return out
}

// ParseID parses a task or subtask identifier.
func ParseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

// ListOptions selects a derived task list. Nil Month and Year mean the
// current month.
type ListOptions struct {
	Month  *int
	Year   *int
	Filter string
	Sort   string
	Search string
}

// ListTasks returns the derived list for opts.
func (s *Service) ListTasks(ctx context.Context, opts ListOptions) (MonthDTO, error) {
	if s.App == nil {
		return MonthDTO{}, errNoService
	}
	filter, err := app.ParseFilter(opts.Filter)
	if err != nil {
		return MonthDTO{}, err
	}
	sort, err := app.ParseSort(opts.Sort)
	if err != nil {
		return MonthDTO{}, err
	}
	month, year := s.App.CurrentMonth()
	if opts.Month != nil {
		month = *opts.Month
	}
	if opts.Year != nil {
		year = *opts.Year
	}
	if month < 0 || month > 11 {
		return MonthDTO{}, fmt.Errorf("month must be between 0 and 11, got %d", month)
	}
	v, err := s.App.MonthView(ctx, app.Query{Month: month, Year: year, Filter: filter, Sort: sort, Search: opts.Search})
	if err != nil {
		return MonthDTO{}, err
	}
	tasks := toDTOs(v.Tasks, s.App.Clock())
	return MonthDTO{
		Month:     v.Month,
		Year:      v.Year,
		MonthName: timeutil.MonthName(v.Month),
		Filter:    string(filter),
		Sort:      string(sort),
		Search:    v.Search,
		Stats:     v.Stats,
		Tasks:     tasks,
		Count:     len(tasks),
	}, nil
}

// GetTask returns one active task.
func (s *Service) GetTask(ctx context.Context, id string) (TaskDTO, error) {
	if s.App == nil {
		return TaskDTO{}, errNoService
	}
	n, err := ParseID(id)
	if err != nil {
		return TaskDTO{}, err
	}
	t, err := s.App.Task(ctx, n)
	if err != nil {
		return TaskDTO{}, err
	}
	return toDTO(t, s.App.Clock()), nil
}

// AddTaskOptions captures the parameters used to create a task.
type AddTaskOptions struct {
	Title    string
	Priority string
	Category string
	DueDate  string
	Month    *int
	Year     *int
}

func (s *Service) category(c string) (string, error) {
	c = strings.TrimSpace(c)
	if c == "" {
		return "", nil
	}
	for _, known := range s.Categories {
		if strings.EqualFold(known, c) {
			return known, nil
		}
	}
	return "", fmt.Errorf("unknown category %q (expected one of %s)", c, strings.Join(s.Categories, ", "))
}

// AddTask creates a task.
func (s *Service) AddTask(ctx context.Context, opts AddTaskOptions) (TaskDTO, error) {
	if s.App == nil {
		return TaskDTO{}, errNoService
	}
	in := app.NewTask{Title: opts.Title, Month: opts.Month, Year: opts.Year}
	if strings.TrimSpace(opts.Priority) != "" {
		p, ok := task.ParsePriority(opts.Priority)
		if !ok {
			return TaskDTO{}, fmt.Errorf("unknown priority %q (expected high, medium or low)", opts.Priority)
		}
		in.Priority = p
	}
	c, err := s.category(opts.Category)
	if err != nil {
		return TaskDTO{}, err
	}
	in.Category = c
	if strings.TrimSpace(opts.DueDate) != "" {
		d, err := timeutil.ParseDate(opts.DueDate)
		if err != nil {
			return TaskDTO{}, err
		}
		in.DueDate = d
	}
	t, err := s.App.AddTask(ctx, in)
	if err != nil {
		return TaskDTO{}, err
	}
	return toDTO(t, s.App.Clock()), nil
}

// EditOptions holds the fields to change; nil fields stay as they are. An
// empty DueDate clears the due date.
type EditOptions struct {
	Title    *string
	Priority *string
	Category *string
	DueDate  *string
}

// EditTask changes title, priority, category or due date.
func (s *Service) EditTask(ctx context.Context, id string, opts EditOptions) (TaskDTO, error) {
	if s.App == nil {
		return TaskDTO{}, errNoService
	}
	n, err := ParseID(id)
	if err != nil {
		return TaskDTO{}, err
	}
	e := app.Edit{Title: opts.Title}
	if opts.Priority != nil {
		p, ok := task.ParsePriority(*opts.Priority)
		if !ok {
			return TaskDTO{}, fmt.Errorf("unknown priority %q (expected high, medium or low)", *opts.Priority)
		}
		e.Priority = &p
	}
	if opts.Category != nil {
		c, err := s.category(*opts.Category)
		if err != nil {
			return TaskDTO{}, err
		}
		if c == "" {
			return TaskDTO{}, errors.New("category can not be empty")
		}
		e.Category = &c
	}
	if opts.DueDate != nil {
		var d timeutil.Date
		if strings.TrimSpace(*opts.DueDate) != "" {
			if d, err = timeutil.ParseDate(*opts.DueDate); err != nil {
				return TaskDTO{}, err
			}
		}
		e.DueDate = &d
	}
	t, err := s.App.EditTask(ctx, n, e)
	if err != nil {
		return TaskDTO{}, err
	}
	return toDTO(t, s.App.Clock()), nil
}

// SetProgress sets a task's manual progress.
func (s *Service) SetProgress(ctx context.Context, id string, progress int) (TaskDTO, error) {
	if s.App == nil {
		return TaskDTO{}, errNoService
	}
	n, err := ParseID(id)
	if err != nil {
		return TaskDTO{}, err
	}
	t, err := s.App.SetProgress(ctx, n, progress)
	if err != nil {
		return TaskDTO{}, err
	}
	return toDTO(t, s.App.Clock()), nil
}

// AddSubtask appends a subtask and returns the updated task.
func (s *Service) AddSubtask(ctx context.Context, taskID, title string) (TaskDTO, error) {
	if s.App == nil {
		return TaskDTO{}, errNoService
	}
	n, err := ParseID(taskID)
	if err != nil {
		return TaskDTO{}, err
	}
	t, _, err := s.App.AddSubtask(ctx, n, title)
	if err != nil {
		return TaskDTO{}, err
	}
	return toDTO(t, s.App.Clock()), nil
}

// SetSubtaskProgress sets one subtask's progress.
func (s *Service) SetSubtaskProgress(ctx context.Context, taskID, subtaskID string, progress int) (TaskDTO, error) {
	if s.App == nil {
		return TaskDTO{}, errNoService
	}
	tid, err := ParseID(taskID)
	if err != nil {
		return TaskDTO{}, err
	}
	sid, err := ParseID(subtaskID)
	if err != nil {
		return TaskDTO{}, err
	}
	t, err := s.App.SetSubtaskProgress(ctx, tid, sid, progress)
	if err != nil {
		return TaskDTO{}, err
	}
	return toDTO(t, s.App.Clock()), nil
}

// DeleteSubtask removes one subtask.
func (s *Service) DeleteSubtask(ctx context.Context, taskID, subtaskID string) (TaskDTO, error) {
	if s.App == nil {
		return TaskDTO{}, errNoService
	}
	tid, err := ParseID(taskID)
	if err != nil {
		return TaskDTO{}, err
	}
	sid, err := ParseID(subtaskID)
	if err != nil {
		return TaskDTO{}, err
	}
	t, err := s.App.DeleteSubtask(ctx, tid, sid)
	if err != nil {
		return TaskDTO{}, err
	}
	return toDTO(t, s.App.Clock()), nil
}

// TrashTask moves a task to the trash.
func (s *Service) TrashTask(ctx context.Context, id string) (TaskDTO, error) {
	if s.App == nil {
		return TaskDTO{}, errNoService
	}
	n, err := ParseID(id)
	if err != nil {
		return TaskDTO{}, err
	}
	t, err := s.App.MoveToTrash(ctx, n)
	if err != nil {
		return TaskDTO{}, err
	}
	return toDTO(t, s.App.Clock()), nil
}

// RestoreTask moves a trashed task back to the active list.
func (s *Service) RestoreTask(ctx context.Context, id string) (TaskDTO, error) {
	if s.App == nil {
		return TaskDTO{}, errNoService
	}
	n, err := ParseID(id)
	if err != nil {
		return TaskDTO{}, err
	}
	t, err := s.App.Restore(ctx, n)
	if err != nil {
		return TaskDTO{}, err
	}
	return toDTO(t, s.App.Clock()), nil
}

// ListTrash returns the trash, most recently deleted first.
func (s *Service) ListTrash(ctx context.Context) ([]TaskDTO, error) {
	if s.App == nil {
		return nil, errNoService
	}
	trash, err := s.App.Trash(ctx)
	if err != nil {
		return nil, err
	}
	return toDTOs(trash, s.App.Clock()), nil
}

// Statistics computes the statistics page.
func (s *Service) Statistics(ctx context.Context) (app.Statistics, error) {
	if s.App == nil {
		return app.Statistics{}, errNoService
	}
	return s.App.Statistics(ctx, s.Categories)
}
