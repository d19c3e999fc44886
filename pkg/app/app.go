package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"tableflip.dev/progressly/pkg/store"
	"tableflip.dev/progressly/pkg/task"
	"tableflip.dev/progressly/pkg/timeutil"
)

// Service provides the task and trash operations shared by the CLI, the
// terminal UI and the MCP server. Every mutation reads both lists, derives new
// ones and writes them back whole.
type Service struct {
	Persistence store.Persistence
	// Now is the clock; time.Now when nil.
	Now func() time.Time

	// updateMu serialises read-modify-write cycles of the stored lists.
	updateMu sync.Mutex

	mu     sync.Mutex
	lastID int64
}

var (
	ErrNotFound      = errors.New("app: task not found")
	ErrConflict      = errors.New("app: task already active")
	errNoPersistence = errors.New("app: no persistence configured")
)

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// nextID returns a millisecond timestamp that is unique for this service.
func (s *Service) nextID(taken func(int64) bool) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	for taken != nil && taken(id) {
		id++
	}
	s.lastID = id
	return id
}

// Tasks returns the active task list in stored order.
func (s *Service) Tasks(ctx context.Context) ([]task.Task, error) {
	if s.Persistence == nil {
		return nil, errNoPersistence
	}
	return store.ReadTasks(ctx, s.Persistence, store.TasksKey)
}

// Trash returns deleted tasks, most recently deleted first.
func (s *Service) Trash(ctx context.Context) ([]task.Task, error) {
	if s.Persistence == nil {
		return nil, errNoPersistence
	}
	return store.ReadTasks(ctx, s.Persistence, store.TrashKey)
}

// Task returns the active task with id.
func (s *Service) Task(ctx context.Context, id int64) (task.Task, error) {
	tasks, err := s.Tasks(ctx)
	if err != nil {
		return task.Task{}, err
	}
	i := indexOf(tasks, id)
	if i < 0 {
		return task.Task{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return tasks[i], nil
}

// Query returns the derived view for q over the active tasks.
func (s *Service) Query(ctx context.Context, q Query) ([]task.Task, error) {
	tasks, err := s.Tasks(ctx)
	if err != nil {
		return nil, err
	}
	return View(tasks, q, s.now()), nil
}

// Watch subscribes to persistence change events.
func (s *Service) Watch(ctx context.Context) (<-chan store.Event, error) {
	if s.Persistence == nil {
		return nil, errNoPersistence
	}
	return s.Persistence.Watch(ctx)
}

// NewTask holds the fields a task is created with. Nil Month and Year mean
// the current month.
type NewTask struct {
	Title    string
	Priority task.Priority
	Category string
	DueDate  timeutil.Date
	Month    *int
	Year     *int
}

// AddTask creates a task with no progress and no subtasks and appends it to
// the active list.
func (s *Service) AddTask(ctx context.Context, in NewTask) (task.Task, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return task.Task{}, fmt.Errorf("%w: title is required", task.ErrInvalid)
	}
	priority := in.Priority
	if priority == "" {
		priority = task.Medium
	}
	if !priority.Valid() {
		return task.Task{}, fmt.Errorf("%w: unknown priority %q", task.ErrInvalid, priority)
	}
	category := strings.TrimSpace(in.Category)
	if category == "" {
		category = task.DefaultCategories[0]
	}
	now := s.now()
	month, year := timeutil.MonthIndex(now.Month()), now.Year()
	if in.Month != nil {
		month = *in.Month
	}
	if in.Year != nil {
		year = *in.Year
	}
	if month < 0 || month > 11 {
		return task.Task{}, fmt.Errorf("%w: month %d outside 0..11", task.ErrInvalid, month)
	}

	var created task.Task
	err := s.update(ctx, func(tasks, trash []task.Task) ([]task.Task, []task.Task, error) {
		created = task.Task{
			ID:       s.nextID(idTaken(tasks, trash)),
			Title:    title,
			Priority: priority,
			Category: category,
			Month:    month,
			Year:     year,
			Progress: 0,
			Subtasks: []task.Subtask{},
			DueDate:  in.DueDate,
		}
		return append(tasks, created), trash, nil
	})
	return created, err
}

// Edit holds the editable fields of a task. Nil fields are left unchanged.
type Edit struct {
	Title    *string
	Priority *task.Priority
	Category *string
	DueDate  *timeutil.Date
}

// EditTask changes title, priority, category or due date in place.
func (s *Service) EditTask(ctx context.Context, id int64, e Edit) (task.Task, error) {
	if e.Title != nil && strings.TrimSpace(*e.Title) == "" {
		return task.Task{}, fmt.Errorf("%w: title is required", task.ErrInvalid)
	}
	if e.Priority != nil && !e.Priority.Valid() {
		return task.Task{}, fmt.Errorf("%w: unknown priority %q", task.ErrInvalid, *e.Priority)
	}
	return s.mutate(ctx, id, func(t *task.Task) {
		if e.Title != nil {
			t.Title = strings.TrimSpace(*e.Title)
		}
		if e.Priority != nil {
			t.Priority = *e.Priority
		}
		if e.Category != nil && strings.TrimSpace(*e.Category) != "" {
			t.Category = strings.TrimSpace(*e.Category)
		}
		if e.DueDate != nil {
			t.DueDate = *e.DueDate
		}
	})
}

// SetProgress sets the manual progress, clamped to 0..100.
func (s *Service) SetProgress(ctx context.Context, id int64, progress int) (task.Task, error) {
	return s.mutate(ctx, id, func(t *task.Task) {
		t.Progress = task.Clamp(progress)
	})
}

// AddSubtask appends a subtask with no progress.
func (s *Service) AddSubtask(ctx context.Context, taskID int64, title string) (task.Task, task.Subtask, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return task.Task{}, task.Subtask{}, fmt.Errorf("%w: subtask title is required", task.ErrInvalid)
	}
	var sub task.Subtask
	t, err := s.mutate(ctx, taskID, func(t *task.Task) {
		sub = task.Subtask{ID: s.nextID(subtaskTaken(*t)), Title: title}
		t.Subtasks = append(t.Subtasks, sub)
	})
	return t, sub, err
}

// DeleteSubtask removes a subtask. With no subtasks left the task falls back
// to its manual progress.
func (s *Service) DeleteSubtask(ctx context.Context, taskID, subtaskID int64) (task.Task, error) {
	return s.mutateSubtask(ctx, taskID, subtaskID, func(t *task.Task, i int) {
		t.Subtasks = append(t.Subtasks[:i:i], t.Subtasks[i+1:]...)
	})
}

// SetSubtaskProgress sets a subtask's progress, clamped to 0..100.
func (s *Service) SetSubtaskProgress(ctx context.Context, taskID, subtaskID int64, progress int) (task.Task, error) {
	return s.mutateSubtask(ctx, taskID, subtaskID, func(t *task.Task, i int) {
		t.Subtasks[i].Progress = task.Clamp(progress)
	})
}

// MoveToTrash removes a task from the active list and puts it at the front
// of the trash, stamped with the deletion time.
func (s *Service) MoveToTrash(ctx context.Context, id int64) (task.Task, error) {
	var moved task.Task
	err := s.update(ctx, func(tasks, trash []task.Task) ([]task.Task, []task.Task, error) {
		i := indexOf(tasks, id)
		if i < 0 {
			return nil, nil, fmt.Errorf("%w: %d", ErrNotFound, id)
		}
		moved = tasks[i].Clone()
		deletedAt := s.now().UnixMilli()
		moved.DeletedAt = &deletedAt
		rest := append(tasks[:i:i], tasks[i+1:]...)
		return rest, append([]task.Task{moved}, trash...), nil
	})
	return moved, err
}

// Restore moves a trashed task to the end of the active list without its
// deletion stamp.
func (s *Service) Restore(ctx context.Context, id int64) (task.Task, error) {
	var restored task.Task
	err := s.update(ctx, func(tasks, trash []task.Task) ([]task.Task, []task.Task, error) {
		i := indexOf(trash, id)
		if i < 0 {
			return nil, nil, fmt.Errorf("%w in trash: %d", ErrNotFound, id)
		}
		if indexOf(tasks, id) >= 0 {
			return nil, nil, fmt.Errorf("%w: %d", ErrConflict, id)
		}
		restored = trash[i].Clone()
		restored.DeletedAt = nil
		rest := append(trash[:i:i], trash[i+1:]...)
		return append(tasks, restored), rest, nil
	})
	return restored, err
}

// PermanentDelete removes a task from the trash for good.
func (s *Service) PermanentDelete(ctx context.Context, id int64) error {
	return s.update(ctx, func(tasks, trash []task.Task) ([]task.Task, []task.Task, error) {
		i := indexOf(trash, id)
		if i < 0 {
			return nil, nil, fmt.Errorf("%w in trash: %d", ErrNotFound, id)
		}
		return tasks, append(trash[:i:i], trash[i+1:]...), nil
	})
}

// EmptyTrash removes every trashed task and returns how many were removed.
func (s *Service) EmptyTrash(ctx context.Context) (int, error) {
	return s.PurgeTrash(ctx, 0)
}

// PurgeTrash removes trashed tasks deleted at least olderThan ago. Zero
// removes everything.
func (s *Service) PurgeTrash(ctx context.Context, olderThan time.Duration) (int, error) {
	removed := 0
	cutoff := timeutil.PurgeCutoff(s.now(), olderThan).UnixMilli()
	err := s.update(ctx, func(tasks, trash []task.Task) ([]task.Task, []task.Task, error) {
		kept := make([]task.Task, 0, len(trash))
		for _, t := range trash {
			if olderThan > 0 && (t.DeletedAt == nil || *t.DeletedAt > cutoff) {
				kept = append(kept, t)
				continue
			}
			removed++
		}
		return tasks, kept, nil
	})
	return removed, err
}

// Import loads tasks and trash from elsewhere. With replace the current lists
// are discarded; otherwise incoming tasks replace those with the same id and
// the rest are appended.
func (s *Service) Import(ctx context.Context, tasks, trash []task.Task, replace bool) error {
	if err := task.ValidateAll(tasks); err != nil {
		return err
	}
	if err := task.ValidateAll(trash); err != nil {
		return err
	}
	for _, t := range trash {
		if indexOf(tasks, t.ID) >= 0 {
			return fmt.Errorf("%w: task %d is both active and trashed", task.ErrInvalid, t.ID)
		}
	}
	return s.update(ctx, func(curTasks, curTrash []task.Task) ([]task.Task, []task.Task, error) {
		if replace {
			return task.CloneAll(tasks), task.CloneAll(trash), nil
		}
		outTasks := merge(curTasks, tasks)
		outTrash := merge(curTrash, trash)
		// An id lives in exactly one list; the incoming side wins.
		outTasks = without(outTasks, trash)
		outTrash = without(outTrash, tasks)
		return outTasks, outTrash, nil
	})
}

func merge(base, incoming []task.Task) []task.Task {
	out := task.CloneAll(base)
	for _, t := range incoming {
		if i := indexOf(out, t.ID); i >= 0 {
			out[i] = t.Clone()
			continue
		}
		out = append(out, t.Clone())
	}
	return out
}

func without(list, drop []task.Task) []task.Task {
	out := make([]task.Task, 0, len(list))
	for _, t := range list {
		if indexOf(drop, t.ID) < 0 {
			out = append(out, t)
		}
	}
	return out
}

// update loads both lists, applies fn and persists the result. Nothing is
// written when fn fails.
func (s *Service) update(ctx context.Context, fn func(tasks, trash []task.Task) ([]task.Task, []task.Task, error)) error {
	s.updateMu.Lock()
	defer s.updateMu.Unlock()

	tasks, err := s.Tasks(ctx)
	if err != nil {
		return err
	}
	trash, err := s.Trash(ctx)
	if err != nil {
		return err
	}
	newTasks, newTrash, err := fn(tasks, trash)
	if err != nil {
		return err
	}
	if err := store.WriteTasks(ctx, s.Persistence, store.TasksKey, newTasks); err != nil {
		return err
	}
	return store.WriteTasks(ctx, s.Persistence, store.TrashKey, newTrash)
}

func (s *Service) mutate(ctx context.Context, id int64, fn func(t *task.Task)) (task.Task, error) {
	var out task.Task
	err := s.update(ctx, func(tasks, trash []task.Task) ([]task.Task, []task.Task, error) {
		i := indexOf(tasks, id)
		if i < 0 {
			return nil, nil, fmt.Errorf("%w: %d", ErrNotFound, id)
		}
		t := tasks[i].Clone()
		fn(&t)
		tasks[i] = t
		out = t
		return tasks, trash, nil
	})
	return out, err
}

func (s *Service) mutateSubtask(ctx context.Context, taskID, subtaskID int64, fn func(t *task.Task, i int)) (task.Task, error) {
	var out task.Task
	err := s.update(ctx, func(tasks, trash []task.Task) ([]task.Task, []task.Task, error) {
		i := indexOf(tasks, taskID)
		if i < 0 {
			return nil, nil, fmt.Errorf("%w: %d", ErrNotFound, taskID)
		}
		t := tasks[i].Clone()
		j := t.SubtaskIndex(subtaskID)
		if j < 0 {
			return nil, nil, fmt.Errorf("%w: subtask %d of task %d", ErrNotFound, subtaskID, taskID)
		}
		fn(&t, j)
		tasks[i] = t
		out = t
		return tasks, trash, nil
	})
	return out, err
}

func indexOf(tasks []task.Task, id int64) int {
	for i, t := range tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func idTaken(lists ...[]task.Task) func(int64) bool {
	return func(id int64) bool {
		for _, l := range lists {
			if indexOf(l, id) >= 0 {
				return true
			}
		}
		return false
	}
}

func subtaskTaken(t task.Task) func(int64) bool {
	return func(id int64) bool {
		return t.SubtaskIndex(id) >= 0
	}
}
