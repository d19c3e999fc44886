package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"tableflip.dev/progressly/pkg/store"
	"tableflip.dev/progressly/pkg/task"
	"tableflip.dev/progressly/pkg/timeutil"
)

var testNow = time.Date(2024, time.March, 15, 10, 0, 0, 0, time.Local)

func newTestService(t *testing.T, tasks ...task.Task) (*Service, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	if len(tasks) > 0 {
		if err := store.WriteTasks(context.Background(), mem, store.TasksKey, tasks); err != nil {
			t.Fatalf("seed tasks: %v", err)
		}
	}
	clock := testNow
	return &Service{Persistence: mem, Now: func() time.Time { return clock }}, mem
}

func mustTasks(t *testing.T, s *Service) []task.Task {
	t.Helper()
	tasks, err := s.Tasks(context.Background())
	if err != nil {
		t.Fatalf("tasks: %v", err)
	}
	return tasks
}

func mustTrash(t *testing.T, s *Service) []task.Task {
	t.Helper()
	trash, err := s.Trash(context.Background())
	if err != nil {
		t.Fatalf("trash: %v", err)
	}
	return trash
}

func TestAddTaskDefaults(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	created, err := s.AddTask(ctx, NewTask{Title: "  Read a book  "})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if created.ID != testNow.UnixMilli() {
		t.Fatalf("expected id %d, got %d", testNow.UnixMilli(), created.ID)
	}
	if created.Title != "Read a book" || created.Priority != task.Medium || created.Category != "Personal" {
		t.Fatalf("unexpected defaults %+v", created)
	}
	if created.Month != 2 || created.Year != 2024 || created.Progress != 0 || len(created.Subtasks) != 0 {
		t.Fatalf("unexpected bucket or progress %+v", created)
	}

	second, err := s.AddTask(ctx, NewTask{Title: "Run", Priority: task.High, Category: "Health"})
	if err != nil {
		t.Fatalf("add second: %v", err)
	}
	if second.ID == created.ID {
		t.Fatalf("expected unique ids, both %d", second.ID)
	}
	if got := mustTasks(t, s); len(got) != 2 || got[1].ID != second.ID {
		t.Fatalf("expected new task appended, got %+v", got)
	}

	if _, err := s.AddTask(ctx, NewTask{Title: "   "}); !errors.Is(err, task.ErrInvalid) {
		t.Fatalf("expected ErrInvalid for blank title, got %v", err)
	}
	if len(mustTasks(t, s)) != 2 {
		t.Fatalf("blank title must not add a task")
	}
}

func TestAddTaskIntoViewedMonth(t *testing.T) {
	s, _ := newTestService(t)
	month, year := 11, 2023
	due := timeutil.Date{Year: 2024, Month: time.January, Day: 2}
	created, err := s.AddTask(context.Background(), NewTask{Title: "Plan", Month: &month, Year: &year, DueDate: due})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if created.Month != 11 || created.Year != 2023 || created.DueDate != due {
		t.Fatalf("unexpected task %+v", created)
	}
}

func TestEditTaskKeepsProgress(t *testing.T) {
	seed := task.Task{ID: 1, Title: "Old", Priority: task.Low, Category: "Other", Month: 2, Year: 2024, Progress: 40,
		Subtasks: []task.Subtask{{ID: 2, Title: "step", Progress: 60}}}
	s, _ := newTestService(t, seed)
	title := "New"
	prio := task.High
	due := timeutil.Date{Year: 2024, Month: time.March, Day: 20}
	edited, err := s.EditTask(context.Background(), 1, Edit{Title: &title, Priority: &prio, DueDate: &due})
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if edited.Title != "New" || edited.Priority != task.High || edited.Category != "Other" || edited.DueDate != due {
		t.Fatalf("unexpected edit %+v", edited)
	}
	if edited.Progress != 40 || len(edited.Subtasks) != 1 || edited.Subtasks[0].Progress != 60 {
		t.Fatalf("progress and subtasks must be untouched, got %+v", edited)
	}

	none := timeutil.Date{}
	edited, err = s.EditTask(context.Background(), 1, Edit{DueDate: &none})
	if err != nil {
		t.Fatalf("clear due date: %v", err)
	}
	if !edited.DueDate.IsZero() {
		t.Fatalf("expected due date cleared, got %v", edited.DueDate)
	}

	if _, err := s.EditTask(context.Background(), 99, Edit{Title: &title}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestProgressClamps(t *testing.T) {
	s, _ := newTestService(t, task.Task{ID: 1, Title: "a", Priority: task.Medium, Month: 2, Year: 2024})
	ctx := context.Background()
	for in, want := range map[int]int{150: 100, -5: 0, 42: 42} {
		got, err := s.SetProgress(ctx, 1, in)
		if err != nil {
			t.Fatalf("set progress: %v", err)
		}
		if got.Progress != want {
			t.Fatalf("SetProgress(%d) stored %d, want %d", in, got.Progress, want)
		}
	}
}

func TestSubtasksDriveEffectiveProgress(t *testing.T) {
	s, _ := newTestService(t, task.Task{ID: 1, Title: "a", Priority: task.Medium, Month: 2, Year: 2024, Progress: 80})
	ctx := context.Background()

	tk, first, err := s.AddSubtask(ctx, 1, "  first ")
	if err != nil {
		t.Fatalf("add subtask: %v", err)
	}
	if first.Title != "first" || first.Progress != 0 {
		t.Fatalf("unexpected subtask %+v", first)
	}
	if tk.EffectiveProgress() != 0 {
		t.Fatalf("expected effective progress 0, got %d", tk.EffectiveProgress())
	}
	_, second, err := s.AddSubtask(ctx, 1, "second")
	if err != nil {
		t.Fatalf("add subtask: %v", err)
	}
	if second.ID == first.ID {
		t.Fatalf("expected unique subtask ids")
	}
	if _, err := s.SetSubtaskProgress(ctx, 1, first.ID, 120); err != nil {
		t.Fatalf("set subtask progress: %v", err)
	}
	tk, err = s.SetSubtaskProgress(ctx, 1, second.ID, 50)
	if err != nil {
		t.Fatalf("set subtask progress: %v", err)
	}
	if tk.Subtasks[0].Progress != 100 || tk.EffectiveProgress() != 75 {
		t.Fatalf("unexpected progress %+v (effective %d)", tk.Subtasks, tk.EffectiveProgress())
	}

	if _, err := s.DeleteSubtask(ctx, 1, first.ID); err != nil {
		t.Fatalf("delete subtask: %v", err)
	}
	tk, err = s.DeleteSubtask(ctx, 1, second.ID)
	if err != nil {
		t.Fatalf("delete subtask: %v", err)
	}
	if len(tk.Subtasks) != 0 || tk.EffectiveProgress() != 80 {
		t.Fatalf("expected manual progress 80 after removing subtasks, got %+v", tk)
	}
	if _, err := s.DeleteSubtask(ctx, 1, first.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing subtask, got %v", err)
	}
	if _, _, err := s.AddSubtask(ctx, 1, " "); !errors.Is(err, task.ErrInvalid) {
		t.Fatalf("expected ErrInvalid for blank subtask, got %v", err)
	}
}

func TestTrashLifecycle(t *testing.T) {
	a := task.Task{ID: 1, Title: "a", Priority: task.Medium, Month: 2, Year: 2024}
	b := task.Task{ID: 2, Title: "b", Priority: task.Medium, Month: 2, Year: 2024}
	c := task.Task{ID: 3, Title: "c", Priority: task.Medium, Month: 2, Year: 2024}
	s, _ := newTestService(t, a, b, c)
	ctx := context.Background()

	moved, err := s.MoveToTrash(ctx, 1)
	if err != nil {
		t.Fatalf("trash: %v", err)
	}
	if moved.DeletedAt == nil || *moved.DeletedAt != testNow.UnixMilli() {
		t.Fatalf("expected deletedAt stamp, got %+v", moved.DeletedAt)
	}
	if _, err := s.MoveToTrash(ctx, 2); err != nil {
		t.Fatalf("trash: %v", err)
	}
	trash := mustTrash(t, s)
	if len(trash) != 2 || trash[0].ID != 2 || trash[1].ID != 1 {
		t.Fatalf("expected most recent first, got %+v", trash)
	}
	if active := mustTasks(t, s); len(active) != 1 || active[0].ID != 3 {
		t.Fatalf("unexpected active list %+v", active)
	}

	restored, err := s.Restore(ctx, 1)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if restored.DeletedAt != nil {
		t.Fatalf("expected deletedAt stripped")
	}
	active := mustTasks(t, s)
	if len(active) != 2 || active[1].ID != 1 || active[1].DeletedAt != nil {
		t.Fatalf("expected restored task appended, got %+v", active)
	}
	if _, err := s.Restore(ctx, 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound restoring twice, got %v", err)
	}

	if err := s.PermanentDelete(ctx, 2); err != nil {
		t.Fatalf("permanent delete: %v", err)
	}
	if len(mustTrash(t, s)) != 0 {
		t.Fatalf("expected empty trash")
	}
	if err := s.PermanentDelete(ctx, 2); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRestoreRefusesActiveID(t *testing.T) {
	ctx := context.Background()
	s, mem := newTestService(t, task.Task{ID: 1, Title: "a", Priority: task.Medium, Month: 2, Year: 2024})
	del := int64(5)
	dup := []task.Task{{ID: 1, Title: "a", Priority: task.Medium, Month: 2, Year: 2024, DeletedAt: &del}}
	if err := store.WriteTasks(ctx, mem, store.TrashKey, dup); err != nil {
		t.Fatalf("seed trash: %v", err)
	}
	if _, err := s.Restore(ctx, 1); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if len(mustTasks(t, s)) != 1 || len(mustTrash(t, s)) != 1 {
		t.Fatalf("failed restore must not change either list")
	}
}

func TestPurgeTrash(t *testing.T) {
	ctx := context.Background()
	s, mem := newTestService(t)
	old := testNow.Add(-40 * 24 * time.Hour).UnixMilli()
	recent := testNow.Add(-time.Hour).UnixMilli()
	trash := []task.Task{
		{ID: 1, Title: "recent", Priority: task.Low, Month: 2, Year: 2024, DeletedAt: &recent},
		{ID: 2, Title: "old", Priority: task.Low, Month: 1, Year: 2024, DeletedAt: &old},
	}
	if err := store.WriteTasks(ctx, mem, store.TrashKey, trash); err != nil {
		t.Fatalf("seed trash: %v", err)
	}
	n, err := s.PurgeTrash(ctx, 30*24*time.Hour)
	if err != nil {
		t.Fatalf("purge: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 purged, got %d", n)
	}
	if left := mustTrash(t, s); len(left) != 1 || left[0].ID != 1 {
		t.Fatalf("unexpected trash %+v", left)
	}
	n, err = s.EmptyTrash(ctx)
	if err != nil || n != 1 {
		t.Fatalf("empty trash: %d %v", n, err)
	}
	if len(mustTrash(t, s)) != 0 {
		t.Fatalf("expected empty trash")
	}
}

func TestImportMergesByID(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t,
		task.Task{ID: 1, Title: "keep", Priority: task.Low, Month: 2, Year: 2024},
		task.Task{ID: 2, Title: "old title", Priority: task.Low, Month: 2, Year: 2024},
	)
	incoming := []task.Task{
		{ID: 2, Title: "new title", Priority: task.High, Month: 2, Year: 2024},
		{ID: 3, Title: "added", Priority: task.High, Month: 2, Year: 2024},
	}
	if err := s.Import(ctx, incoming, nil, false); err != nil {
		t.Fatalf("import: %v", err)
	}
	got := mustTasks(t, s)
	if len(got) != 3 || got[1].Title != "new title" || got[2].ID != 3 {
		t.Fatalf("unexpected merge %+v", got)
	}

	if err := s.Import(ctx, []task.Task{{ID: 9, Title: "", Priority: task.Low}}, nil, true); !errors.Is(err, task.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	if err := s.Import(ctx, incoming[:1], nil, true); err != nil {
		t.Fatalf("replace import: %v", err)
	}
	if got := mustTasks(t, s); len(got) != 1 || got[0].ID != 2 {
		t.Fatalf("expected replaced list, got %+v", got)
	}
}

func TestServiceWithoutPersistence(t *testing.T) {
	s := &Service{}
	if _, err := s.Tasks(context.Background()); err == nil {
		t.Fatalf("expected error without persistence")
	}
}

// slowReads widens the window between reading and writing the lists.
type slowReads struct {
	*store.Memory
}

func (s slowReads) Read(ctx context.Context, key string) ([]byte, error) {
	time.Sleep(time.Millisecond)
	return s.Memory.Read(ctx, key)
}

func TestConcurrentMutationsKeepEveryWrite(t *testing.T) {
	ctx := context.Background()
	s := &Service{Persistence: slowReads{store.NewMemory()}, Now: func() time.Time { return testNow }}

	const n = 20
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := s.AddTask(ctx, NewTask{Title: fmt.Sprintf("Task %d", i)}); err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("add: %v", err)
	}

	tasks := mustTasks(t, s)
	if len(tasks) != n {
		t.Fatalf("added %d concurrently, stored %d", n, len(tasks))
	}
	seen := map[int64]bool{}
	for _, tk := range tasks {
		if seen[tk.ID] {
			t.Fatalf("duplicate id %d", tk.ID)
		}
		seen[tk.ID] = true
	}

	parent := tasks[0].ID
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, _, err := s.AddSubtask(ctx, parent, fmt.Sprintf("Step %d", i)); err != nil {
				t.Errorf("add subtask: %v", err)
			}
		}(i)
	}
	wg.Wait()
	got, err := s.Task(ctx, parent)
	if err != nil {
		t.Fatalf("task: %v", err)
	}
	if len(got.Subtasks) != n {
		t.Fatalf("expected %d subtasks, got %d", n, len(got.Subtasks))
	}
}
