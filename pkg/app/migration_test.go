package app

import (
	"context"
	"testing"
	"time"

	"tableflip.dev/progressly/pkg/store"
	"tableflip.dev/progressly/pkg/task"
)

func TestMigrateMovesUnfinishedPastTasks(t *testing.T) {
	today := time.Date(2024, time.March, 15, 9, 0, 0, 0, time.Local)
	in := []task.Task{
		{ID: 1, Title: "feb half", Priority: task.Medium, Month: 1, Year: 2024, Progress: 50},
		{ID: 2, Title: "feb done", Priority: task.Medium, Month: 1, Year: 2024, Progress: 100},
		{ID: 3, Title: "last year", Priority: task.Medium, Month: 11, Year: 2023,
			Subtasks: []task.Subtask{{ID: 30, Progress: 100}, {ID: 31, Progress: 0}}},
		{ID: 4, Title: "subtasks done", Priority: task.Medium, Month: 0, Year: 2024, Progress: 10,
			Subtasks: []task.Subtask{{ID: 40, Progress: 100}}},
		{ID: 5, Title: "current", Priority: task.Medium, Month: 2, Year: 2024, Progress: 10,
			MigratedFrom: &task.MonthRef{Month: 0, Year: 2024}},
		{ID: 6, Title: "future", Priority: task.Medium, Month: 6, Year: 2024},
	}

	out := Migrate(in, today)

	if out[0].Month != 2 || out[0].Year != 2024 || out[0].MigratedFrom == nil || *out[0].MigratedFrom != (task.MonthRef{Month: 1, Year: 2024}) {
		t.Fatalf("expected feb task migrated, got %+v", out[0])
	}
	if out[1].Month != 1 || out[1].MigratedFrom != nil {
		t.Fatalf("completed task must stay, got %+v", out[1])
	}
	if out[2].Month != 2 || out[2].Year != 2024 || *out[2].MigratedFrom != (task.MonthRef{Month: 11, Year: 2023}) {
		t.Fatalf("expected last year task migrated, got %+v", out[2])
	}
	if out[3].Month != 0 || out[3].MigratedFrom != nil {
		t.Fatalf("task complete by subtasks must stay, got %+v", out[3])
	}
	if out[4].MigratedFrom == nil || *out[4].MigratedFrom != (task.MonthRef{Month: 0, Year: 2024}) {
		t.Fatalf("existing migratedFrom must be preserved, got %+v", out[4])
	}
	if out[5].Month != 6 || out[5].MigratedFrom != nil {
		t.Fatalf("future task must stay, got %+v", out[5])
	}
	if in[0].Month != 1 || in[0].MigratedFrom != nil {
		t.Fatalf("input must not be modified, got %+v", in[0])
	}
	if n := MigratedCount(in, out); n != 2 {
		t.Fatalf("expected 2 migrated, got %d", n)
	}

	again := Migrate(out, today)
	for i := range out {
		if again[i].Month != out[i].Month || again[i].Year != out[i].Year {
			t.Fatalf("migration not idempotent at %d: %+v vs %+v", i, again[i], out[i])
		}
		if (again[i].MigratedFrom == nil) != (out[i].MigratedFrom == nil) {
			t.Fatalf("migratedFrom changed on second pass at %d", i)
		}
	}
}

func TestMigrateEmpty(t *testing.T) {
	if out := Migrate(nil, testNow); len(out) != 0 {
		t.Fatalf("expected empty result, got %+v", out)
	}
}

func TestLoadPersistsMigration(t *testing.T) {
	s, mem := newTestService(t, task.Task{ID: 1, Title: "old", Priority: task.Low, Month: 0, Year: 2024, Progress: 30})
	n, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 migrated task, got %d", n)
	}
	stored, err := store.ReadTasks(context.Background(), mem, store.TasksKey)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if stored[0].Month != 2 || stored[0].MigratedFrom == nil || stored[0].MigratedFrom.Month != 0 {
		t.Fatalf("expected migrated task written back, got %+v", stored[0])
	}
	if n, err := s.Load(context.Background()); err != nil || n != 0 {
		t.Fatalf("second load should migrate nothing, got %d %v", n, err)
	}
}
