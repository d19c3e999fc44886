package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"tableflip.dev/progressly/pkg/task"
)

func backends(t *testing.T) map[string]Persistence {
	t.Helper()
	dir := t.TempDir()
	dv, err := Load(testConfig{path: filepath.Join(dir, "diskv"), backend: "diskv"})
	if err != nil {
		t.Fatalf("diskv: %v", err)
	}
	sq, err := OpenSQLite(filepath.Join(dir, "sqlite", "progressly.db"))
	if err != nil {
		t.Fatalf("sqlite: %v", err)
	}
	mem, err := OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("sqlite memory: %v", err)
	}
	all := map[string]Persistence{
		"diskv":         dv,
		"sqlite":        sq,
		"sqlite-memory": mem,
		"memory":        NewMemory(),
	}
	t.Cleanup(func() {
		for name, p := range all {
			if err := p.Close(); err != nil {
				t.Errorf("closing %s: %v", name, err)
			}
		}
	})
	return all
}

func TestBackendsRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, p := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := p.Read(ctx, TasksKey); !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}
			if err := p.Write(ctx, TasksKey, []byte(`[1]`)); err != nil {
				t.Fatalf("write: %v", err)
			}
			if err := p.Write(ctx, TasksKey, []byte(`[2]`)); err != nil {
				t.Fatalf("overwrite: %v", err)
			}
			if err := p.Write(ctx, AuthKey, []byte(`{}`)); err != nil {
				t.Fatalf("write auth: %v", err)
			}
			got, err := p.Read(ctx, TasksKey)
			if err != nil {
				t.Fatalf("read: %v", err)
			}
			if string(got) != `[2]` {
				t.Fatalf("expected [2], got %s", got)
			}
			keys, err := p.Keys(ctx)
			if err != nil {
				t.Fatalf("keys: %v", err)
			}
			if len(keys) != 2 || keys[0] != AuthKey || keys[1] != TasksKey {
				t.Fatalf("unexpected keys %v", keys)
			}
			if err := p.Erase(ctx, AuthKey); err != nil {
				t.Fatalf("erase: %v", err)
			}
			if err := p.Erase(ctx, AuthKey); err != nil {
				t.Fatalf("erase missing key: %v", err)
			}
			if _, err := p.Read(ctx, AuthKey); !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound after erase, got %v", err)
			}
		})
	}
}

func TestReadTasks(t *testing.T) {
	ctx := context.Background()
	p := NewMemory()

	tasks, err := ReadTasks(ctx, p, TasksKey)
	if err != nil {
		t.Fatalf("read missing: %v", err)
	}
	if tasks == nil || len(tasks) != 0 {
		t.Fatalf("expected empty list, got %#v", tasks)
	}

	want := []task.Task{{ID: 1, Title: "Run", Priority: task.High, Category: "Health", Month: 2, Year: 2024}}
	if err := WriteTasks(ctx, p, TasksKey, want); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := ReadTasks(ctx, p, TasksKey)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != 1 || got[0].Title != "Run" || got[0].Priority != task.High {
		t.Fatalf("unexpected tasks %+v", got)
	}

	if err := p.Write(ctx, TasksKey, []byte(`{"not":"a list"}`)); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := ReadTasks(ctx, p, TasksKey); !errors.Is(err, task.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	if err := p.Write(ctx, TasksKey, []byte(`[{"id":1,"title":"","priority":"high"}]`)); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := ReadTasks(ctx, p, TasksKey); !errors.Is(err, task.ErrInvalid) {
		t.Fatalf("expected ErrInvalid for empty title, got %v", err)
	}
}

func TestReadJSONMissingKey(t *testing.T) {
	var v map[string]string
	found, err := ReadJSON(context.Background(), NewMemory(), UsersKey, &v)
	if err != nil || found {
		t.Fatalf("expected not found without error, got %v %v", found, err)
	}
}

func TestDiskvSeesWritesFromAnotherProcess(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	a, err := newDiskv(dir)
	if err != nil {
		t.Fatalf("diskv a: %v", err)
	}
	b, err := newDiskv(dir)
	if err != nil {
		t.Fatalf("diskv b: %v", err)
	}

	if err := a.Write(ctx, TasksKey, []byte(`[]`)); err != nil {
		t.Fatalf("write: %v", err)
	}
	if got, err := a.Read(ctx, TasksKey); err != nil || string(got) != `[]` {
		t.Fatalf("first read = %q, %v", got, err)
	}
	if err := b.Write(ctx, TasksKey, []byte(`[{"id":1}]`)); err != nil {
		t.Fatalf("external write: %v", err)
	}
	got, err := a.Read(ctx, TasksKey)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != `[{"id":1}]` {
		t.Fatalf("after external write got %q", got)
	}

	if err := b.Erase(ctx, TasksKey); err != nil {
		t.Fatalf("erase: %v", err)
	}
	if _, err := a.Read(ctx, TasksKey); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after external erase, got %v", err)
	}
}
