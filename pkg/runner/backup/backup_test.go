package backup

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"tableflip.dev/progressly/pkg/app"
	"tableflip.dev/progressly/pkg/store"
	"tableflip.dev/progressly/pkg/task"
)

var testNow = time.Date(2024, time.March, 15, 10, 0, 0, 0, time.Local)

func newService() *app.Service {
	return &app.Service{Persistence: store.NewMemory(), Now: func() time.Time { return testNow }}
}

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	src := newService()
	a, err := src.AddTask(ctx, app.NewTask{Title: "Keep", Priority: task.High})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	b, err := src.AddTask(ctx, app.NewTask{Title: "Drop"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := src.MoveToTrash(ctx, b.ID); err != nil {
		t.Fatalf("trash: %v", err)
	}

	for _, format := range []string{"json", "yaml"} {
		var buf bytes.Buffer
		if err := (&Export{Format: format, Out: &buf, Service: src}).Do(ctx); err != nil {
			t.Fatalf("%s export: %v", format, err)
		}

		dst := newService()
		if _, err := dst.AddTask(ctx, app.NewTask{Title: "Existing"}); err != nil {
			t.Fatalf("add: %v", err)
		}
		var report bytes.Buffer
		if err := (&Import{In: &buf, Replace: true, Out: &report, Service: dst}).Do(ctx); err != nil {
			t.Fatalf("%s import: %v", format, err)
		}
		tasks, _ := dst.Tasks(ctx)
		trash, _ := dst.Trash(ctx)
		if len(tasks) != 1 || tasks[0].ID != a.ID || tasks[0].Priority != task.High {
			t.Fatalf("%s: unexpected tasks %+v", format, tasks)
		}
		if len(trash) != 1 || trash[0].ID != b.ID || trash[0].DeletedAt == nil {
			t.Fatalf("%s: unexpected trash %+v", format, trash)
		}
		if !strings.Contains(report.String(), "Imported 1 tasks and 1 trashed tasks (replaced)") {
			t.Fatalf("unexpected report %q", report.String())
		}
	}
}

func TestDecode(t *testing.T) {
	doc, err := Decode([]byte(`[{"id":1,"title":"Bare","priority":"low","category":"Other","month":2,"year":2024,"progress":0,"subtasks":[],"dueDate":null}]`))
	if err != nil {
		t.Fatalf("bare array: %v", err)
	}
	if len(doc.Tasks) != 1 || doc.Tasks[0].Title != "Bare" {
		t.Fatalf("unexpected doc %+v", doc)
	}

	doc, err = Decode([]byte("version: 1\ntasks:\n- id: 2\n  title: From yaml\n  priority: medium\n  category: Health\n  month: 1\n  year: 2024\n  dueDate: \"2024-02-20\"\n"))
	if err != nil {
		t.Fatalf("yaml: %v", err)
	}
	if len(doc.Tasks) != 1 || doc.Tasks[0].DueDate.String() != "2024-02-20" || doc.Tasks[0].Subtasks == nil {
		t.Fatalf("unexpected yaml doc %+v", doc)
	}

	if _, err := Decode([]byte(`{"version": 9}`)); !errors.Is(err, task.ErrInvalid) {
		t.Fatalf("expected ErrInvalid for newer version, got %v", err)
	}
	if _, err := Decode([]byte(`{"tasks": "nope"}`)); !errors.Is(err, task.ErrInvalid) {
		t.Fatalf("expected ErrInvalid for bad shape, got %v", err)
	}
}
