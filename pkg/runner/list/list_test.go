package list

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/progressly/pkg/app"
	"tableflip.dev/progressly/pkg/store"
	"tableflip.dev/progressly/pkg/task"
)

var testNow = time.Date(2024, time.March, 15, 10, 0, 0, 0, time.Local)

func newTestService(t *testing.T) *app.Service {
	t.Helper()
	mem := store.NewMemory()
	tasks := []task.Task{
		{ID: 1, Title: "Run 5k", Priority: task.High, Category: "Health", Month: 2, Year: 2024, Progress: 40},
		{ID: 2, Title: "File taxes", Priority: task.Medium, Category: "Personal", Month: 1, Year: 2024, Progress: 100},
	}
	if err := store.WriteTasks(context.Background(), mem, store.TasksKey, tasks); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return &app.Service{Persistence: mem, Now: func() time.Time { return testNow }}
}

func TestListMonth(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	l := List{Query: app.Query{Month: 2, Year: 2024}, ShowID: true, Out: &buf, Service: newTestService(t)}
	if err := l.Do(context.Background()); err != nil {
		t.Fatalf("list: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "March 2024") || !strings.Contains(out, "Run 5k") || strings.Contains(out, "File taxes") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestListStructured(t *testing.T) {
	var buf bytes.Buffer
	l := List{Query: app.Query{Month: 2, Year: 2024, Search: "taxes"}, Format: "json", Out: &buf, Service: newTestService(t)}
	if err := l.Do(context.Background()); err != nil {
		t.Fatalf("list: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `"search": "taxes"`) || !strings.Contains(out, `"title": "File taxes"`) {
		t.Fatalf("unexpected json:\n%s", out)
	}
}

func TestShow(t *testing.T) {
	var buf bytes.Buffer
	s := Show{ID: 1, Format: "yaml", Out: &buf, Service: newTestService(t)}
	if err := s.Do(context.Background()); err != nil {
		t.Fatalf("show: %v", err)
	}
	if !strings.Contains(buf.String(), "title: Run 5k") {
		t.Fatalf("unexpected yaml:\n%s", buf.String())
	}

	s = Show{ID: 99, Out: &buf, Service: newTestService(t)}
	if err := s.Do(context.Background()); err == nil {
		t.Fatalf("expected error for unknown id")
	}
}

func TestNoService(t *testing.T) {
	if err := (&List{}).Do(context.Background()); err == nil {
		t.Fatalf("expected error without service")
	}
}
