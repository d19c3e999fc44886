package printers

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/progressly/pkg/app"
	"tableflip.dev/progressly/pkg/task"
	"tableflip.dev/progressly/pkg/timeutil"
)

var testNow = time.Date(2024, time.March, 15, 10, 0, 0, 0, time.Local)

func newTestPrinter(showID bool) (*PrettyPrint, *bytes.Buffer) {
	color.NoColor = true
	buf := &bytes.Buffer{}
	return &PrettyPrint{ShowID: showID, Out: buf, Now: testNow}, buf
}

func TestProgressBarASCII(t *testing.T) {
	color.NoColor = true
	if got := ProgressBar(50, 10); !strings.Contains(got, "#####-----") || !strings.HasSuffix(got, " 50%") {
		t.Fatalf("unexpected bar %q", got)
	}
	if got := ProgressBar(150, 4); !strings.Contains(got, "####") || !strings.HasSuffix(got, "100%") {
		t.Fatalf("expected clamped bar, got %q", got)
	}
}

func TestTasksTable(t *testing.T) {
	pp, buf := newTestPrinter(true)
	pp.Tasks(
		task.Task{ID: 11, Title: "Run 5k", Priority: task.High, Category: "Health", Month: 2, Year: 2024, Progress: 40,
			DueDate: timeutil.Date{Year: 2024, Month: time.March, Day: 14}},
		task.Task{ID: 12, Title: "Read book", Priority: task.Low, Category: "Learning", Month: 2, Year: 2024,
			MigratedFrom: &task.MonthRef{Month: 1, Year: 2024},
			Subtasks:     []task.Subtask{{ID: 1, Progress: 100}, {ID: 2}}},
	)
	out := buf.String()
	for _, want := range []string{"11", "Run 5k", "Health", " 40%", "Yesterday", "Read book (1/2)", " 50%", "↪ Feb 2024"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestTasksEmpty(t *testing.T) {
	pp, buf := newTestPrinter(false)
	pp.Tasks()
	if !strings.Contains(buf.String(), "none") {
		t.Fatalf("expected none marker, got %q", buf.String())
	}
}

func TestTaskDetail(t *testing.T) {
	pp, buf := newTestPrinter(false)
	pp.Task(task.Task{ID: 7, Title: "Learn Go", Priority: task.Medium, Category: "Learning", Month: 2, Year: 2024,
		Subtasks: []task.Subtask{{ID: 1, Title: "Tour", Progress: 100}, {ID: 2, Title: "Book", Progress: 50}}})
	out := buf.String()
	for _, want := range []string{"Learn Go", "Medium", "March 2024", " 75%", "Subtasks", "Tour", "Book"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestTrash(t *testing.T) {
	pp, buf := newTestPrinter(false)
	deleted := testNow.Add(-2 * time.Hour).UnixMilli()
	pp.Trash(task.Task{ID: 3, Title: "Old idea", Priority: task.Low, Month: 1, Year: 2024, DeletedAt: &deleted})
	out := buf.String()
	for _, want := range []string{"Trash - 1 task", "Old idea", "Feb 2024", "2h ago"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestStatsAndHistory(t *testing.T) {
	pp, buf := newTestPrinter(false)
	tasks := []task.Task{
		{ID: testNow.Add(-time.Hour).UnixMilli(), Title: "A", Priority: task.High, Category: "Health", Month: 2, Year: 2024, Progress: 100},
		{ID: 2, Title: "B", Priority: task.Low, Category: "Personal", Month: 1, Year: 2024},
	}
	pp.Stats(app.Compute(tasks, task.DefaultCategories, testNow))
	out := buf.String()
	for _, want := range []string{"Overview", "1 days", "Categories", "Health", "Priorities", "High", "50%", "Week 4", "Monthly", "Mar 2024", "Last 7 days", "Fri"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in stats output:\n%s", want, out)
		}
	}

	buf.Reset()
	pp.History(app.MonthsWithTasks(tasks))
	out = buf.String()
	if strings.Index(out, "March 2024") > strings.Index(out, "February 2024") || !strings.Contains(out, "1 done") {
		t.Fatalf("expected newest month first:\n%s", out)
	}
}
