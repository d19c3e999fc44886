package options

import (
	"testing"
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/progressly/pkg/app"
	"tableflip.dev/progressly/pkg/task"
	"tableflip.dev/progressly/pkg/timeutil"
)

var testNow = time.Date(2024, time.March, 15, 10, 0, 0, 0, time.Local)

func TestParseMonth(t *testing.T) {
	tests := map[string]struct {
		in      string
		want    int
		wantErr bool
	}{
		"number":       {in: "3", want: 2},
		"december":     {in: "12", want: 11},
		"full name":    {in: "July", want: 6},
		"short name":   {in: "sep", want: 8},
		"out of range": {in: "13", wantErr: true},
		"zero":         {in: "0", wantErr: true},
		"unknown":      {in: "smarch", wantErr: true},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := ParseMonth(tc.in)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tc.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("ParseMonth(%q) = %d, want %d", tc.in, got, tc.want)
			}
		})
	}
}

func TestParseDue(t *testing.T) {
	tests := map[string]struct {
		in   string
		want timeutil.Date
	}{
		"empty":          {in: "", want: timeutil.Date{}},
		"none":           {in: "none", want: timeutil.Date{}},
		"iso":            {in: "2024-04-01", want: timeutil.Date{Year: 2024, Month: time.April, Day: 1}},
		"short ahead":    {in: "3/28", want: timeutil.Date{Year: 2024, Month: time.March, Day: 28}},
		"short today":    {in: "3/15", want: timeutil.Date{Year: 2024, Month: time.March, Day: 15}},
		"short rollover": {in: "1/3", want: timeutil.Date{Year: 2025, Month: time.January, Day: 3}},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := ParseDue(tc.in, testNow)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("ParseDue(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
	if _, err := ParseDue("someday", testNow); err == nil {
		t.Fatalf("expected error for an unparseable date")
	}
}

func TestQueryDefaults(t *testing.T) {
	o := QueryOptions{Filter: "pending", Sort: "DUEDATE"}
	q, err := o.Query(testNow)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if q.Month != 2 || q.Year != 2024 || q.Filter != app.FilterPending || q.Sort != app.SortDueDate {
		t.Fatalf("unexpected query: %+v", q)
	}

	q, err = (&QueryOptions{Search: " tax"}).Query(testNow)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if q.Search != " tax" {
		t.Fatalf("search text should be passed through, got %q", q.Search)
	}
}

func TestQueryRelativeMonths(t *testing.T) {
	jan := time.Date(2024, time.January, 10, 0, 0, 0, 0, time.Local)
	q, err := (&QueryOptions{Month: "prev"}).Query(jan)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if q.Month != 11 || q.Year != 2023 {
		t.Fatalf("expected December 2023, got %d/%d", q.Month, q.Year)
	}
	q, err = (&QueryOptions{Month: "next", Year: 2030}).Query(jan)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if q.Month != 1 || q.Year != 2030 {
		t.Fatalf("expected February 2030, got %d/%d", q.Month, q.Year)
	}
	if _, err := (&QueryOptions{Filter: "someday"}).Query(jan); err == nil {
		t.Fatalf("expected unknown filter error")
	}
}

func TestNewTask(t *testing.T) {
	o := TaskOptions{Priority: "High", Category: "health", Due: "3/20", Month: "april"}
	in, err := o.NewTask("Run", task.DefaultCategories, testNow)
	if err != nil {
		t.Fatalf("new task: %v", err)
	}
	if in.Priority != task.High || in.Category != "Health" || in.Month == nil || *in.Month != 3 || in.Year != nil {
		t.Fatalf("unexpected new task: %+v", in)
	}
	if in.DueDate != (timeutil.Date{Year: 2024, Month: time.March, Day: 20}) {
		t.Fatalf("unexpected due date: %v", in.DueDate)
	}

	in, err = (&TaskOptions{}).NewTask("Read", []string{"Work", "Home"}, testNow)
	if err != nil {
		t.Fatalf("new task: %v", err)
	}
	if in.Category != "Work" {
		t.Fatalf("expected first configured category, got %q", in.Category)
	}

	if _, err := (&TaskOptions{Category: "Travel"}).NewTask("x", task.DefaultCategories, testNow); err == nil {
		t.Fatalf("expected unknown category error")
	}
	if _, err := (&TaskOptions{Priority: "urgent"}).NewTask("x", task.DefaultCategories, testNow); err == nil {
		t.Fatalf("expected unknown priority error")
	}
}

func TestEditOnlyChangedFlags(t *testing.T) {
	o := &TaskOptions{}
	cmd := &cobra.Command{Use: "edit"}
	AddEditArgs(cmd, o)
	if err := cmd.Flags().Parse([]string{"--priority", "low", "--due", "none"}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	e, err := o.Edit(cmd, task.DefaultCategories, testNow)
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if e.Title != nil || e.Category != nil {
		t.Fatalf("unset flags should stay nil: %+v", e)
	}
	if e.Priority == nil || *e.Priority != task.Low {
		t.Fatalf("expected low priority, got %v", e.Priority)
	}
	if e.DueDate == nil || !e.DueDate.IsZero() {
		t.Fatalf("expected the due date to be cleared, got %v", e.DueDate)
	}
}

func TestOutputValidate(t *testing.T) {
	o := &OutputOptions{Format: " JSON "}
	if err := o.Validate(); err != nil || o.Format != "json" {
		t.Fatalf("expected json, got %q (%v)", o.Format, err)
	}
	if err := (&OutputOptions{Format: "xml"}).Validate(); err == nil {
		t.Fatalf("expected xml to be rejected")
	}
}

func TestParseID(t *testing.T) {
	if id, err := ParseID("task", " 42 "); err != nil || id != 42 {
		t.Fatalf("ParseID = %d, %v", id, err)
	}
	if _, err := ParseID("task", "abc"); err == nil {
		t.Fatalf("expected error")
	}
}
