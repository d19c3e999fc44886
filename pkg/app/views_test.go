package app

import (
	"context"
	"testing"

	"tableflip.dev/progressly/pkg/task"
)

func TestMonthView(t *testing.T) {
	s, _ := newTestService(t,
		task.Task{ID: 1, Title: "Run", Priority: task.Low, Month: 2, Year: 2024, Progress: 50},
		task.Task{ID: 2, Title: "Read", Priority: task.High, Month: 2, Year: 2024},
		task.Task{ID: 3, Title: "Old run", Priority: task.High, Month: 0, Year: 2024, Progress: 100},
	)
	month, year := s.CurrentMonth()
	if month != 2 || year != 2024 {
		t.Fatalf("expected march 2024, got %d/%d", month, year)
	}
	ctx := context.Background()

	v, err := s.MonthView(ctx, Query{Month: month, Year: year, Sort: SortPriority})
	if err != nil {
		t.Fatalf("month view: %v", err)
	}
	if len(v.Tasks) != 2 || v.Tasks[0].ID != 2 || v.Stats.Total != 2 || v.Stats.InProgress != 1 {
		t.Fatalf("unexpected view %+v", v)
	}

	v, err = s.MonthView(ctx, Query{Month: month, Year: year, Search: "run"})
	if err != nil {
		t.Fatalf("search view: %v", err)
	}
	if len(v.Tasks) != 2 || v.Stats.Total != 2 {
		t.Fatalf("expected search across months with march stats, got %+v", v)
	}

	v, err = s.MonthView(ctx, Query{Month: month, Year: year, Search: "  "})
	if err != nil {
		t.Fatalf("blank search view: %v", err)
	}
	if v.Search != "" || len(v.Tasks) != 2 {
		t.Fatalf("a blank search should give the month view, got %+v", v)
	}

	v, err = s.MonthView(ctx, Query{Month: 5, Year: 2024})
	if err != nil {
		t.Fatalf("empty view: %v", err)
	}
	if v.Tasks == nil || len(v.Tasks) != 0 {
		t.Fatalf("expected empty non-nil task list, got %#v", v.Tasks)
	}
}

func TestServiceStatisticsAndHistory(t *testing.T) {
	s, _ := newTestService(t,
		task.Task{ID: 1, Title: "A", Priority: task.Low, Category: "Health", Month: 2, Year: 2024, Progress: 100},
		task.Task{ID: 2, Title: "B", Priority: task.Low, Category: "Work", Month: 1, Year: 2024},
	)
	ctx := context.Background()
	stats, err := s.Statistics(ctx, nil)
	if err != nil {
		t.Fatalf("statistics: %v", err)
	}
	if stats.Overview.Total != 2 || len(stats.Categories) != len(task.DefaultCategories) {
		t.Fatalf("unexpected statistics %+v", stats.Overview)
	}
	stats, _ = s.Statistics(ctx, []string{"Work"})
	if len(stats.Categories) != 1 || stats.Categories[0].Total != 1 {
		t.Fatalf("expected configured categories, got %+v", stats.Categories)
	}

	groups, err := s.History(ctx)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(groups) != 2 || groups[0].Month != 2 {
		t.Fatalf("unexpected history %+v", groups)
	}
}
