package app

import (
	"fmt"
	"sort"
	"time"

	"tableflip.dev/progressly/pkg/task"
	"tableflip.dev/progressly/pkg/timeutil"
)

// The weekly, daily and streak statistics bucket tasks by their id, which is
// the creation time in milliseconds. A task finished today that was created
// last week counts for last week.

// Summary aggregates a set of tasks.
type Summary struct {
	Total       int `json:"total"`
	Completed   int `json:"completed"`
	InProgress  int `json:"inProgress"`
	AvgProgress int `json:"avgProgress"`
}

// Summarize counts and averages tasks by effective progress.
func Summarize(tasks []task.Task) Summary {
	s := Summary{Total: len(tasks)}
	values := make([]int, len(tasks))
	for i, t := range tasks {
		p := task.EffectiveProgress(t)
		values[i] = p
		switch {
		case p == 100:
			s.Completed++
		case p > 0:
			s.InProgress++
		}
	}
	s.AvgProgress = task.Mean(values)
	return s
}

// MonthStats summarises the tasks of one month bucket.
func MonthStats(tasks []task.Task, month, year int) Summary {
	return Summarize(MonthTasks(tasks, month, year))
}

type CategoryStat struct {
	Category    string `json:"category"`
	Total       int    `json:"total"`
	Completed   int    `json:"completed"`
	AvgProgress int    `json:"avgProgress"`
}

// CategoryStats returns one entry per known category, in the given order.
// Tasks in other categories are not counted.
func CategoryStats(tasks []task.Task, categories []string) []CategoryStat {
	out := make([]CategoryStat, 0, len(categories))
	for _, c := range categories {
		var in []task.Task
		for _, t := range tasks {
			if t.Category == c {
				in = append(in, t)
			}
		}
		s := Summarize(in)
		out = append(out, CategoryStat{Category: c, Total: s.Total, Completed: s.Completed, AvgProgress: s.AvgProgress})
	}
	return out
}

type PriorityStat struct {
	Priority   task.Priority `json:"priority"`
	Count      int           `json:"count"`
	Percentage int           `json:"percentage"`
}

// PriorityStats counts tasks per priority, high first. Percentage is the
// rounded share of all tasks.
func PriorityStats(tasks []task.Task) []PriorityStat {
	out := make([]PriorityStat, 0, len(task.Priorities))
	for _, p := range task.Priorities {
		n := 0
		for _, t := range tasks {
			if t.Priority == p {
				n++
			}
		}
		pct := 0
		if len(tasks) > 0 {
			pct = task.Round(float64(n) / float64(len(tasks)) * 100)
		}
		out = append(out, PriorityStat{Priority: p, Count: n, Percentage: pct})
	}
	return out
}

type WeekStat struct {
	Label       string    `json:"week"`
	Start       time.Time `json:"start"`
	Total       int       `json:"total"`
	Completed   int       `json:"completed"`
	AvgProgress int       `json:"avgProgress"`
}

// WeeklyStats covers the current Sunday-started week and the three before
// it, oldest first.
func WeeklyStats(tasks []task.Task, now time.Time) []WeekStat {
	today := timeutil.Midnight(now)
	thisWeek := today.AddDate(0, 0, -int(today.Weekday()))
	out := make([]WeekStat, 0, 4)
	for i := 3; i >= 0; i-- {
		start := thisWeek.AddDate(0, 0, -7*i)
		end := start.AddDate(0, 0, 7)
		var in []task.Task
		for _, t := range tasks {
			created := createdAt(t, now.Location())
			if !created.Before(start) && created.Before(end) {
				in = append(in, t)
			}
		}
		s := Summarize(in)
		out = append(out, WeekStat{
			Label:       fmt.Sprintf("Week %d", 4-i),
			Start:       start,
			Total:       s.Total,
			Completed:   s.Completed,
			AvgProgress: s.AvgProgress,
		})
	}
	return out
}

type MonthTrend struct {
	Month          int    `json:"month"`
	Year           int    `json:"year"`
	Label          string `json:"label"`
	Total          int    `json:"total"`
	Completed      int    `json:"completed"`
	AvgProgress    int    `json:"avgProgress"`
	CompletionRate int    `json:"completionRate"`
}

// MonthlyTrends covers the current month and the five before it, oldest
// first, bucketed by each task's month and year.
func MonthlyTrends(tasks []task.Task, now time.Time) []MonthTrend {
	month, year := timeutil.MonthIndex(now.Month()), now.Year()
	out := make([]MonthTrend, 0, 6)
	for i := 5; i >= 0; i-- {
		m, y := timeutil.AddMonths(month, year, -i)
		s := MonthStats(tasks, m, y)
		rate := 0
		if s.Total > 0 {
			rate = task.Round(float64(s.Completed) / float64(s.Total) * 100)
		}
		out = append(out, MonthTrend{
			Month:          m,
			Year:           y,
			Label:          timeutil.MonthShort(m),
			Total:          s.Total,
			Completed:      s.Completed,
			AvgProgress:    s.AvgProgress,
			CompletionRate: rate,
		})
	}
	return out
}

type DayCount struct {
	Date  timeutil.Date `json:"date"`
	Day   string        `json:"day"`
	Count int           `json:"count"`
}

// DailyCompletion counts, for each of the last seven days ending today,
// the completed tasks created on that day.
func DailyCompletion(tasks []task.Task, now time.Time) []DayCount {
	completed := completedByDay(tasks, now.Location())
	today := timeutil.Midnight(now)
	out := make([]DayCount, 0, 7)
	for i := 6; i >= 0; i-- {
		d := today.AddDate(0, 0, -i)
		key := timeutil.DateOf(d)
		out = append(out, DayCount{Date: key, Day: d.Format("Mon"), Count: completed[key]})
	}
	return out
}

// CompletionStreak counts consecutive days, ending today, on which at least
// one completed task was created. A day without one ends the streak.
func CompletionStreak(tasks []task.Task, now time.Time) int {
	completed := completedByDay(tasks, now.Location())
	streak := 0
	day := timeutil.Midnight(now)
	for completed[timeutil.DateOf(day)] > 0 {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

func completedByDay(tasks []task.Task, loc *time.Location) map[timeutil.Date]int {
	out := make(map[timeutil.Date]int)
	for _, t := range tasks {
		if t.Complete() {
			out[timeutil.DateOf(createdAt(t, loc))]++
		}
	}
	return out
}

func createdAt(t task.Task, loc *time.Location) time.Time {
	return time.UnixMilli(t.ID).In(loc)
}

// Overview is the headline block of the statistics page.
type Overview struct {
	Summary
	Streak int `json:"streak"`
}

type Statistics struct {
	Overview   Overview       `json:"overview"`
	Categories []CategoryStat `json:"categories"`
	Priorities []PriorityStat `json:"priorities"`
	Weekly     []WeekStat     `json:"weekly"`
	Monthly    []MonthTrend   `json:"monthly"`
	Daily      []DayCount     `json:"daily"`
}

// Compute derives every statistic over the full collection.
func Compute(tasks []task.Task, categories []string, now time.Time) Statistics {
	return Statistics{
		Overview:   Overview{Summary: Summarize(tasks), Streak: CompletionStreak(tasks, now)},
		Categories: CategoryStats(tasks, categories),
		Priorities: PriorityStats(tasks),
		Weekly:     WeeklyStats(tasks, now),
		Monthly:    MonthlyTrends(tasks, now),
		Daily:      DailyCompletion(tasks, now),
	}
}

// MonthGroup is one month bucket of the history view.
type MonthGroup struct {
	Month int         `json:"month"`
	Year  int         `json:"year"`
	Tasks []task.Task `json:"tasks"`
	Stats Summary     `json:"stats"`
}

// MonthsWithTasks groups tasks by month bucket, newest first.
func MonthsWithTasks(tasks []task.Task) []MonthGroup {
	index := make(map[task.MonthRef]int)
	var groups []MonthGroup
	for _, t := range tasks {
		ref := task.MonthRef{Month: t.Month, Year: t.Year}
		i, ok := index[ref]
		if !ok {
			i = len(groups)
			index[ref] = i
			groups = append(groups, MonthGroup{Month: t.Month, Year: t.Year})
		}
		groups[i].Tasks = append(groups[i].Tasks, t)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].Year != groups[j].Year {
			return groups[i].Year > groups[j].Year
		}
		return groups[i].Month > groups[j].Month
	})
	for i := range groups {
		groups[i].Stats = Summarize(groups[i].Tasks)
	}
	return groups
}
