package options

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/progressly/pkg/app"
	"tableflip.dev/progressly/pkg/timeutil"
)

// QueryOptions selects a month view.
type QueryOptions struct {
	Month  string
	Year   int
	Filter string
	Sort   string
	Search string
}

func AddQueryArgs(cmd *cobra.Command, o *QueryOptions) {
	cmd.Flags().StringVarP(&o.Month, "month", "m", "",
		"Month to show, as 1-12, a month name, next or prev. Defaults to this month.")
	cmd.Flags().IntVarP(&o.Year, "year", "y", 0,
		"Year to show. Defaults to this year.")
	cmd.Flags().StringVarP(&o.Filter, "filter", "f", string(app.FilterAll),
		"Filter, one of all, pending, inprogress, completed, overdue, dueToday or dueThisWeek.")
	cmd.Flags().StringVarP(&o.Sort, "sort", "s", string(app.SortPriority),
		"Sort order, one of priority, dueDate or progress.")
	cmd.Flags().StringVarP(&o.Search, "search", "q", "",
		"Search every month for tasks matching the text.")
	_ = cmd.RegisterFlagCompletionFunc("filter", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		names := make([]string, 0, len(app.Filters))
		for _, f := range app.Filters {
			names = append(names, string(f))
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	})
	_ = cmd.RegisterFlagCompletionFunc("sort", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		names := make([]string, 0, len(app.SortKeys))
		for _, k := range app.SortKeys {
			names = append(names, string(k))
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	})
}

// Query resolves the flags against now.
func (o *QueryOptions) Query(now time.Time) (app.Query, error) {
	q := app.Query{
		Month:  timeutil.MonthIndex(now.Month()),
		Year:   now.Year(),
		Search: o.Search,
	}
	switch strings.ToLower(strings.TrimSpace(o.Month)) {
	case "":
	case "next":
		q.Month, q.Year = timeutil.AddMonths(q.Month, q.Year, 1)
	case "prev", "last":
		q.Month, q.Year = timeutil.AddMonths(q.Month, q.Year, -1)
	default:
		m, err := ParseMonth(o.Month)
		if err != nil {
			return q, err
		}
		q.Month = m
	}
	if o.Year != 0 {
		q.Year = o.Year
	}
	var err error
	if q.Filter, err = app.ParseFilter(o.Filter); err != nil {
		return q, err
	}
	if q.Sort, err = app.ParseSort(o.Sort); err != nil {
		return q, err
	}
	return q, nil
}

// ParseMonth turns 1-12, a full month name or a three letter abbreviation
// into a zero-based month index.
func ParseMonth(v string) (int, error) {
	v = strings.TrimSpace(v)
	if n, err := strconv.Atoi(v); err == nil {
		if n < 1 || n > 12 {
			return 0, fmt.Errorf("month %d outside 1-12", n)
		}
		return n - 1, nil
	}
	for i := 0; i < 12; i++ {
		if strings.EqualFold(v, timeutil.MonthName(i)) || strings.EqualFold(v, timeutil.MonthShort(i)) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown month %q", v)
}
