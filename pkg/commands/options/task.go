package options

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/progressly/pkg/app"
	"tableflip.dev/progressly/pkg/task"
)

// TaskOptions holds the task field flags shared by add and edit.
type TaskOptions struct {
	Title    string
	Priority string
	Category string
	Due      string
	Month    string
	Year     int
}

func addFieldArgs(cmd *cobra.Command, o *TaskOptions) {
	cmd.Flags().StringVarP(&o.Priority, "priority", "p", "",
		"Priority, one of high, medium or low.")
	cmd.Flags().StringVarP(&o.Category, "category", "c", "",
		"Category, one of the configured categories.")
	cmd.Flags().StringVarP(&o.Due, "due", "d", "",
		`Due date, example: --due="2024-03-28" or --due="3/28".`)
	_ = cmd.RegisterFlagCompletionFunc("priority", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{string(task.High), string(task.Medium), string(task.Low)}, cobra.ShellCompDirectiveNoFileComp
	})
}

// AddTaskArgs registers the flags used when creating a task.
func AddTaskArgs(cmd *cobra.Command, o *TaskOptions) {
	addFieldArgs(cmd, o)
	cmd.Flags().StringVarP(&o.Month, "month", "m", "",
		"Month to add the task to, as 1-12 or a month name. Defaults to this month.")
	cmd.Flags().IntVarP(&o.Year, "year", "y", 0,
		"Year to add the task to. Defaults to this year.")
}

// AddEditArgs registers the flags used when editing a task.
func AddEditArgs(cmd *cobra.Command, o *TaskOptions) {
	cmd.Flags().StringVarP(&o.Title, "title", "t", "",
		"New title.")
	addFieldArgs(cmd, o)
}

func category(c string, categories []string) (string, error) {
	for _, known := range categories {
		if strings.EqualFold(known, c) {
			return known, nil
		}
	}
	return "", fmt.Errorf("unknown category %q, expected one of %s", c, strings.Join(categories, ", "))
}

func priority(p string) (task.Priority, error) {
	parsed, ok := task.ParsePriority(p)
	if !ok {
		return "", fmt.Errorf("unknown priority %q, expected high, medium or low", p)
	}
	return parsed, nil
}

// NewTask resolves the flags into a task to create.
func (o *TaskOptions) NewTask(title string, categories []string, now time.Time) (app.NewTask, error) {
	in := app.NewTask{Title: title}
	var err error
	if o.Priority != "" {
		if in.Priority, err = priority(o.Priority); err != nil {
			return in, err
		}
	}
	if o.Category != "" {
		if in.Category, err = category(o.Category, categories); err != nil {
			return in, err
		}
	} else if len(categories) > 0 {
		in.Category = categories[0]
	}
	if in.DueDate, err = ParseDue(o.Due, now); err != nil {
		return in, err
	}
	if o.Month != "" {
		m, err := ParseMonth(o.Month)
		if err != nil {
			return in, err
		}
		in.Month = &m
	}
	if o.Year != 0 {
		y := o.Year
		in.Year = &y
	}
	return in, nil
}

// Edit resolves the flags that were set on cmd into an edit.
func (o *TaskOptions) Edit(cmd *cobra.Command, categories []string, now time.Time) (app.Edit, error) {
	var e app.Edit
	flags := cmd.Flags()
	if flags.Changed("title") {
		e.Title = &o.Title
	}
	if flags.Changed("priority") {
		p, err := priority(o.Priority)
		if err != nil {
			return e, err
		}
		e.Priority = &p
	}
	if flags.Changed("category") {
		c, err := category(o.Category, categories)
		if err != nil {
			return e, err
		}
		e.Category = &c
	}
	if flags.Changed("due") {
		d, err := ParseDue(o.Due, now)
		if err != nil {
			return e, err
		}
		e.DueDate = &d
	}
	return e, nil
}
