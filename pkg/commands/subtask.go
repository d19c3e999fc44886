package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/progressly/pkg/commands/options"
	"tableflip.dev/progressly/pkg/runner/progress"
	"tableflip.dev/progressly/pkg/runner/subtask"
)

func addSubtask(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "subtask",
		Aliases: []string{"sub"},
		Short:   "Add, update or remove subtasks",
		Long: `Subtasks split a task into steps. Once a task has subtasks its progress is
the average of theirs.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	addSubtaskAdd(cmd)
	addSubtaskProgress(cmd)
	addSubtaskRemove(cmd)

	topLevel.AddCommand(cmd)
}

func addSubtaskAdd(parent *cobra.Command) {
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "add <task-id> <title>",
		Short: "Append a subtask to a task",
		Example: `
progressly subtask add 1710496800000 Buy running shoes
`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			if err := oo.Validate(); err != nil {
				return err
			}
			id, err := options.ParseID("task", args[0])
			if err != nil {
				return oo.HandleError(err)
			}
			s, err := open(cmd.Context())
			if err != nil {
				return oo.HandleError(err)
			}
			defer s.close()

			a := subtask.Add{TaskID: id, Title: strings.Join(args[1:], " "), Format: oo.Format, Service: s.service}
			return oo.HandleError(a.Do(cmd.Context()))
		},
	}

	options.AddOutputArg(cmd, oo)

	parent.AddCommand(cmd)
}

func addSubtaskProgress(parent *cobra.Command) {
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "progress <task-id> <subtask-id> <percent>",
		Short: "Set the progress of a subtask",
		Example: `
progressly subtask progress 1710496800000 1710496900000 100
`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			if err := oo.Validate(); err != nil {
				return err
			}
			taskID, err := options.ParseID("task", args[0])
			if err != nil {
				return oo.HandleError(err)
			}
			subtaskID, err := options.ParseID("subtask", args[1])
			if err != nil {
				return oo.HandleError(err)
			}
			value, err := progress.ParseValue(args[2])
			if err != nil {
				return oo.HandleError(err)
			}
			s, err := open(cmd.Context())
			if err != nil {
				return oo.HandleError(err)
			}
			defer s.close()

			p := subtask.Progress{TaskID: taskID, SubtaskID: subtaskID, Value: value, Format: oo.Format, Service: s.service}
			return oo.HandleError(p.Do(cmd.Context()))
		},
	}

	options.AddOutputArg(cmd, oo)

	parent.AddCommand(cmd)
}

func addSubtaskRemove(parent *cobra.Command) {
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:     "rm <task-id> <subtask-id>",
		Aliases: []string{"remove"},
		Short:   "Remove a subtask",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			if err := oo.Validate(); err != nil {
				return err
			}
			taskID, err := options.ParseID("task", args[0])
			if err != nil {
				return oo.HandleError(err)
			}
			subtaskID, err := options.ParseID("subtask", args[1])
			if err != nil {
				return oo.HandleError(err)
			}
			s, err := open(cmd.Context())
			if err != nil {
				return oo.HandleError(err)
			}
			defer s.close()

			r := subtask.Remove{TaskID: taskID, SubtaskID: subtaskID, Format: oo.Format, Service: s.service}
			return oo.HandleError(r.Do(cmd.Context()))
		},
	}

	options.AddOutputArg(cmd, oo)

	parent.AddCommand(cmd)
}
