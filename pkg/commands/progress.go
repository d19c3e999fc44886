package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/progressly/pkg/commands/options"
	"tableflip.dev/progressly/pkg/runner/progress"
)

func addProgress(topLevel *cobra.Command) {
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "progress <id> <percent>",
		Short: "Set the progress of a task",
		Long: `Set the manual progress of a task, from 0 to 100. Values outside the range
are clamped. A task with subtasks reports the average of its subtasks instead.`,
		Example: `
progressly progress 1710496800000 40
progressly progress 1710496800000 75%
`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			if err := oo.Validate(); err != nil {
				return err
			}
			id, err := options.ParseID("task", args[0])
			if err != nil {
				return oo.HandleError(err)
			}
			value, err := progress.ParseValue(args[1])
			if err != nil {
				return oo.HandleError(err)
			}
			s, err := open(cmd.Context())
			if err != nil {
				return oo.HandleError(err)
			}
			defer s.close()

			p := progress.Progress{ID: id, Value: value, Format: oo.Format, Service: s.service}
			return oo.HandleError(p.Do(cmd.Context()))
		},
	}

	options.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}

func addDone(topLevel *cobra.Command) {
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "done <id>",
		Short: "Mark a task complete",
		Example: `
progressly done 1710496800000
`,
		Args: cobra.ExactArgs(1),
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

			p := progress.Progress{ID: id, Done: true, Format: oo.Format, Service: s.service}
			return oo.HandleError(p.Do(cmd.Context()))
		},
	}

	options.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}
