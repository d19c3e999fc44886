package commands

import (
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/progressly/pkg/commands/options"
	"tableflip.dev/progressly/pkg/runner/edit"
)

func addEdit(topLevel *cobra.Command) {
	to := &options.TaskOptions{}
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change the title, priority, category or due date of a task",
		Example: `
progressly edit 1710496800000 --title "Run a 10k"
progressly edit 1710496800000 --priority low --due none
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

			e, err := to.Edit(cmd, s.settings.Categories, time.Now())
			if err != nil {
				return oo.HandleError(err)
			}
			ed := edit.Edit{ID: id, Edit: e, Format: oo.Format, Service: s.service}
			return oo.HandleError(ed.Do(cmd.Context()))
		},
	}

	options.AddEditArgs(cmd, to)
	registerCategoryCompletion(cmd)
	options.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}
