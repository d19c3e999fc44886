package commands

import (
	"strings"
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/progressly/pkg/commands/options"
	"tableflip.dev/progressly/pkg/runner/add"
)

func addAdd(topLevel *cobra.Command) {
	to := &options.TaskOptions{}
	io := &options.IDOptions{}
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a task to a month",
		Example: `
progressly add Run a 5k --priority high --category Health
progressly add File taxes --due 4/15
progressly add Plan the trip --month july
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			if err := oo.Validate(); err != nil {
				return err
			}
			s, err := open(cmd.Context())
			if err != nil {
				return oo.HandleError(err)
			}
			defer s.close()

			in, err := to.NewTask(strings.Join(args, " "), s.settings.Categories, time.Now())
			if err != nil {
				return oo.HandleError(err)
			}
			a := add.Add{
				Task:    in,
				ShowID:  io.ShowID,
				Format:  oo.Format,
				Service: s.service,
			}
			return oo.HandleError(a.Do(cmd.Context()))
		},
	}

	options.AddTaskArgs(cmd, to)
	registerCategoryCompletion(cmd)
	options.AddShowIDArgs(cmd, io)
	options.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}
