package commands

import (
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/progressly/pkg/commands/options"
	"tableflip.dev/progressly/pkg/runner/list"
)

func addList(topLevel *cobra.Command) {
	qo := &options.QueryOptions{}
	io := &options.IDOptions{}
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the tasks of a month",
		Example: `
progressly list
progressly list --month 2 --filter pending --sort dueDate
progressly list --search taxes
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			if err := oo.Validate(); err != nil {
				return err
			}
			q, err := qo.Query(time.Now())
			if err != nil {
				return oo.HandleError(err)
			}
			s, err := open(cmd.Context())
			if err != nil {
				return oo.HandleError(err)
			}
			defer s.close()

			l := list.List{
				Query:   q,
				ShowID:  io.ShowID,
				Format:  oo.Format,
				Service: s.service,
			}
			return oo.HandleError(l.Do(cmd.Context()))
		},
	}

	options.AddQueryArgs(cmd, qo)
	options.AddShowIDArgs(cmd, io)
	options.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}

func addShow(topLevel *cobra.Command) {
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one task with its subtasks",
		Example: `
progressly show 1710496800000
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

			sh := list.Show{ID: id, Format: oo.Format, Service: s.service}
			return oo.HandleError(sh.Do(cmd.Context()))
		},
	}

	options.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}
