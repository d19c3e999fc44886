package commands

import (
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/progressly/pkg/commands/options"
	"tableflip.dev/progressly/pkg/runner/watch"
)

func addWatch(topLevel *cobra.Command) {
	qo := &options.QueryOptions{}
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Reprint a month whenever tasks change",
		Long: `Print the month view and print it again every time another progressly
process, the terminal UI or the MCP server changes the tasks or the trash.`,
		Example: `
progressly watch
progressly watch --filter overdue
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			q, err := qo.Query(time.Now())
			if err != nil {
				return err
			}
			s, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer s.close()

			w := watch.Watch{Query: q, ShowID: io.ShowID, Service: s.service}
			return w.Do(cmd.Context())
		},
	}

	options.AddQueryArgs(cmd, qo)
	options.AddShowIDArgs(cmd, io)

	topLevel.AddCommand(cmd)
}
