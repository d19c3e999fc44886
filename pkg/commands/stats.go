package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/progressly/pkg/commands/options"
	"tableflip.dev/progressly/pkg/runner/stats"
)

func addStats(topLevel *cobra.Command) {
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show completion statistics across every month",
		Example: `
progressly stats
progressly stats -o yaml
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			if err := oo.Validate(); err != nil {
				return err
			}
			s, err := open(cmd.Context())
			if err != nil {
				return oo.HandleError(err)
			}
			defer s.close()

			st := stats.Stats{Categories: s.settings.Categories, Format: oo.Format, Service: s.service}
			return oo.HandleError(st.Do(cmd.Context()))
		},
	}

	options.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}

func addHistory(topLevel *cobra.Command) {
	var expand bool
	io := &options.IDOptions{}
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show every month that has tasks, newest first",
		Example: `
progressly history
progressly history --expand
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			if err := oo.Validate(); err != nil {
				return err
			}
			s, err := open(cmd.Context())
			if err != nil {
				return oo.HandleError(err)
			}
			defer s.close()

			h := stats.History{Expand: expand, ShowID: io.ShowID, Format: oo.Format, Service: s.service}
			return oo.HandleError(h.Do(cmd.Context()))
		},
	}

	cmd.Flags().BoolVarP(&expand, "expand", "e", false, "List the tasks of each month.")
	options.AddShowIDArgs(cmd, io)
	options.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}
