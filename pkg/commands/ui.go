package commands

import (
	"github.com/spf13/cobra"

	teaui "tableflip.dev/progressly/pkg/runner/tea"
)

func addUI(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "open the text-based user interface",
		Example: `
progressly ui
`,
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			s, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer s.close()
			return teaui.Run(cmd.Context(), s.service, s.settings.Categories)
		},
	}

	topLevel.AddCommand(cmd)
}
