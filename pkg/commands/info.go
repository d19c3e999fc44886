package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/progressly/pkg/runner/info"
)

func addInfo(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Details about the configuration and where tasks are stored.",
		Example: `
progressly info
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			s, err := openAuth()
			if err != nil {
				return err
			}
			defer s.close()
			i := info.Info{
				Settings:    s.settings,
				Persistence: s.persistence,
			}
			return i.Do(cmd.Context())
		},
	}

	topLevel.AddCommand(cmd)
}
