package commands

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"tableflip.dev/progressly/pkg/commands/options"
	"tableflip.dev/progressly/pkg/printers"
	"tableflip.dev/progressly/pkg/runner/backup"
)

func addExport(topLevel *cobra.Command) {
	var file string
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every task and the trash as JSON or YAML",
		Example: `
progressly export > backup.json
progressly export -o yaml --file backup.yaml
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			if err := oo.Validate(); err != nil {
				return err
			}
			s, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer s.close()

			format := oo.Format
			if format == "" {
				format = printers.FormatJSON
			}
			e := backup.Export{Format: format, Service: s.service}
			if file != "" {
				f, err := os.Create(file)
				if err != nil {
					return err
				}
				defer f.Close()
				e.Out = f
			}
			return e.Do(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Write to this file instead of stdout.")
	options.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}

func addImport(topLevel *cobra.Command) {
	var replace bool

	cmd := &cobra.Command{
		Use:   "import <file|->",
		Short: "Load tasks from an export",
		Long: `Load tasks and trashed tasks from a JSON or YAML export. A bare task array,
as stored by the browser version, is accepted too. By default imported tasks
are merged by id; --replace discards the existing tasks first.`,
		Example: `
progressly import backup.json
cat backup.yaml | progressly import - --replace
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			var in io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			s, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer s.close()

			i := backup.Import{In: in, Replace: replace, Out: cmd.OutOrStdout(), Service: s.service}
			return i.Do(cmd.Context())
		},
	}

	cmd.Flags().BoolVar(&replace, "replace", false, "Replace the existing tasks and trash instead of merging.")

	topLevel.AddCommand(cmd)
}
