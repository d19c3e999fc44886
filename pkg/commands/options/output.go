package options

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/progressly/pkg/printers"
)

// OutputOptions selects structured output. An empty Format means the pretty
// printer.
type OutputOptions struct {
	Format string
}

func AddOutputArg(cmd *cobra.Command, po *OutputOptions) {
	cmd.Flags().StringVarP(&po.Format, "output", "o", "",
		"Output format. One of 'json' or 'yaml'.")
	_ = cmd.RegisterFlagCompletionFunc("output", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return printers.Formats, cobra.ShellCompDirectiveNoFileComp
	})
}

// Validate normalises Format and rejects unknown formats.
func (o *OutputOptions) Validate() error {
	o.Format = strings.ToLower(strings.TrimSpace(o.Format))
	if o.Format == "" {
		return nil
	}
	for _, f := range printers.Formats {
		if o.Format == f {
			return nil
		}
	}
	return fmt.Errorf("unknown output format %q, expected one of %s", o.Format, strings.Join(printers.Formats, ", "))
}

// HandleError renders err as a structured document when a structured format
// was requested. Otherwise err is returned as-is.
func (o *OutputOptions) HandleError(err error) error {
	if o.Format != "" && err != nil {
		out := map[string]string{
			"error": err.Error(),
		}
		if perr := printers.Structured(nil, o.Format, out); perr != nil {
			return perr
		}
		return nil
	}
	return err
}
