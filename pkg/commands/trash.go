package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/progressly/pkg/commands/options"
	"tableflip.dev/progressly/pkg/runner/trash"
	"tableflip.dev/progressly/pkg/timeutil"
)

func addDelete(topLevel *cobra.Command) {
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Move a task to the trash",
		Example: `
progressly delete 1710496800000
progressly trash restore 1710496800000
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

			m := trash.Move{ID: id, Format: oo.Format, Service: s.service}
			return oo.HandleError(m.Do(cmd.Context()))
		},
	}

	options.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}

func addTrash(topLevel *cobra.Command) {
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "trash",
		Short: "List, restore or permanently delete trashed tasks",
		Example: `
progressly trash
progressly trash restore 1710496800000
progressly trash purge --older-than 2w
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

			l := trash.List{Format: oo.Format, Service: s.service}
			return oo.HandleError(l.Do(cmd.Context()))
		},
	}

	options.AddOutputArg(cmd, oo)

	addTrashRestore(cmd)
	addTrashRemove(cmd)
	addTrashPurge(cmd)
	addTrashEmpty(cmd)

	topLevel.AddCommand(cmd)
}

func addTrashRestore(parent *cobra.Command) {
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "restore <id>",
		Short: "Move a trashed task back to its month",
		Args:  cobra.ExactArgs(1),
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

			r := trash.Restore{ID: id, Format: oo.Format, Service: s.service}
			return oo.HandleError(r.Do(cmd.Context()))
		},
	}

	options.AddOutputArg(cmd, oo)

	parent.AddCommand(cmd)
}

func addTrashRemove(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a trashed task permanently",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			id, err := options.ParseID("task", args[0])
			if err != nil {
				return err
			}
			s, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer s.close()

			d := trash.Delete{ID: id, Service: s.service}
			return d.Do(cmd.Context())
		},
	}

	parent.AddCommand(cmd)
}

func addTrashPurge(parent *cobra.Command) {
	var olderThan string

	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Permanently delete tasks that have been in the trash for a while",
		Example: `
progressly trash purge
progressly trash purge --older-than "1 week 2 days"
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			retention, err := timeutil.ParseRetention(olderThan)
			if err != nil {
				return err
			}
			s, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer s.close()

			p := trash.Purge{OlderThan: retention, Service: s.service}
			return p.Do(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&olderThan, "older-than", timeutil.DefaultRetention,
		"Keep tasks trashed more recently than this, for example 30d, 2w, 1mo or 1w3d.")

	parent.AddCommand(cmd)
}

func addTrashEmpty(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "empty",
		Short: "Permanently delete everything in the trash",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			s, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer s.close()

			p := trash.Purge{Service: s.service}
			return p.Do(cmd.Context())
		},
	}

	parent.AddCommand(cmd)
}
