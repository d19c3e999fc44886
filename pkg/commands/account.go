package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/progressly/pkg/commands/options"
	"tableflip.dev/progressly/pkg/runner/account"
)

func addAccount(topLevel *cobra.Command) {
	addSignUp(topLevel)
	addSignIn(topLevel)
	addSignOut(topLevel)
	addWhoAmI(topLevel)
}

func addSignUp(topLevel *cobra.Command) {
	i := &options.InteractiveOptions{}
	r := &account.SignUp{}

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create a local account and sign in",
		Example: `
progressly signup -i
progressly signup --name Sam --email sam@example.com --password secret --confirm-password secret
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			s, err := openAuth()
			if err != nil {
				return err
			}
			defer s.close()

			r.Interactive = i.Interactive
			r.Auth = s.auth
			return r.Do(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&r.Name, "name", "", "Display name.")
	cmd.Flags().StringVar(&r.Email, "email", "", "Email address.")
	cmd.Flags().StringVar(&r.Password, "password", "", "Password, at least 6 characters.")
	cmd.Flags().StringVar(&r.ConfirmPassword, "confirm-password", "", "The password again.")
	options.InteractiveArgs(cmd, i)

	topLevel.AddCommand(cmd)
}

func addSignIn(topLevel *cobra.Command) {
	i := &options.InteractiveOptions{}
	r := &account.SignIn{}

	cmd := &cobra.Command{
		Use:     "signin",
		Aliases: []string{"login"},
		Short:   "Sign in to a local account",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			s, err := openAuth()
			if err != nil {
				return err
			}
			defer s.close()

			r.Interactive = i.Interactive
			r.Auth = s.auth
			return r.Do(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&r.Email, "email", "", "Email address.")
	cmd.Flags().StringVar(&r.Password, "password", "", "Password.")
	options.InteractiveArgs(cmd, i)

	topLevel.AddCommand(cmd)
}

func addSignOut(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "signout",
		Aliases: []string{"logout"},
		Short:   "End the current session",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			s, err := openAuth()
			if err != nil {
				return err
			}
			defer s.close()

			r := account.SignOut{Auth: s.auth}
			return r.Do(cmd.Context())
		},
	}

	topLevel.AddCommand(cmd)
}

func addWhoAmI(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Print the signed in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			s, err := openAuth()
			if err != nil {
				return err
			}
			defer s.close()

			r := account.WhoAmI{Auth: s.auth}
			return r.Do(cmd.Context())
		},
	}

	topLevel.AddCommand(cmd)
}
