package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewLoginCommand creates the login command.
func NewLoginCommand(opts *RootOptions) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, ctx, err := opts.newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			res, err := a.API.Login(ctx, email, password)
			if err != nil {
				return err
			}
			if err := a.Auth.SetAuth(res.User, res.Token); err != nil {
				return err
			}

			if opts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), res.User)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s <%s>\n", res.User.Name, res.User.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

// NewRegisterCommand creates the register command.
func NewRegisterCommand(opts *RootOptions) *cobra.Command {
	var name, email, password string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and store the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, ctx, err := opts.newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			res, err := a.API.Register(ctx, name, email, password)
			if err != nil {
				return err
			}
			if err := a.Auth.SetAuth(res.User, res.Token); err != nil {
				return err
			}

			if opts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), res.User)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Welcome, %s. You are logged in.\n", res.User.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

// NewLogoutCommand creates the logout command.
func NewLogoutCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, err := opts.newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.Auth.ClearAuth(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

// NewWhoamiCommand creates the whoami command.
func NewWhoamiCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session identity",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, err := opts.newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			sess := a.Auth.Session()
			if sess == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "Not logged in")
				return nil
			}
			if opts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), sess.User)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s <%s> (%s)\n", sess.User.Name, sess.User.Email, sess.User.Role)
			return nil
		},
	}
}
