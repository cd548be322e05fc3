package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewOrdersCommand creates the order-history command.
func NewOrdersCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "orders",
		Short: "Show your order history",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, ctx, err := opts.newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			if !a.Auth.IsAuthenticated() {
				return fmt.Errorf("login required: run 'storefront login'")
			}

			orders, err := a.API.MyOrders(ctx)
			if err != nil {
				return err
			}
			if opts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), orders)
			}
			writeOrders(cmd.OutOrStdout(), orders)
			return nil
		},
	}
}

// NewStatusCommand creates the status command: session, local state, and
// backend reachability in one view.
func NewStatusCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show session, cart, and backend status",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, ctx, err := opts.newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			reachable := "ok"
			if err := a.API.Ping(ctx); err != nil {
				reachable = fmt.Sprintf("unreachable (%v)", err)
			}

			session := "anonymous"
			if sess := a.Auth.Session(); sess != nil {
				session = fmt.Sprintf("%s <%s>", sess.User.Name, sess.User.Email)
			}

			out := cmd.OutOrStdout()
			if opts.Format == "json" {
				return writeJSON(out, map[string]any{
					"api":       a.Config.APIBaseURL,
					"reachable": reachable == "ok",
					"session":   session,
					"cartItems": a.Cart.TotalItems(),
					"statePath": a.Config.StatePath,
					"ephemeral": a.Config.Ephemeral,
				})
			}
			fmt.Fprintf(out, "API:     %s (%s)\n", a.Config.APIBaseURL, reachable)
			fmt.Fprintf(out, "Session: %s\n", session)
			fmt.Fprintf(out, "Cart:    %d items, total %s\n", a.Cart.TotalItems(), money(a.Cart.TotalPrice()))
			fmt.Fprintf(out, "State:   %s\n", a.Config.StatePath)
			return nil
		},
	}
}
