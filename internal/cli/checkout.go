package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/merchkit/storefront/internal/checkout"
	"github.com/merchkit/storefront/internal/domain/order"
)

// NewCheckoutCommand creates the checkout command. Shipping details are
// collected as flags; the flow enforces its own preconditions (non-empty
// cart, active session) before any request goes out.
func NewCheckoutCommand(opts *RootOptions) *cobra.Command {
	var form checkout.Form

	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Place an order from the current cart",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, ctx, err := opts.newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			// Default the recipient to the account name, like the web
			// checkout form does.
			if form.ShippingAddress.FullName == "" {
				if sess := a.Auth.Session(); sess != nil {
					form.ShippingAddress.FullName = sess.User.Name
				}
			}

			created, err := a.Checkout.Submit(ctx, form)
			if err != nil {
				return fmt.Errorf("%s", checkout.UserMessage(err))
			}

			out := cmd.OutOrStdout()
			if opts.Format == "json" {
				return writeJSON(out, created)
			}
			fmt.Fprintf(out, "Order placed: %s (total %s)\n", created.ID, money(created.TotalAmount))
			fmt.Fprintln(out, "Run 'storefront orders' to track it.")
			return nil
		},
	}

	cmd.Flags().StringVar(&form.ShippingAddress.FullName, "name", "", "recipient full name (default: account name)")
	cmd.Flags().StringVar(&form.ShippingAddress.Address, "address", "", "street address")
	cmd.Flags().StringVar(&form.ShippingAddress.City, "city", "", "city")
	cmd.Flags().StringVar(&form.ShippingAddress.State, "state", "", "state or region")
	cmd.Flags().StringVar(&form.ShippingAddress.ZipCode, "zip", "", "postal code")
	cmd.Flags().StringVar(&form.ShippingAddress.Country, "country", "United States", "country")
	cmd.Flags().StringVar(&form.ShippingAddress.Phone, "phone", "", "contact phone")
	cmd.Flags().StringVar(&form.PaymentMethod, "payment", "credit_card",
		"payment method ("+strings.Join(order.PaymentMethods, "|")+")")
	return cmd
}
