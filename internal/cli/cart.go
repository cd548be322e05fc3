package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// NewCartCommand creates the cart command group.
func NewCartCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Manage the shopping cart",
	}
	cmd.AddCommand(newCartAddCommand(opts))
	cmd.AddCommand(newCartListCommand(opts))
	cmd.AddCommand(newCartUpdateCommand(opts))
	cmd.AddCommand(newCartRemoveCommand(opts))
	cmd.AddCommand(newCartClearCommand(opts))
	return cmd
}

func newCartAddCommand(opts *RootOptions) *cobra.Command {
	var qty int

	cmd := &cobra.Command{
		Use:   "add <product-id>",
		Short: "Add a product to the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, ctx, err := opts.newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			p, err := a.API.GetProduct(ctx, args[0])
			if err != nil {
				return err
			}
			if p.IsAffiliate {
				return fmt.Errorf("%s is sold by an external retailer: %s", p.Name, p.AffiliateLink)
			}
			if !p.InStock() {
				return fmt.Errorf("%s is out of stock", p.Name)
			}

			// Requested quantity is capped at available stock, matching the
			// storefront's quantity picker.
			requested := qty
			clamped := p.ClampQuantity(requested)
			if err := a.Cart.AddItem(*p, clamped); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if clamped != requested {
				fmt.Fprintf(out, "Only %d in stock; added %d\n", p.Stock, clamped)
			}
			fmt.Fprintf(out, "Added %d x %s (%d items in cart, total %s)\n",
				clamped, p.Name, a.Cart.TotalItems(), money(a.Cart.TotalPrice()))
			return nil
		},
	}

	cmd.Flags().IntVar(&qty, "qty", 1, "quantity to add")
	return cmd
}

func newCartListCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show the cart contents and totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, err := opts.newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			if opts.Format == "json" {
				type jsonLine struct {
					ProductID string `json:"productId"`
					Name      string `json:"name"`
					Price     string `json:"price"`
					Quantity  int    `json:"quantity"`
				}
				lines := a.Cart.Lines()
				out := struct {
					Lines      []jsonLine `json:"lines"`
					TotalItems int        `json:"totalItems"`
					TotalPrice string     `json:"totalPrice"`
				}{
					Lines:      make([]jsonLine, 0, len(lines)),
					TotalItems: a.Cart.TotalItems(),
					TotalPrice: a.Cart.TotalPrice().StringFixed(2),
				}
				for _, l := range lines {
					out.Lines = append(out.Lines, jsonLine{
						ProductID: l.Product.ID,
						Name:      l.Product.Name,
						Price:     l.Product.Price.StringFixed(2),
						Quantity:  l.Quantity,
					})
				}
				return writeJSON(cmd.OutOrStdout(), out)
			}

			writeCart(cmd.OutOrStdout(), a.Cart.Lines(), a.Cart.TotalItems(), a.Cart.TotalPrice())
			return nil
		},
	}
}

func newCartUpdateCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "update <product-id> <quantity>",
		Short: "Set the quantity of a cart line (0 removes it)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			qty, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid quantity %q", args[1])
			}

			a, _, err := opts.newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			a.Cart.UpdateQuantity(args[0], qty)
			writeCart(cmd.OutOrStdout(), a.Cart.Lines(), a.Cart.TotalItems(), a.Cart.TotalPrice())
			return nil
		},
	}
}

func newCartRemoveCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <product-id>",
		Short: "Remove a product from the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, err := opts.newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			a.Cart.RemoveItem(args[0])
			writeCart(cmd.OutOrStdout(), a.Cart.Lines(), a.Cart.TotalItems(), a.Cart.TotalPrice())
			return nil
		},
	}
}

func newCartClearCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, err := opts.newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			a.Cart.Clear()
			fmt.Fprintln(cmd.OutOrStdout(), "Cart cleared")
			return nil
		},
	}
}
