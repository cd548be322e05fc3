package cli

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/merchkit/storefront/internal/api"
	"github.com/merchkit/storefront/internal/domain/catalog"
)

// NewBrowseCommand creates the browse command: the storefront landing view,
// featured products and categories fetched concurrently.
func NewBrowseCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Show featured products and categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, ctx, err := opts.newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			var (
				page       *api.ProductPage
				categories []catalog.Category
			)
			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				var err error
				page, err = a.API.GetProducts(gctx, api.ProductQuery{Limit: 8, Sort: "-createdAt"})
				return err
			})
			g.Go(func() error {
				var err error
				categories, err = a.API.GetCategories(gctx)
				return err
			})
			if err := g.Wait(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.Format == "json" {
				return writeJSON(out, map[string]any{
					"products":   page.Products,
					"categories": categories,
				})
			}

			fmt.Fprintln(out, "Latest products")
			writeProductTable(out, page.Products)
			fmt.Fprintln(out, "\nCategories")
			for _, c := range categories {
				fmt.Fprintf(out, "  %s (%s)\n", c.Name, c.Slug)
			}
			return nil
		},
	}
}

// NewProductsCommand creates the products listing command.
func NewProductsCommand(opts *RootOptions) *cobra.Command {
	var (
		page, limit        int
		category, search   string
		minPrice, maxPrice string
		sort               string
		affiliate          bool
	)

	cmd := &cobra.Command{
		Use:   "products",
		Short: "List products with filters and paging",
		RunE: func(cmd *cobra.Command, args []string) error {
			query := api.ProductQuery{
				Page:     page,
				Limit:    limit,
				Category: category,
				Search:   search,
				Sort:     sort,
			}
			var err error
			if minPrice != "" {
				if query.MinPrice, err = decimal.NewFromString(minPrice); err != nil {
					return fmt.Errorf("invalid --min-price %q", minPrice)
				}
			}
			if maxPrice != "" {
				if query.MaxPrice, err = decimal.NewFromString(maxPrice); err != nil {
					return fmt.Errorf("invalid --max-price %q", maxPrice)
				}
			}
			if cmd.Flags().Changed("affiliate") {
				query.IsAffiliate = &affiliate
			}

			a, ctx, err := opts.newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			res, err := a.API.GetProducts(ctx, query)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.Format == "json" {
				return writeJSON(out, res)
			}
			writeProductTable(out, res.Products)
			if res.Pages > 1 {
				fmt.Fprintf(out, "\nPage %d of %d (%d products)\n", res.Page, res.Pages, res.Total)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", 0, "page number")
	cmd.Flags().IntVar(&limit, "limit", 0, "results per page")
	cmd.Flags().StringVar(&category, "category", "", "filter by category")
	cmd.Flags().StringVar(&search, "search", "", "search term")
	cmd.Flags().StringVar(&minPrice, "min-price", "", "minimum price")
	cmd.Flags().StringVar(&maxPrice, "max-price", "", "maximum price")
	cmd.Flags().StringVar(&sort, "sort", "", "sort order (e.g. price, -price, -createdAt)")
	cmd.Flags().BoolVar(&affiliate, "affiliate", false, "filter affiliate products")
	return cmd
}

// NewProductCommand creates the single-product detail command.
func NewProductCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "product <id>",
		Short: "Show one product",
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
			if opts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), p)
			}
			writeProductDetail(cmd.OutOrStdout(), p)
			return nil
		},
	}
}

// NewCategoriesCommand creates the categories listing command.
func NewCategoriesCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, ctx, err := opts.newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			categories, err := a.API.GetCategories(ctx)
			if err != nil {
				return err
			}
			if opts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), categories)
			}
			for _, c := range categories {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", c.Slug, c.Name)
			}
			return nil
		},
	}
}

// NewCategoryCommand creates the category-by-slug command: the category plus
// its products.
func NewCategoryCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "category <slug>",
		Short: "Show a category and its products",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, ctx, err := opts.newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			cat, err := a.API.GetCategoryBySlug(ctx, args[0])
			if err != nil {
				return err
			}
			page, err := a.API.GetProducts(ctx, api.ProductQuery{Category: cat.ID})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.Format == "json" {
				return writeJSON(out, map[string]any{"category": cat, "products": page.Products})
			}
			fmt.Fprintf(out, "%s\n", cat.Name)
			if cat.Description != "" {
				fmt.Fprintf(out, "%s\n", cat.Description)
			}
			fmt.Fprintln(out)
			writeProductTable(out, page.Products)
			return nil
		},
	}
}
