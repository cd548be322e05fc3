// Package cli implements the storefront command-line interface. Each page of
// the web storefront maps to a subcommand; all of them drive the client core
// assembled by the app package.
package cli

import (
	"context"
	"fmt"

	"github.com/go-faster/sdk/zctx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/merchkit/storefront/internal/app"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"

	// Flag overrides for config values.
	APIBaseURL string
	StatePath  string
	Ephemeral  bool
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the storefront CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "storefront",
		Short:         "Terminal client for the storefront API",
		Long:          "Browse products, manage a cart, and place orders against a storefront backend.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.APIBaseURL, "api-url", "", "API base URL (overrides config)")
	cmd.PersistentFlags().StringVar(&opts.StatePath, "state-path", "", "local state database path (overrides config)")
	cmd.PersistentFlags().BoolVar(&opts.Ephemeral, "ephemeral", false, "keep session state in memory only")

	cmd.AddCommand(NewLoginCommand(opts))
	cmd.AddCommand(NewRegisterCommand(opts))
	cmd.AddCommand(NewLogoutCommand(opts))
	cmd.AddCommand(NewWhoamiCommand(opts))
	cmd.AddCommand(NewBrowseCommand(opts))
	cmd.AddCommand(NewProductsCommand(opts))
	cmd.AddCommand(NewProductCommand(opts))
	cmd.AddCommand(NewCategoriesCommand(opts))
	cmd.AddCommand(NewCategoryCommand(opts))
	cmd.AddCommand(NewCartCommand(opts))
	cmd.AddCommand(NewCheckoutCommand(opts))
	cmd.AddCommand(NewOrdersCommand(opts))
	cmd.AddCommand(NewStatusCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// logger builds the CLI logger: silent by default, development output with
// --verbose.
func (o *RootOptions) logger() *zap.Logger {
	if !o.Verbose {
		return zap.NewNop()
	}
	lg, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return lg
}

// newApp loads configuration, applies flag overrides, and assembles the
// client core. The returned context carries the logger for the HTTP
// transport.
func (o *RootOptions) newApp(ctx context.Context) (*app.App, context.Context, error) {
	cfg, err := app.LoadConfig()
	if err != nil {
		return nil, ctx, err
	}
	if o.APIBaseURL != "" {
		cfg.APIBaseURL = o.APIBaseURL
	}
	if o.StatePath != "" {
		cfg.StatePath = o.StatePath
	}
	if o.Ephemeral {
		cfg.Ephemeral = true
	}

	lg := o.logger()
	a, err := app.New(cfg, lg)
	if err != nil {
		return nil, ctx, err
	}
	return a, zctx.Base(ctx, lg), nil
}
