package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"romix-storefront/app"
	"romix-storefront/config"
)

var (
	jsonOutput  bool
	storeDriver string
)

var rootCmd = &cobra.Command{
	Use:   "storefront",
	Short: "Romix storefront catalog, search, cart and stock",
	Long: "Loads the Romix catalog, ranks and searches it, and manages the shopping cart " +
		"and variant stock. `storefront serve` exposes the same operations over HTTP.",
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	rootCmd.PersistentFlags().StringVar(&storeDriver, "store", "", "Override STORE_DRIVER (memory, file, bolt, sqlite, postgres)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(suggestCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(cartCmd)
	rootCmd.AddCommand(inventoryCmd)
	rootCmd.AddCommand(orderCmd)
}

// loadConfig reads the environment and applies command line overrides
func loadConfig() *config.Config {
	cfg := config.Load()
	if storeDriver != "" {
		cfg.StoreDriver = storeDriver
	}
	return cfg
}

// withApp opens the application for the duration of fn
func withApp(ctx context.Context, fn func(ctx context.Context, a *app.App) error) error {
	a, err := app.Initialize(ctx, loadConfig())
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(ctx, a)
}

// appRunE adapts fn into a cobra RunE that opens the application first
func appRunE(fn func(cmd *cobra.Command, args []string, a *app.App) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
			return fn(cmd, args, a)
		})
	}
}
