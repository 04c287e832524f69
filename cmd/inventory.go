package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"romix-storefront/app"
	"romix-storefront/models"
	"romix-storefront/service"
)

var (
	stockColor string
	stockSize  string
)

var inventoryCmd = &cobra.Command{
	Use:     "inventory",
	Aliases: []string{"stock"},
	Short:   "Inspect and update variant stock",
}

var inventoryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every variant with its stock",
	Args:  cobra.NoArgs,
	RunE:  appRunE(runInventoryList),
}

var inventoryStockCmd = &cobra.Command{
	Use:   "stock <product-id>",
	Short: "Show the stock of one variant",
	Args:  cobra.ExactArgs(1),
	RunE:  appRunE(runInventoryStock),
}

var inventoryDecrementCmd = &cobra.Command{
	Use:   "decrement <product-id> <qty>",
	Short: "Take units of one variant out of stock",
	Args:  cobra.ExactArgs(2),
	RunE:  appRunE(runInventoryDecrement),
}

var inventorySyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Merge the remote stock snapshot",
	Args:  cobra.NoArgs,
	RunE:  appRunE(runInventorySync),
}

var inventorySeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Build the stock table from the catalog when it is empty",
	Args:  cobra.NoArgs,
	RunE:  appRunE(runInventorySeed),
}

func init() {
	for _, c := range []*cobra.Command{inventoryStockCmd, inventoryDecrementCmd} {
		c.Flags().StringVar(&stockColor, "color", models.DefaultColor, "Variant color")
		c.Flags().StringVar(&stockSize, "size", models.DefaultSize, "Variant size")
	}

	inventoryCmd.AddCommand(inventoryListCmd)
	inventoryCmd.AddCommand(inventoryStockCmd)
	inventoryCmd.AddCommand(inventoryDecrementCmd)
	inventoryCmd.AddCommand(inventorySyncCmd)
	inventoryCmd.AddCommand(inventorySeedCmd)
}

func printVariants(cmd *cobra.Command, list []models.Variant) error {
	return output(cmd.OutOrStdout(), list, func() string { return formatVariants(list) })
}

func runInventoryList(cmd *cobra.Command, args []string, a *app.App) error {
	return printVariants(cmd, a.Inventory.GetAll(cmd.Context()))
}

func runInventoryStock(cmd *cobra.Command, args []string, a *app.App) error {
	res := models.StockResponse{
		ProductID: args[0],
		Color:     stockColor,
		Size:      stockSize,
		Stock:     a.Inventory.GetStock(cmd.Context(), args[0], stockColor, stockSize),
	}
	return output(cmd.OutOrStdout(), res, func() string {
		return fmt.Sprintf("%s · %s / %s · %s\n", res.ProductID, res.Color, res.Size, res.Stock)
	})
}

func runInventoryDecrement(cmd *cobra.Command, args []string, a *app.App) error {
	qty, err := strconv.Atoi(args[1])
	if err != nil || qty <= 0 {
		return fmt.Errorf("qty must be a positive integer, got %q", args[1])
	}

	res := a.Inventory.UpdateMany(cmd.Context(), []models.StockLine{{
		ProductID: args[0],
		Color:     stockColor,
		Size:      stockSize,
		Qty:       qty,
	}})
	return output(cmd.OutOrStdout(), res, func() string { return formatUpdate(res) })
}

func runInventorySync(cmd *cobra.Command, args []string, a *app.App) error {
	ctx := cmd.Context()
	received := a.Inventory.SyncFromRemote(ctx)
	res := models.SyncResponse{Received: received, Inventory: a.Inventory.GetAll(ctx)}
	return output(cmd.OutOrStdout(), res, func() string {
		return fmt.Sprintf("🔄 %d remote variants merged\n", received) + formatVariants(res.Inventory)
	})
}

func runInventorySeed(cmd *cobra.Command, args []string, a *app.App) error {
	ctx := cmd.Context()
	products := a.Products.Load(ctx, service.LoadOptions{})
	created := a.Inventory.SeedFromProducts(ctx, products)
	if created == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "📦 stock table already populated (or catalog empty), nothing seeded")
		return nil
	}
	return printVariants(cmd, a.Inventory.GetAll(ctx))
}
