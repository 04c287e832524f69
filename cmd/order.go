package cmd

import (
	"github.com/spf13/cobra"

	"romix-storefront/app"
)

var orderCmd = &cobra.Command{
	Use:   "order",
	Short: "Place an order for the current cart",
	Long: "Decrements stock for every cart line and prints the WhatsApp order link. " +
		"The cart is emptied only when every line could be served.",
	Args: cobra.NoArgs,
	RunE: appRunE(runOrder),
}

func runOrder(cmd *cobra.Command, args []string, a *app.App) error {
	order, err := a.Checkout.Checkout(cmd.Context())
	if err != nil {
		return err
	}
	return output(cmd.OutOrStdout(), order, func() string { return formatOrder(order) })
}
