package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"romix-storefront/app"
	"romix-storefront/models"
	"romix-storefront/service"
	"romix-storefront/utils"
)

var (
	cartColor string
	cartSize  string
	cartQty   int
)

var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "Manage the shopping cart",
}

var cartListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the cart and its totals",
	Args:  cobra.NoArgs,
	RunE:  appRunE(runCartList),
}

var cartAddCmd = &cobra.Command{
	Use:   "add <product-id|slug>",
	Short: "Add a product to the cart",
	Long:  "Adds a catalog product. Adding the same product, color and size again accumulates the quantity.",
	Args:  cobra.ExactArgs(1),
	RunE:  appRunE(runCartAdd),
}

var cartQtyCmd = &cobra.Command{
	Use:   "qty <key> <qty>",
	Short: "Set the quantity of a cart line",
	Long:  "Sets the quantity of a cart line. Values below 1 and non-numeric values are clamped to 1.",
	Args:  cobra.ExactArgs(2),
	RunE:  appRunE(runCartQty),
}

var cartRemoveCmd = &cobra.Command{
	Use:   "remove <key>",
	Short: "Remove a cart line",
	Args:  cobra.ExactArgs(1),
	RunE:  appRunE(runCartRemove),
}

var cartClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty the cart",
	Args:  cobra.NoArgs,
	RunE:  appRunE(runCartClear),
}

var cartMessageCmd = &cobra.Command{
	Use:   "message",
	Short: "Print the order message and WhatsApp link",
	Args:  cobra.NoArgs,
	RunE:  appRunE(runCartMessage),
}

func init() {
	cartAddCmd.Flags().StringVar(&cartColor, "color", "", "Color (defaults to the product's first color)")
	cartAddCmd.Flags().StringVar(&cartSize, "size", "", "Size (defaults to the product's first size)")
	cartAddCmd.Flags().IntVarP(&cartQty, "qty", "n", 1, "Quantity")

	cartCmd.AddCommand(cartListCmd)
	cartCmd.AddCommand(cartAddCmd)
	cartCmd.AddCommand(cartQtyCmd)
	cartCmd.AddCommand(cartRemoveCmd)
	cartCmd.AddCommand(cartClearCmd)
	cartCmd.AddCommand(cartMessageCmd)
}

func printCart(cmd *cobra.Command, a *app.App, items []models.CartItem) error {
	res := models.CartResponse{Items: items, Totals: a.Cart.Totals(items)}
	return output(cmd.OutOrStdout(), res, func() string { return formatCart(res) })
}

func runCartList(cmd *cobra.Command, args []string, a *app.App) error {
	return printCart(cmd, a, a.Cart.Get(cmd.Context()))
}

func runCartAdd(cmd *cobra.Command, args []string, a *app.App) error {
	ctx := cmd.Context()

	products := a.Products.Load(ctx, service.LoadOptions{})
	p, ok := findProduct(products, args[0])
	if !ok {
		return fmt.Errorf("product %q not found", args[0])
	}

	item, err := cartItemFor(p, cartColor, cartSize, cartQty)
	if err != nil {
		return err
	}
	return printCart(cmd, a, a.Cart.Add(ctx, item))
}

func runCartQty(cmd *cobra.Command, args []string, a *app.App) error {
	qty, ok := models.ParseQuantity(json.RawMessage(strconv.Quote(args[1])))
	if !ok {
		qty = 1
	}
	return printCart(cmd, a, a.Cart.UpdateQuantity(cmd.Context(), args[0], qty))
}

func runCartRemove(cmd *cobra.Command, args []string, a *app.App) error {
	return printCart(cmd, a, a.Cart.Remove(cmd.Context(), args[0]))
}

func runCartClear(cmd *cobra.Command, args []string, a *app.App) error {
	return printCart(cmd, a, a.Cart.Clear(cmd.Context()))
}

func runCartMessage(cmd *cobra.Command, args []string, a *app.App) error {
	items := a.Cart.Get(cmd.Context())
	res := models.CartMessageResponse{
		Message: a.Cart.BuildOrderMessage(items),
		Link:    a.Cart.WhatsAppLink(a.Config.WhatsAppPhone, items),
	}
	return output(cmd.OutOrStdout(), res, func() string { return formatMessage(res) })
}

// findProduct resolves a product by id, slug field or slug of its name
func findProduct(products []models.Product, ref string) (models.Product, bool) {
	want := utils.Normalize(ref)
	slug := utils.Slugify(ref)
	for _, p := range products {
		if utils.Normalize(utils.ProductID(p)) == want || utils.Normalize(p.Slug) == want || utils.Slugify(p.Name) == slug {
			return p, true
		}
	}
	return models.Product{}, false
}

// cartItemFor builds the cart line for p, checking color and size against the product's options
func cartItemFor(p models.Product, color, size string, qty int) (models.CartItem, error) {
	item := models.CartItem{
		ProductID: utils.ProductID(p),
		Name:      p.Name,
		Type:      p.Type,
		Price:     p.Price,
		Image:     p.Image,
		Qty:       qty,
	}

	color = strings.TrimSpace(color)
	opt, ok := utils.FindColorOption(p.Colors, color)
	switch {
	case ok:
		item.Color = opt.Name
		if opt.Image != "" {
			item.Image = opt.Image
		}
	case color != "" && len(p.Colors) > 0:
		return models.CartItem{}, fmt.Errorf("color %q is not offered for %s", color, p.Name)
	default:
		item.Color = color
	}
	item.ColorName = utils.DisplayColorName(p.Colors, item.Color)

	if size = strings.TrimSpace(size); size != "" {
		item.Size = size
		if len(p.Sizes) > 0 {
			offered, ok := matchSize(p.Sizes, size)
			if !ok {
				return models.CartItem{}, fmt.Errorf("size %q is not offered for %s", size, p.Name)
			}
			item.Size = offered
		}
	} else if len(p.Sizes) > 0 {
		item.Size = p.Sizes[0].Size
	}
	return item, nil
}

// matchSize returns the product's spelling of size
func matchSize(sizes []models.Size, size string) (string, bool) {
	want := utils.Normalize(size)
	for _, s := range sizes {
		if utils.Normalize(s.Size) == want {
			return s.Size, true
		}
	}
	return "", false
}
