package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"romix-storefront/app"
	"romix-storefront/models"
	"romix-storefront/service"
)

var (
	catalogSection string
	catalogSeason  string
	catalogSort    string
	catalogTypes   []string
	catalogSizes   []string
	catalogColors  []string
	catalogQuery   string
	catalogRefresh bool
	catalogPage    string
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List the catalog ranked for a section",
	Long: "Lists products filtered by section, season, type, size, color and text, ordered by " +
		"section and category relevance (or by price with --sort).",
	Args: cobra.NoArgs,
	RunE: appRunE(runCatalog),
}

func init() {
	f := catalogCmd.Flags()
	f.StringVar(&catalogSection, "section", "", "Section page (mujer, hombre, ninos)")
	f.StringVar(&catalogSeason, "season", "", "Season (verano, invierno, media-estacion)")
	f.StringVar(&catalogSort, "sort", "", "price-asc or price-desc")
	f.StringSliceVar(&catalogTypes, "type", nil, "Product types")
	f.StringSliceVar(&catalogSizes, "size", nil, "Sizes")
	f.StringSliceVar(&catalogColors, "color", nil, "Colors")
	f.StringVarP(&catalogQuery, "query", "q", "", "Text filter over name, type, badge and description")
	f.BoolVar(&catalogRefresh, "refresh", false, "Drop cached catalogs and fetch again")
	f.StringVar(&catalogPage, "page", "", "Write the section page with the embedded catalog to this file")
}

func runCatalog(cmd *cobra.Command, args []string, a *app.App) error {
	ctx := cmd.Context()

	switch catalogSort {
	case "", service.SortPriceAsc, service.SortPriceDesc:
	default:
		return fmt.Errorf("sort must be one of: %s, %s", service.SortPriceAsc, service.SortPriceDesc)
	}

	if catalogRefresh {
		a.Products.Clear(ctx)
	}

	if catalogPage != "" {
		page, err := a.Catalog.RenderPreloadedPage(ctx, catalogSection)
		if err != nil {
			return err
		}
		if err := os.WriteFile(catalogPage, page, 0o644); err != nil {
			return fmt.Errorf("failed to write catalog page: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ catalog page written to %s\n", catalogPage)
		return nil
	}

	listings := a.Catalog.Listings(ctx, service.ListOptions{
		Section: catalogSection,
		Season:  catalogSeason,
		Types:   catalogTypes,
		Sizes:   catalogSizes,
		Colors:  catalogColors,
		Query:   catalogQuery,
		Sort:    catalogSort,
	})

	res := models.ProductListResponse{Total: len(listings), Products: listings}
	return output(cmd.OutOrStdout(), res, func() string { return formatProducts(listings) })
}
