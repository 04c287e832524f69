package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"romix-storefront/app"
	"romix-storefront/models"
	"romix-storefront/search"
	"romix-storefront/service"
)

var (
	searchCategory     string
	suggestInteractive bool
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the catalog",
	Long:  "Scores every product against the query (accent and case insensitive, typo tolerant) and lists the matches best first.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  appRunE(runSearch),
}

var suggestCmd = &cobra.Command{
	Use:   "suggest [query]",
	Short: "Show autocomplete suggestions",
	Long: "Prints the suggestion list for a query. With -i, reads keystrokes line by line:\n" +
		"text replaces the search box, /down and /up move the highlight, /enter opens it, /esc closes the list.",
	RunE: appRunE(runSuggest),
}

func init() {
	searchCmd.Flags().StringVarP(&searchCategory, "category", "c", "", "Only products of this section")
	suggestCmd.Flags().BoolVarP(&suggestInteractive, "interactive", "i", false, "Read input interactively from stdin")
}

func runSearch(cmd *cobra.Command, args []string, a *app.App) error {
	ctx := cmd.Context()
	q := strings.Join(args, " ")

	products := a.Products.Load(ctx, service.LoadOptions{})
	results := a.Search.Search(products, q, search.Options{Category: searchCategory})

	res := models.SearchResponse{
		Query:    q,
		Category: searchCategory,
		Total:    len(results),
		Products: results,
	}
	return output(cmd.OutOrStdout(), res, func() string { return formatSearch(res) })
}

func runSuggest(cmd *cobra.Command, args []string, a *app.App) error {
	if suggestInteractive {
		return runAutocomplete(cmd.Context(), a, cmd.InOrStdin(), cmd.OutOrStdout())
	}
	if len(args) == 0 {
		return fmt.Errorf("a query is required unless -i is given")
	}

	ctx := cmd.Context()
	q := strings.Join(args, " ")
	items := a.Search.Suggest(a.Products.Load(ctx, service.LoadOptions{}), q)

	res := models.SuggestResponse{Query: q, Suggestions: items, ResultsURL: search.ResultsURL(q)}
	return output(cmd.OutOrStdout(), res, func() string { return formatSuggestions(items, -1) })
}

// runAutocomplete drives an Autocomplete from line based input
func runAutocomplete(ctx context.Context, a *app.App, in io.Reader, out io.Writer) error {
	var mu sync.Mutex
	emit := func(s string) {
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprint(out, s)
	}

	source := func(ctx context.Context) []models.Product {
		return a.Products.Load(ctx, service.LoadOptions{})
	}

	// The box only takes input once a catalog is at hand
	ready := search.FocusRetry(ctx, 5, 100*time.Millisecond, func() bool {
		return len(source(ctx)) > 0
	})
	if !ready {
		emit("⚠️ catalog unavailable, suggestions will be empty\n")
	}

	var ac *search.Autocomplete
	ac = search.NewAutocomplete(a.Search, source, a.Config.SearchDebounce, func(query string, items []models.Suggestion) {
		if query == "" && len(items) == 0 {
			return
		}
		emit(formatSuggestions(items, ac.Navigator().Active()))
	})

	var query string
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		nav := ac.Navigator()

		switch line {
		case "/down":
			nav.Down()
			emit(formatSuggestions(nav.Items(), nav.Active()))
		case "/up":
			nav.Up()
			emit(formatSuggestions(nav.Items(), nav.Active()))
		case "/esc":
			nav.Escape()
		case "/enter":
			if s, ok := nav.Enter(); ok {
				emit("→ " + s.Href + "\n")
			} else if strings.TrimSpace(query) != "" {
				emit("→ " + search.ResultsURL(query) + "\n")
			}
			nav.Escape()
		case "/quit":
			return nil
		default:
			query = line
			ac.Input(ctx, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	// let the last scheduled lookup publish before exiting
	delay := a.Config.SearchDebounce
	if delay <= 0 {
		delay = search.DefaultDebounce
	}
	time.Sleep(delay + 50*time.Millisecond)
	return nil
}
