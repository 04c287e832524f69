// storefront is the Romix catalog, search, cart and stock service.
package main

import (
	"os"

	"romix-storefront/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
