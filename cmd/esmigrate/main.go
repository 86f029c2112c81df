// Command esmigrate migrates Elasticsearch index mappings and restores
// indices from snapshots.
package main

import (
	"fmt"
	"os"

	"github.com/jonesrussell/es-index-migrator/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
