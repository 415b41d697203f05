// babylog parses baby-care activity log exports and analyzes feeding, sleep,
// vomiting and growth patterns.
package main

import (
	"os"

	"github.com/ccollicutt/babylog/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
