// chartcsv - CSV loader for chart datasets
//
// chartcsv fetches CSV files, validates them against the columns each chart
// needs, and turns rows into typed records for rendering.
package main

import (
	"os"

	"github.com/ccollicutt/chartcsv/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
