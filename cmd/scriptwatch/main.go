// scriptwatch watches project source directories and triggers rebuilds on save.
package main

import (
	"os"

	"github.com/scriptwatch/scriptwatch/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
