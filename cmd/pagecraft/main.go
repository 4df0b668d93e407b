package main

import (
	"os"

	"github.com/raveheart1/pagecraft/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
