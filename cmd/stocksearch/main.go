package main

import (
	"os"

	"stocksearch/internal/cli"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	os.Exit(cli.Execute(version))
}
