package main

import (
	"os"

	"recipe-viewer/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
