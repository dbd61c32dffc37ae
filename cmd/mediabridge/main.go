package main

import (
	"os"

	"mediabridge/internal/cli"
)

func main() {
	os.Exit(cli.Main())
}
