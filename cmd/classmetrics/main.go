package main

import (
	"os"

	"classmetrics/internal/ui/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
