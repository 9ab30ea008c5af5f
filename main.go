package main

import (
	"os"

	"clickmate/internal/cli"
)

var Version string = "0.1.0"

func main() {
	os.Exit(cli.Execute(Version, os.Args[1:]))
}
