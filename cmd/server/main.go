package main

import "funko-catalog-api/internal/cli"

// version is set via ldflags
var version = "dev"

func main() {
	cli.Execute(version)
}
