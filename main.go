package main

import "github.com/tomo-dev/tomo/internal/cli"

func main() {
	cli.Execute()
}
