package main

import "github.com/trinoor/o365-cli/internal/adapters/driving/cli"

func main() {
	cli.Execute()
}
