package main

import "github.com/youmna-rabie/fermi-events/internal/cli"

func main() {
	cli.Execute()
}
