package main

import "github.com/pfrederiksen/boatrace-odds/internal/cli"

func main() {
	cli.Execute()
}
