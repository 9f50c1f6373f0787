package main

import "depman/internal/cli"

func main() {
	cli.Execute()
}
