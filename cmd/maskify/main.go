package main

import "maskify/internal/cli"

func main() {
	cli.Execute()
}
