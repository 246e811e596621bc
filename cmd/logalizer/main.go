package main

import "logalizer/internal/cli"

func main() {
	cli.Execute()
}
