package main

import "github.com/dyike/stockfetch/internal/cli"

func main() {
	cli.Run()
}
