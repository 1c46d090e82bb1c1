package main

import "github.com/hamed0406/edgecheck/internal/cli"

func main() {
	cli.Execute()
}
