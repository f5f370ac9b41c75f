// Package main provides the candles CLI.
package main

import "github.com/mesh-intelligence/candles/internal/cli"

func main() {
	cli.Execute()
}
