// Package main is the entry point for the chesspulse CLI.
package main

import "github.com/vytor/chesspulse/internal/cli"

func main() {
	cli.Execute()
}
