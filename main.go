// Package main provides the entry point for armsim.
// armsim is an ARM32 instruction simulator with a two-level cache
// hierarchy model, built on Akita's cache components.
//
// For the full CLI, use: go run ./cmd/armsim
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("armsim - ARM32 instruction simulator")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/armsim' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: you provided arguments. Use 'go run ./cmd/armsim' instead.")
	}
}
