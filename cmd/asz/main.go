// Package main is the entry point for the asz CLI tool.
package main

import (
	"github.com/hargabyte/agentsizer/internal/cmd"
)

func main() {
	cmd.Execute()
}
