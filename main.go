package main

import (
	"fmt"
	"os"

	"github.com/Rana718/bulkgen/cmd"
	"github.com/fatih/color"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("❌ Error: %v", err))
		os.Exit(1)
	}
}
