// ABOUTME: Entry point for the blogctl CLI
// ABOUTME: Command-line client for the blog platform API

package main

import (
	"os"

	"github.com/markalston/blogctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
