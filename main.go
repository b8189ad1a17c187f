// The main package for the purge-preload executable.
package main

import (
	"github.com/AZBrandCanada/nginx-cache-purge-and-preload/cmd"
)

// main is the entry point of the application.
// It defers all execution to the Cobra CLI library.
func main() {
	cmd.Execute()
}
