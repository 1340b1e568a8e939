// The main package for the hikmet-crawler executable.
package main

import (
	"github.com/ozanunsal/hikmet-crawler/cmd"
)

// main is the entry point of the application.
// It defers all execution to the Cobra CLI library.
func main() {
	cmd.Execute()
}
