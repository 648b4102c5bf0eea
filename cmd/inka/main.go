// Command inka manages flashcards from the command line.
package main

import "github.com/mesh-intelligence/inka/internal/cli"

func main() {
	cli.Execute()
}
