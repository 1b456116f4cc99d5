// Command typefmt renders and inspects typefmt templates from the command
// line.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
