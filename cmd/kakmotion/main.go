// Command kakmotion applies Kakoune-style selection commands to text files
// and inspects the configured motion units.
package main

import (
	"os"
)

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
