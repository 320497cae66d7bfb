// Command toolhub serves the tool discovery API.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "toolhub: %v\n", err)
		os.Exit(1)
	}
}
