// bookswap is the command-line front-end for the book exchange: manage your
// listings, browse other people's books and negotiate swap requests.
package main

import (
	"fmt"
	"os"
)

func main() {
	root, err := newRootCmd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
