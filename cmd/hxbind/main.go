// Command hxbind runs and checks declarative marker attributes in HTML
// pages, and generates typed accessors for instruction vocabularies.
package main

import (
	"fmt"
	"os"
)

const version = "0.1.0"

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
