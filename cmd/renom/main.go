package main

import (
	"fmt"
	"os"

	"github.com/sokinpui/renom"
)

func main() {
	if err := renom.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
