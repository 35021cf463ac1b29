// Command brainsynapse is the CLI front-end for the Brain Synapse
// mini-brain memory engine: it wires one Engine per invocation and maps
// each subcommand onto the pipeline it drives.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "brainsynapse: %v\n", err)
		os.Exit(1)
	}
}
