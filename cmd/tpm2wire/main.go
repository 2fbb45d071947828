// Command tpm2wire decodes and encodes TPM 2.0 structures and sends raw
// commands to a TPM simulator.
package main

import (
	"fmt"
	"os"
)

func main() {
	root, _ := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "tpm2wire: %v\n", err)
		os.Exit(1)
	}
}
