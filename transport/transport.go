// Package transport moves marshalled TPM commands to a TPM and back.
package transport

import (
	"io"
)

// Transport represents a physical connection to a TPM.
type Transport interface {
	io.Closer
	// Send sends a command stream to the TPM and receives back a response.
	// Errors from the TPM itself (i.e., in the response stream) are not
	// parsed. Only errors from actually sending the command.
	Send(command []byte) ([]byte, error)
}

// maxResponse is the size of the buffer a response is read into.
const maxResponse = 4096
