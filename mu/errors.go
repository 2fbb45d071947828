package mu

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by Encode and Decode is an *Error whose
// Kind is one of these, so callers can test with errors.Is.
var (
	// ErrUnexpectedEOF means the buffer ended before the value did.
	ErrUnexpectedEOF = errors.New("unexpected end of buffer")
	// ErrTrailingBytes means a root value was decoded but bytes remained.
	ErrTrailingBytes = errors.New("trailing bytes after value")
	// ErrUnknownVariant means a union discriminant matched no variant.
	ErrUnknownVariant = errors.New("unknown union variant")
	// ErrLengthOverflow means a length does not fit in its 16-bit size field.
	ErrLengthOverflow = errors.New("length overflows size field")
	// ErrUnsupportedShape means a type description or value asks for
	// something the wire format cannot carry.
	ErrUnsupportedShape = errors.New("unsupported shape")
	// ErrDepthExceeded means the nesting limit was reached.
	ErrDepthExceeded = errors.New("maximum nesting depth exceeded")
	// ErrLengthMismatch means a length disagrees with the size field that
	// announced it.
	ErrLengthMismatch = errors.New("length does not match size field")
	// ErrSelectorMismatch means a union value was encoded under a
	// discriminant other than its own.
	ErrSelectorMismatch = errors.New("union selector does not match discriminant")
)

// Error describes a failed traversal. It is created where the failure was
// detected and returned unchanged through every enclosing codec.
type Error struct {
	// Kind is one of the Err* values above.
	Kind error
	// Path names the value being processed, e.g.
	// "TPMT_PUBLIC.parameters(eccDetail).scheme.details".
	Path string
	// Offset is the decode cursor or the encode output length at the
	// point of failure.
	Offset int
	// Selector is the offending discriminant for ErrUnknownVariant and
	// ErrSelectorMismatch.
	Selector uint64
	Detail   string
}

func (e *Error) Error() string {
	msg := e.Kind.Error()
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Path == "" {
		return fmt.Sprintf("%s (offset %d)", msg, e.Offset)
	}
	return fmt.Sprintf("%s: %s (offset %d)", e.Path, msg, e.Offset)
}

func (e *Error) Unwrap() error { return e.Kind }
