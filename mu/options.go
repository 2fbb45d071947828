package mu

import "github.com/sirupsen/logrus"

// DefaultMaxDepth bounds nesting when Options.MaxDepth is zero.
const DefaultMaxDepth = 64

// Options tunes a single Encode or Decode call. The zero value is ready to
// use.
type Options struct {
	// Logger receives a trace line per field and scalar when its level is
	// logrus.TraceLevel. Nil means the logrus standard logger.
	Logger *logrus.Entry
	// MaxDepth limits how many compound values may be nested.
	MaxDepth int
	// Selector is the discriminant for a union at the root of a traversal,
	// where there is no enclosing struct to read it from. Encode falls back
	// to the value's own selector.
	Selector *uint64
}

func (o Options) logger() *logrus.Entry {
	if o.Logger != nil {
		return o.Logger
	}
	return logrus.NewEntry(logrus.StandardLogger())
}

func (o Options) maxDepth() int {
	if o.MaxDepth > 0 {
		return o.MaxDepth
	}
	return DefaultMaxDepth
}

// WithSelector returns a copy of o carrying a root discriminant.
func (o Options) WithSelector(sel uint64) Options {
	o.Selector = &sel
	return o
}
