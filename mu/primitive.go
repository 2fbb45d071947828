package mu

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// engine is the state shared by the encoder and the decoder: the context
// stack, the depth limit and trace logging.
type engine struct {
	ctx      contextStack
	log      *logrus.Entry
	tracing  bool
	verb     string
	maxDepth int
	pos      func() int
}

func newEngine(root string, opts Options, verb string) engine {
	log := opts.logger()
	return engine{
		ctx:      newContextStack(root),
		log:      log,
		tracing:  log.Logger.IsLevelEnabled(logrus.TraceLevel),
		verb:     verb,
		maxDepth: opts.maxDepth(),
	}
}

func (g *engine) fail(kind error, format string, args ...interface{}) error {
	return &Error{
		Kind:   kind,
		Path:   g.ctx.path(),
		Offset: g.pos(),
		Detail: fmt.Sprintf(format, args...),
	}
}

func (g *engine) failSelector(kind error, sel uint64, format string, args ...interface{}) error {
	err := g.fail(kind, format, args...).(*Error)
	err.Selector = sel
	return err
}

func (g *engine) tracef(format string, args ...interface{}) {
	if !g.tracing {
		return
	}
	g.log.Tracef("%s %s%s", g.verb, strings.Repeat("    ", g.ctx.depth()), fmt.Sprintf(format, args...))
}

// enter pushes a level for a compound value, failing instead if that would
// exceed the depth limit.
func (g *engine) enter(name string) error {
	if g.ctx.depth() >= g.maxDepth {
		return g.fail(ErrDepthExceeded, "limit is %d", g.maxDepth)
	}
	g.tracef("%s", name)
	g.ctx.push()
	return nil
}

func (g *engine) leave() { g.ctx.pop() }

func (g *engine) beginField(i int, f Field) {
	g.ctx.setLabel("." + f.Name)
	g.ctx.setRule(f.Selector)
	g.tracef(".%s", g.ctx.fieldNames()[i])
}

type encoder struct {
	engine
	out []byte
}

func newEncoder(root string, opts Options) *encoder {
	e := &encoder{}
	e.engine = newEngine(root, opts, "encoding")
	e.pos = func() int { return len(e.out) }
	return e
}

func (e *encoder) putUint(bits uint64, width int) {
	var b [8]byte
	switch width {
	case 1:
		b[0] = uint8(bits)
	case 2:
		binary.BigEndian.PutUint16(b[:], uint16(bits))
	case 4:
		binary.BigEndian.PutUint32(b[:], uint32(bits))
	case 8:
		binary.BigEndian.PutUint64(b[:], bits)
	default:
		panic(fmt.Sprintf("mu: invalid scalar width %d", width))
	}
	e.out = append(e.out, b[:width]...)
}

type decoder struct {
	engine
	data []byte
	off  int
	// end bounds the readable region; it is narrowed inside sized values.
	end int
}

func newDecoder(root string, b []byte, opts Options) *decoder {
	d := &decoder{data: b, end: len(b)}
	d.engine = newEngine(root, opts, "decoding")
	d.pos = func() int { return d.off }
	return d
}

func (d *decoder) remaining() int { return d.end - d.off }

func (d *decoder) take(n int) ([]byte, error) {
	if n > d.remaining() {
		return nil, d.fail(ErrUnexpectedEOF, "need %d bytes, have %d", n, d.remaining())
	}
	b := d.data[d.off : d.off+n]
	d.off += n
	return b, nil
}

func (d *decoder) getUint(width int) (uint64, error) {
	b, err := d.take(width)
	if err != nil {
		return 0, err
	}
	switch width {
	case 1:
		return uint64(b[0]), nil
	case 2:
		return uint64(binary.BigEndian.Uint16(b)), nil
	case 4:
		return uint64(binary.BigEndian.Uint32(b)), nil
	case 8:
		return binary.BigEndian.Uint64(b), nil
	}
	panic(fmt.Sprintf("mu: invalid scalar width %d", width))
}

// limit narrows the readable region to the next n bytes and returns the
// previous bound for restore.
func (d *decoder) limit(n int) int {
	saved := d.end
	d.end = d.off + n
	return saved
}

func (d *decoder) restore(end int) { d.end = end }

func (t *ScalarType) encode(e *encoder, v Value) error {
	width := t.Repr.Width()
	if width == 0 {
		return e.fail(ErrUnsupportedShape, "%s has no wire representation", t.TypeName)
	}
	repr, bits, ok := scalarBits(v)
	if !ok || repr != t.Repr {
		return e.fail(ErrUnsupportedShape, "%s wants %v, got %T", t.TypeName, t.Repr, v)
	}
	e.tracef(" :%v = %0*x", t.Repr, width*2, bits)
	e.putUint(bits, width)
	return nil
}

func (t *ScalarType) decode(d *decoder) (Value, error) {
	width := t.Repr.Width()
	if width == 0 {
		return nil, d.fail(ErrUnsupportedShape, "%s has no wire representation", t.TypeName)
	}
	bits, err := d.getUint(width)
	if err != nil {
		return nil, err
	}
	d.tracef(" :%v = %0*x", t.Repr, width*2, bits)
	return t.Repr.value(bits), nil
}
