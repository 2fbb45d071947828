package mu

import (
	"encoding/binary"
	"math"
)

func (t *SizedType) encode(e *encoder, v Value) error {
	sv, ok := v.(*SizedValue)
	if !ok || sv == nil {
		return e.fail(ErrUnsupportedShape, "%s wants a sized value, got %T", t.TypeName, v)
	}
	if sv.Type != t {
		return e.fail(ErrUnsupportedShape, "%s given a value of %s", t.TypeName, nameOf(sv.Type))
	}
	at := len(e.out)
	e.putUint(0, 2)
	if sv.Inner == nil {
		e.tracef("size (u16): 0")
		return nil
	}
	if err := t.Inner.encode(e, sv.Inner); err != nil {
		return err
	}
	n := len(e.out) - at - 2
	if n == 0 {
		// A zero size means an absent inner value on decode.
		return e.fail(ErrUnsupportedShape, "%s contents encode to nothing", t.TypeName)
	}
	if n > math.MaxUint16 {
		return e.fail(ErrLengthOverflow, "%s contents are %d bytes", t.TypeName, n)
	}
	binary.BigEndian.PutUint16(e.out[at:], uint16(n))
	e.tracef("size (u16): %d", n)
	return nil
}

func (t *SizedType) decode(d *decoder) (Value, error) {
	size, err := d.getUint(2)
	if err != nil {
		return nil, err
	}
	d.tracef("size (u16): %d", size)
	sv := &SizedValue{Type: t}
	if size == 0 {
		return sv, nil
	}
	if int(size) > d.remaining() {
		return nil, d.fail(ErrUnexpectedEOF, "%s announces %d bytes, have %d", t.TypeName, size, d.remaining())
	}
	saved := d.limit(int(size))
	defer d.restore(saved)
	inner, err := t.Inner.decode(d)
	if err != nil {
		return nil, err
	}
	if left := d.remaining(); left != 0 {
		return nil, d.fail(ErrLengthMismatch, "%s left %d of %d bytes unread", t.TypeName, left, size)
	}
	sv.Inner = inner
	return sv, nil
}
