package mu

import (
	"fmt"
	"math"
)

func (t *SeqType) encode(e *encoder, v Value) error {
	sv, ok := v.(*SeqValue)
	if !ok || sv == nil {
		return e.fail(ErrUnsupportedShape, "%s wants a sequence value, got %T", t.TypeName, v)
	}
	if sv.Type != t {
		return e.fail(ErrUnsupportedShape, "%s given a value of %s", t.TypeName, nameOf(sv.Type))
	}
	n := len(sv.Elems)
	if t.External {
		want := e.ctx.previousField()
		if uint64(n) != want {
			return e.fail(ErrLengthMismatch, "%s has %d elements, count field says %d", t.TypeName, n, want)
		}
	} else {
		if n > math.MaxUint16 {
			return e.fail(ErrLengthOverflow, "%s has %d elements", t.TypeName, n)
		}
		e.tracef("dynamic array size (u16): %d", n)
		e.putUint(uint64(n), 2)
	}
	if err := e.enter(t.TypeName); err != nil {
		return err
	}
	defer e.leave()
	for i, elem := range sv.Elems {
		e.ctx.setLabel(fmt.Sprintf("[%d]", i))
		if err := t.Elem.encode(e, elem); err != nil {
			return err
		}
	}
	return nil
}

func (t *SeqType) decode(d *decoder) (Value, error) {
	var n uint64
	if t.External {
		n = d.ctx.previousField()
	} else {
		count, err := d.getUint(2)
		if err != nil {
			return nil, err
		}
		d.tracef("dynamic array size (u16): %d", count)
		n = count
	}
	if err := d.enter(t.TypeName); err != nil {
		return nil, err
	}
	defer d.leave()
	// Every element consumes at least one byte, so the remaining input
	// bounds the allocation no matter what count was claimed.
	hint := n
	if r := uint64(d.remaining()); hint > r {
		hint = r
	}
	sv := &SeqValue{Type: t, Elems: make([]Value, 0, hint)}
	for i := uint64(0); i < n; i++ {
		d.ctx.setLabel(fmt.Sprintf("[%d]", i))
		elem, err := t.Elem.decode(d)
		if err != nil {
			return nil, err
		}
		sv.Elems = append(sv.Elems, elem)
	}
	return sv, nil
}
