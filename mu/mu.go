// Package mu marshals and unmarshals TPM 2.0 structures to and from their
// big-endian wire form.
//
// A wire shape is described once, as a tree of Type values (scalars,
// structs, sequences, tagged unions and sized TPM2B wrappers), and values are
// trees of Value mirroring it. Encoding and decoding dispatch on the
// description; no reflection is involved. Union discriminants and external
// sequence counts come from sibling fields, which a per-traversal context
// stack remembers as fields are processed.
package mu

import "fmt"

// Decode parses exactly one t from b. Bytes left over after the value are an
// error.
func Decode(b []byte, t Type) (Value, error) {
	return DecodeOptions(b, t, Options{})
}

// DecodeOptions is Decode with options.
func DecodeOptions(b []byte, t Type, opts Options) (Value, error) {
	v, rest, err := DecodePrefixOptions(b, t, opts)
	if err != nil {
		return nil, err
	}
	if len(rest) != 0 {
		return nil, &Error{
			Kind:   ErrTrailingBytes,
			Path:   t.Name(),
			Offset: len(b) - len(rest),
			Detail: fmt.Sprintf("%d bytes left", len(rest)),
		}
	}
	return v, nil
}

// DecodePrefix parses one t from the start of b and returns the unread
// remainder, for streams that carry several values back to back.
func DecodePrefix(b []byte, t Type) (Value, []byte, error) {
	return DecodePrefixOptions(b, t, Options{})
}

// DecodePrefixOptions is DecodePrefix with options.
func DecodePrefixOptions(b []byte, t Type, opts Options) (Value, []byte, error) {
	d := newDecoder(t.Name(), b, opts)
	if err := seedRoot(&d.engine, t, opts.Selector); err != nil {
		return nil, nil, err
	}
	v, err := t.decode(d)
	d.ctx.assertUnwound()
	if err != nil {
		return nil, nil, err
	}
	return v, b[d.off:], nil
}

// Encode serializes v, whose compound parts carry their own descriptions.
func Encode(v Value) ([]byte, error) {
	return EncodeOptions(v, Options{})
}

// EncodeOptions is Encode with options.
func EncodeOptions(v Value, opts Options) ([]byte, error) {
	t, ok := TypeOf(v)
	if !ok {
		return nil, &Error{Kind: ErrUnsupportedShape, Detail: fmt.Sprintf("cannot encode %T", v)}
	}
	return EncodeAs(t, v, opts)
}

// EncodeAs serializes v as t. It is needed for scalars whose type is an
// alias, and otherwise behaves like EncodeOptions.
func EncodeAs(t Type, v Value, opts Options) ([]byte, error) {
	e := newEncoder(t.Name(), opts)
	sel := opts.Selector
	if uv, ok := v.(*UnionValue); ok && sel == nil && uv != nil {
		sel = &uv.Selector
	}
	if err := seedRoot(&e.engine, t, sel); err != nil {
		return nil, err
	}
	err := t.encode(e, v)
	e.ctx.assertUnwound()
	if err != nil {
		return nil, err
	}
	return e.out, nil
}

// seedRoot gives a root-level union its discriminant. A root external
// sequence has nowhere to take its count from.
func seedRoot(g *engine, t Type, sel *uint64) error {
	switch rt := t.(type) {
	case *UnionType:
		if sel == nil {
			return g.fail(ErrUnsupportedShape, "root union %s needs a selector", rt.TypeName)
		}
		g.ctx.setRule(ByFirst)
		g.ctx.recordFirst(*sel)
	case *SeqType:
		if rt.External {
			return g.fail(ErrUnsupportedShape, "root sequence %s has no count field", rt.TypeName)
		}
	}
	return nil
}

func (c *contextStack) assertUnwound() {
	if c.depth() != 0 {
		panic(fmt.Sprintf("mu: traversal ended at depth %d", c.depth()))
	}
}
