package mu

import "fmt"

// Value is a decoded instance of a Type. Scalars are plain Go values
// (uint8 through int64, and bool) whose dynamic type must match the
// describing ScalarType's Repr exactly. Compound values are *StructValue,
// *SeqValue, *UnionValue and *SizedValue.
type Value interface{}

// StructValue holds one value per field, in declaration order.
type StructValue struct {
	Type   *StructType
	Fields []Value
}

// NewStruct builds a StructValue. It panics if the number of values does
// not match the number of fields.
func NewStruct(t *StructType, fields ...Value) *StructValue {
	if len(fields) != len(t.Fields) {
		panic(fmt.Sprintf("mu: %s has %d fields, got %d values", t.TypeName, len(t.Fields), len(fields)))
	}
	if fields == nil {
		fields = []Value{}
	}
	return &StructValue{Type: t, Fields: fields}
}

// Field returns the value of the field called name.
func (s *StructValue) Field(name string) (Value, bool) {
	i := s.Type.FieldIndex(name)
	if i < 0 || i >= len(s.Fields) {
		return nil, false
	}
	return s.Fields[i], true
}

// Set replaces the value of the field called name. It panics if there is
// no such field.
func (s *StructValue) Set(name string, v Value) {
	i := s.Type.FieldIndex(name)
	if i < 0 {
		panic(fmt.Sprintf("mu: %s has no field %q", s.Type.TypeName, name))
	}
	s.Fields[i] = v
}

// SeqValue holds the elements of a sequence.
type SeqValue struct {
	Type  *SeqType
	Elems []Value
}

// NewSeq builds a SeqValue.
func NewSeq(t *SeqType, elems ...Value) *SeqValue {
	if elems == nil {
		elems = []Value{}
	}
	return &SeqValue{Type: t, Elems: elems}
}

// Bytes builds a SeqValue of uint8 elements from b.
func Bytes(t *SeqType, b []byte) *SeqValue {
	elems := make([]Value, len(b))
	for i, c := range b {
		elems[i] = c
	}
	return &SeqValue{Type: t, Elems: elems}
}

// Bytes returns the elements as a byte slice if every element is a uint8.
func (s *SeqValue) Bytes() ([]byte, bool) {
	b := make([]byte, len(s.Elems))
	for i, e := range s.Elems {
		c, ok := e.(uint8)
		if !ok {
			return nil, false
		}
		b[i] = c
	}
	return b, true
}

// UnionValue is the payload of the variant chosen by Selector. Payload is
// nil for an empty variant.
type UnionValue struct {
	Type     *UnionType
	Selector uint64
	Payload  Value
}

// NewUnion builds a UnionValue.
func NewUnion(t *UnionType, selector uint64, payload Value) *UnionValue {
	return &UnionValue{Type: t, Selector: selector, Payload: payload}
}

// Variant returns the arm of Type selected by Selector.
func (u *UnionValue) Variant() (Variant, bool) {
	return u.Type.Variant(u.Selector)
}

// SizedValue is the contents of a TPM2B. A nil Inner is encoded as a zero
// size and nothing else.
type SizedValue struct {
	Type  *SizedType
	Inner Value
}

// NewSized builds a SizedValue.
func NewSized(t *SizedType, inner Value) *SizedValue {
	return &SizedValue{Type: t, Inner: inner}
}

// TypeOf returns the description carried by v. Scalars report the base
// type for their Repr.
func TypeOf(v Value) (Type, bool) {
	switch x := v.(type) {
	case *StructValue:
		if x == nil || x.Type == nil {
			return nil, false
		}
		return x.Type, true
	case *SeqValue:
		if x == nil || x.Type == nil {
			return nil, false
		}
		return x.Type, true
	case *UnionValue:
		if x == nil || x.Type == nil {
			return nil, false
		}
		return x.Type, true
	case *SizedValue:
		if x == nil || x.Type == nil {
			return nil, false
		}
		return x.Type, true
	}
	repr, _, ok := scalarBits(v)
	if !ok {
		return nil, false
	}
	return Scalar(repr), true
}

// nameOf names a description that may be nil.
func nameOf(t Type) string {
	switch x := t.(type) {
	case nil:
		return "<nil>"
	case *StructType:
		if x == nil {
			return "<nil>"
		}
	case *SeqType:
		if x == nil {
			return "<nil>"
		}
	case *UnionType:
		if x == nil {
			return "<nil>"
		}
	case *SizedType:
		if x == nil {
			return "<nil>"
		}
	}
	return t.Name()
}

// scalarBits returns the Repr of a scalar value and its bits zero-extended
// from the wire width.
func scalarBits(v Value) (Repr, uint64, bool) {
	switch x := v.(type) {
	case uint8:
		return ReprUint8, uint64(x), true
	case uint16:
		return ReprUint16, uint64(x), true
	case uint32:
		return ReprUint32, uint64(x), true
	case uint64:
		return ReprUint64, x, true
	case int8:
		return ReprInt8, uint64(uint8(x)), true
	case int16:
		return ReprInt16, uint64(uint16(x)), true
	case int32:
		return ReprInt32, uint64(uint32(x)), true
	case int64:
		return ReprInt64, uint64(x), true
	case bool:
		if x {
			return ReprBool, 1, true
		}
		return ReprBool, 0, true
	}
	return reprInvalid, 0, false
}

// Uint returns the numeric value of a scalar, as recorded for discriminants
// and external sequence counts.
func Uint(v Value) (uint64, bool) {
	_, bits, ok := scalarBits(v)
	return bits, ok
}
