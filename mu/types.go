package mu

import "fmt"

// Kind identifies the wire shape of a type description.
type Kind int

const (
	KindScalar Kind = iota
	KindStruct
	KindSeq
	KindUnion
	KindSized
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindStruct:
		return "struct"
	case KindSeq:
		return "sequence"
	case KindUnion:
		return "union"
	case KindSized:
		return "sized"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Type is a static description of a wire shape. The set of implementations
// is closed: *ScalarType, *StructType, *SeqType, *UnionType and *SizedType.
// Descriptions are built once, usually as package-level variables, and are
// safe for concurrent use.
type Type interface {
	Name() string
	Kind() Kind

	encode(e *encoder, v Value) error
	decode(d *decoder) (Value, error)
}

// Repr is the in-memory representation of a scalar.
type Repr uint8

const (
	reprInvalid Repr = iota
	ReprUint8
	ReprUint16
	ReprUint32
	ReprUint64
	ReprInt8
	ReprInt16
	ReprInt32
	ReprInt64
	// ReprBool occupies one byte on the wire.
	ReprBool
)

var reprNames = map[Repr]string{
	ReprUint8:  "u8",
	ReprUint16: "u16",
	ReprUint32: "u32",
	ReprUint64: "u64",
	ReprInt8:   "i8",
	ReprInt16:  "i16",
	ReprInt32:  "i32",
	ReprInt64:  "i64",
	ReprBool:   "bool",
}

func (r Repr) String() string {
	if s, ok := reprNames[r]; ok {
		return s
	}
	return fmt.Sprintf("Repr(%d)", uint8(r))
}

// Width returns the encoded size in bytes, or 0 for an invalid Repr.
func (r Repr) Width() int {
	switch r {
	case ReprUint8, ReprInt8, ReprBool:
		return 1
	case ReprUint16, ReprInt16:
		return 2
	case ReprUint32, ReprInt32:
		return 4
	case ReprUint64, ReprInt64:
		return 8
	}
	return 0
}

// value converts zero-extended wire bits to the Go value for r.
func (r Repr) value(bits uint64) Value {
	switch r {
	case ReprUint8:
		return uint8(bits)
	case ReprUint16:
		return uint16(bits)
	case ReprUint32:
		return uint32(bits)
	case ReprUint64:
		return bits
	case ReprInt8:
		return int8(uint8(bits))
	case ReprInt16:
		return int16(uint16(bits))
	case ReprInt32:
		return int32(uint32(bits))
	case ReprInt64:
		return int64(bits)
	case ReprBool:
		return bits != 0
	}
	panic(fmt.Sprintf("mu: no value for %v", r))
}

// ScalarType is a fixed-width big-endian integer or a one-byte boolean.
type ScalarType struct {
	TypeName string
	Repr     Repr
}

// Base scalar types.
var (
	U8   = &ScalarType{TypeName: "u8", Repr: ReprUint8}
	U16  = &ScalarType{TypeName: "u16", Repr: ReprUint16}
	U32  = &ScalarType{TypeName: "u32", Repr: ReprUint32}
	U64  = &ScalarType{TypeName: "u64", Repr: ReprUint64}
	I8   = &ScalarType{TypeName: "i8", Repr: ReprInt8}
	I16  = &ScalarType{TypeName: "i16", Repr: ReprInt16}
	I32  = &ScalarType{TypeName: "i32", Repr: ReprInt32}
	I64  = &ScalarType{TypeName: "i64", Repr: ReprInt64}
	Bool = &ScalarType{TypeName: "bool", Repr: ReprBool}
)

// Scalar returns the base scalar type for r. It panics if r is not a
// valid representation.
func Scalar(r Repr) *ScalarType {
	switch r {
	case ReprUint8:
		return U8
	case ReprUint16:
		return U16
	case ReprUint32:
		return U32
	case ReprUint64:
		return U64
	case ReprInt8:
		return I8
	case ReprInt16:
		return I16
	case ReprInt32:
		return I32
	case ReprInt64:
		return I64
	case ReprBool:
		return Bool
	}
	panic(fmt.Sprintf("mu: no scalar type for %v", r))
}

// Alias returns a scalar type with the representation of base under a new
// name, e.g. Alias("TPM_ALG_ID", U16).
func Alias(name string, base *ScalarType) *ScalarType {
	return &ScalarType{TypeName: name, Repr: base.Repr}
}

func (t *ScalarType) Name() string { return t.TypeName }
func (t *ScalarType) Kind() Kind   { return KindScalar }

// Field is one member of a StructType.
type Field struct {
	Name string
	Type Type
	// Selector chooses the discriminant for a union in this field, or in
	// a sized field wrapping a union. It is ignored for other types.
	Selector Selector
}

// SelectRule says where a union reads its discriminant.
type SelectRule int

const (
	// SelectFirst uses the first field of the enclosing struct.
	SelectFirst SelectRule = iota
	// SelectPrevious uses the field immediately before the union.
	SelectPrevious
	// SelectNamed uses an earlier scalar field of the enclosing struct,
	// named by Selector.Field.
	SelectNamed
)

// Selector is a discriminant rule. The zero value selects the first field.
type Selector struct {
	Rule  SelectRule
	Field string
}

// SelectField returns a rule reading the earlier sibling named name.
func SelectField(name string) Selector {
	return Selector{Rule: SelectNamed, Field: name}
}

// Common rules.
var (
	ByFirst    = Selector{Rule: SelectFirst}
	ByPrevious = Selector{Rule: SelectPrevious}
)

// StructType is an ordered list of named fields, encoded back to back.
type StructType struct {
	TypeName string
	Fields   []Field
}

// Struct builds a StructType.
func Struct(name string, fields ...Field) *StructType {
	return &StructType{TypeName: name, Fields: fields}
}

func (t *StructType) Name() string { return t.TypeName }
func (t *StructType) Kind() Kind   { return KindStruct }

func (t *StructType) fieldNames() []string {
	names := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		names[i] = f.Name
	}
	return names
}

// FieldIndex returns the position of the field called name, or -1.
func (t *StructType) FieldIndex(name string) int {
	for i, f := range t.Fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// SeqType is a homogeneous sequence. A self-prefixed sequence carries its
// own u16 element count. An external sequence carries no count; its length
// is the value of the scalar field immediately before it.
type SeqType struct {
	TypeName string
	Elem     Type
	External bool
}

// Seq builds a self-prefixed sequence type.
func Seq(name string, elem Type) *SeqType {
	return &SeqType{TypeName: name, Elem: elem}
}

// ExternalSeq builds a sequence type whose count is the previous field.
func ExternalSeq(name string, elem Type) *SeqType {
	return &SeqType{TypeName: name, Elem: elem, External: true}
}

func (t *SeqType) Name() string { return t.TypeName }
func (t *SeqType) Kind() Kind   { return KindSeq }

// Variant is one arm of a UnionType. A nil Payload is an empty variant
// that contributes no bytes.
type Variant struct {
	Name     string
	Selector uint64
	Payload  Type
}

// UnionType is a tagged union whose discriminant lives outside it, in a
// sibling field of the enclosing struct.
type UnionType struct {
	TypeName string
	Variants []Variant
}

// Union builds a UnionType.
func Union(name string, variants ...Variant) *UnionType {
	return &UnionType{TypeName: name, Variants: variants}
}

func (t *UnionType) Name() string { return t.TypeName }
func (t *UnionType) Kind() Kind   { return KindUnion }

// Variant returns the arm selected by sel.
func (t *UnionType) Variant(sel uint64) (Variant, bool) {
	for _, v := range t.Variants {
		if v.Selector == sel {
			return v, true
		}
	}
	return Variant{}, false
}

// VariantByName returns the arm called name.
func (t *UnionType) VariantByName(name string) (Variant, bool) {
	for _, v := range t.Variants {
		if v.Name == name {
			return v, true
		}
	}
	return Variant{}, false
}

// SizedType wraps Inner in a u16 byte-length prefix (a TPM2B). A zero
// length encodes an absent Inner.
type SizedType struct {
	TypeName string
	Inner    Type
}

// Sized builds a SizedType.
func Sized(name string, inner Type) *SizedType {
	return &SizedType{TypeName: name, Inner: inner}
}

func (t *SizedType) Name() string { return t.TypeName }
func (t *SizedType) Kind() Kind   { return KindSized }
