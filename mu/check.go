package mu

import "fmt"

type place int

const (
	placeRoot place = iota
	placeField
	placeNested
)

// Check validates a type description before it is used. Descriptions that
// could never encode or decode a value, such as a union with no sibling to
// take its discriminant from, are reported as ErrUnsupportedShape. Encode
// and Decode assume descriptions pass Check; one that does not may panic.
func Check(t Type) error {
	c := &checker{seen: make(map[Type]bool)}
	if t == nil {
		return c.fail("", "nil type")
	}
	return c.check(t, t.Name(), placeRoot)
}

type checker struct {
	seen map[Type]bool
}

func (c *checker) fail(path, format string, args ...interface{}) error {
	return &Error{Kind: ErrUnsupportedShape, Path: path, Detail: fmt.Sprintf(format, args...)}
}

func (c *checker) check(t Type, path string, at place) error {
	if t == nil {
		return c.fail(path, "nil type")
	}
	switch tt := t.(type) {
	case *UnionType:
		if at == placeNested {
			return c.fail(path, "union %s has no enclosing struct to select it", tt.TypeName)
		}
	case *SeqType:
		if tt.External && at != placeField {
			return c.fail(path, "external sequence %s is not a struct field", tt.TypeName)
		}
	}
	if c.seen[t] {
		return nil
	}
	c.seen[t] = true

	switch tt := t.(type) {
	case *ScalarType:
		if tt.Repr.Width() == 0 {
			return c.fail(path, "scalar %s has invalid representation %v", tt.TypeName, tt.Repr)
		}
	case *StructType:
		for i, f := range tt.Fields {
			fpath := path + "." + f.Name
			if err := c.checkSlot(tt, i, fpath); err != nil {
				return err
			}
			if err := c.check(f.Type, fpath, placeField); err != nil {
				return err
			}
		}
	case *SeqType:
		if tt.Elem == nil {
			return c.fail(path, "sequence %s has no element type", tt.TypeName)
		}
		if minWidth(tt.Elem, 0) == 0 {
			return c.fail(path, "sequence %s has elements that may encode to nothing", tt.TypeName)
		}
		return c.check(tt.Elem, path+"[]", placeNested)
	case *UnionType:
		sels := make(map[uint64]bool)
		names := make(map[string]bool)
		for _, v := range tt.Variants {
			if sels[v.Selector] {
				return c.fail(path, "union %s repeats selector %#x", tt.TypeName, v.Selector)
			}
			if names[v.Name] {
				return c.fail(path, "union %s repeats variant %s", tt.TypeName, v.Name)
			}
			sels[v.Selector] = true
			names[v.Name] = true
			if v.Payload == nil {
				continue
			}
			if err := c.check(v.Payload, path+"("+v.Name+")", placeNested); err != nil {
				return err
			}
		}
	case *SizedType:
		inner := placeNested
		if at == placeField {
			inner = placeField
		}
		if seq, ok := tt.Inner.(*SeqType); ok && seq.External {
			return c.fail(path, "sized %s wraps external sequence %s", tt.TypeName, seq.TypeName)
		}
		return c.check(tt.Inner, path, inner)
	default:
		return c.fail(path, "unknown type %T", t)
	}
	return nil
}

// checkSlot verifies that field i of st can find the sibling its union or
// external sequence depends on.
func (c *checker) checkSlot(st *StructType, i int, path string) error {
	f := st.Fields[i]
	target := f.Type
	if sz, ok := target.(*SizedType); ok {
		target = sz.Inner
	}
	switch tt := target.(type) {
	case *UnionType:
		var src int
		switch f.Selector.Rule {
		case SelectFirst:
			src = 0
		case SelectPrevious:
			src = i - 1
		case SelectNamed:
			src = st.FieldIndex(f.Selector.Field)
		default:
			return c.fail(path, "unknown select rule %d", f.Selector.Rule)
		}
		if src < 0 || src >= i {
			return c.fail(path, "union %s selects from a field that does not precede it", tt.TypeName)
		}
		if _, ok := st.Fields[src].Type.(*ScalarType); !ok {
			return c.fail(path, "union %s selects from non-scalar field %s", tt.TypeName, st.Fields[src].Name)
		}
	case *SeqType:
		if !tt.External || target != f.Type {
			return nil
		}
		if i == 0 {
			return c.fail(path, "external sequence %s is the first field", tt.TypeName)
		}
		if _, ok := st.Fields[i-1].Type.(*ScalarType); !ok {
			return c.fail(path, "external sequence %s follows non-scalar field %s", tt.TypeName, st.Fields[i-1].Name)
		}
	}
	return nil
}

// minWidth is the fewest bytes a value of t can encode to.
func minWidth(t Type, depth int) int {
	if depth > DefaultMaxDepth {
		return 1
	}
	switch tt := t.(type) {
	case *ScalarType:
		return tt.Repr.Width()
	case *StructType:
		n := 0
		for _, f := range tt.Fields {
			if f.Type != nil {
				n += minWidth(f.Type, depth+1)
			}
		}
		return n
	case *SeqType:
		if tt.External {
			return 0
		}
		return 2
	case *UnionType:
		n := -1
		for _, v := range tt.Variants {
			w := 0
			if v.Payload != nil {
				w = minWidth(v.Payload, depth+1)
			}
			if n < 0 || w < n {
				n = w
			}
		}
		if n < 0 {
			return 0
		}
		return n
	case *SizedType:
		return 2
	}
	return 0
}
