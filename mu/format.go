package mu

import (
	"encoding/hex"
	"fmt"
	"strings"
	"text/tabwriter"
)

// Format renders v as an indented tree, one line per value, with the field
// label, type name and scalar contents in aligned columns. Byte sequences are
// shown as hex on a single line.
func Format(v Value) string {
	var sb strings.Builder
	tw := tabwriter.NewWriter(&sb, 0, 4, 2, ' ', 0)
	t, _ := TypeOf(v)
	f := formatter{w: tw}
	f.value(0, "", t, v)
	tw.Flush()
	return sb.String()
}

type formatter struct {
	w *tabwriter.Writer
}

func (f *formatter) line(depth int, label, typ, val string) {
	fmt.Fprintf(f.w, "%s%s\t%s\t%s\n", strings.Repeat("    ", depth), label, typ, val)
}

func (f *formatter) value(depth int, label string, t Type, v Value) {
	name := "?"
	if t != nil {
		name = t.Name()
	}
	switch x := v.(type) {
	case nil:
		f.line(depth, label, name, "<nil>")
	case *StructValue:
		f.line(depth, label, name, "")
		for i, fv := range x.Fields {
			var ft Type
			fname := fmt.Sprintf("#%d", i)
			if x.Type != nil && i < len(x.Type.Fields) {
				ft, fname = x.Type.Fields[i].Type, x.Type.Fields[i].Name
			}
			f.value(depth+1, "."+fname, ft, fv)
		}
	case *SeqValue:
		if b, ok := x.Bytes(); ok && len(b) > 0 {
			f.line(depth, label, name, fmt.Sprintf("[%d] %s", len(b), hex.EncodeToString(b)))
			return
		}
		f.line(depth, label, name, fmt.Sprintf("[%d]", len(x.Elems)))
		var et Type
		if x.Type != nil {
			et = x.Type.Elem
		}
		for i, e := range x.Elems {
			f.value(depth+1, fmt.Sprintf("[%d]", i), et, e)
		}
	case *UnionValue:
		arm, ok := x.Variant()
		if !ok {
			f.line(depth, label, name, fmt.Sprintf("(unknown %#x)", x.Selector))
			return
		}
		f.line(depth, label, name, "("+arm.Name+")")
		if x.Payload != nil {
			f.value(depth+1, "", arm.Payload, x.Payload)
		}
	case *SizedValue:
		if x.Inner == nil {
			f.line(depth, label, name, "(empty)")
			return
		}
		f.line(depth, label, name, "")
		var it Type
		if x.Type != nil {
			it = x.Type.Inner
		}
		f.value(depth+1, "", it, x.Inner)
	default:
		repr, bits, ok := scalarBits(v)
		if !ok {
			f.line(depth, label, name, fmt.Sprintf("%v", v))
			return
		}
		if repr == ReprBool {
			f.line(depth, label, name, fmt.Sprintf("%v", v))
			return
		}
		f.line(depth, label, name, fmt.Sprintf("0x%0*x (%d)", repr.Width()*2, bits, v))
	}
}
