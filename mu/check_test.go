package mu

import (
	"errors"
	"testing"
)

func TestCheck(t *testing.T) {
	arms := Union("Arms", Variant{Name: "one", Selector: 1, Payload: U8})
	tests := []struct {
		name string
		typ  Type
		ok   bool
	}{
		{"scalar", U16, true},
		{"tagged", testTagged, true},
		{"nested", testNested, true},
		{"counted", testCounted, true},
		{"sized", testBox, true},
		{"root union", testBody, true},
		{"invalid repr", &ScalarType{TypeName: "bad"}, false},
		{"union first", Struct("S", Field{Name: "u", Type: arms}), false},
		{"union after struct", Struct("S",
			Field{Name: "n", Type: testInner},
			Field{Name: "u", Type: arms, Selector: ByPrevious}), false},
		{"union named later", Struct("S",
			Field{Name: "u", Type: arms, Selector: SelectField("k")},
			Field{Name: "k", Type: U8}), false},
		{"union named missing", Struct("S",
			Field{Name: "k", Type: U8},
			Field{Name: "u", Type: arms, Selector: SelectField("x")}), false},
		{"sized union", Struct("S",
			Field{Name: "k", Type: U8},
			Field{Name: "u", Type: Sized("B", arms)}), true},
		{"union in sequence", Seq("L", arms), false},
		{"union in union", Union("Outer", Variant{Name: "inner", Selector: 1, Payload: arms}), false},
		{"external first", Struct("S", Field{Name: "l", Type: ExternalSeq("L", U8)}), false},
		{"external root", ExternalSeq("L", U8), false},
		{"external in sized", Struct("S",
			Field{Name: "n", Type: U8},
			Field{Name: "l", Type: Sized("B", ExternalSeq("L", U8))}), false},
		{"zero width elements", Seq("L", Struct("Empty")), false},
		{"duplicate selector", Union("U",
			Variant{Name: "a", Selector: 1},
			Variant{Name: "b", Selector: 1}), false},
		{"nil field type", Struct("S", Field{Name: "x"}), false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := Check(tc.typ)
			if tc.ok && err != nil {
				t.Errorf("Check() = %v, want nil", err)
			}
			if !tc.ok && !errors.Is(err, ErrUnsupportedShape) {
				t.Errorf("Check() = %v, want %v", err, ErrUnsupportedShape)
			}
		})
	}
}
