package mu

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

var (
	testBody = Union("Body",
		Variant{Name: "unit", Selector: 1},
		Variant{Name: "value", Selector: 2, Payload: U32},
	)
	testTagged = Struct("Tagged",
		Field{Name: "tag", Type: U16},
		Field{Name: "body", Type: testBody},
	)
	testInner   = Struct("Inner", Field{Name: "c", Type: U8}, Field{Name: "d", Type: U8})
	testNested  = Struct("Nested", Field{Name: "a", Type: U8}, Field{Name: "b", Type: testInner})
	testList    = Seq("List", U16)
	testCounted = Struct("Counted",
		Field{Name: "count", Type: U8},
		Field{Name: "items", Type: ExternalSeq("Items", U16)},
	)
	testBuffer = Seq("Buffer", U8)
	testBox    = Sized("Box", testNested)
)

func TestMarshalNumeric(t *testing.T) {
	vals := map[interface{}][]byte{
		false:              {0},
		true:               {1},
		int8(2):            {2},
		uint8(3):           {3},
		int16(260):         {1, 4},
		uint16(261):        {1, 5},
		int32(65542):       {0, 1, 0, 6},
		uint32(65543):      {0, 1, 0, 7},
		int64(4294967304):  {0, 0, 0, 1, 0, 0, 0, 8},
		uint64(4294967305): {0, 0, 0, 1, 0, 0, 0, 9},
		int16(-2):          {0xff, 0xfe},
	}
	for v, want := range vals {
		t.Run(fmt.Sprintf("%T-%v", v, v), func(t *testing.T) {
			got, err := Encode(v)
			if err != nil {
				t.Fatalf("Encode() = %v", err)
			}
			if !bytes.Equal(got, want) {
				t.Errorf("want %x got %x", want, got)
			}
			typ, _ := TypeOf(v)
			back, err := Decode(got, typ)
			if err != nil {
				t.Fatalf("want nil, got %v", err)
			}
			if !cmp.Equal(v, back) {
				t.Errorf("want %#v, got %#v\n%v", v, back, cmp.Diff(v, back))
			}
		})
	}
}

func TestMarshalAlias(t *testing.T) {
	alg := Alias("TPM_ALG_ID", U16)
	got, err := EncodeAs(alg, uint16(0x000b), Options{})
	if err != nil {
		t.Fatalf("EncodeAs() = %v", err)
	}
	if want := []byte{0x00, 0x0b}; !bytes.Equal(got, want) {
		t.Errorf("want %x got %x", want, got)
	}
	if _, err := EncodeAs(alg, uint32(0x000b), Options{}); !errors.Is(err, ErrUnsupportedShape) {
		t.Errorf("EncodeAs(uint32) = %v, want %v", err, ErrUnsupportedShape)
	}
}

func TestScalar(t *testing.T) {
	tests := []struct {
		r    Repr
		want *ScalarType
	}{
		{ReprUint8, U8},
		{ReprUint16, U16},
		{ReprUint32, U32},
		{ReprUint64, U64},
		{ReprInt8, I8},
		{ReprInt16, I16},
		{ReprInt32, I32},
		{ReprInt64, I64},
		{ReprBool, Bool},
	}
	for _, tc := range tests {
		if got := Scalar(tc.r); got != tc.want {
			t.Errorf("Scalar(%v) = %s, want %s", tc.r, got.Name(), tc.want.Name())
		}
	}
	mustPanic(t, "Scalar(invalid)", func() { Scalar(Repr(99)) })
}

func TestBoolDecodesNonzero(t *testing.T) {
	got, err := Decode([]byte{0x7f}, Bool)
	if err != nil {
		t.Fatalf("Decode() = %v", err)
	}
	if got != true {
		t.Errorf("Decode(7f) = %v, want true", got)
	}
}

func TestMarshalSequence(t *testing.T) {
	vals := []struct {
		Name          string
		Data          *SeqValue
		Serialization []byte
	}{
		{"empty", NewSeq(testList), []byte{0, 0}},
		{"three", NewSeq(testList, uint16(1), uint16(2), uint16(3)), []byte{0, 3, 0, 1, 0, 2, 0, 3}},
		{"bytes", Bytes(testBuffer, []byte{0xaa, 0xbb}), []byte{0, 2, 0xaa, 0xbb}},
	}
	for _, val := range vals {
		t.Run(val.Name, func(t *testing.T) {
			got, err := Encode(val.Data)
			if err != nil {
				t.Fatalf("Encode() = %v", err)
			}
			if !bytes.Equal(got, val.Serialization) {
				t.Errorf("want %x got %x", val.Serialization, got)
			}
			back, err := Decode(got, val.Data.Type)
			if err != nil {
				t.Fatalf("Decode() = %v", err)
			}
			if diff := cmp.Diff(val.Data, back); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSequenceCountOverflow(t *testing.T) {
	_, err := Encode(Bytes(testBuffer, make([]byte, 65536)))
	if !errors.Is(err, ErrLengthOverflow) {
		t.Errorf("Encode() = %v, want %v", err, ErrLengthOverflow)
	}
	if _, err := Encode(Bytes(testBuffer, make([]byte, 65535))); err != nil {
		t.Errorf("Encode() of 65535 elements = %v", err)
	}
}

func TestMarshalUnion(t *testing.T) {
	vals := []struct {
		Name          string
		Data          *StructValue
		Serialization []byte
	}{
		{
			"unit",
			NewStruct(testTagged, uint16(1), NewUnion(testBody, 1, nil)),
			[]byte{0x00, 0x01},
		},
		{
			"value",
			NewStruct(testTagged, uint16(2), NewUnion(testBody, 2, uint32(0xaabbccdd))),
			[]byte{0x00, 0x02, 0xaa, 0xbb, 0xcc, 0xdd},
		},
	}
	for _, val := range vals {
		t.Run(val.Name, func(t *testing.T) {
			got, err := Encode(val.Data)
			if err != nil {
				t.Fatalf("Encode() = %v", err)
			}
			if !bytes.Equal(got, val.Serialization) {
				t.Errorf("want %x got %x", val.Serialization, got)
			}
			back, err := Decode(got, testTagged)
			if err != nil {
				t.Fatalf("Decode() = %v", err)
			}
			if diff := cmp.Diff(val.Data, back); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestUnknownVariant(t *testing.T) {
	_, err := Decode([]byte{0x00, 0x03}, testTagged)
	var merr *Error
	if !errors.As(err, &merr) {
		t.Fatalf("Decode() = %v, want *Error", err)
	}
	if !errors.Is(err, ErrUnknownVariant) {
		t.Errorf("Decode() = %v, want %v", err, ErrUnknownVariant)
	}
	if merr.Selector != 3 {
		t.Errorf("Selector = %d, want 3", merr.Selector)
	}
	if want := "Tagged.body"; merr.Path != want {
		t.Errorf("Path = %q, want %q", merr.Path, want)
	}
	if merr.Offset != 2 {
		t.Errorf("Offset = %d, want 2", merr.Offset)
	}

	_, err = Encode(NewStruct(testTagged, uint16(3), NewUnion(testBody, 3, nil)))
	if !errors.Is(err, ErrUnknownVariant) {
		t.Errorf("Encode() = %v, want %v", err, ErrUnknownVariant)
	}
}

func TestSelectorMismatch(t *testing.T) {
	v := NewStruct(testTagged, uint16(1), NewUnion(testBody, 2, uint32(5)))
	_, err := Encode(v)
	if !errors.Is(err, ErrSelectorMismatch) {
		t.Errorf("Encode() = %v, want %v", err, ErrSelectorMismatch)
	}
}

func TestEmptyVariantWithPayload(t *testing.T) {
	v := NewStruct(testTagged, uint16(1), NewUnion(testBody, 1, uint32(5)))
	if _, err := Encode(v); !errors.Is(err, ErrUnsupportedShape) {
		t.Errorf("Encode() = %v, want %v", err, ErrUnsupportedShape)
	}
}

func TestSelectorRules(t *testing.T) {
	arms := Union("Arms",
		Variant{Name: "small", Selector: 1, Payload: U8},
		Variant{Name: "large", Selector: 2, Payload: U16},
	)
	byPrevious := Struct("ByPrevious",
		Field{Name: "magic", Type: U16},
		Field{Name: "kind", Type: U8},
		Field{Name: "arm", Type: arms, Selector: ByPrevious},
	)
	byName := Struct("ByName",
		Field{Name: "magic", Type: U16},
		Field{Name: "kind", Type: U8},
		Field{Name: "pad", Type: U8},
		Field{Name: "arm", Type: arms, Selector: SelectField("kind")},
	)
	vals := []struct {
		Name          string
		Data          *StructValue
		Serialization []byte
	}{
		{
			"previous",
			NewStruct(byPrevious, uint16(0xff54), uint8(2), NewUnion(arms, 2, uint16(0x1234))),
			[]byte{0xff, 0x54, 0x02, 0x12, 0x34},
		},
		{
			"named",
			NewStruct(byName, uint16(0xff54), uint8(1), uint8(0), NewUnion(arms, 1, uint8(0x77))),
			[]byte{0xff, 0x54, 0x01, 0x00, 0x77},
		},
	}
	for _, val := range vals {
		t.Run(val.Name, func(t *testing.T) {
			if err := Check(val.Data.Type); err != nil {
				t.Fatalf("Check() = %v", err)
			}
			got, err := Encode(val.Data)
			if err != nil {
				t.Fatalf("Encode() = %v", err)
			}
			if !bytes.Equal(got, val.Serialization) {
				t.Errorf("want %x got %x", val.Serialization, got)
			}
			back, err := Decode(got, val.Data.Type)
			if err != nil {
				t.Fatalf("Decode() = %v", err)
			}
			if diff := cmp.Diff(val.Data, back); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNestedStruct(t *testing.T) {
	got, err := Decode([]byte{0x00, 0xaa, 0xbb}, testNested)
	if err != nil {
		t.Fatalf("Decode() = %v", err)
	}
	want := NewStruct(testNested, uint8(0), NewStruct(testInner, uint8(0xaa), uint8(0xbb)))
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Decode() mismatch (-want +got):\n%s", diff)
	}
}

func TestExternalSequence(t *testing.T) {
	v := NewStruct(testCounted, uint8(2), NewSeq(testCounted.Fields[1].Type.(*SeqType), uint16(7), uint16(8)))
	got, err := Encode(v)
	if err != nil {
		t.Fatalf("Encode() = %v", err)
	}
	if want := []byte{0x02, 0x00, 0x07, 0x00, 0x08}; !bytes.Equal(got, want) {
		t.Errorf("want %x got %x", want, got)
	}
	back, err := Decode(got, testCounted)
	if err != nil {
		t.Fatalf("Decode() = %v", err)
	}
	if diff := cmp.Diff(v, back); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}

	v.Set("count", uint8(3))
	if _, err := Encode(v); !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("Encode() with wrong count = %v, want %v", err, ErrLengthMismatch)
	}
}

func TestExternalSequenceHugeCount(t *testing.T) {
	counted := Struct("Counted32",
		Field{Name: "count", Type: U32},
		Field{Name: "items", Type: ExternalSeq("Items", U8)},
	)
	_, err := Decode([]byte{0xff, 0xff, 0xff, 0xff, 0x01}, counted)
	if !errors.Is(err, ErrUnexpectedEOF) {
		t.Errorf("Decode() = %v, want %v", err, ErrUnexpectedEOF)
	}
}

func TestSized(t *testing.T) {
	full := NewSized(testBox, NewStruct(testNested, uint8(1), NewStruct(testInner, uint8(2), uint8(3))))
	vals := []struct {
		Name          string
		Data          *SizedValue
		Serialization []byte
	}{
		{"full", full, []byte{0x00, 0x03, 0x01, 0x02, 0x03}},
		{"empty", NewSized(testBox, nil), []byte{0x00, 0x00}},
	}
	for _, val := range vals {
		t.Run(val.Name, func(t *testing.T) {
			got, err := Encode(val.Data)
			if err != nil {
				t.Fatalf("Encode() = %v", err)
			}
			if !bytes.Equal(got, val.Serialization) {
				t.Errorf("want %x got %x", val.Serialization, got)
			}
			back, err := Decode(got, testBox)
			if err != nil {
				t.Fatalf("Decode() = %v", err)
			}
			if diff := cmp.Diff(val.Data, back); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSizedErrors(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want error
	}{
		{"size exceeds buffer", []byte{0x00, 0x04, 0x01, 0x02, 0x03}, ErrUnexpectedEOF},
		{"contents shorter than size", []byte{0x00, 0x04, 0x01, 0x02, 0x03, 0x04}, ErrLengthMismatch},
		{"contents longer than size", []byte{0x00, 0x02, 0x01, 0x02, 0x03}, ErrUnexpectedEOF},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Decode(tc.in, testBox); !errors.Is(err, tc.want) {
				t.Errorf("Decode(%x) = %v, want %v", tc.in, err, tc.want)
			}
		})
	}
}

func TestSizedEmptyContents(t *testing.T) {
	empty := Struct("Empty")
	box := Sized("EmptyBox", empty)
	if _, err := Encode(NewSized(box, NewStruct(empty))); !errors.Is(err, ErrUnsupportedShape) {
		t.Errorf("Encode(empty struct) = %v, want %v", err, ErrUnsupportedShape)
	}
	arms := Union("Arms", Variant{Name: "none", Selector: 0}, Variant{Name: "one", Selector: 1, Payload: U8})
	holder := Struct("Holder",
		Field{Name: "kind", Type: U8},
		Field{Name: "arm", Type: Sized("ArmBox", arms)},
	)
	armBox := holder.Fields[1].Type.(*SizedType)
	v := NewStruct(holder, uint8(0), NewSized(armBox, NewUnion(arms, 0, nil)))
	if _, err := Encode(v); !errors.Is(err, ErrUnsupportedShape) {
		t.Errorf("Encode(empty variant) = %v, want %v", err, ErrUnsupportedShape)
	}
	v = NewStruct(holder, uint8(1), NewSized(armBox, NewUnion(arms, 1, uint8(9))))
	b, err := Encode(v)
	if err != nil {
		t.Fatalf("Encode() = %v", err)
	}
	if want := []byte{0x01, 0x00, 0x01, 0x09}; !bytes.Equal(b, want) {
		t.Errorf("want %x got %x", want, b)
	}
	back, err := Decode(b, holder)
	if err != nil {
		t.Fatalf("Decode() = %v", err)
	}
	if diff := cmp.Diff(v, back); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestEncodeWrongDescription(t *testing.T) {
	a := Struct("A", Field{Name: "x", Type: U8})
	b := Struct("B", Field{Name: "y", Type: U8})
	outer := Struct("Outer", Field{Name: "a", Type: a})
	otherList := Seq("OtherList", U16)
	otherBody := Union("OtherBody", Variant{Name: "unit", Selector: 1})
	withList := Struct("WithList", Field{Name: "l", Type: testList})
	boxed := Struct("Boxed", Field{Name: "box", Type: testBox})
	otherBox := Sized("OtherBox", testNested)
	tests := []struct {
		name string
		v    Value
	}{
		{"struct", NewStruct(outer, NewStruct(b, uint8(7)))},
		{"sequence", NewStruct(withList, NewSeq(otherList))},
		{"struct in sized", NewSized(testBox, NewStruct(testInner, uint8(1), uint8(2)))},
		{"union", NewStruct(testTagged, uint16(1), NewUnion(otherBody, 1, nil))},
		{"sized", NewStruct(boxed, NewSized(otherBox, nil))},
		{"nil description", NewStruct(outer, &StructValue{Fields: []Value{uint8(7)}})},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Encode(tc.v); !errors.Is(err, ErrUnsupportedShape) {
				t.Errorf("Encode() = %v, want %v", err, ErrUnsupportedShape)
			}
		})
	}
	if _, err := EncodeAs(testList, NewSeq(otherList, uint16(1)), Options{}); !errors.Is(err, ErrUnsupportedShape) {
		t.Errorf("EncodeAs(other list) = %v, want %v", err, ErrUnsupportedShape)
	}
}

func TestTrailingBytes(t *testing.T) {
	_, err := Decode([]byte{0x00, 0x01, 0xff}, testTagged)
	if !errors.Is(err, ErrTrailingBytes) {
		t.Fatalf("Decode() = %v, want %v", err, ErrTrailingBytes)
	}
	var merr *Error
	if errors.As(err, &merr) && merr.Offset != 2 {
		t.Errorf("Offset = %d, want 2", merr.Offset)
	}
}

func TestDecodePrefix(t *testing.T) {
	v, rest, err := DecodePrefix([]byte{0x00, 0x01, 0x00, 0x02, 0x00, 0x00, 0x00, 0x09}, testTagged)
	if err != nil {
		t.Fatalf("DecodePrefix() = %v", err)
	}
	if diff := cmp.Diff(NewStruct(testTagged, uint16(1), NewUnion(testBody, 1, nil)), v); diff != "" {
		t.Errorf("first value mismatch (-want +got):\n%s", diff)
	}
	v, rest, err = DecodePrefix(rest, testTagged)
	if err != nil {
		t.Fatalf("DecodePrefix() = %v", err)
	}
	if len(rest) != 0 {
		t.Errorf("rest = %x, want empty", rest)
	}
	if diff := cmp.Diff(NewStruct(testTagged, uint16(2), NewUnion(testBody, 2, uint32(9))), v); diff != "" {
		t.Errorf("second value mismatch (-want +got):\n%s", diff)
	}
}

func TestTruncation(t *testing.T) {
	vals := []Value{
		NewStruct(testTagged, uint16(2), NewUnion(testBody, 2, uint32(0xaabbccdd))),
		NewSeq(testList, uint16(1), uint16(2)),
		NewSized(testBox, NewStruct(testNested, uint8(1), NewStruct(testInner, uint8(2), uint8(3)))),
		NewStruct(testCounted, uint8(1), NewSeq(testCounted.Fields[1].Type.(*SeqType), uint16(4))),
	}
	for _, v := range vals {
		typ, _ := TypeOf(v)
		t.Run(typ.Name(), func(t *testing.T) {
			b, err := Encode(v)
			if err != nil {
				t.Fatalf("Encode() = %v", err)
			}
			for n := 0; n < len(b); n++ {
				if _, err := Decode(b[:n], typ); !errors.Is(err, ErrUnexpectedEOF) {
					t.Errorf("Decode(%x) = %v, want %v", b[:n], err, ErrUnexpectedEOF)
				}
			}
		})
	}
}

func TestDepthExceeded(t *testing.T) {
	opts := Options{MaxDepth: 1}
	if _, err := DecodeOptions([]byte{0x00, 0xaa, 0xbb}, testNested, opts); !errors.Is(err, ErrDepthExceeded) {
		t.Errorf("DecodeOptions() = %v, want %v", err, ErrDepthExceeded)
	}
	v := NewStruct(testNested, uint8(0), NewStruct(testInner, uint8(1), uint8(2)))
	if _, err := EncodeOptions(v, opts); !errors.Is(err, ErrDepthExceeded) {
		t.Errorf("EncodeOptions() = %v, want %v", err, ErrDepthExceeded)
	}
	if _, err := DecodeOptions([]byte{0x00, 0xaa, 0xbb}, testNested, Options{MaxDepth: 2}); err != nil {
		t.Errorf("DecodeOptions() at the limit = %v", err)
	}
}

func TestRootUnion(t *testing.T) {
	if _, err := Decode([]byte{0, 0, 0, 1}, testBody); !errors.Is(err, ErrUnsupportedShape) {
		t.Errorf("Decode() without selector = %v, want %v", err, ErrUnsupportedShape)
	}
	got, err := DecodeOptions([]byte{0, 0, 0, 1}, testBody, Options{}.WithSelector(2))
	if err != nil {
		t.Fatalf("DecodeOptions() = %v", err)
	}
	want := NewUnion(testBody, 2, uint32(1))
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("DecodeOptions() mismatch (-want +got):\n%s", diff)
	}
	b, err := Encode(want)
	if err != nil {
		t.Fatalf("Encode() = %v", err)
	}
	if !bytes.Equal(b, []byte{0, 0, 0, 1}) {
		t.Errorf("Encode() = %x", b)
	}
}

func TestUnsupportedValues(t *testing.T) {
	tests := []struct {
		name string
		v    Value
	}{
		{"float", 1.5},
		{"string", "tpm"},
		{"nil", nil},
		{"wrong field type", NewStruct(testNested, uint16(0), NewStruct(testInner, uint8(1), uint8(2)))},
		{"missing fields", &StructValue{Type: testNested, Fields: []Value{uint8(0)}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Encode(tc.v); !errors.Is(err, ErrUnsupportedShape) {
				t.Errorf("Encode(%#v) = %v, want %v", tc.v, err, ErrUnsupportedShape)
			}
		})
	}
}

func TestTrace(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.TraceLevel)
	opts := Options{Logger: logrus.NewEntry(logger)}
	if _, err := DecodeOptions([]byte{0x00, 0xaa, 0xbb}, testNested, opts); err != nil {
		t.Fatalf("DecodeOptions() = %v", err)
	}
	var got []string
	for _, e := range hook.AllEntries() {
		got = append(got, e.Message)
	}
	want := []string{
		"decoding Nested",
		"decoding     .a",
		"decoding      :u8 = 00",
		"decoding     .b",
		"decoding     Inner",
		"decoding         .c",
		"decoding          :u8 = aa",
		"decoding         .d",
		"decoding          :u8 = bb",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("trace mismatch (-want +got):\n%s", diff)
	}

	hook.Reset()
	logger.SetLevel(logrus.DebugLevel)
	if _, err := DecodeOptions([]byte{0x00, 0xaa, 0xbb}, testNested, opts); err != nil {
		t.Fatalf("DecodeOptions() = %v", err)
	}
	if n := len(hook.AllEntries()); n != 0 {
		t.Errorf("got %d entries below trace level", n)
	}
}

func TestFormat(t *testing.T) {
	v := NewStruct(testTagged, uint16(2), NewUnion(testBody, 2, uint32(0xaabbccdd)))
	got := Format(v)
	for _, want := range []string{"Tagged", ".tag", "0x0002 (2)", "(value)", "0xaabbccdd"} {
		if !strings.Contains(got, want) {
			t.Errorf("Format() = %q, missing %q", got, want)
		}
	}
	if got := Format(Bytes(testBuffer, []byte{0xde, 0xad})); !strings.Contains(got, "[2] dead") {
		t.Errorf("Format(bytes) = %q", got)
	}
}
