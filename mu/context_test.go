package mu

import "testing"

func mustPanic(t *testing.T, name string, f func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("%s did not panic", name)
		}
	}()
	f()
}

func TestContextStack(t *testing.T) {
	c := newContextStack("Root")
	mustPanic(t, "pop at level 0", c.pop)

	c.push()
	c.setLabel(".outer")
	c.recordFieldNames([]string{"kind", "body"})
	c.recordField(0, "kind", uint16(0x23))
	c.setRule(ByFirst)
	if got := c.discriminant(); got != 0x23 {
		t.Errorf("discriminant() = %#x, want 0x23", got)
	}

	c.push()
	c.setLabel("(ecc)")
	mustPanic(t, "fieldNames without record", func() { c.fieldNames() })
	mustPanic(t, "firstField without record", func() { c.firstField() })
	if got, want := c.path(), "Root.outer(ecc)"; got != want {
		t.Errorf("path() = %q, want %q", got, want)
	}
	c.pop()

	if got := c.fieldNames(); len(got) != 2 || got[1] != "body" {
		t.Errorf("fieldNames() = %v after pop", got)
	}
	c.recordField(1, "body", NewSeq(testList))
	mustPanic(t, "previousField after non-scalar", func() { c.previousField() })
	if got := c.namedField("kind"); got != 0x23 {
		t.Errorf("namedField(kind) = %#x", got)
	}
	c.pop()
	if c.depth() != 0 {
		t.Errorf("depth() = %d, want 0", c.depth())
	}
	c.assertUnwound()
}
