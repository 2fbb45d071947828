package mu

import (
	"fmt"
	"strings"
)

// level is the bookkeeping for one nesting level of a traversal.
type level struct {
	// label locates the item being processed at this level in error
	// paths: ".field", "[i]" or "(variant)".
	label string

	names    []string
	hasNames bool

	first       uint64
	hasFirst    bool
	previous    uint64
	hasPrevious bool
	named       map[string]uint64

	// rule is the discriminant rule of the field being processed.
	rule Selector
}

// contextStack tracks where a traversal is and what it has seen. Level 0
// belongs to the root and is never popped; every codec that pushes a level
// pops it again on all exit paths.
type contextStack struct {
	levels []level
}

func newContextStack(root string) contextStack {
	return contextStack{levels: []level{{label: root}}}
}

// depth is the number of pushed levels above the root.
func (c *contextStack) depth() int { return len(c.levels) - 1 }

func (c *contextStack) top() *level { return &c.levels[len(c.levels)-1] }

func (c *contextStack) push() {
	c.levels = append(c.levels, level{})
}

func (c *contextStack) pop() {
	if c.depth() == 0 {
		panic("mu: pop of the root context level")
	}
	c.levels[len(c.levels)-1] = level{}
	c.levels = c.levels[:len(c.levels)-1]
}

func (c *contextStack) setLabel(s string) { c.top().label = s }

func (c *contextStack) setRule(r Selector) { c.top().rule = r }

func (c *contextStack) recordFieldNames(names []string) {
	l := c.top()
	l.names = names
	l.hasNames = true
}

func (c *contextStack) fieldNames() []string {
	l := c.top()
	if !l.hasNames {
		panic(fmt.Sprintf("mu: no field names recorded at depth %d", c.depth()))
	}
	return l.names
}

func (c *contextStack) recordFirst(v uint64) {
	l := c.top()
	l.first = v
	l.hasFirst = true
}

func (c *contextStack) firstField() uint64 {
	l := c.top()
	if !l.hasFirst {
		panic(fmt.Sprintf("mu: no first field recorded at %s", c.path()))
	}
	return l.first
}

func (c *contextStack) recordPrevious(v uint64) {
	l := c.top()
	l.previous = v
	l.hasPrevious = true
}

func (c *contextStack) clearPrevious() {
	l := c.top()
	l.previous = 0
	l.hasPrevious = false
}

func (c *contextStack) previousField() uint64 {
	l := c.top()
	if !l.hasPrevious {
		panic(fmt.Sprintf("mu: no previous scalar field at %s", c.path()))
	}
	return l.previous
}

func (c *contextStack) recordNamed(name string, v uint64) {
	l := c.top()
	if l.named == nil {
		l.named = make(map[string]uint64)
	}
	l.named[name] = v
}

func (c *contextStack) namedField(name string) uint64 {
	v, ok := c.top().named[name]
	if !ok {
		panic(fmt.Sprintf("mu: no scalar field %q recorded at %s", name, c.path()))
	}
	return v
}

// recordField stores what later siblings may need from field i. Only scalar
// values are recorded; any other value clears the previous-field slot.
func (c *contextStack) recordField(i int, name string, v Value) {
	bits, ok := Uint(v)
	if !ok {
		c.clearPrevious()
		return
	}
	if i == 0 {
		c.recordFirst(bits)
	}
	c.recordPrevious(bits)
	c.recordNamed(name, bits)
}

// discriminant evaluates the current level's rule.
func (c *contextStack) discriminant() uint64 {
	r := c.top().rule
	switch r.Rule {
	case SelectFirst:
		return c.firstField()
	case SelectPrevious:
		return c.previousField()
	case SelectNamed:
		return c.namedField(r.Field)
	}
	panic(fmt.Sprintf("mu: unknown select rule %d", r.Rule))
}

func (c *contextStack) path() string {
	var sb strings.Builder
	for _, l := range c.levels {
		sb.WriteString(l.label)
	}
	return sb.String()
}
