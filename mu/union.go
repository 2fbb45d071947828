package mu

func (t *UnionType) variantNames() []string {
	names := make([]string, len(t.Variants))
	for i, v := range t.Variants {
		names[i] = v.Name
	}
	return names
}

func (t *UnionType) encode(e *encoder, v Value) error {
	uv, ok := v.(*UnionValue)
	if !ok || uv == nil {
		return e.fail(ErrUnsupportedShape, "%s wants a union value, got %T", t.TypeName, v)
	}
	if uv.Type != t {
		return e.fail(ErrUnsupportedShape, "%s given a value of %s", t.TypeName, nameOf(uv.Type))
	}
	sel := e.ctx.discriminant()
	if uv.Selector != sel {
		return e.failSelector(ErrSelectorMismatch, uv.Selector,
			"%s value is variant %#x, discriminant is %#x", t.TypeName, uv.Selector, sel)
	}
	if err := e.enter(t.TypeName); err != nil {
		return err
	}
	defer e.leave()
	e.ctx.recordFieldNames(t.variantNames())
	arm, ok := t.Variant(sel)
	if !ok {
		return e.failSelector(ErrUnknownVariant, sel, "%s has no variant %#x", t.TypeName, sel)
	}
	e.ctx.setLabel("(" + arm.Name + ")")
	e.tracef("(%s)", arm.Name)
	if arm.Payload == nil {
		if uv.Payload != nil {
			return e.fail(ErrUnsupportedShape, "%s variant %s is empty, value has %T", t.TypeName, arm.Name, uv.Payload)
		}
		return nil
	}
	return arm.Payload.encode(e, uv.Payload)
}

func (t *UnionType) decode(d *decoder) (Value, error) {
	sel := d.ctx.discriminant()
	if err := d.enter(t.TypeName); err != nil {
		return nil, err
	}
	defer d.leave()
	d.ctx.recordFieldNames(t.variantNames())
	arm, ok := t.Variant(sel)
	if !ok {
		return nil, d.failSelector(ErrUnknownVariant, sel, "%s has no variant %#x", t.TypeName, sel)
	}
	d.ctx.setLabel("(" + arm.Name + ")")
	d.tracef("(%s)", arm.Name)
	uv := &UnionValue{Type: t, Selector: sel}
	if arm.Payload == nil {
		return uv, nil
	}
	payload, err := arm.Payload.decode(d)
	if err != nil {
		return nil, err
	}
	uv.Payload = payload
	return uv, nil
}
