package mu

func (t *StructType) encode(e *encoder, v Value) error {
	sv, ok := v.(*StructValue)
	if !ok || sv == nil {
		return e.fail(ErrUnsupportedShape, "%s wants a struct value, got %T", t.TypeName, v)
	}
	if sv.Type != t {
		return e.fail(ErrUnsupportedShape, "%s given a value of %s", t.TypeName, nameOf(sv.Type))
	}
	if len(sv.Fields) != len(t.Fields) {
		return e.fail(ErrUnsupportedShape, "%s has %d fields, value has %d", t.TypeName, len(t.Fields), len(sv.Fields))
	}
	if err := e.enter(t.TypeName); err != nil {
		return err
	}
	defer e.leave()
	e.ctx.recordFieldNames(t.fieldNames())
	for i, f := range t.Fields {
		e.beginField(i, f)
		if err := f.Type.encode(e, sv.Fields[i]); err != nil {
			return err
		}
		e.ctx.recordField(i, f.Name, sv.Fields[i])
	}
	return nil
}

func (t *StructType) decode(d *decoder) (Value, error) {
	if err := d.enter(t.TypeName); err != nil {
		return nil, err
	}
	defer d.leave()
	d.ctx.recordFieldNames(t.fieldNames())
	sv := &StructValue{Type: t, Fields: make([]Value, len(t.Fields))}
	for i, f := range t.Fields {
		d.beginField(i, f)
		v, err := f.Type.decode(d)
		if err != nil {
			return nil, err
		}
		sv.Fields[i] = v
		d.ctx.recordField(i, f.Name, v)
	}
	return sv, nil
}
