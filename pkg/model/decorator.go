package model

// Decorator adjusts a form model after it has been built from its schema,
// e.g. to apply bounds that depend on runtime state.
type Decorator interface {
	Decorate(*FormModel) error
}

// DecoratorFunc adapts a function into a Decorator.
type DecoratorFunc func(*FormModel) error

// Decorate calls the underlying function.
func (fn DecoratorFunc) Decorate(form *FormModel) error {
	return fn(form)
}

// Decorate returns a copy of m with every decorator applied in order. The
// receiver's field slice is not modified.
func (m FormModel) Decorate(decorators ...Decorator) (FormModel, error) {
	out := m
	out.Fields = append([]Field(nil), m.Fields...)
	for _, d := range decorators {
		if d == nil {
			continue
		}
		if err := d.Decorate(&out); err != nil {
			return m, err
		}
	}
	return out, nil
}

// SetRule returns a decorator that sets rule kind to value on the named
// field. Missing fields are ignored.
func SetRule(field, kind, value string) Decorator {
	return DecoratorFunc(func(form *FormModel) error {
		for i := range form.Fields {
			if form.Fields[i].Name == field {
				form.Fields[i] = form.Fields[i].WithRule(kind, value)
			}
		}
		return nil
	})
}
