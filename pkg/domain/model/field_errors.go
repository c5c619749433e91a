package model

import "sort"

// FieldErrors maps a field name to its current validation message. A missing
// key means the field is valid.
type FieldErrors map[string]string

func (e FieldErrors) Set(field, msg string) {
	e[field] = msg
}

func (e FieldErrors) Clear(field string) {
	delete(e, field)
}

func (e FieldErrors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

func (e FieldErrors) Get(field string) string {
	return e[field]
}

func (e FieldErrors) Empty() bool {
	return len(e) == 0
}

func (e FieldErrors) Clone() FieldErrors {
	c := make(FieldErrors, len(e))
	for k, v := range e {
		c[k] = v
	}
	return c
}

// Fields returns the invalid field names in sorted order
func (e FieldErrors) Fields() []string {
	fields := make([]string, 0, len(e))
	for k := range e {
		fields = append(fields, k)
	}
	sort.Strings(fields)
	return fields
}
