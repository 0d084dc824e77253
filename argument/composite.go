package argument

import (
	"reflect"

	"github.com/mitchellh/mapstructure"
)

// List is an array argument holding untyped elements.
type List []any

func (l *List) ConvertFrom(value any) error {
	return decode(value, l, false)
}

func (l List) ExportValue() any { return []any(l) }

// Dict is an object argument with string keys.
type Dict map[string]any

func (d *Dict) ConvertFrom(value any) error {
	return decode(value, d, false)
}

func (d Dict) ExportValue() any { return map[string]any(d) }

// Record decodes an object argument into the struct T and validates it.
//
// Fields are mapped with `arg` tags and checked against `validate` tags:
//
//	type Contact struct {
//	    Name  string `arg:"name" validate:"required"`
//	    Email string `arg:"email" validate:"omitempty,email"`
//	}
//
//	definition.Method1("addContact", func(c argument.Record[Contact]) argument.String { ... })
//
// Keys that do not map to a field are rejected.
type Record[T any] struct {
	Value T
}

func (r *Record[T]) ConvertFrom(value any) error {
	var v T
	if err := decode(value, &v, true, mapstructure.StringToSliceHookFunc(",")); err != nil {
		return &DecodeError{Stage: "decode", Err: err}
	}
	r.Value = v
	return r.Validate()
}

// Validate checks Value against its `validate` tags. Records passed in
// already typed skip ConvertFrom but are still validated.
func (r *Record[T]) Validate() error {
	if reflect.TypeFor[T]().Kind() != reflect.Struct {
		return nil
	}
	if err := validate.Struct(r.Value); err != nil {
		return &DecodeError{Stage: "validate", Err: err}
	}
	return nil
}

// ExportValue returns the record value itself.
func (r Record[T]) ExportValue() any { return r.Value }

// Optional wraps an argument type T that may be left out. A nil value
// converts to an invalid Optional instead of failing.
//
//	definition.Method1("greet", func(name argument.Optional[argument.String, *argument.String]) argument.String { ... })
type Optional[T any, P interface {
	*T
	ConvertFrom(value any) error
}] struct {
	Value T
	Valid bool
}

func (o *Optional[T, P]) ConvertFrom(value any) error {
	if value == nil {
		*o = Optional[T, P]{}
		return nil
	}
	var v T
	if err := P(&v).ConvertFrom(value); err != nil {
		return err
	}
	o.Value, o.Valid = v, true
	return nil
}

// Or returns the value when present and fallback otherwise.
func (o Optional[T, P]) Or(fallback T) T {
	if o.Valid {
		return o.Value
	}
	return fallback
}

// ExportValue returns nil for an absent value.
func (o Optional[T, P]) ExportValue() any {
	if !o.Valid {
		return nil
	}
	if e, ok := any(o.Value).(interface{ ExportValue() any }); ok {
		return e.ExportValue()
	}
	return o.Value
}
