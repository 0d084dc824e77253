package definition

import (
	"fmt"
	"reflect"
)

// Convertible is the capability a method argument type must have. It is
// satisfied by *T when T can populate itself from an untyped value handed
// over by the bridge.
//
// ConvertFrom must not panic on unexpected input; it reports the problem as
// an error instead.
type Convertible[T any] interface {
	*T
	ConvertFrom(value any) error
}

// ArgumentType describes one accepted method argument type.
type ArgumentType interface {
	// Type is the concrete Go type the argument converts into.
	Type() reflect.Type

	// Convert turns value into the described type. On failure it returns a
	// *ConversionError and a nil value.
	Convert(value any) (any, error)
}

// ConversionError reports that a value could not be converted into an
// argument type.
type ConversionError struct {
	Type  reflect.Type
	Value any
	Err   error
}

// Error implements the error interface.
func (e *ConversionError) Error() string {
	return fmt.Sprintf("cannot convert %v (%T) to %s: %v", e.Value, e.Value, e.Type, e.Err)
}

// Unwrap returns the underlying error, enabling errors.Is and errors.As.
func (e *ConversionError) Unwrap() error {
	return e.Err
}

// Validator is implemented by argument types that check their content,
// such as records with `validate` tags.
type Validator interface {
	Validate() error
}

type argumentType[T any, P Convertible[T]] struct{}

// NewArgumentType returns the descriptor for argument type T.
func NewArgumentType[T any, P Convertible[T]]() ArgumentType {
	return argumentType[T, P]{}
}

func (argumentType[T, P]) Type() reflect.Type {
	return reflect.TypeFor[T]()
}

func (argumentType[T, P]) Convert(value any) (result any, err error) {
	// Panics in ConvertFrom or Validate are reported as conversion failures.
	defer func() {
		if rec := recover(); rec != nil {
			result = nil
			err = &ConversionError{Type: reflect.TypeFor[T](), Value: value, Err: fmt.Errorf("panic: %v", rec)}
		}
	}()

	// A value that already has type T skips ConvertFrom. Types that check
	// their content implement Validator, which still runs on it.
	if v, ok := value.(T); ok {
		if val, ok := any(P(&v)).(Validator); ok {
			if err := val.Validate(); err != nil {
				return nil, &ConversionError{Type: reflect.TypeFor[T](), Value: value, Err: err}
			}
		}
		return v, nil
	}

	var v T
	if err := P(&v).ConvertFrom(value); err != nil {
		return nil, &ConversionError{Type: reflect.TypeFor[T](), Value: value, Err: err}
	}
	return v, nil
}

func (a argumentType[T, P]) String() string {
	return a.Type().String()
}
