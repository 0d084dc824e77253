// Package argument provides the concrete method argument types modules use
// in their method signatures.
//
// Every type here implements ConvertFrom on its pointer, so it can be used
// with the definition.MethodN factories, and ExportValue, so results can be
// handed back to the runtime as plain values.
package argument

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
)

// ErrNil is returned when a required argument receives no value.
var ErrNil = errors.New("value is required")

// DecodeError represents an error in the decode or validate stage of a
// record conversion.
type DecodeError struct {
	// Stage indicates which phase failed: "decode" or "validate"
	Stage string
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("argument %s error: %v", e.Stage, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// decode runs value through mapstructure into target. weak enables the
// same lenient conversions config binding uses ("8080" -> 8080). hooks run
// after the duration hook.
func decode(value, target any, weak bool, hooks ...mapstructure.DecodeHookFunc) error {
	if value == nil {
		return ErrNil
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		WeaklyTypedInput: weak,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			append([]mapstructure.DecodeHookFunc{mapstructure.StringToTimeDurationHookFunc()}, hooks...)...,
		),
		ErrorUnused: true,
		TagName:     "arg",
	})
	if err != nil {
		return err
	}
	return decoder.Decode(value)
}
