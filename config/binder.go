package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
)

// Binder decodes merged source maps into a tagged struct and validates it.
//
// Fields are matched through `config` tags, case-insensitively, and are
// checked against `validate` tags:
//
//	type BridgeConfig struct {
//	    DefaultQueueWorkers int           `config:"defaultQueueWorkers" validate:"min=0"`
//	    CallTimeout         time.Duration `config:"callTimeout"`
//	}
type Binder struct {
	validator *validator.Validate
}

// BindError reports which stage of Bind failed: "decode" or "validate".
type BindError struct {
	Stage string
	Err   error
}

func (e *BindError) Error() string {
	return fmt.Sprintf("config %s error: %v", e.Stage, e.Err)
}

func (e *BindError) Unwrap() error {
	return e.Err
}

func NewBinder() *Binder {
	return &Binder{
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Bind decodes source into target, a pointer to struct, and validates the
// result. Values are weakly typed: "8" binds to an int and "5s" to a
// time.Duration. Unknown keys are ignored.
func (b *Binder) Bind(source map[string]any, target any) error {
	if err := b.decode(source, target); err != nil {
		return &BindError{Stage: "decode", Err: err}
	}
	if err := b.validator.Struct(target); err != nil {
		return &BindError{Stage: "validate", Err: err}
	}
	return nil
}

func (b *Binder) decode(source map[string]any, target any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
		TagName: "config",
	})
	if err != nil {
		return err
	}
	return decoder.Decode(source)
}
