package argument

import (
	"fmt"
	"math"
	"reflect"
	"time"
)

// String is a string argument. Only string values convert.
type String string

func (s *String) ConvertFrom(value any) error {
	return decode(value, s, false)
}

func (s String) ExportValue() any { return string(s) }

// Bool is a boolean argument. Only boolean values convert.
type Bool bool

func (b *Bool) ConvertFrom(value any) error {
	return decode(value, b, false)
}

func (b Bool) ExportValue() any { return bool(b) }

// Int is an integer argument. It accepts any integer, floats without a
// fractional part (runtimes such as Lua and JSON only have one number type)
// and numeric strings.
type Int int64

func (i *Int) ConvertFrom(value any) error {
	if err := checkNumeric(value); err != nil {
		return err
	}
	if err := checkInt64(value); err != nil {
		return err
	}
	return decode(value, i, true)
}

func (i Int) ExportValue() any { return int64(i) }

// Float is a floating point argument. It accepts any number and numeric
// strings.
type Float float64

func (f *Float) ConvertFrom(value any) error {
	if err := checkNumeric(value); err != nil {
		return err
	}
	return decode(value, f, true)
}

func (f Float) ExportValue() any { return float64(f) }

// Duration accepts strings in time.ParseDuration format ("1.5s") or an
// integer number of nanoseconds.
type Duration time.Duration

func (d *Duration) ConvertFrom(value any) error {
	if err := checkInt64(value); err != nil {
		return err
	}
	var dur time.Duration
	if err := decode(value, &dur, false); err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

// ExportValue reports the duration in its string form.
func (d Duration) ExportValue() any { return time.Duration(d).String() }

// checkInt64 rejects numbers an int64 cannot hold exactly: fractional or
// non-finite floats, floats outside [-2^63, 2^63) and unsigned values above
// math.MaxInt64. Other values are left to the decoder.
func checkInt64(value any) error {
	if value == nil {
		return nil
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Float32, reflect.Float64:
		f := v.Float()
		if math.Trunc(f) != f || math.IsInf(f, 0) {
			return fmt.Errorf("%v is not an integer", value)
		}
		if f < -(1<<63) || f >= 1<<63 {
			return fmt.Errorf("%v overflows int64", value)
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if v.Uint() > math.MaxInt64 {
			return fmt.Errorf("%v overflows int64", value)
		}
	}
	return nil
}

// checkNumeric rejects the weak conversions mapstructure would otherwise
// apply to numbers (true -> 1, "" -> 0).
func checkNumeric(value any) error {
	switch v := value.(type) {
	case bool:
		return fmt.Errorf("expected a number, got %T", value)
	case string:
		if v == "" {
			return fmt.Errorf("expected a number, got an empty string")
		}
	}
	return nil
}
