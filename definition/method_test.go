package definition_test

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caaatisgood/expo/argument"
	"github.com/caaatisgood/expo/definition"
)

// upper is a custom argument type: it only accepts strings and upper-cases
// them on the way in.
type upper string

func (u *upper) ConvertFrom(value any) error {
	s, ok := value.(string)
	if !ok {
		return fmt.Errorf("expected string, got %T", value)
	}
	*u = upper(strings.ToUpper(s))
	return nil
}

type testQueue string

func (q testQueue) Label() string { return string(q) }

var (
	intType    = reflect.TypeFor[argument.Int]()
	stringType = reflect.TypeFor[argument.String]()
	boolType   = reflect.TypeFor[argument.Bool]()
	floatType  = reflect.TypeFor[argument.Float]()
)

func argTypes(m *definition.Method) []reflect.Type {
	var out []reflect.Type
	for _, at := range m.ArgumentTypes() {
		out = append(out, at.Type())
	}
	return out
}

func TestMethodN_ArgumentTypesFollowDeclarationOrder(t *testing.T) {
	type (
		I = argument.Int
		S = argument.String
		B = argument.Bool
		F = argument.Float
	)

	tests := []struct {
		name string
		el   definition.MethodElement
		want []reflect.Type
	}{
		{
			name: "0 arguments",
			el:   definition.Method0("m0", func() I { return 0 }),
			want: nil,
		},
		{
			name: "1 argument",
			el:   definition.Method1("m1", func(a I) I { return a }),
			want: []reflect.Type{intType},
		},
		{
			name: "2 arguments",
			el:   definition.Method2("m2", func(a I, b S) I { return a }),
			want: []reflect.Type{intType, stringType},
		},
		{
			name: "3 arguments",
			el:   definition.Method3("m3", func(a I, b S, c B) I { return a }),
			want: []reflect.Type{intType, stringType, boolType},
		},
		{
			name: "4 arguments",
			el:   definition.Method4("m4", func(a I, b S, c B, d F) I { return a }),
			want: []reflect.Type{intType, stringType, boolType, floatType},
		},
		{
			name: "5 arguments",
			el:   definition.Method5("m5", func(a I, b S, c B, d F, e I) I { return a }),
			want: []reflect.Type{intType, stringType, boolType, floatType, intType},
		},
		{
			name: "6 arguments",
			el:   definition.Method6("m6", func(a I, b S, c B, d F, e I, f S) I { return a }),
			want: []reflect.Type{intType, stringType, boolType, floatType, intType, stringType},
		},
		{
			name: "7 arguments",
			el:   definition.Method7("m7", func(a I, b S, c B, d F, e I, f S, g B) I { return a }),
			want: []reflect.Type{intType, stringType, boolType, floatType, intType, stringType, boolType},
		},
		{
			name: "8 arguments",
			el:   definition.Method8("m8", func(a I, b S, c B, d F, e I, f S, g B, h F) I { return a }),
			want: []reflect.Type{intType, stringType, boolType, floatType, intType, stringType, boolType, floatType},
		},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := tt.el.Method()
			assert.Equal(t, i, m.Arity())
			assert.Len(t, m.ArgumentTypes(), i)
			assert.Equal(t, tt.want, argTypes(m))
			assert.Equal(t, fmt.Sprintf("m%d", i), m.Name())
		})
	}
}

func TestMethod8_InvokesWithAllArguments(t *testing.T) {
	m := definition.Method8("join", func(a, b, c, d, e, f, g, h argument.String) argument.String {
		return a + b + c + d + e + f + g + h
	}).Method()

	got, err := m.Invoke([]any{"a", "b", "c", "d", "e", "f", "g", "h"})
	require.NoError(t, err)
	assert.Equal(t, argument.String("abcdefgh"), got)
}

func TestMethod_Invoke(t *testing.T) {
	calls := 0
	m := definition.Method2("add", func(a, b argument.Int) argument.Int {
		calls++
		return a + b
	}).Method()

	assert.Zero(t, calls, "registration must not call the function")

	got, err := m.Invoke([]any{2, 3.0})
	require.NoError(t, err)
	assert.Equal(t, argument.Int(5), got)
	assert.Equal(t, 1, calls)

	t.Run("wrong argument count", func(t *testing.T) {
		_, err := m.Invoke([]any{1})

		var countErr *definition.ArgumentCountError
		require.ErrorAs(t, err, &countErr)
		assert.Equal(t, 2, countErr.Want)
		assert.Equal(t, 1, countErr.Got)
		assert.Equal(t, 1, calls)
	})

	t.Run("conversion failure", func(t *testing.T) {
		_, err := m.Invoke([]any{1, "two"})

		var argErr *definition.ArgumentError
		require.ErrorAs(t, err, &argErr)
		assert.Equal(t, 1, argErr.Index)
		assert.Equal(t, "add", argErr.Method)

		var convErr *definition.ConversionError
		assert.ErrorAs(t, err, &convErr)
		assert.Equal(t, 1, calls)
	})
}

func TestMethod_CustomArgumentType(t *testing.T) {
	m := definition.Method1("shout", func(s upper) argument.String {
		return argument.String(s) + "!"
	}).Method()

	assert.Equal(t, []reflect.Type{reflect.TypeFor[upper]()}, argTypes(m))

	got, err := m.Invoke([]any{"hey"})
	require.NoError(t, err)
	assert.Equal(t, argument.String("HEY!"), got)

	_, err = m.Invoke([]any{1})
	assert.Error(t, err)
}

type panicky struct{}

func (*panicky) ConvertFrom(any) error { panic("boom") }

func TestArgumentType_PanicIsConversionError(t *testing.T) {
	_, err := definition.NewArgumentType[panicky]().Convert("x")

	var convErr *definition.ConversionError
	require.ErrorAs(t, err, &convErr)
	assert.Contains(t, convErr.Error(), "boom")
}

func TestMethod_Queue(t *testing.T) {
	q := testQueue("main")

	withQueue := definition.Method0("a", func() argument.Bool { return true }, definition.OnQueue(q)).Method()
	assert.Equal(t, definition.Queue(q), withQueue.Queue())

	withoutQueue := definition.Method0("b", func() argument.Bool { return true }).Method()
	assert.Nil(t, withoutQueue.Queue())
}

func TestMethod_ErrorResult(t *testing.T) {
	errBroken := errors.New("broken")
	m := definition.Method0("fail", func() error { return errBroken }).Method()

	got, err := m.Invoke(nil)
	require.NoError(t, err, "the result is handed back as is")
	assert.Equal(t, errBroken, got)
}

func TestMethod_SameNameTwice(t *testing.T) {
	first := definition.Method0("dup", func() argument.Int { return 1 }).Method()
	second := definition.Method0("dup", func() argument.Int { return 2 }).Method()

	assert.NotSame(t, first, second)

	a, _ := first.Invoke(nil)
	b, _ := second.Invoke(nil)
	assert.Equal(t, argument.Int(1), a)
	assert.Equal(t, argument.Int(2), b)
}

func TestMethod_ArgumentTypesIsACopy(t *testing.T) {
	m := definition.Method1("m", func(a argument.Int) argument.Int { return a }).Method()
	types := m.ArgumentTypes()
	types[0] = nil
	assert.NotNil(t, m.ArgumentTypes()[0])
}
