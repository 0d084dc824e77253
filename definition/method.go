package definition

import "fmt"

// MaxArguments is the largest arity a method can be registered with.
// Methods that need more should take a single Record argument instead.
const MaxArguments = 8

// Queue identifies the execution context a method asks to be invoked on.
// The definition layer only stores it; whoever invokes the method decides
// what the handle means.
type Queue interface {
	Label() string
}

// Method is an exported, typed function of a module.
type Method struct {
	name     string
	argTypes []ArgumentType
	queue    Queue
	call     func(args []any) any
}

// MethodOption customises a method at registration time.
type MethodOption func(*Method)

// OnQueue requests that the method be invoked on q.
func OnQueue(q Queue) MethodOption {
	return func(m *Method) { m.queue = q }
}

func newMethod(name string, argTypes []ArgumentType, call func(args []any) any, opts []MethodOption) MethodElement {
	m := &Method{
		name:     name,
		argTypes: argTypes,
		call:     call,
	}
	for _, o := range opts {
		o(m)
	}
	return MethodElement{method: m}
}

// Name returns the name the method is exported under.
func (m *Method) Name() string { return m.name }

// Arity returns the number of arguments the method takes.
func (m *Method) Arity() int { return len(m.argTypes) }

// ArgumentTypes returns the argument descriptors in positional order.
func (m *Method) ArgumentTypes() []ArgumentType {
	return append([]ArgumentType(nil), m.argTypes...)
}

// Queue returns the requested queue, or nil when the caller decides.
func (m *Method) Queue() Queue { return m.queue }

// Invoke converts args positionally and calls the underlying function.
//
// Invoke returns an *ArgumentCountError when len(args) differs from the
// arity and an *ArgumentError when one of the values cannot be converted.
// The function is not called in either case.
func (m *Method) Invoke(args []any) (any, error) {
	if len(args) != len(m.argTypes) {
		return nil, &ArgumentCountError{Method: m.name, Want: len(m.argTypes), Got: len(args)}
	}

	converted := make([]any, len(args))
	for i, at := range m.argTypes {
		v, err := at.Convert(args[i])
		if err != nil {
			return nil, &ArgumentError{Method: m.name, Index: i, Err: err}
		}
		converted[i] = v
	}
	return m.call(converted), nil
}

// ArgumentCountError is returned when a method is invoked with the wrong
// number of arguments.
type ArgumentCountError struct {
	Method string
	Want   int
	Got    int
}

func (e *ArgumentCountError) Error() string {
	return fmt.Sprintf("method %s: received %d arguments, but %d were expected", e.Method, e.Got, e.Want)
}

// ArgumentError is returned when the argument at Index fails conversion.
type ArgumentError struct {
	Method string
	Index  int
	Err    error
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("method %s: argument %d: %v", e.Method, e.Index, e.Err)
}

func (e *ArgumentError) Unwrap() error { return e.Err }
