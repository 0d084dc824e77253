// Package definition is the declarative surface a native module uses to
// describe what it exposes to a managed runtime: an export name, a block
// of constants, typed methods and lifecycle listeners.
//
// Every factory returns an Element. A module returns its elements from its
// definition function and an aggregator (see package core) folds them into
// a single module definition:
//
//	func (m *Calculator) Definition() []definition.Element {
//	    return []definition.Element{
//	        definition.Name("Calculator"),
//	        definition.Constants(func() map[string]any {
//	            return map[string]any{"pi": math.Pi}
//	        }),
//	        definition.Method2("add", func(a, b argument.Float) argument.Float {
//	            return a + b
//	        }),
//	        definition.OnCreate(func() { m.ready = true }),
//	    }
//	}
//
// Method parameter types are checked at compile time: each one must be a
// type T whose pointer implements Convertible[T].
package definition
