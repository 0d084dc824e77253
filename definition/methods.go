package definition

// Code below follows one shape per arity. Each factory derives the argument
// descriptors from the parameter list of fn, so a parameter type that does not
// implement Convertible fails to compile.

// Method0 declares a method that takes no arguments.
func Method0[R any](name string, fn func() R, opts ...MethodOption) MethodElement {
	return newMethod(name, nil, func([]any) any {
		return fn()
	}, opts)
}

// Method1 declares a method with one argument.
func Method1[R any, A0 any, P0 Convertible[A0]](name string, fn func(A0) R, opts ...MethodOption) MethodElement {
	argTypes := []ArgumentType{
		NewArgumentType[A0, P0](),
	}
	return newMethod(name, argTypes, func(args []any) any {
		return fn(args[0].(A0))
	}, opts)
}

// Method2 declares a method with 2 arguments.
func Method2[R any, A0 any, P0 Convertible[A0], A1 any, P1 Convertible[A1]](name string, fn func(A0, A1) R, opts ...MethodOption) MethodElement {
	argTypes := []ArgumentType{
		NewArgumentType[A0, P0](),
		NewArgumentType[A1, P1](),
	}
	return newMethod(name, argTypes, func(args []any) any {
		return fn(args[0].(A0), args[1].(A1))
	}, opts)
}

// Method3 declares a method with 3 arguments.
func Method3[R any, A0 any, P0 Convertible[A0], A1 any, P1 Convertible[A1], A2 any, P2 Convertible[A2]](name string, fn func(A0, A1, A2) R, opts ...MethodOption) MethodElement {
	argTypes := []ArgumentType{
		NewArgumentType[A0, P0](),
		NewArgumentType[A1, P1](),
		NewArgumentType[A2, P2](),
	}
	return newMethod(name, argTypes, func(args []any) any {
		return fn(args[0].(A0), args[1].(A1), args[2].(A2))
	}, opts)
}

// Method4 declares a method with 4 arguments.
func Method4[R any, A0 any, P0 Convertible[A0], A1 any, P1 Convertible[A1], A2 any, P2 Convertible[A2], A3 any, P3 Convertible[A3]](name string, fn func(A0, A1, A2, A3) R, opts ...MethodOption) MethodElement {
	argTypes := []ArgumentType{
		NewArgumentType[A0, P0](),
		NewArgumentType[A1, P1](),
		NewArgumentType[A2, P2](),
		NewArgumentType[A3, P3](),
	}
	return newMethod(name, argTypes, func(args []any) any {
		return fn(args[0].(A0), args[1].(A1), args[2].(A2), args[3].(A3))
	}, opts)
}

// Method5 declares a method with 5 arguments.
func Method5[R any, A0 any, P0 Convertible[A0], A1 any, P1 Convertible[A1], A2 any, P2 Convertible[A2], A3 any, P3 Convertible[A3], A4 any, P4 Convertible[A4]](name string, fn func(A0, A1, A2, A3, A4) R, opts ...MethodOption) MethodElement {
	argTypes := []ArgumentType{
		NewArgumentType[A0, P0](),
		NewArgumentType[A1, P1](),
		NewArgumentType[A2, P2](),
		NewArgumentType[A3, P3](),
		NewArgumentType[A4, P4](),
	}
	return newMethod(name, argTypes, func(args []any) any {
		return fn(args[0].(A0), args[1].(A1), args[2].(A2), args[3].(A3), args[4].(A4))
	}, opts)
}

// Method6 declares a method with 6 arguments.
func Method6[R any, A0 any, P0 Convertible[A0], A1 any, P1 Convertible[A1], A2 any, P2 Convertible[A2], A3 any, P3 Convertible[A3], A4 any, P4 Convertible[A4], A5 any, P5 Convertible[A5]](name string, fn func(A0, A1, A2, A3, A4, A5) R, opts ...MethodOption) MethodElement {
	argTypes := []ArgumentType{
		NewArgumentType[A0, P0](),
		NewArgumentType[A1, P1](),
		NewArgumentType[A2, P2](),
		NewArgumentType[A3, P3](),
		NewArgumentType[A4, P4](),
		NewArgumentType[A5, P5](),
	}
	return newMethod(name, argTypes, func(args []any) any {
		return fn(args[0].(A0), args[1].(A1), args[2].(A2), args[3].(A3), args[4].(A4), args[5].(A5))
	}, opts)
}

// Method7 declares a method with 7 arguments.
func Method7[R any, A0 any, P0 Convertible[A0], A1 any, P1 Convertible[A1], A2 any, P2 Convertible[A2], A3 any, P3 Convertible[A3], A4 any, P4 Convertible[A4], A5 any, P5 Convertible[A5], A6 any, P6 Convertible[A6]](name string, fn func(A0, A1, A2, A3, A4, A5, A6) R, opts ...MethodOption) MethodElement {
	argTypes := []ArgumentType{
		NewArgumentType[A0, P0](),
		NewArgumentType[A1, P1](),
		NewArgumentType[A2, P2](),
		NewArgumentType[A3, P3](),
		NewArgumentType[A4, P4](),
		NewArgumentType[A5, P5](),
		NewArgumentType[A6, P6](),
	}
	return newMethod(name, argTypes, func(args []any) any {
		return fn(args[0].(A0), args[1].(A1), args[2].(A2), args[3].(A3), args[4].(A4), args[5].(A5), args[6].(A6))
	}, opts)
}

// Method8 declares a method with 8 arguments.
func Method8[R any, A0 any, P0 Convertible[A0], A1 any, P1 Convertible[A1], A2 any, P2 Convertible[A2], A3 any, P3 Convertible[A3], A4 any, P4 Convertible[A4], A5 any, P5 Convertible[A5], A6 any, P6 Convertible[A6], A7 any, P7 Convertible[A7]](name string, fn func(A0, A1, A2, A3, A4, A5, A6, A7) R, opts ...MethodOption) MethodElement {
	argTypes := []ArgumentType{
		NewArgumentType[A0, P0](),
		NewArgumentType[A1, P1](),
		NewArgumentType[A2, P2](),
		NewArgumentType[A3, P3](),
		NewArgumentType[A4, P4](),
		NewArgumentType[A5, P5](),
		NewArgumentType[A6, P6](),
		NewArgumentType[A7, P7](),
	}
	return newMethod(name, argTypes, func(args []any) any {
		return fn(args[0].(A0), args[1].(A1), args[2].(A2), args[3].(A3), args[4].(A4), args[5].(A5), args[6].(A6), args[7].(A7))
	}, opts)
}
