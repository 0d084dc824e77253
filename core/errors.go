package core

import (
	"errors"
	"fmt"
)

var (
	ErrModuleNotFound      = errors.New("module not found")
	ErrMethodNotFound      = errors.New("method not found")
	ErrAppContextDestroyed = errors.New("app context destroyed")
	ErrMethodPanicked      = errors.New("method panicked")

	ErrEmptyName        = errors.New("module name is empty")
	ErrNameRedefined    = errors.New("module name declared more than once")
	ErrDuplicateMethod  = errors.New("duplicate method name")
	ErrDuplicateModule  = errors.New("duplicate module name")
	ErrNilElement       = errors.New("nil definition element")
	ErrInvalidElement   = errors.New("unsupported definition element")
	ErrSupplierPanicked = errors.New("definition function panicked")
)

// DefinitionError reports a module whose definition could not be built.
type DefinitionError struct {
	Module string
	Err    error
}

func (e *DefinitionError) Error() string {
	return fmt.Sprintf("module %s: invalid definition: %v", e.Module, e.Err)
}

func (e *DefinitionError) Unwrap() error {
	return e.Err
}
