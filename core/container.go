package core

import (
	"fmt"
	"reflect"
	"sync"
)

// Container holds the shared objects services and modules look up at
// configure time: the config root, the logger, the app context itself.
type Container interface {
	Set(key any, val any)
	Get(key any) (any, bool)
	MustGet(key any) any
}

type container struct {
	mu  sync.RWMutex
	reg map[any]any
}

func NewContainer() Container {
	return &container{reg: make(map[any]any)}
}

func (c *container) Set(key, val any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reg[key] = val
}

func (c *container) Get(key any) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.reg[key]
	return v, ok
}

func (c *container) MustGet(key any) any {
	if v, ok := c.Get(key); ok {
		return v
	}
	panic(fmt.Errorf("container: missing dependency %v (%T)", key, key))
}

// TypeKey keys a container entry by its Go type.
type TypeKey[T any] struct{}

// Put stores v under TypeKey[T].
func Put[T any](c Container, v T) { c.Set(TypeKey[T]{}, v) }

// Get returns the value stored under TypeKey[T] and panics when it is
// missing or has another type.
func Get[T any](c Container) T {
	raw := c.MustGet(TypeKey[T]{})
	v, ok := raw.(T)
	if !ok {
		panic(fmt.Errorf("container: wrong type. have=%T want=%v", raw, reflect.TypeFor[T]()))
	}
	return v
}

// Lookup is the non-panicking form of Get.
func Lookup[T any](c Container) (T, bool) {
	raw, ok := c.Get(TypeKey[T]{})
	if !ok {
		var zero T
		return zero, false
	}
	v, ok := raw.(T)
	return v, ok
}
