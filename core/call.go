package core

import (
	"context"
	"fmt"
	"time"

	"github.com/caaatisgood/expo/ctxlog"
	"github.com/caaatisgood/expo/definition"
)

// Executor is a definition.Queue the invocation layer can run work on.
// dispatch.Queue implements it.
type Executor interface {
	definition.Queue
	Submit(ctx context.Context, task func()) error
}

// Exportable is implemented by values that have a plain representation for
// the runtime. Method results implementing it are replaced by ExportValue.
type Exportable interface {
	ExportValue() any
}

// CallObserver is notified about method calls and lifecycle events.
type CallObserver interface {
	MethodCalled(module, method string, elapsed time.Duration, err error)
	EventFired(module string, kind definition.EventKind)
}

type nopObserver struct{}

func (nopObserver) MethodCalled(string, string, time.Duration, error) {}
func (nopObserver) EventFired(string, definition.EventKind)           {}

// Call invokes method on the named module with untyped args.
//
// The method runs on its own queue when it declared one the app context can
// execute on, on the default queue otherwise, or on the calling goroutine
// when there is no default queue. Call waits for the result or for ctx.
//
// Argument problems are returned as *definition.ArgumentCountError or
// *definition.ArgumentError. A method returning a non-nil error fails the
// call with that error; a panicking method fails it with ErrMethodPanicked.
func (a *AppContext) Call(ctx context.Context, module, method string, args []any) (any, error) {
	a.mu.RLock()
	destroyed := a.state == stateDestroyed
	h, ok := a.byName[module]
	a.mu.RUnlock()

	if destroyed {
		return nil, ErrAppContextDestroyed
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrModuleNotFound, module)
	}
	m := h.def.Method(method)
	if m == nil {
		return nil, fmt.Errorf("%w: %s.%s", ErrMethodNotFound, module, method)
	}

	if a.callTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.callTimeout)
		defer cancel()
	}

	logger := ctxlog.FromContext(ctx).With("module", module, "method", method)
	start := time.Now()
	result, err := a.invoke(ctx, a.executorFor(m), m, args)
	elapsed := time.Since(start)

	a.callObserver().MethodCalled(module, method, elapsed, err)
	if err != nil {
		logger.Warn("method call failed", "error", err, "duration_ms", elapsed.Milliseconds())
		return nil, err
	}
	logger.Debug("method called", "duration_ms", elapsed.Milliseconds())
	return result, nil
}

func (a *AppContext) executorFor(m *definition.Method) Executor {
	q := m.Queue()
	if q == nil {
		return a.defaultQueue
	}
	if exec, ok := q.(Executor); ok {
		return exec
	}
	a.Logger.Warn("method queue cannot execute tasks, using default queue", "method", m.Name(), "queue", q.Label())
	return a.defaultQueue
}

type outcome struct {
	value any
	err   error
}

func (a *AppContext) invoke(ctx context.Context, exec Executor, m *definition.Method, args []any) (any, error) {
	if exec == nil {
		return callMethod(m, args)
	}

	done := make(chan outcome, 1)
	err := exec.Submit(ctx, func() {
		v, err := callMethod(m, args)
		done <- outcome{value: v, err: err}
	})
	if err != nil {
		return nil, fmt.Errorf("submit to queue %s: %w", exec.Label(), err)
	}

	select {
	case o := <-done:
		return o.value, o.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func callMethod(m *definition.Method, args []any) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("%w: %s: %v", ErrMethodPanicked, m.Name(), r)
		}
	}()

	v, err := m.Invoke(args)
	if err != nil {
		return nil, err
	}
	return export(v)
}

func export(v any) (any, error) {
	switch r := v.(type) {
	case nil:
		return nil, nil
	case error:
		return nil, r
	case Exportable:
		return r.ExportValue(), nil
	default:
		return v, nil
	}
}
