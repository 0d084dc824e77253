package core

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/caaatisgood/expo/definition"
)

type appState int

const (
	stateIdle appState = iota
	stateStarted
	stateDestroyed
)

type moduleHolder struct {
	module  Module
	def     *ModuleDefinition
	created bool
}

// AppContext owns the registered modules, fires their lifecycle events and
// routes method calls to them.
type AppContext struct {
	ID        string
	Container Container
	Logger    *slog.Logger

	services     []Service
	defaultQueue Executor
	callTimeout  time.Duration
	observer     CallObserver

	mu      sync.RWMutex
	state   appState
	modules []*moduleHolder
	byName  map[string]*moduleHolder
}

// Option configures an AppContext.
type Option func(*AppContext)

// WithServices adds host services started by Run.
func WithServices(s ...Service) Option {
	return func(a *AppContext) { a.services = append(a.services, s...) }
}

// WithDefaultQueue sets where methods without a queue of their own run.
// Without it they run on the calling goroutine.
func WithDefaultQueue(q Executor) Option {
	return func(a *AppContext) { a.defaultQueue = q }
}

// WithCallTimeout bounds every method call.
func WithCallTimeout(d time.Duration) Option {
	return func(a *AppContext) { a.callTimeout = d }
}

// WithObserver reports calls and lifecycle events to o.
func WithObserver(o CallObserver) Option {
	return func(a *AppContext) { a.observer = o }
}

func NewAppContext(logger *slog.Logger, opts ...Option) *AppContext {
	a := &AppContext{
		ID:        uuid.NewString(),
		Container: NewContainer(),
		Logger:    logger,
		observer:  nopObserver{},
		byName:    map[string]*moduleHolder{},
	}
	for _, o := range opts {
		o(a)
	}
	Put[*AppContext](a.Container, a)
	Put[*slog.Logger](a.Container, logger)
	return a
}

// SetObserver replaces the call observer. Services that provide one call
// it from Configure.
func (a *AppContext) SetObserver(o CallObserver) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if o == nil {
		o = nopObserver{}
	}
	a.observer = o
}

// Destroyed reports whether Destroy has run.
func (a *AppContext) Destroyed() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.state == stateDestroyed
}

func (a *AppContext) callObserver() CallObserver {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.observer
}

// Register builds the definitions of mods and adds them to the context.
// Modules registered after Start are created right away.
func (a *AppContext) Register(mods ...Module) error {
	holders := make([]*moduleHolder, 0, len(mods))
	for _, m := range mods {
		def, err := BuildDefinition(m)
		if err != nil {
			return err
		}
		holders = append(holders, &moduleHolder{module: m, def: def})
	}

	a.mu.Lock()
	if a.state == stateDestroyed {
		a.mu.Unlock()
		return ErrAppContextDestroyed
	}
	for _, h := range holders {
		if _, dup := a.byName[h.def.Name()]; dup {
			a.mu.Unlock()
			return fmt.Errorf("%w: %s", ErrDuplicateModule, h.def.Name())
		}
	}
	for _, h := range holders {
		a.byName[h.def.Name()] = h
		a.modules = append(a.modules, h)
	}
	started := a.state == stateStarted
	a.mu.Unlock()

	for _, h := range holders {
		a.Logger.Debug("module registered", "module", h.def.Name(), "methods", len(h.def.methods))
		if started {
			a.create(h)
		}
	}
	return nil
}

// Module returns the definition of the named module.
func (a *AppContext) Module(name string) (*ModuleDefinition, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	h, ok := a.byName[name]
	if !ok {
		return nil, false
	}
	return h.def, true
}

// Modules returns all module definitions in registration order.
func (a *AppContext) Modules() []*ModuleDefinition {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]*ModuleDefinition, 0, len(a.modules))
	for _, h := range a.modules {
		out = append(out, h.def)
	}
	return out
}

func (a *AppContext) snapshot() []*moduleHolder {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return slices.Clone(a.modules)
}

// Start fires ModuleCreate for every module in registration order.
// Calling Start again has no effect.
func (a *AppContext) Start(ctx context.Context) error {
	a.mu.Lock()
	switch a.state {
	case stateDestroyed:
		a.mu.Unlock()
		return ErrAppContextDestroyed
	case stateStarted:
		a.mu.Unlock()
		return nil
	}
	a.state = stateStarted
	a.mu.Unlock()

	for _, h := range a.snapshot() {
		a.create(h)
	}
	return nil
}

func (a *AppContext) create(h *moduleHolder) {
	a.mu.Lock()
	if h.created || a.state == stateDestroyed {
		a.mu.Unlock()
		return
	}
	h.created = true
	a.mu.Unlock()

	a.Logger.Info("creating module", "module", h.def.Name())
	a.fire(h, definition.ModuleCreate)
}

// EnterForeground tells every module the client app is entering the
// foreground.
func (a *AppContext) EnterForeground() { a.broadcast(definition.ClientAppEnterForeground) }

// BecomeActive tells every module the client app became active.
func (a *AppContext) BecomeActive() { a.broadcast(definition.ClientAppBecomeActive) }

// EnterBackground tells every module the client app entered the background.
func (a *AppContext) EnterBackground() { a.broadcast(definition.ClientAppEnterBackground) }

func (a *AppContext) broadcast(kind definition.EventKind) {
	a.mu.RLock()
	running := a.state == stateStarted
	a.mu.RUnlock()
	if !running {
		a.Logger.Debug("ignoring app state event", "event", kind.String())
		return
	}
	for _, h := range a.snapshot() {
		a.fire(h, kind)
	}
}

// Destroy fires AppContextDestroy for every module and then ModuleDestroy
// for every created module, in reverse registration order. Only the first
// call has an effect; later calls return ErrAppContextDestroyed.
func (a *AppContext) Destroy(ctx context.Context) error {
	a.mu.Lock()
	if a.state == stateDestroyed {
		a.mu.Unlock()
		return ErrAppContextDestroyed
	}
	a.state = stateDestroyed
	holders := slices.Clone(a.modules)
	created := make([]bool, len(holders))
	for i, h := range holders {
		created[i] = h.created
	}
	a.mu.Unlock()

	for _, h := range holders {
		a.fire(h, definition.AppContextDestroy)
	}
	for i := len(holders) - 1; i >= 0; i-- {
		h := holders[i]
		if !created[i] {
			continue
		}
		a.Logger.Info("destroying module", "module", h.def.Name())
		a.fire(h, definition.ModuleDestroy)
	}
	return nil
}

func (a *AppContext) fire(h *moduleHolder, kind definition.EventKind) {
	listeners := h.def.listeners[kind]
	if len(listeners) == 0 {
		return
	}
	for _, l := range listeners {
		func() {
			defer func() {
				if r := recover(); r != nil {
					a.Logger.Error("lifecycle listener panicked", "module", h.def.Name(), "event", kind.String(), "panic", r)
				}
			}()
			l.Call()
		}()
	}
	a.callObserver().EventFired(h.def.Name(), kind)
}

// Run configures and starts the services, starts the modules and then
// translates process signals into lifecycle events until ctx is done or a
// termination signal arrives. Services are stopped in reverse order after
// the modules are destroyed.
func (a *AppContext) Run(ctx context.Context) error {
	order, err := sortServices(a.services)
	if err != nil {
		return err
	}

	for _, s := range order {
		if err := s.Configure(a.Container); err != nil {
			return fmt.Errorf("configure %s: %w", s.Name(), err)
		}
	}
	for _, s := range order {
		a.Logger.Info("starting service", "service", s.Name())
		if err := s.Start(ctx, a.Container); err != nil {
			return fmt.Errorf("start %s: %w", s.Name(), err)
		}
	}

	if err := a.Start(ctx); err != nil {
		return err
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, watchedSignals...)
	defer signal.Stop(sigs)

wait:
	for {
		select {
		case <-ctx.Done():
			break wait
		case sig := <-sigs:
			if !a.handleSignal(sig) {
				break wait
			}
		}
	}

	destroyErr := a.Destroy(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	firstErr := destroyErr
	for i := len(order) - 1; i >= 0; i-- {
		s := order[i]
		a.Logger.Info("stopping service", "service", s.Name())
		if err := s.Stop(shutdownCtx, a.Container); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func sortServices(services []Service) ([]Service, error) {
	byName := map[string]Service{}
	for _, s := range services {
		if _, dup := byName[s.Name()]; dup {
			return nil, fmt.Errorf("duplicate service name: %s", s.Name())
		}
		byName[s.Name()] = s
	}

	visited := map[string]bool{}
	visiting := map[string]bool{}
	var out []Service
	var visit func(string) error

	visit = func(n string) error {
		if visiting[n] {
			return fmt.Errorf("cycle detected at service %s", n)
		}
		if visited[n] {
			return nil
		}
		visiting[n] = true
		for _, d := range byName[n].DependsOn() {
			if _, ok := byName[d]; !ok {
				return fmt.Errorf("missing dependency: %s depends on %s", n, d)
			}
			if err := visit(d); err != nil {
				return err
			}
		}
		visited[n] = true
		visiting[n] = false
		out = append(out, byName[n])
		return nil
	}

	names := make([]string, 0, len(services))
	for _, s := range services {
		names = append(names, s.Name())
	}
	sort.Strings(names)

	for _, n := range names {
		if err := visit(n); err != nil {
			return nil, err
		}
	}
	return out, nil
}
