package core

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caaatisgood/expo/definition"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// eventLog records lifecycle callbacks across modules.
type eventLog struct {
	mu     sync.Mutex
	events []string
}

func (l *eventLog) add(e string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
}

func (l *eventLog) all() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.events...)
}

func lifecycleModule(name string, log *eventLog) Module {
	return ModuleFunc(func() []definition.Element {
		return []definition.Element{
			definition.Name(name),
			definition.OnCreate(func() { log.add(name + ":create") }),
			definition.OnDestroy(func() { log.add(name + ":destroy") }),
			definition.OnAppContextDestroy(func() { log.add(name + ":appContextDestroy") }),
			definition.OnClientAppEnterForeground(func() { log.add(name + ":foreground") }),
			definition.OnClientAppBecomeActive(func() { log.add(name + ":active") }),
			definition.OnClientAppEnterBackground(func() { log.add(name + ":background") }),
		}
	})
}

func TestAppContext_Lifecycle(t *testing.T) {
	log := &eventLog{}
	app := NewAppContext(testLogger())
	require.NoError(t, app.Register(lifecycleModule("A", log), lifecycleModule("B", log)))

	assert.Empty(t, log.all(), "registration must not fire events")

	// App state events before start are dropped.
	app.EnterBackground()
	assert.Empty(t, log.all())

	ctx := context.Background()
	require.NoError(t, app.Start(ctx))
	require.NoError(t, app.Start(ctx))

	app.EnterBackground()
	app.EnterForeground()
	app.BecomeActive()

	require.NoError(t, app.Destroy(ctx))
	assert.ErrorIs(t, app.Destroy(ctx), ErrAppContextDestroyed)

	assert.Equal(t, []string{
		"A:create", "B:create",
		"A:background", "B:background",
		"A:foreground", "B:foreground",
		"A:active", "B:active",
		"A:appContextDestroy", "B:appContextDestroy",
		"B:destroy", "A:destroy",
	}, log.all())
}

func TestAppContext_RegisterAfterStartCreatesImmediately(t *testing.T) {
	log := &eventLog{}
	app := NewAppContext(testLogger())
	require.NoError(t, app.Start(context.Background()))

	require.NoError(t, app.Register(lifecycleModule("Late", log)))
	assert.Equal(t, []string{"Late:create"}, log.all())
}

func TestAppContext_DestroyWithoutStart(t *testing.T) {
	log := &eventLog{}
	app := NewAppContext(testLogger())
	require.NoError(t, app.Register(lifecycleModule("A", log)))

	require.NoError(t, app.Destroy(context.Background()))
	assert.Equal(t, []string{"A:appContextDestroy"}, log.all(), "a module never created is never destroyed")

	assert.ErrorIs(t, app.Start(context.Background()), ErrAppContextDestroyed)
	assert.ErrorIs(t, app.Register(lifecycleModule("B", log)), ErrAppContextDestroyed)
}

func TestAppContext_DestroyDuringStart(t *testing.T) {
	log := &eventLog{}
	app := NewAppContext(testLogger())
	require.NoError(t, app.Register(
		ModuleFunc(func() []definition.Element {
			return []definition.Element{
				definition.Name("A"),
				definition.OnCreate(func() {
					log.add("A:create")
					assert.NoError(t, app.Destroy(context.Background()))
				}),
				definition.OnDestroy(func() { log.add("A:destroy") }),
			}
		}),
		lifecycleModule("B", log),
	))

	require.NoError(t, app.Start(context.Background()))

	assert.True(t, app.Destroyed())
	assert.Equal(t, []string{"A:create", "B:appContextDestroy", "A:destroy"}, log.all(),
		"modules not created before the context was destroyed are never created")
}

func TestAppContext_RegisterRejectsDuplicates(t *testing.T) {
	log := &eventLog{}
	app := NewAppContext(testLogger())
	require.NoError(t, app.Register(lifecycleModule("A", log)))
	assert.ErrorIs(t, app.Register(lifecycleModule("A", log)), ErrDuplicateModule)
	assert.Len(t, app.Modules(), 1)
}

func TestAppContext_ListenerPanicIsContained(t *testing.T) {
	log := &eventLog{}
	app := NewAppContext(testLogger())
	require.NoError(t, app.Register(
		ModuleFunc(func() []definition.Element {
			return []definition.Element{
				definition.Name("Broken"),
				definition.OnCreate(func() { panic("boom") }),
			}
		}),
		lifecycleModule("A", log),
	))

	require.NoError(t, app.Start(context.Background()))
	assert.Equal(t, []string{"A:create"}, log.all())
}

func TestAppContext_ContainerSeeded(t *testing.T) {
	logger := testLogger()
	app := NewAppContext(logger)

	assert.Same(t, app, Get[*AppContext](app.Container))
	assert.Same(t, logger, Get[*slog.Logger](app.Container))
	assert.NotEmpty(t, app.ID)

	_, ok := Lookup[string](app.Container)
	assert.False(t, ok)
}

type recordingService struct {
	name string
	deps []string
	log  *eventLog
}

func (s *recordingService) Name() string        { return s.name }
func (s *recordingService) DependsOn() []string { return s.deps }
func (s *recordingService) Configure(Container) error {
	s.log.add(s.name + ":configure")
	return nil
}
func (s *recordingService) Start(context.Context, Container) error {
	s.log.add(s.name + ":start")
	return nil
}
func (s *recordingService) Stop(context.Context, Container) error {
	s.log.add(s.name + ":stop")
	return nil
}

func TestAppContext_Run(t *testing.T) {
	log := &eventLog{}
	app := NewAppContext(testLogger(), WithServices(
		&recordingService{name: "metrics", deps: []string{"web"}, log: log},
		&recordingService{name: "web", log: log},
	))
	require.NoError(t, app.Register(lifecycleModule("A", log)))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	require.NoError(t, app.Run(ctx))

	assert.Equal(t, []string{
		"web:configure", "metrics:configure",
		"web:start", "metrics:start",
		"A:create",
		"A:appContextDestroy", "A:destroy",
		"metrics:stop", "web:stop",
	}, log.all())
}

func TestSortServices_Errors(t *testing.T) {
	log := &eventLog{}

	_, err := sortServices([]Service{
		&recordingService{name: "a", deps: []string{"b"}, log: log},
		&recordingService{name: "b", deps: []string{"a"}, log: log},
	})
	assert.ErrorContains(t, err, "cycle")

	_, err = sortServices([]Service{&recordingService{name: "a", deps: []string{"x"}, log: log}})
	assert.ErrorContains(t, err, "missing dependency")

	_, err = sortServices([]Service{
		&recordingService{name: "a", log: log},
		&recordingService{name: "a", log: log},
	})
	assert.ErrorContains(t, err, "duplicate")
}
