package core

import (
	"context"

	"github.com/caaatisgood/expo/definition"
)

// Module is a native unit exposed to the managed runtime. Its definition
// function is called once, when the module is registered with an
// AppContext.
type Module interface {
	Definition() []definition.Element
}

// ModuleFunc adapts a plain definition function to Module.
type ModuleFunc func() []definition.Element

func (f ModuleFunc) Definition() []definition.Element { return f() }

// Service is a piece of host infrastructure (HTTP server, metrics, ...)
// that runs alongside the modules but is not visible to the runtime.
type Service interface {
	Name() string
	// DependsOn declares hard dependencies by service name.
	DependsOn() []string
	// Configure registers objects into the container.
	Configure(c Container) error
	// Start begins any long-running work or servers.
	Start(ctx context.Context, c Container) error
	// Stop gracefully stops the service.
	Stop(ctx context.Context, c Container) error
}
