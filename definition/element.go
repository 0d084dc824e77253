package definition

import "maps"

// Element is one declared piece of a module definition. The set of
// implementations is closed: NameElement, ConstantsElement, MethodElement
// and EventListenerElement.
type Element interface {
	element()
}

// NameElement sets the name the module is exported under.
type NameElement struct {
	name string
}

// ConstantsElement carries constants captured at definition time.
type ConstantsElement struct {
	constants map[string]any
}

// MethodElement carries an exported method.
type MethodElement struct {
	method *Method
}

// EventListenerElement carries a lifecycle listener.
type EventListenerElement struct {
	listener *EventListener
}

func (NameElement) element()          {}
func (ConstantsElement) element()     {}
func (MethodElement) element()        {}
func (EventListenerElement) element() {}

// Name sets the name of the module exported to the managed runtime.
// The name is not validated here.
func Name(name string) NameElement {
	return NameElement{name: name}
}

// Name returns the export name.
func (e NameElement) Name() string { return e.name }

// Constants calls supplier once, immediately, and captures the constants it
// returns. A panic in supplier propagates to the caller of Constants.
func Constants(supplier func() map[string]any) ConstantsElement {
	return ConstantsElement{constants: maps.Clone(supplier())}
}

// Constants returns a copy of the captured constants.
func (e ConstantsElement) Constants() map[string]any {
	if e.constants == nil {
		return map[string]any{}
	}
	return maps.Clone(e.constants)
}

// Method returns the method descriptor.
func (e MethodElement) Method() *Method { return e.method }

// Listener returns the lifecycle listener.
func (e EventListenerElement) Listener() *EventListener { return e.listener }
