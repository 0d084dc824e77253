package definition

// EventKind is a point in the life of a module or of the app hosting it.
type EventKind int

const (
	// ModuleCreate fires once, right after the module is created.
	ModuleCreate EventKind = iota
	// ModuleDestroy fires once, when the module is about to be released.
	ModuleDestroy
	// AppContextDestroy fires when the app context owning the module is
	// about to be released. It is not ordered against ModuleDestroy.
	AppContextDestroy
	// ClientAppEnterForeground fires when the client app is about to enter
	// the foreground.
	ClientAppEnterForeground
	// ClientAppBecomeActive fires when the client app becomes active again.
	ClientAppBecomeActive
	// ClientAppEnterBackground fires when the client app enters the
	// background.
	ClientAppEnterBackground
)

// EventKinds lists every event kind in declaration order.
var EventKinds = []EventKind{
	ModuleCreate,
	ModuleDestroy,
	AppContextDestroy,
	ClientAppEnterForeground,
	ClientAppBecomeActive,
	ClientAppEnterBackground,
}

// String returns the name of the event kind.
func (k EventKind) String() string {
	switch k {
	case ModuleCreate:
		return "moduleCreate"
	case ModuleDestroy:
		return "moduleDestroy"
	case AppContextDestroy:
		return "appContextDestroy"
	case ClientAppEnterForeground:
		return "clientAppEnterForeground"
	case ClientAppBecomeActive:
		return "clientAppBecomeActive"
	case ClientAppEnterBackground:
		return "clientAppEnterBackground"
	default:
		return "unknown"
	}
}

// EventListener pairs an event kind with the callback to run when it fires.
type EventListener struct {
	kind     EventKind
	callback func()
}

// Kind returns the event the listener is attached to.
func (l *EventListener) Kind() EventKind { return l.kind }

// Call runs the callback.
func (l *EventListener) Call() { l.callback() }

func newEventListener(kind EventKind, callback func()) EventListenerElement {
	return EventListenerElement{listener: &EventListener{kind: kind, callback: callback}}
}

// OnCreate registers a listener called right after module initialization.
func OnCreate(callback func()) EventListenerElement {
	return newEventListener(ModuleCreate, callback)
}

// OnDestroy registers a listener called when the module is about to be
// released.
func OnDestroy(callback func()) EventListenerElement {
	return newEventListener(ModuleDestroy, callback)
}

// OnAppContextDestroy registers a listener called when the app context
// owning the module is about to be released.
func OnAppContextDestroy(callback func()) EventListenerElement {
	return newEventListener(AppContextDestroy, callback)
}

// OnClientAppEnterForeground registers a listener called when the client app
// is about to enter the foreground.
func OnClientAppEnterForeground(callback func()) EventListenerElement {
	return newEventListener(ClientAppEnterForeground, callback)
}

// OnClientAppBecomeActive registers a listener called when the client app
// becomes active again.
func OnClientAppBecomeActive(callback func()) EventListenerElement {
	return newEventListener(ClientAppBecomeActive, callback)
}

// OnClientAppEnterBackground registers a listener called when the client app
// enters the background.
func OnClientAppEnterBackground(callback func()) EventListenerElement {
	return newEventListener(ClientAppEnterBackground, callback)
}
