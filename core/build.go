package core

import (
	"fmt"
	"maps"
	"reflect"

	"github.com/go-playground/validator/v10"

	"github.com/caaatisgood/expo/definition"
)

// ModuleDefinition is the aggregated definition of one module.
type ModuleDefinition struct {
	name      string
	constants map[string]any
	methods   []*definition.Method
	byName    map[string]*definition.Method
	listeners map[definition.EventKind][]*definition.EventListener
}

// Manifest is the serialisable description of a module definition.
type Manifest struct {
	Name      string           `yaml:"name" json:"name" validate:"required"`
	Constants map[string]any   `yaml:"constants,omitempty" json:"constants,omitempty"`
	Methods   []MethodManifest `yaml:"methods,omitempty" json:"methods,omitempty" validate:"dive"`
	Events    []string         `yaml:"events,omitempty" json:"events,omitempty"`
}

type MethodManifest struct {
	Name      string   `yaml:"name" json:"name" validate:"required"`
	Arguments []string `yaml:"arguments" json:"arguments"`
	Queue     string   `yaml:"queue,omitempty" json:"queue,omitempty"`
}

var manifestValidator = validator.New()

// BuildDefinition calls the module's definition function and folds the
// returned elements into a ModuleDefinition.
//
// Without a Name element the module is named after its Go type. Constants
// blocks are merged, later keys winning. Declaring the name twice, an
// empty name or two methods with the same name is an error. A panic in
// the definition function (for example in a constants supplier) is
// returned as a *DefinitionError.
func BuildDefinition(m Module) (def *ModuleDefinition, err error) {
	label := typeName(m)
	defer func() {
		if r := recover(); r != nil {
			def = nil
			err = &DefinitionError{Module: label, Err: fmt.Errorf("%w: %v", ErrSupplierPanicked, r)}
		}
	}()

	def = &ModuleDefinition{
		name:      label,
		constants: map[string]any{},
		byName:    map[string]*definition.Method{},
		listeners: map[definition.EventKind][]*definition.EventListener{},
	}

	named := false
	for _, el := range m.Definition() {
		switch el := el.(type) {
		case definition.NameElement:
			if named {
				return nil, &DefinitionError{Module: label, Err: ErrNameRedefined}
			}
			named = true
			def.name = el.Name()
			label = el.Name()
		case definition.ConstantsElement:
			maps.Copy(def.constants, el.Constants())
		case definition.MethodElement:
			method := el.Method()
			if method == nil {
				return nil, &DefinitionError{Module: label, Err: fmt.Errorf("%w: method element without a method", ErrInvalidElement)}
			}
			if _, dup := def.byName[method.Name()]; dup {
				return nil, &DefinitionError{Module: label, Err: fmt.Errorf("%w: %s", ErrDuplicateMethod, method.Name())}
			}
			def.byName[method.Name()] = method
			def.methods = append(def.methods, method)
		case definition.EventListenerElement:
			l := el.Listener()
			if l == nil {
				return nil, &DefinitionError{Module: label, Err: fmt.Errorf("%w: listener element without a listener", ErrInvalidElement)}
			}
			def.listeners[l.Kind()] = append(def.listeners[l.Kind()], l)
		case nil:
			return nil, &DefinitionError{Module: label, Err: ErrNilElement}
		default:
			return nil, &DefinitionError{Module: label, Err: fmt.Errorf("%w: %T", ErrInvalidElement, el)}
		}
	}

	if def.name == "" {
		return nil, &DefinitionError{Module: label, Err: ErrEmptyName}
	}
	if err := manifestValidator.Struct(def.Manifest()); err != nil {
		return nil, &DefinitionError{Module: label, Err: err}
	}
	return def, nil
}

func typeName(m Module) string {
	t := reflect.TypeOf(m)
	if t == nil {
		return "<nil>"
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() == "" {
		return t.String()
	}
	return t.Name()
}

// Name returns the export name of the module.
func (d *ModuleDefinition) Name() string { return d.name }

// Constants returns a copy of the merged constants.
func (d *ModuleDefinition) Constants() map[string]any { return maps.Clone(d.constants) }

// Method returns the method with the given name, or nil.
func (d *ModuleDefinition) Method(name string) *definition.Method { return d.byName[name] }

// Methods returns the methods in declaration order.
func (d *ModuleDefinition) Methods() []*definition.Method {
	return append([]*definition.Method(nil), d.methods...)
}

// Listeners returns the listeners for kind in declaration order.
func (d *ModuleDefinition) Listeners(kind definition.EventKind) []*definition.EventListener {
	return append([]*definition.EventListener(nil), d.listeners[kind]...)
}

// Manifest describes the definition in a form suitable for YAML or JSON.
func (d *ModuleDefinition) Manifest() Manifest {
	out := Manifest{
		Name:      d.name,
		Constants: d.Constants(),
	}
	for _, m := range d.methods {
		mm := MethodManifest{Name: m.Name(), Arguments: []string{}}
		for _, at := range m.ArgumentTypes() {
			mm.Arguments = append(mm.Arguments, at.Type().String())
		}
		if q := m.Queue(); q != nil {
			mm.Queue = q.Label()
		}
		out.Methods = append(out.Methods, mm)
	}
	for _, kind := range definition.EventKinds {
		if len(d.listeners[kind]) > 0 {
			out.Events = append(out.Events, kind.String())
		}
	}
	return out
}
