package internal

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind is the scalar type a route parameter is coerced to.
type Kind uint8

const (
	KindString Kind = iota
	KindInt
	KindFloat
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	default:
		return "string"
	}
}

type paramSource uint8

const (
	fromRoute paramSource = iota
	fromService
)

// ParamSpec declares how one action argument is resolved.
type ParamSpec struct {
	def        any
	name       string
	kind       Kind
	source     paramSource
	hasDefault bool
}

// Param declares an argument filled from the route parameter of the same
// name, coerced to kind.
func Param(name string, kind Kind) ParamSpec {
	return ParamSpec{name: name, kind: kind, source: fromRoute}
}

// Inject declares an argument filled by calling the service factory
// registered under name.
func Inject(name string) ParamSpec {
	return ParamSpec{name: name, source: fromService}
}

// Default sets the value used when the argument cannot be resolved otherwise.
func (p ParamSpec) Default(v any) ParamSpec {
	p.def = v
	p.hasDefault = true
	return p
}

// ServiceFactory builds a fresh service value for one action call.
type ServiceFactory func() any

// ActionFunc is a controller action. Its arguments are resolved before the
// call according to the ParamSpecs it was declared with.
type ActionFunc func(c Context, args Args) error

// Controller declares its actions.
//
// Example:
//
//	func (u *Users) Actions(a *frame.Actions) {
//	    a.Add("index", u.index)
//	    a.Add("show", u.show, frame.Param("id", frame.KindInt))
//	    a.Add("store", u.store, frame.Inject("validator"))
//	}
type Controller interface {
	Actions(a *Actions)
}

type actionSpec struct {
	fn     ActionFunc
	params []ParamSpec
}

// Actions collects a controller's action table.
type Actions struct {
	methods map[string]actionSpec
}

// Add declares method with its argument resolution table.
func (a *Actions) Add(method string, fn ActionFunc, params ...ParamSpec) {
	a.methods[method] = actionSpec{fn: fn, params: params}
}

// ControllerEntry binds a controller to the name routes refer to it by.
type ControllerEntry struct {
	controller Controller
	name       string
}

// Register names a controller for WithControllers.
func Register(name string, c Controller) ControllerEntry {
	return ControllerEntry{name: name, controller: c}
}

// Invoker resolves (controller, method) pairs to actions and fills their
// arguments. The tables are built once during setup.
type Invoker struct {
	controllers map[string]map[string]actionSpec
	services    map[string]ServiceFactory
}

func newInvoker() *Invoker {
	return &Invoker{
		controllers: make(map[string]map[string]actionSpec),
		services:    make(map[string]ServiceFactory),
	}
}

func (inv *Invoker) register(e ControllerEntry) {
	a := &Actions{methods: make(map[string]actionSpec)}
	e.controller.Actions(a)
	inv.controllers[e.name] = a.methods
}

func (inv *Invoker) provide(name string, f ServiceFactory) {
	inv.services[name] = f
}

// handler returns a HandlerFunc that resolves the action lazily, so that
// routes may be declared before or after their controller is registered.
func (inv *Invoker) handler(controller, method string) HandlerFunc {
	return func(c Context) error {
		return inv.Invoke(c, controller, method, c.Params())
	}
}

// Invoke resolves controller.method, builds its arguments from params and
// registered services, and calls it.
func (inv *Invoker) Invoke(c Context, controller, method string, params Params) error {
	methods, ok := inv.controllers[controller]
	if !ok {
		return fmt.Errorf("%w: controller %q is not registered", ErrUnresolvableAction, controller)
	}
	spec, ok := methods[method]
	if !ok {
		return fmt.Errorf("%w: %s has no method %q", ErrUnresolvableAction, controller, method)
	}

	args := Args{values: make(map[string]any, len(spec.params))}
	for _, p := range spec.params {
		v, err := inv.resolve(p, params)
		if err != nil {
			return fmt.Errorf("%s.%s: %w", controller, method, err)
		}
		args.values[p.name] = v
	}

	return spec.fn(c, args)
}

// resolve applies, in order: route parameter, service, default.
func (inv *Invoker) resolve(p ParamSpec, params Params) (any, error) {
	switch p.source {
	case fromRoute:
		if raw, ok := params[p.name]; ok {
			return coerce(raw, p.kind, p.name)
		}
	case fromService:
		if factory, ok := inv.services[p.name]; ok {
			return factory(), nil
		}
	}

	if p.hasDefault {
		return p.def, nil
	}

	if p.source == fromService {
		return nil, fmt.Errorf("%w: no service %q", ErrUnresolvableDependency, p.name)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnresolvableParameter, p.name)
}

func coerce(raw string, kind Kind, name string) (any, error) {
	var (
		v   any
		err error
	)
	switch kind {
	case KindInt:
		v, err = strconv.Atoi(raw)
	case KindFloat:
		v, err = strconv.ParseFloat(raw, 64)
	case KindBool:
		v, err = parseBool(raw)
	default:
		return raw, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s=%q is not a valid %s", ErrInvalidParameter, name, raw, kind)
	}
	return v, nil
}

func parseBool(raw string) (bool, error) {
	switch strings.ToLower(raw) {
	case "on", "yes":
		return true, nil
	case "off", "no":
		return false, nil
	}
	return strconv.ParseBool(raw)
}

// Args holds the resolved arguments of a controller action.
type Args struct {
	values map[string]any
}

// Get returns the raw value of name, or nil.
func (a Args) Get(name string) any {
	return a.values[name]
}

// Has reports whether name was resolved.
func (a Args) Has(name string) bool {
	_, ok := a.values[name]
	return ok
}

func (a Args) String(name string) string { return Arg[string](a, name) }
func (a Args) Int(name string) int       { return Arg[int](a, name) }
func (a Args) Float(name string) float64 { return Arg[float64](a, name) }
func (a Args) Bool(name string) bool     { return Arg[bool](a, name) }

// Arg returns the argument name as T, or T's zero value if it is missing
// or of another type.
//
// Example:
//
//	users := frame.Arg[*UserRepo](args, "users")
func Arg[T any](a Args, name string) T {
	if v, ok := a.values[name].(T); ok {
		return v
	}
	var zero T
	return zero
}
