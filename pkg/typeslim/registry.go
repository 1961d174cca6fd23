package typeslim

import (
	"fmt"
	"reflect"
	"slices"
	"sync"
)

// VoidValue is the native stand-in for the absence of a value. It maps to the
// portable "void" type.
type VoidValue struct{}

// VoidType is the reflect.Type used for void-typed native nodes
var VoidType = reflect.TypeFor[VoidValue]()

// Resolver is the type-resolution environment injected into a TypeSpace.
// It supplies the lookups reflection cannot perform by itself: finding a
// named type from its package path and name, and finding package-level
// functions (which act as static methods and constructors).
type Resolver interface {
	ResolveType(pkg, name string) (reflect.Type, bool)
	ResolveFuncs(pkg, name string) []reflect.Value
	ResolveGenericFunc(pkg, name string, typeArgs []reflect.Type) (reflect.Value, bool)
	ResolveConstructors(t reflect.Type) []reflect.Value
}

type funcKey struct {
	pkg, name string
}

type genericFunc struct {
	typeArgs []reflect.Type
	fn       reflect.Value
}

// Registry is the default Resolver. Predeclared types are registered on
// construction; everything else must be registered explicitly since Go
// cannot look up types by name at run time. Safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	types    map[funcKey]reflect.Type
	funcs    map[funcKey][]reflect.Value
	generics map[funcKey][]genericFunc
	ctors    map[reflect.Type][]reflect.Value
}

// NewRegistry creates a registry holding the predeclared types
func NewRegistry() *Registry {
	r := &Registry{
		types:    make(map[funcKey]reflect.Type),
		funcs:    make(map[funcKey][]reflect.Value),
		generics: make(map[funcKey][]genericFunc),
		ctors:    make(map[reflect.Type][]reflect.Value),
	}
	for _, t := range []reflect.Type{
		reflect.TypeFor[bool](), reflect.TypeFor[int](), reflect.TypeFor[int8](),
		reflect.TypeFor[int16](), reflect.TypeFor[int32](), reflect.TypeFor[int64](),
		reflect.TypeFor[uint](), reflect.TypeFor[uint8](), reflect.TypeFor[uint16](),
		reflect.TypeFor[uint32](), reflect.TypeFor[uint64](), reflect.TypeFor[uintptr](),
		reflect.TypeFor[float32](), reflect.TypeFor[float64](), reflect.TypeFor[complex64](),
		reflect.TypeFor[complex128](), reflect.TypeFor[string](), reflect.TypeFor[error](),
	} {
		r.types[funcKey{"", t.Name()}] = t
	}
	r.types[funcKey{"", "any"}] = reflect.TypeFor[any]()
	r.types[funcKey{"", "void"}] = VoidType
	return r
}

// RegisterType makes named types resolvable by package path and name
func (r *Registry) RegisterType(types ...reflect.Type) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, t := range types {
		if t == nil {
			return NullArgument(fmt.Sprintf("types[%d]", i))
		}
		if t.Name() == "" {
			return fmt.Errorf("cannot register unnamed type %s", t)
		}
		r.types[funcKey{t.PkgPath(), t.Name()}] = t
	}
	return nil
}

// RegisterFunc registers a package function under pkg.name. Several
// functions may share a name; widening picks one by signature.
func (r *Registry) RegisterFunc(pkg, name string, fn any) error {
	v := reflect.ValueOf(fn)
	if fn == nil || v.Kind() != reflect.Func {
		return fmt.Errorf("RegisterFunc %s.%s: not a function: %T", pkg, name, fn)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	k := funcKey{pkg, name}
	r.funcs[k] = append(r.funcs[k], v)
	return nil
}

// RegisterGenericFunc registers one instantiation of a generic function.
func (r *Registry) RegisterGenericFunc(pkg, name string, typeArgs []reflect.Type, fn any) error {
	v := reflect.ValueOf(fn)
	if fn == nil || v.Kind() != reflect.Func {
		return fmt.Errorf("RegisterGenericFunc %s.%s: not a function: %T", pkg, name, fn)
	}
	if len(typeArgs) == 0 {
		return fmt.Errorf("RegisterGenericFunc %s.%s: no type arguments", pkg, name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	k := funcKey{pkg, name}
	r.generics[k] = append(r.generics[k], genericFunc{typeArgs: slices.Clone(typeArgs), fn: v})
	return nil
}

// RegisterConstructor registers a function returning T (or *T) as a
// constructor of T.
func (r *Registry) RegisterConstructor(fn any) error {
	v := reflect.ValueOf(fn)
	if fn == nil || v.Kind() != reflect.Func || v.Type().NumOut() != 1 {
		return fmt.Errorf("RegisterConstructor: want a single-result function, got %T", fn)
	}
	t := v.Type().Out(0)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ctors[t] = append(r.ctors[t], v)
	return nil
}

func (r *Registry) ResolveType(pkg, name string) (reflect.Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.types[funcKey{pkg, name}]
	return t, ok
}

func (r *Registry) ResolveFuncs(pkg, name string) []reflect.Value {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.funcs[funcKey{pkg, name}])
}

func (r *Registry) ResolveGenericFunc(pkg, name string, typeArgs []reflect.Type) (reflect.Value, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, g := range r.generics[funcKey{pkg, name}] {
		if slices.Equal(g.typeArgs, typeArgs) {
			return g.fn, true
		}
	}
	return reflect.Value{}, false
}

func (r *Registry) ResolveConstructors(t reflect.Type) []reflect.Value {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.ctors[t])
}
