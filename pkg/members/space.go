// Package members maps native member handles (fields, getters, methods,
// constructors) to portable member descriptors and back.
//
// A Space pairs with a typeslim.TypeSpace: declaring, parameter and result
// types are narrowed and widened through it, and function values are found
// through its Resolver. Lookups are memoized in both directions so a handle
// narrows to the same descriptor every time.
package members

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/raymyers/slimexpr/pkg/expr"
	"github.com/raymyers/slimexpr/pkg/typeslim"
)

type nativeKey struct {
	kind      typeslim.MemberType
	declaring reflect.Type
	pkg       string
	name      string
	sig       reflect.Type
	typeArgs  string
}

// Space is safe for concurrent use.
type Space struct {
	types *typeslim.TypeSpace

	mu         sync.Mutex
	fromNative map[nativeKey]typeslim.MemberInfoSlim
	toNative   map[typeslim.MemberInfoSlim]any
}

// NewSpace creates a member space over types
func NewSpace(types *typeslim.TypeSpace) (*Space, error) {
	if types == nil {
		return nil, typeslim.NullArgument("types")
	}
	return &Space{
		types:      types,
		fromNative: make(map[nativeKey]typeslim.MemberInfoSlim),
		toNative:   make(map[typeslim.MemberInfoSlim]any),
	}, nil
}

// Types returns the type space members are narrowed through
func (s *Space) Types() *typeslim.TypeSpace { return s.types }

func (s *Space) cachedSlim(k nativeKey, build func() (typeslim.MemberInfoSlim, error)) (typeslim.MemberInfoSlim, error) {
	s.mu.Lock()
	m, ok := s.fromNative[k]
	s.mu.Unlock()
	if ok {
		return m, nil
	}
	m, err := build()
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.fromNative[k]; ok {
		return prev, nil
	}
	s.fromNative[k] = m
	return m, nil
}

func (s *Space) cachedNative(m typeslim.MemberInfoSlim, build func() (any, error)) (any, error) {
	s.mu.Lock()
	n, ok := s.toNative[m]
	s.mu.Unlock()
	if ok {
		return n, nil
	}
	n, err := build()
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.toNative[m]; ok {
		return prev, nil
	}
	s.toNative[m] = n
	return n, nil
}

func (s *Space) narrowTypes(ts []reflect.Type) ([]typeslim.TypeSlim, error) {
	out := make([]typeslim.TypeSlim, len(ts))
	for i, t := range ts {
		st, err := s.types.FromType(t)
		if err != nil {
			return nil, err
		}
		out[i] = st
	}
	return out, nil
}

func (s *Space) widenTypes(ts []typeslim.TypeSlim) ([]reflect.Type, error) {
	out := make([]reflect.Type, len(ts))
	for i, t := range ts {
		rt, err := s.types.ToType(t)
		if err != nil {
			return nil, err
		}
		out[i] = rt
	}
	return out, nil
}

// FromMember narrows a field or property
func (s *Space) FromMember(m expr.Member) (typeslim.MemberInfoSlim, error) {
	switch m := m.(type) {
	case nil:
		return nil, typeslim.NullArgument("member")
	case *expr.Field:
		return s.FromField(m)
	case *expr.Property:
		return s.FromProperty(m)
	}
	return nil, fmt.Errorf("unknown member %T", m)
}

// FromField narrows a struct field
func (s *Space) FromField(f *expr.Field) (*typeslim.FieldInfoSlim, error) {
	if f == nil {
		return nil, typeslim.NullArgument("field")
	}
	k := nativeKey{kind: typeslim.FieldMember, declaring: f.Declaring, name: f.Name}
	m, err := s.cachedSlim(k, func() (typeslim.MemberInfoSlim, error) {
		decl, err := s.types.FromType(f.Declaring)
		if err != nil {
			return nil, err
		}
		ft, err := s.types.FromType(f.Type)
		if err != nil {
			return nil, err
		}
		return typeslim.NewField(decl, f.Name, ft)
	})
	if err != nil {
		return nil, err
	}
	return m.(*typeslim.FieldInfoSlim), nil
}

// FromProperty narrows a getter
func (s *Space) FromProperty(p *expr.Property) (*typeslim.PropertyInfoSlim, error) {
	if p == nil {
		return nil, typeslim.NullArgument("property")
	}
	k := nativeKey{kind: typeslim.PropertyMember, declaring: p.Declaring, name: p.Name}
	m, err := s.cachedSlim(k, func() (typeslim.MemberInfoSlim, error) {
		decl, err := s.types.FromType(p.Declaring)
		if err != nil {
			return nil, err
		}
		pt, err := s.types.FromType(p.Type)
		if err != nil {
			return nil, err
		}
		idx, err := s.narrowTypes(p.IndexParams)
		if err != nil {
			return nil, err
		}
		return typeslim.NewProperty(decl, p.Name, pt, idx...)
	})
	if err != nil {
		return nil, err
	}
	return m.(*typeslim.PropertyInfoSlim), nil
}

// FromConstructor narrows a constructor function
func (s *Space) FromConstructor(c *expr.Constructor) (*typeslim.ConstructorInfoSlim, error) {
	if c == nil {
		return nil, typeslim.NullArgument("constructor")
	}
	k := nativeKey{kind: typeslim.ConstructorMember, declaring: c.Declaring, sig: c.Func.Type()}
	m, err := s.cachedSlim(k, func() (typeslim.MemberInfoSlim, error) {
		decl, err := s.types.FromType(c.Declaring)
		if err != nil {
			return nil, err
		}
		params, err := s.narrowTypes(c.Params)
		if err != nil {
			return nil, err
		}
		return typeslim.NewConstructor(decl, params...)
	})
	if err != nil {
		return nil, err
	}
	return m.(*typeslim.ConstructorInfoSlim), nil
}

// FromMethod narrows a method or package function. Package functions are
// declared by their package namespace; static functions attached to a type
// keep that type as the declaring type. Generic instantiations narrow to a
// GenericMethodInfoSlim whose definition is reconstructed by substituting
// generic parameters for the type arguments.
func (s *Space) FromMethod(fn *expr.Method) (typeslim.MethodInfoSlim, error) {
	if fn == nil {
		return nil, typeslim.NullArgument("method")
	}
	var sig reflect.Type
	if fn.Func.IsValid() {
		sig = fn.Func.Type()
	}
	k := nativeKey{
		kind:      typeslim.MethodMember,
		declaring: fn.Declaring,
		pkg:       fn.Package,
		name:      fn.Name,
		sig:       sig,
		typeArgs:  fmt.Sprint(fn.TypeArgs),
	}
	m, err := s.cachedSlim(k, func() (typeslim.MemberInfoSlim, error) {
		var decl typeslim.TypeSlim
		if fn.Declaring == nil {
			decl = s.types.Package(fn.Package)
		} else {
			var err error
			if decl, err = s.types.FromType(fn.Declaring); err != nil {
				return nil, err
			}
		}
		params, err := s.narrowTypes(fn.Params)
		if err != nil {
			return nil, err
		}
		ret, err := s.types.FromType(fn.Return)
		if err != nil {
			return nil, err
		}
		if len(fn.TypeArgs) == 0 {
			return typeslim.NewMethod(decl, fn.Name, fn.Static, params, ret)
		}

		args, err := s.narrowTypes(fn.TypeArgs)
		if err != nil {
			return nil, err
		}
		gps := make([]*typeslim.GenericParameterTypeSlim, len(args))
		for i := range args {
			gps[i] = s.types.GenericParameter(i, "")
		}
		openParams := make([]typeslim.TypeSlim, len(params))
		for i, p := range params {
			openParams[i] = s.open(p, args, gps)
		}
		def, err := typeslim.NewGenericDefinitionMethod(decl, fn.Name, fn.Static, gps, openParams, s.open(ret, args, gps))
		if err != nil {
			return nil, err
		}
		return typeslim.NewGenericMethod(def, args, params, ret)
	})
	if err != nil {
		return nil, err
	}
	return m.(typeslim.MethodInfoSlim), nil
}

// open replaces occurrences of the type arguments in t with the matching
// generic parameters.
func (s *Space) open(t typeslim.TypeSlim, args []typeslim.TypeSlim, gps []*typeslim.GenericParameterTypeSlim) typeslim.TypeSlim {
	for i, a := range args {
		if typeslim.Equal(t, a) {
			return gps[i]
		}
	}
	switch tt := t.(type) {
	case *typeslim.ArrayTypeSlim:
		return s.types.Array(s.open(tt.Element, args, gps), tt.Rank)
	case *typeslim.GenericTypeSlim:
		opened := make([]typeslim.TypeSlim, len(tt.Arguments))
		for i, a := range tt.Arguments {
			opened[i] = s.open(a, args, gps)
		}
		return s.types.Generic(tt.Definition, opened...)
	}
	return t
}

// ToField widens a field descriptor
func (s *Space) ToField(f *typeslim.FieldInfoSlim) (*expr.Field, error) {
	if f == nil {
		return nil, typeslim.NullArgument("field")
	}
	n, err := s.cachedNative(f, func() (any, error) {
		decl, err := s.types.ToType(f.DeclaringType())
		if err != nil {
			return nil, err
		}
		nf, err := expr.FieldOf(decl, f.Name())
		if err != nil {
			return nil, err
		}
		ft, err := s.types.ToType(f.FieldType())
		if err != nil {
			return nil, err
		}
		if nf.Type != ft {
			return nil, &typeslim.ResolutionError{What: "field", Name: f.String(), Reason: fmt.Sprintf("native field has type %s", nf.Type)}
		}
		return nf, nil
	})
	if err != nil {
		return nil, err
	}
	return n.(*expr.Field), nil
}

// ToProperty widens a property descriptor
func (s *Space) ToProperty(p *typeslim.PropertyInfoSlim) (*expr.Property, error) {
	if p == nil {
		return nil, typeslim.NullArgument("property")
	}
	n, err := s.cachedNative(p, func() (any, error) {
		decl, err := s.types.ToType(p.DeclaringType())
		if err != nil {
			return nil, err
		}
		np, err := expr.PropertyOf(decl, p.Name())
		if err != nil {
			return nil, err
		}
		pt, err := s.types.ToType(p.PropertyType())
		if err != nil {
			return nil, err
		}
		idx, err := s.widenTypes(p.IndexParameterTypes())
		if err != nil {
			return nil, err
		}
		if np.Type != pt || !sameTypes(np.IndexParams, idx) {
			return nil, &typeslim.ResolutionError{What: "property", Name: p.String(), Reason: "signature mismatch"}
		}
		return np, nil
	})
	if err != nil {
		return nil, err
	}
	return n.(*expr.Property), nil
}

// ToMember widens a field or property descriptor
func (s *Space) ToMember(m typeslim.MemberInfoSlim) (expr.Member, error) {
	switch m := m.(type) {
	case nil:
		return nil, typeslim.NullArgument("member")
	case *typeslim.FieldInfoSlim:
		return s.ToField(m)
	case *typeslim.PropertyInfoSlim:
		return s.ToProperty(m)
	}
	return nil, &typeslim.ResolutionError{What: "member", Name: m.String(), Reason: "not a field or property"}
}

// ToConstructor widens a constructor descriptor, choosing the registered
// constructor whose parameters match.
func (s *Space) ToConstructor(c *typeslim.ConstructorInfoSlim) (*expr.Constructor, error) {
	if c == nil {
		return nil, typeslim.NullArgument("constructor")
	}
	n, err := s.cachedNative(c, func() (any, error) {
		decl, err := s.types.ToType(c.DeclaringType())
		if err != nil {
			return nil, err
		}
		params, err := s.widenTypes(c.ParameterTypes())
		if err != nil {
			return nil, err
		}
		for _, fn := range s.types.Resolver().ResolveConstructors(decl) {
			if matches(fn.Type(), params, nil, false) {
				return expr.ConstructorOf(fn.Interface())
			}
		}
		return nil, &typeslim.ResolutionError{What: "constructor", Name: c.String(), Reason: "no registered constructor matches"}
	})
	if err != nil {
		return nil, err
	}
	return n.(*expr.Constructor), nil
}

// ToMethod widens a method descriptor. Instance methods are found in the
// method set of the declaring type; package and static functions through
// the resolver, static functions of a type under the name "Type.Name".
// Overloads are told apart by signature.
func (s *Space) ToMethod(m typeslim.MethodInfoSlim) (*expr.Method, error) {
	if m == nil {
		return nil, typeslim.NullArgument("method")
	}
	n, err := s.cachedNative(m, func() (any, error) {
		params, err := s.widenTypes(m.ParameterTypes())
		if err != nil {
			return nil, err
		}
		ret, err := s.types.ToType(m.ReturnType())
		if err != nil {
			return nil, err
		}
		fail := func(reason string) error {
			return &typeslim.ResolutionError{What: "method", Name: m.String(), Reason: reason}
		}

		pkg, lookup, decl, err := s.location(m)
		if err != nil {
			return nil, err
		}

		if g, ok := m.(*typeslim.GenericMethodInfoSlim); ok {
			typeArgs, err := s.widenTypes(g.GenericArguments())
			if err != nil {
				return nil, err
			}
			fn, ok := s.types.Resolver().ResolveGenericFunc(pkg, lookup, typeArgs)
			if !ok {
				return nil, fail("instantiation not registered")
			}
			if !matches(fn.Type(), params, ret, true) {
				return nil, fail("signature mismatch")
			}
			nm, err := expr.GenericFuncOf(pkg, m.Name(), typeArgs, fn.Interface())
			if err != nil {
				return nil, err
			}
			nm.Declaring = decl
			return nm, nil
		}
		if m.Kind() == typeslim.GenericDefinitionMethod {
			return nil, fail("open generic methods cannot be widened")
		}

		if !m.IsStatic() {
			if decl == nil {
				return nil, fail("instance method without a declaring type")
			}
			nm, err := expr.MethodOf(decl, m.Name())
			if err != nil {
				return nil, err
			}
			if !sameTypes(nm.Params, params) || nm.Return != ret {
				return nil, fail("signature mismatch")
			}
			return nm, nil
		}
		for _, fn := range s.types.Resolver().ResolveFuncs(pkg, lookup) {
			if matches(fn.Type(), params, ret, true) {
				nm, err := expr.FuncOf(pkg, m.Name(), fn.Interface())
				if err != nil {
					return nil, err
				}
				nm.Declaring = decl
				return nm, nil
			}
		}
		return nil, fail("no registered function matches")
	})
	if err != nil {
		return nil, err
	}
	return n.(*expr.Method), nil
}

// location returns the resolver key of a method and its native declaring
// type, nil for package functions.
func (s *Space) location(m typeslim.MethodInfoSlim) (pkg, name string, decl reflect.Type, err error) {
	if st, ok := m.DeclaringType().(*typeslim.SimpleTypeSlim); ok && st.Name == "" {
		return st.Package, m.Name(), nil, nil
	}
	decl, err = s.types.ToType(m.DeclaringType())
	if err != nil {
		return "", "", nil, err
	}
	base := decl
	if base.Kind() == reflect.Pointer && base.Name() == "" {
		base = base.Elem()
	}
	return base.PkgPath(), StaticName(decl, m.Name()), decl, nil
}

// matches reports whether ft takes params and, when checkRet is set,
// returns ret (nil or void meaning no result).
func matches(ft reflect.Type, params []reflect.Type, ret reflect.Type, checkRet bool) bool {
	if ft.NumIn() != len(params) {
		return false
	}
	for i, p := range params {
		if ft.In(i) != p {
			return false
		}
	}
	if !checkRet {
		return true
	}
	if ret == nil || ret == expr.VoidType {
		return ft.NumOut() == 0
	}
	return ft.NumOut() == 1 && ft.Out(0) == ret
}

func sameTypes(a, b []reflect.Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// StaticName is the resolver name of a static function attached to a type
func StaticName(t reflect.Type, name string) string {
	if t.Kind() == reflect.Pointer && t.Name() == "" {
		t = t.Elem()
	}
	return strings.TrimPrefix(t.Name()+"."+name, ".")
}
