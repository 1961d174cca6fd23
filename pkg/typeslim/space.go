package typeslim

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// TypeSpace interns portable type descriptors and maps them to and from
// native reflect.Type values. Both directions are memoized: once a native
// type maps to a descriptor, later lookups of the same type return the same
// instance, and vice versa. All methods are safe for concurrent use.
type TypeSpace struct {
	mu         sync.RWMutex
	resolver   Resolver
	interned   map[string]TypeSlim
	fromNative map[reflect.Type]TypeSlim
	toNative   map[TypeSlim]reflect.Type
}

// NewTypeSpace creates a type space resolving named types through r
func NewTypeSpace(r Resolver) (*TypeSpace, error) {
	if r == nil {
		return nil, NullArgument("resolver")
	}
	s := &TypeSpace{
		resolver:   r,
		interned:   make(map[string]TypeSlim),
		fromNative: make(map[reflect.Type]TypeSlim),
		toNative:   make(map[TypeSlim]reflect.Type),
	}
	for _, t := range predeclaredTypes {
		s.interned[t.key()] = t
	}
	return s, nil
}

// Resolver returns the resolution environment of the space
func (s *TypeSpace) Resolver() Resolver {
	return s.resolver
}

// intern returns the canonical instance for t, storing t if it is new.
func (s *TypeSpace) intern(t TypeSlim) TypeSlim {
	k := t.key()
	s.mu.RLock()
	existing, ok := s.interned[k]
	s.mu.RUnlock()
	if ok {
		return existing
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.interned[k]; ok {
		return existing
	}
	switch tt := t.(type) {
	case *SimpleTypeSlim:
		tt.k = k
	case *ArrayTypeSlim:
		tt.k = k
	case *GenericTypeSlim:
		tt.k = k
	case *GenericParameterTypeSlim:
		tt.k = k
	case *StructuralTypeSlim:
		tt.k = k
	}
	s.interned[k] = t
	return t
}

// Intern returns the canonical instance structurally equal to t,
// interning its components first.
func (s *TypeSpace) Intern(t TypeSlim) TypeSlim {
	switch tt := t.(type) {
	case nil:
		return nil
	case *SimpleTypeSlim:
		return s.Simple(tt.Name, tt.Package)
	case *ArrayTypeSlim:
		return s.Array(tt.Element, tt.Rank)
	case *GenericTypeSlim:
		return s.Generic(tt.Definition, tt.Arguments...)
	case *GenericParameterTypeSlim:
		return s.GenericParameter(tt.Position, tt.Name, tt.Constraints...)
	case *StructuralTypeSlim:
		return s.Structural(tt.Members...)
	}
	panic(fmt.Sprintf("unhandled type descriptor: %T", t))
}

// Simple returns the canonical simple type
func (s *TypeSpace) Simple(name, pkg string) *SimpleTypeSlim {
	return s.intern(&SimpleTypeSlim{Name: name, Package: pkg}).(*SimpleTypeSlim)
}

// Array returns the canonical array type
func (s *TypeSpace) Array(elem TypeSlim, rank int) *ArrayTypeSlim {
	return s.intern(&ArrayTypeSlim{Element: s.Intern(elem), Rank: rank}).(*ArrayTypeSlim)
}

// Generic returns the canonical generic instantiation
func (s *TypeSpace) Generic(def *SimpleTypeSlim, args ...TypeSlim) *GenericTypeSlim {
	if def != nil {
		def = s.Simple(def.Name, def.Package)
	}
	interned := make([]TypeSlim, len(args))
	for i, a := range args {
		interned[i] = s.Intern(a)
	}
	return s.intern(&GenericTypeSlim{Definition: def, Arguments: interned}).(*GenericTypeSlim)
}

// GenericParameter returns the canonical generic parameter
func (s *TypeSpace) GenericParameter(pos int, name string, constraints ...TypeSlim) *GenericParameterTypeSlim {
	interned := make([]TypeSlim, len(constraints))
	for i, c := range constraints {
		interned[i] = s.Intern(c)
	}
	return s.intern(&GenericParameterTypeSlim{Position: pos, Name: name, Constraints: interned}).(*GenericParameterTypeSlim)
}

// Structural returns the canonical structural type
func (s *TypeSpace) Structural(members ...StructuralMember) *StructuralTypeSlim {
	interned := make([]StructuralMember, len(members))
	for i, m := range members {
		m.Type = s.Intern(m.Type)
		interned[i] = m
	}
	return s.intern(&StructuralTypeSlim{Members: interned}).(*StructuralTypeSlim)
}

// Package returns the namespace descriptor used as the declaring type of
// package-level functions.
func (s *TypeSpace) Package(pkg string) *SimpleTypeSlim {
	return s.Simple("", pkg)
}

// FromType narrows a native type to its canonical portable descriptor.
//
// reflect does not expose the definition or type arguments of an
// instantiated generic type, so a named instantiation such as List[int]
// narrows to a SimpleTypeSlim whose name carries the argument list
// verbatim ("List[int]"). It widens back only when that instantiation is
// registered.
func (s *TypeSpace) FromType(t reflect.Type) (TypeSlim, error) {
	if t == nil {
		return nil, NullArgument("type")
	}
	s.mu.RLock()
	cached, ok := s.fromNative[t]
	s.mu.RUnlock()
	if ok {
		return cached, nil
	}
	slim, err := s.narrow(t)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if cached, ok := s.fromNative[t]; ok {
		return cached, nil
	}
	s.fromNative[t] = slim
	if _, ok := s.toNative[slim]; !ok {
		s.toNative[slim] = t
	}
	return slim, nil
}

func (s *TypeSpace) narrow(t reflect.Type) (TypeSlim, error) {
	if t == VoidType {
		return Void, nil
	}
	if t.Name() != "" {
		return s.Simple(t.Name(), t.PkgPath()), nil
	}
	switch t.Kind() {
	case reflect.Slice:
		elem, err := s.FromType(t.Elem())
		if err != nil {
			return nil, err
		}
		if a, ok := elem.(*ArrayTypeSlim); ok && t.Elem().Name() == "" {
			return s.Array(a.Element, a.Rank+1), nil
		}
		return s.Array(elem, 1), nil
	case reflect.Array:
		return s.builtin(FixedArrayDefinition(t.Len()), t.Elem())
	case reflect.Pointer:
		return s.builtin(PointerDefinition, t.Elem())
	case reflect.Map:
		return s.builtin(MapDefinition, t.Key(), t.Elem())
	case reflect.Chan:
		switch t.ChanDir() {
		case reflect.RecvDir:
			return s.builtin(RecvChanDefinition, t.Elem())
		case reflect.SendDir:
			return s.builtin(SendChanDefinition, t.Elem())
		}
		return s.builtin(ChanDefinition, t.Elem())
	case reflect.Func:
		types := make([]reflect.Type, 0, t.NumIn()+t.NumOut())
		for i := 0; i < t.NumIn(); i++ {
			types = append(types, t.In(i))
		}
		for i := 0; i < t.NumOut(); i++ {
			types = append(types, t.Out(i))
		}
		return s.builtin(FuncDefinition(t.NumIn(), t.NumOut(), t.IsVariadic()), types...)
	case reflect.Struct:
		members := make([]StructuralMember, t.NumField())
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			ft, err := s.FromType(f.Type)
			if err != nil {
				return nil, err
			}
			members[i] = StructuralMember{Name: f.Name, Type: ft, Tag: string(f.Tag), Embedded: f.Anonymous}
		}
		return s.Structural(members...), nil
	case reflect.Interface:
		if t.NumMethod() == 0 {
			return Any, nil
		}
	}
	return nil, unresolved("type", t.String(), "no portable representation for %s types", t.Kind())
}

func (s *TypeSpace) builtin(def string, args ...reflect.Type) (TypeSlim, error) {
	slims := make([]TypeSlim, len(args))
	for i, a := range args {
		st, err := s.FromType(a)
		if err != nil {
			return nil, err
		}
		slims[i] = st
	}
	return s.Generic(s.Simple(def, ""), slims...), nil
}

// ToType widens a portable descriptor to a native type
func (s *TypeSpace) ToType(t TypeSlim) (reflect.Type, error) {
	if t == nil {
		return nil, NullArgument("type")
	}
	t = s.Intern(t)
	s.mu.RLock()
	cached, ok := s.toNative[t]
	s.mu.RUnlock()
	if ok {
		return cached, nil
	}
	native, err := s.widen(t)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if cached, ok := s.toNative[t]; ok {
		return cached, nil
	}
	s.toNative[t] = native
	if _, ok := s.fromNative[native]; !ok {
		s.fromNative[native] = t
	}
	return native, nil
}

func (s *TypeSpace) widen(t TypeSlim) (native reflect.Type, err error) {
	// reflect constructors panic on invalid shapes (non-comparable map keys,
	// unexported struct fields); surface those as resolution errors.
	defer func() {
		if r := recover(); r != nil {
			native, err = nil, unresolved("type", t.String(), "%v", r)
		}
	}()

	switch tt := t.(type) {
	case *SimpleTypeSlim:
		if tt.Name == "" {
			return nil, unresolved("type", tt.String(), "package namespaces have no native type")
		}
		if rt, ok := s.resolver.ResolveType(tt.Package, tt.Name); ok {
			return rt, nil
		}
		return nil, unresolved("type", tt.String(), "not registered")

	case *ArrayTypeSlim:
		if tt.Rank < 1 {
			return nil, unresolved("type", tt.String(), "invalid rank %d", tt.Rank)
		}
		rt, err := s.ToType(tt.Element)
		if err != nil {
			return nil, err
		}
		for i := 0; i < tt.Rank; i++ {
			rt = reflect.SliceOf(rt)
		}
		return rt, nil

	case *GenericTypeSlim:
		return s.widenGeneric(tt)

	case *GenericParameterTypeSlim:
		return nil, unresolved("type", tt.String(), "open generic parameters have no native type")

	case *StructuralTypeSlim:
		fields := make([]reflect.StructField, len(tt.Members))
		for i, m := range tt.Members {
			ft, err := s.ToType(m.Type)
			if err != nil {
				return nil, err
			}
			fields[i] = reflect.StructField{Name: m.Name, Type: ft, Tag: reflect.StructTag(m.Tag), Anonymous: m.Embedded}
		}
		return reflect.StructOf(fields), nil
	}
	panic(fmt.Sprintf("unhandled type descriptor: %T", t))
}

func (s *TypeSpace) widenGeneric(t *GenericTypeSlim) (reflect.Type, error) {
	if t.Definition == nil {
		return nil, unresolved("type", t.String(), "missing generic definition")
	}
	args := make([]reflect.Type, len(t.Arguments))
	for i, a := range t.Arguments {
		rt, err := s.ToType(a)
		if err != nil {
			return nil, err
		}
		args[i] = rt
	}
	arity := func(n int) error {
		if len(args) != n {
			return unresolved("type", t.String(), "want %d type arguments, got %d", n, len(args))
		}
		return nil
	}

	def := t.Definition
	if def.Package == "" {
		switch def.Name {
		case PointerDefinition:
			if err := arity(1); err != nil {
				return nil, err
			}
			return reflect.PointerTo(args[0]), nil
		case MapDefinition:
			if err := arity(2); err != nil {
				return nil, err
			}
			if !args[0].Comparable() {
				return nil, unresolved("type", t.String(), "map key %s is not comparable", args[0])
			}
			return reflect.MapOf(args[0], args[1]), nil
		case ChanDefinition, RecvChanDefinition, SendChanDefinition:
			if err := arity(1); err != nil {
				return nil, err
			}
			dir := reflect.BothDir
			if def.Name == RecvChanDefinition {
				dir = reflect.RecvDir
			} else if def.Name == SendChanDefinition {
				dir = reflect.SendDir
			}
			return reflect.ChanOf(dir, args[0]), nil
		}
		if n, ok := ParseFixedArrayDefinition(def.Name); ok {
			if err := arity(1); err != nil {
				return nil, err
			}
			return reflect.ArrayOf(n, args[0]), nil
		}
		if p, r, variadic, ok := ParseFuncDefinition(def.Name); ok {
			if err := arity(p + r); err != nil {
				return nil, err
			}
			if variadic && (p == 0 || args[p-1].Kind() != reflect.Slice) {
				return nil, unresolved("type", t.String(), "variadic parameter must be a slice")
			}
			return reflect.FuncOf(args[:p], args[p:], variadic), nil
		}
	}

	// User generic types are registered under their instantiated name,
	// e.g. List[int] or Pair[string,example.com/x.T].
	base, _, _ := strings.Cut(def.Name, "`")
	names := make([]string, len(args))
	for i, a := range args {
		names[i] = qualifiedName(a)
	}
	name := base + "[" + strings.Join(names, ",") + "]"
	if rt, ok := s.resolver.ResolveType(def.Package, name); ok {
		return rt, nil
	}
	return nil, unresolved("type", t.String(), "instantiation %s not registered", name)
}

func qualifiedName(t reflect.Type) string {
	if t.Name() != "" && t.PkgPath() != "" {
		return t.PkgPath() + "." + t.Name()
	}
	return t.String()
}
