// Package typeslim defines the portable type and member model used by slim
// expression trees. Descriptors carry no reflect handles; a TypeSpace maps
// them to and from live reflect.Type values.
package typeslim

import (
	"fmt"
	"path"
	"strconv"
	"strings"
)

// TypeSlimKind discriminates the TypeSlim variants
type TypeSlimKind int

const (
	SimpleKind TypeSlimKind = iota
	ArrayKind
	GenericKind
	GenericParameterKind
	StructuralKind
)

func (k TypeSlimKind) String() string {
	names := []string{"Simple", "Array", "Generic", "GenericParameter", "Structural"}
	if k >= 0 && int(k) < len(names) {
		return names[k]
	}
	return "?"
}

// TypeSlim is the interface for all portable type descriptors
type TypeSlim interface {
	Kind() TypeSlimKind
	String() string
	key() string
}

// SimpleTypeSlim is a named or predeclared type. An empty Name denotes a
// package namespace, used as the declaring type of package functions.
type SimpleTypeSlim struct {
	Name    string
	Package string
	k       string
}

// ArrayTypeSlim is a slice type; Rank n widens to n nested slices.
type ArrayTypeSlim struct {
	Element TypeSlim
	Rank    int
	k       string
}

// GenericTypeSlim is an instantiation of a generic type definition.
type GenericTypeSlim struct {
	Definition *SimpleTypeSlim
	Arguments  []TypeSlim
	k          string
}

// GenericParameterTypeSlim is an open type parameter.
type GenericParameterTypeSlim struct {
	Position    int
	Name        string
	Constraints []TypeSlim
	k           string
}

// StructuralMember is a single field of a structural type
type StructuralMember struct {
	Name     string
	Type     TypeSlim
	Tag      string
	Embedded bool
}

// StructuralTypeSlim is an anonymous struct type.
type StructuralTypeSlim struct {
	Members []StructuralMember
	k       string
}

func (*SimpleTypeSlim) Kind() TypeSlimKind           { return SimpleKind }
func (*ArrayTypeSlim) Kind() TypeSlimKind            { return ArrayKind }
func (*GenericTypeSlim) Kind() TypeSlimKind          { return GenericKind }
func (*GenericParameterTypeSlim) Kind() TypeSlimKind { return GenericParameterKind }
func (*StructuralTypeSlim) Kind() TypeSlimKind       { return StructuralKind }

// Built-in generic definitions. Go's composite types are modelled as
// instantiations of these, with arity suffixes after a backquote.
const (
	PointerDefinition     = "ptr`1"
	MapDefinition         = "map`2"
	ChanDefinition        = "chan`1"
	RecvChanDefinition    = "<-chan`1"
	SendChanDefinition    = "chan<-`1"
	funcDefinitionPrefix  = "func`"
	vfuncDefinitionPrefix = "func...`"
)

// FuncDefinition returns the name of the built-in function type definition
// with the given number of parameters and results.
func FuncDefinition(params, results int, variadic bool) string {
	if variadic {
		return fmt.Sprintf("%s%d`%d", vfuncDefinitionPrefix, params, results)
	}
	return fmt.Sprintf("%s%d`%d", funcDefinitionPrefix, params, results)
}

// FixedArrayDefinition returns the name of the built-in definition for [n]T.
func FixedArrayDefinition(n int) string {
	return fmt.Sprintf("[%d]`1", n)
}

// ParseFuncDefinition reports the shape encoded in a function definition name.
func ParseFuncDefinition(name string) (params, results int, variadic, ok bool) {
	rest := ""
	switch {
	case strings.HasPrefix(name, vfuncDefinitionPrefix):
		rest, variadic = name[len(vfuncDefinitionPrefix):], true
	case strings.HasPrefix(name, funcDefinitionPrefix):
		rest = name[len(funcDefinitionPrefix):]
	default:
		return 0, 0, false, false
	}
	p, r, found := strings.Cut(rest, "`")
	if !found {
		return 0, 0, false, false
	}
	var err error
	if params, err = strconv.Atoi(p); err != nil {
		return 0, 0, false, false
	}
	if results, err = strconv.Atoi(r); err != nil {
		return 0, 0, false, false
	}
	return params, results, variadic, true
}

// ParseFixedArrayDefinition reports the length encoded in a [n]`1 definition.
func ParseFixedArrayDefinition(name string) (int, bool) {
	if !strings.HasPrefix(name, "[") || !strings.HasSuffix(name, "]`1") {
		return 0, false
	}
	n, err := strconv.Atoi(name[1 : len(name)-3])
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// IsBuiltinDefinition reports whether the definition is one of the built-in
// composite type constructors rather than a user generic type.
func IsBuiltinDefinition(def *SimpleTypeSlim) bool {
	if def == nil || def.Package != "" {
		return false
	}
	switch def.Name {
	case PointerDefinition, MapDefinition, ChanDefinition, RecvChanDefinition, SendChanDefinition:
		return true
	}
	if _, _, _, ok := ParseFuncDefinition(def.Name); ok {
		return true
	}
	_, ok := ParseFixedArrayDefinition(def.Name)
	return ok
}

// String methods render Go-like syntax

func (t *SimpleTypeSlim) String() string {
	if t.Package == "" {
		return t.Name
	}
	if t.Name == "" {
		return path.Base(t.Package)
	}
	return path.Base(t.Package) + "." + t.Name
}

func (t *ArrayTypeSlim) String() string {
	return strings.Repeat("[]", t.Rank) + typeString(t.Element)
}

func (t *GenericTypeSlim) String() string {
	args := make([]string, len(t.Arguments))
	for i, a := range t.Arguments {
		args[i] = typeString(a)
	}
	if t.Definition == nil {
		return "?[" + strings.Join(args, ", ") + "]"
	}
	name := t.Definition.Name
	switch {
	case name == PointerDefinition && len(args) == 1:
		return "*" + args[0]
	case name == MapDefinition && len(args) == 2:
		return "map[" + args[0] + "]" + args[1]
	case name == ChanDefinition && len(args) == 1:
		return "chan " + args[0]
	case name == RecvChanDefinition && len(args) == 1:
		return "<-chan " + args[0]
	case name == SendChanDefinition && len(args) == 1:
		return "chan<- " + args[0]
	}
	if n, ok := ParseFixedArrayDefinition(name); ok && len(args) == 1 && t.Definition.Package == "" {
		return fmt.Sprintf("[%d]%s", n, args[0])
	}
	if p, r, variadic, ok := ParseFuncDefinition(name); ok && p+r == len(args) && t.Definition.Package == "" {
		params := args[:p]
		if variadic && p > 0 {
			params[p-1] = "..." + strings.TrimPrefix(params[p-1], "[]")
		}
		s := "func(" + strings.Join(params, ", ") + ")"
		switch r {
		case 0:
			return s
		case 1:
			return s + " " + args[p]
		default:
			return s + " (" + strings.Join(args[p:], ", ") + ")"
		}
	}
	base, _, _ := strings.Cut(t.Definition.String(), "`")
	return base + "[" + strings.Join(args, ", ") + "]"
}

func (t *GenericParameterTypeSlim) String() string {
	if t.Name != "" {
		return t.Name
	}
	return "!!" + strconv.Itoa(t.Position)
}

func (t *StructuralTypeSlim) String() string {
	var sb strings.Builder
	sb.WriteString("struct{")
	for i, m := range t.Members {
		if i > 0 {
			sb.WriteString("; ")
		}
		if m.Embedded {
			sb.WriteString(typeString(m.Type))
		} else {
			sb.WriteString(m.Name + " " + typeString(m.Type))
		}
		if m.Tag != "" {
			sb.WriteString(" " + strconv.Quote(m.Tag))
		}
	}
	sb.WriteString("}")
	return sb.String()
}

func typeString(t TypeSlim) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}

// Canonical keys. Two descriptors are equal iff their keys are equal.

func (t *SimpleTypeSlim) key() string {
	if t.k == "" {
		return "T(" + t.Package + "|" + t.Name + ")"
	}
	return t.k
}

func (t *ArrayTypeSlim) key() string {
	if t.k == "" {
		return "A(" + keyOf(t.Element) + "," + strconv.Itoa(t.Rank) + ")"
	}
	return t.k
}

func (t *GenericTypeSlim) key() string {
	if t.k != "" {
		return t.k
	}
	var sb strings.Builder
	sb.WriteString("G(")
	if t.Definition != nil {
		sb.WriteString(t.Definition.key())
	}
	for _, a := range t.Arguments {
		sb.WriteString(";" + keyOf(a))
	}
	sb.WriteString(")")
	return sb.String()
}

func (t *GenericParameterTypeSlim) key() string {
	if t.k != "" {
		return t.k
	}
	var sb strings.Builder
	sb.WriteString("P(" + strconv.Itoa(t.Position) + "|" + strconv.Quote(t.Name))
	for _, c := range t.Constraints {
		sb.WriteString(";" + keyOf(c))
	}
	sb.WriteString(")")
	return sb.String()
}

func (t *StructuralTypeSlim) key() string {
	if t.k != "" {
		return t.k
	}
	var sb strings.Builder
	sb.WriteString("R(")
	for _, m := range t.Members {
		sb.WriteString(strconv.Quote(m.Name) + ":" + keyOf(m.Type) + ":" + strconv.Quote(m.Tag))
		if m.Embedded {
			sb.WriteString(":e")
		}
		sb.WriteString(";")
	}
	sb.WriteString(")")
	return sb.String()
}

func keyOf(t TypeSlim) string {
	if t == nil {
		return "nil"
	}
	return t.key()
}

// Equal reports whether two type descriptors are structurally equal.
// Interned descriptors short-circuit on identity.
func Equal(a, b TypeSlim) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a == b {
		return true
	}
	if a.Kind() != b.Kind() {
		return false
	}
	return a.key() == b.key()
}

// Uninterned constructors. Prefer the TypeSpace methods, which return the
// canonical instance for each distinct value.

// NewSimple returns a simple type descriptor
func NewSimple(name, pkg string) *SimpleTypeSlim {
	return &SimpleTypeSlim{Name: name, Package: pkg}
}

// NewArray returns an array type descriptor
func NewArray(elem TypeSlim, rank int) *ArrayTypeSlim {
	return &ArrayTypeSlim{Element: elem, Rank: rank}
}

// NewGeneric returns a generic instantiation descriptor
func NewGeneric(def *SimpleTypeSlim, args ...TypeSlim) *GenericTypeSlim {
	return &GenericTypeSlim{Definition: def, Arguments: args}
}

// NewGenericParameter returns a generic parameter descriptor
func NewGenericParameter(pos int, name string, constraints ...TypeSlim) *GenericParameterTypeSlim {
	return &GenericParameterTypeSlim{Position: pos, Name: name, Constraints: constraints}
}

// NewStructural returns a structural type descriptor
func NewStructural(members ...StructuralMember) *StructuralTypeSlim {
	return &StructuralTypeSlim{Members: members}
}

// Predeclared types shared by every TypeSpace.
var (
	Void       = predeclared("void")
	Bool       = predeclared("bool")
	Int        = predeclared("int")
	Int8       = predeclared("int8")
	Int16      = predeclared("int16")
	Int32      = predeclared("int32")
	Int64      = predeclared("int64")
	Uint       = predeclared("uint")
	Uint8      = predeclared("uint8")
	Uint16     = predeclared("uint16")
	Uint32     = predeclared("uint32")
	Uint64     = predeclared("uint64")
	Uintptr    = predeclared("uintptr")
	Float32    = predeclared("float32")
	Float64    = predeclared("float64")
	Complex64  = predeclared("complex64")
	Complex128 = predeclared("complex128")
	String     = predeclared("string")
	Any        = predeclared("any")
	Error      = predeclared("error")
)

var predeclaredTypes []*SimpleTypeSlim

func predeclared(name string) *SimpleTypeSlim {
	t := &SimpleTypeSlim{Name: name}
	t.k = t.key()
	predeclaredTypes = append(predeclaredTypes, t)
	return t
}
