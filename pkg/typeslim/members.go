package typeslim

import (
	"fmt"
	"strings"
)

// MemberType discriminates member descriptors
type MemberType int

const (
	FieldMember MemberType = iota
	PropertyMember
	ConstructorMember
	MethodMember
)

func (m MemberType) String() string {
	names := []string{"Field", "Property", "Constructor", "Method"}
	if m >= 0 && int(m) < len(names) {
		return names[m]
	}
	return "?"
}

// MemberInfoSlim is the interface for all portable member descriptors
type MemberInfoSlim interface {
	MemberType() MemberType
	DeclaringType() TypeSlim
	String() string
	implMember()
}

// FieldInfoSlim describes a struct field
type FieldInfoSlim struct {
	declaringType TypeSlim
	name          string
	fieldType     TypeSlim
}

// PropertyInfoSlim describes a getter: a method named Name taking the index
// parameters and returning PropertyType.
type PropertyInfoSlim struct {
	declaringType       TypeSlim
	name                string
	propertyType        TypeSlim
	indexParameterTypes []TypeSlim
}

// ConstructorInfoSlim describes a registered constructor function
type ConstructorInfoSlim struct {
	declaringType  TypeSlim
	parameterTypes []TypeSlim
}

// MethodInfoSlimKind discriminates method descriptors
type MethodInfoSlimKind int

const (
	SimpleMethod MethodInfoSlimKind = iota
	GenericDefinitionMethod
	GenericMethod
)

// MethodInfoSlim is the interface for method descriptors
type MethodInfoSlim interface {
	MemberInfoSlim
	Kind() MethodInfoSlimKind
	Name() string
	ParameterTypes() []TypeSlim
	ReturnType() TypeSlim
	IsStatic() bool
}

// SimpleMethodInfoSlim describes a non-generic method or package function
type SimpleMethodInfoSlim struct {
	declaringType  TypeSlim
	name           string
	parameterTypes []TypeSlim
	returnType     TypeSlim
	isStatic       bool
}

// GenericDefinitionMethodInfoSlim describes an open generic method
type GenericDefinitionMethodInfoSlim struct {
	declaringType         TypeSlim
	name                  string
	genericParameterTypes []*GenericParameterTypeSlim
	parameterTypes        []TypeSlim
	returnType            TypeSlim
	isStatic              bool
}

// GenericMethodInfoSlim describes an instantiation of a generic method.
// Go only has generic functions, so the instantiated signature is carried
// alongside the definition rather than derived from it.
type GenericMethodInfoSlim struct {
	definition       *GenericDefinitionMethodInfoSlim
	genericArguments []TypeSlim
	parameterTypes   []TypeSlim
	returnType       TypeSlim
}

func (*FieldInfoSlim) implMember()                   {}
func (*PropertyInfoSlim) implMember()                {}
func (*ConstructorInfoSlim) implMember()             {}
func (*SimpleMethodInfoSlim) implMember()            {}
func (*GenericDefinitionMethodInfoSlim) implMember() {}
func (*GenericMethodInfoSlim) implMember()           {}

// NewField creates a field descriptor
func NewField(declaringType TypeSlim, name string, fieldType TypeSlim) (*FieldInfoSlim, error) {
	if declaringType == nil {
		return nil, NullArgument("declaringType")
	}
	if fieldType == nil {
		return nil, NullArgument("fieldType")
	}
	return &FieldInfoSlim{declaringType: declaringType, name: name, fieldType: fieldType}, nil
}

// NewProperty creates a property descriptor
func NewProperty(declaringType TypeSlim, name string, propertyType TypeSlim, indexParameterTypes ...TypeSlim) (*PropertyInfoSlim, error) {
	if declaringType == nil {
		return nil, NullArgument("declaringType")
	}
	if propertyType == nil {
		return nil, NullArgument("propertyType")
	}
	if err := checkTypes("indexParameterTypes", indexParameterTypes); err != nil {
		return nil, err
	}
	return &PropertyInfoSlim{declaringType: declaringType, name: name, propertyType: propertyType, indexParameterTypes: indexParameterTypes}, nil
}

// NewConstructor creates a constructor descriptor
func NewConstructor(declaringType TypeSlim, parameterTypes ...TypeSlim) (*ConstructorInfoSlim, error) {
	if declaringType == nil {
		return nil, NullArgument("declaringType")
	}
	if err := checkTypes("parameterTypes", parameterTypes); err != nil {
		return nil, err
	}
	return &ConstructorInfoSlim{declaringType: declaringType, parameterTypes: parameterTypes}, nil
}

// NewMethod creates a non-generic method descriptor. A nil return type
// means void.
func NewMethod(declaringType TypeSlim, name string, isStatic bool, parameterTypes []TypeSlim, returnType TypeSlim) (*SimpleMethodInfoSlim, error) {
	if declaringType == nil {
		return nil, NullArgument("declaringType")
	}
	if err := checkTypes("parameterTypes", parameterTypes); err != nil {
		return nil, err
	}
	if returnType == nil {
		returnType = Void
	}
	return &SimpleMethodInfoSlim{declaringType: declaringType, name: name, parameterTypes: parameterTypes, returnType: returnType, isStatic: isStatic}, nil
}

// NewGenericDefinitionMethod creates an open generic method descriptor
func NewGenericDefinitionMethod(declaringType TypeSlim, name string, isStatic bool, genericParameters []*GenericParameterTypeSlim, parameterTypes []TypeSlim, returnType TypeSlim) (*GenericDefinitionMethodInfoSlim, error) {
	if declaringType == nil {
		return nil, NullArgument("declaringType")
	}
	if len(genericParameters) == 0 {
		return nil, fmt.Errorf("generic method %s has no generic parameters", name)
	}
	for i, p := range genericParameters {
		if p == nil {
			return nil, NullArgument(fmt.Sprintf("genericParameters[%d]", i))
		}
	}
	if err := checkTypes("parameterTypes", parameterTypes); err != nil {
		return nil, err
	}
	if returnType == nil {
		returnType = Void
	}
	return &GenericDefinitionMethodInfoSlim{
		declaringType:         declaringType,
		name:                  name,
		genericParameterTypes: genericParameters,
		parameterTypes:        parameterTypes,
		returnType:            returnType,
		isStatic:              isStatic,
	}, nil
}

// NewGenericMethod creates an instantiated generic method descriptor
func NewGenericMethod(definition *GenericDefinitionMethodInfoSlim, genericArguments []TypeSlim, parameterTypes []TypeSlim, returnType TypeSlim) (*GenericMethodInfoSlim, error) {
	if definition == nil {
		return nil, NullArgument("definition")
	}
	if err := checkTypes("genericArguments", genericArguments); err != nil {
		return nil, err
	}
	if len(genericArguments) != len(definition.genericParameterTypes) {
		return nil, fmt.Errorf("generic method %s: want %d type arguments, got %d",
			definition.name, len(definition.genericParameterTypes), len(genericArguments))
	}
	if err := checkTypes("parameterTypes", parameterTypes); err != nil {
		return nil, err
	}
	if returnType == nil {
		returnType = Void
	}
	return &GenericMethodInfoSlim{definition: definition, genericArguments: genericArguments, parameterTypes: parameterTypes, returnType: returnType}, nil
}

func checkTypes(param string, types []TypeSlim) error {
	for i, t := range types {
		if t == nil {
			return NullArgument(fmt.Sprintf("%s[%d]", param, i))
		}
	}
	return nil
}

// Accessors

func (f *FieldInfoSlim) MemberType() MemberType  { return FieldMember }
func (f *FieldInfoSlim) DeclaringType() TypeSlim { return f.declaringType }
func (f *FieldInfoSlim) Name() string            { return f.name }
func (f *FieldInfoSlim) FieldType() TypeSlim     { return f.fieldType }

func (p *PropertyInfoSlim) MemberType() MemberType          { return PropertyMember }
func (p *PropertyInfoSlim) DeclaringType() TypeSlim         { return p.declaringType }
func (p *PropertyInfoSlim) Name() string                    { return p.name }
func (p *PropertyInfoSlim) PropertyType() TypeSlim          { return p.propertyType }
func (p *PropertyInfoSlim) IndexParameterTypes() []TypeSlim { return p.indexParameterTypes }

func (c *ConstructorInfoSlim) MemberType() MemberType     { return ConstructorMember }
func (c *ConstructorInfoSlim) DeclaringType() TypeSlim    { return c.declaringType }
func (c *ConstructorInfoSlim) ParameterTypes() []TypeSlim { return c.parameterTypes }

func (m *SimpleMethodInfoSlim) MemberType() MemberType     { return MethodMember }
func (m *SimpleMethodInfoSlim) Kind() MethodInfoSlimKind   { return SimpleMethod }
func (m *SimpleMethodInfoSlim) DeclaringType() TypeSlim    { return m.declaringType }
func (m *SimpleMethodInfoSlim) Name() string               { return m.name }
func (m *SimpleMethodInfoSlim) ParameterTypes() []TypeSlim { return m.parameterTypes }
func (m *SimpleMethodInfoSlim) ReturnType() TypeSlim       { return m.returnType }
func (m *SimpleMethodInfoSlim) IsStatic() bool             { return m.isStatic }

func (m *GenericDefinitionMethodInfoSlim) MemberType() MemberType   { return MethodMember }
func (m *GenericDefinitionMethodInfoSlim) Kind() MethodInfoSlimKind { return GenericDefinitionMethod }
func (m *GenericDefinitionMethodInfoSlim) DeclaringType() TypeSlim  { return m.declaringType }
func (m *GenericDefinitionMethodInfoSlim) Name() string             { return m.name }
func (m *GenericDefinitionMethodInfoSlim) GenericParameterTypes() []*GenericParameterTypeSlim {
	return m.genericParameterTypes
}
func (m *GenericDefinitionMethodInfoSlim) ParameterTypes() []TypeSlim { return m.parameterTypes }
func (m *GenericDefinitionMethodInfoSlim) ReturnType() TypeSlim       { return m.returnType }
func (m *GenericDefinitionMethodInfoSlim) IsStatic() bool             { return m.isStatic }

func (m *GenericMethodInfoSlim) MemberType() MemberType   { return MethodMember }
func (m *GenericMethodInfoSlim) Kind() MethodInfoSlimKind { return GenericMethod }
func (m *GenericMethodInfoSlim) DeclaringType() TypeSlim  { return m.definition.declaringType }
func (m *GenericMethodInfoSlim) Name() string             { return m.definition.name }
func (m *GenericMethodInfoSlim) GenericMethodDefinition() *GenericDefinitionMethodInfoSlim {
	return m.definition
}
func (m *GenericMethodInfoSlim) GenericArguments() []TypeSlim { return m.genericArguments }
func (m *GenericMethodInfoSlim) ParameterTypes() []TypeSlim   { return m.parameterTypes }
func (m *GenericMethodInfoSlim) ReturnType() TypeSlim         { return m.returnType }
func (m *GenericMethodInfoSlim) IsStatic() bool               { return m.definition.isStatic }

// String methods render member signatures

func (f *FieldInfoSlim) String() string {
	return f.declaringType.String() + "." + f.name + " " + f.fieldType.String()
}

func (p *PropertyInfoSlim) String() string {
	s := p.declaringType.String() + "." + p.name
	if len(p.indexParameterTypes) > 0 {
		s += "[" + typeList(p.indexParameterTypes) + "]"
	}
	return s + " " + p.propertyType.String()
}

func (c *ConstructorInfoSlim) String() string {
	return "new " + c.declaringType.String() + "(" + typeList(c.parameterTypes) + ")"
}

func (m *SimpleMethodInfoSlim) String() string {
	return methodString(m.declaringType, m.name, "", m.parameterTypes, m.returnType)
}

func (m *GenericDefinitionMethodInfoSlim) String() string {
	params := make([]TypeSlim, len(m.genericParameterTypes))
	for i, p := range m.genericParameterTypes {
		params[i] = p
	}
	return methodString(m.declaringType, m.name, "["+typeList(params)+"]", m.parameterTypes, m.returnType)
}

func (m *GenericMethodInfoSlim) String() string {
	return methodString(m.definition.declaringType, m.definition.name, "["+typeList(m.genericArguments)+"]", m.parameterTypes, m.returnType)
}

func methodString(declaring TypeSlim, name, typeArgs string, params []TypeSlim, ret TypeSlim) string {
	s := declaring.String() + "." + name + typeArgs + "(" + typeList(params) + ")"
	if ret != nil && !Equal(ret, Void) {
		s += " " + ret.String()
	}
	return s
}

func typeList(types []TypeSlim) string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = typeString(t)
	}
	return strings.Join(names, ", ")
}

// EqualMember reports whether two member descriptors are structurally equal:
// same kind, declaring type, name and signature.
func EqualMember(a, b MemberInfoSlim) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a == b {
		return true
	}
	if a.MemberType() != b.MemberType() || !Equal(a.DeclaringType(), b.DeclaringType()) {
		return false
	}
	switch x := a.(type) {
	case *FieldInfoSlim:
		y := b.(*FieldInfoSlim)
		return x.name == y.name && Equal(x.fieldType, y.fieldType)
	case *PropertyInfoSlim:
		y := b.(*PropertyInfoSlim)
		return x.name == y.name && Equal(x.propertyType, y.propertyType) && equalTypes(x.indexParameterTypes, y.indexParameterTypes)
	case *ConstructorInfoSlim:
		y := b.(*ConstructorInfoSlim)
		return equalTypes(x.parameterTypes, y.parameterTypes)
	case MethodInfoSlim:
		y := b.(MethodInfoSlim)
		if x.Kind() != y.Kind() || x.Name() != y.Name() || x.IsStatic() != y.IsStatic() {
			return false
		}
		if !equalTypes(x.ParameterTypes(), y.ParameterTypes()) || !Equal(x.ReturnType(), y.ReturnType()) {
			return false
		}
		switch xm := x.(type) {
		case *GenericDefinitionMethodInfoSlim:
			ym := y.(*GenericDefinitionMethodInfoSlim)
			return len(xm.genericParameterTypes) == len(ym.genericParameterTypes)
		case *GenericMethodInfoSlim:
			ym := y.(*GenericMethodInfoSlim)
			return EqualMember(xm.definition, ym.definition) && equalTypes(xm.genericArguments, ym.genericArguments)
		}
		return true
	}
	panic(fmt.Sprintf("unhandled member descriptor: %T", a))
}

func equalTypes(a, b []TypeSlim) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}
