package expr

import (
	"fmt"
	"reflect"
	"slices"

	"github.com/raymyers/slimexpr/pkg/typeslim"
)

// Member is a field or property that a member-access node reads
type Member interface {
	DeclaringType() reflect.Type
	MemberName() string
	MemberType() reflect.Type
	implMember()
}

// Field is a live handle to a struct field
type Field struct {
	Declaring reflect.Type // struct type declaring the field
	Name      string
	Type      reflect.Type
	Index     []int
}

// Property is a getter method used as a property: Name(indexParams...) T
type Property struct {
	Declaring   reflect.Type
	Name        string
	Type        reflect.Type
	IndexParams []reflect.Type
	Getter      *Method
}

// Method is a live handle to a method or package function. Instance
// methods take the receiver as the first argument of Func.
type Method struct {
	Declaring reflect.Type // receiver type; nil for package functions
	Package   string       // package path for package functions
	Name      string
	Func      reflect.Value
	Static    bool
	Params    []reflect.Type // excluding the receiver
	Return    reflect.Type   // VoidType when the function has no result
	Variadic  bool
	TypeArgs  []reflect.Type // instantiation of a generic function
}

// Constructor is a registered function producing a value of Declaring
type Constructor struct {
	Declaring reflect.Type
	Func      reflect.Value
	Params    []reflect.Type
}

func (*Field) implMember()    {}
func (*Property) implMember() {}

func (f *Field) DeclaringType() reflect.Type    { return f.Declaring }
func (f *Field) MemberName() string             { return f.Name }
func (f *Field) MemberType() reflect.Type       { return f.Type }
func (p *Property) DeclaringType() reflect.Type { return p.Declaring }
func (p *Property) MemberName() string          { return p.Name }
func (p *Property) MemberType() reflect.Type    { return p.Type }

func (f *Field) String() string {
	return fmt.Sprintf("%s.%s", f.Declaring, f.Name)
}

func (p *Property) String() string {
	return fmt.Sprintf("%s.%s", p.Declaring, p.Name)
}

func (m *Method) String() string {
	if m.Declaring == nil {
		return m.Package + "." + m.Name
	}
	return fmt.Sprintf("%s.%s", m.Declaring, m.Name)
}

func (c *Constructor) String() string {
	return fmt.Sprintf("new %s", c.Declaring)
}

// FieldOf looks up an exported field of the struct type t
func FieldOf(t reflect.Type, name string) (*Field, error) {
	if t == nil {
		return nil, typeslim.NullArgument("type")
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("FieldOf: %s is not a struct type", t)
	}
	sf, ok := t.FieldByName(name)
	if !ok {
		return nil, &typeslim.ResolutionError{What: "field", Name: t.String() + "." + name}
	}
	return &Field{Declaring: t, Name: name, Type: sf.Type, Index: sf.Index}, nil
}

// MethodOf looks up a method in the method set of t
func MethodOf(t reflect.Type, name string) (*Method, error) {
	if t == nil {
		return nil, typeslim.NullArgument("type")
	}
	m, ok := t.MethodByName(name)
	if !ok {
		return nil, &typeslim.ResolutionError{What: "method", Name: t.String() + "." + name}
	}
	return methodFromFunc(t, "", name, m.Func, false)
}

// PropertyOf looks up a getter method of t returning a single value
func PropertyOf(t reflect.Type, name string) (*Property, error) {
	m, err := MethodOf(t, name)
	if err != nil {
		return nil, err
	}
	if m.Return == VoidType || m.Variadic {
		return nil, fmt.Errorf("PropertyOf: %s.%s is not a getter", t, name)
	}
	return &Property{Declaring: t, Name: name, Type: m.Return, IndexParams: m.Params, Getter: m}, nil
}

// FuncOf wraps a package function as a static method
func FuncOf(pkg, name string, fn any) (*Method, error) {
	if fn == nil {
		return nil, typeslim.NullArgument("fn")
	}
	return methodFromFunc(nil, pkg, name, reflect.ValueOf(fn), true)
}

// GenericFuncOf wraps one instantiation of a generic package function
func GenericFuncOf(pkg, name string, typeArgs []reflect.Type, fn any) (*Method, error) {
	m, err := FuncOf(pkg, name, fn)
	if err != nil {
		return nil, err
	}
	if len(typeArgs) == 0 {
		return nil, fmt.Errorf("GenericFuncOf %s.%s: no type arguments", pkg, name)
	}
	m.TypeArgs = slices.Clone(typeArgs)
	return m, nil
}

// ConstructorOf wraps a single-result function as a constructor
func ConstructorOf(fn any) (*Constructor, error) {
	if fn == nil {
		return nil, typeslim.NullArgument("fn")
	}
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.Type().NumOut() != 1 {
		return nil, fmt.Errorf("ConstructorOf: want a single-result function, got %T", fn)
	}
	ft := v.Type()
	params := make([]reflect.Type, ft.NumIn())
	for i := range params {
		params[i] = ft.In(i)
	}
	return &Constructor{Declaring: ft.Out(0), Func: v, Params: params}, nil
}

func methodFromFunc(recv reflect.Type, pkg, name string, fn reflect.Value, static bool) (*Method, error) {
	if fn.Kind() != reflect.Func {
		return nil, fmt.Errorf("%s: not a function", name)
	}
	ft := fn.Type()
	if ft.NumOut() > 1 {
		return nil, fmt.Errorf("%s: functions with %d results are not supported", name, ft.NumOut())
	}
	first := 0
	if !static {
		first = 1
	}
	params := make([]reflect.Type, 0, ft.NumIn())
	for i := first; i < ft.NumIn(); i++ {
		params = append(params, ft.In(i))
	}
	ret := VoidType
	if ft.NumOut() == 1 {
		ret = ft.Out(0)
	}
	return &Method{
		Declaring: recv,
		Package:   pkg,
		Name:      name,
		Func:      fn,
		Static:    static,
		Params:    params,
		Return:    ret,
		Variadic:  ft.IsVariadic(),
	}, nil
}
