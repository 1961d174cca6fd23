package expr

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/raymyers/slimexpr/pkg/typeslim"
)

// ErrInvalidNodeType is returned when a node kind is used outside the set
// valid for the requested node shape.
var ErrInvalidNodeType = errors.New("invalid expression type for this node")

var boolType = reflect.TypeFor[bool]()

func null(param string) error { return typeslim.NullArgument(param) }

func invalidKind(kind ExpressionType, shape string) error {
	return fmt.Errorf("%w: %s is not a %s kind", ErrInvalidNodeType, kind, shape)
}

func checkExprs(param string, exprs []Expr) error {
	for i, e := range exprs {
		if e == nil {
			return null(fmt.Sprintf("%s[%d]", param, i))
		}
	}
	return nil
}

// MakeBinary creates a binary node, inferring its result type
func MakeBinary(kind ExpressionType, left, right Expr, liftToNull bool, method *Method, conversion *LambdaExpr) (*BinaryExpr, error) {
	if !kind.IsBinary() {
		return nil, invalidKind(kind, "binary")
	}
	if left == nil {
		return nil, null("left")
	}
	if right == nil {
		return nil, null("right")
	}
	var t reflect.Type
	switch {
	case method != nil:
		t = method.Return
	case kind.IsComparison(), kind == AndAlso, kind == OrElse:
		t = boolType
	case kind == ArrayIndex:
		lt := left.Type()
		if lt.Kind() != reflect.Slice && lt.Kind() != reflect.Array {
			return nil, fmt.Errorf("ArrayIndex: %s is not a slice or array", lt)
		}
		t = lt.Elem()
	case kind == Coalesce:
		t = left.Type()
		if conversion != nil {
			t = conversion.Body.Type()
		} else if k := t.Kind(); k == reflect.Pointer && right.Type() == t.Elem() {
			t = right.Type()
		}
	default:
		t = left.Type()
	}
	if !kind.IsComparison() {
		liftToNull = false
	}
	return &BinaryExpr{Kind: kind, Left: left, Right: right, Method: method, Conversion: conversion, LiftToNull: liftToNull, T: t}, nil
}

// MakeUnary creates a unary node. typ is required for conversions and
// optional for throw, where nil means void.
func MakeUnary(kind ExpressionType, operand Expr, typ reflect.Type, method *Method) (*UnaryExpr, error) {
	if !kind.IsUnary() {
		return nil, invalidKind(kind, "unary")
	}
	if operand == nil && kind != Throw {
		return nil, null("operand")
	}
	switch kind {
	case Convert, ConvertChecked, TypeAs, Unbox:
		if typ == nil {
			return nil, null("type")
		}
	case Throw:
		if typ == nil {
			typ = VoidType
		}
	case ArrayLength:
		typ = reflect.TypeFor[int]()
	case IsTrue, IsFalse:
		typ = boolType
	default:
		if method != nil {
			typ = method.Return
		} else if typ == nil {
			typ = operand.Type()
		}
	}
	return &UnaryExpr{Kind: kind, Operand: operand, Method: method, T: typ}, nil
}

// MakeConditional creates a conditional node; typ defaults to the type of ifTrue
func MakeConditional(test, ifTrue, ifFalse Expr, typ reflect.Type) (*ConditionalExpr, error) {
	if test == nil {
		return nil, null("test")
	}
	if ifTrue == nil {
		return nil, null("ifTrue")
	}
	if ifFalse == nil {
		return nil, null("ifFalse")
	}
	if typ == nil {
		typ = ifTrue.Type()
	}
	return &ConditionalExpr{Test: test, IfTrue: ifTrue, IfFalse: ifFalse, T: typ}, nil
}

// MakeConstant creates a constant node; typ defaults to the dynamic type of value
func MakeConstant(value any, typ reflect.Type) (*ConstantExpr, error) {
	if typ == nil {
		if value == nil {
			return nil, null("type")
		}
		typ = reflect.TypeOf(value)
	}
	return &ConstantExpr{Value: value, T: typ}, nil
}

// MakeDefault creates a zero-value node
func MakeDefault(typ reflect.Type) (*DefaultExpr, error) {
	if typ == nil {
		return nil, null("type")
	}
	return &DefaultExpr{T: typ}, nil
}

// MakeParameter creates a parameter or variable
func MakeParameter(typ reflect.Type, name string) (*ParameterExpr, error) {
	if typ == nil {
		return nil, null("type")
	}
	return &ParameterExpr{Name: name, T: typ}, nil
}

// MakeLambda creates a lambda; funcType defaults to the func type built from
// the parameter and body types.
func MakeLambda(funcType reflect.Type, body Expr, params []*ParameterExpr) (*LambdaExpr, error) {
	if body == nil {
		return nil, null("body")
	}
	in := make([]reflect.Type, len(params))
	for i, p := range params {
		if p == nil {
			return nil, null(fmt.Sprintf("parameters[%d]", i))
		}
		in[i] = p.T
	}
	if funcType == nil {
		var out []reflect.Type
		if bt := body.Type(); bt != VoidType {
			out = []reflect.Type{bt}
		}
		funcType = reflect.FuncOf(in, out, false)
	}
	if funcType.Kind() != reflect.Func || funcType.NumIn() != len(params) {
		return nil, fmt.Errorf("lambda type %s does not match %d parameters", funcType, len(params))
	}
	return &LambdaExpr{Params: params, Body: body, T: funcType}, nil
}

// MakeMemberAccess creates a field or property read
func MakeMemberAccess(object Expr, member Member) (*MemberExpr, error) {
	if member == nil {
		return nil, null("member")
	}
	if _, ok := member.(*Field); ok && object == nil {
		return nil, null("expression")
	}
	return &MemberExpr{Object: object, Member: member}, nil
}

// MakeCall creates a method call
func MakeCall(object Expr, method *Method, args []Expr) (*CallExpr, error) {
	if method == nil {
		return nil, null("method")
	}
	if !method.Static && object == nil {
		return nil, null("instance")
	}
	if err := checkExprs("arguments", args); err != nil {
		return nil, err
	}
	if !method.Variadic && len(args) != len(method.Params) {
		return nil, fmt.Errorf("%s takes %d arguments, got %d", method, len(method.Params), len(args))
	}
	return &CallExpr{Object: object, Method: method, Args: args}, nil
}

// MakeInvoke creates an invocation of a function-typed value
func MakeInvoke(fn Expr, args []Expr) (*InvokeExpr, error) {
	if fn == nil {
		return nil, null("expression")
	}
	if err := checkExprs("arguments", args); err != nil {
		return nil, err
	}
	ft := fn.Type()
	if ft.Kind() != reflect.Func {
		return nil, fmt.Errorf("Invoke: %s is not a function type", ft)
	}
	t := VoidType
	if ft.NumOut() == 1 {
		t = ft.Out(0)
	}
	return &InvokeExpr{Func: fn, Args: args, T: t}, nil
}

// MakeNew creates a constructor call
func MakeNew(ctor *Constructor, args []Expr) (*NewExpr, error) {
	if ctor == nil {
		return nil, null("constructor")
	}
	if err := checkExprs("arguments", args); err != nil {
		return nil, err
	}
	if len(args) != len(ctor.Params) {
		return nil, fmt.Errorf("%s takes %d arguments, got %d", ctor, len(ctor.Params), len(args))
	}
	return &NewExpr{Constructor: ctor, Args: args, T: ctor.Declaring}, nil
}

// MakeNewValue creates the zero value of typ
func MakeNewValue(typ reflect.Type) (*NewExpr, error) {
	if typ == nil {
		return nil, null("type")
	}
	return &NewExpr{T: typ}, nil
}

// MakeNewArray creates a NewArrayInit or NewArrayBounds node
func MakeNewArray(kind ExpressionType, elemType reflect.Type, exprs []Expr) (*NewArrayExpr, error) {
	if kind != NewArrayInit && kind != NewArrayBounds {
		return nil, invalidKind(kind, "new-array")
	}
	if elemType == nil {
		return nil, null("type")
	}
	if err := checkExprs("expressions", exprs); err != nil {
		return nil, err
	}
	t := reflect.SliceOf(elemType)
	if kind == NewArrayBounds {
		if len(exprs) == 0 {
			return nil, fmt.Errorf("NewArrayBounds needs at least one bound")
		}
		for range exprs[1:] {
			t = reflect.SliceOf(t)
		}
	}
	return &NewArrayExpr{Kind: kind, ElemType: elemType, Exprs: exprs, T: t}, nil
}

// MakeElementInit creates one list initializer entry
func MakeElementInit(addMethod *Method, args []Expr) (*ElementInit, error) {
	if addMethod == nil {
		return nil, null("addMethod")
	}
	if err := checkExprs("arguments", args); err != nil {
		return nil, err
	}
	return &ElementInit{AddMethod: addMethod, Args: args}, nil
}

// MakeListInit creates a list initializer
func MakeListInit(newExpr *NewExpr, inits []*ElementInit) (*ListInitExpr, error) {
	if newExpr == nil {
		return nil, null("newExpression")
	}
	for i, in := range inits {
		if in == nil {
			return nil, null(fmt.Sprintf("initializers[%d]", i))
		}
	}
	return &ListInitExpr{New: newExpr, Initializers: inits}, nil
}

// MakeMemberInit creates a member initializer
func MakeMemberInit(newExpr *NewExpr, bindings []MemberBinding) (*MemberInitExpr, error) {
	if newExpr == nil {
		return nil, null("newExpression")
	}
	for i, b := range bindings {
		if b == nil {
			return nil, null(fmt.Sprintf("bindings[%d]", i))
		}
	}
	return &MemberInitExpr{New: newExpr, Bindings: bindings}, nil
}

// MakeMemberAssignment creates a member assignment binding
func MakeMemberAssignment(member Member, e Expr) (*MemberAssignment, error) {
	if member == nil {
		return nil, null("member")
	}
	if e == nil {
		return nil, null("expression")
	}
	return &MemberAssignment{Member: member, Expr: e}, nil
}

// MakeMemberMemberBinding creates a nested member binding
func MakeMemberMemberBinding(member Member, bindings []MemberBinding) (*MemberMemberBinding, error) {
	if member == nil {
		return nil, null("member")
	}
	return &MemberMemberBinding{Member: member, Bindings: bindings}, nil
}

// MakeMemberListBinding creates a member list binding
func MakeMemberListBinding(member Member, inits []*ElementInit) (*MemberListBinding, error) {
	if member == nil {
		return nil, null("member")
	}
	return &MemberListBinding{Member: member, Initializers: inits}, nil
}

// MakeIndex creates an index node; indexer is nil for built-in indexing
func MakeIndex(object Expr, indexer *Property, args []Expr) (*IndexExpr, error) {
	if object == nil {
		return nil, null("instance")
	}
	if err := checkExprs("arguments", args); err != nil {
		return nil, err
	}
	if indexer != nil {
		return &IndexExpr{Object: object, Indexer: indexer, Args: args, T: indexer.Type}, nil
	}
	if len(args) != 1 {
		return nil, fmt.Errorf("Index: built-in indexing takes one argument, got %d", len(args))
	}
	ot := object.Type()
	var t reflect.Type
	switch ot.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		t = ot.Elem()
	case reflect.String:
		t = reflect.TypeFor[byte]()
	default:
		return nil, fmt.Errorf("Index: %s is not indexable", ot)
	}
	return &IndexExpr{Object: object, Args: args, T: t}, nil
}

// MakeBlock creates a block; typ defaults to the type of the last expression
func MakeBlock(typ reflect.Type, vars []*ParameterExpr, exprs []Expr) (*BlockExpr, error) {
	if len(exprs) == 0 {
		return nil, fmt.Errorf("block must contain at least one expression")
	}
	if err := checkExprs("expressions", exprs); err != nil {
		return nil, err
	}
	for i, v := range vars {
		if v == nil {
			return nil, null(fmt.Sprintf("variables[%d]", i))
		}
	}
	if typ == nil {
		typ = exprs[len(exprs)-1].Type()
	}
	return &BlockExpr{Variables: vars, Exprs: exprs, T: typ}, nil
}

// MakeLabelTarget creates a jump target; nil typ means void
func MakeLabelTarget(typ reflect.Type, name string) (*LabelTarget, error) {
	if typ == nil {
		typ = VoidType
	}
	return &LabelTarget{Name: name, T: typ}, nil
}

// MakeLabel creates a label node
func MakeLabel(target *LabelTarget, defaultValue Expr) (*LabelExpr, error) {
	if target == nil {
		return nil, null("target")
	}
	return &LabelExpr{Target: target, Default: defaultValue}, nil
}

// MakeGoto creates a jump; nil typ means void
func MakeGoto(kind GotoExpressionKind, target *LabelTarget, value Expr, typ reflect.Type) (*GotoExpr, error) {
	if target == nil {
		return nil, null("target")
	}
	if typ == nil {
		typ = VoidType
	}
	return &GotoExpr{Kind: kind, Target: target, Value: value, T: typ}, nil
}

// MakeLoop creates a loop
func MakeLoop(body Expr, breakLabel, continueLabel *LabelTarget) (*LoopExpr, error) {
	if body == nil {
		return nil, null("body")
	}
	return &LoopExpr{Body: body, Break: breakLabel, Continue: continueLabel}, nil
}

// MakeSwitchCase creates a switch case
func MakeSwitchCase(body Expr, tests []Expr) (*SwitchCase, error) {
	if body == nil {
		return nil, null("body")
	}
	if len(tests) == 0 {
		return nil, fmt.Errorf("switch case needs at least one test value")
	}
	if err := checkExprs("testValues", tests); err != nil {
		return nil, err
	}
	return &SwitchCase{TestValues: tests, Body: body}, nil
}

// MakeSwitch creates a switch; typ defaults to the type of the first case body
func MakeSwitch(typ reflect.Type, value, defaultBody Expr, comparison *Method, cases []*SwitchCase) (*SwitchExpr, error) {
	if value == nil {
		return nil, null("switchValue")
	}
	for i, c := range cases {
		if c == nil {
			return nil, null(fmt.Sprintf("cases[%d]", i))
		}
	}
	if typ == nil {
		switch {
		case len(cases) > 0:
			typ = cases[0].Body.Type()
		case defaultBody != nil:
			typ = defaultBody.Type()
		default:
			typ = VoidType
		}
	}
	return &SwitchExpr{Value: value, Cases: cases, Default: defaultBody, Comparison: comparison, T: typ}, nil
}

// MakeCatchBlock creates a catch handler; test defaults to the variable type
func MakeCatchBlock(test reflect.Type, variable *ParameterExpr, body, filter Expr) (*CatchBlock, error) {
	if body == nil {
		return nil, null("body")
	}
	if test == nil {
		if variable == nil {
			return nil, null("type")
		}
		test = variable.T
	}
	return &CatchBlock{Test: test, Variable: variable, Body: body, Filter: filter}, nil
}

// MakeTry creates a try node. Exactly one of catch handlers (with optional
// finally), finally only, or fault only is valid.
func MakeTry(typ reflect.Type, body, finally, fault Expr, handlers []*CatchBlock) (*TryExpr, error) {
	if body == nil {
		return nil, null("body")
	}
	for i, h := range handlers {
		if h == nil {
			return nil, null(fmt.Sprintf("handlers[%d]", i))
		}
	}
	if fault != nil && (finally != nil || len(handlers) > 0) {
		return nil, fmt.Errorf("fault cannot be combined with finally or catch handlers")
	}
	if fault == nil && finally == nil && len(handlers) == 0 {
		return nil, fmt.Errorf("try must have at least one catch, finally or fault")
	}
	if typ == nil {
		typ = body.Type()
	}
	return &TryExpr{Body: body, Handlers: handlers, Finally: finally, Fault: fault, T: typ}, nil
}

// MakeTypeBinary creates a TypeIs or TypeEqual node
func MakeTypeBinary(kind ExpressionType, e Expr, typ reflect.Type) (*TypeBinaryExpr, error) {
	if kind != TypeIs && kind != TypeEqual {
		return nil, invalidKind(kind, "type-binary")
	}
	if e == nil {
		return nil, null("expression")
	}
	if typ == nil {
		return nil, null("type")
	}
	return &TypeBinaryExpr{Kind: kind, Expr: e, TypeOperand: typ}, nil
}

// Factory builds native nodes. Converters take a Factory so callers can
// intercept node creation.
type Factory interface {
	Binary(kind ExpressionType, left, right Expr, liftToNull bool, method *Method, conversion *LambdaExpr) (*BinaryExpr, error)
	Unary(kind ExpressionType, operand Expr, typ reflect.Type, method *Method) (*UnaryExpr, error)
	Conditional(test, ifTrue, ifFalse Expr, typ reflect.Type) (*ConditionalExpr, error)
	Constant(value any, typ reflect.Type) (*ConstantExpr, error)
	Default(typ reflect.Type) (*DefaultExpr, error)
	Parameter(typ reflect.Type, name string) (*ParameterExpr, error)
	Lambda(funcType reflect.Type, body Expr, params []*ParameterExpr) (*LambdaExpr, error)
	MemberAccess(object Expr, member Member) (*MemberExpr, error)
	Call(object Expr, method *Method, args []Expr) (*CallExpr, error)
	Invoke(fn Expr, args []Expr) (*InvokeExpr, error)
	New(ctor *Constructor, args []Expr) (*NewExpr, error)
	NewValue(typ reflect.Type) (*NewExpr, error)
	NewArray(kind ExpressionType, elemType reflect.Type, exprs []Expr) (*NewArrayExpr, error)
	ElementInit(addMethod *Method, args []Expr) (*ElementInit, error)
	ListInit(newExpr *NewExpr, inits []*ElementInit) (*ListInitExpr, error)
	MemberInit(newExpr *NewExpr, bindings []MemberBinding) (*MemberInitExpr, error)
	MemberAssignment(member Member, e Expr) (*MemberAssignment, error)
	MemberMemberBinding(member Member, bindings []MemberBinding) (*MemberMemberBinding, error)
	MemberListBinding(member Member, inits []*ElementInit) (*MemberListBinding, error)
	Index(object Expr, indexer *Property, args []Expr) (*IndexExpr, error)
	Block(typ reflect.Type, vars []*ParameterExpr, exprs []Expr) (*BlockExpr, error)
	LabelTarget(typ reflect.Type, name string) (*LabelTarget, error)
	Label(target *LabelTarget, defaultValue Expr) (*LabelExpr, error)
	Goto(kind GotoExpressionKind, target *LabelTarget, value Expr, typ reflect.Type) (*GotoExpr, error)
	Loop(body Expr, breakLabel, continueLabel *LabelTarget) (*LoopExpr, error)
	SwitchCase(body Expr, tests []Expr) (*SwitchCase, error)
	Switch(typ reflect.Type, value, defaultBody Expr, comparison *Method, cases []*SwitchCase) (*SwitchExpr, error)
	CatchBlock(test reflect.Type, variable *ParameterExpr, body, filter Expr) (*CatchBlock, error)
	Try(typ reflect.Type, body, finally, fault Expr, handlers []*CatchBlock) (*TryExpr, error)
	TypeBinary(kind ExpressionType, e Expr, typ reflect.Type) (*TypeBinaryExpr, error)
}

// DefaultFactory delegates to the package-level Make functions
type DefaultFactory struct{}

var _ Factory = DefaultFactory{}

func (DefaultFactory) Binary(kind ExpressionType, left, right Expr, liftToNull bool, method *Method, conversion *LambdaExpr) (*BinaryExpr, error) {
	return MakeBinary(kind, left, right, liftToNull, method, conversion)
}

func (DefaultFactory) Unary(kind ExpressionType, operand Expr, typ reflect.Type, method *Method) (*UnaryExpr, error) {
	return MakeUnary(kind, operand, typ, method)
}

func (DefaultFactory) Conditional(test, ifTrue, ifFalse Expr, typ reflect.Type) (*ConditionalExpr, error) {
	return MakeConditional(test, ifTrue, ifFalse, typ)
}

func (DefaultFactory) Constant(value any, typ reflect.Type) (*ConstantExpr, error) {
	return MakeConstant(value, typ)
}

func (DefaultFactory) Default(typ reflect.Type) (*DefaultExpr, error) { return MakeDefault(typ) }

func (DefaultFactory) Parameter(typ reflect.Type, name string) (*ParameterExpr, error) {
	return MakeParameter(typ, name)
}

func (DefaultFactory) Lambda(funcType reflect.Type, body Expr, params []*ParameterExpr) (*LambdaExpr, error) {
	return MakeLambda(funcType, body, params)
}

func (DefaultFactory) MemberAccess(object Expr, member Member) (*MemberExpr, error) {
	return MakeMemberAccess(object, member)
}

func (DefaultFactory) Call(object Expr, method *Method, args []Expr) (*CallExpr, error) {
	return MakeCall(object, method, args)
}

func (DefaultFactory) Invoke(fn Expr, args []Expr) (*InvokeExpr, error) { return MakeInvoke(fn, args) }

func (DefaultFactory) New(ctor *Constructor, args []Expr) (*NewExpr, error) {
	return MakeNew(ctor, args)
}

func (DefaultFactory) NewValue(typ reflect.Type) (*NewExpr, error) { return MakeNewValue(typ) }

func (DefaultFactory) NewArray(kind ExpressionType, elemType reflect.Type, exprs []Expr) (*NewArrayExpr, error) {
	return MakeNewArray(kind, elemType, exprs)
}

func (DefaultFactory) ElementInit(addMethod *Method, args []Expr) (*ElementInit, error) {
	return MakeElementInit(addMethod, args)
}

func (DefaultFactory) ListInit(newExpr *NewExpr, inits []*ElementInit) (*ListInitExpr, error) {
	return MakeListInit(newExpr, inits)
}

func (DefaultFactory) MemberInit(newExpr *NewExpr, bindings []MemberBinding) (*MemberInitExpr, error) {
	return MakeMemberInit(newExpr, bindings)
}

func (DefaultFactory) MemberAssignment(member Member, e Expr) (*MemberAssignment, error) {
	return MakeMemberAssignment(member, e)
}

func (DefaultFactory) MemberMemberBinding(member Member, bindings []MemberBinding) (*MemberMemberBinding, error) {
	return MakeMemberMemberBinding(member, bindings)
}

func (DefaultFactory) MemberListBinding(member Member, inits []*ElementInit) (*MemberListBinding, error) {
	return MakeMemberListBinding(member, inits)
}

func (DefaultFactory) Index(object Expr, indexer *Property, args []Expr) (*IndexExpr, error) {
	return MakeIndex(object, indexer, args)
}

func (DefaultFactory) Block(typ reflect.Type, vars []*ParameterExpr, exprs []Expr) (*BlockExpr, error) {
	return MakeBlock(typ, vars, exprs)
}

func (DefaultFactory) LabelTarget(typ reflect.Type, name string) (*LabelTarget, error) {
	return MakeLabelTarget(typ, name)
}

func (DefaultFactory) Label(target *LabelTarget, defaultValue Expr) (*LabelExpr, error) {
	return MakeLabel(target, defaultValue)
}

func (DefaultFactory) Goto(kind GotoExpressionKind, target *LabelTarget, value Expr, typ reflect.Type) (*GotoExpr, error) {
	return MakeGoto(kind, target, value, typ)
}

func (DefaultFactory) Loop(body Expr, breakLabel, continueLabel *LabelTarget) (*LoopExpr, error) {
	return MakeLoop(body, breakLabel, continueLabel)
}

func (DefaultFactory) SwitchCase(body Expr, tests []Expr) (*SwitchCase, error) {
	return MakeSwitchCase(body, tests)
}

func (DefaultFactory) Switch(typ reflect.Type, value, defaultBody Expr, comparison *Method, cases []*SwitchCase) (*SwitchExpr, error) {
	return MakeSwitch(typ, value, defaultBody, comparison, cases)
}

func (DefaultFactory) CatchBlock(test reflect.Type, variable *ParameterExpr, body, filter Expr) (*CatchBlock, error) {
	return MakeCatchBlock(test, variable, body, filter)
}

func (DefaultFactory) Try(typ reflect.Type, body, finally, fault Expr, handlers []*CatchBlock) (*TryExpr, error) {
	return MakeTry(typ, body, finally, fault, handlers)
}

func (DefaultFactory) TypeBinary(kind ExpressionType, e Expr, typ reflect.Type) (*TypeBinaryExpr, error) {
	return MakeTypeBinary(kind, e, typ)
}
