package slim

import (
	"github.com/raymyers/slimexpr/pkg/expr"
	"github.com/raymyers/slimexpr/pkg/typeslim"
)

// MakeBinary creates a binary node. liftToNull is kept for comparison
// kinds only; method and conversion are optional.
func MakeBinary(kind ExpressionType, left, right ExpressionSlim, liftToNull bool, method typeslim.MethodInfoSlim, conversion *LambdaExpressionSlim) (*BinaryExpressionSlim, error) {
	if !kind.IsBinary() {
		return nil, shape("binary", kind)
	}
	if left == nil {
		return nil, null("left")
	}
	if right == nil {
		return nil, null("right")
	}
	if conversion != nil && kind != expr.Coalesce && !kind.IsCompoundAssignment() {
		return nil, invariant("binary", "%s does not take a conversion", kind)
	}
	return &BinaryExpressionSlim{
		kind:       kind,
		left:       left,
		right:      right,
		method:     method,
		conversion: conversion,
		liftToNull: liftToNull && kind.IsComparison(),
	}, nil
}

func binary(kind ExpressionType, left, right ExpressionSlim) (*BinaryExpressionSlim, error) {
	return MakeBinary(kind, left, right, false, nil, nil)
}

func Add(left, right ExpressionSlim) (*BinaryExpressionSlim, error) {
	return binary(expr.Add, left, right)
}
func AddChecked(left, right ExpressionSlim) (*BinaryExpressionSlim, error) {
	return binary(expr.AddChecked, left, right)
}
func Subtract(left, right ExpressionSlim) (*BinaryExpressionSlim, error) {
	return binary(expr.Subtract, left, right)
}
func SubtractChecked(left, right ExpressionSlim) (*BinaryExpressionSlim, error) {
	return binary(expr.SubtractChecked, left, right)
}
func Multiply(left, right ExpressionSlim) (*BinaryExpressionSlim, error) {
	return binary(expr.Multiply, left, right)
}
func MultiplyChecked(left, right ExpressionSlim) (*BinaryExpressionSlim, error) {
	return binary(expr.MultiplyChecked, left, right)
}
func Divide(left, right ExpressionSlim) (*BinaryExpressionSlim, error) {
	return binary(expr.Divide, left, right)
}
func Modulo(left, right ExpressionSlim) (*BinaryExpressionSlim, error) {
	return binary(expr.Modulo, left, right)
}
func Power(left, right ExpressionSlim) (*BinaryExpressionSlim, error) {
	return binary(expr.Power, left, right)
}
func And(left, right ExpressionSlim) (*BinaryExpressionSlim, error) {
	return binary(expr.And, left, right)
}
func Or(left, right ExpressionSlim) (*BinaryExpressionSlim, error) {
	return binary(expr.Or, left, right)
}
func ExclusiveOr(left, right ExpressionSlim) (*BinaryExpressionSlim, error) {
	return binary(expr.ExclusiveOr, left, right)
}
func LeftShift(left, right ExpressionSlim) (*BinaryExpressionSlim, error) {
	return binary(expr.LeftShift, left, right)
}
func RightShift(left, right ExpressionSlim) (*BinaryExpressionSlim, error) {
	return binary(expr.RightShift, left, right)
}
func AndAlso(left, right ExpressionSlim) (*BinaryExpressionSlim, error) {
	return binary(expr.AndAlso, left, right)
}
func OrElse(left, right ExpressionSlim) (*BinaryExpressionSlim, error) {
	return binary(expr.OrElse, left, right)
}

// Equal creates an equality comparison. Comparisons built through the
// short forms are not lifted.
func Equal(left, right ExpressionSlim) (*BinaryExpressionSlim, error) {
	return binary(expr.Equal, left, right)
}
func NotEqual(left, right ExpressionSlim) (*BinaryExpressionSlim, error) {
	return binary(expr.NotEqual, left, right)
}
func LessThan(left, right ExpressionSlim) (*BinaryExpressionSlim, error) {
	return binary(expr.LessThan, left, right)
}
func LessThanOrEqual(left, right ExpressionSlim) (*BinaryExpressionSlim, error) {
	return binary(expr.LessThanOrEqual, left, right)
}
func GreaterThan(left, right ExpressionSlim) (*BinaryExpressionSlim, error) {
	return binary(expr.GreaterThan, left, right)
}
func GreaterThanOrEqual(left, right ExpressionSlim) (*BinaryExpressionSlim, error) {
	return binary(expr.GreaterThanOrEqual, left, right)
}

// Coalesce creates left ?? right; conversion is optional
func Coalesce(left, right ExpressionSlim, conversion *LambdaExpressionSlim) (*BinaryExpressionSlim, error) {
	return MakeBinary(expr.Coalesce, left, right, false, nil, conversion)
}

func Assign(left, right ExpressionSlim) (*BinaryExpressionSlim, error) {
	return binary(expr.Assign, left, right)
}

func ArrayIndex(array, index ExpressionSlim) (*BinaryExpressionSlim, error) {
	return binary(expr.ArrayIndex, array, index)
}

// MakeUnary creates a unary node. typ is required for conversions; the
// operand may be nil only for a rethrow.
func MakeUnary(kind ExpressionType, operand ExpressionSlim, typ typeslim.TypeSlim, method typeslim.MethodInfoSlim) (*UnaryExpressionSlim, error) {
	if !kind.IsUnary() {
		return nil, shape("unary", kind)
	}
	if operand == nil && kind != expr.Throw {
		return nil, null("operand")
	}
	switch kind {
	case expr.Convert, expr.ConvertChecked, expr.TypeAs, expr.Unbox:
		if typ == nil {
			return nil, null("type")
		}
	case expr.Quote:
		if _, ok := operand.(*LambdaExpressionSlim); !ok {
			return nil, invariant("quote", "operand must be a lambda, got %s", operand.NodeType())
		}
	}
	return &UnaryExpressionSlim{kind: kind, operand: operand, typ: typ, method: method}, nil
}

func Negate(operand ExpressionSlim) (*UnaryExpressionSlim, error) {
	return MakeUnary(expr.Negate, operand, nil, nil)
}
func NegateChecked(operand ExpressionSlim) (*UnaryExpressionSlim, error) {
	return MakeUnary(expr.NegateChecked, operand, nil, nil)
}
func UnaryPlus(operand ExpressionSlim) (*UnaryExpressionSlim, error) {
	return MakeUnary(expr.UnaryPlus, operand, nil, nil)
}
func Not(operand ExpressionSlim) (*UnaryExpressionSlim, error) {
	return MakeUnary(expr.Not, operand, nil, nil)
}
func OnesComplement(operand ExpressionSlim) (*UnaryExpressionSlim, error) {
	return MakeUnary(expr.OnesComplement, operand, nil, nil)
}
func ArrayLength(array ExpressionSlim) (*UnaryExpressionSlim, error) {
	return MakeUnary(expr.ArrayLength, array, typeslim.Int, nil)
}
func Convert(operand ExpressionSlim, typ typeslim.TypeSlim) (*UnaryExpressionSlim, error) {
	return MakeUnary(expr.Convert, operand, typ, nil)
}
func ConvertChecked(operand ExpressionSlim, typ typeslim.TypeSlim) (*UnaryExpressionSlim, error) {
	return MakeUnary(expr.ConvertChecked, operand, typ, nil)
}
func TypeAs(operand ExpressionSlim, typ typeslim.TypeSlim) (*UnaryExpressionSlim, error) {
	return MakeUnary(expr.TypeAs, operand, typ, nil)
}
func Quote(lambda *LambdaExpressionSlim) (*UnaryExpressionSlim, error) {
	if lambda == nil {
		return nil, null("expression")
	}
	return MakeUnary(expr.Quote, lambda, nil, nil)
}

// Throw creates a throw of value; typ may be nil
func Throw(value ExpressionSlim, typ typeslim.TypeSlim) (*UnaryExpressionSlim, error) {
	if value == nil {
		return nil, null("value")
	}
	return MakeUnary(expr.Throw, value, typ, nil)
}

// Rethrow creates a throw without operand, valid inside a catch body
func Rethrow(typ typeslim.TypeSlim) (*UnaryExpressionSlim, error) {
	return MakeUnary(expr.Throw, nil, typ, nil)
}

func PreIncrementAssign(operand ExpressionSlim) (*UnaryExpressionSlim, error) {
	return MakeUnary(expr.PreIncrementAssign, operand, nil, nil)
}
func PostIncrementAssign(operand ExpressionSlim) (*UnaryExpressionSlim, error) {
	return MakeUnary(expr.PostIncrementAssign, operand, nil, nil)
}

// Condition creates test ? ifTrue : ifFalse; typ is optional
func Condition(test, ifTrue, ifFalse ExpressionSlim, typ typeslim.TypeSlim) (*ConditionalExpressionSlim, error) {
	if test == nil {
		return nil, null("test")
	}
	if ifTrue == nil {
		return nil, null("ifTrue")
	}
	if ifFalse == nil {
		return nil, null("ifFalse")
	}
	return &ConditionalExpressionSlim{test: test, ifTrue: ifTrue, ifFalse: ifFalse, typ: typ}, nil
}

// Constant creates a constant node; typ defaults to the type of value
func Constant(value *ObjectSlim, typ typeslim.TypeSlim) (*ConstantExpressionSlim, error) {
	if value == nil {
		return nil, null("value")
	}
	if typ == nil {
		typ = value.TypeSlim()
	}
	return &ConstantExpressionSlim{value: value, typ: typ}, nil
}

func Default(typ typeslim.TypeSlim) (*DefaultExpressionSlim, error) {
	if typ == nil {
		return nil, null("type")
	}
	return &DefaultExpressionSlim{typ: typ}, nil
}

func Parameter(typ typeslim.TypeSlim, name string) (*ParameterExpressionSlim, error) {
	if typ == nil {
		return nil, null("type")
	}
	return &ParameterExpressionSlim{typ: typ, name: name}, nil
}

// Variable creates a block variable. It is a parameter node under
// another name.
func Variable(typ typeslim.TypeSlim, name string) (*ParameterExpressionSlim, error) {
	return Parameter(typ, name)
}

// Lambda creates a function literal; typ is the optional function type
func Lambda(typ typeslim.TypeSlim, body ExpressionSlim, params ...*ParameterExpressionSlim) (*LambdaExpressionSlim, error) {
	if body == nil {
		return nil, null("body")
	}
	if err := checkElements("parameters", params); err != nil {
		return nil, err
	}
	if err := checkDistinct("lambda", params); err != nil {
		return nil, err
	}
	return &LambdaExpressionSlim{typ: typ, body: body, params: NewReadOnlyCollection(params...)}, nil
}

func checkDistinct(node string, params []*ParameterExpressionSlim) error {
	seen := make(map[*ParameterExpressionSlim]bool, len(params))
	for _, p := range params {
		if seen[p] {
			return invariant(node, "parameter %s is declared more than once", p.name)
		}
		seen[p] = true
	}
	return nil
}

// MakeMemberAccess creates a field or property read. expression may be nil
// for properties only.
func MakeMemberAccess(expression ExpressionSlim, member typeslim.MemberInfoSlim) (*MemberExpressionSlim, error) {
	if member == nil {
		return nil, null("member")
	}
	switch member.MemberType() {
	case typeslim.FieldMember:
		if expression == nil {
			return nil, null("expression")
		}
	case typeslim.PropertyMember:
	default:
		return nil, invariant("member access", "%s is not a field or property", member)
	}
	return &MemberExpressionSlim{expression: expression, member: member}, nil
}

func Field(expression ExpressionSlim, field *typeslim.FieldInfoSlim) (*MemberExpressionSlim, error) {
	if field == nil {
		return nil, null("field")
	}
	return MakeMemberAccess(expression, field)
}

func Property(expression ExpressionSlim, property *typeslim.PropertyInfoSlim) (*MemberExpressionSlim, error) {
	if property == nil {
		return nil, null("property")
	}
	return MakeMemberAccess(expression, property)
}

// Call creates a method call; object is nil for static methods
func Call(object ExpressionSlim, method typeslim.MethodInfoSlim, args ...ExpressionSlim) (*MethodCallExpressionSlim, error) {
	if method == nil {
		return nil, null("method")
	}
	if !method.IsStatic() && object == nil {
		return nil, null("instance")
	}
	if method.IsStatic() && object != nil {
		return nil, invariant("call", "static method %s called on an instance", method)
	}
	if err := checkElements("arguments", args); err != nil {
		return nil, err
	}
	return &MethodCallExpressionSlim{object: object, method: method, argStore: newArgStore(args)}, nil
}

func Invoke(expression ExpressionSlim, args ...ExpressionSlim) (*InvocationExpressionSlim, error) {
	if expression == nil {
		return nil, null("expression")
	}
	if err := checkElements("arguments", args); err != nil {
		return nil, err
	}
	return &InvocationExpressionSlim{expression: expression, argStore: newArgStore(args)}, nil
}

// New creates a constructor call
func New(ctor *typeslim.ConstructorInfoSlim, args ...ExpressionSlim) (*NewExpressionSlim, error) {
	if ctor == nil {
		return nil, null("constructor")
	}
	if err := checkElements("arguments", args); err != nil {
		return nil, err
	}
	if len(args) != len(ctor.ParameterTypes()) {
		return nil, invariant("new", "%s takes %d arguments, got %d", ctor, len(ctor.ParameterTypes()), len(args))
	}
	return &NewExpressionSlim{ctor: ctor, typ: ctor.DeclaringType(), argStore: newArgStore(args)}, nil
}

// NewValue creates the zero value of typ
func NewValue(typ typeslim.TypeSlim) (*NewExpressionSlim, error) {
	if typ == nil {
		return nil, null("type")
	}
	return &NewExpressionSlim{typ: typ}, nil
}

// MakeNewArray creates a NewArrayInit or NewArrayBounds node
func MakeNewArray(kind ExpressionType, elemType typeslim.TypeSlim, exprs ...ExpressionSlim) (*NewArrayExpressionSlim, error) {
	if kind != expr.NewArrayInit && kind != expr.NewArrayBounds {
		return nil, shape("new-array", kind)
	}
	if elemType == nil {
		return nil, null("type")
	}
	if err := checkElements("expressions", exprs); err != nil {
		return nil, err
	}
	if kind == expr.NewArrayBounds && len(exprs) == 0 {
		return nil, invariant("array bounds", "at least one bound is required")
	}
	return &NewArrayExpressionSlim{kind: kind, elemType: elemType, exprs: NewReadOnlyCollection(exprs...)}, nil
}

func NewArrayInit(elemType typeslim.TypeSlim, exprs ...ExpressionSlim) (*NewArrayExpressionSlim, error) {
	return MakeNewArray(expr.NewArrayInit, elemType, exprs...)
}

func NewArrayBounds(elemType typeslim.TypeSlim, bounds ...ExpressionSlim) (*NewArrayExpressionSlim, error) {
	return MakeNewArray(expr.NewArrayBounds, elemType, bounds...)
}

func ElementInit(addMethod typeslim.MethodInfoSlim, args ...ExpressionSlim) (*ElementInitSlim, error) {
	if addMethod == nil {
		return nil, null("addMethod")
	}
	if err := checkElements("arguments", args); err != nil {
		return nil, err
	}
	return &ElementInitSlim{addMethod: addMethod, argStore: newArgStore(args)}, nil
}

func ListInit(newExpr *NewExpressionSlim, inits ...*ElementInitSlim) (*ListInitExpressionSlim, error) {
	if newExpr == nil {
		return nil, null("newExpression")
	}
	if err := checkElements("initializers", inits); err != nil {
		return nil, err
	}
	if len(inits) == 0 {
		return nil, invariant("list initializer", "at least one initializer is required")
	}
	return &ListInitExpressionSlim{newExpr: newExpr, inits: NewReadOnlyCollection(inits...)}, nil
}

func MemberInit(newExpr *NewExpressionSlim, bindings ...MemberBindingSlim) (*MemberInitExpressionSlim, error) {
	if newExpr == nil {
		return nil, null("newExpression")
	}
	if err := checkElements("bindings", bindings); err != nil {
		return nil, err
	}
	return &MemberInitExpressionSlim{newExpr: newExpr, bindings: NewReadOnlyCollection(bindings...)}, nil
}

// Bind creates a member assignment binding
func Bind(member typeslim.MemberInfoSlim, expression ExpressionSlim) (*MemberAssignmentSlim, error) {
	if member == nil {
		return nil, null("member")
	}
	if expression == nil {
		return nil, null("expression")
	}
	return &MemberAssignmentSlim{member: member, expression: expression}, nil
}

func MemberBind(member typeslim.MemberInfoSlim, bindings ...MemberBindingSlim) (*MemberMemberBindingSlim, error) {
	if member == nil {
		return nil, null("member")
	}
	if err := checkElements("bindings", bindings); err != nil {
		return nil, err
	}
	return &MemberMemberBindingSlim{member: member, bindings: NewReadOnlyCollection(bindings...)}, nil
}

func ListBind(member typeslim.MemberInfoSlim, inits ...*ElementInitSlim) (*MemberListBindingSlim, error) {
	if member == nil {
		return nil, null("member")
	}
	if err := checkElements("initializers", inits); err != nil {
		return nil, err
	}
	return &MemberListBindingSlim{member: member, inits: NewReadOnlyCollection(inits...)}, nil
}

// MakeIndex creates an index node; indexer is nil for built-in indexing
func MakeIndex(object ExpressionSlim, indexer *typeslim.PropertyInfoSlim, args ...ExpressionSlim) (*IndexExpressionSlim, error) {
	if object == nil {
		return nil, null("instance")
	}
	if err := checkElements("arguments", args); err != nil {
		return nil, err
	}
	if len(args) == 0 {
		return nil, invariant("index", "at least one argument is required")
	}
	return &IndexExpressionSlim{object: object, indexer: indexer, argStore: newArgStore(args)}, nil
}

// Block creates a block; typ is optional and defaults to the type of the
// last expression when widened.
func Block(typ typeslim.TypeSlim, vars []*ParameterExpressionSlim, exprs ...ExpressionSlim) (*BlockExpressionSlim, error) {
	if len(exprs) == 0 {
		return nil, invariant("block", "at least one expression is required")
	}
	if err := checkElements("expressions", exprs); err != nil {
		return nil, err
	}
	if err := checkElements("variables", vars); err != nil {
		return nil, err
	}
	if err := checkDistinct("block", vars); err != nil {
		return nil, err
	}
	return &BlockExpressionSlim{typ: typ, vars: NewReadOnlyCollection(vars...), exprs: NewReadOnlyCollection(exprs...)}, nil
}

// Loop creates a loop; both labels are optional
func Loop(body ExpressionSlim, breakLabel, continueLabel *LabelTargetSlim) (*LoopExpressionSlim, error) {
	if body == nil {
		return nil, null("body")
	}
	return &LoopExpressionSlim{body: body, breakLabel: breakLabel, continueLabel: continueLabel}, nil
}

func SwitchCase(body ExpressionSlim, tests ...ExpressionSlim) (*SwitchCaseSlim, error) {
	if body == nil {
		return nil, null("body")
	}
	if len(tests) == 0 {
		return nil, invariant("switch case", "at least one test value is required")
	}
	if err := checkElements("testValues", tests); err != nil {
		return nil, err
	}
	return &SwitchCaseSlim{tests: NewReadOnlyCollection(tests...), body: body}, nil
}

// MakeSwitch creates a switch. typ, defaultBody and comparison are optional.
func MakeSwitch(typ typeslim.TypeSlim, value, defaultBody ExpressionSlim, comparison typeslim.MethodInfoSlim, cases ...*SwitchCaseSlim) (*SwitchExpressionSlim, error) {
	if value == nil {
		return nil, null("switchValue")
	}
	if err := checkElements("cases", cases); err != nil {
		return nil, err
	}
	return &SwitchExpressionSlim{
		typ:         typ,
		value:       value,
		cases:       NewReadOnlyCollection(cases...),
		defaultBody: defaultBody,
		comparison:  comparison,
	}, nil
}

// Switch creates a switch with the default comparison
func Switch(value, defaultBody ExpressionSlim, cases ...*SwitchCaseSlim) (*SwitchExpressionSlim, error) {
	return MakeSwitch(nil, value, defaultBody, nil, cases...)
}

// MakeCatchBlock creates a handler. test defaults to the variable type;
// variable and filter are optional.
func MakeCatchBlock(test typeslim.TypeSlim, variable *ParameterExpressionSlim, body, filter ExpressionSlim) (*CatchBlockSlim, error) {
	if body == nil {
		return nil, null("body")
	}
	if test == nil {
		if variable == nil {
			return nil, null("type")
		}
		test = variable.typ
	}
	return &CatchBlockSlim{test: test, variable: variable, body: body, filter: filter}, nil
}

// Catch creates a handler binding the thrown value to variable
func Catch(variable *ParameterExpressionSlim, body ExpressionSlim) (*CatchBlockSlim, error) {
	if variable == nil {
		return nil, null("variable")
	}
	return MakeCatchBlock(variable.typ, variable, body, nil)
}

// MakeTry creates a try node. Exactly one of catch handlers (with an
// optional finally), finally only, or fault only is valid.
func MakeTry(typ typeslim.TypeSlim, body, finally, fault ExpressionSlim, handlers ...*CatchBlockSlim) (*TryExpressionSlim, error) {
	if body == nil {
		return nil, null("body")
	}
	if err := checkElements("handlers", handlers); err != nil {
		return nil, err
	}
	switch {
	case fault != nil && finally != nil:
		return nil, invariant("try", "cannot have both finally and fault")
	case fault != nil && len(handlers) > 0:
		return nil, invariant("try", "cannot have both catch handlers and fault")
	case fault == nil && finally == nil && len(handlers) == 0:
		return nil, invariant("try", "must have a catch handler, finally or fault")
	}
	return &TryExpressionSlim{
		typ:      typ,
		body:     body,
		handlers: NewReadOnlyCollection(handlers...),
		finally:  finally,
		fault:    fault,
	}, nil
}

func TryCatch(body ExpressionSlim, handlers ...*CatchBlockSlim) (*TryExpressionSlim, error) {
	return MakeTry(nil, body, nil, nil, handlers...)
}

func TryFinally(body, finally ExpressionSlim) (*TryExpressionSlim, error) {
	if finally == nil {
		return nil, null("finally")
	}
	return MakeTry(nil, body, finally, nil)
}

func TryFault(body, fault ExpressionSlim) (*TryExpressionSlim, error) {
	if fault == nil {
		return nil, null("fault")
	}
	return MakeTry(nil, body, nil, fault)
}

func TryCatchFinally(body, finally ExpressionSlim, handlers ...*CatchBlockSlim) (*TryExpressionSlim, error) {
	return MakeTry(nil, body, finally, nil, handlers...)
}

// LabelTarget creates a jump target; typ may be nil for void targets
func LabelTarget(typ typeslim.TypeSlim, name string) *LabelTargetSlim {
	return &LabelTargetSlim{typ: typ, name: name}
}

func Label(target *LabelTargetSlim, defaultValue ExpressionSlim) (*LabelExpressionSlim, error) {
	if target == nil {
		return nil, null("target")
	}
	return &LabelExpressionSlim{target: target, defaultValue: defaultValue}, nil
}

// MakeGoto creates a jump. typ defaults to void; continue jumps carry no
// value and are always void.
func MakeGoto(kind GotoExpressionKind, target *LabelTargetSlim, value ExpressionSlim, typ typeslim.TypeSlim) (*GotoExpressionSlim, error) {
	if kind < expr.GotoKind || kind > expr.ContinueKind {
		return nil, shape("goto", kind)
	}
	if target == nil {
		return nil, null("target")
	}
	if kind == expr.ContinueKind {
		if value != nil {
			return nil, invariant("continue", "a continue jump carries no value")
		}
		typ = typeslim.Void
	}
	if typ == nil {
		typ = typeslim.Void
	}
	return &GotoExpressionSlim{kind: kind, target: target, value: value, typ: typ}, nil
}

func Goto(target *LabelTargetSlim, value ExpressionSlim) (*GotoExpressionSlim, error) {
	return MakeGoto(expr.GotoKind, target, value, nil)
}

func Return(target *LabelTargetSlim, value ExpressionSlim) (*GotoExpressionSlim, error) {
	return MakeGoto(expr.ReturnKind, target, value, nil)
}

func Break(target *LabelTargetSlim, value ExpressionSlim) (*GotoExpressionSlim, error) {
	return MakeGoto(expr.BreakKind, target, value, nil)
}

func Continue(target *LabelTargetSlim) (*GotoExpressionSlim, error) {
	return MakeGoto(expr.ContinueKind, target, nil, nil)
}

// MakeTypeBinary creates a TypeIs or TypeEqual node
func MakeTypeBinary(kind ExpressionType, expression ExpressionSlim, typ typeslim.TypeSlim) (*TypeBinaryExpressionSlim, error) {
	if kind != expr.TypeIs && kind != expr.TypeEqual {
		return nil, shape("type-binary", kind)
	}
	if expression == nil {
		return nil, null("expression")
	}
	if typ == nil {
		return nil, null("type")
	}
	return &TypeBinaryExpressionSlim{kind: kind, expression: expression, typeOperand: typ}, nil
}

func TypeIs(expression ExpressionSlim, typ typeslim.TypeSlim) (*TypeBinaryExpressionSlim, error) {
	return MakeTypeBinary(expr.TypeIs, expression, typ)
}

func TypeEqual(expression ExpressionSlim, typ typeslim.TypeSlim) (*TypeBinaryExpressionSlim, error) {
	return MakeTypeBinary(expr.TypeEqual, expression, typ)
}

// Factory creates slim nodes. Converters take a Factory so callers can
// substitute their own node construction.
type Factory interface {
	Binary(kind ExpressionType, left, right ExpressionSlim, liftToNull bool, method typeslim.MethodInfoSlim, conversion *LambdaExpressionSlim) (ExpressionSlim, error)
	Unary(kind ExpressionType, operand ExpressionSlim, typ typeslim.TypeSlim, method typeslim.MethodInfoSlim) (ExpressionSlim, error)
	Conditional(test, ifTrue, ifFalse ExpressionSlim, typ typeslim.TypeSlim) (ExpressionSlim, error)
	Constant(value *ObjectSlim, typ typeslim.TypeSlim) (ExpressionSlim, error)
	Default(typ typeslim.TypeSlim) (ExpressionSlim, error)
	Parameter(typ typeslim.TypeSlim, name string) (*ParameterExpressionSlim, error)
	Lambda(typ typeslim.TypeSlim, body ExpressionSlim, params []*ParameterExpressionSlim) (*LambdaExpressionSlim, error)
	MemberAccess(expression ExpressionSlim, member typeslim.MemberInfoSlim) (ExpressionSlim, error)
	Call(object ExpressionSlim, method typeslim.MethodInfoSlim, args []ExpressionSlim) (ExpressionSlim, error)
	Invoke(expression ExpressionSlim, args []ExpressionSlim) (ExpressionSlim, error)
	New(ctor *typeslim.ConstructorInfoSlim, args []ExpressionSlim) (*NewExpressionSlim, error)
	NewValue(typ typeslim.TypeSlim) (*NewExpressionSlim, error)
	NewArray(kind ExpressionType, elemType typeslim.TypeSlim, exprs []ExpressionSlim) (ExpressionSlim, error)
	ElementInit(addMethod typeslim.MethodInfoSlim, args []ExpressionSlim) (*ElementInitSlim, error)
	ListInit(newExpr *NewExpressionSlim, inits []*ElementInitSlim) (ExpressionSlim, error)
	MemberInit(newExpr *NewExpressionSlim, bindings []MemberBindingSlim) (ExpressionSlim, error)
	MemberAssignment(member typeslim.MemberInfoSlim, expression ExpressionSlim) (MemberBindingSlim, error)
	MemberMemberBinding(member typeslim.MemberInfoSlim, bindings []MemberBindingSlim) (MemberBindingSlim, error)
	MemberListBinding(member typeslim.MemberInfoSlim, inits []*ElementInitSlim) (MemberBindingSlim, error)
	Index(object ExpressionSlim, indexer *typeslim.PropertyInfoSlim, args []ExpressionSlim) (ExpressionSlim, error)
	Block(typ typeslim.TypeSlim, vars []*ParameterExpressionSlim, exprs []ExpressionSlim) (ExpressionSlim, error)
	LabelTarget(typ typeslim.TypeSlim, name string) (*LabelTargetSlim, error)
	Label(target *LabelTargetSlim, defaultValue ExpressionSlim) (ExpressionSlim, error)
	Goto(kind GotoExpressionKind, target *LabelTargetSlim, value ExpressionSlim, typ typeslim.TypeSlim) (ExpressionSlim, error)
	Loop(body ExpressionSlim, breakLabel, continueLabel *LabelTargetSlim) (ExpressionSlim, error)
	SwitchCase(body ExpressionSlim, tests []ExpressionSlim) (*SwitchCaseSlim, error)
	Switch(typ typeslim.TypeSlim, value, defaultBody ExpressionSlim, comparison typeslim.MethodInfoSlim, cases []*SwitchCaseSlim) (ExpressionSlim, error)
	CatchBlock(test typeslim.TypeSlim, variable *ParameterExpressionSlim, body, filter ExpressionSlim) (*CatchBlockSlim, error)
	Try(typ typeslim.TypeSlim, body, finally, fault ExpressionSlim, handlers []*CatchBlockSlim) (ExpressionSlim, error)
	TypeBinary(kind ExpressionType, expression ExpressionSlim, typ typeslim.TypeSlim) (ExpressionSlim, error)
}

// DefaultFactory builds the nodes of this package
type DefaultFactory struct{}

var _ Factory = DefaultFactory{}

// node converts a concrete constructor result to the interface without
// turning a failed nil pointer into a non-nil interface.
func node[T ExpressionSlim](n T, err error) (ExpressionSlim, error) {
	if err != nil {
		return nil, err
	}
	return n, nil
}

func binding[T MemberBindingSlim](b T, err error) (MemberBindingSlim, error) {
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (DefaultFactory) Binary(kind ExpressionType, left, right ExpressionSlim, liftToNull bool, method typeslim.MethodInfoSlim, conversion *LambdaExpressionSlim) (ExpressionSlim, error) {
	return node(MakeBinary(kind, left, right, liftToNull, method, conversion))
}

func (DefaultFactory) Unary(kind ExpressionType, operand ExpressionSlim, typ typeslim.TypeSlim, method typeslim.MethodInfoSlim) (ExpressionSlim, error) {
	return node(MakeUnary(kind, operand, typ, method))
}

func (DefaultFactory) Conditional(test, ifTrue, ifFalse ExpressionSlim, typ typeslim.TypeSlim) (ExpressionSlim, error) {
	return node(Condition(test, ifTrue, ifFalse, typ))
}

func (DefaultFactory) Constant(value *ObjectSlim, typ typeslim.TypeSlim) (ExpressionSlim, error) {
	return node(Constant(value, typ))
}

func (DefaultFactory) Default(typ typeslim.TypeSlim) (ExpressionSlim, error) {
	return node(Default(typ))
}

func (DefaultFactory) Parameter(typ typeslim.TypeSlim, name string) (*ParameterExpressionSlim, error) {
	return Parameter(typ, name)
}

func (DefaultFactory) Lambda(typ typeslim.TypeSlim, body ExpressionSlim, params []*ParameterExpressionSlim) (*LambdaExpressionSlim, error) {
	return Lambda(typ, body, params...)
}

func (DefaultFactory) MemberAccess(expression ExpressionSlim, member typeslim.MemberInfoSlim) (ExpressionSlim, error) {
	return node(MakeMemberAccess(expression, member))
}

func (DefaultFactory) Call(object ExpressionSlim, method typeslim.MethodInfoSlim, args []ExpressionSlim) (ExpressionSlim, error) {
	return node(Call(object, method, args...))
}

func (DefaultFactory) Invoke(expression ExpressionSlim, args []ExpressionSlim) (ExpressionSlim, error) {
	return node(Invoke(expression, args...))
}

func (DefaultFactory) New(ctor *typeslim.ConstructorInfoSlim, args []ExpressionSlim) (*NewExpressionSlim, error) {
	return New(ctor, args...)
}

func (DefaultFactory) NewValue(typ typeslim.TypeSlim) (*NewExpressionSlim, error) {
	return NewValue(typ)
}

func (DefaultFactory) NewArray(kind ExpressionType, elemType typeslim.TypeSlim, exprs []ExpressionSlim) (ExpressionSlim, error) {
	return node(MakeNewArray(kind, elemType, exprs...))
}

func (DefaultFactory) ElementInit(addMethod typeslim.MethodInfoSlim, args []ExpressionSlim) (*ElementInitSlim, error) {
	return ElementInit(addMethod, args...)
}

func (DefaultFactory) ListInit(newExpr *NewExpressionSlim, inits []*ElementInitSlim) (ExpressionSlim, error) {
	return node(ListInit(newExpr, inits...))
}

func (DefaultFactory) MemberInit(newExpr *NewExpressionSlim, bindings []MemberBindingSlim) (ExpressionSlim, error) {
	return node(MemberInit(newExpr, bindings...))
}

func (DefaultFactory) MemberAssignment(member typeslim.MemberInfoSlim, expression ExpressionSlim) (MemberBindingSlim, error) {
	return binding(Bind(member, expression))
}

func (DefaultFactory) MemberMemberBinding(member typeslim.MemberInfoSlim, bindings []MemberBindingSlim) (MemberBindingSlim, error) {
	return binding(MemberBind(member, bindings...))
}

func (DefaultFactory) MemberListBinding(member typeslim.MemberInfoSlim, inits []*ElementInitSlim) (MemberBindingSlim, error) {
	return binding(ListBind(member, inits...))
}

func (DefaultFactory) Index(object ExpressionSlim, indexer *typeslim.PropertyInfoSlim, args []ExpressionSlim) (ExpressionSlim, error) {
	return node(MakeIndex(object, indexer, args...))
}

func (DefaultFactory) Block(typ typeslim.TypeSlim, vars []*ParameterExpressionSlim, exprs []ExpressionSlim) (ExpressionSlim, error) {
	return node(Block(typ, vars, exprs...))
}

func (DefaultFactory) LabelTarget(typ typeslim.TypeSlim, name string) (*LabelTargetSlim, error) {
	return LabelTarget(typ, name), nil
}

func (DefaultFactory) Label(target *LabelTargetSlim, defaultValue ExpressionSlim) (ExpressionSlim, error) {
	return node(Label(target, defaultValue))
}

func (DefaultFactory) Goto(kind GotoExpressionKind, target *LabelTargetSlim, value ExpressionSlim, typ typeslim.TypeSlim) (ExpressionSlim, error) {
	return node(MakeGoto(kind, target, value, typ))
}

func (DefaultFactory) Loop(body ExpressionSlim, breakLabel, continueLabel *LabelTargetSlim) (ExpressionSlim, error) {
	return node(Loop(body, breakLabel, continueLabel))
}

func (DefaultFactory) SwitchCase(body ExpressionSlim, tests []ExpressionSlim) (*SwitchCaseSlim, error) {
	return SwitchCase(body, tests...)
}

func (DefaultFactory) Switch(typ typeslim.TypeSlim, value, defaultBody ExpressionSlim, comparison typeslim.MethodInfoSlim, cases []*SwitchCaseSlim) (ExpressionSlim, error) {
	return node(MakeSwitch(typ, value, defaultBody, comparison, cases...))
}

func (DefaultFactory) CatchBlock(test typeslim.TypeSlim, variable *ParameterExpressionSlim, body, filter ExpressionSlim) (*CatchBlockSlim, error) {
	return MakeCatchBlock(test, variable, body, filter)
}

func (DefaultFactory) Try(typ typeslim.TypeSlim, body, finally, fault ExpressionSlim, handlers []*CatchBlockSlim) (ExpressionSlim, error) {
	return node(MakeTry(typ, body, finally, fault, handlers...))
}

func (DefaultFactory) TypeBinary(kind ExpressionType, expression ExpressionSlim, typ typeslim.TypeSlim) (ExpressionSlim, error) {
	return node(MakeTypeBinary(kind, expression, typ))
}
