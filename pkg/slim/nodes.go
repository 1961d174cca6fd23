// Package slim implements portable expression trees. Slim nodes mirror the
// native nodes of package expr but reference only typeslim descriptors and
// ObjectSlim constants, so a tree can be moved between runtimes.
//
// Nodes are immutable. Every node with children has an Update method that
// returns the receiver when given the children it already holds, compared
// by identity, and a new node otherwise.
package slim

import (
	"github.com/raymyers/slimexpr/pkg/expr"
	"github.com/raymyers/slimexpr/pkg/typeslim"
)

// ExpressionType is the node kind enum shared with native trees
type (
	ExpressionType     = expr.ExpressionType
	GotoExpressionKind = expr.GotoExpressionKind
	MemberBindingType  = expr.MemberBindingType
)

// ExpressionSlim is the interface for all slim nodes
type ExpressionSlim interface {
	NodeType() ExpressionType
	String() string
	implExpressionSlim()
}

// ExtensionSlim is a custom node kind. Implementations embed ExtensionNode
// and are visited through VisitChildren.
type ExtensionSlim interface {
	ExpressionSlim
	Type() typeslim.TypeSlim
	VisitChildren(v Visitor) (ExpressionSlim, error)
}

// ExtensionNode supplies the node kind of extension nodes
type ExtensionNode struct{}

func (ExtensionNode) NodeType() ExpressionType { return expr.Extension }
func (ExtensionNode) implExpressionSlim()      {}

type BinaryExpressionSlim struct {
	kind       ExpressionType
	left       ExpressionSlim
	right      ExpressionSlim
	method     typeslim.MethodInfoSlim
	conversion *LambdaExpressionSlim
	liftToNull bool
}

func (n *BinaryExpressionSlim) NodeType() ExpressionType          { return n.kind }
func (n *BinaryExpressionSlim) Left() ExpressionSlim              { return n.left }
func (n *BinaryExpressionSlim) Right() ExpressionSlim             { return n.right }
func (n *BinaryExpressionSlim) Method() typeslim.MethodInfoSlim   { return n.method }
func (n *BinaryExpressionSlim) Conversion() *LambdaExpressionSlim { return n.conversion }
func (n *BinaryExpressionSlim) IsLiftedToNull() bool              { return n.liftToNull }
func (n *BinaryExpressionSlim) Update(left, right ExpressionSlim, conversion *LambdaExpressionSlim) (*BinaryExpressionSlim, error) {
	if left == n.left && right == n.right && conversion == n.conversion {
		return n, nil
	}
	return MakeBinary(n.kind, left, right, n.liftToNull, n.method, conversion)
}

// UnaryExpressionSlim has a nil operand only for rethrow
type UnaryExpressionSlim struct {
	kind    ExpressionType
	operand ExpressionSlim
	typ     typeslim.TypeSlim
	method  typeslim.MethodInfoSlim
}

func (n *UnaryExpressionSlim) NodeType() ExpressionType        { return n.kind }
func (n *UnaryExpressionSlim) Operand() ExpressionSlim         { return n.operand }
func (n *UnaryExpressionSlim) Type() typeslim.TypeSlim         { return n.typ }
func (n *UnaryExpressionSlim) Method() typeslim.MethodInfoSlim { return n.method }
func (n *UnaryExpressionSlim) Update(operand ExpressionSlim) (*UnaryExpressionSlim, error) {
	if operand == n.operand {
		return n, nil
	}
	return MakeUnary(n.kind, operand, n.typ, n.method)
}

type ConditionalExpressionSlim struct {
	test, ifTrue, ifFalse ExpressionSlim
	typ                   typeslim.TypeSlim
}

func (n *ConditionalExpressionSlim) NodeType() ExpressionType { return expr.Conditional }
func (n *ConditionalExpressionSlim) Test() ExpressionSlim     { return n.test }
func (n *ConditionalExpressionSlim) IfTrue() ExpressionSlim   { return n.ifTrue }
func (n *ConditionalExpressionSlim) IfFalse() ExpressionSlim  { return n.ifFalse }
func (n *ConditionalExpressionSlim) Type() typeslim.TypeSlim  { return n.typ }
func (n *ConditionalExpressionSlim) Update(test, ifTrue, ifFalse ExpressionSlim) (*ConditionalExpressionSlim, error) {
	if test == n.test && ifTrue == n.ifTrue && ifFalse == n.ifFalse {
		return n, nil
	}
	return Condition(test, ifTrue, ifFalse, n.typ)
}

type ConstantExpressionSlim struct {
	value *ObjectSlim
	typ   typeslim.TypeSlim
}

func (n *ConstantExpressionSlim) NodeType() ExpressionType { return expr.Constant }
func (n *ConstantExpressionSlim) Value() *ObjectSlim       { return n.value }
func (n *ConstantExpressionSlim) Type() typeslim.TypeSlim  { return n.typ }

type DefaultExpressionSlim struct {
	typ typeslim.TypeSlim
}

func (n *DefaultExpressionSlim) NodeType() ExpressionType { return expr.Default }
func (n *DefaultExpressionSlim) Type() typeslim.TypeSlim  { return n.typ }

// ParameterExpressionSlim is a lambda parameter or block variable.
// Parameters are compared by identity.
type ParameterExpressionSlim struct {
	typ  typeslim.TypeSlim
	name string
}

func (n *ParameterExpressionSlim) NodeType() ExpressionType { return expr.Parameter }
func (n *ParameterExpressionSlim) Type() typeslim.TypeSlim  { return n.typ }
func (n *ParameterExpressionSlim) Name() string             { return n.name }

// LambdaExpressionSlim is a function literal. The function type is optional.
type LambdaExpressionSlim struct {
	typ    typeslim.TypeSlim
	body   ExpressionSlim
	params *ReadOnlyCollection[*ParameterExpressionSlim]
}

func (n *LambdaExpressionSlim) NodeType() ExpressionType { return expr.Lambda }
func (n *LambdaExpressionSlim) Type() typeslim.TypeSlim  { return n.typ }
func (n *LambdaExpressionSlim) Body() ExpressionSlim     { return n.body }
func (n *LambdaExpressionSlim) Parameters() *ReadOnlyCollection[*ParameterExpressionSlim] {
	return n.params
}
func (n *LambdaExpressionSlim) Update(body ExpressionSlim, params *ReadOnlyCollection[*ParameterExpressionSlim]) (*LambdaExpressionSlim, error) {
	if body == n.body && sameCollection(n.params, params) {
		return n, nil
	}
	return Lambda(n.typ, body, params.Slice()...)
}

// MemberExpressionSlim reads a field or property; Expression is nil for
// static members.
type MemberExpressionSlim struct {
	expression ExpressionSlim
	member     typeslim.MemberInfoSlim
}

func (n *MemberExpressionSlim) NodeType() ExpressionType        { return expr.MemberAccess }
func (n *MemberExpressionSlim) Expression() ExpressionSlim      { return n.expression }
func (n *MemberExpressionSlim) Member() typeslim.MemberInfoSlim { return n.member }
func (n *MemberExpressionSlim) Update(expression ExpressionSlim) (*MemberExpressionSlim, error) {
	if expression == n.expression {
		return n, nil
	}
	return MakeMemberAccess(expression, n.member)
}

// MethodCallExpressionSlim calls a method; Object is nil for static calls
type MethodCallExpressionSlim struct {
	object ExpressionSlim
	method typeslim.MethodInfoSlim
	argStore
}

func (n *MethodCallExpressionSlim) NodeType() ExpressionType        { return expr.Call }
func (n *MethodCallExpressionSlim) Object() ExpressionSlim          { return n.object }
func (n *MethodCallExpressionSlim) Method() typeslim.MethodInfoSlim { return n.method }
func (n *MethodCallExpressionSlim) Arguments() *ListArgumentProviderSlim {
	return &ListArgumentProviderSlim{provider: n}
}
func (n *MethodCallExpressionSlim) Update(object ExpressionSlim, args []ExpressionSlim) (*MethodCallExpressionSlim, error) {
	if object == n.object && n.same(args) {
		return n, nil
	}
	return Call(object, n.method, args...)
}

type InvocationExpressionSlim struct {
	expression ExpressionSlim
	argStore
}

func (n *InvocationExpressionSlim) NodeType() ExpressionType   { return expr.Invoke }
func (n *InvocationExpressionSlim) Expression() ExpressionSlim { return n.expression }
func (n *InvocationExpressionSlim) Arguments() *ListArgumentProviderSlim {
	return &ListArgumentProviderSlim{provider: n}
}
func (n *InvocationExpressionSlim) Update(expression ExpressionSlim, args []ExpressionSlim) (*InvocationExpressionSlim, error) {
	if expression == n.expression && n.same(args) {
		return n, nil
	}
	return Invoke(expression, args...)
}

// NewExpressionSlim constructs a value through Constructor, or as the zero
// value of Type when Constructor is nil.
type NewExpressionSlim struct {
	ctor *typeslim.ConstructorInfoSlim
	typ  typeslim.TypeSlim
	argStore
}

func (n *NewExpressionSlim) NodeType() ExpressionType                   { return expr.New }
func (n *NewExpressionSlim) Constructor() *typeslim.ConstructorInfoSlim { return n.ctor }
func (n *NewExpressionSlim) Type() typeslim.TypeSlim                    { return n.typ }
func (n *NewExpressionSlim) Arguments() *ListArgumentProviderSlim {
	return &ListArgumentProviderSlim{provider: n}
}
func (n *NewExpressionSlim) Update(args []ExpressionSlim) (*NewExpressionSlim, error) {
	if n.same(args) {
		return n, nil
	}
	if n.ctor == nil {
		if len(args) != 0 {
			return nil, invariant("new", "value construction of %s takes no arguments", n.typ)
		}
		return NewValue(n.typ)
	}
	return New(n.ctor, args...)
}

// NewArrayExpressionSlim is NewArrayInit (elements) or NewArrayBounds
// (lengths).
type NewArrayExpressionSlim struct {
	kind     ExpressionType
	elemType typeslim.TypeSlim
	exprs    *ReadOnlyCollection[ExpressionSlim]
}

func (n *NewArrayExpressionSlim) NodeType() ExpressionType       { return n.kind }
func (n *NewArrayExpressionSlim) ElementType() typeslim.TypeSlim { return n.elemType }
func (n *NewArrayExpressionSlim) Expressions() *ReadOnlyCollection[ExpressionSlim] {
	return n.exprs
}
func (n *NewArrayExpressionSlim) Update(exprs *ReadOnlyCollection[ExpressionSlim]) (*NewArrayExpressionSlim, error) {
	if sameCollection(n.exprs, exprs) {
		return n, nil
	}
	return MakeNewArray(n.kind, n.elemType, exprs.Slice()...)
}

// ElementInitSlim is one Add call of a list initializer
type ElementInitSlim struct {
	addMethod typeslim.MethodInfoSlim
	argStore
}

func (n *ElementInitSlim) AddMethod() typeslim.MethodInfoSlim { return n.addMethod }
func (n *ElementInitSlim) Arguments() *ListArgumentProviderSlim {
	return &ListArgumentProviderSlim{provider: n}
}
func (n *ElementInitSlim) Update(args []ExpressionSlim) (*ElementInitSlim, error) {
	if n.same(args) {
		return n, nil
	}
	return ElementInit(n.addMethod, args...)
}

type ListInitExpressionSlim struct {
	newExpr *NewExpressionSlim
	inits   *ReadOnlyCollection[*ElementInitSlim]
}

func (n *ListInitExpressionSlim) NodeType() ExpressionType          { return expr.ListInit }
func (n *ListInitExpressionSlim) NewExpression() *NewExpressionSlim { return n.newExpr }
func (n *ListInitExpressionSlim) Initializers() *ReadOnlyCollection[*ElementInitSlim] {
	return n.inits
}
func (n *ListInitExpressionSlim) Update(newExpr *NewExpressionSlim, inits *ReadOnlyCollection[*ElementInitSlim]) (*ListInitExpressionSlim, error) {
	if newExpr == n.newExpr && sameCollection(n.inits, inits) {
		return n, nil
	}
	return ListInit(newExpr, inits.Slice()...)
}

type MemberInitExpressionSlim struct {
	newExpr  *NewExpressionSlim
	bindings *ReadOnlyCollection[MemberBindingSlim]
}

func (n *MemberInitExpressionSlim) NodeType() ExpressionType          { return expr.MemberInit }
func (n *MemberInitExpressionSlim) NewExpression() *NewExpressionSlim { return n.newExpr }
func (n *MemberInitExpressionSlim) Bindings() *ReadOnlyCollection[MemberBindingSlim] {
	return n.bindings
}
func (n *MemberInitExpressionSlim) Update(newExpr *NewExpressionSlim, bindings *ReadOnlyCollection[MemberBindingSlim]) (*MemberInitExpressionSlim, error) {
	if newExpr == n.newExpr && sameCollection(n.bindings, bindings) {
		return n, nil
	}
	return MemberInit(newExpr, bindings.Slice()...)
}

// MemberBindingSlim is one binding of a member initializer
type MemberBindingSlim interface {
	BindingType() MemberBindingType
	Member() typeslim.MemberInfoSlim
	String() string
	implMemberBinding()
}

type MemberAssignmentSlim struct {
	member     typeslim.MemberInfoSlim
	expression ExpressionSlim
}

func (b *MemberAssignmentSlim) BindingType() MemberBindingType  { return expr.AssignmentBinding }
func (b *MemberAssignmentSlim) Member() typeslim.MemberInfoSlim { return b.member }
func (b *MemberAssignmentSlim) Expression() ExpressionSlim      { return b.expression }
func (b *MemberAssignmentSlim) Update(expression ExpressionSlim) (*MemberAssignmentSlim, error) {
	if expression == b.expression {
		return b, nil
	}
	return Bind(b.member, expression)
}

type MemberMemberBindingSlim struct {
	member   typeslim.MemberInfoSlim
	bindings *ReadOnlyCollection[MemberBindingSlim]
}

func (b *MemberMemberBindingSlim) BindingType() MemberBindingType  { return expr.MemberBindingKind }
func (b *MemberMemberBindingSlim) Member() typeslim.MemberInfoSlim { return b.member }
func (b *MemberMemberBindingSlim) Bindings() *ReadOnlyCollection[MemberBindingSlim] {
	return b.bindings
}
func (b *MemberMemberBindingSlim) Update(bindings *ReadOnlyCollection[MemberBindingSlim]) (*MemberMemberBindingSlim, error) {
	if sameCollection(b.bindings, bindings) {
		return b, nil
	}
	return MemberBind(b.member, bindings.Slice()...)
}

type MemberListBindingSlim struct {
	member typeslim.MemberInfoSlim
	inits  *ReadOnlyCollection[*ElementInitSlim]
}

func (b *MemberListBindingSlim) BindingType() MemberBindingType  { return expr.ListBindingKind }
func (b *MemberListBindingSlim) Member() typeslim.MemberInfoSlim { return b.member }
func (b *MemberListBindingSlim) Initializers() *ReadOnlyCollection[*ElementInitSlim] {
	return b.inits
}
func (b *MemberListBindingSlim) Update(inits *ReadOnlyCollection[*ElementInitSlim]) (*MemberListBindingSlim, error) {
	if sameCollection(b.inits, inits) {
		return b, nil
	}
	return ListBind(b.member, inits.Slice()...)
}

// IndexExpressionSlim indexes Object; Indexer is nil for built-in indexing
// of slices, arrays, maps and strings.
type IndexExpressionSlim struct {
	object  ExpressionSlim
	indexer *typeslim.PropertyInfoSlim
	argStore
}

func (n *IndexExpressionSlim) NodeType() ExpressionType            { return expr.Index }
func (n *IndexExpressionSlim) Object() ExpressionSlim              { return n.object }
func (n *IndexExpressionSlim) Indexer() *typeslim.PropertyInfoSlim { return n.indexer }
func (n *IndexExpressionSlim) Arguments() *ListArgumentProviderSlim {
	return &ListArgumentProviderSlim{provider: n}
}
func (n *IndexExpressionSlim) Update(object ExpressionSlim, args []ExpressionSlim) (*IndexExpressionSlim, error) {
	if object == n.object && n.same(args) {
		return n, nil
	}
	return MakeIndex(object, n.indexer, args...)
}

type BlockExpressionSlim struct {
	typ   typeslim.TypeSlim
	vars  *ReadOnlyCollection[*ParameterExpressionSlim]
	exprs *ReadOnlyCollection[ExpressionSlim]
}

func (n *BlockExpressionSlim) NodeType() ExpressionType { return expr.Block }
func (n *BlockExpressionSlim) Type() typeslim.TypeSlim  { return n.typ }
func (n *BlockExpressionSlim) Variables() *ReadOnlyCollection[*ParameterExpressionSlim] {
	return n.vars
}
func (n *BlockExpressionSlim) Expressions() *ReadOnlyCollection[ExpressionSlim] { return n.exprs }

// Result is the last expression, whose value is the block's value
func (n *BlockExpressionSlim) Result() ExpressionSlim { return n.exprs.At(n.exprs.Count() - 1) }

func (n *BlockExpressionSlim) Update(vars *ReadOnlyCollection[*ParameterExpressionSlim], exprs *ReadOnlyCollection[ExpressionSlim]) (*BlockExpressionSlim, error) {
	if sameCollection(n.vars, vars) && sameCollection(n.exprs, exprs) {
		return n, nil
	}
	return Block(n.typ, vars.Slice(), exprs.Slice()...)
}

type LoopExpressionSlim struct {
	body          ExpressionSlim
	breakLabel    *LabelTargetSlim
	continueLabel *LabelTargetSlim
}

func (n *LoopExpressionSlim) NodeType() ExpressionType        { return expr.Loop }
func (n *LoopExpressionSlim) Body() ExpressionSlim            { return n.body }
func (n *LoopExpressionSlim) BreakLabel() *LabelTargetSlim    { return n.breakLabel }
func (n *LoopExpressionSlim) ContinueLabel() *LabelTargetSlim { return n.continueLabel }
func (n *LoopExpressionSlim) Update(breakLabel, continueLabel *LabelTargetSlim, body ExpressionSlim) (*LoopExpressionSlim, error) {
	if breakLabel == n.breakLabel && continueLabel == n.continueLabel && body == n.body {
		return n, nil
	}
	return Loop(body, breakLabel, continueLabel)
}

type SwitchCaseSlim struct {
	tests *ReadOnlyCollection[ExpressionSlim]
	body  ExpressionSlim
}

func (c *SwitchCaseSlim) TestValues() *ReadOnlyCollection[ExpressionSlim] { return c.tests }
func (c *SwitchCaseSlim) Body() ExpressionSlim                            { return c.body }
func (c *SwitchCaseSlim) Update(tests *ReadOnlyCollection[ExpressionSlim], body ExpressionSlim) (*SwitchCaseSlim, error) {
	if sameCollection(c.tests, tests) && body == c.body {
		return c, nil
	}
	return SwitchCase(body, tests.Slice()...)
}

type SwitchExpressionSlim struct {
	typ         typeslim.TypeSlim
	value       ExpressionSlim
	cases       *ReadOnlyCollection[*SwitchCaseSlim]
	defaultBody ExpressionSlim
	comparison  typeslim.MethodInfoSlim
}

func (n *SwitchExpressionSlim) NodeType() ExpressionType                    { return expr.Switch }
func (n *SwitchExpressionSlim) Type() typeslim.TypeSlim                     { return n.typ }
func (n *SwitchExpressionSlim) SwitchValue() ExpressionSlim                 { return n.value }
func (n *SwitchExpressionSlim) Cases() *ReadOnlyCollection[*SwitchCaseSlim] { return n.cases }
func (n *SwitchExpressionSlim) DefaultBody() ExpressionSlim                 { return n.defaultBody }
func (n *SwitchExpressionSlim) Comparison() typeslim.MethodInfoSlim         { return n.comparison }
func (n *SwitchExpressionSlim) Update(value ExpressionSlim, cases *ReadOnlyCollection[*SwitchCaseSlim], defaultBody ExpressionSlim) (*SwitchExpressionSlim, error) {
	if value == n.value && sameCollection(n.cases, cases) && defaultBody == n.defaultBody {
		return n, nil
	}
	return MakeSwitch(n.typ, value, defaultBody, n.comparison, cases.Slice()...)
}

// CatchBlockSlim handles thrown values of type Test. Variable and Filter
// are optional.
type CatchBlockSlim struct {
	test     typeslim.TypeSlim
	variable *ParameterExpressionSlim
	body     ExpressionSlim
	filter   ExpressionSlim
}

func (c *CatchBlockSlim) Test() typeslim.TypeSlim            { return c.test }
func (c *CatchBlockSlim) Variable() *ParameterExpressionSlim { return c.variable }
func (c *CatchBlockSlim) Body() ExpressionSlim               { return c.body }
func (c *CatchBlockSlim) Filter() ExpressionSlim             { return c.filter }
func (c *CatchBlockSlim) Update(variable *ParameterExpressionSlim, filter, body ExpressionSlim) (*CatchBlockSlim, error) {
	if variable == c.variable && filter == c.filter && body == c.body {
		return c, nil
	}
	return MakeCatchBlock(c.test, variable, body, filter)
}

type TryExpressionSlim struct {
	typ      typeslim.TypeSlim
	body     ExpressionSlim
	handlers *ReadOnlyCollection[*CatchBlockSlim]
	finally  ExpressionSlim
	fault    ExpressionSlim
}

func (n *TryExpressionSlim) NodeType() ExpressionType                       { return expr.Try }
func (n *TryExpressionSlim) Type() typeslim.TypeSlim                        { return n.typ }
func (n *TryExpressionSlim) Body() ExpressionSlim                           { return n.body }
func (n *TryExpressionSlim) Handlers() *ReadOnlyCollection[*CatchBlockSlim] { return n.handlers }
func (n *TryExpressionSlim) Finally() ExpressionSlim                        { return n.finally }
func (n *TryExpressionSlim) Fault() ExpressionSlim                          { return n.fault }
func (n *TryExpressionSlim) Update(body ExpressionSlim, handlers *ReadOnlyCollection[*CatchBlockSlim], finally, fault ExpressionSlim) (*TryExpressionSlim, error) {
	if body == n.body && sameCollection(n.handlers, handlers) && finally == n.finally && fault == n.fault {
		return n, nil
	}
	return MakeTry(n.typ, body, finally, fault, handlers.Slice()...)
}

// LabelTargetSlim identifies a jump destination. Targets are compared by
// identity; the type is nil for untyped targets.
type LabelTargetSlim struct {
	typ  typeslim.TypeSlim
	name string
}

func (t *LabelTargetSlim) Type() typeslim.TypeSlim { return t.typ }
func (t *LabelTargetSlim) Name() string            { return t.name }

type GotoExpressionSlim struct {
	kind   GotoExpressionKind
	target *LabelTargetSlim
	value  ExpressionSlim
	typ    typeslim.TypeSlim
}

func (n *GotoExpressionSlim) NodeType() ExpressionType { return expr.Goto }
func (n *GotoExpressionSlim) Kind() GotoExpressionKind { return n.kind }
func (n *GotoExpressionSlim) Target() *LabelTargetSlim { return n.target }
func (n *GotoExpressionSlim) Value() ExpressionSlim    { return n.value }
func (n *GotoExpressionSlim) Type() typeslim.TypeSlim  { return n.typ }
func (n *GotoExpressionSlim) Update(target *LabelTargetSlim, value ExpressionSlim) (*GotoExpressionSlim, error) {
	if target == n.target && value == n.value {
		return n, nil
	}
	return MakeGoto(n.kind, target, value, n.typ)
}

type LabelExpressionSlim struct {
	target       *LabelTargetSlim
	defaultValue ExpressionSlim
}

func (n *LabelExpressionSlim) NodeType() ExpressionType     { return expr.Label }
func (n *LabelExpressionSlim) Target() *LabelTargetSlim     { return n.target }
func (n *LabelExpressionSlim) DefaultValue() ExpressionSlim { return n.defaultValue }
func (n *LabelExpressionSlim) Update(target *LabelTargetSlim, defaultValue ExpressionSlim) (*LabelExpressionSlim, error) {
	if target == n.target && defaultValue == n.defaultValue {
		return n, nil
	}
	return Label(target, defaultValue)
}

type TypeBinaryExpressionSlim struct {
	kind        ExpressionType
	expression  ExpressionSlim
	typeOperand typeslim.TypeSlim
}

func (n *TypeBinaryExpressionSlim) NodeType() ExpressionType       { return n.kind }
func (n *TypeBinaryExpressionSlim) Expression() ExpressionSlim     { return n.expression }
func (n *TypeBinaryExpressionSlim) TypeOperand() typeslim.TypeSlim { return n.typeOperand }
func (n *TypeBinaryExpressionSlim) Update(expression ExpressionSlim) (*TypeBinaryExpressionSlim, error) {
	if expression == n.expression {
		return n, nil
	}
	return MakeTypeBinary(n.kind, expression, n.typeOperand)
}

func (*BinaryExpressionSlim) implExpressionSlim()      {}
func (*UnaryExpressionSlim) implExpressionSlim()       {}
func (*ConditionalExpressionSlim) implExpressionSlim() {}
func (*ConstantExpressionSlim) implExpressionSlim()    {}
func (*DefaultExpressionSlim) implExpressionSlim()     {}
func (*ParameterExpressionSlim) implExpressionSlim()   {}
func (*LambdaExpressionSlim) implExpressionSlim()      {}
func (*MemberExpressionSlim) implExpressionSlim()      {}
func (*MethodCallExpressionSlim) implExpressionSlim()  {}
func (*InvocationExpressionSlim) implExpressionSlim()  {}
func (*NewExpressionSlim) implExpressionSlim()         {}
func (*NewArrayExpressionSlim) implExpressionSlim()    {}
func (*ListInitExpressionSlim) implExpressionSlim()    {}
func (*MemberInitExpressionSlim) implExpressionSlim()  {}
func (*IndexExpressionSlim) implExpressionSlim()       {}
func (*BlockExpressionSlim) implExpressionSlim()       {}
func (*LoopExpressionSlim) implExpressionSlim()        {}
func (*SwitchExpressionSlim) implExpressionSlim()      {}
func (*TryExpressionSlim) implExpressionSlim()         {}
func (*GotoExpressionSlim) implExpressionSlim()        {}
func (*LabelExpressionSlim) implExpressionSlim()       {}
func (*TypeBinaryExpressionSlim) implExpressionSlim()  {}

func (*MemberAssignmentSlim) implMemberBinding()    {}
func (*MemberMemberBindingSlim) implMemberBinding() {}
func (*MemberListBindingSlim) implMemberBinding()   {}
