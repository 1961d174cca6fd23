// Package expr defines the native expression tree: an executable IR whose
// nodes hold live runtime handles (reflect.Type, function values, struct
// fields and concrete Go values). Slim trees are converted to and from it.
package expr

import (
	"reflect"

	"github.com/raymyers/slimexpr/pkg/typeslim"
)

// VoidType is the type of nodes that produce no value
var VoidType = typeslim.VoidType

// Expr is the interface for native expression nodes
type Expr interface {
	NodeType() ExpressionType
	Type() reflect.Type
	implExpr()
}

// Expressible is implemented by anything carrying an expression
// representation, e.g. a remote query handle. The runtime narrows the tree
// before transmission and widens it on the receiving side.
type Expressible interface {
	Expression() Expr
}

// BinaryExpr is an operator with two operands
type BinaryExpr struct {
	Kind       ExpressionType
	Left       Expr
	Right      Expr
	Method     *Method     // user-defined operator, optional
	Conversion *LambdaExpr // coalesce conversion, optional
	LiftToNull bool
	T          reflect.Type
}

// UnaryExpr is an operator with one operand; Operand is nil for rethrow
type UnaryExpr struct {
	Kind    ExpressionType
	Operand Expr
	Method  *Method
	T       reflect.Type
}

// ConditionalExpr is test ? ifTrue : ifFalse
type ConditionalExpr struct {
	Test    Expr
	IfTrue  Expr
	IfFalse Expr
	T       reflect.Type
}

// ConstantExpr is a literal value
type ConstantExpr struct {
	Value any
	T     reflect.Type
}

// DefaultExpr is the zero value of T
type DefaultExpr struct {
	T reflect.Type
}

// ParameterExpr is a lambda parameter or block variable. Parameters are
// compared by identity.
type ParameterExpr struct {
	Name string
	T    reflect.Type
}

// LambdaExpr is a function literal; T is a func type
type LambdaExpr struct {
	Params []*ParameterExpr
	Body   Expr
	T      reflect.Type
}

// MemberExpr reads a field or property; Object is nil for static getters
type MemberExpr struct {
	Object Expr
	Member Member
}

// CallExpr calls a method; Object is nil for package functions
type CallExpr struct {
	Object Expr
	Method *Method
	Args   []Expr
}

// InvokeExpr calls a function-typed value
type InvokeExpr struct {
	Func Expr
	Args []Expr
	T    reflect.Type
}

// NewExpr constructs a value, through Constructor when set, otherwise as
// the zero value of T.
type NewExpr struct {
	Constructor *Constructor
	Args        []Expr
	T           reflect.Type
}

// NewArrayExpr is NewArrayInit (elements) or NewArrayBounds (lengths)
type NewArrayExpr struct {
	Kind     ExpressionType
	ElemType reflect.Type
	Exprs    []Expr
	T        reflect.Type
}

// ElementInit is one Add call of a list initializer
type ElementInit struct {
	AddMethod *Method
	Args      []Expr
}

// ListInitExpr constructs a collection and calls Add for each initializer
type ListInitExpr struct {
	New          *NewExpr
	Initializers []*ElementInit
}

// MemberBinding is one binding of a member initializer
type MemberBinding interface {
	BindingType() MemberBindingType
	BoundMember() Member
}

// MemberAssignment sets Member to Expr
type MemberAssignment struct {
	Member Member
	Expr   Expr
}

// MemberMemberBinding applies nested bindings to Member
type MemberMemberBinding struct {
	Member   Member
	Bindings []MemberBinding
}

// MemberListBinding calls Add on Member for each initializer
type MemberListBinding struct {
	Member       Member
	Initializers []*ElementInit
}

func (*MemberAssignment) BindingType() MemberBindingType    { return AssignmentBinding }
func (*MemberMemberBinding) BindingType() MemberBindingType { return MemberBindingKind }
func (*MemberListBinding) BindingType() MemberBindingType   { return ListBindingKind }
func (b *MemberAssignment) BoundMember() Member             { return b.Member }
func (b *MemberMemberBinding) BoundMember() Member          { return b.Member }
func (b *MemberListBinding) BoundMember() Member            { return b.Member }

// MemberInitExpr constructs a value and applies member bindings
type MemberInitExpr struct {
	New      *NewExpr
	Bindings []MemberBinding
}

// IndexExpr indexes a slice, array, map or string, or calls an indexer
type IndexExpr struct {
	Object  Expr
	Indexer *Property
	Args    []Expr
	T       reflect.Type
}

// BlockExpr evaluates Exprs in order with Variables in scope
type BlockExpr struct {
	Variables []*ParameterExpr
	Exprs     []Expr
	T         reflect.Type
}

// LabelTarget identifies a jump destination. Targets are compared by
// identity; two targets with the same name are distinct.
type LabelTarget struct {
	Name string
	T    reflect.Type
}

// LoopExpr repeats Body until a break
type LoopExpr struct {
	Body     Expr
	Break    *LabelTarget
	Continue *LabelTarget
}

// SwitchCase is one case of a switch
type SwitchCase struct {
	TestValues []Expr
	Body       Expr
}

// SwitchExpr selects the first case with a test value equal to Value
type SwitchExpr struct {
	Value      Expr
	Cases      []*SwitchCase
	Default    Expr
	Comparison *Method
	T          reflect.Type
}

// CatchBlock handles thrown values assignable to Test
type CatchBlock struct {
	Test     reflect.Type
	Variable *ParameterExpr
	Body     Expr
	Filter   Expr
}

// TryExpr is try/catch/finally or try/fault
type TryExpr struct {
	Body     Expr
	Handlers []*CatchBlock
	Finally  Expr
	Fault    Expr
	T        reflect.Type
}

// GotoExpr jumps to Target carrying an optional Value
type GotoExpr struct {
	Kind   GotoExpressionKind
	Target *LabelTarget
	Value  Expr
	T      reflect.Type
}

// LabelExpr marks a jump destination in a block
type LabelExpr struct {
	Target  *LabelTarget
	Default Expr
}

// TypeBinaryExpr tests the dynamic type of Expr
type TypeBinaryExpr struct {
	Kind        ExpressionType // TypeIs or TypeEqual
	Expr        Expr
	TypeOperand reflect.Type
}

// Marker methods for the Expr interface
func (*BinaryExpr) implExpr()      {}
func (*UnaryExpr) implExpr()       {}
func (*ConditionalExpr) implExpr() {}
func (*ConstantExpr) implExpr()    {}
func (*DefaultExpr) implExpr()     {}
func (*ParameterExpr) implExpr()   {}
func (*LambdaExpr) implExpr()      {}
func (*MemberExpr) implExpr()      {}
func (*CallExpr) implExpr()        {}
func (*InvokeExpr) implExpr()      {}
func (*NewExpr) implExpr()         {}
func (*NewArrayExpr) implExpr()    {}
func (*ListInitExpr) implExpr()    {}
func (*MemberInitExpr) implExpr()  {}
func (*IndexExpr) implExpr()       {}
func (*BlockExpr) implExpr()       {}
func (*LoopExpr) implExpr()        {}
func (*SwitchExpr) implExpr()      {}
func (*TryExpr) implExpr()         {}
func (*GotoExpr) implExpr()        {}
func (*LabelExpr) implExpr()       {}
func (*TypeBinaryExpr) implExpr()  {}

func (e *BinaryExpr) NodeType() ExpressionType      { return e.Kind }
func (e *UnaryExpr) NodeType() ExpressionType       { return e.Kind }
func (e *ConditionalExpr) NodeType() ExpressionType { return Conditional }
func (e *ConstantExpr) NodeType() ExpressionType    { return Constant }
func (e *DefaultExpr) NodeType() ExpressionType     { return Default }
func (e *ParameterExpr) NodeType() ExpressionType   { return Parameter }
func (e *LambdaExpr) NodeType() ExpressionType      { return Lambda }
func (e *MemberExpr) NodeType() ExpressionType      { return MemberAccess }
func (e *CallExpr) NodeType() ExpressionType        { return Call }
func (e *InvokeExpr) NodeType() ExpressionType      { return Invoke }
func (e *NewExpr) NodeType() ExpressionType         { return New }
func (e *NewArrayExpr) NodeType() ExpressionType    { return e.Kind }
func (e *ListInitExpr) NodeType() ExpressionType    { return ListInit }
func (e *MemberInitExpr) NodeType() ExpressionType  { return MemberInit }
func (e *IndexExpr) NodeType() ExpressionType       { return Index }
func (e *BlockExpr) NodeType() ExpressionType       { return Block }
func (e *LoopExpr) NodeType() ExpressionType        { return Loop }
func (e *SwitchExpr) NodeType() ExpressionType      { return Switch }
func (e *TryExpr) NodeType() ExpressionType         { return Try }
func (e *GotoExpr) NodeType() ExpressionType        { return Goto }
func (e *LabelExpr) NodeType() ExpressionType       { return Label }
func (e *TypeBinaryExpr) NodeType() ExpressionType  { return e.Kind }

func (e *BinaryExpr) Type() reflect.Type      { return e.T }
func (e *UnaryExpr) Type() reflect.Type       { return e.T }
func (e *ConditionalExpr) Type() reflect.Type { return e.T }
func (e *ConstantExpr) Type() reflect.Type    { return e.T }
func (e *DefaultExpr) Type() reflect.Type     { return e.T }
func (e *ParameterExpr) Type() reflect.Type   { return e.T }
func (e *LambdaExpr) Type() reflect.Type      { return e.T }
func (e *MemberExpr) Type() reflect.Type      { return e.Member.MemberType() }
func (e *CallExpr) Type() reflect.Type        { return e.Method.Return }
func (e *InvokeExpr) Type() reflect.Type      { return e.T }
func (e *NewExpr) Type() reflect.Type         { return e.T }
func (e *NewArrayExpr) Type() reflect.Type    { return e.T }
func (e *ListInitExpr) Type() reflect.Type    { return e.New.T }
func (e *MemberInitExpr) Type() reflect.Type  { return e.New.T }
func (e *IndexExpr) Type() reflect.Type       { return e.T }
func (e *BlockExpr) Type() reflect.Type       { return e.T }
func (e *SwitchExpr) Type() reflect.Type      { return e.T }
func (e *TryExpr) Type() reflect.Type         { return e.T }
func (e *GotoExpr) Type() reflect.Type        { return e.T }
func (e *LabelExpr) Type() reflect.Type       { return e.Target.T }
func (e *TypeBinaryExpr) Type() reflect.Type  { return reflect.TypeFor[bool]() }

func (e *LoopExpr) Type() reflect.Type {
	if e.Break != nil {
		return e.Break.T
	}
	return VoidType
}
