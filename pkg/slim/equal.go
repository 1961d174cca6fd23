package slim

import (
	"reflect"

	"github.com/raymyers/slimexpr/pkg/typeslim"
)

// DeepEqual reports whether two trees are structurally equal. Parameters
// and labels are matched by position: the first time a parameter of a is
// met it is paired with the parameter at the same place in b, and every
// later occurrence must respect that pairing in both directions.
func DeepEqual(a, b ExpressionSlim) bool {
	c := comparer{
		params: make(map[*ParameterExpressionSlim]*ParameterExpressionSlim),
		rev:    make(map[*ParameterExpressionSlim]*ParameterExpressionSlim),
		labels: make(map[*LabelTargetSlim]*LabelTargetSlim),
		revLbl: make(map[*LabelTargetSlim]*LabelTargetSlim),
	}
	return c.expr(a, b)
}

type comparer struct {
	params map[*ParameterExpressionSlim]*ParameterExpressionSlim
	rev    map[*ParameterExpressionSlim]*ParameterExpressionSlim
	labels map[*LabelTargetSlim]*LabelTargetSlim
	revLbl map[*LabelTargetSlim]*LabelTargetSlim
}

func (c *comparer) param(a, b *ParameterExpressionSlim) bool {
	if a == nil || b == nil {
		return a == b
	}
	if m, ok := c.params[a]; ok {
		return m == b
	}
	if _, ok := c.rev[b]; ok {
		return false
	}
	if a.name != b.name || !typeslim.Equal(a.typ, b.typ) {
		return false
	}
	c.params[a], c.rev[b] = b, a
	return true
}

func (c *comparer) label(a, b *LabelTargetSlim) bool {
	if a == nil || b == nil {
		return a == b
	}
	if m, ok := c.labels[a]; ok {
		return m == b
	}
	if _, ok := c.revLbl[b]; ok {
		return false
	}
	if a.name != b.name || !typeslim.Equal(a.typ, b.typ) {
		return false
	}
	c.labels[a], c.revLbl[b] = b, a
	return true
}

func member(a, b typeslim.MemberInfoSlim) bool { return typeslim.EqualMember(a, b) }

func (c *comparer) args(a, b ArgumentProvider) bool {
	if a.ArgumentCount() != b.ArgumentCount() {
		return false
	}
	for i := 0; i < a.ArgumentCount(); i++ {
		x, _ := a.GetArgument(i)
		y, _ := b.GetArgument(i)
		if !c.expr(x, y) {
			return false
		}
	}
	return true
}

func (c *comparer) exprs(a, b *ReadOnlyCollection[ExpressionSlim]) bool {
	if a.Count() != b.Count() {
		return false
	}
	for i, x := range a.All() {
		if !c.expr(x, b.At(i)) {
			return false
		}
	}
	return true
}

func (c *comparer) inits(a, b *ReadOnlyCollection[*ElementInitSlim]) bool {
	if a.Count() != b.Count() {
		return false
	}
	for i, x := range a.All() {
		y := b.At(i)
		if !member(x.addMethod, y.addMethod) || !c.args(x, y) {
			return false
		}
	}
	return true
}

func (c *comparer) bindings(a, b *ReadOnlyCollection[MemberBindingSlim]) bool {
	if a.Count() != b.Count() {
		return false
	}
	for i, x := range a.All() {
		if !c.binding(x, b.At(i)) {
			return false
		}
	}
	return true
}

func (c *comparer) binding(a, b MemberBindingSlim) bool {
	if a.BindingType() != b.BindingType() || !member(a.Member(), b.Member()) {
		return false
	}
	switch x := a.(type) {
	case *MemberAssignmentSlim:
		return c.expr(x.expression, b.(*MemberAssignmentSlim).expression)
	case *MemberMemberBindingSlim:
		return c.bindings(x.bindings, b.(*MemberMemberBindingSlim).bindings)
	case *MemberListBindingSlim:
		return c.inits(x.inits, b.(*MemberListBindingSlim).inits)
	}
	return false
}

func (c *comparer) newExpr(x, y *NewExpressionSlim) bool {
	if (x.ctor == nil) != (y.ctor == nil) {
		return false
	}
	if x.ctor != nil && !member(x.ctor, y.ctor) {
		return false
	}
	return typeslim.Equal(x.typ, y.typ) && c.args(x, y)
}

func (c *comparer) lambda(x, y *LambdaExpressionSlim) bool {
	if x == nil || y == nil {
		return x == y
	}
	if !typeslim.Equal(x.typ, y.typ) || x.params.Count() != y.params.Count() {
		return false
	}
	for i, p := range x.params.All() {
		if !c.param(p, y.params.At(i)) {
			return false
		}
	}
	return c.expr(x.body, y.body)
}

func (c *comparer) expr(a, b ExpressionSlim) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.NodeType() != b.NodeType() || reflect.TypeOf(a) != reflect.TypeOf(b) {
		return false
	}
	switch x := a.(type) {
	case *BinaryExpressionSlim:
		y := b.(*BinaryExpressionSlim)
		return x.liftToNull == y.liftToNull && member(x.method, y.method) &&
			c.expr(x.left, y.left) && c.expr(x.right, y.right) && c.lambda(x.conversion, y.conversion)
	case *UnaryExpressionSlim:
		y := b.(*UnaryExpressionSlim)
		return typeslim.Equal(x.typ, y.typ) && member(x.method, y.method) && c.expr(x.operand, y.operand)
	case *ConditionalExpressionSlim:
		y := b.(*ConditionalExpressionSlim)
		return typeslim.Equal(x.typ, y.typ) && c.expr(x.test, y.test) &&
			c.expr(x.ifTrue, y.ifTrue) && c.expr(x.ifFalse, y.ifFalse)
	case *ConstantExpressionSlim:
		y := b.(*ConstantExpressionSlim)
		return typeslim.Equal(x.typ, y.typ) && reflect.DeepEqual(x.value.value, y.value.value)
	case *DefaultExpressionSlim:
		return typeslim.Equal(x.typ, b.(*DefaultExpressionSlim).typ)
	case *ParameterExpressionSlim:
		return c.param(x, b.(*ParameterExpressionSlim))
	case *LambdaExpressionSlim:
		return c.lambda(x, b.(*LambdaExpressionSlim))
	case *MemberExpressionSlim:
		y := b.(*MemberExpressionSlim)
		return member(x.member, y.member) && c.expr(x.expression, y.expression)
	case *MethodCallExpressionSlim:
		y := b.(*MethodCallExpressionSlim)
		return member(x.method, y.method) && c.expr(x.object, y.object) && c.args(x, y)
	case *InvocationExpressionSlim:
		y := b.(*InvocationExpressionSlim)
		return c.expr(x.expression, y.expression) && c.args(x, y)
	case *NewExpressionSlim:
		return c.newExpr(x, b.(*NewExpressionSlim))
	case *NewArrayExpressionSlim:
		y := b.(*NewArrayExpressionSlim)
		return typeslim.Equal(x.elemType, y.elemType) && c.exprs(x.exprs, y.exprs)
	case *ListInitExpressionSlim:
		y := b.(*ListInitExpressionSlim)
		return c.newExpr(x.newExpr, y.newExpr) && c.inits(x.inits, y.inits)
	case *MemberInitExpressionSlim:
		y := b.(*MemberInitExpressionSlim)
		return c.newExpr(x.newExpr, y.newExpr) && c.bindings(x.bindings, y.bindings)
	case *IndexExpressionSlim:
		y := b.(*IndexExpressionSlim)
		if (x.indexer == nil) != (y.indexer == nil) || (x.indexer != nil && !member(x.indexer, y.indexer)) {
			return false
		}
		return c.expr(x.object, y.object) && c.args(x, y)
	case *BlockExpressionSlim:
		y := b.(*BlockExpressionSlim)
		if !typeslim.Equal(x.typ, y.typ) || x.vars.Count() != y.vars.Count() {
			return false
		}
		for i, v := range x.vars.All() {
			if !c.param(v, y.vars.At(i)) {
				return false
			}
		}
		return c.exprs(x.exprs, y.exprs)
	case *LoopExpressionSlim:
		y := b.(*LoopExpressionSlim)
		return c.label(x.breakLabel, y.breakLabel) && c.label(x.continueLabel, y.continueLabel) && c.expr(x.body, y.body)
	case *SwitchExpressionSlim:
		y := b.(*SwitchExpressionSlim)
		if !typeslim.Equal(x.typ, y.typ) || !member(x.comparison, y.comparison) || x.cases.Count() != y.cases.Count() {
			return false
		}
		if !c.expr(x.value, y.value) {
			return false
		}
		for i, xc := range x.cases.All() {
			yc := y.cases.At(i)
			if !c.exprs(xc.tests, yc.tests) || !c.expr(xc.body, yc.body) {
				return false
			}
		}
		return c.expr(x.defaultBody, y.defaultBody)
	case *TryExpressionSlim:
		y := b.(*TryExpressionSlim)
		if !typeslim.Equal(x.typ, y.typ) || x.handlers.Count() != y.handlers.Count() || !c.expr(x.body, y.body) {
			return false
		}
		for i, xh := range x.handlers.All() {
			yh := y.handlers.At(i)
			if !typeslim.Equal(xh.test, yh.test) || !c.param(xh.variable, yh.variable) ||
				!c.expr(xh.filter, yh.filter) || !c.expr(xh.body, yh.body) {
				return false
			}
		}
		return c.expr(x.finally, y.finally) && c.expr(x.fault, y.fault)
	case *GotoExpressionSlim:
		y := b.(*GotoExpressionSlim)
		return x.kind == y.kind && typeslim.Equal(x.typ, y.typ) && c.label(x.target, y.target) && c.expr(x.value, y.value)
	case *LabelExpressionSlim:
		y := b.(*LabelExpressionSlim)
		return c.label(x.target, y.target) && c.expr(x.defaultValue, y.defaultValue)
	case *TypeBinaryExpressionSlim:
		y := b.(*TypeBinaryExpressionSlim)
		return typeslim.Equal(x.typeOperand, y.typeOperand) && c.expr(x.expression, y.expression)
	}
	return a == b
}
