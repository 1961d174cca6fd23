package slim

import "fmt"

// Visitor rewrites slim trees, one method per node kind and support type.
// Implementations usually embed Rewriter and override a few methods.
type Visitor interface {
	Visit(e ExpressionSlim) (ExpressionSlim, error)
	VisitBinary(n *BinaryExpressionSlim) (ExpressionSlim, error)
	VisitUnary(n *UnaryExpressionSlim) (ExpressionSlim, error)
	VisitConditional(n *ConditionalExpressionSlim) (ExpressionSlim, error)
	VisitConstant(n *ConstantExpressionSlim) (ExpressionSlim, error)
	VisitDefault(n *DefaultExpressionSlim) (ExpressionSlim, error)
	VisitParameter(n *ParameterExpressionSlim) (ExpressionSlim, error)
	VisitLambda(n *LambdaExpressionSlim) (ExpressionSlim, error)
	VisitMember(n *MemberExpressionSlim) (ExpressionSlim, error)
	VisitMethodCall(n *MethodCallExpressionSlim) (ExpressionSlim, error)
	VisitInvocation(n *InvocationExpressionSlim) (ExpressionSlim, error)
	VisitNew(n *NewExpressionSlim) (ExpressionSlim, error)
	VisitNewArray(n *NewArrayExpressionSlim) (ExpressionSlim, error)
	VisitListInit(n *ListInitExpressionSlim) (ExpressionSlim, error)
	VisitMemberInit(n *MemberInitExpressionSlim) (ExpressionSlim, error)
	VisitIndex(n *IndexExpressionSlim) (ExpressionSlim, error)
	VisitBlock(n *BlockExpressionSlim) (ExpressionSlim, error)
	VisitLoop(n *LoopExpressionSlim) (ExpressionSlim, error)
	VisitSwitch(n *SwitchExpressionSlim) (ExpressionSlim, error)
	VisitTry(n *TryExpressionSlim) (ExpressionSlim, error)
	VisitGoto(n *GotoExpressionSlim) (ExpressionSlim, error)
	VisitLabel(n *LabelExpressionSlim) (ExpressionSlim, error)
	VisitTypeBinary(n *TypeBinaryExpressionSlim) (ExpressionSlim, error)
	VisitExtension(n ExtensionSlim) (ExpressionSlim, error)

	VisitElementInit(n *ElementInitSlim) (*ElementInitSlim, error)
	VisitMemberBinding(b MemberBindingSlim) (MemberBindingSlim, error)
	VisitMemberAssignment(b *MemberAssignmentSlim) (MemberBindingSlim, error)
	VisitMemberMemberBinding(b *MemberMemberBindingSlim) (MemberBindingSlim, error)
	VisitMemberListBinding(b *MemberListBindingSlim) (MemberBindingSlim, error)
	VisitSwitchCase(c *SwitchCaseSlim) (*SwitchCaseSlim, error)
	VisitCatchBlock(c *CatchBlockSlim) (*CatchBlockSlim, error)
	VisitLabelTarget(t *LabelTargetSlim) (*LabelTargetSlim, error)
}

// Rewriter is the identity-preserving Visitor. Each method visits the
// children through Self and calls Update, so an unchanged subtree comes
// back as the same instance. A visitor embedding Rewriter sets Self to
// itself so that children are dispatched to its overrides.
type Rewriter struct {
	Self Visitor
}

var _ Visitor = (*Rewriter)(nil)

func (r *Rewriter) self() Visitor {
	if r.Self != nil {
		return r.Self
	}
	return r
}

// Visit dispatches on the node kind. Visiting nil returns nil.
func (r *Rewriter) Visit(e ExpressionSlim) (ExpressionSlim, error) {
	v := r.self()
	switch n := e.(type) {
	case nil:
		return nil, nil
	case *BinaryExpressionSlim:
		return v.VisitBinary(n)
	case *UnaryExpressionSlim:
		return v.VisitUnary(n)
	case *ConditionalExpressionSlim:
		return v.VisitConditional(n)
	case *ConstantExpressionSlim:
		return v.VisitConstant(n)
	case *DefaultExpressionSlim:
		return v.VisitDefault(n)
	case *ParameterExpressionSlim:
		return v.VisitParameter(n)
	case *LambdaExpressionSlim:
		return v.VisitLambda(n)
	case *MemberExpressionSlim:
		return v.VisitMember(n)
	case *MethodCallExpressionSlim:
		return v.VisitMethodCall(n)
	case *InvocationExpressionSlim:
		return v.VisitInvocation(n)
	case *NewExpressionSlim:
		return v.VisitNew(n)
	case *NewArrayExpressionSlim:
		return v.VisitNewArray(n)
	case *ListInitExpressionSlim:
		return v.VisitListInit(n)
	case *MemberInitExpressionSlim:
		return v.VisitMemberInit(n)
	case *IndexExpressionSlim:
		return v.VisitIndex(n)
	case *BlockExpressionSlim:
		return v.VisitBlock(n)
	case *LoopExpressionSlim:
		return v.VisitLoop(n)
	case *SwitchExpressionSlim:
		return v.VisitSwitch(n)
	case *TryExpressionSlim:
		return v.VisitTry(n)
	case *GotoExpressionSlim:
		return v.VisitGoto(n)
	case *LabelExpressionSlim:
		return v.VisitLabel(n)
	case *TypeBinaryExpressionSlim:
		return v.VisitTypeBinary(n)
	case ExtensionSlim:
		return v.VisitExtension(n)
	}
	return nil, fmt.Errorf("slim: unknown node %T", e)
}

// VisitAndConvert visits node and checks the result can stand in for it.
// A nil node yields the zero value.
func VisitAndConvert[T interface {
	ExpressionSlim
	comparable
}](v Visitor, node T, caller string) (T, error) {
	var zero T
	if node == zero {
		return zero, nil
	}
	res, err := v.Visit(node)
	if err != nil {
		return zero, err
	}
	t, ok := res.(T)
	if !ok || t == zero {
		return zero, &UnexpectedResultError{Caller: caller, Want: fmt.Sprintf("%T", node), Got: res}
	}
	return t, nil
}

// VisitCollection visits each element with visit and returns c itself when
// every element came back unchanged.
func VisitCollection[T comparable](c *ReadOnlyCollection[T], visit func(T) (T, error)) (*ReadOnlyCollection[T], error) {
	var out []T
	for i, x := range c.All() {
		y, err := visit(x)
		if err != nil {
			return nil, err
		}
		if out == nil && y != x {
			out = make([]T, i, c.Count())
			copy(out, c.items[:i])
		}
		if out != nil {
			out = append(out, y)
		}
	}
	if out == nil {
		return c, nil
	}
	return &ReadOnlyCollection[T]{items: out}, nil
}

// VisitExpressions visits a collection of expressions through v
func VisitExpressions(v Visitor, c *ReadOnlyCollection[ExpressionSlim]) (*ReadOnlyCollection[ExpressionSlim], error) {
	return VisitCollection(c, v.Visit)
}

// VisitAndConvertCollection visits a typed collection, checking each
// result with VisitAndConvert.
func VisitAndConvertCollection[T interface {
	ExpressionSlim
	comparable
}](v Visitor, c *ReadOnlyCollection[T], caller string) (*ReadOnlyCollection[T], error) {
	return VisitCollection(c, func(x T) (T, error) { return VisitAndConvert(v, x, caller) })
}

// visitArguments returns the visited arguments in order
func visitArguments(v Visitor, p ArgumentProvider) ([]ExpressionSlim, error) {
	args := make([]ExpressionSlim, p.ArgumentCount())
	for i := range args {
		a, err := p.GetArgument(i)
		if err != nil {
			return nil, err
		}
		if args[i], err = v.Visit(a); err != nil {
			return nil, err
		}
	}
	return args, nil
}

func visitLabel(v Visitor, t *LabelTargetSlim) (*LabelTargetSlim, error) {
	if t == nil {
		return nil, nil
	}
	return v.VisitLabelTarget(t)
}

func (r *Rewriter) VisitBinary(n *BinaryExpressionSlim) (ExpressionSlim, error) {
	v := r.self()
	left, err := v.Visit(n.left)
	if err != nil {
		return nil, err
	}
	right, err := v.Visit(n.right)
	if err != nil {
		return nil, err
	}
	conv, err := VisitAndConvert(v, n.conversion, "VisitBinary")
	if err != nil {
		return nil, err
	}
	return node(n.Update(left, right, conv))
}

func (r *Rewriter) VisitUnary(n *UnaryExpressionSlim) (ExpressionSlim, error) {
	operand, err := r.self().Visit(n.operand)
	if err != nil {
		return nil, err
	}
	return node(n.Update(operand))
}

func (r *Rewriter) VisitConditional(n *ConditionalExpressionSlim) (ExpressionSlim, error) {
	v := r.self()
	test, err := v.Visit(n.test)
	if err != nil {
		return nil, err
	}
	ifTrue, err := v.Visit(n.ifTrue)
	if err != nil {
		return nil, err
	}
	ifFalse, err := v.Visit(n.ifFalse)
	if err != nil {
		return nil, err
	}
	return node(n.Update(test, ifTrue, ifFalse))
}

func (r *Rewriter) VisitConstant(n *ConstantExpressionSlim) (ExpressionSlim, error)   { return n, nil }
func (r *Rewriter) VisitDefault(n *DefaultExpressionSlim) (ExpressionSlim, error)     { return n, nil }
func (r *Rewriter) VisitParameter(n *ParameterExpressionSlim) (ExpressionSlim, error) { return n, nil }

func (r *Rewriter) VisitLambda(n *LambdaExpressionSlim) (ExpressionSlim, error) {
	v := r.self()
	body, err := v.Visit(n.body)
	if err != nil {
		return nil, err
	}
	params, err := VisitAndConvertCollection(v, n.params, "VisitLambda")
	if err != nil {
		return nil, err
	}
	return node(n.Update(body, params))
}

func (r *Rewriter) VisitMember(n *MemberExpressionSlim) (ExpressionSlim, error) {
	e, err := r.self().Visit(n.expression)
	if err != nil {
		return nil, err
	}
	return node(n.Update(e))
}

func (r *Rewriter) VisitMethodCall(n *MethodCallExpressionSlim) (ExpressionSlim, error) {
	v := r.self()
	object, err := v.Visit(n.object)
	if err != nil {
		return nil, err
	}
	args, err := visitArguments(v, n)
	if err != nil {
		return nil, err
	}
	return node(n.Update(object, args))
}

func (r *Rewriter) VisitInvocation(n *InvocationExpressionSlim) (ExpressionSlim, error) {
	v := r.self()
	e, err := v.Visit(n.expression)
	if err != nil {
		return nil, err
	}
	args, err := visitArguments(v, n)
	if err != nil {
		return nil, err
	}
	return node(n.Update(e, args))
}

func (r *Rewriter) VisitNew(n *NewExpressionSlim) (ExpressionSlim, error) {
	args, err := visitArguments(r.self(), n)
	if err != nil {
		return nil, err
	}
	return node(n.Update(args))
}

func (r *Rewriter) VisitNewArray(n *NewArrayExpressionSlim) (ExpressionSlim, error) {
	exprs, err := VisitExpressions(r.self(), n.exprs)
	if err != nil {
		return nil, err
	}
	return node(n.Update(exprs))
}

func (r *Rewriter) VisitListInit(n *ListInitExpressionSlim) (ExpressionSlim, error) {
	v := r.self()
	newExpr, err := VisitAndConvert(v, n.newExpr, "VisitListInit")
	if err != nil {
		return nil, err
	}
	inits, err := VisitCollection(n.inits, v.VisitElementInit)
	if err != nil {
		return nil, err
	}
	return node(n.Update(newExpr, inits))
}

func (r *Rewriter) VisitMemberInit(n *MemberInitExpressionSlim) (ExpressionSlim, error) {
	v := r.self()
	newExpr, err := VisitAndConvert(v, n.newExpr, "VisitMemberInit")
	if err != nil {
		return nil, err
	}
	bindings, err := VisitCollection(n.bindings, v.VisitMemberBinding)
	if err != nil {
		return nil, err
	}
	return node(n.Update(newExpr, bindings))
}

func (r *Rewriter) VisitIndex(n *IndexExpressionSlim) (ExpressionSlim, error) {
	v := r.self()
	object, err := v.Visit(n.object)
	if err != nil {
		return nil, err
	}
	args, err := visitArguments(v, n)
	if err != nil {
		return nil, err
	}
	return node(n.Update(object, args))
}

func (r *Rewriter) VisitBlock(n *BlockExpressionSlim) (ExpressionSlim, error) {
	v := r.self()
	vars, err := VisitAndConvertCollection(v, n.vars, "VisitBlock")
	if err != nil {
		return nil, err
	}
	exprs, err := VisitExpressions(v, n.exprs)
	if err != nil {
		return nil, err
	}
	return node(n.Update(vars, exprs))
}

func (r *Rewriter) VisitLoop(n *LoopExpressionSlim) (ExpressionSlim, error) {
	v := r.self()
	brk, err := visitLabel(v, n.breakLabel)
	if err != nil {
		return nil, err
	}
	cont, err := visitLabel(v, n.continueLabel)
	if err != nil {
		return nil, err
	}
	body, err := v.Visit(n.body)
	if err != nil {
		return nil, err
	}
	return node(n.Update(brk, cont, body))
}

func (r *Rewriter) VisitSwitch(n *SwitchExpressionSlim) (ExpressionSlim, error) {
	v := r.self()
	value, err := v.Visit(n.value)
	if err != nil {
		return nil, err
	}
	cases, err := VisitCollection(n.cases, v.VisitSwitchCase)
	if err != nil {
		return nil, err
	}
	def, err := v.Visit(n.defaultBody)
	if err != nil {
		return nil, err
	}
	return node(n.Update(value, cases, def))
}

func (r *Rewriter) VisitTry(n *TryExpressionSlim) (ExpressionSlim, error) {
	v := r.self()
	body, err := v.Visit(n.body)
	if err != nil {
		return nil, err
	}
	handlers, err := VisitCollection(n.handlers, v.VisitCatchBlock)
	if err != nil {
		return nil, err
	}
	finally, err := v.Visit(n.finally)
	if err != nil {
		return nil, err
	}
	fault, err := v.Visit(n.fault)
	if err != nil {
		return nil, err
	}
	return node(n.Update(body, handlers, finally, fault))
}

func (r *Rewriter) VisitGoto(n *GotoExpressionSlim) (ExpressionSlim, error) {
	v := r.self()
	target, err := visitLabel(v, n.target)
	if err != nil {
		return nil, err
	}
	value, err := v.Visit(n.value)
	if err != nil {
		return nil, err
	}
	return node(n.Update(target, value))
}

func (r *Rewriter) VisitLabel(n *LabelExpressionSlim) (ExpressionSlim, error) {
	v := r.self()
	target, err := visitLabel(v, n.target)
	if err != nil {
		return nil, err
	}
	def, err := v.Visit(n.defaultValue)
	if err != nil {
		return nil, err
	}
	return node(n.Update(target, def))
}

func (r *Rewriter) VisitTypeBinary(n *TypeBinaryExpressionSlim) (ExpressionSlim, error) {
	e, err := r.self().Visit(n.expression)
	if err != nil {
		return nil, err
	}
	return node(n.Update(e))
}

// VisitExtension lets the node visit its own children
func (r *Rewriter) VisitExtension(n ExtensionSlim) (ExpressionSlim, error) {
	return n.VisitChildren(r.self())
}

func (r *Rewriter) VisitElementInit(n *ElementInitSlim) (*ElementInitSlim, error) {
	args, err := visitArguments(r.self(), n)
	if err != nil {
		return nil, err
	}
	return n.Update(args)
}

func (r *Rewriter) VisitMemberBinding(b MemberBindingSlim) (MemberBindingSlim, error) {
	v := r.self()
	switch b := b.(type) {
	case *MemberAssignmentSlim:
		return v.VisitMemberAssignment(b)
	case *MemberMemberBindingSlim:
		return v.VisitMemberMemberBinding(b)
	case *MemberListBindingSlim:
		return v.VisitMemberListBinding(b)
	case nil:
		return nil, null("binding")
	}
	return nil, fmt.Errorf("slim: unknown member binding %T", b)
}

func (r *Rewriter) VisitMemberAssignment(b *MemberAssignmentSlim) (MemberBindingSlim, error) {
	e, err := r.self().Visit(b.expression)
	if err != nil {
		return nil, err
	}
	return binding(b.Update(e))
}

func (r *Rewriter) VisitMemberMemberBinding(b *MemberMemberBindingSlim) (MemberBindingSlim, error) {
	bindings, err := VisitCollection(b.bindings, r.self().VisitMemberBinding)
	if err != nil {
		return nil, err
	}
	return binding(b.Update(bindings))
}

func (r *Rewriter) VisitMemberListBinding(b *MemberListBindingSlim) (MemberBindingSlim, error) {
	inits, err := VisitCollection(b.inits, r.self().VisitElementInit)
	if err != nil {
		return nil, err
	}
	return binding(b.Update(inits))
}

func (r *Rewriter) VisitSwitchCase(c *SwitchCaseSlim) (*SwitchCaseSlim, error) {
	v := r.self()
	tests, err := VisitExpressions(v, c.tests)
	if err != nil {
		return nil, err
	}
	body, err := v.Visit(c.body)
	if err != nil {
		return nil, err
	}
	return c.Update(tests, body)
}

func (r *Rewriter) VisitCatchBlock(c *CatchBlockSlim) (*CatchBlockSlim, error) {
	v := r.self()
	variable, err := VisitAndConvert(v, c.variable, "VisitCatchBlock")
	if err != nil {
		return nil, err
	}
	filter, err := v.Visit(c.filter)
	if err != nil {
		return nil, err
	}
	body, err := v.Visit(c.body)
	if err != nil {
		return nil, err
	}
	return c.Update(variable, filter, body)
}

func (r *Rewriter) VisitLabelTarget(t *LabelTargetSlim) (*LabelTargetSlim, error) { return t, nil }
