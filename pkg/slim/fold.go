package slim

import "fmt"

// Reducer supplies the Make hooks of a Folder. Each hook receives the node
// and the already folded results of its children, in source order. Absent
// optional children are passed as zero values.
//
// The type parameters are the result types of expressions (E), lambdas (L),
// parameters (P), constructions (N), element initializers (EI), member
// bindings (MB), catch blocks (CB), switch cases (SC) and label targets
// (LT). The three conversions lift lambda, parameter and construction
// results into expression position.
type Reducer[E, L, P, N, EI, MB, CB, SC, LT any] interface {
	MakeBinary(n *BinaryExpressionSlim, left, right E, conversion L) (E, error)
	MakeUnary(n *UnaryExpressionSlim, operand E) (E, error)
	MakeConditional(n *ConditionalExpressionSlim, test, ifTrue, ifFalse E) (E, error)
	MakeConstant(n *ConstantExpressionSlim) (E, error)
	MakeDefault(n *DefaultExpressionSlim) (E, error)
	MakeParameter(n *ParameterExpressionSlim) (P, error)
	MakeLambda(n *LambdaExpressionSlim, body E, params []P) (L, error)
	MakeMember(n *MemberExpressionSlim, expression E) (E, error)
	MakeMethodCall(n *MethodCallExpressionSlim, object E, args []E) (E, error)
	MakeInvocation(n *InvocationExpressionSlim, expression E, args []E) (E, error)
	MakeNew(n *NewExpressionSlim, args []E) (N, error)
	MakeNewArray(n *NewArrayExpressionSlim, exprs []E) (E, error)
	MakeListInit(n *ListInitExpressionSlim, newExpr N, inits []EI) (E, error)
	MakeMemberInit(n *MemberInitExpressionSlim, newExpr N, bindings []MB) (E, error)
	MakeElementInit(n *ElementInitSlim, args []E) (EI, error)
	MakeMemberAssignment(b *MemberAssignmentSlim, expression E) (MB, error)
	MakeMemberMemberBinding(b *MemberMemberBindingSlim, bindings []MB) (MB, error)
	MakeMemberListBinding(b *MemberListBindingSlim, inits []EI) (MB, error)
	MakeIndex(n *IndexExpressionSlim, object E, args []E) (E, error)
	MakeBlock(n *BlockExpressionSlim, vars []P, exprs []E) (E, error)
	MakeLoop(n *LoopExpressionSlim, body E, breakLabel, continueLabel LT) (E, error)
	MakeSwitch(n *SwitchExpressionSlim, value E, cases []SC, defaultBody E) (E, error)
	MakeSwitchCase(c *SwitchCaseSlim, tests []E, body E) (SC, error)
	MakeTry(n *TryExpressionSlim, body E, handlers []CB, finally, fault E) (E, error)
	MakeCatchBlock(c *CatchBlockSlim, variable P, filter, body E) (CB, error)
	MakeGoto(n *GotoExpressionSlim, target LT, value E) (E, error)
	MakeLabel(n *LabelExpressionSlim, target LT, defaultValue E) (E, error)
	MakeLabelTarget(t *LabelTargetSlim) (LT, error)
	MakeTypeBinary(n *TypeBinaryExpressionSlim, expression E) (E, error)
	VisitExtension(n ExtensionSlim) (E, error)

	LambdaExpression(l L) E
	ParameterExpression(p P) E
	NewExpression(n N) E
}

// ExtensionUnsupported is the error for folds that meet an extension node
// they do not handle.
func ExtensionUnsupported(n ExtensionSlim) error {
	return fmt.Errorf("fold over extension node %T: %w", n, ErrNotImplemented)
}

// Folder reduces a slim tree bottom-up through a Reducer
type Folder[E, L, P, N, EI, MB, CB, SC, LT any] struct {
	reducer Reducer[E, L, P, N, EI, MB, CB, SC, LT]
}

// ExpressionSlimVisitor is a Folder whose categories share one result type
type ExpressionSlimVisitor[T any] = Folder[T, T, T, T, T, T, T, T, T]

func NewFolder[E, L, P, N, EI, MB, CB, SC, LT any](r Reducer[E, L, P, N, EI, MB, CB, SC, LT]) (*Folder[E, L, P, N, EI, MB, CB, SC, LT], error) {
	if r == nil {
		return nil, null("reducer")
	}
	return &Folder[E, L, P, N, EI, MB, CB, SC, LT]{reducer: r}, nil
}

// NewExpressionSlimVisitor creates a single-result Folder
func NewExpressionSlimVisitor[T any](r Reducer[T, T, T, T, T, T, T, T, T]) (*ExpressionSlimVisitor[T], error) {
	return NewFolder(r)
}

// Visit folds e. A nil expression folds to the zero value.
func (f *Folder[E, L, P, N, EI, MB, CB, SC, LT]) Visit(e ExpressionSlim) (E, error) {
	var zero E
	switch n := e.(type) {
	case nil:
		return zero, nil
	case *BinaryExpressionSlim:
		return f.VisitBinary(n)
	case *UnaryExpressionSlim:
		return f.VisitUnary(n)
	case *ConditionalExpressionSlim:
		return f.VisitConditional(n)
	case *ConstantExpressionSlim:
		return f.VisitConstant(n)
	case *DefaultExpressionSlim:
		return f.VisitDefault(n)
	case *ParameterExpressionSlim:
		p, err := f.VisitParameter(n)
		if err != nil {
			return zero, err
		}
		return f.reducer.ParameterExpression(p), nil
	case *LambdaExpressionSlim:
		l, err := f.VisitLambda(n)
		if err != nil {
			return zero, err
		}
		return f.reducer.LambdaExpression(l), nil
	case *MemberExpressionSlim:
		return f.VisitMember(n)
	case *MethodCallExpressionSlim:
		return f.VisitMethodCall(n)
	case *InvocationExpressionSlim:
		return f.VisitInvocation(n)
	case *NewExpressionSlim:
		ne, err := f.VisitNew(n)
		if err != nil {
			return zero, err
		}
		return f.reducer.NewExpression(ne), nil
	case *NewArrayExpressionSlim:
		return f.VisitNewArray(n)
	case *ListInitExpressionSlim:
		return f.VisitListInit(n)
	case *MemberInitExpressionSlim:
		return f.VisitMemberInit(n)
	case *IndexExpressionSlim:
		return f.VisitIndex(n)
	case *BlockExpressionSlim:
		return f.VisitBlock(n)
	case *LoopExpressionSlim:
		return f.VisitLoop(n)
	case *SwitchExpressionSlim:
		return f.VisitSwitch(n)
	case *TryExpressionSlim:
		return f.VisitTry(n)
	case *GotoExpressionSlim:
		return f.VisitGoto(n)
	case *LabelExpressionSlim:
		return f.VisitLabel(n)
	case *TypeBinaryExpressionSlim:
		return f.VisitTypeBinary(n)
	case ExtensionSlim:
		return f.VisitExtension(n)
	}
	return zero, fmt.Errorf("slim: unknown node %T", e)
}

func (f *Folder[E, L, P, N, EI, MB, CB, SC, LT]) visitAll(c *ReadOnlyCollection[ExpressionSlim]) ([]E, error) {
	out := make([]E, 0, c.Count())
	for _, e := range c.All() {
		r, err := f.Visit(e)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *Folder[E, L, P, N, EI, MB, CB, SC, LT]) visitArgs(p ArgumentProvider) ([]E, error) {
	out := make([]E, p.ArgumentCount())
	for i := range out {
		a, err := p.GetArgument(i)
		if err != nil {
			return nil, err
		}
		if out[i], err = f.Visit(a); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (f *Folder[E, L, P, N, EI, MB, CB, SC, LT]) visitParams(c *ReadOnlyCollection[*ParameterExpressionSlim]) ([]P, error) {
	out := make([]P, 0, c.Count())
	for _, p := range c.All() {
		r, err := f.VisitParameter(p)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *Folder[E, L, P, N, EI, MB, CB, SC, LT]) visitInits(c *ReadOnlyCollection[*ElementInitSlim]) ([]EI, error) {
	out := make([]EI, 0, c.Count())
	for _, in := range c.All() {
		r, err := f.VisitElementInit(in)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *Folder[E, L, P, N, EI, MB, CB, SC, LT]) visitBindings(c *ReadOnlyCollection[MemberBindingSlim]) ([]MB, error) {
	out := make([]MB, 0, c.Count())
	for _, b := range c.All() {
		r, err := f.VisitMemberBinding(b)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *Folder[E, L, P, N, EI, MB, CB, SC, LT]) optionalLabel(t *LabelTargetSlim) (LT, error) {
	if t == nil {
		var zero LT
		return zero, nil
	}
	return f.VisitLabelTarget(t)
}

func (f *Folder[E, L, P, N, EI, MB, CB, SC, LT]) VisitBinary(n *BinaryExpressionSlim) (E, error) {
	var zero E
	if n == nil {
		return zero, null("node")
	}
	left, err := f.Visit(n.left)
	if err != nil {
		return zero, err
	}
	right, err := f.Visit(n.right)
	if err != nil {
		return zero, err
	}
	var conv L
	if n.conversion != nil {
		if conv, err = f.VisitLambda(n.conversion); err != nil {
			return zero, err
		}
	}
	return f.reducer.MakeBinary(n, left, right, conv)
}

func (f *Folder[E, L, P, N, EI, MB, CB, SC, LT]) VisitUnary(n *UnaryExpressionSlim) (E, error) {
	var zero E
	if n == nil {
		return zero, null("node")
	}
	operand, err := f.Visit(n.operand)
	if err != nil {
		return zero, err
	}
	return f.reducer.MakeUnary(n, operand)
}

func (f *Folder[E, L, P, N, EI, MB, CB, SC, LT]) VisitConditional(n *ConditionalExpressionSlim) (E, error) {
	var zero E
	if n == nil {
		return zero, null("node")
	}
	test, err := f.Visit(n.test)
	if err != nil {
		return zero, err
	}
	ifTrue, err := f.Visit(n.ifTrue)
	if err != nil {
		return zero, err
	}
	ifFalse, err := f.Visit(n.ifFalse)
	if err != nil {
		return zero, err
	}
	return f.reducer.MakeConditional(n, test, ifTrue, ifFalse)
}

func (f *Folder[E, L, P, N, EI, MB, CB, SC, LT]) VisitConstant(n *ConstantExpressionSlim) (E, error) {
	if n == nil {
		var zero E
		return zero, null("node")
	}
	return f.reducer.MakeConstant(n)
}

func (f *Folder[E, L, P, N, EI, MB, CB, SC, LT]) VisitDefault(n *DefaultExpressionSlim) (E, error) {
	if n == nil {
		var zero E
		return zero, null("node")
	}
	return f.reducer.MakeDefault(n)
}

func (f *Folder[E, L, P, N, EI, MB, CB, SC, LT]) VisitParameter(n *ParameterExpressionSlim) (P, error) {
	if n == nil {
		var zero P
		return zero, null("node")
	}
	return f.reducer.MakeParameter(n)
}

func (f *Folder[E, L, P, N, EI, MB, CB, SC, LT]) VisitLambda(n *LambdaExpressionSlim) (L, error) {
	var zero L
	if n == nil {
		return zero, null("node")
	}
	body, err := f.Visit(n.body)
	if err != nil {
		return zero, err
	}
	params, err := f.visitParams(n.params)
	if err != nil {
		return zero, err
	}
	return f.reducer.MakeLambda(n, body, params)
}

func (f *Folder[E, L, P, N, EI, MB, CB, SC, LT]) VisitMember(n *MemberExpressionSlim) (E, error) {
	var zero E
	if n == nil {
		return zero, null("node")
	}
	e, err := f.Visit(n.expression)
	if err != nil {
		return zero, err
	}
	return f.reducer.MakeMember(n, e)
}

func (f *Folder[E, L, P, N, EI, MB, CB, SC, LT]) VisitMethodCall(n *MethodCallExpressionSlim) (E, error) {
	var zero E
	if n == nil {
		return zero, null("node")
	}
	object, err := f.Visit(n.object)
	if err != nil {
		return zero, err
	}
	args, err := f.visitArgs(n)
	if err != nil {
		return zero, err
	}
	return f.reducer.MakeMethodCall(n, object, args)
}

func (f *Folder[E, L, P, N, EI, MB, CB, SC, LT]) VisitInvocation(n *InvocationExpressionSlim) (E, error) {
	var zero E
	if n == nil {
		return zero, null("node")
	}
	e, err := f.Visit(n.expression)
	if err != nil {
		return zero, err
	}
	args, err := f.visitArgs(n)
	if err != nil {
		return zero, err
	}
	return f.reducer.MakeInvocation(n, e, args)
}

func (f *Folder[E, L, P, N, EI, MB, CB, SC, LT]) VisitNew(n *NewExpressionSlim) (N, error) {
	var zero N
	if n == nil {
		return zero, null("node")
	}
	args, err := f.visitArgs(n)
	if err != nil {
		return zero, err
	}
	return f.reducer.MakeNew(n, args)
}

func (f *Folder[E, L, P, N, EI, MB, CB, SC, LT]) VisitNewArray(n *NewArrayExpressionSlim) (E, error) {
	var zero E
	if n == nil {
		return zero, null("node")
	}
	exprs, err := f.visitAll(n.exprs)
	if err != nil {
		return zero, err
	}
	return f.reducer.MakeNewArray(n, exprs)
}

func (f *Folder[E, L, P, N, EI, MB, CB, SC, LT]) VisitListInit(n *ListInitExpressionSlim) (E, error) {
	var zero E
	if n == nil {
		return zero, null("node")
	}
	ne, err := f.VisitNew(n.newExpr)
	if err != nil {
		return zero, err
	}
	inits, err := f.visitInits(n.inits)
	if err != nil {
		return zero, err
	}
	return f.reducer.MakeListInit(n, ne, inits)
}

func (f *Folder[E, L, P, N, EI, MB, CB, SC, LT]) VisitMemberInit(n *MemberInitExpressionSlim) (E, error) {
	var zero E
	if n == nil {
		return zero, null("node")
	}
	ne, err := f.VisitNew(n.newExpr)
	if err != nil {
		return zero, err
	}
	bindings, err := f.visitBindings(n.bindings)
	if err != nil {
		return zero, err
	}
	return f.reducer.MakeMemberInit(n, ne, bindings)
}

func (f *Folder[E, L, P, N, EI, MB, CB, SC, LT]) VisitElementInit(n *ElementInitSlim) (EI, error) {
	var zero EI
	if n == nil {
		return zero, null("node")
	}
	args, err := f.visitArgs(n)
	if err != nil {
		return zero, err
	}
	return f.reducer.MakeElementInit(n, args)
}

func (f *Folder[E, L, P, N, EI, MB, CB, SC, LT]) VisitMemberBinding(b MemberBindingSlim) (MB, error) {
	var zero MB
	switch b := b.(type) {
	case nil:
		return zero, null("node")
	case *MemberAssignmentSlim:
		return f.VisitMemberAssignment(b)
	case *MemberMemberBindingSlim:
		return f.VisitMemberMemberBinding(b)
	case *MemberListBindingSlim:
		return f.VisitMemberListBinding(b)
	}
	return zero, fmt.Errorf("slim: unknown member binding %T", b)
}

func (f *Folder[E, L, P, N, EI, MB, CB, SC, LT]) VisitMemberAssignment(b *MemberAssignmentSlim) (MB, error) {
	var zero MB
	if b == nil {
		return zero, null("node")
	}
	e, err := f.Visit(b.expression)
	if err != nil {
		return zero, err
	}
	return f.reducer.MakeMemberAssignment(b, e)
}

func (f *Folder[E, L, P, N, EI, MB, CB, SC, LT]) VisitMemberMemberBinding(b *MemberMemberBindingSlim) (MB, error) {
	var zero MB
	if b == nil {
		return zero, null("node")
	}
	bindings, err := f.visitBindings(b.bindings)
	if err != nil {
		return zero, err
	}
	return f.reducer.MakeMemberMemberBinding(b, bindings)
}

func (f *Folder[E, L, P, N, EI, MB, CB, SC, LT]) VisitMemberListBinding(b *MemberListBindingSlim) (MB, error) {
	var zero MB
	if b == nil {
		return zero, null("node")
	}
	inits, err := f.visitInits(b.inits)
	if err != nil {
		return zero, err
	}
	return f.reducer.MakeMemberListBinding(b, inits)
}

func (f *Folder[E, L, P, N, EI, MB, CB, SC, LT]) VisitIndex(n *IndexExpressionSlim) (E, error) {
	var zero E
	if n == nil {
		return zero, null("node")
	}
	object, err := f.Visit(n.object)
	if err != nil {
		return zero, err
	}
	args, err := f.visitArgs(n)
	if err != nil {
		return zero, err
	}
	return f.reducer.MakeIndex(n, object, args)
}

func (f *Folder[E, L, P, N, EI, MB, CB, SC, LT]) VisitBlock(n *BlockExpressionSlim) (E, error) {
	var zero E
	if n == nil {
		return zero, null("node")
	}
	vars, err := f.visitParams(n.vars)
	if err != nil {
		return zero, err
	}
	exprs, err := f.visitAll(n.exprs)
	if err != nil {
		return zero, err
	}
	return f.reducer.MakeBlock(n, vars, exprs)
}

func (f *Folder[E, L, P, N, EI, MB, CB, SC, LT]) VisitLoop(n *LoopExpressionSlim) (E, error) {
	var zero E
	if n == nil {
		return zero, null("node")
	}
	body, err := f.Visit(n.body)
	if err != nil {
		return zero, err
	}
	brk, err := f.optionalLabel(n.breakLabel)
	if err != nil {
		return zero, err
	}
	cont, err := f.optionalLabel(n.continueLabel)
	if err != nil {
		return zero, err
	}
	return f.reducer.MakeLoop(n, body, brk, cont)
}

func (f *Folder[E, L, P, N, EI, MB, CB, SC, LT]) VisitSwitch(n *SwitchExpressionSlim) (E, error) {
	var zero E
	if n == nil {
		return zero, null("node")
	}
	value, err := f.Visit(n.value)
	if err != nil {
		return zero, err
	}
	cases := make([]SC, 0, n.cases.Count())
	for _, c := range n.cases.All() {
		r, err := f.VisitSwitchCase(c)
		if err != nil {
			return zero, err
		}
		cases = append(cases, r)
	}
	def, err := f.Visit(n.defaultBody)
	if err != nil {
		return zero, err
	}
	return f.reducer.MakeSwitch(n, value, cases, def)
}

func (f *Folder[E, L, P, N, EI, MB, CB, SC, LT]) VisitSwitchCase(c *SwitchCaseSlim) (SC, error) {
	var zero SC
	if c == nil {
		return zero, null("node")
	}
	tests, err := f.visitAll(c.tests)
	if err != nil {
		return zero, err
	}
	body, err := f.Visit(c.body)
	if err != nil {
		return zero, err
	}
	return f.reducer.MakeSwitchCase(c, tests, body)
}

func (f *Folder[E, L, P, N, EI, MB, CB, SC, LT]) VisitTry(n *TryExpressionSlim) (E, error) {
	var zero E
	if n == nil {
		return zero, null("node")
	}
	body, err := f.Visit(n.body)
	if err != nil {
		return zero, err
	}
	handlers := make([]CB, 0, n.handlers.Count())
	for _, h := range n.handlers.All() {
		r, err := f.VisitCatchBlock(h)
		if err != nil {
			return zero, err
		}
		handlers = append(handlers, r)
	}
	finally, err := f.Visit(n.finally)
	if err != nil {
		return zero, err
	}
	fault, err := f.Visit(n.fault)
	if err != nil {
		return zero, err
	}
	return f.reducer.MakeTry(n, body, handlers, finally, fault)
}

func (f *Folder[E, L, P, N, EI, MB, CB, SC, LT]) VisitCatchBlock(c *CatchBlockSlim) (CB, error) {
	var zero CB
	if c == nil {
		return zero, null("node")
	}
	var variable P
	if c.variable != nil {
		var err error
		if variable, err = f.VisitParameter(c.variable); err != nil {
			return zero, err
		}
	}
	filter, err := f.Visit(c.filter)
	if err != nil {
		return zero, err
	}
	body, err := f.Visit(c.body)
	if err != nil {
		return zero, err
	}
	return f.reducer.MakeCatchBlock(c, variable, filter, body)
}

func (f *Folder[E, L, P, N, EI, MB, CB, SC, LT]) VisitGoto(n *GotoExpressionSlim) (E, error) {
	var zero E
	if n == nil {
		return zero, null("node")
	}
	target, err := f.VisitLabelTarget(n.target)
	if err != nil {
		return zero, err
	}
	value, err := f.Visit(n.value)
	if err != nil {
		return zero, err
	}
	return f.reducer.MakeGoto(n, target, value)
}

func (f *Folder[E, L, P, N, EI, MB, CB, SC, LT]) VisitLabel(n *LabelExpressionSlim) (E, error) {
	var zero E
	if n == nil {
		return zero, null("node")
	}
	target, err := f.VisitLabelTarget(n.target)
	if err != nil {
		return zero, err
	}
	def, err := f.Visit(n.defaultValue)
	if err != nil {
		return zero, err
	}
	return f.reducer.MakeLabel(n, target, def)
}

func (f *Folder[E, L, P, N, EI, MB, CB, SC, LT]) VisitLabelTarget(t *LabelTargetSlim) (LT, error) {
	if t == nil {
		var zero LT
		return zero, null("node")
	}
	return f.reducer.MakeLabelTarget(t)
}

func (f *Folder[E, L, P, N, EI, MB, CB, SC, LT]) VisitTypeBinary(n *TypeBinaryExpressionSlim) (E, error) {
	var zero E
	if n == nil {
		return zero, null("node")
	}
	e, err := f.Visit(n.expression)
	if err != nil {
		return zero, err
	}
	return f.reducer.MakeTypeBinary(n, e)
}

func (f *Folder[E, L, P, N, EI, MB, CB, SC, LT]) VisitExtension(n ExtensionSlim) (E, error) {
	if n == nil {
		var zero E
		return zero, null("node")
	}
	return f.reducer.VisitExtension(n)
}

// BaseReducer implements every hook of a single-result Reducer by passing
// the node and its present children to Combine. Types embedding it
// override the hooks they care about. A nil Combine folds everything to
// the zero value.
type BaseReducer[T any] struct {
	Combine func(node any, children []T) (T, error)
}

var _ Reducer[int, int, int, int, int, int, int, int, int] = BaseReducer[int]{}

func (b BaseReducer[T]) combine(node any, children ...T) (T, error) {
	if b.Combine == nil {
		var zero T
		return zero, nil
	}
	return b.Combine(node, children)
}

// present appends x to children when the child it was folded from exists
func present[T any](children []T, exists bool, x T) []T {
	if exists {
		return append(children, x)
	}
	return children
}

func (b BaseReducer[T]) MakeBinary(n *BinaryExpressionSlim, left, right T, conversion T) (T, error) {
	return b.combine(n, present([]T{left, right}, n.conversion != nil, conversion)...)
}

func (b BaseReducer[T]) MakeUnary(n *UnaryExpressionSlim, operand T) (T, error) {
	return b.combine(n, present(nil, n.operand != nil, operand)...)
}

func (b BaseReducer[T]) MakeConditional(n *ConditionalExpressionSlim, test, ifTrue, ifFalse T) (T, error) {
	return b.combine(n, test, ifTrue, ifFalse)
}

func (b BaseReducer[T]) MakeConstant(n *ConstantExpressionSlim) (T, error)   { return b.combine(n) }
func (b BaseReducer[T]) MakeDefault(n *DefaultExpressionSlim) (T, error)     { return b.combine(n) }
func (b BaseReducer[T]) MakeParameter(n *ParameterExpressionSlim) (T, error) { return b.combine(n) }

func (b BaseReducer[T]) MakeLambda(n *LambdaExpressionSlim, body T, params []T) (T, error) {
	return b.combine(n, append([]T{body}, params...)...)
}

func (b BaseReducer[T]) MakeMember(n *MemberExpressionSlim, expression T) (T, error) {
	return b.combine(n, present(nil, n.expression != nil, expression)...)
}

func (b BaseReducer[T]) MakeMethodCall(n *MethodCallExpressionSlim, object T, args []T) (T, error) {
	return b.combine(n, append(present(nil, n.object != nil, object), args...)...)
}

func (b BaseReducer[T]) MakeInvocation(n *InvocationExpressionSlim, expression T, args []T) (T, error) {
	return b.combine(n, append([]T{expression}, args...)...)
}

func (b BaseReducer[T]) MakeNew(n *NewExpressionSlim, args []T) (T, error) {
	return b.combine(n, args...)
}

func (b BaseReducer[T]) MakeNewArray(n *NewArrayExpressionSlim, exprs []T) (T, error) {
	return b.combine(n, exprs...)
}

func (b BaseReducer[T]) MakeListInit(n *ListInitExpressionSlim, newExpr T, inits []T) (T, error) {
	return b.combine(n, append([]T{newExpr}, inits...)...)
}

func (b BaseReducer[T]) MakeMemberInit(n *MemberInitExpressionSlim, newExpr T, bindings []T) (T, error) {
	return b.combine(n, append([]T{newExpr}, bindings...)...)
}

func (b BaseReducer[T]) MakeElementInit(n *ElementInitSlim, args []T) (T, error) {
	return b.combine(n, args...)
}

func (b BaseReducer[T]) MakeMemberAssignment(m *MemberAssignmentSlim, expression T) (T, error) {
	return b.combine(m, expression)
}

func (b BaseReducer[T]) MakeMemberMemberBinding(m *MemberMemberBindingSlim, bindings []T) (T, error) {
	return b.combine(m, bindings...)
}

func (b BaseReducer[T]) MakeMemberListBinding(m *MemberListBindingSlim, inits []T) (T, error) {
	return b.combine(m, inits...)
}

func (b BaseReducer[T]) MakeIndex(n *IndexExpressionSlim, object T, args []T) (T, error) {
	return b.combine(n, append([]T{object}, args...)...)
}

func (b BaseReducer[T]) MakeBlock(n *BlockExpressionSlim, vars []T, exprs []T) (T, error) {
	return b.combine(n, append(append([]T(nil), vars...), exprs...)...)
}

func (b BaseReducer[T]) MakeLoop(n *LoopExpressionSlim, body, breakLabel, continueLabel T) (T, error) {
	children := present([]T{body}, n.breakLabel != nil, breakLabel)
	return b.combine(n, present(children, n.continueLabel != nil, continueLabel)...)
}

func (b BaseReducer[T]) MakeSwitch(n *SwitchExpressionSlim, value T, cases []T, defaultBody T) (T, error) {
	children := append([]T{value}, cases...)
	return b.combine(n, present(children, n.defaultBody != nil, defaultBody)...)
}

func (b BaseReducer[T]) MakeSwitchCase(c *SwitchCaseSlim, tests []T, body T) (T, error) {
	return b.combine(c, append(append([]T(nil), tests...), body)...)
}

func (b BaseReducer[T]) MakeTry(n *TryExpressionSlim, body T, handlers []T, finally, fault T) (T, error) {
	children := append([]T{body}, handlers...)
	children = present(children, n.finally != nil, finally)
	return b.combine(n, present(children, n.fault != nil, fault)...)
}

func (b BaseReducer[T]) MakeCatchBlock(c *CatchBlockSlim, variable, filter, body T) (T, error) {
	children := present(nil, c.variable != nil, variable)
	children = present(children, c.filter != nil, filter)
	return b.combine(c, append(children, body)...)
}

func (b BaseReducer[T]) MakeGoto(n *GotoExpressionSlim, target, value T) (T, error) {
	return b.combine(n, present([]T{target}, n.value != nil, value)...)
}

func (b BaseReducer[T]) MakeLabel(n *LabelExpressionSlim, target, defaultValue T) (T, error) {
	return b.combine(n, present([]T{target}, n.defaultValue != nil, defaultValue)...)
}

func (b BaseReducer[T]) MakeLabelTarget(t *LabelTargetSlim) (T, error) { return b.combine(t) }

func (b BaseReducer[T]) MakeTypeBinary(n *TypeBinaryExpressionSlim, expression T) (T, error) {
	return b.combine(n, expression)
}

// VisitExtension fails with ErrNotImplemented; override it to fold custom
// node kinds.
func (b BaseReducer[T]) VisitExtension(n ExtensionSlim) (T, error) {
	var zero T
	return zero, ExtensionUnsupported(n)
}

func (BaseReducer[T]) LambdaExpression(l T) T    { return l }
func (BaseReducer[T]) ParameterExpression(p T) T { return p }
func (BaseReducer[T]) NewExpression(n T) T       { return n }
