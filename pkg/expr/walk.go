package expr

// Inspect traverses the tree rooted at e in depth-first order, calling f for
// each node. If f returns false, the children of that node are skipped.
// Nil children are not visited.
func Inspect(e Expr, f func(Expr) bool) {
	if e == nil || !f(e) {
		return
	}
	each := func(es ...Expr) {
		for _, c := range es {
			Inspect(c, f)
		}
	}
	inits := func(in []*ElementInit) {
		for _, i := range in {
			each(i.Args...)
		}
	}
	var bindings func([]MemberBinding)
	bindings = func(bs []MemberBinding) {
		for _, b := range bs {
			switch b := b.(type) {
			case *MemberAssignment:
				each(b.Expr)
			case *MemberMemberBinding:
				bindings(b.Bindings)
			case *MemberListBinding:
				inits(b.Initializers)
			}
		}
	}

	switch n := e.(type) {
	case *BinaryExpr:
		each(n.Left, n.Right)
		if n.Conversion != nil {
			each(n.Conversion)
		}
	case *UnaryExpr:
		each(n.Operand)
	case *ConditionalExpr:
		each(n.Test, n.IfTrue, n.IfFalse)
	case *ConstantExpr, *DefaultExpr, *ParameterExpr:
	case *LambdaExpr:
		for _, p := range n.Params {
			each(p)
		}
		each(n.Body)
	case *MemberExpr:
		each(n.Object)
	case *CallExpr:
		each(n.Object)
		each(n.Args...)
	case *InvokeExpr:
		each(n.Func)
		each(n.Args...)
	case *NewExpr:
		each(n.Args...)
	case *NewArrayExpr:
		each(n.Exprs...)
	case *ListInitExpr:
		each(n.New)
		inits(n.Initializers)
	case *MemberInitExpr:
		each(n.New)
		bindings(n.Bindings)
	case *IndexExpr:
		each(n.Object)
		each(n.Args...)
	case *BlockExpr:
		for _, v := range n.Variables {
			each(v)
		}
		each(n.Exprs...)
	case *LoopExpr:
		each(n.Body)
	case *SwitchExpr:
		each(n.Value)
		for _, c := range n.Cases {
			each(c.TestValues...)
			each(c.Body)
		}
		each(n.Default)
	case *TryExpr:
		each(n.Body)
		for _, h := range n.Handlers {
			if h.Variable != nil {
				each(h.Variable)
			}
			each(h.Filter, h.Body)
		}
		each(n.Finally, n.Fault)
	case *GotoExpr:
		each(n.Value)
	case *LabelExpr:
		each(n.Default)
	case *TypeBinaryExpr:
		each(n.Expr)
	}
}
