// Package exprgen widens slim trees back to native expression trees
// (package expr). It is the inverse of slimgen: portable types and members
// are resolved to live handles through a members.Space, and ObjectSlim
// constants are reduced to values of their native type.
package exprgen

import (
	"reflect"

	"github.com/raymyers/slimexpr/pkg/expr"
	"github.com/raymyers/slimexpr/pkg/members"
	"github.com/raymyers/slimexpr/pkg/slim"
	"github.com/raymyers/slimexpr/pkg/typeslim"
)

type folder = slim.Folder[expr.Expr, *expr.LambdaExpr, *expr.ParameterExpr, *expr.NewExpr,
	*expr.ElementInit, expr.MemberBinding, *expr.CatchBlock, *expr.SwitchCase, *expr.LabelTarget]

// Converter widens slim trees. It is the slim.Reducer of a fold over the
// slim tree: children are widened first and each Make hook builds the
// native node through the expr.Factory. Parameters and label targets are
// mapped by identity within one Convert call.
//
// A Converter is not safe for concurrent use.
type Converter struct {
	members *members.Space
	types   *typeslim.TypeSpace
	factory expr.Factory
	fold    *folder

	params map[*slim.ParameterExpressionSlim]*expr.ParameterExpr
	labels map[*slim.LabelTargetSlim]*expr.LabelTarget
}

var _ slim.Reducer[expr.Expr, *expr.LambdaExpr, *expr.ParameterExpr, *expr.NewExpr,
	*expr.ElementInit, expr.MemberBinding, *expr.CatchBlock, *expr.SwitchCase, *expr.LabelTarget] = (*Converter)(nil)

// NewConverter creates a widening converter
func NewConverter(space *members.Space, factory expr.Factory) (*Converter, error) {
	if space == nil {
		return nil, typeslim.NullArgument("space")
	}
	if factory == nil {
		return nil, typeslim.NullArgument("factory")
	}
	c := &Converter{members: space, types: space.Types(), factory: factory}
	fold, err := slim.NewFolder[expr.Expr, *expr.LambdaExpr, *expr.ParameterExpr, *expr.NewExpr,
		*expr.ElementInit, expr.MemberBinding, *expr.CatchBlock, *expr.SwitchCase, *expr.LabelTarget](c)
	if err != nil {
		return nil, err
	}
	c.fold = fold
	c.reset()
	return c, nil
}

func (c *Converter) reset() {
	c.params = make(map[*slim.ParameterExpressionSlim]*expr.ParameterExpr)
	c.labels = make(map[*slim.LabelTargetSlim]*expr.LabelTarget)
}

// Convert widens e. A nil expression converts to nil.
func (c *Converter) Convert(e slim.ExpressionSlim) (expr.Expr, error) {
	c.reset()
	return c.fold.Visit(e)
}

// ConvertLambda widens a lambda, keeping the result typed so it can be
// compiled directly.
func (c *Converter) ConvertLambda(l *slim.LambdaExpressionSlim) (*expr.LambdaExpr, error) {
	c.reset()
	return c.fold.VisitLambda(l)
}

func node[T expr.Expr](n T, err error) (expr.Expr, error) {
	if err != nil {
		return nil, err
	}
	return n, nil
}

func binding[T expr.MemberBinding](b T, err error) (expr.MemberBinding, error) {
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (c *Converter) typ(t typeslim.TypeSlim) (reflect.Type, error) {
	if t == nil {
		return nil, nil
	}
	return c.types.ToType(t)
}

func (c *Converter) method(m typeslim.MethodInfoSlim) (*expr.Method, error) {
	if m == nil {
		return nil, nil
	}
	return c.members.ToMethod(m)
}

func (c *Converter) MakeBinary(n *slim.BinaryExpressionSlim, left, right expr.Expr, conversion *expr.LambdaExpr) (expr.Expr, error) {
	m, err := c.method(n.Method())
	if err != nil {
		return nil, err
	}
	return node(c.factory.Binary(n.NodeType(), left, right, n.IsLiftedToNull(), m, conversion))
}

func (c *Converter) MakeUnary(n *slim.UnaryExpressionSlim, operand expr.Expr) (expr.Expr, error) {
	m, err := c.method(n.Method())
	if err != nil {
		return nil, err
	}
	t, err := c.typ(n.Type())
	if err != nil {
		return nil, err
	}
	return node(c.factory.Unary(n.NodeType(), operand, t, m))
}

func (c *Converter) MakeConditional(n *slim.ConditionalExpressionSlim, test, ifTrue, ifFalse expr.Expr) (expr.Expr, error) {
	t, err := c.typ(n.Type())
	if err != nil {
		return nil, err
	}
	return node(c.factory.Conditional(test, ifTrue, ifFalse, t))
}

// MakeConstant reduces the constant value to the widened type
func (c *Converter) MakeConstant(n *slim.ConstantExpressionSlim) (expr.Expr, error) {
	t, err := c.typ(n.Type())
	if err != nil {
		return nil, err
	}
	v, err := n.Value().Reduce(t)
	if err != nil {
		return nil, err
	}
	return node(c.factory.Constant(v, t))
}

func (c *Converter) MakeDefault(n *slim.DefaultExpressionSlim) (expr.Expr, error) {
	t, err := c.typ(n.Type())
	if err != nil {
		return nil, err
	}
	return node(c.factory.Default(t))
}

func (c *Converter) MakeParameter(n *slim.ParameterExpressionSlim) (*expr.ParameterExpr, error) {
	if p, ok := c.params[n]; ok {
		return p, nil
	}
	t, err := c.typ(n.Type())
	if err != nil {
		return nil, err
	}
	p, err := c.factory.Parameter(t, n.Name())
	if err != nil {
		return nil, err
	}
	c.params[n] = p
	return p, nil
}

func (c *Converter) MakeLambda(n *slim.LambdaExpressionSlim, body expr.Expr, params []*expr.ParameterExpr) (*expr.LambdaExpr, error) {
	t, err := c.typ(n.Type())
	if err != nil {
		return nil, err
	}
	return c.factory.Lambda(t, body, params)
}

func (c *Converter) MakeMember(n *slim.MemberExpressionSlim, expression expr.Expr) (expr.Expr, error) {
	m, err := c.members.ToMember(n.Member())
	if err != nil {
		return nil, err
	}
	return node(c.factory.MemberAccess(expression, m))
}

func (c *Converter) MakeMethodCall(n *slim.MethodCallExpressionSlim, object expr.Expr, args []expr.Expr) (expr.Expr, error) {
	m, err := c.members.ToMethod(n.Method())
	if err != nil {
		return nil, err
	}
	return node(c.factory.Call(object, m, args))
}

func (c *Converter) MakeInvocation(n *slim.InvocationExpressionSlim, expression expr.Expr, args []expr.Expr) (expr.Expr, error) {
	return node(c.factory.Invoke(expression, args))
}

func (c *Converter) MakeNew(n *slim.NewExpressionSlim, args []expr.Expr) (*expr.NewExpr, error) {
	if n.Constructor() == nil {
		t, err := c.typ(n.Type())
		if err != nil {
			return nil, err
		}
		return c.factory.NewValue(t)
	}
	ctor, err := c.members.ToConstructor(n.Constructor())
	if err != nil {
		return nil, err
	}
	return c.factory.New(ctor, args)
}

func (c *Converter) MakeNewArray(n *slim.NewArrayExpressionSlim, exprs []expr.Expr) (expr.Expr, error) {
	elem, err := c.typ(n.ElementType())
	if err != nil {
		return nil, err
	}
	return node(c.factory.NewArray(n.NodeType(), elem, exprs))
}

func (c *Converter) MakeListInit(n *slim.ListInitExpressionSlim, newExpr *expr.NewExpr, inits []*expr.ElementInit) (expr.Expr, error) {
	return node(c.factory.ListInit(newExpr, inits))
}

func (c *Converter) MakeMemberInit(n *slim.MemberInitExpressionSlim, newExpr *expr.NewExpr, bindings []expr.MemberBinding) (expr.Expr, error) {
	return node(c.factory.MemberInit(newExpr, bindings))
}

func (c *Converter) MakeElementInit(n *slim.ElementInitSlim, args []expr.Expr) (*expr.ElementInit, error) {
	m, err := c.members.ToMethod(n.AddMethod())
	if err != nil {
		return nil, err
	}
	return c.factory.ElementInit(m, args)
}

func (c *Converter) MakeMemberAssignment(b *slim.MemberAssignmentSlim, expression expr.Expr) (expr.MemberBinding, error) {
	m, err := c.members.ToMember(b.Member())
	if err != nil {
		return nil, err
	}
	return binding(c.factory.MemberAssignment(m, expression))
}

func (c *Converter) MakeMemberMemberBinding(b *slim.MemberMemberBindingSlim, bindings []expr.MemberBinding) (expr.MemberBinding, error) {
	m, err := c.members.ToMember(b.Member())
	if err != nil {
		return nil, err
	}
	return binding(c.factory.MemberMemberBinding(m, bindings))
}

func (c *Converter) MakeMemberListBinding(b *slim.MemberListBindingSlim, inits []*expr.ElementInit) (expr.MemberBinding, error) {
	m, err := c.members.ToMember(b.Member())
	if err != nil {
		return nil, err
	}
	return binding(c.factory.MemberListBinding(m, inits))
}

func (c *Converter) MakeIndex(n *slim.IndexExpressionSlim, object expr.Expr, args []expr.Expr) (expr.Expr, error) {
	var indexer *expr.Property
	if n.Indexer() != nil {
		var err error
		if indexer, err = c.members.ToProperty(n.Indexer()); err != nil {
			return nil, err
		}
	}
	return node(c.factory.Index(object, indexer, args))
}

func (c *Converter) MakeBlock(n *slim.BlockExpressionSlim, vars []*expr.ParameterExpr, exprs []expr.Expr) (expr.Expr, error) {
	t, err := c.typ(n.Type())
	if err != nil {
		return nil, err
	}
	return node(c.factory.Block(t, vars, exprs))
}

func (c *Converter) MakeLoop(n *slim.LoopExpressionSlim, body expr.Expr, breakLabel, continueLabel *expr.LabelTarget) (expr.Expr, error) {
	return node(c.factory.Loop(body, breakLabel, continueLabel))
}

func (c *Converter) MakeSwitch(n *slim.SwitchExpressionSlim, value expr.Expr, cases []*expr.SwitchCase, defaultBody expr.Expr) (expr.Expr, error) {
	cmp, err := c.method(n.Comparison())
	if err != nil {
		return nil, err
	}
	t, err := c.typ(n.Type())
	if err != nil {
		return nil, err
	}
	return node(c.factory.Switch(t, value, defaultBody, cmp, cases))
}

func (c *Converter) MakeSwitchCase(sc *slim.SwitchCaseSlim, tests []expr.Expr, body expr.Expr) (*expr.SwitchCase, error) {
	return c.factory.SwitchCase(body, tests)
}

func (c *Converter) MakeTry(n *slim.TryExpressionSlim, body expr.Expr, handlers []*expr.CatchBlock, finally, fault expr.Expr) (expr.Expr, error) {
	t, err := c.typ(n.Type())
	if err != nil {
		return nil, err
	}
	return node(c.factory.Try(t, body, finally, fault, handlers))
}

func (c *Converter) MakeCatchBlock(cb *slim.CatchBlockSlim, variable *expr.ParameterExpr, filter, body expr.Expr) (*expr.CatchBlock, error) {
	test, err := c.typ(cb.Test())
	if err != nil {
		return nil, err
	}
	return c.factory.CatchBlock(test, variable, body, filter)
}

func (c *Converter) MakeGoto(n *slim.GotoExpressionSlim, target *expr.LabelTarget, value expr.Expr) (expr.Expr, error) {
	t, err := c.typ(n.Type())
	if err != nil {
		return nil, err
	}
	return node(c.factory.Goto(n.Kind(), target, value, t))
}

func (c *Converter) MakeLabel(n *slim.LabelExpressionSlim, target *expr.LabelTarget, defaultValue expr.Expr) (expr.Expr, error) {
	return node(c.factory.Label(target, defaultValue))
}

func (c *Converter) MakeLabelTarget(t *slim.LabelTargetSlim) (*expr.LabelTarget, error) {
	if l, ok := c.labels[t]; ok {
		return l, nil
	}
	typ, err := c.typ(t.Type())
	if err != nil {
		return nil, err
	}
	l, err := c.factory.LabelTarget(typ, t.Name())
	if err != nil {
		return nil, err
	}
	c.labels[t] = l
	return l, nil
}

func (c *Converter) MakeTypeBinary(n *slim.TypeBinaryExpressionSlim, expression expr.Expr) (expr.Expr, error) {
	t, err := c.typ(n.TypeOperand())
	if err != nil {
		return nil, err
	}
	return node(c.factory.TypeBinary(n.NodeType(), expression, t))
}

// VisitExtension fails: extension nodes have no native counterpart
func (c *Converter) VisitExtension(n slim.ExtensionSlim) (expr.Expr, error) {
	return nil, slim.ExtensionUnsupported(n)
}

func (c *Converter) LambdaExpression(l *expr.LambdaExpr) expr.Expr {
	if l == nil {
		return nil
	}
	return l
}

func (c *Converter) ParameterExpression(p *expr.ParameterExpr) expr.Expr {
	if p == nil {
		return nil
	}
	return p
}

func (c *Converter) NewExpression(n *expr.NewExpr) expr.Expr {
	if n == nil {
		return nil
	}
	return n
}
