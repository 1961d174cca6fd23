// Package slimgen narrows native expression trees (package expr) to slim
// trees. Types are narrowed through a typeslim.TypeSpace and members through
// the members.Space built on it; node construction goes through a
// slim.Factory.
package slimgen

import (
	"fmt"
	"reflect"

	"github.com/raymyers/slimexpr/pkg/expr"
	"github.com/raymyers/slimexpr/pkg/members"
	"github.com/raymyers/slimexpr/pkg/slim"
	"github.com/raymyers/slimexpr/pkg/typeslim"
)

// Converter narrows native trees. Parameters and label targets are mapped
// by identity for the duration of one Convert call, so every reference to
// a native parameter becomes a reference to the same slim parameter.
//
// A Converter is not safe for concurrent use.
type Converter struct {
	members *members.Space
	types   *typeslim.TypeSpace
	factory slim.Factory

	params map[*expr.ParameterExpr]*slim.ParameterExpressionSlim
	labels map[*expr.LabelTarget]*slim.LabelTargetSlim
}

// NewConverter creates a narrowing converter
func NewConverter(space *members.Space, factory slim.Factory) (*Converter, error) {
	if space == nil {
		return nil, typeslim.NullArgument("space")
	}
	if factory == nil {
		return nil, typeslim.NullArgument("factory")
	}
	return &Converter{members: space, types: space.Types(), factory: factory}, nil
}

// Convert narrows e. A nil expression converts to nil.
func (c *Converter) Convert(e expr.Expr) (slim.ExpressionSlim, error) {
	c.params = make(map[*expr.ParameterExpr]*slim.ParameterExpressionSlim)
	c.labels = make(map[*expr.LabelTarget]*slim.LabelTargetSlim)
	return c.Visit(e)
}

// ConvertLambda narrows a lambda, keeping the result typed
func (c *Converter) ConvertLambda(l *expr.LambdaExpr) (*slim.LambdaExpressionSlim, error) {
	if l == nil {
		return nil, typeslim.NullArgument("lambda")
	}
	c.params = make(map[*expr.ParameterExpr]*slim.ParameterExpressionSlim)
	c.labels = make(map[*expr.LabelTarget]*slim.LabelTargetSlim)
	return c.translateLambda(l)
}

// Visit narrows e within the current conversion scope
func (c *Converter) Visit(e expr.Expr) (slim.ExpressionSlim, error) {
	if c.params == nil {
		c.params = make(map[*expr.ParameterExpr]*slim.ParameterExpressionSlim)
		c.labels = make(map[*expr.LabelTarget]*slim.LabelTargetSlim)
	}
	switch n := e.(type) {
	case nil:
		return nil, nil
	case *expr.BinaryExpr:
		return c.translateBinary(n)
	case *expr.UnaryExpr:
		return c.translateUnary(n)
	case *expr.ConditionalExpr:
		return c.translateConditional(n)
	case *expr.ConstantExpr:
		return c.translateConstant(n)
	case *expr.DefaultExpr:
		t, err := c.typ(n.T)
		if err != nil {
			return nil, err
		}
		return c.factory.Default(t)
	case *expr.ParameterExpr:
		return lift(c.parameter(n))
	case *expr.LambdaExpr:
		return lift(c.translateLambda(n))
	case *expr.MemberExpr:
		return c.translateMember(n)
	case *expr.CallExpr:
		return c.translateCall(n)
	case *expr.InvokeExpr:
		fn, err := c.Visit(n.Func)
		if err != nil {
			return nil, err
		}
		args, err := c.visitAll(n.Args)
		if err != nil {
			return nil, err
		}
		return c.factory.Invoke(fn, args)
	case *expr.NewExpr:
		return lift(c.translateNew(n))
	case *expr.NewArrayExpr:
		return c.translateNewArray(n)
	case *expr.ListInitExpr:
		return c.translateListInit(n)
	case *expr.MemberInitExpr:
		return c.translateMemberInit(n)
	case *expr.IndexExpr:
		return c.translateIndex(n)
	case *expr.BlockExpr:
		return c.translateBlock(n)
	case *expr.LoopExpr:
		return c.translateLoop(n)
	case *expr.SwitchExpr:
		return c.translateSwitch(n)
	case *expr.TryExpr:
		return c.translateTry(n)
	case *expr.GotoExpr:
		return c.translateGoto(n)
	case *expr.LabelExpr:
		target, err := c.label(n.Target)
		if err != nil {
			return nil, err
		}
		def, err := c.Visit(n.Default)
		if err != nil {
			return nil, err
		}
		return c.factory.Label(target, def)
	case *expr.TypeBinaryExpr:
		operand, err := c.Visit(n.Expr)
		if err != nil {
			return nil, err
		}
		t, err := c.typ(n.TypeOperand)
		if err != nil {
			return nil, err
		}
		return c.factory.TypeBinary(n.Kind, operand, t)
	}
	return nil, fmt.Errorf("slimgen: unsupported node %T", e)
}

// lift returns a concrete node as an interface without producing a typed nil
func lift[T slim.ExpressionSlim](n T, err error) (slim.ExpressionSlim, error) {
	if err != nil {
		return nil, err
	}
	return n, nil
}

func (c *Converter) typ(t reflect.Type) (typeslim.TypeSlim, error) {
	if t == nil {
		return nil, nil
	}
	return c.types.FromType(t)
}

// optType narrows t, mapping void to an absent type
func (c *Converter) optType(t reflect.Type) (typeslim.TypeSlim, error) {
	if t == expr.VoidType {
		return nil, nil
	}
	return c.typ(t)
}

func (c *Converter) method(m *expr.Method) (typeslim.MethodInfoSlim, error) {
	if m == nil {
		return nil, nil
	}
	return c.members.FromMethod(m)
}

func (c *Converter) visitAll(es []expr.Expr) ([]slim.ExpressionSlim, error) {
	out := make([]slim.ExpressionSlim, len(es))
	for i, e := range es {
		s, err := c.Visit(e)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

func (c *Converter) parameter(p *expr.ParameterExpr) (*slim.ParameterExpressionSlim, error) {
	if p == nil {
		return nil, typeslim.NullArgument("parameter")
	}
	if s, ok := c.params[p]; ok {
		return s, nil
	}
	t, err := c.typ(p.T)
	if err != nil {
		return nil, err
	}
	s, err := c.factory.Parameter(t, p.Name)
	if err != nil {
		return nil, err
	}
	c.params[p] = s
	return s, nil
}

func (c *Converter) parameters(ps []*expr.ParameterExpr) ([]*slim.ParameterExpressionSlim, error) {
	out := make([]*slim.ParameterExpressionSlim, len(ps))
	for i, p := range ps {
		s, err := c.parameter(p)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

func (c *Converter) label(l *expr.LabelTarget) (*slim.LabelTargetSlim, error) {
	if l == nil {
		return nil, nil
	}
	if s, ok := c.labels[l]; ok {
		return s, nil
	}
	t, err := c.optType(l.T)
	if err != nil {
		return nil, err
	}
	s, err := c.factory.LabelTarget(t, l.Name)
	if err != nil {
		return nil, err
	}
	c.labels[l] = s
	return s, nil
}

func (c *Converter) translateBinary(n *expr.BinaryExpr) (slim.ExpressionSlim, error) {
	left, err := c.Visit(n.Left)
	if err != nil {
		return nil, err
	}
	right, err := c.Visit(n.Right)
	if err != nil {
		return nil, err
	}
	method, err := c.method(n.Method)
	if err != nil {
		return nil, err
	}
	var conv *slim.LambdaExpressionSlim
	if n.Conversion != nil {
		if conv, err = c.translateLambda(n.Conversion); err != nil {
			return nil, err
		}
	}
	return c.factory.Binary(n.Kind, left, right, n.LiftToNull, method, conv)
}

// Only conversions and throws keep their type; the other unary kinds take
// the type of their operand or method.
func (c *Converter) translateUnary(n *expr.UnaryExpr) (slim.ExpressionSlim, error) {
	operand, err := c.Visit(n.Operand)
	if err != nil {
		return nil, err
	}
	method, err := c.method(n.Method)
	if err != nil {
		return nil, err
	}
	var t typeslim.TypeSlim
	switch n.Kind {
	case expr.Convert, expr.ConvertChecked, expr.TypeAs, expr.Unbox:
		t, err = c.typ(n.T)
	case expr.Throw:
		// an untyped throw is void on both sides
		t, err = c.typ(n.T)
		if t == nil {
			t = typeslim.Void
		}
	}
	if err != nil {
		return nil, err
	}
	return c.factory.Unary(n.Kind, operand, t, method)
}

func (c *Converter) translateConditional(n *expr.ConditionalExpr) (slim.ExpressionSlim, error) {
	test, err := c.Visit(n.Test)
	if err != nil {
		return nil, err
	}
	ifTrue, err := c.Visit(n.IfTrue)
	if err != nil {
		return nil, err
	}
	ifFalse, err := c.Visit(n.IfFalse)
	if err != nil {
		return nil, err
	}
	t, err := c.typ(n.T)
	if err != nil {
		return nil, err
	}
	return c.factory.Conditional(test, ifTrue, ifFalse, t)
}

func (c *Converter) translateConstant(n *expr.ConstantExpr) (slim.ExpressionSlim, error) {
	t, err := c.typ(n.T)
	if err != nil {
		return nil, err
	}
	obj, err := slim.NewObjectSlim(n.Value, t, n.T)
	if err != nil {
		return nil, err
	}
	return c.factory.Constant(obj, t)
}

func (c *Converter) translateLambda(n *expr.LambdaExpr) (*slim.LambdaExpressionSlim, error) {
	params, err := c.parameters(n.Params)
	if err != nil {
		return nil, err
	}
	body, err := c.Visit(n.Body)
	if err != nil {
		return nil, err
	}
	t, err := c.typ(n.T)
	if err != nil {
		return nil, err
	}
	return c.factory.Lambda(t, body, params)
}

func (c *Converter) translateMember(n *expr.MemberExpr) (slim.ExpressionSlim, error) {
	obj, err := c.Visit(n.Object)
	if err != nil {
		return nil, err
	}
	m, err := c.members.FromMember(n.Member)
	if err != nil {
		return nil, err
	}
	return c.factory.MemberAccess(obj, m)
}

func (c *Converter) translateCall(n *expr.CallExpr) (slim.ExpressionSlim, error) {
	obj, err := c.Visit(n.Object)
	if err != nil {
		return nil, err
	}
	m, err := c.members.FromMethod(n.Method)
	if err != nil {
		return nil, err
	}
	args, err := c.visitAll(n.Args)
	if err != nil {
		return nil, err
	}
	return c.factory.Call(obj, m, args)
}

func (c *Converter) translateNew(n *expr.NewExpr) (*slim.NewExpressionSlim, error) {
	if n == nil {
		return nil, typeslim.NullArgument("new")
	}
	if n.Constructor == nil {
		t, err := c.typ(n.T)
		if err != nil {
			return nil, err
		}
		return c.factory.NewValue(t)
	}
	ctor, err := c.members.FromConstructor(n.Constructor)
	if err != nil {
		return nil, err
	}
	args, err := c.visitAll(n.Args)
	if err != nil {
		return nil, err
	}
	return c.factory.New(ctor, args)
}

func (c *Converter) translateNewArray(n *expr.NewArrayExpr) (slim.ExpressionSlim, error) {
	elem, err := c.typ(n.ElemType)
	if err != nil {
		return nil, err
	}
	exprs, err := c.visitAll(n.Exprs)
	if err != nil {
		return nil, err
	}
	return c.factory.NewArray(n.Kind, elem, exprs)
}

func (c *Converter) elementInits(inits []*expr.ElementInit) ([]*slim.ElementInitSlim, error) {
	out := make([]*slim.ElementInitSlim, len(inits))
	for i, in := range inits {
		if in == nil {
			return nil, typeslim.NullArgument(fmt.Sprintf("initializers[%d]", i))
		}
		m, err := c.members.FromMethod(in.AddMethod)
		if err != nil {
			return nil, err
		}
		args, err := c.visitAll(in.Args)
		if err != nil {
			return nil, err
		}
		if out[i], err = c.factory.ElementInit(m, args); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (c *Converter) translateListInit(n *expr.ListInitExpr) (slim.ExpressionSlim, error) {
	ne, err := c.translateNew(n.New)
	if err != nil {
		return nil, err
	}
	inits, err := c.elementInits(n.Initializers)
	if err != nil {
		return nil, err
	}
	return c.factory.ListInit(ne, inits)
}

func (c *Converter) translateMemberInit(n *expr.MemberInitExpr) (slim.ExpressionSlim, error) {
	ne, err := c.translateNew(n.New)
	if err != nil {
		return nil, err
	}
	bindings, err := c.bindings(n.Bindings)
	if err != nil {
		return nil, err
	}
	return c.factory.MemberInit(ne, bindings)
}

func (c *Converter) bindings(bs []expr.MemberBinding) ([]slim.MemberBindingSlim, error) {
	out := make([]slim.MemberBindingSlim, len(bs))
	for i, b := range bs {
		s, err := c.binding(b)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

func (c *Converter) binding(b expr.MemberBinding) (slim.MemberBindingSlim, error) {
	if b == nil {
		return nil, typeslim.NullArgument("binding")
	}
	m, err := c.members.FromMember(b.BoundMember())
	if err != nil {
		return nil, err
	}
	switch b := b.(type) {
	case *expr.MemberAssignment:
		e, err := c.Visit(b.Expr)
		if err != nil {
			return nil, err
		}
		return c.factory.MemberAssignment(m, e)
	case *expr.MemberMemberBinding:
		nested, err := c.bindings(b.Bindings)
		if err != nil {
			return nil, err
		}
		return c.factory.MemberMemberBinding(m, nested)
	case *expr.MemberListBinding:
		inits, err := c.elementInits(b.Initializers)
		if err != nil {
			return nil, err
		}
		return c.factory.MemberListBinding(m, inits)
	}
	return nil, fmt.Errorf("slimgen: unsupported binding %T", b)
}

func (c *Converter) translateIndex(n *expr.IndexExpr) (slim.ExpressionSlim, error) {
	obj, err := c.Visit(n.Object)
	if err != nil {
		return nil, err
	}
	var indexer *typeslim.PropertyInfoSlim
	if n.Indexer != nil {
		if indexer, err = c.members.FromProperty(n.Indexer); err != nil {
			return nil, err
		}
	}
	args, err := c.visitAll(n.Args)
	if err != nil {
		return nil, err
	}
	return c.factory.Index(obj, indexer, args)
}

func (c *Converter) translateBlock(n *expr.BlockExpr) (slim.ExpressionSlim, error) {
	vars, err := c.parameters(n.Variables)
	if err != nil {
		return nil, err
	}
	exprs, err := c.visitAll(n.Exprs)
	if err != nil {
		return nil, err
	}
	t, err := c.typ(n.T)
	if err != nil {
		return nil, err
	}
	return c.factory.Block(t, vars, exprs)
}

func (c *Converter) translateLoop(n *expr.LoopExpr) (slim.ExpressionSlim, error) {
	brk, err := c.label(n.Break)
	if err != nil {
		return nil, err
	}
	cont, err := c.label(n.Continue)
	if err != nil {
		return nil, err
	}
	body, err := c.Visit(n.Body)
	if err != nil {
		return nil, err
	}
	return c.factory.Loop(body, brk, cont)
}

func (c *Converter) translateSwitch(n *expr.SwitchExpr) (slim.ExpressionSlim, error) {
	value, err := c.Visit(n.Value)
	if err != nil {
		return nil, err
	}
	cases := make([]*slim.SwitchCaseSlim, len(n.Cases))
	for i, sc := range n.Cases {
		if sc == nil {
			return nil, typeslim.NullArgument(fmt.Sprintf("cases[%d]", i))
		}
		tests, err := c.visitAll(sc.TestValues)
		if err != nil {
			return nil, err
		}
		body, err := c.Visit(sc.Body)
		if err != nil {
			return nil, err
		}
		if cases[i], err = c.factory.SwitchCase(body, tests); err != nil {
			return nil, err
		}
	}
	def, err := c.Visit(n.Default)
	if err != nil {
		return nil, err
	}
	cmp, err := c.method(n.Comparison)
	if err != nil {
		return nil, err
	}
	t, err := c.typ(n.T)
	if err != nil {
		return nil, err
	}
	return c.factory.Switch(t, value, def, cmp, cases)
}

func (c *Converter) translateTry(n *expr.TryExpr) (slim.ExpressionSlim, error) {
	body, err := c.Visit(n.Body)
	if err != nil {
		return nil, err
	}
	handlers := make([]*slim.CatchBlockSlim, len(n.Handlers))
	for i, h := range n.Handlers {
		if h == nil {
			return nil, typeslim.NullArgument(fmt.Sprintf("handlers[%d]", i))
		}
		test, err := c.typ(h.Test)
		if err != nil {
			return nil, err
		}
		var variable *slim.ParameterExpressionSlim
		if h.Variable != nil {
			if variable, err = c.parameter(h.Variable); err != nil {
				return nil, err
			}
		}
		filter, err := c.Visit(h.Filter)
		if err != nil {
			return nil, err
		}
		hb, err := c.Visit(h.Body)
		if err != nil {
			return nil, err
		}
		if handlers[i], err = c.factory.CatchBlock(test, variable, hb, filter); err != nil {
			return nil, err
		}
	}
	finally, err := c.Visit(n.Finally)
	if err != nil {
		return nil, err
	}
	fault, err := c.Visit(n.Fault)
	if err != nil {
		return nil, err
	}
	t, err := c.typ(n.T)
	if err != nil {
		return nil, err
	}
	return c.factory.Try(t, body, finally, fault, handlers)
}

func (c *Converter) translateGoto(n *expr.GotoExpr) (slim.ExpressionSlim, error) {
	target, err := c.label(n.Target)
	if err != nil {
		return nil, err
	}
	value, err := c.Visit(n.Value)
	if err != nil {
		return nil, err
	}
	t, err := c.optType(n.T)
	if err != nil {
		return nil, err
	}
	return c.factory.Goto(n.Kind, target, value, t)
}
