package exprdoc

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/raymyers/slimexpr/pkg/expr"
	"github.com/raymyers/slimexpr/pkg/typeslim"
	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownOp        = errors.New("unknown op")
	ErrUndeclared       = errors.New("undeclared parameter")
	ErrArity            = errors.New("wrong number of arguments")
	ErrNoMatchingMember = errors.New("no matching member")
)

// Builder turns document nodes into native trees. Parameter references are
// resolved lexically against enclosing lambdas, blocks and catch handlers;
// a reference to an undeclared name is an error unless it carries a type,
// in which case it becomes a free parameter shared by every reference with
// that name. Labels are scoped to one Build call.
//
// A Builder is not safe for concurrent use.
type Builder struct {
	resolver typeslim.Resolver
	aliases  map[string]reflect.Type

	scopes []map[string]*expr.ParameterExpr
	free   map[string]*expr.ParameterExpr
	labels map[string]*expr.LabelTarget
}

// NewBuilder creates a builder resolving type and function names through r.
// aliases name additional types, taking precedence over r.
func NewBuilder(r typeslim.Resolver, aliases map[string]reflect.Type) (*Builder, error) {
	if r == nil {
		return nil, typeslim.NullArgument("resolver")
	}
	return &Builder{resolver: r, aliases: aliases}, nil
}

// Build converts a document into a native tree
func (b *Builder) Build(n *Node) (expr.Expr, error) {
	if n == nil {
		return nil, typeslim.NullArgument("node")
	}
	b.scopes = nil
	b.free = make(map[string]*expr.ParameterExpr)
	b.labels = make(map[string]*expr.LabelTarget)
	return b.build(n)
}

// BuildLambda converts a document whose root is a Lambda
func (b *Builder) BuildLambda(n *Node) (*expr.LambdaExpr, error) {
	e, err := b.Build(n)
	if err != nil {
		return nil, err
	}
	l, ok := e.(*expr.LambdaExpr)
	if !ok {
		return nil, &Error{Line: n.line, Op: n.Op, Err: errors.New("document root is not a Lambda")}
	}
	return l, nil
}

func node[T expr.Expr](n T, err error) (expr.Expr, error) {
	if err != nil {
		return nil, err
	}
	return n, nil
}

func (b *Builder) build(n *Node) (expr.Expr, error) {
	if n == nil {
		return nil, nil
	}
	e, err := b.dispatch(n)
	if err != nil {
		var de *Error
		if errors.As(err, &de) {
			return nil, err
		}
		return nil, &Error{Line: n.line, Op: n.Op, Err: err}
	}
	return e, nil
}

func (b *Builder) dispatch(n *Node) (expr.Expr, error) {
	switch n.Op {
	case "Goto":
		return b.jump(n, expr.GotoKind)
	case "Break":
		return b.jump(n, expr.BreakKind)
	case "Continue":
		return b.jump(n, expr.ContinueKind)
	case "Return":
		return b.jump(n, expr.ReturnKind)
	}
	kind, ok := expr.ParseExpressionType(n.Op)
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownOp, n.Op)
	}
	switch {
	case kind.IsBinary():
		return b.binary(n, kind)
	case kind.IsUnary():
		return b.unary(n, kind)
	}
	switch kind {
	case expr.Constant:
		return b.constant(n)
	case expr.Default:
		t, err := b.requireType(n.Type)
		if err != nil {
			return nil, err
		}
		return node(expr.MakeDefault(t))
	case expr.Parameter:
		return b.reference(n)
	case expr.Lambda:
		return node(b.lambda(n))
	case expr.Conditional:
		return b.conditional(n)
	case expr.Call:
		return b.call(n)
	case expr.Invoke:
		args, err := b.args(n, 1, -1)
		if err != nil {
			return nil, err
		}
		return node(expr.MakeInvoke(args[0], args[1:]))
	case expr.MemberAccess:
		return b.member(n)
	case expr.New:
		return node(b.newExpr(n))
	case expr.NewArrayInit, expr.NewArrayBounds:
		elem, err := b.requireType(n.Type)
		if err != nil {
			return nil, err
		}
		args, err := b.args(n, 0, -1)
		if err != nil {
			return nil, err
		}
		return node(expr.MakeNewArray(kind, elem, args))
	case expr.Index:
		args, err := b.args(n, 2, -1)
		if err != nil {
			return nil, err
		}
		return node(expr.MakeIndex(args[0], nil, args[1:]))
	case expr.MemberInit:
		return b.memberInit(n)
	case expr.Block:
		return b.block(n)
	case expr.Loop:
		return b.loop(n)
	case expr.Label:
		return b.label(n)
	case expr.Switch:
		return b.switchExpr(n)
	case expr.Try:
		return b.try(n)
	case expr.TypeIs, expr.TypeEqual:
		args, err := b.args(n, 1, 1)
		if err != nil {
			return nil, err
		}
		t, err := b.requireType(n.Type)
		if err != nil {
			return nil, err
		}
		return node(expr.MakeTypeBinary(kind, args[0], t))
	}
	return nil, fmt.Errorf("%w %q: no document form", ErrUnknownOp, n.Op)
}

// args builds n.Args, checking that there are between lo and hi of them
// (hi < 0 means no upper bound).
func (b *Builder) args(n *Node, lo, hi int) ([]expr.Expr, error) {
	if len(n.Args) < lo || (hi >= 0 && len(n.Args) > hi) {
		return nil, fmt.Errorf("%w: got %d", ErrArity, len(n.Args))
	}
	return b.all(n.Args)
}

func (b *Builder) all(nodes []*Node) ([]expr.Expr, error) {
	out := make([]expr.Expr, len(nodes))
	for i, a := range nodes {
		e, err := b.build(a)
		if err != nil {
			return nil, err
		}
		out[i] = e
	}
	return out, nil
}

func (b *Builder) binary(n *Node, kind expr.ExpressionType) (expr.Expr, error) {
	args, err := b.args(n, 2, 2)
	if err != nil {
		return nil, err
	}
	return node(expr.MakeBinary(kind, args[0], args[1], false, nil, nil))
}

func (b *Builder) unary(n *Node, kind expr.ExpressionType) (expr.Expr, error) {
	lo := 1
	if kind == expr.Throw {
		lo = 0
	}
	args, err := b.args(n, lo, 1)
	if err != nil {
		return nil, err
	}
	t, err := b.ParseType(n.Type)
	if err != nil {
		return nil, err
	}
	var operand expr.Expr
	if len(args) == 1 {
		operand = args[0]
	}
	return node(expr.MakeUnary(kind, operand, t, nil))
}

func (b *Builder) conditional(n *Node) (expr.Expr, error) {
	args, err := b.args(n, 3, 3)
	if err != nil {
		return nil, err
	}
	t, err := b.ParseType(n.Type)
	if err != nil {
		return nil, err
	}
	return node(expr.MakeConditional(args[0], args[1], args[2], t))
}

// constant decodes the YAML literal into the node type. Without a type the
// literal's own tag decides: int, float64, bool or string.
func (b *Builder) constant(n *Node) (expr.Expr, error) {
	t, err := b.ParseType(n.Type)
	if err != nil {
		return nil, err
	}
	if n.Value.ShortTag() == "!!null" {
		if t == nil {
			return nil, errors.New("a null constant needs a type")
		}
		return node(expr.MakeConstant(nil, t))
	}
	if t == nil {
		if t, err = literalType(&n.Value); err != nil {
			return nil, err
		}
	}
	v := reflect.New(t)
	if err := n.Value.Decode(v.Interface()); err != nil {
		return nil, err
	}
	return node(expr.MakeConstant(v.Elem().Interface(), t))
}

func literalType(v *yaml.Node) (reflect.Type, error) {
	switch v.ShortTag() {
	case "!!int":
		return reflect.TypeFor[int](), nil
	case "!!float":
		return reflect.TypeFor[float64](), nil
	case "!!bool":
		return reflect.TypeFor[bool](), nil
	case "!!str":
		return reflect.TypeFor[string](), nil
	}
	return nil, fmt.Errorf("cannot infer a type for %s literal", v.ShortTag())
}

func (b *Builder) declare(vars []Var) ([]*expr.ParameterExpr, error) {
	scope := make(map[string]*expr.ParameterExpr, len(vars))
	params := make([]*expr.ParameterExpr, len(vars))
	for i, v := range vars {
		t, err := b.requireType(v.Type)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", v.Name, err)
		}
		p, err := expr.MakeParameter(t, v.Name)
		if err != nil {
			return nil, err
		}
		if _, dup := scope[v.Name]; dup {
			return nil, fmt.Errorf("%s declared twice", v.Name)
		}
		scope[v.Name] = p
		params[i] = p
	}
	b.scopes = append(b.scopes, scope)
	return params, nil
}

func (b *Builder) pop() { b.scopes = b.scopes[:len(b.scopes)-1] }

func (b *Builder) reference(n *Node) (expr.Expr, error) {
	for i := len(b.scopes) - 1; i >= 0; i-- {
		if p, ok := b.scopes[i][n.Name]; ok {
			return p, nil
		}
	}
	if p, ok := b.free[n.Name]; ok {
		return p, nil
	}
	if n.Type == "" {
		return nil, fmt.Errorf("%w %q", ErrUndeclared, n.Name)
	}
	t, err := b.ParseType(n.Type)
	if err != nil {
		return nil, err
	}
	p, err := expr.MakeParameter(t, n.Name)
	if err != nil {
		return nil, err
	}
	b.free[n.Name] = p
	return p, nil
}

func (b *Builder) lambda(n *Node) (*expr.LambdaExpr, error) {
	params, err := b.declare(n.Params)
	if err != nil {
		return nil, err
	}
	defer b.pop()
	body, err := b.build(n.Body)
	if err != nil {
		return nil, err
	}
	return expr.MakeLambda(nil, body, params)
}

// call resolves a dotted name (pkg.Func) as a registered package function
// and a plain name as a method of the first argument.
func (b *Builder) call(n *Node) (expr.Expr, error) {
	if i := strings.LastIndex(n.Name, "."); i > 0 {
		args, err := b.args(n, 0, -1)
		if err != nil {
			return nil, err
		}
		pkg, name := n.Name[:i], n.Name[i+1:]
		for _, fn := range b.resolver.ResolveFuncs(pkg, name) {
			if fn.Type().NumIn() == len(args) || fn.Type().IsVariadic() {
				m, err := expr.FuncOf(pkg, name, fn.Interface())
				if err != nil {
					return nil, err
				}
				return node(expr.MakeCall(nil, m, args))
			}
		}
		return nil, fmt.Errorf("%w: function %s", ErrNoMatchingMember, n.Name)
	}
	args, err := b.args(n, 1, -1)
	if err != nil {
		return nil, err
	}
	m, err := expr.MethodOf(args[0].Type(), n.Name)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoMatchingMember, err)
	}
	return node(expr.MakeCall(args[0], m, args[1:]))
}

func (b *Builder) memberOf(t reflect.Type, name string) (expr.Member, error) {
	if f, err := expr.FieldOf(t, name); err == nil {
		return f, nil
	}
	if p, err := expr.PropertyOf(t, name); err == nil {
		return p, nil
	}
	return nil, fmt.Errorf("%w: %s.%s", ErrNoMatchingMember, t, name)
}

func (b *Builder) member(n *Node) (expr.Expr, error) {
	args, err := b.args(n, 1, 1)
	if err != nil {
		return nil, err
	}
	m, err := b.memberOf(args[0].Type(), n.Name)
	if err != nil {
		return nil, err
	}
	return node(expr.MakeMemberAccess(args[0], m))
}

// newExpr picks the registered constructor of the type with a matching
// arity. Without arguments and constructors the zero value is created.
func (b *Builder) newExpr(n *Node) (*expr.NewExpr, error) {
	t, err := b.requireType(n.Type)
	if err != nil {
		return nil, err
	}
	args, err := b.args(n, 0, -1)
	if err != nil {
		return nil, err
	}
	for _, fn := range b.resolver.ResolveConstructors(t) {
		if fn.Type().NumIn() == len(args) {
			ctor, err := expr.ConstructorOf(fn.Interface())
			if err != nil {
				return nil, err
			}
			return expr.MakeNew(ctor, args)
		}
	}
	if len(args) == 0 {
		return expr.MakeNewValue(t)
	}
	return nil, fmt.Errorf("%w: constructor of %s with %d arguments", ErrNoMatchingMember, t, len(args))
}

func (b *Builder) memberInit(n *Node) (expr.Expr, error) {
	if n.Body == nil || n.Body.Op != "New" {
		return nil, errors.New("MemberInit body must be a New node")
	}
	ne, err := b.newExpr(n.Body)
	if err != nil {
		return nil, &Error{Line: n.Body.line, Op: n.Body.Op, Err: err}
	}
	bindings := make([]expr.MemberBinding, len(n.Bindings))
	for i, bd := range n.Bindings {
		m, err := b.memberOf(ne.Type(), bd.Member)
		if err != nil {
			return nil, err
		}
		v, err := b.build(bd.Value)
		if err != nil {
			return nil, err
		}
		a, err := expr.MakeMemberAssignment(m, v)
		if err != nil {
			return nil, err
		}
		bindings[i] = a
	}
	return node(expr.MakeMemberInit(ne, bindings))
}

func (b *Builder) block(n *Node) (expr.Expr, error) {
	vars, err := b.declare(n.Vars)
	if err != nil {
		return nil, err
	}
	defer b.pop()
	exprs, err := b.args(n, 1, -1)
	if err != nil {
		return nil, err
	}
	t, err := b.ParseType(n.Type)
	if err != nil {
		return nil, err
	}
	return node(expr.MakeBlock(t, vars, exprs))
}

// target returns the label with the given name, creating it with type t on
// first use. A nil t means void.
func (b *Builder) target(name string, t reflect.Type) (*expr.LabelTarget, error) {
	if name == "" {
		return nil, nil
	}
	if l, ok := b.labels[name]; ok {
		return l, nil
	}
	l, err := expr.MakeLabelTarget(t, name)
	if err != nil {
		return nil, err
	}
	b.labels[name] = l
	return l, nil
}

// loop declares its labels before the body so jumps inside refer to them.
// The node type is the type of the break label.
func (b *Builder) loop(n *Node) (expr.Expr, error) {
	t, err := b.ParseType(n.Type)
	if err != nil {
		return nil, err
	}
	brk, err := b.target(n.Break, t)
	if err != nil {
		return nil, err
	}
	cont, err := b.target(n.Continue, nil)
	if err != nil {
		return nil, err
	}
	body, err := b.build(n.Body)
	if err != nil {
		return nil, err
	}
	return node(expr.MakeLoop(body, brk, cont))
}

func (b *Builder) label(n *Node) (expr.Expr, error) {
	t, err := b.ParseType(n.Type)
	if err != nil {
		return nil, err
	}
	target, err := b.target(n.Label, t)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, typeslim.NullArgument("label")
	}
	args, err := b.args(n, 0, 1)
	if err != nil {
		return nil, err
	}
	var def expr.Expr
	if len(args) == 1 {
		def = args[0]
	}
	return node(expr.MakeLabel(target, def))
}

// jump builds a goto. A label first named by a jump carrying a value takes
// the type of that value.
func (b *Builder) jump(n *Node, kind expr.GotoExpressionKind) (expr.Expr, error) {
	args, err := b.args(n, 0, 1)
	if err != nil {
		return nil, err
	}
	var value expr.Expr
	var lt reflect.Type
	if len(args) == 1 {
		value = args[0]
		lt = value.Type()
	}
	target, err := b.target(n.Label, lt)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, typeslim.NullArgument("label")
	}
	t, err := b.ParseType(n.Type)
	if err != nil {
		return nil, err
	}
	return node(expr.MakeGoto(kind, target, value, t))
}

func (b *Builder) switchExpr(n *Node) (expr.Expr, error) {
	args, err := b.args(n, 1, 1)
	if err != nil {
		return nil, err
	}
	cases := make([]*expr.SwitchCase, len(n.Cases))
	for i, c := range n.Cases {
		tests, err := b.all(c.Tests)
		if err != nil {
			return nil, err
		}
		body, err := b.build(c.Body)
		if err != nil {
			return nil, err
		}
		if cases[i], err = expr.MakeSwitchCase(body, tests); err != nil {
			return nil, fmt.Errorf("cases[%d]: %w", i, err)
		}
	}
	def, err := b.build(n.Default)
	if err != nil {
		return nil, err
	}
	t, err := b.ParseType(n.Type)
	if err != nil {
		return nil, err
	}
	return node(expr.MakeSwitch(t, args[0], def, nil, cases))
}

func (b *Builder) try(n *Node) (expr.Expr, error) {
	body, err := b.build(n.Body)
	if err != nil {
		return nil, err
	}
	handlers := make([]*expr.CatchBlock, len(n.Catch))
	for i, c := range n.Catch {
		if handlers[i], err = b.catch(c); err != nil {
			return nil, fmt.Errorf("catch[%d]: %w", i, err)
		}
	}
	finally, err := b.build(n.Finally)
	if err != nil {
		return nil, err
	}
	fault, err := b.build(n.Fault)
	if err != nil {
		return nil, err
	}
	t, err := b.ParseType(n.Type)
	if err != nil {
		return nil, err
	}
	return node(expr.MakeTry(t, body, finally, fault, handlers))
}

func (b *Builder) catch(c Catch) (*expr.CatchBlock, error) {
	var vars []Var
	if c.Var != nil {
		vars = []Var{*c.Var}
	}
	params, err := b.declare(vars)
	if err != nil {
		return nil, err
	}
	defer b.pop()
	var variable *expr.ParameterExpr
	if len(params) == 1 {
		variable = params[0]
	}
	test, err := b.ParseType(c.Type)
	if err != nil {
		return nil, err
	}
	filter, err := b.build(c.Filter)
	if err != nil {
		return nil, err
	}
	body, err := b.build(c.Body)
	if err != nil {
		return nil, err
	}
	return expr.MakeCatchBlock(test, variable, body, filter)
}
