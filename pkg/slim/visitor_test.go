package slim

import (
	"errors"
	"testing"

	"github.com/raymyers/slimexpr/pkg/typeslim"
)

// marker is an extension node wrapping one child
type marker struct {
	ExtensionNode
	inner ExpressionSlim
}

func (m *marker) Type() typeslim.TypeSlim { return typeslim.Int }
func (m *marker) String() string          { return sprint(m) }

func (m *marker) VisitChildren(v Visitor) (ExpressionSlim, error) {
	inner, err := v.Visit(m.inner)
	if err != nil {
		return nil, err
	}
	if inner == m.inner {
		return m, nil
	}
	return &marker{inner: inner}, nil
}

// substitute replaces every reference to one parameter
type substitute struct {
	Rewriter
	from *ParameterExpressionSlim
	to   ExpressionSlim
}

func newSubstitute(from *ParameterExpressionSlim, to ExpressionSlim) *substitute {
	s := &substitute{from: from, to: to}
	s.Self = s
	return s
}

func (s *substitute) VisitParameter(n *ParameterExpressionSlim) (ExpressionSlim, error) {
	if n == s.from {
		return s.to, nil
	}
	return n, nil
}

func TestRewriterIdentity(t *testing.T) {
	x, y := param(t, "x"), param(t, "y")
	exit := LabelTarget(typeslim.Int, "exit")
	e := must(Parameter(typeslim.Error, "e"))(t)
	trees := map[string]ExpressionSlim{
		"lambda":  must(Lambda(nil, must(Add(x, y))(t), x, y))(t),
		"call":    must(Call(nil, maxMethod(t), x, intConst(t, 2)))(t),
		"block":   must(Block(nil, []*ParameterExpressionSlim{y}, must(Assign(y, x))(t), y))(t),
		"loop":    must(Loop(must(Break(exit, x))(t), exit, nil))(t),
		"switch":  must(Switch(x, y, must(SwitchCase(y, intConst(t, 1), intConst(t, 2)))(t)))(t),
		"try":     must(TryCatch(x, must(Catch(e, y))(t)))(t),
		"label":   must(Label(exit, x))(t),
		"type is": must(TypeIs(x, typeslim.Int))(t),
		"array":   must(NewArrayInit(typeslim.Int, x, y))(t),
		"ext":     &marker{inner: x},
	}
	for name, tree := range trees {
		got, err := (&Rewriter{}).Visit(tree)
		if err != nil {
			t.Errorf("%s: %v", name, err)
			continue
		}
		if got != tree {
			t.Errorf("%s: identity rewrite returned a new tree", name)
		}
	}
}

func TestRewriterSubstitution(t *testing.T) {
	x, y := param(t, "x"), param(t, "y")
	left := must(Add(x, intConst(t, 1)))(t)
	right := must(Multiply(y, intConst(t, 2)))(t)
	tree := must(Subtract(left, right))(t)

	got, err := newSubstitute(x, intConst(t, 5)).Visit(tree)
	if err != nil {
		t.Fatalf("Visit: %v", err)
	}
	sub, ok := got.(*BinaryExpressionSlim)
	if !ok || sub == tree {
		t.Fatalf("Visit = %v, want a new Subtract node", got)
	}
	if sub.Right() != right {
		t.Errorf("unchanged right subtree was rebuilt")
	}
	want := must(Subtract(must(Add(intConst(t, 5), intConst(t, 1)))(t), right))(t)
	if !DeepEqual(got, want) {
		t.Errorf("Visit = %v, want %v", got, want)
	}

	ext, err := newSubstitute(x, y).Visit(&marker{inner: x})
	if err != nil {
		t.Fatalf("Visit(extension): %v", err)
	}
	if m, ok := ext.(*marker); !ok || m.inner != y {
		t.Errorf("extension child not rewritten: %v", ext)
	}
}

func TestVisitAndConvertRejectsReplacedParameter(t *testing.T) {
	x := param(t, "x")
	lambda := must(Lambda(nil, must(Add(x, intConst(t, 1)))(t), x))(t)
	_, err := newSubstitute(x, intConst(t, 5)).Visit(lambda)
	var ue *UnexpectedResultError
	if !errors.As(err, &ue) {
		t.Fatalf("Visit error = %v, want *UnexpectedResultError", err)
	}
	if ue.Caller != "VisitLambda" {
		t.Errorf("Caller = %q, want VisitLambda", ue.Caller)
	}

	var nilLambda *LambdaExpressionSlim
	got, err := VisitAndConvert(Visitor(&Rewriter{}), nilLambda, "test")
	if err != nil || got != nil {
		t.Errorf("VisitAndConvert(nil) = %v, %v", got, err)
	}
}

func TestVisitCollectionKeepsInstance(t *testing.T) {
	c := NewReadOnlyCollection(1, 2, 3)
	same, err := VisitCollection(c, func(i int) (int, error) { return i, nil })
	if err != nil || same != c {
		t.Errorf("unchanged visit returned %v, %v", same, err)
	}
	doubled, err := VisitCollection(c, func(i int) (int, error) { return i * 2, nil })
	if err != nil || doubled == c || doubled.At(2) != 6 {
		t.Errorf("changed visit returned %v, %v", doubled, err)
	}
}

func nodeCounter() BaseReducer[int] {
	return BaseReducer[int]{Combine: func(_ any, children []int) (int, error) {
		n := 1
		for _, c := range children {
			n += c
		}
		return n, nil
	}}
}

type constantCounter struct {
	BaseReducer[int]
}

func (constantCounter) MakeConstant(*ConstantExpressionSlim) (int, error) { return 1, nil }

func TestFold(t *testing.T) {
	x, y := param(t, "x"), param(t, "y")
	v := must(NewExpressionSlimVisitor[int](nodeCounter()))(t)

	tree := must(Add(x, must(Multiply(intConst(t, 1), y))(t)))(t)
	if got := must(v.Visit(tree))(t); got != 5 {
		t.Errorf("node count = %d, want 5", got)
	}
	exit := LabelTarget(nil, "exit")
	loop := must(Loop(must(Break(exit, nil))(t), exit, nil))(t)
	// loop, break label, break goto, goto target
	if got := must(v.Visit(loop))(t); got != 4 {
		t.Errorf("loop count = %d, want 4", got)
	}

	if got, err := v.Visit(nil); got != 0 || err != nil {
		t.Errorf("Visit(nil) = %d, %v", got, err)
	}
	if _, err := v.VisitBinary(nil); !errors.Is(err, ErrArgumentNull) {
		t.Errorf("VisitBinary(nil) error = %v, want ErrArgumentNull", err)
	}
	if _, err := v.Visit(&marker{inner: x}); !errors.Is(err, ErrNotImplemented) {
		t.Errorf("Visit(extension) error = %v, want ErrNotImplemented", err)
	}
	if _, err := NewFolder[int, int, int, int, int, int, int, int, int](nil); !errors.Is(err, ErrArgumentNull) {
		t.Errorf("NewFolder(nil) error = %v", err)
	}

	c := constantCounter{}
	c.Combine = func(_ any, children []int) (int, error) {
		n := 0
		for _, ch := range children {
			n += ch
		}
		return n, nil
	}
	cv := must(NewExpressionSlimVisitor[int](c))(t)
	cond := must(Condition(must(Equal(x, intConst(t, 1)))(t), intConst(t, 2), must(Add(intConst(t, 3), x))(t), nil))(t)
	if got := must(cv.Visit(cond))(t); got != 3 {
		t.Errorf("constant count = %d, want 3", got)
	}
}

func TestFreeVariables(t *testing.T) {
	x, y, z := param(t, "x"), param(t, "y"), param(t, "z")
	v := param(t, "v")
	e := must(Parameter(typeslim.Error, "e"))(t)

	tests := []struct {
		name string
		tree ExpressionSlim
		want []*ParameterExpressionSlim
	}{
		{"parameter", x, []*ParameterExpressionSlim{x}},
		{"lambda binds", must(Lambda(nil, must(Add(x, y))(t), x))(t), []*ParameterExpressionSlim{y}},
		{"nested lambdas", must(Lambda(nil, must(Lambda(nil, must(Add(x, y))(t), y))(t), x))(t), nil},
		{"first use order", must(Add(z, must(Add(y, z))(t)))(t), []*ParameterExpressionSlim{z, y}},
		{"block variable", must(Block(nil, []*ParameterExpressionSlim{v}, must(Assign(v, y))(t), must(Add(v, z))(t)))(t), []*ParameterExpressionSlim{y, z}},
		{"catch variable", must(TryCatch(x, must(Catch(e, must(Add(e, y))(t)))(t)))(t), []*ParameterExpressionSlim{x, y}},
		{"constant", intConst(t, 1), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FreeVariables(tt.tree)
			if err != nil {
				t.Fatalf("FreeVariables: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("FreeVariables = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("FreeVariables[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestDeepEqual(t *testing.T) {
	lambda := func(name string, body func(p *ParameterExpressionSlim) ExpressionSlim) ExpressionSlim {
		p := param(t, name)
		return must(Lambda(nil, body(p), p))(t)
	}
	inc := func(p *ParameterExpressionSlim) ExpressionSlim { return must(Add(p, intConst(t, 1)))(t) }
	dec := func(p *ParameterExpressionSlim) ExpressionSlim { return must(Subtract(p, intConst(t, 1)))(t) }
	pair := func(swap bool) ExpressionSlim {
		a, b := param(t, "a"), param(t, "b")
		l, r := a, b
		if swap {
			l, r = b, a
		}
		return must(Lambda(nil, must(Subtract(l, r))(t), a, b))(t)
	}
	x1, x2 := param(t, "x"), param(t, "x")

	tests := []struct {
		name string
		a, b ExpressionSlim
		want bool
	}{
		{"fresh parameters", lambda("x", inc), lambda("x", inc), true},
		{"renamed parameter", lambda("x", inc), lambda("y", inc), false},
		{"different kind", lambda("x", inc), lambda("x", dec), false},
		{"parameter order", pair(false), pair(true), false},
		{"same pair", pair(false), pair(false), true},
		{"free parameters pair once", must(Add(x1, x1))(t), must(Add(x1, x2))(t), false},
		{"constants", intConst(t, 1), intConst(t, 2), false},
		{"null constants", must(Constant(must(NewObjectSlim(nil, typeslim.String, nil))(t), nil))(t),
			must(Constant(must(NewObjectSlim(nil, typeslim.String, nil))(t), nil))(t), true},
		{"nil", nil, nil, true},
		{"nil and node", nil, x1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeepEqual(tt.a, tt.b); got != tt.want {
				t.Errorf("DeepEqual(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}
