package exprgen

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/raymyers/slimexpr/pkg/expr"
	"github.com/raymyers/slimexpr/pkg/members"
	"github.com/raymyers/slimexpr/pkg/slim"
	"github.com/raymyers/slimexpr/pkg/slimgen"
	"github.com/raymyers/slimexpr/pkg/typeslim"
)

type point struct {
	X, Y int
}

func newPoint(x, y int) point { return point{X: x, Y: y} }

var intType = reflect.TypeFor[int]()

// must checks a constructor result: must(f())(t)
func must[T any](v T, err error) func(*testing.T) T {
	return func(t *testing.T) T {
		t.Helper()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return v
	}
}

// converters returns a narrowing and a widening converter sharing one
// member space. With register unset the registry only holds the
// predeclared types.
func converters(t *testing.T, register bool) (*slimgen.Converter, *Converter) {
	t.Helper()
	r := typeslim.NewRegistry()
	if register {
		for _, err := range []error{
			r.RegisterType(reflect.TypeFor[point]()),
			r.RegisterFunc("strings", "ToUpper", strings.ToUpper),
			r.RegisterConstructor(newPoint),
		} {
			if err != nil {
				t.Fatal(err)
			}
		}
	}
	ts := must(typeslim.NewTypeSpace(r))(t)
	space := must(members.NewSpace(ts))(t)
	narrow := must(slimgen.NewConverter(space, slim.DefaultFactory{}))(t)
	widen := must(NewConverter(space, expr.DefaultFactory{}))(t)
	return narrow, widen
}

func TestNewConverterRequiresArguments(t *testing.T) {
	if _, err := NewConverter(nil, expr.DefaultFactory{}); !errors.Is(err, typeslim.ErrArgumentNull) {
		t.Errorf("NewConverter(nil space) error = %v", err)
	}
	ts := must(typeslim.NewTypeSpace(typeslim.NewRegistry()))(t)
	space := must(members.NewSpace(ts))(t)
	if _, err := NewConverter(space, nil); !errors.Is(err, typeslim.ErrArgumentNull) {
		t.Errorf("NewConverter(nil factory) error = %v", err)
	}
}

func TestRoundTripCompiles(t *testing.T) {
	x := must(expr.MakeParameter(intType, "x"))(t)
	s := must(expr.MakeParameter(reflect.TypeFor[string](), "s"))(t)
	two := must(expr.MakeConstant(2, nil))(t)
	upper := must(expr.FuncOf("strings", "ToUpper", strings.ToUpper))(t)
	ctor := must(expr.ConstructorOf(newPoint))(t)

	tests := []struct {
		name   string
		lambda *expr.LambdaExpr
		args   []any
		want   any
	}{
		{"add", must(expr.MakeLambda(nil, must(expr.MakeBinary(expr.Add, x, two, false, nil, nil))(t), []*expr.ParameterExpr{x}))(t),
			[]any{1}, 3},
		{"static call", must(expr.MakeLambda(nil, must(expr.MakeCall(nil, upper, []expr.Expr{s}))(t), []*expr.ParameterExpr{s}))(t),
			[]any{"ab"}, "AB"},
		{"constructor", must(expr.MakeLambda(nil, must(expr.MakeNew(ctor, []expr.Expr{x, two}))(t), []*expr.ParameterExpr{x}))(t),
			[]any{1}, point{X: 1, Y: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			narrow, widen := converters(t, true)
			sl := must(narrow.ConvertLambda(tt.lambda))(t)
			back := must(widen.ConvertLambda(sl))(t)
			fn := must(expr.Compile(back))(t)
			got, err := fn(tt.args...)
			if err != nil {
				t.Fatalf("call: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("result = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestRoundTripIsStable(t *testing.T) {
	x := must(expr.MakeParameter(intType, "x"))(t)
	p := must(expr.MakeParameter(reflect.TypeFor[point](), "p"))(t)
	field := must(expr.FieldOf(reflect.TypeFor[point](), "X"))(t)
	exit := must(expr.MakeLabelTarget(intType, "exit"))(t)
	brk := must(expr.MakeGoto(expr.BreakKind, exit, x, nil))(t)

	trees := map[string]expr.Expr{
		"field":   must(expr.MakeLambda(nil, must(expr.MakeMemberAccess(p, field))(t), []*expr.ParameterExpr{p}))(t),
		"loop":    must(expr.MakeLoop(brk, exit, nil))(t),
		"convert": must(expr.MakeUnary(expr.Convert, x, reflect.TypeFor[int64](), nil))(t),
		"throw":   must(expr.MakeUnary(expr.Throw, must(expr.MakeConstant("boom", nil))(t), nil, nil))(t),
	}
	for name, tree := range trees {
		t.Run(name, func(t *testing.T) {
			narrow, widen := converters(t, true)
			first := must(narrow.Convert(tree))(t)
			back := must(widen.Convert(first))(t)
			second := must(narrow.Convert(back))(t)
			if first.String() != second.String() {
				t.Errorf("narrow(widen(e)) = %s, want %s", second, first)
			}
			if !slim.DeepEqual(first, second) {
				t.Errorf("narrow(widen(e)) is not structurally equal to e")
			}
		})
	}
}

func TestWidenMapsParametersAndLabelsByIdentity(t *testing.T) {
	x := must(slim.Parameter(typeslim.Int, "x"))(t)
	sum := must(slim.Add(x, x))(t)
	l := must(slim.Lambda(nil, sum, x))(t)

	_, widen := converters(t, false)
	got := must(widen.ConvertLambda(l))(t)
	add := got.Body.(*expr.BinaryExpr)
	if add.Left != got.Params[0] || add.Right != got.Params[0] {
		t.Errorf("references to x widened to distinct parameters")
	}

	exit := slim.LabelTarget(nil, "exit")
	loop := must(slim.Loop(must(slim.Break(exit, nil))(t), exit, nil))(t)
	wl := must(widen.Convert(loop))(t).(*expr.LoopExpr)
	if wl.Break != wl.Body.(*expr.GotoExpr).Target {
		t.Errorf("break target and loop label widened to distinct targets")
	}
}

func TestWidenUnregistered(t *testing.T) {
	s := must(expr.MakeParameter(reflect.TypeFor[string](), "s"))(t)
	upper := must(expr.FuncOf("strings", "ToUpper", strings.ToUpper))(t)
	call := must(expr.MakeCall(nil, upper, []expr.Expr{s}))(t)

	narrow, widen := converters(t, false)
	sl := must(narrow.Convert(call))(t)
	if _, err := widen.Convert(sl); !errors.Is(err, typeslim.ErrUnresolved) {
		t.Errorf("Convert(unregistered func) error = %v, want ErrUnresolved", err)
	}
}

type opaque struct {
	slim.ExtensionNode
}

func (opaque) Type() typeslim.TypeSlim { return typeslim.Int }
func (opaque) String() string          { return "Extension(int)" }

func (o opaque) VisitChildren(slim.Visitor) (slim.ExpressionSlim, error) { return o, nil }

func TestWidenExtension(t *testing.T) {
	_, widen := converters(t, false)
	if _, err := widen.Convert(opaque{}); !errors.Is(err, slim.ErrNotImplemented) {
		t.Errorf("Convert(extension) error = %v, want ErrNotImplemented", err)
	}
}

func TestWidenThrowIsVoid(t *testing.T) {
	narrow, widen := converters(t, false)
	throw := must(expr.MakeUnary(expr.Throw, must(expr.MakeConstant("boom", nil))(t), nil, nil))(t)
	sl := must(narrow.Convert(throw))(t)
	if got := sl.(*slim.UnaryExpressionSlim).Type(); got != typeslim.Void {
		t.Fatalf("narrowed throw type = %v, want void", got)
	}
	back := must(widen.Convert(sl))(t).(*expr.UnaryExpr)
	if back.T != expr.VoidType {
		t.Errorf("widened throw type = %v, want VoidType", back.T)
	}
}
