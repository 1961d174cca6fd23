package slimgen

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/raymyers/slimexpr/pkg/expr"
	"github.com/raymyers/slimexpr/pkg/members"
	"github.com/raymyers/slimexpr/pkg/slim"
	"github.com/raymyers/slimexpr/pkg/typeslim"
)

type point struct {
	X, Y int
}

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

func newConverter(t *testing.T) *Converter {
	t.Helper()
	r := typeslim.NewRegistry()
	if err := r.RegisterType(reflect.TypeFor[point]()); err != nil {
		t.Fatal(err)
	}
	ts := must(typeslim.NewTypeSpace(r))(t)
	space := must(members.NewSpace(ts))(t)
	return must(NewConverter(space, slim.DefaultFactory{}))(t)
}

func constant(t *testing.T, v any) *expr.ConstantExpr {
	return must(expr.MakeConstant(v, nil))(t)
}

func TestNewConverterRequiresArguments(t *testing.T) {
	if _, err := NewConverter(nil, slim.DefaultFactory{}); !errors.Is(err, typeslim.ErrArgumentNull) {
		t.Errorf("NewConverter(nil space) error = %v", err)
	}
	ts := must(typeslim.NewTypeSpace(typeslim.NewRegistry()))(t)
	space := must(members.NewSpace(ts))(t)
	if _, err := NewConverter(space, nil); !errors.Is(err, typeslim.ErrArgumentNull) {
		t.Errorf("NewConverter(nil factory) error = %v", err)
	}
}

func TestNarrow(t *testing.T) {
	x := must(expr.MakeParameter(intType, "x"))(t)
	p := must(expr.MakeParameter(reflect.TypeFor[point](), "p"))(t)
	s := must(expr.MakeParameter(reflect.TypeFor[string](), "s"))(t)
	upper := must(expr.FuncOf("strings", "ToUpper", strings.ToUpper))(t)
	field := must(expr.FieldOf(reflect.TypeFor[point](), "X"))(t)
	exit := must(expr.MakeLabelTarget(nil, "exit"))(t)

	tests := []struct {
		name string
		tree expr.Expr
		want string
	}{
		{"add", must(expr.MakeBinary(expr.Add, constant(t, 1), constant(t, 2), false, nil, nil))(t),
			"Add(Constant(1, int), Constant(2, int))"},
		{"null constant", must(expr.MakeConstant(nil, reflect.TypeFor[string]()))(t), "Constant(null, string)"},
		{"lambda", must(expr.MakeLambda(nil, must(expr.MakeUnary(expr.Negate, x, nil, nil))(t), []*expr.ParameterExpr{x}))(t),
			"Lambda(Negate(Parameter(x, int)), Parameter(x, int), func(int) int)"},
		{"static call", must(expr.MakeCall(nil, upper, []expr.Expr{s}))(t),
			"Call(strings.ToUpper(string) string, Parameter(s, string))"},
		{"field", must(expr.MakeMemberAccess(p, field))(t),
			"MemberAccess(Parameter(p, slimgen.point), slimgen.point.X int)"},
		{"convert", must(expr.MakeUnary(expr.Convert, x, reflect.TypeFor[int64](), nil))(t),
			"Convert(Parameter(x, int), int64)"},
		{"rethrow", must(expr.MakeUnary(expr.Throw, nil, nil, nil))(t), "Throw(void)"},
		{"break", must(expr.MakeGoto(expr.BreakKind, exit, nil, nil))(t), "Break(LabelTarget(exit))"},
		{"type is", must(expr.MakeTypeBinary(expr.TypeIs, x, reflect.TypeFor[string]()))(t),
			"TypeIs(Parameter(x, int), string)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := newConverter(t).Convert(tt.tree)
			if err != nil {
				t.Fatalf("Convert: %v", err)
			}
			if got.String() != tt.want {
				t.Errorf("Convert = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestNarrowMapsParametersByIdentity(t *testing.T) {
	x := must(expr.MakeParameter(intType, "x"))(t)
	other := must(expr.MakeParameter(intType, "x"))(t)
	body := must(expr.MakeBinary(expr.Multiply, x, x, false, nil, nil))(t)
	sum := must(expr.MakeBinary(expr.Add, body, other, false, nil, nil))(t)
	l := must(expr.MakeLambda(nil, sum, []*expr.ParameterExpr{x}))(t)

	got := must(newConverter(t).ConvertLambda(l))(t)
	declared := got.Parameters().At(0)
	add := got.Body().(*slim.BinaryExpressionSlim)
	mul := add.Left().(*slim.BinaryExpressionSlim)
	if mul.Left() != declared || mul.Right() != declared {
		t.Errorf("references to x narrowed to distinct parameters")
	}
	if add.Right() == declared {
		t.Errorf("a distinct parameter named x was merged with the declared one")
	}
	free := must(slim.FreeVariables(got))(t)
	if len(free) != 1 || free[0] != add.Right() {
		t.Errorf("FreeVariables = %v, want the undeclared x", free)
	}
}

func TestNarrowMapsLabelsByIdentity(t *testing.T) {
	exit := must(expr.MakeLabelTarget(intType, "exit"))(t)
	brk := must(expr.MakeGoto(expr.BreakKind, exit, constant(t, 1), nil))(t)
	loop := must(expr.MakeLoop(brk, exit, nil))(t)

	got := must(newConverter(t).Convert(loop))(t).(*slim.LoopExpressionSlim)
	if got.BreakLabel() != got.Body().(*slim.GotoExpressionSlim).Target() {
		t.Errorf("break target and loop label narrowed to distinct targets")
	}
}

func TestNarrowFreshScopePerConversion(t *testing.T) {
	c := newConverter(t)
	x := must(expr.MakeParameter(intType, "x"))(t)
	a := must(c.Convert(x))(t)
	b := must(c.Convert(x))(t)
	if a == b {
		t.Errorf("parameters were shared across conversions")
	}
	if !slim.DeepEqual(a, b) {
		t.Errorf("conversions of the same parameter differ: %v, %v", a, b)
	}
}

func TestNarrowUnresolvableType(t *testing.T) {
	c := newConverter(t)
	_, err := c.Convert(must(expr.MakeDefault(reflect.TypeFor[interface{ Close() error }]()))(t))
	if !errors.Is(err, typeslim.ErrUnresolved) {
		t.Errorf("Convert(default interface) error = %v, want ErrUnresolved", err)
	}
}

func TestNarrowUntypedThrowIsVoid(t *testing.T) {
	c := newConverter(t)
	tests := []struct {
		name string
		tree expr.Expr
	}{
		{"throw", must(expr.MakeUnary(expr.Throw, constant(t, "boom"), nil, nil))(t)},
		{"void throw", must(expr.MakeUnary(expr.Throw, constant(t, "boom"), expr.VoidType, nil))(t)},
		{"rethrow", must(expr.MakeUnary(expr.Throw, nil, nil, nil))(t)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := must(c.Convert(tt.tree))(t).(*slim.UnaryExpressionSlim)
			if got.Type() != typeslim.Void {
				t.Errorf("Convert(%s).Type() = %v, want void", tt.name, got.Type())
			}
		})
	}
}
