package expr

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/raymyers/slimexpr/pkg/typeslim"
)

var (
	intType    = reflect.TypeFor[int]()
	stringType = reflect.TypeFor[string]()
	anyType    = reflect.TypeFor[any]()
)

type point struct {
	X, Y int
}

type counter struct {
	n int
}

func (c *counter) Add(k int) { c.n += k }
func (c counter) Total() int { return c.n }

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

func constant(t *testing.T, v any) *ConstantExpr {
	return must(MakeConstant(v, nil))(t)
}

func run(t *testing.T, l *LambdaExpr, args ...any) any {
	t.Helper()
	fn := must(Compile(l))(t)
	v, err := fn(args...)
	if err != nil {
		t.Fatalf("evaluation failed: %v", err)
	}
	return v
}

func TestEvalAddConstants(t *testing.T) {
	sum := must(MakeBinary(Add, constant(t, 1), constant(t, 2), false, nil, nil))(t)
	l := must(MakeLambda(nil, sum, nil))(t)

	if l.T != reflect.TypeFor[func() int]() {
		t.Errorf("lambda type = %v, want func() int", l.T)
	}
	if got := run(t, l); got != 3 {
		t.Errorf("1 + 2 = %v, want 3", got)
	}
}

func TestEvalBinaryOperators(t *testing.T) {
	tests := []struct {
		name string
		kind ExpressionType
		l, r any
		want any
	}{
		{"subtract", Subtract, 7, 3, 4},
		{"multiply", Multiply, 6, 7, 42},
		{"divide", Divide, 9, 2, 4},
		{"modulo", Modulo, 9, 4, 1},
		{"power", Power, 2, 10, 1024},
		{"float divide", Divide, 1.0, 4.0, 0.25},
		{"concat", Add, "go", "pher", "gopher"},
		{"and", And, 6, 3, 2},
		{"xor", ExclusiveOr, 6, 3, 5},
		{"shift", LeftShift, 1, 4, 16},
		{"less", LessThan, 1, 2, true},
		{"greater equal", GreaterThanOrEqual, 1, 2, false},
		{"equal strings", Equal, "a", "a", true},
		{"not equal", NotEqual, 1, 1, false},
		{"andalso", AndAlso, true, false, false},
		{"orelse", OrElse, false, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := must(MakeBinary(tt.kind, constant(t, tt.l), constant(t, tt.r), false, nil, nil))(t)
			if got := run(t, must(MakeLambda(nil, b, nil))(t)); got != tt.want {
				t.Errorf("%s(%v, %v) = %v, want %v", tt.kind, tt.l, tt.r, got, tt.want)
			}
		})
	}
}

func TestEvalErrors(t *testing.T) {
	div := must(MakeBinary(Divide, constant(t, 1), constant(t, 0), false, nil, nil))(t)
	fn := must(Compile(must(MakeLambda(nil, div, nil))(t)))(t)
	_, err := fn()
	var thrown *ThrownError
	if !errors.As(err, &thrown) || !errors.Is(err, ErrDivideByZero) {
		t.Errorf("1 / 0 error = %v, want thrown ErrDivideByZero", err)
	}

	big := must(MakeConstant(int8(127), nil))(t)
	add := must(MakeBinary(AddChecked, big, must(MakeConstant(int8(1), nil))(t), false, nil, nil))(t)
	fn = must(Compile(must(MakeLambda(nil, add, nil))(t)))(t)
	if _, err := fn(); !errors.Is(err, ErrOverflow) {
		t.Errorf("checked int8 overflow error = %v, want ErrOverflow", err)
	}

	quote := must(MakeUnary(Quote, must(MakeLambda(nil, constant(t, 1), nil))(t), nil, nil))(t)
	if _, err := Compile(must(MakeLambda(nil, quote, nil))(t)); !errors.Is(err, ErrNotSupported) {
		t.Errorf("Compile(Quote) error = %v, want ErrNotSupported", err)
	}
}

func TestEvalParametersAndCalls(t *testing.T) {
	s := must(MakeParameter(stringType, "s"))(t)
	upper := must(FuncOf("strings", "ToUpper", strings.ToUpper))(t)
	body := must(MakeCall(nil, upper, []Expr{s}))(t)
	l := must(MakeLambda(nil, body, []*ParameterExpr{s}))(t)

	if got := run(t, l, "abc"); got != "ABC" {
		t.Errorf("ToUpper(abc) = %v", got)
	}

	fn := must(Compile(l))(t)
	if _, err := fn(); err == nil {
		t.Error("calling with the wrong argument count should fail")
	}
}

func TestEvalClosure(t *testing.T) {
	x := must(MakeParameter(intType, "x"))(t)
	y := must(MakeParameter(intType, "y"))(t)
	inner := must(MakeLambda(nil, must(MakeBinary(Add, x, y, false, nil, nil))(t), []*ParameterExpr{y}))(t)
	body := must(MakeInvoke(inner, []Expr{constant(t, 3)}))(t)
	outer := must(MakeLambda(nil, body, []*ParameterExpr{x}))(t)

	if got := run(t, outer, 2); got != 5 {
		t.Errorf("closure result = %v, want 5", got)
	}
}

func TestEvalLoopWithBreak(t *testing.T) {
	i := must(MakeParameter(intType, "i"))(t)
	sum := must(MakeParameter(intType, "sum"))(t)
	brk := must(MakeLabelTarget(intType, "brk"))(t)

	step := must(MakeBlock(VoidType, nil, []Expr{
		must(MakeBinary(AddAssign, sum, i, false, nil, nil))(t),
		must(MakeUnary(PostIncrementAssign, i, nil, nil))(t),
	}))(t)
	exit := must(MakeGoto(BreakKind, brk, sum, nil))(t)
	test := must(MakeBinary(LessThan, i, constant(t, 5), false, nil, nil))(t)
	loop := must(MakeLoop(must(MakeConditional(test, step, exit, VoidType))(t), brk, nil))(t)
	body := must(MakeBlock(nil, []*ParameterExpr{i, sum}, []Expr{loop}))(t)

	if got := run(t, must(MakeLambda(nil, body, nil))(t)); got != 10 {
		t.Errorf("sum of 0..4 = %v, want 10", got)
	}
}

func TestEvalSwitch(t *testing.T) {
	v := must(MakeParameter(intType, "v"))(t)
	cases := []*SwitchCase{
		must(MakeSwitchCase(constant(t, "one"), []Expr{constant(t, 1)}))(t),
		must(MakeSwitchCase(constant(t, "few"), []Expr{constant(t, 2), constant(t, 3)}))(t),
	}
	sw := must(MakeSwitch(nil, v, constant(t, "many"), nil, cases))(t)
	l := must(MakeLambda(nil, sw, []*ParameterExpr{v}))(t)

	for in, want := range map[int]string{1: "one", 3: "few", 9: "many"} {
		if got := run(t, l, in); got != want {
			t.Errorf("switch(%d) = %v, want %v", in, got, want)
		}
	}
}

func TestEvalTryCatch(t *testing.T) {
	e := must(MakeParameter(stringType, "e"))(t)
	upper := must(FuncOf("strings", "ToUpper", strings.ToUpper))(t)
	handler := must(MakeCatchBlock(nil, e, must(MakeCall(nil, upper, []Expr{e}))(t), nil))(t)
	throw := must(MakeUnary(Throw, constant(t, "boom"), stringType, nil))(t)
	try := must(MakeTry(stringType, throw, nil, nil, []*CatchBlock{handler}))(t)

	if got := run(t, must(MakeLambda(nil, try, nil))(t)); got != "BOOM" {
		t.Errorf("caught = %v, want BOOM", got)
	}

	boom := must(FuncOf("test", "boom", func() int { panic("kaboom") }))(t)
	call := must(MakeCall(nil, boom, nil))(t)
	catchAll := must(MakeCatchBlock(anyType, nil, constant(t, -1), nil))(t)
	try = must(MakeTry(intType, call, nil, nil, []*CatchBlock{catchAll}))(t)
	if got := run(t, must(MakeLambda(nil, try, nil))(t)); got != -1 {
		t.Errorf("panicking call should be caught, got %v", got)
	}
}

func TestEvalMembersAndInitializers(t *testing.T) {
	pt := reflect.TypeFor[point]()
	fx := must(FieldOf(pt, "X"))(t)
	fy := must(FieldOf(pt, "Y"))(t)
	init := must(MakeMemberInit(must(MakeNewValue(pt))(t), []MemberBinding{
		must(MakeMemberAssignment(fx, constant(t, 1)))(t),
		must(MakeMemberAssignment(fy, constant(t, 2)))(t),
	}))(t)
	read := must(MakeMemberAccess(init, fy))(t)
	if got := run(t, must(MakeLambda(nil, read, nil))(t)); got != 2 {
		t.Errorf("point{X: 1, Y: 2}.Y = %v", got)
	}

	add := must(MethodOf(reflect.TypeFor[*counter](), "Add"))(t)
	total := must(MethodOf(reflect.TypeFor[counter](), "Total"))(t)
	list := must(MakeListInit(must(MakeNewValue(reflect.TypeFor[counter]()))(t), []*ElementInit{
		must(MakeElementInit(add, []Expr{constant(t, 1)}))(t),
		must(MakeElementInit(add, []Expr{constant(t, 2)}))(t),
	}))(t)
	body := must(MakeCall(list, total, nil))(t)
	if got := run(t, must(MakeLambda(nil, body, nil))(t)); got != 3 {
		t.Errorf("counter total = %v, want 3", got)
	}

	arr := must(MakeNewArray(NewArrayInit, stringType, []Expr{constant(t, "a"), constant(t, "b")}))(t)
	idx := must(MakeIndex(arr, nil, []Expr{constant(t, 1)}))(t)
	if got := run(t, must(MakeLambda(nil, idx, nil))(t)); got != "b" {
		t.Errorf("[]string{a, b}[1] = %v", got)
	}
}

func TestFactoryValidation(t *testing.T) {
	one := constant(t, 1)
	tests := []struct {
		name    string
		build   func() error
		wantErr error
	}{
		{"binary with unary kind", func() error {
			_, err := MakeBinary(Negate, one, one, false, nil, nil)
			return err
		}, ErrInvalidNodeType},
		{"binary nil left", func() error {
			_, err := MakeBinary(Add, nil, one, false, nil, nil)
			return err
		}, typeslim.ErrArgumentNull},
		{"unary with binary kind", func() error {
			_, err := MakeUnary(Add, one, nil, nil)
			return err
		}, ErrInvalidNodeType},
		{"convert without type", func() error {
			_, err := MakeUnary(Convert, one, nil, nil)
			return err
		}, typeslim.ErrArgumentNull},
		{"type binary kind", func() error {
			_, err := MakeTypeBinary(Equal, one, intType)
			return err
		}, ErrInvalidNodeType},
		{"call nil argument", func() error {
			m := must(FuncOf("strings", "ToUpper", strings.ToUpper))(t)
			_, err := MakeCall(nil, m, []Expr{nil})
			return err
		}, typeslim.ErrArgumentNull},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.build(); !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	if _, err := MakeBlock(nil, nil, nil); err == nil {
		t.Error("empty block should be rejected")
	}
	if _, err := MakeTry(nil, one, one, one, nil); err == nil {
		t.Error("fault combined with finally should be rejected")
	}
	if _, err := MakeTry(nil, one, nil, nil, nil); err == nil {
		t.Error("try without handlers should be rejected")
	}
}

func TestLiftToNullOnlyForComparisons(t *testing.T) {
	one := constant(t, 1)
	add := must(MakeBinary(Add, one, one, true, nil, nil))(t)
	if add.LiftToNull {
		t.Error("LiftToNull should be dropped for arithmetic")
	}
	eq := must(MakeBinary(Equal, one, one, true, nil, nil))(t)
	if !eq.LiftToNull || eq.Type() != reflect.TypeFor[bool]() {
		t.Errorf("Equal: LiftToNull=%v type=%v", eq.LiftToNull, eq.Type())
	}
}

func TestInspectOrder(t *testing.T) {
	x := must(MakeParameter(intType, "x"))(t)
	sum := must(MakeBinary(Add, x, constant(t, 1), false, nil, nil))(t)
	l := must(MakeLambda(nil, sum, []*ParameterExpr{x}))(t)

	var kinds []string
	Inspect(l, func(e Expr) bool {
		kinds = append(kinds, e.NodeType().String())
		return true
	})
	want := []string{"Lambda", "Parameter", "Add", "Parameter", "Constant"}
	if !reflect.DeepEqual(kinds, want) {
		t.Errorf("Inspect order = %v, want %v", kinds, want)
	}
}
