package slim

import (
	"errors"
	"reflect"
	"testing"

	"github.com/raymyers/slimexpr/pkg/expr"
	"github.com/raymyers/slimexpr/pkg/typeslim"
)

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

func intConst(t *testing.T, v int) *ConstantExpressionSlim {
	t.Helper()
	return must(Constant(must(NewObjectSlim(v, typeslim.Int, nil))(t), nil))(t)
}

func param(t *testing.T, name string) *ParameterExpressionSlim {
	t.Helper()
	return must(Parameter(typeslim.Int, name))(t)
}

var mathType = typeslim.NewSimple("Math", "example.com/m")

func maxMethod(t *testing.T) *typeslim.SimpleMethodInfoSlim {
	t.Helper()
	return must(typeslim.NewMethod(mathType, "Max", true, []typeslim.TypeSlim{typeslim.Int, typeslim.Int}, typeslim.Int))(t)
}

func TestUpdateReturnsSameInstanceWhenUnchanged(t *testing.T) {
	x, y := param(t, "x"), param(t, "y")
	one := intConst(t, 1)

	add := must(Add(x, one))(t)
	if got := must(add.Update(add.Left(), add.Right(), add.Conversion()))(t); got != add {
		t.Errorf("Binary.Update with same children returned a new node")
	}
	changed := must(add.Update(y, one, nil))(t)
	if changed == add {
		t.Fatalf("Binary.Update with a new child returned the same node")
	}
	if changed.NodeType() != expr.Add || changed.Left() != y || changed.Right() != one {
		t.Errorf("Binary.Update = %v, want Add(y, 1)", changed)
	}

	neg := must(Negate(x))(t)
	if got := must(neg.Update(x))(t); got != neg {
		t.Errorf("Unary.Update with same operand returned a new node")
	}

	lambda := must(Lambda(nil, add, x))(t)
	if got := must(lambda.Update(add, lambda.Parameters()))(t); got != lambda {
		t.Errorf("Lambda.Update with same children returned a new node")
	}
	if got := must(lambda.Update(add, NewReadOnlyCollection(x)))(t); got != lambda {
		t.Errorf("Lambda.Update with an equal parameter list returned a new node")
	}

	call := must(Call(nil, maxMethod(t), x, y))(t)
	if got := must(call.Update(nil, []ExpressionSlim{x, y}))(t); got != call {
		t.Errorf("MethodCall.Update with same arguments returned a new node")
	}
	if got := must(call.Update(nil, []ExpressionSlim{y, x}))(t); got == call {
		t.Errorf("MethodCall.Update with reordered arguments returned the same node")
	}

	cond := must(Condition(x, one, y, nil))(t)
	if got := must(cond.Update(x, one, y))(t); got != cond {
		t.Errorf("Conditional.Update with same children returned a new node")
	}
}

func TestArgumentsUniformAcrossCounts(t *testing.T) {
	f := must(Parameter(typeslim.Any, "f"))(t)
	for n := 0; n <= 7; n++ {
		args := make([]ExpressionSlim, n)
		for i := range args {
			args[i] = intConst(t, i)
		}
		inv := must(Invoke(f, args...))(t)

		if got := inv.ArgumentCount(); got != n {
			t.Fatalf("n=%d: ArgumentCount() = %d", n, got)
		}
		for i := 0; i < n; i++ {
			a, err := inv.GetArgument(i)
			if err != nil || a != args[i] {
				t.Errorf("n=%d: GetArgument(%d) = %v, %v", n, i, a, err)
			}
		}
		for _, i := range []int{-1, n} {
			if _, err := inv.GetArgument(i); !errors.Is(err, ErrArgumentOutOfRange) {
				t.Errorf("n=%d: GetArgument(%d) error = %v, want out of range", n, i, err)
			}
		}

		list := inv.Arguments()
		if list.Count() != n || !list.IsReadOnly() {
			t.Errorf("n=%d: Arguments() count %d, read-only %v", n, list.Count(), list.IsReadOnly())
		}
		if got := list.Slice(); !reflect.DeepEqual(got, args) {
			t.Errorf("n=%d: Arguments().Slice() = %v, want %v", n, got, args)
		}
		if n > 0 && list.IndexOf(args[n-1]) != n-1 {
			t.Errorf("n=%d: IndexOf(last) = %d", n, list.IndexOf(args[n-1]))
		}
		if list.Contains(f) {
			t.Errorf("n=%d: Contains reported a non-argument", n)
		}

		if got := must(inv.Update(f, args))(t); got != inv {
			t.Errorf("n=%d: Update with same arguments returned a new node", n)
		}
	}
}

func TestArgumentListIsReadOnly(t *testing.T) {
	one := intConst(t, 1)
	inv := must(Invoke(must(Parameter(typeslim.Any, "f"))(t), one))(t)
	list := inv.Arguments()
	mutators := map[string]func() error{
		"Set":      func() error { return list.Set(0, one) },
		"Add":      func() error { return list.Add(one) },
		"Clear":    list.Clear,
		"Insert":   func() error { return list.Insert(0, one) },
		"Remove":   func() error { return list.Remove(one) },
		"RemoveAt": func() error { return list.RemoveAt(0) },
	}
	for name, m := range mutators {
		if err := m(); !errors.Is(err, ErrNotSupported) {
			t.Errorf("%s error = %v, want ErrNotSupported", name, err)
		}
	}
	if list.Count() != 1 {
		t.Errorf("Count() = %d after mutators, want 1", list.Count())
	}
}

func TestReadOnlyCollection(t *testing.T) {
	items := []int{1, 2, 3}
	c := NewReadOnlyCollection(items...)
	items[0] = 9
	if c.At(0) != 1 {
		t.Errorf("collection shares storage with its input")
	}
	if _, err := c.Item(3); !errors.Is(err, ErrArgumentOutOfRange) {
		t.Errorf("Item(3) error = %v, want out of range", err)
	}
	var nilColl *ReadOnlyCollection[int]
	if nilColl.Count() != 0 {
		t.Errorf("nil collection Count() = %d", nilColl.Count())
	}
	sum := 0
	for _, v := range c.All() {
		sum += v
	}
	if sum != 6 {
		t.Errorf("All() sum = %d, want 6", sum)
	}
}

func TestShapeValidation(t *testing.T) {
	one := intConst(t, 1)
	_, err := MakeBinary(expr.Call, one, one, false, nil, nil)
	if !errors.Is(err, ErrInvalidNodeType) {
		t.Fatalf("MakeBinary(Call) error = %v, want ErrInvalidNodeType", err)
	}
	var se *ShapeError
	if !errors.As(err, &se) || se.Shape != "binary" || se.Kind != "Call" {
		t.Errorf("MakeBinary(Call) error = %#v", err)
	}
	if _, err := MakeUnary(expr.Add, one, nil, nil); !errors.Is(err, ErrInvalidNodeType) {
		t.Errorf("MakeUnary(Add) error = %v, want ErrInvalidNodeType", err)
	}
	if _, err := MakeGoto(GotoExpressionKind(9), LabelTarget(nil, "l"), nil, nil); !errors.Is(err, ErrInvalidNodeType) {
		t.Errorf("MakeGoto(9) error = %v, want ErrInvalidNodeType", err)
	}
	if _, err := MakeTypeBinary(expr.Add, one, typeslim.Int); !errors.Is(err, ErrInvalidNodeType) {
		t.Errorf("MakeTypeBinary(Add) error = %v, want ErrInvalidNodeType", err)
	}

	add := must(Add(one, one))(t)
	if add.Method() != nil || add.Conversion() != nil || add.IsLiftedToNull() {
		t.Errorf("Add carries method %v, conversion %v, lifted %v", add.Method(), add.Conversion(), add.IsLiftedToNull())
	}
	eq := must(MakeBinary(expr.Equal, one, one, true, nil, nil))(t)
	if !eq.IsLiftedToNull() {
		t.Errorf("liftToNull dropped on a comparison")
	}
	sum := must(MakeBinary(expr.Add, one, one, true, nil, nil))(t)
	if sum.IsLiftedToNull() {
		t.Errorf("liftToNull kept on an arithmetic node")
	}
}

func TestFactoryValidation(t *testing.T) {
	x := param(t, "x")
	one := intConst(t, 1)
	body := must(Add(x, one))(t)
	catchVar := must(Parameter(typeslim.Error, "e"))(t)
	handler := must(Catch(catchVar, one))(t)

	tests := []struct {
		name  string
		build func() error
		param string // expected ArgumentError parameter; empty for InvariantError
	}{
		{"binary nil left", func() error { _, err := Add(nil, one); return err }, "left"},
		{"conversion on add", func() error {
			conv := must(Lambda(nil, x, x))(t)
			_, err := MakeBinary(expr.Add, x, one, false, nil, conv)
			return err
		}, ""},
		{"convert without type", func() error { _, err := Convert(x, nil); return err }, "type"},
		{"duplicate lambda parameter", func() error { _, err := Lambda(nil, body, x, x); return err }, ""},
		{"nil lambda parameter", func() error { _, err := Lambda(nil, body, x, nil); return err }, "parameters[1]"},
		{"instance call without object", func() error {
			m := must(typeslim.NewMethod(mathType, "Abs", false, nil, typeslim.Int))(t)
			_, err := Call(nil, m)
			return err
		}, "instance"},
		{"static call on object", func() error { _, err := Call(x, maxMethod(t), one, one); return err }, ""},
		{"constructor arity", func() error {
			ctor := must(typeslim.NewConstructor(mathType, typeslim.Int))(t)
			_, err := New(ctor)
			return err
		}, ""},
		{"empty block", func() error { _, err := Block(nil, nil); return err }, ""},
		{"array bounds", func() error { _, err := NewArrayBounds(typeslim.Int); return err }, ""},
		{"switch case without tests", func() error { _, err := SwitchCase(one); return err }, ""},
		{"switch nil case", func() error {
			c := must(SwitchCase(one, one))(t)
			_, err := Switch(x, nil, c, nil)
			return err
		}, "cases[1]"},
		{"switch nil value", func() error { _, err := Switch(nil, one); return err }, "switchValue"},
		{"typed nil argument", func() error {
			var missing *ParameterExpressionSlim
			_, err := Invoke(x, one, missing)
			return err
		}, "arguments[1]"},
		{"typed nil test value", func() error {
			var missing *ParameterExpressionSlim
			_, err := SwitchCase(one, one, missing)
			return err
		}, "testValues[1]"},
		{"try finally and fault", func() error { _, err := MakeTry(nil, body, one, one); return err }, ""},
		{"try handlers and fault", func() error { _, err := MakeTry(nil, body, nil, one, handler); return err }, ""},
		{"try without handlers", func() error { _, err := MakeTry(nil, body, nil, nil); return err }, ""},
		{"continue with value", func() error {
			_, err := MakeGoto(expr.ContinueKind, LabelTarget(nil, "next"), one, nil)
			return err
		}, ""},
		{"quote of non-lambda", func() error { _, err := MakeUnary(expr.Quote, one, nil, nil); return err }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.build()
			if err == nil {
				t.Fatal("expected an error")
			}
			if tt.param == "" {
				var ie *InvariantError
				if !errors.As(err, &ie) {
					t.Errorf("error = %v, want *InvariantError", err)
				}
				return
			}
			var ae *ArgumentError
			if !errors.As(err, &ae) || ae.Param != tt.param {
				t.Errorf("error = %v, want ArgumentError for %q", err, tt.param)
			}
		})
	}
}

func TestValidTries(t *testing.T) {
	one := intConst(t, 1)
	e := must(Parameter(typeslim.Error, "e"))(t)
	handler := must(Catch(e, one))(t)
	if handler.Test() != typeslim.Error {
		t.Errorf("Catch test type = %v, want the variable type", handler.Test())
	}
	builds := map[string]func() (*TryExpressionSlim, error){
		"catch":         func() (*TryExpressionSlim, error) { return TryCatch(one, handler) },
		"finally":       func() (*TryExpressionSlim, error) { return TryFinally(one, one) },
		"fault":         func() (*TryExpressionSlim, error) { return TryFault(one, one) },
		"catch finally": func() (*TryExpressionSlim, error) { return TryCatchFinally(one, one, handler) },
	}
	for name, build := range builds {
		if _, err := build(); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
}

func TestGotoDefaults(t *testing.T) {
	target := LabelTarget(typeslim.Int, "next")
	c := must(Continue(target))(t)
	if c.Kind() != expr.ContinueKind || c.Type() != typeslim.Void {
		t.Errorf("Continue = %v with type %v", c.Kind(), c.Type())
	}
	r := must(Return(target, intConst(t, 3)))(t)
	if r.Type() != typeslim.Void || r.Value() == nil {
		t.Errorf("Return type %v, value %v", r.Type(), r.Value())
	}
}

func TestConstantDefaultsToValueType(t *testing.T) {
	c := intConst(t, 4)
	if c.Type() != typeslim.Int {
		t.Errorf("Type() = %v, want int", c.Type())
	}
	if _, err := Constant(nil, typeslim.Int); !errors.Is(err, ErrArgumentNull) {
		t.Errorf("Constant(nil) error = %v, want ErrArgumentNull", err)
	}
}

type celsius int

func TestObjectReduce(t *testing.T) {
	if _, err := NewObjectSlim(1, nil, nil); !errors.Is(err, ErrArgumentNull) {
		t.Fatalf("NewObjectSlim without type error = %v", err)
	}
	obj := func(v any, typ typeslim.TypeSlim) *ObjectSlim {
		return must(NewObjectSlim(v, typ, reflect.TypeOf(v)))(t)
	}
	tests := []struct {
		name    string
		obj     *ObjectSlim
		target  reflect.Type
		want    any
		wantErr bool
	}{
		{"same type", obj(3, typeslim.Int), reflect.TypeFor[int](), 3, false},
		{"widened", obj(3, typeslim.Int), reflect.TypeFor[int64](), int64(3), false},
		{"named to underlying", obj(celsius(5), typeslim.Int), reflect.TypeFor[int](), 5, false},
		{"to interface", obj("a", typeslim.String), reflect.TypeFor[any](), "a", false},
		{"null pointer", obj(nil, typeslim.Any), reflect.TypeFor[*int](), (*int)(nil), false},
		{"null int", obj(nil, typeslim.Int), reflect.TypeFor[int](), nil, true},
		{"int to string", obj(65, typeslim.Int), reflect.TypeFor[string](), nil, true},
		{"string to int", obj("1", typeslim.String), reflect.TypeFor[int](), nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.obj.Reduce(tt.target)
			if tt.wantErr {
				if !errors.Is(err, typeslim.ErrUnresolved) {
					t.Errorf("Reduce error = %v, want ErrUnresolved", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Reduce: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Reduce = %#v, want %#v", got, tt.want)
			}
		})
	}
}

type label struct{ text string }

func (l *label) String() string { return l.text }

func TestObjectString(t *testing.T) {
	tests := []struct {
		value any
		want  string
	}{
		{nil, "null"},
		{"hi", `"hi"`},
		{42, "42"},
		{true, "true"},
		{&label{"exit"}, "exit"},
		{(*label)(nil), "null"},
	}
	for _, tt := range tests {
		o := must(NewObjectSlim(tt.value, typeslim.Any, nil))(t)
		if got := o.String(); got != tt.want {
			t.Errorf("String(%#v) = %q, want %q", tt.value, got, tt.want)
		}
	}
}

func TestDefaultFactoryAvoidsTypedNil(t *testing.T) {
	var f Factory = DefaultFactory{}
	n, err := f.Binary(expr.Add, nil, intConst(t, 1), false, nil, nil)
	if err == nil {
		t.Fatal("expected an error for a nil operand")
	}
	if n != nil {
		t.Errorf("failed Binary returned non-nil interface %#v", n)
	}
}
