package exprdoc

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/raymyers/slimexpr/pkg/expr"
	"github.com/raymyers/slimexpr/pkg/typeslim"
)

type point struct {
	X, Y int
}

func newPoint(x, y int) point { return point{X: x, Y: y} }

func newBuilder(t *testing.T) *Builder {
	t.Helper()
	r := typeslim.NewRegistry()
	for _, err := range []error{
		r.RegisterType(reflect.TypeFor[point]()),
		r.RegisterFunc("strings", "ToUpper", strings.ToUpper),
		r.RegisterConstructor(newPoint),
	} {
		if err != nil {
			t.Fatal(err)
		}
	}
	b, err := NewBuilder(r, map[string]reflect.Type{"point": reflect.TypeFor[point]()})
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func buildLambda(t *testing.T, doc string) *expr.LambdaExpr {
	t.Helper()
	n, err := Decode([]byte(doc))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	l, err := newBuilder(t).BuildLambda(n)
	if err != nil {
		t.Fatalf("BuildLambda: %v", err)
	}
	return l
}

func TestBuildAndRun(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		args []any
		want any
	}{
		{
			name: "add",
			doc: `
op: Lambda
params: [{name: x, type: int}]
body:
  op: Add
  args:
    - {op: Parameter, name: x}
    - {op: Constant, value: 2}
`,
			args: []any{1},
			want: 3,
		},
		{
			name: "package function",
			doc: `
op: Lambda
params: [{name: s, type: string}]
body: {op: Call, name: strings.ToUpper, args: [{op: Parameter, name: s}]}
`,
			args: []any{"ab"},
			want: "AB",
		},
		{
			name: "constructor and field",
			doc: `
op: Lambda
params: [{name: x, type: int}]
body:
  op: MemberAccess
  name: Y
  args:
    - op: New
      type: point
      args:
        - {op: Parameter, name: x}
        - {op: Constant, value: 7}
`,
			args: []any{1},
			want: 7,
		},
		{
			name: "member init",
			doc: `
op: Lambda
body:
  op: MemberAccess
  name: X
  args:
    - op: MemberInit
      body: {op: New, type: point}
      bindings:
        - {member: X, value: {op: Constant, value: 4}}
`,
			want: 4,
		},
		{
			name: "loop with break",
			doc: `
op: Lambda
body:
  op: Block
  vars: [{name: i, type: int}, {name: sum, type: int}]
  args:
    - op: Loop
      break: done
      type: int
      body:
        op: Conditional
        type: void
        args:
          - op: LessThan
            args: [{op: Parameter, name: i}, {op: Constant, value: 5}]
          - op: Block
            type: void
            args:
              - op: AddAssign
                args: [{op: Parameter, name: sum}, {op: Parameter, name: i}]
              - op: PostIncrementAssign
                args: [{op: Parameter, name: i}]
          - op: Break
            label: done
            args: [{op: Parameter, name: sum}]
`,
			want: 10,
		},
		{
			name: "switch",
			doc: `
op: Lambda
params: [{name: v, type: int}]
body:
  op: Switch
  args: [{op: Parameter, name: v}]
  cases:
    - tests: [{op: Constant, value: 1}]
      body: {op: Constant, value: one}
    - tests: [{op: Constant, value: 2}, {op: Constant, value: 3}]
      body: {op: Constant, value: few}
  default: {op: Constant, value: many}
`,
			args: []any{3},
			want: "few",
		},
		{
			name: "try catch",
			doc: `
op: Lambda
body:
  op: Try
  type: string
  body:
    op: Throw
    type: string
    args: [{op: Constant, value: boom}]
  catch:
    - var: {name: e, type: string}
      body: {op: Call, name: strings.ToUpper, args: [{op: Parameter, name: e}]}
`,
			want: "BOOM",
		},
		{
			name: "typed constant",
			doc: `
op: Lambda
body: {op: Convert, type: int64, args: [{op: Constant, value: 3, type: int8}]}
`,
			want: int64(3),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fn, err := expr.Compile(buildLambda(t, tt.doc))
			if err != nil {
				t.Fatalf("Compile: %v", err)
			}
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

func TestParametersAreLexical(t *testing.T) {
	l := buildLambda(t, `
op: Lambda
params: [{name: x, type: int}]
body:
  op: Add
  args:
    - {op: Parameter, name: x}
    - op: Invoke
      args:
        - op: Lambda
          params: [{name: x, type: int}]
          body: {op: Parameter, name: x}
        - {op: Parameter, name: x}
`)
	add := l.Body.(*expr.BinaryExpr)
	if add.Left != l.Params[0] {
		t.Errorf("outer reference does not resolve to the lambda parameter")
	}
	inv := add.Right.(*expr.InvokeExpr)
	inner := inv.Func.(*expr.LambdaExpr)
	if inner.Body != inner.Params[0] || inner.Params[0] == l.Params[0] {
		t.Errorf("inner x does not shadow the outer one")
	}
	if inv.Args[0] != l.Params[0] {
		t.Errorf("argument after the inner lambda should see the outer x")
	}
}

func TestFreeParameters(t *testing.T) {
	n, err := Decode([]byte(`
op: Add
args:
  - {op: Parameter, name: y, type: int}
  - {op: Parameter, name: y}
`))
	if err != nil {
		t.Fatal(err)
	}
	e, err := newBuilder(t).Build(n)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	add := e.(*expr.BinaryExpr)
	if add.Left != add.Right {
		t.Errorf("references to free y built distinct parameters")
	}

	n, err = Decode([]byte(`{op: Parameter, name: z}`))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := newBuilder(t).Build(n); !errors.Is(err, ErrUndeclared) {
		t.Errorf("untyped free parameter error = %v, want ErrUndeclared", err)
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want error
		line int
	}{
		{"unknown op", "op: Lambda\nbody:\n  op: Frobnicate\n", ErrUnknownOp, 3},
		{"arity", "op: Add\nargs: [{op: Constant, value: 1}]\n", ErrArity, 1},
		{"unknown type", "op: Default\ntype: widget\n", typeslim.ErrUnresolved, 1},
		{"unregistered function", "op: Call\nname: strings.ToLower\nargs: [{op: Constant, value: A}]\n", ErrNoMatchingMember, 1},
		{"missing field", "op: MemberAccess\nname: Z\nargs: [{op: New, type: point}]\n", ErrNoMatchingMember, 1},
		{"null without type", "op: Constant\nvalue: null\n", nil, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := Decode([]byte(tt.doc))
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			_, err = newBuilder(t).Build(n)
			if err == nil {
				t.Fatal("Build succeeded, want an error")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
			var de *Error
			if !errors.As(err, &de) || de.Line != tt.line {
				t.Errorf("error %v not located at line %d", err, tt.line)
			}
		})
	}
}

func TestDecodeRejectsEmptyDocument(t *testing.T) {
	if _, err := Decode([]byte("name: x\n")); err == nil {
		t.Error("Decode accepted a document without op")
	}
	if _, err := Decode([]byte("op: [")); err == nil {
		t.Error("Decode accepted malformed YAML")
	}
}

func TestParseType(t *testing.T) {
	b := newBuilder(t)
	tests := []struct {
		in   string
		want reflect.Type
	}{
		{"", nil},
		{"int", reflect.TypeFor[int]()},
		{"[]string", reflect.TypeFor[[]string]()},
		{"*point", reflect.TypeFor[*point]()},
		{"map[string][]int", reflect.TypeFor[map[string][]int]()},
		{"void", expr.VoidType},
		{reflect.TypeFor[point]().PkgPath() + ".point", reflect.TypeFor[point]()},
	}
	for _, tt := range tests {
		got, err := b.ParseType(tt.in)
		if err != nil {
			t.Errorf("ParseType(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseType(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	for _, bad := range []string{"widget", "map[string", "map[[]int]bool"} {
		if _, err := b.ParseType(bad); err == nil {
			t.Errorf("ParseType(%q) succeeded", bad)
		}
	}
}
