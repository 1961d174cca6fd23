package slim

import (
	"strings"
	"testing"

	"github.com/raymyers/slimexpr/pkg/typeslim"
)

func TestString(t *testing.T) {
	x := param(t, "x")
	one, two := intConst(t, 1), intConst(t, 2)
	exit := LabelTarget(nil, "exit")
	nullString := must(Constant(must(NewObjectSlim(nil, typeslim.String, nil))(t), nil))(t)

	tests := []struct {
		name string
		node ExpressionSlim
		want string
	}{
		{"null constant", nullString, "Constant(null, string)"},
		{"string constant", must(Constant(must(NewObjectSlim("a", typeslim.String, nil))(t), nil))(t), `Constant("a", string)`},
		{"binary", must(Add(one, two))(t), "Add(Constant(1, int), Constant(2, int))"},
		{"static call", must(Call(nil, maxMethod(t), one, two))(t), "Call(m.Math.Max(int, int) int, Constant(1, int), Constant(2, int))"},
		{"lambda", must(Lambda(nil, must(Negate(x))(t), x))(t), "Lambda(Negate(Parameter(x, int)), Parameter(x, int))"},
		{"convert", must(Convert(x, typeslim.Int64))(t), "Convert(Parameter(x, int), int64)"},
		{"default", must(Default(typeslim.Bool))(t), "Default(bool)"},
		{"break", must(Break(exit, nil))(t), "Break(LabelTarget(exit))"},
		{"loop", must(Loop(must(Break(exit, nil))(t), exit, nil))(t), "Loop(Break(LabelTarget(exit)), Break(LabelTarget(exit)))"},
		{"block", must(Block(nil, []*ParameterExpressionSlim{x}, x))(t), "Block(Variables(Parameter(x, int)), Parameter(x, int))"},
		{"try finally", must(TryFinally(one, two))(t), "Try(Constant(1, int), Finally(Constant(2, int)))"},
		{"type is", must(TypeIs(x, typeslim.String))(t), "TypeIs(Parameter(x, int), string)"},
		{"extension", &marker{inner: x}, "Extension(int)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.node.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPrinter(t *testing.T) {
	tree := must(Add(intConst(t, 1), must(Negate(intConst(t, 2)))(t)))(t)

	var flat strings.Builder
	if err := NewPrinter(&flat).Print(tree); err != nil {
		t.Fatalf("Print: %v", err)
	}
	if want := tree.String() + "\n"; flat.String() != want {
		t.Errorf("Print = %q, want %q", flat.String(), want)
	}

	var indented strings.Builder
	if err := NewTreePrinter(&indented, 2).Print(tree); err != nil {
		t.Fatalf("Print: %v", err)
	}
	want := strings.Join([]string{
		"Add(",
		"  Constant(1, int),",
		"  Negate(",
		"    Constant(2, int)",
		"  )",
		")",
		"",
	}, "\n")
	if indented.String() != want {
		t.Errorf("tree Print =\n%s\nwant\n%s", indented.String(), want)
	}

	var empty strings.Builder
	if err := NewPrinter(&empty).Print(nil); err != nil || empty.String() != "null\n" {
		t.Errorf("Print(nil) = %q, %v", empty.String(), err)
	}
}
