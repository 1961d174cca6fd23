package members

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/raymyers/slimexpr/pkg/expr"
	"github.com/raymyers/slimexpr/pkg/typeslim"
)

type account struct {
	Owner   string
	Balance int
}

func (a account) Label() string        { return strings.ToUpper(a.Owner) }
func (a *account) Deposit(n int)       { a.Balance += n }
func (a account) Fee(rate float64) int { return int(float64(a.Balance) * rate) }

func newAccount(owner string) account { return account{Owner: owner} }
func accountZero() account            { return account{} }
func first[T any](xs []T) T           { return xs[0] }

func newMemberSpace(t *testing.T) (*Space, *typeslim.Registry) {
	t.Helper()
	r := typeslim.NewRegistry()
	at := reflect.TypeFor[account]()
	if err := r.RegisterType(at); err != nil {
		t.Fatal(err)
	}
	for _, err := range []error{
		r.RegisterFunc("strings", "ToUpper", strings.ToUpper),
		r.RegisterFunc("strings", "Repeat", strings.Repeat),
		r.RegisterFunc(at.PkgPath(), StaticName(at, "Zero"), accountZero),
		r.RegisterGenericFunc("example.com/slices", "First", []reflect.Type{reflect.TypeFor[int]()}, first[int]),
		r.RegisterConstructor(newAccount),
	} {
		if err != nil {
			t.Fatal(err)
		}
	}
	ts, err := typeslim.NewTypeSpace(r)
	if err != nil {
		t.Fatal(err)
	}
	s, err := NewSpace(ts)
	if err != nil {
		t.Fatal(err)
	}
	return s, r
}

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

func TestFieldRoundTrip(t *testing.T) {
	s, _ := newMemberSpace(t)
	f := must(expr.FieldOf(reflect.TypeFor[account](), "Balance"))(t)

	slim := must(s.FromField(f))(t)
	if got := slim.String(); !strings.HasSuffix(got, "account.Balance int") {
		t.Errorf("field string = %q", got)
	}
	again := must(s.FromField(must(expr.FieldOf(reflect.TypeFor[account](), "Balance"))(t)))(t)
	if again != slim {
		t.Error("narrowing the same field twice should yield the same descriptor")
	}

	back := must(s.ToField(slim))(t)
	if back.Name != "Balance" || back.Type != reflect.TypeFor[int]() || !reflect.DeepEqual(back.Index, f.Index) {
		t.Errorf("ToField = %+v", back)
	}
}

func TestMethodRoundTrip(t *testing.T) {
	s, _ := newMemberSpace(t)
	at := reflect.TypeFor[account]()

	tests := []struct {
		name   string
		method *expr.Method
		want   string
	}{
		{"package func", must(expr.FuncOf("strings", "ToUpper", strings.ToUpper))(t), "strings.ToUpper(string) string"},
		{"two params", must(expr.FuncOf("strings", "Repeat", strings.Repeat))(t), "strings.Repeat(string, int) string"},
		{"instance", must(expr.MethodOf(at, "Fee"))(t), "members.account.Fee(float64) int"},
		{"pointer receiver", must(expr.MethodOf(reflect.PointerTo(at), "Deposit"))(t), "*members.account.Deposit(int)"},
		{"generic", must(expr.GenericFuncOf("example.com/slices", "First", []reflect.Type{reflect.TypeFor[int]()}, first[int]))(t), "slices.First[int]([]int) int"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slim := must(s.FromMethod(tt.method))(t)
			if got := slim.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
			back := must(s.ToMethod(slim))(t)
			if back.Name != tt.method.Name || back.Static != tt.method.Static || back.Return != tt.method.Return {
				t.Errorf("ToMethod = %+v, want %+v", back, tt.method)
			}
			if !reflect.DeepEqual(back.Params, tt.method.Params) {
				t.Errorf("params = %v, want %v", back.Params, tt.method.Params)
			}
			if again := must(s.ToMethod(slim))(t); again != back {
				t.Error("widening should be memoized")
			}
		})
	}
}

func TestGenericDefinitionIsOpened(t *testing.T) {
	s, _ := newMemberSpace(t)
	m := must(expr.GenericFuncOf("example.com/slices", "First", []reflect.Type{reflect.TypeFor[int]()}, first[int]))(t)
	slim := must(s.FromMethod(m))(t)

	g, ok := slim.(*typeslim.GenericMethodInfoSlim)
	if !ok {
		t.Fatalf("FromMethod = %T, want *GenericMethodInfoSlim", slim)
	}
	def := g.GenericMethodDefinition()
	if got := def.String(); got != "slices.First[!!0]([]!!0) !!0" {
		t.Errorf("definition = %q", got)
	}
	if _, err := s.ToMethod(def); !errors.Is(err, typeslim.ErrUnresolved) {
		t.Errorf("widening an open definition error = %v, want ErrUnresolved", err)
	}
}

func TestStaticFunctionOfType(t *testing.T) {
	s, _ := newMemberSpace(t)
	at := reflect.TypeFor[account]()
	m := must(expr.FuncOf(at.PkgPath(), "Zero", accountZero))(t)
	m.Declaring = at

	slim := must(s.FromMethod(m))(t)
	if !slim.IsStatic() || !typeslim.Equal(slim.DeclaringType(), must(s.Types().FromType(at))(t)) {
		t.Errorf("static descriptor = %v", slim)
	}
	back := must(s.ToMethod(slim))(t)
	if back.Declaring != at || back.Func.Pointer() != reflect.ValueOf(accountZero).Pointer() {
		t.Errorf("ToMethod resolved %+v", back)
	}
}

func TestPropertyAndConstructor(t *testing.T) {
	s, _ := newMemberSpace(t)
	at := reflect.TypeFor[account]()

	p := must(expr.PropertyOf(at, "Label"))(t)
	ps := must(s.FromProperty(p))(t)
	if ps.PropertyType() != typeslim.String {
		t.Errorf("property type = %v", ps.PropertyType())
	}
	if back := must(s.ToProperty(ps))(t); back.Getter.Name != "Label" {
		t.Errorf("ToProperty = %+v", back)
	}

	c := must(expr.ConstructorOf(newAccount))(t)
	cs := must(s.FromConstructor(c))(t)
	if got := cs.String(); !strings.HasPrefix(got, "new ") || !strings.HasSuffix(got, "account(string)") {
		t.Errorf("constructor string = %q", got)
	}
	back := must(s.ToConstructor(cs))(t)
	if back.Declaring != at || len(back.Params) != 1 {
		t.Errorf("ToConstructor = %+v", back)
	}
}

func TestResolutionFailures(t *testing.T) {
	s, _ := newMemberSpace(t)
	ts := s.Types()
	at := must(ts.FromType(reflect.TypeFor[account]()))(t)

	tests := []struct {
		name   string
		member func() (any, error)
	}{
		{"unknown field", func() (any, error) {
			f := must(typeslim.NewField(at, "Missing", typeslim.Int))(t)
			return s.ToField(f)
		}},
		{"field type mismatch", func() (any, error) {
			f := must(typeslim.NewField(at, "Balance", typeslim.String))(t)
			return s.ToField(f)
		}},
		{"unregistered function", func() (any, error) {
			m := must(typeslim.NewMethod(ts.Package("strings"), "ToLower", true, []typeslim.TypeSlim{typeslim.String}, typeslim.String))(t)
			return s.ToMethod(m)
		}},
		{"overload mismatch", func() (any, error) {
			m := must(typeslim.NewMethod(ts.Package("strings"), "ToUpper", true, []typeslim.TypeSlim{typeslim.Int}, typeslim.String))(t)
			return s.ToMethod(m)
		}},
		{"instance signature mismatch", func() (any, error) {
			m := must(typeslim.NewMethod(at, "Fee", false, []typeslim.TypeSlim{typeslim.Int}, typeslim.Int))(t)
			return s.ToMethod(m)
		}},
		{"no constructor", func() (any, error) {
			c := must(typeslim.NewConstructor(at, typeslim.Int))(t)
			return s.ToConstructor(c)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.member()
			if !errors.Is(err, typeslim.ErrUnresolved) {
				t.Errorf("error = %v, want ErrUnresolved", err)
			}
		})
	}

	if _, err := NewSpace(nil); !errors.Is(err, typeslim.ErrArgumentNull) {
		t.Errorf("NewSpace(nil) error = %v", err)
	}
}
