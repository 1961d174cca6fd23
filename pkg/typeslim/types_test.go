package typeslim

import (
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"
)

type point struct {
	X, Y int
}

func newSpace(t *testing.T) *TypeSpace {
	t.Helper()
	r := NewRegistry()
	if err := r.RegisterType(reflect.TypeFor[point](), reflect.TypeFor[time.Duration]()); err != nil {
		t.Fatalf("RegisterType: %v", err)
	}
	s, err := NewTypeSpace(r)
	if err != nil {
		t.Fatalf("NewTypeSpace: %v", err)
	}
	return s
}

func TestTypeString(t *testing.T) {
	tests := []struct {
		name string
		typ  TypeSlim
		want string
	}{
		{"predeclared", Int, "int"},
		{"named", NewSimple("Duration", "time"), "time.Duration"},
		{"package", NewSimple("", "strings"), "strings"},
		{"slice", NewArray(String, 1), "[]string"},
		{"matrix", NewArray(Float64, 2), "[][]float64"},
		{"pointer", NewGeneric(NewSimple(PointerDefinition, ""), Int), "*int"},
		{"map", NewGeneric(NewSimple(MapDefinition, ""), String, Int), "map[string]int"},
		{"recv chan", NewGeneric(NewSimple(RecvChanDefinition, ""), Bool), "<-chan bool"},
		{"fixed array", NewGeneric(NewSimple(FixedArrayDefinition(4), ""), Uint8), "[4]uint8"},
		{"func", NewGeneric(NewSimple(FuncDefinition(1, 1, false), ""), Int, String), "func(int) string"},
		{"variadic func", NewGeneric(NewSimple(FuncDefinition(2, 0, true), ""), String, NewArray(Any, 1)), "func(string, ...any)"},
		{"multi result", NewGeneric(NewSimple(FuncDefinition(0, 2, false), ""), Int, Error), "func() (int, error)"},
		{"user generic", NewGeneric(NewSimple("List`1", "example.com/coll"), Int), "coll.List[int]"},
		{"generic parameter", NewGenericParameter(0, ""), "!!0"},
		{"named generic parameter", NewGenericParameter(1, "T"), "T"},
		{"structural", NewStructural(StructuralMember{Name: "A", Type: Int}, StructuralMember{Name: "B", Type: String, Tag: `json:"b"`}), "struct{A int; B string \"json:\\\"b\\\"\"}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.typ.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTypeEquality(t *testing.T) {
	tests := []struct {
		name  string
		a, b  TypeSlim
		equal bool
	}{
		{"int == int", Int, NewSimple("int", ""), true},
		{"int != int64", Int, Int64, false},
		{"same package differs", NewSimple("T", "a"), NewSimple("T", "b"), false},
		{"slice rank", NewArray(Int, 1), NewArray(Int, 2), false},
		{"slice == slice", NewArray(Int, 1), NewArray(NewSimple("int", ""), 1), true},
		{"array vs simple", NewArray(Int, 1), Int, false},
		{"generic args", NewGeneric(NewSimple(MapDefinition, ""), String, Int), NewGeneric(NewSimple(MapDefinition, ""), String, Int64), false},
		{"structural names", NewStructural(StructuralMember{Name: "A", Type: Int}), NewStructural(StructuralMember{Name: "B", Type: Int}), false},
		{"structural equal", NewStructural(StructuralMember{Name: "A", Type: Int}), NewStructural(StructuralMember{Name: "A", Type: Int}), true},
		{"parameter position", NewGenericParameter(0, ""), NewGenericParameter(1, ""), false},
		{"parameter name with separator", NewGenericParameter(0, "a", Int), NewGenericParameter(0, "a;T(|int)"), false},
		{"nil == nil", nil, nil, true},
		{"nil != int", nil, Int, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.equal {
				t.Errorf("Equal(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.equal)
			}
		})
	}
}

func TestInterning(t *testing.T) {
	s := newSpace(t)

	a := s.Array(s.Simple("int", ""), 1)
	b := s.Array(NewSimple("int", ""), 1)
	if a != b {
		t.Error("structurally equal arrays should intern to the same instance")
	}
	if s.Simple("int", "") != Int {
		t.Error("predeclared types should intern to the shared instance")
	}
	m1 := s.Generic(NewSimple(MapDefinition, ""), String, NewArray(Int, 1))
	m2 := s.Intern(NewGeneric(NewSimple(MapDefinition, ""), NewSimple("string", ""), NewArray(Int, 1)))
	if TypeSlim(m1) != m2 {
		t.Error("Intern should return the canonical generic instance")
	}
	if s.GenericParameter(0, "a", Int) == s.GenericParameter(0, "a;T(|int)") {
		t.Error("generic parameters with different names interned to one instance")
	}
}

type box[T any] struct {
	V T
}

func TestInstantiatedGenericNarrowsToSimple(t *testing.T) {
	rt := reflect.TypeFor[box[int]]()
	r := NewRegistry()
	if err := r.RegisterType(rt); err != nil {
		t.Fatal(err)
	}
	s, err := NewTypeSpace(r)
	if err != nil {
		t.Fatal(err)
	}
	got, err := s.FromType(rt)
	if err != nil {
		t.Fatalf("FromType: %v", err)
	}
	simple, ok := got.(*SimpleTypeSlim)
	if !ok || simple.Name != "box[int]" {
		t.Fatalf("FromType(box[int]) = %#v, want SimpleTypeSlim box[int]", got)
	}
	if back, err := s.ToType(got); err != nil || back != rt {
		t.Errorf("ToType = %v, %v", back, err)
	}

	other, err := NewTypeSpace(NewRegistry())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := other.ToType(NewSimple("box[int]", rt.PkgPath())); !errors.Is(err, ErrUnresolved) {
		t.Errorf("ToType of unregistered instantiation error = %v", err)
	}
}

func TestRoundTripNativeTypes(t *testing.T) {
	s := newSpace(t)

	types := []reflect.Type{
		reflect.TypeFor[int](),
		reflect.TypeFor[string](),
		reflect.TypeFor[any](),
		reflect.TypeFor[error](),
		reflect.TypeFor[[]int](),
		reflect.TypeFor[[][]string](),
		reflect.TypeFor[[3]float64](),
		reflect.TypeFor[*point](),
		reflect.TypeFor[map[string][]point](),
		reflect.TypeFor[chan int](),
		reflect.TypeFor[<-chan int](),
		reflect.TypeFor[func(int, string) (bool, error)](),
		reflect.TypeFor[func(string, ...int)](),
		reflect.TypeFor[struct {
			A int
			B string `json:"b"`
		}](),
		reflect.TypeFor[time.Duration](),
		VoidType,
	}
	for _, rt := range types {
		t.Run(rt.String(), func(t *testing.T) {
			slim, err := s.FromType(rt)
			if err != nil {
				t.Fatalf("FromType: %v", err)
			}
			again, err := s.FromType(rt)
			if err != nil || again != slim {
				t.Errorf("FromType should be memoized, got %p and %p", slim, again)
			}
			back, err := s.ToType(slim)
			if err != nil {
				t.Fatalf("ToType(%v): %v", slim, err)
			}
			if back != rt {
				t.Errorf("ToType(FromType(%v)) = %v", rt, back)
			}
		})
	}
}

func TestCrossSpaceStructuralEquality(t *testing.T) {
	s1, s2 := newSpace(t), newSpace(t)
	rt := reflect.TypeFor[map[string]*point]()

	a, err := s1.FromType(rt)
	if err != nil {
		t.Fatal(err)
	}
	b, err := s2.FromType(rt)
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Error("independent spaces should not share composite instances")
	}
	if !Equal(a, b) {
		t.Error("independent spaces should produce structurally equal descriptors")
	}
}

func TestResolutionErrors(t *testing.T) {
	s := newSpace(t)
	tests := []struct {
		name string
		typ  TypeSlim
	}{
		{"unregistered", NewSimple("Missing", "example.com/x")},
		{"package namespace", NewSimple("", "strings")},
		{"generic parameter", NewGenericParameter(0, "T")},
		{"non-comparable key", NewGeneric(NewSimple(MapDefinition, ""), NewArray(Int, 1), Int)},
		{"unexported field", NewStructural(StructuralMember{Name: "x", Type: Int})},
		{"bad arity", NewGeneric(NewSimple(PointerDefinition, ""), Int, Int)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.ToType(tt.typ)
			var re *ResolutionError
			if !errors.As(err, &re) {
				t.Fatalf("ToType(%v) error = %v, want ResolutionError", tt.typ, err)
			}
			if !errors.Is(err, ErrUnresolved) {
				t.Errorf("error should match ErrUnresolved")
			}
		})
	}

	if _, err := s.FromType(reflect.TypeFor[interface{ M() }]()); !errors.Is(err, ErrUnresolved) {
		t.Errorf("FromType(interface{M()}) error = %v, want ErrUnresolved", err)
	}
	if _, err := s.FromType(nil); !errors.Is(err, ErrArgumentNull) {
		t.Errorf("FromType(nil) error = %v, want ErrArgumentNull", err)
	}
}

func TestNewTypeSpaceRequiresResolver(t *testing.T) {
	_, err := NewTypeSpace(nil)
	var ae *ArgumentError
	if !errors.As(err, &ae) || ae.Param != "resolver" {
		t.Errorf("NewTypeSpace(nil) error = %v, want ArgumentError for resolver", err)
	}
}

func TestConcurrentLookups(t *testing.T) {
	s := newSpace(t)
	rt := reflect.TypeFor[map[int][]string]()

	var wg sync.WaitGroup
	results := make([]TypeSlim, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			slim, err := s.FromType(rt)
			if err != nil {
				t.Error(err)
				return
			}
			results[i] = slim
		}(i)
	}
	wg.Wait()
	for i, r := range results {
		if r != results[0] {
			t.Errorf("result %d is a different instance", i)
		}
	}
}

func TestFuncDefinitionParsing(t *testing.T) {
	p, r, v, ok := ParseFuncDefinition(FuncDefinition(3, 1, true))
	if !ok || p != 3 || r != 1 || !v {
		t.Errorf("ParseFuncDefinition = %d, %d, %v, %v", p, r, v, ok)
	}
	if _, _, _, ok := ParseFuncDefinition("List`1"); ok {
		t.Error("List`1 is not a function definition")
	}
	if n, ok := ParseFixedArrayDefinition(FixedArrayDefinition(8)); !ok || n != 8 {
		t.Errorf("ParseFixedArrayDefinition = %d, %v", n, ok)
	}
}
