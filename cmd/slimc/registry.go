package main

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/raymyers/slimexpr/pkg/typeslim"
)

// builtinFuncs are the package functions tree documents can call
var builtinFuncs = []struct {
	pkg, name string
	fn        any
}{
	{"strings", "ToUpper", strings.ToUpper},
	{"strings", "ToLower", strings.ToLower},
	{"strings", "TrimSpace", strings.TrimSpace},
	{"strings", "Repeat", strings.Repeat},
	{"strings", "Contains", strings.Contains},
	{"strings", "HasPrefix", strings.HasPrefix},
	{"strconv", "Itoa", strconv.Itoa},
	{"strconv", "Quote", strconv.Quote},
	{"math", "Abs", math.Abs},
	{"math", "Sqrt", math.Sqrt},
	{"math", "Max", math.Max},
	{"math", "Min", math.Min},
	{"math", "Pow", math.Pow},
}

func newRegistry() (*typeslim.Registry, error) {
	r := typeslim.NewRegistry()
	if err := r.RegisterType(reflect.TypeFor[time.Duration](), reflect.TypeFor[time.Month]()); err != nil {
		return nil, err
	}
	for _, f := range builtinFuncs {
		if err := r.RegisterFunc(f.pkg, f.name, f.fn); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// resolveAliases maps configured alias names to registered types
func resolveAliases(r typeslim.Resolver, aliases map[string]string) (map[string]reflect.Type, error) {
	out := make(map[string]reflect.Type, len(aliases))
	for name, target := range aliases {
		i := strings.LastIndex(target, ".")
		pkg, tname := "", target
		if i > 0 {
			pkg, tname = target[:i], target[i+1:]
		}
		t, ok := r.ResolveType(pkg, tname)
		if !ok {
			return nil, fmt.Errorf("alias %s: %w", name, &typeslim.ResolutionError{What: "type", Name: target})
		}
		out[name] = t
	}
	return out, nil
}
