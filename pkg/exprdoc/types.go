package exprdoc

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/raymyers/slimexpr/pkg/typeslim"
)

// ParseType resolves a type written in Go syntax. The empty string yields
// nil. Named types are looked up in the aliases, then among the predeclared
// names of the resolver, then as path.Name through the resolver.
func (b *Builder) ParseType(s string) (reflect.Type, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return nil, nil
	case strings.HasPrefix(s, "[]"):
		elem, err := b.requireType(s[2:])
		if err != nil {
			return nil, err
		}
		return reflect.SliceOf(elem), nil
	case strings.HasPrefix(s, "*"):
		elem, err := b.requireType(s[1:])
		if err != nil {
			return nil, err
		}
		return reflect.PointerTo(elem), nil
	case strings.HasPrefix(s, "map["):
		end := closing(s, len("map"))
		if end < 0 {
			return nil, fmt.Errorf("unbalanced brackets in type %q", s)
		}
		key, err := b.requireType(s[len("map["):end])
		if err != nil {
			return nil, err
		}
		elem, err := b.requireType(s[end+1:])
		if err != nil {
			return nil, err
		}
		if !key.Comparable() {
			return nil, fmt.Errorf("invalid map key type %s", key)
		}
		return reflect.MapOf(key, elem), nil
	}
	if t, ok := b.aliases[s]; ok {
		return t, nil
	}
	if t, ok := b.resolver.ResolveType("", s); ok {
		return t, nil
	}
	if i := strings.LastIndex(s, "."); i > 0 {
		if t, ok := b.resolver.ResolveType(s[:i], s[i+1:]); ok {
			return t, nil
		}
	}
	return nil, &typeslim.ResolutionError{What: "type", Name: s}
}

func (b *Builder) requireType(s string) (reflect.Type, error) {
	if strings.TrimSpace(s) == "" {
		return nil, typeslim.NullArgument("type")
	}
	return b.ParseType(s)
}

// closing returns the index of the bracket closing the one at open
func closing(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
