package slim

import (
	"fmt"
	"iter"
	"reflect"

	"github.com/raymyers/slimexpr/pkg/typeslim"
)

// ReadOnlyCollection is an immutable sequence of child nodes. Collections
// have identity: visitors return the same instance when no element changed,
// so callers can detect a no-op rewrite with ==.
type ReadOnlyCollection[T any] struct {
	items []T
}

// NewReadOnlyCollection copies items into a new collection
func NewReadOnlyCollection[T any](items ...T) *ReadOnlyCollection[T] {
	return &ReadOnlyCollection[T]{items: append([]T(nil), items...)}
}

// Count returns the number of elements; a nil collection is empty
func (c *ReadOnlyCollection[T]) Count() int {
	if c == nil {
		return 0
	}
	return len(c.items)
}

// At returns element i and panics with an *ArgumentError when i is out of
// range.
func (c *ReadOnlyCollection[T]) At(i int) T {
	v, err := c.Item(i)
	if err != nil {
		panic(err)
	}
	return v
}

// Item returns element i
func (c *ReadOnlyCollection[T]) Item(i int) (T, error) {
	if i < 0 || i >= c.Count() {
		var zero T
		return zero, typeslim.OutOfRange("index")
	}
	return c.items[i], nil
}

func (c *ReadOnlyCollection[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i := 0; i < c.Count(); i++ {
			if !yield(i, c.items[i]) {
				return
			}
		}
	}
}

// Slice returns a copy of the elements
func (c *ReadOnlyCollection[T]) Slice() []T {
	if c.Count() == 0 {
		return nil
	}
	return append([]T(nil), c.items...)
}

// sameElements reports whether b holds exactly the instances of a, in order
func sameElements[T comparable](a *ReadOnlyCollection[T], b []T) bool {
	if a.Count() != len(b) {
		return false
	}
	for i, v := range b {
		if a.items[i] != v {
			return false
		}
	}
	return true
}

// sameCollection is sameElements for two collections, short-circuiting on
// identity.
func sameCollection[T comparable](a, b *ReadOnlyCollection[T]) bool {
	if a == b {
		return true
	}
	return sameElements(a, b.Slice())
}

func checkElements[T comparable](param string, items []T) error {
	for i, v := range items {
		if isNil(v) {
			return null(fmt.Sprintf("%s[%d]", param, i))
		}
	}
	return nil
}

// isNil reports whether v is nil or a nil pointer, map, slice, func or
// channel held in an interface.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// ArgumentProvider is implemented by nodes with positional arguments:
// method calls, invocations, constructions, indexers and element
// initializers.
type ArgumentProvider interface {
	ArgumentCount() int
	GetArgument(i int) (ExpressionSlim, error)
}

const inlineArgs = 6

// argStore keeps up to inlineArgs arguments in a fixed array and spills
// larger lists to a slice. Only the allocation differs between the two.
type argStore struct {
	inline [inlineArgs]ExpressionSlim
	n      int
	spill  []ExpressionSlim
}

func newArgStore(args []ExpressionSlim) argStore {
	if len(args) > inlineArgs {
		return argStore{n: len(args), spill: append([]ExpressionSlim(nil), args...)}
	}
	var s argStore
	s.n = copy(s.inline[:], args)
	return s
}

func (s *argStore) ArgumentCount() int { return s.n }

func (s *argStore) GetArgument(i int) (ExpressionSlim, error) {
	if i < 0 || i >= s.n {
		return nil, typeslim.OutOfRange("index")
	}
	if s.spill != nil {
		return s.spill[i], nil
	}
	return s.inline[i], nil
}

func (s *argStore) at(i int) ExpressionSlim {
	if s.spill != nil {
		return s.spill[i]
	}
	return s.inline[i]
}

func (s *argStore) slice() []ExpressionSlim {
	out := make([]ExpressionSlim, s.n)
	for i := range out {
		out[i] = s.at(i)
	}
	return out
}

func (s *argStore) same(args []ExpressionSlim) bool {
	if len(args) != s.n {
		return false
	}
	for i, a := range args {
		if s.at(i) != a {
			return false
		}
	}
	return true
}

// ListArgumentProviderSlim is a read-only list view over the arguments of
// an ArgumentProvider. Mutators always fail with ErrNotSupported.
type ListArgumentProviderSlim struct {
	provider ArgumentProvider
}

// NewListArgumentProvider wraps p in a list view
func NewListArgumentProvider(p ArgumentProvider) (*ListArgumentProviderSlim, error) {
	if p == nil {
		return nil, null("provider")
	}
	return &ListArgumentProviderSlim{provider: p}, nil
}

func (l *ListArgumentProviderSlim) Count() int { return l.provider.ArgumentCount() }

// At panics with an *ArgumentError when i is out of range
func (l *ListArgumentProviderSlim) At(i int) ExpressionSlim {
	e, err := l.provider.GetArgument(i)
	if err != nil {
		panic(err)
	}
	return e
}

func (l *ListArgumentProviderSlim) Item(i int) (ExpressionSlim, error) {
	return l.provider.GetArgument(i)
}

func (l *ListArgumentProviderSlim) All() iter.Seq2[int, ExpressionSlim] {
	return func(yield func(int, ExpressionSlim) bool) {
		for i := 0; i < l.Count(); i++ {
			if !yield(i, l.At(i)) {
				return
			}
		}
	}
}

// IndexOf returns the position of e by identity, or -1
func (l *ListArgumentProviderSlim) IndexOf(e ExpressionSlim) int {
	for i, a := range l.All() {
		if a == e {
			return i
		}
	}
	return -1
}

func (l *ListArgumentProviderSlim) Contains(e ExpressionSlim) bool { return l.IndexOf(e) >= 0 }
func (l *ListArgumentProviderSlim) IsReadOnly() bool               { return true }

func (l *ListArgumentProviderSlim) Slice() []ExpressionSlim {
	out := make([]ExpressionSlim, 0, l.Count())
	for _, a := range l.All() {
		out = append(out, a)
	}
	return out
}

func (l *ListArgumentProviderSlim) Set(int, ExpressionSlim) error    { return ErrNotSupported }
func (l *ListArgumentProviderSlim) Add(ExpressionSlim) error         { return ErrNotSupported }
func (l *ListArgumentProviderSlim) Clear() error                     { return ErrNotSupported }
func (l *ListArgumentProviderSlim) Insert(int, ExpressionSlim) error { return ErrNotSupported }
func (l *ListArgumentProviderSlim) Remove(ExpressionSlim) error      { return ErrNotSupported }
func (l *ListArgumentProviderSlim) RemoveAt(int) error               { return ErrNotSupported }
