package slim

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/raymyers/slimexpr/pkg/typeslim"
)

// ObjectSlim is the value held by a constant node. It keeps the value
// produced at narrowing time together with its portable type and the
// native type it had, and reduces it to a native value on demand. A nil
// value is a null constant, not an absent one.
type ObjectSlim struct {
	value  any
	typ    typeslim.TypeSlim
	native reflect.Type
}

// NewObjectSlim wraps value. native may be nil when the value was not
// produced by a native tree.
func NewObjectSlim(value any, typ typeslim.TypeSlim, native reflect.Type) (*ObjectSlim, error) {
	if typ == nil {
		return nil, null("type")
	}
	return &ObjectSlim{value: value, typ: typ, native: native}, nil
}

func (o *ObjectSlim) Value() any                  { return o.value }
func (o *ObjectSlim) TypeSlim() typeslim.TypeSlim { return o.typ }
func (o *ObjectSlim) OriginalType() reflect.Type  { return o.native }

// Reduce materializes the value as an instance of native. Values are
// returned as is when assignable and converted when convertible, so a named
// integer type of one runtime reduces to the matching type of another.
func (o *ObjectSlim) Reduce(native reflect.Type) (any, error) {
	if native == nil {
		return nil, null("type")
	}
	if o.value == nil {
		switch native.Kind() {
		case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			return reflect.Zero(native).Interface(), nil
		}
		return nil, &typeslim.ResolutionError{What: "constant", Name: "null", Reason: fmt.Sprintf("%s cannot hold nil", native)}
	}
	v := reflect.ValueOf(o.value)
	switch {
	case v.Type() == native:
		return o.value, nil
	case v.Type().AssignableTo(native):
		out := reflect.New(native).Elem()
		out.Set(v)
		return out.Interface(), nil
	case v.Type().ConvertibleTo(native) && !(native.Kind() == reflect.String && v.Kind() != reflect.String):
		return v.Convert(native).Interface(), nil
	}
	return nil, &typeslim.ResolutionError{What: "constant", Name: o.String(), Reason: fmt.Sprintf("%s is not convertible to %s", v.Type(), native)}
}

func (o *ObjectSlim) String() string {
	switch v := o.value.(type) {
	case nil:
		return "null"
	case string:
		return strconv.Quote(v)
	}
	if isNil(o.value) {
		return "null"
	}
	return fmt.Sprint(o.value)
}
