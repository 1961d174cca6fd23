package expr

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"reflect"
)

var (
	// ErrNotSupported is returned by Compile for node kinds the evaluator
	// cannot run.
	ErrNotSupported = errors.New("not supported by the evaluator")
	ErrOverflow     = errors.New("arithmetic overflow")
	ErrDivideByZero = errors.New("integer divide by zero")
	ErrInvalidCast  = errors.New("invalid cast")
)

// ThrownError carries a value raised by a Throw node or a panicking call
// out of the evaluator.
type ThrownError struct {
	Value any
}

func (e *ThrownError) Error() string {
	return fmt.Sprintf("thrown: %v", e.Value)
}

func (e *ThrownError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// Func is a compiled lambda
type Func func(args ...any) (any, error)

// jump unwinds the evaluator to the block, loop or label owning target
type jump struct {
	target *LabelTarget
	value  reflect.Value
}

func (j *jump) Error() string {
	return fmt.Sprintf("jump to label %q outside of its scope", j.target.Name)
}

// lambdaFailure carries an evaluation error out of a lambda called through
// reflection, where only panics can escape.
type lambdaFailure struct {
	err error
}

type scope struct {
	vars   map[*ParameterExpr]reflect.Value
	parent *scope
	caught *ThrownError
}

func newScope(parent *scope) *scope {
	return &scope{vars: make(map[*ParameterExpr]reflect.Value), parent: parent}
}

func (s *scope) declare(p *ParameterExpr) reflect.Value {
	v := reflect.New(p.T).Elem()
	s.vars[p] = v
	return v
}

func (s *scope) lookup(p *ParameterExpr) (reflect.Value, bool) {
	for ; s != nil; s = s.parent {
		if v, ok := s.vars[p]; ok {
			return v, true
		}
	}
	return reflect.Value{}, false
}

func (s *scope) exception() *ThrownError {
	for ; s != nil; s = s.parent {
		if s.caught != nil {
			return s.caught
		}
	}
	return nil
}

// Compile checks that every node of l can be evaluated and returns a Func
// running it. Arguments are converted to the parameter types; a void body
// yields a nil result.
func Compile(l *LambdaExpr) (Func, error) {
	if l == nil {
		return nil, null("lambda")
	}
	var unsupported error
	Inspect(l, func(e Expr) bool {
		if unsupported != nil {
			return false
		}
		if e.NodeType() == Quote {
			unsupported = fmt.Errorf("%w: %s", ErrNotSupported, e.NodeType())
		}
		return true
	})
	if unsupported != nil {
		return nil, unsupported
	}

	return func(args ...any) (any, error) {
		if len(args) != len(l.Params) {
			return nil, fmt.Errorf("lambda takes %d arguments, got %d", len(l.Params), len(args))
		}
		s := newScope(nil)
		for i, p := range l.Params {
			var v reflect.Value
			if args[i] != nil {
				v = reflect.ValueOf(args[i])
			}
			cv, err := coerce(v, p.T)
			if err != nil {
				return nil, fmt.Errorf("argument %d: %w", i, err)
			}
			s.declare(p).Set(cv)
		}
		v, err := eval(l.Body, s)
		if err != nil {
			return nil, err
		}
		if !v.IsValid() || v.Type() == VoidType {
			return nil, nil
		}
		return v.Interface(), nil
	}, nil
}

func eval(e Expr, s *scope) (reflect.Value, error) {
	switch n := e.(type) {
	case *ConstantExpr:
		if n.Value == nil {
			return zero(n.T), nil
		}
		return coerce(reflect.ValueOf(n.Value), n.T)
	case *DefaultExpr:
		return zero(n.T), nil
	case *ParameterExpr:
		if v, ok := s.lookup(n); ok {
			return v, nil
		}
		return reflect.Value{}, fmt.Errorf("parameter %q is not in scope", n.Name)
	case *BinaryExpr:
		return evalBinary(n, s)
	case *UnaryExpr:
		return evalUnary(n, s)
	case *ConditionalExpr:
		t, err := eval(n.Test, s)
		if err != nil {
			return reflect.Value{}, err
		}
		if truth(t) {
			return eval(n.IfTrue, s)
		}
		return eval(n.IfFalse, s)
	case *LambdaExpr:
		return makeClosure(n, s), nil
	case *MemberExpr:
		return evalMember(n, s)
	case *CallExpr:
		var recv reflect.Value
		if n.Object != nil {
			r, err := eval(n.Object, s)
			if err != nil {
				return reflect.Value{}, err
			}
			recv = r
		}
		args, err := evalAll(n.Args, s)
		if err != nil {
			return reflect.Value{}, err
		}
		return call(n.Method, recv, args)
	case *InvokeExpr:
		fn, err := eval(n.Func, s)
		if err != nil {
			return reflect.Value{}, err
		}
		args, err := evalAll(n.Args, s)
		if err != nil {
			return reflect.Value{}, err
		}
		if fn.Kind() == reflect.Interface {
			fn = fn.Elem()
		}
		if !fn.IsValid() || fn.IsNil() {
			return reflect.Value{}, &ThrownError{Value: "invoke of nil function"}
		}
		return invoke(fn, args)
	case *NewExpr:
		if n.Constructor == nil {
			return zero(n.T), nil
		}
		args, err := evalAll(n.Args, s)
		if err != nil {
			return reflect.Value{}, err
		}
		return invoke(n.Constructor.Func, args)
	case *NewArrayExpr:
		return evalNewArray(n, s)
	case *ListInitExpr:
		obj, err := eval(n.New, s)
		if err != nil {
			return reflect.Value{}, err
		}
		holder := addressable(obj)
		if err := addAll(holder, n.Initializers, s); err != nil {
			return reflect.Value{}, err
		}
		return holder, nil
	case *MemberInitExpr:
		obj, err := eval(n.New, s)
		if err != nil {
			return reflect.Value{}, err
		}
		holder := addressable(obj)
		if err := bind(holder, n.Bindings, s); err != nil {
			return reflect.Value{}, err
		}
		return holder, nil
	case *IndexExpr:
		return evalIndex(n, s)
	case *BlockExpr:
		return evalBlock(n, s)
	case *LoopExpr:
		for {
			_, err := eval(n.Body, s)
			if err == nil {
				continue
			}
			var j *jump
			if errors.As(err, &j) {
				if n.Break != nil && j.target == n.Break {
					return j.value, nil
				}
				if n.Continue != nil && j.target == n.Continue {
					continue
				}
			}
			return reflect.Value{}, err
		}
	case *GotoExpr:
		var v reflect.Value
		if n.Value != nil {
			var err error
			if v, err = eval(n.Value, s); err != nil {
				return reflect.Value{}, err
			}
		}
		return reflect.Value{}, &jump{target: n.Target, value: v}
	case *LabelExpr:
		if n.Default == nil {
			return reflect.Value{}, nil
		}
		return eval(n.Default, s)
	case *SwitchExpr:
		return evalSwitch(n, s)
	case *TryExpr:
		return evalTry(n, s)
	case *TypeBinaryExpr:
		v, err := eval(n.Expr, s)
		if err != nil {
			return reflect.Value{}, err
		}
		dyn := dynamicType(v)
		if dyn == nil {
			return reflect.ValueOf(false), nil
		}
		if n.Kind == TypeEqual {
			return reflect.ValueOf(dyn == n.TypeOperand), nil
		}
		return reflect.ValueOf(dyn.AssignableTo(n.TypeOperand)), nil
	}
	return reflect.Value{}, fmt.Errorf("%w: %s", ErrNotSupported, e.NodeType())
}

func evalAll(es []Expr, s *scope) ([]reflect.Value, error) {
	out := make([]reflect.Value, len(es))
	for i, e := range es {
		v, err := eval(e, s)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func evalBlock(n *BlockExpr, s *scope) (reflect.Value, error) {
	inner := newScope(s)
	for _, v := range n.Variables {
		inner.declare(v)
	}
	var last reflect.Value
	for i := 0; i < len(n.Exprs); i++ {
		v, err := eval(n.Exprs[i], inner)
		if err != nil {
			var j *jump
			if !errors.As(err, &j) {
				return reflect.Value{}, err
			}
			at := labelIndex(n, j.target)
			if at < 0 {
				return reflect.Value{}, err
			}
			i, v = at, j.value
		}
		last = v
	}
	if n.T == VoidType {
		return reflect.Value{}, nil
	}
	return last, nil
}

func labelIndex(b *BlockExpr, target *LabelTarget) int {
	for i, e := range b.Exprs {
		if l, ok := e.(*LabelExpr); ok && l.Target == target {
			return i
		}
	}
	return -1
}

func evalSwitch(n *SwitchExpr, s *scope) (reflect.Value, error) {
	v, err := eval(n.Value, s)
	if err != nil {
		return reflect.Value{}, err
	}
	for _, c := range n.Cases {
		for _, tv := range c.TestValues {
			t, err := eval(tv, s)
			if err != nil {
				return reflect.Value{}, err
			}
			var match bool
			if n.Comparison != nil {
				r, err := call(n.Comparison, reflect.Value{}, []reflect.Value{v, t})
				if err != nil {
					return reflect.Value{}, err
				}
				match = truth(r)
			} else {
				match = equal(v, t)
			}
			if match {
				return eval(c.Body, s)
			}
		}
	}
	if n.Default != nil {
		return eval(n.Default, s)
	}
	return reflect.Value{}, nil
}

func evalTry(n *TryExpr, s *scope) (reflect.Value, error) {
	v, err := eval(n.Body, s)
	var thrown *ThrownError
	if err != nil && errors.As(err, &thrown) {
		for _, h := range n.Handlers {
			tv := reflect.ValueOf(thrown.Value)
			if !tv.IsValid() || !tv.Type().AssignableTo(h.Test) {
				continue
			}
			hs := newScope(s)
			hs.caught = thrown
			if h.Variable != nil {
				hs.declare(h.Variable).Set(tv)
			}
			if h.Filter != nil {
				fv, ferr := eval(h.Filter, hs)
				if ferr != nil {
					return reflect.Value{}, ferr
				}
				if !truth(fv) {
					continue
				}
			}
			v, err = eval(h.Body, hs)
			break
		}
	}
	if err != nil && n.Fault != nil {
		if _, ferr := eval(n.Fault, s); ferr != nil {
			return reflect.Value{}, ferr
		}
	}
	if n.Finally != nil {
		if _, ferr := eval(n.Finally, s); ferr != nil {
			return reflect.Value{}, ferr
		}
	}
	return v, err
}

func evalMember(n *MemberExpr, s *scope) (reflect.Value, error) {
	var obj reflect.Value
	if n.Object != nil {
		o, err := eval(n.Object, s)
		if err != nil {
			return reflect.Value{}, err
		}
		obj = o
	}
	switch m := n.Member.(type) {
	case *Field:
		target, err := deref(obj)
		if err != nil {
			return reflect.Value{}, err
		}
		return target.FieldByIndex(m.Index), nil
	case *Property:
		return call(m.Getter, obj, nil)
	}
	return reflect.Value{}, fmt.Errorf("%w: member %T", ErrNotSupported, n.Member)
}

func evalIndex(n *IndexExpr, s *scope) (reflect.Value, error) {
	obj, err := eval(n.Object, s)
	if err != nil {
		return reflect.Value{}, err
	}
	args, err := evalAll(n.Args, s)
	if err != nil {
		return reflect.Value{}, err
	}
	if n.Indexer != nil {
		return call(n.Indexer.Getter, obj, args)
	}
	return index(obj, args[0])
}

func index(obj, idx reflect.Value) (reflect.Value, error) {
	obj, err := deref(obj)
	if err != nil {
		return reflect.Value{}, err
	}
	if obj.Kind() == reflect.Map {
		k, err := coerce(idx, obj.Type().Key())
		if err != nil {
			return reflect.Value{}, err
		}
		v := obj.MapIndex(k)
		if !v.IsValid() {
			return reflect.Zero(obj.Type().Elem()), nil
		}
		return v, nil
	}
	i, ok := toInt(idx)
	if !ok {
		return reflect.Value{}, fmt.Errorf("%w: index of type %s", ErrInvalidCast, idx.Type())
	}
	if i < 0 || i >= obj.Len() {
		return reflect.Value{}, &ThrownError{Value: fmt.Sprintf("index out of range [%d] with length %d", i, obj.Len())}
	}
	return obj.Index(i), nil
}

func evalNewArray(n *NewArrayExpr, s *scope) (reflect.Value, error) {
	vals, err := evalAll(n.Exprs, s)
	if err != nil {
		return reflect.Value{}, err
	}
	if n.Kind == NewArrayInit {
		out := reflect.MakeSlice(n.T, len(vals), len(vals))
		for i, v := range vals {
			cv, err := coerce(v, n.ElemType)
			if err != nil {
				return reflect.Value{}, err
			}
			out.Index(i).Set(cv)
		}
		return out, nil
	}
	lens := make([]int, len(vals))
	for i, v := range vals {
		l, ok := toInt(v)
		if !ok || l < 0 {
			return reflect.Value{}, &ThrownError{Value: fmt.Sprintf("invalid array bound %v", v)}
		}
		lens[i] = l
	}
	return makeBounds(n.T, lens), nil
}

func makeBounds(t reflect.Type, lens []int) reflect.Value {
	out := reflect.MakeSlice(t, lens[0], lens[0])
	if len(lens) > 1 {
		for i := 0; i < lens[0]; i++ {
			out.Index(i).Set(makeBounds(t.Elem(), lens[1:]))
		}
	}
	return out
}

func addAll(holder reflect.Value, inits []*ElementInit, s *scope) error {
	for _, in := range inits {
		args, err := evalAll(in.Args, s)
		if err != nil {
			return err
		}
		if _, err := call(in.AddMethod, holder, args); err != nil {
			return err
		}
	}
	return nil
}

func bind(holder reflect.Value, bindings []MemberBinding, s *scope) error {
	target, err := deref(holder)
	if err != nil {
		return err
	}
	for _, b := range bindings {
		f, ok := b.BoundMember().(*Field)
		if !ok {
			return fmt.Errorf("%w: binding to %s", ErrNotSupported, b.BoundMember().MemberName())
		}
		fv := target.FieldByIndex(f.Index)
		switch b := b.(type) {
		case *MemberAssignment:
			v, err := eval(b.Expr, s)
			if err != nil {
				return err
			}
			cv, err := coerce(v, f.Type)
			if err != nil {
				return err
			}
			fv.Set(cv)
		case *MemberMemberBinding:
			if err := bind(fv, b.Bindings, s); err != nil {
				return err
			}
		case *MemberListBinding:
			if err := addAll(fv, b.Initializers, s); err != nil {
				return err
			}
		}
	}
	return nil
}

func makeClosure(l *LambdaExpr, s *scope) reflect.Value {
	return reflect.MakeFunc(l.T, func(in []reflect.Value) []reflect.Value {
		inner := newScope(s)
		for i, p := range l.Params {
			inner.declare(p).Set(in[i])
		}
		v, err := eval(l.Body, inner)
		if err != nil {
			panic(lambdaFailure{err})
		}
		if l.T.NumOut() == 0 {
			return nil
		}
		cv, err := coerce(v, l.T.Out(0))
		if err != nil {
			panic(lambdaFailure{err})
		}
		return []reflect.Value{cv}
	})
}

// call runs a method. Instance methods take recv as the receiver; interface
// methods, which have no function value, are looked up on recv.
func call(m *Method, recv reflect.Value, args []reflect.Value) (reflect.Value, error) {
	if m.Static {
		return invoke(m.Func, args)
	}
	if !recv.IsValid() {
		return reflect.Value{}, &ThrownError{Value: fmt.Sprintf("nil receiver calling %s", m)}
	}
	if !m.Func.IsValid() {
		if recv.Kind() == reflect.Interface {
			if recv.IsNil() {
				return reflect.Value{}, &ThrownError{Value: fmt.Sprintf("nil receiver calling %s", m)}
			}
			recv = recv.Elem()
		}
		fn := recv.MethodByName(m.Name)
		if !fn.IsValid() && recv.CanAddr() {
			fn = recv.Addr().MethodByName(m.Name)
		}
		if !fn.IsValid() {
			return reflect.Value{}, fmt.Errorf("%s has no method %s", recv.Type(), m.Name)
		}
		return invoke(fn, args)
	}
	return invoke(m.Func, append([]reflect.Value{recv}, args...))
}

func invoke(fn reflect.Value, args []reflect.Value) (out reflect.Value, err error) {
	ft := fn.Type()
	in := make([]reflect.Value, len(args))
	for i, a := range args {
		pt := paramType(ft, i)
		if pt == nil {
			return reflect.Value{}, fmt.Errorf("too many arguments calling %s", ft)
		}
		if in[i], err = coerce(a, pt); err != nil {
			return reflect.Value{}, err
		}
	}
	defer func() {
		if r := recover(); r != nil {
			if f, ok := r.(lambdaFailure); ok {
				out, err = reflect.Value{}, f.err
				return
			}
			out, err = reflect.Value{}, &ThrownError{Value: r}
		}
	}()
	res := fn.Call(in)
	if len(res) == 0 {
		return reflect.Value{}, nil
	}
	return res[0], nil
}

func paramType(ft reflect.Type, i int) reflect.Type {
	n := ft.NumIn()
	switch {
	case ft.IsVariadic() && i >= n-1:
		return ft.In(n - 1).Elem()
	case i < n:
		return ft.In(i)
	}
	return nil
}

func evalUnary(n *UnaryExpr, s *scope) (reflect.Value, error) {
	if n.Kind == Throw {
		if n.Operand == nil {
			if c := s.exception(); c != nil {
				return reflect.Value{}, c
			}
			return reflect.Value{}, fmt.Errorf("rethrow outside of a catch block")
		}
		v, err := eval(n.Operand, s)
		if err != nil {
			return reflect.Value{}, err
		}
		var thrown any
		if v.IsValid() {
			thrown = v.Interface()
		}
		return reflect.Value{}, &ThrownError{Value: thrown}
	}

	v, err := eval(n.Operand, s)
	if err != nil {
		return reflect.Value{}, err
	}
	if n.Method != nil {
		r, err := call(n.Method, reflect.Value{}, []reflect.Value{v})
		if err != nil || !isAssignKind(n.Kind) {
			return r, err
		}
		return r, assign(n.Operand, r, s)
	}

	switch n.Kind {
	case Convert, ConvertChecked, Unbox:
		return convert(v, n.T, n.Kind == ConvertChecked)
	case TypeAs:
		if dyn := dynamicType(v); dyn != nil && dyn.AssignableTo(n.T) {
			return coerce(v, n.T)
		}
		return zero(n.T), nil
	case ArrayLength:
		return reflect.ValueOf(v.Len()), nil
	case IsTrue:
		return reflect.ValueOf(truth(v)), nil
	case IsFalse:
		return reflect.ValueOf(!truth(v)), nil
	case UnaryPlus:
		return v, nil
	case Not:
		if v.Kind() == reflect.Bool {
			return reflect.ValueOf(!v.Bool()).Convert(v.Type()), nil
		}
		return arith(ExclusiveOr, v, allOnes(v.Type()))
	case OnesComplement:
		return arith(ExclusiveOr, v, allOnes(v.Type()))
	case Negate, NegateChecked:
		return arith(n.Kind, zero(v.Type()), v)
	case Increment, PreIncrementAssign, PostIncrementAssign:
		r, err := arith(Add, v, one(v.Type()))
		if err != nil || n.Kind == Increment {
			return r, err
		}
		return prePost(n, v, r, s)
	case Decrement, PreDecrementAssign, PostDecrementAssign:
		r, err := arith(Subtract, v, one(v.Type()))
		if err != nil || n.Kind == Decrement {
			return r, err
		}
		return prePost(n, v, r, s)
	}
	return reflect.Value{}, fmt.Errorf("%w: %s", ErrNotSupported, n.Kind)
}

func isAssignKind(k ExpressionType) bool {
	switch k {
	case PreIncrementAssign, PreDecrementAssign, PostIncrementAssign, PostDecrementAssign:
		return true
	}
	return false
}

func prePost(n *UnaryExpr, before, after reflect.Value, s *scope) (reflect.Value, error) {
	// before aliases the variable when the operand is addressable
	saved := reflect.New(before.Type()).Elem()
	saved.Set(before)
	if err := assign(n.Operand, after, s); err != nil {
		return reflect.Value{}, err
	}
	if n.Kind == PostIncrementAssign || n.Kind == PostDecrementAssign {
		return saved, nil
	}
	return after, nil
}

var compoundBase = map[ExpressionType]ExpressionType{
	AddAssign:             Add,
	AndAssign:             And,
	DivideAssign:          Divide,
	ExclusiveOrAssign:     ExclusiveOr,
	LeftShiftAssign:       LeftShift,
	ModuloAssign:          Modulo,
	MultiplyAssign:        Multiply,
	OrAssign:              Or,
	PowerAssign:           Power,
	RightShiftAssign:      RightShift,
	SubtractAssign:        Subtract,
	AddAssignChecked:      AddChecked,
	MultiplyAssignChecked: MultiplyChecked,
	SubtractAssignChecked: SubtractChecked,
}

func evalBinary(n *BinaryExpr, s *scope) (reflect.Value, error) {
	switch n.Kind {
	case AndAlso, OrElse:
		l, err := eval(n.Left, s)
		if err != nil {
			return reflect.Value{}, err
		}
		if truth(l) == (n.Kind == OrElse) {
			return reflect.ValueOf(n.Kind == OrElse), nil
		}
		r, err := eval(n.Right, s)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(truth(r)), nil
	case Coalesce:
		l, err := eval(n.Left, s)
		if err != nil {
			return reflect.Value{}, err
		}
		if !isNil(l) {
			if n.Conversion != nil {
				return invoke(makeClosure(n.Conversion, s), []reflect.Value{l})
			}
			if l.Kind() == reflect.Pointer && n.T == l.Type().Elem() {
				return l.Elem(), nil
			}
			return l, nil
		}
		return eval(n.Right, s)
	case Assign:
		r, err := eval(n.Right, s)
		if err != nil {
			return reflect.Value{}, err
		}
		return r, assign(n.Left, r, s)
	}

	l, err := eval(n.Left, s)
	if err != nil {
		return reflect.Value{}, err
	}
	r, err := eval(n.Right, s)
	if err != nil {
		return reflect.Value{}, err
	}
	if n.Method != nil {
		res, err := call(n.Method, reflect.Value{}, []reflect.Value{l, r})
		if err != nil || !n.Kind.IsCompoundAssignment() {
			return res, err
		}
		return res, assign(n.Left, res, s)
	}
	if base, ok := compoundBase[n.Kind]; ok {
		res, err := arith(base, l, r)
		if err != nil {
			return reflect.Value{}, err
		}
		return res, assign(n.Left, res, s)
	}
	switch n.Kind {
	case ArrayIndex:
		return index(l, r)
	case Equal:
		return reflect.ValueOf(equal(l, r)), nil
	case NotEqual:
		return reflect.ValueOf(!equal(l, r)), nil
	case LessThan, LessThanOrEqual, GreaterThan, GreaterThanOrEqual:
		c, err := compare(l, r)
		if err != nil {
			return reflect.Value{}, err
		}
		var res bool
		switch n.Kind {
		case LessThan:
			res = c < 0
		case LessThanOrEqual:
			res = c <= 0
		case GreaterThan:
			res = c > 0
		default:
			res = c >= 0
		}
		return reflect.ValueOf(res), nil
	}
	return arith(n.Kind, l, r)
}

func assign(target Expr, v reflect.Value, s *scope) error {
	switch t := target.(type) {
	case *ParameterExpr:
		cell, ok := s.lookup(t)
		if !ok {
			return fmt.Errorf("parameter %q is not in scope", t.Name)
		}
		cv, err := coerce(v, cell.Type())
		if err != nil {
			return err
		}
		cell.Set(cv)
		return nil
	case *MemberExpr:
		f, ok := t.Member.(*Field)
		if !ok {
			return fmt.Errorf("%w: assignment to property %s", ErrNotSupported, t.Member.MemberName())
		}
		obj, err := eval(t.Object, s)
		if err != nil {
			return err
		}
		obj, err = deref(obj)
		if err != nil {
			return err
		}
		fv := obj.FieldByIndex(f.Index)
		if !fv.CanSet() {
			return fmt.Errorf("field %s is not addressable", f)
		}
		cv, err := coerce(v, f.Type)
		if err != nil {
			return err
		}
		fv.Set(cv)
		return nil
	case *IndexExpr:
		obj, err := eval(t.Object, s)
		if err != nil {
			return err
		}
		obj, err = deref(obj)
		if err != nil {
			return err
		}
		idx, err := eval(t.Args[0], s)
		if err != nil {
			return err
		}
		if obj.Kind() == reflect.Map {
			k, err := coerce(idx, obj.Type().Key())
			if err != nil {
				return err
			}
			cv, err := coerce(v, obj.Type().Elem())
			if err != nil {
				return err
			}
			obj.SetMapIndex(k, cv)
			return nil
		}
		ev, err := index(obj, idx)
		if err != nil {
			return err
		}
		if !ev.CanSet() {
			return fmt.Errorf("element of %s is not addressable", obj.Type())
		}
		cv, err := coerce(v, ev.Type())
		if err != nil {
			return err
		}
		ev.Set(cv)
		return nil
	}
	return fmt.Errorf("%w: assignment to %s", ErrNotSupported, target.NodeType())
}

func arith(kind ExpressionType, l, r reflect.Value) (reflect.Value, error) {
	l, r = unwrap(l), unwrap(r)
	if !l.IsValid() || !r.IsValid() {
		return reflect.Value{}, &ThrownError{Value: fmt.Sprintf("nil operand in %s", kind)}
	}
	out := reflect.New(l.Type()).Elem()
	checked := kind == AddChecked || kind == SubtractChecked || kind == MultiplyChecked || kind == NegateChecked

	switch l.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		a := l.Int()
		var b int64
		if kind == LeftShift || kind == RightShift {
			n, ok := toInt(r)
			if !ok || n < 0 {
				return reflect.Value{}, &ThrownError{Value: "negative shift amount"}
			}
			b = int64(n)
		} else {
			b = r.Int()
		}
		var x int64
		overflow := false
		switch kind {
		case Add, AddChecked:
			x = a + b
			overflow = (a > 0 && b > 0 && x < 0) || (a < 0 && b < 0 && x >= 0)
		case Subtract, SubtractChecked, Negate, NegateChecked:
			x = a - b
			overflow = (a >= 0 && b < 0 && x < 0) || (a < 0 && b > 0 && x >= 0)
		case Multiply, MultiplyChecked:
			x = a * b
			overflow = a != 0 && (x/a != b || (a == -1 && b == math.MinInt64))
		case Divide, Modulo:
			if b == 0 {
				return reflect.Value{}, &ThrownError{Value: ErrDivideByZero}
			}
			if kind == Divide {
				x = a / b
			} else {
				x = a % b
			}
		case Power:
			x = 1
			for i := int64(0); i < b; i++ {
				x *= a
			}
		case And:
			x = a & b
		case Or:
			x = a | b
		case ExclusiveOr:
			x = a ^ b
		case LeftShift:
			x = a << uint(b)
		case RightShift:
			x = a >> uint(b)
		default:
			return reflect.Value{}, fmt.Errorf("%w: %s on %s", ErrNotSupported, kind, l.Type())
		}
		if checked && (overflow || out.OverflowInt(x)) {
			return reflect.Value{}, &ThrownError{Value: ErrOverflow}
		}
		out.SetInt(x)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		a := l.Uint()
		var b uint64
		if kind == LeftShift || kind == RightShift {
			n, ok := toInt(r)
			if !ok || n < 0 {
				return reflect.Value{}, &ThrownError{Value: "negative shift amount"}
			}
			b = uint64(n)
		} else {
			b = r.Uint()
		}
		var x uint64
		overflow := false
		switch kind {
		case Add, AddChecked:
			x = a + b
			overflow = x < a
		case Subtract, SubtractChecked, Negate, NegateChecked:
			x = a - b
			overflow = b > a
		case Multiply, MultiplyChecked:
			x = a * b
			overflow = a != 0 && x/a != b
		case Divide, Modulo:
			if b == 0 {
				return reflect.Value{}, &ThrownError{Value: ErrDivideByZero}
			}
			if kind == Divide {
				x = a / b
			} else {
				x = a % b
			}
		case Power:
			x = 1
			for i := uint64(0); i < b; i++ {
				x *= a
			}
		case And:
			x = a & b
		case Or:
			x = a | b
		case ExclusiveOr:
			x = a ^ b
		case LeftShift:
			x = a << b
		case RightShift:
			x = a >> b
		default:
			return reflect.Value{}, fmt.Errorf("%w: %s on %s", ErrNotSupported, kind, l.Type())
		}
		if checked && (overflow || out.OverflowUint(x)) {
			return reflect.Value{}, &ThrownError{Value: ErrOverflow}
		}
		out.SetUint(x)
	case reflect.Float32, reflect.Float64:
		a, b := l.Float(), r.Float()
		var x float64
		switch kind {
		case Add, AddChecked:
			x = a + b
		case Subtract, SubtractChecked, Negate, NegateChecked:
			x = a - b
		case Multiply, MultiplyChecked:
			x = a * b
		case Divide:
			x = a / b
		case Modulo:
			x = math.Mod(a, b)
		case Power:
			x = math.Pow(a, b)
		default:
			return reflect.Value{}, fmt.Errorf("%w: %s on %s", ErrNotSupported, kind, l.Type())
		}
		out.SetFloat(x)
	case reflect.Complex64, reflect.Complex128:
		a, b := l.Complex(), r.Complex()
		var x complex128
		switch kind {
		case Add, AddChecked:
			x = a + b
		case Subtract, SubtractChecked, Negate, NegateChecked:
			x = a - b
		case Multiply, MultiplyChecked:
			x = a * b
		case Divide:
			x = a / b
		default:
			return reflect.Value{}, fmt.Errorf("%w: %s on %s", ErrNotSupported, kind, l.Type())
		}
		out.SetComplex(x)
	case reflect.String:
		if kind != Add {
			return reflect.Value{}, fmt.Errorf("%w: %s on %s", ErrNotSupported, kind, l.Type())
		}
		out.SetString(l.String() + r.String())
	case reflect.Bool:
		a, b := l.Bool(), r.Bool()
		switch kind {
		case And:
			out.SetBool(a && b)
		case Or:
			out.SetBool(a || b)
		case ExclusiveOr:
			out.SetBool(a != b)
		default:
			return reflect.Value{}, fmt.Errorf("%w: %s on %s", ErrNotSupported, kind, l.Type())
		}
	default:
		return reflect.Value{}, fmt.Errorf("%w: %s on %s", ErrNotSupported, kind, l.Type())
	}
	return out, nil
}

func compare(l, r reflect.Value) (int, error) {
	l, r = unwrap(l), unwrap(r)
	if !l.IsValid() || !r.IsValid() {
		return 0, &ThrownError{Value: "nil operand in comparison"}
	}
	switch l.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return cmp.Compare(l.Int(), r.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return cmp.Compare(l.Uint(), r.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return cmp.Compare(l.Float(), r.Float()), nil
	case reflect.String:
		return cmp.Compare(l.String(), r.String()), nil
	}
	return 0, fmt.Errorf("%w: ordering of %s", ErrNotSupported, l.Type())
}

func equal(l, r reflect.Value) bool {
	l, r = unwrap(l), unwrap(r)
	if !l.IsValid() || !r.IsValid() {
		return isNil(l) && isNil(r)
	}
	if l.Type() != r.Type() {
		if r.Type().ConvertibleTo(l.Type()) && isNumeric(l) && isNumeric(r) {
			r = r.Convert(l.Type())
		} else {
			return false
		}
	}
	if !l.Comparable() || !r.Comparable() {
		return false
	}
	return l.Equal(r)
}

func convert(v reflect.Value, t reflect.Type, checked bool) (reflect.Value, error) {
	v = unwrap(v)
	if !v.IsValid() {
		return zero(t), nil
	}
	if checked && isNumeric(v) && v.Type().ConvertibleTo(t) {
		out := v.Convert(t)
		if !out.Convert(v.Type()).Equal(v) {
			return reflect.Value{}, &ThrownError{Value: ErrOverflow}
		}
		return out, nil
	}
	if v.Type().ConvertibleTo(t) && !v.Type().AssignableTo(t) {
		return v.Convert(t), nil
	}
	return coerce(v, t)
}

// coerce adapts v to t using assignability, unboxing, implicit numeric and
// named-type conversions, and taking the address of addressable receivers.
func coerce(v reflect.Value, t reflect.Type) (reflect.Value, error) {
	if t == VoidType {
		return reflect.Value{}, nil
	}
	if !v.IsValid() {
		return zero(t), nil
	}
	vt := v.Type()
	switch {
	case vt == t:
		return v, nil
	case vt.AssignableTo(t):
		out := reflect.New(t).Elem()
		out.Set(v)
		return out, nil
	case v.Kind() == reflect.Interface:
		if v.IsNil() {
			return zero(t), nil
		}
		return coerce(v.Elem(), t)
	case t.Kind() == reflect.Pointer && t.Elem() == vt && v.CanAddr():
		return v.Addr(), nil
	case vt.ConvertibleTo(t) && !(t.Kind() == reflect.String && isNumeric(v)):
		return v.Convert(t), nil
	}
	return reflect.Value{}, fmt.Errorf("%w: %s to %s", ErrInvalidCast, vt, t)
}

func zero(t reflect.Type) reflect.Value {
	if t == VoidType {
		return reflect.Value{}
	}
	return reflect.Zero(t)
}

func addressable(v reflect.Value) reflect.Value {
	if v.CanAddr() || v.Kind() == reflect.Pointer {
		return v
	}
	h := reflect.New(v.Type()).Elem()
	h.Set(v)
	return h
}

func deref(v reflect.Value) (reflect.Value, error) {
	v = unwrap(v)
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return reflect.Value{}, &ThrownError{Value: "nil pointer dereference"}
		}
		return v.Elem(), nil
	}
	if !v.IsValid() {
		return reflect.Value{}, &ThrownError{Value: "nil pointer dereference"}
	}
	return v, nil
}

func unwrap(v reflect.Value) reflect.Value {
	for v.IsValid() && v.Kind() == reflect.Interface {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

func dynamicType(v reflect.Value) reflect.Type {
	v = unwrap(v)
	if !v.IsValid() || isNil(v) {
		return nil
	}
	return v.Type()
}

func isNil(v reflect.Value) bool {
	if !v.IsValid() {
		return true
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return v.IsNil()
	}
	return false
}

func isNumeric(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return true
	}
	return false
}

func truth(v reflect.Value) bool {
	v = unwrap(v)
	return v.IsValid() && v.Kind() == reflect.Bool && v.Bool()
}

func toInt(v reflect.Value) (int, bool) {
	v = unwrap(v)
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return int(v.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return int(v.Uint()), true
	}
	return 0, false
}

func one(t reflect.Type) reflect.Value {
	v := reflect.New(t).Elem()
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v.SetInt(1)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		v.SetUint(1)
	case reflect.Float32, reflect.Float64:
		v.SetFloat(1)
	case reflect.Complex64, reflect.Complex128:
		v.SetComplex(1)
	}
	return v
}

func allOnes(t reflect.Type) reflect.Value {
	v := reflect.New(t).Elem()
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v.SetInt(-1)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		v.SetUint(math.MaxUint64 >> (64 - t.Bits()))
	}
	return v
}
