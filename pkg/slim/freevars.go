package slim

import (
	"github.com/hashicorp/go-set/v3"
)

type paramSet = *set.Set[*ParameterExpressionSlim]

// freeVariables folds each node to the set of parameters it uses but does
// not declare. Lambdas, blocks and catch blocks remove what they declare.
type freeVariables struct {
	BaseReducer[paramSet]
}

func (freeVariables) union(children []paramSet) paramSet {
	out := set.New[*ParameterExpressionSlim](0)
	for _, c := range children {
		if c != nil {
			out.InsertSet(c)
		}
	}
	return out
}

func (f freeVariables) MakeParameter(n *ParameterExpressionSlim) (paramSet, error) {
	return set.From([]*ParameterExpressionSlim{n}), nil
}

func (f freeVariables) MakeLambda(n *LambdaExpressionSlim, body paramSet, _ []paramSet) (paramSet, error) {
	out := f.union([]paramSet{body})
	for _, p := range n.params.All() {
		out.Remove(p)
	}
	return out, nil
}

// Declared variables are folded to singletons like any other parameter
// reference; drop them before removing the declarations.
func (f freeVariables) MakeBlock(n *BlockExpressionSlim, _ []paramSet, exprs []paramSet) (paramSet, error) {
	out := f.union(exprs)
	for _, v := range n.vars.All() {
		out.Remove(v)
	}
	return out, nil
}

func (f freeVariables) MakeCatchBlock(c *CatchBlockSlim, _ paramSet, filter, body paramSet) (paramSet, error) {
	out := f.union([]paramSet{filter, body})
	if c.variable != nil {
		out.Remove(c.variable)
	}
	return out, nil
}

// FreeVariables returns the parameters referenced in e that no enclosing
// lambda, block or catch block within e declares, in order of first use.
func FreeVariables(e ExpressionSlim) ([]*ParameterExpressionSlim, error) {
	r := freeVariables{}
	r.Combine = func(_ any, children []paramSet) (paramSet, error) {
		return r.union(children), nil
	}
	v, err := NewExpressionSlimVisitor[paramSet](r)
	if err != nil {
		return nil, err
	}
	free, err := v.Visit(e)
	if err != nil || free == nil {
		return nil, err
	}
	var out []*ParameterExpressionSlim
	seen := set.New[*ParameterExpressionSlim](free.Size())
	collect := &freeOrder{free: free, seen: seen, out: &out}
	collect.Self = collect
	if _, err := collect.Visit(e); err != nil {
		return nil, err
	}
	return out, nil
}

// freeOrder walks the tree once more to list free parameters in the order
// they first appear.
type freeOrder struct {
	Rewriter
	free paramSet
	seen paramSet
	out  *[]*ParameterExpressionSlim
}

func (o *freeOrder) VisitParameter(n *ParameterExpressionSlim) (ExpressionSlim, error) {
	if o.free.Contains(n) && o.seen.Insert(n) {
		*o.out = append(*o.out, n)
	}
	return n, nil
}
