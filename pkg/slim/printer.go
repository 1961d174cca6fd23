package slim

import (
	"fmt"
	"io"
	"strings"

	"github.com/raymyers/slimexpr/pkg/expr"
	"github.com/raymyers/slimexpr/pkg/typeslim"
)

// Printer writes the canonical text form of slim trees. The compact form
// is the one returned by String; the tree form puts every child that has
// children of its own on a separate, indented line.
type Printer struct {
	w      io.Writer
	tree   bool
	width  int
	indent int
}

// NewPrinter creates a printer producing the single-line form
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// NewTreePrinter creates a printer producing the multi-line form, indenting
// by width spaces per level.
func NewTreePrinter(w io.Writer, width int) *Printer {
	if width <= 0 {
		width = 2
	}
	return &Printer{w: w, tree: true, width: width}
}

// Print writes e followed by a newline
func (p *Printer) Print(e ExpressionSlim) error {
	var sb strings.Builder
	if e == nil {
		sb.WriteString("null")
	} else {
		p.print(&sb, e)
	}
	sb.WriteByte('\n')
	_, err := io.WriteString(p.w, sb.String())
	return err
}

// group is a named list of parts such as Default(...) or Finally(...)
type group struct {
	name  string
	parts []any
}

func (p *Printer) writeIndent(sb *strings.Builder) {
	sb.WriteString(strings.Repeat(" ", p.indent*p.width))
}

func (p *Printer) print(sb *strings.Builder, x any) {
	var name string
	var parts []any
	switch x := x.(type) {
	case string:
		sb.WriteString(x)
		return
	case group:
		name, parts = x.name, x.parts
	default:
		name, parts = describe(x)
	}
	sb.WriteString(name)
	sb.WriteByte('(')
	if p.tree && !flat(parts) {
		p.indent++
		for i, part := range parts {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteByte('\n')
			p.writeIndent(sb)
			p.print(sb, part)
		}
		p.indent--
		sb.WriteByte('\n')
		p.writeIndent(sb)
	} else {
		for i, part := range parts {
			if i > 0 {
				sb.WriteString(", ")
			}
			p.print(sb, part)
		}
	}
	sb.WriteByte(')')
}

func flat(parts []any) bool {
	for _, part := range parts {
		if _, ok := part.(string); !ok {
			return false
		}
	}
	return true
}

func sprint(x any) string {
	var sb strings.Builder
	(&Printer{}).print(&sb, x)
	return sb.String()
}

func typeName(t typeslim.TypeSlim) string {
	if t == nil {
		return "null"
	}
	return t.String()
}

// describe returns the printed name and the parts of a node or support
// value. Optional children are omitted when absent.
func describe(x any) (string, []any) {
	var parts []any
	add := func(xs ...any) { parts = append(parts, xs...) }
	addType := func(t typeslim.TypeSlim) {
		if t != nil {
			add(t.String())
		}
	}
	addExpr := func(e ExpressionSlim) {
		if e != nil {
			add(e)
		}
	}
	addMember := func(m typeslim.MemberInfoSlim) {
		if m != nil {
			add(fmt.Sprint(m))
		}
	}
	addArgs := func(p ArgumentProvider) {
		for i := 0; i < p.ArgumentCount(); i++ {
			a, _ := p.GetArgument(i)
			add(a)
		}
	}

	switch n := x.(type) {
	case *BinaryExpressionSlim:
		add(n.left, n.right)
		addMember(n.method)
		if n.conversion != nil {
			add(n.conversion)
		}
		if n.liftToNull {
			add("liftToNull")
		}
		return n.kind.String(), parts
	case *UnaryExpressionSlim:
		addExpr(n.operand)
		addType(n.typ)
		addMember(n.method)
		return n.kind.String(), parts
	case *ConditionalExpressionSlim:
		add(n.test, n.ifTrue, n.ifFalse)
		addType(n.typ)
		return "Conditional", parts
	case *ConstantExpressionSlim:
		return "Constant", []any{n.value.String(), typeName(n.typ)}
	case *DefaultExpressionSlim:
		return "Default", []any{typeName(n.typ)}
	case *ParameterExpressionSlim:
		return "Parameter", []any{n.name, typeName(n.typ)}
	case *LambdaExpressionSlim:
		add(n.body)
		for _, p := range n.params.All() {
			add(p)
		}
		addType(n.typ)
		return "Lambda", parts
	case *MemberExpressionSlim:
		addExpr(n.expression)
		addMember(n.member)
		return "MemberAccess", parts
	case *MethodCallExpressionSlim:
		addMember(n.method)
		addExpr(n.object)
		addArgs(n)
		return "Call", parts
	case *InvocationExpressionSlim:
		add(n.expression)
		addArgs(n)
		return "Invoke", parts
	case *NewExpressionSlim:
		if n.ctor != nil {
			add(n.ctor.String())
		} else {
			addType(n.typ)
		}
		addArgs(n)
		return "New", parts
	case *NewArrayExpressionSlim:
		add(typeName(n.elemType))
		for _, e := range n.exprs.All() {
			add(e)
		}
		return n.kind.String(), parts
	case *ElementInitSlim:
		addMember(n.addMethod)
		addArgs(n)
		return "ElementInit", parts
	case *ListInitExpressionSlim:
		add(n.newExpr)
		for _, in := range n.inits.All() {
			add(in)
		}
		return "ListInit", parts
	case *MemberInitExpressionSlim:
		add(n.newExpr)
		for _, b := range n.bindings.All() {
			add(b)
		}
		return "MemberInit", parts
	case *MemberAssignmentSlim:
		addMember(n.member)
		add(n.expression)
		return "Bind", parts
	case *MemberMemberBindingSlim:
		addMember(n.member)
		for _, b := range n.bindings.All() {
			add(b)
		}
		return "MemberBind", parts
	case *MemberListBindingSlim:
		addMember(n.member)
		for _, in := range n.inits.All() {
			add(in)
		}
		return "ListBind", parts
	case *IndexExpressionSlim:
		add(n.object)
		if n.indexer != nil {
			add(n.indexer.String())
		}
		addArgs(n)
		return "Index", parts
	case *BlockExpressionSlim:
		if n.vars.Count() > 0 {
			vars := group{name: "Variables"}
			for _, v := range n.vars.All() {
				vars.parts = append(vars.parts, v)
			}
			add(vars)
		}
		for _, e := range n.exprs.All() {
			add(e)
		}
		addType(n.typ)
		return "Block", parts
	case *LoopExpressionSlim:
		add(n.body)
		if n.breakLabel != nil {
			add(group{name: "Break", parts: []any{n.breakLabel}})
		}
		if n.continueLabel != nil {
			add(group{name: "Continue", parts: []any{n.continueLabel}})
		}
		return "Loop", parts
	case *SwitchCaseSlim:
		for _, t := range n.tests.All() {
			add(t)
		}
		add(n.body)
		return "Case", parts
	case *SwitchExpressionSlim:
		add(n.value)
		for _, c := range n.cases.All() {
			add(c)
		}
		if n.defaultBody != nil {
			add(group{name: "Default", parts: []any{n.defaultBody}})
		}
		addMember(n.comparison)
		addType(n.typ)
		return "Switch", parts
	case *CatchBlockSlim:
		add(typeName(n.test))
		if n.variable != nil {
			add(n.variable)
		}
		if n.filter != nil {
			add(group{name: "Filter", parts: []any{n.filter}})
		}
		add(n.body)
		return "Catch", parts
	case *TryExpressionSlim:
		add(n.body)
		for _, h := range n.handlers.All() {
			add(h)
		}
		if n.finally != nil {
			add(group{name: "Finally", parts: []any{n.finally}})
		}
		if n.fault != nil {
			add(group{name: "Fault", parts: []any{n.fault}})
		}
		addType(n.typ)
		return "Try", parts
	case *LabelTargetSlim:
		add(n.name)
		addType(n.typ)
		return "LabelTarget", parts
	case *GotoExpressionSlim:
		add(n.target)
		addExpr(n.value)
		if n.typ != typeslim.Void {
			addType(n.typ)
		}
		return n.kind.String(), parts
	case *LabelExpressionSlim:
		add(n.target)
		addExpr(n.defaultValue)
		return "Label", parts
	case *TypeBinaryExpressionSlim:
		return n.kind.String(), []any{n.expression, typeName(n.typeOperand)}
	case ExtensionSlim:
		addType(n.Type())
		return expr.Extension.String(), parts
	}
	return fmt.Sprintf("%T", x), nil
}

func (n *BinaryExpressionSlim) String() string      { return sprint(n) }
func (n *UnaryExpressionSlim) String() string       { return sprint(n) }
func (n *ConditionalExpressionSlim) String() string { return sprint(n) }
func (n *ConstantExpressionSlim) String() string    { return sprint(n) }
func (n *DefaultExpressionSlim) String() string     { return sprint(n) }
func (n *ParameterExpressionSlim) String() string   { return sprint(n) }
func (n *LambdaExpressionSlim) String() string      { return sprint(n) }
func (n *MemberExpressionSlim) String() string      { return sprint(n) }
func (n *MethodCallExpressionSlim) String() string  { return sprint(n) }
func (n *InvocationExpressionSlim) String() string  { return sprint(n) }
func (n *NewExpressionSlim) String() string         { return sprint(n) }
func (n *NewArrayExpressionSlim) String() string    { return sprint(n) }
func (n *ListInitExpressionSlim) String() string    { return sprint(n) }
func (n *MemberInitExpressionSlim) String() string  { return sprint(n) }
func (n *IndexExpressionSlim) String() string       { return sprint(n) }
func (n *BlockExpressionSlim) String() string       { return sprint(n) }
func (n *LoopExpressionSlim) String() string        { return sprint(n) }
func (n *SwitchExpressionSlim) String() string      { return sprint(n) }
func (n *TryExpressionSlim) String() string         { return sprint(n) }
func (n *GotoExpressionSlim) String() string        { return sprint(n) }
func (n *LabelExpressionSlim) String() string       { return sprint(n) }
func (n *TypeBinaryExpressionSlim) String() string  { return sprint(n) }
func (n *ElementInitSlim) String() string           { return sprint(n) }
func (b *MemberAssignmentSlim) String() string      { return sprint(b) }
func (b *MemberMemberBindingSlim) String() string   { return sprint(b) }
func (b *MemberListBindingSlim) String() string     { return sprint(b) }
func (c *SwitchCaseSlim) String() string            { return sprint(c) }
func (c *CatchBlockSlim) String() string            { return sprint(c) }
func (t *LabelTargetSlim) String() string           { return sprint(t) }
