// Package exprdoc decodes YAML tree documents into native expression trees.
//
// A document is one node. Every node names its kind in op, using the names
// of expr.ExpressionType plus Break, Continue and Return for jumps:
//
//	op: Lambda
//	params: [{name: x, type: int}]
//	body:
//	  op: Add
//	  args:
//	    - {op: Parameter, name: x}
//	    - {op: Constant, value: 2}
//
// Types are written in Go syntax ([]T, *T, map[K]V) over the names known to
// a typeslim.Registry, plus aliases supplied by the caller.
package exprdoc

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Node is one expression in a tree document
type Node struct {
	Op   string  `yaml:"op"`
	Name string  `yaml:"name,omitempty"`
	Type string  `yaml:"type,omitempty"`
	Args []*Node `yaml:"args,omitempty"`

	// Value is the literal of a Constant, decoded into Type
	Value yaml.Node `yaml:"value,omitempty"`

	Params []Var `yaml:"params,omitempty"`
	Vars   []Var `yaml:"vars,omitempty"`
	Body   *Node `yaml:"body,omitempty"`

	// Label names the target of jumps and label nodes; Break and Continue
	// name the labels of a loop.
	Label    string `yaml:"label,omitempty"`
	Break    string `yaml:"break,omitempty"`
	Continue string `yaml:"continue,omitempty"`

	Cases    []Case    `yaml:"cases,omitempty"`
	Default  *Node     `yaml:"default,omitempty"`
	Catch    []Catch   `yaml:"catch,omitempty"`
	Finally  *Node     `yaml:"finally,omitempty"`
	Fault    *Node     `yaml:"fault,omitempty"`
	Bindings []Binding `yaml:"bindings,omitempty"`

	line int
}

// Var declares a lambda parameter or block variable
type Var struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// Case is one case of a Switch node
type Case struct {
	Tests []*Node `yaml:"tests"`
	Body  *Node   `yaml:"body"`
}

// Catch is one handler of a Try node. Var is optional; Type defaults to
// the variable's type.
type Catch struct {
	Type   string `yaml:"type,omitempty"`
	Var    *Var   `yaml:"var,omitempty"`
	Filter *Node  `yaml:"filter,omitempty"`
	Body   *Node  `yaml:"body"`
}

// Binding assigns a member in a MemberInit node
type Binding struct {
	Member string `yaml:"member"`
	Value  *Node  `yaml:"value"`
}

// UnmarshalYAML records the source line of the node for error messages
func (n *Node) UnmarshalYAML(value *yaml.Node) error {
	type plain Node
	if err := value.Decode((*plain)(n)); err != nil {
		return err
	}
	n.line = value.Line
	return nil
}

// Line is the line of the node in its document, or 0 when the node was not
// decoded from YAML.
func (n *Node) Line() int { return n.line }

// Decode parses a tree document
func Decode(data []byte) (*Node, error) {
	var n Node
	if err := yaml.Unmarshal(data, &n); err != nil {
		return nil, fmt.Errorf("exprdoc: %w", err)
	}
	if n.Op == "" {
		return nil, fmt.Errorf("exprdoc: document has no op")
	}
	return &n, nil
}

// Error locates a build failure in its document
type Error struct {
	Line int
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s: %v", e.Line, e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
