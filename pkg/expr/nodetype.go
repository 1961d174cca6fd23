package expr

// ExpressionType is the closed set of expression node kinds
type ExpressionType int

const (
	Add ExpressionType = iota
	AddChecked
	And
	AndAlso
	ArrayLength
	ArrayIndex
	Call
	Coalesce
	Conditional
	Constant
	Convert
	ConvertChecked
	Divide
	Equal
	ExclusiveOr
	GreaterThan
	GreaterThanOrEqual
	Invoke
	Lambda
	LeftShift
	LessThan
	LessThanOrEqual
	ListInit
	MemberAccess
	MemberInit
	Modulo
	Multiply
	MultiplyChecked
	Negate
	UnaryPlus
	NegateChecked
	New
	NewArrayInit
	NewArrayBounds
	Not
	NotEqual
	Or
	OrElse
	Parameter
	Power
	Quote
	RightShift
	Subtract
	SubtractChecked
	TypeAs
	TypeIs
	Assign
	Block
	Decrement
	Default
	Extension
	Goto
	Increment
	Index
	Label
	Loop
	Switch
	Throw
	Try
	Unbox
	AddAssign
	AndAssign
	DivideAssign
	ExclusiveOrAssign
	LeftShiftAssign
	ModuloAssign
	MultiplyAssign
	OrAssign
	PowerAssign
	RightShiftAssign
	SubtractAssign
	AddAssignChecked
	MultiplyAssignChecked
	SubtractAssignChecked
	PreIncrementAssign
	PreDecrementAssign
	PostIncrementAssign
	PostDecrementAssign
	TypeEqual
	OnesComplement
	IsTrue
	IsFalse
)

var expressionTypeNames = [...]string{
	Add:                   "Add",
	AddChecked:            "AddChecked",
	And:                   "And",
	AndAlso:               "AndAlso",
	ArrayLength:           "ArrayLength",
	ArrayIndex:            "ArrayIndex",
	Call:                  "Call",
	Coalesce:              "Coalesce",
	Conditional:           "Conditional",
	Constant:              "Constant",
	Convert:               "Convert",
	ConvertChecked:        "ConvertChecked",
	Divide:                "Divide",
	Equal:                 "Equal",
	ExclusiveOr:           "ExclusiveOr",
	GreaterThan:           "GreaterThan",
	GreaterThanOrEqual:    "GreaterThanOrEqual",
	Invoke:                "Invoke",
	Lambda:                "Lambda",
	LeftShift:             "LeftShift",
	LessThan:              "LessThan",
	LessThanOrEqual:       "LessThanOrEqual",
	ListInit:              "ListInit",
	MemberAccess:          "MemberAccess",
	MemberInit:            "MemberInit",
	Modulo:                "Modulo",
	Multiply:              "Multiply",
	MultiplyChecked:       "MultiplyChecked",
	Negate:                "Negate",
	UnaryPlus:             "UnaryPlus",
	NegateChecked:         "NegateChecked",
	New:                   "New",
	NewArrayInit:          "NewArrayInit",
	NewArrayBounds:        "NewArrayBounds",
	Not:                   "Not",
	NotEqual:              "NotEqual",
	Or:                    "Or",
	OrElse:                "OrElse",
	Parameter:             "Parameter",
	Power:                 "Power",
	Quote:                 "Quote",
	RightShift:            "RightShift",
	Subtract:              "Subtract",
	SubtractChecked:       "SubtractChecked",
	TypeAs:                "TypeAs",
	TypeIs:                "TypeIs",
	Assign:                "Assign",
	Block:                 "Block",
	Decrement:             "Decrement",
	Default:               "Default",
	Extension:             "Extension",
	Goto:                  "Goto",
	Increment:             "Increment",
	Index:                 "Index",
	Label:                 "Label",
	Loop:                  "Loop",
	Switch:                "Switch",
	Throw:                 "Throw",
	Try:                   "Try",
	Unbox:                 "Unbox",
	AddAssign:             "AddAssign",
	AndAssign:             "AndAssign",
	DivideAssign:          "DivideAssign",
	ExclusiveOrAssign:     "ExclusiveOrAssign",
	LeftShiftAssign:       "LeftShiftAssign",
	ModuloAssign:          "ModuloAssign",
	MultiplyAssign:        "MultiplyAssign",
	OrAssign:              "OrAssign",
	PowerAssign:           "PowerAssign",
	RightShiftAssign:      "RightShiftAssign",
	SubtractAssign:        "SubtractAssign",
	AddAssignChecked:      "AddAssignChecked",
	MultiplyAssignChecked: "MultiplyAssignChecked",
	SubtractAssignChecked: "SubtractAssignChecked",
	PreIncrementAssign:    "PreIncrementAssign",
	PreDecrementAssign:    "PreDecrementAssign",
	PostIncrementAssign:   "PostIncrementAssign",
	PostDecrementAssign:   "PostDecrementAssign",
	TypeEqual:             "TypeEqual",
	OnesComplement:        "OnesComplement",
	IsTrue:                "IsTrue",
	IsFalse:               "IsFalse",
}

func (t ExpressionType) String() string {
	if t >= 0 && int(t) < len(expressionTypeNames) {
		return expressionTypeNames[t]
	}
	return "?"
}

// ParseExpressionType looks up a node kind by name
func ParseExpressionType(name string) (ExpressionType, bool) {
	for i, n := range expressionTypeNames {
		if n == name {
			return ExpressionType(i), true
		}
	}
	return 0, false
}

// IsBinary reports whether t is a valid kind for a binary node
func (t ExpressionType) IsBinary() bool {
	switch t {
	case Add, AddChecked, Subtract, SubtractChecked, Multiply, MultiplyChecked,
		Divide, Modulo, Power, And, Or, ExclusiveOr, LeftShift, RightShift,
		AndAlso, OrElse, Equal, NotEqual, LessThan, LessThanOrEqual,
		GreaterThan, GreaterThanOrEqual, Coalesce, ArrayIndex, Assign:
		return true
	}
	return t.IsCompoundAssignment()
}

// IsCompoundAssignment reports whether t is an operator-assignment kind
func (t ExpressionType) IsCompoundAssignment() bool {
	switch t {
	case AddAssign, AndAssign, DivideAssign, ExclusiveOrAssign, LeftShiftAssign,
		ModuloAssign, MultiplyAssign, OrAssign, PowerAssign, RightShiftAssign,
		SubtractAssign, AddAssignChecked, MultiplyAssignChecked, SubtractAssignChecked:
		return true
	}
	return false
}

// IsComparison reports whether t is an equality or relational operator.
// Only these kinds honour the lift-to-null flag.
func (t ExpressionType) IsComparison() bool {
	switch t {
	case Equal, NotEqual, LessThan, LessThanOrEqual, GreaterThan, GreaterThanOrEqual:
		return true
	}
	return false
}

// IsUnary reports whether t is a valid kind for a unary node
func (t ExpressionType) IsUnary() bool {
	switch t {
	case Negate, NegateChecked, UnaryPlus, Not, OnesComplement, IsTrue, IsFalse,
		Convert, ConvertChecked, TypeAs, ArrayLength, Quote, Throw, Unbox,
		Increment, Decrement, PreIncrementAssign, PreDecrementAssign,
		PostIncrementAssign, PostDecrementAssign:
		return true
	}
	return false
}

// GotoExpressionKind distinguishes the jump flavours of a goto node
type GotoExpressionKind int

const (
	GotoKind GotoExpressionKind = iota
	ReturnKind
	BreakKind
	ContinueKind
)

func (k GotoExpressionKind) String() string {
	names := []string{"Goto", "Return", "Break", "Continue"}
	if k >= 0 && int(k) < len(names) {
		return names[k]
	}
	return "?"
}

// MemberBindingType distinguishes member-init bindings
type MemberBindingType int

const (
	AssignmentBinding MemberBindingType = iota
	MemberBindingKind
	ListBindingKind
)

func (k MemberBindingType) String() string {
	names := []string{"Assignment", "MemberBinding", "ListBinding"}
	if k >= 0 && int(k) < len(names) {
		return names[k]
	}
	return "?"
}
