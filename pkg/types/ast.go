package types

// NodeKind identifies the kind of an AST node.
type NodeKind string

// AST node kinds. The set is closed: the parser emits no other kinds
// and the evaluator rejects anything it does not recognize.
const (
	// Literals
	NodeNumber NodeKind = "number" // 42, 3.14
	NodeString NodeKind = "string" // "hello", 'hello'

	// References
	NodeIdentifier NodeKind = "identifier" // fieldName
	NodeMention    NodeKind = "mention"    // @Paris

	// Composite
	NodeMember NodeKind = "member" // expr.property
	NodeCall   NodeKind = "call"   // Name(args...)
	NodeUnary  NodeKind = "unary"  // -expr
	NodeBinary NodeKind = "binary" // +, -, *, /, %, =, ==, !=, <>, <, >, <=, >=

	// NodeConditional is reserved for ternary support (cond ? a : b).
	// The parser does not currently produce it.
	NodeConditional NodeKind = "conditional"
)

// Node represents a node in the Abstract Syntax Tree.
//
// A Node is immutable once the parser returns it. The tree is owned by
// the [ParsedFormula] that contains it and is safe to evaluate
// repeatedly and concurrently against different contexts.
type Node struct {
	Kind     NodeKind
	Value    string  // String literal, identifier/mention/function/property name, or operator
	NumValue float64 // Pre-parsed numeric value for NodeNumber
	Position int     // Starting offset in the source string

	LHS       *Node   // Binary left operand; Member object
	RHS       *Node   // Binary right operand; Unary operand
	Arguments []*Node // Call arguments
}

// NewNode creates a new AST node of the specified kind.
func NewNode(kind NodeKind, position int) *Node {
	return &Node{
		Kind:     kind,
		Position: position,
	}
}

// String returns a string representation of the node kind.
func (n *Node) String() string {
	return string(n.Kind)
}
