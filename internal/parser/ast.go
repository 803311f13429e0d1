package parser

import "fmt"

// NodeKind tags the grammar construct a node represents
type NodeKind string

// Python AST node kinds
const (
	// Module and structure
	KindModule NodeKind = "Module"

	// Statements
	KindFunctionDef NodeKind = "FunctionDef"
	KindClassDef    NodeKind = "ClassDef"
	KindReturn      NodeKind = "Return"
	KindAssign      NodeKind = "Assign"
	KindAugAssign   NodeKind = "AugAssign"
	KindFor         NodeKind = "For"
	KindWhile       NodeKind = "While"
	KindIf          NodeKind = "If"
	KindWith        NodeKind = "With"
	KindRaise       NodeKind = "Raise"
	KindTry         NodeKind = "Try"
	KindAssert      NodeKind = "Assert"
	KindImport      NodeKind = "Import"
	KindImportFrom  NodeKind = "ImportFrom"
	KindExpr        NodeKind = "Expr"
	KindPass        NodeKind = "Pass"
	KindBreak       NodeKind = "Break"
	KindContinue    NodeKind = "Continue"
	KindDelete      NodeKind = "Delete"
	KindGlobal      NodeKind = "Global"

	// Expressions
	KindBoolOp    NodeKind = "BoolOp"
	KindBinOp     NodeKind = "BinOp"
	KindUnaryOp   NodeKind = "UnaryOp"
	KindCompare   NodeKind = "Compare"
	KindLambda    NodeKind = "Lambda"
	KindIfExp     NodeKind = "IfExp"
	KindCall      NodeKind = "Call"
	KindConstant  NodeKind = "Constant"
	KindAttribute NodeKind = "Attribute"
	KindSubscript NodeKind = "Subscript"
	KindName      NodeKind = "Name"
	KindList      NodeKind = "List"
	KindTuple     NodeKind = "Tuple"
	KindDict      NodeKind = "Dict"
	KindSet       NodeKind = "Set"
	KindNamedExpr NodeKind = "NamedExpr"

	// Other
	KindExceptHandler NodeKind = "ExceptHandler"
	KindArg           NodeKind = "Arg"
)

// Node is a generic AST node: a kind tag, a 1-based source line span, and
// ordered child references. Nodes are immutable once the builder finishes;
// lifetime is one analysis pass.
type Node struct {
	Kind    NodeKind
	Line    int
	EndLine int

	// Name holds identifier text for Name/Arg nodes, definition names for
	// FunctionDef/ClassDef, attribute names, and raw text for constants.
	Name string

	// Op holds operator text for BinOp/UnaryOp/BoolOp/AugAssign and the
	// first operator of a Compare. Ops holds every operator of a chained
	// comparison (a < b < c carries two).
	Op  string
	Ops []string

	// Structured fields for compound constructs
	Test      *Node   // if/while condition
	Iter      *Node   // for loop iterable
	Value     *Node   // assignment RHS, call target, unary operand, returned expression
	Targets   []*Node // assignment / for loop targets
	Args      []*Node // call arguments or function parameters
	Body      []*Node // compound statement body
	Orelse    []*Node // else branch (elif chains nest as If nodes here)
	Handlers  []*Node // except handlers
	Finalbody []*Node // finally block
	Children  []*Node // remaining ordered children
}

// NewNode creates a node of the given kind
func NewNode(kind NodeKind) *Node {
	return &Node{Kind: kind}
}

// ChildNodes returns every child in source order
func (n *Node) ChildNodes() []*Node {
	children := make([]*Node, 0, 4)

	appendNode := func(node *Node) {
		if node != nil {
			children = append(children, node)
		}
	}

	for _, t := range n.Targets {
		appendNode(t)
	}
	appendNode(n.Test)
	appendNode(n.Iter)
	appendNode(n.Value)
	for _, a := range n.Args {
		appendNode(a)
	}
	for _, c := range n.Children {
		appendNode(c)
	}
	for _, s := range n.Body {
		appendNode(s)
	}
	for _, s := range n.Orelse {
		appendNode(s)
	}
	for _, h := range n.Handlers {
		appendNode(h)
	}
	for _, s := range n.Finalbody {
		appendNode(s)
	}

	return children
}

// Walk traverses the tree in preorder; the visitor returns false to prune
func (n *Node) Walk(visitor func(*Node) bool) {
	if n == nil || !visitor(n) {
		return
	}
	for _, child := range n.ChildNodes() {
		child.Walk(visitor)
	}
}

// FindByKind returns every node of the given kind in preorder
func (n *Node) FindByKind(kind NodeKind) []*Node {
	var results []*Node
	n.Walk(func(node *Node) bool {
		if node.Kind == kind {
			results = append(results, node)
		}
		return true
	})
	return results
}

// IsLoop reports whether the node is a loop construct
func (n *Node) IsLoop() bool {
	return n.Kind == KindFor || n.Kind == KindWhile
}

// String returns a short description of the node
func (n *Node) String() string {
	if n.Name != "" {
		return fmt.Sprintf("%s(%s)", n.Kind, n.Name)
	}
	return string(n.Kind)
}
