package parser

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// astBuilder converts a tree-sitter parse tree into the generic AST
type astBuilder struct {
	source []byte
}

func newASTBuilder(source []byte) *astBuilder {
	return &astBuilder{source: source}
}

// build dispatches on the tree-sitter node type
func (b *astBuilder) build(ts *sitter.Node) *Node {
	if ts == nil {
		return nil
	}

	switch ts.Type() {
	case "module":
		return b.buildModule(ts)
	case "function_definition":
		return b.buildFunctionDef(ts)
	case "class_definition":
		return b.buildClassDef(ts)
	case "decorated_definition":
		return b.buildDecoratedDefinition(ts)
	case "if_statement", "elif_clause":
		return b.buildIf(ts)
	case "for_statement":
		return b.buildFor(ts)
	case "while_statement":
		return b.buildWhile(ts)
	case "try_statement":
		return b.buildTry(ts)
	case "with_statement":
		return b.buildWith(ts)
	case "return_statement":
		return b.buildReturn(ts)
	case "expression_statement":
		return b.buildExpressionStatement(ts)
	case "assignment":
		return b.buildAssignment(ts)
	case "augmented_assignment":
		return b.buildAugmentedAssignment(ts)
	case "raise_statement":
		return b.buildGeneric(ts, KindRaise)
	case "assert_statement":
		return b.buildAssert(ts)
	case "delete_statement":
		return b.buildGeneric(ts, KindDelete)
	case "global_statement", "nonlocal_statement":
		return b.buildLeaf(ts, KindGlobal)
	case "import_statement", "future_import_statement":
		return b.buildLeaf(ts, KindImport)
	case "import_from_statement":
		return b.buildLeaf(ts, KindImportFrom)
	case "pass_statement":
		return b.buildLeaf(ts, KindPass)
	case "break_statement":
		return b.buildLeaf(ts, KindBreak)
	case "continue_statement":
		return b.buildLeaf(ts, KindContinue)

	case "binary_operator":
		return b.buildBinaryOp(ts)
	case "boolean_operator":
		return b.buildBoolOp(ts)
	case "comparison_operator":
		return b.buildCompare(ts)
	case "unary_operator":
		return b.buildUnaryOp(ts, "operand")
	case "not_operator":
		return b.buildUnaryOp(ts, "argument")
	case "named_expression":
		return b.buildNamedExpr(ts)
	case "conditional_expression":
		return b.buildGeneric(ts, KindIfExp)
	case "lambda":
		return b.buildLambda(ts)
	case "call":
		return b.buildCall(ts)
	case "attribute":
		return b.buildAttribute(ts)
	case "subscript":
		return b.buildGeneric(ts, KindSubscript)
	case "identifier":
		return b.buildIdentifier(ts)
	case "integer", "float", "string", "concatenated_string", "true", "false", "none", "ellipsis":
		return b.buildConstant(ts)
	case "list", "list_comprehension":
		return b.buildGeneric(ts, KindList)
	case "tuple", "pattern_list", "tuple_pattern", "expression_list":
		return b.buildGeneric(ts, KindTuple)
	case "dictionary", "dictionary_comprehension":
		return b.buildGeneric(ts, KindDict)
	case "set", "set_comprehension":
		return b.buildGeneric(ts, KindSet)
	case "parenthesized_expression", "await":
		return b.buildFirstChild(ts)

	default:
		// Unknown constructs are ignored rather than failing the build;
		// the analyzers treat missing children as absent features.
		return nil
	}
}

func (b *astBuilder) buildModule(ts *sitter.Node) *Node {
	node := b.newNodeAt(KindModule, ts)
	node.Body = b.buildStatements(ts)
	return node
}

func (b *astBuilder) buildFunctionDef(ts *sitter.Node) *Node {
	node := b.newNodeAt(KindFunctionDef, ts)

	if name := ts.ChildByFieldName("name"); name != nil {
		node.Name = b.text(name)
	}
	if params := ts.ChildByFieldName("parameters"); params != nil {
		node.Args = b.buildParameters(params)
	}
	if body := ts.ChildByFieldName("body"); body != nil {
		node.Body = b.buildStatements(body)
	}

	return node
}

func (b *astBuilder) buildClassDef(ts *sitter.Node) *Node {
	node := b.newNodeAt(KindClassDef, ts)

	if name := ts.ChildByFieldName("name"); name != nil {
		node.Name = b.text(name)
	}
	if body := ts.ChildByFieldName("body"); body != nil {
		node.Body = b.buildStatements(body)
	}

	return node
}

func (b *astBuilder) buildDecoratedDefinition(ts *sitter.Node) *Node {
	if def := ts.ChildByFieldName("definition"); def != nil {
		return b.build(def)
	}
	return nil
}

// buildIf handles both if_statement and elif_clause; an elif chain becomes
// nested If nodes in Orelse, matching how Python's own ast module shapes it.
func (b *astBuilder) buildIf(ts *sitter.Node) *Node {
	node := b.newNodeAt(KindIf, ts)

	if cond := ts.ChildByFieldName("condition"); cond != nil {
		node.Test = b.build(cond)
	}
	if consequence := ts.ChildByFieldName("consequence"); consequence != nil {
		node.Body = b.buildStatements(consequence)
	}

	// Fold alternatives right-to-left so elif chains nest correctly
	var alternatives []*sitter.Node
	for i := 0; i < int(ts.ChildCount()); i++ {
		child := ts.Child(i)
		if child != nil && ts.FieldNameForChild(i) == "alternative" {
			alternatives = append(alternatives, child)
		}
	}

	var orelse []*Node
	for i := len(alternatives) - 1; i >= 0; i-- {
		alt := alternatives[i]
		switch alt.Type() {
		case "elif_clause":
			elif := b.buildIf(alt)
			elif.Orelse = orelse
			orelse = []*Node{elif}
		case "else_clause":
			if body := alt.ChildByFieldName("body"); body != nil {
				orelse = b.buildStatements(body)
			}
		}
	}
	node.Orelse = orelse

	return node
}

func (b *astBuilder) buildFor(ts *sitter.Node) *Node {
	node := b.newNodeAt(KindFor, ts)

	if left := ts.ChildByFieldName("left"); left != nil {
		if target := b.build(left); target != nil {
			node.Targets = []*Node{target}
		}
	}
	if right := ts.ChildByFieldName("right"); right != nil {
		node.Iter = b.build(right)
	}
	if body := ts.ChildByFieldName("body"); body != nil {
		node.Body = b.buildStatements(body)
	}
	if alt := ts.ChildByFieldName("alternative"); alt != nil {
		if altBody := alt.ChildByFieldName("body"); altBody != nil {
			node.Orelse = b.buildStatements(altBody)
		}
	}

	return node
}

func (b *astBuilder) buildWhile(ts *sitter.Node) *Node {
	node := b.newNodeAt(KindWhile, ts)

	if cond := ts.ChildByFieldName("condition"); cond != nil {
		node.Test = b.build(cond)
	}
	if body := ts.ChildByFieldName("body"); body != nil {
		node.Body = b.buildStatements(body)
	}
	if alt := ts.ChildByFieldName("alternative"); alt != nil {
		if altBody := alt.ChildByFieldName("body"); altBody != nil {
			node.Orelse = b.buildStatements(altBody)
		}
	}

	return node
}

func (b *astBuilder) buildTry(ts *sitter.Node) *Node {
	node := b.newNodeAt(KindTry, ts)

	if body := ts.ChildByFieldName("body"); body != nil {
		node.Body = b.buildStatements(body)
	}

	for i := 0; i < int(ts.ChildCount()); i++ {
		child := ts.Child(i)
		if child == nil {
			continue
		}
		switch child.Type() {
		case "except_clause", "except_group_clause":
			node.Handlers = append(node.Handlers, b.buildExceptHandler(child))
		case "else_clause":
			if elseBody := child.ChildByFieldName("body"); elseBody != nil {
				node.Orelse = b.buildStatements(elseBody)
			}
		case "finally_clause":
			for j := 0; j < int(child.ChildCount()); j++ {
				if block := child.Child(j); block != nil && block.Type() == "block" {
					node.Finalbody = b.buildStatements(block)
				}
			}
		}
	}

	return node
}

func (b *astBuilder) buildExceptHandler(ts *sitter.Node) *Node {
	node := b.newNodeAt(KindExceptHandler, ts)

	for i := 0; i < int(ts.ChildCount()); i++ {
		if block := ts.Child(i); block != nil && block.Type() == "block" {
			node.Body = b.buildStatements(block)
		}
	}

	return node
}

func (b *astBuilder) buildWith(ts *sitter.Node) *Node {
	node := b.newNodeAt(KindWith, ts)

	for i := 0; i < int(ts.ChildCount()); i++ {
		child := ts.Child(i)
		if child != nil && child.Type() == "with_clause" {
			for j := 0; j < int(child.ChildCount()); j++ {
				item := child.Child(j)
				if item != nil && item.Type() == "with_item" {
					if value := item.ChildByFieldName("value"); value != nil {
						if built := b.build(value); built != nil {
							node.Children = append(node.Children, built)
						}
					}
				}
			}
		}
	}

	if body := ts.ChildByFieldName("body"); body != nil {
		node.Body = b.buildStatements(body)
	}

	return node
}

func (b *astBuilder) buildReturn(ts *sitter.Node) *Node {
	node := b.newNodeAt(KindReturn, ts)

	for i := 0; i < int(ts.ChildCount()); i++ {
		child := ts.Child(i)
		if child != nil && child.IsNamed() && child.Type() != "comment" {
			node.Value = b.build(child)
			break
		}
	}

	return node
}

func (b *astBuilder) buildExpressionStatement(ts *sitter.Node) *Node {
	for i := 0; i < int(ts.ChildCount()); i++ {
		child := ts.Child(i)
		if child == nil || !child.IsNamed() || child.Type() == "comment" {
			continue
		}
		inner := b.build(child)
		if inner == nil {
			continue
		}
		// Assignments keep their own kind; everything else is wrapped
		if inner.Kind == KindAssign || inner.Kind == KindAugAssign {
			return inner
		}
		node := b.newNodeAt(KindExpr, ts)
		node.Value = inner
		return node
	}
	return b.newNodeAt(KindExpr, ts)
}

func (b *astBuilder) buildAssignment(ts *sitter.Node) *Node {
	node := b.newNodeAt(KindAssign, ts)

	if left := ts.ChildByFieldName("left"); left != nil {
		if target := b.build(left); target != nil {
			node.Targets = []*Node{target}
		}
	}
	if right := ts.ChildByFieldName("right"); right != nil {
		node.Value = b.build(right)
	}

	return node
}

func (b *astBuilder) buildAugmentedAssignment(ts *sitter.Node) *Node {
	node := b.newNodeAt(KindAugAssign, ts)

	if left := ts.ChildByFieldName("left"); left != nil {
		if target := b.build(left); target != nil {
			node.Targets = []*Node{target}
		}
	}
	if op := ts.ChildByFieldName("operator"); op != nil {
		node.Op = strings.TrimSuffix(b.text(op), "=")
	}
	if right := ts.ChildByFieldName("right"); right != nil {
		node.Value = b.build(right)
	}

	return node
}

func (b *astBuilder) buildAssert(ts *sitter.Node) *Node {
	node := b.newNodeAt(KindAssert, ts)

	for i := 0; i < int(ts.ChildCount()); i++ {
		child := ts.Child(i)
		if child != nil && child.IsNamed() && child.Type() != "comment" {
			if built := b.build(child); built != nil {
				if node.Test == nil {
					node.Test = built
				} else {
					node.Children = append(node.Children, built)
				}
			}
		}
	}

	return node
}

func (b *astBuilder) buildBinaryOp(ts *sitter.Node) *Node {
	node := b.newNodeAt(KindBinOp, ts)

	if left := ts.ChildByFieldName("left"); left != nil {
		if built := b.build(left); built != nil {
			node.Children = append(node.Children, built)
		}
	}
	if op := ts.ChildByFieldName("operator"); op != nil {
		node.Op = b.text(op)
	}
	if right := ts.ChildByFieldName("right"); right != nil {
		if built := b.build(right); built != nil {
			node.Children = append(node.Children, built)
		}
	}

	return node
}

func (b *astBuilder) buildBoolOp(ts *sitter.Node) *Node {
	node := b.newNodeAt(KindBoolOp, ts)

	if op := ts.ChildByFieldName("operator"); op != nil {
		node.Op = b.text(op)
	}
	if left := ts.ChildByFieldName("left"); left != nil {
		if built := b.build(left); built != nil {
			node.Children = append(node.Children, built)
		}
	}
	if right := ts.ChildByFieldName("right"); right != nil {
		if built := b.build(right); built != nil {
			node.Children = append(node.Children, built)
		}
	}

	return node
}

func (b *astBuilder) buildCompare(ts *sitter.Node) *Node {
	node := b.newNodeAt(KindCompare, ts)

	for i := 0; i < int(ts.ChildCount()); i++ {
		child := ts.Child(i)
		if child == nil {
			continue
		}
		if ts.FieldNameForChild(i) == "operators" {
			node.Ops = append(node.Ops, b.text(child))
			continue
		}
		if child.IsNamed() && child.Type() != "comment" {
			if built := b.build(child); built != nil {
				node.Children = append(node.Children, built)
			}
		}
	}
	if len(node.Ops) > 0 {
		node.Op = node.Ops[0]
	}

	return node
}

func (b *astBuilder) buildUnaryOp(ts *sitter.Node, operandField string) *Node {
	node := b.newNodeAt(KindUnaryOp, ts)

	if op := ts.ChildByFieldName("operator"); op != nil {
		node.Op = b.text(op)
	} else if ts.Type() == "not_operator" {
		node.Op = "not"
	}
	if operand := ts.ChildByFieldName(operandField); operand != nil {
		node.Value = b.build(operand)
	}

	return node
}

func (b *astBuilder) buildNamedExpr(ts *sitter.Node) *Node {
	node := b.newNodeAt(KindNamedExpr, ts)

	if name := ts.ChildByFieldName("name"); name != nil {
		if target := b.build(name); target != nil {
			node.Targets = []*Node{target}
		}
	}
	if value := ts.ChildByFieldName("value"); value != nil {
		node.Value = b.build(value)
	}

	return node
}

func (b *astBuilder) buildLambda(ts *sitter.Node) *Node {
	node := b.newNodeAt(KindLambda, ts)

	if params := ts.ChildByFieldName("parameters"); params != nil {
		node.Args = b.buildParameters(params)
	}
	if body := ts.ChildByFieldName("body"); body != nil {
		if built := b.build(body); built != nil {
			node.Body = []*Node{built}
		}
	}

	return node
}

func (b *astBuilder) buildCall(ts *sitter.Node) *Node {
	node := b.newNodeAt(KindCall, ts)

	if function := ts.ChildByFieldName("function"); function != nil {
		node.Value = b.build(function)
	}
	if args := ts.ChildByFieldName("arguments"); args != nil {
		for i := 0; i < int(args.ChildCount()); i++ {
			child := args.Child(i)
			if child != nil && child.IsNamed() && child.Type() != "comment" {
				if built := b.build(child); built != nil {
					node.Args = append(node.Args, built)
				}
			}
		}
	}

	return node
}

func (b *astBuilder) buildAttribute(ts *sitter.Node) *Node {
	node := b.newNodeAt(KindAttribute, ts)

	if object := ts.ChildByFieldName("object"); object != nil {
		node.Value = b.build(object)
	}
	if attr := ts.ChildByFieldName("attribute"); attr != nil {
		node.Name = b.text(attr)
	}

	return node
}

func (b *astBuilder) buildIdentifier(ts *sitter.Node) *Node {
	node := b.newNodeAt(KindName, ts)
	node.Name = b.text(ts)
	return node
}

func (b *astBuilder) buildConstant(ts *sitter.Node) *Node {
	node := b.newNodeAt(KindConstant, ts)
	node.Name = b.text(ts)
	return node
}

// buildGeneric builds a node of the given kind with all named children
func (b *astBuilder) buildGeneric(ts *sitter.Node, kind NodeKind) *Node {
	node := b.newNodeAt(kind, ts)

	for i := 0; i < int(ts.ChildCount()); i++ {
		child := ts.Child(i)
		if child != nil && child.IsNamed() && child.Type() != "comment" {
			if built := b.build(child); built != nil {
				node.Children = append(node.Children, built)
			}
		}
	}

	return node
}

func (b *astBuilder) buildLeaf(ts *sitter.Node, kind NodeKind) *Node {
	return b.newNodeAt(kind, ts)
}

// buildFirstChild unwraps transparent containers like parenthesized expressions
func (b *astBuilder) buildFirstChild(ts *sitter.Node) *Node {
	for i := 0; i < int(ts.ChildCount()); i++ {
		child := ts.Child(i)
		if child != nil && child.IsNamed() && child.Type() != "comment" {
			return b.build(child)
		}
	}
	return nil
}

// buildStatements builds the statement list of a module or block node
func (b *astBuilder) buildStatements(ts *sitter.Node) []*Node {
	var statements []*Node

	for i := 0; i < int(ts.ChildCount()); i++ {
		child := ts.Child(i)
		if child == nil || !child.IsNamed() || child.Type() == "comment" {
			continue
		}
		if stmt := b.build(child); stmt != nil {
			statements = append(statements, stmt)
		}
	}

	return statements
}

func (b *astBuilder) buildParameters(ts *sitter.Node) []*Node {
	var params []*Node

	for i := 0; i < int(ts.ChildCount()); i++ {
		child := ts.Child(i)
		if child == nil || !child.IsNamed() || child.Type() == "comment" {
			continue
		}

		param := b.newNodeAt(KindArg, child)
		switch child.Type() {
		case "identifier":
			param.Name = b.text(child)
		case "typed_parameter", "list_splat_pattern", "dictionary_splat_pattern":
			for j := 0; j < int(child.ChildCount()); j++ {
				if inner := child.Child(j); inner != nil && inner.Type() == "identifier" {
					param.Name = b.text(inner)
					break
				}
			}
		case "default_parameter", "typed_default_parameter":
			if name := child.ChildByFieldName("name"); name != nil {
				param.Name = b.text(name)
			}
			if value := child.ChildByFieldName("value"); value != nil {
				param.Value = b.build(value)
			}
		default:
			continue
		}
		params = append(params, param)
	}

	return params
}

func (b *astBuilder) newNodeAt(kind NodeKind, ts *sitter.Node) *Node {
	node := NewNode(kind)
	node.Line = int(ts.StartPoint().Row) + 1
	node.EndLine = int(ts.EndPoint().Row) + 1
	return node
}

func (b *astBuilder) text(ts *sitter.Node) string {
	return ts.Content(b.source)
}
