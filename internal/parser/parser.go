package parser

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// Parser provides Python code parsing capabilities using tree-sitter
type Parser struct {
	parser *sitter.Parser
}

// New creates a new Parser instance with Python grammar
func New() *Parser {
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())
	return &Parser{
		parser: parser,
	}
}

// ParseResult represents the result of parsing Python code
type ParseResult struct {
	Root       *Node
	SourceCode []byte
}

// Parse parses Python source code and returns the generic AST.
// Line numbers in the result are 1-based, matching the source exactly.
func (p *Parser) Parse(ctx context.Context, source []byte) (*ParseResult, error) {
	tree, err := p.parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse source: %w", err)
	}

	rootNode := tree.RootNode()
	if rootNode.HasError() {
		return nil, fmt.Errorf("syntax errors found in source code")
	}

	builder := newASTBuilder(source)
	root := builder.build(rootNode)
	if root == nil {
		return nil, fmt.Errorf("failed to build AST from parse tree")
	}

	return &ParseResult{
		Root:       root,
		SourceCode: source,
	}, nil
}
