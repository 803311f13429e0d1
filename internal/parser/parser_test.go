package parser

import (
	"context"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	p := New()

	t.Run("FunctionDefinition", func(t *testing.T) {
		source := []byte("def add(a, b):\n    return a + b\n")

		result, err := p.Parse(context.Background(), source)
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}

		functions := result.Root.FindByKind(KindFunctionDef)
		if len(functions) != 1 {
			t.Fatalf("Expected 1 function, got %d", len(functions))
		}
		fn := functions[0]
		if fn.Name != "add" {
			t.Errorf("Expected function name 'add', got %q", fn.Name)
		}
		if len(fn.Args) != 2 {
			t.Errorf("Expected 2 parameters, got %d", len(fn.Args))
		}
		if fn.Line != 1 {
			t.Errorf("Expected function on line 1, got %d", fn.Line)
		}
	})

	t.Run("LineNumbersAreOneBased", func(t *testing.T) {
		source := []byte("# header\n\nx = 1\n")

		result, err := p.Parse(context.Background(), source)
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}

		assigns := result.Root.FindByKind(KindAssign)
		if len(assigns) != 1 {
			t.Fatalf("Expected 1 assignment, got %d", len(assigns))
		}
		if assigns[0].Line != 3 {
			t.Errorf("Expected assignment on line 3, got %d", assigns[0].Line)
		}
	})

	t.Run("SyntaxErrorIsReported", func(t *testing.T) {
		_, err := p.Parse(context.Background(), []byte("def broken(:\n"))
		if err == nil {
			t.Fatal("Expected an error for invalid syntax")
		}
		if !strings.Contains(err.Error(), "syntax errors") {
			t.Errorf("Expected a syntax error message, got %q", err.Error())
		}
	})

	t.Run("ChainedComparisonKeepsEveryOperator", func(t *testing.T) {
		result, err := p.Parse(context.Background(), []byte("ok = a < b <= c\n"))
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}

		compares := result.Root.FindByKind(KindCompare)
		if len(compares) != 1 {
			t.Fatalf("Expected 1 comparison, got %d", len(compares))
		}
		cmp := compares[0]
		if len(cmp.Ops) != 2 || cmp.Ops[0] != "<" || cmp.Ops[1] != "<=" {
			t.Errorf("Expected operators [< <=], got %v", cmp.Ops)
		}
		if cmp.Op != "<" {
			t.Errorf("Op should be the first operator, got %q", cmp.Op)
		}
	})

	t.Run("WalkVisitsNestedNodes", func(t *testing.T) {
		source := []byte("def outer():\n    def inner():\n        pass\n")

		result, err := p.Parse(context.Background(), source)
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}

		var names []string
		result.Root.Walk(func(n *Node) bool {
			if n.Kind == KindFunctionDef {
				names = append(names, n.Name)
			}
			return true
		})
		if len(names) != 2 {
			t.Fatalf("Expected 2 functions, got %d: %v", len(names), names)
		}
	})
}
