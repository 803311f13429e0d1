package analyzer

import (
	"testing"

	"github.com/codepulse/codepulse/domain"
)

func TestBuildDataFlowGraph(t *testing.T) {
	t.Run("DefinitionsAndUses", func(t *testing.T) {
		g := BuildDataFlowGraph(parseSource(t, `x = 1
y = x + 2
z = x + y
`))
		x := g.Variables["x"]
		if x == nil {
			t.Fatal("Variable x not tracked")
		}
		if len(x.DefinitionLines) != 1 || x.DefinitionLines[0] != 1 {
			t.Errorf("Expected x defined at line 1, got %v", x.DefinitionLines)
		}
		if len(x.UseLines) != 2 {
			t.Errorf("Expected 2 uses of x, got %v", x.UseLines)
		}
		if deps := g.DataDependencies(); deps != 3 {
			t.Errorf("Expected 3 data dependencies, got %d", deps)
		}
	})

	t.Run("AugmentedAssignIsDefinitionOnly", func(t *testing.T) {
		g := BuildDataFlowGraph(parseSource(t, `x += 1`))
		x := g.Variables["x"]
		if x == nil {
			t.Fatal("Variable x not tracked")
		}
		if len(x.DefinitionLines) != 1 {
			t.Errorf("Expected 1 definition, got %v", x.DefinitionLines)
		}
		if len(x.UseLines) != 0 {
			t.Errorf("Augmented assign must not record a use, got %v", x.UseLines)
		}
	})

	t.Run("SubscriptTargetReadsObjectAndIndex", func(t *testing.T) {
		g := BuildDataFlowGraph(parseSource(t, `items[i] = 1`))
		items := g.Variables["items"]
		if items == nil || len(items.UseLines) != 1 {
			t.Errorf("Subscripted object should be a use: %+v", items)
		}
		if items != nil && len(items.DefinitionLines) != 0 {
			t.Errorf("Subscript store must not define the object, got %v", items.DefinitionLines)
		}
		index := g.Variables["i"]
		if index == nil || len(index.UseLines) != 1 {
			t.Errorf("Index expression should be a use: %+v", index)
		}
	})

	t.Run("AttributeTargetReadsObject", func(t *testing.T) {
		g := BuildDataFlowGraph(parseSource(t, `obj.field = 1`))
		obj := g.Variables["obj"]
		if obj == nil || len(obj.UseLines) != 1 {
			t.Errorf("Attribute store should read the object: %+v", obj)
		}
	})

	t.Run("TupleTargetsAreDefinitions", func(t *testing.T) {
		g := BuildDataFlowGraph(parseSource(t, `a, b = pair`))
		for _, name := range []string{"a", "b"} {
			v := g.Variables[name]
			if v == nil || len(v.DefinitionLines) != 1 {
				t.Errorf("Unpacked %s should be a definition: %+v", name, v)
				continue
			}
			if len(v.UseLines) != 0 {
				t.Errorf("Unpacked %s must not count as a use, got %v", name, v.UseLines)
			}
		}
		pair := g.Variables["pair"]
		if pair == nil || len(pair.UseLines) != 1 {
			t.Errorf("Unpacked value should be a use: %+v", pair)
		}
	})

	t.Run("LoopTargetNotAUse", func(t *testing.T) {
		g := BuildDataFlowGraph(parseSource(t, `for item in items:
    print(item)
`))
		items := g.Variables["items"]
		if items == nil || len(items.UseLines) != 1 {
			t.Errorf("Iterable should be a use: %+v", items)
		}
		item := g.Variables["item"]
		if item == nil {
			t.Fatal("Loop body use of item not tracked")
		}
		for _, line := range item.UseLines {
			if line == 1 {
				t.Error("Loop target on line 1 must not count as a use")
			}
		}
	})
}

func TestAnalyzeDataFlow(t *testing.T) {
	analyzer := NewFlowAnalyzer()

	t.Run("UnusedVariable", func(t *testing.T) {
		result := analyzer.AnalyzeDataFlow(BuildDataFlowGraph(parseSource(t, `x = 1
y = x
`)))
		unused := 0
		for _, issue := range result.Issues {
			if issue.Category == domain.CategoryUnusedVariable {
				unused++
				if issue.Variable != "y" {
					t.Errorf("Expected y flagged, got %s", issue.Variable)
				}
				if issue.Severity != domain.SeverityInfo {
					t.Errorf("Unused variable should be info, got %s", issue.Severity)
				}
			}
		}
		if unused != 1 {
			t.Errorf("Expected exactly 1 unused-variable issue, got %d", unused)
		}
	})

	t.Run("UseBeforeDefinition", func(t *testing.T) {
		result := analyzer.AnalyzeDataFlow(BuildDataFlowGraph(parseSource(t, `print(value)
value = 10
x = value
`)))
		found := false
		for _, issue := range result.Issues {
			if issue.Category == domain.CategoryUseBeforeDef {
				found = true
				if issue.Variable != "value" {
					t.Errorf("Expected value flagged, got %s", issue.Variable)
				}
				if issue.Severity != domain.SeverityError {
					t.Errorf("Use before definition should be error, got %s", issue.Severity)
				}
			}
		}
		if !found {
			t.Error("Expected use_before_definition issue")
		}
	})

	t.Run("NeverDefinedNameNotFlagged", func(t *testing.T) {
		result := analyzer.AnalyzeDataFlow(BuildDataFlowGraph(parseSource(t, `print(something)`)))
		if len(result.Issues) != 0 {
			t.Errorf("Names with no definitions should produce no issues, got %v", result.Issues)
		}
	})
}
