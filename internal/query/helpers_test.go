package query

import (
	"testing"

	"github.com/solatis/querytree/internal/types"
)

// stubCatalog mirrors the shape of catalog.Default without importing it.
type stubCatalog struct{}

func (stubCatalog) DefaultField() string { return "name" }

func (stubCatalog) DefaultOperator(field string) string {
	switch field {
	case "age":
		return "gt"
	case "joinedAt":
		return "on"
	default:
		return "equals"
	}
}

func newTestMutator() *Mutator {
	return NewMutator(stubCatalog{}, types.SequentialIDs("n"))
}

func textRule(id, field, op, value string) Rule {
	return Rule{ID: types.NodeID(id), Field: field, Operator: op, Value: StringValue(value)}
}

func group(id string, children ...Sibling[Node]) Group {
	return Group{ID: types.NodeID(id), Children: children}
}

// sampleForest builds:
//
//	r1: [a, OR g2: [b, AND c]]
//	OR r2: [d]
func sampleForest() Forest {
	return Forest{
		Root(None, group("r1",
			Child(None, textRule("a", "name", "contains", "x")),
			Child(Or, group("g2",
				Child(None, textRule("b", "age", "gt", "5")),
				Child(And, textRule("c", "country", "equals", "NO")),
			)),
		)),
		Root(Or, group("r2",
			Child(None, textRule("d", "joinedAt", "after", "2024-01-01")),
		)),
	}
}

func connectors[N Node](siblings []Sibling[N]) []Connector {
	out := make([]Connector, len(siblings))
	for i, s := range siblings {
		out[i] = s.Connector
	}
	return out
}

func ids[N Node](siblings []Sibling[N]) []types.NodeID {
	out := make([]types.NodeID, len(siblings))
	for i, s := range siblings {
		out[i] = s.Node.NodeID()
	}
	return out
}

func mustGroup(t *testing.T, f Forest, id types.NodeID) Group {
	t.Helper()
	n, ok := Find(f, id)
	if !ok {
		t.Fatalf("Find(%s) not found", id)
	}
	g, ok := n.(Group)
	if !ok {
		t.Fatalf("Find(%s) = %T, want Group", id, n)
	}
	return g
}

// assertNormalized fails unless every sibling list in f satisfies the
// connector invariants.
func assertNormalized(t *testing.T, f Forest) {
	t.Helper()
	if !forestNormalized(f) {
		t.Errorf("forest not normalized: %s", ToText(f))
	}
}

func forestNormalized(f Forest) bool {
	if !IsNormalized([]Sibling[Group](f)) {
		return false
	}
	ok := true
	Walk(f, func(n Node, _ int) bool {
		if g, isGroup := n.(Group); isGroup && !IsNormalized(g.Children) {
			ok = false
		}
		return ok
	})
	return ok
}
