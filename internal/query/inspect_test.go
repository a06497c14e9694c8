package query

import (
	"errors"
	"testing"

	"github.com/solatis/querytree/internal/types"
)

func TestFind(t *testing.T) {
	f := sampleForest()
	for _, id := range []types.NodeID{"r1", "a", "g2", "b", "c", "r2", "d"} {
		n, ok := Find(f, id)
		if !ok {
			t.Errorf("Find(%s) not found", id)
			continue
		}
		if n.NodeID() != id {
			t.Errorf("Find(%s) returned %s", id, n.NodeID())
		}
	}
	if _, ok := Find(f, "nope"); ok {
		t.Error("Find(nope) found a node")
	}
}

func TestCountAndDepth(t *testing.T) {
	f := sampleForest()
	rules, groups := Count(f)
	if rules != 4 || groups != 3 {
		t.Errorf("Count() = (%d, %d), want (4, 3)", rules, groups)
	}
	if d := Depth(f); d != 3 {
		t.Errorf("Depth() = %d, want 3", d)
	}
	if d := Depth(nil); d != 0 {
		t.Errorf("Depth(nil) = %d, want 0", d)
	}
}

func TestWalk_SkipChildren(t *testing.T) {
	var visited []types.NodeID
	Walk(sampleForest(), func(n Node, _ int) bool {
		visited = append(visited, n.NodeID())
		return n.NodeID() != "g2"
	})
	want := []types.NodeID{"r1", "a", "g2", "r2", "d"}
	if len(visited) != len(want) {
		t.Fatalf("visited = %v, want %v", visited, want)
	}
	for i := range want {
		if visited[i] != want[i] {
			t.Errorf("visited[%d] = %s, want %s", i, visited[i], want[i])
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		forest  Forest
		wantErr error
	}{
		{name: "sample", forest: sampleForest()},
		{name: "empty", forest: Forest{}},
		{
			name: "duplicate id across levels",
			forest: Forest{Root(None, group("r1",
				Child(None, textRule("x", "name", "equals", "")),
				Child(And, group("g", Child(None, textRule("x", "name", "equals", "")))),
			))},
			wantErr: types.ErrDuplicateNodeID,
		},
		{
			name:    "empty id",
			forest:  Forest{Root(None, group("r1", Child(None, textRule("", "name", "equals", ""))))},
			wantErr: types.ErrEmptyNodeID,
		},
		{
			name:    "nil child",
			forest:  Forest{Root(None, group("r1", Child(None, nil)))},
			wantErr: types.ErrEmptyNodeID,
		},
		{
			name: "invalid connector",
			forest: Forest{Root(None, group("r1",
				Child(None, textRule("a", "name", "equals", "")),
				Child("XOR", textRule("b", "name", "equals", "")),
			))},
			wantErr: types.ErrInvalidConnector,
		},
		{
			name:   "stale first connector tolerated",
			forest: Forest{Root(Or, group("r1", Child(And, textRule("a", "name", "equals", ""))))},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.forest)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
