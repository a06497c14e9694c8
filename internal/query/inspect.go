package query

import (
	"fmt"

	"github.com/solatis/querytree/internal/types"
)

// Find returns the node with id anywhere in the forest.
func Find(f Forest, id types.NodeID) (Node, bool) {
	path, err := locate(f, id)
	if err != nil {
		return nil, false
	}
	return nodeAt(f, path), true
}

// Walk visits every node depth-first in document order. depth is 1 for
// roots. Returning false from fn skips the node's children.
func Walk(f Forest, fn func(n Node, depth int) bool) {
	for _, root := range f {
		walkNode(root.Node, 1, fn)
	}
}

func walkNode(n Node, depth int, fn func(Node, int) bool) {
	if !fn(n, depth) {
		return
	}
	if g, ok := n.(Group); ok {
		for _, ch := range g.Children {
			if ch.Node != nil {
				walkNode(ch.Node, depth+1, fn)
			}
		}
	}
}

// Count returns the number of rules and groups in the forest.
func Count(f Forest) (rules, groups int) {
	Walk(f, func(n Node, _ int) bool {
		switch n.(type) {
		case Rule:
			rules++
		case Group:
			groups++
		}
		return true
	})
	return rules, groups
}

// Depth returns the deepest nesting level (0 for an empty forest).
func Depth(f Forest) int {
	deepest := 0
	Walk(f, func(_ Node, depth int) bool {
		deepest = max(deepest, depth)
		return true
	})
	return deepest
}

// Validate checks the forest-wide invariants that connector normalization
// cannot repair: ids present and unique, connectors well-formed, no nil
// children. Stale first-sibling connectors are not reported; serialization
// drops them.
func Validate(f Forest) error {
	seen := make(map[types.NodeID]bool)
	var err error
	check := func(n Node, c Connector) {
		if err != nil {
			return
		}
		switch {
		case n == nil:
			err = fmt.Errorf("nil child: %w", types.ErrEmptyNodeID)
		case n.NodeID().IsZero():
			err = types.ErrEmptyNodeID
		case seen[n.NodeID()]:
			err = fmt.Errorf("%s: %w", n.NodeID(), types.ErrDuplicateNodeID)
		case !c.Valid():
			err = fmt.Errorf("%s: %w: %q", n.NodeID(), types.ErrInvalidConnector, string(c))
		default:
			seen[n.NodeID()] = true
		}
	}

	var visit func(g Group)
	visit = func(g Group) {
		for _, ch := range g.Children {
			check(ch.Node, ch.Connector)
			if sub, ok := ch.Node.(Group); ok && err == nil {
				visit(sub)
			}
		}
	}
	for _, root := range f {
		check(root.Node, root.Connector)
		if err == nil {
			visit(root.Node)
		}
	}
	return err
}
