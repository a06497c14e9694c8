package query

import (
	"fmt"
	"slices"

	"github.com/solatis/querytree/internal/types"
)

// Forest-addressed edits. Each locates the target by id, rebuilds only the
// groups on the path from its root, and applies one of the group-level
// functions from mutate.go at the parent of the target.
//
// A missing id returns the input forest together with an error wrapping
// types.ErrNodeNotFound. The forest is never partially modified.

// AddRuleTo appends a default rule to the group with groupID.
func (m *Mutator) AddRuleTo(f Forest, groupID types.NodeID) (Forest, error) {
	return editGroup(f, groupID, m.AddRule)
}

// AddGroupTo appends a new single-rule group to the group with groupID.
func (m *Mutator) AddGroupTo(f Forest, groupID types.NodeID) (Forest, error) {
	return editGroup(f, groupID, m.AddGroup)
}

// ChangeRuleField switches rule id to field. Operator resets to the new
// field type's first operator and the value is cleared, since neither is
// meaningful across field types.
func (m *Mutator) ChangeRuleField(f Forest, id types.NodeID, field string) (Forest, error) {
	return updateRule(f, id, func(r Rule) Rule {
		r.Field = field
		r.Operator = m.catalog.DefaultOperator(field)
		r.Value = Value{}
		return r
	})
}

// SetRuleOperator sets the operator of rule id.
func SetRuleOperator(f Forest, id types.NodeID, operator string) (Forest, error) {
	return updateRule(f, id, func(r Rule) Rule {
		r.Operator = operator
		return r
	})
}

// SetRuleValue sets the value of rule id.
func SetRuleValue(f Forest, id types.NodeID, v Value) (Forest, error) {
	return updateRule(f, id, func(r Rule) Rule {
		r.Value = v
		return r
	})
}

// ReplaceNode swaps the node with n's id for n, keeping its edge connector.
// Every sibling list inside n is normalized. Roots can only be replaced by
// groups.
func ReplaceNode(f Forest, n Node) (Forest, error) {
	if n == nil {
		return f, fmt.Errorf("replace: %w", types.ErrEmptyNodeID)
	}
	n = normalizeTree(n)
	path, err := locate(f, n.NodeID())
	if err != nil {
		return f, err
	}
	if len(path) == 1 {
		g, ok := n.(Group)
		if !ok {
			return f, fmt.Errorf("replace %s: %w", n.NodeID(), types.ErrRootNotGroup)
		}
		return replaceRoot(f, g), nil
	}
	return rewriteGroup(f, path[:len(path)-1], func(parent Group) Group {
		return UpdateChild(parent, n)
	}), nil
}

// DeleteNode removes the node with id from wherever it sits, roots included.
func DeleteNode(f Forest, id types.NodeID) (Forest, error) {
	path, err := locate(f, id)
	if err != nil {
		return f, err
	}
	if len(path) == 1 {
		return DeleteRootGroup(f, id), nil
	}
	return rewriteGroup(f, path[:len(path)-1], func(parent Group) Group {
		return DeleteChild(parent, id)
	}), nil
}

// SetNodeConnector sets the connector joining node id to its previous
// sibling. Ignored for first siblings, which never carry a connector.
func SetNodeConnector(f Forest, id types.NodeID, c Connector) (Forest, error) {
	if !c.Valid() {
		return f, fmt.Errorf("%w: %q", types.ErrInvalidConnector, string(c))
	}
	path, err := locate(f, id)
	if err != nil {
		return f, err
	}
	if len(path) == 1 {
		return SetRootConnector(f, id, c), nil
	}
	return rewriteGroup(f, path[:len(path)-1], func(parent Group) Group {
		return SetConnector(parent, id, c)
	}), nil
}

// editGroup applies fn to the group with id.
func editGroup(f Forest, id types.NodeID, fn func(Group) Group) (Forest, error) {
	path, err := locate(f, id)
	if err != nil {
		return f, err
	}
	if _, ok := nodeAt(f, path).(Group); !ok {
		return f, fmt.Errorf("%s: %w", id, types.ErrNotAGroup)
	}
	return rewriteGroup(f, path, fn), nil
}

// updateRule applies fn to the rule with id.
func updateRule(f Forest, id types.NodeID, fn func(Rule) Rule) (Forest, error) {
	path, err := locate(f, id)
	if err != nil {
		return f, err
	}
	r, ok := nodeAt(f, path).(Rule)
	if !ok {
		return f, fmt.Errorf("%s: %w", id, types.ErrNotARule)
	}
	return ReplaceNode(f, fn(r))
}

// locate returns the index path to id: path[0] is the root index, each
// further element a child index inside the previous group.
func locate(f Forest, id types.NodeID) ([]int, error) {
	for i, root := range f {
		if root.Node.ID == id {
			return []int{i}, nil
		}
		if sub := pathWithin(root.Node, id); sub != nil {
			return append([]int{i}, sub...), nil
		}
	}
	return nil, fmt.Errorf("%s: %w", id, types.ErrNodeNotFound)
}

func pathWithin(g Group, id types.NodeID) []int {
	for i, ch := range g.Children {
		if ch.Node == nil {
			continue
		}
		if ch.Node.NodeID() == id {
			return []int{i}
		}
		if sub, ok := ch.Node.(Group); ok {
			if p := pathWithin(sub, id); p != nil {
				return append([]int{i}, p...)
			}
		}
	}
	return nil
}

// nodeAt resolves a path produced by locate.
func nodeAt(f Forest, path []int) Node {
	var n Node = f[path[0]].Node
	for _, idx := range path[1:] {
		n = n.(Group).Children[idx].Node
	}
	return n
}

// rewriteGroup replaces the group at path with fn(group), copying every
// group between it and its root.
func rewriteGroup(f Forest, path []int, fn func(Group) Group) Forest {
	out := slices.Clone(f)
	out[path[0]].Node = rewriteWithin(out[path[0]].Node, path[1:], fn)
	return out
}

func rewriteWithin(g Group, path []int, fn func(Group) Group) Group {
	if len(path) == 0 {
		return fn(g)
	}
	children := slices.Clone(g.Children)
	children[path[0]].Node = rewriteWithin(children[path[0]].Node.(Group), path[1:], fn)
	g.Children = children
	return g
}
