// internal/query/mutate.go
package query

import (
	"slices"

	"github.com/solatis/querytree/internal/types"
)

/*
 * Group- and forest-level edits.
 *
 * Every function takes a value and returns a new one; inputs are never
 * modified. Only the sibling list being edited is copied and re-normalized,
 * untouched subtrees are shared with the input.
 *
 * Unknown ids make the operation a no-op. Group-level functions return the
 * group unchanged silently; the forest-addressed variants in address.go also
 * report types.ErrNodeNotFound so callers can log the stale reference.
 */

// Catalog supplies the contents of freshly created rules.
// Implemented by *catalog.Catalog.
type Catalog interface {
	// DefaultField returns the key of the first catalog field.
	DefaultField() string
	// DefaultOperator returns the first operator offered for field's type.
	DefaultOperator(field string) string
}

// Mutator creates new nodes from a catalog and an id generator.
// Holds no tree state; safe for concurrent use if the generator is.
type Mutator struct {
	catalog Catalog
	newID   types.IDGenerator
}

// NewMutator creates a Mutator. A nil generator defaults to types.NewNodeID.
func NewMutator(catalog Catalog, newID types.IDGenerator) *Mutator {
	if newID == nil {
		newID = types.NewNodeID
	}
	return &Mutator{catalog: catalog, newID: newID}
}

// NewRule returns a rule with a fresh id, the catalog's first field, that
// field type's first operator and an empty value.
func (m *Mutator) NewRule() Rule {
	field := m.catalog.DefaultField()
	return Rule{
		ID:       m.newID(),
		Field:    field,
		Operator: m.catalog.DefaultOperator(field),
	}
}

// NewGroup returns a group with a fresh id holding exactly one default rule.
func (m *Mutator) NewGroup() Group {
	return Group{
		ID:       m.newID(),
		Children: []Sibling[Node]{{Node: m.NewRule()}},
	}
}

// AddRule appends a default rule to g.children.
func (m *Mutator) AddRule(g Group) Group {
	return withChildren(g, append(slices.Clone(g.Children), Sibling[Node]{Node: m.NewRule()}))
}

// AddGroup appends a new group containing one default rule to g.children.
func (m *Mutator) AddGroup(g Group) Group {
	return withChildren(g, append(slices.Clone(g.Children), Sibling[Node]{Node: m.NewGroup()}))
}

// AddRootGroup appends a default group to the forest.
// Any root after the first is joined by And.
func (m *Mutator) AddRootGroup(f Forest) Forest {
	return Forest(Normalize(append(slices.Clone(f), Sibling[Group]{Node: m.NewGroup()})))
}

// UpdateChild replaces the direct child whose id matches child's.
// The child's edge connector is kept; connectors change via SetConnector.
// No-op if the id is not among g's children.
func UpdateChild(g Group, child Node) Group {
	if child == nil {
		return g
	}
	idx := g.indexOf(child.NodeID())
	if idx < 0 {
		return g
	}
	children := slices.Clone(g.Children)
	children[idx].Node = child
	return withChildren(g, children)
}

// DeleteChild removes the direct child with id and re-normalizes, so a new
// first child loses its connector. No-op if id is not found.
func DeleteChild(g Group, id types.NodeID) Group {
	idx := g.indexOf(id)
	if idx < 0 {
		return g
	}
	return withChildren(g, slices.Delete(slices.Clone(g.Children), idx, idx+1))
}

// SetConnector sets the connector joining child id to its previous sibling.
// Setting a connector on the first child has no effect: the list is
// re-normalized afterwards. No-op for unknown ids or invalid connectors.
func SetConnector(g Group, id types.NodeID, c Connector) Group {
	idx := g.indexOf(id)
	if idx < 0 || !c.Valid() {
		return g
	}
	children := slices.Clone(g.Children)
	children[idx].Connector = c
	return withChildren(g, children)
}

// DeleteRootGroup removes the root with id. If it was first, the new first
// root loses its connector. No-op if id is not a root.
func DeleteRootGroup(f Forest, id types.NodeID) Forest {
	idx := rootIndex(f, id)
	if idx < 0 {
		return f
	}
	return Forest(Normalize(slices.Delete(slices.Clone(f), idx, idx+1)))
}

// SetRootConnector sets the connector joining root id to the previous root.
// No-op for the first root, unknown ids or invalid connectors.
func SetRootConnector(f Forest, id types.NodeID, c Connector) Forest {
	idx := rootIndex(f, id)
	if idx < 0 || !c.Valid() {
		return f
	}
	out := slices.Clone(f)
	out[idx].Connector = c
	return Forest(Normalize(out))
}

// replaceRoot swaps the group stored at root id, keeping its edge connector.
func replaceRoot(f Forest, g Group) Forest {
	idx := rootIndex(f, g.ID)
	if idx < 0 {
		return f
	}
	out := slices.Clone(f)
	out[idx].Node = g
	return out
}

func rootIndex(f Forest, id types.NodeID) int {
	for i, r := range f {
		if r.Node.ID == id {
			return i
		}
	}
	return -1
}

// withChildren returns g with children normalized and installed.
func withChildren(g Group, children []Sibling[Node]) Group {
	g.Children = Normalize(children)
	return g
}
