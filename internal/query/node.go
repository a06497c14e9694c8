// internal/query/node.go
package query

import (
	"fmt"
	"strings"

	"github.com/solatis/querytree/internal/types"
)

/*
 * Query-tree data model.
 *
 * A Forest is an ordered list of root Groups. A Group holds an ordered list of
 * children, each a Rule (leaf predicate) or a nested Group. Node is a sealed
 * interface: only Rule and Group implement it, so type switches over Node are
 * exhaustive.
 *
 * Connectors live on the edge, not on the node: Sibling pairs a node with the
 * connector joining it to its previous sibling at the same level. A Group's
 * own edge connector says nothing about how its children are joined.
 *
 * Invariants maintained by the Mutator:
 *   1. The first sibling of every list (forest roots included) has no
 *      connector; every later sibling has AND or OR.
 *   2. Node ids are unique across the forest and never reused.
 *   3. A child Group's edge connector is independent of its children's.
 *   4. Deletion re-applies invariant 1 to the affected sibling list.
 *
 * Values are treated as immutable: every mutation copies the slices on the
 * path it touches and leaves the input untouched.
 */

// Connector joins a node to its immediately preceding sibling.
type Connector string

const (
	// None marks the first sibling of a list (no predecessor to join).
	None Connector = ""
	// And requires both the previous sibling and this node to match.
	And Connector = "AND"
	// Or requires either the previous sibling or this node to match.
	Or Connector = "OR"
)

// ParseConnector converts user or document input to a Connector.
// Matching is case-insensitive; the empty string yields None.
func ParseConnector(s string) (Connector, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "":
		return None, nil
	case "AND":
		return And, nil
	case "OR":
		return Or, nil
	default:
		return None, fmt.Errorf("%w: %q", types.ErrInvalidConnector, s)
	}
}

// Valid reports whether c is None, And or Or.
func (c Connector) Valid() bool {
	return c == None || c == And || c == Or
}

// OrDefault returns c, or And when c is None.
// Rendering default only; the stored value is not changed.
func (c Connector) OrDefault() Connector {
	if c == None {
		return And
	}
	return c
}

// Node is a Rule or a Group.
type Node interface {
	// NodeID returns the node's stable identifier.
	NodeID() types.NodeID
	isNode()
}

// Rule is a leaf predicate: field, operator, value.
// Field and Operator are catalog keys; the model stores them unvalidated.
type Rule struct {
	ID       types.NodeID
	Field    string
	Operator string
	Value    Value
}

// NodeID implements Node.
func (r Rule) NodeID() types.NodeID { return r.ID }

func (Rule) isNode() {}

// Group is an internal node holding an ordered list of children.
// Children may be empty only transiently while editing.
type Group struct {
	ID       types.NodeID
	Children []Sibling[Node]
}

// NodeID implements Node.
func (g Group) NodeID() types.NodeID { return g.ID }

func (Group) isNode() {}

// indexOf returns the position of the direct child with id, or -1.
func (g Group) indexOf(id types.NodeID) int {
	for i, ch := range g.Children {
		if ch.Node != nil && ch.Node.NodeID() == id {
			return i
		}
	}
	return -1
}

// Sibling is an element of a sibling list: a node plus the connector joining
// it to the previous element.
type Sibling[N Node] struct {
	Connector Connector
	Node      N
}

// WithConnector returns a copy of s joined by c.
func (s Sibling[N]) WithConnector(c Connector) Sibling[N] {
	s.Connector = c
	return s
}

// Child wraps n as a group child joined by c.
func Child(c Connector, n Node) Sibling[Node] {
	return Sibling[Node]{Connector: c, Node: n}
}

// Root wraps g as a forest root joined by c.
func Root(c Connector, g Group) Sibling[Group] {
	return Sibling[Group]{Connector: c, Node: g}
}

// Forest is the ordered list of root Groups edited by a session.
type Forest []Sibling[Group]
