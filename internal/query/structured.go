// internal/query/structured.go
package query

import (
	"encoding/json"
	"fmt"

	"github.com/solatis/querytree/internal/types"
)

/*
 * Structured serialization.
 *
 * ToStructured projects a Forest into the wire shape consumed by other
 * systems:
 *
 *   group: {id, type:"group", connector, children:[...]}
 *   rule:  {id, type:"rule", field, operator, value, connector}
 *
 * The first element of every sibling list is emitted without a connector
 * regardless of what is stored, so a stale connector left by an upstream bug
 * never reaches consumers. Later elements carry exactly what is stored,
 * including no connector at all; rendering defaults belong to ToText.
 *
 * The output can be fed back through FromStructured, and re-serializing it
 * yields an identical value.
 */

// Structured node type tags.
const (
	TypeGroup = "group"
	TypeRule  = "rule"
)

// StructuredNode is one node of the structured output.
// Rule-only fields are empty for groups and Children is nil for rules.
type StructuredNode struct {
	ID        string           `json:"id" yaml:"id" mapstructure:"id"`
	Type      string           `json:"type" yaml:"type" mapstructure:"type"`
	Connector Connector        `json:"connector,omitempty" yaml:"connector,omitempty" mapstructure:"connector"`
	Field     string           `json:"field,omitempty" yaml:"field,omitempty" mapstructure:"field"`
	Operator  string           `json:"operator,omitempty" yaml:"operator,omitempty" mapstructure:"operator"`
	Value     any              `json:"value,omitempty" yaml:"value,omitempty" mapstructure:"value"`
	Children  []StructuredNode `json:"children,omitempty" yaml:"children,omitempty" mapstructure:"children"`
}

type structuredRule struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Field     string    `json:"field"`
	Operator  string    `json:"operator"`
	Value     any       `json:"value"`
	Connector Connector `json:"connector,omitempty"`
}

type structuredGroup struct {
	ID        string           `json:"id"`
	Type      string           `json:"type"`
	Connector Connector        `json:"connector,omitempty"`
	Children  []StructuredNode `json:"children"`
}

// MarshalJSON implements json.Marshaler with the per-type shape: rules
// always carry field, operator and value; groups always carry children.
// An absent connector is omitted.
func (n StructuredNode) MarshalJSON() ([]byte, error) {
	switch n.Type {
	case TypeRule:
		value := n.Value
		if value == nil {
			value = ""
		}
		return json.Marshal(structuredRule{
			ID:        n.ID,
			Type:      n.Type,
			Field:     n.Field,
			Operator:  n.Operator,
			Value:     value,
			Connector: n.Connector,
		})
	case TypeGroup:
		children := n.Children
		if children == nil {
			children = []StructuredNode{}
		}
		return json.Marshal(structuredGroup{
			ID:        n.ID,
			Type:      n.Type,
			Connector: n.Connector,
			Children:  children,
		})
	default:
		return nil, fmt.Errorf("%w: %q", types.ErrUnknownNodeType, n.Type)
	}
}

// ToStructured projects f into its structured form.
// An empty forest yields an empty, non-nil slice.
func ToStructured(f Forest) []StructuredNode {
	out := make([]StructuredNode, 0, len(f))
	for i, root := range f {
		out = append(out, structureGroup(root.Node, effectiveConnector(i, root.Connector)))
	}
	return out
}

// MarshalStructured encodes the structured form of f as JSON.
func MarshalStructured(f Forest) ([]byte, error) {
	return json.Marshal(ToStructured(f))
}

// MarshalStructuredIndent is MarshalStructured with indentation.
func MarshalStructuredIndent(f Forest, indent string) ([]byte, error) {
	return json.MarshalIndent(ToStructured(f), "", indent)
}

func structureGroup(g Group, c Connector) StructuredNode {
	children := make([]StructuredNode, 0, len(g.Children))
	for _, ch := range g.Children {
		if ch.Node == nil {
			continue
		}
		children = append(children, structureNode(ch.Node, effectiveConnector(len(children), ch.Connector)))
	}
	return StructuredNode{
		ID:        string(g.ID),
		Type:      TypeGroup,
		Connector: c,
		Children:  children,
	}
}

func structureNode(n Node, c Connector) StructuredNode {
	switch n := n.(type) {
	case Rule:
		return StructuredNode{
			ID:        string(n.ID),
			Type:      TypeRule,
			Connector: c,
			Field:     n.Field,
			Operator:  n.Operator,
			Value:     n.Value.Interface(),
		}
	case Group:
		return structureGroup(n, c)
	default:
		panic(fmt.Sprintf("query: unexpected node type %T", n))
	}
}
