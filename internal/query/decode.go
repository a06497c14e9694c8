package query

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/solatis/querytree/internal/types"
)

// DecodeStructured converts a generic document (maps and slices as produced
// by encoding/json or yaml.v3 decoding into any) into structured nodes.
// Accepts a list of roots or a single root mapping.
func DecodeStructured(src any) ([]StructuredNode, error) {
	if m, ok := src.(map[string]any); ok {
		src = []any{m}
	}
	var nodes []StructuredNode
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "mapstructure",
		Result:  &nodes,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(src); err != nil {
		return nil, fmt.Errorf("decode structured forest: %w", err)
	}
	return nodes, nil
}

// FromStructured rebuilds a Forest from structured nodes.
// Every root must be a group; ids must be non-empty and unique. Connectors
// are kept as given, including stale ones on first siblings, which
// serialization drops again.
func FromStructured(nodes []StructuredNode) (Forest, error) {
	d := decoder{seen: make(map[types.NodeID]bool)}
	forest := make(Forest, 0, len(nodes))
	for _, sn := range nodes {
		if sn.Type != TypeGroup {
			return nil, fmt.Errorf("root %q: %w", sn.ID, types.ErrRootNotGroup)
		}
		c, err := ParseConnector(string(sn.Connector))
		if err != nil {
			return nil, fmt.Errorf("root %q: %w", sn.ID, err)
		}
		n, err := d.node(sn, 1)
		if err != nil {
			return nil, err
		}
		forest = append(forest, Sibling[Group]{Connector: c, Node: n.(Group)})
	}
	return forest, nil
}

type decoder struct {
	seen map[types.NodeID]bool
}

func (d *decoder) node(sn StructuredNode, depth int) (Node, error) {
	if depth > types.MaxDecodeDepth {
		return nil, fmt.Errorf("node %q: %w", sn.ID, types.ErrTreeTooDeep)
	}
	id, err := types.ParseNodeID(sn.ID)
	if err != nil {
		return nil, fmt.Errorf("%s node: %w", sn.Type, err)
	}
	if d.seen[id] {
		return nil, fmt.Errorf("node %q: %w", id, types.ErrDuplicateNodeID)
	}
	d.seen[id] = true

	switch sn.Type {
	case TypeRule:
		v, err := ValueOf(sn.Value)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", id, err)
		}
		return Rule{ID: id, Field: sn.Field, Operator: sn.Operator, Value: v}, nil
	case TypeGroup:
		children := make([]Sibling[Node], 0, len(sn.Children))
		for _, ch := range sn.Children {
			c, err := ParseConnector(string(ch.Connector))
			if err != nil {
				return nil, fmt.Errorf("node %q: %w", ch.ID, err)
			}
			n, err := d.node(ch, depth+1)
			if err != nil {
				return nil, err
			}
			children = append(children, Sibling[Node]{Connector: c, Node: n})
		}
		return Group{ID: id, Children: children}, nil
	default:
		return nil, fmt.Errorf("node %q: %w: %q", id, types.ErrUnknownNodeType, sn.Type)
	}
}

// NodeFromStructured rebuilds a single rule or group, for edits that swap a
// subtree in place. Ids must be unique within sn.
func NodeFromStructured(sn StructuredNode) (Node, error) {
	d := decoder{seen: make(map[types.NodeID]bool)}
	return d.node(sn, 1)
}
