package export

import (
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/solatis/querytree/internal/query"
)

// ToProto returns the structured output of f as a protobuf ListValue, for
// consumers that exchange google.protobuf.Struct rather than JSON.
// Field names and connector handling are identical to query.ToStructured.
func ToProto(f query.Forest) (*structpb.ListValue, error) {
	nodes := query.ToStructured(f)
	items := make([]any, 0, len(nodes))
	for _, n := range nodes {
		items = append(items, nodeMap(n))
	}
	list, err := structpb.NewList(items)
	if err != nil {
		return nil, fmt.Errorf("build protobuf list: %w", err)
	}
	return list, nil
}

func nodeMap(n query.StructuredNode) map[string]any {
	m := map[string]any{
		"id":   n.ID,
		"type": n.Type,
	}
	if n.Connector != query.None {
		m["connector"] = string(n.Connector)
	}

	if n.Type == query.TypeRule {
		m["field"] = n.Field
		m["operator"] = n.Operator
		if n.Value == nil {
			m["value"] = ""
		} else {
			m["value"] = n.Value
		}
		return m
	}

	children := make([]any, 0, len(n.Children))
	for _, ch := range n.Children {
		children = append(children, nodeMap(ch))
	}
	m["children"] = children
	return m
}
