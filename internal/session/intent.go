package session

import (
	"fmt"

	"github.com/solatis/querytree/internal/query"
	"github.com/solatis/querytree/internal/types"
)

// Op names an edit a session can apply.
type Op string

const (
	OpAddRule      Op = "add_rule"
	OpAddGroup     Op = "add_group"
	OpAddRootGroup Op = "add_root_group"
	OpDelete       Op = "delete"
	OpSetConnector Op = "set_connector"
	OpSetField     Op = "set_field"
	OpSetOperator  Op = "set_operator"
	OpSetValue     Op = "set_value"
	OpReplace      Op = "replace"
)

// Intent is one user edit. Target is the group to add into for add_rule and
// add_group, and the node being edited for every other op except
// add_root_group, which takes no target.
type Intent struct {
	Op        Op                    `yaml:"op" json:"op"`
	Target    types.NodeID          `yaml:"target,omitempty" json:"target,omitempty"`
	Connector string                `yaml:"connector,omitempty" json:"connector,omitempty"`
	Field     string                `yaml:"field,omitempty" json:"field,omitempty"`
	Operator  string                `yaml:"operator,omitempty" json:"operator,omitempty"`
	Value     any                   `yaml:"value,omitempty" json:"value,omitempty"`
	Node      *query.StructuredNode `yaml:"node,omitempty" json:"node,omitempty"`
}

// Validate checks that the intent carries what its op needs.
func (in Intent) Validate() error {
	switch in.Op {
	case OpAddRootGroup:
		return nil
	case OpAddRule, OpAddGroup, OpDelete, OpSetValue:
	case OpSetConnector:
		if _, err := query.ParseConnector(in.Connector); err != nil {
			return err
		}
	case OpSetField:
		if in.Field == "" {
			return fmt.Errorf("%s: field is required", in.Op)
		}
	case OpSetOperator:
		if in.Operator == "" {
			return fmt.Errorf("%s: operator is required", in.Op)
		}
	case OpReplace:
		if in.Node == nil {
			return fmt.Errorf("%s: node is required", in.Op)
		}
		return nil
	default:
		return fmt.Errorf("unknown op %q", in.Op)
	}

	if in.Target.IsZero() {
		return fmt.Errorf("%s: %w", in.Op, types.ErrEmptyNodeID)
	}
	return nil
}

// AddRule returns an intent adding a default rule to group.
func AddRule(group types.NodeID) Intent { return Intent{Op: OpAddRule, Target: group} }

// AddGroup returns an intent adding a subgroup to group.
func AddGroup(group types.NodeID) Intent { return Intent{Op: OpAddGroup, Target: group} }

// AddRootGroup returns an intent appending a root group.
func AddRootGroup() Intent { return Intent{Op: OpAddRootGroup} }

// Delete returns an intent removing id.
func Delete(id types.NodeID) Intent { return Intent{Op: OpDelete, Target: id} }

// SetConnector returns an intent changing the connector in front of id.
func SetConnector(id types.NodeID, c query.Connector) Intent {
	return Intent{Op: OpSetConnector, Target: id, Connector: string(c)}
}

// SetField returns an intent switching a rule's field.
func SetField(id types.NodeID, field string) Intent {
	return Intent{Op: OpSetField, Target: id, Field: field}
}

// SetOperator returns an intent changing a rule's operator.
func SetOperator(id types.NodeID, op string) Intent {
	return Intent{Op: OpSetOperator, Target: id, Operator: op}
}

// SetValue returns an intent changing a rule's value.
func SetValue(id types.NodeID, v any) Intent {
	return Intent{Op: OpSetValue, Target: id, Value: v}
}
