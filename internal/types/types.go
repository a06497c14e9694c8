// Package types provides identifiers and sentinel errors shared across the
// querytree packages.
//
// Kept free of query-model types so that catalog, query and export can all
// depend on it without import cycles. ID utilities in ids.go import uuid.
package types

// NodeID identifies a Rule or Group for the node's whole lifetime.
// String alias enables type safety while maintaining JSON string serialization.
// Mutations address nodes exclusively by NodeID.
type NodeID string

// String implements fmt.Stringer.
func (id NodeID) String() string {
	return string(id)
}

// IsZero reports whether the id is unset.
func (id NodeID) IsZero() bool {
	return id == ""
}

// Structural limits enforced when decoding externally supplied documents.
// In-process trees built through the Mutator are not limited.
const (
	// MaxDecodeDepth bounds group nesting accepted from decoded documents.
	// Serialization itself has no fixed depth limit.
	MaxDecodeDepth = 256

	// MaxNodeIDLength prevents unbounded ids from entering the tree.
	MaxNodeIDLength = 128
)
