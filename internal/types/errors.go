package types

import "errors"

// Sentinel errors for querytree operations.
var (
	// ErrNodeNotFound indicates a mutation addressed an id absent from the tree.
	// Callers treat it as a stale reference: the tree is returned unchanged.
	ErrNodeNotFound = errors.New("node not found")

	// ErrNotAGroup indicates a group operation addressed a rule.
	ErrNotAGroup = errors.New("node is not a group")

	// ErrNotARule indicates a rule operation addressed a group.
	ErrNotARule = errors.New("node is not a rule")

	// ErrInvalidConnector indicates a connector other than AND or OR.
	ErrInvalidConnector = errors.New("invalid connector")

	// ErrUnknownNodeType indicates a structured node with an unknown type tag.
	ErrUnknownNodeType = errors.New("unknown node type")

	// ErrRootNotGroup indicates a forest root that is not a group.
	ErrRootNotGroup = errors.New("forest root must be a group")

	// ErrDuplicateNodeID indicates the same id appears twice in one forest.
	ErrDuplicateNodeID = errors.New("duplicate node id")

	// ErrEmptyNodeID indicates a node without an id.
	ErrEmptyNodeID = errors.New("node id is empty")

	// ErrNodeIDTooLong indicates an id exceeds MaxNodeIDLength.
	ErrNodeIDTooLong = errors.New("node id too long")

	// ErrMalformedNodeID indicates an id with leading or trailing whitespace.
	ErrMalformedNodeID = errors.New("malformed node id")

	// ErrTreeTooDeep indicates a decoded document exceeds MaxDecodeDepth.
	ErrTreeTooDeep = errors.New("tree exceeds maximum depth")

	// ErrInvalidValue indicates a rule value that is not a string or number.
	ErrInvalidValue = errors.New("invalid rule value")

	// ErrCoercionFailed indicates a value could not be coerced to the field type.
	ErrCoercionFailed = errors.New("type coercion failed")

	// ErrUnknownField indicates a field key missing from the catalog.
	ErrUnknownField = errors.New("unknown field")

	// ErrUnknownOperator indicates an operator not offered for the field type.
	ErrUnknownOperator = errors.New("unknown operator for field type")

	// ErrInvalidCatalog indicates a catalog that cannot supply rule defaults.
	ErrInvalidCatalog = errors.New("invalid catalog")
)
