package types

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// IDGenerator produces a fresh NodeID on every call.
// Implementations must never return the same id twice.
type IDGenerator func() NodeID

// NewNodeID generates a UUIDv7 node identifier.
// Time-ordered IDs keep creation order visible when debugging dumps.
// Panics on clock regression (uuid.Must); acceptable for ID generation.
func NewNodeID() NodeID {
	return NodeID(uuid.Must(uuid.NewV7()).String())
}

// SequentialIDs returns a generator yielding prefix-1, prefix-2, ...
// Monotonic counter guarantees uniqueness within one generator; used for
// reproducible output in tests and the CLI's deterministic mode.
func SequentialIDs(prefix string) IDGenerator {
	var n atomic.Uint64
	return func() NodeID {
		return NodeID(fmt.Sprintf("%s-%d", prefix, n.Add(1)))
	}
}

// ParseNodeID validates and converts a string to NodeID.
// Ids from decoded documents need not be UUIDs; only empty, oversized or
// whitespace-padded ids are rejected.
func ParseNodeID(s string) (NodeID, error) {
	if s == "" {
		return "", ErrEmptyNodeID
	}
	if len(s) > MaxNodeIDLength {
		return "", fmt.Errorf("%w: %d bytes", ErrNodeIDTooLong, len(s))
	}
	if strings.TrimSpace(s) != s {
		return "", fmt.Errorf("%w: %q", ErrMalformedNodeID, s)
	}
	return NodeID(s), nil
}

// NodeIDTime extracts the timestamp embedded in a UUIDv7 node ID.
// Returns zero time for ids that are not UUIDs; caller should check IsZero().
func NodeIDTime(id NodeID) time.Time {
	u, err := uuid.Parse(string(id))
	if err != nil || u.Version() != 7 {
		return time.Time{}
	}
	sec, nsec := u.Time().UnixTime()
	return time.Unix(sec, nsec)
}
