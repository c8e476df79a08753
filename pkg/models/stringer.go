package models

// String methods for all custom string types.
// These are required for toon serialization, which uses fmt.Stringer.

// BaseKind
func (k BaseKind) String() string { return string(k) }

// NodeType
func (n NodeType) String() string { return string(n) }

// EdgeType
func (e EdgeType) String() string { return string(e) }
