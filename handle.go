package scenegraph

// NodeHandle identifies a node's slot in the graph's backing arrays.
// A handle returned by AddRoot or AddChild stays valid until the node is
// removed; storage growth never invalidates it.
type NodeHandle int32

// TransformHandle identifies a transform owned by a TransformSource.
type TransformHandle int32

const (
	// InvalidNode marks a free slot, a missing parent, or a failed lookup.
	// Passing it as the parent to AddChild creates a root node.
	InvalidNode NodeHandle = -1

	// InvalidTransform marks a node that carries no transform of its own
	// (a structural grouping node) or a failed transform lookup.
	InvalidTransform TransformHandle = -1
)
