package scenegraph

// viewNode is one record of the derived tree view. parent and children are
// indices into viewTree.nodes, not node store slots.
type viewNode struct {
	node      NodeHandle
	transform TransformHandle
	parent    int32
	children  []int32
}

// viewTree is the transient flat-to-tree reprojection of the node store,
// rebuilt at the start of every Update and valid only until the next
// lifecycle mutation. Records live in a single arena slice so a rebuild
// does one allocation path instead of one per node.
type viewTree struct {
	nodes []viewNode
	roots []int32
}

// build scans the node store and reconstructs the tree: every occupied root
// slot in ascending order becomes a root record, and each record's children
// are found by re-scanning the entire store for slots whose parent equals
// the record's handle. Quadratic in the worst case; the associations and
// the ascending-scan child order are the contract, not the scan itself.
func (v *viewTree) build(g *Graph) {
	for i := 1; i < len(g.handles); i++ {
		if g.handles[i] != InvalidNode && g.parents[i] == InvalidNode {
			root := v.push(NodeHandle(i), g.transforms[i], -1)
			v.roots = append(v.roots, root)
			v.attachChildren(g, root)
		}
	}
}

// attachChildren recursively populates the child list of the record at
// parentIdx by scanning the store for its direct children in ascending
// order.
func (v *viewTree) attachChildren(g *Graph, parentIdx int32) {
	parent := v.nodes[parentIdx].node
	for i := 1; i < len(g.handles); i++ {
		if g.handles[i] != InvalidNode && g.parents[i] == parent {
			child := v.push(NodeHandle(i), g.transforms[i], parentIdx)
			v.nodes[parentIdx].children = append(v.nodes[parentIdx].children, child)
			v.attachChildren(g, child)
		}
	}
}

// push appends a record to the arena and returns its index.
func (v *viewTree) push(node NodeHandle, transform TransformHandle, parent int32) int32 {
	idx := int32(len(v.nodes))
	v.nodes = append(v.nodes, viewNode{
		node:      node,
		transform: transform,
		parent:    parent,
	})
	return idx
}

// teardown releases every record's child list and then the root list.
// Idempotent: tearing down an already-empty view is a no-op. The arena
// slice keeps its capacity for the next rebuild.
func (v *viewTree) teardown() {
	for i := range v.nodes {
		v.nodes[i].children = nil
	}
	v.nodes = v.nodes[:0]
	v.roots = v.roots[:0]
}
