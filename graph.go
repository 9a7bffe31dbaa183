package scenegraph

import (
	"log/slog"

	"github.com/google/uuid"
)

// defaultCapacity is the number of node slots allocated by NewGraph when no
// WithInitialCapacity option is given.
const defaultCapacity = 128

// Graph is the hierarchy graph: a flat, relational store of parent/child
// relationships plus the per-frame propagation pass that turns it into
// world matrices.
//
// Nodes live in parallel arrays addressed by NodeHandle. Slot 0 is reserved
// and never allocated; free-slot scans start at index 1. The arrays grow by
// doubling and are never compacted, so a handle stays valid until its node
// is removed.
//
// Concurrency:
// A Graph is not safe for concurrent use. All mutations and Update must run
// on the same goroutine, and Update must be called after the frame's
// mutations and before consumers read world matrices.
type Graph struct {
	// id identifies this instance in log output.
	id uuid.UUID

	source      TransformSource
	defaultMeta uint64

	// initialCap is only consulted during construction.
	initialCap int

	// Parallel arrays, index-aligned. handles[i] == i iff slot i is
	// occupied; every other slot holds InvalidNode.
	handles    []NodeHandle
	parents    []NodeHandle
	levels     []uint32
	dirty      []bool
	transforms []TransformHandle
	meta       []uint64

	view viewTree
}

// GraphOption configures a Graph at construction time.
type GraphOption func(*Graph)

// WithInitialCapacity sets the number of node slots allocated up front.
// Values below 2 are clamped to 2 because slot 0 is reserved.
func WithInitialCapacity(n int) GraphOption {
	return func(g *Graph) {
		if n < 2 {
			n = 2
		}
		g.initialCap = n
	}
}

// WithDefaultMeta sets the metadata value that empty slots hold and that
// Meta returns for invalid or out-of-range handles.
func WithDefaultMeta(v uint64) GraphOption {
	return func(g *Graph) {
		g.defaultMeta = v
	}
}

// WithTransformSource replaces the default TransformPool with a
// caller-supplied transform component. A nil source is ignored.
func WithTransformSource(src TransformSource) GraphOption {
	return func(g *Graph) {
		if src != nil {
			g.source = src
		}
	}
}

// NewGraph creates a hierarchy graph. Without options it allocates 128 node
// slots, uses 0 as the default metadata value and owns a fresh
// TransformPool.
func NewGraph(opts ...GraphOption) *Graph {
	g := &Graph{
		id:         uuid.New(),
		source:     NewTransformPool(),
		initialCap: defaultCapacity,
	}
	for _, opt := range opts {
		opt(g)
	}
	g.ensureCapacity(g.initialCap)
	return g
}

// ID returns the instance identity used in log output.
func (g *Graph) ID() uuid.UUID {
	if g == nil {
		return uuid.Nil
	}
	return g.id
}

// Source returns the transform component the graph composes against.
func (g *Graph) Source() TransformSource {
	if g == nil {
		return nil
	}
	return g.source
}

// Close tears down the view tree and drops the node store. The graph must
// not be used afterwards. Transforms are not destroyed; they belong to the
// TransformSource and follow the per-node Remove policy.
func (g *Graph) Close() {
	if g == nil {
		return
	}
	g.view.teardown()
	g.handles = nil
	g.parents = nil
	g.levels = nil
	g.dirty = nil
	g.transforms = nil
	g.meta = nil
}

// ensureCapacity grows every parallel array to at least n slots. The
// appended region is initialized to empty defaults; existing slots and
// their indices are untouched, so growth is invisible to handle holders.
func (g *Graph) ensureCapacity(n int) {
	if n <= len(g.handles) {
		return
	}
	g.handles = growSlots(g.handles, n, InvalidNode)
	g.parents = growSlots(g.parents, n, InvalidNode)
	g.levels = growSlots(g.levels, n, 0)
	g.dirty = growSlots(g.dirty, n, false)
	g.transforms = growSlots(g.transforms, n, InvalidTransform)
	g.meta = growSlots(g.meta, n, g.defaultMeta)
}

// occupied reports whether h names a live node.
func (g *Graph) occupied(h NodeHandle) bool {
	return h > InvalidNode && int(h) < len(g.handles) && g.handles[h] == h
}

// AddRoot creates a structural root node with no transform.
func (g *Graph) AddRoot() NodeHandle {
	return g.AddChild(InvalidNode, InvalidTransform)
}

// AddRootWithTransform creates a root node carrying the given transform.
func (g *Graph) AddRootWithTransform(transform TransformHandle) NodeHandle {
	return g.AddChild(InvalidNode, transform)
}

// AddChild creates a node under parent, or a root when parent is
// InvalidNode. The node's level is parent level + 1 (0 for roots). The
// first free slot at index >= 1 is claimed; when none is free the store
// doubles and the first appended slot is used. Returns InvalidNode and logs
// a warning when parent names no live node.
func (g *Graph) AddChild(parent NodeHandle, transform TransformHandle) NodeHandle {
	if g == nil {
		slog.Error("scenegraph: add child on nil graph")
		return InvalidNode
	}
	if parent != InvalidNode && !g.occupied(parent) {
		slog.Warn("scenegraph: add child under invalid parent",
			"parent", parent, "graph", g.id)
		return InvalidNode
	}

	slot := InvalidNode
	for i := 1; i < len(g.handles); i++ {
		if g.handles[i] == InvalidNode {
			slot = NodeHandle(i)
			break
		}
	}
	if slot == InvalidNode {
		next := len(g.handles) * 2
		if next == 0 {
			next = 2
		}
		slot = NodeHandle(len(g.handles))
		g.ensureCapacity(next)
	}

	g.handles[slot] = slot
	g.parents[slot] = parent
	if parent == InvalidNode {
		g.levels[slot] = 0
	} else {
		g.levels[slot] = g.levels[parent] + 1
	}
	g.dirty[slot] = false
	g.transforms[slot] = transform
	g.meta[slot] = g.defaultMeta
	return slot
}

// Remove releases a node. Its children are promoted to the node's former
// parent (becoming roots if the node was a root) and every descendant's
// level is corrected transitively. When releaseTransform is true the node's
// transform is destroyed through the TransformSource; either way the slot's
// transform handle is cleared and its metadata reverts to the default.
// Returns false and logs a warning when node names no live node.
func (g *Graph) Remove(node NodeHandle, releaseTransform bool) bool {
	if g == nil {
		slog.Error("scenegraph: remove on nil graph")
		return false
	}
	if !g.occupied(node) {
		slog.Warn("scenegraph: remove invalid node", "node", node, "graph", g.id)
		return false
	}

	// Promote children one generation up before the slot goes away.
	promoted := g.parents[node]
	for i := 1; i < len(g.handles); i++ {
		if g.handles[i] != InvalidNode && g.parents[i] == node {
			g.parents[i] = promoted
			g.relevel(NodeHandle(i))
		}
	}

	if releaseTransform && g.transforms[node] != InvalidTransform {
		g.source.Destroy(g.transforms[node])
	}

	g.handles[node] = InvalidNode
	g.parents[node] = InvalidNode
	g.levels[node] = 0
	g.dirty[node] = false
	g.transforms[node] = InvalidTransform
	g.meta[node] = g.defaultMeta
	return true
}

// relevel restores the level invariant for node and its entire subtree
// after an ancestry change.
func (g *Graph) relevel(node NodeHandle) {
	if p := g.parents[node]; p == InvalidNode {
		g.levels[node] = 0
	} else {
		g.levels[node] = g.levels[p] + 1
	}
	for i := 1; i < len(g.handles); i++ {
		if g.handles[i] != InvalidNode && g.parents[i] == node {
			g.relevel(NodeHandle(i))
		}
	}
}

// Reparent moves node under newParent (or to root level when newParent is
// InvalidNode) and corrects the levels of the whole subtree. The operation
// is rejected with a logged warning when it would create a cycle, i.e. when
// newParent is the node itself or one of its descendants.
func (g *Graph) Reparent(node, newParent NodeHandle) bool {
	if g == nil {
		slog.Error("scenegraph: reparent on nil graph")
		return false
	}
	if !g.occupied(node) {
		slog.Warn("scenegraph: reparent invalid node", "node", node, "graph", g.id)
		return false
	}
	if newParent != InvalidNode {
		if !g.occupied(newParent) {
			slog.Warn("scenegraph: reparent under invalid parent",
				"node", node, "parent", newParent, "graph", g.id)
			return false
		}
		if newParent == node || g.inSubtree(newParent, node) {
			slog.Warn("scenegraph: reparent would create a cycle",
				"node", node, "parent", newParent, "graph", g.id)
			return false
		}
	}
	g.parents[node] = newParent
	g.relevel(node)
	return true
}

// inSubtree reports whether candidate lies in the subtree rooted at node,
// by walking candidate's ancestor chain.
func (g *Graph) inSubtree(candidate, node NodeHandle) bool {
	for p := g.parents[candidate]; p != InvalidNode; p = g.parents[p] {
		if p == node {
			return true
		}
	}
	return false
}

// Contains reports whether node names a live node.
func (g *Graph) Contains(node NodeHandle) bool {
	return g != nil && g.occupied(node)
}

// Parent returns the node's parent handle, or InvalidNode for roots and
// invalid handles.
func (g *Graph) Parent(node NodeHandle) NodeHandle {
	if g == nil || !g.occupied(node) {
		return InvalidNode
	}
	return g.parents[node]
}

// Level returns the node's depth below its nearest root (roots are 0), or 0
// for an invalid handle.
func (g *Graph) Level(node NodeHandle) uint32 {
	if g == nil || !g.occupied(node) {
		return 0
	}
	return g.levels[node]
}

// Transform returns the node's transform handle, or InvalidTransform for
// structural nodes and invalid handles.
func (g *Graph) Transform(node NodeHandle) TransformHandle {
	if g == nil || !g.occupied(node) {
		return InvalidTransform
	}
	return g.transforms[node]
}

// Meta returns the node's metadata word. Invalid or out-of-range handles
// yield the graph's configured default rather than failing.
func (g *Graph) Meta(node NodeHandle) uint64 {
	if g == nil {
		slog.Error("scenegraph: meta on nil graph")
		return 0
	}
	if !g.occupied(node) {
		return g.defaultMeta
	}
	return g.meta[node]
}

// SetMeta stores a caller-defined metadata word on the node. Returns false
// and logs a warning for invalid handles.
func (g *Graph) SetMeta(node NodeHandle, v uint64) bool {
	if g == nil {
		slog.Error("scenegraph: set meta on nil graph")
		return false
	}
	if !g.occupied(node) {
		slog.Warn("scenegraph: set meta on invalid node", "node", node, "graph", g.id)
		return false
	}
	g.meta[node] = v
	return true
}

// ChildCount returns the number of direct children of parent. A linear scan
// over the store; intended for small fan-out.
func (g *Graph) ChildCount(parent NodeHandle) int {
	if g == nil || !g.occupied(parent) {
		return 0
	}
	n := 0
	for i := 1; i < len(g.handles); i++ {
		if g.handles[i] != InvalidNode && g.parents[i] == parent {
			n++
		}
	}
	return n
}

// ChildAt returns the handle of the i-th direct child of parent in
// ascending store order, or InvalidNode when i is out of range.
func (g *Graph) ChildAt(parent NodeHandle, index int) NodeHandle {
	if g == nil || !g.occupied(parent) || index < 0 {
		return InvalidNode
	}
	seen := 0
	for i := 1; i < len(g.handles); i++ {
		if g.handles[i] != InvalidNode && g.parents[i] == parent {
			if seen == index {
				return NodeHandle(i)
			}
			seen++
		}
	}
	return InvalidNode
}

// Len returns the number of live nodes.
func (g *Graph) Len() int {
	if g == nil {
		return 0
	}
	n := 0
	for i := 1; i < len(g.handles); i++ {
		if g.handles[i] != InvalidNode {
			n++
		}
	}
	return n
}

// Cap returns the current slot capacity of the store, including slot 0.
func (g *Graph) Cap() int {
	if g == nil {
		return 0
	}
	return len(g.handles)
}

// Traverse visits every live node depth-first in view order: roots in
// ascending store order, children in ascending store order under each
// parent. Returning false from fn stops the traversal.
func (g *Graph) Traverse(fn func(NodeHandle) bool) {
	if g == nil || fn == nil {
		return
	}
	for i := 1; i < len(g.handles); i++ {
		if g.handles[i] != InvalidNode && g.parents[i] == InvalidNode {
			if !g.traverseFrom(NodeHandle(i), fn) {
				return
			}
		}
	}
}

func (g *Graph) traverseFrom(node NodeHandle, fn func(NodeHandle) bool) bool {
	if !fn(node) {
		return false
	}
	for i := 1; i < len(g.handles); i++ {
		if g.handles[i] != InvalidNode && g.parents[i] == node {
			if !g.traverseFrom(NodeHandle(i), fn) {
				return false
			}
		}
	}
	return true
}
