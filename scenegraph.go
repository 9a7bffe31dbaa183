// Package scenegraph provides a flat, handle-addressed hierarchy graph for
// spatial entities and a per-frame world-matrix propagation pass.
//
// The graph stores parent/child relationships in parallel arrays indexed by
// opaque integer handles. Storage only ever grows, so handles stay valid for
// the lifetime of a node regardless of how many other nodes are added or
// removed around it. Once per frame, Update rebuilds a transient tree view of
// the store and walks it top-down, composing every node's world matrix from
// its local transform and the nearest ancestor that owns a transform.
//
// # Quick Start
//
//	pool := scenegraph.NewTransformPool()
//	g := scenegraph.NewGraph(scenegraph.WithTransformSource(pool))
//
//	root := g.AddRootWithTransform(pool.Create())
//	arm := g.AddChild(root, pool.Create())
//	hand := g.AddChild(arm, pool.Create())
//
//	pool.SetPosition(g.Transform(arm), mgl64.Vec3{1, 0, 0})
//	pool.SetPosition(g.Transform(hand), mgl64.Vec3{0, 1, 0})
//
//	g.Update()
//	pos := g.WorldPosition(hand) // (1, 1, 0)
//
// # Structural Nodes
//
// A node may be created with InvalidTransform to act as a pure grouping node.
// Structural nodes never receive a world matrix, but their children are still
// visited during propagation and compose against the nearest transforming
// ancestor, as if the structural node were not there.
//
// # Concurrency
//
// A Graph is single-threaded by design. All lifecycle mutations and Update
// must run on one goroutine (typically the simulation loop), and Update must
// complete before consumers read world matrices for the frame. No operation
// blocks or spawns goroutines.
package scenegraph

// Version is the scenegraph version.
const Version = "1.0.0"
