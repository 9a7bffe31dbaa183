package scenegraph

import (
	"log/slog"

	"github.com/go-gl/mathgl/mgl64"
)

// Update rebuilds the derived tree view from the current node store and
// refreshes every node's world matrix top-down.
//
// For each visited node the local matrix is recalculated if dirty, composed
// with the world matrix of the nearest ancestor that owns a transform, and
// written back through the TransformSource. Structural nodes (transform ==
// InvalidTransform) receive no world matrix but their children are still
// visited and compose as if the structural node were absent. A node with no
// transforming ancestor uses its local matrix as its world matrix.
//
// Call Update once per frame, after all lifecycle mutations and before any
// consumer reads world matrices. Two consecutive Updates with no mutation
// in between produce identical world matrices.
func (g *Graph) Update() {
	if g == nil {
		slog.Error("scenegraph: update on nil graph")
		return
	}
	g.view.teardown()
	g.view.build(g)
	for _, root := range g.view.roots {
		g.propagate(root, mgl64.Ident4(), false)
	}
}

// propagate refreshes the world matrix of the record at idx and recurses
// into its children. ancestor is the world matrix of the nearest ancestor
// owning a transform; hasAncestor distinguishes "no transforming ancestor"
// from an identity ancestor.
func (g *Graph) propagate(idx int32, ancestor mgl64.Mat4, hasAncestor bool) {
	vn := &g.view.nodes[idx]
	world := ancestor
	has := hasAncestor

	if vn.transform != InvalidTransform {
		g.source.RecalculateIfDirty(vn.transform)
		local := g.source.LocalMatrix(vn.transform)
		if hasAncestor {
			world = ancestor.Mul4(local)
		} else {
			world = local
		}
		g.source.SetWorldMatrix(vn.transform, world)
		has = true
	}

	for _, child := range vn.children {
		g.propagate(child, world, has)
	}
}
