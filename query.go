package scenegraph

import (
	"log/slog"

	"github.com/go-gl/mathgl/mgl64"
)

// WorldPosition returns the node's world-space position, read from the
// translation column of the world matrix composed by the last Update. An
// invalid handle or a structural node yields a zero vector and a logged
// error.
func (g *Graph) WorldPosition(node NodeHandle) mgl64.Vec3 {
	if g == nil {
		slog.Error("scenegraph: world position on nil graph")
		return mgl64.Vec3{}
	}
	if !g.occupied(node) {
		slog.Error("scenegraph: world position of invalid node", "node", node, "graph", g.id)
		return mgl64.Vec3{}
	}
	th := g.transforms[node]
	if th == InvalidTransform {
		slog.Warn("scenegraph: world position of structural node", "node", node, "graph", g.id)
		return mgl64.Vec3{}
	}
	return g.source.WorldMatrix(th).Col(3).Vec3()
}

// WorldRotation composes the node's world-space rotation by quaternion
// multiplication along the ancestor chain, root-most rotation outermost.
// The chain is walked over the node store's parent links, independent of
// the view tree and of Update. Structural ancestors contribute nothing. An
// invalid handle yields the identity quaternion and a logged error.
func (g *Graph) WorldRotation(node NodeHandle) mgl64.Quat {
	if g == nil {
		slog.Error("scenegraph: world rotation on nil graph")
		return mgl64.QuatIdent()
	}
	if !g.occupied(node) {
		slog.Error("scenegraph: world rotation of invalid node", "node", node, "graph", g.id)
		return mgl64.QuatIdent()
	}

	// Push from the node up to the root, so the root pops first and ends
	// up leftmost in the product.
	stack := make([]mgl64.Quat, 0, g.levels[node]+1)
	for n := node; n != InvalidNode; n = g.parents[n] {
		if th := g.transforms[n]; th != InvalidTransform {
			stack = append(stack, g.source.LocalRotation(th))
		}
	}

	acc := mgl64.QuatIdent()
	for len(stack) > 0 {
		top := len(stack) - 1
		acc = acc.Mul(stack[top])
		stack = stack[:top]
	}
	return acc
}

// WorldScale composes the node's world-space scale by component-wise
// multiplication along the ancestor chain, using the same stack walk as
// WorldRotation. An invalid handle yields a one-vector and a logged error.
func (g *Graph) WorldScale(node NodeHandle) mgl64.Vec3 {
	if g == nil {
		slog.Error("scenegraph: world scale on nil graph")
		return mgl64.Vec3{1, 1, 1}
	}
	if !g.occupied(node) {
		slog.Error("scenegraph: world scale of invalid node", "node", node, "graph", g.id)
		return mgl64.Vec3{1, 1, 1}
	}

	stack := make([]mgl64.Vec3, 0, g.levels[node]+1)
	for n := node; n != InvalidNode; n = g.parents[n] {
		if th := g.transforms[n]; th != InvalidTransform {
			stack = append(stack, g.source.LocalScale(th))
		}
	}

	acc := mgl64.Vec3{1, 1, 1}
	for len(stack) > 0 {
		top := len(stack) - 1
		s := stack[top]
		stack = stack[:top]
		acc = mgl64.Vec3{acc[0] * s[0], acc[1] * s[1], acc[2] * s[2]}
	}
	return acc
}
