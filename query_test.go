package scenegraph

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestWorldRotation_ChainOrder verifies root-outermost quaternion
// composition using two non-commuting rotations.
func TestWorldRotation_ChainOrder(t *testing.T) {
	pool := NewTransformPool()
	g := NewGraph(WithTransformSource(pool))

	r0 := mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{1, 0, 0})
	r1 := mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 1, 0})

	rootT := pool.Create()
	pool.SetRotation(rootT, r0)
	root := g.AddRootWithTransform(rootT)

	childT := pool.Create()
	pool.SetRotation(childT, r1)
	child := g.AddChild(root, childT)

	got := g.WorldRotation(child)
	want := r0.Mul(r1)
	wrong := r1.Mul(r0)

	require.False(t, want.ApproxEqualThreshold(wrong, eps),
		"test rotations must not commute")
	assert.True(t, got.ApproxEqualThreshold(want, eps), "got %v want %v", got, want)
	assert.False(t, got.ApproxEqualThreshold(wrong, eps))
}

// TestWorldRotation_SkipsStructural verifies that ancestors without a
// transform contribute nothing to the chain.
func TestWorldRotation_SkipsStructural(t *testing.T) {
	pool := NewTransformPool()
	g := NewGraph(WithTransformSource(pool))

	r0 := mgl64.QuatRotate(0.7, mgl64.Vec3{0, 0, 1})
	rootT := pool.Create()
	pool.SetRotation(rootT, r0)
	root := g.AddRootWithTransform(rootT)

	group := g.AddChild(root, InvalidTransform)

	r1 := mgl64.QuatRotate(-0.3, mgl64.Vec3{1, 0, 0})
	leafT := pool.Create()
	pool.SetRotation(leafT, r1)
	leaf := g.AddChild(group, leafT)

	assert.True(t, g.WorldRotation(leaf).ApproxEqualThreshold(r0.Mul(r1), eps))
	assert.True(t, g.WorldRotation(group).ApproxEqualThreshold(r0, eps),
		"structural node inherits the ancestor rotation")
}

// TestWorldScale_Chain verifies component-wise scale accumulation.
func TestWorldScale_Chain(t *testing.T) {
	pool := NewTransformPool()
	g := NewGraph(WithTransformSource(pool))

	rootT := pool.Create()
	pool.SetScale(rootT, mgl64.Vec3{2, 3, 1})
	root := g.AddRootWithTransform(rootT)

	childT := pool.Create()
	pool.SetScale(childT, mgl64.Vec3{0.5, 2, 4})
	child := g.AddChild(root, childT)

	got := g.WorldScale(child)
	assert.True(t, got.ApproxEqualThreshold(mgl64.Vec3{1, 6, 4}, eps), "got %v", got)
}

// TestWorldQueries_NoUpdateNeeded verifies that rotation and scale chains
// bypass the view tree entirely.
func TestWorldQueries_NoUpdateNeeded(t *testing.T) {
	pool := NewTransformPool()
	g := NewGraph(WithTransformSource(pool))

	r0 := mgl64.QuatRotate(1.2, mgl64.Vec3{0, 1, 0})
	rootT := pool.Create()
	pool.SetRotation(rootT, r0)
	pool.SetScale(rootT, mgl64.Vec3{2, 2, 2})
	root := g.AddRootWithTransform(rootT)
	child := g.AddChild(root, pool.Create())

	// No Update has run; the chain queries must still be correct.
	assert.True(t, g.WorldRotation(child).ApproxEqualThreshold(r0, eps))
	assert.True(t, g.WorldScale(child).ApproxEqualThreshold(mgl64.Vec3{2, 2, 2}, eps))
}

// TestWorldQueries_InvalidDefaults verifies identity-like defaults on
// invalid handles.
func TestWorldQueries_InvalidDefaults(t *testing.T) {
	g := NewGraph()

	assert.Equal(t, mgl64.Vec3{}, g.WorldPosition(NodeHandle(7)))
	assert.Equal(t, mgl64.QuatIdent(), g.WorldRotation(NodeHandle(7)))
	assert.Equal(t, mgl64.Vec3{1, 1, 1}, g.WorldScale(NodeHandle(7)))
	assert.Equal(t, mgl64.Vec3{}, g.WorldPosition(InvalidNode))

	var nilGraph *Graph
	assert.Equal(t, mgl64.QuatIdent(), nilGraph.WorldRotation(NodeHandle(1)))
	assert.Equal(t, mgl64.Vec3{1, 1, 1}, nilGraph.WorldScale(NodeHandle(1)))
	assert.Equal(t, mgl64.Vec3{}, nilGraph.WorldPosition(NodeHandle(1)))
}

// TestWorldPosition_Structural verifies the zero-vector default for nodes
// without a transform.
func TestWorldPosition_Structural(t *testing.T) {
	g := NewGraph()
	group := g.AddRoot()
	g.Update()
	assert.Equal(t, mgl64.Vec3{}, g.WorldPosition(group))
}
