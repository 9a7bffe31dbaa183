package scenegraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestViewTree_BuildOrder verifies that roots and child lists follow
// ascending store order.
func TestViewTree_BuildOrder(t *testing.T) {
	g := NewGraph()

	r1 := g.AddRoot()
	a := g.AddChild(r1, InvalidTransform)
	r2 := g.AddRoot()
	b := g.AddChild(r1, InvalidTransform)
	c := g.AddChild(a, InvalidTransform)

	g.Update()

	require.Len(t, g.view.roots, 2)
	assert.Equal(t, r1, g.view.nodes[g.view.roots[0]].node)
	assert.Equal(t, r2, g.view.nodes[g.view.roots[1]].node)

	// r1's children in ascending store order: a then b.
	rootRec := g.view.nodes[g.view.roots[0]]
	require.Len(t, rootRec.children, 2)
	assert.Equal(t, a, g.view.nodes[rootRec.children[0]].node)
	assert.Equal(t, b, g.view.nodes[rootRec.children[1]].node)

	// a's single child is c, and its parent index points back at a.
	aRec := g.view.nodes[rootRec.children[0]]
	require.Len(t, aRec.children, 1)
	cRec := g.view.nodes[aRec.children[0]]
	assert.Equal(t, c, cRec.node)
	assert.Equal(t, rootRec.children[0], cRec.parent)
	assert.EqualValues(t, -1, rootRec.parent)
}

// TestViewTree_RebuiltEveryUpdate verifies that the view reflects the store
// snapshot at build time.
func TestViewTree_RebuiltEveryUpdate(t *testing.T) {
	g := NewGraph()

	r := g.AddRoot()
	child := g.AddChild(r, InvalidTransform)

	g.Update()
	require.Len(t, g.view.nodes, 2)

	g.Remove(child, false)
	g.Update()
	assert.Len(t, g.view.nodes, 1)
	assert.Len(t, g.view.roots, 1)
}

// TestViewTree_TeardownIdempotent verifies that tearing down an empty or
// already-torn-down view is a no-op.
func TestViewTree_TeardownIdempotent(t *testing.T) {
	g := NewGraph()
	r := g.AddRoot()
	g.AddChild(r, InvalidTransform)

	g.view.teardown()
	g.view.teardown()

	g.Update()
	require.NotEmpty(t, g.view.nodes)

	g.view.teardown()
	g.view.teardown()
	assert.Empty(t, g.view.nodes)
	assert.Empty(t, g.view.roots)
}
