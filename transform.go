package scenegraph

import (
	"log/slog"

	"github.com/go-gl/mathgl/mgl64"
)

// TransformSource is the transform component consumed by the graph. The
// graph never does matrix math itself; it only decides when and in what
// order these operations are called.
//
// Implementations are addressed exclusively through TransformHandle values
// and must tolerate invalid handles by returning identity-like defaults.
type TransformSource interface {
	// Create allocates a new transform with identity position, rotation
	// and scale and returns its handle.
	Create() TransformHandle

	// Destroy releases the transform behind the handle. Destroying an
	// invalid handle is a no-op.
	Destroy(h TransformHandle)

	// LocalRotation returns the transform's local rotation.
	LocalRotation(h TransformHandle) mgl64.Quat

	// LocalScale returns the transform's local scale.
	LocalScale(h TransformHandle) mgl64.Vec3

	// RecalculateIfDirty refreshes the cached local matrix if any of the
	// local components changed since the last call. Idempotent.
	RecalculateIfDirty(h TransformHandle)

	// LocalMatrix returns the cached local matrix.
	LocalMatrix(h TransformHandle) mgl64.Mat4

	// WorldMatrix returns the world matrix last written by SetWorldMatrix.
	WorldMatrix(h TransformHandle) mgl64.Mat4

	// SetWorldMatrix stores the composed world matrix for the transform.
	SetWorldMatrix(h TransformHandle, m mgl64.Mat4)
}

// TransformPool is the default TransformSource: a handle-addressed pool of
// position/rotation/scale triples with a cached local matrix and a stored
// world matrix per slot. Slots are reused after Destroy and the backing
// arrays grow by doubling, so handles stay stable across growth.
//
// Concurrency:
// A TransformPool is not safe for concurrent use. Like the Graph it feeds,
// it belongs to a single simulation goroutine.
type TransformPool struct {
	handles  []TransformHandle
	position []mgl64.Vec3
	rotation []mgl64.Quat
	scale    []mgl64.Vec3
	dirty    []bool
	local    []mgl64.Mat4
	world    []mgl64.Mat4
}

// NewTransformPool creates an empty transform pool.
func NewTransformPool() *TransformPool {
	p := &TransformPool{}
	p.ensure(64)
	return p
}

// ensure grows every parallel array to at least n slots, initializing the
// appended region to free defaults. Existing slots are copied forward
// untouched.
func (p *TransformPool) ensure(n int) {
	if n <= len(p.handles) {
		return
	}
	p.handles = growSlots(p.handles, n, InvalidTransform)
	p.position = growSlots(p.position, n, mgl64.Vec3{})
	p.rotation = growSlots(p.rotation, n, mgl64.QuatIdent())
	p.scale = growSlots(p.scale, n, mgl64.Vec3{1, 1, 1})
	p.dirty = growSlots(p.dirty, n, false)
	p.local = growSlots(p.local, n, mgl64.Ident4())
	p.world = growSlots(p.world, n, mgl64.Ident4())
}

func (p *TransformPool) valid(h TransformHandle) bool {
	return h > InvalidTransform && int(h) < len(p.handles) && p.handles[h] == h
}

// Create allocates a transform in the first free slot, doubling the pool if
// none is free. The new transform has identity components and a dirty local
// matrix so the first RecalculateIfDirty picks it up.
func (p *TransformPool) Create() TransformHandle {
	slot := InvalidTransform
	for i := 0; i < len(p.handles); i++ {
		if p.handles[i] == InvalidTransform {
			slot = TransformHandle(i)
			break
		}
	}
	if slot == InvalidTransform {
		next := len(p.handles) * 2
		if next == 0 {
			next = 1
		}
		slot = TransformHandle(len(p.handles))
		p.ensure(next)
	}

	p.handles[slot] = slot
	p.position[slot] = mgl64.Vec3{}
	p.rotation[slot] = mgl64.QuatIdent()
	p.scale[slot] = mgl64.Vec3{1, 1, 1}
	p.dirty[slot] = true
	p.local[slot] = mgl64.Ident4()
	p.world[slot] = mgl64.Ident4()
	return slot
}

// Destroy frees the slot behind h. The handle may be reused by a later
// Create.
func (p *TransformPool) Destroy(h TransformHandle) {
	if !p.valid(h) {
		return
	}
	p.handles[h] = InvalidTransform
	p.dirty[h] = false
}

// SetPosition sets the local position and marks the local matrix dirty.
func (p *TransformPool) SetPosition(h TransformHandle, v mgl64.Vec3) {
	if !p.valid(h) {
		slog.Warn("scenegraph: set position on invalid transform", "transform", h)
		return
	}
	p.position[h] = v
	p.dirty[h] = true
}

// SetRotation sets the local rotation and marks the local matrix dirty.
func (p *TransformPool) SetRotation(h TransformHandle, q mgl64.Quat) {
	if !p.valid(h) {
		slog.Warn("scenegraph: set rotation on invalid transform", "transform", h)
		return
	}
	p.rotation[h] = q
	p.dirty[h] = true
}

// SetScale sets the local scale and marks the local matrix dirty.
func (p *TransformPool) SetScale(h TransformHandle, v mgl64.Vec3) {
	if !p.valid(h) {
		slog.Warn("scenegraph: set scale on invalid transform", "transform", h)
		return
	}
	p.scale[h] = v
	p.dirty[h] = true
}

// Position returns the local position, or a zero vector for an invalid
// handle.
func (p *TransformPool) Position(h TransformHandle) mgl64.Vec3 {
	if !p.valid(h) {
		return mgl64.Vec3{}
	}
	return p.position[h]
}

// LocalRotation returns the local rotation, or the identity quaternion for
// an invalid handle.
func (p *TransformPool) LocalRotation(h TransformHandle) mgl64.Quat {
	if !p.valid(h) {
		return mgl64.QuatIdent()
	}
	return p.rotation[h]
}

// LocalScale returns the local scale, or a one-vector for an invalid handle.
func (p *TransformPool) LocalScale(h TransformHandle) mgl64.Vec3 {
	if !p.valid(h) {
		return mgl64.Vec3{1, 1, 1}
	}
	return p.scale[h]
}

// RecalculateIfDirty rebuilds the cached local matrix as
// translate * rotate * scale when a local component changed. No-op when the
// cache is current or the handle is invalid.
func (p *TransformPool) RecalculateIfDirty(h TransformHandle) {
	if !p.valid(h) || !p.dirty[h] {
		return
	}
	t := mgl64.Translate3D(p.position[h][0], p.position[h][1], p.position[h][2])
	r := p.rotation[h].Mat4()
	s := mgl64.Scale3D(p.scale[h][0], p.scale[h][1], p.scale[h][2])
	p.local[h] = t.Mul4(r).Mul4(s)
	p.dirty[h] = false
}

// LocalMatrix returns the cached local matrix, or identity for an invalid
// handle. Call RecalculateIfDirty first if local components may have
// changed.
func (p *TransformPool) LocalMatrix(h TransformHandle) mgl64.Mat4 {
	if !p.valid(h) {
		return mgl64.Ident4()
	}
	return p.local[h]
}

// WorldMatrix returns the world matrix last written for the transform, or
// identity for an invalid handle.
func (p *TransformPool) WorldMatrix(h TransformHandle) mgl64.Mat4 {
	if !p.valid(h) {
		return mgl64.Ident4()
	}
	return p.world[h]
}

// SetWorldMatrix stores the composed world matrix for the transform.
func (p *TransformPool) SetWorldMatrix(h TransformHandle, m mgl64.Mat4) {
	if !p.valid(h) {
		slog.Warn("scenegraph: set world matrix on invalid transform", "transform", h)
		return
	}
	p.world[h] = m
}

// Len returns the number of live transforms in the pool.
func (p *TransformPool) Len() int {
	n := 0
	for i := 0; i < len(p.handles); i++ {
		if p.handles[i] != InvalidTransform {
			n++
		}
	}
	return n
}

// growSlots reallocates a parallel array to n slots, copying existing
// contents forward and filling the appended region with fill.
func growSlots[T any](s []T, n int, fill T) []T {
	grown := make([]T, n)
	copy(grown, s)
	for i := len(s); i < n; i++ {
		grown[i] = fill
	}
	return grown
}
