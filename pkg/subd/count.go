package subd

import (
	"errors"
	"fmt"
	gomath "math"

	"github.com/Faultbox/ccsubd/pkg/cage"
)

// MaxDepthLimit is the deepest level whose per-level halfedge count can
// still fit an int32 for a cage with a single halfedge.
const MaxDepthLimit = 15

// Count errors.
var (
	ErrDepthOutOfRange = errors.New("subdivision depth out of range")
	ErrCountOverflow   = errors.New("element count overflows int32")
)

// pow2m1 returns 2^n - 1.
func pow2m1(n int32) int32 {
	return int32(1)<<n - 1
}

// FaceCountAtDepth returns the number of faces at a subdivision depth.
//
// Faces follow F^{d+1} = H^d, hence F^d = 4^{d-1} H0 for d > 0.
func FaceCountAtDepth(c *cage.Mesh, depth int32) int32 {
	if depth == 0 {
		return c.FaceCount()
	}
	return FaceCountAtDepthFast(c, depth)
}

// FaceCountAtDepthFast is FaceCountAtDepth for depth > 0.
func FaceCountAtDepthFast(c *cage.Mesh, depth int32) int32 {
	return c.HalfedgeCount() << ((depth - 1) << 1)
}

// EdgeCountAtDepth returns the number of edges at a subdivision depth.
//
// Edges follow E^{d+1} = 2 E^d + H^d, hence
// E^d = 2^{d-1} (2 E0 + (2^d - 1) H0) for d > 0.
func EdgeCountAtDepth(c *cage.Mesh, depth int32) int32 {
	if depth == 0 {
		return c.EdgeCount()
	}
	return EdgeCountAtDepthFast(c, depth)
}

// EdgeCountAtDepthFast is EdgeCountAtDepth for depth > 0.
func EdgeCountAtDepthFast(c *cage.Mesh, depth int32) int32 {
	E0 := c.EdgeCount()
	H0 := c.HalfedgeCount()

	return ((E0 << 1) + pow2m1(depth)*H0) << (depth - 1)
}

// HalfedgeCountAtDepth returns H0 4^d.
func HalfedgeCountAtDepth(c *cage.Mesh, depth int32) int32 {
	return c.HalfedgeCount() << (depth << 1)
}

// CreaseCountAtDepth returns C0 2^d. Only edges below this bound carry a
// crease record.
func CreaseCountAtDepth(c *cage.Mesh, depth int32) int32 {
	return c.CreaseCount() << depth
}

// VertexCountAtDepth returns the number of vertices at a subdivision depth.
//
// Vertices follow V^{d+1} = V^d + E^d + F^d. The cage may hold non-quad
// faces, so the first step is taken by hand and the quad closed form
// V^d = V1 + t (E1 + t F1), t = 2^{d-1} - 1, covers the rest.
func VertexCountAtDepth(c *cage.Mesh, depth int32) int32 {
	if depth == 0 {
		return c.VertexCount()
	}
	return VertexCountAtDepthFast(c, depth)
}

// VertexCountAtDepthFast is VertexCountAtDepth for depth > 0.
func VertexCountAtDepthFast(c *cage.Mesh, depth int32) int32 {
	V0 := c.VertexCount()
	F0 := c.FaceCount()
	E0 := c.EdgeCount()
	H0 := c.HalfedgeCount()
	F1 := H0
	E1 := 2*E0 + H0
	V1 := V0 + E0 + F0
	t := pow2m1(depth - 1)

	return V1 + t*(E1+t*F1)
}

// CumulativeHalfedgeCountAtDepth returns the number of halfedges stored for
// levels 1..depth: H1 (4^d - 1) / 3 with H1 = 4 H0.
func CumulativeHalfedgeCountAtDepth(c *cage.Mesh, depth int32) int32 {
	H1 := c.HalfedgeCount() << 2
	series := pow2m1(depth<<1) / 3 // (4^d - 1) / 3

	return H1 * series
}

// CumulativeFaceCountAtDepth returns the number of faces for levels
// 1..depth. Every face below the cage is a quad.
func CumulativeFaceCountAtDepth(c *cage.Mesh, depth int32) int32 {
	return CumulativeHalfedgeCountAtDepth(c, depth) >> 2
}

// CumulativeCreaseCountAtDepth returns the number of crease records for
// levels 1..depth: C1 (2^d - 1) with C1 = 2 C0.
func CumulativeCreaseCountAtDepth(c *cage.Mesh, depth int32) int32 {
	C1 := c.CreaseCount() << 1

	return C1 * pow2m1(depth)
}

// CumulativeEdgeCountAtDepth returns the number of edges for levels
// 1..depth: A E1 + A (A - 1) H1 / 6 with A = 2^d - 1.
func CumulativeEdgeCountAtDepth(c *cage.Mesh, depth int32) int32 {
	H0 := c.HalfedgeCount()
	E0 := c.EdgeCount()
	H1 := H0 << 2
	E1 := (E0 << 1) + H0
	A := pow2m1(depth)

	return A*E1 + (A*(A-1)/6)*H1
}

// CumulativeVertexCountAtDepth returns the number of vertices for levels
// 1..depth: A (E1 - 2 F1) + B F1 + d (F1 - E1 + V1) with A = 2^d - 1 and
// B = (4^d - 1) / 3.
func CumulativeVertexCountAtDepth(c *cage.Mesh, depth int32) int32 {
	V0 := c.VertexCount()
	F0 := c.FaceCount()
	E0 := c.EdgeCount()
	H0 := c.HalfedgeCount()
	F1 := H0
	E1 := 2*E0 + H0
	V1 := V0 + E0 + F0
	A := pow2m1(depth)
	B := pow2m1(depth<<1) / 3

	return A*(E1-(F1<<1)) + B*F1 + depth*(F1-E1+V1)
}

// CheckCapacity reports whether every per-level and cumulative count up
// to depth fits an int32.
func CheckCapacity(c *cage.Mesh, depth int32) error {
	if depth < 0 || depth > MaxDepthLimit {
		return fmt.Errorf("depth %d not in [0, %d]: %w", depth, MaxDepthLimit, ErrDepthOutOfRange)
	}

	H0 := int64(c.HalfedgeCount())
	E0 := int64(c.EdgeCount())
	V0 := int64(c.VertexCount())
	F0 := int64(c.FaceCount())

	var halfedges, edges, vertices int64
	H, E, V, F := H0, E0, V0, F0
	for d := int32(1); d <= depth; d++ {
		H, E, V, F = 4*H, 2*E+H, V+E+F, H
		halfedges += H
		edges += E
		vertices += V
	}
	for _, n := range []int64{halfedges, edges, vertices} {
		if n > gomath.MaxInt32 {
			return fmt.Errorf("depth %d needs %d elements: %w", depth, n, ErrCountOverflow)
		}
	}
	return nil
}
