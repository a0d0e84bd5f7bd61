package subd

import (
	"github.com/Faultbox/ccsubd/pkg/cage"
	"github.com/Faultbox/ccsubd/pkg/math"
)

// Each subdivision step splits parent edge e into child edges 2e and 2e+1
// and adds one spoke edge 2E+h per parent halfedge h, E being the parent
// edge count. A child of a split edge is reached from the parent
// representative h as 4h (bit 0) or 4 Next(h) + 3 (bit 1); a spoke is
// bordered by 4h+1 and 4 Next(h) + 2, the larger of which represents it.

// firstEdgeToHalfedgeID resolves an edge of level 1 directly on the cage.
func firstEdgeToHalfedgeID(c *cage.Mesh, edgeID int32) int32 {
	edgeCount := c.EdgeCount()

	if /* [2E, 2E + H) */ edgeID >= 2*edgeCount {
		halfedgeID := edgeID - 2*edgeCount
		nextID := c.HalfedgeNextID(halfedgeID)

		return math.Max(4*halfedgeID+1, 4*nextID+2)
	}

	halfedgeID := c.EdgeToHalfedgeID(edgeID >> 1)
	if edgeID&1 == 1 {
		return 4*c.HalfedgeNextID(halfedgeID) + 3
	}
	return 4 * halfedgeID
}

// EdgeToHalfedgeID returns the representative halfedge of an edge at a
// given depth in O(depth) time without touching level storage.
//
// The descent records one bit per split level in a heap-ordered path
// (leading 1, then the bits) until it reaches level 1 or a spoke edge,
// which yields a seed halfedge directly. The path is then replayed from
// the seed level back down to depth.
func EdgeToHalfedgeID(c *cage.Mesh, edgeID, depth int32) int32 {
	if depth == 0 {
		return c.EdgeToHalfedgeID(edgeID)
	}

	heap := uint32(1)
	halfedgeID := int32(0)
	heapDepth := depth

	// build heap
	for ; heapDepth > 1; heapDepth-- {
		edgeCount := EdgeCountAtDepthFast(c, heapDepth-1)

		if /* [2E, 2E + H) */ edgeID >= 2*edgeCount {
			spokeID := edgeID - 2*edgeCount
			nextID := HalfedgeNextIDQuad(spokeID)

			halfedgeID = math.Max(4*spokeID+1, 4*nextID+2)
			break
		}
		heap = heap<<1 | uint32(edgeID&1)
		edgeID >>= 1
	}

	// root
	if heapDepth == 1 {
		halfedgeID = firstEdgeToHalfedgeID(c, edgeID)
	}

	// read heap
	for ; heap > 1; heap >>= 1 {
		if heap&1 == 1 {
			halfedgeID = 4*HalfedgeNextIDQuad(halfedgeID) + 3
		} else {
			halfedgeID = 4 * halfedgeID
		}
	}

	return halfedgeID
}

// VertexToHalfedgeID returns a halfedge whose origin is the vertex at a
// given depth, in O(depth) time.
//
// Level d numbers its vertices as the parent vertices, then one point per
// parent face, then one point per parent edge. A parent vertex keeps the
// first child 4h of its parent halfedge h; face and edge points are the
// origins of 4h+2 and 4h+1 respectively.
func VertexToHalfedgeID(c *cage.Mesh, vertexID, depth int32) int32 {
	level := depth
	for ; level > 0; level-- {
		vertexCount := VertexCountAtDepth(c, level-1)
		if vertexID < vertexCount {
			continue
		}

		faceCount := FaceCountAtDepth(c, level-1)
		var halfedgeID int32
		if vertexID < vertexCount+faceCount {
			halfedgeID = 4*faceToHalfedgeID(c, vertexID-vertexCount, level-1) + 2
		} else {
			halfedgeID = 4*EdgeToHalfedgeID(c, vertexID-vertexCount-faceCount, level-1) + 1
		}
		return halfedgeID << ((depth - level) << 1)
	}

	return c.VertexToHalfedgeID(vertexID) << (depth << 1)
}

func faceToHalfedgeID(c *cage.Mesh, faceID, depth int32) int32 {
	if depth == 0 {
		return c.FaceToHalfedgeID(faceID)
	}
	return FaceToHalfedgeIDQuad(faceID)
}

// EdgeToHalfedgeID resolves an edge of the subd's cage at a given depth.
func (s *Subd) EdgeToHalfedgeID(edgeID, depth int32) int32 {
	return EdgeToHalfedgeID(s.cage, edgeID, depth)
}

// VertexToHalfedgeID resolves a vertex of the subd's cage at a given depth.
func (s *Subd) VertexToHalfedgeID(vertexID, depth int32) int32 {
	return VertexToHalfedgeID(s.cage, vertexID, depth)
}
