// Package subd stores the semi-regular levels of a Catmull-Clark
// subdivision surface and answers topology queries at any depth.
//
// Levels 1..maxDepth are flattened into three slices. The offset of each
// level is the cumulative count up to the previous level, recomputed from
// the count formulas on every access. Depth 0 queries are forwarded to the
// control cage.
//
// Every query is a pure read and may run from any number of goroutines.
// Refine, the Set* methods and Release must not overlap with readers.
package subd

import (
	"fmt"

	"github.com/Faultbox/ccsubd/pkg/cage"
	"github.com/Faultbox/ccsubd/pkg/math"
)

// Halfedge is a halfedge of a quad level. Next, prev and face are derived
// from the id, see quad.go.
type Halfedge struct {
	TwinID   int32  // Opposite halfedge, -1 on a boundary
	EdgeID   int32  // Undirected edge
	VertexID int32  // Origin vertex
	UvID     uint32 // Origin texture coordinate, packed with math.EncodeUV
}

// Subd holds every level of a subdivision surface below its cage.
type Subd struct {
	maxDepth     int32
	cage         *cage.Mesh // borrowed, must outlive the subd
	halfedges    []Halfedge
	creases      []cage.Crease
	vertexPoints []math.Vec3
}

// New allocates storage for levels 1..maxDepth of the given cage.
func New(c *cage.Mesh, maxDepth int32) (*Subd, error) {
	if err := CheckCapacity(c, maxDepth); err != nil {
		return nil, fmt.Errorf("creating subd: %w", err)
	}

	return &Subd{
		maxDepth:     maxDepth,
		cage:         c,
		halfedges:    make([]Halfedge, CumulativeHalfedgeCountAtDepth(c, maxDepth)),
		creases:      make([]cage.Crease, CumulativeCreaseCountAtDepth(c, maxDepth)),
		vertexPoints: make([]math.Vec3, CumulativeVertexCountAtDepth(c, maxDepth)),
	}, nil
}

// Release drops the level storage. The cage is left untouched.
func (s *Subd) Release() {
	s.halfedges = nil
	s.creases = nil
	s.vertexPoints = nil
	s.cage = nil
}

// MaxDepth returns the deepest stored level.
func (s *Subd) MaxDepth() int32 { return s.maxDepth }

// Cage returns the control cage the subd was built from.
func (s *Subd) Cage() *cage.Mesh { return s.cage }

// CumulativeFaceCount returns the number of faces stored across all levels.
func (s *Subd) CumulativeFaceCount() int32 {
	return CumulativeFaceCountAtDepth(s.cage, s.maxDepth)
}

// CumulativeEdgeCount returns the number of edges across all levels.
func (s *Subd) CumulativeEdgeCount() int32 {
	return CumulativeEdgeCountAtDepth(s.cage, s.maxDepth)
}

// CumulativeHalfedgeCount returns the number of halfedges stored across all levels.
func (s *Subd) CumulativeHalfedgeCount() int32 {
	return CumulativeHalfedgeCountAtDepth(s.cage, s.maxDepth)
}

// CumulativeCreaseCount returns the number of crease records stored across all levels.
func (s *Subd) CumulativeCreaseCount() int32 {
	return CumulativeCreaseCountAtDepth(s.cage, s.maxDepth)
}

// CumulativeVertexCount returns the number of vertex points stored across all levels.
func (s *Subd) CumulativeVertexCount() int32 {
	return CumulativeVertexCountAtDepth(s.cage, s.maxDepth)
}

// halfedge returns the stored halfedge for depth > 0.
func (s *Subd) halfedge(halfedgeID, depth int32) *Halfedge {
	stride := CumulativeHalfedgeCountAtDepth(s.cage, depth-1)
	return &s.halfedges[stride+halfedgeID]
}

// crease returns the stored crease for depth > 0.
func (s *Subd) crease(edgeID, depth int32) *cage.Crease {
	stride := CumulativeCreaseCountAtDepth(s.cage, depth-1)
	return &s.creases[stride+edgeID]
}

// HalfedgeTwinID returns the opposite halfedge at a depth, or -1 on a boundary.
func (s *Subd) HalfedgeTwinID(halfedgeID, depth int32) int32 {
	if depth == 0 {
		return s.cage.HalfedgeTwinID(halfedgeID)
	}
	return s.halfedge(halfedgeID, depth).TwinID
}

// HalfedgeNextID returns the next halfedge around the owning face at a depth.
func (s *Subd) HalfedgeNextID(halfedgeID, depth int32) int32 {
	if depth == 0 {
		return s.cage.HalfedgeNextID(halfedgeID)
	}
	return HalfedgeNextIDQuad(halfedgeID)
}

// HalfedgePrevID returns the previous halfedge around the owning face at a depth.
func (s *Subd) HalfedgePrevID(halfedgeID, depth int32) int32 {
	if depth == 0 {
		return s.cage.HalfedgePrevID(halfedgeID)
	}
	return HalfedgePrevIDQuad(halfedgeID)
}

// HalfedgeFaceID returns the face owning a halfedge at a depth.
func (s *Subd) HalfedgeFaceID(halfedgeID, depth int32) int32 {
	if depth == 0 {
		return s.cage.HalfedgeFaceID(halfedgeID)
	}
	return HalfedgeFaceIDQuad(halfedgeID)
}

// HalfedgeEdgeID returns the undirected edge of a halfedge at a depth.
func (s *Subd) HalfedgeEdgeID(halfedgeID, depth int32) int32 {
	if depth == 0 {
		return s.cage.HalfedgeEdgeID(halfedgeID)
	}
	return s.halfedge(halfedgeID, depth).EdgeID
}

// HalfedgeVertexID returns the origin vertex of a halfedge at a depth.
func (s *Subd) HalfedgeVertexID(halfedgeID, depth int32) int32 {
	if depth == 0 {
		return s.cage.HalfedgeVertexID(halfedgeID)
	}
	return s.halfedge(halfedgeID, depth).VertexID
}

// HalfedgeVertexUv returns the decoded texture coordinate at the origin
// of a halfedge.
func (s *Subd) HalfedgeVertexUv(halfedgeID, depth int32) math.Vec2 {
	if depth == 0 {
		return s.cage.HalfedgeVertexUv(halfedgeID)
	}
	return math.DecodeUV(s.halfedge(halfedgeID, depth).UvID)
}

// HalfedgeSharpness returns the crease sharpness of a halfedge's edge.
func (s *Subd) HalfedgeSharpness(halfedgeID, depth int32) float32 {
	return s.CreaseSharpness(s.HalfedgeEdgeID(halfedgeID, depth), depth)
}

// HalfedgeVertexPoint returns the position of a halfedge's origin.
func (s *Subd) HalfedgeVertexPoint(halfedgeID, depth int32) math.Vec3 {
	return s.VertexPoint(s.HalfedgeVertexID(halfedgeID, depth), depth)
}

// IsBoundaryHalfedge reports whether the halfedge has no twin.
func (s *Subd) IsBoundaryHalfedge(halfedgeID, depth int32) bool {
	return s.HalfedgeTwinID(halfedgeID, depth) < 0
}

// Crease accessors
//
// Edges created inside a face are never sharp and have no crease record.
// Their ids lie past CreaseCountAtDepth; they report a sharpness of 0 and
// are their own crease neighbours.

// CreaseSharpness returns the sharpness of an edge at a depth.
func (s *Subd) CreaseSharpness(edgeID, depth int32) float32 {
	if depth == 0 {
		return s.cage.CreaseSharpness(edgeID)
	}
	if edgeID < CreaseCountAtDepth(s.cage, depth) {
		return s.crease(edgeID, depth).Sharpness
	}
	return 0
}

// CreaseNextID returns the next edge along the crease line at a depth.
func (s *Subd) CreaseNextID(edgeID, depth int32) int32 {
	if depth == 0 {
		return s.cage.CreaseNextID(edgeID)
	}
	if edgeID < CreaseCountAtDepth(s.cage, depth) {
		return s.crease(edgeID, depth).NextID
	}
	return edgeID
}

// CreasePrevID returns the previous edge along the crease line at a depth.
func (s *Subd) CreasePrevID(edgeID, depth int32) int32 {
	if depth == 0 {
		return s.cage.CreasePrevID(edgeID)
	}
	if edgeID < CreaseCountAtDepth(s.cage, depth) {
		return s.crease(edgeID, depth).PrevID
	}
	return edgeID
}

// SetCrease overwrites a crease record at depth > 0.
func (s *Subd) SetCrease(edgeID, depth int32, crease cage.Crease) {
	*s.crease(edgeID, depth) = crease
}

// VertexPoint returns a vertex position. Positions below the cage are
// written by the geometric refinement stage.
func (s *Subd) VertexPoint(vertexID, depth int32) math.Vec3 {
	if depth == 0 {
		return s.cage.VertexPoint(vertexID)
	}
	stride := CumulativeVertexCountAtDepth(s.cage, depth-1)
	return s.vertexPoints[stride+vertexID]
}

// SetVertexPoint writes a vertex position at depth > 0.
func (s *Subd) SetVertexPoint(vertexID, depth int32, point math.Vec3) {
	stride := CumulativeVertexCountAtDepth(s.cage, depth-1)
	s.vertexPoints[stride+vertexID] = point
}

// VertexPoints returns the writable position range of one level, depth > 0.
func (s *Subd) VertexPoints(depth int32) []math.Vec3 {
	stride := CumulativeVertexCountAtDepth(s.cage, depth-1)
	count := VertexCountAtDepthFast(s.cage, depth)
	return s.vertexPoints[stride : stride+count : stride+count]
}

// FaceToHalfedgeID returns the first halfedge of a face at a depth.
func (s *Subd) FaceToHalfedgeID(faceID, depth int32) int32 {
	if depth == 0 {
		return s.cage.FaceToHalfedgeID(faceID)
	}
	return FaceToHalfedgeIDQuad(faceID)
}
