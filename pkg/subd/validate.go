package subd

import (
	"fmt"

	"github.com/Faultbox/ccsubd/pkg/cage"
)

// LevelStats summarizes one level of a refined subd.
type LevelStats struct {
	Depth             int32
	Faces             int32
	Edges             int32
	Halfedges         int32
	Creases           int32
	Vertices          int32
	BoundaryHalfedges int32
	SharpEdges        int32
}

// Level computes the counts of one level and scans it for boundary
// halfedges and sharp edges.
func (s *Subd) Level(depth int32) LevelStats {
	stats := LevelStats{
		Depth:     depth,
		Faces:     FaceCountAtDepth(s.cage, depth),
		Edges:     EdgeCountAtDepth(s.cage, depth),
		Halfedges: HalfedgeCountAtDepth(s.cage, depth),
		Creases:   CreaseCountAtDepth(s.cage, depth),
		Vertices:  VertexCountAtDepth(s.cage, depth),
	}
	for h := int32(0); h < stats.Halfedges; h++ {
		if s.IsBoundaryHalfedge(h, depth) {
			stats.BoundaryHalfedges++
		}
	}
	for e := int32(0); e < stats.Creases; e++ {
		if s.CreaseSharpness(e, depth) > 0 {
			stats.SharpEdges++
		}
	}
	return stats
}

// Validate checks every refined level: ids in range, symmetric twins that
// share an edge and meet at opposite vertices, and edge representatives
// that resolve back to their edge.
func (s *Subd) Validate() error {
	if err := s.cage.Validate(); err != nil {
		return err
	}

	for depth := int32(1); depth <= s.maxDepth; depth++ {
		halfedgeCount := HalfedgeCountAtDepth(s.cage, depth)
		edgeCount := EdgeCountAtDepthFast(s.cage, depth)
		vertexCount := VertexCountAtDepthFast(s.cage, depth)

		for h := int32(0); h < halfedgeCount; h++ {
			edgeID := s.HalfedgeEdgeID(h, depth)
			vertexID := s.HalfedgeVertexID(h, depth)
			if edgeID < 0 || edgeID >= edgeCount {
				return fmt.Errorf("depth %d halfedge %d: edge %d out of range: %w", depth, h, edgeID, cage.ErrInvalidTopology)
			}
			if vertexID < 0 || vertexID >= vertexCount {
				return fmt.Errorf("depth %d halfedge %d: vertex %d out of range: %w", depth, h, vertexID, cage.ErrInvalidTopology)
			}

			twinID := s.HalfedgeTwinID(h, depth)
			if twinID < 0 {
				continue
			}
			if twinID >= halfedgeCount || s.HalfedgeTwinID(twinID, depth) != h {
				return fmt.Errorf("depth %d halfedge %d: twin %d is not symmetric: %w", depth, h, twinID, cage.ErrInvalidTopology)
			}
			if s.HalfedgeEdgeID(twinID, depth) != edgeID {
				return fmt.Errorf("depth %d halfedge %d: twin %d has another edge: %w", depth, h, twinID, cage.ErrInvalidTopology)
			}
			if s.HalfedgeVertexID(twinID, depth) != s.HalfedgeVertexID(HalfedgeNextIDQuad(h), depth) {
				return fmt.Errorf("depth %d halfedge %d: twin %d starts elsewhere: %w", depth, h, twinID, cage.ErrInvalidTopology)
			}
		}

		for e := int32(0); e < edgeCount; e++ {
			h := s.EdgeToHalfedgeID(e, depth)
			if got := s.HalfedgeEdgeID(h, depth); got != e {
				return fmt.Errorf("depth %d edge %d: representative %d belongs to edge %d: %w", depth, e, h, got, cage.ErrInvalidTopology)
			}
		}
	}

	return nil
}
