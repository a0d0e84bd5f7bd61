package cage

import (
	"errors"
	"fmt"
)

// ErrInvalidTopology reports a cage whose links are inconsistent.
var ErrInvalidTopology = errors.New("invalid cage topology")

// Validate checks the link invariants the subdivision layer relies on:
// symmetric twins sharing an edge, closed face loops stored contiguously
// in face order, edge representatives holding the larger halfedge id, and
// vertex lookups that start at their vertex. Every link is range-checked
// before it is followed, so hand-filled cages cannot make it loop.
func (m *Mesh) Validate() error {
	halfedgeCount := m.HalfedgeCount()
	inRange := func(h int32) bool { return h >= 0 && h < halfedgeCount }

	var expected int32
	for f := int32(0); f < m.FaceCount(); f++ {
		start := m.FaceToHalfedgeID(f)
		if start != expected || !inRange(start) {
			return fmt.Errorf("face %d starts at halfedge %d, want %d: %w", f, start, expected, ErrInvalidTopology)
		}

		// Walk the face loop, never more than halfedgeCount steps.
		n := int32(0)
		h := start
		for {
			next, prev := m.HalfedgeNextID(h), m.HalfedgePrevID(h)
			if !inRange(next) || !inRange(prev) {
				return fmt.Errorf("halfedge %d: next %d or prev %d out of range: %w", h, next, prev, ErrInvalidTopology)
			}
			if h != start+n {
				return fmt.Errorf("face %d: halfedge %d not stored contiguously: %w", f, h, ErrInvalidTopology)
			}
			if m.HalfedgeFaceID(h) != f {
				return fmt.Errorf("halfedge %d: face %d, want %d: %w", h, m.HalfedgeFaceID(h), f, ErrInvalidTopology)
			}
			if m.HalfedgePrevID(next) != h {
				return fmt.Errorf("halfedge %d: next/prev mismatch: %w", h, ErrInvalidTopology)
			}
			n++
			h = next
			if h == start {
				break
			}
			if n >= halfedgeCount {
				return fmt.Errorf("face %d: next loop does not close: %w", f, ErrInvalidTopology)
			}
		}
		expected += n
	}
	if expected != halfedgeCount {
		return fmt.Errorf("faces cover %d of %d halfedges: %w", expected, halfedgeCount, ErrInvalidTopology)
	}

	for h := int32(0); h < halfedgeCount; h++ {
		edgeID := m.HalfedgeEdgeID(h)
		if edgeID < 0 || edgeID >= m.EdgeCount() {
			return fmt.Errorf("halfedge %d: edge %d out of range: %w", h, edgeID, ErrInvalidTopology)
		}
		if v := m.HalfedgeVertexID(h); v < 0 || v >= m.VertexCount() {
			return fmt.Errorf("halfedge %d: vertex %d out of range: %w", h, v, ErrInvalidTopology)
		}

		twinID := m.HalfedgeTwinID(h)
		if twinID < 0 {
			continue
		}
		if !inRange(twinID) || m.HalfedgeTwinID(twinID) != h {
			return fmt.Errorf("halfedge %d: twin %d is not symmetric: %w", h, twinID, ErrInvalidTopology)
		}
		if m.HalfedgeEdgeID(twinID) != edgeID {
			return fmt.Errorf("halfedge %d: twin %d has another edge: %w", h, twinID, ErrInvalidTopology)
		}
	}

	for e := int32(0); e < m.EdgeCount(); e++ {
		h := m.EdgeToHalfedgeID(e)
		if !inRange(h) || m.HalfedgeEdgeID(h) != e {
			return fmt.Errorf("edge %d maps to halfedge %d of another edge: %w", e, h, ErrInvalidTopology)
		}
		if h < m.HalfedgeTwinID(h) {
			return fmt.Errorf("edge %d maps to the smaller halfedge %d: %w", e, h, ErrInvalidTopology)
		}
	}

	for v := int32(0); v < m.VertexCount(); v++ {
		h := m.VertexToHalfedgeID(v)
		if !inRange(h) || m.HalfedgeVertexID(h) != v {
			return fmt.Errorf("vertex %d maps to halfedge %d that does not start there: %w", v, h, ErrInvalidTopology)
		}
	}

	return nil
}
