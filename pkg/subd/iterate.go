package subd

// NextVertexHalfedgeID returns the next halfedge around the origin vertex
// of halfedgeID, or -1 when the walk reaches a boundary.
func (s *Subd) NextVertexHalfedgeID(halfedgeID, depth int32) int32 {
	twinID := s.HalfedgeTwinID(halfedgeID, depth)
	if twinID < 0 {
		return -1
	}
	return s.HalfedgeNextID(twinID, depth)
}

// PrevVertexHalfedgeID returns the previous halfedge around the origin
// vertex of halfedgeID, or -1 when the walk reaches a boundary.
func (s *Subd) PrevVertexHalfedgeID(halfedgeID, depth int32) int32 {
	prevID := s.HalfedgePrevID(halfedgeID, depth)

	return s.HalfedgeTwinID(prevID, depth)
}
