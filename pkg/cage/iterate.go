package cage

// NextVertexHalfedgeID returns the next halfedge around the origin vertex
// of halfedgeID, or -1 when the walk reaches a boundary.
func (m *Mesh) NextVertexHalfedgeID(halfedgeID int32) int32 {
	twinID := m.HalfedgeTwinID(halfedgeID)
	if twinID < 0 {
		return -1
	}
	return m.HalfedgeNextID(twinID)
}

// PrevVertexHalfedgeID returns the previous halfedge around the origin
// vertex of halfedgeID, or -1 when the walk reaches a boundary.
func (m *Mesh) PrevVertexHalfedgeID(halfedgeID int32) int32 {
	return m.HalfedgeTwinID(m.HalfedgePrevID(halfedgeID))
}

// FaceValence returns the number of halfedges around a face.
func (m *Mesh) FaceValence(faceID int32) int32 {
	start := m.FaceToHalfedgeID(faceID)
	valence := int32(1)
	for h := m.HalfedgeNextID(start); h != start; h = m.HalfedgeNextID(h) {
		valence++
	}
	return valence
}

// VertexValence returns the number of halfedges leaving a vertex.
func (m *Mesh) VertexValence(vertexID int32) int32 {
	start := m.VertexToHalfedgeID(vertexID)
	valence := int32(1)

	h := m.NextVertexHalfedgeID(start)
	for ; h >= 0 && h != start; h = m.NextVertexHalfedgeID(h) {
		valence++
	}
	if h == start {
		return valence
	}

	// Open star: count the remaining halfedges behind the start.
	for h = m.PrevVertexHalfedgeID(start); h >= 0; h = m.PrevVertexHalfedgeID(h) {
		valence++
	}
	return valence
}
