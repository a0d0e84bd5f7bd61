package subd

// Below the cage every face is a quad whose four halfedges are stored
// consecutively, so face and in-face neighbours follow from the id.

// scrollFaceHalfedgeIDQuad rotates a halfedge id within its 4-wide block.
func scrollFaceHalfedgeIDQuad(halfedgeID, direction int32) int32 {
	base := halfedgeID &^ 3
	local := (halfedgeID + direction) & 3

	return base | local
}

// HalfedgeNextIDQuad returns the next halfedge of a quad face.
func HalfedgeNextIDQuad(halfedgeID int32) int32 {
	return scrollFaceHalfedgeIDQuad(halfedgeID, +1)
}

// HalfedgePrevIDQuad returns the previous halfedge of a quad face.
func HalfedgePrevIDQuad(halfedgeID int32) int32 {
	return scrollFaceHalfedgeIDQuad(halfedgeID, -1)
}

// HalfedgeFaceIDQuad returns the face owning a quad halfedge.
func HalfedgeFaceIDQuad(halfedgeID int32) int32 {
	return halfedgeID >> 2
}

// FaceToHalfedgeIDQuad returns the first halfedge of a quad face.
func FaceToHalfedgeIDQuad(faceID int32) int32 {
	return faceID << 2
}
