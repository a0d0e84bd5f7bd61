// Package cage implements the control cage of a Catmull-Clark subdivision
// surface: an arbitrary-valence polygon mesh stored as index-based
// half-edges with explicit crease links and reverse lookup maps.
package cage

import (
	"github.com/Faultbox/ccsubd/pkg/math"
)

// Halfedge is a directed edge owned by one face of the cage.
type Halfedge struct {
	TwinID   int32 // Opposite halfedge, -1 on a boundary
	NextID   int32 // Next halfedge around the face
	PrevID   int32 // Previous halfedge around the face
	VertexID int32 // Origin vertex
	UvID     int32 // Texture coordinate at the origin
	EdgeID   int32 // Undirected edge
	FaceID   int32 // Owning face
}

// Crease links a sharp edge to its neighbours along a crease line.
// An edge that is not part of a line is its own next and prev.
type Crease struct {
	Sharpness float32
	NextID    int32
	PrevID    int32
}

// Mesh is a control cage. All slices are dense and indexed from 0.
type Mesh struct {
	vertexCount   int32
	uvCount       int32
	halfedgeCount int32
	edgeCount     int32
	faceCount     int32

	VertexPoints        []math.Vec3
	Uvs                 []math.Vec2
	Halfedges           []Halfedge
	Creases             []Crease
	VertexToHalfedgeIDs []int32
	EdgeToHalfedgeIDs   []int32
	FaceToHalfedgeIDs   []int32
}

// New allocates a cage with room for the given element counts.
// The caller is responsible for populating every slice.
func New(vertexCount, uvCount, halfedgeCount, edgeCount, faceCount int32) *Mesh {
	return &Mesh{
		vertexCount:         vertexCount,
		uvCount:             uvCount,
		halfedgeCount:       halfedgeCount,
		edgeCount:           edgeCount,
		faceCount:           faceCount,
		VertexPoints:        make([]math.Vec3, vertexCount),
		Uvs:                 make([]math.Vec2, uvCount),
		Halfedges:           make([]Halfedge, halfedgeCount),
		Creases:             make([]Crease, edgeCount),
		VertexToHalfedgeIDs: make([]int32, vertexCount),
		EdgeToHalfedgeIDs:   make([]int32, edgeCount),
		FaceToHalfedgeIDs:   make([]int32, faceCount),
	}
}

// Release drops every slice owned by the cage. Any subd built from the
// cage must be released first.
func (m *Mesh) Release() {
	m.VertexPoints = nil
	m.Uvs = nil
	m.Halfedges = nil
	m.Creases = nil
	m.VertexToHalfedgeIDs = nil
	m.EdgeToHalfedgeIDs = nil
	m.FaceToHalfedgeIDs = nil
	m.vertexCount, m.uvCount, m.halfedgeCount, m.edgeCount, m.faceCount = 0, 0, 0, 0, 0
}

// FaceCount returns the number of faces.
func (m *Mesh) FaceCount() int32 { return m.faceCount }

// EdgeCount returns the number of edges.
func (m *Mesh) EdgeCount() int32 { return m.edgeCount }

// CreaseCount returns the number of crease records, one per edge.
func (m *Mesh) CreaseCount() int32 { return m.edgeCount }

// HalfedgeCount returns the number of halfedges.
func (m *Mesh) HalfedgeCount() int32 { return m.halfedgeCount }

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int32 { return m.vertexCount }

// UvCount returns the number of texture coordinates.
func (m *Mesh) UvCount() int32 { return m.uvCount }

// HalfedgeTwinID returns the opposite halfedge, or -1 on a boundary.
func (m *Mesh) HalfedgeTwinID(halfedgeID int32) int32 {
	return m.Halfedges[halfedgeID].TwinID
}

// HalfedgeNextID returns the next halfedge around the owning face.
func (m *Mesh) HalfedgeNextID(halfedgeID int32) int32 {
	return m.Halfedges[halfedgeID].NextID
}

// HalfedgePrevID returns the previous halfedge around the owning face.
func (m *Mesh) HalfedgePrevID(halfedgeID int32) int32 {
	return m.Halfedges[halfedgeID].PrevID
}

// HalfedgeVertexID returns the origin vertex of a halfedge.
func (m *Mesh) HalfedgeVertexID(halfedgeID int32) int32 {
	return m.Halfedges[halfedgeID].VertexID
}

// HalfedgeUvID returns the texture coordinate id at the origin of a halfedge.
func (m *Mesh) HalfedgeUvID(halfedgeID int32) int32 {
	return m.Halfedges[halfedgeID].UvID
}

// HalfedgeEdgeID returns the undirected edge of a halfedge.
func (m *Mesh) HalfedgeEdgeID(halfedgeID int32) int32 {
	return m.Halfedges[halfedgeID].EdgeID
}

// HalfedgeFaceID returns the face owning a halfedge.
func (m *Mesh) HalfedgeFaceID(halfedgeID int32) int32 {
	return m.Halfedges[halfedgeID].FaceID
}

// HalfedgeSharpness returns the crease sharpness of the halfedge's edge.
func (m *Mesh) HalfedgeSharpness(halfedgeID int32) float32 {
	return m.CreaseSharpness(m.HalfedgeEdgeID(halfedgeID))
}

// HalfedgeVertexPoint returns the position of the halfedge's origin.
func (m *Mesh) HalfedgeVertexPoint(halfedgeID int32) math.Vec3 {
	return m.VertexPoint(m.HalfedgeVertexID(halfedgeID))
}

// HalfedgeVertexUv returns the texture coordinate at the halfedge's origin.
func (m *Mesh) HalfedgeVertexUv(halfedgeID int32) math.Vec2 {
	return m.Uv(m.HalfedgeUvID(halfedgeID))
}

// IsBoundaryHalfedge reports whether the halfedge has no twin.
func (m *Mesh) IsBoundaryHalfedge(halfedgeID int32) bool {
	return m.HalfedgeTwinID(halfedgeID) < 0
}

// CreaseNextID returns the next edge along the crease line.
func (m *Mesh) CreaseNextID(edgeID int32) int32 {
	return m.Creases[edgeID].NextID
}

// CreasePrevID returns the previous edge along the crease line.
func (m *Mesh) CreasePrevID(edgeID int32) int32 {
	return m.Creases[edgeID].PrevID
}

// CreaseSharpness returns the sharpness of an edge, 0 when smooth.
func (m *Mesh) CreaseSharpness(edgeID int32) float32 {
	return m.Creases[edgeID].Sharpness
}

// VertexPoint returns the position of a vertex.
func (m *Mesh) VertexPoint(vertexID int32) math.Vec3 {
	return m.VertexPoints[vertexID]
}

// Uv returns a texture coordinate.
func (m *Mesh) Uv(uvID int32) math.Vec2 {
	return m.Uvs[uvID]
}

// VertexToHalfedgeID returns a halfedge whose origin is the vertex.
func (m *Mesh) VertexToHalfedgeID(vertexID int32) int32 {
	return m.VertexToHalfedgeIDs[vertexID]
}

// EdgeToHalfedgeID returns the representative halfedge of an edge: the
// larger id of its pair, or the only halfedge on a boundary.
func (m *Mesh) EdgeToHalfedgeID(edgeID int32) int32 {
	return m.EdgeToHalfedgeIDs[edgeID]
}

// FaceToHalfedgeID returns the first halfedge of a face.
func (m *Mesh) FaceToHalfedgeID(faceID int32) int32 {
	return m.FaceToHalfedgeIDs[faceID]
}
