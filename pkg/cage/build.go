package cage

import (
	"errors"
	"fmt"

	"github.com/Faultbox/ccsubd/pkg/math"
)

// Cage construction errors.
var (
	ErrDegenerateFace    = errors.New("face has fewer than 3 vertices")
	ErrVertexOutOfRange  = errors.New("vertex index out of range")
	ErrUvOutOfRange      = errors.New("uv index out of range")
	ErrFaceUvMismatch    = errors.New("face uv count does not match face vertex count")
	ErrNonManifoldEdge   = errors.New("directed edge used by more than one face")
	ErrUnknownCreaseEdge = errors.New("crease does not match any cage edge")
	ErrIsolatedVertex    = errors.New("vertex is not used by any face")
)

// CreaseEdge marks the edge between two vertices as sharp.
type CreaseEdge struct {
	V0, V1    int32
	Sharpness float32
}

// Description is a polygon soup with optional per-corner UVs and creases.
// Faces list vertex ids in counter-clockwise order.
type Description struct {
	Points  []math.Vec3
	Uvs     []math.Vec2
	Faces   [][]int32
	FaceUvs [][]int32 // Optional, same shape as Faces
	Creases []CreaseEdge
}

type directedEdge struct {
	from, to int32
}

type undirectedEdge struct {
	lo, hi int32
}

func makeUndirected(a, b int32) undirectedEdge {
	if a > b {
		a, b = b, a
	}
	return undirectedEdge{a, b}
}

// Build creates a fully linked cage from a polygon description.
// Halfedges are laid out contiguously per face in face order, and each
// edge maps to the larger halfedge id of its pair.
func Build(desc Description) (*Mesh, error) {
	vertexCount := int32(len(desc.Points))

	var halfedgeCount int32
	used := make([]bool, vertexCount)
	for i, face := range desc.Faces {
		if len(face) < 3 {
			return nil, fmt.Errorf("face %d: %w", i, ErrDegenerateFace)
		}
		for _, v := range face {
			if v < 0 || v >= vertexCount {
				return nil, fmt.Errorf("face %d vertex %d: %w", i, v, ErrVertexOutOfRange)
			}
			used[v] = true
		}
		if desc.FaceUvs != nil {
			if i >= len(desc.FaceUvs) || len(desc.FaceUvs[i]) != len(face) {
				return nil, fmt.Errorf("face %d: %w", i, ErrFaceUvMismatch)
			}
			for _, uv := range desc.FaceUvs[i] {
				if uv < 0 || int(uv) >= len(desc.Uvs) {
					return nil, fmt.Errorf("face %d uv %d: %w", i, uv, ErrUvOutOfRange)
				}
			}
		}
		halfedgeCount += int32(len(face))
	}
	for v, ok := range used {
		if !ok {
			return nil, fmt.Errorf("vertex %d: %w", v, ErrIsolatedVertex)
		}
	}

	// Halfedge links, twins are resolved once every face is known.
	halfedges := make([]Halfedge, 0, halfedgeCount)
	faceToHalfedge := make([]int32, len(desc.Faces))
	directed := make(map[directedEdge]int32, halfedgeCount)
	for faceID, face := range desc.Faces {
		base := int32(len(halfedges))
		n := int32(len(face))
		faceToHalfedge[faceID] = base
		for k := int32(0); k < n; k++ {
			from, to := face[k], face[(k+1)%n]
			key := directedEdge{from, to}
			if _, ok := directed[key]; ok {
				return nil, fmt.Errorf("edge %d->%d: %w", from, to, ErrNonManifoldEdge)
			}
			directed[key] = base + k

			var uvID int32
			if desc.FaceUvs != nil {
				uvID = desc.FaceUvs[faceID][k]
			}
			halfedges = append(halfedges, Halfedge{
				TwinID:   -1,
				NextID:   base + (k+1)%n,
				PrevID:   base + (k+n-1)%n,
				VertexID: from,
				UvID:     uvID,
				EdgeID:   -1,
				FaceID:   int32(faceID),
			})
		}
	}

	// Twins and edge ids. An edge is numbered when its first halfedge is seen.
	edges := make(map[undirectedEdge]int32)
	var edgeToHalfedge []int32
	for id := range halfedges {
		h := &halfedges[id]
		to := halfedges[h.NextID].VertexID
		if twinID, ok := directed[directedEdge{to, h.VertexID}]; ok {
			h.TwinID = twinID
		}

		key := makeUndirected(h.VertexID, to)
		edgeID, ok := edges[key]
		if !ok {
			edgeID = int32(len(edgeToHalfedge))
			edges[key] = edgeID
			edgeToHalfedge = append(edgeToHalfedge, int32(id))
		}
		h.EdgeID = edgeID
		if int32(id) > edgeToHalfedge[edgeID] {
			edgeToHalfedge[edgeID] = int32(id)
		}
	}

	uvs := desc.Uvs
	if len(uvs) == 0 {
		uvs = []math.Vec2{{}}
	}

	edgeCount := int32(len(edgeToHalfedge))
	m := New(vertexCount, int32(len(uvs)), halfedgeCount, edgeCount, int32(len(desc.Faces)))
	copy(m.VertexPoints, desc.Points)
	copy(m.Uvs, uvs)
	copy(m.Halfedges, halfedges)
	copy(m.EdgeToHalfedgeIDs, edgeToHalfedge)
	copy(m.FaceToHalfedgeIDs, faceToHalfedge)

	for v := range m.VertexToHalfedgeIDs {
		m.VertexToHalfedgeIDs[v] = -1
	}
	for id := range m.Halfedges {
		h := &m.Halfedges[id]
		// Prefer a halfedge that starts an open star so a forward walk
		// from it covers the whole vertex.
		if m.VertexToHalfedgeIDs[h.VertexID] < 0 || m.PrevVertexHalfedgeID(int32(id)) < 0 {
			m.VertexToHalfedgeIDs[h.VertexID] = int32(id)
		}
	}

	if err := linkCreases(m, edges, desc.Creases); err != nil {
		return nil, err
	}

	return m, nil
}

// linkCreases stores sharpness values and chains crease edges that meet at
// a vertex shared by exactly two sharp edges.
func linkCreases(m *Mesh, edges map[undirectedEdge]int32, creases []CreaseEdge) error {
	for e := range m.Creases {
		m.Creases[e] = Crease{Sharpness: 0, NextID: int32(e), PrevID: int32(e)}
	}

	sharpAt := make(map[int32][]int32)
	for _, c := range creases {
		edgeID, ok := edges[makeUndirected(c.V0, c.V1)]
		if !ok {
			return fmt.Errorf("crease %d-%d: %w", c.V0, c.V1, ErrUnknownCreaseEdge)
		}
		m.Creases[edgeID].Sharpness = c.Sharpness
		sharpAt[c.V0] = append(sharpAt[c.V0], edgeID)
		sharpAt[c.V1] = append(sharpAt[c.V1], edgeID)
	}

	other := func(vertexID, edgeID int32) int32 {
		incident := sharpAt[vertexID]
		if len(incident) != 2 {
			return edgeID
		}
		if incident[0] == edgeID {
			return incident[1]
		}
		return incident[0]
	}

	for _, c := range creases {
		edgeID := edges[makeUndirected(c.V0, c.V1)]
		h := m.EdgeToHalfedgeID(edgeID)
		from := m.HalfedgeVertexID(h)
		to := m.HalfedgeVertexID(m.HalfedgeNextID(h))
		m.Creases[edgeID].PrevID = other(from, edgeID)
		m.Creases[edgeID].NextID = other(to, edgeID)
	}

	return nil
}
