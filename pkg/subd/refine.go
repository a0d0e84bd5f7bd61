package subd

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/ccsubd/pkg/math"
)

// refineChunk is the number of parent elements handled per task.
const refineChunk = 4096

// Refine fills the halfedge and crease storage of every level from the
// cage down to MaxDepth. Vertex points are left to the geometric stage.
//
// Each level is split into chunks processed by up to workers goroutines;
// workers <= 0 uses GOMAXPROCS. Refine stops at the next chunk boundary
// when ctx is cancelled.
func (s *Subd) Refine(ctx context.Context, workers int) error {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	for depth := int32(0); depth < s.maxDepth; depth++ {
		halfedgeCount := HalfedgeCountAtDepth(s.cage, depth)
		creaseCount := CreaseCountAtDepth(s.cage, depth)

		refineHalfedges := s.refineQuadHalfedges
		if depth == 0 {
			refineHalfedges = s.refineCageHalfedges
		}

		err := parallelFor(ctx, workers, halfedgeCount, func(begin, end int32) {
			for halfedgeID := begin; halfedgeID < end; halfedgeID++ {
				refineHalfedges(halfedgeID, depth)
			}
		})
		if err != nil {
			return err
		}

		err = parallelFor(ctx, workers, creaseCount, func(begin, end int32) {
			for edgeID := begin; edgeID < end; edgeID++ {
				s.refineCrease(edgeID, depth)
			}
		})
		if err != nil {
			return err
		}
	}

	return nil
}

// parallelFor runs fn over [0, n) in chunks.
func parallelFor(ctx context.Context, workers int, n int32, fn func(begin, end int32)) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for begin := int32(0); begin < n; begin += refineChunk {
		if gctx.Err() != nil {
			break
		}
		end := min(begin+refineChunk, n)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fn(begin, end)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// childLinks is the parent neighbourhood needed to split one halfedge.
type childLinks struct {
	halfedgeID int32
	twinID     int32
	nextID     int32
	prevID     int32
	prevTwinID int32
	twinNextID int32
	edgeID     int32
	prevEdgeID int32
	vertexID   int32
	faceID     int32

	uv, nextUv, prevUv, faceUv math.Vec2
}

// writeChildren stores the four children of a parent halfedge at depth.
// Child k of h sits at 4h+k and walks vertex(h), the midpoint of edge(h),
// the face point and the midpoint of edge(prev(h)).
func (s *Subd) writeChildren(l childLinks, depth int32) {
	parentDepth := depth - 1
	vertexCount := VertexCountAtDepth(s.cage, parentDepth)
	faceCount := FaceCountAtDepth(s.cage, parentDepth)
	edgeCount := EdgeCountAtDepth(s.cage, parentDepth)

	h := l.halfedgeID
	out := [4]*Halfedge{
		s.halfedge(4*h+0, depth),
		s.halfedge(4*h+1, depth),
		s.halfedge(4*h+2, depth),
		s.halfedge(4*h+3, depth),
	}

	// twinIDs
	out[0].TwinID = childTwin(l.twinNextID, 3)
	out[1].TwinID = 4*l.nextID + 2
	out[2].TwinID = 4*l.prevID + 1
	out[3].TwinID = childTwin(l.prevTwinID, 0)

	// edgeIDs
	out[0].EdgeID = 2*l.edgeID + splitSide(h > l.twinID)
	out[1].EdgeID = 2*edgeCount + h
	out[2].EdgeID = 2*edgeCount + l.prevID
	out[3].EdgeID = 2*l.prevEdgeID + splitSide(l.prevID <= l.prevTwinID)

	// vertexIDs
	out[0].VertexID = l.vertexID
	out[1].VertexID = vertexCount + faceCount + l.edgeID
	out[2].VertexID = vertexCount + l.faceID
	out[3].VertexID = vertexCount + faceCount + l.prevEdgeID

	// uvIDs
	out[0].UvID = math.EncodeUV(l.uv)
	out[1].UvID = math.EncodeUV(l.uv.Lerp(l.nextUv, 0.5))
	out[2].UvID = math.EncodeUV(l.faceUv)
	out[3].UvID = math.EncodeUV(l.uv.Lerp(l.prevUv, 0.5))
}

// childTwin returns child k of a parent halfedge, or -1 without a parent.
func childTwin(parentID, k int32) int32 {
	if parentID < 0 {
		return -1
	}
	return 4*parentID + k
}

// splitSide maps the halfedge ordering test to the child edge offset.
func splitSide(first bool) int32 {
	if first {
		return 0
	}
	return 1
}

func (s *Subd) refineCageHalfedges(halfedgeID, _ int32) {
	c := s.cage
	twinID := c.HalfedgeTwinID(halfedgeID)
	nextID := c.HalfedgeNextID(halfedgeID)
	prevID := c.HalfedgePrevID(halfedgeID)
	twinNextID := int32(-1)
	if twinID >= 0 {
		twinNextID = c.HalfedgeNextID(twinID)
	}

	faceID := c.HalfedgeFaceID(halfedgeID)
	start := c.FaceToHalfedgeID(faceID)
	faceUv := c.HalfedgeVertexUv(start)
	valence := float32(1)
	for h := c.HalfedgeNextID(start); h != start; h = c.HalfedgeNextID(h) {
		faceUv = faceUv.Add(c.HalfedgeVertexUv(h))
		valence++
	}

	s.writeChildren(childLinks{
		halfedgeID: halfedgeID,
		twinID:     twinID,
		nextID:     nextID,
		prevID:     prevID,
		prevTwinID: c.HalfedgeTwinID(prevID),
		twinNextID: twinNextID,
		edgeID:     c.HalfedgeEdgeID(halfedgeID),
		prevEdgeID: c.HalfedgeEdgeID(prevID),
		vertexID:   c.HalfedgeVertexID(halfedgeID),
		faceID:     faceID,
		uv:         c.HalfedgeVertexUv(halfedgeID),
		nextUv:     c.HalfedgeVertexUv(nextID),
		prevUv:     c.HalfedgeVertexUv(prevID),
		faceUv:     faceUv.Scale(1 / valence),
	}, 1)
}

func (s *Subd) refineQuadHalfedges(halfedgeID, depth int32) {
	twinID := s.HalfedgeTwinID(halfedgeID, depth)
	nextID := HalfedgeNextIDQuad(halfedgeID)
	prevID := HalfedgePrevIDQuad(halfedgeID)
	twinNextID := int32(-1)
	if twinID >= 0 {
		twinNextID = HalfedgeNextIDQuad(twinID)
	}

	start := halfedgeID &^ 3
	var faceUv math.Vec2
	for k := int32(0); k < 4; k++ {
		faceUv = faceUv.Add(s.HalfedgeVertexUv(start+k, depth))
	}

	s.writeChildren(childLinks{
		halfedgeID: halfedgeID,
		twinID:     twinID,
		nextID:     nextID,
		prevID:     prevID,
		prevTwinID: s.HalfedgeTwinID(prevID, depth),
		twinNextID: twinNextID,
		edgeID:     s.HalfedgeEdgeID(halfedgeID, depth),
		prevEdgeID: s.HalfedgeEdgeID(prevID, depth),
		vertexID:   s.HalfedgeVertexID(halfedgeID, depth),
		faceID:     HalfedgeFaceIDQuad(halfedgeID),
		uv:         s.HalfedgeVertexUv(halfedgeID, depth),
		nextUv:     s.HalfedgeVertexUv(nextID, depth),
		prevUv:     s.HalfedgeVertexUv(prevID, depth),
		faceUv:     faceUv.Scale(0.25),
	}, depth+1)
}

// refineCrease splits one crease of the parent level into 2e and 2e+1,
// keeping the chain links and applying the semi-sharp decay rule.
func (s *Subd) refineCrease(edgeID, depth int32) {
	nextID := s.CreaseNextID(edgeID, depth)
	prevID := s.CreasePrevID(edgeID, depth)
	t1 := s.CreasePrevID(nextID, depth) == edgeID && nextID != edgeID
	t2 := s.CreaseNextID(prevID, depth) == edgeID && prevID != edgeID
	thisS := 3 * s.CreaseSharpness(edgeID, depth)
	nextS := s.CreaseSharpness(nextID, depth)
	prevS := s.CreaseSharpness(prevID, depth)

	first := s.crease(2*edgeID+0, depth+1)
	second := s.crease(2*edgeID+1, depth+1)

	// next rule
	first.NextID = 2*edgeID + 1
	second.NextID = 2*nextID + splitSide(t1)

	// prev rule
	first.PrevID = 2*prevID + 1 - splitSide(t2)
	second.PrevID = 2*edgeID + 0

	// sharpness rule
	first.Sharpness = math.Maxf(0, (prevS+thisS)/4-1)
	second.Sharpness = math.Maxf(0, (thisS+nextS)/4-1)
}
