package subd

import (
	"testing"

	"github.com/Faultbox/ccsubd/pkg/cage"
)

// outgoing counts the halfedges leaving each vertex at a depth.
func outgoing(s *Subd, depth int32) map[int32]int32 {
	counts := make(map[int32]int32)
	for h := int32(0); h < HalfedgeCountAtDepth(s.Cage(), depth); h++ {
		counts[s.HalfedgeVertexID(h, depth)]++
	}
	return counts
}

func TestVertexStarClosure(t *testing.T) {
	c := buildCage(t, cage.Cube())
	s := refined(t, c, 3)

	for d := int32(0); d <= 3; d++ {
		valence := outgoing(s, d)
		for h := int32(0); h < HalfedgeCountAtDepth(c, d); h++ {
			v := s.HalfedgeVertexID(h, d)
			cur := h
			for i := int32(0); i < valence[v]; i++ {
				if s.HalfedgeVertexID(cur, d) != v {
					t.Fatalf("depth %d halfedge %d: star left vertex %d", d, h, v)
				}
				cur = s.NextVertexHalfedgeID(cur, d)
				if cur < 0 {
					t.Fatalf("depth %d halfedge %d: closed star hit a boundary", d, h)
				}
			}
			if cur != h {
				t.Fatalf("depth %d halfedge %d: star did not close after %d steps", d, h, valence[v])
			}
			if got := s.PrevVertexHalfedgeID(s.NextVertexHalfedgeID(h, d), d); got != h {
				t.Fatalf("depth %d halfedge %d: Prev(Next()) = %d", d, h, got)
			}
		}
	}
}

func TestVertexStarBoundary(t *testing.T) {
	c := buildCage(t, cage.OpenPyramid())
	s := refined(t, c, 3)

	for d := int32(0); d <= 3; d++ {
		valence := outgoing(s, d)
		for h := int32(0); h < HalfedgeCountAtDepth(c, d); h++ {
			v := s.HalfedgeVertexID(h, d)
			limit := valence[v] + 1

			forward := int32(0)
			cur := s.NextVertexHalfedgeID(h, d)
			for ; cur >= 0 && cur != h; cur = s.NextVertexHalfedgeID(cur, d) {
				forward++
				if forward > limit {
					t.Fatalf("depth %d halfedge %d: forward walk does not terminate", d, h)
				}
			}
			if cur == h {
				// Interior vertex.
				if forward+1 != valence[v] {
					t.Errorf("depth %d halfedge %d: closed star of %d, want %d", d, h, forward+1, valence[v])
				}
				continue
			}

			backward := int32(0)
			for cur = s.PrevVertexHalfedgeID(h, d); cur >= 0; cur = s.PrevVertexHalfedgeID(cur, d) {
				if cur == h {
					t.Fatalf("depth %d halfedge %d: open star cycles", d, h)
				}
				backward++
				if backward > limit {
					t.Fatalf("depth %d halfedge %d: backward walk does not terminate", d, h)
				}
			}
			if got := forward + backward + 1; got != valence[v] {
				t.Errorf("depth %d halfedge %d: open star covers %d halfedges, want %d", d, h, got, valence[v])
			}
		}
	}
}

func BenchmarkNextVertexHalfedgeID(b *testing.B) {
	c := buildCage(b, cage.Cube())
	s := refined(b, c, 5)
	halfedgeCount := HalfedgeCountAtDepth(c, 5)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.NextVertexHalfedgeID(int32(i)%halfedgeCount, 5)
	}
}
