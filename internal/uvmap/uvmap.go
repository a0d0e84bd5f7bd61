// Package uvmap rasterizes the UV layout of a subdivision level.
package uvmap

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/HugoSmits86/nativewebp"
	"golang.org/x/image/draw"
	"golang.org/x/image/vector"

	"github.com/Faultbox/ccsubd/pkg/math"
	"github.com/Faultbox/ccsubd/pkg/subd"
)

// ErrUnknownFormat is returned for an export format other than png or webp.
var ErrUnknownFormat = errors.New("unknown image format")

// uvEpsilon is one step of the 16-bit UV quantization.
const uvEpsilon = 1.0 / 65535

// Options controls rasterization.
type Options struct {
	Size        int     // Output width and height in pixels
	LineWidth   float32 // Stroke width in output pixels
	Supersample int     // Raster scale factor before downsampling
	Background  color.Color
	Edge        color.Color
	Seam        color.Color // Boundary and UV seam edges
}

// DefaultOptions returns dark-background rendering options.
func DefaultOptions() Options {
	return Options{
		Size:        1024,
		LineWidth:   1,
		Supersample: 2,
		Background:  color.RGBA{R: 24, G: 24, B: 28, A: 255},
		Edge:        color.RGBA{R: 200, G: 200, B: 210, A: 255},
		Seam:        color.RGBA{R: 240, G: 120, B: 40, A: 255},
	}
}

// Segment is one UV-space edge of a level.
type Segment struct {
	A, B math.Vec2
	Seam bool
}

// Segments lists the UV edges of the given depth. Every topological edge
// yields one segment; an edge whose two sides disagree in UV space yields
// one seam segment per side.
func Segments(s *subd.Subd, depth int32) []Segment {
	edgeCount := subd.EdgeCountAtDepth(s.Cage(), depth)
	segments := make([]Segment, 0, edgeCount)

	for edgeID := int32(0); edgeID < edgeCount; edgeID++ {
		h := s.EdgeToHalfedgeID(edgeID, depth)
		a := s.HalfedgeVertexUv(h, depth)
		b := s.HalfedgeVertexUv(s.HalfedgeNextID(h, depth), depth)

		twinID := s.HalfedgeTwinID(h, depth)
		if twinID < 0 {
			segments = append(segments, Segment{A: a, B: b, Seam: true})
			continue
		}

		ta := s.HalfedgeVertexUv(twinID, depth)
		tb := s.HalfedgeVertexUv(s.HalfedgeNextID(twinID, depth), depth)
		if sameUV(a, tb) && sameUV(b, ta) {
			segments = append(segments, Segment{A: a, B: b})
			continue
		}
		segments = append(segments,
			Segment{A: a, B: b, Seam: true},
			Segment{A: ta, B: tb, Seam: true},
		)
	}
	return segments
}

func sameUV(a, b math.Vec2) bool {
	d := a.Sub(b)
	return d.X <= uvEpsilon && d.X >= -uvEpsilon && d.Y <= uvEpsilon && d.Y >= -uvEpsilon
}

// Render draws the UV wireframe of the given depth into a square image.
// V grows upwards, so v=0 is the bottom row.
func Render(s *subd.Subd, depth int32, opt Options) (*image.RGBA, error) {
	if depth < 0 || depth > s.MaxDepth() {
		return nil, fmt.Errorf("depth %d not in [0, %d]: %w", depth, s.MaxDepth(), subd.ErrDepthOutOfRange)
	}
	if opt.Size <= 0 || opt.Supersample <= 0 {
		return nil, fmt.Errorf("invalid raster size %d x%d", opt.Size, opt.Supersample)
	}

	rasterSize := opt.Size * opt.Supersample
	dst := image.NewRGBA(image.Rect(0, 0, rasterSize, rasterSize))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(opt.Background), image.Point{}, draw.Src)

	segments := Segments(s, depth)
	width := opt.LineWidth * float32(opt.Supersample)
	z := vector.NewRasterizer(rasterSize, rasterSize)

	// Seams are drawn last so they stay on top of interior edges.
	for _, pass := range []struct {
		seam bool
		c    color.Color
	}{{false, opt.Edge}, {true, opt.Seam}} {
		z.Reset(rasterSize, rasterSize)
		var drawn bool
		for _, seg := range segments {
			if seg.Seam != pass.seam {
				continue
			}
			strokeSegment(z, toRaster(seg.A, rasterSize), toRaster(seg.B, rasterSize), width)
			drawn = true
		}
		if drawn {
			z.Draw(dst, dst.Bounds(), image.NewUniform(pass.c), image.Point{})
		}
	}

	if opt.Supersample == 1 {
		return dst, nil
	}
	return Downsample(dst, opt.Size), nil
}

func toRaster(uv math.Vec2, size int) math.Vec2 {
	s := float32(size)
	return math.Vec2{X: math.Sat(uv.X) * s, Y: (1 - math.Sat(uv.Y)) * s}
}

// strokeSegment adds a segment as a closed quad. The quad winding does
// not depend on the segment direction, so overlapping strokes never cancel.
func strokeSegment(z *vector.Rasterizer, a, b math.Vec2, width float32) {
	d := b.Sub(a)
	length := d.Length()
	if length == 0 {
		return
	}
	n := math.Vec2{X: -d.Y, Y: d.X}.Scale(0.5 * width / length)
	// Extend both ends by half the width for square caps.
	ext := d.Scale(0.5 * width / length)
	a, b = a.Sub(ext), b.Add(ext)

	z.MoveTo(a.X+n.X, a.Y+n.Y)
	z.LineTo(b.X+n.X, b.Y+n.Y)
	z.LineTo(b.X-n.X, b.Y-n.Y)
	z.LineTo(a.X-n.X, a.Y-n.Y)
	z.ClosePath()
}

// Downsample scales a supersampled raster down to size x size with
// CatmullRom filtering.
func Downsample(src *image.RGBA, size int) *image.RGBA {
	b := src.Bounds()
	if b.Dx() <= size && b.Dy() <= size {
		return src
	}
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}

// Encode writes img in the given format.
func Encode(w io.Writer, img image.Image, format string) error {
	switch format {
	case "png":
		return png.Encode(w, img)
	case "webp":
		return nativewebp.Encode(w, img, nil)
	default:
		return fmt.Errorf("%q: %w", format, ErrUnknownFormat)
	}
}

// Save encodes img to path, creating parent directories. A file that
// fails to encode or flush is removed.
func Save(path string, img image.Image, format string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := Encode(f, img, format); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("%s encode: %w", format, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return err
	}
	return nil
}
