package uvmap

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/Faultbox/ccsubd/pkg/cage"
	"github.com/Faultbox/ccsubd/pkg/subd"
)

func refined(t *testing.T, desc cage.Description, depth int32) *subd.Subd {
	t.Helper()
	c, err := cage.Build(desc)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	s, err := subd.New(c, depth)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := s.Refine(context.Background(), 0); err != nil {
		t.Fatalf("Refine: %v", err)
	}
	return s
}

func countSeams(segments []Segment) (seams, interior int) {
	for _, seg := range segments {
		if seg.Seam {
			seams++
		} else {
			interior++
		}
	}
	return seams, interior
}

func TestSegments(t *testing.T) {
	tests := []struct {
		name         string
		desc         cage.Description
		depth        int32
		wantSeams    int
		wantInterior int
	}{
		{"quad cage", cage.Quad(0), 0, 4, 0},
		{"quad level 1", cage.Quad(0), 1, 8, 4},
		{"quad level 2", cage.Quad(0), 2, 16, 24},
		{"open pyramid cage", cage.OpenPyramid(), 0, 4, 4},
		{"open pyramid level 1", cage.OpenPyramid(), 1, 8, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := refined(t, tt.desc, tt.depth)
			seams, interior := countSeams(Segments(s, tt.depth))
			if seams != tt.wantSeams || interior != tt.wantInterior {
				t.Errorf("seams=%d interior=%d, want %d and %d", seams, interior, tt.wantSeams, tt.wantInterior)
			}
		})
	}
}

func TestSegmentsCubeSeamsComeInPairs(t *testing.T) {
	s := refined(t, cage.Cube(), 1)
	segments := Segments(s, 1)
	seams, interior := countSeams(segments)
	if seams%2 != 0 {
		t.Errorf("closed cage seams should pair up, got %d", seams)
	}
	// Each seam edge contributes two segments, every other edge one.
	edges := int(subd.EdgeCountAtDepth(s.Cage(), 1))
	if seams/2+interior != edges {
		t.Errorf("seams/2 + interior = %d, want %d edges", seams/2+interior, edges)
	}
}

func near(a, b color.Color, tol uint32) bool {
	ar, ag, ab, _ := a.RGBA()
	br, bg, bb, _ := b.RGBA()
	diff := func(x, y uint32) uint32 {
		if x > y {
			return (x - y) >> 8
		}
		return (y - x) >> 8
	}
	return diff(ar, br) <= tol && diff(ag, bg) <= tol && diff(ab, bb) <= tol
}

func TestRender(t *testing.T) {
	s := refined(t, cage.Quad(0), 1)
	opt := DefaultOptions()
	opt.Size = 64
	opt.LineWidth = 2

	img, err := Render(s, 1, opt)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if img.Bounds() != image.Rect(0, 0, 64, 64) {
		t.Fatalf("bounds = %v, want 64x64", img.Bounds())
	}

	// Level 1 splits the unit square along u=0.5 and v=0.5.
	if near(img.At(32, 16), opt.Background, 16) {
		t.Error("expected the vertical split line at (32, 16)")
	}
	if near(img.At(16, 32), opt.Background, 16) {
		t.Error("expected the horizontal split line at (16, 32)")
	}
	if !near(img.At(16, 16), opt.Background, 2) {
		t.Errorf("expected background inside a child face, got %v", img.At(16, 16))
	}
}

func TestRenderWithoutSupersample(t *testing.T) {
	s := refined(t, cage.Quad(0), 0)
	opt := DefaultOptions()
	opt.Size = 32
	opt.Supersample = 1

	img, err := Render(s, 0, opt)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if img.Bounds().Dx() != 32 {
		t.Errorf("width = %d, want 32", img.Bounds().Dx())
	}
	if !near(img.At(16, 16), opt.Background, 0) {
		t.Errorf("expected background at the face center, got %v", img.At(16, 16))
	}
}

func TestRenderDepthOutOfRange(t *testing.T) {
	s := refined(t, cage.Quad(0), 1)
	if _, err := Render(s, 2, DefaultOptions()); !errors.Is(err, subd.ErrDepthOutOfRange) {
		t.Errorf("expected ErrDepthOutOfRange, got %v", err)
	}
}

func TestDownsample(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 8, 8))
	if got := Downsample(src, 16); got != src {
		t.Error("expected no-op when the source is already small enough")
	}
	if got := Downsample(src, 4); got.Bounds().Dx() != 4 {
		t.Errorf("width = %d, want 4", got.Bounds().Dx())
	}
}

func TestEncode(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))

	var buf bytes.Buffer
	if err := Encode(&buf, img, "png"); err != nil {
		t.Fatalf("png: %v", err)
	}
	decoded, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decoding png: %v", err)
	}
	if decoded.Bounds() != img.Bounds() {
		t.Errorf("png bounds = %v", decoded.Bounds())
	}

	buf.Reset()
	if err := Encode(&buf, img, "webp"); err != nil {
		t.Fatalf("webp: %v", err)
	}
	data := buf.Bytes()
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WEBP" {
		t.Error("webp output missing RIFF/WEBP header")
	}

	if err := Encode(&buf, img, "bmp"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("expected ErrUnknownFormat, got %v", err)
	}
}

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "layout.png")
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	if err := Save(path, img, "png"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("saved file missing: %v", err)
	}

	if err := Save(path, img, "tiff"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("expected ErrUnknownFormat, got %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("failed encode left %s behind (stat error %v)", path, err)
	}
}
