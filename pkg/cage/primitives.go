package cage

import (
	"errors"
	"fmt"
	"sort"

	"github.com/Faultbox/ccsubd/pkg/math"
)

// ErrUnknownPreset is returned by Preset for unregistered names.
var ErrUnknownPreset = errors.New("unknown cage preset")

// unitSquareUvs is shared by presets that map every face to [0,1]^2.
var unitSquareUvs = []math.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}

var presets = map[string]func() Description{
	"cube":         Cube,
	"quad":         func() Description { return Quad(0) },
	"pyramid":      Pyramid,
	"open-pyramid": OpenPyramid,
}

// PresetNames returns the registered preset names in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Preset returns the description registered under name.
func Preset(name string) (Description, error) {
	fn, ok := presets[name]
	if !ok {
		return Description{}, fmt.Errorf("%q: %w", name, ErrUnknownPreset)
	}
	return fn(), nil
}

// Cube is a closed cube of side 2 centered at the origin. Every face
// carries the full unit UV square.
func Cube() Description {
	faces := [][]int32{
		{0, 3, 2, 1}, // -Z
		{4, 5, 6, 7}, // +Z
		{0, 1, 5, 4}, // -Y
		{1, 2, 6, 5}, // +X
		{2, 3, 7, 6}, // +Y
		{3, 0, 4, 7}, // -X
	}
	faceUvs := make([][]int32, len(faces))
	for i := range faceUvs {
		faceUvs[i] = []int32{0, 1, 2, 3}
	}

	return Description{
		Points: []math.Vec3{
			{X: -1, Y: -1, Z: -1}, {X: 1, Y: -1, Z: -1}, {X: 1, Y: 1, Z: -1}, {X: -1, Y: 1, Z: -1},
			{X: -1, Y: -1, Z: 1}, {X: 1, Y: -1, Z: 1}, {X: 1, Y: 1, Z: 1}, {X: -1, Y: 1, Z: 1},
		},
		Uvs:     append([]math.Vec2(nil), unitSquareUvs...),
		Faces:   faces,
		FaceUvs: faceUvs,
	}
}

// Quad is a single open unit quad whose four border edges form one crease
// loop of the given sharpness.
func Quad(sharpness float32) Description {
	return Description{
		Points: []math.Vec3{
			{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 0}, {X: 0, Y: 1, Z: 0},
		},
		Uvs:     append([]math.Vec2(nil), unitSquareUvs...),
		Faces:   [][]int32{{0, 1, 2, 3}},
		FaceUvs: [][]int32{{0, 1, 2, 3}},
		Creases: []CreaseEdge{
			{V0: 0, V1: 1, Sharpness: sharpness},
			{V0: 1, V1: 2, Sharpness: sharpness},
			{V0: 2, V1: 3, Sharpness: sharpness},
			{V0: 3, V1: 0, Sharpness: sharpness},
		},
	}
}

// Pyramid is a closed square pyramid: one quad base and four triangles.
func Pyramid() Description {
	d := OpenPyramid()
	d.Faces = append([][]int32{{0, 3, 2, 1}}, d.Faces...)
	d.FaceUvs = append([][]int32{{0, 3, 2, 1}}, d.FaceUvs...)
	return d
}

// OpenPyramid is the four triangular sides of a square pyramid. The base
// is left open, so its four edges are boundaries.
func OpenPyramid() Description {
	return Description{
		Points: []math.Vec3{
			{X: -1, Y: -1, Z: 0}, {X: 1, Y: -1, Z: 0}, {X: 1, Y: 1, Z: 0}, {X: -1, Y: 1, Z: 0},
			{X: 0, Y: 0, Z: 1},
		},
		Uvs: []math.Vec2{
			{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1},
			{X: 0.5, Y: 0.5},
		},
		Faces: [][]int32{
			{0, 1, 4},
			{1, 2, 4},
			{2, 3, 4},
			{3, 0, 4},
		},
		FaceUvs: [][]int32{
			{0, 1, 4},
			{1, 2, 4},
			{2, 3, 4},
			{3, 0, 4},
		},
	}
}
