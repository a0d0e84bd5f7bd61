// Package config handles ccsubd configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/Faultbox/ccsubd/pkg/cage"
	"github.com/Faultbox/ccsubd/pkg/math"
	"github.com/Faultbox/ccsubd/pkg/subd"
)

// ErrInvalidConfig reports a setting outside its accepted range.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds all tool settings.
type Config struct {
	Subdivision SubdivisionConfig `yaml:"subdivision"`
	Cage        CageConfig        `yaml:"cage"`
	Export      ExportConfig      `yaml:"export"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// SubdivisionConfig holds refinement settings.
type SubdivisionConfig struct {
	MaxDepth      int32         `yaml:"max_depth"`
	Workers       int           `yaml:"workers"`        // 0 = GOMAXPROCS
	RefineTimeout time.Duration `yaml:"refine_timeout"` // 0 = no limit
}

// CageConfig selects the control cage: a named preset, or an inline
// polygon mesh when Faces is not empty.
type CageConfig struct {
	Preset  string         `yaml:"preset"`
	Points  [][3]float32   `yaml:"points,omitempty"`
	Uvs     [][2]float32   `yaml:"uvs,omitempty"`
	Faces   [][]int32      `yaml:"faces,omitempty"`
	FaceUvs [][]int32      `yaml:"face_uvs,omitempty"`
	Creases []CreaseConfig `yaml:"creases,omitempty"`
}

// CreaseConfig marks the edge between two vertices as sharp.
type CreaseConfig struct {
	Edge      [2]int32 `yaml:"edge"`
	Sharpness float32  `yaml:"sharpness"`
}

// ExportConfig holds UV layout export settings.
type ExportConfig struct {
	Path        string  `yaml:"path"`
	Format      string  `yaml:"format"` // png or webp
	Size        int     `yaml:"size"`   // Output width and height in pixels
	LineWidth   float32 `yaml:"line_width"`
	Supersample int     `yaml:"supersample"`
	Depth       int32   `yaml:"depth"` // -1 = max depth
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Subdivision: SubdivisionConfig{
			MaxDepth:      3,
			Workers:       0,
			RefineTimeout: 0,
		},
		Cage: CageConfig{
			Preset: "cube",
		},
		Export: ExportConfig{
			Path:        "uvmap.png",
			Format:      "png",
			Size:        1024,
			LineWidth:   1,
			Supersample: 2,
			Depth:       -1,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate checks value ranges that the loaders cannot express.
func (c *Config) Validate() error {
	if c.Subdivision.MaxDepth < 0 || c.Subdivision.MaxDepth > subd.MaxDepthLimit {
		return fmt.Errorf("subdivision.max_depth %d not in [0, %d]: %w", c.Subdivision.MaxDepth, subd.MaxDepthLimit, ErrInvalidConfig)
	}
	if c.Export.Format != "png" && c.Export.Format != "webp" {
		return fmt.Errorf("export.format %q not png or webp: %w", c.Export.Format, ErrInvalidConfig)
	}
	if c.Export.Size <= 0 || c.Export.Supersample <= 0 {
		return fmt.Errorf("export.size and export.supersample must be positive: %w", ErrInvalidConfig)
	}
	if c.Export.Depth > c.Subdivision.MaxDepth {
		return fmt.Errorf("export.depth %d exceeds max_depth %d: %w", c.Export.Depth, c.Subdivision.MaxDepth, ErrInvalidConfig)
	}
	return nil
}

// ExportDepth resolves the export depth, -1 meaning the deepest level.
func (c *Config) ExportDepth() int32 {
	if c.Export.Depth < 0 {
		return c.Subdivision.MaxDepth
	}
	return c.Export.Depth
}

// Description returns the configured cage as a polygon description.
func (c CageConfig) Description() (cage.Description, error) {
	if len(c.Faces) == 0 {
		return cage.Preset(c.Preset)
	}

	desc := cage.Description{
		Points:  make([]math.Vec3, len(c.Points)),
		Faces:   c.Faces,
		FaceUvs: c.FaceUvs,
	}
	for i, p := range c.Points {
		desc.Points[i] = math.Vec3FromArray(p)
	}
	for _, uv := range c.Uvs {
		desc.Uvs = append(desc.Uvs, math.Vec2{X: uv[0], Y: uv[1]})
	}
	for _, crease := range c.Creases {
		desc.Creases = append(desc.Creases, cage.CreaseEdge{
			V0:        crease.Edge[0],
			V1:        crease.Edge[1],
			Sharpness: crease.Sharpness,
		})
	}
	return desc, nil
}

// Name returns a short label for the configured cage.
func (c CageConfig) Name() string {
	if len(c.Faces) == 0 {
		return c.Preset
	}
	return "inline"
}
