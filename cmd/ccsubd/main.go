// ccsubd is a CLI for building Catmull-Clark subdivision levels from a
// control cage and inspecting the result.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/ccsubd/internal/config"
	"github.com/Faultbox/ccsubd/internal/logger"
	"github.com/Faultbox/ccsubd/internal/uvmap"
	"github.com/Faultbox/ccsubd/pkg/cage"
	"github.com/Faultbox/ccsubd/pkg/subd"
)

func main() {
	config.ParseFlags()
	args := config.Args()

	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	command := args[0]
	args = args[1:]

	switch command {
	case "counts":
		cmdCounts()
	case "stats":
		cmdStats()
	case "uvmap", "uv":
		cmdUVMap()
	case "init":
		cmdInit(args)
	case "presets":
		cmdPresets()
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`ccsubd - Catmull-Clark subdivision toolkit

Usage:
  ccsubd [flags] <command> [args]

Commands:
  counts           Print per-level and cumulative element counts
  stats            Refine the cage, validate every level and print level stats
  uvmap            Refine the cage and export the UV layout as PNG or WebP
  init [path]      Write a default config file
  presets          List built-in cages

Flags:
  --config <path>  Config file (default ./ccsubd.yaml, then user config dir)
  --depth <n>      Maximum subdivision depth
  --preset <name>  Cage preset
  --workers <n>    Refinement goroutines
  --out <path>     UV map output path
  --format <fmt>   UV map format (png, webp)
  --debug          Enable debug logging

Examples:
  ccsubd --preset cube --depth 4 counts
  ccsubd --config bust.yaml stats
  ccsubd --preset open-pyramid --depth 3 --out layout.webp --format webp uvmap`)
}

// setup loads configuration, starts logging and builds the cage.
func setup() (*config.Config, *cage.Mesh) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	logger.Sugar.Debugf("Config: %+v", cfg)

	desc, err := cfg.Cage.Description()
	if err != nil {
		fatal("failed to describe cage", err)
	}
	c, err := cage.Build(desc)
	if err != nil {
		fatal("failed to build cage", err)
	}

	logger.Info("cage built",
		zap.String("cage", cfg.Cage.Name()),
		zap.Int32("vertices", c.VertexCount()),
		zap.Int32("faces", c.FaceCount()),
		zap.Int32("edges", c.EdgeCount()),
		zap.Int32("halfedges", c.HalfedgeCount()),
	)
	return cfg, c
}

func fatal(msg string, err error) {
	logger.Error(msg, zap.Error(err))
	logger.Sync()
	os.Exit(1)
}

// largeHalfedgeCount is the stored halfedge total above which refinement
// warns about memory, roughly 1 GiB of halfedge records.
const largeHalfedgeCount = 1 << 26

// refine allocates and fills every level, honoring the configured timeout
// and Ctrl-C.
func refine(cfg *config.Config, c *cage.Mesh) *subd.Subd {
	s, err := subd.New(c, cfg.Subdivision.MaxDepth)
	if err != nil {
		fatal("failed to allocate subd", err)
	}
	if n := s.CumulativeHalfedgeCount(); n > largeHalfedgeCount {
		logger.Warn("large refinement, expect high memory use",
			logger.Depth(s.MaxDepth()),
			zap.Int32("halfedges", n),
		)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if cfg.Subdivision.RefineTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Subdivision.RefineTimeout)
		defer cancel()
	}

	log := logger.Named("refine")
	start := time.Now()
	if err := s.Refine(ctx, cfg.Subdivision.Workers); err != nil {
		fatal("refinement failed", err)
	}
	log.Info("refined",
		logger.Depth(s.MaxDepth()),
		zap.Int32("halfedges", s.CumulativeHalfedgeCount()),
		zap.Int32("vertices", s.CumulativeVertexCount()),
		zap.Duration("elapsed", time.Since(start)),
	)
	for d := int32(1); d <= s.MaxDepth(); d++ {
		logger.Debug("level",
			logger.Depth(d),
			zap.Int32("faces", subd.FaceCountAtDepth(c, d)),
			zap.Int32("edges", subd.EdgeCountAtDepth(c, d)),
			zap.Int32("vertices", subd.VertexCountAtDepth(c, d)),
		)
	}
	return s
}

func cmdCounts() {
	cfg, c := setup()
	defer logger.Sync()

	maxDepth := cfg.Subdivision.MaxDepth
	if err := subd.CheckCapacity(c, maxDepth); err != nil {
		fatal("depth exceeds capacity", err)
	}

	fmt.Printf("Cage: %s\n", cfg.Cage.Name())
	fmt.Println()
	fmt.Printf("%-6s %12s %12s %12s %12s %12s\n", "Depth", "Faces", "Edges", "Halfedges", "Vertices", "Creases")
	for d := int32(0); d <= maxDepth; d++ {
		fmt.Printf("%-6d %12d %12d %12d %12d %12d\n", d,
			subd.FaceCountAtDepth(c, d),
			subd.EdgeCountAtDepth(c, d),
			subd.HalfedgeCountAtDepth(c, d),
			subd.VertexCountAtDepth(c, d),
			subd.CreaseCountAtDepth(c, d),
		)
	}
	fmt.Println(strings.Repeat("-", 72))
	fmt.Printf("%-6s %12d %12d %12d %12d %12d\n", "Total",
		subd.CumulativeFaceCountAtDepth(c, maxDepth),
		subd.CumulativeEdgeCountAtDepth(c, maxDepth),
		subd.CumulativeHalfedgeCountAtDepth(c, maxDepth),
		subd.CumulativeVertexCountAtDepth(c, maxDepth),
		subd.CumulativeCreaseCountAtDepth(c, maxDepth),
	)
}

func cmdStats() {
	cfg, c := setup()
	defer logger.Sync()

	s := refine(cfg, c)
	defer s.Release()

	if err := s.Validate(); err != nil {
		fatal("validation failed", err)
	}
	logger.Info("all levels valid", logger.Depth(s.MaxDepth()))

	fmt.Printf("Cage: %s\n", cfg.Cage.Name())
	fmt.Println()
	fmt.Printf("%-6s %10s %10s %10s %10s %10s\n", "Depth", "Faces", "Edges", "Vertices", "Boundary", "Sharp")
	for d := int32(0); d <= s.MaxDepth(); d++ {
		l := s.Level(d)
		fmt.Printf("%-6d %10d %10d %10d %10d %10d\n",
			l.Depth, l.Faces, l.Edges, l.Vertices, l.BoundaryHalfedges, l.SharpEdges)
	}
}

func cmdUVMap() {
	cfg, c := setup()
	defer logger.Sync()

	s := refine(cfg, c)
	defer s.Release()

	opt := uvmap.DefaultOptions()
	opt.Size = cfg.Export.Size
	opt.LineWidth = cfg.Export.LineWidth
	opt.Supersample = cfg.Export.Supersample

	depth := cfg.ExportDepth()
	img, err := uvmap.Render(s, depth, opt)
	if err != nil {
		fatal("failed to render uv map", err)
	}

	if err := uvmap.Save(cfg.Export.Path, img, cfg.Export.Format); err != nil {
		fatal("failed to save uv map", err)
	}
	logger.Info("uv map written",
		zap.String("path", cfg.Export.Path),
		zap.String("format", cfg.Export.Format),
		logger.Depth(depth),
		zap.Int("size", cfg.Export.Size),
	)
}

func cmdInit(args []string) {
	path := filepath.Join(config.ConfigDir(), "config.yaml")
	if len(args) > 0 {
		path = args[0]
	}

	if _, err := os.Stat(path); err == nil {
		fmt.Fprintf(os.Stderr, "Error: %s already exists\n", path)
		os.Exit(1)
	}

	cfg := config.Default()
	var err error
	if len(args) > 0 {
		err = cfg.SaveTo(path)
	} else {
		err = cfg.Save()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s\n", path)
}

func cmdPresets() {
	for _, name := range cage.PresetNames() {
		desc, _ := cage.Preset(name)
		fmt.Printf("  %-14s %d vertices, %d faces\n", name, len(desc.Points), len(desc.Faces))
	}
}
