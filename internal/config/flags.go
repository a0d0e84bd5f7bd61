package config

import (
	"flag"
	"fmt"

	"github.com/Faultbox/ccsubd/pkg/subd"
)

var (
	flagConfig  = flag.String("config", "", "Path to config file")
	flagDebug   = flag.Bool("debug", false, "Enable debug logging")
	flagDepth   = flag.Int("depth", -1, "Maximum subdivision depth")
	flagPreset  = flag.String("preset", "", "Cage preset (cube, quad, pyramid, open-pyramid)")
	flagWorkers = flag.Int("workers", 0, "Refinement goroutines (0 = GOMAXPROCS)")
	flagOut     = flag.String("out", "", "UV map output path")
	flagFormat  = flag.String("format", "", "UV map format (png, webp)")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// Args returns the positional arguments left after flag parsing.
func Args() []string {
	return flag.Args()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config. Integer flags are
// range-checked before they are narrowed.
func applyFlags(cfg *Config) error {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagDepth >= 0 {
		if *flagDepth > subd.MaxDepthLimit {
			return fmt.Errorf("--depth %d not in [0, %d]: %w", *flagDepth, subd.MaxDepthLimit, ErrInvalidConfig)
		}
		cfg.Subdivision.MaxDepth = int32(*flagDepth)
	}
	if *flagPreset != "" {
		cfg.Cage = CageConfig{Preset: *flagPreset}
	}
	if *flagWorkers > 0 {
		cfg.Subdivision.Workers = *flagWorkers
	}
	if *flagOut != "" {
		cfg.Export.Path = *flagOut
	}
	if *flagFormat != "" {
		cfg.Export.Format = *flagFormat
	}
	return nil
}
