package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Faultbox/ccsubd/pkg/cage"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Subdivision defaults
	if cfg.Subdivision.MaxDepth != 3 {
		t.Errorf("expected max depth 3, got %d", cfg.Subdivision.MaxDepth)
	}
	if cfg.Subdivision.Workers != 0 {
		t.Errorf("expected workers 0, got %d", cfg.Subdivision.Workers)
	}

	// Cage defaults
	if cfg.Cage.Preset != "cube" {
		t.Errorf("expected preset cube, got %s", cfg.Cage.Preset)
	}

	// Export defaults
	if cfg.Export.Format != "png" {
		t.Errorf("expected format png, got %s", cfg.Export.Format)
	}
	if cfg.Export.Size != 1024 {
		t.Errorf("expected size 1024, got %d", cfg.Export.Size)
	}
	if cfg.ExportDepth() != 3 {
		t.Errorf("expected export depth to follow max depth, got %d", cfg.ExportDepth())
	}

	// Logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
subdivision:
  max_depth: 5
  workers: 4
  refine_timeout: 30s

cage:
  points:
    - [0, 0, 0]
    - [1, 0, 0]
    - [1, 1, 0]
    - [0, 1, 0]
  faces:
    - [0, 1, 2, 3]
  creases:
    - edge: [0, 1]
      sharpness: 2

export:
  path: "layout.webp"
  format: webp
  size: 512
  depth: 2

logging:
  level: "debug"
  log_file: "ccsubd.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Subdivision.MaxDepth != 5 {
		t.Errorf("expected max depth 5, got %d", cfg.Subdivision.MaxDepth)
	}
	if cfg.Subdivision.Workers != 4 {
		t.Errorf("expected 4 workers, got %d", cfg.Subdivision.Workers)
	}
	if cfg.Subdivision.RefineTimeout != 30*time.Second {
		t.Errorf("expected timeout 30s, got %v", cfg.Subdivision.RefineTimeout)
	}

	if cfg.Export.Format != "webp" || cfg.Export.Size != 512 {
		t.Errorf("unexpected export settings %+v", cfg.Export)
	}
	// Unset keys keep their defaults
	if cfg.Export.Supersample != 2 {
		t.Errorf("expected supersample default 2, got %d", cfg.Export.Supersample)
	}
	if cfg.ExportDepth() != 2 {
		t.Errorf("expected export depth 2, got %d", cfg.ExportDepth())
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "ccsubd.log" {
		t.Errorf("expected log file 'ccsubd.log', got %s", cfg.Logging.LogFile)
	}

	if cfg.Cage.Name() != "inline" {
		t.Errorf("expected inline cage, got %s", cfg.Cage.Name())
	}
	desc, err := cfg.Cage.Description()
	if err != nil {
		t.Fatalf("Description: %v", err)
	}
	m, err := cage.Build(desc)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if m.FaceCount() != 1 || m.HalfedgeCount() != 4 || m.VertexCount() != 4 {
		t.Errorf("unexpected cage counts F=%d H=%d V=%d", m.FaceCount(), m.HalfedgeCount(), m.VertexCount())
	}

	var sharp int
	for e := int32(0); e < m.CreaseCount(); e++ {
		if m.CreaseSharpness(e) > 0 {
			sharp++
		}
	}
	if sharp != 1 {
		t.Errorf("expected one sharp edge, got %d", sharp)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
subdivision:
  max_depth: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	err := loadFromFile(cfg, configPath)
	if err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileUnknownKey(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "typo.yaml")

	if err := os.WriteFile(configPath, []byte("subdivision:\n  max_dpeth: 4\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error for unknown key, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	err := loadFromFile(cfg, "/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative depth", func(c *Config) { c.Subdivision.MaxDepth = -1 }},
		{"depth above limit", func(c *Config) { c.Subdivision.MaxDepth = 16 }},
		{"unknown format", func(c *Config) { c.Export.Format = "gif" }},
		{"zero size", func(c *Config) { c.Export.Size = 0 }},
		{"zero supersample", func(c *Config) { c.Export.Supersample = 0 }},
		{"export deeper than max", func(c *Config) { c.Export.Depth = 4 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestCageDescriptionPreset(t *testing.T) {
	c := CageConfig{Preset: "pyramid"}
	desc, err := c.Description()
	if err != nil {
		t.Fatalf("Description: %v", err)
	}
	if len(desc.Faces) != 5 {
		t.Errorf("expected 5 pyramid faces, got %d", len(desc.Faces))
	}

	c = CageConfig{Preset: "dodecahedron"}
	if _, err := c.Description(); !errors.Is(err, cage.ErrUnknownPreset) {
		t.Errorf("expected ErrUnknownPreset, got %v", err)
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}

	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)
	t.Setenv("XDG_CONFIG_HOME", tmpDir)
	t.Setenv("HOME", tmpDir)

	// No config file exists - should return empty
	path := findConfigFile()
	if path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	configPath := filepath.Join(tmpDir, "ccsubd.yaml")
	if err := os.WriteFile(configPath, []byte("subdivision:\n  max_depth: 2\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	path = findConfigFile()
	if path == "" {
		t.Error("expected to find ccsubd.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*testing.T, *Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name:  "depth flag",
			setup: func() { *flagDepth = 6 },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Subdivision.MaxDepth != 6 {
					t.Errorf("expected max depth 6, got %d", cfg.Subdivision.MaxDepth)
				}
			},
			teardown: func() { *flagDepth = -1 },
		},
		{
			name:  "preset flag replaces inline cage",
			setup: func() { *flagPreset = "quad" },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Cage.Preset != "quad" || len(cfg.Cage.Faces) != 0 {
					t.Errorf("expected bare quad preset, got %+v", cfg.Cage)
				}
			},
			teardown: func() { *flagPreset = "" },
		},
		{
			name:  "workers flag",
			setup: func() { *flagWorkers = 8 },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Subdivision.Workers != 8 {
					t.Errorf("expected 8 workers, got %d", cfg.Subdivision.Workers)
				}
			},
			teardown: func() { *flagWorkers = 0 },
		},
		{
			name: "out and format flags",
			setup: func() {
				*flagOut = "out.webp"
				*flagFormat = "webp"
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Export.Path != "out.webp" || cfg.Export.Format != "webp" {
					t.Errorf("unexpected export settings %+v", cfg.Export)
				}
			},
			teardown: func() {
				*flagOut = ""
				*flagFormat = ""
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			cfg.Cage.Faces = [][]int32{{0, 1, 2}}
			if err := applyFlags(cfg); err != nil {
				t.Fatalf("applyFlags: %v", err)
			}

			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
subdivision:
  max_depth: 4
  workers: 2
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagDepth = 7
	defer func() {
		*flagConfig = ""
		*flagDepth = -1
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Depth from flag, not file
	if cfg.Subdivision.MaxDepth != 7 {
		t.Errorf("expected max depth 7 from flag, got %d", cfg.Subdivision.MaxDepth)
	}

	// Workers from file since no flag override
	if cfg.Subdivision.Workers != 2 {
		t.Errorf("expected 2 workers from file, got %d", cfg.Subdivision.Workers)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	*flagDepth = 99
	defer func() { *flagDepth = -1 }()

	if _, err := Load(); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestApplyFlagsDepthRange(t *testing.T) {
	// 4294967299 would wrap to 3 if narrowed unchecked.
	for _, depth := range []int{16, 4294967299} {
		*flagDepth = depth
		cfg := Default()
		err := applyFlags(cfg)
		*flagDepth = -1

		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("--depth %d: expected ErrInvalidConfig, got %v", depth, err)
		}
		if cfg.Subdivision.MaxDepth != 3 {
			t.Errorf("--depth %d: max depth changed to %d", depth, cfg.Subdivision.MaxDepth)
		}
	}
}

func TestSave(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)
	t.Setenv("HOME", tmpDir)
	t.Setenv("APPDATA", tmpDir)

	cfg := Default()
	cfg.Export.Format = "webp"
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, filepath.Join(ConfigDir(), "config.yaml")); err != nil {
		t.Fatalf("reloading saved config: %v", err)
	}
	if loaded.Export.Format != "webp" {
		t.Errorf("expected format webp, got %s", loaded.Export.Format)
	}
}

func TestSaveTo(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "nested", "config.yaml")

	cfg := Default()
	cfg.Subdivision.MaxDepth = 6
	cfg.Cage.Preset = "open-pyramid"
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("reloading saved config: %v", err)
	}
	if loaded.Subdivision.MaxDepth != 6 || loaded.Cage.Preset != "open-pyramid" {
		t.Errorf("saved settings not restored: %+v", loaded)
	}
}
