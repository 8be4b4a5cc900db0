// Package config loads user settings from ~/.config/mindmap/config.yaml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"mindmap/internal/export"
	"mindmap/internal/layout"
	"mindmap/internal/viewport"
)

type View struct {
	MinScale         float64 `yaml:"min_scale"`
	MaxScale         float64 `yaml:"max_scale"`
	LerpFactor       float64 `yaml:"lerp_factor"`
	CenterLerpFactor float64 `yaml:"center_lerp_factor"`
	SnapThreshold    float64 `yaml:"snap_threshold"`
	ZoomStep         float64 `yaml:"zoom_step"`
	PinchEpsilon     float64 `yaml:"pinch_epsilon"`
}

type Layout struct {
	VerticalMargin   float64 `yaml:"vertical_margin"`
	HorizontalMargin float64 `yaml:"horizontal_margin"`
	PaddingX         float64 `yaml:"padding_x"`
	PaddingY         float64 `yaml:"padding_y"`
}

type History struct {
	// Limit caps undo entries; 0 keeps everything.
	Limit int `yaml:"limit"`
}

type Autosave struct {
	Enabled  bool          `yaml:"enabled"`
	Debounce time.Duration `yaml:"debounce"`
	Database string        `yaml:"database"`
}

type Drag struct {
	Threshold float64 `yaml:"threshold"`
}

type Config struct {
	SaveDirectory string   `yaml:"save_directory"`
	StartMenu     bool     `yaml:"start_menu"`
	Confirmations bool     `yaml:"confirmations"`
	RecordPan     bool     `yaml:"record_pan"`
	View          View     `yaml:"view"`
	Layout        Layout   `yaml:"layout"`
	History       History  `yaml:"history"`
	Autosave      Autosave `yaml:"autosave"`
	Drag          Drag     `yaml:"drag"`
}

func DefaultConfig() *Config {
	v := viewport.DefaultOptions()
	pad := layout.DefaultPadding()
	return &Config{
		StartMenu:     true,
		Confirmations: true,
		View: View{
			MinScale:         v.MinScale,
			MaxScale:         v.MaxScale,
			LerpFactor:       v.LerpFactor,
			CenterLerpFactor: v.CenterLerpFactor,
			SnapThreshold:    v.SnapThreshold,
			ZoomStep:         v.ZoomStep,
			PinchEpsilon:     v.PinchEpsilon,
		},
		Layout: Layout{
			VerticalMargin:   layout.DefaultVerticalMargin,
			HorizontalMargin: layout.DefaultHorizontalMargin,
			PaddingX:         pad.X,
			PaddingY:         pad.Y,
		},
		Autosave: Autosave{
			Enabled:  true,
			Debounce: 300 * time.Millisecond,
			Database: defaultDatabase(),
		},
		Drag: Drag{Threshold: 5},
	}
}

func configHome() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config")
}

func defaultDatabase() string {
	data := os.Getenv("XDG_DATA_HOME")
	if data == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(os.TempDir(), "mindmap.db")
		}
		data = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(data, "mindmap", "mindmap.db")
}

// Path is the default config file location.
func Path() string {
	return filepath.Join(configHome(), "mindmap", "config.yaml")
}

// Load reads the default config file. A missing file yields the defaults.
func Load() (*Config, error) {
	return LoadFile(Path())
}

// LoadFile reads path over the defaults. Keys absent from the file keep
// their default values.
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	cfg.SaveDirectory = expandPath(cfg.SaveDirectory)
	cfg.Autosave.Database = expandPath(cfg.Autosave.Database)
	return cfg, nil
}

// Save writes cfg to path, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func expandPath(p string) string {
	if p == "" {
		return p
	}
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	if !filepath.IsAbs(p) {
		if abs, err := filepath.Abs(p); err == nil {
			p = abs
		}
	}
	return p
}

// SavePath resolves a file name against SaveDirectory, creating the
// directory on demand. Absolute names are returned unchanged.
func (c *Config) SavePath(filename string) string {
	if c.SaveDirectory == "" || filepath.IsAbs(filename) {
		return filename
	}
	os.MkdirAll(c.SaveDirectory, 0o755)
	return filepath.Join(c.SaveDirectory, filename)
}

func (c *Config) ViewportOptions() viewport.Options {
	return viewport.Options{
		MinScale:         c.View.MinScale,
		MaxScale:         c.View.MaxScale,
		LerpFactor:       c.View.LerpFactor,
		CenterLerpFactor: c.View.CenterLerpFactor,
		SnapThreshold:    c.View.SnapThreshold,
		ZoomStep:         c.View.ZoomStep,
		PinchEpsilon:     c.View.PinchEpsilon,
	}
}

func (c *Config) LayoutOptions() layout.Options {
	return layout.Options{
		VerticalMargin:   c.Layout.VerticalMargin,
		HorizontalMargin: c.Layout.HorizontalMargin,
	}
}

func (c *Config) Padding() layout.Padding {
	return layout.Padding{X: c.Layout.PaddingX, Y: c.Layout.PaddingY}
}

// ExportOptions applies the layout settings to image export. Node padding
// only affects exports; the terminal view pads by one cell.
func (c *Config) ExportOptions() export.Options {
	opts := export.DefaultOptions()
	opts.Layout = c.LayoutOptions()
	opts.NodePadding = c.Padding()
	return opts
}
