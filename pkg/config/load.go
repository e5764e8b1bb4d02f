package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Load reads configuration from the standard config path.
// Search order:
//  1. $PROMPTLINE_CONFIG
//  2. $XDG_CONFIG_HOME/promptline/config.{toml,yaml,yml}
//  3. ~/.config/promptline/config.{toml,yaml,yml}
//
// If no file exists, returns DefaultConfig() with environment overrides
// applied.
func Load() (*Config, error) {
	if p := os.Getenv("PROMPTLINE_CONFIG"); p != "" {
		return LoadFromFile(p)
	}
	for _, p := range configSearchPaths() {
		if _, err := os.Stat(p); err == nil {
			return LoadFromFile(p)
		}
	}
	cfg := DefaultConfig()
	applyEnvOverrides(cfg)
	return cfg, nil
}

// LoadFromFile reads configuration from a specific file path. The format
// follows the extension: .yaml and .yml are YAML, anything else TOML.
func LoadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := DefaultConfig()
			applyEnvOverrides(cfg)
			return cfg, nil
		}
		return nil, fmt.Errorf("config: %w", err)
	}
	defer f.Close()

	load := LoadFromReader
	if isYAML(path) {
		load = LoadFromYAML
	}
	cfg, err := load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Path = path
	return cfg, nil
}

// LoadFromReader reads TOML configuration from an io.Reader. Keys that do
// not correspond to a setting are errors.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := DefaultConfig()
	md, err := toml.NewDecoder(r).Decode(cfg)
	if err != nil {
		return nil, fmt.Errorf("config: parse TOML: %w", err)
	}
	if und := md.Undecoded(); len(und) > 0 {
		return nil, fmt.Errorf("config: unknown key %q", und[0].String())
	}
	applyEnvOverrides(cfg)
	return cfg, nil
}

// LoadFromYAML reads YAML configuration from an io.Reader.
func LoadFromYAML(r io.Reader) (*Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: parse YAML: %w", err)
	}
	applyEnvOverrides(cfg)
	return cfg, nil
}

// DefaultConfig returns the default configuration with sensible defaults.
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		Timeout: Duration{150 * time.Millisecond},
		Preset:  "default",
		Log: LogConfig{
			Level: "error",
		},
		Theme: ThemeConfig{
			Name: "default",
			Dir:  filepath.Join(xdgConfigHome(home), "promptline", "themes"),
		},
		Git: GitConfig{
			ShowUntracked: true,
		},
	}
}

// Encode writes cfg as TOML.
func Encode(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("config: encode TOML: %w", err)
	}
	return nil
}

// EncodeYAML writes cfg as YAML.
func EncodeYAML(w io.Writer, cfg *Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("config: encode YAML: %w", err)
	}
	return enc.Close()
}

// DefaultTOML is the default configuration with the default preset's
// segments spelled out, as written by `promptline init`.
func DefaultTOML() ([]byte, error) {
	cfg := DefaultConfig()
	cfg.Segments = cfg.Specs()
	var buf bytes.Buffer
	if err := Encode(&buf, cfg); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteDefault writes DefaultTOML to path unless a file already exists
// there. It reports whether it wrote the file.
func WriteDefault(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("config: %w", err)
	}
	data, err := DefaultTOML()
	if err != nil {
		return false, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, fmt.Errorf("config: %w", err)
	}
	return true, nil
}

// DefaultPath is where WriteDefault puts a new configuration.
func DefaultPath() string {
	if p := os.Getenv("PROMPTLINE_CONFIG"); p != "" {
		return p
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(xdgConfigHome(home), "promptline", "config.toml")
}

// applyEnvOverrides checks environment variables and overrides config values.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PROMPTLINE_THEME"); v != "" {
		cfg.Theme.Name = v
	}
	if v := os.Getenv("PROMPTLINE_SHELL"); v != "" {
		cfg.Shell = v
	}
	if v := os.Getenv("PROMPTLINE_WIDTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.Width = n
		}
	}
	if v := os.Getenv("PROMPTLINE_LOG"); v != "" {
		cfg.Log.Level = v
	}
}

// configSearchPaths returns the ordered list of config file paths to try.
func configSearchPaths() []string {
	home, _ := os.UserHomeDir()
	dirs := []string{filepath.Join(xdgConfigHome(home), "promptline")}

	// If XDG_CONFIG_HOME was explicitly set, also try the fallback default.
	defaultDir := filepath.Join(home, ".config", "promptline")
	if dirs[0] != defaultDir {
		dirs = append(dirs, defaultDir)
	}

	var paths []string
	for _, d := range dirs {
		for _, name := range []string{"config.toml", "config.yaml", "config.yml"} {
			paths = append(paths, filepath.Join(d, name))
		}
	}
	return paths
}

// xdgConfigHome returns XDG_CONFIG_HOME or ~/.config as fallback.
func xdgConfigHome(home string) string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	return filepath.Join(home, ".config")
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
