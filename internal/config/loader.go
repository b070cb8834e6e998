package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load loads the configuration.
// Search order: customPath -> ~/.fbmandel/config.yaml -> ./configs/fbmandel.yaml -> embedded default
// Values missing from a file keep their defaults. A named region replaces
// the viewport.
func Load(customPath string) (Config, error) {
	cfg := Default()

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return finish(cfg)
	}

	// Try user config directory
	if userCfgPath := userConfigPath("config.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if err := yaml.Unmarshal(data, &cfg); err == nil {
				return finish(cfg)
			}
			cfg = Default()
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", "fbmandel.yaml")); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err == nil {
			return finish(cfg)
		}
		cfg = Default()
	}

	// Use embedded default YAML
	if err := yaml.Unmarshal(defaultYAML, &cfg); err != nil {
		return Default(), nil // Fallback to hardcoded if embed fails
	}
	return finish(cfg)
}

func finish(cfg Config) (Config, error) {
	if cfg.Region != "" {
		if err := ApplyRegion(&cfg, cfg.Region); err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".fbmandel", filename)
}

// ApplyRegion replaces the viewport with a named preset.
func ApplyRegion(cfg *Config, name string) error {
	r, ok := RegionByName(name)
	if !ok {
		return fmt.Errorf("config: unknown region %q", name)
	}
	cfg.Region = r.Name
	cfg.Viewport = r.Viewport
	return nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if len(path) > 1 && path[0] == '~' && path[1] == '/' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
