package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	appDir         = "termtris"
	userFileName   = "config.yaml"
	localFilePath  = "configs/termtris.yaml"
	SourceEmbedded = "embedded"
	SourceBuiltin  = "builtin"
)

// Load loads the game configuration.
// Search order: customPath -> $XDG_CONFIG_HOME/termtris/config.yaml ->
// ~/.termtris/config.yaml -> ./configs/termtris.yaml -> embedded default ->
// hardcoded default. It also returns where the configuration came from.
//
// An explicit customPath must exist and be valid. Files found while searching
// are skipped when they cannot be read or parsed.
func Load(customPath string) (GameConfig, string, error) {
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return GameConfig{}, "", fmt.Errorf("config: cannot read %s: %w", customPath, err)
		}
		cfg, err := Parse(data)
		if err != nil {
			return GameConfig{}, "", fmt.Errorf("config: %s: %w", customPath, err)
		}
		return cfg, customPath, nil
	}

	for _, path := range SearchPaths() {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if cfg, err := Parse(data); err == nil {
			return cfg, path, nil
		}
	}

	// Use embedded default YAML
	if cfg, err := Parse(defaultYAML); err == nil {
		return cfg, SourceEmbedded, nil
	}
	return DefaultGameConfig(), SourceBuiltin, nil // Fallback to hardcoded if embed fails
}

// SearchPaths returns the files Load looks at when no path is given, in order.
func SearchPaths() []string {
	var paths []string
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, appDir, userFileName))
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, "."+appDir, userFileName))
	}
	return append(paths, localFilePath)
}

// Parse decodes YAML over the defaults, applies the difficulty preset if one
// is set, and validates the result. A tick delay table in data replaces the
// default table instead of merging with it.
func Parse(data []byte) (GameConfig, error) {
	cfg := DefaultGameConfig()
	defaultDelays := cfg.Timing.TickDelayMS
	cfg.Timing.TickDelayMS = nil

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return GameConfig{}, fmt.Errorf("cannot parse: %w", err)
	}
	if cfg.Timing.TickDelayMS == nil {
		cfg.Timing.TickDelayMS = defaultDelays
	}
	if cfg.Difficulty.Preset != "" {
		preset, err := ParsePreset(string(cfg.Difficulty.Preset))
		if err != nil {
			return GameConfig{}, err
		}
		ApplyPreset(&cfg, preset)
	}
	if err := cfg.Validate(); err != nil {
		return GameConfig{}, err
	}
	return cfg, nil
}

// Marshal encodes the configuration as YAML.
func Marshal(cfg GameConfig) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("config: cannot encode: %w", err)
	}
	return data, nil
}

// UserConfigPath returns the preferred location for a user config file.
func UserConfigPath() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appDir, userFileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Join(errors.New("config: no home directory"), err)
	}
	return filepath.Join(home, "."+appDir, userFileName), nil
}
