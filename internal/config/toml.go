// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file. Nil fields are unset.
type FileConfig struct {
	Analyze AnalyzeConfig `toml:"analyze"`
	History HistoryConfig `toml:"history"`
	Watch   WatchConfig   `toml:"watch"`
	Log     LogConfig     `toml:"log"`
}

// AnalyzeConfig maps defaults for the analyze command.
type AnalyzeConfig struct {
	Format             *string `toml:"format"`
	Markdown           *bool   `toml:"markdown"`
	Save               *bool   `toml:"save"`
	ExcludeProperNouns *bool   `toml:"exclude-proper-nouns"`
	Workers            *int    `toml:"workers"`
}

// HistoryConfig maps defaults for the history browser and report.
type HistoryConfig struct {
	Last   *int `toml:"last"`
	Window *int `toml:"window"`
}

// WatchConfig maps defaults for the watch command.
type WatchConfig struct {
	Debounce *string `toml:"debounce"`
	MaxBatch *int    `toml:"max-batch"`
	Save     *bool   `toml:"save"`
}

type LogConfig struct {
	Level *string `toml:"level"`
	JSON  *bool   `toml:"json"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
