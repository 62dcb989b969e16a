// Package config loads the tool configuration and the YAML sheet
// description, and watches the files a tool depends on.
package config

import (
	"fmt"
	"log/slog"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	History HistoryConfig `yaml:"history"`
	Build   BuildConfig   `yaml:"build"`
	Viewer  ViewerConfig  `yaml:"viewer"`
	Watch   WatchConfig   `yaml:"watch"`
	Remote  RemoteConfig  `yaml:"remote"`
	Log     LogConfig     `yaml:"log"`
}

type HistoryConfig struct {
	Limit int `yaml:"limit"`
}

// BuildConfig controls tile tessellation; Workers <= 1 builds serially.
type BuildConfig struct {
	Workers int `yaml:"workers"`
}

type ViewerConfig struct {
	Width      int     `yaml:"width"`
	Height     int     `yaml:"height"`
	Zoom       float64 `yaml:"zoom"`
	PanelWidth int     `yaml:"panel_width"`
}

type WatchConfig struct {
	DebounceMS int `yaml:"debounce_ms"`
}

func (w WatchConfig) Debounce() time.Duration {
	return time.Duration(w.DebounceMS) * time.Millisecond
}

type RemoteConfig struct {
	Addr string `yaml:"addr"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// SlogLevel parses Level, defaulting to info.
func (l LogConfig) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("config: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("config: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// Default returns the embedded configuration.
func Default() (Config, error) {
	return LoadSpec[Config]("")
}

// LoadConfig reads the embedded defaults and overlays the file at path, if
// any. Keys missing from the file keep their default value.
func LoadConfig(path string) (Config, error) {
	cfg, err := Default()
	if err != nil {
		return Config{}, err
	}
	if path == "" {
		return cfg, nil
	}
	data, err := Load(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: load %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal %s: %w", path, err)
	}
	return cfg, nil
}
