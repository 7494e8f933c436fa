package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the demo tunables, optionally overridden by config.yaml
type Config struct {
	Demo struct {
		Rects     int `yaml:"rects"`
		Queries   int `yaml:"queries"`
		Neighbors int `yaml:"neighbors"`
		WorldSize int `yaml:"world_size"`
		MaxExtent int `yaml:"max_extent"`
	} `yaml:"demo"`
}

func defaultConfig() Config {
	var cfg Config
	cfg.Demo.Rects = 1000000
	cfg.Demo.Queries = 1000
	cfg.Demo.Neighbors = 10
	cfg.Demo.WorldSize = 1000000
	cfg.Demo.MaxExtent = 500
	return cfg
}

// loadConfig reads the YAML config at path, falling back to defaults
// when the file does not exist
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}

	// Guard against zeroed-out fields in a partial config file
	if cfg.Demo.Rects <= 0 {
		cfg.Demo.Rects = defaultConfig().Demo.Rects
	}
	if cfg.Demo.Queries <= 0 {
		cfg.Demo.Queries = defaultConfig().Demo.Queries
	}
	if cfg.Demo.Neighbors <= 0 {
		cfg.Demo.Neighbors = defaultConfig().Demo.Neighbors
	}
	if cfg.Demo.WorldSize <= 0 {
		cfg.Demo.WorldSize = defaultConfig().Demo.WorldSize
	}
	if cfg.Demo.MaxExtent <= 0 {
		cfg.Demo.MaxExtent = defaultConfig().Demo.MaxExtent
	}

	return cfg, nil
}
