package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultDt    = 0.001
	DefaultSteps = 1000
	DefaultBatch = 1
)

// Config describes one compile-and-run invocation.
type Config struct {
	Network string  `yaml:"network"`
	Dt      float64 `yaml:"dt"`
	Steps   int     `yaml:"steps"`
	Unroll  bool    `yaml:"unroll"`
	Batch   int     `yaml:"batch"`
	Seed    int64   `yaml:"seed"`
	Backend string  `yaml:"backend"`
	Passes  int     `yaml:"passes"`
}

func DefaultConfig() *Config {
	return &Config{
		Network: "feedforward",
		Dt:      DefaultDt,
		Steps:   DefaultSteps,
		Batch:   DefaultBatch,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
