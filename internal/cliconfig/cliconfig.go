// Package cliconfig loads the YAML configuration shared by the command-line tools
package cliconfig

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config is the YAML configuration file of the tools.
// Document AI keys are only read by gdocai.
type Config struct {
	ProjectID   string `yaml:"project_id"`
	Location    string `yaml:"location"`
	ProcessorID string `yaml:"processor_id"`

	LogLevel  string `yaml:"log_level"`  // logrus level name, default "info"
	LogFormat string `yaml:"log_format"` // "text" (default) or "json"
}

// Load reads a YAML configuration file. An empty path gives the defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Logger builds a logger writing to stderr with the configured level and format
func (c *Config) Logger() (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)

	if c.LogLevel != "" {
		level, err := logrus.ParseLevel(c.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("invalid log_level: %w", err)
		}
		logger.SetLevel(level)
	}

	switch c.LogFormat {
	case "", "text":
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, fmt.Errorf("invalid log_format %q: want text or json", c.LogFormat)
	}
	return logger, nil
}
