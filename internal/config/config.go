// Package config provides configuration loading for the HLO converter.
package config

import (
	configloader "github.com/GabrielNunesIT/go-libs/config-loader"

	"github.com/GabrielNunesIT/hlo-converter/internal/domain"
)

// Config holds the default conversion settings. Command-line flags override them.
type Config struct {
	Output       string `koanf:"output"`
	InputFormat  string `koanf:"input_format"`
	OutputFormat string `koanf:"output_format"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Output:       domain.Stdout,
		InputFormat:  domain.DefaultInputFormat.String(),
		OutputFormat: domain.DefaultOutputFormat.String(),
	}
}

// Load returns the configuration using go-libs config-loader.
// An empty path yields the defaults; otherwise the file's values are layered on top.
func Load(path string) (*Config, error) {
	opts := options(configloader.WithDefaults(Defaults()))

	if path != "" {
		opts = append(opts, configloader.WithFile[Config](path))
	}

	cfg, err := configloader.NewConfigLoader(opts...).Load()
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}

// options collects loader options so the file option can be appended.
func options[O any](opts ...O) []O {
	return opts
}
