// Package config provides the defaults file for chroma-matte. Every tunable
// matting parameter can be pinned in a YAML file so repeated invocations
// against the same capture setup don't need to repeat flags.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the tunable matting parameters loaded from YAML.
type Config struct {
	// Chroma parameters shared by the threshold and color-distance methods
	Chroma struct {
		// Color is the nominal chroma key color as a hex string
		Color string `yaml:"color"`

		// HueTolerance is the hue match window in degrees
		HueTolerance float64 `yaml:"hueTolerance"`

		// SaturationMin is the minimum saturation on the 0-255 scale
		SaturationMin float64 `yaml:"saturationMin"`
	} `yaml:"chroma"`

	// Distance parameters for the color-distance matting method
	Distance struct {
		// NearThreshold is the RGB distance to the detected background
		// below which a pixel is fully transparent
		NearThreshold float64 `yaml:"nearThreshold"`

		// FarThreshold is the RGB distance above which a pixel is fully opaque
		FarThreshold float64 `yaml:"farThreshold"`

		// DespillStrength (0-1) controls background color bleed removal
		DespillStrength float64 `yaml:"despillStrength"`
	} `yaml:"distance"`

	// Triangulation parameters for the two-background method
	Triangulation struct {
		// BG1Color is the declared color of the first background
		BG1Color string `yaml:"bg1Color"`

		// BG2Color is the declared color of the second background
		BG2Color string `yaml:"bg2Color"`

		// AlphaThreshold is the noise floor below which alpha snaps to 0
		AlphaThreshold float64 `yaml:"alphaThreshold"`
	} `yaml:"triangulation"`

	// Output parameters applied after alpha computation
	Output struct {
		// BlurSigma is the Gaussian sigma for alpha edge smoothing
		BlurSigma float64 `yaml:"blurSigma"`
	} `yaml:"output"`

	// Segmentation configures the external AI backend
	Segmentation struct {
		// Command is the external segmentation program; it receives a PNG on
		// stdin and must write an RGBA PNG to stdout
		Command string `yaml:"command"`

		// Args are passed to the command verbatim
		Args []string `yaml:"args"`
	} `yaml:"segmentation"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Chroma.Color = "#00FF00"
	cfg.Chroma.HueTolerance = 30
	cfg.Chroma.SaturationMin = 80

	cfg.Distance.NearThreshold = 30
	cfg.Distance.FarThreshold = 120
	cfg.Distance.DespillStrength = 0.8

	cfg.Triangulation.BG1Color = "#FFFFFF"
	cfg.Triangulation.BG2Color = "#000000"
	cfg.Triangulation.AlphaThreshold = 0.01

	cfg.Output.BlurSigma = 0.5

	return cfg
}

// LoadConfig loads configuration from a YAML file, layered over the
// defaults. An empty path returns the defaults unchanged; a missing or
// malformed file is an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}
