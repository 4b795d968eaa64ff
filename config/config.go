// Package config loads the engine tuning file grimwall.yaml.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const configFileName = "grimwall.yaml"

// Config carries the engine tunables. Zero fields are filled from
// Default at load time, so a map project only states what it overrides.
type Config struct {
	// AssetsDir holds the QOI tile set.
	AssetsDir string `yaml:"assets_dir,omitempty"`
	// StepHeight and PlayerHeight are the mover clearances.
	StepHeight   float64 `yaml:"step_height,omitempty"`
	PlayerHeight float64 `yaml:"player_height,omitempty"`
	// BakeDepth bounds portal hops during the PVS bake.
	BakeDepth int `yaml:"bake_depth,omitempty"`
	// WeldEpsilon is the endpoint distance within which portal detection
	// welds two walls.
	WeldEpsilon float64 `yaml:"weld_epsilon,omitempty"`
}

// Default returns the stock configuration.
func Default() *Config {
	return &Config{
		AssetsDir:    "assets",
		StepHeight:   24,
		PlayerHeight: 56,
		BakeDepth:    32,
		WeldEpsilon:  0.1,
	}
}

// Load reads grimwall.yaml from the given path. A missing file is not an
// error: the defaults apply. Present-but-invalid values are.
func Load(path string) (*Config, error) {
	if path == "" {
		path = configFileName
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	if config.StepHeight < 0 || config.PlayerHeight <= 0 {
		return nil, fmt.Errorf("%s: step_height and player_height must be positive", path)
	}
	if config.BakeDepth <= 0 {
		return nil, fmt.Errorf("%s: bake_depth must be positive", path)
	}
	if config.WeldEpsilon <= 0 {
		return nil, fmt.Errorf("%s: weld_epsilon must be positive", path)
	}
	return config, nil
}
