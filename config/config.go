// Package config holds the tool configuration: acquisition constants,
// CT scaling, directories, and the reference-synthesis grid. Values come
// from built-in defaults optionally overridden by a YAML file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ADCConfig holds the shared converter constants used to turn raw codes into
// volts.
type ADCConfig struct {
	VRef    float64 `yaml:"vref"`     // PGA full-scale voltage (V)
	MaxCode int     `yaml:"max_code"` // positive code range
}

// CTConfig holds the current-transformer scaling constant.
type CTConfig struct {
	FullScaleVoltage float64 `yaml:"full_scale_voltage"` // secondary full-scale (V)
}

// ReferenceConfig controls the synthesized reference grid.
type ReferenceConfig struct {
	Duration float64 `yaml:"duration"` // seconds
	Samples  int     `yaml:"samples"`
}

// Config is the complete tool configuration.
type Config struct {
	LogsDir    string  `yaml:"logs_dir"`
	OutputDir  string  `yaml:"output_dir"`
	LogFile    string  `yaml:"log_file"` // rotating run log; empty logs to stderr
	Debug      bool    `yaml:"debug"`
	Percentile float64 `yaml:"percentile"` // peak estimation percentile

	ADC       ADCConfig       `yaml:"adc"`
	CT        CTConfig        `yaml:"ct"`
	Reference ReferenceConfig `yaml:"reference"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LogsDir:    "logs",
		OutputDir:  "output",
		Percentile: 99.5,
		ADC: ADCConfig{
			VRef:    4.096,
			MaxCode: 32768,
		},
		CT: CTConfig{
			FullScaleVoltage: 0.333,
		},
		Reference: ReferenceConfig{
			Duration: 1.0,
			Samples:  10000,
		},
	}
}

// Load returns the defaults overridden by the YAML file at path. An empty
// path returns the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.ADC.VRef <= 0 {
		return fmt.Errorf("adc vref must be > 0: %f", c.ADC.VRef)
	}
	if c.ADC.MaxCode <= 0 {
		return fmt.Errorf("adc max code must be > 0: %d", c.ADC.MaxCode)
	}
	if c.CT.FullScaleVoltage <= 0 {
		return fmt.Errorf("ct full-scale voltage must be > 0: %f", c.CT.FullScaleVoltage)
	}
	if c.Reference.Duration <= 0 {
		return fmt.Errorf("reference duration must be > 0: %f", c.Reference.Duration)
	}
	if c.Reference.Samples <= 0 {
		return fmt.Errorf("reference samples must be > 0: %d", c.Reference.Samples)
	}
	if c.Percentile <= 0 || c.Percentile > 100 {
		return fmt.Errorf("percentile must be in (0,100]: %f", c.Percentile)
	}

	return nil
}
