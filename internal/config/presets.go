package config

import "sort"

func preset(model string, mutate func(*Config)) *Config {
	cfg := DefaultConfig()
	cfg.Model = model
	if mutate != nil {
		mutate(cfg)
	}
	return cfg
}

var Presets = map[string]map[string]*Config{
	"seir": {
		"baseline": preset("seir", nil),
		"coarse": preset("seir", func(c *Config) {
			c.Beta = BetaConfig{Start: 0.10, Stop: 0.50, Step: 0.05}
		}),
		"wide": preset("seir", func(c *Config) {
			c.Beta = BetaConfig{Start: 0.05, Stop: 0.95, Step: 0.05}
		}),
		"slow-burn": preset("seir", func(c *Config) {
			c.Sigma = 0.1
			c.Horizon = 730
			c.Samples = 1460
		}),
	},
	"sird": {
		"baseline": preset("sird", nil),
		"lethal": preset("sird", func(c *Config) {
			c.Alpha = 0.10
		}),
		"coarse": preset("sird", func(c *Config) {
			c.Beta = BetaConfig{Start: 0.10, Stop: 0.50, Step: 0.05}
		}),
	},
	"sir": {
		"baseline": preset("sir", nil),
		"coarse": preset("sir", func(c *Config) {
			c.Beta = BetaConfig{Start: 0.10, Stop: 0.50, Step: 0.05}
		}),
	},
}

func GetPreset(model, name string) *Config {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	return modelPresets[name]
}

func ListPresets(model string) []string {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(modelPresets))
	for name := range modelPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
