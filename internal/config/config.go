package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/episweep/internal/dynamo"
	"github.com/san-kum/episweep/internal/epi"
	"github.com/san-kum/episweep/internal/sweep"
)

const (
	DefaultIntegrator = "rk45"
	DefaultHorizon    = 365.0
	DefaultSamples    = 730
	DefaultBetaStart  = 0.10
	DefaultBetaStop   = 0.50
	DefaultBetaStep   = 0.01
	DefaultTolerance  = 1e-8
)

type Config struct {
	Model      string     `yaml:"model"`
	Integrator string     `yaml:"integrator"`
	Population float64    `yaml:"population"`
	Gamma      float64    `yaml:"gamma"`
	Sigma      float64    `yaml:"sigma"`
	Alpha      float64    `yaml:"alpha"`
	Beta       BetaConfig `yaml:"beta"`
	Horizon    float64    `yaml:"horizon"`
	Samples    int        `yaml:"samples"`
	Tolerance  float64    `yaml:"tolerance"`
	Output     string     `yaml:"output"`
}

type BetaConfig struct {
	Start float64 `yaml:"start"`
	Stop  float64 `yaml:"stop"`
	Step  float64 `yaml:"step"`
}

func DefaultConfig() *Config {
	return &Config{
		Model:      "seir",
		Integrator: DefaultIntegrator,
		Population: epi.DefaultPopulation,
		Gamma:      epi.DefaultGamma,
		Sigma:      epi.DefaultSigma,
		Alpha:      epi.DefaultAlpha,
		Beta: BetaConfig{
			Start: DefaultBetaStart,
			Stop:  DefaultBetaStop,
			Step:  DefaultBetaStep,
		},
		Horizon:   DefaultHorizon,
		Samples:   DefaultSamples,
		Tolerance: DefaultTolerance,
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

// OutputPath is the HTML document path, <model>-graph.html unless overridden.
func (c *Config) OutputPath() string {
	if c.Output != "" {
		return c.Output
	}
	return fmt.Sprintf("%s-graph.html", c.Model)
}

// SweepConfig translates the file values into a sweep configuration.
func (c *Config) SweepConfig() sweep.Config {
	sc := sweep.DefaultConfig()
	sc.BetaStart = c.Beta.Start
	sc.BetaStop = c.Beta.Stop
	sc.BetaStep = c.Beta.Step
	sc.Horizon = c.Horizon
	sc.Samples = c.Samples
	sc.Solver = dynamo.DefaultConfig()
	sc.Solver.Horizon = c.Horizon
	sc.Solver.Tolerance = c.Tolerance
	return sc
}

// ApplyTo pushes the fixed epidemiological constants onto a model, setting
// only the parameters that model actually declares.
func (c *Config) ApplyTo(m epi.Model) error {
	known := m.GetParams()
	set := func(name string, v float64) error {
		if _, ok := known[name]; !ok {
			return nil
		}
		return m.SetParam(name, v)
	}
	if err := set("N", c.Population); err != nil {
		return err
	}
	if err := set("gamma", c.Gamma); err != nil {
		return err
	}
	if err := set("sigma", c.Sigma); err != nil {
		return err
	}
	return set("alpha", c.Alpha)
}
