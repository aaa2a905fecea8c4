package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sky-flux/mastery"
	"github.com/sky-flux/mastery/sampler"
)

// RunConfig is the YAML run file read by "estimate --config".
//
//	init: {g: 0.2, s: 0.1, pi: 0.4, l: 0.3, h0: 0.3, h1: 0.2}
//	max_iter: 2000
//	seed: 7
//	strategy: fb
//	workers: 4
//	progress_every: 100
type RunConfig struct {
	Init          map[string]float64 `yaml:"init"`
	MaxIter       int                `yaml:"max_iter"`
	Seed          uint64             `yaml:"seed"`
	Strategy      string             `yaml:"strategy"`
	Workers       int                `yaml:"workers"`
	ProgressEvery int                `yaml:"progress_every"`
}

// LoadRunConfig reads a run file. An empty path returns the zero config.
func LoadRunConfig(path string) (RunConfig, error) {
	var cfg RunConfig
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// SamplerConfig converts the run file into sampler settings.
func (c RunConfig) SamplerConfig() (sampler.Config, error) {
	strategy, err := sampler.StrategyByName(c.Strategy)
	if err != nil {
		return sampler.Config{}, err
	}
	return sampler.Config{
		MaxIter:       c.MaxIter,
		Seed:          c.Seed,
		Strategy:      strategy,
		Workers:       c.Workers,
		ProgressEvery: c.ProgressEvery,
	}, nil
}

// InitialTheta returns the configured starting point, or a moment-based
// guess from learners when the file sets none.
func (c RunConfig) InitialTheta(learners []mastery.Learner) (mastery.Theta, error) {
	if len(c.Init) == 0 {
		return mastery.InitialGuess(learners), nil
	}
	return mastery.ThetaFromMap(c.Init)
}
