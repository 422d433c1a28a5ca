// Package config provides unified configuration loading for netform.
// It supports loading from YAML files and environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/collabsim/netform/internal/engine"
	"github.com/collabsim/netform/internal/experiment"
	"github.com/collabsim/netform/internal/pool"
	"github.com/collabsim/netform/internal/rounds"
)

// Config contains all netform experiment settings.
type Config struct {
	// Population is the number of agents per trial.
	Population int `json:"population" yaml:"population"`

	// Resources is the number of resource types ("A", "B", ...).
	Resources int `json:"resources" yaml:"resources"`

	// ResourceRatio is the prevalence multiplier of the high-prevalence
	// resource letters over the low-prevalence ones.
	ResourceRatio float64 `json:"resource_ratio" yaml:"resource_ratio"`

	// ObjectivesPerAgent is the number of objective instances dealt to each
	// agent.
	ObjectivesPerAgent int `json:"objectives_per_agent" yaml:"objectives_per_agent"`

	// ObjectiveRatio is the prevalence multiplier for objective letters.
	ObjectiveRatio float64 `json:"objective_ratio" yaml:"objective_ratio"`

	// Values holds the point values of the two objective tiers.
	Values TierValues `json:"values" yaml:"values"`

	// SocialWeights holds the social-value weights of the two tiers. They
	// default to the point values but can diverge.
	SocialWeights TierValues `json:"social_weights" yaml:"social_weights"`

	// Variants lists the negotiation rule-sets to run, in order.
	Variants []string `json:"variants" yaml:"variants"`

	// Motivations lists the agent metrics to run, in order.
	Motivations []string `json:"motivations" yaml:"motivations"`

	// Trials is the number of Monte-Carlo trials per condition.
	Trials int `json:"trials" yaml:"trials"`

	// Seed is the base RNG seed; every trial derives its own seed from it.
	Seed int64 `json:"seed" yaml:"seed"`

	// MaxRounds caps a trial that fails to converge.
	MaxRounds int `json:"max_rounds" yaml:"max_rounds"`

	// MaxMeetings caps total meetings per trial; 0 means unlimited.
	MaxMeetings int `json:"max_meetings,omitempty" yaml:"max_meetings,omitempty"`

	// AcceptZeroGain makes zero-gain proposals and acceptances qualify.
	AcceptZeroGain bool `json:"accept_zero_gain" yaml:"accept_zero_gain"`

	// Workers caps trial concurrency; 0 means one worker per CPU.
	Workers int `json:"workers,omitempty" yaml:"workers,omitempty"`

	// Logging contains settings for operational logging.
	Logging LoggingConfig `json:"logging" yaml:"logging"`
}

// TierValues carries one number per objective tier.
type TierValues struct {
	High float64 `json:"high" yaml:"high"`
	Low  float64 `json:"low" yaml:"low"`
}

// LoggingConfig configures netform's logging behavior.
type LoggingConfig struct {
	// Level sets the log verbosity: "info" (default), "debug", "warn", or
	// "error". "debug" logs every accepted proposal.
	Level string `json:"level" yaml:"level"`
}

// Default returns the classic study configuration: 16 agents, 4 resources,
// 5 objectives each, 3:1 prevalence ratios, 20/10 tier values, 500 trials
// per condition across all variants and both motivations.
func Default() *Config {
	return &Config{
		Population:         16,
		Resources:          4,
		ResourceRatio:      3,
		ObjectivesPerAgent: 5,
		ObjectiveRatio:     3,
		Values:             TierValues{High: 20, Low: 10},
		SocialWeights:      TierValues{High: 20, Low: 10},
		Variants:           variantNames(),
		Motivations:        motivationNames(),
		Trials:             500,
		Seed:               12345,
		MaxRounds:          1000,
		Logging:            LoggingConfig{Level: "info"},
	}
}

func variantNames() []string {
	vs := engine.Variants()
	names := make([]string, len(vs))
	for i, v := range vs {
		names[i] = string(v)
	}
	return names
}

func motivationNames() []string {
	ms := engine.Motivations()
	names := make([]string, len(ms))
	for i, m := range ms {
		names[i] = string(m)
	}
	return names
}

// Load loads configuration from an optional YAML file and environment
// variables. Order: defaults -> file (when path is non-empty) -> NETFORM_*
// environment variables.
func Load(path string) (*Config, error) {
	config := Default()
	if path != "" {
		fileConfig, err := LoadFromFile(path)
		if err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
		config = fileConfig
	}
	applyEnvOverrides(config)
	return config, nil
}

// LoadFromFile loads configuration from a specific YAML file, on top of the
// defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	return config, nil
}

// Validate checks that the configuration is valid. Pool sizing is checked
// separately by pool.Build; Validate covers everything else.
func (c *Config) Validate() error {
	if len(c.Variants) == 0 {
		return fmt.Errorf("variants must list at least one rule-set")
	}
	for _, v := range c.Variants {
		if _, err := engine.ParseVariant(v); err != nil {
			return err
		}
	}
	if len(c.Motivations) == 0 {
		return fmt.Errorf("motivations must list at least one metric")
	}
	for _, m := range c.Motivations {
		if _, err := engine.ParseMotivation(m); err != nil {
			return err
		}
	}

	if c.Trials < 1 {
		return fmt.Errorf("trials must be at least 1, got %d", c.Trials)
	}
	if c.MaxRounds < 1 {
		return fmt.Errorf("max_rounds must be at least 1, got %d", c.MaxRounds)
	}
	if c.MaxMeetings < 0 {
		return fmt.Errorf("max_meetings must be non-negative, got %d", c.MaxMeetings)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", c.Workers)
	}

	if c.Values.High <= 0 || c.Values.Low <= 0 {
		return fmt.Errorf("tier values must be positive, got high %g low %g", c.Values.High, c.Values.Low)
	}
	if c.Values.High < c.Values.Low {
		return fmt.Errorf("high tier value %g is below low tier value %g", c.Values.High, c.Values.Low)
	}
	if c.SocialWeights.High <= 0 || c.SocialWeights.Low <= 0 {
		return fmt.Errorf("social weights must be positive, got high %g low %g", c.SocialWeights.High, c.SocialWeights.Low)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if c.Logging.Level != "" && !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s (valid: debug, info, warn, error, or empty for default)", c.Logging.Level)
	}

	return nil
}

// PoolSpec converts the configuration into the pool sizing spec.
func (c *Config) PoolSpec() pool.Spec {
	return pool.Spec{
		Population:         c.Population,
		Resources:          c.Resources,
		ResourceRatio:      c.ResourceRatio,
		ObjectivesPerAgent: c.ObjectivesPerAgent,
		ObjectiveRatio:     c.ObjectiveRatio,
		HighValue:          c.Values.High,
		LowValue:           c.Values.Low,
		HighSocialWeight:   c.SocialWeights.High,
		LowSocialWeight:    c.SocialWeights.Low,
	}
}

// Plan converts a validated configuration into an experiment plan. Call
// Validate first; Plan assumes the variant and motivation names parse.
func (c *Config) Plan() experiment.Plan {
	variants := make([]engine.Variant, len(c.Variants))
	for i, v := range c.Variants {
		variants[i], _ = engine.ParseVariant(v)
	}
	motivations := make([]engine.Motivation, len(c.Motivations))
	for i, m := range c.Motivations {
		motivations[i], _ = engine.ParseMotivation(m)
	}
	return experiment.Plan{
		Pool:           c.PoolSpec(),
		Variants:       variants,
		Motivations:    motivations,
		AcceptZeroGain: c.AcceptZeroGain,
		Caps:           rounds.Caps{MaxRounds: c.MaxRounds, MaxMeetings: c.MaxMeetings},
		Trials:         c.Trials,
		Seed:           c.Seed,
		Workers:        c.Workers,
	}
}

// applyEnvOverrides applies NETFORM_* environment variable overrides.
func applyEnvOverrides(config *Config) {
	if v := os.Getenv("NETFORM_SEED"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			config.Seed = n
		}
	}
	if v := os.Getenv("NETFORM_TRIALS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Trials = n
		}
	}
	if v := os.Getenv("NETFORM_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Workers = n
		}
	}
	if v := os.Getenv("NETFORM_VARIANTS"); v != "" {
		config.Variants = splitList(v)
	}
	if v := os.Getenv("NETFORM_MOTIVATIONS"); v != "" {
		config.Motivations = splitList(v)
	}
	if v := os.Getenv("NETFORM_ACCEPT_ZERO_GAIN"); v != "" {
		config.AcceptZeroGain = v == "true" || v == "1"
	}
	if v := os.Getenv("NETFORM_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
