package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dyluth/moot/pkg/council"
)

// MootConfig represents the top-level moot.yml configuration
type MootConfig struct {
	Version  string        `yaml:"version"`
	Analysts []string      `yaml:"analysts"`
	Debate   *DebateConfig `yaml:"debate,omitempty"`
	Model    *ModelConfig  `yaml:"model,omitempty"`
	Redis    *RedisConfig  `yaml:"redis,omitempty"`
}

// DebateConfig bounds the two debate loops. Rounds are full passes over the
// participant cycle, so an investment debate of max_rounds=2 produces four
// transcript entries.
type DebateConfig struct {
	MaxRounds     *int `yaml:"max_rounds,omitempty"`      // Investment debate (bull/bear), default 2
	MaxRiskRounds *int `yaml:"max_risk_rounds,omitempty"` // Risk debate (aggressive/safe/neutral), default 1
}

// ModelConfig specifies the LLM backing the agents
type ModelConfig struct {
	Name          string `yaml:"name,omitempty"`           // Model identifier, default gemini-2.0-flash
	APIKeyEnv     string `yaml:"api_key_env,omitempty"`    // Env var holding the API key, default GEMINI_API_KEY
	InvokeTimeout string `yaml:"invoke_timeout,omitempty"` // Per-invocation timeout (Go duration), default 120s
}

// RedisConfig specifies the optional session store / progress stream
type RedisConfig struct {
	URL      string `yaml:"url,omitempty"`      // e.g. redis://localhost:6379/0; empty disables persistence
	Instance string `yaml:"instance,omitempty"` // Key namespace, default "default"
}

// Validate performs strict validation on the configuration and applies
// defaults for omitted optional sections.
func (c *MootConfig) Validate() error {
	// Required: version
	if c.Version != "1" {
		return fmt.Errorf("unsupported version: %s (expected: 1)", c.Version)
	}

	// Default: all analysts enabled
	if len(c.Analysts) == 0 {
		for _, role := range council.AnalystRoles() {
			c.Analysts = append(c.Analysts, string(role))
		}
	}

	seen := make(map[string]bool)
	for _, name := range c.Analysts {
		role := council.Role(name)
		if !role.IsAnalyst() {
			return fmt.Errorf("unknown analyst role: %q", name)
		}
		if seen[name] {
			return fmt.Errorf("duplicate analyst role: %q", name)
		}
		seen[name] = true
	}

	// Apply default debate config if missing
	if c.Debate == nil {
		c.Debate = &DebateConfig{}
	}
	if c.Debate.MaxRounds == nil {
		defaultRounds := 2
		c.Debate.MaxRounds = &defaultRounds
	}
	if c.Debate.MaxRiskRounds == nil {
		defaultRounds := 1
		c.Debate.MaxRiskRounds = &defaultRounds
	}

	if *c.Debate.MaxRounds < 1 {
		return fmt.Errorf("debate.max_rounds must be >= 1, got %d", *c.Debate.MaxRounds)
	}
	if *c.Debate.MaxRiskRounds < 1 {
		return fmt.Errorf("debate.max_risk_rounds must be >= 1, got %d", *c.Debate.MaxRiskRounds)
	}

	// Apply model defaults
	if c.Model == nil {
		c.Model = &ModelConfig{}
	}
	if c.Model.Name == "" {
		c.Model.Name = "gemini-2.0-flash"
	}
	if c.Model.APIKeyEnv == "" {
		c.Model.APIKeyEnv = "GEMINI_API_KEY"
	}
	if c.Model.InvokeTimeout == "" {
		c.Model.InvokeTimeout = "120s"
	}
	if _, err := time.ParseDuration(c.Model.InvokeTimeout); err != nil {
		return fmt.Errorf("model.invoke_timeout is not a valid duration: %w", err)
	}

	// Apply redis defaults (url stays empty - persistence is opt-in)
	if c.Redis == nil {
		c.Redis = &RedisConfig{}
	}
	if c.Redis.Instance == "" {
		c.Redis.Instance = "default"
	}
	if err := council.ValidateInstanceName(c.Redis.Instance); err != nil {
		return fmt.Errorf("redis.instance: %w", err)
	}

	return nil
}

// EnabledAnalysts returns the configured analyst roles as typed values.
// Only valid after Validate().
func (c *MootConfig) EnabledAnalysts() []council.Role {
	roles := make([]council.Role, 0, len(c.Analysts))
	for _, name := range c.Analysts {
		roles = append(roles, council.Role(name))
	}
	return roles
}

// InvokeTimeout returns the parsed per-invocation timeout.
// Only valid after Validate().
func (c *MootConfig) InvokeTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Model.InvokeTimeout)
	return d
}

// Load reads and validates moot.yml from the specified path
func Load(path string) (*MootConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var config MootConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}
