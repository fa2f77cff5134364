// Package config loads the optional HCL configuration file. Variables
// declared in `variable` blocks are referencable as vars.* in the rest of
// the file and can be overridden through DROVER_VAR_* environment variables.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
)

// Built-in defaults, used when the config file is absent or silent.
const (
	DefaultDocument      = "tasks.json"
	DefaultJournal       = "progress.txt"
	DefaultMaxIterations = 25
	DefaultEngineKind    = "cli"
	DefaultProvider      = "anthropic"
)

type Config struct {
	Variables []Variable
	Agent     *AgentConfig
	Engine    *EngineConfig
	Defaults  *DefaultsConfig
	Storage   *StorageConfig

	// ResolvedVars holds the resolved variable values for runtime use
	ResolvedVars map[string]cty.Value
}

// fileSchema is the gohcl decode target; Config itself carries runtime-only
// fields gohcl must not see.
type fileSchema struct {
	Variables []Variable      `hcl:"variable,block"`
	Agent     *AgentConfig    `hcl:"agent,block"`
	Engine    *EngineConfig   `hcl:"engine,block"`
	Defaults  *DefaultsConfig `hcl:"defaults,block"`
	Storage   *StorageConfig  `hcl:"storage,block"`
}

type Variable struct {
	Name    string `hcl:"name,label"`
	Default string `hcl:"default,optional"`
}

// AgentConfig configures the external agent subprocess used in cli engine
// mode.
type AgentConfig struct {
	Command string   `hcl:"command,optional"`
	Args    []string `hcl:"args,optional"`
	Dir     string   `hcl:"dir,optional"`
}

// EngineConfig selects how sessions run: "cli" spawns the agent binary,
// "api" drives an LLM provider directly.
type EngineConfig struct {
	Kind     string `hcl:"kind,optional"`
	Provider string `hcl:"provider,optional"`
	Model    string `hcl:"model,optional"`
	APIKey   string `hcl:"api_key,optional"`
}

type DefaultsConfig struct {
	Document      string `hcl:"document,optional"`
	Journal       string `hcl:"journal,optional"`
	Prompt        string `hcl:"prompt,optional"`
	MaxIterations int    `hcl:"max_iterations,optional"`
}

type StorageConfig struct {
	Backend string `hcl:"backend,optional"`
	Path    string `hcl:"path,optional"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	cfg := &Config{}
	cfg.fillDefaults()
	return cfg
}

// Load reads an HCL config file. A missing file is not an error; the
// built-in defaults are returned.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parse %s: %w", path, diags)
	}

	varsCtx, resolvedVars, err := buildVarsContext(file.Body)
	if err != nil {
		return nil, fmt.Errorf("resolve variables in %s: %w", path, err)
	}

	var fs fileSchema
	if diags := gohcl.DecodeBody(file.Body, varsCtx, &fs); diags.HasErrors() {
		return nil, fmt.Errorf("decode %s: %w", path, diags)
	}

	cfg := &Config{
		Variables:    fs.Variables,
		Agent:        fs.Agent,
		Engine:       fs.Engine,
		Defaults:     fs.Defaults,
		Storage:      fs.Storage,
		ResolvedVars: resolvedVars,
	}
	cfg.fillDefaults()
	return cfg, nil
}

// LoadAndValidate loads the config and validates all blocks.
func LoadAndValidate(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if err := c.Engine.Validate(); err != nil {
		return fmt.Errorf("engine: %w", err)
	}
	if err := c.Defaults.Validate(); err != nil {
		return fmt.Errorf("defaults: %w", err)
	}
	if err := c.Storage.Validate(); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	return nil
}

func (e *EngineConfig) Validate() error {
	switch e.Kind {
	case "cli":
	case "api":
		switch e.Provider {
		case "anthropic", "openai", "gemini":
		default:
			return fmt.Errorf("unknown provider '%s' (expected anthropic, openai, or gemini)", e.Provider)
		}
		if e.Model == "" {
			return fmt.Errorf("model is required for the api engine")
		}
	default:
		return fmt.Errorf("unknown kind '%s' (expected 'cli' or 'api')", e.Kind)
	}
	return nil
}

// ResolveAPIKey returns the configured key, falling back to the provider's
// conventional environment variable.
func (e *EngineConfig) ResolveAPIKey() string {
	if e.APIKey != "" {
		return e.APIKey
	}
	switch e.Provider {
	case "anthropic":
		return os.Getenv("ANTHROPIC_API_KEY")
	case "openai":
		return os.Getenv("OPENAI_API_KEY")
	case "gemini":
		return os.Getenv("GEMINI_API_KEY")
	}
	return ""
}

func (d *DefaultsConfig) Validate() error {
	if d.MaxIterations < 1 {
		return fmt.Errorf("max_iterations must be at least 1, got %d", d.MaxIterations)
	}
	return nil
}

func (s *StorageConfig) Validate() error {
	switch s.Backend {
	case "memory":
	case "sqlite":
		if s.Path == "" {
			return fmt.Errorf("path is required for the sqlite backend")
		}
	default:
		return fmt.Errorf("unknown backend '%s' (expected 'memory' or 'sqlite')", s.Backend)
	}
	return nil
}

func (c *Config) fillDefaults() {
	if c.Agent == nil {
		c.Agent = &AgentConfig{}
	}
	if c.Agent.Dir == "" {
		c.Agent.Dir = "."
	}

	if c.Engine == nil {
		c.Engine = &EngineConfig{}
	}
	if c.Engine.Kind == "" {
		c.Engine.Kind = DefaultEngineKind
	}
	if c.Engine.Provider == "" {
		c.Engine.Provider = DefaultProvider
	}

	if c.Defaults == nil {
		c.Defaults = &DefaultsConfig{}
	}
	if c.Defaults.Document == "" {
		c.Defaults.Document = DefaultDocument
	}
	if c.Defaults.Journal == "" {
		c.Defaults.Journal = DefaultJournal
	}
	if c.Defaults.MaxIterations == 0 {
		c.Defaults.MaxIterations = DefaultMaxIterations
	}

	if c.Storage == nil {
		c.Storage = &StorageConfig{Backend: "memory"}
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = "memory"
	}
}

// buildVarsContext decodes the variable blocks first so the rest of the file
// can reference them as vars.*.
func buildVarsContext(body hcl.Body) (*hcl.EvalContext, map[string]cty.Value, error) {
	content, _, diags := body.PartialContent(&hcl.BodySchema{
		Blocks: []hcl.BlockHeaderSchema{
			{Type: "variable", LabelNames: []string{"name"}},
		},
	})
	if diags.HasErrors() {
		return nil, nil, diags
	}

	varsMap := make(map[string]cty.Value)
	for _, block := range content.Blocks {
		var v Variable
		v.Name = block.Labels[0]
		if diags := gohcl.DecodeBody(block.Body, nil, &v); diags.HasErrors() {
			return nil, nil, fmt.Errorf("decode variable %s: %w", v.Name, diags)
		}

		value := v.Default
		if env, ok := os.LookupEnv("DROVER_VAR_" + strings.ToUpper(v.Name)); ok {
			value = env
		}
		varsMap[v.Name] = cty.StringVal(value)
	}

	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"vars": cty.ObjectVal(varsMap),
		},
	}, varsMap, nil
}
