package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server       ServerConfig     `yaml:"server"`
	Automation   AutomationConfig `yaml:"automation"`
	LLM          LLMConfig        `yaml:"llm"`
	Capabilities []string         `yaml:"capabilities"`
}

type ServerConfig struct {
	Host           string   `yaml:"host"`
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	AuthToken      string   `yaml:"auth_token"`
}

type AutomationConfig struct {
	// ScreenshotInterval is the cadence of the per-session telemetry
	// stream. Also used as the retry delay while the agent has no page
	// context yet.
	ScreenshotInterval time.Duration `yaml:"screenshot_interval"`

	// ScreenshotQuality is the JPEG quality (1-100) agent drivers use
	// when encoding telemetry frames.
	ScreenshotQuality int `yaml:"screenshot_quality"`

	InitTimeout time.Duration `yaml:"init_timeout"`
	RunTimeout  time.Duration `yaml:"run_timeout"`

	// FatalErrorSources lists error sources whose failures tear the
	// whole session down instead of leaving it open for further
	// commands.
	FatalErrorSources []string `yaml:"fatal_error_sources"`
}

type LLMConfig struct {
	BaseURL      string        `yaml:"base_url"`
	APIKey       string        `yaml:"api_key"`
	Model        string        `yaml:"model"`
	MaxTokens    int           `yaml:"max_tokens"`
	Temperature  float64       `yaml:"temperature"`
	SystemPrompt string        `yaml:"system_prompt"`
	Timeout      time.Duration `yaml:"timeout"`
}

const defaultSystemPrompt = "You are a helpful AI assistant for LegalEase, " +
	"specializing in legal automation, tax filing, and document processing. " +
	"When users ask about tax filing or automation tasks, guide them " +
	"appropriately. Be concise and helpful."

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8000,
		},
		Automation: AutomationConfig{
			ScreenshotInterval: time.Second,
			ScreenshotQuality:  70,
			InitTimeout:        30 * time.Second,
			RunTimeout:         10 * time.Minute,
			FatalErrorSources:  []string{"agent", "browser"},
		},
		LLM: LLMConfig{
			BaseURL:      "https://api.openai.com/v1",
			Model:        "gpt-3.5-turbo",
			MaxTokens:    200,
			Temperature:  0.7,
			SystemPrompt: defaultSystemPrompt,
			Timeout:      30 * time.Second,
		},
		Capabilities: []string{"tax_filing", "form_filling", "document_processing"},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Default returns the built-in configuration, used when no config file
// is present.
func Default() *Config {
	return defaults()
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.Automation.ScreenshotInterval <= 0 {
		return fmt.Errorf("automation.screenshot_interval must be positive")
	}
	if c.Automation.ScreenshotQuality < 1 || c.Automation.ScreenshotQuality > 100 {
		return fmt.Errorf("automation.screenshot_quality out of range: %d", c.Automation.ScreenshotQuality)
	}
	return nil
}

// IsFatalSource reports whether an error from the given source should
// tear down the session rather than leave it open.
func (c *Config) IsFatalSource(source string) bool {
	for _, s := range c.Automation.FatalErrorSources {
		if s == source {
			return true
		}
	}
	return false
}
