package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Backend names accepted in battle.backend.
const (
	BackendOpenAI = "openai"
	BackendGemini = "gemini"
)

type Config struct {
	Server struct {
		Port           int      `yaml:"port"`
		AllowedOrigins []string `yaml:"allowedOrigins"`
	} `yaml:"server"`

	Openai struct {
		ApiKey string `yaml:"apiKey"`
		Model  string `yaml:"model"`
	} `yaml:"openai"`

	Gemini struct {
		ApiKey string `yaml:"apiKey"`
		Model  string `yaml:"model"`
	} `yaml:"gemini"`

	Battle struct {
		Backend       string `yaml:"backend"`
		DefaultRounds int    `yaml:"defaultRounds"`
		MinRounds     int    `yaml:"minRounds"`
		MaxRounds     int    `yaml:"maxRounds"`
	} `yaml:"battle"`
}

// LoadConfig reads the configuration file. A missing file is not an
// error: defaults apply and API keys can come from the environment, so a
// bare deployment only needs OPENAI_API_KEY set.
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// fall through to defaults
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
		}
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8000
	}
	if c.Battle.DefaultRounds == 0 {
		c.Battle.DefaultRounds = 5
	}
	if c.Battle.MinRounds == 0 {
		c.Battle.MinRounds = 1
	}
	if c.Battle.MaxRounds == 0 {
		c.Battle.MaxRounds = 10
	}
	if c.Openai.ApiKey == "" {
		c.Openai.ApiKey = os.Getenv("OPENAI_API_KEY")
	}
	if c.Gemini.ApiKey == "" {
		c.Gemini.ApiKey = os.Getenv("GEMINI_API_KEY")
	}
}

// ClampRounds applies the configured round bounds to a requested round
// count; zero means "use the default".
func (c *Config) ClampRounds(rounds int) int {
	if rounds == 0 {
		rounds = c.Battle.DefaultRounds
	}
	if rounds < c.Battle.MinRounds {
		return c.Battle.MinRounds
	}
	if rounds > c.Battle.MaxRounds {
		return c.Battle.MaxRounds
	}
	return rounds
}
