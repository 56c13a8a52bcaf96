package cfg

import (
	"errors"
	"fmt"
	"os"
	"time"

	"hypervoice/pkg/hypervoice"
	"hypervoice/pkg/s3client"
	"hypervoice/pkg/slg"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	EnvAPIKey  = "HYPERVOICE_API_KEY"
	EnvBaseURL = "HYPERVOICE_BASE_URL"
	EnvTimeout = "HYPERVOICE_TIMEOUT"
)

type Config struct {
	HyperVoice hypervoice.Config `yaml:"hypervoice"`
	S3         s3client.Config   `yaml:"s3"`
	Log        slg.Config        `yaml:"log"`
}

// Load reads the yaml file at path, if present, and lets the environment
// (including a .env file in the working directory) override the API settings.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := &Config{}

	if cfgFile, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(cfgFile, cfg); err != nil {
			return nil, fmt.Errorf("can't unmarshal %s: %w", path, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("can't open %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if cfg.HyperVoice.APIKey == "" {
		return nil, fmt.Errorf("api key is not set, use hypervoice.api_key or %s", EnvAPIKey)
	}

	return cfg, nil
}

func (c *Config) applyEnv() error {
	if key := os.Getenv(EnvAPIKey); key != "" {
		c.HyperVoice.APIKey = key
	}

	if url := os.Getenv(EnvBaseURL); url != "" {
		c.HyperVoice.BaseURL = url
	}

	if raw := os.Getenv(EnvTimeout); raw != "" {
		timeout, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", EnvTimeout, err)
		}
		c.HyperVoice.Timeout = timeout
	}

	return nil
}
