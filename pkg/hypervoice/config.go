package hypervoice

import "time"

const DefaultBaseURL = "https://taskagi.net/api/hypervoice/v4"

// Config is copied by New; later changes to the caller's value are not observed.
type Config struct {
	APIKey  string        `yaml:"api_key"`
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

func (c Config) baseURL() string {
	if c.BaseURL == "" {
		return DefaultBaseURL
	}

	return c.BaseURL
}
