// Package config reads the YAML configuration file. Access tokens are
// never stored in the file; each entry names the environment variable
// holding its token.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"
)

// Duration is a time.Duration that unmarshals from strings like "6h".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(b []byte) error {
	var s string
	if err := yaml.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Account pairs a posting identity with the source account it mimics.
type Account struct {
	Name     string `yaml:"name"`
	Server   string `yaml:"server"`
	Source   string `yaml:"source"`
	TokenEnv string `yaml:"token_env"`
	Post     bool   `yaml:"post"`
}

// Token resolves the account's access token from the environment.
func (a *Account) Token() string {
	if a.TokenEnv == "" {
		return ""
	}
	return os.Getenv(a.TokenEnv)
}

// Discord configures the optional channel mirror.
type Discord struct {
	TokenEnv  string `yaml:"token_env"`
	ChannelID string `yaml:"channel_id"`
}

// Config is the on-disk configuration file.
type Config struct {
	CachePath string    `yaml:"cache_path"`
	CacheTTL  Duration  `yaml:"cache_ttl"`
	MaxPosts  int       `yaml:"max_posts"`
	Accounts  []Account `yaml:"accounts"`
	Discord   *Discord  `yaml:"discord"`
}

// Load reads and validates the configuration at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.CachePath == "" {
		c.CachePath = "tootmimic.cache"
	}
	if c.CacheTTL == 0 {
		c.CacheTTL = Duration(6 * time.Hour)
	}
	if c.MaxPosts == 0 {
		c.MaxPosts = 1000
	}
	for i := range c.Accounts {
		if c.Accounts[i].Name == "" {
			c.Accounts[i].Name = c.Accounts[i].Source
		}
	}
}

func (c *Config) validate() error {
	if len(c.Accounts) == 0 {
		return errors.New("no accounts configured")
	}
	for i, a := range c.Accounts {
		if a.Server == "" {
			return fmt.Errorf("account %d: server is required", i)
		}
		if a.Source == "" {
			return fmt.Errorf("account %d: source is required", i)
		}
		if a.Post && a.TokenEnv == "" {
			return fmt.Errorf("account %s: posting requires token_env", a.Name)
		}
	}
	if c.Discord != nil {
		if c.Discord.ChannelID == "" {
			return errors.New("discord: channel_id is required")
		}
		if c.Discord.TokenEnv == "" {
			return errors.New("discord: token_env is required")
		}
	}
	return nil
}
