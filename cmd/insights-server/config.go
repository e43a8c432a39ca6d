package main

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port            int `yaml:"port"`
		ReadTimeoutSec  int `yaml:"readTimeoutSec"`
		WriteTimeoutSec int `yaml:"writeTimeoutSec"`
		IdleTimeoutSec  int `yaml:"idleTimeoutSec"`
		MaxBodyBytes    int `yaml:"maxBodyBytes"`
	} `yaml:"server"`

	CORS struct {
		AllowedOrigins []string `yaml:"allowedOrigins"`
	} `yaml:"cors"`
}

func defaultConfig() Config {
	var cfg Config
	cfg.Server.Port = 8080
	cfg.Server.ReadTimeoutSec = 30
	cfg.Server.WriteTimeoutSec = 60
	cfg.Server.IdleTimeoutSec = 120
	cfg.Server.MaxBodyBytes = 32 << 20
	cfg.CORS.AllowedOrigins = []string{"*"}
	return cfg
}

// Load reads the YAML config at path over the defaults. A missing file is
// fine: the defaults stand, and PORT still overrides from the environment.
func Load(path string) (Config, error) {
	cfg := defaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("config.Load: %w", err)
		}
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config.Load: parse %s: %w", path, err)
	}

	if v := os.Getenv("PORT"); v != "" {
		var port int
		if _, err := fmt.Sscanf(v, "%d", &port); err == nil && port > 0 {
			cfg.Server.Port = port
		}
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Server.MaxBodyBytes <= 0 {
		return errors.New("server.maxBodyBytes must be > 0")
	}
	return nil
}
