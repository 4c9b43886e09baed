package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port       int    `yaml:"port"`
		CorsOrigin string `yaml:"corsOrigin"`
		AdminToken string `yaml:"adminToken"`
	} `yaml:"server"`

	Auth struct {
		// Provider picks the identity backend: "mock" keeps accounts
		// in memory, "cognito" delegates to an AWS user pool.
		Provider string `yaml:"provider"`

		JWT struct {
			Secret        string `yaml:"secret"`
			ExpiryMinutes int    `yaml:"expiryMinutes"`
		} `yaml:"jwt"`

		Cognito struct {
			AppClientId     string `yaml:"appClientId"`
			AppClientSecret string `yaml:"appClientSecret"`
			UserPoolId      string `yaml:"userPoolId"`
			Region          string `yaml:"region"`
		} `yaml:"cognito"`
	} `yaml:"auth"`

	Database struct {
		URI string `yaml:"uri"`
	} `yaml:"database"`

	Store struct {
		// Driver picks the debate-state KV backend: memory, mongo, redis.
		Driver string `yaml:"driver"`

		Redis struct {
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"store"`

	RateLimit struct {
		// MaxMessages per identity per window. Zero disables limiting.
		MaxMessages   int `yaml:"maxMessages"`
		WindowSeconds int `yaml:"windowSeconds"`
	} `yaml:"rateLimit"`
}

// LoadConfig reads the configuration file and applies environment
// overrides for the values that differ between deployments.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}

	applyEnvOverrides(&cfg)
	applyDefaults(&cfg)
	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("ADMIN_TOKEN"); v != "" {
		cfg.Server.AdminToken = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.Auth.JWT.Secret = v
	}
	if v := os.Getenv("MONGODB_URI"); v != "" {
		cfg.Database.URI = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Store.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Store.Redis.Password = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.CorsOrigin == "" {
		cfg.Server.CorsOrigin = "http://localhost:5173"
	}
	if cfg.Auth.Provider == "" {
		cfg.Auth.Provider = "mock"
	}
	if cfg.Auth.JWT.ExpiryMinutes == 0 {
		cfg.Auth.JWT.ExpiryMinutes = 24 * 60
	}
	if cfg.Store.Driver == "" {
		cfg.Store.Driver = "memory"
	}
	if cfg.RateLimit.MaxMessages > 0 && cfg.RateLimit.WindowSeconds == 0 {
		cfg.RateLimit.WindowSeconds = 30
	}
}
