// Package config loads gateway configuration from a YAML file with
// environment variable overrides. Every field has a sensible default so the
// gateway starts with nothing but a backend URL.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mcp-notegate/notegate/internal/domain/routefilter"
)

// Upstream configures the backend connection.
type Upstream struct {
	BaseURL         string `yaml:"base_url"`
	ServiceEmail    string `yaml:"service_email"`
	ServicePassword string `yaml:"service_password"`
	TokenPath       string `yaml:"token_path"`
	OpenAPIPath     string `yaml:"openapi_path"`
	TimeoutSeconds  int    `yaml:"timeout_seconds"`
}

// Timeout returns the request timeout as a duration.
func (u Upstream) Timeout() time.Duration {
	if u.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(u.TimeoutSeconds) * time.Second
}

// Config is the top-level structure for the YAML file.
type Config struct {
	Listen         string             `yaml:"listen"`
	LogLevel       string             `yaml:"log_level"`
	Upstream       Upstream           `yaml:"upstream"`
	CapabilityDirs []string           `yaml:"capability_dirs"`
	Filter         routefilter.Policy `yaml:"filter"`
}

// Default returns the standard configuration.
func Default() Config {
	return Config{
		Listen:   ":8300",
		LogLevel: "info",
		Upstream: Upstream{
			BaseURL:        "http://localhost:8000",
			TimeoutSeconds: 30,
		},
		CapabilityDirs: []string{"capabilities"},
		Filter:         routefilter.DefaultPolicy(),
	}
}

// Load reads config from path and applies environment overrides. A missing
// file is not an error; defaults plus the environment apply.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return Config{}, fmt.Errorf("read config %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	setString(&c.Listen, "NOTEGATE_LISTEN")
	setString(&c.LogLevel, "NOTEGATE_LOG_LEVEL")
	setString(&c.Upstream.BaseURL, "NOTEGATE_BACKEND_URL")
	setString(&c.Upstream.ServiceEmail, "NOTEGATE_SERVICE_EMAIL")
	setString(&c.Upstream.ServicePassword, "NOTEGATE_SERVICE_PASSWORD")
	setList(&c.CapabilityDirs, "NOTEGATE_CAPABILITY_DIRS")
	setList(&c.Filter.AllowedMethods, "NOTEGATE_ALLOWED_METHODS")
	setList(&c.Filter.BlockedPathPatterns, "NOTEGATE_BLOCKED_PATTERNS")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setList(dst *[]string, key string) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	*dst = out
}
