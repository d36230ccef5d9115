// Package config resolves service configuration from an optional YAML file
// overlaid by environment variables. Environment always wins, which keeps
// container deployments simple while allowing a checked-in config file for
// local runs.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// File-backed service configuration.
type File struct {
	Port          string `yaml:"port"`
	DatabaseURL   string `yaml:"database_url"`
	RedisAddr     string `yaml:"redis_addr"`
	OracleBackend string `yaml:"oracle_backend"`
	CacheBackend  string `yaml:"cache_backend"`
	CacheTTLHours int    `yaml:"cache_ttl_hours"`
	OracleRPS     int    `yaml:"oracle_rps"`
}

// Load reads a YAML config file. A missing file is not an error; it returns
// a zero File so env lookups provide everything.
func Load(path string) (File, error) {
	var f File

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return f, nil
		}
		return f, fmt.Errorf("load config: read %q: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &f); err != nil {
		return f, fmt.Errorf("load config: parse %q: %w", path, err)
	}

	return f, nil
}

// Get returns the environment value for key, or fallback when unset.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
