// Package config loads service configuration from an optional YAML file with
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds everything both entry points need.
type Config struct {
	Store struct {
		URI        string `yaml:"uri"`
		Database   string `yaml:"database"`
		Collection string `yaml:"collection"`
		TimeoutSec int    `yaml:"timeoutSeconds"`
	} `yaml:"store"`

	HTTP struct {
		Addr string `yaml:"addr"`
	} `yaml:"http"`

	History struct {
		Path string `yaml:"path"`
	} `yaml:"history"`

	// Timezone date phrases like "this month" resolve in.
	Timezone string `yaml:"timezone"`

	// SampleSize caps documents fetched for known-field discovery.
	SampleSize int `yaml:"sampleSize"`

	Debug bool `yaml:"debug"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	var c Config
	c.Store.URI = "mongodb://localhost:27017"
	c.Store.Database = "shipments_db"
	c.Store.Collection = "shipments"
	c.Store.TimeoutSec = 30
	c.HTTP.Addr = ":8080"
	c.History.Path = "shipquery_history.db"
	c.Timezone = "Local"
	c.SampleSize = 50
	return c
}

// Load reads path if it exists, then applies environment overrides. A
// missing file is not an error; a malformed one is.
func Load(path string) (Config, error) {
	c := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// fall through to env overrides
		case err != nil:
			return c, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &c); err != nil {
				return c, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	c.applyEnv()
	return c, nil
}

func (c *Config) applyEnv() {
	setString(&c.Store.URI, "SHIPQUERY_MONGO_URI")
	setString(&c.Store.Database, "SHIPQUERY_DB")
	setString(&c.Store.Collection, "SHIPQUERY_COLLECTION")
	setString(&c.HTTP.Addr, "SHIPQUERY_HTTP_ADDR")
	setString(&c.History.Path, "SHIPQUERY_HISTORY_PATH")
	setString(&c.Timezone, "SHIPQUERY_TZ")
	if v := os.Getenv("SHIPQUERY_SAMPLE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.SampleSize = n
		}
	}
	if v := os.Getenv("SHIPQUERY_DEBUG"); v == "1" || v == "true" {
		c.Debug = true
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// Location resolves the configured timezone, falling back to the process
// local zone for unknown names.
func (c Config) Location() *time.Location {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// Timeout returns the per-action store deadline.
func (c Config) Timeout() time.Duration {
	if c.Store.TimeoutSec <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.Store.TimeoutSec) * time.Second
}
