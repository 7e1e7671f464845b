// Package config holds runtime settings for the Farmlingo CLI and the
// layered loader that populates them.
package config

import "time"

// Config holds runtime settings for the Farmlingo client.
//
// Fields:
//   - APIBaseURL: base URL of the backend; empty means request paths are used
//     as-is (same-origin deployments behind a proxy).
//   - RequestTimeout: hard cutoff for one HTTP call.
//   - TokenTimeout: hard cutoff for one bearer-token fetch.
//   - StateDBPath: path of the local state database.
//   - TokenFile: optional path to an identity-provider session token; when
//     set, `login` reads it instead of prompting.
type Config struct {
	APIBaseURL     string
	RequestTimeout time.Duration
	TokenTimeout   time.Duration
	StateDBPath    string
	TokenFile      string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = ""
	c.RequestTimeout = 15 * time.Second
	c.TokenTimeout = 5 * time.Second
	c.StateDBPath = "farmlingo.db"
	c.TokenFile = ""
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment (including an optional .env file), a JSON file (if one is
// named via -c/-config) and command-line flags. Later sources take precedence
// over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
