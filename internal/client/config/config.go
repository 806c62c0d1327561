package config

import (
	"os"
	"time"
)

// Config holds runtime settings for the accounts CLI.
//
// Fields:
//   - ServerEndpointAddr: host:port of the gRPC endpoint.
//   - HTTPEndpointURL: base URL of the HTTP API, used for avatar uploads.
//   - RequestTimeout: deadline applied to every call the CLI makes.
type Config struct {
	ServerEndpointAddr string
	HTTPEndpointURL    string
	RequestTimeout     time.Duration
}

// LoadDefaults populates c with defaults matching a locally started server.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.HTTPEndpointURL = "http://127.0.0.1:44125"
	c.RequestTimeout = 10 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, os.Args[1:])
	parseFlags(cfg, os.Args[1:])
	return cfg
}
