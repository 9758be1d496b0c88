package server

import (
	"fmt"
	"time"

	"github.com/pgperffarm/farmplot/internal/chart"
)

// Defaults
const (
	DefaultPort            = 3000
	DefaultDir             = "dist"
	DefaultShutdownTimeout = 5 * time.Second
)

// Config configures the HTTP server.
type Config struct {
	Host            string
	Port            int
	Dir             string // static assets, served for every path but "/"
	ShutdownTimeout time.Duration
	Dimensions      chart.Dimensions
	CacheEntries    int // rendered exports kept in memory
}

// Validate fills in defaults and checks the configuration.
func (c *Config) Validate() error {
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.Dir == "" {
		c.Dir = DefaultDir
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = DefaultShutdownTimeout
	}
	if c.Dimensions == (chart.Dimensions{}) {
		c.Dimensions = chart.DefaultDimensions()
	}
	return c.Dimensions.Validate()
}

// Addr is the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
