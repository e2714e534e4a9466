package config

import (
	"errors"
	"io/fs"
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Environment overrides, applied after the config file
const (
	EnvAddr         = "ROUTEGRAPH_ADDR"
	EnvDBDriver     = "ROUTEGRAPH_DB_DRIVER"
	EnvDBDSN        = "ROUTEGRAPH_DB_DSN"
	EnvOptimizerURL = "ROUTEGRAPH_OPTIMIZER_URL"
)

// dotEnvFile is read from the working directory when present
var dotEnvFile = ".env"

// loadDotEnv loads .env without overriding variables already set
func loadDotEnv() {
	if err := godotenv.Load(dotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("Failed to load %s: %v", dotEnvFile, err)
	}
}

// applyEnv applies ROUTEGRAPH_* overrides on top of file values
func (c *Config) applyEnv() {
	if v := os.Getenv(EnvAddr); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv(EnvDBDriver); v != "" {
		c.Database.Driver = v
	}
	if v := os.Getenv(EnvDBDSN); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv(EnvOptimizerURL); v != "" {
		c.Optimizer.URL = v
		if c.Optimizer.Kind == OptimizerSequential {
			c.Optimizer.Kind = OptimizerRemote
		}
	}
}
