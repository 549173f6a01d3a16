package utils

import (
	"os"

	"github.com/hashicorp/go-hclog"
)

// NewLogger builds the root logger. Components take Named children of it.
func NewLogger(cfg Config) hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:       "moviefinder",
		Level:      hclog.LevelFromString(cfg.LogLevel),
		Output:     os.Stderr,
		JSONFormat: cfg.LogJSON,
	})
}
