// internal/workers/data-access/index-application/config.go
package indexapplication

import "time"

type Config struct {
	Timeout time.Duration
	Index   string
}

func DefaultConfig() *Config {
	return &Config{
		Timeout: 10 * time.Second,
		Index:   "applications",
	}
}
