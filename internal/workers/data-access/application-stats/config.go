// internal/workers/data-access/application-stats/config.go
package applicationstats

import "time"

type Config struct {
	Timeout  time.Duration
	CacheTTL time.Duration
}

func DefaultConfig() *Config {
	return &Config{
		Timeout:  10 * time.Second,
		CacheTTL: 60 * time.Second,
	}
}
