// internal/workers/simulation/simulate-credit/config.go
package simulatecredit

import (
	"time"

	"origination-workers/internal/credit/decision"
)

type Config struct {
	Timeout             time.Duration
	DownPaymentFraction float64
	MaxTermMonths       int
	Policy              decision.Policy
	CacheTTL            time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout:             10 * time.Second,
		DownPaymentFraction: 0.20,
		MaxTermMonths:       84,
		Policy:              decision.PolicyRequestedScenario,
		CacheTTL:            5 * time.Minute,
	}
}
