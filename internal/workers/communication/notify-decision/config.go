// internal/workers/communication/notify-decision/config.go
package notifydecision

import "time"

type Config struct {
	Timeout      time.Duration
	AWSRegion    string
	FromEmail    string
	EmailEnabled bool
	SMSEnabled   bool
}

func DefaultConfig() *Config {
	return &Config{
		Timeout:      15 * time.Second,
		AWSRegion:    "us-east-1",
		FromEmail:    "no-reply@origination.local",
		EmailEnabled: true,
		SMSEnabled:   false,
	}
}
