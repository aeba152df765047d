package config

import "fmt"

// DefaultUnlockHours is how long an unlock token stays valid, one year.
const DefaultUnlockHours = 24 * 365

// UnlockConfig holds settings for unlock tokens and payment verification.
type UnlockConfig struct {
	Secret          string `yaml:"secret"`
	PaymentSecret   string `yaml:"payment_secret"`
	ExpirationHours int    `yaml:"expiration_hours"`
}

// Enabled reports whether unlock tokens can be issued.
func (c UnlockConfig) Enabled() bool {
	return c.Secret != "" && c.PaymentSecret != ""
}

func (c UnlockConfig) validate() error {
	if c.ExpirationHours < 1 {
		return fmt.Errorf("unlock.expiration_hours must be at least 1 hour, got: %d", c.ExpirationHours)
	}
	if c.Secret != "" && len(c.Secret) < 32 {
		return fmt.Errorf("unlock.secret must be at least 32 bytes")
	}
	return nil
}
