package config

import "time"

type ServiceConfig struct {
	Name        string
	Environment string
	Version     string
}

// StripeConfig holds the processor client settings.
type StripeConfig struct {
	SecretKey   Secret
	APIURL      string // empty means the public Stripe API
	CallTimeout time.Duration
	TLSCAFile   string
}

type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password Secret
	DB       int
	Channel  string
}

// Secret is a credential that never renders its value through fmt, zap or JSON.
type Secret string

const redacted = "[REDACTED]"

func (s Secret) String() string {
	if s == "" {
		return ""
	}
	return redacted
}

func (s Secret) GoString() string { return s.String() }

func (s Secret) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

func (s Secret) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Reveal returns the raw value. Only transport code should call it.
func (s Secret) Reveal() string { return string(s) }
