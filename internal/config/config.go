package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	domainErrors "github.com/wekeepgrowing/semo-payment-method/internal/domain/errors"
	pkgconfig "github.com/wekeepgrowing/semo-payment-method/pkg/config"
	"github.com/wekeepgrowing/semo-payment-method/pkg/logger"
)

const serviceName = "payment"

type Config struct {
	Service      ServiceConfig
	Server       ServerConfig
	Stripe       StripeConfig
	Provisioning ProvisioningConfig
	Database     DatabaseConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Log          logger.Config
}

// ProvisioningConfig bounds a whole provisioning pipeline run.
type ProvisioningConfig struct {
	Provider string
	Deadline time.Duration
}

type JWTConfig struct {
	Secret Secret
}

var defaults = map[string]interface{}{
	"service.name":               "payment-method",
	"service.environment":        "development",
	"server.grpc.host":           "::1",
	"server.grpc.port":           8080,
	"server.http.host":           "::1",
	"server.http.port":           8081,
	"server.http.enabled":        false,
	"stripe.call_timeout":        "10s",
	"provisioning.provider":      "stripe",
	"provisioning.deadline":      "30s",
	"database.port":              5432,
	"database.max_open_conns":    10,
	"database.max_idle_conns":    5,
	"database.conn_max_lifetime": "30m",
	"redis.channel":              "payment_method.events",
	"log.level":                  "info",
	"log.format":                 "json",
	"log.output":                 "stdout",
}

// LoadConfig reads configs/{APP_ENV}/payment.yaml (if any) overlaid with
// PAYMENT_* environment variables and validates the result.
func LoadConfig() (*Config, error) {
	raw, err := pkgconfig.Load(serviceName, pkgconfig.WithDefaults(defaults))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	cfg, err := fromSource(raw)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func fromSource(src pkgconfig.Config) (*Config, error) {
	cfg := &Config{}

	cfg.Service.Name = src.GetString("service.name")
	cfg.Service.Environment = src.GetString("service.environment")
	cfg.Service.Version = src.GetString("service.version")

	cfg.Server.GRPC.Host = src.GetString("server.grpc.host")
	cfg.Server.GRPC.Port = src.GetInt("server.grpc.port")
	cfg.Server.HTTP.Enabled = src.GetBool("server.http.enabled")
	cfg.Server.HTTP.Host = src.GetString("server.http.host")
	cfg.Server.HTTP.Port = src.GetInt("server.http.port")

	secret, err := readSecret(src.GetString("stripe.secret_key"), src.GetString("stripe.secret_key_file"))
	if err != nil {
		return nil, err
	}
	cfg.Stripe.SecretKey = secret
	cfg.Stripe.APIURL = src.GetString("stripe.api_url")
	cfg.Stripe.CallTimeout = src.GetDuration("stripe.call_timeout")
	cfg.Stripe.TLSCAFile = src.GetString("stripe.tls_ca_file")

	cfg.Provisioning.Provider = src.GetString("provisioning.provider")
	cfg.Provisioning.Deadline = src.GetDuration("provisioning.deadline")

	cfg.Database.Enabled = src.GetBool("database.enabled")
	cfg.Database.Host = src.GetString("database.host")
	cfg.Database.Port = src.GetInt("database.port")
	cfg.Database.Name = src.GetString("database.name")
	cfg.Database.User = src.GetString("database.user")
	cfg.Database.Password = Secret(src.GetString("database.password"))
	cfg.Database.SSLMode = src.GetString("database.sslmode")
	cfg.Database.MaxOpenConns = src.GetInt("database.max_open_conns")
	cfg.Database.MaxIdleConns = src.GetInt("database.max_idle_conns")
	cfg.Database.ConnMaxLifetime = src.GetDuration("database.conn_max_lifetime")

	cfg.Redis.Enabled = src.GetBool("redis.enabled")
	cfg.Redis.Addr = src.GetString("redis.addr")
	cfg.Redis.Password = Secret(src.GetString("redis.password"))
	cfg.Redis.DB = src.GetInt("redis.db")
	cfg.Redis.Channel = src.GetString("redis.channel")

	cfg.JWT.Secret = Secret(src.GetString("jwt.secret"))

	cfg.Log = logger.Config{
		Level:       src.GetString("log.level"),
		Format:      src.GetString("log.format"),
		Output:      src.GetString("log.output"),
		FilePath:    src.GetString("log.file_path"),
		Development: src.GetBool("log.development"),
		Service:     cfg.Service.Name,
	}

	return cfg, nil
}

// readSecret prefers the inline value and falls back to a mounted secret file.
func readSecret(value, file string) (Secret, error) {
	if value != "" {
		return Secret(strings.TrimSpace(value)), nil
	}
	if file == "" {
		return "", nil
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return "", domainErrors.NewConfigurationError("stripe.secret_key_file", "secret file is not readable", err)
	}
	return Secret(strings.TrimSpace(string(data))), nil
}

// Validate checks the settings the service cannot start without.
func (c *Config) Validate() error {
	if c.Stripe.SecretKey == "" {
		return domainErrors.NewConfigurationError("stripe.secret_key", "processor secret key is not configured", nil)
	}
	if !strings.HasPrefix(c.Stripe.SecretKey.Reveal(), "sk_") && !strings.HasPrefix(c.Stripe.SecretKey.Reveal(), "rk_") {
		return domainErrors.NewConfigurationError("stripe.secret_key", "processor secret key has an unexpected format", nil)
	}
	if c.Stripe.CallTimeout <= 0 {
		return domainErrors.NewConfigurationError("stripe.call_timeout", "must be positive", nil)
	}
	if c.Provisioning.Deadline < c.Stripe.CallTimeout {
		return domainErrors.NewConfigurationError("provisioning.deadline", "must not be shorter than stripe.call_timeout", nil)
	}
	if c.Server.GRPC.Port <= 0 || c.Server.GRPC.Port > 65535 {
		return domainErrors.NewConfigurationError("server.grpc.port", "out of range", nil)
	}
	if c.Server.HTTP.Enabled && c.JWT.Secret == "" {
		return domainErrors.NewConfigurationError("jwt.secret", "required when the HTTP gateway is enabled", nil)
	}
	if c.Database.Enabled && c.Database.Host == "" {
		return domainErrors.NewConfigurationError("database.host", "required when database is enabled", nil)
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		return domainErrors.NewConfigurationError("redis.addr", "required when redis is enabled", nil)
	}
	return nil
}
