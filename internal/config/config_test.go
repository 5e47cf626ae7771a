package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	domainErrors "github.com/wekeepgrowing/semo-payment-method/internal/domain/errors"
)

const testSecret = "sk_test_config_123"

// isolate points the loader at an empty directory and clears inherited settings.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("CONFIG_PATH", dir)
	t.Setenv("APP_ENV", "test")
	for _, key := range []string{
		"PAYMENT_STRIPE_SECRET_KEY",
		"PAYMENT_STRIPE_SECRET_KEY_FILE",
		"PAYMENT_JWT_SECRET",
		"PAYMENT_SERVER_HTTP_ENABLED",
		"PAYMENT_DATABASE_ENABLED",
		"PAYMENT_REDIS_ENABLED",
	} {
		t.Setenv(key, "")
	}
	return dir
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	isolate(t)
	t.Setenv("PAYMENT_STRIPE_SECRET_KEY", testSecret)
	t.Setenv("PAYMENT_STRIPE_CALL_TIMEOUT", "3s")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, testSecret, cfg.Stripe.SecretKey.Reveal())
	assert.Equal(t, 3*time.Second, cfg.Stripe.CallTimeout)
	assert.Equal(t, 30*time.Second, cfg.Provisioning.Deadline)
	assert.Equal(t, "stripe", cfg.Provisioning.Provider)
	assert.Equal(t, "[::1]:8080", cfg.Server.GRPC.Addr())
	assert.False(t, cfg.Server.HTTP.Enabled)
	assert.False(t, cfg.Database.Enabled)
	assert.Equal(t, "payment_method.events", cfg.Redis.Channel)
}

func TestLoadConfig_FromFile(t *testing.T) {
	dir := isolate(t)
	t.Setenv("PAYMENT_STRIPE_SECRET_KEY", testSecret)
	yaml := `
service:
  name: payment-method-test
server:
  grpc:
    port: 9090
  http:
    enabled: false
stripe:
  api_url: http://localhost:12111
provisioning:
  deadline: 45s
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "payment.yaml"), []byte(yaml), 0o600))

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, "payment-method-test", cfg.Service.Name)
	assert.Equal(t, 9090, cfg.Server.GRPC.Port)
	assert.False(t, cfg.Server.HTTP.Enabled)
	assert.Equal(t, "http://localhost:12111", cfg.Stripe.APIURL)
	assert.Equal(t, 45*time.Second, cfg.Provisioning.Deadline)
	assert.Equal(t, "payment-method-test", cfg.Log.Service)
}

func TestLoadConfig_SecretFile(t *testing.T) {
	dir := isolate(t)
	secretPath := filepath.Join(dir, "stripe_key")
	require.NoError(t, os.WriteFile(secretPath, []byte(testSecret+"\n"), 0o600))
	t.Setenv("PAYMENT_STRIPE_SECRET_KEY_FILE", secretPath)
	t.Setenv("PAYMENT_SERVER_HTTP_ENABLED", "false")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, testSecret, cfg.Stripe.SecretKey.Reveal())
}

func TestLoadConfig_Gateway(t *testing.T) {
	tests := []struct {
		name            string
		env             map[string]string
		expectedEnabled bool
	}{
		{
			name:            "stripe secret alone",
			env:             map[string]string{},
			expectedEnabled: false,
		},
		{
			name: "gateway with jwt secret",
			env: map[string]string{
				"PAYMENT_SERVER_HTTP_ENABLED": "true",
				"PAYMENT_JWT_SECRET":          "jwt-secret",
			},
			expectedEnabled: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			t.Setenv("PAYMENT_STRIPE_SECRET_KEY", testSecret)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := LoadConfig()

			require.NoError(t, err)
			assert.Equal(t, tt.expectedEnabled, cfg.Server.HTTP.Enabled)
		})
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		expectedKey string
	}{
		{
			name:        "missing secret",
			env:         map[string]string{"PAYMENT_SERVER_HTTP_ENABLED": "false"},
			expectedKey: "stripe.secret_key",
		},
		{
			name: "publishable key",
			env: map[string]string{
				"PAYMENT_STRIPE_SECRET_KEY":   "pk_test_123",
				"PAYMENT_SERVER_HTTP_ENABLED": "false",
			},
			expectedKey: "stripe.secret_key",
		},
		{
			name: "unreadable secret file",
			env: map[string]string{
				"PAYMENT_STRIPE_SECRET_KEY_FILE": "/nonexistent/stripe_key",
			},
			expectedKey: "stripe.secret_key_file",
		},
		{
			name: "gateway without jwt secret",
			env: map[string]string{
				"PAYMENT_STRIPE_SECRET_KEY":   testSecret,
				"PAYMENT_SERVER_HTTP_ENABLED": "true",
			},
			expectedKey: "jwt.secret",
		},
		{
			name: "deadline shorter than call timeout",
			env: map[string]string{
				"PAYMENT_STRIPE_SECRET_KEY":     testSecret,
				"PAYMENT_SERVER_HTTP_ENABLED":   "false",
				"PAYMENT_PROVISIONING_DEADLINE": "1s",
			},
			expectedKey: "provisioning.deadline",
		},
		{
			name: "database without host",
			env: map[string]string{
				"PAYMENT_STRIPE_SECRET_KEY":   testSecret,
				"PAYMENT_SERVER_HTTP_ENABLED": "false",
				"PAYMENT_DATABASE_ENABLED":    "true",
			},
			expectedKey: "database.host",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := LoadConfig()

			require.Error(t, err)
			assert.Nil(t, cfg)
			var cfgErr *domainErrors.ConfigurationError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.expectedKey, cfgErr.Key)
		})
	}
}

func TestSecret_NeverRendered(t *testing.T) {
	s := Secret(testSecret)

	assert.Equal(t, "[REDACTED]", s.String())
	assert.Equal(t, "[REDACTED]", fmt.Sprintf("%v", s))
	assert.Equal(t, "[REDACTED]", fmt.Sprintf("%#v", s))
	assert.Equal(t, testSecret, s.Reveal())

	data, err := json.Marshal(StripeConfig{SecretKey: s})
	require.NoError(t, err)
	assert.NotContains(t, string(data), testSecret)

	core, logs := observer.New(zap.InfoLevel)
	zap.New(core).Info("config", zap.Stringer("key", s))
	require.Equal(t, 1, logs.Len())
	for _, v := range logs.All()[0].ContextMap() {
		assert.NotContains(t, fmt.Sprint(v), testSecret)
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := DatabaseConfig{Host: "db", Port: 5432, User: "svc", Password: "pw", Name: "payments", SSLMode: "disable"}

	assert.Equal(t, "host=db port=5432 user=svc password=pw dbname=payments sslmode=disable", cfg.DSN())
}
