package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "localhost", cfg.PostgresHost)
	assert.Equal(t, "foodhub_db", cfg.PostgresDB)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, int64(5000), cfg.DeliveryFee)
	assert.Equal(t, 10*time.Second, cfg.RazorpayTimeout)
	assert.False(t, cfg.TracingEnabled)
}

func TestLoad_SecretComesFromEnvironmentOnly(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	// Without the env var the gateway is unconfigured; the server still
	// starts and accepts cash on delivery.
	assert.Empty(t, cfg.RazorpayKeySecret)

	t.Setenv("RAZORPAY_KEY_ID", "rzp_test_key")
	t.Setenv("RAZORPAY_KEY_SECRET", "s3cret")

	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, "rzp_test_key", cfg.RazorpayKeyID)
	assert.Equal(t, "s3cret", cfg.RazorpayKeySecret)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9999")
	t.Setenv("KAFKA_BROKERS", "broker-1:9092,broker-2:9092")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://foodhub.example.com")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 9999, cfg.HTTPPort)
	assert.Equal(t, []string{"broker-1:9092", "broker-2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, []string{"https://foodhub.example.com"}, cfg.CORSAllowedOrigins)
}

func TestPostgresDSN(t *testing.T) {
	cfg := &Config{
		PostgresHost: "db.internal",
		PostgresPort: 5433,
		PostgresUser: "foodhub",
		PostgresPass: "pw",
		PostgresDB:   "foodhub_db",
		PostgresSSL:  "require",
	}

	assert.Equal(t, "postgres://foodhub:pw@db.internal:5433/foodhub_db?sslmode=require", cfg.PostgresDSN())
}
